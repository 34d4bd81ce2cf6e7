package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func render(t *testing.T, cmp templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := cmp.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	return buf.String()
}

func samplePage() PostPage {
	return PostPage{
		Post: &PostData{
			UID:            "criando-um-app-cra-do-zero",
			Title:          "Criando um app CRA do zero",
			Author:         "Joseph Oliveira",
			BannerURL:      "https://images.prismic.io/banner.png",
			PublishedOn:    "15 mar 2021",
			ReadingMinutes: 4,
			Sections: []Section{
				{Heading: "Proin et varius", HTML: "<p>Lorem <strong>ipsum</strong></p>"},
				{Heading: "Cras laoreet", HTML: "<p>dolor</p>"},
			},
		},
		Prev: &Link{Title: "Como utilizar Hooks", Href: "/post/como-utilizar-hooks"},
	}
}

func TestPostBodyFallbackIsOnlyPlaceholder(t *testing.T) {
	page := samplePage()
	page.Fallback = true
	page.Preview = true
	got := render(t, PostBody(page))
	if got != "<div>Carregando...</div>" {
		t.Fatalf("fallback output = %q", got)
	}
}

func TestPostBodyWithoutPostIsEmpty(t *testing.T) {
	got := render(t, PostBody(PostPage{Preview: true}))
	if got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestPostBodyContent(t *testing.T) {
	got := render(t, PostBody(samplePage()))
	wants := []string{
		`<img src="https://images.prismic.io/banner.png" alt="banner">`,
		"<h1>Criando um app CRA do zero</h1>",
		"15 mar 2021",
		"Joseph Oliveira",
		"4 min",
		"<h2>Proin et varius</h2>",
		"<div><p>Lorem <strong>ipsum</strong></p></div>",
		"<h2>Cras laoreet</h2>",
		`<a href="/post/como-utilizar-hooks"><strong>Como utilizar Hooks</strong><p>Post anterior</p></a>`,
		`id="inject-comments-for-uterances"`,
	}
	for _, w := range wants {
		if !strings.Contains(got, w) {
			t.Errorf("output missing %q", w)
		}
	}
	if strings.Contains(got, "Próximo post") {
		t.Error("next link rendered without a next post")
	}
	if strings.Contains(got, "editado em") {
		t.Error("edited note rendered for a never edited post")
	}
	if strings.Index(got, "postsLinksContainer") > strings.Index(got, CommentsAnchorID) {
		t.Error("comment widget should be mounted below the navigation")
	}
}

func TestPostBodyEditedNote(t *testing.T) {
	page := samplePage()
	page.Post.EditedNote = "*editado em 19 mar 2021 às 15:49"
	got := render(t, PostBody(page))
	if !strings.Contains(got, "*editado em 19 mar 2021 às 15:49") {
		t.Errorf("edited note missing: %q", got)
	}
}

func TestPostBodyPreviewLink(t *testing.T) {
	page := samplePage()
	if strings.Contains(render(t, PostBody(page)), "/api/exit-preview") {
		t.Error("exit preview link rendered outside preview mode")
	}
	page.Preview = true
	got := render(t, PostBody(page))
	if !strings.Contains(got, `<a href="/api/exit-preview">Sair do modo Preview</a>`) {
		t.Errorf("exit preview link missing: %q", got)
	}
}

func TestPostBodyEscapesText(t *testing.T) {
	page := samplePage()
	page.Post.Title = "<script>x</script>"
	got := render(t, PostBody(page))
	if strings.Contains(got, "<script>x</script>") {
		t.Error("title was not escaped")
	}
}

func TestCommentsScriptAttributes(t *testing.T) {
	got := render(t, Comments("a"))
	wants := []string{
		`src="https://utteranc.es/client.js"`,
		`crossorigin="anonymous"`,
		" async",
		`repo="gRossales/desafio06-trilha-reactjs"`,
		`issue-term="pathname"`,
		`theme="dark-blue"`,
	}
	for _, w := range wants {
		if !strings.Contains(got, w) {
			t.Errorf("comments missing %q in %q", w, got)
		}
	}
}

func TestCommentsOncePerPage(t *testing.T) {
	ctx := WithWidgetGuard(context.Background())
	var buf bytes.Buffer
	for i := 0; i < 2; i++ {
		if err := Comments("same-post").Render(ctx, &buf); err != nil {
			t.Fatalf("render failed: %v", err)
		}
	}
	if n := strings.Count(buf.String(), "<script"); n != 1 {
		t.Fatalf("script rendered %d times, want 1", n)
	}
	if err := Comments("other-post").Render(ctx, &buf); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if n := strings.Count(buf.String(), "<script"); n != 2 {
		t.Fatalf("script rendered %d times, want 2", n)
	}
}

func TestPostPageFallbackRefreshes(t *testing.T) {
	got := render(t, Post(SiteConfig{Name: "spacetraveling"}, PageMeta{Title: "x"}, PostPage{Fallback: true}))
	if !strings.Contains(got, `<meta http-equiv="refresh" content="2">`) {
		t.Errorf("fallback page should refresh: %q", got)
	}
	if !strings.Contains(got, "<main><div>Carregando...</div></main>") {
		t.Errorf("fallback body missing: %q", got)
	}
}

func TestPostPageLayout(t *testing.T) {
	cfg := SiteConfig{Name: "spacetraveling", URL: "https://blog.example"}
	meta := PageMeta{
		Title:  "Criando um app | spacetraveling",
		URL:    "https://blog.example/post/x",
		OGType: "article",
		JSONLD: `{"@type":"BlogPosting"}`,
	}
	got := render(t, Post(cfg, meta, samplePage()))
	wants := []string{
		"<title>Criando um app | spacetraveling</title>",
		`<link rel="canonical" href="https://blog.example/post/x">`,
		`<script type="application/ld+json">{"@type":"BlogPosting"}</script>`,
		`<meta property="og:type" content="article">`,
	}
	for _, w := range wants {
		if !strings.Contains(got, w) {
			t.Errorf("layout missing %q", w)
		}
	}
	if strings.Contains(got, "http-equiv") {
		t.Error("generated page should not refresh")
	}
	if n := strings.Count(got, "<script src="); n != 1 {
		t.Errorf("comment script rendered %d times, want 1", n)
	}
}

func TestHomeListing(t *testing.T) {
	page := HomePage{
		Posts: []PostSummary{
			{Title: "A", Subtitle: "sub", Author: "me", PublishedOn: "15 mar 2021", Href: "/post/a"},
		},
		NextPage: "/?page=2",
	}
	got := render(t, Home(SiteConfig{Name: "spacetraveling"}, page))
	if !strings.Contains(got, `<a class="post" href="/post/a">`) {
		t.Errorf("post entry missing: %q", got)
	}
	if !strings.Contains(got, `<a class="loadMore" href="/?page=2">Carregar mais posts</a>`) {
		t.Errorf("load more link missing: %q", got)
	}
}
