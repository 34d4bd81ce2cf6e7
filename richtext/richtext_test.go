package richtext

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestAsPlainTextJoinsBlocksWithSpace(t *testing.T) {
	doc := Document{
		{Type: TypeParagraph, Text: "C D"},
		{Type: TypeImage, URL: "https://images.example/a.png"},
		{Type: TypeParagraph, Text: "E"},
	}
	got := NewHTMLFormatter(nil).AsPlainText(doc)
	if got != "C D E" {
		t.Fatalf("AsPlainText = %q, want %q", got, "C D E")
	}
}

func TestAsPlainTextEmpty(t *testing.T) {
	if got := NewHTMLFormatter(nil).AsPlainText(nil); got != "" {
		t.Fatalf("AsPlainText(nil) = %q, want empty", got)
	}
}

func TestAsHTMLBlocks(t *testing.T) {
	tests := []struct {
		name     string
		doc      Document
		expected string
	}{
		{"paragraph", Document{{Type: TypeParagraph, Text: "hello"}}, "<p>hello</p>"},
		{"heading", Document{{Type: TypeHeading3, Text: "Title"}}, "<h3>Title</h3>"},
		{"preformatted", Document{{Type: TypePreformatted, Text: "x := 1"}}, "<pre>x := 1</pre>"},
		{"escape", Document{{Type: TypeParagraph, Text: "<b>&"}}, "<p>&lt;b&gt;&amp;</p>"},
		{"line break", Document{{Type: TypeParagraph, Text: "a\nb"}}, "<p>a<br />b</p>"},
		{"label", Document{{Type: TypeParagraph, Text: "x", Label: "note"}}, `<p class="note">x</p>`},
		{
			"list",
			Document{{Type: TypeListItem, Text: "a"}, {Type: TypeListItem, Text: "b"}, {Type: TypeParagraph, Text: "c"}},
			"<ul><li>a</li><li>b</li></ul><p>c</p>",
		},
		{
			"ordered list then list",
			Document{{Type: TypeOListItem, Text: "1"}, {Type: TypeListItem, Text: "a"}},
			"<ol><li>1</li></ol><ul><li>a</li></ul>",
		},
		{"unknown block", Document{{Type: "table", Text: "x"}}, ""},
	}
	f := NewHTMLFormatter(nil)
	for _, tt := range tests {
		got := f.AsHTML(tt.doc)
		if got != tt.expected {
			t.Errorf("%s: AsHTML = %q, want %q", tt.name, got, tt.expected)
		}
	}
}

func TestAsHTMLSpans(t *testing.T) {
	tests := []struct {
		name     string
		block    Block
		expected string
	}{
		{
			"strong",
			Block{Type: TypeParagraph, Text: "bold text", Spans: []Span{{Start: 0, End: 4, Type: SpanStrong}}},
			"<p><strong>bold</strong> text</p>",
		},
		{
			"nested",
			Block{Type: TypeParagraph, Text: "abcdef", Spans: []Span{
				{Start: 0, End: 6, Type: SpanStrong},
				{Start: 2, End: 4, Type: SpanEm},
			}},
			"<p><strong>ab<em>cd</em>ef</strong></p>",
		},
		{
			"overlapping",
			Block{Type: TypeParagraph, Text: "abcd", Spans: []Span{
				{Start: 0, End: 3, Type: SpanStrong},
				{Start: 2, End: 4, Type: SpanEm},
			}},
			"<p><strong>ab<em>c</em></strong><em>d</em></p>",
		},
		{
			"web link",
			Block{Type: TypeParagraph, Text: "go here", Spans: []Span{
				{Start: 3, End: 7, Type: SpanHyperlink, Data: &Link{LinkType: "Web", URL: "https://example.com", Target: "_blank"}},
			}},
			`<p>go <a href="https://example.com" target="_blank" rel="noopener">here</a></p>`,
		},
		{
			"document link",
			Block{Type: TypeParagraph, Text: "next", Spans: []Span{
				{Start: 0, End: 4, Type: SpanHyperlink, Data: &Link{LinkType: "Document", Type: "posts", UID: "como-utilizar-hooks"}},
			}},
			`<p><a href="/post/como-utilizar-hooks">next</a></p>`,
		},
		{
			"unsafe link",
			Block{Type: TypeParagraph, Text: "x", Spans: []Span{
				{Start: 0, End: 1, Type: SpanHyperlink, Data: &Link{LinkType: "Web", URL: "javascript:alert(1)"}},
			}},
			"<p><span>x</span></p>",
		},
		{
			"out of range clamped",
			Block{Type: TypeParagraph, Text: "abc", Spans: []Span{{Start: 1, End: 99, Type: SpanEm}}},
			"<p>a<em>bc</em></p>",
		},
		{
			"utf16 offsets",
			Block{Type: TypeParagraph, Text: "é😀x", Spans: []Span{{Start: 1, End: 3, Type: SpanStrong}}},
			"<p>é<strong>😀</strong>x</p>",
		},
	}
	f := NewHTMLFormatter(nil)
	for _, tt := range tests {
		got := f.AsHTML(Document{tt.block})
		if got != tt.expected {
			t.Errorf("%s: AsHTML = %q, want %q", tt.name, got, tt.expected)
		}
	}
}

func TestAsHTMLImageAndEmbed(t *testing.T) {
	doc := Document{
		{Type: TypeImage, URL: "https://images.prismic.io/x.png", Alt: "a \"b\"", Dimensions: &Dimensions{Width: 800, Height: 600}},
		{Type: TypeEmbed, OEmbed: &OEmbed{Type: "video", EmbedURL: "https://youtu.be/x", ProviderName: "YouTube", HTML: "<iframe></iframe>"}},
	}
	got := NewHTMLFormatter(nil).AsHTML(doc)
	if !strings.Contains(got, `<p class="block-img"><img src="https://images.prismic.io/x.png" alt="a &#34;b&#34;" width="800" height="600" loading="lazy" /></p>`) {
		t.Errorf("image markup missing: %q", got)
	}
	if !strings.Contains(got, `<div data-oembed="https://youtu.be/x" data-oembed-type="video" data-oembed-provider="youtube"><iframe></iframe></div>`) {
		t.Errorf("embed markup missing: %q", got)
	}
}

func TestDecodeDocument(t *testing.T) {
	raw := `[{"type":"paragraph","text":"Olá mundo","spans":[{"start":0,"end":3,"type":"strong"}]}]`
	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc) != 1 || doc[0].Type != TypeParagraph || len(doc[0].Spans) != 1 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if got := NewHTMLFormatter(nil).AsHTML(doc); got != "<p><strong>Olá</strong> mundo</p>" {
		t.Fatalf("AsHTML = %q", got)
	}
}
