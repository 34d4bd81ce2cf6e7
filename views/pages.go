package views

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templateFS embed.FS

var tmpl = template.Must(template.New("views").Funcs(template.FuncMap{
	"trusted": func(s string) template.HTML { return template.HTML(s) },
}).ParseFS(templateFS, "templates/*.html"))

// LoadingText is shown while a page that was never generated is produced.
const LoadingText = "Carregando..."

// fallbackRefresh is how often the loading page polls for the generated page.
const fallbackRefresh = 2

type layoutData struct {
	Site   SiteConfig
	Meta   PageMeta
	JSONLD template.JS
	Body   template.HTML
}

type postData struct {
	PostPage
	Comments template.HTML
}

func execute(w io.Writer, name string, data any) error {
	return tmpl.ExecuteTemplate(w, name, data)
}

func renderHTML(ctx context.Context, cmp templ.Component) (template.HTML, error) {
	var buf bytes.Buffer
	if err := cmp.Render(ctx, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Layout wraps body in the HTML document shell.
func Layout(cfg SiteConfig, meta PageMeta, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ctx = WithWidgetGuard(ctx)
		html, err := renderHTML(ctx, body)
		if err != nil {
			return err
		}
		if meta.OGType == "" {
			meta.OGType = "website"
		}
		return execute(w, "layout", layoutData{
			Site:   cfg,
			Meta:   meta,
			JSONLD: template.JS(meta.JSONLD),
			Body:   html,
		})
	})
}

// PostBody renders the post detail markup: the loading placeholder while
// falling back, nothing without a post, otherwise the article with its
// navigation, comment widget and preview exit link.
func PostBody(page PostPage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		data := postData{PostPage: page}
		if !page.Fallback && page.Post != nil {
			ctx = WithWidgetGuard(ctx)
			comments, err := renderHTML(ctx, Comments(page.Post.UID))
			if err != nil {
				return err
			}
			data.Comments = comments
		}
		return execute(w, "post", data)
	})
}

// Post renders the full post page.
func Post(cfg SiteConfig, meta PageMeta, page PostPage) templ.Component {
	if page.Fallback {
		meta.Title = LoadingText
		meta.Refresh = fallbackRefresh
		meta.JSONLD = ""
	}
	return Layout(cfg, meta, PostBody(page))
}

// Home renders the post listing.
func Home(cfg SiteConfig, page HomePage) templ.Component {
	meta := PageMeta{
		Title:       cfg.Name,
		Description: cfg.Description,
		URL:         buildURL(cfg.URL),
		OGType:      "website",
		JSONLD:      WebsiteJsonLD(cfg),
	}
	return Layout(cfg, meta, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return execute(w, "home", page)
	}))
}

// NotFound renders the 404 page.
func NotFound(cfg SiteConfig) templ.Component {
	return Layout(cfg, PageMeta{Title: "Post não encontrado | " + cfg.Name}, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return execute(w, "notfound", nil)
	}))
}

// ServerError renders the 500 page.
func ServerError(cfg SiteConfig) templ.Component {
	return Layout(cfg, PageMeta{Title: "Erro | " + cfg.Name}, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return execute(w, "servererror", nil)
	}))
}
