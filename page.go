package spacetraveling

import (
	"bytes"
	"context"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/spacetraveling/richtext"
	"github.com/eringen/spacetraveling/views"
)

// ViewFuncs holds the templ components the App renders pages with.
type ViewFuncs struct {
	Post        func(cfg views.SiteConfig, meta views.PageMeta, page views.PostPage) templ.Component
	Home        func(cfg views.SiteConfig, page views.HomePage) templ.Component
	NotFound    func(cfg views.SiteConfig) templ.Component
	ServerError func(cfg views.SiteConfig) templ.Component
}

// DefaultViews returns the built-in templates.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Post:        views.Post,
		Home:        views.Home,
		NotFound:    views.NotFound,
		ServerError: views.ServerError,
	}
}

// Renderer turns page views into markup.
type Renderer struct {
	site      views.SiteConfig
	siteURL   string
	formatter richtext.Formatter
	loc       *time.Location
	views     ViewFuncs
}

// NewRenderer creates a Renderer. Dates are shown in cfg.TimeZone.
func NewRenderer(cfg SiteConfig, f richtext.Formatter, v ViewFuncs) *Renderer {
	return &Renderer{
		site: views.SiteConfig{
			Name:        cfg.Name,
			URL:         cfg.URL,
			Description: cfg.Description,
			Author:      cfg.Author,
		},
		siteURL:   cfg.URL,
		formatter: f,
		loc:       loadLocation(cfg.TimeZone),
		views:     v,
	}
}

// Site returns the template-facing site configuration.
func (r *Renderer) Site() views.SiteConfig {
	return r.site
}

// PostPage builds the view model for v.
func (r *Renderer) PostPage(v PageView) views.PostPage {
	page := views.PostPage{
		Fallback: v.Fallback,
		Preview:  v.Preview,
	}
	if v.Prev != nil {
		page.Prev = &views.Link{Title: v.Prev.Title, Href: PostPath(v.Prev.UID)}
	}
	if v.Next != nil {
		page.Next = &views.Link{Title: v.Next.Title, Href: PostPath(v.Next.UID)}
	}
	if v.Post == nil {
		return page
	}

	p := v.Post
	data := &views.PostData{
		UID:            p.UID,
		Title:          p.Title,
		Author:         p.Author,
		BannerURL:      p.BannerURL,
		ReadingMinutes: ReadingTime(p.Content, r.formatter),
		Sections:       make([]views.Section, 0, len(p.Content)),
	}
	if p.FirstPublicationDate != nil {
		data.PublishedOn = FormatDate(p.FirstPublicationDate.In(r.loc))
	}
	if p.Edited() {
		data.EditedNote = FormatEdited(p.LastPublicationDate.In(r.loc))
	}
	for _, s := range p.Content {
		data.Sections = append(data.Sections, views.Section{
			Heading: s.Heading,
			HTML:    r.formatter.AsHTML(s.Body),
		})
	}
	page.Post = data
	return page
}

// PostMeta builds the head metadata for v.
func (r *Renderer) PostMeta(v PageView, page views.PostPage) views.PageMeta {
	meta := views.PageMeta{Title: r.site.Name, OGType: "article"}
	if v.Post == nil || page.Post == nil {
		return meta
	}
	p := v.Post
	meta.Title = p.Title + " | " + r.site.Name
	meta.Description = p.Subtitle
	meta.URL = BuildURL(r.siteURL, "post", p.UID)
	meta.Image = p.BannerURL

	var published, modified string
	if p.FirstPublicationDate != nil {
		published = p.FirstPublicationDate.Format(time.RFC3339)
	}
	if p.Edited() {
		modified = p.LastPublicationDate.Format(time.RFC3339)
	}
	meta.JSONLD = views.BlogPostingJsonLD(r.site, *page.Post, published, modified)
	return meta
}

// Post returns the full post page component for v.
func (r *Renderer) Post(v PageView) templ.Component {
	page := r.PostPage(v)
	return r.views.Post(r.site, r.PostMeta(v, page), page)
}

// RenderPost renders the full post page for v into memory.
func (r *Renderer) RenderPost(ctx context.Context, v PageView) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Post(v).Render(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Home returns the listing page component.
func (r *Renderer) Home(posts []Post, nextPage string) templ.Component {
	page := views.HomePage{NextPage: nextPage}
	for _, p := range posts {
		s := views.PostSummary{
			Title:    p.Title,
			Subtitle: p.Subtitle,
			Author:   p.Author,
			Href:     PostPath(p.UID),
		}
		if p.FirstPublicationDate != nil {
			s.PublishedOn = FormatDate(p.FirstPublicationDate.In(r.loc))
		}
		page.Posts = append(page.Posts, s)
	}
	return r.views.Home(r.site, page)
}

// NotFound returns the 404 page component.
func (r *Renderer) NotFound() templ.Component {
	return r.views.NotFound(r.site)
}

// ServerError returns the 500 page component.
func (r *Renderer) ServerError() templ.Component {
	return r.views.ServerError(r.site)
}
