package views

// SiteConfig holds site-wide settings passed to every template.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
	JSONLD      string
	Refresh     int // seconds; adds a meta refresh when > 0
}

// PostPage is the post detail view model. Fallback wins over everything
// else; a nil Post renders nothing.
type PostPage struct {
	Fallback bool
	Post     *PostData
	Prev     *Link
	Next     *Link
	Preview  bool
}

// PostData is a post with its display strings already formatted.
type PostData struct {
	UID            string
	Title          string
	Author         string
	BannerURL      string
	PublishedOn    string
	EditedNote     string // empty when the post was never edited
	ReadingMinutes int
	Sections       []Section
}

// Section is a rendered content section. HTML is trusted formatter output.
type Section struct {
	Heading string
	HTML    string
}

// Link points at a neighboring post.
type Link struct {
	Title string
	Href  string
}

// HomePage lists posts, newest first.
type HomePage struct {
	Posts    []PostSummary
	NextPage string // href of the next listing page, empty on the last one
}

// PostSummary is one entry of the home listing.
type PostSummary struct {
	Title       string
	Subtitle    string
	Author      string
	PublishedOn string
	Href        string
}
