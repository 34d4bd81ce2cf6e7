// Package richtext models Prismic structured text and converts it to plain
// text or HTML.
package richtext

// Block types emitted by Prismic.
const (
	TypeParagraph    = "paragraph"
	TypePreformatted = "preformatted"
	TypeHeading1     = "heading1"
	TypeHeading2     = "heading2"
	TypeHeading3     = "heading3"
	TypeHeading4     = "heading4"
	TypeHeading5     = "heading5"
	TypeHeading6     = "heading6"
	TypeListItem     = "list-item"
	TypeOListItem    = "o-list-item"
	TypeImage        = "image"
	TypeEmbed        = "embed"
)

// Span types.
const (
	SpanStrong    = "strong"
	SpanEm        = "em"
	SpanHyperlink = "hyperlink"
	SpanLabel     = "label"
)

// Document is an ordered sequence of blocks.
type Document []Block

// Block is a single rich-text node.
type Block struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Spans []Span `json:"spans,omitempty"`

	// image
	URL        string      `json:"url,omitempty"`
	Alt        string      `json:"alt,omitempty"`
	Dimensions *Dimensions `json:"dimensions,omitempty"`
	LinkTo     *Link       `json:"linkTo,omitempty"`

	// embed
	OEmbed *OEmbed `json:"oembed,omitempty"`

	Label string `json:"label,omitempty"`
}

// Dimensions of an image block.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// OEmbed is the payload of an embed block.
type OEmbed struct {
	Type         string `json:"type"`
	EmbedURL     string `json:"embed_url"`
	ProviderName string `json:"provider_name"`
	HTML         string `json:"html"`
	Title        string `json:"title,omitempty"`
}

// Span marks a range of a block's text. Start and End are UTF-16 offsets.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Type  string `json:"type"`
	Data  *Link  `json:"data,omitempty"` // label spans carry their name in Data.Label
}

// Link is the target of a hyperlink span or image link.
type Link struct {
	LinkType string `json:"link_type,omitempty"`
	URL      string `json:"url,omitempty"`
	Target   string `json:"target,omitempty"`
	ID       string `json:"id,omitempty"`
	UID      string `json:"uid,omitempty"`
	Type     string `json:"type,omitempty"`
	Label    string `json:"label,omitempty"`
}

// Formatter converts documents to plain text and HTML.
type Formatter interface {
	AsPlainText(doc Document) string
	AsHTML(doc Document) string
}

// LinkResolver maps a link to an internal document onto a URL path.
type LinkResolver func(l Link) string

// DefaultLinkResolver routes posts to /post/{uid} and everything else to /.
func DefaultLinkResolver(l Link) string {
	if l.Type == "posts" && l.UID != "" {
		return "/post/" + l.UID
	}
	return "/"
}
