package richtext

import (
	"bytes"
	"html"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
)

// HTMLFormatter renders documents the way Prismic's DOM helpers do.
// Plain text blocks are joined with a single space.
type HTMLFormatter struct {
	Links LinkResolver
}

// NewHTMLFormatter returns a formatter using links to resolve document links.
// A nil resolver falls back to DefaultLinkResolver.
func NewHTMLFormatter(links LinkResolver) *HTMLFormatter {
	if links == nil {
		links = DefaultLinkResolver
	}
	return &HTMLFormatter{Links: links}
}

// AsPlainText implements Formatter.
func (f *HTMLFormatter) AsPlainText(doc Document) string {
	return AsText(doc, " ")
}

// AsHTML implements Formatter.
func (f *HTMLFormatter) AsHTML(doc Document) string {
	var buf bytes.Buffer
	f.render(&buf, doc)
	return buf.String()
}

func (f *HTMLFormatter) render(buf *bytes.Buffer, doc Document) {
	inList := false
	inOrderedList := false

	flushList := func() {
		if inList {
			buf.WriteString("</ul>")
			inList = false
		}
	}
	flushOrderedList := func() {
		if inOrderedList {
			buf.WriteString("</ol>")
			inOrderedList = false
		}
	}

	for _, blk := range doc {
		switch blk.Type {
		case TypeListItem:
			flushOrderedList()
			if !inList {
				buf.WriteString("<ul>")
				inList = true
			}
			buf.WriteString("<li>")
			buf.WriteString(f.formatSpans(blk.Text, blk.Spans))
			buf.WriteString("</li>")
			continue
		case TypeOListItem:
			flushList()
			if !inOrderedList {
				buf.WriteString("<ol>")
				inOrderedList = true
			}
			buf.WriteString("<li>")
			buf.WriteString(f.formatSpans(blk.Text, blk.Spans))
			buf.WriteString("</li>")
			continue
		}

		flushList()
		flushOrderedList()

		switch blk.Type {
		case TypeParagraph:
			buf.WriteString("<p" + labelAttr(blk.Label) + ">")
			buf.WriteString(f.formatSpans(blk.Text, blk.Spans))
			buf.WriteString("</p>")
		case TypePreformatted:
			buf.WriteString("<pre" + labelAttr(blk.Label) + ">")
			buf.WriteString(f.formatSpans(blk.Text, blk.Spans))
			buf.WriteString("</pre>")
		case TypeHeading1, TypeHeading2, TypeHeading3, TypeHeading4, TypeHeading5, TypeHeading6:
			tag := "h" + blk.Type[len(blk.Type)-1:]
			buf.WriteString("<" + tag + labelAttr(blk.Label) + ">")
			buf.WriteString(f.formatSpans(blk.Text, blk.Spans))
			buf.WriteString("</" + tag + ">")
		case TypeImage:
			f.renderImage(buf, blk)
		case TypeEmbed:
			renderEmbed(buf, blk)
		}
	}
	flushList()
	flushOrderedList()
}

func (f *HTMLFormatter) renderImage(buf *bytes.Buffer, blk Block) {
	src := safeURL(blk.URL)
	if src == "" {
		return
	}
	img := `<img src="` + src + `" alt="` + html.EscapeString(blk.Alt) + `"`
	if blk.Dimensions != nil && blk.Dimensions.Width > 0 && blk.Dimensions.Height > 0 {
		img += ` width="` + strconv.Itoa(blk.Dimensions.Width) + `" height="` + strconv.Itoa(blk.Dimensions.Height) + `"`
	}
	img += ` loading="lazy" />`
	buf.WriteString(`<p class="block-img">`)
	if blk.LinkTo != nil {
		if href := f.resolve(*blk.LinkTo); href != "" {
			buf.WriteString(`<a href="` + href + `"` + targetAttr(*blk.LinkTo) + `>` + img + `</a>`)
			buf.WriteString("</p>")
			return
		}
	}
	buf.WriteString(img)
	buf.WriteString("</p>")
}

func renderEmbed(buf *bytes.Buffer, blk Block) {
	if blk.OEmbed == nil {
		return
	}
	o := blk.OEmbed
	buf.WriteString(`<div data-oembed="` + html.EscapeString(o.EmbedURL) +
		`" data-oembed-type="` + html.EscapeString(o.Type) +
		`" data-oembed-provider="` + html.EscapeString(strings.ToLower(o.ProviderName)) + `">`)
	// oEmbed HTML is provider markup and is emitted as-is.
	buf.WriteString(o.HTML)
	buf.WriteString("</div>")
}

type spanNode struct {
	span        Span
	index       int
	open, close string
}

// formatSpans escapes text and wraps span ranges in their tags. Overlapping
// spans are closed and reopened so the output stays well nested.
func (f *HTMLFormatter) formatSpans(text string, spans []Span) string {
	units := utf16.Encode([]rune(text))
	n := len(units)
	if len(spans) == 0 {
		return escapeText(text)
	}

	nodes := make([]spanNode, 0, len(spans))
	points := map[int]struct{}{0: {}, n: {}}
	for i, s := range spans {
		start, end := clamp(s.Start, 0, n), clamp(s.End, 0, n)
		if start >= end {
			continue
		}
		s.Start, s.End = start, end
		openTag, closeTag := f.tags(s)
		nodes = append(nodes, spanNode{span: s, index: i, open: openTag, close: closeTag})
		points[start] = struct{}{}
		points[end] = struct{}{}
	}
	// Outer spans first: earlier start, then longer.
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i].span, nodes[j].span
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End > b.End
	})

	bounds := make([]int, 0, len(points))
	for p := range points {
		bounds = append(bounds, p)
	}
	sort.Ints(bounds)

	var out strings.Builder
	var open []spanNode
	for i := 0; i+1 < len(bounds); i++ {
		from, to := bounds[i], bounds[i+1]
		var active []spanNode
		for _, nd := range nodes {
			if nd.span.Start <= from && nd.span.End >= to {
				active = append(active, nd)
			}
		}
		common := 0
		for common < len(open) && common < len(active) && open[common].index == active[common].index {
			common++
		}
		for j := len(open) - 1; j >= common; j-- {
			out.WriteString(open[j].close)
		}
		for _, nd := range active[common:] {
			out.WriteString(nd.open)
		}
		open = active
		out.WriteString(escapeText(string(utf16.Decode(units[from:to]))))
	}
	for j := len(open) - 1; j >= 0; j-- {
		out.WriteString(open[j].close)
	}
	return out.String()
}

func (f *HTMLFormatter) tags(s Span) (string, string) {
	switch s.Type {
	case SpanStrong:
		return "<strong>", "</strong>"
	case SpanEm:
		return "<em>", "</em>"
	case SpanLabel:
		name := ""
		if s.Data != nil {
			name = s.Data.Label
		}
		return `<span class="` + html.EscapeString(name) + `">`, "</span>"
	case SpanHyperlink:
		if s.Data != nil {
			if href := f.resolve(*s.Data); href != "" {
				return `<a href="` + href + `"` + targetAttr(*s.Data) + `>`, "</a>"
			}
		}
	}
	return "<span>", "</span>"
}

func (f *HTMLFormatter) resolve(l Link) string {
	if l.LinkType == "Document" {
		links := f.Links
		if links == nil {
			links = DefaultLinkResolver
		}
		return html.EscapeString(links(l))
	}
	return safeURL(l.URL)
}

func targetAttr(l Link) string {
	if l.Target == "" {
		return ""
	}
	return ` target="` + html.EscapeString(l.Target) + `" rel="noopener"`
}

func labelAttr(label string) string {
	if label == "" {
		return ""
	}
	return ` class="` + html.EscapeString(label) + `"`
}

func escapeText(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br />")
}

func safeURL(raw string) string {
	val := strings.TrimSpace(raw)
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
