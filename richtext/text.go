package richtext

import "strings"

// AsText joins the text of every block with sep. Blocks without text
// (images, embeds) contribute nothing.
func AsText(doc Document, sep string) string {
	var b strings.Builder
	for _, blk := range doc {
		if blk.Text == "" && (blk.Type == TypeImage || blk.Type == TypeEmbed) {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(blk.Text)
	}
	return b.String()
}
