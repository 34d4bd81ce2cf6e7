package spacetraveling

import (
	"time"

	"github.com/eringen/spacetraveling/richtext"
)

// Post is a blog post as fetched from the content repository.
type Post struct {
	ID                   string
	UID                  string
	FirstPublicationDate *time.Time
	LastPublicationDate  *time.Time
	Title                string
	Subtitle             string
	Author               string
	BannerURL            string
	Content              []ContentSection
}

// Edited reports whether the post was republished after its first
// publication. Equal timestamps mean it was never edited.
func (p Post) Edited() bool {
	if p.LastPublicationDate == nil {
		return false
	}
	if p.FirstPublicationDate == nil {
		return true
	}
	return !p.LastPublicationDate.Equal(*p.FirstPublicationDate)
}

// ContentSection is one heading plus its rich-text body. Headings are used
// as rendering keys and should be unique within a post.
type ContentSection struct {
	Heading string
	Body    richtext.Document
}

// PostLink is a lightweight reference used for previous/next navigation.
type PostLink struct {
	UID   string
	Title string
}

// PageView is everything the post page needs. It is built fresh for every
// request or generation and not modified afterwards.
type PageView struct {
	Post     *Post
	Prev     *PostLink
	Next     *PostLink
	Preview  bool
	Fallback bool
}
