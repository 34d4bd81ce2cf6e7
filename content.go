package spacetraveling

import (
	"context"
	"fmt"

	"github.com/eringen/spacetraveling/prismic"
	"github.com/eringen/spacetraveling/richtext"
)

// PostType is the repository custom type holding blog posts.
const PostType = "posts"

// ContentSource is the subset of the Prismic client the site needs.
type ContentSource interface {
	Query(ctx context.Context, preds []prismic.Predicate, opts prismic.QueryOptions) (prismic.Response, error)
	GetByUID(ctx context.Context, docType, uid string, opts prismic.QueryOptions) (prismic.Document, error)
	GetByID(ctx context.Context, id string, opts prismic.QueryOptions) (prismic.Document, error)
}

type postData struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Author   string `json:"author"`
	Banner   struct {
		URL string `json:"url"`
	} `json:"banner"`
	Content []struct {
		Heading string            `json:"heading"`
		Body    richtext.Document `json:"body"`
	} `json:"content"`
}

// PostFromDocument maps a posts document onto a Post.
func PostFromDocument(doc prismic.Document) (Post, error) {
	var data postData
	if err := doc.DecodeData(&data); err != nil {
		return Post{}, err
	}
	content := make([]ContentSection, 0, len(data.Content))
	for _, part := range data.Content {
		content = append(content, ContentSection{Heading: part.Heading, Body: part.Body})
	}
	return Post{
		ID:                   doc.ID,
		UID:                  doc.UID,
		FirstPublicationDate: doc.FirstPublicationDate.Ptr(),
		LastPublicationDate:  doc.LastPublicationDate.Ptr(),
		Title:                data.Title,
		Subtitle:             data.Subtitle,
		Author:               data.Author,
		BannerURL:            data.Banner.URL,
		Content:              content,
	}, nil
}

// LinkFromDocument maps a posts document fetched with posts.title onto a PostLink.
func LinkFromDocument(doc prismic.Document) (PostLink, error) {
	var data struct {
		Title string `json:"title"`
	}
	if err := doc.DecodeData(&data); err != nil {
		return PostLink{}, err
	}
	return PostLink{UID: doc.UID, Title: data.Title}, nil
}

// Loader fetches a post and its neighbors.
type Loader struct {
	source    ContentSource
	neighbors *NeighborResolver
}

// NewLoader creates a Loader reading from src.
func NewLoader(src ContentSource) *Loader {
	return &Loader{source: src, neighbors: NewNeighborResolver(src)}
}

// Load builds the page view for slug. A non-empty ref selects preview
// content; the view is then flagged as a preview. Errors from the content
// source are returned unchanged apart from wrapping.
func (l *Loader) Load(ctx context.Context, slug, ref string) (PageView, error) {
	doc, err := l.source.GetByUID(ctx, PostType, slug, prismic.QueryOptions{Ref: ref})
	if err != nil {
		return PageView{}, fmt.Errorf("load post %q: %w", slug, err)
	}
	post, err := PostFromDocument(doc)
	if err != nil {
		return PageView{}, fmt.Errorf("load post %q: %w", slug, err)
	}
	prev, next, err := l.neighbors.Resolve(ctx, doc.ID, ref)
	if err != nil {
		return PageView{}, fmt.Errorf("load neighbors of %q: %w", slug, err)
	}
	return PageView{
		Post:    &post,
		Prev:    prev,
		Next:    next,
		Preview: ref != "",
	}, nil
}

// ListPosts returns one page of posts ordered newest first, together with
// whether another page follows.
func (l *Loader) ListPosts(ctx context.Context, page, pageSize int) ([]Post, bool, error) {
	resp, err := l.source.Query(ctx, []prismic.Predicate{prismic.At("document.type", PostType)}, prismic.QueryOptions{
		Fetch:     []string{"posts.title", "posts.subtitle", "posts.author"},
		PageSize:  pageSize,
		Page:      page,
		Orderings: prismic.Orderings(prismic.Ordering{Field: "document.first_publication_date", Desc: true}),
	})
	if err != nil {
		return nil, false, fmt.Errorf("list posts: %w", err)
	}
	posts := make([]Post, 0, len(resp.Results))
	for _, doc := range resp.Results {
		p, err := PostFromDocument(doc)
		if err != nil {
			return nil, false, err
		}
		posts = append(posts, p)
	}
	return posts, resp.NextPage != nil, nil
}

// StaticPaths returns the uids generated ahead of time: the first page of
// posts, limited to pageSize.
func (l *Loader) StaticPaths(ctx context.Context, pageSize int) ([]string, error) {
	resp, err := l.source.Query(ctx, []prismic.Predicate{prismic.At("document.type", PostType)}, prismic.QueryOptions{
		Fetch:    []string{"posts.uid"},
		PageSize: pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("static paths: %w", err)
	}
	uids := make([]string, 0, len(resp.Results))
	for _, doc := range resp.Results {
		if doc.UID != "" {
			uids = append(uids, doc.UID)
		}
	}
	return uids, nil
}

// ResolvePreview returns the uid of the document a preview token points at.
func (l *Loader) ResolvePreview(ctx context.Context, token, documentID string) (string, error) {
	doc, err := l.source.GetByID(ctx, documentID, prismic.QueryOptions{Ref: token})
	if err != nil {
		return "", fmt.Errorf("resolve preview: %w", err)
	}
	if doc.Type != PostType || doc.UID == "" {
		return "", nil
	}
	return doc.UID, nil
}
