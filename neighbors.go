package spacetraveling

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/eringen/spacetraveling/prismic"
)

var (
	// Posts sharing a first publication date are ordered by document id.
	// prevOrdering is the exact reverse of nextOrdering so that each post is
	// the next of its own previous.
	prevOrdering = prismic.Orderings(
		prismic.Ordering{Field: "document.first_publication_date", Desc: true},
		prismic.Ordering{Field: "document.id", Desc: true},
	)
	nextOrdering = prismic.Orderings(
		prismic.Ordering{Field: "document.first_publication_date"},
		prismic.Ordering{Field: "document.id"},
	)
)

// NeighborResolver finds the posts published right before and after a post.
type NeighborResolver struct {
	source ContentSource
}

// NewNeighborResolver creates a resolver querying src.
func NewNeighborResolver(src ContentSource) *NeighborResolver {
	return &NeighborResolver{source: src}
}

// Resolve runs the previous and next queries concurrently. Each query asks
// for one posts document after id in its ordering; a missing result yields
// a nil link. Any query error fails the call.
func (r *NeighborResolver) Resolve(ctx context.Context, id, ref string) (prev, next *PostLink, err error) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		link, err := r.neighbor(ctx, id, ref, prevOrdering)
		prev = link
		return err
	})
	g.Go(func() error {
		link, err := r.neighbor(ctx, id, ref, nextOrdering)
		next = link
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return prev, next, nil
}

func (r *NeighborResolver) neighbor(ctx context.Context, id, ref, orderings string) (*PostLink, error) {
	resp, err := r.source.Query(ctx, []prismic.Predicate{prismic.At("document.type", PostType)}, prismic.QueryOptions{
		Ref:       ref,
		Fetch:     []string{"posts.title"},
		PageSize:  1,
		After:     id,
		Orderings: orderings,
	})
	if err != nil {
		return nil, err
	}
	doc, ok := resp.First()
	if !ok {
		return nil, nil
	}
	link, err := LinkFromDocument(doc)
	if err != nil {
		return nil, err
	}
	return &link, nil
}
