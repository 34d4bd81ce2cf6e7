package spacetraveling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eringen/spacetraveling/prismic"
)

func threePosts() *fakeSource {
	return &fakeSource{docs: []prismic.Document{
		postDoc("id-b", "second", "Second", day(time.February, 1)),
		postDoc("id-c", "third", "Third", day(time.March, 1)),
		postDoc("id-a", "first", "First", day(time.January, 1)),
	}}
}

func linkUID(l *PostLink) string {
	if l == nil {
		return "<nil>"
	}
	return l.UID
}

func TestNeighborResolver(t *testing.T) {
	tests := []struct {
		id         string
		prev, next string
	}{
		{"id-a", "<nil>", "second"},
		{"id-b", "first", "third"},
		{"id-c", "second", "<nil>"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			r := NewNeighborResolver(threePosts())
			prev, next, err := r.Resolve(context.Background(), tt.id, "")
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if got := linkUID(prev); got != tt.prev {
				t.Errorf("prev = %s, want %s", got, tt.prev)
			}
			if got := linkUID(next); got != tt.next {
				t.Errorf("next = %s, want %s", got, tt.next)
			}
		})
	}
}

func TestNeighborResolverTitles(t *testing.T) {
	r := NewNeighborResolver(threePosts())
	prev, next, err := r.Resolve(context.Background(), "id-b", "")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if prev.Title != "First" || next.Title != "Third" {
		t.Errorf("titles = %q, %q", prev.Title, next.Title)
	}
}

func TestNeighborResolverQueryShape(t *testing.T) {
	src := threePosts()
	r := NewNeighborResolver(src)
	if _, _, err := r.Resolve(context.Background(), "id-b", "preview-ref"); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(src.queries) != 2 {
		t.Fatalf("expected 2 queries, got %d", len(src.queries))
	}
	seen := map[string]bool{}
	for _, q := range src.queries {
		if q.PageSize != 1 {
			t.Errorf("PageSize = %d, want 1", q.PageSize)
		}
		if q.After != "id-b" {
			t.Errorf("After = %q, want id-b", q.After)
		}
		if len(q.Fetch) != 1 || q.Fetch[0] != "posts.title" {
			t.Errorf("Fetch = %v", q.Fetch)
		}
		if q.Ref != "preview-ref" {
			t.Errorf("Ref = %q, want preview-ref", q.Ref)
		}
		seen[q.Orderings] = true
	}
	if !seen["[document.first_publication_date desc, document.id desc]"] {
		t.Errorf("previous ordering missing: %v", seen)
	}
	if !seen["[document.first_publication_date, document.id]"] {
		t.Errorf("next ordering missing: %v", seen)
	}
}

func TestNeighborResolverSamePublicationDate(t *testing.T) {
	same := day(time.February, 1)
	src := &fakeSource{docs: []prismic.Document{
		postDoc("id-1", "one", "One", same),
		postDoc("id-2", "two", "Two", same),
		postDoc("id-3", "three", "Three", same),
	}}
	r := NewNeighborResolver(src)

	prev, next, err := r.Resolve(context.Background(), "id-2", "")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if linkUID(prev) != "one" || linkUID(next) != "three" {
		t.Errorf("neighbors of two = %s, %s", linkUID(prev), linkUID(next))
	}
}

func TestNeighborResolverError(t *testing.T) {
	boom := errors.New("boom")
	r := NewNeighborResolver(&fakeSource{err: boom})
	prev, next, err := r.Resolve(context.Background(), "id-b", "")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if prev != nil || next != nil {
		t.Error("links should be nil on error")
	}
}
