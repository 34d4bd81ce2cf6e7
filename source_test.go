package spacetraveling

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/eringen/spacetraveling/prismic"
)

// fakeSource answers queries from memory the way the Prismic search API
// does: ordering, then after, then pagination.
type fakeSource struct {
	mu       sync.Mutex
	docs     []prismic.Document
	previews map[string][]prismic.Document
	err      error
	delay    time.Duration
	queries  []prismic.QueryOptions
	lookups  int
}

func (f *fakeSource) docsFor(ref string) []prismic.Document {
	if docs, ok := f.previews[ref]; ok {
		return docs
	}
	return f.docs
}

func (f *fakeSource) setDocs(docs ...prismic.Document) {
	f.mu.Lock()
	f.docs = docs
	f.mu.Unlock()
}

func (f *fakeSource) Query(ctx context.Context, preds []prismic.Predicate, opts prismic.QueryOptions) (prismic.Response, error) {
	f.mu.Lock()
	f.queries = append(f.queries, opts)
	err := f.err
	docs := append([]prismic.Document(nil), f.docsFor(opts.Ref)...)
	f.mu.Unlock()
	if err != nil {
		return prismic.Response{}, err
	}

	sortDocs(docs, opts.Orderings)
	if opts.After != "" {
		for i, d := range docs {
			if d.ID == opts.After {
				docs = docs[i+1:]
				break
			}
		}
	}

	size := opts.PageSize
	if size <= 0 {
		size = 20
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}
	start := min((page-1)*size, len(docs))
	end := min(start+size, len(docs))
	resp := prismic.Response{Page: page, ResultsPerPage: size, Results: docs[start:end]}
	if end < len(docs) {
		next := fmt.Sprintf("page=%d", page+1)
		resp.NextPage = &next
	}
	return resp, nil
}

func (f *fakeSource) lookup(ref string, match func(prismic.Document) bool) (prismic.Document, bool, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.err != nil {
		return prismic.Document{}, false, f.err
	}
	for _, d := range f.docsFor(ref) {
		if match(d) {
			return d, true, nil
		}
	}
	return prismic.Document{}, false, nil
}

func (f *fakeSource) GetByUID(ctx context.Context, docType, uid string, opts prismic.QueryOptions) (prismic.Document, error) {
	doc, ok, err := f.lookup(opts.Ref, func(d prismic.Document) bool { return d.Type == docType && d.UID == uid })
	if err != nil {
		return prismic.Document{}, err
	}
	if !ok {
		return prismic.Document{}, fmt.Errorf("%s %q: %w", docType, uid, prismic.ErrNotFound)
	}
	return doc, nil
}

func (f *fakeSource) GetByID(ctx context.Context, id string, opts prismic.QueryOptions) (prismic.Document, error) {
	doc, ok, err := f.lookup(opts.Ref, func(d prismic.Document) bool { return d.ID == id })
	if err != nil {
		return prismic.Document{}, err
	}
	if !ok {
		return prismic.Document{}, fmt.Errorf("document %q: %w", id, prismic.ErrNotFound)
	}
	return doc, nil
}

func (f *fakeSource) lookupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups
}

// sortDocs applies an orderings expression such as
// [document.first_publication_date desc, document.id].
func sortDocs(docs []prismic.Document, orderings string) {
	var keys []prismic.Ordering
	for _, part := range strings.Split(strings.Trim(orderings, "[]"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		field, dir, _ := strings.Cut(part, " ")
		keys = append(keys, prismic.Ordering{Field: field, Desc: dir == "desc"})
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, k := range keys {
			c := compareField(docs[i], docs[j], k.Field)
			if c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func compareField(a, b prismic.Document, field string) int {
	switch field {
	case "document.first_publication_date":
		return a.FirstPublicationDate.Time.Compare(b.FirstPublicationDate.Time)
	case "document.last_publication_date":
		return a.LastPublicationDate.Time.Compare(b.LastPublicationDate.Time)
	case "document.id":
		return strings.Compare(a.ID, b.ID)
	}
	return 0
}

type docOpts struct {
	last     time.Time
	sections []map[string]any
}

// postDoc builds a posts document. Without sections the body is a single
// three word paragraph under the heading "Intro".
func postDoc(id, uid, title string, first time.Time, opts ...docOpts) prismic.Document {
	var o docOpts
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.last.IsZero() {
		o.last = first
	}
	if o.sections == nil {
		o.sections = []map[string]any{{
			"heading": "Intro",
			"body":    []map[string]any{{"type": "paragraph", "text": "one two three", "spans": []any{}}},
		}}
	}
	data, err := json.Marshal(map[string]any{
		"title":    title,
		"subtitle": "Subtitle of " + title,
		"author":   "Joseph Oliveira",
		"banner":   map[string]any{"url": "https://images.prismic.io/spacetraveling/" + uid + ".png"},
		"content":  o.sections,
	})
	if err != nil {
		panic(err)
	}
	return prismic.Document{
		ID:                   id,
		UID:                  uid,
		Type:                 PostType,
		FirstPublicationDate: prismic.Timestamp{Time: first, Valid: true},
		LastPublicationDate:  prismic.Timestamp{Time: o.last, Valid: true},
		Data:                 data,
	}
}

func day(month time.Month, d int) time.Time {
	return time.Date(2021, month, d, 12, 0, 0, 0, time.UTC)
}
