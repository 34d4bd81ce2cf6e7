package spacetraveling

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// MaxListingPage is the highest home listing page served.
	MaxListingPage = 1000

	// walkPageSize is the largest page size the Prismic search API accepts.
	walkPageSize = 100
	// maxWalkPages bounds AllPosts.
	maxWalkPages = 100
)

type listing struct {
	posts   []Post
	more    bool
	fetched time.Time
}

// PostCache is an in-memory cache of post listing pages with TTL.
// Empty pages are not kept.
type PostCache struct {
	mu       sync.RWMutex
	pages    map[int]listing
	all      listing
	ttl      time.Duration
	pageSize int
	loader   *Loader
	log      *zap.Logger
}

// NewPostCache creates a PostCache reading listing pages through l.
func NewPostCache(l *Loader, pageSize int, ttl time.Duration, log *zap.Logger) *PostCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &PostCache{loader: l, pageSize: pageSize, ttl: ttl, log: log, pages: make(map[int]listing)}
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.pages = make(map[int]listing)
	c.all = listing{}
	c.mu.Unlock()
}

// ListPosts returns listing page n (1-based) and whether another page follows.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PostCache) ListPosts(ctx context.Context, n int) ([]Post, bool, error) {
	n = min(max(n, 1), MaxListingPage)
	c.mu.RLock()
	l, ok := c.pages[n]
	c.mu.RUnlock()
	if ok && time.Since(l.fetched) < c.ttl {
		return l.posts, l.more, nil
	}

	posts, more, err := c.loader.ListPosts(ctx, n, c.pageSize)
	if err != nil {
		return nil, false, err
	}
	c.mu.Lock()
	if len(posts) > 0 {
		c.pages[n] = listing{posts: posts, more: more, fetched: time.Now()}
	} else {
		delete(c.pages, n)
	}
	c.mu.Unlock()
	return posts, more, nil
}

// cachedPages reports how many listing pages are held.
func (c *PostCache) cachedPages() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}

// AllPosts returns every post, newest first, walking the listing in pages
// of the largest size the API allows.
func (c *PostCache) AllPosts(ctx context.Context) ([]Post, error) {
	c.mu.RLock()
	all := c.all
	c.mu.RUnlock()
	if !all.fetched.IsZero() && time.Since(all.fetched) < c.ttl {
		return all.posts, nil
	}

	var posts []Post
	for n := 1; ; n++ {
		page, more, err := c.loader.ListPosts(ctx, n, walkPageSize)
		if err != nil {
			return nil, err
		}
		posts = append(posts, page...)
		if !more {
			break
		}
		if n == maxWalkPages {
			c.log.Warn("post listing truncated", zap.Int("posts", len(posts)))
			break
		}
	}

	c.mu.Lock()
	c.all = listing{posts: posts, fetched: time.Now()}
	c.mu.Unlock()
	return posts, nil
}
