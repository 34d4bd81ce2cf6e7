package spacetraveling

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// PageState tells the caller how a page was obtained.
type PageState int

const (
	// StateFresh is a stored page younger than the revalidate window.
	StateFresh PageState = iota
	// StateStale is a stored page past the window; a regeneration was started.
	StateStale
	// StateGenerated is a page generated while the request waited.
	StateGenerated
	// StateFallback means no page exists yet and one is being generated.
	StateFallback
)

func (s PageState) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateStale:
		return "stale"
	case StateGenerated:
		return "generated"
	case StateFallback:
		return "fallback"
	}
	return fmt.Sprintf("PageState(%d)", int(s))
}

const (
	// failureTTL is how long a failed background generation is remembered.
	failureTTL = time.Minute
	// maxFailures bounds the remembered failures.
	maxFailures = 1024
)

type failure struct {
	err error
	at  time.Time
}

// Generator produces the markup of the page for slug.
type Generator func(ctx context.Context, slug string) ([]byte, error)

// PageCache serves generated pages from a PageStore and regenerates them in
// the background once they are older than the revalidate window.
type PageCache struct {
	store      PageStore
	generate   Generator
	revalidate time.Duration
	timeout    time.Duration
	fallback   bool
	log        *zap.Logger
	now        func() time.Time

	group singleflight.Group
	wg    sync.WaitGroup

	mu       sync.Mutex
	pending  map[string]struct{}
	failures map[string]failure
}

// NewPageCache creates a PageCache. Revalidate, GenerateTimeout and
// DisableFallback are taken from cfg.
func NewPageCache(store PageStore, gen Generator, cfg SiteConfig, log *zap.Logger) *PageCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &PageCache{
		store:      store,
		generate:   gen,
		revalidate: cfg.Revalidate,
		timeout:    cfg.GenerateTimeout,
		fallback:   !cfg.DisableFallback,
		log:        log,
		now:        time.Now,
		pending:    make(map[string]struct{}),
		failures:   make(map[string]failure),
	}
}

// Serve returns the page for slug.
//
// A stored page is always served, even when stale; staleness only starts a
// background regeneration. Without a stored page and with fallback enabled,
// generation starts in the background and StateFallback is returned with an
// empty page, unless the previous background attempt for slug failed, in
// which case that error is returned once.
func (c *PageCache) Serve(ctx context.Context, slug string) (Page, PageState, error) {
	page, ok, err := c.store.Get(ctx, slug)
	if err != nil {
		return Page{}, 0, fmt.Errorf("read page %q: %w", slug, err)
	}
	if ok {
		if c.now().Sub(page.GeneratedAt) < c.revalidate {
			return page, StateFresh, nil
		}
		c.regenerate(slug)
		return page, StateStale, nil
	}

	if !c.fallback {
		page, err := c.Generate(ctx, slug)
		if err != nil {
			return Page{}, 0, err
		}
		return page, StateGenerated, nil
	}

	if err := c.takeFailure(slug); err != nil {
		return Page{}, 0, err
	}
	c.regenerate(slug)
	return Page{}, StateFallback, nil
}

// Generate renders the page for slug and stores it. Concurrent calls for
// the same slug share one generation, which is not canceled with the
// caller's ctx and is bounded by the generate timeout.
func (c *PageCache) Generate(ctx context.Context, slug string) (Page, error) {
	v, err, _ := c.group.Do(slug, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		html, err := c.generate(ctx, slug)
		if err != nil {
			return Page{}, err
		}
		page := Page{Key: slug, HTML: html, GeneratedAt: c.now()}
		if err := c.store.Put(ctx, page); err != nil {
			return Page{}, fmt.Errorf("store page %q: %w", slug, err)
		}
		return page, nil
	})
	if err != nil {
		return Page{}, err
	}
	return v.(Page), nil
}

// regenerate starts a background generation for slug unless one is running.
func (c *PageCache) regenerate(slug string) {
	c.mu.Lock()
	if _, running := c.pending[slug]; running {
		c.mu.Unlock()
		return
	}
	c.pending[slug] = struct{}{}
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		start := c.now()
		_, err := c.Generate(context.Background(), slug)

		c.mu.Lock()
		delete(c.pending, slug)
		if err != nil {
			c.rememberFailure(slug, err)
		} else {
			delete(c.failures, slug)
		}
		c.mu.Unlock()

		if err != nil {
			c.log.Warn("page generation failed", zap.String("slug", slug), zap.Error(err))
			return
		}
		c.log.Info("page generated", zap.String("slug", slug), zap.Duration("took", c.now().Sub(start)))
	}()
}

// rememberFailure records err for slug, dropping expired entries first.
// c.mu must be held.
func (c *PageCache) rememberFailure(slug string, err error) {
	now := c.now()
	for key, f := range c.failures {
		if now.Sub(f.at) >= failureTTL {
			delete(c.failures, key)
		}
	}
	if len(c.failures) >= maxFailures {
		oldest, at := "", now
		for key, f := range c.failures {
			if f.at.Before(at) || oldest == "" {
				oldest, at = key, f.at
			}
		}
		delete(c.failures, oldest)
	}
	c.failures[slug] = failure{err: err, at: now}
}

func (c *PageCache) takeFailure(slug string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.failures[slug]
	if !ok {
		return nil
	}
	delete(c.failures, slug)
	if c.now().Sub(f.at) >= failureTTL {
		return nil
	}
	return f.err
}

// failureCount reports how many failures are remembered.
func (c *PageCache) failureCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.failures)
}

// Invalidate removes the stored page for slug so the next request
// generates it again.
func (c *PageCache) Invalidate(ctx context.Context, slug string) error {
	c.mu.Lock()
	delete(c.failures, slug)
	c.mu.Unlock()
	return c.store.Delete(ctx, slug)
}

// InvalidateAll removes every stored page.
func (c *PageCache) InvalidateAll(ctx context.Context) (int, error) {
	keys, err := c.store.Keys(ctx)
	if err != nil {
		return 0, err
	}
	for i, key := range keys {
		if err := c.Invalidate(ctx, key); err != nil {
			return i, err
		}
	}
	return len(keys), nil
}

// Wait blocks until all background generations have finished.
func (c *PageCache) Wait() {
	c.wg.Wait()
}
