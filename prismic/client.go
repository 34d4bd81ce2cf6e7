// Package prismic is a small client for the Prismic REST API v2.
package prismic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultTimeout = 10 * time.Second
	defaultRefTTL  = 5 * time.Second
	maxErrorBody   = 4 << 10
)

// QueryOptions are the search parameters sent alongside the predicates.
// An empty Ref means the current master ref.
type QueryOptions struct {
	Ref       string
	Fetch     []string
	PageSize  int
	Page      int
	After     string
	Orderings string
	Lang      string
}

// Client talks to one Prismic repository. It is safe for concurrent use.
type Client struct {
	endpoint    string
	accessToken string
	httpClient  *http.Client
	log         *zap.Logger
	refTTL      time.Duration

	mu        sync.Mutex
	master    string
	fetchedAt time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithAccessToken sets the repository access token.
func WithAccessToken(token string) Option {
	return func(c *Client) { c.accessToken = token }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithRefTTL sets how long the master ref is reused before the API root is
// fetched again.
func WithRefTTL(d time.Duration) Option {
	return func(c *Client) { c.refTTL = d }
}

// NewClient creates a client for endpoint, e.g.
// https://my-repo.cdn.prismic.io/api/v2.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        zap.NewNop(),
		refTTL:     defaultRefTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// API fetches the repository root document.
func (c *Client) API(ctx context.Context) (APIInfo, error) {
	q := url.Values{}
	if c.accessToken != "" {
		q.Set("access_token", c.accessToken)
	}
	var info APIInfo
	if err := c.get(ctx, c.endpoint, q, &info); err != nil {
		return APIInfo{}, fmt.Errorf("prismic: fetch api: %w", err)
	}
	return info, nil
}

// MasterRef returns the published content ref, cached for the ref TTL.
func (c *Client) MasterRef(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.master != "" && time.Since(c.fetchedAt) < c.refTTL {
		ref := c.master
		c.mu.Unlock()
		return ref, nil
	}
	c.mu.Unlock()

	info, err := c.API(ctx)
	if err != nil {
		return "", err
	}
	ref := info.Master()
	if ref == "" {
		return "", fmt.Errorf("prismic: api lists no master ref")
	}
	c.mu.Lock()
	c.master = ref
	c.fetchedAt = time.Now()
	c.mu.Unlock()
	return ref, nil
}

// Query runs a document search.
func (c *Client) Query(ctx context.Context, preds []Predicate, opts QueryOptions) (Response, error) {
	ref := opts.Ref
	if ref == "" {
		var err error
		if ref, err = c.MasterRef(ctx); err != nil {
			return Response{}, err
		}
	}
	q := url.Values{}
	q.Set("ref", ref)
	if len(preds) > 0 {
		q.Set("q", Query(preds...))
	}
	if len(opts.Fetch) > 0 {
		q.Set("fetch", strings.Join(opts.Fetch, ","))
	}
	if opts.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(opts.PageSize))
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.After != "" {
		q.Set("after", opts.After)
	}
	if opts.Orderings != "" {
		q.Set("orderings", opts.Orderings)
	}
	if opts.Lang != "" {
		q.Set("lang", opts.Lang)
	}
	if c.accessToken != "" {
		q.Set("access_token", c.accessToken)
	}

	var resp Response
	if err := c.get(ctx, c.endpoint+"/documents/search", q, &resp); err != nil {
		return Response{}, fmt.Errorf("prismic: query: %w", err)
	}
	c.log.Debug("prismic query",
		zap.String("q", q.Get("q")),
		zap.String("orderings", opts.Orderings),
		zap.String("after", opts.After),
		zap.Int("results", len(resp.Results)),
	)
	return resp, nil
}

// GetByUID returns the document of docType with the given uid.
func (c *Client) GetByUID(ctx context.Context, docType, uid string, opts QueryOptions) (Document, error) {
	opts.PageSize = 1
	resp, err := c.Query(ctx, []Predicate{At("my."+docType+".uid", uid)}, opts)
	if err != nil {
		return Document{}, err
	}
	doc, ok := resp.First()
	if !ok {
		return Document{}, fmt.Errorf("%s %q: %w", docType, uid, ErrNotFound)
	}
	return doc, nil
}

// GetByID returns the document with the given repository id.
func (c *Client) GetByID(ctx context.Context, id string, opts QueryOptions) (Document, error) {
	opts.PageSize = 1
	resp, err := c.Query(ctx, []Predicate{At("document.id", id)}, opts)
	if err != nil {
		return Document{}, err
	}
	doc, ok := resp.First()
	if !ok {
		return Document{}, fmt.Errorf("document %q: %w", id, ErrNotFound)
	}
	return doc, nil
}

func (c *Client) get(ctx context.Context, rawURL string, q url.Values, v any) error {
	u := rawURL
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return &APIError{Status: res.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
