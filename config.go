package spacetraveling

import (
	"time"

	"go.uber.org/zap"

	"github.com/eringen/spacetraveling/richtext"
)

// SiteConfig holds all configuration for a spacetraveling site.
type SiteConfig struct {
	Name        string // Site name (default "spacetraveling")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name for JSON-LD

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite page store path (default "data/pages.db")
	RedisURL     string // Use Redis as page store when set

	PrismicEndpoint    string // Required: e.g. https://repo.cdn.prismic.io/api/v2
	PrismicAccessToken string

	SessionSecret string // Required: preview session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	RevalidateSecret string // Shared secret for /api/revalidate; empty disables the hook

	Revalidate      time.Duration // Staleness window for generated pages (default 30min)
	GenerateTimeout time.Duration // Upper bound for one background generation (default 30s)
	PrebuildCount   int           // Posts generated by Build (default 1)
	HomePageSize    int           // Posts per home listing page (default 10)
	DisableFallback bool          // Generate missing pages while the request waits

	TimeZone string // Dates are rendered in this zone (default "America/Sao_Paulo")
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "spacetraveling"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/pages.db"
	}
	if c.Revalidate == 0 {
		c.Revalidate = 1800 * time.Second
	}
	if c.GenerateTimeout == 0 {
		c.GenerateTimeout = 30 * time.Second
	}
	if c.PrebuildCount == 0 {
		c.PrebuildCount = 1
	}
	if c.HomePageSize == 0 {
		c.HomePageSize = 10
	}
	if c.TimeZone == "" {
		c.TimeZone = "America/Sao_Paulo"
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithLogger sets the application logger (default zap.NewNop).
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		a.log = l
	}
}

// WithContentSource replaces the Prismic client built from the config.
func WithContentSource(src ContentSource) Option {
	return func(a *App) {
		a.source = src
	}
}

// WithPageStore replaces the page store built from the config.
func WithPageStore(s PageStore) Option {
	return func(a *App) {
		a.store = s
	}
}

// WithFormatter replaces the rich-text formatter.
func WithFormatter(f richtext.Formatter) Option {
	return func(a *App) {
		a.formatter = f
	}
}

// WithViews replaces the default page templates.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}
