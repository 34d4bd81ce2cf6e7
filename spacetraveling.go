// Package spacetraveling serves a blog whose posts live in a Prismic
// repository. Post pages are generated on first request, kept in a page
// store and regenerated in the background once they go stale. Prismic
// previews bypass the store and render straight from the preview ref.
package spacetraveling

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/spacetraveling/prismic"
	"github.com/eringen/spacetraveling/richtext"
)

// App is the central application. It wires together the content source,
// page store, caches, handlers and middleware.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Views  ViewFuncs
	Pages  *PageCache
	Posts  *PostCache

	log            *zap.Logger
	source         ContentSource
	store          PageStore
	formatter      richtext.Formatter
	loader         *Loader
	renderer       *Renderer
	previewLimiter *RateLimiter
	customRoutes   []func(*App)
}

// New creates an App from cfg. The Prismic client and the page store are
// built from the config unless replaced through options.
func New(cfg SiteConfig, opts ...Option) (*App, error) {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  DefaultViews(),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.source == nil && a.Config.PrismicEndpoint == "" {
		return nil, errors.New("spacetraveling: PrismicEndpoint is required")
	}
	if a.Config.SessionSecret == "" {
		return nil, errors.New("spacetraveling: SessionSecret is required")
	}

	if a.source == nil {
		a.source = prismic.NewClient(a.Config.PrismicEndpoint,
			prismic.WithAccessToken(a.Config.PrismicAccessToken),
			prismic.WithLogger(a.log.Named("prismic")),
		)
	}
	if a.store == nil {
		store, err := openPageStore(a.Config)
		if err != nil {
			return nil, fmt.Errorf("spacetraveling: init page store: %w", err)
		}
		a.store = store
	}
	if a.formatter == nil {
		a.formatter = richtext.NewHTMLFormatter(richtext.DefaultLinkResolver)
	}

	a.loader = NewLoader(a.source)
	a.renderer = NewRenderer(a.Config, a.formatter, a.Views)
	a.Pages = NewPageCache(a.store, a.generatePage, a.Config, a.log.Named("pages"))
	a.Posts = NewPostCache(a.loader, a.Config.HomePageSize, time.Minute, a.log.Named("posts"))
	a.previewLimiter = NewRateLimiter(10, time.Minute)

	a.Echo.HideBanner = true
	a.Echo.HidePort = true
	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a, nil
}

func openPageStore(cfg SiteConfig) (PageStore, error) {
	if cfg.RedisURL != "" {
		return NewRedisStore(cfg.RedisURL)
	}
	return NewStore(cfg.DatabasePath)
}

// generatePage renders the published version of the post page for slug.
func (a *App) generatePage(ctx context.Context, slug string) ([]byte, error) {
	view, err := a.loader.Load(ctx, slug, "")
	if err != nil {
		return nil, err
	}
	return a.renderer.RenderPost(ctx, view)
}

// Logger returns the application logger.
func (a *App) Logger() *zap.Logger {
	return a.log
}

// Start listens on Config.Addr and serves until the server is shut down.
func (a *App) Start() error {
	a.log.Info("server starting", zap.String("addr", a.Config.Addr), zap.String("url", a.Config.URL))
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight requests and
// background generations, then releases resources.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Echo.Shutdown(ctx)
	done := make(chan struct{})
	go func() {
		a.Pages.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		a.log.Warn("page generations still running at shutdown")
	}
	return errors.Join(err, a.Close())
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.previewLimiter != nil {
		a.previewLimiter.Stop()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
