package spacetraveling

import (
	"crypto/subtle"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/spacetraveling/prismic"
)

func (a *App) setupRoutes() {
	e := a.Echo

	assets, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.GET("/public/*", echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(assets)))))
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/post/:slug", a.handlePost)

	e.GET("/api/preview", a.handlePreview)
	e.GET("/api/exit-preview", a.handleExitPreview)
	e.POST("/api/revalidate", a.handleRevalidate)
}

func (a *App) handleHome(c echo.Context) error {
	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 1 {
		page = p
	}
	if page > MaxListingPage {
		return echo.ErrNotFound
	}
	posts, more, err := a.Posts.ListPosts(c.Request().Context(), page)
	if err != nil {
		return err
	}
	if len(posts) == 0 && page > 1 {
		return echo.ErrNotFound
	}
	next := ""
	if more {
		next = "/?page=" + strconv.Itoa(page+1)
	}
	return Render(c, a.renderer.Home(posts, next))
}

func (a *App) handlePost(c echo.Context) error {
	slug := c.Param("slug")
	if !ValidSlug(slug) {
		return echo.ErrNotFound
	}
	ctx := c.Request().Context()

	if ref := PreviewRef(c); ref != "" {
		view, err := a.loader.Load(ctx, slug, ref)
		if err != nil {
			return err
		}
		c.Response().Header().Set("Cache-Control", "private, no-store")
		return Render(c, a.renderer.Post(view))
	}

	page, state, err := a.Pages.Serve(ctx, slug)
	if err != nil {
		return err
	}
	if state == StateFallback {
		c.Response().Header().Set("Cache-Control", "no-store")
		c.Response().Header().Set("X-Page-State", state.String())
		return Render(c, a.renderer.Post(PageView{Fallback: true}))
	}
	return RenderPage(c, page, state)
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Posts.AllPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, _, err := a.Posts.ListPosts(c.Request().Context(), 1)
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nDisallow: /api/\n\nSitemap: " + BuildURL(a.Config.URL, "sitemap.xml") + "\n"
	return c.String(http.StatusOK, body)
}

// revalidateRequest is the subset of the Prismic webhook payload we read.
type revalidateRequest struct {
	Type      string   `json:"type"`
	Secret    string   `json:"secret"`
	Documents []string `json:"documents"`
}

// handleRevalidate drops every generated page and the listing cache. Prismic
// webhooks carry document ids only, so pages cannot be matched one by one.
// The secret may come in X-Revalidate-Secret or in the payload.
func (a *App) handleRevalidate(c echo.Context) error {
	if a.Config.RevalidateSecret == "" {
		return echo.ErrNotFound
	}
	var req revalidateRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
	}
	secret := c.Request().Header.Get("X-Revalidate-Secret")
	if secret == "" {
		secret = req.Secret
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(a.Config.RevalidateSecret)) != 1 {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid secret")
	}

	n, err := a.Pages.InvalidateAll(c.Request().Context())
	if err != nil {
		return err
	}
	a.Posts.Invalidate()
	a.log.Info("pages invalidated",
		zap.Int("pages", n),
		zap.String("event", req.Type),
		zap.Strings("documents", req.Documents),
	)
	return c.JSON(http.StatusOK, map[string]any{"revalidated": true, "pages": n})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	// Errors are never cached.
	c.Response().Header().Set("Cache-Control", "no-store")
	if errors.Is(err, prismic.ErrNotFound) {
		_ = RenderStatus(c, http.StatusNotFound, a.renderer.NotFound())
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound && !strings.HasPrefix(c.Request().URL.Path, "/api/") {
		_ = RenderStatus(c, http.StatusNotFound, a.renderer.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.log.Error("server error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		_ = RenderStatus(c, code, a.renderer.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
