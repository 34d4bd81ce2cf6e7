package spacetraveling

import (
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	previewSessionName = "preview_session"
	previewRefKey      = "ref"
)

// PreviewRef returns the Prismic ref stored in the preview session, or ""
// when the visitor is not previewing.
func PreviewRef(c echo.Context) string {
	sess, err := session.Get(previewSessionName, c)
	if err != nil {
		return ""
	}
	ref, _ := sess.Values[previewRefKey].(string)
	return ref
}

func setPreviewRef(c echo.Context, ref string) error {
	sess, err := session.Get(previewSessionName, c)
	if err != nil {
		return err
	}
	sess.Values[previewRefKey] = ref
	return sess.Save(c.Request(), c.Response())
}

func clearPreviewSession(c echo.Context) error {
	sess, err := session.Get(previewSessionName, c)
	if err != nil {
		return err
	}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

// handlePreview is the preview entry point configured in the Prismic
// repository. It stores the preview token as the session ref and redirects
// to the previewed post.
func (a *App) handlePreview(c echo.Context) error {
	if !a.previewLimiter.Allow(c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "too many preview requests")
	}
	token := c.QueryParam("token")
	documentID := c.QueryParam("documentId")
	if token == "" || documentID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token and documentId are required")
	}

	uid, err := a.loader.ResolvePreview(c.Request().Context(), token, documentID)
	if err != nil {
		return err
	}
	if err := setPreviewRef(c, token); err != nil {
		return err
	}
	a.log.Info("preview started", zap.String("document", documentID), zap.String("uid", uid))

	target := "/"
	if uid != "" {
		target = PostPath(uid)
	}
	return c.Redirect(http.StatusTemporaryRedirect, target)
}

func (a *App) handleExitPreview(c echo.Context) error {
	if err := clearPreviewSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusTemporaryRedirect, "/")
}
