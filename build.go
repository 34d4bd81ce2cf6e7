package spacetraveling

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// buildConcurrency bounds parallel generations during Build.
const buildConcurrency = 4

// Build generates the pages known ahead of time: the newest
// Config.PrebuildCount posts. Other posts are generated on first request.
// It returns the generated slugs.
func (a *App) Build(ctx context.Context) ([]string, error) {
	slugs, err := a.loader.StaticPaths(ctx, a.Config.PrebuildCount)
	if err != nil {
		return nil, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(buildConcurrency)
	for _, slug := range slugs {
		slug := slug
		g.Go(func() error {
			page, err := a.Pages.Generate(ctx, slug)
			if err != nil {
				return fmt.Errorf("build %q: %w", slug, err)
			}
			a.log.Info("page built", zap.String("slug", slug), zap.Int("bytes", len(page.HTML)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slugs, nil
}
