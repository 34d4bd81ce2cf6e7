package views

import (
	"context"
	"io"
	"sync"

	"github.com/a-h/templ"
)

// utterances widget settings. These are fixed for the site.
const (
	CommentsAnchorID = "inject-comments-for-uterances"
	commentsSrc      = "https://utteranc.es/client.js"
	commentsRepo     = "gRossales/desafio06-trilha-reactjs"
	commentsIssue    = "pathname"
	commentsTheme    = "dark-blue"
)

type widgetGuard struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

type widgetGuardKey struct{}

// WithWidgetGuard returns a context that remembers which pages already
// mounted the comment widget. Contexts that carry a guard are returned as is.
func WithWidgetGuard(ctx context.Context) context.Context {
	if _, ok := ctx.Value(widgetGuardKey{}).(*widgetGuard); ok {
		return ctx
	}
	return context.WithValue(ctx, widgetGuardKey{}, &widgetGuard{seen: make(map[string]struct{})})
}

// claimWidget reports whether identity may mount the widget in this render.
func claimWidget(ctx context.Context, identity string) bool {
	g, ok := ctx.Value(widgetGuardKey{}).(*widgetGuard)
	if !ok {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, done := g.seen[identity]; done {
		return false
	}
	g.seen[identity] = struct{}{}
	return true
}

// Comments renders the anchor element with the utterances script inside.
// Within one guarded render it is emitted once per page identity.
func Comments(identity string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if !claimWidget(ctx, identity) {
			return nil
		}
		_, err := io.WriteString(w, `<div style="width: 100%" id="`+CommentsAnchorID+`">`+
			`<script src="`+commentsSrc+`" crossorigin="anonymous" async`+
			` repo="`+commentsRepo+`" issue-term="`+commentsIssue+`" theme="`+commentsTheme+`"></script>`+
			`</div>`)
		return err
	})
}
