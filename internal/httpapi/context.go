package httpapi

import (
	"context"
	"errors"
	"net/http"
)

// serverBaseCtx is canceled when printd starts shutting down.
var serverBaseCtx = context.Background()

// SetBaseContext installs the process lifetime context. nil restores
// Background.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// waitContext bounds a POST /api/print?wait=1 caller. It ends when the
// client goes away, when the server shuts down or after waitTimeout.
// The print job itself is never bound by it.
func waitContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(r.Context())
	stop := context.AfterFunc(serverBaseCtx, cancel)
	if waitTimeout <= 0 {
		return ctx, func() { stop(); cancel() }
	}
	tctx, cancelT := context.WithTimeout(ctx, waitTimeout)
	return tctx, func() { stop(); cancelT(); cancel() }
}

// waitEnd says why a synchronous wait stopped before the job settled.
type waitEnd int

const (
	waitSettled waitEnd = iota
	waitClientGone
	waitShutdown
	waitTimedOut
)

// classifyWait inspects err returned by Result.Wait(ctx). A job error that
// merely looks like a context error is reported as waitSettled.
func classifyWait(ctx context.Context, r *http.Request, err error) waitEnd {
	ctxErr := ctx.Err()
	if err == nil || ctxErr == nil || !errors.Is(err, ctxErr) {
		return waitSettled
	}
	switch {
	case r.Context().Err() != nil:
		return waitClientGone
	case serverBaseCtx.Err() != nil:
		return waitShutdown
	default:
		return waitTimedOut
	}
}
