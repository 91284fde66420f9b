package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWaitContext_EndsOnShutdown(t *testing.T) {
	base, cancelBase := context.WithCancel(context.Background())
	SetBaseContext(base)
	defer SetBaseContext(nil)

	r := httptest.NewRequest(http.MethodPost, "/api/print?wait=1", nil)
	ctx, cancel := waitContext(r)
	defer cancel()
	cancelBase()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("wait context not canceled on shutdown")
	}
	if got := classifyWait(ctx, r, ctx.Err()); got != waitShutdown {
		t.Fatalf("classifyWait=%v, want waitShutdown", got)
	}
	if r.Context().Err() != nil {
		t.Fatal("request context must not be canceled by shutdown")
	}
}

func TestWaitContext_EndsWhenClientLeaves(t *testing.T) {
	reqCtx, leave := context.WithCancel(context.Background())
	r := httptest.NewRequest(http.MethodPost, "/api/print?wait=1", nil).WithContext(reqCtx)
	ctx, cancel := waitContext(r)
	defer cancel()
	leave()
	<-ctx.Done()
	if got := classifyWait(ctx, r, ctx.Err()); got != waitClientGone {
		t.Fatalf("classifyWait=%v, want waitClientGone", got)
	}
}

func TestWaitContext_Timeout(t *testing.T) {
	defer SetWaitTimeout(0)
	SetWaitTimeout(10 * time.Millisecond)
	r := httptest.NewRequest(http.MethodPost, "/api/print?wait=1", nil)
	ctx, cancel := waitContext(r)
	defer cancel()
	<-ctx.Done()
	if got := classifyWait(ctx, r, ctx.Err()); got != waitTimedOut {
		t.Fatalf("classifyWait=%v, want waitTimedOut", got)
	}
}

func TestClassifyWait_JobErrorsAreSettled(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/print?wait=1", nil)
	ctx, cancel := waitContext(r)
	defer cancel()
	// a printer dial timeout is the job's error, not the caller's
	if got := classifyWait(ctx, r, context.DeadlineExceeded); got != waitSettled {
		t.Fatalf("classifyWait=%v, want waitSettled", got)
	}
	if got := classifyWait(ctx, r, errors.New("paper out")); got != waitSettled {
		t.Fatalf("classifyWait=%v, want waitSettled", got)
	}
	if got := classifyWait(ctx, r, nil); got != waitSettled {
		t.Fatalf("classifyWait=%v, want waitSettled", got)
	}
}

func TestSetBaseContext_NilRestoresBackground(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	SetBaseContext(ctx)
	cancel()
	if serverBaseCtx.Err() == nil {
		t.Fatal("expected base context to be the canceled one")
	}
	//nolint:staticcheck // nil is the documented reset
	SetBaseContext(nil)
	if serverBaseCtx.Err() != nil {
		t.Fatal("expected background after nil reset")
	}
}
