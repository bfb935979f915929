package daemon

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/tilesync/internal/model"
	"github.com/1broseidon/tilesync/internal/platform"
	"github.com/1broseidon/tilesync/internal/platform/platformtest"
)

func startReconciler(t *testing.T, env *Env) (*Reconciler, context.CancelFunc) {
	t.Helper()
	r := NewReconciler(ReconcilerConfig{Interval: -1, Logger: discardLogger()}, env)
	ctx, cancel := context.WithCancel(context.Background())
	go r.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-r.stopped
	})
	return r, cancel
}

func submit(t *testing.T, r *Reconciler, cmd Command) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.Submit(ctx, cmd)
}

func TestReconciler_SyncsAfterEachCommand(t *testing.T) {
	env, backend := newTestEnv(t, 0xa, 0xb)
	r, _ := startReconciler(t, env)

	// The first command drains the bootstrap intents.
	if err := submit(t, r, ResetEffects()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !env.State.PendingSync.Empty() {
		t.Fatalf("pending sync should be drained after a command")
	}
	if got := len(backend.CallsOf(platformtest.CallSetBorderColor)); got != 2 {
		t.Fatalf("expected borders on both windows, got %d", got)
	}

	backend.Reset()
	if err := submit(t, r, Query(func(*Env) error { return nil })); err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(backend.Calls) != 0 {
		t.Fatalf("an idle cycle should issue no calls, got %v", backend.Calls)
	}
}

func TestReconciler_ReportsCommandAndSyncErrors(t *testing.T) {
	env, _ := newTestEnv(t, 0xa)
	r, _ := startReconciler(t, env)

	errBoom := errors.New("boom")
	err := submit(t, r, Command{Name: "boom", Run: func(*Env) error { return errBoom }})
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected command error, got %v", err)
	}

	err = submit(t, r, Query(func(env *Env) error {
		env.State.ClearFocus()
		return nil
	}))
	if !errors.Is(err, model.ErrNoFocusedContainer) {
		t.Fatalf("expected sync error, got %v", err)
	}
}

func TestReconciler_RecoversFromPanics(t *testing.T) {
	env, _ := newTestEnv(t, 0xa)
	r, _ := startReconciler(t, env)

	err := submit(t, r, Command{Name: "explode", Run: func(*Env) error { panic("kaboom") }})
	if err == nil || !strings.Contains(err.Error(), "kaboom") {
		t.Fatalf("expected panic error, got %v", err)
	}
	if err := submit(t, r, ResetEffects()); err != nil {
		t.Fatalf("reconciler should keep running after a panic: %v", err)
	}
}

func TestReconciler_SubmitAfterStop(t *testing.T) {
	env, _ := newTestEnv(t, 0xa)
	r, cancel := startReconciler(t, env)
	cancel()
	<-r.stopped

	if err := submit(t, r, ResetEffects()); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if r.Post(ResetEffects()) {
		t.Fatalf("post after stop should report false")
	}
}

func TestWatchPlatform_PostsCommands(t *testing.T) {
	env, backend := newTestEnv(t, 0xa, 0xb)
	r, _ := startReconciler(t, env)
	if err := WatchPlatform(backend, r); err != nil {
		t.Fatalf("WatchPlatform: %v", err)
	}
	if err := submit(t, r, ResetEffects()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	var handle platform.WindowID
	if err := submit(t, r, Query(func(env *Env) error {
		c, _ := env.State.WindowByHandle(0xa)
		c.Window.DisplayState = platform.DisplayShowing
		return nil
	})); err != nil {
		t.Fatalf("query: %v", err)
	}

	backend.Foreground = 0xa
	backend.Raise(platform.Event{Kind: platform.EventWindowShown, Window: 0xa})
	backend.Raise(platform.Event{Kind: platform.EventForegroundChanged})

	var state platform.DisplayState
	if err := submit(t, r, Query(func(env *Env) error {
		c, _ := env.State.WindowByHandle(0xa)
		state = c.Window.DisplayState
		focused, err := env.State.FocusedContainer()
		if err != nil {
			return err
		}
		if w, ok := focused.AsWindow(); ok {
			handle = w.Handle
		}
		return nil
	})); err != nil {
		t.Fatalf("query: %v", err)
	}

	if state != platform.DisplayShown {
		t.Fatalf("map notification should complete the showing transition, got %s", state)
	}
	if handle != 0xa {
		t.Fatalf("foreground change should move model focus, got %#x", handle)
	}
}
