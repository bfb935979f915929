package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/1broseidon/tilesync/internal/config"
	"github.com/1broseidon/tilesync/internal/model"
	"github.com/1broseidon/tilesync/internal/platform"
)

// ErrStopped is returned for commands submitted after the reconciler exited.
var ErrStopped = errors.New("reconciler stopped")

// Env is everything a command may read or mutate. Only the reconciler
// goroutine touches it.
type Env struct {
	State   *model.State
	Config  *config.Config
	Backend platform.Backend
	// Events is optional; when set, managed windows are tracked for
	// visibility notifications.
	Events platform.EventSource
	Logger *slog.Logger
}

// Command is one model mutation. The reconciler runs a sync cycle after
// every command.
type Command struct {
	Name string
	Run  func(env *Env) error
}

type request struct {
	cmd  Command
	done chan error
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	// Interval between window list reconciliations. Zero uses 10s; negative
	// disables the periodic pass.
	Interval time.Duration
	Logger   *slog.Logger
}

// Reconciler owns the model. Commands arrive on a channel and are applied
// one at a time, each followed by a platform sync cycle.
type Reconciler struct {
	env      *Env
	sync     *PlatformSync
	interval time.Duration
	logger   *slog.Logger

	requests chan request
	stopped  chan struct{}
}

// NewReconciler creates a reconciler over env. env.Logger defaults to the
// reconciler's logger.
func NewReconciler(cfg ReconcilerConfig, env *Env) *Reconciler {
	interval := cfg.Interval
	if interval == 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if env.Logger == nil {
		env.Logger = logger
	}

	return &Reconciler{
		env:      env,
		sync:     NewPlatformSync(env.Backend, logger),
		interval: interval,
		logger:   logger,
		requests: make(chan request, 64),
		stopped:  make(chan struct{}),
	}
}

// Run applies commands until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	defer close(r.stopped)

	var tick <-chan time.Time
	if r.interval > 0 {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case req := <-r.requests:
			err := r.apply(req.cmd)
			if req.done != nil {
				req.done <- err
			}
		case <-tick:
			r.apply(ManageWindows())
		}
	}
}

// Submit runs cmd and waits for it and the following sync cycle.
func (r *Reconciler) Submit(ctx context.Context, cmd Command) error {
	req := request{cmd: cmd, done: make(chan error, 1)}
	select {
	case r.requests <- req:
	case <-r.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.done:
		return err
	case <-r.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Post queues cmd without waiting for it. It blocks only while the queue
// is full and reports false once the reconciler has exited.
func (r *Reconciler) Post(cmd Command) bool {
	select {
	case <-r.stopped:
		return false
	default:
	}
	select {
	case r.requests <- request{cmd: cmd}:
		return true
	case <-r.stopped:
		return false
	}
}

// Env exposes the reconciler's environment for use before Run starts.
func (r *Reconciler) Env() *Env {
	return r.env
}

// apply runs one command and one sync cycle. A failing command still syncs
// whatever it queued before failing.
func (r *Reconciler) apply(cmd Command) (err error) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("reconciler panic recovered", "command", cmd.Name, "error", rec)
			err = fmt.Errorf("%s: panic: %v", cmd.Name, rec)
		}
	}()

	cmdErr := cmd.Run(r.env)
	if cmdErr != nil {
		r.logger.Warn("command failed", "command", cmd.Name, "error", cmdErr)
		cmdErr = fmt.Errorf("%s: %w", cmd.Name, cmdErr)
	}

	if syncErr := r.sync.Sync(r.env.State, r.env.Config); syncErr != nil {
		r.logger.Error("sync cycle failed", "command", cmd.Name, "error", syncErr)
		if cmdErr == nil {
			return syncErr
		}
	}
	return cmdErr
}
