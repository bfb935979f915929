package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tilesync/internal/config"
	"github.com/1broseidon/tilesync/internal/daemon"
	"github.com/1broseidon/tilesync/internal/events"
	"github.com/1broseidon/tilesync/internal/hotkeys"
	"github.com/1broseidon/tilesync/internal/ipc"
	"github.com/1broseidon/tilesync/internal/platform"
)

func newDaemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Start the tilesync daemon (foreground)",
		Long: `Start the tilesync daemon in the foreground

Adopts every existing top-level window into the first workspace, grabs the
configured hotkeys and serves IPC requests until interrupted. Edits to the
config file are picked up automatically; SIGHUP forces a reload.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context())
		},
	}
}

func runDaemon(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	defer backend.Disconnect()

	bus := events.NewBus()
	env := &daemon.Env{
		Config:  cfg,
		Backend: backend,
		Events:  backend,
		Logger:  logger,
	}
	if err := daemon.Bootstrap(env, bus); err != nil {
		return fmt.Errorf("failed to build window model: %w", err)
	}
	logger.Info("window model ready",
		"workspaces", len(cfg.Workspaces),
		"windows", len(env.State.Windows()))

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{Logger: logger}, env)
	go reconciler.Run(ctx)

	// Flush the bootstrap's pending redraw, focus and effects.
	if err := reconciler.Submit(ctx, daemon.Query(func(*daemon.Env) error { return nil })); err != nil {
		logger.Warn("initial sync failed", "error", err)
	}

	if err := daemon.WatchPlatform(backend, reconciler); err != nil {
		return fmt.Errorf("failed to watch window system: %w", err)
	}

	hotkeyHandler, err := hotkeys.NewHandler(backend, reconciler, logger)
	if err != nil {
		return err
	}
	if err := hotkeyHandler.Register(cfg.Hotkeys); err != nil {
		logger.Warn("some hotkeys are unavailable", "error", err)
	}

	applyConfig := func(newCfg *config.Config) {
		logger.Info("applying configuration")
		if lvl, ok := parseLevel(newCfg.LogLevel); ok {
			logLevel.Set(lvl)
		}
		reconciler.Post(daemon.Reload(newCfg))
		if err := hotkeyHandler.Rebind(newCfg.Hotkeys); err != nil {
			logger.Warn("some hotkeys are unavailable", "error", err)
		}
	}

	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	go func() {
		if err := config.Watch(ctx, path, logger, applyConfig); err != nil {
			logger.Warn("config watcher failed", "error", err)
		}
	}()

	ipcServer, err := ipc.NewServer(ipc.ServerConfig{
		SocketPath: socketPath,
		Reconciler: reconciler,
		Bus:        bus,
		LoadConfig: loadConfig,
	})
	if err != nil {
		return fmt.Errorf("failed to create IPC server: %w", err)
	}
	if err := ipcServer.Start(); err != nil {
		return fmt.Errorf("failed to start IPC server: %w", err)
	}
	defer ipcServer.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	// The X event loop blocks for the life of the connection.
	go backend.EventLoop()

	logger.Info("tilesync daemon started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				logger.Info("received SIGHUP, reloading config")
				newCfg, err := loadConfig()
				if err != nil {
					logger.Warn("config reload failed", "error", err)
					continue
				}
				applyConfig(newCfg)
				continue
			}
			logger.Info("shutting down tilesync daemon")
			return nil
		}
	}
}

var logLevel = new(slog.LevelVar)

func newLogger(level string) *slog.Logger {
	if lvl, ok := parseLevel(level); ok {
		logLevel.Set(lvl)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func parseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultConfigPath()
}

func loadConfig() (*config.Config, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	return config.LoadFromPath(path)
}
