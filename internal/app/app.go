package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/five82/sqsnav/internal/config"
	"github.com/five82/sqsnav/internal/prefs"
	"github.com/five82/sqsnav/internal/sqs"
	"github.com/five82/sqsnav/internal/state"
	"github.com/five82/sqsnav/internal/store"
	"github.com/five82/sqsnav/internal/tree"
	"github.com/five82/sqsnav/internal/ui"
)

// Options configure the sqsnav application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/sqsnav/prefs.toml
	Profile    string // overrides prefs aws_profile
	Endpoint   string // overrides prefs aws_endpoint
	PollEvery  int    // seconds; zero uses config
	Debug      bool
}

// Env holds what every entry point needs: settings, the preference store,
// and the SQS gateway.
type Env struct {
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	Store     *store.Store
	Gateway   *sqs.Client

	logFile io.Closer
}

// Open loads config and prefs, routes slog to the log file, opens the
// preference store and builds the gateway.
func Open(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return nil, fmt.Errorf("load prefs: %w", err)
	}
	if opts.Profile != "" {
		userPrefs.AWSProfile = opts.Profile
	}
	if opts.Endpoint != "" {
		userPrefs.AWSEndpoint = opts.Endpoint
	}

	env := &Env{Config: cfg, Prefs: userPrefs, PrefsPath: opts.PrefsPath}
	if err := env.setupLogging(opts.Debug); err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.StoreDir())
	if err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	st.Subscribe(logStoreEvent)
	env.Store = st
	env.Gateway = sqs.NewClient(sqs.Options{
		Profile:  userPrefs.AWSProfile,
		Endpoint: userPrefs.AWSEndpoint,
	})
	slog.Info("sqsnav started", "store", cfg.StoreDir(), "profile", userPrefs.AWSProfile, "endpoint", userPrefs.AWSEndpoint)
	return env, nil
}

// logStoreEvent records every persisted preference change, whichever entry
// point made it.
func logStoreEvent(ev store.Event) {
	slog.Info("preferences saved", "change", ev.Kind.String())
}

func (e *Env) setupLogging(debug bool) error {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	if err := os.MkdirAll(filepath.Dir(e.Config.LogFile), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(e.Config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	e.logFile = f
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	return nil
}

// Close releases the log file.
func (e *Env) Close() error {
	if e == nil || e.logFile == nil {
		return nil
	}
	return e.logFile.Close()
}

// PollInterval returns the attribute poll cadence; zero disables polling.
func (e *Env) PollInterval(override int) time.Duration {
	secs := e.Config.PollSeconds
	if override > 0 {
		secs = override
	}
	return time.Duration(secs) * time.Second
}

// Run boots the sqsnav TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Open(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	sy := tree.NewSynchronizer(env.Store)
	sy.OnChange(func() {
		slog.Debug("tree changed", "nodes", sy.Tree().Len())
	})

	reloads, err := env.Store.Watch(ctx, store.DefaultDebounce)
	if err != nil {
		// The TUI still works without live reload.
		slog.Warn("store watch unavailable", "error", err)
	}

	stats := &state.Store{}
	interval := env.PollInterval(opts.PollEvery)
	if interval > 0 {
		StartPoller(ctx, stats, env.Gateway, env.Store.Queues, interval)
	}

	uiOpts := ui.Options{
		Context:   ctx,
		Sync:      sy,
		Gateway:   env.Gateway,
		Stats:     stats,
		Config:    &env.Config,
		Prefs:     env.Prefs,
		PrefsPath: env.PrefsPath,
		Reloads:   reloads,
		PollTick:  time.Second,
	}
	return ui.Run(uiOpts)
}
