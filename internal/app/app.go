package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/five82/shaker/internal/cocktaildb"
	"github.com/five82/shaker/internal/config"
	"github.com/five82/shaker/internal/kv"
	"github.com/five82/shaker/internal/logging"
	"github.com/five82/shaker/internal/prefs"
	"github.com/five82/shaker/internal/state"
	"github.com/five82/shaker/internal/ui"
)

// Options configure the shaker application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/shaker/prefs.toml
	Backend    string // overrides [storage] backend when set
}

// Run boots the shaker TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.Backend != "" {
		cfg.Storage.Backend = opts.Backend
	}

	logger, logFile, err := logging.Open(cfg.LogPath(), logging.ParseLevel(cfg.LogLevel))
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	userPrefs := prefs.Load(opts.PrefsPath)

	session, cleanup, err := NewSession(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return err
	}
	defer cleanup()

	return ui.Run(ui.Options{
		Context:   ctx,
		Session:   session,
		ThemeName: userPrefs.Theme,
		Currency:  userPrefs.Currency,
		PrefsPath: opts.PrefsPath,
		Logger:    logger,
	})
}

// NewSession wires storage and the recipe client from cfg into a Session.
// The returned cleanup closes the session and then the storage backend.
func NewSession(ctx context.Context, cfg config.Config, logger *slog.Logger) (*state.Session, func(), error) {
	logger = logging.OrDiscard(logger)

	backend, closeBackend, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	client, err := cocktaildb.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)
	if err != nil {
		closeBackend()
		return nil, nil, fmt.Errorf("init recipe client: %w", err)
	}

	session, err := state.Open(ctx, state.Options{
		Store:  kv.NewStore(backend, logger),
		Lookup: client,
		Prices: state.Prices{
			Default:   cfg.Pricing.DefaultPrice,
			Overrides: cfg.Pricing.Overrides,
		},
		HistoryLimit: cfg.HistoryLimit,
		Logger:       logger,
	})
	if err != nil {
		closeBackend()
		return nil, nil, fmt.Errorf("open session: %w", err)
	}
	logger.Info("storage ready", "backend", cfg.Storage.Backend, "api", cfg.APIBaseURL)

	cleanup := func() {
		_ = session.Close()
		closeBackend()
	}
	return session, cleanup, nil
}
