package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/annaglova/breedhub-sub002/internal/badgerstore"
	"github.com/annaglova/breedhub-sub002/internal/ctxlog"
	"github.com/annaglova/breedhub-sub002/internal/engine"
	"github.com/annaglova/breedhub-sub002/internal/hclseed"
	"github.com/annaglova/breedhub-sub002/internal/inmemorystore"
	"github.com/annaglova/breedhub-sub002/internal/nodestore"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config

	store      nodestore.Store
	closeStore func() error
	engine     *engine.Engine

	httpServer *http.Server
}

// NewApp is the constructor for the main application. It opens the configured
// store and builds an engine on top of it. The caller must Close the App.
func NewApp(outW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully")

	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("Store opened", "store", cfg.Store, "dataDir", cfg.DataDir)

	eng, err := engine.New(store, engine.Options{
		Opposites:       cfg.OppositePairs(),
		MaxCascadeNodes: cfg.MaxCascadeNodes,
		User:            cfg.User,
	})
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	return &App{
		outW:       outW,
		logger:     logger,
		config:     cfg,
		store:      store,
		closeStore: closeStore,
		engine:     eng,
	}, nil
}

func openStore(cfg *Config, logger *slog.Logger) (nodestore.Store, func() error, error) {
	switch cfg.Store {
	case StoreBadger:
		bcfg := badgerstore.DefaultConfig(cfg.DataDir)
		bcfg.Logger = logger.With("component", "badger")
		s, err := badgerstore.Open(bcfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open badger store: %w", err)
		}
		return s, s.Close, nil
	case StoreMemory, "":
		return inmemorystore.New(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// Engine returns the application's engine.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// Store returns the application's node store.
func (a *App) Store() nodestore.Store {
	return a.store
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Context returns ctx carrying the application's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// Seed loads the seed files under the configured seed path, or under paths
// when given, and applies them together with the configured opposite pairs.
func (a *App) Seed(ctx context.Context, paths ...string) (*engine.SeedResult, error) {
	ctx = a.Context(ctx)
	if len(paths) == 0 {
		if a.config.SeedPath == "" {
			return nil, errors.New("no seed path configured")
		}
		paths = []string{a.config.SeedPath}
	}

	seed, err := hclseed.NewLoader().Load(ctx, paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load seed: %w", err)
	}
	res, err := a.engine.Seed(ctx, seed.Nodes, seed.Opposites)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Seed applied", "created", len(res.Created), "skipped", len(res.Skipped))
	return res, nil
}

// Close releases the store. It is safe to call once.
func (a *App) Close() error {
	a.logger.Debug("Closing app")
	if err := a.closeStore(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return nil
}
