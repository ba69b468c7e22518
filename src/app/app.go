// Package app assembles the tutoring core: configuration, logging, storage,
// the failover dispatcher with its provider clients, the vision pipeline and
// the turn service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/atomiclibrary/atom/src/config"
	"github.com/atomiclibrary/atom/src/dispatch"
	"github.com/atomiclibrary/atom/src/orclient"
	"github.com/atomiclibrary/atom/src/storage"
	"github.com/atomiclibrary/atom/src/tutor"
	"github.com/atomiclibrary/atom/src/vision"
)

// App represents the main application with all services
type App struct {
	Config     *config.Config
	Logger     *slog.Logger
	Store      *storage.Store
	Dispatcher *dispatch.Dispatcher
	Vision     *vision.Pipeline
	Tutor      *tutor.Service

	db *storage.DB
}

// Options holds configuration for creating a new App instance
type Options struct {
	// Config, when set, is used as-is. Otherwise ConfigPath is loaded,
	// falling back to the default config location.
	Config     *config.Config
	ConfigPath string

	Logger *slog.Logger

	// OnProviderSwitch is forwarded to the dispatcher for UI feedback.
	OnProviderSwitch func(dispatch.ProviderID)
}

// New creates a new App instance with all services initialized
func New(ctx context.Context, opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		path := opts.ConfigPath
		if path == "" {
			path = config.GetDefaultStoragePaths().ConfigPath
		}
		loaded, err := config.NewLoader().Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(cfg.Logging)
	}

	dbPath := databasePath(cfg)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	store := storage.NewStore(db)

	pool := dispatch.NewPool(cfg)
	dispatcher := dispatch.NewDispatcher(dispatch.Options{
		Pool:             pool,
		Clients:          newClientFactory(cfg, pool, logger),
		Request:          cfg.Request,
		Timing:           cfg.Dispatch,
		Logger:           logger,
		OnProviderSwitch: opts.OnProviderSwitch,
	})

	pipeline := vision.NewPipeline(dispatcher, logger)
	service := tutor.NewService(dispatcher, pipeline, store, logger)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Store:      store,
		Dispatcher: dispatcher,
		Vision:     pipeline,
		Tutor:      service,
		db:         db,
	}, nil
}

// Close closes all resources held by the app
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// newClientFactory builds one upstream client per credential slot and role,
// so the dispatcher resolves an attempt to a ready client without re-reading
// configuration.
func newClientFactory(cfg *config.Config, pool *dispatch.Pool, logger *slog.Logger) dispatch.ClientFactory {
	clients := map[dispatch.Role][3]*orclient.Client{}

	for _, role := range []dispatch.Role{dispatch.RoleChat, dispatch.RoleVision} {
		var slots [3]*orclient.Client
		for id := dispatch.FirstProvider; int(id) <= 3; id++ {
			key, err := pool.Credential(id, role)
			if err != nil {
				// The dispatcher reports the missing credential itself when
				// the slot is attempted.
				continue
			}
			slots[id-1] = orclient.NewClient(orclient.Config{
				APIKey:   key,
				Logger:   logger,
				SiteURL:  cfg.Site.URL,
				SiteName: cfg.Site.Name,
			})
		}
		clients[role] = slots
	}

	return func(role dispatch.Role, id dispatch.ProviderID) dispatch.CompletionClient {
		return clients[role][id-1]
	}
}

func databasePath(cfg *config.Config) string {
	if cfg.Data.Directory != "" {
		return filepath.Join(cfg.Data.Directory, "sessions.db")
	}
	return config.GetDefaultStoragePaths().DatabasePath
}
