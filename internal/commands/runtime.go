package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/tgienger/ainotes/internal/ai"
	"github.com/tgienger/ainotes/internal/config"
	"github.com/tgienger/ainotes/internal/controller"
	"github.com/tgienger/ainotes/internal/db"
	"github.com/tgienger/ainotes/internal/logging"
	"github.com/tgienger/ainotes/internal/storage"
)

// Runtime holds everything a command needs, wired from configuration
type Runtime struct {
	Config      *config.Config
	Log         *log.Logger
	KV          db.Store
	Store       *storage.Store
	Keys        *config.KeyStore
	AI          *ai.Client
	Controllers *controller.Controllers

	logCloser io.Closer
}

// openRuntime loads configuration from configPath and opens the configured
// store. Callers must Close the runtime.
func openRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	kv, err := openStore(ctx, cfg)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Storage.Backend, err)
	}
	logger.WithField("backend", cfg.Storage.Backend).Debug("store opened")

	keys := config.NewKeyStore(kv, cfg.AI.APIKey)
	client := ai.New(ai.Options{
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
		Referer: cfg.AI.Referer,
		Title:   cfg.AI.Title,
		Timeout: cfg.AI.Timeout,
		Logger:  logger.WithField("component", "ai"),
	})
	store := storage.New(kv)

	return &Runtime{
		Config: cfg,
		Log:    logger,
		KV:     kv,
		Store:  store,
		Keys:   keys,
		AI:     client,
		Controllers: controller.New(controller.Deps{
			Store:  store,
			AI:     client,
			Keys:   keys,
			Logger: logger,
		}),
		logCloser: closer,
	}, nil
}

func openStore(ctx context.Context, cfg *config.Config) (db.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		return db.NewRedis(ctx, cfg.Redis)
	default:
		return db.New(cfg.DataDir)
	}
}

// Close releases the store and the log file
func (r *Runtime) Close() error {
	return errors.Join(r.KV.Close(), r.logCloser.Close())
}
