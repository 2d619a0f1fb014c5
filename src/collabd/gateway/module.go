package gateway

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/docsmith/collabd/src/collabd/gateway/contentstore"
	"github.com/docsmith/collabd/src/collabd/gateway/contentstore/sqlitestore"
	"github.com/docsmith/collabd/src/collabd/gateway/presence"
	"github.com/docsmith/collabd/src/collabd/gateway/presence/hub"
	"github.com/docsmith/collabd/src/collabd/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _storageKey = "storage"

// Module provides the outbound gateways.
var Module = fx.Options(
	fx.Provide(NewContentStore),
	fx.Provide(NewPresenceHub),
)

type storageConfig struct {
	Dir string `yaml:"dir"`
}

// ContentStoreParams are inbound parameters to construct the content store.
type ContentStoreParams struct {
	fx.In

	Config    config.Provider
	FS        fs.FS
	Lifecycle fx.Lifecycle
}

// NewContentStore opens the durable draft store under the configured storage
// directory.
func NewContentStore(p ContentStoreParams) (contentstore.Gateway, error) {
	var cfg storageConfig
	if err := p.Config.Get(_storageKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("unable to get storage settings from config: %w", err)
	}
	if err := p.FS.MkdirAll(cfg.Dir); err != nil {
		return nil, fmt.Errorf("creating storage directory %q: %w", cfg.Dir, err)
	}

	store, err := sqlitestore.Open(filepath.Join(cfg.Dir, "drafts.db"))
	if err != nil {
		return nil, fmt.Errorf("opening draft store: %w", err)
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}

// NewPresenceHub creates the in-process presence channel.
func NewPresenceHub(logger *zap.SugaredLogger, lc fx.Lifecycle) presence.Gateway {
	h := hub.New(logger)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			h.Close()
			return nil
		},
	})
	return h
}
