package app

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/docsmith/collabd/src/collabd/gateway/vcs"
	"github.com/docsmith/collabd/src/collabd/gateway/vcs/githost"
	"github.com/docsmith/collabd/src/collabd/gateway/vcs/gitrepo"
	"github.com/docsmith/collabd/src/collabd/internal/clock"
	"github.com/docsmith/collabd/src/collabd/internal/fs"
	"github.com/docsmith/collabd/src/collabd/internal/kvstore"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Context struct {
	Environment        string `yaml:"environment"`
	RuntimeEnvironment string `yaml:"runtimeEnvironment"`
}

const (
	// EnvLocal indicates that the service is running locally.
	EnvLocal = "local"

	// EnvDevelopment indicates that the service is running in a development environment.
	EnvDevelopment = "development"

	// Environment variables
	_envCollabdEnvironment = "COLLABD_ENVIRONMENT"

	_storageKey = "storage"
	_vcsKey     = "vcs"
)

func decorateEnvContext(env Context) Context {
	envValue := EnvLocal
	if os.Getenv(_envCollabdEnvironment) == EnvDevelopment {
		envValue = EnvDevelopment
	} else {
		envValue = EnvLocal
	}

	env.Environment = envValue
	env.RuntimeEnvironment = envValue
	return env
}

// DecorateConfigParams is the set of dependencies required to decorate the config.Provider.
type DecorateConfigParams struct {
	fx.In

	Env Context
	Cfg config.Provider
	FS  fs.FS
}

// decorateConfigProvider includes any steps that modify the config.Provider before it is used, or use its data for any startup related activities.
func decorateConfigProvider(p DecorateConfigParams) (config.Provider, error) {
	combined, err := ensureLogFolder(p.Cfg, p.FS)
	if err != nil {
		return nil, fmt.Errorf("ensuring log folder: %v", err)
	}

	return combined, nil
}

// Ensure that all configured logging output directories exist or create if necessary.
func ensureLogFolder(cfg config.Provider, fs fs.FS) (config.Provider, error) {
	var c zap.Config
	if err := cfg.Get("logging").Populate(&c); err != nil {
		return nil, fmt.Errorf("loading logging config: %v", err)
	}

	for _, outputPath := range c.OutputPaths {
		if outputPath == "stdout" || outputPath == "stderr" {
			continue
		}
		dir := path.Dir(outputPath)
		if err := fs.MkdirAll(dir); err != nil {
			return nil, fmt.Errorf("creating logging directory: %v", err)
		}
	}

	return cfg, nil
}

type storageConfig struct {
	Dir string `yaml:"dir"`
}

type localRepoConfig struct {
	Path        string `yaml:"path"`
	AuthorName  string `yaml:"authorName"`
	AuthorEmail string `yaml:"authorEmail"`
}

type vcsConfig struct {
	GitHub githost.Config  `yaml:"github"`
	Local  localRepoConfig `yaml:"local"`
}

// KVStoreParams is the set of dependencies required to open the side-channel store.
type KVStoreParams struct {
	fx.In

	Cfg       config.Provider
	FS        fs.FS
	Clock     clock.Clock
	Lifecycle fx.Lifecycle
}

// newKVStore opens the durable side-channel store under the configured
// storage directory.
func newKVStore(p KVStoreParams) (kvstore.Store, error) {
	var cfg storageConfig
	if err := p.Cfg.Get(_storageKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("unable to get storage settings from config: %w", err)
	}
	if err := p.FS.MkdirAll(cfg.Dir); err != nil {
		return nil, fmt.Errorf("creating storage directory %q: %w", cfg.Dir, err)
	}

	store, err := kvstore.OpenSQLite(filepath.Join(cfg.Dir, "state.db"), p.Clock)
	if err != nil {
		return nil, fmt.Errorf("opening side-channel store: %w", err)
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}

// VCSHostParams is the set of dependencies required to select a branch host.
type VCSHostParams struct {
	fx.In

	Env Context
	Cfg config.Provider
}

// newVCSHost selects the branch host for the current environment. Local runs
// operate against a git repository on disk; other environments talk to the
// configured GitHub repository.
func newVCSHost(p VCSHostParams) (vcs.Host, error) {
	var cfg vcsConfig
	if err := p.Cfg.Get(_vcsKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("unable to get vcs settings from config: %w", err)
	}

	if p.Env.RuntimeEnvironment == EnvLocal {
		repo, err := gitrepo.Open(cfg.Local.Path, cfg.Local.AuthorName, cfg.Local.AuthorEmail)
		if err != nil {
			return nil, fmt.Errorf("opening local repository %q: %w", cfg.Local.Path, err)
		}
		return repo, nil
	}
	return githost.New(cfg.GitHub), nil
}
