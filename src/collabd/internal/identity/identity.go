// Package identity supplies the acting user's identity. The user id is an
// opaque stable identifier sourced from configuration, with an environment
// override for per-host deployments.
package identity

import (
	"context"
	"fmt"
	"os"

	"github.com/docsmith/collabd/src/collabd/entity"
	"go.uber.org/config"
	"go.uber.org/fx"
)

const (
	_userKey = "user"
	_envVar  = "COLLABD_USER_ID"
)

// Module provides a module to inject using fx.
var Module = fx.Options(
	fx.Provide(New),
)

// Provider resolves the current user's identity.
type Provider interface {
	// UserID returns the stable opaque identifier for the current user.
	UserID() string
	// WithUser returns a child context tagged with the current user id.
	WithUser(ctx context.Context) context.Context
}

type userConfig struct {
	ID string `yaml:"id"`
}

// Params are inbound parameters to construct the provider.
type Params struct {
	fx.In

	Config config.Provider
}

type provider struct {
	userID string
}

// New creates a Provider from configuration. The COLLABD_USER_ID environment
// variable takes precedence over the configured id.
func New(p Params) (Provider, error) {
	var cfg userConfig
	if err := p.Config.Get(_userKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("unable to get user info from config: %w", err)
	}
	if env := os.Getenv(_envVar); env != "" {
		cfg.ID = env
	}
	if cfg.ID == "" {
		return nil, fmt.Errorf("no user id configured: set %s.id or %s", _userKey, _envVar)
	}
	return &provider{userID: cfg.ID}, nil
}

// NewStatic creates a Provider with a fixed user id, for tests.
func NewStatic(userID string) Provider {
	return &provider{userID: userID}
}

func (p *provider) UserID() string {
	return p.userID
}

func (p *provider) WithUser(ctx context.Context) context.Context {
	return context.WithValue(ctx, entity.UserContextKey, p.userID)
}
