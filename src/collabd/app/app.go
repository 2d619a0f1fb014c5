package app

import (
	"context"
	"time"

	"github.com/docsmith/collabd/src/collabd/controller"
	"github.com/docsmith/collabd/src/collabd/controller/lock"
	"github.com/docsmith/collabd/src/collabd/gateway"
	"github.com/docsmith/collabd/src/collabd/internal/clock"
	"github.com/docsmith/collabd/src/collabd/internal/core"
	"github.com/docsmith/collabd/src/collabd/internal/fs"
	"github.com/docsmith/collabd/src/collabd/internal/identity"
	"github.com/docsmith/collabd/src/collabd/repository/draft"
	tally "github.com/uber-go/tally"
	"go.uber.org/fx"
)

// Module defines the collabd application module.
var Module = fx.Options(
	gateway.Module, // outbounds
	controller.Module,
	draft.Module,
	clock.Module,
	fs.Module,
	identity.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(newKVStore),
	fx.Provide(newVCSHost),
	fx.Provide(func(lc fx.Lifecycle) tally.Scope {
		rs, closer := tally.NewRootScope(tally.ScopeOptions{
			Tags: map[string]string{
				"service": "collabd",
			},
		}, 1*time.Second)

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})

		return rs
	}),
	fx.Decorate(decorateEnvContext),
	fx.Decorate(decorateConfigProvider),
	fx.Provide(func() Context {
		return Context{
			Environment:        "local",
			RuntimeEnvironment: "local",
		}
	}),
	fx.Invoke(recoverInterruptedLocks),
)

// RecoverParams is the set of dependencies required to run lock recovery.
type RecoverParams struct {
	fx.In

	Locks     lock.Controller
	Identity  identity.Provider
	Lifecycle fx.Lifecycle
}

// recoverInterruptedLocks finishes any lock transition that a previous run
// left half-applied before the coordinator starts serving.
func recoverInterruptedLocks(p RecoverParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return p.Locks.RecoverInterrupted(ctx, p.Identity.UserID())
		},
	})
}
