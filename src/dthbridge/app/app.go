// Package app assembles the bridge application.
package app

import (
	"context"
	"time"

	tally "github.com/uber-go/tally"
	"github.com/uber/dthbridge/src/dthbridge/gateway"
	"github.com/uber/dthbridge/src/dthbridge/handler"
	"github.com/uber/dthbridge/src/dthbridge/internal/core"
	"github.com/uber/dthbridge/src/dthbridge/internal/executor"
	"github.com/uber/dthbridge/src/dthbridge/internal/filewatcher"
	"github.com/uber/dthbridge/src/dthbridge/internal/fs"
	"github.com/uber/dthbridge/src/dthbridge/internal/jsonrpcfx"
	"github.com/uber/dthbridge/src/dthbridge/internal/serverinfofile"
	"github.com/uber/dthbridge/src/dthbridge/repository/graph"
	"go.uber.org/fx"
)

// Module defines the bridge application module. The config.Provider is supplied by the caller.
var Module = fx.Options(
	gateway.Module, // outbounds
	handler.Module, // inbounds
	graph.Module,
	jsonrpcfx.Module,
	fs.Module,
	executor.Module,
	filewatcher.Module,
	serverinfofile.Module,
	core.LoggerModule,
	fx.Provide(func(lc fx.Lifecycle) tally.Scope {
		rs, closer := tally.NewRootScope(tally.ScopeOptions{
			Tags: map[string]string{
				"service": "dthbridge",
			},
		}, 1*time.Second)

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})

		return rs
	}),
	fx.Decorate(decorateConfigProvider),
)
