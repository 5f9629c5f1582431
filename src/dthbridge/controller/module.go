package controller

import (
	"github.com/uber/dthbridge/src/dthbridge/controller/bridge"
	dependencynotifier "github.com/uber/dthbridge/src/dthbridge/controller/dependency-notifier"
	projectsystem "github.com/uber/dthbridge/src/dthbridge/controller/project-system"
	"github.com/uber/dthbridge/src/dthbridge/controller/restore"
	"github.com/uber/dthbridge/src/dthbridge/controller/supervisor"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(supervisor.New),
	fx.Provide(restore.New),
	fx.Provide(dependencynotifier.New),
	fx.Provide(projectsystem.New),
	fx.Provide(bridge.New),
)
