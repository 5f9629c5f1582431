package handler

import (
	controller "github.com/uber/dthbridge/src/dthbridge/controller"
	bridgecontroller "github.com/uber/dthbridge/src/dthbridge/controller/bridge"
	projectsystem "github.com/uber/dthbridge/src/dthbridge/controller/project-system"
	handler "github.com/uber/dthbridge/src/dthbridge/handler/bridge"
	"github.com/uber/dthbridge/src/dthbridge/repository/session"
	"go.uber.org/fx"
)

// Module provides the bridge's editor facing server into an Fx application.
var Module = fx.Options(
	controller.Module,
	fx.Provide(session.New),
	fx.Provide(handler.New),
	fx.Invoke(outputServiceInfo),
	fx.Invoke(func(h handler.Handler) {}),
	fx.Invoke(func(c bridgecontroller.Controller) {}),
	fx.Invoke(func(p projectsystem.Controller) {}),
)
