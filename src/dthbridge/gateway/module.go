package gateway

import (
	editorclient "github.com/uber/dthbridge/src/dthbridge/gateway/editor-client"
	hostchannel "github.com/uber/dthbridge/src/dthbridge/gateway/host-channel"
	"github.com/uber/dthbridge/src/dthbridge/gateway/workspace"
	"go.uber.org/fx"
)

// Module provides the outbound gateways of the bridge.
var Module = fx.Options(
	editorclient.Module,
	hostchannel.Module,
	workspace.Module,
)
