package bridge

import (
	"context"

	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally"
	controller "github.com/uber/dthbridge/src/dthbridge/controller/bridge"
	"github.com/uber/dthbridge/src/dthbridge/entity"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// MethodRequestFullShutdown directs the bridge to shut down on the next JSON-RPC 'exit' method call.
const MethodRequestFullShutdown = "dth/requestFullShutdown"

type jsonRPCRouter struct {
	bridge controller.Controller
	uuid   uuid.UUID
	stats  tally.Scope
}

// HandleReq handles routing for a single request.
func (r *jsonRPCRouter) HandleReq(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	ctx = context.WithValue(ctx, entity.SessionContextKey, r.uuid)

	switch req.Method() {
	// Lifecycle related methods.
	case protocol.MethodInitialize:
		return r.Initialize(ctx, reply, req)

	case protocol.MethodInitialized:
		return r.Initialized(ctx, reply, req)

	case protocol.MethodShutdown:
		return r.Shutdown(ctx, reply, req)

	case protocol.MethodExit:
		return r.Exit(ctx, reply, req)

	case MethodRequestFullShutdown:
		return r.RequestFullShutdown(ctx, reply, req)

	// Workspace methods.
	case protocol.MethodWorkspaceDidChangeWatchedFiles:
		return r.DidChangeWatchedFiles(ctx, reply, req)

	// Bridge methods.
	case entity.MethodProjects:
		return r.Projects(ctx, reply, req)

	case entity.MethodWorkspace:
		return r.Workspace(ctx, reply, req)

	case entity.MethodRestore:
		return r.Restore(ctx, reply, req)

	case entity.MethodChangeConfiguration:
		return r.ChangeConfiguration(ctx, reply, req)

	default:
		if r.stats != nil {
			r.stats.Tagged(map[string]string{"method": req.Method()}).Counter("unknown_method").Inc(1)
		}
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}

func (r *jsonRPCRouter) UUID() uuid.UUID {
	return r.uuid
}
