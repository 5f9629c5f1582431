package bridge

import (
	"context"

	"github.com/uber/dthbridge/src/dthbridge/mapper"
	"go.lsp.dev/jsonrpc2"
)

// DidChangeWatchedFiles forwards project file changes seen by the editor.
func (r *jsonRPCRouter) DidChangeWatchedFiles(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToDidChangeWatchedFilesParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.bridge.DidChangeWatchedFiles(ctx, params)
	return reply(ctx, nil, err)
}

func (r *jsonRPCRouter) Projects(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	result, err := r.bridge.Projects(ctx)
	return reply(ctx, result, err)
}

func (r *jsonRPCRouter) Workspace(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	result, err := r.bridge.Workspace(ctx)
	return reply(ctx, result, err)
}

func (r *jsonRPCRouter) Restore(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToRestoreParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.bridge.Restore(ctx, params)
	return reply(ctx, nil, err)
}

func (r *jsonRPCRouter) ChangeConfiguration(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToChangeConfigurationParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.bridge.ChangeConfiguration(ctx, params)
	return reply(ctx, nil, err)
}
