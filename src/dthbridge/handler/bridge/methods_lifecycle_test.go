package bridge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/dthbridge/src/dthbridge/controller/bridge/bridgemock"
	"github.com/uber/dthbridge/src/dthbridge/entity"
	"github.com/uber/dthbridge/src/dthbridge/factory"
	"github.com/uber/dthbridge/src/dthbridge/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/mock/gomock"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name             string
		params           interface{}
		controllerResult *protocol.InitializeResult
		controllerError  error
		wantErr          bool
	}{
		{
			name:            "error from controller",
			params:          protocol.InitializeParams{RootURI: uri.File("/ws")},
			controllerError: errors.New("controller error"),
			wantErr:         true,
		},
		{
			name:             "no error from controller",
			params:           protocol.InitializeParams{RootURI: uri.File("/ws")},
			controllerResult: &protocol.InitializeResult{ServerInfo: &protocol.ServerInfo{Name: "bridge"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ctx := context.Background()
			replies := &replies{}

			c := bridgemock.NewMockController(ctrl)
			c.EXPECT().Initialize(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
				assert.Equal(t, uri.File("/ws"), params.RootURI)
				return tt.controllerResult, tt.controllerError
			})

			id := factory.UUID()
			r := jsonRPCRouter{bridge: c, uuid: id}
			err := r.HandleReq(ctx, replies.replier(), factory.JSONRPCRequest(protocol.MethodInitialize, tt.params))

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.controllerResult, replies.result)
			}
		})
	}

	t.Run("invalid params", func(t *testing.T) {
		r := jsonRPCRouter{bridge: bridgemock.NewMockController(gomock.NewController(t))}
		err := r.HandleReq(context.Background(), newMockReplier(), factory.JSONRPCRequest(protocol.MethodInitialize, "bad"))
		assert.Error(t, err)
	})
}

func TestInitialized(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := bridgemock.NewMockController(ctrl)
	r := jsonRPCRouter{bridge: c, uuid: factory.UUID()}

	c.EXPECT().Initialized(gomock.Any(), gomock.Any()).Return(nil)
	assert.NoError(t, r.HandleReq(context.Background(), newMockReplier(), factory.JSONRPCRequest(protocol.MethodInitialized, protocol.InitializedParams{})))

	c.EXPECT().Initialized(gomock.Any(), gomock.Any()).Return(errors.New("initialized error"))
	assert.Error(t, r.HandleReq(context.Background(), newMockReplier(), factory.JSONRPCRequest(protocol.MethodInitialized, protocol.InitializedParams{})))
}

func TestShutdown(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := bridgemock.NewMockController(ctrl)
	id := factory.UUID()
	r := jsonRPCRouter{bridge: c, uuid: id}

	c.EXPECT().Shutdown(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		got, err := mapper.ContextToSessionUUID(ctx)
		require.NoError(t, err)
		assert.Equal(t, id, got)
		return nil
	})
	assert.NoError(t, r.HandleReq(context.Background(), newMockReplier(), factory.JSONRPCRequest(protocol.MethodShutdown, nil)))
}

func TestExit(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := bridgemock.NewMockController(ctrl)
	r := jsonRPCRouter{bridge: c, uuid: factory.UUID()}
	replies := &replies{}

	c.EXPECT().Exit(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		assert.Equal(t, 1, replies.calls, "reply is sent before exiting")
		return errors.New("no session")
	})
	req, _ := jsonrpc2.NewNotification(protocol.MethodExit, nil)
	assert.Error(t, r.HandleReq(context.Background(), replies.replier(), req))
}

func TestRequestFullShutdown(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := bridgemock.NewMockController(ctrl)
	r := jsonRPCRouter{bridge: c, uuid: factory.UUID()}

	c.EXPECT().RequestFullShutdown(gomock.Any()).Return(nil)
	assert.NoError(t, r.HandleReq(context.Background(), newMockReplier(), factory.JSONRPCRequest(MethodRequestFullShutdown, nil)))
}

func TestSessionInContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := bridgemock.NewMockController(ctrl)
	id := factory.UUID()
	r := jsonRPCRouter{bridge: c, uuid: id}

	c.EXPECT().Projects(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]entity.Project, error) {
		assert.Equal(t, id, ctx.Value(entity.SessionContextKey))
		return nil, nil
	})
	assert.NoError(t, r.HandleReq(context.Background(), newMockReplier(), factory.JSONRPCRequest(entity.MethodProjects, nil)))
}
