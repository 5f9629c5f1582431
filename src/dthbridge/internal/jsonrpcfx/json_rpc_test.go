package jsonrpcfx

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/dthbridge/src/dthbridge/internal/serverinfofile/serverinfofilemock"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/config"
	"go.uber.org/fx/fxtest"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newConfig(t *testing.T, address interface{}) config.Provider {
	values := map[string]interface{}{}
	if address != nil {
		values["jsonrpc"] = map[string]interface{}{"address": address}
	}
	provider, err := config.NewStaticProvider(values)
	require.NoError(t, err)
	return provider
}

type echoRouter struct {
	id uuid.UUID
}

func (r *echoRouter) HandleReq(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	if req.Method() == "echo" {
		return reply(ctx, req.Params(), nil)
	}
	return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
}

func (r *echoRouter) UUID() uuid.UUID { return r.id }

type fakeConnectionManager struct {
	mu      sync.Mutex
	added   []uuid.UUID
	removed []uuid.UUID
	err     error
}

func (c *fakeConnectionManager) NewConnection(ctx context.Context, conn *jsonrpc2.Conn) (Router, error) {
	if c.err != nil {
		return nil, c.err
	}
	r := &echoRouter{id: uuid.Must(uuid.NewV4())}
	c.mu.Lock()
	c.added = append(c.added, r.id)
	c.mu.Unlock()
	return r, nil
}

func (c *fakeConnectionManager) RemoveConnection(ctx context.Context, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removed = append(c.removed, id)
}

func (c *fakeConnectionManager) removedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.removed)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		params  func(t *testing.T) Params
		wantErr bool
	}{
		{
			name:    "missing required params",
			params:  func(t *testing.T) Params { return Params{} },
			wantErr: true,
		},
		{
			name: "missing address",
			params: func(t *testing.T) Params {
				return Params{Lifecycle: fxtest.NewLifecycle(t), Config: newConfig(t, nil)}
			},
			wantErr: true,
		},
		{
			name: "all required params are present",
			params: func(t *testing.T) Params {
				return Params{Lifecycle: fxtest.NewLifecycle(t), Config: newConfig(t, "127.0.0.1:0")}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.params(t))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegisterConnectionManager(t *testing.T) {
	m := module{}
	cm := &fakeConnectionManager{}

	assert.NoError(t, m.RegisterConnectionManager(cm))
	assert.Error(t, m.RegisterConnectionManager(cm))
}

func TestServeStreamWithoutManager(t *testing.T) {
	m := module{logger: zap.NewNop().Sugar()}
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	err := m.ServeStream(context.Background(), jsonrpc2.NewConn(jsonrpc2.NewStream(server)))
	assert.Error(t, err)
}

func TestServeStreamNewConnectionError(t *testing.T) {
	m := module{logger: zap.NewNop().Sugar()}
	require.NoError(t, m.RegisterConnectionManager(&fakeConnectionManager{err: errors.New("sample error")}))
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	err := m.ServeStream(context.Background(), jsonrpc2.NewConn(jsonrpc2.NewStream(server)))
	assert.EqualError(t, err, "sample error")
}

func TestServe(t *testing.T) {
	ctrl := gomock.NewController(t)
	infoFile := serverinfofilemock.NewMockServerInfoFile(ctrl)
	infoFile.EXPECT().UpdateField(_outputKey, gomock.Any()).Return(nil)

	lc := fxtest.NewLifecycle(t)
	mod, err := New(Params{
		Config:         newConfig(t, "127.0.0.1:0"),
		Lifecycle:      lc,
		Logger:         zap.NewNop().Sugar(),
		ServerInfoFile: infoFile,
	})
	require.NoError(t, err)
	cm := &fakeConnectionManager{}
	require.NoError(t, mod.RegisterConnectionManager(cm))

	lc.RequireStart()

	netConn, err := net.Dial("tcp", mod.Addr().String())
	require.NoError(t, err)
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(netConn))
	conn.Go(context.Background(), jsonrpc2.MethodNotFoundHandler)

	var result map[string]string
	_, err = conn.Call(context.Background(), "echo", map[string]string{"hello": "bridge"}, &result)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"hello": "bridge"}, result)

	_, err = conn.Call(context.Background(), "unknown", nil, &result)
	assert.Error(t, err)

	require.NoError(t, conn.Close())
	<-conn.Done()
	assert.Eventually(t, func() bool { return cm.removedCount() == 1 }, 5*time.Second, 10*time.Millisecond)

	lc.RequireStop()
}

func TestOnStartListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	m := module{address: ln.Addr().String(), logger: zap.NewNop().Sugar()}
	assert.Error(t, m.OnStart(context.Background()))
	assert.NoError(t, m.OnStop(context.Background()))
}
