package bridge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally"
	"github.com/uber/dthbridge/idl/mock/fxmock"
	"github.com/uber/dthbridge/idl/mock/jsonrpc2mock"
	"github.com/uber/dthbridge/src/dthbridge/controller/dependency-notifier/dependencynotifiermock"
	"github.com/uber/dthbridge/src/dthbridge/controller/project-system/projectsystemmock"
	"github.com/uber/dthbridge/src/dthbridge/entity"
	"github.com/uber/dthbridge/src/dthbridge/gateway/editor-client/editorclientmock"
	"github.com/uber/dthbridge/src/dthbridge/gateway/workspace/workspacemock"
	"github.com/uber/dthbridge/src/dthbridge/repository/session"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	c          *controller
	sessions   session.Repository
	shutdowner *fxmock.MockShutdowner
	editors    *editorclientmock.MockGateway
	workspace  *workspacemock.MockWorkspace
	projects   *projectsystemmock.MockController
	notifier   *dependencynotifiermock.MockController
	stats      tally.TestScope
}

func provider(t *testing.T, idleTimeout string) config.Provider {
	p, err := config.NewStaticProvider(map[string]interface{}{
		entity.ConfigKeyBridge: map[string]interface{}{"idleTimeout": idleTimeout},
	})
	require.NoError(t, err)
	return p
}

func newFixture(t *testing.T, idleTimeout string) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		sessions:   session.New(tally.NoopScope),
		shutdowner: fxmock.NewMockShutdowner(ctrl),
		editors:    editorclientmock.NewMockGateway(ctrl),
		workspace:  workspacemock.NewMockWorkspace(ctrl),
		projects:   projectsystemmock.NewMockController(ctrl),
		notifier:   dependencynotifiermock.NewMockController(ctrl),
		stats:      tally.NewTestScope("", nil),
	}
	lc := fxtest.NewLifecycle(t)
	c, err := New(Params{
		Config:     provider(t, idleTimeout),
		Logger:     zap.NewNop().Sugar(),
		Stats:      f.stats,
		Lifecycle:  lc,
		Shutdowner: f.shutdowner,
		Sessions:   f.sessions,
		Editors:    f.editors,
		Workspace:  f.workspace,
		Projects:   f.projects,
		Notifier:   f.notifier,
	})
	require.NoError(t, err)
	f.c = c.(*controller)
	lc.RequireStart()
	t.Cleanup(lc.RequireStop)
	return f
}

// session registers a new editor and returns a context carrying its id.
func (f *fixture) session(t *testing.T) (context.Context, uuid.UUID) {
	ctx := context.Background()
	f.editors.EXPECT().RegisterClient(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	var conn jsonrpc2.Conn = jsonrpc2mock.NewMockConn(gomock.NewController(t))
	id, err := f.c.InitSession(ctx, &conn)
	require.NoError(t, err)
	return context.WithValue(ctx, entity.SessionContextKey, id), id
}

func TestNew(t *testing.T) {
	t.Run("missing idle timeout", func(t *testing.T) {
		p, err := config.NewStaticProvider(map[string]interface{}{})
		require.NoError(t, err)
		_, err = New(Params{Config: p, Logger: zap.NewNop().Sugar(), Stats: tally.NoopScope, Lifecycle: fxtest.NewLifecycle(t)})
		assert.Error(t, err)
	})

	t.Run("idle timer armed before the first connection", func(t *testing.T) {
		f := newFixture(t, "1h")
		assert.Equal(t, time.Hour, f.c.idleTimeout)
		assert.NotNil(t, f.c.idleTimer)
	})
}

func TestIdleShutdown(t *testing.T) {
	f := newFixture(t, "10ms")
	done := make(chan struct{})
	f.shutdowner.EXPECT().Shutdown().DoAndReturn(func(...fx.ShutdownOption) error {
		close(done)
		return errors.New("already stopping")
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("bridge did not shut down after the idle timeout")
	}
}

func TestSessions(t *testing.T) {
	f := newFixture(t, "1h")
	ctx, id := f.session(t)

	s, err := f.sessions.GetFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, s.UUID)
	assert.NotNil(t, s.Conn)

	f.editors.EXPECT().DeregisterClient(gomock.Any(), id).Return(errors.New("unknown editor"))
	require.NoError(t, f.c.EndSession(ctx, id))
	count, err := f.sessions.SessionCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestInitSessionRegisterError(t *testing.T) {
	f := newFixture(t, "1h")
	f.editors.EXPECT().RegisterClient(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection is required"))

	id, err := f.c.InitSession(context.Background(), nil)
	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, id)
}

func TestExit(t *testing.T) {
	t.Run("ends the session", func(t *testing.T) {
		f := newFixture(t, "1h")
		ctx, id := f.session(t)
		f.editors.EXPECT().DeregisterClient(gomock.Any(), id).Return(nil)

		require.NoError(t, f.c.Shutdown(ctx))
		require.NoError(t, f.c.Exit(ctx))
		_, err := f.sessions.Get(ctx, id)
		assert.Error(t, err)
	})

	t.Run("without a session", func(t *testing.T) {
		f := newFixture(t, "1h")
		assert.Error(t, f.c.Shutdown(context.Background()))
		assert.Error(t, f.c.Exit(context.Background()))
	})

	t.Run("full shutdown", func(t *testing.T) {
		f := newFixture(t, "1h")
		ctx, _ := f.session(t)
		done := make(chan struct{})
		f.shutdowner.EXPECT().Shutdown().DoAndReturn(func(...fx.ShutdownOption) error {
			close(done)
			return nil
		})

		require.NoError(t, f.c.RequestFullShutdown(ctx))
		require.NoError(t, f.c.Exit(ctx))
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("bridge did not shut down")
		}
	})
}
