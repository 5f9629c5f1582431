package bridge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	projectsystem "github.com/uber/dthbridge/src/dthbridge/controller/project-system"
	"github.com/uber/dthbridge/src/dthbridge/entity"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/mock/gomock"
)

func TestInitialize(t *testing.T) {
	params := func(root string) *protocol.InitializeParams {
		return &protocol.InitializeParams{RootURI: uri.File(root)}
	}

	t.Run("first editor loads the workspace", func(t *testing.T) {
		f := newFixture(t, "1h")
		ctx, _ := f.session(t)
		f.projects.EXPECT().Initialize(gomock.Any(), "/ws").Return(nil)

		result, err := f.c.Initialize(ctx, params("/ws"))
		require.NoError(t, err)
		assert.Equal(t, _serverName, result.ServerInfo.Name)

		s, err := f.sessions.GetFromContext(ctx)
		require.NoError(t, err)
		assert.Equal(t, "/ws", s.WorkspaceRoot)
		assert.NotNil(t, s.InitializeParams)

		t.Run("later editors share it", func(t *testing.T) {
			ctx, _ := f.session(t)
			_, err := f.c.Initialize(ctx, params("/ws"))
			require.NoError(t, err)
			assert.EqualValues(t, 1, f.stats.Snapshot().Counters()["bridge.shared_sessions+"].Value())
		})

		t.Run("other workspaces are refused", func(t *testing.T) {
			ctx, _ := f.session(t)
			_, err := f.c.Initialize(ctx, params("/other"))
			assert.ErrorContains(t, err, `already serves workspace "/ws"`)
		})
	})

	t.Run("loading fails", func(t *testing.T) {
		f := newFixture(t, "1h")
		ctx, _ := f.session(t)
		f.projects.EXPECT().Initialize(gomock.Any(), "/ws").Return(projectsystem.ErrHostUnavailable)

		_, err := f.c.Initialize(ctx, params("/ws"))
		assert.ErrorIs(t, err, projectsystem.ErrHostUnavailable)
	})

	t.Run("no workspace root", func(t *testing.T) {
		f := newFixture(t, "1h")
		ctx, _ := f.session(t)

		_, err := f.c.Initialize(ctx, &protocol.InitializeParams{})
		assert.Error(t, err)
	})

	t.Run("no session", func(t *testing.T) {
		f := newFixture(t, "1h")
		_, err := f.c.Initialize(context.Background(), params("/ws"))
		assert.Error(t, err)
	})
}

func TestInitialized(t *testing.T) {
	f := newFixture(t, "1h")
	ctx, _ := f.session(t)
	f.projects.EXPECT().Initialize(gomock.Any(), "/ws").Return(nil)
	_, err := f.c.Initialize(ctx, &protocol.InitializeParams{RootPath: "/ws"})
	require.NoError(t, err)

	f.projects.EXPECT().Projects().Return([]entity.Project{{ContextID: 1}, {ContextID: 2}})
	f.editors.EXPECT().ShowMessage(gomock.Any(), &protocol.ShowMessageParams{
		Message: "Loaded 2 projects from /ws.",
		Type:    protocol.MessageTypeInfo,
	}).Return(nil)
	require.NoError(t, f.c.Initialized(ctx, &protocol.InitializedParams{}))

	f.projects.EXPECT().Projects().Return(nil)
	f.editors.EXPECT().ShowMessage(gomock.Any(), &protocol.ShowMessageParams{
		Message: "No projects found under /ws.",
		Type:    protocol.MessageTypeWarning,
	}).Return(errors.New("editor gone"))
	require.NoError(t, f.c.Initialized(ctx, &protocol.InitializedParams{}))

	assert.Error(t, f.c.Initialized(context.Background(), &protocol.InitializedParams{}))
}
