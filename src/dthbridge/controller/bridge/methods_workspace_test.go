package bridge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/dthbridge/src/dthbridge/entity"
	"github.com/uber/dthbridge/src/dthbridge/gateway/workspace"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

func TestDidChangeWatchedFiles(t *testing.T) {
	f := newFixture(t, "1h")
	ctx := context.Background()

	f.notifier.EXPECT().ManifestChanged(ctx, "/ws/src/app/project.json")
	f.notifier.EXPECT().LockFileChanged(ctx, "/ws/src/lib/project.lock.json")

	err := f.c.DidChangeWatchedFiles(ctx, &protocol.DidChangeWatchedFilesParams{
		Changes: []*protocol.FileEvent{
			{Type: protocol.FileChangeTypeChanged, URI: uri.File("/ws/src/app/project.json")},
			{Type: protocol.FileChangeTypeCreated, URI: uri.File("/ws/src/lib/project.lock.json")},
			{Type: protocol.FileChangeTypeChanged, URI: uri.File("/ws/src/app/Program.cs")},
			{Type: protocol.FileChangeTypeChanged, URI: "https://example.com/project.json"},
			nil,
		},
	})
	assert.NoError(t, err)
}

func TestQueries(t *testing.T) {
	f := newFixture(t, "1h")
	ctx := context.Background()

	projects := []entity.Project{{ContextID: 1, Path: "/ws/project.json"}}
	f.projects.EXPECT().Projects().Return(projects)
	got, err := f.c.Projects(ctx)
	require.NoError(t, err)
	assert.Equal(t, projects, got)

	snapshot := []workspace.ProjectSnapshot{{ProjectInfo: workspace.ProjectInfo{Name: "app"}}}
	f.workspace.EXPECT().Snapshot().Return(snapshot)
	ws, err := f.c.Workspace(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot, ws)
}

func TestCommands(t *testing.T) {
	f := newFixture(t, "1h")
	ctx := context.Background()

	f.projects.EXPECT().Restore(ctx, "/ws/project.json").Return(nil)
	assert.NoError(t, f.c.Restore(ctx, &entity.RestoreParams{FileName: "/ws/project.json"}))

	f.projects.EXPECT().ChangeConfiguration(ctx, "Release").Return(errors.New("not connected"))
	assert.Error(t, f.c.ChangeConfiguration(ctx, &entity.ChangeConfigurationParams{Configuration: "Release"}))
}
