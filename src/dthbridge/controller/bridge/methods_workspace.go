package bridge

import (
	"context"
	"path/filepath"

	"github.com/uber/dthbridge/src/dthbridge/entity"
	"github.com/uber/dthbridge/src/dthbridge/gateway/workspace"
	"github.com/uber/dthbridge/src/dthbridge/mapper"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// DidChangeWatchedFiles forwards manifest and lock file changes reported by the editor.
func (c *controller) DidChangeWatchedFiles(ctx context.Context, params *protocol.DidChangeWatchedFilesParams) error {
	for _, change := range params.Changes {
		if change == nil {
			continue
		}
		path, err := mapper.FileEventToPath(change)
		if err != nil {
			c.logger.Debugw("ignoring watched file event", zap.Error(err))
			continue
		}
		switch filepath.Base(path) {
		case entity.ManifestFileName:
			c.notifier.ManifestChanged(ctx, path)
		case entity.LockFileName:
			c.notifier.LockFileChanged(ctx, path)
		}
	}
	return nil
}

// Projects returns every tracked project.
func (c *controller) Projects(ctx context.Context) ([]entity.Project, error) {
	return c.projects.Projects(), nil
}

// Workspace returns what the consuming workspace currently holds.
func (c *controller) Workspace(ctx context.Context) ([]workspace.ProjectSnapshot, error) {
	return c.workspace.Snapshot(), nil
}

// Restore runs a package restore for one project.
func (c *controller) Restore(ctx context.Context, params *entity.RestoreParams) error {
	return c.projects.Restore(ctx, params.FileName)
}

// ChangeConfiguration switches the build configuration of every project.
func (c *controller) ChangeConfiguration(ctx context.Context, params *entity.ChangeConfigurationParams) error {
	return c.projects.ChangeConfiguration(ctx, params.Configuration)
}
