// Package bridge implements the editor facing business logic of the bridge.
package bridge

//go:generate mockgen -destination=bridgemock/bridge_mock.go -package=bridgemock . Controller

import (
	"context"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally"
	dependencynotifier "github.com/uber/dthbridge/src/dthbridge/controller/dependency-notifier"
	projectsystem "github.com/uber/dthbridge/src/dthbridge/controller/project-system"
	"github.com/uber/dthbridge/src/dthbridge/entity"
	editorclient "github.com/uber/dthbridge/src/dthbridge/gateway/editor-client"
	"github.com/uber/dthbridge/src/dthbridge/gateway/workspace"
	"github.com/uber/dthbridge/src/dthbridge/internal/core"
	"github.com/uber/dthbridge/src/dthbridge/repository/session"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _serverName = "Design Time Host Bridge"

// Controller orchestrates the business logic for each editor request.
type Controller interface {
	// LSP Methods defined per protocol.
	Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error)
	Initialized(ctx context.Context, params *protocol.InitializedParams) error
	Shutdown(ctx context.Context) error
	Exit(ctx context.Context) error
	DidChangeWatchedFiles(ctx context.Context, params *protocol.DidChangeWatchedFilesParams) error

	// Bridge specific methods.
	Projects(ctx context.Context) ([]entity.Project, error)
	Workspace(ctx context.Context) ([]workspace.ProjectSnapshot, error)
	Restore(ctx context.Context, params *entity.RestoreParams) error
	ChangeConfiguration(ctx context.Context, params *entity.ChangeConfigurationParams) error

	// Custom methods for use within this service.
	RequestFullShutdown(ctx context.Context) error
	InitSession(ctx context.Context, conn *jsonrpc2.Conn) (uuid.UUID, error)
	EndSession(ctx context.Context, id uuid.UUID) error
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Config     config.Provider
	Logger     *zap.SugaredLogger
	Stats      tally.Scope
	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Sessions   session.Repository
	Editors    editorclient.Gateway
	Workspace  workspace.Workspace
	Projects   projectsystem.Controller
	Notifier   dependencynotifier.Controller
}

type controller struct {
	sessions   session.Repository
	editors    editorclient.Gateway
	workspace  workspace.Workspace
	projects   projectsystem.Controller
	notifier   dependencynotifier.Controller
	shutdowner fx.Shutdowner
	logger     *zap.SugaredLogger
	stats      tally.Scope

	mu           sync.Mutex
	root         string
	fullShutdown bool

	idleTimer   *time.Timer
	idleTimerMu sync.Mutex
	idleTimeout time.Duration
}

// New constructs the controller. The bridge shuts itself down once no editor has been connected for the configured idle timeout.
func New(p Params) (Controller, error) {
	var cfg entity.BridgeConfig
	if err := core.PopulateSection(p.Config, entity.ConfigKeyBridge, &cfg); err != nil {
		return nil, err
	}

	c := &controller{
		sessions:    p.Sessions,
		editors:     p.Editors,
		workspace:   p.Workspace,
		projects:    p.Projects,
		notifier:    p.Notifier,
		shutdowner:  p.Shutdowner,
		logger:      p.Logger.With("component", "bridge"),
		stats:       p.Stats.SubScope("bridge"),
		idleTimeout: cfg.IdleTimeout,
	}
	c.refreshIdleTimer(context.Background())

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			c.idleTimerMu.Lock()
			defer c.idleTimerMu.Unlock()
			c.idleTimer.Stop()
			return nil
		},
	})
	return c, nil
}

// refreshIdleTimer arms the idle timer on first use and rearms it whenever the last session goes away.
func (c *controller) refreshIdleTimer(ctx context.Context) {
	c.idleTimerMu.Lock()
	defer c.idleTimerMu.Unlock()

	if c.idleTimer == nil {
		c.idleTimer = time.AfterFunc(c.idleTimeout, c.shutdown)
		return
	}

	count, err := c.sessions.SessionCount(ctx)
	if err != nil {
		c.logger.Errorw("resetting idle timer", zap.Error(err))
		return
	}
	c.idleTimer.Stop()
	if count == 0 {
		c.idleTimer.Reset(c.idleTimeout)
	}
}

func (c *controller) shutdown() {
	c.logger.Info("shutdown signal received")
	if err := c.shutdowner.Shutdown(); err != nil {
		c.logger.Errorw("shutting down", zap.Error(err))
	}
}
