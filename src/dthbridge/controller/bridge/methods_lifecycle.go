package bridge

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/uber/dthbridge/src/dthbridge/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// Initialize records the editor's workspace and loads its projects.
// Every editor attached to one bridge must open the same workspace; only the first one triggers loading.
func (c *controller) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting session from context: %w", err)
	}

	root, err := mapper.InitializeParamsToWorkspaceRoot(params)
	if err != nil {
		return nil, fmt.Errorf("getting workspace root: %w", err)
	}
	s.InitializeParams = params
	s.WorkspaceRoot = root
	if err := c.sessions.Set(ctx, s); err != nil {
		return nil, fmt.Errorf("setting updated session state: %w", err)
	}

	c.mu.Lock()
	served := c.root
	if served == "" {
		c.root = root
	}
	c.mu.Unlock()

	switch served {
	case "":
		c.logger.Infow("loading workspace", "root", root, "session", s.UUID)
		if err := c.projects.Initialize(ctx, root); err != nil {
			return nil, fmt.Errorf("loading workspace %q: %w", root, err)
		}
	case root:
		c.stats.Counter("shared_sessions").Inc(1)
	default:
		return nil, fmt.Errorf("bridge already serves workspace %q", served)
	}

	return &protocol.InitializeResult{
		ServerInfo: &protocol.ServerInfo{
			Name: _serverName,
		},
	}, nil
}

// Initialized tells the editor how many projects were loaded.
func (c *controller) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session from context: %w", err)
	}

	projects := c.projects.Projects()
	msg := &protocol.ShowMessageParams{
		Message: fmt.Sprintf("Loaded %d projects from %s.", len(projects), s.WorkspaceRoot),
		Type:    protocol.MessageTypeInfo,
	}
	if len(projects) == 0 {
		msg.Message = fmt.Sprintf("No projects found under %s.", s.WorkspaceRoot)
		msg.Type = protocol.MessageTypeWarning
	}
	if err := c.editors.ShowMessage(ctx, msg); err != nil {
		c.logger.Warnw("sending initialized message", zap.Error(err))
	}
	return nil
}

// Shutdown is sent just before Exit to indicate that the session will exit.
func (c *controller) Shutdown(ctx context.Context) error {
	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return err
	}
	c.logger.Infow("session shutting down", "session", id)
	return nil
}

// Exit ends the current session, or the whole bridge once RequestFullShutdown has been received.
func (c *controller) Exit(ctx context.Context) error {
	c.mu.Lock()
	full := c.fullShutdown
	c.mu.Unlock()

	if full {
		// Zero out the timer to trigger immediate shutdown.
		c.idleTimerMu.Lock()
		c.idleTimer.Reset(0)
		c.idleTimerMu.Unlock()
		return nil
	}

	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("error during session exit: %w", err)
	}
	return c.EndSession(ctx, s.UUID)
}

// RequestFullShutdown makes the next Exit stop the whole bridge.
func (c *controller) RequestFullShutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fullShutdown = true
	return nil
}

// InitSession creates a new empty session and returns its UUID.
func (c *controller) InitSession(ctx context.Context, conn *jsonrpc2.Conn) (uuid.UUID, error) {
	defer c.refreshIdleTimer(ctx)

	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, err
	}

	if err := c.editors.RegisterClient(ctx, id, conn); err != nil {
		return uuid.Nil, err
	}
	if err := c.sessions.Set(ctx, mapper.UUIDToSession(id, conn)); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// EndSession includes any cleanup at the end of the session, during or after the last JSON-RPC request.
func (c *controller) EndSession(ctx context.Context, id uuid.UUID) error {
	defer c.refreshIdleTimer(ctx)

	if err := c.editors.DeregisterClient(ctx, id); err != nil {
		c.logger.Warnw("deregistering editor", "session", id, zap.Error(err))
	}
	return c.sessions.Delete(ctx, id)
}
