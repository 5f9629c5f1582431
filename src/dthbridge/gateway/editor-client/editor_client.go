// Package editorclient sends bridge events to connected editors.
package editorclient

//go:generate mockgen -destination=editorclientmock/editor_client_mock.go -package=editorclientmock . Gateway

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/uber/dthbridge/src/dthbridge/entity"
	"github.com/uber/dthbridge/src/dthbridge/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	_errSendToClient = "sending notification to editor %q: %w"

	_titleRestoreProgress = "Restoring packages"
	_progressTokenPrefix  = "dth/restore:"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Gateway is used to send outbound notifications to editors.
// Events are broadcast to every registered editor; ShowMessage targets the session carried by the context.
type Gateway interface {
	// RegisterClient registers a new client with the gateway. Should be called each time a new editor connection is initialized.
	RegisterClient(ctx context.Context, id uuid.UUID, conn *jsonrpc2.Conn) error
	// DeregisterClient removes a client from the gateway. Should be called each time an editor connection is closed.
	DeregisterClient(ctx context.Context, id uuid.UUID) error

	// Emit broadcasts a bridge event. Restore events also drive a work done progress.
	Emit(ctx context.Context, event entity.Event) error
	// LogMessage broadcasts a window/logMessage notification.
	LogMessage(ctx context.Context, params *protocol.LogMessageParams) error
	// ShowMessage sends a window/showMessage notification to the editor of the current session.
	ShowMessage(ctx context.Context, params *protocol.ShowMessageParams) error
}

type client struct {
	id         uuid.UUID
	dispatcher protocol.Client
	conn       jsonrpc2.Conn
}

type gateway struct {
	clientsMu sync.Mutex
	clients   map[uuid.UUID]client
	// progress holds the tokens each client has created and not yet ended.
	progress map[uuid.UUID]map[string]struct{}
	logger   *zap.Logger
}

// New returns a Gateway for sending editor notifications.
func New(logger *zap.Logger) Gateway {
	return &gateway{
		clients:  make(map[uuid.UUID]client),
		progress: make(map[uuid.UUID]map[string]struct{}),
		logger:   logger,
	}
}

func (g *gateway) RegisterClient(ctx context.Context, id uuid.UUID, conn *jsonrpc2.Conn) error {
	if conn == nil || *conn == nil {
		return fmt.Errorf("registering editor %q: connection is required", id)
	}

	g.clientsMu.Lock()
	defer g.clientsMu.Unlock()

	g.clients[id] = client{
		id:         id,
		dispatcher: protocol.ClientDispatcher(*conn, g.logger),
		conn:       *conn,
	}
	return nil
}

func (g *gateway) DeregisterClient(ctx context.Context, id uuid.UUID) error {
	g.clientsMu.Lock()
	defer g.clientsMu.Unlock()

	delete(g.clients, id)
	delete(g.progress, id)
	return nil
}

func (g *gateway) Emit(ctx context.Context, event entity.Event) error {
	progress := restoreProgress(event)
	return g.broadcast(func(c client) error {
		if err := c.conn.Notify(ctx, string(event.Type), event.Body); err != nil {
			return err
		}
		if progress != nil {
			return g.sendProgress(ctx, c, progress)
		}
		return nil
	})
}

// sendProgress creates the token before the first report and only ends tokens the client has created.
func (g *gateway) sendProgress(ctx context.Context, c client, params *protocol.ProgressParams) error {
	token := params.Token.String()
	switch params.Value.(type) {
	case *protocol.WorkDoneProgressBegin:
		if err := c.dispatcher.WorkDoneProgressCreate(ctx, &protocol.WorkDoneProgressCreateParams{Token: params.Token}); err != nil {
			return fmt.Errorf("creating restore progress: %w", err)
		}
		g.clientsMu.Lock()
		if g.progress[c.id] == nil {
			g.progress[c.id] = make(map[string]struct{})
		}
		g.progress[c.id][token] = struct{}{}
		g.clientsMu.Unlock()
	case *protocol.WorkDoneProgressEnd:
		g.clientsMu.Lock()
		_, created := g.progress[c.id][token]
		delete(g.progress[c.id], token)
		g.clientsMu.Unlock()
		if !created {
			return nil
		}
	}
	return c.dispatcher.Progress(ctx, params)
}

func (g *gateway) LogMessage(ctx context.Context, params *protocol.LogMessageParams) error {
	return g.broadcast(func(c client) error {
		return c.dispatcher.LogMessage(ctx, params)
	})
}

func (g *gateway) ShowMessage(ctx context.Context, params *protocol.ShowMessageParams) error {
	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return err
	}

	g.clientsMu.Lock()
	c, ok := g.clients[id]
	g.clientsMu.Unlock()
	if !ok {
		return fmt.Errorf("client with id %q not found", id)
	}

	if err := c.dispatcher.ShowMessage(ctx, params); err != nil {
		return fmt.Errorf(_errSendToClient, id, err)
	}
	return nil
}

// broadcast calls send for every registered client, in a stable order, and combines the failures.
func (g *gateway) broadcast(send func(c client) error) error {
	g.clientsMu.Lock()
	ids := make([]uuid.UUID, 0, len(g.clients))
	clients := make(map[uuid.UUID]client, len(g.clients))
	for id, c := range g.clients {
		ids = append(ids, id)
		clients[id] = c
	}
	g.clientsMu.Unlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	var errs error
	for _, id := range ids {
		if err := send(clients[id]); err != nil {
			errs = multierr.Append(errs, fmt.Errorf(_errSendToClient, id, err))
		}
	}
	return errs
}

// restoreProgress maps restore events onto a work done progress keyed by the project file.
func restoreProgress(event entity.Event) *protocol.ProgressParams {
	body, ok := event.Body.(entity.PackageRestoreMessage)
	if !ok {
		return nil
	}
	token := *protocol.NewProgressToken(_progressTokenPrefix + body.FileName)

	switch event.Type {
	case entity.EventPackageRestoreStarted:
		return &protocol.ProgressParams{
			Token: token,
			Value: &protocol.WorkDoneProgressBegin{
				Kind:    protocol.WorkDoneProgressKindBegin,
				Title:   _titleRestoreProgress,
				Message: body.FileName,
			},
		}
	case entity.EventPackageRestoreFinished:
		message := "restore succeeded"
		if !body.Succeeded {
			message = "restore failed"
		}
		return &protocol.ProgressParams{
			Token: token,
			Value: &protocol.WorkDoneProgressEnd{
				Kind:    protocol.WorkDoneProgressKindEnd,
				Message: message,
			},
		}
	}
	return nil
}
