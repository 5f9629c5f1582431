// Package hostchannel carries messages between the bridge and the compilation host.
package hostchannel

//go:generate mockgen -destination=hostchannelmock/channel_mock.go -package=hostchannelmock . Channel

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/uber/dthbridge/src/dthbridge/entity"
	bridgeerrors "github.com/uber/dthbridge/src/dthbridge/internal/errors"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// MethodMessage is the JSON-RPC notification method carrying one host message in either direction.
const MethodMessage = "dth/message"

const _dialTimeout = 5 * time.Second

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Channel is a duplex, message oriented connection to the compilation host.
type Channel interface {
	// Connect dials the host on the loopback port, replacing any previous connection.
	// Outbound messages are stamped with hostID.
	Connect(ctx context.Context, port int, hostID string) error
	// Send posts one message to the host.
	Send(ctx context.Context, msg entity.Message) error
	// OnReceive sets the handler for inbound messages. Messages are delivered one at a time in arrival order.
	OnReceive(handler func(ctx context.Context, msg entity.Message))
	// Close closes the current connection, if any.
	Close() error
}

// Params define values to be used by Channel.
type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Logger    *zap.SugaredLogger
}

type channel struct {
	logger *zap.SugaredLogger
	dial   func(ctx context.Context, address string) (net.Conn, error)

	mu       sync.Mutex
	conn     jsonrpc2.Conn
	hostID   string
	receiver func(ctx context.Context, msg entity.Message)
}

// New creates a Channel. The connection is closed when the application stops.
func New(p Params) Channel {
	c := &channel{
		logger: p.Logger.With("component", "host-channel"),
		dial: func(ctx context.Context, address string) (net.Conn, error) {
			d := net.Dialer{Timeout: _dialTimeout}
			return d.DialContext(ctx, "tcp", address)
		},
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return c.Close()
		},
	})
	return c
}

func (c *channel) Connect(ctx context.Context, port int, hostID string) error {
	netConn, err := c.dial(ctx, net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	if err != nil {
		return fmt.Errorf("connecting to compilation host on port %d: %w", port, err)
	}
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(netConn))

	c.mu.Lock()
	previous := c.conn
	c.conn = conn
	c.hostID = hostID
	c.mu.Unlock()

	if previous != nil {
		previous.Close()
		<-previous.Done()
	}

	conn.Go(context.Background(), c.handle)
	c.logger.Infow("connected to compilation host", "port", port, "hostId", hostID)
	return nil
}

func (c *channel) Send(ctx context.Context, msg entity.Message) error {
	c.mu.Lock()
	conn := c.conn
	if msg.HostID == "" {
		msg.HostID = c.hostID
	}
	c.mu.Unlock()

	if conn == nil {
		return fmt.Errorf("sending %s: %w", msg.MessageType, bridgeerrors.ErrNotConnected)
	}
	if err := conn.Notify(ctx, MethodMessage, msg); err != nil {
		return fmt.Errorf("sending %s: %w", msg.MessageType, err)
	}
	return nil
}

func (c *channel) OnReceive(handler func(ctx context.Context, msg entity.Message)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.receiver = handler
}

func (c *channel) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	err := conn.Close()
	<-conn.Done()
	return err
}

// handle runs on the connection's read loop, so each message is fully handled before the next is read.
func (c *channel) handle(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	if req.Method() != MethodMessage {
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}

	var msg entity.Message
	if err := json.Unmarshal(req.Params(), &msg); err != nil {
		c.logger.Warnw("dropping malformed host message", zap.Error(err))
		return reply(ctx, nil, fmt.Errorf("%s: %w", jsonrpc2.ErrParse, err))
	}

	c.mu.Lock()
	receiver := c.receiver
	c.mu.Unlock()

	if receiver == nil {
		c.logger.Warnw("no receiver registered, dropping host message", "type", msg.MessageType, "contextId", msg.ContextID)
	} else {
		receiver(ctx, msg)
	}
	return reply(ctx, nil, nil)
}
