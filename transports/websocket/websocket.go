// Package websocket implements the connection gateway: one persistent
// bidirectional connection per client, frames decoded into messages for the
// orchestrator, events serialized back out.
package websocket

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"voicerelay/core"
	"voicerelay/protocol"
	"voicerelay/session"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ConnState is the connection lifecycle state. Transitions are
// Connecting -> Open on handshake success and Open -> Closed on client
// disconnect or fatal transport error. Closed is terminal; a dropped
// connection is never redialed by the server.
type ConnState int32

const (
	StateConnecting ConnState = iota
	StateOpen
	StateClosed
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

var errConnClosed = errors.New("connection closed")

// Config holds gateway tuning knobs.
type Config struct {
	ReadLimit        int64         // max inbound frame size in bytes
	WriteTimeout     time.Duration // per-frame write deadline
	HandshakeTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ReadLimit:        64 << 10,
		WriteTimeout:     10 * time.Second,
		HandshakeTimeout: 10 * time.Second,
	}
}

// OrchestratorFactory builds a fresh orchestrator per connection so no mutable
// state is shared across connections.
type OrchestratorFactory func() *session.Orchestrator

// Gateway upgrades HTTP requests to WebSocket connections and drives one
// serialized pipeline per connection.
type Gateway struct {
	factory  OrchestratorFactory
	config   Config
	logger   *core.Logger
	upgrader websocket.Upgrader
}

// NewGateway creates a gateway. The factory is invoked once per accepted
// connection.
func NewGateway(factory OrchestratorFactory, config Config, logger *core.Logger) *Gateway {
	if logger == nil {
		logger = core.GetLogger()
	}
	return &Gateway{
		factory: factory,
		config:  config,
		logger:  logger,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: config.HandshakeTimeout,
			CheckOrigin:      func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP implements http.Handler.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		g.logger.With(map[string]interface{}{"error": err}).Warn("websocket upgrade failed")
		return
	}

	sessionID := uuid.NewString()
	logger := g.logger.With(map[string]interface{}{
		"session": sessionID,
		"remote":  conn.RemoteAddr().String(),
	})

	c := &connection{
		conn:   conn,
		orch:   g.factory(),
		config: g.config,
		logger: logger,
	}
	c.state.Store(int32(StateConnecting))
	c.run(r.Context())
}

// connection owns all per-connection state. Inbound frames are processed
// strictly one at a time; a frame arriving while a pipeline is in flight waits
// in the transport buffer until the current event has been sent.
type connection struct {
	conn    *websocket.Conn
	orch    *session.Orchestrator
	config  Config
	logger  *core.Logger
	state   atomic.Int32
	writeMu sync.Mutex // gorilla permits a single concurrent writer
}

func (c *connection) run(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	defer c.close()

	c.conn.SetReadLimit(c.config.ReadLimit)
	c.state.Store(int32(StateOpen))
	c.logger.Info("connection open")

	if err := c.writeEvent(protocol.NewStatusEvent("ready")); err != nil {
		c.logger.With(map[string]interface{}{"error": err}).Warn("failed to send readiness event")
		return
	}

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				terr := &core.TransportError{Op: "read", Err: err}
				c.logger.With(map[string]interface{}{"error": terr}).Warn("transport error")
			} else {
				c.logger.Info("client disconnected")
			}
			return
		}

		if msgType != websocket.TextMessage {
			if werr := c.writeEvent(protocol.NewErrorEvent("expected a text frame")); werr != nil {
				return
			}
			continue
		}

		msg, err := protocol.DecodeInbound(data)
		if err != nil {
			// Bad payloads never terminate the connection; the validator is
			// consulted before the orchestrator ever sees the frame.
			var validation *core.ValidationError
			reason := "invalid message"
			if errors.As(err, &validation) {
				reason = validation.Reason
			}
			if werr := c.writeEvent(protocol.NewErrorEvent(reason)); werr != nil {
				return
			}
			continue
		}

		ev := c.orch.Process(ctx, msg)
		if err := c.writeEvent(ev); err != nil {
			// The client went away mid-pipeline; the result is discarded.
			c.logger.With(map[string]interface{}{"error": err}).Info("dropping event for closed connection")
			return
		}
	}
}

// writeEvent serializes and sends one outbound frame under the write lock.
func (c *connection) writeEvent(ev protocol.OutboundEvent) error {
	data, err := protocol.EncodeOutbound(ev)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if ConnState(c.state.Load()) == StateClosed {
		return &core.TransportError{Op: "write", Err: errConnClosed}
	}
	c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return &core.TransportError{Op: "write", Err: err}
	}
	return nil
}

// close transitions the connection to Closed and releases the transport.
// Safe to call more than once.
func (c *connection) close() {
	prev := ConnState(c.state.Swap(int32(StateClosed)))
	if prev == StateClosed {
		return
	}

	c.writeMu.Lock()
	c.conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.conn.Close()
	c.writeMu.Unlock()

	c.logger.Info("connection closed")
}
