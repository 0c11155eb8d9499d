// Package signal hosts the WebSocket event controller: one connection
// per client, JSON envelopes dispatched by type.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/nezumiya/chat/internal/app"
	"github.com/nezumiya/chat/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

// Controller wires inbound frames to the coordinator and feed service.
type Controller struct {
	Coord *app.Coordinator
	Feed  *app.FeedService

	ReadLimit   int64
	PingPeriod  time.Duration
	joinLimiter *JoinRateLimiter
}

func NewController(coord *app.Coordinator, feed *app.FeedService, readLimit int64, pingPeriod time.Duration, joinLimit int) *Controller {
	return &Controller{
		Coord:       coord,
		Feed:        feed,
		ReadLimit:   readLimit,
		PingPeriod:  pingPeriod,
		joinLimiter: NewJoinRateLimiter(joinLimit, time.Minute),
	}
}

// WsSignalConn adapts a gorilla websocket to core.SignalConnection.
// TrySend never blocks; a full buffer is a drop.
type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// newSessionID derives a per-connection session id. The client token is
// shared by every tab of one browser, so each connection gets its own
// suffix; presence entries are keyed per connection, not per browser.
func newSessionID(token string) core.SessionID {
	return core.SessionID(token + ":" + uuid.NewString())
}

// HandleSignal upgrades the request and runs the connection's pumps.
// The session stays Unjoined until a join event is accepted.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := newSessionID(c.GetString("client_token"))
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	if ctl.ReadLimit > 0 {
		ws.SetReadLimit(ctl.ReadLimit)
	}

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}
	ctl.Coord.Presence.Bind(sid, conn)

	connCtx, cancel := context.WithCancel(ctx)
	go ctl.writePump(connCtx, conn)
	go ctl.readPump(connCtx, cancel, sid, conn)
}
