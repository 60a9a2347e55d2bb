// Package signal is the WebSocket transport adapter: it owns the
// bidirectional event channel per connection, decodes wire messages, and
// drives the membership manager and relay router.
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

	"github.com/gauravkharai149-boop/voice-roooom/internal/app"
	"github.com/gauravkharai149-boop/voice-roooom/internal/config"
	"github.com/gauravkharai149-boop/voice-roooom/internal/core"
	"github.com/gauravkharai149-boop/voice-roooom/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Manager *app.Manager
	Relay   *app.Relay

	chatLimiter *ChatRateLimiter
	readLimit   int64
	pingPeriod  time.Duration
}

func NewController(cfg *config.Config, manager *app.Manager, relay *app.Relay) *Controller {
	return &Controller{
		Manager:     manager,
		Relay:       relay,
		chatLimiter: NewChatRateLimiter(cfg.ChatLimit, cfg.ChatWindow),
		readLimit:   cfg.ReadLimit,
		pingPeriod:  cfg.PingPeriod,
	}
}

type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
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

func (c *wsConn) Close() {
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

// HandleSignal upgrades the request and runs the connection until it drops.
// Each websocket gets its own connection id; the cookie client token
// identifies the browser, not the tab.
func (ctl *Controller) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := domain.ConnID(uuid.NewString())
	log.Info().Str("module", "signal").
		Str("sid", string(sid)).Str("client", c.GetString("client_token")).
		Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.readLimit > 0 {
		ws.SetReadLimit(ctl.readLimit)
	}

	conn := &wsConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	ctx, cancel := context.WithCancel(ctx)
	ctl.Manager.Connect(sid, conn, cancel)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, sid, conn)
}
