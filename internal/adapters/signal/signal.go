package signal

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Dicode/internal/app/orch"
	"github.com/dkeye/Dicode/internal/core"
	"github.com/dkeye/Dicode/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	DefaultReadLimit  = 1 << 20
	DefaultPingPeriod = 54 * time.Second
	DefaultSendBuffer = 256
	writeWait         = 5 * time.Second
)

type SignalWSController struct {
	Orch       *orch.Orchestrator
	Limiter    *JoinLimiter
	ReadLimit  int64
	PingPeriod time.Duration
	SendBuffer int
}

func NewSignalWSController(o *orch.Orchestrator, limiter *JoinLimiter) *SignalWSController {
	return &SignalWSController{
		Orch:       o,
		Limiter:    limiter,
		ReadLimit:  DefaultReadLimit,
		PingPeriod: DefaultPingPeriod,
		SendBuffer: DefaultSendBuffer,
	}
}

func (ctl *SignalWSController) pingPeriod() time.Duration {
	if ctl.PingPeriod <= 0 {
		return DefaultPingPeriod
	}
	return ctl.PingPeriod
}

// pongWait must exceed the ping period so one lost pong is not fatal.
func (ctl *SignalWSController) pongWait() time.Duration {
	return ctl.pingPeriod() * 10 / 9
}

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
		return core.ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBufferFull
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

// HandleSignal upgrades an already authenticated request for uid.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context, uid domain.UserID) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("user", string(uid)).Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.ReadLimit)

	buffer := ctl.SendBuffer
	if buffer <= 0 {
		buffer = DefaultSendBuffer
	}
	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, buffer),
	}
	client := orch.Client{
		UserID: uid,
		ConnID: core.ConnID(uuid.NewString()),
		Conn:   conn,
	}
	log.Info().Str("module", "signal").Str("user", string(uid)).Str("conn", string(client.ConnID)).Msg("new WS connection")

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, client, conn)
}
