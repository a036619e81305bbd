package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	syncmgr "github.com/maxviazov/athlete-performance-service/internal/sync"
)

// coalesceWindow collapses bursts of store notifications into one socket
// write; dashboards only care about the latest snapshot.
const coalesceWindow = 200 * time.Millisecond

// LiveHandler bridges sync-manager subscriptions to websocket clients:
// one socket, one subscription, torn down together.
type LiveHandler struct {
	mgr      *syncmgr.Manager
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewLiveHandler(mgr *syncmgr.Manager, logger zerolog.Logger) *LiveHandler {
	return &LiveHandler{
		mgr: mgr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log: logger.With().Str("module", "handler").Str("component", "live").Logger(),
	}
}

func (h *LiveHandler) Register(r *gin.RouterGroup) {
	live := r.Group("/live")
	{
		live.GET("/players/:id", h.player)
		live.GET("/coaches/:id", h.coach)
	}
}

func (h *LiveHandler) player(c *gin.Context) {
	playerID := c.Param("id")
	h.stream(c, func(cb syncmgr.Callback) (string, error) {
		return h.mgr.SubscribeToPlayer(playerID, cb)
	})
}

func (h *LiveHandler) coach(c *gin.Context) {
	coachID := c.Param("id")
	h.stream(c, func(cb syncmgr.Callback) (string, error) {
		return h.mgr.SubscribeToCoach(coachID, cb)
	})
}

// liveEvent is the wire shape pushed to dashboard clients.
type liveEvent struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

func (h *LiveHandler) stream(c *gin.Context, subscribe func(syncmgr.Callback) (string, error)) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	events := make(chan liveEvent, 16)
	done := make(chan struct{})

	forward := func(ev syncmgr.Event) {
		le := liveEvent{Type: string(ev.Type), Data: ev.Data}
		if ev.Err != nil {
			le.Data = nil
			le.Error = ev.Err.Error()
		}
		select {
		case events <- le:
		case <-done:
		default: // client cannot keep up; the next snapshot supersedes this one
		}
	}

	subID, err := subscribe(syncmgr.Debounce(forward, coalesceWindow))
	if err != nil {
		h.log.Error().Err(err).Msg("live subscription failed")
		_ = conn.Close()
		return
	}

	// Reader only detects client disconnect; inbound payloads are ignored.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				close(done)
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			h.mgr.Unsubscribe(subID)
			_ = conn.Close()
			return
		case ev := <-events:
			if err := conn.WriteJSON(ev); err != nil {
				h.mgr.Unsubscribe(subID)
				_ = conn.Close()
				return
			}
		}
	}
}
