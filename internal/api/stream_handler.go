package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/randy-rebucas/localpro-backend/internal/realtime"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
)

// EventJobsSnapshot carries the full list of open jobs.
const EventJobsSnapshot = "jobs_snapshot"

// JobFeed hands out subscriptions to the open-jobs feed. Satisfied by *realtime.Hub.
type JobFeed interface {
	Subscribe(ctx context.Context) *realtime.Subscription
}

// StreamHandler pushes open-job snapshots over a WebSocket.
type StreamHandler struct {
	feed     JobFeed
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewStreamHandler creates a StreamHandler accepting browser connections from allowedOrigins.
// Requests without an Origin header are accepted.
func NewStreamHandler(feed JobFeed, allowedOrigins []string, logger *zap.Logger) *StreamHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &StreamHandler{
		feed: feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
		logger: logger,
	}
}

// StreamOpenJobs handles GET /jobs/stream.
func (h *StreamHandler) StreamOpenJobs(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sub := h.feed.Subscribe(ctx)
	defer sub.Unsubscribe()

	// Client messages are discarded; the loop exists to notice disconnects and handle pongs.
	go func() {
		defer cancel()
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(streamPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case jobs, open := <-sub.Updates():
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if !open {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"))
				return
			}
			if err := conn.WriteJSON(StreamEvent{Type: EventJobsSnapshot, Data: jobs}); err != nil {
				h.logger.Debug("WebSocket write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
