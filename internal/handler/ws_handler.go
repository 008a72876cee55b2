package handler

import (
	"net/http"

	"github.com/damoang/mediawall/internal/ws"
	pkglogger "github.com/damoang/mediawall/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WSHandler handles WebSocket connections
type WSHandler struct {
	hub            *ws.Hub
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler. An empty origin list allows all
// origins.
func NewWSHandler(hub *ws.Hub, allowedOrigins []string) *WSHandler {
	h := &WSHandler{
		hub:            hub,
		allowedOrigins: allowedOrigins,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin validates the request origin against allowed origins
func (h *WSHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true // Same-origin requests don't have Origin header
	}
	if len(h.allowedOrigins) == 0 {
		return true
	}
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || origin == allowed {
			return true
		}
	}
	return false
}

// Connect handles GET /ws/feed?media_id= and upgrades to a WebSocket. Without
// media_id the client follows the public feed; with it, one item and its
// comments.
func (h *WSHandler) Connect(c *gin.Context) {
	topic := ws.FeedTopic
	if mediaID := c.Query("media_id"); mediaID != "" {
		topic = ws.MediaTopic(mediaID)
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		pkglogger.GetLogger().Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn, topic)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
