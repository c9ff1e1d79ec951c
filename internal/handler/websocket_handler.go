package handler

import (
	"net/http"

	"PawPlanner_WebClient/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Upgrade HTTP connection to WebSocket
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ViewStream GET /ws/view
// Sends the current view, then one snapshot per change until the peer leaves.
func (h *Handler) ViewStream(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	clientID := middleware.ClientID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade to websocket", zap.String("client", clientID), zap.Error(err))
		return
	}
	defer conn.Close()
	h.logger.Debug("view stream opened", zap.String("client", clientID))

	manageViewSession(c.Request.Context(), conn, ctrl, h.logger.With(zap.String("client", clientID)))
}
