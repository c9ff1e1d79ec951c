package handler

import (
	"errors"
	"net/http"

	"PawPlanner_WebClient/internal/frontend"
	"PawPlanner_WebClient/internal/middleware"
	"PawPlanner_WebClient/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	registry *session.Registry
	logger   *zap.Logger
}

func NewHandler(registry *session.Registry, logger *zap.Logger) *Handler {
	return &Handler{registry: registry, logger: logger}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// controller resolves the calling browser's controller; on failure it has
// already written the response.
func (h *Handler) controller(c *gin.Context) (*frontend.Controller, bool) {
	clientID := middleware.ClientID(c)
	if clientID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Client session required"})
		return nil, false
	}
	ctrl, err := h.registry.Get(c.Request.Context(), clientID)
	if err != nil {
		h.logger.Error("failed to load client", zap.String("client", clientID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load client state"})
		return nil, false
	}
	return ctrl, true
}

// statusFor maps an action error to the page status. The view itself is left
// as it was before the action.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, frontend.ErrActionInFlight):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

// Health check
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
