package handler

import (
	"context"
	"time"

	"PawPlanner_WebClient/internal/frontend"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	viewBuffer   = 16
	writeTimeout = 10 * time.Second
)

func manageViewSession(ctx context.Context, conn *websocket.Conn, ctrl *frontend.Controller, logger *zap.Logger) {
	updates := make(chan frontend.View, viewBuffer)
	unsubscribe := ctrl.Subscribe(func(v frontend.View) {
		select {
		case updates <- v:
		default:
			// slow reader: drop, the next snapshot supersedes it
		}
	})
	defer unsubscribe()

	// The peer only sends control frames; reading is how a close is noticed.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("view stream closed by peer", zap.Error(err))
				return
			}
		}
	}()

	if err := writeView(conn, ctrl.View()); err != nil {
		logger.Debug("failed to send initial view", zap.Error(err))
		return
	}

WriteLoop:
	for {
		select {
		case <-ctx.Done():
			break WriteLoop
		case <-closed:
			break WriteLoop
		case v := <-updates:
			if err := writeView(conn, v); err != nil {
				logger.Debug("failed to send view", zap.Error(err))
				break WriteLoop
			}
		}
	}
	logger.Debug("view stream ended")
}

func writeView(conn *websocket.Conn, v frontend.View) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}
