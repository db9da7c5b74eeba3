// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"fmt"
	"sync"
	"time"

	"quill/internal/realtime"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// wsConn adapts a fiber websocket connection to the broadcaster's Conn
// interface. Writes are serialized: the broadcaster delivers from its
// own goroutines and gorilla-backed connections allow one writer at a
// time. A failed write poisons the websocket permanently, so every
// write error is reported as gone.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) WriteJSON(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.conn.WriteJSON(v); err != nil {
		return fmt.Errorf("%w: %v", realtime.ErrConnectionGone, err)
	}
	return nil
}

func (w *wsConn) SetWriteDeadline(t time.Time) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.SetWriteDeadline(t)
}

// WebSocketUpgrade gates the /ws routes: plain HTTP requests get a 426
// instead of reaching the websocket handler.
func (s *Server) WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// WebSocketCommentsHandler handles GET /ws/comments. Every subscriber
// receives every comment event; the read loop only keeps the connection
// alive and detects the close.
func (s *Server) WebSocketCommentsHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		connID := uuid.NewString()
		s.broadcaster.AddConnection(connID, &wsConn{conn: conn})
		defer s.broadcaster.RemoveConnection(connID)

		// Incoming frames are ignored; the loop exits when the peer
		// closes or the connection breaks.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}

// GetWSConnections handles GET /ws/connections — live subscriber count.
func (s *Server) GetWSConnections(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"connections": s.broadcaster.ConnectionCount(),
	})
}
