package ws

import (
	"net/http"

	"github.com/vedran77/tasty/internal/logger"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

// ServeFeed returns an HTTP handler that upgrades to the feed socket. The
// feed carries only published, public recipe activity, so no auth is needed.
func ServeFeed(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true, // Allow any origin (dev mode)
		})
		if err != nil {
			logger.L().Error("ws: accept error", zap.Error(err))
			return
		}

		client := NewClient(hub, conn)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
