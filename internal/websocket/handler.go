package websocket

import (
	"github.com/Alpha-Bytes-Department/daissy-ai/internal/pkg/logger"

	"github.com/gofiber/websocket/v2"
)

// ServeWs handles websocket requests from the peer.
func ServeWs(hub *Hub, c *websocket.Conn, log logger.ILogger) {
	client := &Client{Hub: hub, Conn: c, Send: make(chan []byte, 256), logger: log}
	client.Hub.register <- client

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
