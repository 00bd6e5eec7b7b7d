package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches an upgraded connection to the hub with its subscription
// and blocks until the socket closes.
func ServeWs(hub *Hub, c *websocket.Conn, sub Subscription) {
	client := &Client{Hub: hub, Conn: c, Sub: sub, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
