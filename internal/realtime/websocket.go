// internal/realtime/websocket.go
package realtime

import (
	"log"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// BookingFeed streams booking events to a websocket. The optional
// ?freelancer= query narrows the feed to one profile.
func BookingFeed(h *Hub) func(c *websocket.Conn) {
	return func(c *websocket.Conn) {
		freelancer := c.Query("freelancer")
		client := &Client{
			ID:         uuid.New().String(),
			Freelancer: freelancer,
			Send:       make(chan []byte, 256),
		}

		h.RegisterClient(client)
		defer h.UnregisterClient(client)
		log.Printf("WebSocket: booking feed %s connected (freelancer: %q)", client.ID, freelancer)

		go func() {
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					log.Println("WebSocket write error:", err)
					return
				}
			}
		}()

		// reads only keep the connection alive
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				log.Printf("WebSocket: booking feed %s closed: %v", client.ID, err)
				return
			}
		}
	}
}
