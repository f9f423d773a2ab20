package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"
)

// Gateway pushes notifications to connected users. Each user joins
// their own room after connecting; services broadcast into that room.
type Gateway struct {
	server *socketio.Server
}

// NewGateway initializes the Socket.IO server and its event handlers.
func NewGateway() *Gateway {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(conn socketio.Conn) error {
		log.Println("✅ Socket connected:", conn.ID())
		return nil
	})

	// Clients identify themselves after connecting to receive their events
	server.OnEvent("/", "identify", func(conn socketio.Conn, userID string) {
		if userID == "" {
			log.Println("❌ Invalid userId in identify event")
			return
		}
		conn.Join(roomFor(userID))
		log.Printf("👤 Socket %s identified as %s", conn.ID(), userID)
	})

	server.OnDisconnect("/", func(conn socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", conn.ID(), reason)
	})

	return &Gateway{server: server}
}

// Server exposes the underlying Socket.IO server for serving and mounting.
func (g *Gateway) Server() *socketio.Server {
	return g.server
}

// EmitToUser pushes an event into the user's room. No-op when the user
// has no connected sockets.
func (g *Gateway) EmitToUser(userID, event string, payload interface{}) {
	g.server.BroadcastToRoom("/", roomFor(userID), event, payload)
}

func roomFor(userID string) string {
	return "user:" + userID
}
