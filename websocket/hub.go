package websocket

import (
	"log"
	"sync"

	"github.com/edumarket/course_market/services"
	"github.com/gofiber/contrib/websocket"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Live ledger activity feed for the admin dashboard. Every settled order,
// confirmed deposit and processed withdrawal is pushed to connected clients.

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan services.Event, 64)

// Publish hands a ledger event to the hub without blocking the settlement
// path. Events are dropped when the buffer is full.
func Publish(event services.Event) {
	select {
	case Broadcast <- event:
	default:
		log.Println("⚠️ Activity feed buffer full, dropping event")
	}
}

func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Activity feed client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Activity feed client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case event := <-Broadcast:
			clientsMu.RLock()
			for userID, conn := range clients {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error pushing event to client %s: %v", userID, err)
				}
			}
			clientsMu.RUnlock()
		}
	}
}

// ServeActivityFeed upgrades the connection and keeps it registered until the
// client goes away. The reader loop only exists to detect disconnects. The
// client is identified by the verified JWT claims the auth middleware stored,
// never by anything the client sends.
func ServeActivityFeed(c *websocket.Conn) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		c.Close()
		return
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.Close()
		return
	}
	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		c.Close()
		return
	}

	client := &Client{UserID: userID, Conn: c}
	Register <- client
	defer func() {
		Unregister <- client
		c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
