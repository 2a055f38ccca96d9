// Package realtime delivers order and notification events to connected
// clients over WebSockets. Each authenticated connection joins a room named
// after its user id (and its ward, when the identity carries one); targeted
// emits address a room, reaching every concurrently connected tab or device
// for that user.
package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"ChemoOrder/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Event names pushed to clients.
const (
	EventOrderCreated    = "order:created"
	EventOrderUpdated    = "order:updated"
	EventNotificationNew = "notification:new"
)

// UserRoom returns the private room for a user id.
func UserRoom(userID string) string {
	return "user:" + userID
}

// WardRoom returns the room shared by everyone in a ward.
func WardRoom(wardID string) string {
	return "ward:" + wardID
}

// Event is one realtime message pushed to a room.
type Event struct {
	Name      string      `json:"event"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Publisher is the push side handed to services. Emit never blocks and never
// returns an error: a failed push is absorbed because the corresponding
// notification row is already persisted.
type Publisher interface {
	Emit(room string, event Event)
}

// Client represents a single WebSocket connection.
type Client struct {
	ID     string
	UserID string
	Rooms  []string
	Send   chan []byte
}

// Hub is the central connection manager tracking clients by room. All
// operations are thread-safe via sync.RWMutex. The hub is constructed in
// main and injected where publishing is needed; there is no package-level
// instance.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
	all   map[*Client]struct{}
}

// NewHub creates a new Hub ready to manage WebSocket clients.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
		all:   make(map[*Client]struct{}),
	}
}

// Register adds a client to the hub and joins it to its rooms.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.all[client] = struct{}{}

	for _, room := range client.Rooms {
		if h.rooms[room] == nil {
			h.rooms[room] = make(map[*Client]struct{})
		}
		h.rooms[room][client] = struct{}{}
	}
}

// Unregister removes a client from the hub and its rooms, and closes the
// client's Send channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.all[client]; !ok {
		return
	}

	for _, room := range client.Rooms {
		if members, ok := h.rooms[room]; ok {
			delete(members, client)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}

	delete(h.all, client)
	close(client.Send)
}

// Emit sends an event to every client in the given room. Clients with a full
// buffer are skipped so one slow consumer never stalls delivery.
func (h *Hub) Emit(room string, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("realtime: failed to marshal event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	members, ok := h.rooms[room]
	if !ok {
		return
	}

	for client := range members {
		select {
		case client.Send <- data:
		default:
			// Client buffer full; skip to avoid blocking.
		}
	}
}

// ClientCount returns the total number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.all)
}

// RoomCount returns the number of clients joined to a specific room.
func (h *Hub) RoomCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Browser clients connect from the SPA origin; CORS is enforced on the REST surface.
	},
}

// Handler upgrades HTTP connections to WebSocket after authenticating the
// handshake credential.
type Handler struct {
	hub *Hub
}

// NewHandler creates a connection handler bound to the given Hub.
func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// HandleConnect authenticates the handshake and joins the connection to its
// rooms. The credential travels in the connection query, not a header, since
// this is a persistent-connection handshake. Absent or invalid credentials
// terminate the connection immediately.
func (h *Handler) HandleConnect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Missing access token"})
		return
	}

	claims, err := utils.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid access token"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("realtime: upgrade failed: %v", err)
		return
	}

	rooms := []string{UserRoom(claims.UserID)}
	if claims.WardID != "" {
		rooms = append(rooms, WardRoom(claims.WardID))
	}

	client := &Client{
		ID:     uuid.New().String(),
		UserID: claims.UserID,
		Rooms:  rooms,
		Send:   make(chan []byte, 256),
	}

	h.hub.Register(client)

	go h.writePump(client, ws)
	go h.readPump(client, ws)
}

// readPump drains inbound frames until the peer disconnects. Clients do not
// send commands; the read loop exists to detect closure.
func (h *Handler) readPump(client *Client, ws *websocket.Conn) {
	defer func() {
		h.hub.Unregister(client)
		ws.Close()
	}()

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
}

// writePump writes messages from the Send channel to the WebSocket connection.
func (h *Handler) writePump(client *Client, ws *websocket.Conn) {
	defer ws.Close()

	for message := range client.Send {
		if err := ws.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
}
