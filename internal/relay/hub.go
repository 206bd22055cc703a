package relay

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub owns the room registry: named groups of live connections. A client
// always sits in its own user-id room after setup and may additionally join
// chat-scoping rooms; delivery routing only ever targets user-id rooms.
type Hub struct {
	rooms       map[string]map[*Client]bool
	clientRooms map[*Client]map[string]bool
	register    chan *Client
	unregister  chan *Client
	mu          sync.RWMutex
}

// NewHub creates an empty Hub. Run must be started for register/unregister
// to make progress.
func NewHub() *Hub {
	return &Hub{
		rooms:       make(map[string]map[*Client]bool),
		clientRooms: make(map[*Client]map[string]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
	}
}

// Run processes connection lifecycle events. Intended as a single
// long-lived goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clientRooms[client] = make(map[string]bool)
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if rooms, ok := h.clientRooms[client]; ok {
				for room := range rooms {
					delete(h.rooms[room], client)
					if len(h.rooms[room]) == 0 {
						delete(h.rooms, room)
					}
				}
				delete(h.clientRooms, client)
				close(client.send)
			}
			h.mu.Unlock()
		}
	}
}

// Join adds the client to a named room. Joining twice is a no-op.
func (h *Hub) Join(client *Client, room string) {
	if room == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clientRooms[client]; !ok {
		// already unregistered
		return
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
	h.clientRooms[client][room] = true
}

// Emit delivers an event to every connection in the room. An empty room is
// a silent no-op. A client whose send buffer is full is kicked rather than
// allowed to stall the emit.
func (h *Hub) Emit(room, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("hub: marshal payload for %s failed: %v", event, err)
		return
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		log.Printf("hub: marshal envelope for %s failed: %v", event, err)
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.send <- frame:
		default:
			go func(c *Client) { h.unregister <- c }(c)
		}
	}
}

// RoomSize reports how many connections are joined to a room
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
