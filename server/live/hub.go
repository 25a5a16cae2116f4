// Package live pushes progression events to websocket subscribers.
package live

import "sync"

// AllRoom receives every event; each user also has a room of their own.
const AllRoom = "all"

func UserRoom(userID string) string {
	return "user:" + userID
}

type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{
		rooms: map[string]map[*Client]bool{},
	}
}

func (h *Hub) Join(room string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = map[*Client]bool{}
	}
	h.rooms[room][client] = true
	client.Room = room
}

func (h *Hub) Leave(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := client.Room
	if room == "" {
		return
	}
	clients := h.rooms[room]
	if clients == nil {
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.rooms, room)
	}
	client.Room = ""
}

// Count returns the number of clients in room. Tests and operational checks
// use it.
func (h *Hub) Count(room string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.rooms[room])
}

// Broadcast queues message for every client in room. Slow clients whose
// buffer is full miss the message.
func (h *Hub) Broadcast(room string, message []byte) {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.rooms[room]))
	for client := range h.rooms[room] {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		select {
		case client.Send <- message:
		default:
		}
	}
}
