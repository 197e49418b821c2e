package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Message is a real-time sync notification. It carries only entity, action,
// and id; clients refetch what changed over the REST API.
type Message struct {
	Type     string `json:"type"`
	Entity   string `json:"entity"`
	Action   string `json:"action"`
	ID       string `json:"id,omitempty"`
	FamilyID string `json:"family_id,omitempty"`
}

// NewMessage creates a Message with the Type field derived from entity and action.
func NewMessage(entity, action, id, familyID string) Message {
	return Message{
		Type:     fmt.Sprintf("%s_%s", entity, action),
		Entity:   entity,
		Action:   action,
		ID:       id,
		FamilyID: familyID,
	}
}

// Hub maintains active WebSocket clients grouped by family. Broadcasts only
// reach clients subscribed to the same family.
type Hub struct {
	mu       sync.RWMutex
	families map[string]map[*Client]struct{}
	logger   *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		families: make(map[string]map[*Client]struct{}),
		logger:   logger,
	}
}

// Register adds a client to its family's room.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	room, ok := h.families[c.familyID]
	if !ok {
		room = make(map[*Client]struct{})
		h.families[c.familyID] = room
	}
	room[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client and closes its send channel. Empty rooms are
// dropped.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if room, ok := h.families[c.familyID]; ok {
		if _, ok := room[c]; ok {
			delete(room, c)
			close(c.send)
		}
		if len(room) == 0 {
			delete(h.families, c.familyID)
		}
	}
	h.mu.Unlock()
}

// Broadcast sends a message to every client in the family's room.
func (h *Hub) Broadcast(familyID string, msg Message) {
	msg.FamilyID = familyID
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.families[familyID] {
		select {
		case c.send <- data:
		default:
			// Client buffer full — drop message to avoid blocking
		}
	}
}

// ClientCount returns the number of connected clients in a family's room.
func (h *Hub) ClientCount(familyID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.families[familyID])
}
