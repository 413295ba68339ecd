package loop

import (
	"slices"
	"sync"
	"time"
)

// HubEventType identifies the type of hub event.
type HubEventType int

const (
	EventServerShutdown HubEventType = iota
)

// HubEvent is a notice sent from the hub to a session.
type HubEvent struct {
	Type HubEventType
}

// Handle represents a session's registration with the hub.
type Handle struct {
	ID       int
	Player   string
	EventsCh chan HubEvent
}

// Hub tracks the sessions of a multi-user host. Every session plays its own
// game; the hub only carries server-wide notices and the player count.
type Hub struct {
	mu           sync.RWMutex
	sessions     map[int]*Handle
	nextID       int
	shuttingDown bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		sessions: make(map[int]*Handle),
		nextID:   1,
	}
}

// Register adds a session and returns its handle. Sessions joining during a
// shutdown are told about it right away.
func (h *Hub) Register(player string) *Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	handle := &Handle{
		ID:       h.nextID,
		Player:   player,
		EventsCh: make(chan HubEvent, 4),
	}
	h.nextID++
	h.sessions[handle.ID] = handle
	if h.shuttingDown {
		handle.EventsCh <- HubEvent{Type: EventServerShutdown}
	}
	return handle
}

// Unregister removes a session.
func (h *Hub) Unregister(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
}

// Count returns the number of connected sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Players returns the connected player names in sorted order.
func (h *Hub) Players() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.sessions))
	for _, handle := range h.sessions {
		names = append(names, handle.Player)
	}
	slices.Sort(names)
	return names
}

// Shutdown notifies all sessions and waits for them to unregister, up to
// the given timeout. It reports whether every session left in time.
func (h *Hub) Shutdown(timeout time.Duration) bool {
	h.mu.Lock()
	h.shuttingDown = true
	for _, handle := range h.sessions {
		select {
		case handle.EventsCh <- HubEvent{Type: EventServerShutdown}:
		default:
		}
	}
	h.mu.Unlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if h.Count() == 0 {
			return true
		}
		select {
		case <-deadline:
			return h.Count() == 0
		case <-ticker.C:
		}
	}
}
