package session

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// PresenceManager keeps the latest cursor and drag state per user in a room.
// Only the newest update per user survives; an entry leaves with its user.
type PresenceManager struct {
	mu     sync.RWMutex
	byUser map[string]*PresencePayload
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{byUser: make(map[string]*PresencePayload)}
}

func (pm *PresenceManager) Update(userID string, p *PresencePayload) {
	if p == nil {
		return
	}
	pm.mu.Lock()
	pm.byUser[userID] = p
	pm.mu.Unlock()
}

func (pm *PresenceManager) Remove(userID string) {
	pm.mu.Lock()
	delete(pm.byUser, userID)
	pm.mu.Unlock()
}

// Snapshot returns a copy of the current table, safe to marshal outside the
// lock.
func (pm *PresenceManager) Snapshot() map[string]*PresencePayload {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	out := make(map[string]*PresencePayload, len(pm.byUser))
	for userID, p := range pm.byUser {
		out[userID] = p
	}
	return out
}

// StateMessage builds the presence.state message sent to a joining client,
// or nil when marshaling fails.
func (pm *PresenceManager) StateMessage() *Message {
	payload, err := json.Marshal(PresenceStatePayload{Presences: pm.Snapshot()})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{Type: TypePresenceState, Payload: payload}
}
