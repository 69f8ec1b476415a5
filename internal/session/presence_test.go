package session

import (
	"encoding/json"
	"testing"
)

func TestPresenceKeepsLatestPerUser(t *testing.T) {
	pm := NewPresenceManager()

	pm.Update("user_1", &PresencePayload{Cursor: &CursorPos{X: 10, Y: 20}})
	pm.Update("user_1", &PresencePayload{Cursor: &CursorPos{X: 30, Y: 40}, Dragging: "obj_triangle"})
	pm.Update("user_2", &PresencePayload{Cursor: &CursorPos{X: 1, Y: 2}})
	pm.Update("user_3", nil)

	snap := pm.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("got %d presences, want 2", len(snap))
	}
	if snap["user_1"].Cursor.X != 30 || snap["user_1"].Dragging != "obj_triangle" {
		t.Errorf("got stale presence for user_1: %+v", snap["user_1"])
	}

	pm.Remove("user_1")
	if len(pm.Snapshot()) != 1 {
		t.Error("expected user_1 to be removed")
	}
}

func TestPresenceStateMessage(t *testing.T) {
	pm := NewPresenceManager()
	pm.Update("user_1", &PresencePayload{Cursor: &CursorPos{X: 5, Y: 6}, DisplayName: "Ada"})

	msg := pm.StateMessage()
	if msg == nil || msg.Type != TypePresenceState {
		t.Fatalf("got message %+v", msg)
	}

	var state PresenceStatePayload
	if err := json.Unmarshal(msg.Payload, &state); err != nil {
		t.Fatal(err)
	}
	if state.Presences["user_1"].DisplayName != "Ada" {
		t.Errorf("got %+v", state.Presences)
	}
}
