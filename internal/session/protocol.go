package session

import (
	"encoding/json"

	"github.com/mirrorbox/mirrorbox/backend-go/internal/engine"
	"github.com/mirrorbox/mirrorbox/backend-go/internal/scene"
)

type Message struct {
	Type     string          `json:"type"`
	RoomID   string          `json:"roomId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

const (
	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Presence
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"

	// Scene sync
	TypeSceneSync = "scene.sync"

	// Operations
	TypeOpSubmit    = "op.submit"
	TypeOpAck       = "op.ack"
	TypeOpNack      = "op.nack"
	TypeOpBroadcast = "op.broadcast"

	// Derived state push: sent to every client after any state-changing
	// operation. This is the explicit update contract — no entity carries
	// a change callback; movers re-trigger a full recompute and everyone
	// receives the fresh virtual-entity set.
	TypeReflections = "reflections.update"
)

// Operation type names.
const (
	OpObjectTranslate = "object.translate"
	OpObjectAdd       = "object.add"
	OpObjectRemove    = "object.remove"
	OpViewerMove      = "viewer.move"
	OpSceneDepth      = "scene.depth"
	OpSceneReset      = "scene.reset"
)

// Operation is one scene mutation submitted by a client.
type Operation struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	ClientSeq int64  `json:"clientSeq"`

	// For object.translate / object.remove
	ObjectID string  `json:"objectId,omitempty"`
	DX       float64 `json:"dx,omitempty"`
	DY       float64 `json:"dy,omitempty"`

	// For object.add
	Object *scene.Object `json:"object,omitempty"`

	// For viewer.move
	Position *scene.Point `json:"position,omitempty"`

	// For scene.depth
	MaxDepth *int `json:"maxDepth,omitempty"`
}

type OperationSubmitPayload struct {
	Operation Operation `json:"operation"`
}

type OperationAckPayload struct {
	OperationID     string `json:"operationId"`
	ServerSeq       int64  `json:"serverSeq"`
	ServerTimestamp int64  `json:"serverTimestamp"`
}

type OperationNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
}

type OperationBroadcastPayload struct {
	Operation Operation `json:"operation"`
	UserID    string    `json:"userId"`
	ServerSeq int64     `json:"serverSeq"`
}

// SceneSyncPayload carries the full scene document on join and reset.
type SceneSyncPayload struct {
	Scene *scene.Scene `json:"scene"`
}

// ReflectionsPayload carries the complete recomputed reflection set.
type ReflectionsPayload struct {
	ServerSeq      int64                  `json:"serverSeq"`
	VirtualObjects []engine.VirtualObject `json:"virtualObjects"`
	VirtualViewers []engine.VirtualViewer `json:"virtualViewers"`
}

// --- presence ---

type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	Dragging    string     `json:"dragging,omitempty"` // entity ID mid-drag
	DisplayName string     `json:"displayName,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}
