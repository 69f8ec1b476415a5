package session

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/mirrorbox/mirrorbox/backend-go/internal/scene"
)

// SceneLoader fetches the persisted scene for a room.
type SceneLoader func(roomID string) (*scene.Scene, error)

// SceneSaver persists a room's scene.
type SceneSaver func(roomID string, s *scene.Scene) error

type Room struct {
	roomID   string
	clients  map[string]*Client // clientID -> client
	presence *PresenceManager
	state    *SceneState
}

func NewRoom(roomID string, state *SceneState) *Room {
	return &Room{
		roomID:   roomID,
		clients:  make(map[string]*Client),
		presence: NewPresenceManager(),
		state:    state,
	}
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // roomID -> room
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{}
	loader     SceneLoader
	saver      SceneSaver
	depthLimit int
}

func NewHub(loader SceneLoader, saver SceneSaver, depthLimit int) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		loader:     loader,
		saver:      saver,
		depthLimit: depthLimit,
	}
}

func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.stop:
			h.saveAll()
			return
		}
	}
}

// Stop shuts the hub down, persisting every dirty scene first.
func (h *Hub) Stop() {
	close(h.stop)
	<-h.done
}

// Register hands a client to the hub loop. It reports false once the hub
// has been stopped; the caller still owns the connection in that case.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.stop:
		return false
	}
}

// Unregister removes a client from its room. After Stop it is a no-op;
// saveAll has already persisted every room by then.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.stop:
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.RoomID]
	if !ok {
		s, err := h.loader(client.RoomID)
		if err != nil {
			h.mu.Unlock()
			slog.Error("load scene", "error", err, "room", client.RoomID)
			h.sendError(client, "scene unavailable")
			return
		}
		state, err := NewSceneState(s, h.depthLimit)
		if err != nil {
			h.mu.Unlock()
			slog.Error("invalid persisted scene", "error", err, "room", client.RoomID)
			h.sendError(client, "scene invalid")
			return
		}
		room = NewRoom(client.RoomID, state)
		h.rooms[client.RoomID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	welcome, _ := json.Marshal(map[string]string{"clientId": client.ClientID})
	client.Send(&Message{Type: TypeWelcome, Payload: welcome})

	// Full scene, then the current reflection set, then presence.
	h.sendSceneSync(client, room)
	h.sendReflections(room, client)

	if stateMsg := room.presence.StateMessage(); stateMsg != nil {
		client.Send(stateMsg)
	}

	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	h.broadcastToRoom(client.RoomID, &Message{
		Type:    TypePresenceJoin,
		UserID:  client.UserID,
		Payload: joinPayload,
	}, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "room", client.RoomID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.RoomID]
	if !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	client.seal()
	room.presence.Remove(client.UserID)

	empty := len(room.clients) == 0
	if empty {
		delete(h.rooms, client.RoomID)
	}
	h.mu.Unlock()

	if empty {
		h.saveRoom(room)
	}

	leavePayload, _ := json.Marshal(PresenceLeavePayload{UserID: client.UserID})
	h.broadcastToRoom(client.RoomID, &Message{
		Type:    TypePresenceLeave,
		UserID:  client.UserID,
		Payload: leavePayload,
	}, "")

	slog.Info("client left", "user", client.UserID, "room", client.RoomID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case TypeOpSubmit:
		h.handleOpSubmit(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
	}
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	presence.DisplayName = sender.DisplayName

	h.mu.RLock()
	room, ok := h.rooms[sender.RoomID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	room.presence.Update(sender.UserID, &presence)

	outPayload, _ := json.Marshal(presence)
	h.broadcastToRoom(sender.RoomID, &Message{
		Type:    TypePresenceUpdate,
		UserID:  sender.UserID,
		Payload: outPayload,
	}, sender.ClientID)
}

func (h *Hub) handleOpSubmit(sender *Client, msg *Message) {
	var payload OperationSubmitPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		slog.Warn("invalid op payload", "error", err, "user", sender.UserID)
		return
	}
	op := payload.Operation

	h.mu.RLock()
	room, ok := h.rooms[sender.RoomID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	serverSeq, err := room.state.Apply(op)
	if err != nil {
		nack, _ := json.Marshal(OperationNackPayload{
			OperationID: op.ID,
			Reason:      err.Error(),
		})
		sender.Send(&Message{Type: TypeOpNack, Payload: nack})
		return
	}

	ack, _ := json.Marshal(OperationAckPayload{
		OperationID:     op.ID,
		ServerSeq:       serverSeq,
		ServerTimestamp: time.Now().UnixMilli(),
	})
	sender.Send(&Message{Type: TypeOpAck, Payload: ack})

	opBroadcast, _ := json.Marshal(OperationBroadcastPayload{
		Operation: op,
		UserID:    sender.UserID,
		ServerSeq: serverSeq,
	})
	h.broadcastToRoom(sender.RoomID, &Message{
		Type:    TypeOpBroadcast,
		UserID:  sender.UserID,
		Payload: opBroadcast,
	}, sender.ClientID)

	// Reset replaces the whole document: resync before the reflections.
	if op.Type == OpSceneReset {
		h.mu.RLock()
		clients := make([]*Client, 0, len(room.clients))
		for _, c := range room.clients {
			clients = append(clients, c)
		}
		h.mu.RUnlock()
		for _, c := range clients {
			h.sendSceneSync(c, room)
		}
	}

	// Every state change pushes the fresh reflection set to everyone,
	// the submitter included.
	h.sendReflections(room, nil)
}

// sendReflections recomputes the room's reflection set and sends it to one
// client, or broadcasts it to the whole room when client is nil.
func (h *Hub) sendReflections(room *Room, client *Client) {
	refl, err := room.state.Reflections()
	if err != nil {
		slog.Error("compute reflections", "error", err, "room", room.roomID)
		return
	}

	payload, err := json.Marshal(ReflectionsPayload{
		ServerSeq:      room.state.ServerSeq(),
		VirtualObjects: refl.VirtualObjects,
		VirtualViewers: refl.VirtualViewers,
	})
	if err != nil {
		slog.Error("marshal reflections", "error", err)
		return
	}

	msg := &Message{Type: TypeReflections, Payload: payload}
	if client != nil {
		client.Send(msg)
		return
	}
	h.broadcastToRoom(room.roomID, msg, "")
}

func (h *Hub) sendSceneSync(client *Client, room *Room) {
	payload, err := json.Marshal(SceneSyncPayload{Scene: room.state.Scene()})
	if err != nil {
		slog.Error("marshal scene sync", "error", err)
		return
	}
	client.Send(&Message{Type: TypeSceneSync, Payload: payload})
}

func (h *Hub) sendError(client *Client, reason string) {
	payload, _ := json.Marshal(map[string]string{"reason": reason})
	client.Send(&Message{Type: TypeError, Payload: payload})
}

func (h *Hub) broadcastToRoom(roomID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[roomID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

func (h *Hub) saveRoom(room *Room) {
	if !room.state.Dirty() {
		return
	}
	if err := h.saver(room.roomID, room.state.Scene()); err != nil {
		slog.Error("save scene", "error", err, "room", room.roomID)
		return
	}
	room.state.MarkSaved()
	slog.Info("scene saved", "room", room.roomID)
}

func (h *Hub) saveAll() {
	h.mu.RLock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, r := range h.rooms {
		rooms = append(rooms, r)
	}
	h.mu.RUnlock()

	for _, r := range rooms {
		h.saveRoom(r)
	}
}
