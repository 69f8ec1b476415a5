package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const (
	sendBufferSize = 256
	writeTimeout   = 10 * time.Second
	pingInterval   = 30 * time.Second
	readLimit      = 64 * 1024
)

// Client is one websocket connection inside a room. Outbound messages go
// through a buffered channel so a slow reader never blocks the hub; the
// channel is sealed exactly once when the hub drops the client, and Send
// after sealing is a silent drop.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	sendMu sync.Mutex
	send   chan []byte
	sealed bool

	UserID      string
	DisplayName string
	RoomID      string
	ClientID    string
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, displayName, roomID, clientID string) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBufferSize),
		UserID:      userID,
		DisplayName: displayName,
		RoomID:      roomID,
		ClientID:    clientID,
	}
}

// ReadPump decodes inbound frames and hands them to the hub. It owns the
// connection lifecycle: when it returns, the client is unregistered and the
// connection closed.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(readLimit)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				slog.Debug("read error", "error", err, "user", c.UserID)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "user", c.UserID)
			continue
		}

		msg.UserID = c.UserID
		msg.ClientID = c.ClientID
		msg.RoomID = c.RoomID

		c.hub.handleMessage(c, &msg)
	}
}

// WritePump drains the send channel onto the wire and keeps the connection
// alive with pings. It exits when the channel is sealed and drained, or when
// the connection context ends.
func (c *Client) WritePump(ctx context.Context) {
	pinger := time.NewTicker(pingInterval)
	defer func() {
		pinger.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "user", c.UserID)
				return
			}

		case <-pinger.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// Send queues a message for the client. Full buffer and sealed channel both
// drop the message; reflection updates are recomputed on every operation, so
// a dropped frame is superseded by the next one.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.sealed {
		return
	}

	select {
	case c.send <- data:
	default:
		slog.Warn("send buffer full, dropping message", "user", c.UserID)
	}
}

// seal closes the outbound channel. Idempotent, and safe against concurrent
// Send calls from broadcast goroutines.
func (c *Client) seal() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.sealed {
		return
	}
	c.sealed = true
	close(c.send)
}
