package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/dom/daily-checkin/internal/logger"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	lookupTimeout  = 5 * time.Second
)

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID uuid.UUID
	// subject is the user whose schedule this client watches. Owned by the hub.
	subject uuid.UUID

	// mu guards closed and every send on the send channel.
	mu     sync.Mutex
	closed bool
}

// NewClient creates a client for userID watching subject's schedule.
func NewClient(hub *Hub, conn *websocket.Conn, userID, subject uuid.UUID) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, 64),
		userID:  userID,
		subject: subject,
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read error", "user_id", c.userID, "err", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError("INVALID_MESSAGE", "Message must be JSON")
			continue
		}

		c.handleMessage(&msg)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg *Message) {
	switch msg.Type {
	case MessageTypeSubscribe:
		var payload SubscribePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			c.sendError("INVALID_PAYLOAD", "Invalid subscribe payload")
			return
		}
		userID, err := uuid.Parse(payload.UserID)
		if err != nil {
			c.sendError("INVALID_PAYLOAD", "Invalid user id")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		_, err = c.hub.userRepo.GetByID(ctx, userID)
		cancel()
		if err != nil {
			c.sendError("USER_NOT_FOUND", "User does not exist")
			return
		}

		c.hub.Subscribe(c, userID)

	default:
		c.sendError("UNKNOWN_MESSAGE", "Unsupported message type")
	}
}

func (c *Client) sendMessage(msgType MessageType, payload interface{}) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		logger.Error("failed to marshal message", "type", msgType, "err", err)
		return
	}
	c.trySend(msg)
}

func (c *Client) sendError(code, message string) {
	c.sendMessage(MessageTypeError, ErrorPayload{
		Code:    code,
		Message: message,
	})
}

// trySend queues msg without blocking and reports whether it fit. A closed
// client accepts nothing.
func (c *Client) trySend(msg *Message) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("failed to marshal message", "type", msg.Type, "err", err)
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Close ends the write side; WritePump sends a close frame and exits.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}
