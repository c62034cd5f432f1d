package testutil

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dom/daily-checkin/internal/domain"
	"github.com/dom/daily-checkin/internal/websocket"
	gorillaWS "github.com/gorilla/websocket"
)

// WSClient is a test WebSocket client
type WSClient struct {
	t        *testing.T
	conn     *gorillaWS.Conn
	messages chan *websocket.Message
	errors   chan error
	done     chan struct{}
	mu       sync.Mutex
}

// NewWSClient creates a new WebSocket test client
func NewWSClient(t *testing.T, url string) *WSClient {
	t.Helper()

	dialer := gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect to websocket: %v", err)
	}

	client := &WSClient{
		t:        t,
		conn:     conn,
		messages: make(chan *websocket.Message, 100),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}

	go client.readPump()

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

// readPump reads messages from the WebSocket connection
func (c *WSClient) readPump() {
	defer close(c.messages)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			case c.errors <- err:
			default:
			}
			return
		}

		var msg websocket.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			select {
			case c.errors <- err:
			default:
			}
			continue
		}

		select {
		case c.messages <- &msg:
		case <-c.done:
			return
		}
	}
}

// Close closes the WebSocket connection gracefully
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
		close(c.done)
		c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
		c.conn.Close()
	}
}

// Subscribe asks the server to switch to userID's schedule
func (c *WSClient) Subscribe(userID string) {
	c.t.Helper()

	msg, err := websocket.NewMessage(websocket.MessageTypeSubscribe, websocket.SubscribePayload{UserID: userID})
	if err != nil {
		c.t.Fatalf("failed to build subscribe message: %v", err)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		c.t.Fatalf("failed to marshal message: %v", err)
	}

	c.mu.Lock()
	err = c.conn.WriteMessage(gorillaWS.TextMessage, data)
	c.mu.Unlock()

	if err != nil {
		c.t.Fatalf("failed to send subscribe: %v", err)
	}
}

// ExpectMessage waits for a message of the specified type, skipping others
func (c *WSClient) ExpectMessage(msgType websocket.MessageType, timeout time.Duration) *websocket.Message {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case msg, ok := <-c.messages:
			if !ok {
				c.t.Fatalf("connection closed while waiting for %s", msgType)
				return nil
			}
			if msg.Type == msgType {
				return msg
			}
		case err := <-c.errors:
			c.t.Fatalf("websocket error while waiting for %s: %v", msgType, err)
			return nil
		case <-deadline:
			c.t.Fatalf("timeout waiting for %s", msgType)
			return nil
		}
	}
}

// ExpectEntryChanged waits for and decodes an ENTRY_CHANGED message
func (c *WSClient) ExpectEntryChanged(timeout time.Duration) *domain.DisplayItem {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeEntryChanged, timeout)

	var item domain.DisplayItem
	if err := json.Unmarshal(msg.Payload, &item); err != nil {
		c.t.Fatalf("failed to decode entry changed payload: %v", err)
	}

	return &item
}

// ExpectDefinitionChanged waits for and decodes a DEFINITION_CHANGED message
func (c *WSClient) ExpectDefinitionChanged(timeout time.Duration) *domain.Definition {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeDefinitionChanged, timeout)

	var def domain.Definition
	if err := json.Unmarshal(msg.Payload, &def); err != nil {
		c.t.Fatalf("failed to decode definition changed payload: %v", err)
	}

	return &def
}

// ExpectDefinitionDeleted waits for a DEFINITION_DELETED message and returns the id
func (c *WSClient) ExpectDefinitionDeleted(timeout time.Duration) string {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeDefinitionDeleted, timeout)

	var payload websocket.DefinitionDeletedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode definition deleted payload: %v", err)
	}

	return payload.DefinitionID
}

// ExpectError waits for and decodes an ERROR message
func (c *WSClient) ExpectError(timeout time.Duration) *websocket.ErrorPayload {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeError, timeout)

	var payload websocket.ErrorPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode error payload: %v", err)
	}

	return &payload
}

// ExpectNoMessage verifies nothing arrives within timeout
func (c *WSClient) ExpectNoMessage(timeout time.Duration) {
	c.t.Helper()

	select {
	case msg, ok := <-c.messages:
		if ok {
			c.t.Fatalf("unexpected message: %s", msg.Type)
		}
	case <-time.After(timeout):
	}
}
