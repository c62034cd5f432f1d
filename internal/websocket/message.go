package websocket

import (
	"encoding/json"
	"time"

	"github.com/dom/daily-checkin/internal/domain"
)

type MessageType string

const (
	// Client to Server
	MessageTypeSubscribe MessageType = "SUBSCRIBE"

	// Server to Client
	MessageTypeSubscribed        MessageType = "SUBSCRIBED"
	MessageTypeEntryChanged      MessageType = MessageType(domain.EventEntryChanged)
	MessageTypeDefinitionChanged MessageType = MessageType(domain.EventDefinitionChanged)
	MessageTypeDefinitionDeleted MessageType = MessageType(domain.EventDefinitionDeleted)
	MessageTypeError             MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Client to Server payloads

type SubscribePayload struct {
	UserID string `json:"userId"`
}

// Server to Client payloads

type SubscribedPayload struct {
	UserID string `json:"userId"`
}

type DefinitionDeletedPayload struct {
	DefinitionID string `json:"definitionId"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// eventMessage renders a schedule event as the frame sent to subscribers.
func eventMessage(event domain.ScheduleEvent) (*Message, error) {
	switch event.Type {
	case domain.EventEntryChanged:
		return NewMessage(MessageTypeEntryChanged, event.Item)
	case domain.EventDefinitionChanged:
		return NewMessage(MessageTypeDefinitionChanged, event.Definition)
	case domain.EventDefinitionDeleted:
		payload := DefinitionDeletedPayload{}
		if event.DefinitionID != nil {
			payload.DefinitionID = event.DefinitionID.String()
		}
		return NewMessage(MessageTypeDefinitionDeleted, payload)
	}
	return NewMessage(MessageType(event.Type), event)
}
