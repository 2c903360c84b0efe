package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove      MessageType = "move"
	MessageTypeUndo      MessageType = "undo"
	MessageTypeReset     MessageType = "reset"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ErrorPayload is the body of an error message.
type ErrorPayload struct {
	Error string `json:"error"`
}

// NewMessage marshals payload into a message of the given type.
func NewMessage(t MessageType, payload interface{}) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: data}, nil
}

func NewError(errorMsg string) Message {
	msg, _ := NewMessage(MessageTypeError, ErrorPayload{Error: errorMsg})
	return msg
}
