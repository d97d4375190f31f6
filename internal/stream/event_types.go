package stream

import (
	"bytes"
	"encoding/json"
)

// ParsedMessage is the simplified view of the final event in a
// /backend-api/conversation stream.
type ParsedMessage struct {
	Message        string `json:"message"`
	MessageID      string `json:"messageId"`
	ConversationID string `json:"conversationId"`
	IsDone         bool   `json:"isDone"`
}

// ConversationEvent is the payload of a single "data: " record.
// Required fields are pointers so absence can be told apart from zero values.
type ConversationEvent struct {
	Message        *EventMessage `json:"message"`
	ConversationID *string       `json:"conversation_id"`
	Error          *string       `json:"error"`
}

type EventMessage struct {
	ID      string          `json:"id"`
	Role    string          `json:"role"`
	Content *EventContent   `json:"content"`
	EndTurn json.RawMessage `json:"end_turn"` // true | false | null | absent
}

type EventContent struct {
	ContentType string   `json:"content_type"` // "text"
	Parts       []string `json:"parts"`
}

// endTurn reports whether end_turn is exactly the JSON literal true.
// Missing message, missing field, null and non-boolean values are all false.
func (e *ConversationEvent) endTurn() bool {
	if e.Message == nil {
		return false
	}
	return bytes.Equal(bytes.TrimSpace(e.Message.EndTurn), []byte("true"))
}
