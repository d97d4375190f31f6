package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	dataPrefix = "data: "
	doneMarker = "[DONE]"
)

// ErrDecode is returned when the last usable chunk of a stream is not a
// well-formed conversation event.
var ErrDecode = errors.New("decode conversation event")

// SplitChunks splits a raw text/event-stream body on "data: ", strips all
// newlines from each piece and drops empty pieces and the [DONE] marker.
// Order is preserved.
func SplitChunks(data string) []string {
	pieces := strings.Split(data, dataPrefix)
	chunks := make([]string, 0, len(pieces))
	for _, p := range pieces {
		c := ReplaceAllLiteral(p, "\n", "")
		if c == "" || c == doneMarker {
			continue
		}
		chunks = append(chunks, c)
	}
	return chunks
}

// ParseStreamResponse returns the message carried by the last usable chunk of
// a /backend-api/conversation stream body. Earlier chunks are superseded and
// ignored. It returns nil, nil when the body has no usable chunk, and an error
// wrapping ErrDecode when the last chunk cannot be decoded.
func ParseStreamResponse(data string) (*ParsedMessage, error) {
	chunks := SplitChunks(data)
	if len(chunks) == 0 {
		return nil, nil
	}
	return decodeChunk(chunks[len(chunks)-1])
}

func decodeChunk(chunk string) (*ParsedMessage, error) {
	var ev ConversationEvent
	if err := json.Unmarshal([]byte(chunk), &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	switch {
	case ev.Message == nil && ev.Error != nil:
		return nil, fmt.Errorf("%w: upstream error: %s", ErrDecode, *ev.Error)
	case ev.Message == nil:
		return nil, fmt.Errorf("%w: missing message", ErrDecode)
	case ev.Message.Content == nil:
		return nil, fmt.Errorf("%w: missing message.content", ErrDecode)
	case len(ev.Message.Content.Parts) == 0:
		return nil, fmt.Errorf("%w: empty message.content.parts", ErrDecode)
	case ev.ConversationID == nil:
		return nil, fmt.Errorf("%w: missing conversation_id", ErrDecode)
	}

	return &ParsedMessage{
		Message:        ev.Message.Content.Parts[0],
		MessageID:      ev.Message.ID,
		ConversationID: *ev.ConversationID,
		IsDone:         ev.endTurn(),
	}, nil
}
