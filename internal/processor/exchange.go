package processor

import (
	"time"

	"github.com/google/uuid"
	"github.com/namikmesic/chatgpt-sidekick/internal/storage"
	"github.com/namikmesic/chatgpt-sidekick/internal/stream"
)

// Exchange is published on JetStream once per relayed prompt, whether or not
// the upstream call succeeded.
type Exchange struct {
	RequestID       uuid.UUID             `json:"request_id"`
	Timestamp       time.Time             `json:"ts"`
	Prompt          string                `json:"prompt"`
	ConversationID  string                `json:"conversation_id,omitempty"`
	ParentMessageID string                `json:"parent_message_id,omitempty"`
	StatusCode      int                   `json:"status_code"`
	Error           string                `json:"error,omitempty"`
	ResponseTimeMs  int                   `json:"response_time_ms"`
	RequestHeaders  map[string][]string   `json:"request_headers,omitempty"`
	ResponseHeaders map[string][]string   `json:"response_headers,omitempty"`
	RawBody         []byte                `json:"raw_body,omitempty"`
	Message         *stream.ParsedMessage `json:"message,omitempty"`
}

func (e *Exchange) record(chunkCount int) *storage.ExchangeRecord {
	r := &storage.ExchangeRecord{
		ID:              e.RequestID,
		Timestamp:       e.Timestamp,
		Prompt:          e.Prompt,
		StatusCode:      e.StatusCode,
		Success:         e.Error == "" && e.StatusCode >= 200 && e.StatusCode < 300,
		ErrorMessage:    e.Error,
		ResponseTimeMs:  e.ResponseTimeMs,
		ChunkCount:      chunkCount,
		ConversationID:  e.ConversationID,
		ParentMessageID: e.ParentMessageID,
	}
	if m := e.Message; m != nil {
		if m.ConversationID != "" {
			r.ConversationID = m.ConversationID
		}
		r.MessageID = m.MessageID
		r.Message = m.Message
		r.IsDone = m.IsDone
	}
	return r
}
