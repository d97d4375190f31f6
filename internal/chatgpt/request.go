package chatgpt

import "github.com/google/uuid"

// ConversationRequest is the body POSTed to /backend-api/conversation.
type ConversationRequest struct {
	Action          string           `json:"action"` // "next"
	Messages        []RequestMessage `json:"messages"`
	ConversationID  string           `json:"conversation_id,omitempty"`
	ParentMessageID string           `json:"parent_message_id"`
	Model           string           `json:"model"`
}

type RequestMessage struct {
	ID      string         `json:"id"`
	Role    string         `json:"role"` // "user"
	Content RequestContent `json:"content"`
}

type RequestContent struct {
	ContentType string   `json:"content_type"` // "text"
	Parts       []string `json:"parts"`
}

// Prompt is a single user turn.
type Prompt struct {
	Text            string
	ConversationID  string // empty starts a new conversation
	ParentMessageID string // empty generates a fresh root id
	AccessToken     string // overrides the client default when set
}

func newConversationRequest(p Prompt, model string) ConversationRequest {
	parent := p.ParentMessageID
	if parent == "" {
		parent = uuid.NewString()
	}
	return ConversationRequest{
		Action: "next",
		Messages: []RequestMessage{{
			ID:   uuid.NewString(),
			Role: "user",
			Content: RequestContent{
				ContentType: "text",
				Parts:       []string{p.Text},
			},
		}},
		ConversationID:  p.ConversationID,
		ParentMessageID: parent,
		Model:           model,
	}
}
