package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/namikmesic/chatgpt-sidekick/internal/chatgpt"
	"github.com/namikmesic/chatgpt-sidekick/internal/jetstream"
	"github.com/namikmesic/chatgpt-sidekick/internal/processor"
	"github.com/namikmesic/chatgpt-sidekick/internal/stream"
	nats "github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

const maxPromptBody = 1 << 20

// Asker sends one prompt upstream.
type Asker interface {
	Ask(ctx context.Context, p chatgpt.Prompt) (*chatgpt.Reply, error)
}

// Publisher is the subset of nats.JetStreamContext used to emit exchanges.
type Publisher interface {
	Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// AskRequest is the body accepted by POST /conversation.
type AskRequest struct {
	Prompt          string `json:"prompt"`
	ConversationID  string `json:"conversation_id,omitempty"`
	ParentMessageID string `json:"parent_message_id,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler relays prompts to the conversation endpoint and answers with the
// final parsed message.
type Handler struct {
	client       Asker
	js           Publisher
	defaultToken string
	mux          *http.ServeMux
}

func NewHandler(client Asker, js Publisher, defaultToken string) *Handler {
	h := &Handler{
		client:       client,
		js:           js,
		defaultToken: defaultToken,
		mux:          http.NewServeMux(),
	}
	h.mux.HandleFunc("POST /conversation", h.handleConversation)
	h.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleConversation(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New()
	ts := time.Now()

	var req AskRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxPromptBody))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "prompt is required"})
		return
	}

	token := accessToken(r, h.defaultToken)
	reply, err := h.client.Ask(r.Context(), chatgpt.Prompt{
		Text:            req.Prompt,
		ConversationID:  req.ConversationID,
		ParentMessageID: req.ParentMessageID,
		AccessToken:     token,
	})
	elapsed := time.Since(ts)

	outgoing := make(http.Header)
	chatgpt.Headers(token).Apply(outgoing)
	ex := &processor.Exchange{
		RequestID:       requestID,
		Timestamp:       ts,
		Prompt:          req.Prompt,
		ConversationID:  req.ConversationID,
		ParentMessageID: req.ParentMessageID,
		ResponseTimeMs:  int(elapsed.Milliseconds()),
		RequestHeaders:  headerMap(outgoing),
	}
	if reply != nil {
		ex.StatusCode = reply.StatusCode
		ex.ResponseHeaders = headerMap(reply.Header)
		ex.RawBody = reply.RawBody
		ex.Message = reply.Message
	}
	if err != nil {
		ex.Error = err.Error()
	}
	h.publish(ex)

	status := http.StatusOK
	switch {
	case err != nil:
		status = http.StatusBadGateway
		log.Error().Err(err).Str("request_id", requestID.String()).Msg("conversation request failed")
		writeJSON(w, status, errorResponse{Error: upstreamError(err)})
	case reply.Message == nil:
		status = http.StatusNoContent
		w.WriteHeader(status)
	default:
		writeJSON(w, status, reply.Message)
	}

	log.Info().
		Str("request_id", requestID.String()).
		Str("conversation_id", conversationID(ex)).
		Int("status", status).
		Int("upstream_status", ex.StatusCode).
		Dur("duration", elapsed).
		Msg("relayed conversation")
}

func (h *Handler) publish(ex *processor.Exchange) {
	if h.js == nil {
		return
	}
	data, err := json.Marshal(ex)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode exchange")
		return
	}
	if _, err := h.js.Publish(jetstream.ExchangeSubject(ex.RequestID.String()), data); err != nil {
		log.Warn().Err(err).Str("request_id", ex.RequestID.String()).Msg("failed to publish exchange")
	}
}

func upstreamError(err error) string {
	switch {
	case chatgpt.IsAuthError(err):
		return "upstream rejected the access token"
	case chatgpt.IsRateLimited(err):
		return "upstream rate limit reached"
	case errors.Is(err, stream.ErrDecode):
		return "upstream returned an unreadable stream"
	default:
		return "upstream request failed"
	}
}

func conversationID(ex *processor.Exchange) string {
	if ex.Message != nil {
		return ex.Message.ConversationID
	}
	return ex.ConversationID
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("failed to write response")
	}
}
