package chatgpt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/namikmesic/chatgpt-sidekick/internal/stream"
	"github.com/rs/zerolog/log"
)

const conversationPath = "/backend-api/conversation"

// maxErrorBody caps how much of a failed response is kept in StatusError.
const maxErrorBody = 4096

// Reply is the outcome of one conversation call.
type Reply struct {
	// Message is nil when the stream held no usable chunk.
	Message    *stream.ParsedMessage
	RawBody    []byte
	Header     http.Header
	StatusCode int
	ChunkCount int
}

// Client calls the conversation endpoint once per Ask. It does not retry.
type Client struct {
	baseURL     string
	accessToken string
	model       string
	http        *http.Client
}

type Options struct {
	BaseURL     string
	AccessToken string
	Model       string
	HTTPClient  *http.Client
}

func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		// No timeout: the upstream holds the stream open until the turn ends.
		hc = &http.Client{}
	}
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = HostURL
	}
	return &Client{
		baseURL:     base,
		accessToken: opts.AccessToken,
		model:       opts.Model,
		http:        hc,
	}
}

// Ask sends p and returns the final message of the streamed answer.
// On a decode failure the partially filled Reply is returned with the error.
func (c *Client) Ask(ctx context.Context, p Prompt) (*Reply, error) {
	token := p.AccessToken
	if token == "" {
		token = c.accessToken
	}

	body, err := json.Marshal(newConversationRequest(p, c.model))
	if err != nil {
		return nil, fmt.Errorf("marshal conversation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+conversationPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create conversation request: %w", err)
	}
	Headers(token).Apply(req.Header)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send conversation request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read conversation response: %w", err)
	}

	reply := &Reply{
		RawBody:    raw,
		Header:     resp.Header,
		StatusCode: resp.StatusCode,
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := raw
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return reply, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	data := string(raw)
	reply.ChunkCount = len(stream.SplitChunks(data))
	reply.Message, err = stream.ParseStreamResponse(data)
	if err != nil {
		return reply, err
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Int("chunks", reply.ChunkCount).
		Int("bytes", len(raw)).
		Dur("duration", time.Since(start)).
		Msg("conversation response parsed")
	return reply, nil
}
