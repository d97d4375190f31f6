package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/namikmesic/chatgpt-sidekick/internal/jetstream"
	"github.com/namikmesic/chatgpt-sidekick/internal/storage"
	"github.com/namikmesic/chatgpt-sidekick/internal/stream"
	nats "github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

const (
	fetchBatch = 32
	fetchWait  = 5 * time.Second
)

// Processor records relayed exchanges in the background.
type Processor struct {
	writer storage.Enqueuer
}

func New(writer storage.Enqueuer) *Processor {
	return &Processor{writer: writer}
}

// Record enqueues the storage jobs for one exchange.
func (p *Processor) Record(ex *Exchange) {
	chunks := stream.SplitChunks(string(ex.RawBody))

	p.writer.Enqueue(storage.InsertExchangeJob(ex.record(len(chunks))))
	if len(ex.RequestHeaders) > 0 || len(ex.ResponseHeaders) > 0 || len(ex.RawBody) > 0 {
		p.writer.Enqueue(storage.InsertPayloadJob(ex.RequestID, ex.Timestamp, ex.RequestHeaders, ex.ResponseHeaders, ex.RawBody))
	}
	if len(chunks) > 0 {
		p.writer.Enqueue(storage.InsertChunksJob(ex.RequestID, ex.Timestamp, chunks))
	}

	log.Debug().
		Str("request_id", ex.RequestID.String()).
		Int("chunks", len(chunks)).
		Int("status", ex.StatusCode).
		Msg("exchange recorded")
}

// HandleMessage decodes a JetStream payload and records it.
func (p *Processor) HandleMessage(data []byte) error {
	var ex Exchange
	if err := json.Unmarshal(data, &ex); err != nil {
		return fmt.Errorf("decode exchange: %w", err)
	}
	p.Record(&ex)
	return nil
}

// StartConsumer pulls exchanges until ctx is done. Undecodable messages are
// terminated so they are not redelivered.
func (p *Processor) StartConsumer(ctx context.Context, js nats.JetStreamContext) {
	sub, err := js.PullSubscribe(jetstream.ExchangeWildcard, jetstream.ConsumerName)
	if err != nil {
		log.Error().Err(err).Msg("failed to subscribe to exchanges")
		return
	}
	defer sub.Unsubscribe()

	for {
		if ctx.Err() != nil {
			return
		}
		msgs, err := p.fetch(ctx, sub)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, nats.ErrTimeout) {
				continue
			}
			log.Warn().Err(err).Msg("exchange fetch failed")
			time.Sleep(time.Second)
			continue
		}
		for _, msg := range msgs {
			if err := p.HandleMessage(msg.Data); err != nil {
				log.Error().Err(err).Str("subject", msg.Subject).Msg("dropping exchange")
				msg.Term()
				continue
			}
			msg.Ack()
		}
	}
}

func (p *Processor) fetch(ctx context.Context, sub *nats.Subscription) ([]*nats.Msg, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, fetchWait)
	defer cancel()
	return sub.Fetch(fetchBatch, nats.Context(fetchCtx))
}
