package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExchangeRecord is one prompt sent upstream and what came back.
type ExchangeRecord struct {
	ID              uuid.UUID
	Timestamp       time.Time
	Prompt          string
	StatusCode      int
	Success         bool
	ErrorMessage    string
	ResponseTimeMs  int
	ChunkCount      int
	ConversationID  string
	ParentMessageID string
	MessageID       string
	Message         string
	IsDone          bool
}

func InsertExchangeJob(r *ExchangeRecord) WriteJob {
	return WriteJobFunc(func(ctx context.Context, pool *pgxpool.Pool) error {
		_, err := pool.Exec(ctx, `
			INSERT INTO exchanges (
				id, ts, prompt, status_code, success, error_message, response_time_ms,
				chunk_count, conversation_id, parent_message_id, message_id, message, is_done
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
			ON CONFLICT (id, ts) DO NOTHING`,
			r.ID, r.Timestamp, r.Prompt, r.StatusCode, r.Success, nilIfEmpty(r.ErrorMessage),
			r.ResponseTimeMs, r.ChunkCount, nilIfEmpty(r.ConversationID), nilIfEmpty(r.ParentMessageID),
			nilIfEmpty(r.MessageID), nilIfEmpty(r.Message), r.IsDone,
		)
		return err
	})
}

func InsertPayloadJob(exchangeID uuid.UUID, ts time.Time, reqHeaders, respHeaders map[string][]string, respBody []byte) WriteJob {
	return WriteJobFunc(func(ctx context.Context, pool *pgxpool.Pool) error {
		reqH, _ := json.Marshal(reqHeaders)
		respH, _ := json.Marshal(respHeaders)
		_, err := pool.Exec(ctx, `
			INSERT INTO exchange_payloads (exchange_id, ts, request_headers, response_headers, response_body)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (exchange_id, ts) DO NOTHING`,
			exchangeID, ts, reqH, respH, nilIfEmptyBytes(respBody),
		)
		return err
	})
}

// InsertChunksJob bulk-loads the usable chunks of a stream using COPY.
func InsertChunksJob(exchangeID uuid.UUID, ts time.Time, chunks []string) WriteJob {
	return WriteJobFunc(func(ctx context.Context, pool *pgxpool.Pool) error {
		_, err := pool.CopyFrom(ctx,
			pgx.Identifier{"exchange_chunks"},
			[]string{"ts", "exchange_id", "chunk_index", "data", "raw_bytes"},
			pgx.CopyFromRows(chunkRows(exchangeID, ts, chunks)),
		)
		return err
	})
}

func chunkRows(exchangeID uuid.UUID, ts time.Time, chunks []string) [][]any {
	rows := make([][]any, len(chunks))
	for i, c := range chunks {
		rows[i] = []any{ts, exchangeID, i, c, len(c)}
	}
	return rows
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nilIfEmptyBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}
