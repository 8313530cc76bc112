// Package dlq records stock updates that could not be applied, for manual
// reconciliation. Uses a Redis list per source: dlq:{source}.
package dlq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const Prefix = "dlq:"

// SourceStock is the list that collects failed stock decrements.
const SourceStock = "stock"

// Entry wraps a failed operation with metadata for debugging.
type Entry struct {
	Source     string          `json:"source"`
	Stage      string          `json:"stage"` // mark | decrement
	UsuarioID  string          `json:"usuario_id"`
	CustomerID string          `json:"customer_id"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Reason     string          `json:"reason"`
	FailedAt   string          `json:"failed_at"` // ISO 8601
}

// Queue pushes entries to Redis. A nil *Queue or a Queue without a client
// only logs, so Redis stays optional.
type Queue struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Queue { return &Queue{rdb: rdb} }

// Send pushes the entry; failures to push are logged and never returned.
func (q *Queue) Send(ctx context.Context, e Entry) {
	if e.FailedAt == "" {
		e.FailedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if q == nil || q.rdb == nil {
		log.Warn().
			Str("source", e.Source).
			Str("stage", e.Stage).
			Str("usuario_id", e.UsuarioID).
			Str("reason", e.Reason).
			Msg("dlq: redis disabled, entry not persisted")
		return
	}

	data, err := json.Marshal(e)
	if err != nil {
		log.Error().Err(err).Str("source", e.Source).Msg("dlq: failed to marshal entry")
		return
	}

	key := Prefix + e.Source
	if err := q.rdb.LPush(ctx, key, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", key).Msg("dlq: failed to push to DLQ")
		return
	}

	log.Warn().
		Str("source", e.Source).
		Str("stage", e.Stage).
		Str("usuario_id", e.UsuarioID).
		Str("reason", e.Reason).
		Msg("dlq: entry moved to dead letter queue")
}

// Length returns the number of entries in a DLQ for monitoring.
func (q *Queue) Length(ctx context.Context, source string) (int64, error) {
	if q == nil || q.rdb == nil {
		return 0, nil
	}
	return q.rdb.LLen(ctx, Prefix+source).Result()
}
