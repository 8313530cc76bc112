package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ChristianFajardo2022/audiosmadres/internal/model"
)

// ErrNotFound is returned by every driver when a document or object does not exist.
var ErrNotFound = errors.New("not found")

// UsuarioRepository defines the data access contract for form submissions.
// Services depend on this interface, not on a concrete driver,
// enabling clean unit testing via stubs.
type UsuarioRepository interface {
	// Create writes fields under id; createdAt is set by the store.
	Create(ctx context.Context, id string, fields map[string]any) error
	// FindByField returns every record whose field equals value exactly.
	FindByField(ctx context.Context, field, value string) ([]model.Usuario, error)
	// List returns the whole collection.
	List(ctx context.Context) ([]model.Usuario, error)
	// UpdateTransaction sets trx_status and order_id, leaving other fields intact.
	UpdateTransaction(ctx context.Context, id, trxStatus, orderID string) error
	// MarkStockUpdated flips stockUpdated from false/absent to true atomically.
	// It returns false when the flag was already set.
	MarkStockUpdated(ctx context.Context, id string) (bool, error)
	Ping(ctx context.Context) error
}

// StockRepository manages the singleton stock counter document.
type StockRepository interface {
	// Decrement subtracts exactly one unit atomically and returns the new value.
	Decrement(ctx context.Context) (int64, error)
	Get(ctx context.Context) (int64, error)
}

// normalizeFields converts driver-specific value types into plain Go values
// so that JSON and CSV rendering do not depend on the backing store.
func normalizeFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case interface{ Time() time.Time }:
		return t.Time()
	case map[string]any:
		return normalizeFields(t)
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = normalizeValue(t[i])
		}
		return out
	default:
		return v
	}
}

// toInt64 reads a numeric counter regardless of how the driver decoded it.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
