package model

import (
	"encoding/json"
	"time"
)

// Well-known fields of a usuario document. Everything else submitted with the
// form (contact and recipient data) is stored as-is.
const (
	FieldAudioRef     = "audioRef"
	FieldCustomerID   = "customer_id"
	FieldTrxStatus    = "trx_status"
	FieldOrderID      = "order_id"
	FieldStockUpdated = "stockUpdated"
	FieldCreatedAt    = "createdAt"
	FieldStock        = "stock"
)

// TrxStatusApproved is the only transaction status that consumes stock.
const TrxStatusApproved = "approved"

// Usuario is one form submission as stored in the usuarios collection.
// Fields is schema-flexible; ID is the store-assigned document id.
type Usuario struct {
	ID     string
	Fields map[string]any
}

// String returns the field as a string, or "" when absent or not a string.
func (u *Usuario) String(field string) string {
	s, _ := u.Fields[field].(string)
	return s
}

// StockUpdated reports whether stock was already decremented for this record.
func (u *Usuario) StockUpdated() bool {
	b, _ := u.Fields[FieldStockUpdated].(bool)
	return b
}

// CreatedAt returns the creation timestamp when the store returned one.
func (u *Usuario) CreatedAt() (time.Time, bool) {
	t, ok := u.Fields[FieldCreatedAt].(time.Time)
	return t, ok
}

// MarshalJSON flattens the record into {"id": ..., <fields>...}, the shape the
// read endpoints return.
func (u Usuario) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Fields)+1)
	for k, v := range u.Fields {
		out[k] = v
	}
	out["id"] = u.ID
	return json.Marshal(out)
}
