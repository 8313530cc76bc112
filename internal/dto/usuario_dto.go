package dto

import (
	"io"

	"github.com/ChristianFajardo2022/audiosmadres/internal/model"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

// EnviarFormularioRequest is the decoded multipart body of POST /submit-form.
// Audio is nil when the client sent no "audio" part.
type EnviarFormularioRequest struct {
	FormData string
	Audio    io.Reader
}

// FiltroQuery is bound from the query string of GET /filter-users.
type FiltroQuery struct {
	Field string `form:"field"`
	Value string `form:"value"`
}

// TransaccionRequest is the payment processor callback on POST /alcarrito.
type TransaccionRequest struct {
	CustomerID string `json:"customer_id" validate:"required"`
	TrxStatus  string `json:"trx_status"  validate:"required"`
	OrderID    string `json:"order_id"    validate:"required"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type MensajeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type FiltrarUsuariosResponse struct {
	Success bool            `json:"success"`
	Users   []model.Usuario `json:"users"`
}

type UsuarioDataResponse struct {
	Success bool            `json:"success"`
	Data    []model.Usuario `json:"data"`
}

type TransaccionData struct {
	TrxStatus string `json:"trx_status"`
	OrderID   string `json:"order_id"`
}

type TransaccionResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    TransaccionData `json:"data"`
}

// FormularioResult describes a stored submission.
type FormularioResult struct {
	ID       string
	AudioRef string
}

// AudioDescarga is an open recording ready to be streamed to the client.
type AudioDescarga struct {
	Body     io.ReadCloser
	Size     int64
	Filename string
}
