package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ChristianFajardo2022/audiosmadres/internal/apierror"
	"github.com/ChristianFajardo2022/audiosmadres/internal/dlq"
	"github.com/ChristianFajardo2022/audiosmadres/internal/dto"
	"github.com/ChristianFajardo2022/audiosmadres/internal/metrics"
	"github.com/ChristianFajardo2022/audiosmadres/internal/model"
	"github.com/ChristianFajardo2022/audiosmadres/internal/repository"

	"github.com/rs/zerolog/log"
)

// TransaccionService applies payment callbacks to usuario records.
type TransaccionService interface {
	Actualizar(ctx context.Context, req dto.TransaccionRequest) (*dto.TransaccionData, error)
}

type transaccionService struct {
	repo    repository.UsuarioRepository
	stock   repository.StockRepository
	dlq     *dlq.Queue
	metrics *metrics.Metrics
}

func NewTransaccionService(repo repository.UsuarioRepository, stock repository.StockRepository, q *dlq.Queue, m *metrics.Metrics) TransaccionService {
	return &transaccionService{repo: repo, stock: stock, dlq: q, metrics: m}
}

// Actualizar writes trx_status and order_id unconditionally, then consumes one
// stock unit the first time the record is seen approved. Failures while
// consuming stock are logged, counted and dead-lettered; they never fail the
// callback.
func (s *transaccionService) Actualizar(ctx context.Context, req dto.TransaccionRequest) (*dto.TransaccionData, error) {
	if req.CustomerID == "" || req.TrxStatus == "" || req.OrderID == "" {
		return nil, apierror.Validation("Missing required fields: customer_id, trx_status, order_id")
	}

	usuarios, err := s.repo.FindByField(ctx, model.FieldCustomerID, req.CustomerID)
	if err != nil {
		return nil, apierror.Upstream("Error processing your request", err)
	}
	if len(usuarios) == 0 {
		return nil, apierror.NotFound("User not found")
	}
	// customer_id is expected to be unique; extra matches are ignored.
	usuario := usuarios[0]
	if len(usuarios) > 1 {
		log.Warn().Str("customer_id", req.CustomerID).Int("matches", len(usuarios)).
			Msg("multiple usuarios share customer_id, updating the first")
	}

	if err := s.repo.UpdateTransaction(ctx, usuario.ID, req.TrxStatus, req.OrderID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierror.NotFound("User not found")
		}
		return nil, apierror.Upstream("Error processing your request", err)
	}

	if req.TrxStatus == model.TrxStatusApproved && !usuario.StockUpdated() {
		s.consumirStock(ctx, usuario, req)
	}

	return &dto.TransaccionData{TrxStatus: req.TrxStatus, OrderID: req.OrderID}, nil
}

// consumirStock claims the record's stockUpdated flag and, only if this call
// won the claim, decrements the counter. Both steps are atomic in the store,
// so concurrent callbacks cannot double-decrement or lose a decrement.
func (s *transaccionService) consumirStock(ctx context.Context, usuario model.Usuario, req dto.TransaccionRequest) {
	marked, err := s.repo.MarkStockUpdated(ctx, usuario.ID)
	if err != nil {
		s.stockFailure(ctx, "mark", usuario, req, err)
		return
	}
	if !marked {
		log.Info().Str("usuario_id", usuario.ID).Msg("stock already consumed for usuario")
		return
	}

	remaining, err := s.stock.Decrement(ctx)
	if err != nil {
		s.stockFailure(ctx, "decrement", usuario, req, err)
		return
	}
	s.metrics.StockDecrements.Inc()
	log.Info().
		Str("usuario_id", usuario.ID).
		Str("customer_id", req.CustomerID).
		Int64("stock", remaining).
		Msg("stock decremented")
}

func (s *transaccionService) stockFailure(ctx context.Context, stage string, usuario model.Usuario, req dto.TransaccionRequest, err error) {
	s.metrics.StockDecrementFailures.WithLabelValues(stage).Inc()
	log.Error().
		Err(err).
		Str("stage", stage).
		Str("usuario_id", usuario.ID).
		Str("customer_id", req.CustomerID).
		Msg("stock update failed, callback still acknowledged")

	payload, _ := json.Marshal(req)
	s.dlq.Send(context.WithoutCancel(ctx), dlq.Entry{
		Source:     dlq.SourceStock,
		Stage:      stage,
		UsuarioID:  usuario.ID,
		CustomerID: req.CustomerID,
		Payload:    payload,
		Reason:     err.Error(),
	})
}
