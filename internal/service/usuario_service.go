package service

import (
	"context"

	"github.com/ChristianFajardo2022/audiosmadres/internal/apierror"
	"github.com/ChristianFajardo2022/audiosmadres/internal/csvexport"
	"github.com/ChristianFajardo2022/audiosmadres/internal/model"
	"github.com/ChristianFajardo2022/audiosmadres/internal/repository"
)

// UsuarioService covers the read side of the usuarios collection.
type UsuarioService interface {
	Filtrar(ctx context.Context, field, value string) ([]model.Usuario, error)
	ObtenerPorCustomerID(ctx context.Context, customerID string) ([]model.Usuario, error)
	ExportarCSV(ctx context.Context) ([]byte, error)
}

type usuarioService struct {
	repo     repository.UsuarioRepository
	exporter *csvexport.Exporter
}

func NewUsuarioService(repo repository.UsuarioRepository, exporter *csvexport.Exporter) UsuarioService {
	return &usuarioService{repo: repo, exporter: exporter}
}

func (s *usuarioService) Filtrar(ctx context.Context, field, value string) ([]model.Usuario, error) {
	if field == "" || value == "" {
		return nil, apierror.Validation("Invalid query parameters")
	}
	usuarios, err := s.repo.FindByField(ctx, field, value)
	if err != nil {
		return nil, apierror.Upstream("Error processing your request", err)
	}
	if len(usuarios) == 0 {
		return nil, apierror.NotFound("No matching users found")
	}
	return usuarios, nil
}

func (s *usuarioService) ObtenerPorCustomerID(ctx context.Context, customerID string) ([]model.Usuario, error) {
	if customerID == "" {
		return nil, apierror.Validation("customer_id is required")
	}
	usuarios, err := s.repo.FindByField(ctx, model.FieldCustomerID, customerID)
	if err != nil {
		return nil, apierror.Upstream("Error processing your request", err)
	}
	if len(usuarios) == 0 {
		return nil, apierror.NotFound("User not found")
	}
	return usuarios, nil
}

// ExportarCSV scans the whole collection; there is no pagination.
func (s *usuarioService) ExportarCSV(ctx context.Context) ([]byte, error) {
	usuarios, err := s.repo.List(ctx)
	if err != nil {
		return nil, apierror.Upstream("Failed to export data", err)
	}
	data, err := s.exporter.Encode(usuarios)
	if err != nil {
		return nil, apierror.Internal("Failed to export data", err)
	}
	return data, nil
}
