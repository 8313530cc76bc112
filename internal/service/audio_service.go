package service

import (
	"context"
	"errors"
	"path"

	"github.com/ChristianFajardo2022/audiosmadres/internal/apierror"
	"github.com/ChristianFajardo2022/audiosmadres/internal/dto"
	"github.com/ChristianFajardo2022/audiosmadres/internal/repository"
)

// AudioService opens stored recordings for download.
type AudioService interface {
	Descargar(ctx context.Context, ref string) (*dto.AudioDescarga, error)
}

type audioService struct{ audios repository.AudioRepository }

func NewAudioService(audios repository.AudioRepository) AudioService {
	return &audioService{audios: audios}
}

// Descargar accepts a storage path or the public URL stored in audioRef.
// The caller must close the returned Body.
func (s *audioService) Descargar(ctx context.Context, ref string) (*dto.AudioDescarga, error) {
	if ref == "" {
		return nil, apierror.Validation("No audio reference provided")
	}
	p := repository.PathFromRef(s.audios, ref)

	exists, err := s.audios.Exists(ctx, p)
	if err != nil {
		return nil, apierror.Upstream("Error processing your request", err)
	}
	if !exists {
		return nil, apierror.NotFound("Audio file not found")
	}

	body, size, err := s.audios.Open(ctx, p)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apierror.NotFound("Audio file not found")
	}
	if err != nil {
		return nil, apierror.Upstream("Error processing your request", err)
	}
	return &dto.AudioDescarga{Body: body, Size: size, Filename: path.Base(p)}, nil
}
