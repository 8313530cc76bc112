package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/ChristianFajardo2022/audiosmadres/internal/apierror"
	"github.com/ChristianFajardo2022/audiosmadres/internal/dto"
	"github.com/ChristianFajardo2022/audiosmadres/internal/metrics"
	"github.com/ChristianFajardo2022/audiosmadres/internal/model"
	"github.com/ChristianFajardo2022/audiosmadres/internal/repository"

	"github.com/rs/zerolog/log"
)

// AudioLayout decides where and how uploaded recordings are stored.
type AudioLayout struct {
	Prefix      string // "audios/"
	Extension   string // ".mp3"
	ContentType string // "audio/mp3"
}

// FormularioService stores a form submission together with its recording.
type FormularioService interface {
	Enviar(ctx context.Context, req dto.EnviarFormularioRequest) (*dto.FormularioResult, error)
}

type formularioService struct {
	repo    repository.UsuarioRepository
	audios  repository.AudioRepository
	layout  AudioLayout
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewFormularioService(repo repository.UsuarioRepository, audios repository.AudioRepository, layout AudioLayout, m *metrics.Metrics) FormularioService {
	return &formularioService{repo: repo, audios: audios, layout: layout, metrics: m, now: time.Now}
}

// Enviar uploads the audio first and only then writes the record, so a failed
// upload never leaves a record without a valid audioRef.
func (s *formularioService) Enviar(ctx context.Context, req dto.EnviarFormularioRequest) (*dto.FormularioResult, error) {
	if req.Audio == nil {
		return nil, apierror.Validation("No audio file provided")
	}
	if req.FormData == "" {
		return nil, apierror.Validation("formData is required")
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(req.FormData), &fields); err != nil || fields == nil {
		return nil, apierror.Validation("formData must be a JSON object")
	}

	// One timestamp names both the blob and the document.
	id := strconv.FormatInt(s.now().UnixMilli(), 10)
	path := s.layout.Prefix + id + s.layout.Extension

	url, err := s.audios.Upload(ctx, path, s.layout.ContentType, req.Audio)
	if err != nil {
		s.metrics.AudioUploads.WithLabelValues("error").Inc()
		return nil, apierror.Upstream("Error uploading file to Storage", err)
	}
	s.metrics.AudioUploads.WithLabelValues("ok").Inc()

	fields[model.FieldAudioRef] = url
	delete(fields, model.FieldCreatedAt)

	if err := s.repo.Create(ctx, id, fields); err != nil {
		// The blob stays behind; it is unreferenced but harmless.
		log.Error().Err(err).Str("usuario_id", id).Str("path", path).Msg("record write failed after audio upload")
		return nil, apierror.Upstream("Error processing your request", err)
	}

	log.Info().Str("usuario_id", id).Str("path", path).Msg("form submission stored")
	return &dto.FormularioResult{ID: id, AudioRef: url}, nil
}
