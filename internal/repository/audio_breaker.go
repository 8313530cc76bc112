package repository

import (
	"context"
	"errors"
	"io"

	"github.com/ChristianFajardo2022/audiosmadres/internal/infra"
)

type breakerAudioRepository struct {
	next AudioRepository
	cb   *infra.CircuitBreaker
}

// WithCircuitBreaker guards every blob store call with cb. ErrNotFound and
// context cancellation are client outcomes and never trip the breaker.
func WithCircuitBreaker(next AudioRepository, cb *infra.CircuitBreaker) AudioRepository {
	return &breakerAudioRepository{next: next, cb: cb}
}

func benignBlobErr(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
}

func (b *breakerAudioRepository) Exists(ctx context.Context, path string) (bool, error) {
	var ok bool
	err := b.cb.Execute(func() error {
		var err error
		ok, err = b.next.Exists(ctx, path)
		return err
	}, benignBlobErr)
	return ok, err
}

func (b *breakerAudioRepository) Upload(ctx context.Context, path, contentType string, r io.Reader) (string, error) {
	var url string
	err := b.cb.Execute(func() error {
		var err error
		url, err = b.next.Upload(ctx, path, contentType, r)
		return err
	}, benignBlobErr)
	return url, err
}

func (b *breakerAudioRepository) Open(ctx context.Context, path string) (io.ReadCloser, int64, error) {
	var (
		rc   io.ReadCloser
		size int64
	)
	err := b.cb.Execute(func() error {
		var err error
		rc, size, err = b.next.Open(ctx, path)
		return err
	}, benignBlobErr)
	return rc, size, err
}

func (b *breakerAudioRepository) PublicURL(path string) string { return b.next.PublicURL(path) }

// Ping bypasses the breaker so health checks see the real backend state.
func (b *breakerAudioRepository) Ping(ctx context.Context) error { return b.next.Ping(ctx) }
