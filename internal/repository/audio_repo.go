package repository

import (
	"context"
	"io"
	"strings"
)

// AudioRepository is the blob store holding uploaded recordings.
type AudioRepository interface {
	Exists(ctx context.Context, path string) (bool, error)
	// Upload streams r to path and returns only once the object is fully
	// written. Cancelling ctx aborts the write.
	Upload(ctx context.Context, path, contentType string, r io.Reader) (publicURL string, err error)
	// Open returns a streamed reader and the object size; ErrNotFound if missing.
	Open(ctx context.Context, path string) (io.ReadCloser, int64, error)
	PublicURL(path string) string
	Ping(ctx context.Context) error
}

// publicURL builds https://<host>/<bucket>/<path>.
func publicURL(host, bucket, path string) string {
	return "https://" + strings.TrimSuffix(host, "/") + "/" + bucket + "/" + strings.TrimPrefix(path, "/")
}

// PathFromRef accepts either a storage path or the public URL stored in
// audioRef and returns the storage path.
func PathFromRef(repo AudioRepository, ref string) string {
	prefix := repo.PublicURL("")
	if strings.HasPrefix(ref, prefix) {
		return strings.TrimPrefix(ref, prefix)
	}
	return ref
}

// ctxReader fails reads once ctx is done, so drivers that only take an
// io.Reader still abort when the client goes away.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
