package repository

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

type gcsAudioRepo struct {
	bucket     *storage.BucketHandle
	bucketName string
	publicHost string
}

func NewGCSAudioRepository(client *storage.Client, bucket, publicHost string) AudioRepository {
	return &gcsAudioRepo{
		bucket:     client.Bucket(bucket),
		bucketName: bucket,
		publicHost: publicHost,
	}
}

func (r *gcsAudioRepo) Exists(ctx context.Context, path string) (bool, error) {
	_, err := r.bucket.Object(path).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *gcsAudioRepo) Upload(ctx context.Context, path, contentType string, src io.Reader) (string, error) {
	// Cancelling the writer's context discards the partial object.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := r.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, src); err != nil {
		cancel()
		_ = w.Close()
		return "", fmt.Errorf("gcs: write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs: finalize %s: %w", path, err)
	}
	return r.PublicURL(path), nil
}

func (r *gcsAudioRepo) Open(ctx context.Context, path string) (io.ReadCloser, int64, error) {
	rd, err := r.bucket.Object(path).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	return rd, rd.Attrs.Size, nil
}

func (r *gcsAudioRepo) PublicURL(path string) string {
	return publicURL(r.publicHost, r.bucketName, path)
}

func (r *gcsAudioRepo) Ping(ctx context.Context) error {
	_, err := r.bucket.Attrs(ctx)
	return err
}
