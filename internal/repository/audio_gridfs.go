package repository

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// gridfsAudioRepo stores recordings in a GridFS bucket; the storage path is
// used as the GridFS filename.
type gridfsAudioRepo struct {
	db         *mongo.Database
	bucket     *gridfs.Bucket
	bucketName string
	publicHost string
}

func NewGridFSAudioRepository(db *mongo.Database, bucketName, publicHost string) (AudioRepository, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, fmt.Errorf("gridfs: open bucket %s: %w", bucketName, err)
	}
	return &gridfsAudioRepo{db: db, bucket: bucket, bucketName: bucketName, publicHost: publicHost}, nil
}

func (r *gridfsAudioRepo) files() *mongo.Collection {
	return r.db.Collection(r.bucketName + ".files")
}

func (r *gridfsAudioRepo) Exists(ctx context.Context, path string) (bool, error) {
	n, err := r.files().CountDocuments(ctx, bson.M{"filename": path}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *gridfsAudioRepo) Upload(ctx context.Context, path, contentType string, src io.Reader) (string, error) {
	opts := options.GridFSUpload().SetMetadata(bson.M{"contentType": contentType})
	// UploadFromStream aborts the partial file when a read fails, which is
	// how a cancelled ctx surfaces here.
	if _, err := r.bucket.UploadFromStream(path, ctxReader{ctx: ctx, r: src}, opts); err != nil {
		return "", fmt.Errorf("gridfs: write %s: %w", path, err)
	}
	return r.PublicURL(path), nil
}

func (r *gridfsAudioRepo) Open(ctx context.Context, path string) (io.ReadCloser, int64, error) {
	stream, err := r.bucket.OpenDownloadStreamByName(path)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	return stream, stream.GetFile().Length, nil
}

func (r *gridfsAudioRepo) PublicURL(path string) string {
	return publicURL(r.publicHost, r.bucketName, path)
}

func (r *gridfsAudioRepo) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, nil)
}
