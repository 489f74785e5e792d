package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/yoockh/volunteerhub/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultGridFSBucket = "cvs"

type GridFSStore struct {
	bucket *gridfs.Bucket
}

type gridfsMetadata struct {
	ContentType string `bson:"content_type"`
}

func NewGridFSStore(db *mongo.Database, bucketName string) (*GridFSStore, error) {
	if bucketName == "" {
		bucketName = defaultGridFSBucket
	}
	b, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, err
	}
	return &GridFSStore{bucket: b}, nil
}

func (s *GridFSStore) Put(ctx context.Context, r io.Reader, filename, contentType string) (models.BlobID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	opts := options.GridFSUpload().SetMetadata(gridfsMetadata{ContentType: contentTypeOr(contentType)})
	id, err := s.bucket.UploadFromStream(filename, r, opts)
	if err != nil {
		return "", fmt.Errorf("gridfs upload: %w", err)
	}
	return models.BlobID(id.Hex()), nil
}

func (s *GridFSStore) Get(ctx context.Context, id models.BlobID) (*models.Blob, error) {
	oid, err := primitive.ObjectIDFromHex(id.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBlobNotFound, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds, err := s.bucket.OpenDownloadStream(oid)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("gridfs open: %w", err)
	}
	defer ds.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, ds); err != nil {
		return nil, fmt.Errorf("gridfs read: %w", err)
	}

	f := ds.GetFile()
	var md gridfsMetadata
	if len(f.Metadata) > 0 {
		_ = bson.Unmarshal(f.Metadata, &md)
	}

	return &models.Blob{
		ID:          id,
		Filename:    f.Name,
		ContentType: contentTypeOr(md.ContentType),
		Size:        f.Length,
		UploadedAt:  f.UploadDate,
		Data:        buf.Bytes(),
	}, nil
}

func (s *GridFSStore) Delete(ctx context.Context, id models.BlobID) error {
	oid, err := primitive.ObjectIDFromHex(id.String())
	if err != nil {
		return nil
	}
	if err := s.bucket.DeleteContext(ctx, oid); err != nil && !errors.Is(err, gridfs.ErrFileNotFound) {
		return fmt.Errorf("gridfs delete: %w", err)
	}
	return nil
}

func (s *GridFSStore) List(ctx context.Context, olderThan time.Time) ([]models.BlobID, error) {
	cur, err := s.bucket.FindContext(ctx, bson.M{"uploadDate": bson.M{"$lt": olderThan.UTC()}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]models.BlobID, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.BlobID(r.ID.Hex()))
	}
	return out, nil
}
