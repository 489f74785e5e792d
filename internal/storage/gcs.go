package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/yoockh/volunteerhub/internal/models"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const gcsPrefix = "cv/"

// GCSStore keeps CVs as private objects under cv/ in a single bucket.
type GCSStore struct {
	client *gcs.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket, credentialsFile string) (*GCSStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	return newGCSStore(ctx, bucket, opts...)
}

func newGCSStore(ctx context.Context, bucket string, opts ...option.ClientOption) (*GCSStore, error) {
	c, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GCSStore{client: c, bucket: bucket}, nil
}

func (s *GCSStore) Close() error { return s.client.Close() }

func (s *GCSStore) Put(ctx context.Context, r io.Reader, filename, contentType string) (models.BlobID, error) {
	objectName := gcsPrefix + uuid.NewString()
	obj := s.client.Bucket(s.bucket).Object(objectName).If(gcs.Conditions{DoesNotExist: true})

	// canceling the writer's context before Close aborts the upload;
	// closing normally would commit whatever was copied so far
	uctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := obj.NewWriter(uctx)
	w.ContentType = contentTypeOr(contentType)
	w.Metadata = map[string]string{"filename": filename}

	if _, err := io.Copy(w, r); err != nil {
		cancel()
		_ = w.Close()
		return "", fmt.Errorf("gcs upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs upload: %w", err)
	}
	return models.BlobID(objectName), nil
}

func (s *GCSStore) Get(ctx context.Context, id models.BlobID) (*models.Blob, error) {
	if !strings.HasPrefix(id.String(), gcsPrefix) {
		return nil, ErrBlobNotFound
	}
	obj := s.client.Bucket(s.bucket).Object(id.String())

	attrs, err := obj.Attrs(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("gcs attrs: %w", err)
	}

	rd, err := obj.NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("gcs open: %w", err)
	}
	defer rd.Close()

	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("gcs read: %w", err)
	}

	return &models.Blob{
		ID:          id,
		Filename:    attrs.Metadata["filename"],
		ContentType: contentTypeOr(attrs.ContentType),
		Size:        attrs.Size,
		UploadedAt:  attrs.Created,
		Data:        data,
	}, nil
}

func (s *GCSStore) Delete(ctx context.Context, id models.BlobID) error {
	err := s.client.Bucket(s.bucket).Object(id.String()).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("gcs delete: %w", err)
	}
	return nil
}

func (s *GCSStore) List(ctx context.Context, olderThan time.Time) ([]models.BlobID, error) {
	it := s.client.Bucket(s.bucket).Objects(ctx, &gcs.Query{Prefix: gcsPrefix})
	var out []models.BlobID
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		if attrs.Created.Before(olderThan) {
			out = append(out, models.BlobID(attrs.Name))
		}
	}
	return out, nil
}
