package storage

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/volunteerhub/internal/models"
)

// MemoryStore is a process-local BlobStore for development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[models.BlobID]models.Blob
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[models.BlobID]models.Blob),
		now:   time.Now,
	}
}

func (s *MemoryStore) Put(ctx context.Context, r io.Reader, filename, contentType string) (models.BlobID, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	id := models.BlobID(uuid.NewString())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[id] = models.Blob{
		ID:          id,
		Filename:    filename,
		ContentType: contentTypeOr(contentType),
		Size:        int64(len(data)),
		UploadedAt:  s.now().UTC(),
		Data:        data,
	}
	return id, nil
}

func (s *MemoryStore) Get(ctx context.Context, id models.BlobID) (*models.Blob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[id]
	if !ok {
		return nil, ErrBlobNotFound
	}
	b.Data = append([]byte(nil), b.Data...)
	return &b, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id models.BlobID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, olderThan time.Time) ([]models.BlobID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.BlobID
	for id, b := range s.blobs {
		if b.UploadedAt.Before(olderThan) {
			out = append(out, id)
		}
	}
	return out, nil
}

// Len reports how many blobs are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
