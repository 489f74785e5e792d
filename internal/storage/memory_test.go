package storage

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/volunteerhub/internal/models"
	"github.com/yoockh/volunteerhub/internal/utils"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	data := []byte("%PDF-1.4 fake cv")
	id, err := s.Put(ctx, bytes.NewReader(data), "cv.pdf", "application/pdf")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	b, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, data, b.Data)
	assert.Equal(t, "cv.pdf", b.Filename)
	assert.Equal(t, "application/pdf", b.ContentType)
	assert.EqualValues(t, len(data), b.Size)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, ErrBlobNotFound)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	// deleting twice is not an error
	assert.NoError(t, s.Delete(ctx, id))
}

func TestMemoryStoreDefaultContentType(t *testing.T) {
	s := NewMemoryStore()
	id, err := s.Put(context.Background(), bytes.NewReader(nil), "empty", "")
	require.NoError(t, err)

	b, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", b.ContentType)
}

func TestMemoryStoreListOlderThan(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return base }
	old, err := s.Put(ctx, bytes.NewReader([]byte("a")), "a", "")
	require.NoError(t, err)

	s.now = func() time.Time { return base.Add(2 * time.Hour) }
	_, err = s.Put(ctx, bytes.NewReader([]byte("b")), "b", "")
	require.NoError(t, err)

	ids, err := s.List(ctx, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []models.BlobID{old}, ids)
}
