package storage

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoockh/volunteerhub/internal/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func gridfsStore(t *testing.T) *GridFSStore {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database("volunteerhub_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	s, err := NewGridFSStore(db, "")
	require.NoError(t, err)
	return s
}

func TestGridFSStoreRoundTrip(t *testing.T) {
	s := gridfsStore(t)
	ctx := context.Background()

	id, err := s.Put(ctx, strings.NewReader("%PDF-1.7 resume"), "ana-cv.pdf", "application/pdf")
	require.NoError(t, err)

	blob, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "ana-cv.pdf", blob.Filename)
	assert.Equal(t, "application/pdf", blob.ContentType)
	assert.EqualValues(t, len("%PDF-1.7 resume"), blob.Size)
	assert.Equal(t, []byte("%PDF-1.7 resume"), blob.Data)

	old, err := s.List(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Contains(t, old, id)

	none, err := s.List(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, s.Delete(ctx, id))
	require.NoError(t, s.Delete(ctx, id), "deleting twice is fine")
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, ErrBlobNotFound)
}

func TestGridFSStoreMalformedID(t *testing.T) {
	s := gridfsStore(t)

	_, err := s.Get(context.Background(), models.BlobID("cv/not-an-oid"))
	assert.ErrorIs(t, err, ErrBlobNotFound)
	assert.NoError(t, s.Delete(context.Background(), models.BlobID("cv/not-an-oid")))
}
