package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/yoockh/volunteerhub/internal/models"
	"github.com/yoockh/volunteerhub/internal/utils"
)

// BlobStore keeps uploaded files apart from volunteer records. Put always
// creates new content; there is no overwrite.
type BlobStore interface {
	Put(ctx context.Context, r io.Reader, filename, contentType string) (models.BlobID, error)
	Get(ctx context.Context, id models.BlobID) (*models.Blob, error)
	Delete(ctx context.Context, id models.BlobID) error
	// List returns blobs uploaded before olderThan.
	List(ctx context.Context, olderThan time.Time) ([]models.BlobID, error)
}

// ErrBlobNotFound matches errors.Is(err, utils.ErrNotFound) as well.
var ErrBlobNotFound = fmt.Errorf("blob %w", utils.ErrNotFound)

const defaultContentType = "application/octet-stream"

func contentTypeOr(ct string) string {
	if ct == "" {
		return defaultContentType
	}
	return ct
}
