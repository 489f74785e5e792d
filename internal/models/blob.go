package models

import "time"

// BlobID addresses stored file content. Its format depends on the store.
type BlobID string

func (id BlobID) String() string { return string(id) }

// Blob is an uploaded file as read back from the blob store.
type Blob struct {
	ID          BlobID
	Filename    string
	ContentType string
	Size        int64
	UploadedAt  time.Time
	Data        []byte
}
