package storage

import (
	"context"
	"io"
	"time"
)

// StorageProvider is the blob store behind compliance documents. Keys are
// slash-separated paths of the form <kind>/<entityID>/<docType><ext>.
type StorageProvider interface {
	Upload(ctx context.Context, request *UploadRequest) (*UploadResponse, error)
	Download(ctx context.Context, key string) (*DownloadResponse, error)
	Delete(ctx context.Context, key string) error
	FileExists(ctx context.Context, key string) (bool, error)
}

type UploadRequest struct {
	Key         string
	Reader      io.Reader
	ContentType string
	Size        int64
}

type UploadResponse struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// DownloadResponse streams a stored document. The caller owns Reader and
// must close it.
type DownloadResponse struct {
	Reader       io.ReadCloser
	Size         int64
	ContentType  string
	LastModified time.Time
}
