package storage

import (
	"context"
	"io"
)

// FileInfo describes an incoming video file.
type FileInfo struct {
	Filename    string
	ContentType string
	Size        int64
}

// Storage persists uploaded source videos. FilePath resolves a stored name
// to a location on disk, since the video decoder opens files itself.
type Storage interface {
	SaveFile(file io.Reader, info FileInfo) (string, error)
	OpenFile(path string) (io.ReadSeekCloser, error)
	DeleteFile(path string) error
	FilePath(path string) (string, error)
}

// BlobStore is a remote object store holding videos for the detection
// service, keyed under a prefix such as "videos/". It is the upload target
// before a detection job and the fallback listing source when no local media
// is present.
type BlobStore interface {
	Upload(ctx context.Context, localPath, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
	Download(ctx context.Context, key, localPath string) error
}
