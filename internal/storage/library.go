package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// SupportedFormats lists the video extensions the pipeline handles.
var SupportedFormats = []string{".mp4", ".avi", ".mov"}

// RemotePrefix is where source videos live in the blob store.
const RemotePrefix = "videos/"

// Library finds source videos: local directory first, remote store listing
// as fallback. Remote selections are downloaded into the source directory
// before processing.
type Library struct {
	sourceDir string
	remote    BlobStore
}

// NewLibrary returns a Library over sourceDir. remote may be nil for
// local-only setups.
func NewLibrary(sourceDir string, remote BlobStore) *Library {
	return &Library{sourceDir: sourceDir, remote: remote}
}

func supportedFormat(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, supported := range SupportedFormats {
		if ext == supported {
			return true
		}
	}
	return false
}

// ListMediaFiles returns the local video files, or the remote keys under
// RemotePrefix when none exist locally.
func (l *Library) ListMediaFiles(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.sourceDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read source directory: %w", err)
	}

	var local []string
	for _, entry := range entries {
		if !entry.IsDir() && supportedFormat(entry.Name()) {
			local = append(local, entry.Name())
		}
	}
	if len(local) > 0 {
		log.Printf("Found %d files locally.", len(local))
		return local, nil
	}

	if l.remote == nil {
		return nil, nil
	}

	log.Printf("No local videos found. Checking remote store...")
	keys, err := l.remote.List(ctx, RemotePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote store: %w", err)
	}

	var videos []string
	for _, key := range keys {
		if supportedFormat(key) {
			videos = append(videos, key)
		}
	}
	log.Printf("Found %d files in remote store.", len(videos))
	return videos, nil
}

// Resolve returns a local path for a name from ListMediaFiles, downloading
// remote keys into the source directory first.
func (l *Library) Resolve(ctx context.Context, name string) (string, error) {
	localPath := filepath.Join(l.sourceDir, filepath.Base(name))
	if _, err := os.Stat(localPath); err == nil {
		return localPath, nil
	}

	if l.remote == nil || !strings.HasPrefix(strings.ToLower(name), RemotePrefix) {
		return "", fmt.Errorf("video not found: %s", name)
	}

	if err := os.MkdirAll(l.sourceDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create source directory: %w", err)
	}
	if err := l.remote.Download(ctx, name, localPath); err != nil {
		return "", err
	}
	log.Printf("Downloaded %s from remote store.", name)
	return localPath, nil
}
