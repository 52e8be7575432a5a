package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

// HTTPBlobStore talks to an object-store gateway over plain HTTP: PUT to
// upload, GET to download, and a JSON listing endpoint. The detection
// service reads objects from the same store by key.
type HTTPBlobStore struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPBlobStore(baseURL string) *HTTPBlobStore {
	return &HTTPBlobStore{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// Keys may contain slashes ("videos/clip.mp4") and map directly onto the
// object path.
func (s *HTTPBlobStore) objectURL(key string) string {
	return s.baseURL + "/objects/" + key
}

func (s *HTTPBlobStore) Upload(ctx context.Context, localPath, key string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", localPath, err)
	}

	req, err := http.NewRequestWithContext(ctx, "PUT", s.objectURL(key), file)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.ContentLength = stat.Size()
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("upload of %s returned status %d", key, resp.StatusCode)
	}
	return nil
}

type listResponse struct {
	Objects []struct {
		Key string `json:"key"`
	} `json:"objects"`
}

func (s *HTTPBlobStore) List(ctx context.Context, prefix string) ([]string, error) {
	listURL := fmt.Sprintf("%s/objects?prefix=%s", s.baseURL, url.QueryEscape(prefix))
	req, err := http.NewRequestWithContext(ctx, "GET", listURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing returned status %d", resp.StatusCode)
	}

	var listed listResponse
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %w", err)
	}

	keys := make([]string, 0, len(listed.Objects))
	for _, obj := range listed.Objects {
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

func (s *HTTPBlobStore) Download(ctx context.Context, key, localPath string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", s.objectURL(key), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download of %s returned status %d", key, resp.StatusCode)
	}

	dst, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", localPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, resp.Body); err != nil {
		os.Remove(localPath)
		return fmt.Errorf("failed to write %s: %w", localPath, err)
	}
	return nil
}
