package detect

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/annotation"
)

// FileSource reads a saved detection-results document from disk, for offline
// runs where the job already completed elsewhere.
type FileSource struct {
	path string
}

// NewFileSource returns a Source backed by the JSON results file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Detections loads and flattens the results document. The objectKey argument
// is ignored; the file already identifies the video it describes.
func (fs *FileSource) Detections(ctx context.Context, objectKey string) ([]annotation.RawDetection, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read detection results: %w", err)
	}

	var results LabelResults
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to parse detection results: %w", err)
	}

	return Flatten(&results), nil
}
