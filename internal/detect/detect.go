package detect

import (
	"context"

	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/annotation"
)

// Source supplies the completed detection results for a stored video object.
// Implementations own all transport and credential concerns; by the time
// Detections returns, every record is resolved in memory.
type Source interface {
	Detections(ctx context.Context, objectKey string) ([]annotation.RawDetection, error)
}

// LabelResults is the detector's result document: per-timestamp label
// entries, each with zero or more located instances.
type LabelResults struct {
	JobStatus string       `json:"JobStatus"`
	Labels    []LabelEntry `json:"Labels"`
}

// LabelEntry is one label observation at one timestamp.
type LabelEntry struct {
	Timestamp *int64      `json:"Timestamp"`
	Label     LabelDetail `json:"Label"`
}

// LabelDetail carries the label name and its bounding-box instances.
type LabelDetail struct {
	Name      string          `json:"Name"`
	Instances []LabelInstance `json:"Instances"`
}

// LabelInstance is one located occurrence of a label.
type LabelInstance struct {
	Confidence  float64                 `json:"Confidence"`
	BoundingBox *annotation.BoundingBox `json:"BoundingBox"`
}

// Flatten expands the nested result document into one RawDetection per label
// instance, preserving the detector's output order. Entries without
// instances contribute nothing; instance fields are passed through as-is so
// the filter stage decides what qualifies.
func Flatten(results *LabelResults) []annotation.RawDetection {
	var detections []annotation.RawDetection
	for _, entry := range results.Labels {
		for _, instance := range entry.Label.Instances {
			detections = append(detections, annotation.RawDetection{
				Name:       entry.Label.Name,
				Confidence: instance.Confidence,
				Timestamp:  entry.Timestamp,
				Box:        instance.BoundingBox,
			})
		}
	}
	return detections
}
