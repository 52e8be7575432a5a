package models

import (
	"time"

	"github.com/google/uuid"
)

// Run records one annotation run: which video, what settings, what came out.
type Run struct {
	ID                string
	VideoID           string
	OutputPath        string
	Threshold         float64
	WindowSeconds     float64
	Annotations       int
	SkippedDetections int
	FramesWritten     int
	CreatedAt         time.Time
}

func NewRun(videoID string, threshold, windowSeconds float64) *Run {
	return &Run{
		ID:            uuid.New().String(),
		VideoID:       videoID,
		Threshold:     threshold,
		WindowSeconds: windowSeconds,
		CreatedAt:     time.Now(),
	}
}
