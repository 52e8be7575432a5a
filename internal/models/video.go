package models

import (
	"time"

	"github.com/google/uuid"
)

// Video is an uploaded source video tracked by the service.
type Video struct {
	ID          string
	Title       string
	Filename    string
	ContentType string
	Size        int64
	UploadTime  time.Time
}

func NewVideo(title, filename, contentType string, size int64) *Video {
	return &Video{
		ID:          uuid.New().String(),
		Title:       title,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		UploadTime:  time.Now(),
	}
}
