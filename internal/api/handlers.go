package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/annotation"
	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/database"
	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/models"
	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/overlay"
	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/storage"
	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/video"
)

type App struct {
	Storage       storage.Storage
	OutputDir     string
	VideoRepo     *database.VideoRepository
	RunRepo       *database.RunRepository
	MaxUploadSize int64
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type videoResponse struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	UploadTime time.Time `json:"uploadTime"`
}

func toVideoResponse(v *models.Video) videoResponse {
	return videoResponse{
		ID:         v.ID,
		Title:      v.Title,
		Filename:   v.Filename,
		Size:       v.Size,
		UploadTime: v.UploadTime,
	}
}

func (app *App) UploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, app.MaxUploadSize)

	if err := r.ParseMultipartForm(app.MaxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to get file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "video/") && contentType != "application/octet-stream" {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if ext != ".mp4" && ext != ".avi" && ext != ".mov" {
			writeError(w, http.StatusBadRequest, "Only video files are allowed")
			return
		}
		contentType = "video/mp4"
	}

	title := r.FormValue("title")
	if title == "" {
		title = header.Filename
	}

	filename, err := app.Storage.SaveFile(file, storage.FileInfo{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save file")
		return
	}

	v := models.NewVideo(title, filename, contentType, header.Size)
	if err := app.VideoRepo.InsertVideo(r.Context(), v); err != nil {
		app.Storage.DeleteFile(filename)
		writeError(w, http.StatusInternalServerError, "Failed to save video information")
		return
	}

	writeJSON(w, http.StatusCreated, toVideoResponse(v))
}

func (app *App) ListVideosHandler(w http.ResponseWriter, r *http.Request) {
	videos, err := app.VideoRepo.ListVideos(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list videos")
		return
	}

	resp := make([]videoResponse, 0, len(videos))
	for i := range videos {
		resp = append(resp, toVideoResponse(&videos[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

type annotateRequest struct {
	Detections    []annotation.RawDetection `json:"detections"`
	Threshold     float64                   `json:"threshold"`
	WindowSeconds float64                   `json:"windowSeconds"`
}

type runResponse struct {
	ID                string    `json:"id,omitempty"`
	VideoID           string    `json:"videoId"`
	Outcome           string    `json:"outcome"`
	OutputPath        string    `json:"outputPath,omitempty"`
	Annotations       int       `json:"annotations"`
	SkippedDetections int       `json:"skippedDetections"`
	FramesWritten     int       `json:"framesWritten"`
	CreatedAt         time.Time `json:"createdAt,omitempty"`
}

// AnnotateHandler runs the overlay pipeline for a stored video against the
// detections in the request body and records the run.
func (app *App) AnnotateHandler(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "id")

	v, err := app.VideoRepo.GetVideoByID(r.Context(), videoID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Video not found")
		return
	}

	var req annotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	inputPath, err := app.Storage.FilePath(v.Filename)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to resolve video file")
		return
	}

	annotator := overlay.NewAnnotator(app.OutputDir, req.Threshold, req.WindowSeconds)

	result, err := annotator.Annotate(r.Context(), inputPath, req.Detections)
	if errors.Is(err, overlay.ErrNoQualifyingAnnotations) {
		writeJSON(w, http.StatusOK, runResponse{
			VideoID:           v.ID,
			Outcome:           "no_qualifying_annotations",
			SkippedDetections: result.SkippedDetections,
		})
		return
	}
	if errors.Is(err, video.ErrSourceUnavailable) {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Cannot decode video: %v", err))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Annotation failed: %v", err))
		return
	}

	run := models.NewRun(v.ID, req.Threshold, req.WindowSeconds)
	run.OutputPath = result.OutputPath
	run.Annotations = result.Annotations
	run.SkippedDetections = result.SkippedDetections
	run.FramesWritten = result.FramesWritten

	if err := app.RunRepo.InsertRun(r.Context(), run); err != nil {
		log.Printf("Failed to record run %s: %v", run.ID, err)
	}

	writeJSON(w, http.StatusCreated, runResponse{
		ID:                run.ID,
		VideoID:           run.VideoID,
		Outcome:           "annotated",
		OutputPath:        run.OutputPath,
		Annotations:       run.Annotations,
		SkippedDetections: run.SkippedDetections,
		FramesWritten:     run.FramesWritten,
		CreatedAt:         run.CreatedAt,
	})
}

func (app *App) ListRunsHandler(w http.ResponseWriter, r *http.Request) {
	runs, err := app.RunRepo.ListRuns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs")
		return
	}

	resp := make([]runResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, runResponse{
			ID:                run.ID,
			VideoID:           run.VideoID,
			Outcome:           "annotated",
			OutputPath:        run.OutputPath,
			Annotations:       run.Annotations,
			SkippedDetections: run.SkippedDetections,
			FramesWritten:     run.FramesWritten,
			CreatedAt:         run.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
