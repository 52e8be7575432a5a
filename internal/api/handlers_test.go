package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/database"
	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/models"
	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/storage"
)

func testApp(t *testing.T) *App {
	t.Helper()

	localStorage, err := storage.NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	db, err := database.NewDB(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &App{
		Storage:       localStorage,
		OutputDir:     t.TempDir(),
		VideoRepo:     database.NewVideoRepository(db),
		RunRepo:       database.NewRunRepository(db),
		MaxUploadSize: 10 << 20,
	}
}

func uploadVideo(t *testing.T, router http.Handler, filename string) videoResponse {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("video", filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("not a real video"))
	writer.WriteField("title", "Test clip")
	writer.Close()

	req := httptest.NewRequest("POST", "/api/videos", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("upload returned status %d: %s", rec.Code, rec.Body.String())
	}

	var resp videoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode upload response: %v", err)
	}
	return resp
}

func TestPing(t *testing.T) {
	router := NewRouter(testApp(t))

	req := httptest.NewRequest("GET", "/ping", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Errorf("unexpected ping response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestUploadAndListVideos(t *testing.T) {
	router := NewRouter(testApp(t))

	uploaded := uploadVideo(t, router, "clip.mp4")
	if uploaded.Title != "Test clip" {
		t.Errorf("unexpected title: %s", uploaded.Title)
	}
	if filepath.Ext(uploaded.Filename) != ".mp4" {
		t.Errorf("unexpected stored filename: %s", uploaded.Filename)
	}

	req := httptest.NewRequest("GET", "/api/videos", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("list returned status %d", rec.Code)
	}
	var videos []videoResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &videos); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	if len(videos) != 1 || videos[0].ID != uploaded.ID {
		t.Errorf("unexpected video list: %+v", videos)
	}
}

func TestUploadRejectsNonVideo(t *testing.T) {
	router := NewRouter(testApp(t))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, _ := writer.CreateFormFile("video", "notes.txt")
	part.Write([]byte("text"))
	writer.Close()

	req := httptest.NewRequest("POST", "/api/videos", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-video upload, got %d", rec.Code)
	}
}

func TestAnnotateNoQualifyingDetections(t *testing.T) {
	router := NewRouter(testApp(t))
	uploaded := uploadVideo(t, router, "clip.mp4")

	// Every detection is below threshold, so the pipeline must stop before
	// it ever tries to decode the (fake) video file.
	reqBody := `{
		"threshold": 50.0,
		"detections": [
			{"Name": "dog", "Confidence": 10.0, "Timestamp": 0,
			 "BoundingBox": {"Left": 0.1, "Top": 0.1, "Width": 0.2, "Height": 0.2}}
		]
	}`

	req := httptest.NewRequest("POST", "/api/videos/"+uploaded.ID+"/runs", bytes.NewBufferString(reqBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp runResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Outcome != "no_qualifying_annotations" {
		t.Errorf("expected no_qualifying_annotations outcome, got %s", resp.Outcome)
	}
	if resp.OutputPath != "" {
		t.Errorf("expected no output path, got %s", resp.OutputPath)
	}
}

func TestAnnotateUndecodableVideo(t *testing.T) {
	router := NewRouter(testApp(t))
	uploaded := uploadVideo(t, router, "clip.mp4")

	// The stored file is not a real video, so decode must fail with a
	// source error once a qualifying detection forces the pipeline to run.
	reqBody := `{
		"detections": [
			{"Name": "dog", "Confidence": 90.0, "Timestamp": 0,
			 "BoundingBox": {"Left": 0.1, "Top": 0.1, "Width": 0.2, "Height": 0.2}}
		]
	}`

	req := httptest.NewRequest("POST", "/api/videos/"+uploaded.ID+"/runs", bytes.NewBufferString(reqBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for undecodable video, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAnnotateRejectsTraversalFilename(t *testing.T) {
	app := testApp(t)
	router := NewRouter(app)

	// A record whose stored filename escapes the upload directory must be
	// refused by the storage layer, not handed to the decoder.
	v := models.NewVideo("bad", "../../etc/passwd", "video/mp4", 1)
	if err := app.VideoRepo.InsertVideo(context.Background(), v); err != nil {
		t.Fatalf("failed to insert video: %v", err)
	}

	reqBody := `{
		"detections": [
			{"Name": "dog", "Confidence": 90.0, "Timestamp": 0,
			 "BoundingBox": {"Left": 0.1, "Top": 0.1, "Width": 0.2, "Height": 0.2}}
		]
	}`

	req := httptest.NewRequest("POST", "/api/videos/"+v.ID+"/runs", bytes.NewBufferString(reqBody))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for traversal filename, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAnnotateUnknownVideo(t *testing.T) {
	router := NewRouter(testApp(t))

	req := httptest.NewRequest("POST", "/api/videos/unknown/runs", bytes.NewBufferString(`{"detections":[]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown video, got %d", rec.Code)
	}
}

func TestListRunsEmpty(t *testing.T) {
	router := NewRouter(testApp(t))

	req := httptest.NewRequest("GET", "/api/runs", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var runs []runResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &runs); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
