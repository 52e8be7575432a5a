package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/annotation"
	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/database"
	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/detect"
	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/models"
	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/overlay"
	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/storage"
)

func main() {
	var (
		videoName   = flag.String("video", "", "Video to process (skips interactive selection)")
		resultsFile = flag.String("results", "", "Saved detection results JSON (skips the remote detection service)")
		threshold   = flag.Float64("threshold", annotation.DefaultConfidenceThreshold, "Minimum detection confidence (0-100)")
		window      = flag.Float64("window", annotation.DefaultWindowSeconds, "Seconds each annotation stays visible")
	)
	flag.Parse()

	sourceDir := getEnv("SOURCE_DIR", "./videos")
	outputDir := getEnv("OUTPUT_DIR", "./annotated")
	storeURL := os.Getenv("STORE_URL")
	detectorURL := os.Getenv("DETECTOR_URL")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Fatal("Failed to create output directory:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var remote storage.BlobStore
	if storeURL != "" {
		remote = storage.NewHTTPBlobStore(storeURL)
	}
	library := storage.NewLibrary(sourceDir, remote)

	name := *videoName
	if name == "" {
		var err error
		name, err = selectVideo(ctx, library)
		if err != nil {
			log.Fatal(err)
		}
	}

	localPath, err := library.Resolve(ctx, name)
	if err != nil {
		log.Fatal("Failed to resolve video:", err)
	}

	var source detect.Source
	objectKey := storage.RemotePrefix + filepath.Base(localPath)

	if *resultsFile != "" {
		source = detect.NewFileSource(*resultsFile)
	} else {
		if detectorURL == "" || remote == nil {
			log.Fatal("Set DETECTOR_URL and STORE_URL, or pass -results with a saved results file")
		}
		if err := remote.Upload(ctx, localPath, objectKey); err != nil {
			log.Fatal("Failed to upload video:", err)
		}
		log.Printf("Uploaded to remote store: %s", objectKey)
		source = detect.NewClient(detectorURL)
	}

	detections, err := source.Detections(ctx, objectKey)
	if err != nil {
		log.Fatal("Detection failed:", err)
	}
	log.Printf("Received %d detections", len(detections))

	annotator := overlay.NewAnnotator(outputDir, *threshold, *window)
	result, err := annotator.Annotate(ctx, localPath, detections)
	if errors.Is(err, overlay.ErrNoQualifyingAnnotations) {
		fmt.Println("No annotations above confidence threshold.")
		return
	}
	if err != nil {
		log.Fatal("Annotation failed:", err)
	}

	recordRun(ctx, name, result, *threshold, *window)
	fmt.Printf("Annotated video saved: %s\n", result.OutputPath)
}

// selectVideo lists available media and asks for a numbered choice.
func selectVideo(ctx context.Context, library *storage.Library) (string, error) {
	files, err := library.ListMediaFiles(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list videos: %w", err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no videos available to process")
	}

	for i, name := range files {
		fmt.Printf("%d. %s\n", i+1, name)
	}
	fmt.Print("Select a video by number: ")

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return "", fmt.Errorf("no selection made")
	}
	choice, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || choice < 1 || choice > len(files) {
		return "", fmt.Errorf("invalid selection")
	}
	return files[choice-1], nil
}

// recordRun persists the run when DB_PATH is configured. Failure to record
// never fails the run itself.
func recordRun(ctx context.Context, videoName string, result *overlay.Result, threshold, window float64) {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		return
	}

	db, err := database.NewDB(database.Config{Path: dbPath})
	if err != nil {
		log.Printf("Warning: failed to open run database: %v", err)
		return
	}
	defer db.Close()

	v := models.NewVideo(videoName, filepath.Base(videoName), "video/mp4", 0)
	if err := database.NewVideoRepository(db).InsertVideo(ctx, v); err != nil {
		log.Printf("Warning: failed to record video: %v", err)
		return
	}

	run := models.NewRun(v.ID, threshold, window)
	run.OutputPath = result.OutputPath
	run.Annotations = result.Annotations
	run.SkippedDetections = result.SkippedDetections
	run.FramesWritten = result.FramesWritten

	if err := database.NewRunRepository(db).InsertRun(ctx, run); err != nil {
		log.Printf("Warning: failed to record run: %v", err)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
