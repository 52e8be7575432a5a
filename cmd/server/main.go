package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/api"
	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/database"
	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/storage"
)

func main() {
	port := getEnv("PORT", "8080")

	maxSize, err := strconv.ParseInt(getEnv("MAX_UPLOAD_SIZE", "104857600"), 10, 64)
	if err != nil {
		log.Fatal("Invalid MAX_UPLOAD_SIZE:", err)
	}

	uploadDir := getEnv("UPLOAD_DIR", "./uploads")
	outputDir := getEnv("OUTPUT_DIR", "./annotated")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Fatal("Failed to create output directory:", err)
	}

	localStorage, err := storage.NewLocalStorage(uploadDir)
	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}

	db, err := database.NewDB(database.Config{
		Path: getEnv("DB_PATH", "./annotator.db"),
	})
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	app := &api.App{
		Storage:       localStorage,
		OutputDir:     outputDir,
		VideoRepo:     database.NewVideoRepository(db),
		RunRepo:       database.NewRunRepository(db),
		MaxUploadSize: maxSize,
	}

	router := api.NewRouter(app)

	log.Printf("Server starting on port %s", port)
	log.Printf("Upload directory: %s", uploadDir)
	log.Printf("Output directory: %s", outputDir)
	log.Printf("Max upload size: %d bytes", maxSize)

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatal(err)
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
