package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/models"
)

type RunRepository struct {
	db *DB
}

func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) InsertRun(ctx context.Context, run *models.Run) error {
	query := `
		INSERT INTO runs (id, video_id, output_path, threshold, window_seconds,
			annotations, skipped_detections, frames_written, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.conn.ExecContext(ctx, query,
		run.ID, run.VideoID, run.OutputPath, run.Threshold, run.WindowSeconds,
		run.Annotations, run.SkippedDetections, run.FramesWritten, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

func (r *RunRepository) GetRunByID(ctx context.Context, id string) (*models.Run, error) {
	query := `
		SELECT id, video_id, output_path, threshold, window_seconds,
			annotations, skipped_detections, frames_written, created_at
		FROM runs WHERE id = ?`

	run := &models.Run{}
	err := r.db.conn.QueryRowContext(ctx, query, id).Scan(
		&run.ID, &run.VideoID, &run.OutputPath, &run.Threshold, &run.WindowSeconds,
		&run.Annotations, &run.SkippedDetections, &run.FramesWritten, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

func (r *RunRepository) ListRuns(ctx context.Context) ([]models.Run, error) {
	query := `
		SELECT id, video_id, output_path, threshold, window_seconds,
			annotations, skipped_detections, frames_written, created_at
		FROM runs ORDER BY created_at DESC`

	rows, err := r.db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		var run models.Run
		if err := rows.Scan(&run.ID, &run.VideoID, &run.OutputPath, &run.Threshold,
			&run.WindowSeconds, &run.Annotations, &run.SkippedDetections,
			&run.FramesWritten, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
