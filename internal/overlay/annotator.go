package overlay

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gocv.io/x/gocv"

	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/annotation"
	"github.com/Sathvik-Srivathsan/Video-Analyser-and-In-video-Annotation/internal/video"
)

// ErrNoQualifyingAnnotations means filtering left zero annotations. It is a
// normal terminal outcome, not a processing failure: no output file is
// created and no stream is opened.
var ErrNoQualifyingAnnotations = errors.New("no annotations above confidence threshold")

// Annotator runs the single pipeline operation: annotate a video with a set
// of detections and write the result next to prior runs without overwriting
// them. It holds no state between invocations.
type Annotator struct {
	outputDir     string
	threshold     float64
	windowSeconds float64
}

// Result describes a completed (or cancelled) run.
type Result struct {
	OutputPath        string
	FramesRead        int
	FramesWritten     int
	Annotations       int
	SkippedDetections int
}

// NewAnnotator returns an Annotator writing into outputDir. Non-positive
// threshold or window fall back to the documented defaults (50.0, 2.0s).
func NewAnnotator(outputDir string, threshold, windowSeconds float64) *Annotator {
	if threshold <= 0 {
		threshold = annotation.DefaultConfidenceThreshold
	}
	if windowSeconds <= 0 {
		windowSeconds = annotation.DefaultWindowSeconds
	}
	return &Annotator{
		outputDir:     outputDir,
		threshold:     threshold,
		windowSeconds: windowSeconds,
	}
}

// Annotate overlays detections onto the video at inputPath and returns the
// output location. Frames are decoded, annotated and encoded one at a time
// in strict sequence; the output always has exactly one frame per decoded
// input frame.
//
// Cancelling ctx stops the loop between frames; the partial output written
// so far is left in place and is a valid truncated video. Encode failures
// likewise leave partial output in place for the caller to inspect.
func (a *Annotator) Annotate(ctx context.Context, inputPath string, detections []annotation.RawDetection) (*Result, error) {
	filtered, skipped := annotation.Filter(detections, a.threshold)
	if skipped > 0 {
		log.Printf("Skipped %d detections with invalid timestamps", skipped)
	}
	if len(filtered) == 0 {
		return &Result{SkippedDetections: skipped}, ErrNoQualifyingAnnotations
	}

	src, err := video.OpenSource(inputPath)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	geom := src.Geometry()
	schedule := annotation.BuildSchedule(filtered, geom.FPS)
	active := annotation.NewActiveSet(schedule, annotation.WindowFrames(geom.FPS, a.windowSeconds))

	sink, err := video.CreateSink(video.UniqueOutputPath(a.outputDir, inputPath), geom)
	if err != nil {
		return nil, err
	}
	defer sink.Close()

	result := &Result{
		OutputPath:        sink.Path(),
		Annotations:       len(filtered),
		SkippedDetections: skipped,
	}

	frame := gocv.NewMat()
	defer frame.Close()

	for idx := 0; ; idx++ {
		if err := ctx.Err(); err != nil {
			result.FramesWritten = sink.FramesWritten()
			return result, err
		}
		if !src.Read(&frame) {
			break
		}
		result.FramesRead++

		DrawActive(&frame, geom, active.Advance(idx))

		if err := sink.Write(frame); err != nil {
			result.FramesWritten = sink.FramesWritten()
			return result, err
		}
	}

	result.FramesWritten = sink.FramesWritten()
	if result.FramesWritten != result.FramesRead {
		return result, fmt.Errorf("%w: decoded %d frames but encoded %d",
			video.ErrEncodeFailure, result.FramesRead, result.FramesWritten)
	}

	log.Printf("Annotated video saved: %s (%d frames, %d annotations)",
		result.OutputPath, result.FramesWritten, result.Annotations)
	return result, nil
}
