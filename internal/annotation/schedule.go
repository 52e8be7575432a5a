package annotation

import "math"

// DefaultWindowSeconds is how long an annotation stays visible after its
// activation frame.
const DefaultWindowSeconds = 2.0

// Scheduled is an annotation bound to the frame index at which it first
// becomes visible.
type Scheduled struct {
	Annotation
	Frame int
}

// Schedule maps a frame index to the annotations that activate at that
// index, in the order they were received from the detector.
type Schedule map[int][]Scheduled

// ActivationFrame converts a millisecond timestamp to the frame index at
// which it falls: floor(timestamp / 1000 * fps).
func ActivationFrame(timestampMS int64, fps float64) int {
	return int(math.Floor(float64(timestampMS) / 1000.0 * fps))
}

// WindowFrames converts the visibility window duration to a frame count.
// Rounding is fixed here so the eviction boundary is deterministic for any
// fps, including non-integer rates.
func WindowFrames(fps, windowSeconds float64) int {
	return int(math.Round(fps * windowSeconds))
}

// BuildSchedule buckets annotations by activation frame. Timestamps beyond
// the stream's actual length still get a bucket; the frame loop simply never
// visits it.
func BuildSchedule(annotations []Annotation, fps float64) Schedule {
	schedule := make(Schedule, len(annotations))
	for _, ann := range annotations {
		frame := ActivationFrame(ann.Timestamp, fps)
		schedule[frame] = append(schedule[frame], Scheduled{Annotation: ann, Frame: frame})
	}
	return schedule
}
