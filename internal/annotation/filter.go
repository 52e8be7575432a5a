package annotation

// DefaultConfidenceThreshold is the mid-range threshold used when the caller
// does not supply one.
const DefaultConfidenceThreshold = 50.0

// Filter returns the detections whose confidence meets the threshold,
// converted to canonical Annotations, preserving input order. The boundary is
// inclusive: confidence exactly at the threshold passes.
//
// Detections missing a bounding box or timestamp are excluded without error.
// Detections with a negative timestamp are also excluded; the second return
// value counts those so callers can report how many records were rejected.
func Filter(raw []RawDetection, threshold float64) ([]Annotation, int) {
	filtered := make([]Annotation, 0, len(raw))
	skipped := 0

	for _, det := range raw {
		if det.Box == nil || det.Timestamp == nil {
			continue
		}
		if *det.Timestamp < 0 {
			skipped++
			continue
		}
		if det.Confidence < threshold {
			continue
		}
		filtered = append(filtered, Annotation{
			Name:       det.Name,
			Confidence: det.Confidence,
			Timestamp:  *det.Timestamp,
			Box:        *det.Box,
		})
	}

	return filtered, skipped
}
