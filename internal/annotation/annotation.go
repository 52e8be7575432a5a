package annotation

// BoundingBox is a normalized box: each coordinate is a fraction of the
// frame dimension in [0,1].
type BoundingBox struct {
	Left   float64 `json:"Left"`
	Top    float64 `json:"Top"`
	Width  float64 `json:"Width"`
	Height float64 `json:"Height"`
}

// RawDetection is a single detection instance as produced by the external
// detector. Timestamp is milliseconds from stream start. Timestamp and Box
// are pointers because the detector may omit them for some instances.
type RawDetection struct {
	Name       string       `json:"Name"`
	Confidence float64      `json:"Confidence"`
	Timestamp  *int64       `json:"Timestamp"`
	Box        *BoundingBox `json:"BoundingBox"`
}

// Annotation is a filtered, canonical detection record ready for scheduling.
// It is never mutated after creation.
type Annotation struct {
	Name       string
	Confidence float64
	Timestamp  int64
	Box        BoundingBox
}
