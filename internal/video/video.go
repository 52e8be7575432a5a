package video

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// ErrSourceUnavailable means the input stream could not be opened or probed.
// Nothing has been written when it is returned.
var ErrSourceUnavailable = errors.New("video source unavailable")

// ErrEncodeFailure means the output sink could not be opened or a write
// failed mid-stream. Partial output is left in place for inspection.
var ErrEncodeFailure = errors.New("video encode failure")

// Geometry holds the stream properties needed for coordinate conversion and
// window arithmetic. Derived once from the input stream, immutable after.
type Geometry struct {
	Width  int
	Height int
	FPS    float64
}

// Source decodes frames from a video file in arrival order.
type Source struct {
	capture *gocv.VideoCapture
	geom    Geometry
}

// OpenSource opens the video at path and probes its geometry.
func OpenSource(path string) (*Source, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open %s: %v", ErrSourceUnavailable, path, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("%w: cannot open %s", ErrSourceUnavailable, path)
	}

	geom := Geometry{
		Width:  int(capture.Get(gocv.VideoCaptureFrameWidth)),
		Height: int(capture.Get(gocv.VideoCaptureFrameHeight)),
		FPS:    capture.Get(gocv.VideoCaptureFPS),
	}
	if geom.Width <= 0 || geom.Height <= 0 || geom.FPS <= 0 {
		capture.Close()
		return nil, fmt.Errorf("%w: invalid geometry %dx%d @ %.2f fps in %s",
			ErrSourceUnavailable, geom.Width, geom.Height, geom.FPS, path)
	}

	return &Source{capture: capture, geom: geom}, nil
}

// Geometry returns the probed stream geometry.
func (s *Source) Geometry() Geometry {
	return s.geom
}

// Read decodes the next frame into dst. It returns false at end of stream.
func (s *Source) Read(dst *gocv.Mat) bool {
	if ok := s.capture.Read(dst); !ok {
		return false
	}
	return !dst.Empty()
}

// Close releases the decoder.
func (s *Source) Close() error {
	return s.capture.Close()
}

// Sink encodes frames to a video file in the order they are written.
type Sink struct {
	writer *gocv.VideoWriter
	path   string
	frames int
}

// CreateSink opens an mp4 writer at path matching the source geometry.
func CreateSink(path string, geom Geometry) (*Sink, error) {
	writer, err := gocv.VideoWriterFile(path, "mp4v", geom.FPS, geom.Width, geom.Height, true)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot create %s: %v", ErrEncodeFailure, path, err)
	}
	if !writer.IsOpened() {
		writer.Close()
		return nil, fmt.Errorf("%w: cannot create %s", ErrEncodeFailure, path)
	}
	return &Sink{writer: writer, path: path}, nil
}

// Write appends one frame to the output stream.
func (s *Sink) Write(frame gocv.Mat) error {
	if err := s.writer.Write(frame); err != nil {
		return fmt.Errorf("%w: write to %s failed after %d frames: %v",
			ErrEncodeFailure, s.path, s.frames, err)
	}
	s.frames++
	return nil
}

// FramesWritten reports how many frames were encoded so far.
func (s *Sink) FramesWritten() int {
	return s.frames
}

// Path returns the output file location.
func (s *Sink) Path() string {
	return s.path
}

// Close flushes and releases the encoder.
func (s *Sink) Close() error {
	return s.writer.Close()
}
