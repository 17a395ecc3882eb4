// Package video supplies frames to the analysis pipeline. Sources hand out
// strictly increasing frame numbers with fixed dimensions for the duration
// of a session.
package video

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"gocv.io/x/gocv"
)

// ErrSourceNotOpen is returned when reading from a source that is not
// open.
var ErrSourceNotOpen = errors.New("frame source is not open")

// Frame is one video frame with its position in the stream.
type Frame struct {
	Number    int
	Timestamp float64 // seconds from stream start
	Mat       *gocv.Mat
}

// Close releases the frame's pixel buffer.
func (f *Frame) Close() {
	if f.Mat != nil {
		f.Mat.Close()
		f.Mat = nil
	}
}

// FrameSource defines the interface for sequential frame suppliers.
type FrameSource interface {
	// Open prepares the source for reading.
	Open() error
	// Close releases source resources.
	Close() error
	// Next returns the next frame in increasing frame-number order.
	// The caller owns the returned frame. Returns io.EOF when the
	// stream is exhausted.
	Next() (*Frame, error)
	// FPS reports the source frame rate, or 0 when unknown.
	FPS() float64
}

// fileSource reads frames from a video file using GoCV.
type fileSource struct {
	path    string
	capture *gocv.VideoCapture
	mu      sync.Mutex
	next    int
	fps     float64
}

// NewFileSource creates a FrameSource over a video file.
func NewFileSource(path string) FrameSource {
	return &fileSource{path: path}
}

// Open opens the video file and reads its frame rate.
func (s *fileSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture != nil {
		return nil
	}

	capture, err := gocv.VideoCaptureFile(s.path)
	if err != nil {
		return fmt.Errorf("open video %s: %w", s.path, err)
	}

	s.capture = capture
	s.fps = capture.Get(gocv.VideoCaptureFPS)
	s.next = 0
	return nil
}

// Close closes the video file.
func (s *fileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture == nil {
		return nil
	}
	err := s.capture.Close()
	s.capture = nil
	return err
}

// Next reads the next frame. Returns io.EOF at end of stream.
func (s *fileSource) Next() (*Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture == nil {
		return nil, ErrSourceNotOpen
	}

	mat := gocv.NewMat()
	if ok := s.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, io.EOF
	}

	frame := &Frame{
		Number: s.next,
		Mat:    &mat,
	}
	if s.fps > 0 {
		frame.Timestamp = float64(s.next) / s.fps
	}
	s.next++
	return frame, nil
}

// FPS returns the file's reported frame rate.
func (s *fileSource) FPS() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fps
}
