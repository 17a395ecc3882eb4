package video

import (
	"io"
	"sync"

	"gocv.io/x/gocv"
)

// MockSource plays back a pre-built frame sequence for testing.
type MockSource struct {
	frames  []*gocv.Mat
	fps     float64
	index   int
	mu      sync.Mutex
	running bool
}

func NewMockSource(frames []*gocv.Mat, fps float64) *MockSource {
	return &MockSource{
		frames: frames,
		fps:    fps,
	}
}

func (s *MockSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	s.index = 0
	return nil
}

func (s *MockSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	return nil
}

// Next returns a clone of the next stored frame so callers can close it
// without disturbing the sequence.
func (s *MockSource) Next() (*Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil, ErrSourceNotOpen
	}
	if s.index >= len(s.frames) {
		return nil, io.EOF
	}

	clone := s.frames[s.index].Clone()
	frame := &Frame{
		Number: s.index,
		Mat:    &clone,
	}
	if s.fps > 0 {
		frame.Timestamp = float64(s.index) / s.fps
	}
	s.index++
	return frame, nil
}

func (s *MockSource) FPS() float64 {
	return s.fps
}

// Reset restarts playback from the beginning.
func (s *MockSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = 0
}
