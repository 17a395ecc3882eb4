package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/greggjuri/golf-swing-analyzer/internal/detect"
	"github.com/greggjuri/golf-swing-analyzer/internal/video"
)

// FrameDetection pairs one frame's detection result with the frame's
// stream metadata.
type FrameDetection struct {
	Result    detect.DetectionResult
	Timestamp float64
	Width     int
	Height    int
}

// Pipeline fans per-frame detection out to a worker pool while keeping
// the downstream consumer strictly frame-ordered. The tracker depends on
// seeing frames in order, so results are buffered and released in frame
// number sequence no matter which worker finishes first.
type Pipeline struct {
	workers     int
	newDetector func() (detect.Detector, error)
	gate        *video.MotionDetector
}

// NewPipeline creates a Pipeline. Each worker gets its own detector from
// the factory so detectors never need to be goroutine safe.
func NewPipeline(workers int, newDetector func() (detect.Detector, error)) (*Pipeline, error) {
	if workers < 1 {
		return nil, fmt.Errorf("pipeline needs at least 1 worker, got %d", workers)
	}
	if newDetector == nil {
		return nil, errors.New("pipeline needs a detector factory")
	}
	return &Pipeline{workers: workers, newDetector: newDetector}, nil
}

// SetActivityGate installs a motion detector that drops leading frames
// until swing activity appears. Forwarded frames are renumbered from
// zero at the first active frame.
func (p *Pipeline) SetActivityGate(gate *video.MotionDetector) {
	p.gate = gate
}

// Run drains the source, detecting frames in parallel, and calls emit
// exactly once per frame in frame-number order. A detection error on a
// single frame is logged and emitted as an empty result rather than
// aborting the run. Returns the first source or context error.
func (p *Pipeline) Run(ctx context.Context, source video.FrameSource, emit func(FrameDetection)) error {
	detectors := make([]detect.Detector, 0, p.workers)
	for i := 0; i < p.workers; i++ {
		d, err := p.newDetector()
		if err != nil {
			for _, open := range detectors {
				open.Close()
			}
			return fmt.Errorf("create detector: %w", err)
		}
		detectors = append(detectors, d)
	}

	frames := make(chan *video.Frame, p.workers)
	results := make(chan frameJob, p.workers)
	readErr := make(chan error, 1)

	// Reader: pulls frames until EOF or cancellation. Motion gating and
	// renumbering happen here because frame differencing is inherently
	// sequential.
	go func() {
		defer close(frames)
		waiting := p.gate != nil
		forwarded := 0
		for {
			frame, err := source.Next()
			if err != nil {
				if errors.Is(err, io.EOF) {
					readErr <- nil
				} else {
					readErr <- err
				}
				return
			}
			if waiting {
				if triggered, _ := p.gate.Detect(frame.Mat); !triggered {
					frame.Close()
					continue
				}
				waiting = false
			}
			if p.gate != nil {
				frame.Number = forwarded
				forwarded++
			}
			select {
			case frames <- frame:
			case <-ctx.Done():
				frame.Close()
				readErr <- ctx.Err()
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for _, d := range detectors {
		wg.Add(1)
		go func(d detect.Detector) {
			defer wg.Done()
			defer d.Close()
			for frame := range frames {
				job := frameJob{
					number:    frame.Number,
					timestamp: frame.Timestamp,
					width:     frame.Mat.Cols(),
					height:    frame.Mat.Rows(),
				}
				job.result, job.err = d.Detect(frame.Mat)
				job.result.FrameNumber = frame.Number
				frame.Close()
				results <- job
			}
		}(d)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// Reorder: hold completed jobs until every earlier frame has been
	// emitted. Sources number frames contiguously from zero.
	pending := make(map[int]frameJob)
	next := 0
	for job := range results {
		pending[job.number] = job
		for {
			ready, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			p.emitJob(ready, emit)
			next++
		}
	}

	return <-readErr
}

func (p *Pipeline) emitJob(job frameJob, emit func(FrameDetection)) {
	if job.err != nil {
		log.Printf("Frame %d detection failed: %v", job.number, job.err)
		job.result = detect.DetectionResult{FrameNumber: job.number}
	}
	emit(FrameDetection{
		Result:    job.result,
		Timestamp: job.timestamp,
		Width:     job.width,
		Height:    job.height,
	})
}

type frameJob struct {
	number    int
	timestamp float64
	width     int
	height    int
	result    detect.DetectionResult
	err       error
}
