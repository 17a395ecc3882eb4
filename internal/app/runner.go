package app

import (
	"context"

	"github.com/greggjuri/golf-swing-analyzer/internal/video"
)

// Runner creates a fresh analysis session per video. It is the entry
// point handed to callers that should not manage session lifecycles
// themselves, such as the HTTP layer.
type Runner struct {
	config Config
}

// NewRunner creates a Runner that builds sessions from the given
// configuration.
func NewRunner(config Config) *Runner {
	return &Runner{config: config}
}

// Analyze runs a full analysis session over the video at path. The
// progress callback may be nil.
func (r *Runner) Analyze(ctx context.Context, path string, onProgress func(Progress)) (*Result, error) {
	session, err := NewSession(r.config)
	if err != nil {
		return nil, err
	}
	if onProgress != nil {
		session.OnProgress(onProgress)
	}
	return session.Run(ctx, video.NewFileSource(path))
}
