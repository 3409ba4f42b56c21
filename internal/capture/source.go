// Package capture supplies frames to the detection pipeline. The real
// camera lives behind the Source interface; the package ships a
// synthetic star-field source for dev/test runs and a directory source
// that replays recorded PNG sessions.
package capture

import (
	"context"

	"github.com/skywatch-data/debris.report/internal/detect"
)

// Source produces same-resolution grayscale frames one at a time. Next
// blocks until a frame is available; it returns io.EOF when a finite
// source is exhausted, and any other error is fatal to the session loop
// (there is no safe partial state to resume from mid-frame).
type Source interface {
	Next(ctx context.Context) (*detect.Frame, error)
	Close() error
}
