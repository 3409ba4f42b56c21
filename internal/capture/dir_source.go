package capture

import (
	"context"
	"io"

	"github.com/skywatch-data/debris.report/internal/detect"
)

// DirSource replays a recorded session's PNG frames in capture order,
// one per Next call. It lets the live tracker run against recorded data
// exactly as it would against a camera.
type DirSource struct {
	frames []*detect.Frame
	next   int
}

// NewDirSource loads all frames from dir up front. Loading eagerly
// keeps Next allocation-free and surfaces corrupt frames before the
// session starts.
func NewDirSource(dir string) (*DirSource, error) {
	frames, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}
	return &DirSource{frames: frames}, nil
}

// Next returns the following recorded frame, or io.EOF once the
// recording is exhausted.
func (s *DirSource) Next(ctx context.Context) (*detect.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.next >= len(s.frames) {
		return nil, io.EOF
	}
	f := s.frames[s.next]
	s.next++
	return f, nil
}

// Close implements Source.
func (s *DirSource) Close() error { return nil }

// Len returns the number of recorded frames.
func (s *DirSource) Len() int { return len(s.frames) }
