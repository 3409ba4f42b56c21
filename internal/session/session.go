// Package session owns the on-disk layout of a capture session —
// directory, metadata, the persisted detections.json — and the sqlite
// store detections are mirrored into.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Metadata describes one capture session. It is written when the
// session is created and updated once the real acquisition figures are
// known.
type Metadata struct {
	SessionID       string  `json:"session_id"`
	StartedUTC      string  `json:"started_utc"`
	FPSTarget       int     `json:"fps_target"`
	DurationSeconds int     `json:"duration_seconds"`
	FrameTarget     int     `json:"frame_target"`
	Resolution      string  `json:"resolution"`
	Note            string  `json:"note"`
	FramesAcquired  int     `json:"frames_acquired,omitempty"`
	FPSActual       float64 `json:"fps_actual,omitempty"`
	DurationActual  float64 `json:"duration_actual_sec,omitempty"`
}

// Session is one capture run's directory tree:
//
//	<base>/<session-id>/
//	    frames/
//	    metadata.json
//	    detections.json
type Session struct {
	ID        string
	Dir       string
	FramesDir string
	Meta      Metadata
}

// New creates the session directory tree under baseDir. The session id
// combines the UTC start time with a short unique suffix so concurrent
// test runs never collide.
func New(baseDir string, meta Metadata) (*Session, error) {
	now := time.Now().UTC()
	id := fmt.Sprintf("%s_%s", now.Format("20060102_150405"), uuid.NewString()[:8])

	dir := filepath.Join(baseDir, id)
	framesDir := filepath.Join(dir, "frames")
	if err := os.MkdirAll(framesDir, 0o755); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	meta.SessionID = id
	meta.StartedUTC = now.Format(time.RFC3339)

	s := &Session{
		ID:        id,
		Dir:       dir,
		FramesDir: framesDir,
		Meta:      meta,
	}
	if err := s.WriteMetadata(); err != nil {
		return nil, err
	}
	return s, nil
}

// WriteMetadata persists the current metadata to metadata.json.
func (s *Session) WriteMetadata() error {
	path := filepath.Join(s.Dir, "metadata.json")
	data, err := json.MarshalIndent(s.Meta, "", "    ")
	if err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// UpdateAcquisition records the actual frame count and timing once the
// acquisition finished, then rewrites metadata.json.
func (s *Session) UpdateAcquisition(framesAcquired int, first, last time.Time) error {
	s.Meta.FramesAcquired = framesAcquired
	if framesAcquired > 1 && last.After(first) {
		d := last.Sub(first).Seconds()
		s.Meta.DurationActual = roundTo(d, 3)
		s.Meta.FPSActual = roundTo(float64(framesAcquired)/d, 2)
	}
	return s.WriteMetadata()
}

func roundTo(v float64, places int) float64 {
	scale := 1.0
	for i := 0; i < places; i++ {
		scale *= 10
	}
	return float64(int64(v*scale+0.5)) / scale
}
