package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/skywatch-data/debris.report/internal/detect"
)

func TestNewSession_CreatesLayout(t *testing.T) {
	base := t.TempDir()
	s, err := New(base, Metadata{
		FPSTarget:   10,
		FrameTarget: 100,
		Resolution:  "640x480",
		Note:        "bench run",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if s.ID == "" {
		t.Fatalf("expected non-empty session id")
	}
	if _, err := os.Stat(s.FramesDir); err != nil {
		t.Fatalf("frames dir missing: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(s.Dir, "metadata.json"))
	if err != nil {
		t.Fatalf("metadata missing: %v", err)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatalf("metadata parse: %v", err)
	}
	if meta.SessionID != s.ID {
		t.Fatalf("metadata session id %q != %q", meta.SessionID, s.ID)
	}
	if meta.Note != "bench run" {
		t.Fatalf("metadata note = %q", meta.Note)
	}
	if _, err := time.Parse(time.RFC3339, meta.StartedUTC); err != nil {
		t.Fatalf("started_utc not RFC3339: %v", err)
	}
}

func TestSession_UpdateAcquisition(t *testing.T) {
	s, err := New(t.TempDir(), Metadata{FrameTarget: 50})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	last := first.Add(5 * time.Second)
	if err := s.UpdateAcquisition(50, first, last); err != nil {
		t.Fatalf("UpdateAcquisition: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(s.Dir, "metadata.json"))
	if err != nil {
		t.Fatalf("metadata read: %v", err)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatalf("metadata parse: %v", err)
	}
	if meta.FramesAcquired != 50 {
		t.Fatalf("frames_acquired = %d", meta.FramesAcquired)
	}
	if meta.FPSActual != 10 {
		t.Fatalf("fps_actual = %v", meta.FPSActual)
	}
}

func sampleRecords() []detect.Record {
	return []detect.Record{
		{
			FrameIndex:     3,
			Timestamp:      "frame_0003",
			CentroidX:      84.99,
			CentroidY:      220.12,
			AreaPx:         70,
			Eccentricity:   0.9999,
			OrientationDeg: -90,
			LengthPx:       80.83,
			SigmaThreshold: 12.346,
		},
		{
			FrameIndex:     4,
			Timestamp:      "2026-03-01T12:00:00Z",
			CentroidX:      92.99,
			CentroidY:      220.12,
			AreaPx:         70,
			Eccentricity:   0.9999,
			OrientationDeg: -90,
			LengthPx:       80.83,
			SigmaThreshold: 12.346,
		},
	}
}

// Records survive a persist/reload cycle bit-exact: rounding happens at
// construction, so the JSON layer never changes a value.
func TestDetections_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DetectionsFile)
	want := sampleRecords()

	if err := WriteDetections(path, want); err != nil {
		t.Fatalf("WriteDetections: %v", err)
	}
	got, err := ReadDetections(path)
	if err != nil {
		t.Fatalf("ReadDetections: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteDetections_EmptyListIsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), DetectionsFile)
	if err := WriteDetections(path, nil); err != nil {
		t.Fatalf("WriteDetections: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var records []detect.Record
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Fatalf("expected empty JSON array, got %q", data)
	}
}

func TestWriteDetections_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DetectionsFile)
	if err := WriteDetections(path, sampleRecords()); err != nil {
		t.Fatalf("WriteDetections: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != DetectionsFile {
		t.Fatalf("expected only %s in dir, got %v", DetectionsFile, entries)
	}
}
