package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/skywatch-data/debris.report/internal/detect"
)

// DetectionsFile is the canonical filename for a session's persisted
// detection list.
const DetectionsFile = "detections.json"

// WriteDetections persists records as a JSON array at path. The write
// is all-or-nothing: content goes to a temp file in the same directory
// and is renamed into place, so a crash mid-write never leaves a
// truncated detections file behind.
func WriteDetections(path string, records []detect.Record) error {
	if records == nil {
		records = []detect.Record{}
	}
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("write detections: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".detections-*.json")
	if err != nil {
		return fmt.Errorf("write detections: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write detections: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write detections: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write detections: %w", err)
	}
	return nil
}

// ReadDetections parses a persisted detections file back into records.
func ReadDetections(path string) ([]detect.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read detections: %w", err)
	}
	var records []detect.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("read detections: parse %s: %w", path, err)
	}
	return records, nil
}

// SaveDetections writes the session's detection list into its
// directory and returns the path.
func (s *Session) SaveDetections(records []detect.Record) (string, error) {
	path := filepath.Join(s.Dir, DetectionsFile)
	if err := WriteDetections(path, records); err != nil {
		return "", err
	}
	return path, nil
}
