package session

import (
	"database/sql"
	"fmt"

	"github.com/skywatch-data/debris.report/internal/detect"
	_ "modernc.org/sqlite"
)

// Store mirrors session metadata and detections into sqlite so they
// can be queried across sessions.
type Store struct {
	*sql.DB
}

// OpenStore opens (or creates) the sqlite database at path and ensures
// the schema exists.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			session_id        TEXT PRIMARY KEY,
			started_utc       TEXT,
			fps_target        BIGINT,
			frame_target      BIGINT,
			resolution        TEXT,
			note              TEXT,
			frames_acquired   BIGINT,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS detections (
			session_id        TEXT,
			frame_index       BIGINT,
			frame_timestamp   TEXT,
			centroid_x        DOUBLE,
			centroid_y        DOUBLE,
			area_px           BIGINT,
			eccentricity      DOUBLE,
			orientation_deg   DOUBLE,
			length_px         DOUBLE,
			sigma_threshold   DOUBLE,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(session_id) REFERENCES sessions(session_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db}, nil
}

// RecordSession inserts (or refreshes) the session row.
func (s *Store) RecordSession(meta Metadata) error {
	_, err := s.Exec(`
		INSERT INTO sessions (
			session_id, started_utc, fps_target, frame_target,
			resolution, note, frames_acquired
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			frames_acquired = excluded.frames_acquired`,
		meta.SessionID, meta.StartedUTC, meta.FPSTarget, meta.FrameTarget,
		meta.Resolution, meta.Note, meta.FramesAcquired,
	)
	if err != nil {
		return fmt.Errorf("failed to record session: %v", err)
	}
	return nil
}

// RecordDetections inserts all records for a session in a single
// transaction: either the whole detection list lands or none of it.
func (s *Store) RecordDetections(sessionID string, records []detect.Record) error {
	tx, err := s.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin detection insert: %v", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO detections (
			session_id, frame_index, frame_timestamp,
			centroid_x, centroid_y, area_px,
			eccentricity, orientation_deg, length_px, sigma_threshold
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare detection insert: %v", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(
			sessionID, r.FrameIndex, r.Timestamp,
			r.CentroidX, r.CentroidY, r.AreaPx,
			r.Eccentricity, r.OrientationDeg, r.LengthPx, r.SigmaThreshold,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert detection (frame %d): %v", r.FrameIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit detections: %v", err)
	}
	return nil
}

// Detections returns the stored records for a session ordered by frame
// index.
func (s *Store) Detections(sessionID string) ([]detect.Record, error) {
	rows, err := s.Query(`
		SELECT frame_index, frame_timestamp, centroid_x, centroid_y,
		       area_px, eccentricity, orientation_deg, length_px,
		       sigma_threshold
		FROM detections
		WHERE session_id = ?
		ORDER BY frame_index`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query detections: %v", err)
	}
	defer rows.Close()

	var records []detect.Record
	for rows.Next() {
		var r detect.Record
		if err := rows.Scan(
			&r.FrameIndex, &r.Timestamp, &r.CentroidX, &r.CentroidY,
			&r.AreaPx, &r.Eccentricity, &r.OrientationDeg, &r.LengthPx,
			&r.SigmaThreshold,
		); err != nil {
			return nil, fmt.Errorf("failed to scan detection: %v", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// SessionIDs lists known sessions, newest first.
func (s *Store) SessionIDs() ([]string, error) {
	rows, err := s.Query(`SELECT session_id FROM sessions ORDER BY started_utc DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %v", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %v", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
