package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skywatch-data/debris.report/internal/detect"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "debris.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_RecordAndQueryDetections(t *testing.T) {
	store := openTestStore(t)

	meta := Metadata{
		SessionID:   "20260301_120000_abcd1234",
		StartedUTC:  "2026-03-01T12:00:00Z",
		FPSTarget:   10,
		FrameTarget: 100,
		Resolution:  "640x480",
	}
	require.NoError(t, store.RecordSession(meta))

	want := sampleRecords()
	require.NoError(t, store.RecordDetections(meta.SessionID, want))

	got, err := store.Detections(meta.SessionID)
	require.NoError(t, err)
	require.Equal(t, want, got)

	ids, err := store.SessionIDs()
	require.NoError(t, err)
	require.Equal(t, []string{meta.SessionID}, ids)
}

func TestStore_DetectionsOrderedByFrame(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.RecordSession(Metadata{SessionID: "s1"}))

	recs := sampleRecords()
	require.NoError(t, store.RecordDetections("s1", []detect.Record{recs[1], recs[0]}))

	got, err := store.Detections("s1")
	require.NoError(t, err)
	require.Equal(t, []detect.Record{recs[0], recs[1]}, got)
}

func TestStore_RecordSessionIsIdempotent(t *testing.T) {
	store := openTestStore(t)

	meta := Metadata{SessionID: "s1", FramesAcquired: 0}
	require.NoError(t, store.RecordSession(meta))
	meta.FramesAcquired = 120
	require.NoError(t, store.RecordSession(meta))

	ids, err := store.SessionIDs()
	require.NoError(t, err)
	require.Len(t, ids, 1)
}

func TestStore_EmptySessionHasNoDetections(t *testing.T) {
	store := openTestStore(t)
	got, err := store.Detections("missing")
	require.NoError(t, err)
	require.Empty(t, got)
}
