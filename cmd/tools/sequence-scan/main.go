// sequence-scan runs the batch detection pipeline over a directory of
// recorded PNG frames and writes the resulting detection list.
package main

import (
	"flag"
	"log"
	"path/filepath"

	"github.com/skywatch-data/debris.report/internal/capture"
	"github.com/skywatch-data/debris.report/internal/detect"
	"github.com/skywatch-data/debris.report/internal/session"
)

var (
	framesDir = flag.String("frames", "", "Directory of PNG frames to scan (required)")
	outFile   = flag.String("out", "detections.json", "Output path for the detection list")
	dbFile    = flag.String("db", "", "Optional sqlite store to mirror detections into")
	sessionID = flag.String("session", "", "Session id for the sqlite store (defaults to the frames directory name)")
	sigma     = flag.Float64("sigma", detect.DefaultSigmaThreshold, "Sigma multiplier for the detection threshold")
	eccMin    = flag.Float64("ecc-min", detect.DefaultEccentricityMin, "Minimum eccentricity for a debris streak")
	areaMin   = flag.Int("area-min", detect.DefaultStreakAreaMin, "Minimum pixel area for a debris streak")
)

func main() {
	flag.Parse()

	if *framesDir == "" {
		log.Fatal("-frames directory is required")
	}

	frames, err := capture.LoadDir(*framesDir)
	if err != nil {
		log.Fatalf("failed to load frames: %v", err)
	}
	log.Printf("loaded %d frames from %s", len(frames), *framesDir)

	params := detect.DefaultParams()
	params.SigmaThreshold = *sigma
	params.EccentricityMin = *eccMin
	params.StreakAreaMin = *areaMin

	records, _, err := detect.ProcessSequence(frames, params)
	if err != nil {
		log.Fatalf("detection failed: %v", err)
	}
	log.Printf("found %d debris detections across %d frames", len(records), len(frames))

	if err := session.WriteDetections(*outFile, records); err != nil {
		log.Fatalf("failed to write detections: %v", err)
	}
	log.Printf("wrote %s", *outFile)

	if *dbFile == "" {
		return
	}

	store, err := session.OpenStore(*dbFile)
	if err != nil {
		log.Fatalf("failed to open detection store: %v", err)
	}
	defer store.Close()

	id := *sessionID
	if id == "" {
		id = filepath.Base(filepath.Clean(*framesDir))
	}
	if err := store.RecordSession(session.Metadata{
		SessionID:      id,
		FramesAcquired: len(frames),
	}); err != nil {
		log.Fatalf("failed to record session: %v", err)
	}
	if err := store.RecordDetections(id, records); err != nil {
		log.Fatalf("failed to record detections: %v", err)
	}
	log.Printf("mirrored %d detections into %s (session %s)", len(records), *dbFile, id)
}
