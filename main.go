package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/skywatch-data/debris.report/internal/api"
	"github.com/skywatch-data/debris.report/internal/capture"
	"github.com/skywatch-data/debris.report/internal/detect"
	"github.com/skywatch-data/debris.report/internal/session"
	"github.com/skywatch-data/debris.report/internal/tracker"
	"github.com/skywatch-data/debris.report/internal/version"
)

var (
	devMode    = flag.Bool("dev", false, "Run against the simulated star field instead of a camera")
	listen     = flag.String("listen", ":8080", "Listen address for the control API")
	dataDir    = flag.String("data-dir", "data", "Base directory for session output")
	dbFile     = flag.String("db", "debris_data.db", "Path to the sqlite detection store")
	replayDir  = flag.String("replay", "", "Replay recorded PNG frames from this directory")
	calFrames  = flag.Int("calibration-frames", tracker.DefaultCalibrationFrames, "Frames acquired to build the initial background")
	bufferCap  = flag.Int("buffer", tracker.DefaultBufferCapacity, "Rolling window capacity in frames")
	refresh    = flag.Int("refresh", tracker.DefaultRefreshInterval, "Frames between background rebuilds")
	sigma      = flag.Float64("sigma", detect.DefaultSigmaThreshold, "Sigma multiplier for the detection threshold")
	frameLimit = flag.Int("frames", 0, "Stop after scanning this many frames (0 = run until stopped)")
	note       = flag.String("note", "", "Free-form note recorded in session metadata")
)

func main() {
	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}
	log.Printf("debris tracker %s (%s)", version.Version, version.GitSHA)

	source, resolution, err := openSource()
	if err != nil {
		log.Fatalf("failed to open frame source: %v", err)
	}
	defer source.Close()

	store, err := session.OpenStore(*dbFile)
	if err != nil {
		log.Fatalf("failed to open detection store: %v", err)
	}
	defer store.Close()

	sess, err := session.New(*dataDir, session.Metadata{
		FrameTarget: *frameLimit,
		Resolution:  resolution,
		Note:        *note,
	})
	if err != nil {
		log.Fatalf("failed to create session: %v", err)
	}
	if err := store.RecordSession(sess.Meta); err != nil {
		log.Fatalf("failed to record session: %v", err)
	}
	log.Printf("session %s started (output in %s)", sess.ID, sess.Dir)

	params := tracker.Params{
		CalibrationFrames: *calFrames,
		BufferCapacity:    *bufferCap,
		RefreshInterval:   *refresh,
		Detection:         detect.DefaultParams(),
	}
	params.Detection.SigmaThreshold = *sigma

	t := tracker.New(source, params)
	t.FlushCallback = func(records []detect.Record) error {
		if _, err := sess.SaveDetections(records); err != nil {
			return err
		}
		return store.RecordDetections(sess.ID, records)
	}
	t.OnDebris = func(frameIndex int, f *detect.Frame, debris []detect.Debris) {
		saveFrame(sess, frameIndex, f)
	}
	t.OnSaveFrame = func(frameIndex int, f *detect.Frame) {
		saveFrame(sess, frameIndex, f)
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// tracker loop: calibrate, then scan until stopped
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer stop()
		if *frameLimit > 0 {
			go stopAfter(ctx, t, *frameLimit)
		}
		if err := t.Run(ctx); err != nil {
			log.Printf("tracker error: %v", err)
			return
		}
		st := t.Status()
		log.Printf("tracker stopped: %d frames scanned, %d detections", st.FramesScanned, st.Detections)
	}()

	// HTTP control API goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := api.NewServer(t).ServeMux()
		server := &http.Server{
			Addr:    *listen,
			Handler: mux,
		}

		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}()

	wg.Wait()

	st := t.Status()
	if err := sess.UpdateAcquisition(st.FramesScanned, time.Time{}, time.Time{}); err != nil {
		log.Printf("failed to update session metadata: %v", err)
	}
	if err := store.RecordSession(sess.Meta); err != nil {
		log.Printf("failed to update session record: %v", err)
	}
	log.Printf("Graceful shutdown complete")
}

// openSource picks the frame source: a recorded session replay, the
// simulated star field in dev mode, or (eventually) a camera.
func openSource() (capture.Source, string, error) {
	if *replayDir != "" {
		src, err := capture.NewDirSource(*replayDir)
		if err != nil {
			return nil, "", err
		}
		log.Printf("replaying %d recorded frames from %s", src.Len(), *replayDir)
		return src, "", nil
	}
	if *devMode {
		cfg := capture.DefaultSyntheticConfig()
		cfg.UseWallClock = true
		cfg.LoopStreak = true
		log.Printf("dev mode: simulated %dx%d star field", cfg.Width, cfg.Height)
		return capture.NewSyntheticSource(cfg), fmt.Sprintf("%dx%d", cfg.Width, cfg.Height), nil
	}
	return nil, "", fmt.Errorf("no camera support on this build; use -dev or -replay")
}

func saveFrame(sess *session.Session, frameIndex int, f *detect.Frame) {
	name := fmt.Sprintf("frame_%05d.png", frameIndex)
	if err := capture.SaveFramePNG(filepath.Join(sess.FramesDir, name), f); err != nil {
		log.Printf("failed to save frame %d: %v", frameIndex, err)
	}
}

// stopAfter queues a stop command once the tracker has scanned limit
// frames.
func stopAfter(ctx context.Context, t *tracker.Tracker, limit int) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if t.Status().FramesScanned >= limit {
				if err := t.Command(tracker.CmdStop); err != nil {
					log.Printf("failed to queue stop: %v", err)
				}
				return
			}
		}
	}
}
