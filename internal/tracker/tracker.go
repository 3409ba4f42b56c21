// Package tracker runs the live detection loop: calibrate a background
// from an initial capture run, then scan incoming frames against it,
// rebuilding the model periodically from a rolling window of recent
// frames.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/skywatch-data/debris.report/internal/capture"
	"github.com/skywatch-data/debris.report/internal/detect"
	"github.com/skywatch-data/debris.report/internal/monitoring"
)

// Default live-mode tunables.
const (
	DefaultCalibrationFrames = 50
	DefaultBufferCapacity    = 100
	DefaultRefreshInterval   = 30
)

// State names the tracker's phase.
type State string

const (
	// StateCalibrating: acquiring the initial capture run; no
	// detection is performed while the model is being learned.
	StateCalibrating State = "calibrating"
	// StateScanning: running the per-frame pipeline against the
	// current background.
	StateScanning State = "scanning"
	// StateRecalibrating: discarding the buffer and model and
	// repeating the calibration run on demand.
	StateRecalibrating State = "recalibrating"
	// StateStopped: the session has ended.
	StateStopped State = "stopped"
)

// Command is a control signal honored between frame iterations.
type Command int

const (
	// CmdStop ends the session and flushes the detection list.
	CmdStop Command = iota
	// CmdSaveFrame hands the most recent frame to OnSaveFrame.
	CmdSaveFrame
	// CmdRecalibrate rebuilds the background from a fresh capture run.
	CmdRecalibrate
)

// Params holds the live-mode tunables plus the shared detection
// parameters. Passed explicitly at construction.
type Params struct {
	// CalibrationFrames is the number of frames acquired (with no
	// detection) to build the initial or recalibrated background.
	CalibrationFrames int
	// BufferCapacity bounds the rolling window of recent frames.
	BufferCapacity int
	// RefreshInterval is the number of scanned frames between
	// wholesale background rebuilds from the rolling window.
	RefreshInterval int

	Detection detect.Params
}

// DefaultParams returns the standard live-mode configuration.
func DefaultParams() Params {
	return Params{
		CalibrationFrames: DefaultCalibrationFrames,
		BufferCapacity:    DefaultBufferCapacity,
		RefreshInterval:   DefaultRefreshInterval,
		Detection:         detect.DefaultParams(),
	}
}

func (p Params) sanitized() Params {
	if p.CalibrationFrames <= 0 {
		p.CalibrationFrames = DefaultCalibrationFrames
	}
	if p.BufferCapacity <= 0 {
		p.BufferCapacity = DefaultBufferCapacity
	}
	if p.RefreshInterval <= 0 {
		p.RefreshInterval = DefaultRefreshInterval
	}
	return p
}

// Status is a point-in-time snapshot of the tracker for the control
// API.
type Status struct {
	State          State     `json:"state"`
	FramesScanned  int       `json:"frames_scanned"`
	BufferLen      int       `json:"buffer_len"`
	BufferCapacity int       `json:"buffer_capacity"`
	Detections     int       `json:"detections"`
	LastThreshold  float64   `json:"last_threshold"`
	CalibratedAt   time.Time `json:"calibrated_at"`
}

// Tracker owns the live session: the rolling frame buffer, the current
// background model, and the accumulated detection list. All state is
// mutated only by the single Run loop; the mutex exists so the control
// API can read a consistent snapshot and adjust detection parameters
// while the loop runs.
type Tracker struct {
	source   capture.Source
	commands chan Command

	// FlushCallback receives the accumulated session detections when
	// the session ends. Flushing is all-or-nothing; on failure the
	// list remains valid in memory and the error is returned from Run.
	FlushCallback func([]detect.Record) error
	// OnDebris, when set, is invoked after any frame that produced
	// detections, e.g. to save a frame snapshot.
	OnDebris func(frameIndex int, f *detect.Frame, debris []detect.Debris)
	// OnSaveFrame, when set, handles the manual save-frame command.
	OnSaveFrame func(frameIndex int, f *detect.Frame)

	mu            sync.Mutex
	params        Params
	state         State
	buffer        *FrameBuffer
	background    *detect.Background
	frameCount    int
	detections    []detect.Record
	lastFrame     *detect.Frame
	lastThreshold float64
	calibratedAt  time.Time
}

// New creates a tracker reading from source. Callbacks may be assigned
// before Run is called.
func New(source capture.Source, params Params) *Tracker {
	params = params.sanitized()
	return &Tracker{
		source:   source,
		commands: make(chan Command, 8),
		params:   params,
		state:    StateCalibrating,
		buffer:   NewFrameBuffer(params.BufferCapacity),
	}
}

// Command queues a control signal for the loop to pick up between
// frames. It never blocks; a full queue is reported as an error.
func (t *Tracker) Command(cmd Command) error {
	select {
	case t.commands <- cmd:
		return nil
	default:
		return fmt.Errorf("tracker: command queue full")
	}
}

// Status returns a consistent snapshot of the tracker state.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Status{
		State:          t.state,
		FramesScanned:  t.frameCount,
		BufferLen:      t.buffer.Len(),
		BufferCapacity: t.buffer.Capacity(),
		Detections:     len(t.detections),
		LastThreshold:  t.lastThreshold,
		CalibratedAt:   t.calibratedAt,
	}
}

// Detections returns a copy of the session detection list so far.
func (t *Tracker) Detections() []detect.Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]detect.Record, len(t.detections))
	copy(out, t.detections)
	return out
}

// DetectionParams returns the current detection tunables.
func (t *Tracker) DetectionParams() detect.Params {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.params.Detection
}

// SetDetectionParams replaces the detection tunables. The new values
// apply from the next frame.
func (t *Tracker) SetDetectionParams(p detect.Params) error {
	if p.SigmaThreshold <= 0 {
		return fmt.Errorf("tracker: sigma threshold must be positive")
	}
	if p.EccentricityMin <= 0 || p.EccentricityMin > 1 {
		return fmt.Errorf("tracker: eccentricity floor must be in (0, 1]")
	}
	t.mu.Lock()
	t.params.Detection = p
	t.mu.Unlock()
	return nil
}

// Run drives the session until a stop command, context cancellation,
// source exhaustion, or an acquisition failure. Detections accumulated
// during the session are flushed through FlushCallback on exit.
func (t *Tracker) Run(ctx context.Context) (err error) {
	defer func() {
		t.setState(StateStopped)
		if ferr := t.flush(); ferr != nil {
			if err == nil {
				err = ferr
			} else {
				monitoring.Logf("[tracker] flush after session error failed: %v", ferr)
			}
		}
	}()

	if err := t.calibrate(ctx, StateCalibrating); err != nil {
		return err
	}

	for {
		// commands are honored between frames only; there is no
		// cancellation mid-computation
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-t.commands:
			switch cmd {
			case CmdStop:
				monitoring.Logf("[tracker] stop requested")
				return nil
			case CmdRecalibrate:
				if err := t.calibrate(ctx, StateRecalibrating); err != nil {
					return err
				}
			case CmdSaveFrame:
				t.saveCurrentFrame()
			}
			continue
		default:
		}

		frame, err := t.source.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			// no safe partial state exists to resume from mid-frame
			return fmt.Errorf("tracker: acquire frame: %w", err)
		}
		if err := t.processFrame(frame); err != nil {
			return err
		}
	}
}

// calibrate acquires a fresh capture run, builds a new background from
// it, and replaces the rolling buffer wholesale. Detection is paused
// for the duration; that availability/quality tradeoff is deliberate.
func (t *Tracker) calibrate(ctx context.Context, phase State) error {
	t.setState(phase)

	t.mu.Lock()
	n := t.params.CalibrationFrames
	capacity := t.params.BufferCapacity
	t.mu.Unlock()

	monitoring.Logf("[tracker] %s: acquiring %d frames", phase, n)

	frames := make([]*detect.Frame, 0, n)
	fresh := NewFrameBuffer(capacity)
	for i := 0; i < n; i++ {
		f, err := t.source.Next(ctx)
		if err != nil {
			return fmt.Errorf("tracker: calibration frame %d/%d: %w", i+1, n, err)
		}
		frames = append(frames, f)
		fresh.Push(f)
	}

	bg, err := detect.MedianBackground(frames)
	if err != nil {
		return fmt.Errorf("tracker: %w", err)
	}

	// the grid is swapped, not edited in place, so the scanning loop
	// always sees either the old model or the new one
	t.mu.Lock()
	t.background = bg
	t.buffer = fresh
	t.calibratedAt = time.Now()
	t.state = StateScanning
	t.mu.Unlock()

	monitoring.Logf("[tracker] calibration complete (%d frames)", n)
	return nil
}

// processFrame runs the shared per-frame pipeline against the current
// background, records any debris, and rebuilds the background from the
// rolling window every RefreshInterval frames.
func (t *Tracker) processFrame(f *detect.Frame) error {
	t.mu.Lock()
	bg := t.background
	dp := t.params.Detection
	t.mu.Unlock()

	res, err := detect.ProcessFrame(f, bg, dp)
	if err != nil {
		return fmt.Errorf("tracker: %w", err)
	}

	t.mu.Lock()
	t.frameCount++
	idx := t.frameCount
	t.lastFrame = f
	t.lastThreshold = res.Threshold
	for _, d := range res.Debris {
		t.detections = append(t.detections, detect.NewRecord(idx, f.Timestamp, d, res.Threshold))
	}
	t.buffer.Push(f)
	rebuild := t.frameCount%t.params.RefreshInterval == 0
	var window []*detect.Frame
	if rebuild {
		window = t.buffer.Snapshot()
	}
	t.mu.Unlock()

	for _, d := range res.Debris {
		monitoring.Logf("[tracker] frame %05d DEBRIS pos=(%.0f,%.0f) e=%.3f L=%.0fpx",
			idx, d.CentroidCol, d.CentroidRow, d.Eccentricity, d.MajorAxisLength)
	}
	if len(res.Debris) > 0 && t.OnDebris != nil {
		t.OnDebris(idx, f, res.Debris)
	}

	if rebuild {
		bg, err := detect.MedianBackground(window)
		if err != nil {
			return fmt.Errorf("tracker: rebuild background: %w", err)
		}
		t.mu.Lock()
		t.background = bg
		t.mu.Unlock()
	}
	return nil
}

func (t *Tracker) saveCurrentFrame() {
	t.mu.Lock()
	f := t.lastFrame
	idx := t.frameCount
	t.mu.Unlock()
	if f == nil || t.OnSaveFrame == nil {
		return
	}
	t.OnSaveFrame(idx, f)
}

func (t *Tracker) setState(s State) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}

func (t *Tracker) flush() error {
	t.mu.Lock()
	records := make([]detect.Record, len(t.detections))
	copy(records, t.detections)
	cb := t.FlushCallback
	t.mu.Unlock()

	if cb == nil {
		monitoring.Logf("[tracker] session ended with %d detections (no flush callback)", len(records))
		return nil
	}
	if err := cb(records); err != nil {
		return fmt.Errorf("tracker: flush detections: %w", err)
	}
	monitoring.Logf("[tracker] session ended, flushed %d detections", len(records))
	return nil
}
