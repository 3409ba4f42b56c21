package detect

import (
	"fmt"
	"math"
	"time"
)

// Record is the externally reported unit of detection: one debris
// streak in one frame. Field names match the persisted JSON contract;
// numeric fields are rounded at construction so serialization and
// comparison see the same values.
type Record struct {
	FrameIndex     int     `json:"frame_index"`
	Timestamp      string  `json:"timestamp"`
	CentroidX      float64 `json:"centroid_x"`
	CentroidY      float64 `json:"centroid_y"`
	AreaPx         int     `json:"area_px"`
	Eccentricity   float64 `json:"eccentricity"`
	OrientationDeg float64 `json:"orientation_deg"`
	LengthPx       float64 `json:"length_px"`
	SigmaThreshold float64 `json:"sigma_threshold"`
}

// NewRecord builds a Record from a classified debris region, the
// frame's index and capture time, and the threshold applied to that
// frame. A zero capture time produces a synthetic frame_NNNN label.
func NewRecord(frameIndex int, captured time.Time, d Debris, threshold float64) Record {
	return Record{
		FrameIndex:     frameIndex,
		Timestamp:      FrameLabel(frameIndex, captured),
		CentroidX:      roundTo(d.CentroidCol, 2),
		CentroidY:      roundTo(d.CentroidRow, 2),
		AreaPx:         d.Area,
		Eccentricity:   roundTo(d.Eccentricity, 4),
		OrientationDeg: roundTo(d.OrientationDeg, 2),
		LengthPx:       roundTo(d.MajorAxisLength, 2),
		SigmaThreshold: roundTo(threshold, 3),
	}
}

// FrameLabel formats a frame's timestamp as RFC3339, falling back to a
// synthetic frame_NNNN label when no capture clock is available.
func FrameLabel(frameIndex int, captured time.Time) string {
	if captured.IsZero() {
		return fmt.Sprintf("frame_%04d", frameIndex)
	}
	return captured.UTC().Format(time.RFC3339Nano)
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
