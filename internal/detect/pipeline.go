package detect

import "fmt"

// FrameResult is the outcome of running the per-frame pipeline once:
// the classified objects plus the threshold and sigma used, so callers
// can report them.
type FrameResult struct {
	Debris    []Debris
	Stars     []Star
	Threshold float64
	Sigma     float64
}

// ProcessFrame runs residual -> threshold -> classify for one frame
// against the given background. Both the batch processor and the live
// tracker share this path; they differ only in where the background
// came from.
func ProcessFrame(f *Frame, bg *Background, p Params) (*FrameResult, error) {
	p = p.sanitized()
	residual, err := Subtract(f, bg)
	if err != nil {
		return nil, err
	}
	mask, threshold, sigma := Threshold(residual, p.SigmaThreshold)
	debris, stars := Classify(mask, p)
	return &FrameResult{
		Debris:    debris,
		Stars:     stars,
		Threshold: threshold,
		Sigma:     sigma,
	}, nil
}

// ProcessSequence is the batch mode: it builds one background from the
// entire sequence, then runs the per-frame pipeline over each frame in
// order, emitting one Record per debris object.
//
// The background is non-causal by design: every frame's detection
// benefits from frames that occur later as well as earlier. That is
// acceptable only because the whole sequence is available up front; the
// live tracker uses a causal rolling window instead, and the two are
// not expected to produce identical detections on the same data.
func ProcessSequence(frames []*Frame, p Params) ([]Record, *Background, error) {
	bg, err := MedianBackground(frames)
	if err != nil {
		return nil, nil, fmt.Errorf("process sequence: %w", err)
	}

	var records []Record
	for i, f := range frames {
		res, err := ProcessFrame(f, bg, p)
		if err != nil {
			return nil, nil, fmt.Errorf("process sequence: frame %d: %w", i, err)
		}
		for _, d := range res.Debris {
			records = append(records, NewRecord(i, f.Timestamp, d, res.Threshold))
		}
	}
	return records, bg, nil
}
