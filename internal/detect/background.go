package detect

import (
	"fmt"
	"sort"
)

// Background is the per-pixel stable-sky estimate: the elementwise
// median of a frame collection, stored in floating point. It is
// replaced wholesale on recalibration, never edited in place.
type Background struct {
	Width  int
	Height int
	Pix    []float64
}

// MedianBackground computes the elementwise median across the given
// frames. A transient object covers any given pixel for only a small
// fraction of the window (a few frames out of hundreds), so the median
// recovers the stable sky value where a mean would be biased upward by
// the passing signal.
//
// Fails with ErrInvalidInput when the collection is empty or the frames
// have mismatched resolutions.
func MedianBackground(frames []*Frame) (*Background, error) {
	if err := validateFrames(frames); err != nil {
		return nil, fmt.Errorf("median background: %w", err)
	}

	w, h := frames[0].Width, frames[0].Height
	bg := &Background{
		Width:  w,
		Height: h,
		Pix:    make([]float64, w*h),
	}

	stack := make([]float64, len(frames))
	for i := range bg.Pix {
		for j, f := range frames {
			stack[j] = float64(f.Pix[i])
		}
		bg.Pix[i] = medianInPlace(stack)
	}
	return bg, nil
}

// At returns the background estimate at (row, col).
func (b *Background) At(row, col int) float64 { return b.Pix[row*b.Width+col] }

// medianInPlace sorts vals and returns their median, averaging the two
// middle elements for even-length input. vals must be non-empty.
func medianInPlace(vals []float64) float64 {
	sort.Float64s(vals)
	n := len(vals)
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}
