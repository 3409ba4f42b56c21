package detect

import "math"

// madToSigma converts a median absolute deviation into an equivalent
// Gaussian standard deviation.
const madToSigma = 1.4826

// Mask is a binary grid, 1 where the residual exceeds the adaptive
// threshold.
type Mask struct {
	Width  int
	Height int
	Pix    []uint8
}

// At returns the mask value at (row, col).
func (m *Mask) At(row, col int) uint8 { return m.Pix[row*m.Width+col] }

// Threshold converts a residual map into a binary mask using a
// median/MAD statistical cut:
//
//	sigma     = 1.4826 * median(|residual - median(residual)|)
//	threshold = median(residual) + k*sigma
//
// MAD is used instead of the plain standard deviation because a few
// very bright stationary stars would inflate the deviation estimate and
// mask weak moving-object signal; the MAD is insensitive to them.
//
// Returns the mask along with the numeric threshold and sigma for
// traceability. The comparison is strictly greater-than.
func Threshold(r *Residual, k float64) (*Mask, float64, float64) {
	scratch := make([]float64, len(r.Pix))
	copy(scratch, r.Pix)
	med := medianInPlace(scratch)

	for i, v := range r.Pix {
		scratch[i] = math.Abs(v - med)
	}
	mad := medianInPlace(scratch)
	sigma := mad * madToSigma
	threshold := med + k*sigma

	m := &Mask{
		Width:  r.Width,
		Height: r.Height,
		Pix:    make([]uint8, len(r.Pix)),
	}
	for i, v := range r.Pix {
		if v > threshold {
			m.Pix[i] = 1
		}
	}
	return m, threshold, sigma
}
