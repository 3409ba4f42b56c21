package detect

import "fmt"

// Residual holds the positive deviation of one frame from the
// background, same resolution, values >= 0. It is ephemeral: consumed
// immediately by thresholding and never persisted.
type Residual struct {
	Width  int
	Height int
	Pix    []float64
}

// Subtract computes clip(frame - background, 0, +inf) in floating
// point. Only brightenings are kept; pixels that got darker carry no
// target signal and are clamped to zero. Computing in float avoids the
// signed-overflow artifacts of subtracting unsigned intensities.
func Subtract(f *Frame, bg *Background) (*Residual, error) {
	if f == nil || bg == nil {
		return nil, fmt.Errorf("subtract: %w: nil frame or background", ErrInvalidInput)
	}
	if f.Width != bg.Width || f.Height != bg.Height {
		return nil, fmt.Errorf("subtract: %w: frame %dx%d vs background %dx%d",
			ErrInvalidInput, f.Width, f.Height, bg.Width, bg.Height)
	}

	r := &Residual{
		Width:  f.Width,
		Height: f.Height,
		Pix:    make([]float64, len(f.Pix)),
	}
	for i, v := range f.Pix {
		d := float64(v) - bg.Pix[i]
		if d > 0 {
			r.Pix[i] = d
		}
	}
	return r, nil
}
