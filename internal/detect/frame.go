package detect

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInput reports an empty frame collection or a resolution
// mismatch between grids that must share a resolution.
var ErrInvalidInput = errors.New("invalid input")

// Frame is a single-channel 8-bit intensity image of fixed resolution.
// Pix is row-major with len == Width*Height. A frame is immutable once
// produced; the pipeline never writes into it.
type Frame struct {
	Width  int
	Height int
	Pix    []uint8

	// Timestamp is the capture time, or the zero time when the source
	// has no real clock (synthetic frames, replayed sessions).
	Timestamp time.Time
}

// NewFrame allocates a zeroed frame of the given resolution.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// At returns the intensity at (row, col). No bounds checking beyond the
// slice's own.
func (f *Frame) At(row, col int) uint8 { return f.Pix[row*f.Width+col] }

// Set writes the intensity at (row, col).
func (f *Frame) Set(row, col int, v uint8) { f.Pix[row*f.Width+col] = v }

// validateFrames checks that the collection is non-empty and that every
// frame matches the first frame's resolution.
func validateFrames(frames []*Frame) error {
	if len(frames) == 0 {
		return fmt.Errorf("%w: empty frame collection", ErrInvalidInput)
	}
	w, h := frames[0].Width, frames[0].Height
	for i, f := range frames {
		if f == nil {
			return fmt.Errorf("%w: nil frame at index %d", ErrInvalidInput, i)
		}
		if f.Width != w || f.Height != h {
			return fmt.Errorf("%w: frame %d is %dx%d, expected %dx%d",
				ErrInvalidInput, i, f.Width, f.Height, w, h)
		}
		if len(f.Pix) != w*h {
			return fmt.Errorf("%w: frame %d has %d pixels, expected %d",
				ErrInvalidInput, i, len(f.Pix), w*h)
		}
	}
	return nil
}
