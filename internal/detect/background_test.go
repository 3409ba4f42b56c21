package detect

import (
	"errors"
	"testing"
)

// helper to build a frame filled with a constant intensity
func makeUniformFrame(w, h int, v uint8) *Frame {
	f := NewFrame(w, h)
	for i := range f.Pix {
		f.Pix[i] = v
	}
	return f
}

func TestMedianBackground_EmptyInput(t *testing.T) {
	_, err := MedianBackground(nil)
	if err == nil {
		t.Fatalf("expected error for empty frame collection")
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMedianBackground_ResolutionMismatch(t *testing.T) {
	frames := []*Frame{
		makeUniformFrame(4, 4, 10),
		makeUniformFrame(4, 5, 10),
	}
	_, err := MedianBackground(frames)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for mismatched resolution, got %v", err)
	}
}

// A pixel covered by a transient object in at most 10% of frames must
// come out at the stable value, not a blend.
func TestMedianBackground_TransientRobustness(t *testing.T) {
	const n = 20
	frames := make([]*Frame, n)
	for i := range frames {
		frames[i] = makeUniformFrame(8, 8, 50)
	}
	// bright transient at pixel (3,3) in 2 of 20 frames
	frames[5].Set(3, 3, 250)
	frames[6].Set(3, 3, 250)

	bg, err := MedianBackground(frames)
	if err != nil {
		t.Fatalf("MedianBackground: %v", err)
	}
	if got := bg.At(3, 3); got != 50 {
		t.Fatalf("expected transient pixel median 50, got %v", got)
	}
	if got := bg.At(0, 0); got != 50 {
		t.Fatalf("expected clean pixel median 50, got %v", got)
	}
}

// Even frame counts average the two middle values, matching the
// midpoint convention the rest of the pipeline assumes.
func TestMedianBackground_EvenCountMidpoint(t *testing.T) {
	frames := []*Frame{
		makeUniformFrame(2, 2, 10),
		makeUniformFrame(2, 2, 20),
		makeUniformFrame(2, 2, 30),
		makeUniformFrame(2, 2, 40),
	}
	bg, err := MedianBackground(frames)
	if err != nil {
		t.Fatalf("MedianBackground: %v", err)
	}
	if got := bg.At(0, 0); got != 25 {
		t.Fatalf("expected midpoint median 25, got %v", got)
	}
}

func TestSubtract_ClipsNegatives(t *testing.T) {
	f := makeUniformFrame(3, 3, 10)
	f.Set(1, 1, 200)
	bg := &Background{Width: 3, Height: 3, Pix: make([]float64, 9)}
	for i := range bg.Pix {
		bg.Pix[i] = 50
	}

	r, err := Subtract(f, bg)
	if err != nil {
		t.Fatalf("Subtract: %v", err)
	}
	// darker-than-background pixels clamp to zero
	if got := r.Pix[0]; got != 0 {
		t.Fatalf("expected clipped residual 0, got %v", got)
	}
	if got := r.Pix[1*3+1]; got != 150 {
		t.Fatalf("expected residual 150, got %v", got)
	}
}

func TestSubtract_ResolutionMismatch(t *testing.T) {
	f := makeUniformFrame(3, 3, 10)
	bg := &Background{Width: 4, Height: 3, Pix: make([]float64, 12)}
	if _, err := Subtract(f, bg); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
