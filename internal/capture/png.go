package capture

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/skywatch-data/debris.report/internal/detect"
)

// SaveFramePNG writes a frame as an 8-bit grayscale PNG.
func SaveFramePNG(path string, f *detect.Frame) error {
	img := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
	copy(img.Pix, f.Pix)

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save frame: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("save frame: encode %s: %w", path, err)
	}
	return nil
}

// LoadFramePNG reads a PNG and converts it to a grayscale frame using
// the standard luminance weights for color inputs.
func LoadFramePNG(path string) (*detect.Frame, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load frame: %w", err)
	}
	defer in.Close()

	img, err := png.Decode(in)
	if err != nil {
		return nil, fmt.Errorf("load frame: decode %s: %w", path, err)
	}

	bounds := img.Bounds()
	f := detect.NewFrame(bounds.Dx(), bounds.Dy())

	if gray, ok := img.(*image.Gray); ok && gray.Stride == f.Width {
		copy(f.Pix, gray.Pix)
		return f, nil
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// 16-bit premultiplied channels; standard Rec. 601 weights
			lum := (299*r + 587*g + 114*b) / 1000
			f.Set(y-bounds.Min.Y, x-bounds.Min.X, uint8(lum>>8))
		}
	}
	return f, nil
}

// LoadDir loads every .png under dir, sorted by filename. Recorded
// sessions name frames frame_NNNN_<timestamp>.png, so filename order is
// capture order.
func LoadDir(dir string) ([]*detect.Frame, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".png") {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("load dir: no PNG frames in %s", dir)
	}
	sort.Strings(names)

	frames := make([]*detect.Frame, 0, len(names))
	for _, name := range names {
		f, err := LoadFramePNG(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return frames, nil
}
