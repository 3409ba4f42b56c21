package capture

import (
	"context"
	"math/rand"
	"time"

	"github.com/skywatch-data/debris.report/internal/detect"
)

// SyntheticConfig shapes the simulated star field. Zero values fall
// back to the reference scene: a noisy gradient sky, four fixed stars,
// and a horizontal streak advancing 8 px per frame.
type SyntheticConfig struct {
	Width  int
	Height int

	NoiseMean   float64 // sky background level
	NoiseStdDev float64 // Gaussian noise amplitude
	RowGradient float64 // per-row intensity ramp

	Stars        [][2]int // fixed star positions as (row, col)
	StarBoostMin float64  // star brightness is uniform in [min, max)
	StarBoostMax float64
	StreakRow    int     // row of the moving streak
	StreakStart  int     // start column at frame 0
	StreakLength int     // streak extent in columns
	StreakStep   int     // columns advanced per frame
	StreakBoost  float64 // added intensity along the streak
	Seed         int64   // rng seed; 0 means a fixed default
	UseWallClock bool    // stamp frames with time.Now
	LoopStreak   bool    // restart the streak once it exits the frame
}

// DefaultSyntheticConfig returns the reference simulated scene.
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		Width:        640,
		Height:       480,
		NoiseMean:    100,
		NoiseStdDev:  8,
		RowGradient:  0.03,
		Stars:        [][2]int{{100, 200}, {300, 450}, {240, 80}, {400, 600}},
		StarBoostMin: 60,
		StarBoostMax: 120,
		StreakRow:    220,
		StreakStart:  50,
		StreakLength: 70,
		StreakStep:   8,
		StreakBoost:  90,
		Seed:         42,
	}
}

// SyntheticSource generates simulated sky frames. It stands in for the
// camera in dev mode and in tests; detection results over it are
// reproducible for a given seed.
type SyntheticSource struct {
	cfg        SyntheticConfig
	rng        *rand.Rand
	frameIndex int
}

// NewSyntheticSource creates a source for the given scene. Out-of-range
// star or streak coordinates are silently clipped at generation time.
func NewSyntheticSource(cfg SyntheticConfig) *SyntheticSource {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		def := DefaultSyntheticConfig()
		cfg.Width, cfg.Height = def.Width, def.Height
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}
	return &SyntheticSource{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Next generates the next simulated frame. It never fails; the context
// is checked so a cancelled session stops between frames.
func (s *SyntheticSource) Next(ctx context.Context) (*detect.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := s.cfg
	f := detect.NewFrame(cfg.Width, cfg.Height)
	if cfg.UseWallClock {
		f.Timestamp = time.Now().UTC()
	}

	for r := 0; r < cfg.Height; r++ {
		rowBase := r * cfg.Width
		ramp := cfg.NoiseMean + float64(r)*cfg.RowGradient
		for c := 0; c < cfg.Width; c++ {
			f.Pix[rowBase+c] = clampPixel(ramp + cfg.NoiseStdDev*s.rng.NormFloat64())
		}
	}

	for _, star := range cfg.Stars {
		row, col := star[0], star[1]
		if row < 0 || row >= cfg.Height || col < 0 || col >= cfg.Width {
			continue
		}
		boost := cfg.StarBoostMin
		if cfg.StarBoostMax > cfg.StarBoostMin {
			boost += s.rng.Float64() * (cfg.StarBoostMax - cfg.StarBoostMin)
		}
		f.Set(row, col, clampPixel(float64(f.At(row, col))+boost))
	}

	if cfg.StreakLength > 0 && cfg.StreakRow >= 0 && cfg.StreakRow < cfg.Height {
		offset := s.frameIndex * cfg.StreakStep
		if cfg.LoopStreak && cfg.StreakStep > 0 {
			span := cfg.Width - cfg.StreakStart
			if span > 0 {
				offset %= span
			}
		}
		start := cfg.StreakStart + offset
		end := start + cfg.StreakLength
		if end < cfg.Width {
			rowBase := cfg.StreakRow * cfg.Width
			for c := start; c < end; c++ {
				if c < 0 {
					continue
				}
				f.Pix[rowBase+c] = clampPixel(float64(f.Pix[rowBase+c]) + cfg.StreakBoost)
			}
		}
	}

	s.frameIndex++
	return f, nil
}

// Close implements Source. Nothing to release.
func (s *SyntheticSource) Close() error { return nil }

func clampPixel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
