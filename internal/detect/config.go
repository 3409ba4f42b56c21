package detect

// Default tunables. The 4-sigma cut accepts a pixel only when the
// chance of it being Gaussian noise is below roughly 0.003%.
const (
	DefaultSigmaThreshold  = 4.0
	DefaultEccentricityMin = 0.90
	DefaultStreakAreaMin   = 15
	DefaultStarAreaMin     = 3
)

// Params holds the detection tunables. A Params value is passed
// explicitly into each pipeline stage so multiple pipelines with
// different settings can coexist; there is no package-level state. The
// JSON names are the control API's parameter contract.
type Params struct {
	// SigmaThreshold is the multiplier k applied to the MAD-derived
	// sigma when computing the residual cutoff.
	SigmaThreshold float64 `json:"sigma_threshold"`
	// EccentricityMin is the minimum eccentricity for a region to be
	// considered a streak rather than a point source. Inclusive.
	EccentricityMin float64 `json:"eccentricity_min"`
	// StreakAreaMin is the minimum pixel area for a debris streak.
	// Inclusive. Filters short, ambiguous streak fragments.
	StreakAreaMin int `json:"streak_area_min"`
	// StarAreaMin is the minimum pixel area for a region to survive at
	// all; anything smaller is discarded as noise before
	// classification.
	StarAreaMin int `json:"star_area_min"`
}

// DefaultParams returns the standard tunables used by both the batch
// processor and the live tracker.
func DefaultParams() Params {
	return Params{
		SigmaThreshold:  DefaultSigmaThreshold,
		EccentricityMin: DefaultEccentricityMin,
		StreakAreaMin:   DefaultStreakAreaMin,
		StarAreaMin:     DefaultStarAreaMin,
	}
}

// sanitized returns a copy with out-of-range fields replaced by
// defaults, so a zero or partially filled Params still behaves.
func (p Params) sanitized() Params {
	if p.SigmaThreshold <= 0 {
		p.SigmaThreshold = DefaultSigmaThreshold
	}
	if p.EccentricityMin <= 0 || p.EccentricityMin > 1 {
		p.EccentricityMin = DefaultEccentricityMin
	}
	if p.StreakAreaMin <= 0 {
		p.StreakAreaMin = DefaultStreakAreaMin
	}
	if p.StarAreaMin <= 0 {
		p.StarAreaMin = DefaultStarAreaMin
	}
	return p
}
