package detect

// ObjectClass labels a classified region.
type ObjectClass string

const (
	// ClassStar is a compact, near-circular point source.
	ClassStar ObjectClass = "star"
	// ClassDebris is an elongated streak left by an object moving
	// across the field during the exposure.
	ClassDebris ObjectClass = "debris"
)

// Star is a fixed point source. Stars are reported for visual context
// only and are never persisted as detections.
type Star struct {
	CentroidRow  float64
	CentroidCol  float64
	Area         int
	Eccentricity float64
}

// Debris is an elongated streak consistent with a moving object. It
// carries the full region geometry for reporting.
type Debris struct {
	Region
}

// Classify splits the mask's connected regions into debris streaks and
// stars. The rule, applied in order:
//
//  1. A region with area below StarAreaMin is noise and is dropped.
//  2. A region with eccentricity >= EccentricityMin and area >=
//     StreakAreaMin is debris. Both comparisons are inclusive.
//  3. Everything else is a star.
//
// Every surviving region lands in exactly one of the two collections;
// ordering follows the labeling order of FindRegions.
func Classify(m *Mask, p Params) (debris []Debris, stars []Star) {
	p = p.sanitized()
	for _, reg := range FindRegions(m) {
		if reg.Area < p.StarAreaMin {
			continue
		}
		if reg.Eccentricity >= p.EccentricityMin && reg.Area >= p.StreakAreaMin {
			debris = append(debris, Debris{Region: reg})
			continue
		}
		stars = append(stars, Star{
			CentroidRow:  reg.CentroidRow,
			CentroidCol:  reg.CentroidCol,
			Area:         reg.Area,
			Eccentricity: reg.Eccentricity,
		})
	}
	return debris, stars
}
