package detect

import "testing"

// streakMask returns a mask with a single 1xN horizontal streak.
func streakMask(length int) *Mask {
	m := &Mask{Width: length + 4, Height: 5, Pix: make([]uint8, (length+4)*5)}
	for c := 2; c < 2+length; c++ {
		m.Pix[2*m.Width+c] = 1
	}
	return m
}

func TestClassify_NoiseDiscard(t *testing.T) {
	// two isolated pixels: both below the 3px noise floor
	m := makeMask(
		"#....",
		".....",
		"....#",
	)
	debris, stars := Classify(m, DefaultParams())
	if len(debris) != 0 || len(stars) != 0 {
		t.Fatalf("expected noise regions discarded, got %d debris %d stars", len(debris), len(stars))
	}
}

func TestClassify_StreakIsDebris(t *testing.T) {
	debris, stars := Classify(streakMask(20), DefaultParams())
	if len(debris) != 1 {
		t.Fatalf("expected 1 debris, got %d", len(debris))
	}
	if len(stars) != 0 {
		t.Fatalf("expected 0 stars, got %d", len(stars))
	}
	d := debris[0]
	if d.Area != 20 {
		t.Fatalf("expected area 20, got %d", d.Area)
	}
	if d.Eccentricity < DefaultEccentricityMin {
		t.Fatalf("expected streak eccentricity >= %v, got %v", DefaultEccentricityMin, d.Eccentricity)
	}
}

func TestClassify_CompactBlobIsStar(t *testing.T) {
	m := makeMask(
		".....",
		".###.",
		".###.",
		".###.",
		".....",
	)
	debris, stars := Classify(m, DefaultParams())
	if len(debris) != 0 || len(stars) != 1 {
		t.Fatalf("expected 1 star, got %d debris %d stars", len(debris), len(stars))
	}
	if stars[0].Area != 9 {
		t.Fatalf("expected star area 9, got %d", stars[0].Area)
	}
}

// Both classification comparisons are inclusive: a region sitting
// exactly on the area and eccentricity floors is debris; raising the
// area floor by one pixel demotes it to a star.
func TestClassify_BoundaryInclusive(t *testing.T) {
	m := streakMask(15)
	regions := FindRegions(m)
	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	p := DefaultParams()
	p.EccentricityMin = regions[0].Eccentricity // exact floor
	p.StreakAreaMin = regions[0].Area           // exact floor

	debris, stars := Classify(m, p)
	if len(debris) != 1 || len(stars) != 0 {
		t.Fatalf("expected boundary region classified debris, got %d debris %d stars", len(debris), len(stars))
	}

	// one pixel short of the area floor -> star
	p.StreakAreaMin = regions[0].Area + 1
	debris, stars = Classify(m, p)
	if len(debris) != 0 || len(stars) != 1 {
		t.Fatalf("expected sub-floor region classified star, got %d debris %d stars", len(debris), len(stars))
	}
}

// Classification is total and deterministic: repeated runs over the
// same mask produce identical decisions.
func TestClassify_Deterministic(t *testing.T) {
	m := makeMask(
		"######..........####",
		"......#########.....",
		"...##...............",
		"...##........###....",
		".............###....",
	)
	firstDebris, firstStars := Classify(m, DefaultParams())
	surviving := 0
	for _, r := range FindRegions(m) {
		if r.Area >= DefaultStarAreaMin {
			surviving++
		}
	}
	if len(firstDebris)+len(firstStars) != surviving {
		t.Fatalf("classification not total: %d+%d classified of %d surviving regions",
			len(firstDebris), len(firstStars), surviving)
	}

	for i := 0; i < 10; i++ {
		debris, stars := Classify(m, DefaultParams())
		if len(debris) != len(firstDebris) || len(stars) != len(firstStars) {
			t.Fatalf("run %d: classification changed: %d/%d vs %d/%d",
				i, len(debris), len(stars), len(firstDebris), len(firstStars))
		}
		for j := range debris {
			if debris[j] != firstDebris[j] {
				t.Fatalf("run %d: debris %d changed: %+v vs %+v", i, j, debris[j], firstDebris[j])
			}
		}
	}
}
