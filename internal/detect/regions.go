package detect

import "math"

// Region is a maximal set of mask pixels connected under 8-neighborhood
// adjacency, with shape metrics derived from the ellipse that has the
// same second central moments as the pixel set.
type Region struct {
	// Area is the pixel count.
	Area int
	// CentroidRow and CentroidCol are the mean pixel coordinates.
	CentroidRow float64
	CentroidCol float64
	// Bounding box, half-open: rows [MinRow, MaxRow), cols [MinCol, MaxCol).
	MinRow, MinCol, MaxRow, MaxCol int
	// Eccentricity of the equivalent ellipse: 0 for a circle,
	// approaching 1 for a line.
	Eccentricity float64
	// OrientationDeg is the angle between the row axis and the major
	// axis, in degrees, in (-90, 90].
	OrientationDeg float64
	// MajorAxisLength and MinorAxisLength are the equivalent-ellipse
	// axis lengths in pixels.
	MajorAxisLength float64
	MinorAxisLength float64
}

// FindRegions labels all 8-connected foreground regions of the mask and
// computes their shape metrics. Regions are returned in raster-scan
// seed order, which is deterministic for a given mask.
func FindRegions(m *Mask) []Region {
	w, h := m.Width, m.Height
	visited := make([]bool, len(m.Pix))
	var regions []Region

	// Flood fill from each unvisited foreground pixel. Same BFS shape
	// as region identification over grid cells, with the full
	// 8-neighborhood since streaks may touch diagonally.
	var queue []int
	for seed := range m.Pix {
		if m.Pix[seed] == 0 || visited[seed] {
			continue
		}
		queue = queue[:0]
		queue = append(queue, seed)
		visited[seed] = true
		pixels := []int{seed}

		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			row, col := cur/w, cur%w
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					nr, nc := row+dr, col+dc
					if nr < 0 || nr >= h || nc < 0 || nc >= w {
						continue
					}
					idx := nr*w + nc
					if m.Pix[idx] != 0 && !visited[idx] {
						visited[idx] = true
						queue = append(queue, idx)
						pixels = append(pixels, idx)
					}
				}
			}
		}

		regions = append(regions, measureRegion(pixels, w))
	}
	return regions
}

// measureRegion computes area, centroid, bounding box and the
// moment-derived ellipse metrics for one connected pixel set.
func measureRegion(pixels []int, width int) Region {
	n := float64(len(pixels))
	r := Region{
		Area:   len(pixels),
		MinRow: math.MaxInt32,
		MinCol: math.MaxInt32,
	}

	var sumR, sumC float64
	for _, idx := range pixels {
		row, col := idx/width, idx%width
		sumR += float64(row)
		sumC += float64(col)
		if row < r.MinRow {
			r.MinRow = row
		}
		if col < r.MinCol {
			r.MinCol = col
		}
		if row+1 > r.MaxRow {
			r.MaxRow = row + 1
		}
		if col+1 > r.MaxCol {
			r.MaxCol = col + 1
		}
	}
	r.CentroidRow = sumR / n
	r.CentroidCol = sumC / n

	// Normalized second central moments.
	var mu20, mu02, mu11 float64
	for _, idx := range pixels {
		dr := float64(idx/width) - r.CentroidRow
		dc := float64(idx%width) - r.CentroidCol
		mu20 += dr * dr
		mu02 += dc * dc
		mu11 += dr * dc
	}
	mu20 /= n
	mu02 /= n
	mu11 /= n

	// Eigenvalues of the covariance matrix give the ellipse axes.
	common := math.Sqrt((mu20-mu02)*(mu20-mu02) + 4*mu11*mu11)
	l1 := (mu20 + mu02 + common) / 2
	l2 := (mu20 + mu02 - common) / 2
	if l2 < 0 {
		l2 = 0
	}

	r.MajorAxisLength = 4 * math.Sqrt(l1)
	r.MinorAxisLength = 4 * math.Sqrt(l2)
	if l1 > 0 {
		r.Eccentricity = math.Sqrt(1 - l2/l1)
	}
	r.OrientationDeg = 0.5 * math.Atan2(2*mu11, mu20-mu02) * 180 / math.Pi
	return r
}
