package front

import (
	"wavefront/internal/poly"
	"wavefront/internal/types"
)

// SplitResult holds the pieces of a region cut by a composed longitude.
// Left pieces lie west of the curve, Right pieces east of it. A polygon
// the curve never crosses shows up whole on its side.
type SplitResult struct {
	Left  []*poly.Polygon
	Right []*poly.Polygon
}

// Pieces returns all pieces regardless of side.
func (r SplitResult) Pieces() []*poly.Polygon {
	out := make([]*poly.Polygon, 0, len(r.Left)+len(r.Right))
	out = append(out, r.Left...)
	return append(out, r.Right...)
}

// SplitByLongitude cuts a polygon along the curve. Each crossing produces
// a synchronized pair of cut positions, one in the piece on either side,
// sharing a cut id so callers can match the seam back up. Vertices lying
// on the curve are assigned to the west side. The original polygon is not
// modified.
func SplitByLongitude(p *poly.Polygon, cut *ComposedLongitude) SplitResult {
	var res SplitResult
	if p == nil || p.IsEmpty() {
		return res
	}

	verts := p.Positions()
	n := len(verts)
	sides := make([]Side, n)
	hasWest, hasEast := false, false
	for i, v := range verts {
		s := cut.ClassifyClamped(v.Lat, v.Lng)
		if s == SideOn {
			s = SideWest
		}
		sides[i] = s
		if s == SideWest {
			hasWest = true
		} else {
			hasEast = true
		}
	}
	if !hasEast {
		res.Left = append(res.Left, p.Clone())
		return res
	}
	if !hasWest {
		res.Right = append(res.Right, p.Clone())
		return res
	}

	// Rotate the walk so it begins at a side change, making every run of
	// same-side vertices contiguous.
	start := 0
	for i := 0; i < n; i++ {
		if sides[i] != sides[(i-1+n)%n] {
			start = i
			break
		}
	}
	type run struct {
		side Side
		idx  []int
	}
	var runs []run
	for k := 0; k < n; k++ {
		i := (start + k) % n
		if len(runs) == 0 || runs[len(runs)-1].side != sides[i] {
			runs = append(runs, run{side: sides[i]})
		}
		r := &runs[len(runs)-1]
		r.idx = append(r.idx, i)
	}

	// One crossing per run boundary: the edge from the last vertex of run
	// j to the first vertex of run j+1.
	m := len(runs)
	cutLat := make([]float64, m)
	cutLng := make([]float64, m)
	cutIDs := make([]int32, m)
	edgeA := make([]*poly.Position, m)
	edgeB := make([]*poly.Position, m)
	for j := 0; j < m; j++ {
		a := verts[runs[j].idx[len(runs[j].idx)-1]]
		b := verts[runs[(j+1)%m].idx[0]]
		lat, lng, ok := cut.IntersectSegment(a, b)
		if !ok {
			// Endpoint sitting on the curve; pin the seam there.
			lat = a.Lat
			if l, covered := cut.LngAt(lat); covered {
				lng = l
			} else {
				lng = a.Lng
			}
		}
		cutLat[j], cutLng[j] = lat, lng
		cutIDs[j] = int32(j + 1)
		edgeA[j], edgeB[j] = a, b
	}

	// Each run becomes one piece: entry cut, the run's vertices, exit cut,
	// then back along the curve to close the ring.
	for j := 0; j < m; j++ {
		entry := (j - 1 + m) % m
		out := p.CreateNew()
		out.Append(poly.NewCutPosition(cutLat[entry], cutLng[entry], cutIDs[entry], edgeA[entry].ID, edgeB[entry].ID))
		for _, i := range runs[j].idx {
			out.Add(verts[i].Lat, verts[i].Lng)
		}
		out.Append(poly.NewCutPosition(cutLat[j], cutLng[j], cutIDs[j], edgeA[j].ID, edgeB[j].ID))
		appendCurveInterior(out, cut, cutLat[j], cutLat[entry])
		if runs[j].side == SideWest {
			res.Left = append(res.Left, out)
		} else {
			res.Right = append(res.Right, out)
		}
	}
	return res
}

// SplitAllByLongitude splits every polygon and merges the results.
func SplitAllByLongitude(polys []*poly.Polygon, cut *ComposedLongitude) SplitResult {
	var res SplitResult
	for _, p := range polys {
		r := SplitByLongitude(p, cut)
		res.Left = append(res.Left, r.Left...)
		res.Right = append(res.Right, r.Right...)
	}
	return res
}

// TraversedRegion returns the pieces the front has already swept over:
// the west side for eastward travel, the east side for westward.
func TraversedRegion(res SplitResult, direction types.WaveDirection) []*poly.Polygon {
	if direction == types.DirectionWest {
		return res.Right
	}
	return res.Left
}

// RemainingRegion returns the pieces the front has not reached yet.
func RemainingRegion(res SplitResult, direction types.WaveDirection) []*poly.Polygon {
	if direction == types.DirectionWest {
		return res.Left
	}
	return res.Right
}

// appendCurveInterior adds the curve's interior nodes between the two
// latitudes to the ring, ordered from fromLat toward toLat. The bound
// entries are skipped; the cut positions already stand in for them.
func appendCurveInterior(dst *poly.Polygon, cut *ComposedLongitude, fromLat, toLat float64) {
	lo, hi := fromLat, toLat
	if lo > hi {
		lo, hi = hi, lo
	}
	sub := cut.Subrange(lo, hi)
	k := sub.Size()
	if k <= 2 {
		return
	}
	if (fromLat <= toLat) == (sub.Orientation() == BuildNorth) {
		for i := 1; i < k-1; i++ {
			lat, lng := sub.At(i)
			dst.Add(lat, lng)
		}
	} else {
		for i := k - 2; i >= 1; i-- {
			lat, lng := sub.At(i)
			dst.Add(lat, lng)
		}
	}
}
