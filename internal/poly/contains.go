package poly

import (
	"wavefront/internal/geo"
	"wavefront/internal/types"
)

// Boundary policy: a point lying exactly on a polygon edge (within
// geo.SegmentEpsilon) counts as inside. Both the exact and the
// grid-accelerated paths implement the same policy, and the equivalence is
// covered by tests including on-edge points.

// ContainsPosition reports whether the point is inside the ring, boundary
// inclusive, using an even-odd ray cast over every edge. This is the
// reference path; ContainsPositionOptimized must agree with it for all
// inputs.
func ContainsPosition(p *Polygon, pt types.Position) bool {
	n := p.Size()
	if n < 3 {
		return false
	}
	if !p.BBox().Contains(pt) {
		return false
	}
	inside := false
	for i := 0; i < n; i++ {
		a := p.At(i)
		b := p.At((i + 1) % n)
		hit, onEdge := edgeTest(pt.Lat, pt.Lng, a.Lat, a.Lng, b.Lat, b.Lng)
		if onEdge {
			return true
		}
		if hit {
			inside = !inside
		}
	}
	return inside
}

// edgeTest evaluates one edge against the eastbound ray from the point.
// Returns whether the ray crosses the edge and whether the point lies on
// the edge itself. Longitudes are shifted into a frame continuous around
// the query point so antimeridian-crossing edges evaluate correctly.
func edgeTest(lat, lng, aLat, aLng, bLat, bLng float64) (crosses, onEdge bool) {
	if geo.PointOnSegment(lat, lng, aLat, aLng, bLat, bLng) {
		return false, true
	}
	ax := lng + geo.LngDelta(lng, aLng)
	bx := lng + geo.LngDelta(lng, bLng)
	if (aLat > lat) != (bLat > lat) {
		crossLng := (bx-ax)*(lat-aLat)/(bLat-aLat) + ax
		if lng < crossLng {
			crosses = true
		}
	}
	return crosses, false
}
