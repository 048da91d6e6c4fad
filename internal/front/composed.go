// Package front implements the wavefront geometry: a composed longitude (a
// latitude-banded approximation of a meridian-like curve), the generator
// that advances it across the Earth at a constant ground speed, and the
// splitting of territory polygons along it.
package front

import (
	"fmt"
	"math"

	"wavefront/internal/geo"
	"wavefront/internal/poly"
	"wavefront/internal/types"
)

// Orientation says in which latitude direction the curve is built.
type Orientation int

const (
	// BuildNorth means entries have strictly increasing latitude.
	BuildNorth Orientation = iota
	// BuildSouth means entries have strictly decreasing latitude.
	BuildSouth
)

// Side classifies a point against the curve.
type Side int

const (
	SideOn Side = iota
	SideWest
	SideEast
)

func (s Side) String() string {
	switch s {
	case SideOn:
		return "on"
	case SideWest:
		return "west"
	case SideEast:
		return "east"
	default:
		return "unknown"
	}
}

type node struct {
	lat float64
	lng float64
}

// ComposedLongitude is a monotone-by-latitude sequence of positions
// describing where a meridian-like cut line sits at each latitude. It is
// rebuilt per time step by the wavefront generator and is read-only for
// consumers.
type ComposedLongitude struct {
	nodes       []node
	orientation Orientation
}

// NewComposedLongitude returns an empty curve with the given orientation.
func NewComposedLongitude(orientation Orientation) *ComposedLongitude {
	return &ComposedLongitude{orientation: orientation}
}

// Append adds an entry. Entries must keep strictly monotonic latitude per
// the curve's orientation; equal-latitude entries are rejected.
func (c *ComposedLongitude) Append(lat, lng float64) error {
	if n := len(c.nodes); n > 0 {
		last := c.nodes[n-1].lat
		if math.Abs(lat-last) < geo.CoordinateEpsilon {
			return fmt.Errorf("duplicate latitude %.7f", lat)
		}
		if c.orientation == BuildNorth && lat < last {
			return fmt.Errorf("latitude %.7f breaks northward monotonicity after %.7f", lat, last)
		}
		if c.orientation == BuildSouth && lat > last {
			return fmt.Errorf("latitude %.7f breaks southward monotonicity after %.7f", lat, last)
		}
	}
	c.nodes = append(c.nodes, node{lat: lat, lng: types.NormalizeLng(lng)})
	return nil
}

// Orientation returns the build direction of the curve.
func (c *ComposedLongitude) Orientation() Orientation { return c.orientation }

// Size returns the number of entries.
func (c *ComposedLongitude) Size() int { return len(c.nodes) }

// At returns the i-th entry's coordinates.
func (c *ComposedLongitude) At(i int) (lat, lng float64) {
	return c.nodes[i].lat, c.nodes[i].lng
}

// MinLat returns the southernmost covered latitude.
func (c *ComposedLongitude) MinLat() float64 {
	if len(c.nodes) == 0 {
		return 0
	}
	if c.orientation == BuildNorth {
		return c.nodes[0].lat
	}
	return c.nodes[len(c.nodes)-1].lat
}

// MaxLat returns the northernmost covered latitude.
func (c *ComposedLongitude) MaxLat() float64 {
	if len(c.nodes) == 0 {
		return 0
	}
	if c.orientation == BuildNorth {
		return c.nodes[len(c.nodes)-1].lat
	}
	return c.nodes[0].lat
}

// Covers reports whether lat falls in the curve's latitude range.
func (c *ComposedLongitude) Covers(lat float64) bool {
	if len(c.nodes) == 0 {
		return false
	}
	return geo.LatInRange(lat, c.MinLat(), c.MaxLat())
}

// LngAt interpolates the curve's longitude at the given latitude, linearly
// between the two bracketing entries. ok is false outside the covered
// latitude range.
func (c *ComposedLongitude) LngAt(lat float64) (float64, bool) {
	n := len(c.nodes)
	if n == 0 || !c.Covers(lat) {
		return 0, false
	}
	if n == 1 {
		return c.nodes[0].lng, true
	}
	for i := 0; i < n-1; i++ {
		a, b := c.nodes[i], c.nodes[i+1]
		lo, hi := a.lat, b.lat
		if lo > hi {
			lo, hi = hi, lo
		}
		if !geo.LatInRange(lat, lo, hi) {
			continue
		}
		span := b.lat - a.lat
		if math.Abs(span) < geo.CoordinateEpsilon {
			return a.lng, true
		}
		f := (lat - a.lat) / span
		return types.NormalizeLng(a.lng + geo.LngDelta(a.lng, b.lng)*f), true
	}
	// Covered but not bracketed can only be an epsilon artifact at the
	// extremes; snap to the nearest end.
	if math.Abs(lat-c.nodes[0].lat) < math.Abs(lat-c.nodes[n-1].lat) {
		return c.nodes[0].lng, true
	}
	return c.nodes[n-1].lng, true
}

// Classify reports which side of the curve the point is on: SideOn within
// CoordinateEpsilon of the interpolated longitude, SideEast or SideWest
// otherwise. ok is false when the point's latitude is outside the curve.
func (c *ComposedLongitude) Classify(lat, lng float64) (Side, bool) {
	at, ok := c.LngAt(lat)
	if !ok {
		return SideOn, false
	}
	d := geo.LngDelta(at, lng)
	switch {
	case math.Abs(d) < geo.CoordinateEpsilon:
		return SideOn, true
	case d > 0:
		return SideEast, true
	default:
		return SideWest, true
	}
}

// ClassifyClamped is Classify with the latitude clamped into the covered
// range, so every point gets a side even beyond the curve's extent. Used
// when assigning whole polygons that the cut never crosses.
func (c *ComposedLongitude) ClassifyClamped(lat, lng float64) Side {
	if len(c.nodes) == 0 {
		return SideOn
	}
	if lat < c.MinLat() {
		lat = c.MinLat()
	}
	if lat > c.MaxLat() {
		lat = c.MaxLat()
	}
	s, _ := c.Classify(lat, lng)
	return s
}

// IntersectSegment finds where the straight edge from a to b crosses the
// curve. ok is false when they do not cross. With multiple crossings (a
// long edge against a wiggly curve) the one nearest to a wins.
func (c *ComposedLongitude) IntersectSegment(a, b *poly.Position) (lat, lng float64, ok bool) {
	bestT := math.Inf(1)
	for i := 0; i+1 < len(c.nodes); i++ {
		n1, n2 := c.nodes[i], c.nodes[i+1]
		if t, s, hit := segmentIntersection(
			a.Lat, a.Lng, b.Lat, b.Lng,
			n1.lat, n1.lng, n2.lat, n2.lng,
		); hit && t < bestT {
			bestT = t
			lat = n1.lat + (n2.lat-n1.lat)*s
			lng = types.NormalizeLng(n1.lng + geo.LngDelta(n1.lng, n2.lng)*s)
			ok = true
		}
	}
	return lat, lng, ok
}

// CutForSegment is IntersectSegment producing a cut position carrying the
// given cut id and the edge's endpoint ids, ready to splice into a
// polygon. Nil when the edge does not cross the curve.
func (c *ComposedLongitude) CutForSegment(a, b *poly.Position, cutID int32) *poly.Position {
	lat, lng, ok := c.IntersectSegment(a, b)
	if !ok {
		return nil
	}
	return poly.NewCutPosition(lat, lng, cutID, a.ID, b.ID)
}

// Subrange extracts the part of the curve between the two latitudes
// (inclusive), interpolating entries at the exact bounds when the curve
// covers them. The result keeps the receiver's orientation.
func (c *ComposedLongitude) Subrange(minLat, maxLat float64) *ComposedLongitude {
	out := NewComposedLongitude(c.orientation)
	if len(c.nodes) == 0 || minLat > maxLat {
		return out
	}
	appendBound := func(lat float64) {
		if lng, ok := c.LngAt(lat); ok {
			_ = out.Append(lat, lng)
		}
	}
	lo, hi := minLat, maxLat
	if c.orientation == BuildSouth {
		lo, hi = maxLat, minLat
	}
	appendBound(lo)
	for _, nd := range c.nodes {
		if nd.lat > minLat+geo.CoordinateEpsilon && nd.lat < maxLat-geo.CoordinateEpsilon {
			_ = out.Append(nd.lat, nd.lng)
		}
	}
	appendBound(hi)
	return out
}

// segmentIntersection solves the 2-D intersection of segments (a1,a2) and
// (b1,b2) in a longitude frame unwrapped around a1. Returns the parameters
// along each segment and whether they intersect within both extents.
func segmentIntersection(a1Lat, a1Lng, a2Lat, a2Lng, b1Lat, b1Lng, b2Lat, b2Lng float64) (t, s float64, ok bool) {
	ax := 0.0
	bx := geo.LngDelta(a1Lng, a2Lng)
	cx := geo.LngDelta(a1Lng, b1Lng)
	dx := cx + geo.LngDelta(b1Lng, b2Lng)

	rLat := a2Lat - a1Lat
	rLng := bx - ax
	qLat := b2Lat - b1Lat
	qLng := dx - cx

	denom := rLng*qLat - rLat*qLng
	if math.Abs(denom) < 1e-15 {
		return 0, 0, false // parallel or degenerate
	}
	dLat := b1Lat - a1Lat
	dLng := cx - ax
	t = (dLng*qLat - dLat*qLng) / denom
	s = (dLng*rLat - dLat*rLng) / denom
	if t < -1e-12 || t > 1+1e-12 || s < -1e-12 || s > 1+1e-12 {
		return 0, 0, false
	}
	return t, s, true
}
