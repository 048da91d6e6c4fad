package geo

import (
	"math"

	"wavefront/internal/types"
)

// BoundingBox is an axis-aligned lat/lng rectangle. East/west ordering is
// longitude-wrap aware: a box with MinLng > MaxLng crosses the
// antimeridian. The zero value is an empty box.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`

	empty bool
}

// NewBoundingBox builds a box from its southwest and northeast corners.
func NewBoundingBox(sw, ne types.Position) BoundingBox {
	return BoundingBox{
		MinLat: math.Min(sw.Lat, ne.Lat),
		MaxLat: math.Max(sw.Lat, ne.Lat),
		MinLng: sw.Lng,
		MaxLng: ne.Lng,
	}
}

// EmptyBoundingBox returns a box that contains nothing and expands from
// the first point added to it.
func EmptyBoundingBox() BoundingBox {
	return BoundingBox{empty: true}
}

// IsEmpty reports whether the box contains no area at all.
func (b BoundingBox) IsEmpty() bool { return b.empty }

// CrossesAntimeridian reports whether the west-to-east span wraps ±180°.
func (b BoundingBox) CrossesAntimeridian() bool {
	return !b.empty && b.MinLng > b.MaxLng
}

// Contains reports whether the position falls inside the box, inclusive of
// edges within CoordinateEpsilon.
func (b BoundingBox) Contains(p types.Position) bool {
	if b.empty {
		return false
	}
	return LatInRange(p.Lat, b.MinLat, b.MaxLat) && LngInRange(p.Lng, b.MinLng, b.MaxLng)
}

// ContainsLatLng is Contains for raw coordinates.
func (b BoundingBox) ContainsLatLng(lat, lng float64) bool {
	return b.Contains(types.Position{Lat: lat, Lng: lng})
}

// Intersects reports whether two boxes overlap, wrap-aware in longitude.
func (b BoundingBox) Intersects(o BoundingBox) bool {
	if b.empty || o.empty {
		return false
	}
	if b.MinLat > o.MaxLat+CoordinateEpsilon || o.MinLat > b.MaxLat+CoordinateEpsilon {
		return false
	}
	return lonSpansOverlap(b.MinLng, b.MaxLng, o.MinLng, o.MaxLng)
}

func lonSpansOverlap(w1, e1, w2, e2 float64) bool {
	// Decompose wrapped spans into at most two unwrapped intervals each.
	for _, a := range unwrapSpan(w1, e1) {
		for _, c := range unwrapSpan(w2, e2) {
			if a[0] <= c[1]+CoordinateEpsilon && c[0] <= a[1]+CoordinateEpsilon {
				return true
			}
		}
	}
	return false
}

func unwrapSpan(west, east float64) [][2]float64 {
	if west <= east {
		return [][2]float64{{west, east}}
	}
	return [][2]float64{{west, 180}, {-180, east}}
}

// ExpandToInclude grows the box to cover the position (no-op when already
// covered). An empty box collapses onto the point.
func (b BoundingBox) ExpandToInclude(p types.Position) BoundingBox {
	if b.empty {
		return BoundingBox{MinLat: p.Lat, MaxLat: p.Lat, MinLng: p.Lng, MaxLng: p.Lng}
	}
	out := b
	if p.Lat < out.MinLat {
		out.MinLat = p.Lat
	}
	if p.Lat > out.MaxLat {
		out.MaxLat = p.Lat
	}
	if !LngInRange(p.Lng, out.MinLng, out.MaxLng) {
		// Grow towards whichever edge gives the smaller extension,
		// eastward on a tie.
		extEast := LngDelta(out.MaxLng, p.Lng)
		if extEast < 0 {
			extEast += 360
		}
		extWest := LngDelta(p.Lng, out.MinLng)
		if extWest < 0 {
			extWest += 360
		}
		if extEast <= extWest {
			out.MaxLng = p.Lng
		} else {
			out.MinLng = p.Lng
		}
	}
	return out
}

// Union returns the smallest box covering both boxes.
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	if b.empty {
		return o
	}
	if o.empty {
		return b
	}
	out := b.ExpandToInclude(types.Position{Lat: o.MinLat, Lng: o.MinLng})
	out = out.ExpandToInclude(types.Position{Lat: o.MaxLat, Lng: o.MaxLng})
	return out
}

// ExpandMargin widens the box by the given degree margins on every side,
// clamping latitude at the poles and renormalizing longitude.
func (b BoundingBox) ExpandMargin(latMargin, lngMargin float64) BoundingBox {
	if b.empty {
		return b
	}
	out := b
	out.MinLat = math.Max(types.MinLat, out.MinLat-latMargin)
	out.MaxLat = math.Min(types.MaxLat, out.MaxLat+latMargin)
	if b.Width()+2*lngMargin >= 360 {
		out.MinLng, out.MaxLng = -180+CoordinateEpsilon, 180
	} else {
		out.MinLng = types.NormalizeLng(out.MinLng - lngMargin)
		out.MaxLng = types.NormalizeLng(out.MaxLng + lngMargin)
	}
	return out
}

// SW returns the southwest corner.
func (b BoundingBox) SW() types.Position { return types.Position{Lat: b.MinLat, Lng: b.MinLng} }

// NE returns the northeast corner.
func (b BoundingBox) NE() types.Position { return types.Position{Lat: b.MaxLat, Lng: b.MaxLng} }

// NW returns the northwest corner.
func (b BoundingBox) NW() types.Position { return types.Position{Lat: b.MaxLat, Lng: b.MinLng} }

// SE returns the southeast corner.
func (b BoundingBox) SE() types.Position { return types.Position{Lat: b.MinLat, Lng: b.MaxLng} }

// Width returns the west-to-east longitude span in degrees, wrap-aware.
func (b BoundingBox) Width() float64 {
	if b.empty {
		return 0
	}
	if b.MinLng <= b.MaxLng {
		return b.MaxLng - b.MinLng
	}
	return 360 - (b.MinLng - b.MaxLng)
}

// Height returns the latitude span in degrees.
func (b BoundingBox) Height() float64 {
	if b.empty {
		return 0
	}
	return b.MaxLat - b.MinLat
}

// Center returns the midpoint of the box, wrap-aware in longitude.
func (b BoundingBox) Center() types.Position {
	return types.Position{
		Lat: (b.MinLat + b.MaxLat) / 2,
		Lng: types.NormalizeLng(b.MinLng + b.Width()/2),
	}
}

// FromOverride converts a wire-level bbox override into a BoundingBox.
func FromOverride(o *types.BBoxOverride) BoundingBox {
	if o == nil {
		return EmptyBoundingBox()
	}
	return BoundingBox{MinLat: o.MinLat, MinLng: o.MinLng, MaxLat: o.MaxLat, MaxLng: o.MaxLng}
}
