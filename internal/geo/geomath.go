// Package geo provides the numeric foundation of the wavefront engine:
// degree/radian conversion, great-circle and equirectangular distance,
// wrap-aware coordinate comparison, point-on-segment tests and a bounded
// trigonometric cache shared by concurrent evaluation sessions.
//
// All functions are pure; the only shared mutable state is the trig cache,
// and a cache miss always falls back to recomputation, so cache failures
// can only degrade performance, never correctness.
package geo

import (
	"math"
)

const (
	// EarthRadiusMeters is the mean Earth radius (WGS84 sphere approximation).
	EarthRadiusMeters = 6371008.8

	// CoordinateEpsilon is the tolerance below which two coordinates are
	// considered equal (~0.11 m of latitude).
	CoordinateEpsilon = 1e-6

	// SegmentEpsilon is the half-plane tolerance for point-on-segment
	// classification: the maximum perpendicular offset, in degrees, at
	// which a point still counts as on the segment.
	SegmentEpsilon = CoordinateEpsilon
)

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return deg * math.Pi / 180 }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 { return rad * 180 / math.Pi }

// DistanceAccurate returns the great-circle (haversine) distance in meters
// between two coordinates. Prefer this when precision matters more than
// speed, e.g. when sizing wave bands near the poles.
func DistanceAccurate(lat1, lng1, lat2, lng2 float64) float64 {
	r1 := DegToRad(lat1)
	r2 := DegToRad(lat2)
	dLat := DegToRad(lat2 - lat1)
	dLng := DegToRad(LngDelta(lng1, lng2))

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(r1)*math.Cos(r2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// DistanceFast returns the equirectangular (cosine-scaled) approximation of
// the distance in meters between two coordinates. Accurate to well under a
// percent for the short segments the engine works with, and much cheaper
// than DistanceAccurate. Uses the shared trig cache.
func DistanceFast(lat1, lng1, lat2, lng2 float64) float64 {
	midLat := (lat1 + lat2) / 2
	x := DegToRad(LngDelta(lng1, lng2)) * CosDeg(midLat)
	y := DegToRad(lat2 - lat1)
	return EarthRadiusMeters * math.Hypot(x, y)
}

// LonWidthDistance returns the ground distance in meters spanned by a
// longitude width (degrees) along the parallel at the given latitude.
func LonWidthDistance(lonWidth, lat float64) float64 {
	return EarthRadiusMeters * CosDeg(lat) * math.Abs(DegToRad(lonWidth))
}

// LonSpanDistance returns the ground distance in meters between two
// longitudes along the parallel at the given latitude, wrap-aware.
func LonSpanDistance(lng1, lng2, lat float64) float64 {
	return LonWidthDistance(LngDelta(lng1, lng2), lat)
}

// MetersToLonWidth is the inverse of LonWidthDistance: the longitude width
// in degrees that covers the given ground distance at the given latitude.
// Latitude is clamped just short of the poles where the parallel length
// collapses to zero.
func MetersToLonWidth(meters, lat float64) float64 {
	c := CosDeg(clampLat(lat))
	return RadToDeg(meters / (EarthRadiusMeters * c))
}

// polarClamp keeps cos(lat) away from zero when converting ground distance
// to longitude width: beyond this latitude a parallel is effectively a point.
const polarClamp = 89.99

func clampLat(lat float64) float64 {
	if lat > polarClamp {
		return polarClamp
	}
	if lat < -polarClamp {
		return -polarClamp
	}
	return lat
}

// LngDelta returns the signed shortest longitude difference lng2-lng1,
// folded into (-180, 180].
func LngDelta(lng1, lng2 float64) float64 {
	d := lng2 - lng1
	for d > 180 {
		d -= 360
	}
	for d <= -180 {
		d += 360
	}
	return d
}

// LngEqual reports whether two longitudes coincide within
// CoordinateEpsilon, treating the ±180° seam as a single meridian.
func LngEqual(a, b float64) bool {
	return math.Abs(LngDelta(a, b)) < CoordinateEpsilon
}

// LatEqual reports whether two latitudes coincide within CoordinateEpsilon.
func LatEqual(a, b float64) bool {
	return math.Abs(a-b) < CoordinateEpsilon
}

// LatInRange reports whether lat falls in [min, max], widened by
// CoordinateEpsilon at both ends.
func LatInRange(lat, min, max float64) bool {
	return lat >= min-CoordinateEpsilon && lat <= max+CoordinateEpsilon
}

// LngInRange reports whether lng falls in the west-to-east span, wrap-aware
// and widened by CoordinateEpsilon. A span where west > east crosses the
// antimeridian.
func LngInRange(lng, west, east float64) bool {
	if west <= east {
		return lng >= west-CoordinateEpsilon && lng <= east+CoordinateEpsilon
	}
	return lng >= west-CoordinateEpsilon || lng <= east+CoordinateEpsilon
}

// PointOnSegment reports whether point (lat, lng) lies on the segment from
// (lat1, lng1) to (lat2, lng2). It uses a cross-product half-plane
// tolerance rather than pure distance so that coordinates very close to
// the segment's endpoints classify stably.
func PointOnSegment(lat, lng, lat1, lng1, lat2, lng2 float64) bool {
	// Work in a longitude frame continuous around the query point.
	x1 := lng + LngDelta(lng, lng1)
	x2 := lng + LngDelta(lng, lng2)

	segLen := math.Hypot(x2-x1, lat2-lat1)
	if segLen < CoordinateEpsilon {
		// Degenerate segment: on it only if coincident with its endpoint.
		return LatEqual(lat, lat1) && math.Abs(lng-x1) < CoordinateEpsilon
	}

	cross := (x2-x1)*(lat-lat1) - (lat2-lat1)*(lng-x1)
	// The cross product over the segment length is the perpendicular
	// offset of the point from the carrying line.
	if math.Abs(cross)/segLen > SegmentEpsilon {
		return false
	}
	// Collinear: check the projection falls within the segment extent.
	if lat < math.Min(lat1, lat2)-CoordinateEpsilon || lat > math.Max(lat1, lat2)+CoordinateEpsilon {
		return false
	}
	if lng < math.Min(x1, x2)-CoordinateEpsilon || lng > math.Max(x1, x2)+CoordinateEpsilon {
		return false
	}
	return true
}
