package front

import (
	"time"

	"wavefront/internal/geo"
	"wavefront/internal/types"
)

// Band geometry defaults. A band is a latitude slice over which the
// meridian-convergence correction is treated as constant; band heights
// adapt so the correction never drifts more than BandTolerance within one
// band, which bounds the polyline approximation error at high latitudes
// where convergence changes fast.
const (
	// DefaultBandTolerance is the maximum relative change of the
	// 1/cos(lat) correction factor across a single band.
	DefaultBandTolerance = 0.01

	// MinAdaptiveGridSize is the height (degrees) below which bands are
	// never subdivided, bounding worst-case output size.
	MinAdaptiveGridSize = 0.05

	// MaxBandHeight caps band height so low latitudes still sample the
	// curve often enough for smooth rendering.
	MaxBandHeight = 5.0
)

// SpeedConfig tunes the band generator. The zero value selects defaults.
type SpeedConfig struct {
	BandTolerance float64
	MinBandHeight float64
	MaxBandHeight float64
}

func (c SpeedConfig) withDefaults() SpeedConfig {
	if c.BandTolerance <= 0 {
		c.BandTolerance = DefaultBandTolerance
	}
	if c.MinBandHeight <= 0 {
		c.MinBandHeight = MinAdaptiveGridSize
	}
	if c.MaxBandHeight <= 0 {
		c.MaxBandHeight = MaxBandHeight
	}
	return c
}

// EarthAdaptedSpeedLongitude generates the wavefront's composed longitude
// at a given elapsed time: a curve whose longitude offset from the start
// meridian grows with latitude exactly enough to keep the implied ground
// speed constant despite meridian convergence toward the poles.
type EarthAdaptedSpeedLongitude struct {
	area      geo.BoundingBox
	speed     float64 // meters per second over ground
	direction types.WaveDirection
	cfg       SpeedConfig
}

// NewEarthAdaptedSpeedLongitude builds a generator for the covered area.
// Speed is in meters per second.
func NewEarthAdaptedSpeedLongitude(area geo.BoundingBox, speed float64, direction types.WaveDirection, cfg SpeedConfig) *EarthAdaptedSpeedLongitude {
	return &EarthAdaptedSpeedLongitude{
		area:      area,
		speed:     speed,
		direction: direction,
		cfg:       cfg.withDefaults(),
	}
}

// Area returns the covered bounding area.
func (e *EarthAdaptedSpeedLongitude) Area() geo.BoundingBox { return e.area }

// Speed returns the configured ground speed in meters per second.
func (e *EarthAdaptedSpeedLongitude) Speed() float64 { return e.speed }

// Direction returns the direction of travel.
func (e *EarthAdaptedSpeedLongitude) Direction() types.WaveDirection { return e.direction }

// StartLng returns the meridian the front starts from: the west edge of
// the covered area when traveling east, the east edge when traveling west.
func (e *EarthAdaptedSpeedLongitude) StartLng() float64 {
	if e.direction == types.DirectionWest {
		return e.area.MaxLng
	}
	return e.area.MinLng
}

// FarLng returns the meridian at the far edge of the covered area.
func (e *EarthAdaptedSpeedLongitude) FarLng() float64 {
	if e.direction == types.DirectionWest {
		return e.area.MinLng
	}
	return e.area.MaxLng
}

// AdjustLonWidthAtLatitude applies the meridian-convergence correction to
// a longitude width expressed at the equator: the same ground distance
// spans a wider longitude range at higher latitudes. Public seam for
// validating the correction factor at a single latitude without running
// the full band algorithm.
func (e *EarthAdaptedSpeedLongitude) AdjustLonWidthAtLatitude(lonWidthAtEquator, lat float64) float64 {
	equatorMeters := geo.LonWidthDistance(lonWidthAtEquator, 0)
	return geo.MetersToLonWidth(equatorMeters, lat)
}

// WithProgression returns the composed longitude where the wavefront sits
// after the elapsed time. At zero elapsed time the curve lies on the start
// meridian; it advances beyond the far edge once the ground distance
// exceeds the covered span.
func (e *EarthAdaptedSpeedLongitude) WithProgression(elapsed time.Duration) *ComposedLongitude {
	meters := e.speed * elapsed.Seconds()
	out := NewComposedLongitude(BuildNorth)
	for _, lat := range e.waveBands() {
		width := geo.MetersToLonWidth(meters, lat)
		lng := e.StartLng()
		if e.direction == types.DirectionWest {
			lng -= width
		} else {
			lng += width
		}
		_ = out.Append(lat, types.NormalizeLng(lng))
	}
	return out
}

// waveBands partitions the covered latitude range into adaptive band
// boundaries, south to north. Boundaries concentrate where the
// convergence correction changes fastest.
func (e *EarthAdaptedSpeedLongitude) waveBands() []float64 {
	minLat, maxLat := e.area.MinLat, e.area.MaxLat
	if maxLat-minLat < geo.CoordinateEpsilon {
		return []float64{minLat}
	}
	bands := []float64{minLat}
	for lat := minLat; lat < maxLat; {
		h := e.optimalLatBandWidth(lat)
		lat += h
		if lat >= maxLat-e.cfg.MinBandHeight/2 {
			break
		}
		bands = append(bands, lat)
	}
	return append(bands, maxLat)
}

// optimalLatBandWidth picks the band height at lat: the largest height not
// exceeding MaxBandHeight over which the 1/cos correction factor changes
// by at most BandTolerance, floored at MinBandHeight so band count stays
// bounded near the poles.
func (e *EarthAdaptedSpeedLongitude) optimalLatBandWidth(lat float64) float64 {
	h := e.cfg.MaxBandHeight
	for h > e.cfg.MinBandHeight {
		if e.correctionDrift(lat, h) <= e.cfg.BandTolerance {
			return h
		}
		h /= 2
	}
	return e.cfg.MinBandHeight
}

// correctionDrift is the relative change of the convergence correction
// across a band of height h starting at lat.
func (e *EarthAdaptedSpeedLongitude) correctionDrift(lat, h float64) float64 {
	f0 := geo.MetersToLonWidth(1, lat)
	f1 := geo.MetersToLonWidth(1, lat+h)
	lo, hi := f0, f1
	if lo > hi {
		lo, hi = hi, lo
	}
	return hi/lo - 1
}
