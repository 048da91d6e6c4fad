package front

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wavefront/internal/geo"
	"wavefront/internal/types"
)

func testArea(t *testing.T) geo.BoundingBox {
	t.Helper()
	return geo.NewBoundingBox(types.Position{Lat: -60, Lng: -10}, types.Position{Lat: 60, Lng: 30})
}

func TestEarthAdaptedSpeedLongitudeStartLng(t *testing.T) {
	area := testArea(t)

	east := NewEarthAdaptedSpeedLongitude(area, 5, types.DirectionEast, SpeedConfig{})
	assert.Equal(t, -10.0, east.StartLng())
	assert.Equal(t, 30.0, east.FarLng())

	west := NewEarthAdaptedSpeedLongitude(area, 5, types.DirectionWest, SpeedConfig{})
	assert.Equal(t, 30.0, west.StartLng())
	assert.Equal(t, -10.0, west.FarLng())
}

func TestWithProgressionZeroSitsOnStartMeridian(t *testing.T) {
	gen := NewEarthAdaptedSpeedLongitude(testArea(t), 5, types.DirectionEast, SpeedConfig{})
	c := gen.WithProgression(0)

	require.GreaterOrEqual(t, c.Size(), 2)
	assert.InDelta(t, -60, c.MinLat(), 1e-9)
	assert.InDelta(t, 60, c.MaxLat(), 1e-9)
	for i := 0; i < c.Size(); i++ {
		_, lng := c.At(i)
		assert.InDelta(t, 0, geo.LngDelta(gen.StartLng(), lng), 1e-9)
	}
}

func TestWithProgressionImpliedGroundSpeed(t *testing.T) {
	const speed = 5.0 // m/s
	elapsed := time.Hour
	gen := NewEarthAdaptedSpeedLongitude(testArea(t), speed, types.DirectionEast, SpeedConfig{})
	c := gen.WithProgression(elapsed)

	want := speed * elapsed.Seconds()
	for _, lat := range []float64{-55, -30, 0, 30, 55} {
		lng, ok := c.LngAt(lat)
		require.True(t, ok, "lat %v not covered", lat)
		got := geo.LonSpanDistance(gen.StartLng(), lng, lat)
		assert.InEpsilon(t, want, got, 0.02, "implied distance at lat %v", lat)
	}
}

func TestWithProgressionWestwardTravel(t *testing.T) {
	gen := NewEarthAdaptedSpeedLongitude(testArea(t), 5, types.DirectionWest, SpeedConfig{})
	c := gen.WithProgression(time.Hour)

	lng, ok := c.LngAt(0)
	require.True(t, ok)
	assert.Negative(t, geo.LngDelta(gen.StartLng(), lng))
}

func TestWithProgressionCrossesAntimeridian(t *testing.T) {
	area := geo.NewBoundingBox(types.Position{Lat: -20, Lng: 170}, types.Position{Lat: 20, Lng: -160})
	gen := NewEarthAdaptedSpeedLongitude(area, 100, types.DirectionEast, SpeedConfig{})
	// 100 m/s for 4h is about 13 degrees at the equator, past the seam
	// from a start meridian of 170.
	c := gen.WithProgression(4 * time.Hour)

	lng, ok := c.LngAt(0)
	require.True(t, ok)
	// Latitude 0 sits between band nodes, so the interpolated meridian is
	// only accurate to the configured band tolerance.
	want := geo.MetersToLonWidth(100*4*3600, 0)
	assert.InEpsilon(t, want, geo.LngDelta(170, lng), DefaultBandTolerance)
	assert.LessOrEqual(t, lng, 180.0)
	assert.Greater(t, lng, -180.0)
}

func TestWaveBandsDenserTowardPoles(t *testing.T) {
	low := NewEarthAdaptedSpeedLongitude(
		geo.NewBoundingBox(types.Position{Lat: 0, Lng: 0}, types.Position{Lat: 10, Lng: 10}),
		5, types.DirectionEast, SpeedConfig{},
	)
	high := NewEarthAdaptedSpeedLongitude(
		geo.NewBoundingBox(types.Position{Lat: 70, Lng: 0}, types.Position{Lat: 80, Lng: 10}),
		5, types.DirectionEast, SpeedConfig{},
	)

	assert.Greater(t, high.WithProgression(time.Hour).Size(), low.WithProgression(time.Hour).Size())
}

func TestWaveBandsRespectMinimumHeight(t *testing.T) {
	area := geo.NewBoundingBox(types.Position{Lat: 85, Lng: 0}, types.Position{Lat: 89, Lng: 10})
	gen := NewEarthAdaptedSpeedLongitude(area, 5, types.DirectionEast, SpeedConfig{})
	c := gen.WithProgression(time.Hour)

	// Band heights never drop below the floor, bounding the node count.
	// The final band may be a half step when the range does not divide
	// evenly.
	maxNodes := int(math.Ceil((89-85)/MinAdaptiveGridSize)) + 2
	assert.LessOrEqual(t, c.Size(), maxNodes)
	for i := 0; i+1 < c.Size(); i++ {
		lat1, _ := c.At(i)
		lat2, _ := c.At(i + 1)
		assert.GreaterOrEqual(t, lat2-lat1, MinAdaptiveGridSize/2-1e-9)
	}
}

func TestAdjustLonWidthAtLatitude(t *testing.T) {
	gen := NewEarthAdaptedSpeedLongitude(testArea(t), 5, types.DirectionEast, SpeedConfig{})

	assert.InEpsilon(t, 1.0, gen.AdjustLonWidthAtLatitude(1.0, 0), 1e-6)
	assert.InEpsilon(t, 2.0, gen.AdjustLonWidthAtLatitude(1.0, 60), 1e-6)
	assert.InEpsilon(t, 1.0/math.Cos(math.Pi/4), gen.AdjustLonWidthAtLatitude(1.0, 45), 1e-6)
}
