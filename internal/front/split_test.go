package front

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wavefront/internal/geo"
	"wavefront/internal/poly"
	"wavefront/internal/types"
)

// verticalCut is a straight north-south cut line at the given longitude,
// tall enough to span every test polygon.
func verticalCut(t *testing.T, lng float64) *ComposedLongitude {
	t.Helper()
	return mustCurve(t, BuildNorth, [2]float64{-85, lng}, [2]float64{85, lng})
}

func squareRegion() *poly.Polygon {
	return poly.FromCoordinates([]types.Position{
		{Lat: 0, Lng: 0},
		{Lat: 10, Lng: 0},
		{Lat: 10, Lng: 10},
		{Lat: 0, Lng: 10},
	})
}

func TestSplitByLongitudeSquare(t *testing.T) {
	p := squareRegion()
	res := SplitByLongitude(p, verticalCut(t, 5))

	require.Len(t, res.Left, 1)
	require.Len(t, res.Right, 1)

	left, right := res.Left[0], res.Right[0]
	assert.Equal(t, 4, left.Size())
	assert.Equal(t, 4, right.Size())
	assert.Equal(t, 2, left.CutSize())
	assert.Equal(t, 2, right.CutSize())

	// The pieces partition the original area.
	assert.InEpsilon(t, p.Area(), left.Area()+right.Area(), 1e-6)

	// Every vertex ends up on its piece's side of the cut.
	for _, v := range left.Positions() {
		assert.LessOrEqual(t, v.Lng, 5.0+geo.CoordinateEpsilon)
	}
	for _, v := range right.Positions() {
		assert.GreaterOrEqual(t, v.Lng, 5.0-geo.CoordinateEpsilon)
	}

	// The original is untouched.
	assert.Equal(t, 4, p.Size())
	assert.Equal(t, 0, p.CutSize())
}

func TestSplitByLongitudeCutPairsShareIDs(t *testing.T) {
	res := SplitByLongitude(squareRegion(), verticalCut(t, 5))
	require.Len(t, res.Left, 1)
	require.Len(t, res.Right, 1)

	collect := func(p *poly.Polygon) map[int32]types.Position {
		out := make(map[int32]types.Position)
		for _, v := range p.Positions() {
			if v.IsCut() {
				out[v.Cut().CutID] = types.Position{Lat: v.Lat, Lng: v.Lng}
			}
		}
		return out
	}
	leftCuts := collect(res.Left[0])
	rightCuts := collect(res.Right[0])
	require.Len(t, leftCuts, 2)
	require.Len(t, rightCuts, 2)

	// Twin cuts carry the same id and sit at the same point on the seam.
	for id, lp := range leftCuts {
		rp, ok := rightCuts[id]
		require.True(t, ok, "cut %d has no twin", id)
		assert.InDelta(t, lp.Lat, rp.Lat, 1e-9)
		assert.InDelta(t, lp.Lng, rp.Lng, 1e-9)
		assert.InDelta(t, 5, rp.Lng, 1e-9)
	}
}

func TestSplitByLongitudeMissesPolygon(t *testing.T) {
	p := squareRegion()

	t.Run("cut east of polygon", func(t *testing.T) {
		res := SplitByLongitude(p, verticalCut(t, 40))
		require.Len(t, res.Left, 1)
		assert.Empty(t, res.Right)
		assert.Equal(t, 4, res.Left[0].Size())
		assert.InEpsilon(t, p.Area(), res.Left[0].Area(), 1e-9)
	})

	t.Run("cut west of polygon", func(t *testing.T) {
		res := SplitByLongitude(p, verticalCut(t, -40))
		require.Len(t, res.Right, 1)
		assert.Empty(t, res.Left)
	})

	t.Run("empty polygon", func(t *testing.T) {
		res := SplitByLongitude(poly.NewPolygon(), verticalCut(t, 5))
		assert.Empty(t, res.Left)
		assert.Empty(t, res.Right)
	})
}

func TestSplitByLongitudeConcaveMultipleCrossings(t *testing.T) {
	// A "C" opening east, cut through both arms: the east side falls apart
	// into the two arm tips, the west side keeps the back.
	u := poly.FromCoordinates([]types.Position{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 10},
		{Lat: 10, Lng: 10},
		{Lat: 10, Lng: 3},
		{Lat: 20, Lng: 3},
		{Lat: 20, Lng: 10},
		{Lat: 30, Lng: 10},
		{Lat: 30, Lng: 0},
	})
	res := SplitByLongitude(u, verticalCut(t, 6))

	require.Len(t, res.Right, 2)
	require.Len(t, res.Left, 2)

	// East pieces are the two arm tips, 40 square degrees each in the
	// planar shoelace frame.
	signed := func(p *poly.Polygon) float64 {
		if p.IsClockwise() {
			return -p.Area()
		}
		return p.Area()
	}
	var east, west float64
	for _, p := range res.Right {
		assert.InEpsilon(t, 40, p.Area(), 1e-6)
		east += signed(p)
	}
	// The west side is one region but two seam-bounded rings; the notch
	// ring winds opposite, so the signed areas reduce to the true west
	// area.
	for _, p := range res.Left {
		west += signed(p)
	}
	assert.InEpsilon(t, 80, east, 1e-6)
	assert.InEpsilon(t, 150, west, 1e-6)
	assert.InEpsilon(t, u.Area(), east+west, 1e-6)
}

func TestSplitAllByLongitude(t *testing.T) {
	a := squareRegion()
	b := poly.FromCoordinates([]types.Position{
		{Lat: 40, Lng: 20},
		{Lat: 45, Lng: 20},
		{Lat: 45, Lng: 25},
		{Lat: 40, Lng: 25},
	})
	res := SplitAllByLongitude([]*poly.Polygon{a, b}, verticalCut(t, 5))

	assert.Len(t, res.Left, 1)
	assert.Len(t, res.Right, 2)
	assert.Len(t, res.Pieces(), 3)
}

func TestTraversedRegion(t *testing.T) {
	res := SplitByLongitude(squareRegion(), verticalCut(t, 5))

	assert.Equal(t, res.Left, TraversedRegion(res, types.DirectionEast))
	assert.Equal(t, res.Right, RemainingRegion(res, types.DirectionEast))
	assert.Equal(t, res.Right, TraversedRegion(res, types.DirectionWest))
	assert.Equal(t, res.Left, RemainingRegion(res, types.DirectionWest))
}

func TestSplitByCurvedFront(t *testing.T) {
	// Split against a real wavefront curve and check the partition and
	// side assignment still hold.
	area := geo.NewBoundingBox(types.Position{Lat: 30, Lng: -20}, types.Position{Lat: 70, Lng: 20})
	gen := NewEarthAdaptedSpeedLongitude(area, 50, types.DirectionEast, SpeedConfig{})
	cut := gen.WithProgression(6 * time.Hour)

	p := poly.FromCoordinates([]types.Position{
		{Lat: 35, Lng: -15},
		{Lat: 65, Lng: -15},
		{Lat: 65, Lng: 15},
		{Lat: 35, Lng: 15},
	})
	res := SplitByLongitude(p, cut)
	require.NotEmpty(t, res.Left)
	require.NotEmpty(t, res.Right)

	var total float64
	for _, piece := range res.Pieces() {
		total += piece.Area()
		for _, v := range piece.Positions() {
			if v.IsCut() {
				continue
			}
			side := cut.ClassifyClamped(v.Lat, v.Lng)
			if side == SideOn {
				// Seam vertex carried over from the curve itself.
				continue
			}
			want := SideEast
			if containsPolygonPiece(res.Left, piece) {
				want = SideWest
			}
			assert.Equal(t, want, side)
		}
	}
	assert.InEpsilon(t, p.Area(), total, 1e-3)
}

func containsPolygonPiece(list []*poly.Polygon, p *poly.Polygon) bool {
	for _, e := range list {
		if e == p {
			return true
		}
	}
	return false
}
