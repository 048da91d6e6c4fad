package poly

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wavefront/internal/types"
)

func TestGeoJSONRoundTrip(t *testing.T) {
	polys := []*Polygon{
		square(0, 0, 10),
		irregularPolygon(23, 5),
		FromCoordinates([]types.Position{
			{Lat: -5, Lng: 175},
			{Lat: -5, Lng: -175},
			{Lat: 5, Lng: -175},
			{Lat: 5, Lng: 175},
		}),
	}

	data, err := PolygonsToGeoJSON(polys)
	require.NoError(t, err)

	back, err := PolygonsFromGeoJSON(data)
	require.NoError(t, err)
	require.Len(t, back, len(polys))

	for i := range polys {
		assert.True(t, CoordinatesEqual(polys[i], back[i], 1e-9),
			"polygon %d vertex sequence changed across round trip", i)
	}
}

func TestGeoJSONStructure(t *testing.T) {
	data, err := PolygonsToGeoJSON([]*Polygon{square(0, 0, 1)})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "FeatureCollection", doc["type"])

	features := doc["features"].([]any)
	require.Len(t, features, 1)
	geom := features[0].(map[string]any)["geometry"].(map[string]any)
	assert.Equal(t, "Polygon", geom["type"])

	// The ring must be explicitly closed: 4 vertices + closing duplicate.
	ring := geom["coordinates"].([]any)[0].([]any)
	assert.Len(t, ring, 5)
	assert.Equal(t, ring[0], ring[4])
}

func TestGeoJSONSkipsEmptyPolygons(t *testing.T) {
	data, err := PolygonsToGeoJSON([]*Polygon{NewPolygon(), square(0, 0, 1)})
	require.NoError(t, err)
	back, err := PolygonsFromGeoJSON(data)
	require.NoError(t, err)
	assert.Len(t, back, 1)
}

func TestGeoJSONRejectsMalformed(t *testing.T) {
	_, err := PolygonsFromGeoJSON([]byte(`{"type":"Point"}`))
	assert.Error(t, err)

	_, err = PolygonsFromGeoJSON([]byte(`not json`))
	assert.Error(t, err)

	_, err = PolygonsFromGeoJSON([]byte(`{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"LineString","coordinates":[]}}]}`))
	assert.Error(t, err)
}
