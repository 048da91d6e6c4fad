package poly

import (
	"encoding/json"
	"fmt"

	"wavefront/internal/types"
)

// GeoJSON output adapter for the map-rendering collaborator. The only
// correctness requirement is a lossless round trip of the coordinate
// sequences; styling and feature metadata belong to the consumer.

type geoJSONFeatureCollection struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
}

type geoJSONFeature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   geoJSONGeometry `json:"geometry"`
}

type geoJSONGeometry struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// PolygonsToGeoJSON renders the polygon set as a GeoJSON FeatureCollection
// with one Polygon feature per ring. Coordinates are [lng, lat] per the
// GeoJSON convention and each ring is explicitly closed.
func PolygonsToGeoJSON(polys []*Polygon) ([]byte, error) {
	fc := geoJSONFeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]geoJSONFeature, 0, len(polys)),
	}
	for _, p := range polys {
		coords := p.Coordinates()
		if len(coords) == 0 {
			continue
		}
		ring := make([][2]float64, 0, len(coords)+1)
		for _, c := range coords {
			ring = append(ring, [2]float64{c.Lng, c.Lat})
		}
		// Close the ring.
		ring = append(ring, ring[0])
		fc.Features = append(fc.Features, geoJSONFeature{
			Type:       "Feature",
			Properties: map[string]any{},
			Geometry: geoJSONGeometry{
				Type:        "Polygon",
				Coordinates: [][][2]float64{ring},
			},
		})
	}
	return json.Marshal(fc)
}

// PolygonsFromGeoJSON parses a FeatureCollection produced by
// PolygonsToGeoJSON back into polygons, dropping the closing duplicate
// vertex of each ring. Only the outer ring of each Polygon geometry is
// read.
func PolygonsFromGeoJSON(data []byte) ([]*Polygon, error) {
	var fc geoJSONFeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing feature collection: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("unexpected GeoJSON type %q", fc.Type)
	}
	var out []*Polygon
	for i, f := range fc.Features {
		if f.Geometry.Type != "Polygon" || len(f.Geometry.Coordinates) == 0 {
			return nil, fmt.Errorf("feature %d: unsupported geometry %q", i, f.Geometry.Type)
		}
		ring := f.Geometry.Coordinates[0]
		if n := len(ring); n > 1 && ring[0] == ring[n-1] {
			ring = ring[:n-1]
		}
		p := NewPolygon()
		for _, c := range ring {
			p.Add(c[1], c[0])
		}
		out = append(out, p)
	}
	return out, nil
}

// CoordinatesEqual reports whether two polygons carry the same vertex
// sequence within the given tolerance (round-trip checks in tests).
func CoordinatesEqual(a, b *Polygon, tol float64) bool {
	if a.Size() != b.Size() {
		return false
	}
	ac, bc := a.Coordinates(), b.Coordinates()
	for i := range ac {
		if !almostEqual(ac[i], bc[i], tol) {
			return false
		}
	}
	return true
}

func almostEqual(a, b types.Position, tol float64) bool {
	dLat := a.Lat - b.Lat
	dLng := a.Lng - b.Lng
	if dLat < 0 {
		dLat = -dLat
	}
	if dLng < 0 {
		dLng = -dLng
	}
	return dLat <= tol && dLng <= tol
}
