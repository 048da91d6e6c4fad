package areas

import (
	"encoding/json"
)

type territoryCollection struct {
	Type     string             `json:"type"`
	BBox     [4]float64         `json:"bbox"`
	Features []territoryFeature `json:"features"`
}

type territoryFeature struct {
	Type       string            `json:"type"`
	Properties map[string]any    `json:"properties"`
	Geometry   territoryGeometry `json:"geometry"`
}

type territoryGeometry struct {
	Type        string         `json:"type"`
	Coordinates [][][2]float64 `json:"coordinates"`
}

// TerritoryGeoJSON renders the materialized event area as a GeoJSON
// FeatureCollection, one Polygon feature per ring. Coordinates are
// [lng, lat] and every ring is explicitly closed; the collection bbox is
// [west, south, east, north].
func TerritoryGeoJSON(area *EventArea) ([]byte, error) {
	fc := territoryCollection{
		Type: "FeatureCollection",
		BBox: [4]float64{area.BBox.MinLng, area.BBox.MinLat, area.BBox.MaxLng, area.BBox.MaxLat},
	}
	for _, p := range area.Polygons {
		coords := p.Coordinates()
		if len(coords) == 0 {
			continue
		}
		ring := make([][2]float64, 0, len(coords)+1)
		for _, c := range coords {
			ring = append(ring, [2]float64{c.Lng, c.Lat})
		}
		ring = append(ring, ring[0])
		fc.Features = append(fc.Features, territoryFeature{
			Type: "Feature",
			Properties: map[string]any{
				"event_id": area.EventID,
			},
			Geometry: territoryGeometry{
				Type:        "Polygon",
				Coordinates: [][][2]float64{ring},
			},
		})
	}
	return json.Marshal(fc)
}
