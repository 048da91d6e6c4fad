package api

import (
	"encoding/json"
	"time"

	"wavefront/internal/wave"
)

type lineFeature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   lineGeometry   `json:"geometry"`
}

type lineGeometry struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// frontLineGeoJSON renders the front curve at the given instant as a
// GeoJSON LineString feature, south to north, coordinates [lng, lat].
func frontLineGeoJSON(tr *wave.Tracker, at time.Time) ([]byte, error) {
	curve := tr.FrontAt(at)

	coords := make([][2]float64, 0, curve.Size())
	for i := 0; i < curve.Size(); i++ {
		lat, lng := curve.At(i)
		coords = append(coords, [2]float64{lng, lat})
	}

	f := lineFeature{
		Type: "Feature",
		Properties: map[string]any{
			"event_id":    tr.Definition().ID,
			"at":          at.UTC().Format(time.RFC3339),
			"progression": tr.Progression(at),
			"status":      tr.StatusAt(at),
		},
		Geometry: lineGeometry{
			Type:        "LineString",
			Coordinates: coords,
		},
	}
	return json.Marshal(f)
}
