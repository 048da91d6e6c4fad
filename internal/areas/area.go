// Package areas resolves an event's territory: the administrative region
// polygons it covers, their union bounding box and centroid. Territories
// come from a Postgres repository or a YAML catalog and are cached per
// event behind a circuit breaker.
package areas

import (
	"context"

	"wavefront/internal/geo"
	"wavefront/internal/poly"
	"wavefront/internal/types"
)

// Region is one administrative region: an id, a display name and one or
// more boundary rings (outer rings only; holes are out of scope).
type Region struct {
	ID    string             `json:"id" yaml:"id"`
	Name  string             `json:"name" yaml:"name"`
	Rings [][]types.Position `json:"rings" yaml:"rings"`
}

// EventArea is the resolved territory of one event.
type EventArea struct {
	EventID   string
	RegionIDs []string
	Polygons  []*poly.Polygon
	BBox      geo.BoundingBox
	Centroid  types.Position
}

// Store supplies region boundary data. Implemented by the Postgres
// repository and the YAML catalog.
type Store interface {
	// Regions returns the regions for the given ids. A missing id is an
	// ErrCodeNotFoundArea error, not a silent omission.
	Regions(ctx context.Context, ids []string) ([]Region, error)
}

// EventSource supplies event definitions.
type EventSource interface {
	Events(ctx context.Context) ([]types.EventDefinition, error)
	Event(ctx context.Context, id string) (*types.EventDefinition, error)
}

// buildArea assembles an EventArea from a definition and its regions. The
// explicit bbox override, when present, wins over the polygon union.
func buildArea(def *types.EventDefinition, regions []Region) *EventArea {
	var polys []*poly.Polygon
	for _, r := range regions {
		for _, ring := range r.Rings {
			p := poly.FromCoordinates(ring)
			if p.IsNotEmpty() {
				polys = append(polys, p)
			}
		}
	}
	bbox := poly.UnionBBox(polys)
	if def.Area.BBox != nil {
		bbox = geo.FromOverride(def.Area.BBox)
	}
	return &EventArea{
		EventID:   def.ID,
		RegionIDs: append([]string(nil), def.Area.RegionIDs...),
		Polygons:  polys,
		BBox:      bbox,
		Centroid:  bbox.Center(),
	}
}
