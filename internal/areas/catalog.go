package areas

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"wavefront/internal/types"
)

// catalogFile is the on-disk shape of a YAML event catalog: the event
// definitions plus the region boundaries they reference. Used for fixtures,
// tests and deployments without a database.
type catalogFile struct {
	Events  []types.EventDefinition `yaml:"events"`
	Regions []Region                `yaml:"regions"`
}

// CatalogStore serves events and regions from a YAML catalog loaded once at
// startup. Read-only after load.
type CatalogStore struct {
	events  []types.EventDefinition
	byID    map[string]*types.EventDefinition
	regions map[string]Region
}

// LoadCatalog reads and validates a YAML catalog. Definitions that fail
// validation are kept with their findings attached so callers can render a
// degraded view; only an unreadable or unparsable file is an error.
func LoadCatalog(path string) (*CatalogStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalStore, fmt.Sprintf("reading catalog %s", path), err)
	}
	return ParseCatalog(raw)
}

// ParseCatalog builds a CatalogStore from raw YAML.
func ParseCatalog(raw []byte) (*CatalogStore, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, types.NewAppError(types.ErrCodeInternalStore, "parsing catalog", err)
	}

	s := &CatalogStore{
		events:  file.Events,
		byID:    make(map[string]*types.EventDefinition, len(file.Events)),
		regions: make(map[string]Region, len(file.Regions)),
	}
	for i := range s.events {
		ev := &s.events[i]
		ev.ValidationErrors = types.ValidateEventDefinition(ev)
		s.byID[ev.ID] = ev
	}
	for _, r := range file.Regions {
		s.regions[r.ID] = r
	}
	return s, nil
}

// Events returns all catalog events, validation findings included.
func (s *CatalogStore) Events(context.Context) ([]types.EventDefinition, error) {
	out := make([]types.EventDefinition, len(s.events))
	copy(out, s.events)
	return out, nil
}

// Event returns one event by id.
func (s *CatalogStore) Event(_ context.Context, id string) (*types.EventDefinition, error) {
	ev, ok := s.byID[id]
	if !ok {
		return nil, types.NewAppError(types.ErrCodeNotFoundEvent, fmt.Sprintf("event %s not in catalog", id), nil)
	}
	cp := *ev
	return &cp, nil
}

// Regions returns the regions for the given ids.
func (s *CatalogStore) Regions(_ context.Context, ids []string) ([]Region, error) {
	out := make([]Region, 0, len(ids))
	for _, id := range ids {
		r, ok := s.regions[id]
		if !ok {
			return nil, types.NewAppError(types.ErrCodeNotFoundArea, fmt.Sprintf("region %s not in catalog", id), nil)
		}
		out = append(out, r)
	}
	return out, nil
}
