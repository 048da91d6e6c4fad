package areas

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"

	"wavefront/internal/poly"
	"wavefront/internal/types"
)

// Provider resolves and caches event territories. Concurrent resolutions
// of the same event collapse into one store fetch; repeated store failures
// trip a circuit breaker so a broken backend degrades fast instead of
// piling up requests. ClearCache drops everything when the underlying data
// changes.
type Provider struct {
	store   Store
	events  EventSource
	logger  *slog.Logger
	breaker *gobreaker.CircuitBreaker[[]Region]
	group   singleflight.Group

	mu    sync.Mutex
	cache map[string]*EventArea
}

// NewProvider builds a provider over the given store and event source.
func NewProvider(store Store, events EventSource, logger *slog.Logger) *Provider {
	cb := gobreaker.NewCircuitBreaker[[]Region](gobreaker.Settings{
		Name:     "area-store",
		Interval: 60 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})
	return &Provider{
		store:   store,
		events:  events,
		logger:  logger,
		breaker: cb,
		cache:   make(map[string]*EventArea),
	}
}

// Events returns the event definitions from the underlying source.
func (p *Provider) Events(ctx context.Context) ([]types.EventDefinition, error) {
	return p.events.Events(ctx)
}

// Event returns one event definition by id.
func (p *Provider) Event(ctx context.Context, id string) (*types.EventDefinition, error) {
	return p.events.Event(ctx, id)
}

// AreaFor resolves the territory for an event definition, from cache when
// possible.
func (p *Provider) AreaFor(ctx context.Context, def *types.EventDefinition) (*EventArea, error) {
	p.mu.Lock()
	if area, ok := p.cache[def.ID]; ok {
		p.mu.Unlock()
		return area, nil
	}
	p.mu.Unlock()

	v, err, _ := p.group.Do(def.ID, func() (any, error) {
		regions, err := p.breaker.Execute(func() ([]Region, error) {
			return p.store.Regions(ctx, def.Area.RegionIDs)
		})
		if err != nil {
			return nil, p.mapFetchError(def.ID, err)
		}
		area := buildArea(def, regions)
		p.mu.Lock()
		p.cache[def.ID] = area
		p.mu.Unlock()
		return area, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*EventArea), nil
}

// Territory returns the territory polygons for an event id. This is the
// seam the observation session consumes.
func (p *Provider) Territory(ctx context.Context, eventID string) ([]*poly.Polygon, error) {
	def, err := p.events.Event(ctx, eventID)
	if err != nil {
		return nil, err
	}
	area, err := p.AreaFor(ctx, def)
	if err != nil {
		return nil, err
	}
	return area.Polygons, nil
}

// ClearCache drops all cached territories. Callers invoke it when the
// underlying region data changes; the next resolution refetches.
func (p *Provider) ClearCache() {
	p.mu.Lock()
	p.cache = make(map[string]*EventArea)
	p.mu.Unlock()
	p.logger.Info("area cache cleared")
}

func (p *Provider) mapFetchError(eventID string, err error) error {
	var appErr *types.AppError
	if errors.As(err, &appErr) && appErr.Code == types.ErrCodeNotFoundArea {
		return err
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return types.NewAppError(types.ErrCodeUpstreamArea,
			"area store circuit open", err)
	}
	return types.NewAppError(types.ErrCodeUpstreamArea,
		fmt.Sprintf("fetching regions for event %s", eventID), err)
}
