package observe

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wavefront/internal/geo"
	"wavefront/internal/poly"
	"wavefront/internal/types"
	"wavefront/internal/wave"
)

// simClock advances instantly on Sleep so session loops run at test speed.
type simClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *simClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *simClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
	return nil
}

type staticTerritory struct {
	polys []*poly.Polygon
	err   error
}

func (s staticTerritory) Territory(context.Context, string) ([]*poly.Polygon, error) {
	return s.polys, s.err
}

type failingPositions struct{}

func (failingPositions) Current(context.Context) (types.Position, bool, error) {
	return types.Position{}, false, errors.New("gps unavailable")
}

func sessionEvent() *types.EventDefinition {
	return &types.EventDefinition{
		ID:        "evt_session",
		Name:      "Session test",
		WaveStart: t0,
		Area:      types.EventAreaRef{RegionIDs: []string{"r1"}},
		Wave: types.WaveDefinition{
			Kind:              types.WaveLinear,
			Speed:             5,
			Direction:         types.DirectionEast,
			ApproxDurationSec: 600,
		},
	}
}

func newTestSession(clock types.Clock, positions types.PositionSource, territory TerritorySource) *Session {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	area := geo.NewBoundingBox(types.Position{Lat: -10, Lng: 0}, types.Position{Lat: 10, Lng: 10})
	tracker := wave.NewTracker(sessionEvent(), area, wave.TrackerConfig{})
	return NewSession(SessionConfig{
		Tracker:   tracker,
		Manager:   wave.NewManager(logger),
		Positions: positions,
		Territory: territory,
		Clock:     clock,
		Logger:    logger,
	})
}

func testTerritory() staticTerritory {
	return staticTerritory{polys: []*poly.Polygon{poly.FromCoordinates([]types.Position{
		{Lat: -5, Lng: 0},
		{Lat: 5, Lng: 0},
		{Lat: 5, Lng: 10},
		{Lat: -5, Lng: 10},
	})}}
}

// observer sits where the front arrives 600 seconds in, right at the
// configured duration.
func sessionObserver() types.Position {
	return types.Position{Lat: 0, Lng: geo.MetersToLonWidth(5.0*600, 0)}
}

func TestSessionStepMidWave(t *testing.T) {
	clock := &simClock{now: t0.Add(300 * time.Second)}
	s := newTestSession(clock, types.StaticPositionSource{Position: sessionObserver()}, testTerritory())

	sched, err := s.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.PhaseActive, sched.Phase)
	assert.True(t, sched.Continuous)

	st, ok := s.Manager().Current()
	require.True(t, ok)
	assert.Equal(t, types.StatusRunning, st.Status)
	assert.InDelta(t, 0.5, st.Progression, 1e-9)
	assert.True(t, st.UserIsGoingToBeHit)
	assert.False(t, st.UserHasBeenHit)
	// The front has not yet swept the observer's longitude.
	assert.False(t, st.UserIsInArea)
}

func TestSessionStepCritical(t *testing.T) {
	clock := &simClock{now: t0.Add(540 * time.Second)}
	s := newTestSession(clock, types.StaticPositionSource{Position: sessionObserver()}, testTerritory())

	sched, err := s.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.PhaseCritical, sched.Phase)
	assert.True(t, sched.Continuous)
	assert.Equal(t, DefaultCriticalInterval, sched.Interval)
}

func TestSessionRunUntilDone(t *testing.T) {
	clock := &simClock{now: t0.Add(595 * time.Second)}
	s := newTestSession(clock, types.StaticPositionSource{Position: sessionObserver()}, testTerritory())

	require.NoError(t, s.Run(context.Background()))

	st, ok := s.Manager().Current()
	require.True(t, ok)
	assert.Equal(t, types.StatusDone, st.Status)
	assert.True(t, st.UserHasBeenHit)
	assert.InDelta(t, 1.0, st.Progression, 1e-9)
	assert.Positive(t, s.Manager().History().Len())
}

func TestSessionRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	clock := &simClock{now: t0.Add(10 * time.Second)}
	s := newTestSession(clock, types.StaticPositionSource{Position: sessionObserver()}, testTerritory())

	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSessionPositionFailureDegrades(t *testing.T) {
	clock := &simClock{now: t0.Add(100 * time.Second)}
	s := newTestSession(clock, failingPositions{}, testTerritory())

	sched, err := s.Step(context.Background())
	require.NoError(t, err)
	assert.True(t, sched.ShouldObserve)

	st, ok := s.Manager().Current()
	require.True(t, ok)
	assert.False(t, st.UserIsInArea)
	assert.False(t, st.UserIsGoingToBeHit)
	assert.Nil(t, st.HitTime)
}

func TestSessionTerritoryFailure(t *testing.T) {
	clock := &simClock{now: t0.Add(100 * time.Second)}
	s := newTestSession(clock, types.StaticPositionSource{Position: sessionObserver()},
		staticTerritory{err: errors.New("store down")})

	_, err := s.Step(context.Background())
	require.Error(t, err)
	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeUpstreamArea, appErr.Code)
}
