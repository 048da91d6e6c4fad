package observe

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"wavefront/internal/poly"
	"wavefront/internal/types"
	"wavefront/internal/wave"
)

// TerritorySource supplies the territory polygons for an event. Implemented
// by the areas provider; sessions only need this one method.
type TerritorySource interface {
	Territory(ctx context.Context, eventID string) ([]*poly.Polygon, error)
}

// Session is one observer watching one event: a loop that polls the
// observer's position at the cadence the scheduler picks, recomputes the
// event state and publishes it through the manager. A session owns its
// polygon and front instances; no state is shared between sessions except
// the bounded geometry caches.
type Session struct {
	id        string
	tracker   *wave.Tracker
	manager   *wave.Manager
	scheduler *Scheduler
	clock     types.Clock
	positions types.PositionSource
	territory TerritorySource
	logger    *slog.Logger

	waveID string
}

// SessionConfig wires a session's collaborators. Clock defaults to the
// real clock; Scheduler to default cadence.
type SessionConfig struct {
	Tracker   *wave.Tracker
	Manager   *wave.Manager
	Positions types.PositionSource
	Territory TerritorySource
	Clock     types.Clock
	Scheduler *Scheduler
	Logger    *slog.Logger
}

// NewSession builds a session for one event-observer pair.
func NewSession(cfg SessionConfig) *Session {
	if cfg.Clock == nil {
		cfg.Clock = types.RealClock{}
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = NewScheduler(SchedulerConfig{})
	}
	return &Session{
		id:        uuid.NewString(),
		tracker:   cfg.Tracker,
		manager:   cfg.Manager,
		scheduler: cfg.Scheduler,
		clock:     cfg.Clock,
		positions: cfg.Positions,
		territory: cfg.Territory,
		logger:    cfg.Logger,
		waveID:    uuid.NewString(),
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Manager returns the session's state manager, the read surface for
// current state and subscriptions.
func (s *Session) Manager() *wave.Manager { return s.manager }

// Step runs one observation cycle: fetch position and territory, derive
// and publish state, and return the schedule for the next cycle. A failed
// position fetch degrades to unknown position; a failed territory fetch is
// an upstream error.
func (s *Session) Step(ctx context.Context) (types.ObservationSchedule, error) {
	now := s.clock.Now()
	def := s.tracker.Definition()

	var pos *types.Position
	p, ok, err := s.positions.Current(ctx)
	switch {
	case err != nil:
		s.logger.Warn("position fetch failed, treating as unknown",
			"session_id", s.id,
			"event_id", def.ID,
			"error", err,
		)
	case ok:
		pos = &p
	}

	territory, err := s.territory.Territory(ctx, def.ID)
	if err != nil {
		return types.ObservationSchedule{}, types.NewAppError(types.ErrCodeUpstreamArea, "fetching event territory", err)
	}

	inArea := false
	if pos != nil {
		traversed := s.tracker.Traversed(now, territory)
		inArea = s.tracker.UserInWaveArea(*pos, traversed)
	}

	st := wave.ComputeEventState(s.tracker, wave.StateInput{Now: now, WaveID: s.waveID, Position: pos}, inArea)
	if _, published := s.manager.Publish(st, pos); !published {
		st, _ = s.manager.Current()
	}
	return s.scheduler.Schedule(def, st, now), nil
}

// Run loops Step at the scheduled cadence until the schedule says to stop,
// the context is canceled or a collaborator fails.
func (s *Session) Run(ctx context.Context) error {
	for {
		sched, err := s.Step(ctx)
		if err != nil {
			return err
		}
		if !sched.ShouldObserve {
			s.logger.Info("observation finished",
				"session_id", s.id,
				"event_id", s.tracker.Definition().ID,
				"reason", sched.Reason,
			)
			return nil
		}
		if err := s.clock.Sleep(ctx, sched.Interval); err != nil {
			return err
		}
	}
}
