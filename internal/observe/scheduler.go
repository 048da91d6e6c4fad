// Package observe decides how often an observer's position and event state
// should be re-evaluated, and runs the per-session observation loop that
// ties the position source, the territory provider and the state pipeline
// together.
package observe

import (
	"fmt"
	"time"

	"wavefront/internal/types"
)

// Default polling cadence per phase and the windows that separate the
// pre-event phases. Distant events poll rarely; an imminent or passing
// front is watched continuously.
const (
	DefaultDistantInterval     = 30 * time.Minute
	DefaultApproachingInterval = 5 * time.Minute
	DefaultNearInterval        = time.Minute
	DefaultActiveInterval      = 5 * time.Second
	DefaultCriticalInterval    = time.Second

	DefaultApproachingWindow = 6 * time.Hour
	DefaultNearWindow        = 30 * time.Minute
	DefaultCriticalWindow    = 2 * time.Minute
)

// SchedulerConfig tunes the scheduler. The zero value selects defaults.
type SchedulerConfig struct {
	DistantInterval     time.Duration
	ApproachingInterval time.Duration
	NearInterval        time.Duration
	ActiveInterval      time.Duration
	CriticalInterval    time.Duration

	ApproachingWindow time.Duration
	NearWindow        time.Duration
	CriticalWindow    time.Duration
}

func (c SchedulerConfig) withDefaults() SchedulerConfig {
	def := func(v *time.Duration, d time.Duration) {
		if *v <= 0 {
			*v = d
		}
	}
	def(&c.DistantInterval, DefaultDistantInterval)
	def(&c.ApproachingInterval, DefaultApproachingInterval)
	def(&c.NearInterval, DefaultNearInterval)
	def(&c.ActiveInterval, DefaultActiveInterval)
	def(&c.CriticalInterval, DefaultCriticalInterval)
	def(&c.ApproachingWindow, DefaultApproachingWindow)
	def(&c.NearWindow, DefaultNearWindow)
	def(&c.CriticalWindow, DefaultCriticalWindow)
	return c
}

// Scheduler maps derived event state to an observation cadence. It holds
// no mutable state; the same inputs always produce the same schedule.
type Scheduler struct {
	cfg SchedulerConfig
}

// NewScheduler builds a scheduler with the given configuration.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	return &Scheduler{cfg: cfg.withDefaults()}
}

// Schedule derives the observation cadence for an event given its last
// computed state at the given time.
func (s *Scheduler) Schedule(def *types.EventDefinition, st types.EventState, now time.Time) types.ObservationSchedule {
	phase, reason := s.phase(def, st, now)

	switch phase {
	case types.PhaseInactive:
		return types.ObservationSchedule{
			ShouldObserve: false,
			Phase:         phase,
			Reason:        reason,
		}
	case types.PhaseActive, types.PhaseCritical:
		return types.ObservationSchedule{
			ShouldObserve: true,
			Continuous:    true,
			Interval:      s.interval(phase),
			Phase:         phase,
			Reason:        reason,
		}
	default:
		iv := s.interval(phase)
		next := now.Add(iv)
		return types.ObservationSchedule{
			ShouldObserve:       true,
			Interval:            iv,
			Phase:               phase,
			NextObservationTime: &next,
			Reason:              reason,
		}
	}
}

func (s *Scheduler) interval(p types.ObservationPhase) time.Duration {
	switch p {
	case types.PhaseDistant:
		return s.cfg.DistantInterval
	case types.PhaseApproaching:
		return s.cfg.ApproachingInterval
	case types.PhaseNear:
		return s.cfg.NearInterval
	case types.PhaseActive:
		return s.cfg.ActiveInterval
	case types.PhaseCritical:
		return s.cfg.CriticalInterval
	default:
		return s.cfg.DistantInterval
	}
}

func (s *Scheduler) phase(def *types.EventDefinition, st types.EventState, now time.Time) (types.ObservationPhase, string) {
	switch st.Status {
	case types.StatusDone:
		return types.PhaseInactive, "wave completed"
	case types.StatusUndefined:
		return types.PhaseInactive, "event has no wave start"
	case types.StatusRunning:
		if st.UserIsGoingToBeHit && st.TimeBeforeHit > 0 && st.TimeBeforeHit <= s.cfg.CriticalWindow {
			return types.PhaseCritical, fmt.Sprintf("front arrives in %s", st.TimeBeforeHit.Round(time.Second))
		}
		return types.PhaseActive, "wave in progress"
	}

	until := def.WaveStart.Sub(now)
	switch {
	case until <= s.cfg.NearWindow:
		return types.PhaseNear, fmt.Sprintf("wave starts in %s", until.Round(time.Second))
	case until <= s.cfg.ApproachingWindow:
		return types.PhaseApproaching, fmt.Sprintf("wave starts in %s", until.Round(time.Minute))
	default:
		return types.PhaseDistant, fmt.Sprintf("wave starts in %s", until.Round(time.Hour))
	}
}
