package wave

import (
	"time"

	"wavefront/internal/types"
)

// StateInput is everything the state computation needs besides the event
// itself. Position is nil when the observer's location is unknown; the
// computation degrades to area-less state rather than guessing.
type StateInput struct {
	Now      time.Time
	WaveID   string
	Position *types.Position
}

// ComputeEventState derives the observer-facing state for one event at one
// instant. It is a pure function of the tracker's definition and its
// inputs: identical inputs produce identical states, timestamp aside, so
// callers can recompute freely and diff against the published state.
func ComputeEventState(t *Tracker, in StateInput, userInArea bool) types.EventState {
	st := types.EventState{
		EventID:      t.def.ID,
		WaveID:       in.WaveID,
		Status:       t.StatusAt(in.Now),
		Progression:  t.Progression(in.Now),
		UserIsInArea: userInArea,
		Timestamp:    in.Now,
	}
	if in.Position == nil {
		return st
	}

	hitAt, ok := t.HitTime(*in.Position)
	if !ok {
		return st
	}
	st.HitTime = &hitAt
	st.UserPositionRatio = t.PositionRatio(*in.Position)

	switch {
	case !in.Now.Before(hitAt):
		st.UserHasBeenHit = true
	case st.Status != types.StatusDone:
		st.UserIsGoingToBeHit = true
		st.TimeBeforeHit = hitAt.Sub(in.Now)
	}
	return st
}
