package wave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wavefront/internal/types"
)

func TestComputeEventStateScenario(t *testing.T) {
	tr := scenarioTracker()
	pos := observerAt600()

	stateAt := func(at time.Time) types.EventState {
		return ComputeEventState(tr, StateInput{Now: at, WaveID: "w1", Position: &pos}, true)
	}

	t.Run("before the hit", func(t *testing.T) {
		st := stateAt(t0.Add(300 * time.Second))
		assert.Equal(t, "evt_equator", st.EventID)
		assert.Equal(t, types.StatusRunning, st.Status)
		assert.InDelta(t, 0.5, st.Progression, 1e-9)
		assert.True(t, st.UserIsInArea)
		assert.True(t, st.UserIsGoingToBeHit)
		assert.False(t, st.UserHasBeenHit)
		require.NotNil(t, st.HitTime)
		assert.WithinDuration(t, t0.Add(600*time.Second), *st.HitTime, time.Second)
	})

	t.Run("time before hit shrinks to zero", func(t *testing.T) {
		var last time.Duration = 1 << 62
		for _, offset := range []time.Duration{100, 250, 400, 550} {
			st := stateAt(t0.Add(offset * time.Second))
			require.False(t, st.UserHasBeenHit)
			assert.Less(t, st.TimeBeforeHit, last)
			last = st.TimeBeforeHit
		}
		st := stateAt(t0.Add(600 * time.Second))
		assert.True(t, st.UserHasBeenHit)
		assert.Zero(t, st.TimeBeforeHit)
	})

	t.Run("hit stays set after the pass", func(t *testing.T) {
		st := stateAt(t0.Add(20 * time.Minute))
		assert.True(t, st.UserHasBeenHit)
		assert.False(t, st.UserIsGoingToBeHit)
		assert.Equal(t, types.StatusDone, st.Status)
		assert.InDelta(t, 1.0, st.Progression, 1e-9)
	})
}

func TestComputeEventStateIsPure(t *testing.T) {
	tr := scenarioTracker()
	pos := observerAt600()
	in := StateInput{Now: t0.Add(200 * time.Second), WaveID: "w1", Position: &pos}

	a := ComputeEventState(tr, in, true)
	b := ComputeEventState(tr, in, true)
	assert.Equal(t, a, b)
}

func TestComputeEventStateUnknownPosition(t *testing.T) {
	tr := scenarioTracker()
	st := ComputeEventState(tr, StateInput{Now: t0.Add(time.Minute), WaveID: "w1"}, false)

	assert.False(t, st.UserIsInArea)
	assert.False(t, st.UserIsGoingToBeHit)
	assert.False(t, st.UserHasBeenHit)
	assert.Nil(t, st.HitTime)
	assert.Zero(t, st.UserPositionRatio)
	assert.InDelta(t, 0.1, st.Progression, 1e-9)
}

func TestComputeEventStateObserverOutsideArea(t *testing.T) {
	tr := scenarioTracker()
	pos := types.Position{Lat: 70, Lng: 5}
	st := ComputeEventState(tr, StateInput{Now: t0.Add(time.Minute), WaveID: "w1", Position: &pos}, false)

	assert.Nil(t, st.HitTime)
	assert.False(t, st.UserIsGoingToBeHit)
}
