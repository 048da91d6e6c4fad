package wave

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wavefront/internal/types"
)

func baseState(progression float64, status types.EventStatus) types.EventState {
	return types.EventState{
		EventID:     "evt_equator",
		WaveID:      "w1",
		Status:      status,
		Progression: progression,
	}
}

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name       string
		prev       types.EventState
		next       types.EventState
		wantFields []string
		blocks     bool
	}{
		{
			name: "monotonic progression passes",
			prev: baseState(0.2, types.StatusRunning),
			next: baseState(0.4, types.StatusRunning),
		},
		{
			name: "equal progression passes",
			prev: baseState(0.4, types.StatusRunning),
			next: baseState(0.4, types.StatusRunning),
		},
		{
			name:       "progression regression is an error",
			prev:       baseState(0.6, types.StatusRunning),
			next:       baseState(0.4, types.StatusRunning),
			wantFields: []string{"progression"},
			blocks:     true,
		},
		{
			name:       "status regression is a warning",
			prev:       baseState(0.4, types.StatusRunning),
			next:       baseState(0.4, types.StatusSoon),
			wantFields: []string{"status"},
		},
		{
			name: "status may skip forward",
			prev: baseState(0, types.StatusNext),
			next: baseState(0.1, types.StatusRunning),
		},
		{
			name: "no previous state passes everything",
			prev: types.EventState{},
			next: baseState(0.1, types.StatusRunning),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := ValidateTransition(tt.prev, tt.next)
			require.Len(t, issues, len(tt.wantFields))
			for i, f := range tt.wantFields {
				assert.Equal(t, f, issues[i].Field)
			}
			assert.Equal(t, tt.blocks, BlocksPublish(issues))
		})
	}
}

func TestValidateTransitionHitNeverReverts(t *testing.T) {
	prev := baseState(0.6, types.StatusRunning)
	prev.UserHasBeenHit = true
	next := baseState(0.7, types.StatusRunning)

	issues := ValidateTransition(prev, next)
	require.Len(t, issues, 1)
	assert.Equal(t, "user_has_been_hit", issues[0].Field)
	assert.Equal(t, types.SeverityError, issues[0].Severity)
	assert.True(t, BlocksPublish(issues))
}

func TestValidateTransitionNewWaveResets(t *testing.T) {
	prev := baseState(0.9, types.StatusDone)
	prev.UserHasBeenHit = true

	next := baseState(0, types.StatusNext)
	next.WaveID = "w2"

	assert.Empty(t, ValidateTransition(prev, next))
}
