package types

// EventStatus represents the lifecycle state of a wave event.
//
// Statuses advance in a fixed order: undefined -> next -> soon -> running
// -> done. Skipping forward is allowed (a poll cycle may miss the "soon"
// window entirely); moving backward is a state validation issue.
type EventStatus string

const (
	StatusUndefined EventStatus = "undefined"
	StatusNext      EventStatus = "next"
	StatusSoon      EventStatus = "soon"
	StatusRunning   EventStatus = "running"
	StatusDone      EventStatus = "done"
)

// statusRank maps each status to its position in the fixed ordering.
var statusRank = map[EventStatus]int{
	StatusUndefined: 0,
	StatusNext:      1,
	StatusSoon:      2,
	StatusRunning:   3,
	StatusDone:      4,
}

// Rank returns the ordinal of the status in the fixed lifecycle order,
// or -1 for an unknown status.
func (s EventStatus) Rank() int {
	r, ok := statusRank[s]
	if !ok {
		return -1
	}
	return r
}

// WaveDirection is the direction of travel of the wavefront.
type WaveDirection string

const (
	DirectionEast WaveDirection = "east"
	DirectionWest WaveDirection = "west"
)

// WaveKind identifies the wave propagation model.
type WaveKind string

const (
	WaveLinear      WaveKind = "linear"
	WaveDeep        WaveKind = "deep"
	WaveLinearSplit WaveKind = "linear_split"
)

// ObservationPhase is a coarse bucket driving how often observer state is
// re-evaluated. Derived from time-to-event and current progression.
type ObservationPhase string

const (
	PhaseDistant     ObservationPhase = "distant"
	PhaseApproaching ObservationPhase = "approaching"
	PhaseNear        ObservationPhase = "near"
	PhaseActive      ObservationPhase = "active"
	PhaseCritical    ObservationPhase = "critical"
	PhaseInactive    ObservationPhase = "inactive"
)

// IssueSeverity classifies a state validation issue.
//
// Severity "error" blocks publishing the offending state (the previous
// published state is retained); "warning" is logged and the state is
// published anyway.
type IssueSeverity string

const (
	SeverityWarning IssueSeverity = "warning"
	SeverityError   IssueSeverity = "error"
)
