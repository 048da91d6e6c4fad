// Package types defines the domain records, enums, error taxonomy and
// collaborator interfaces shared across the wavefront engine. It has no
// dependencies on other engine packages so every layer can import it.
package types

import (
	"time"
)

// Position is a geographic coordinate (WGS84 degrees).
//
// Lat is constrained to [-90, 90] and Lng to (-180, 180]; use NormalizeLng
// before constructing positions from raw longitude arithmetic.
type Position struct {
	Lat float64 `json:"lat" yaml:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" yaml:"lng" validate:"gt=-180,max=180"`
}

// EventAreaRef identifies the territory of an event: a set of
// administrative-region identifiers, plus an optional explicit bounding box
// override used instead of the union of the region polygons.
type EventAreaRef struct {
	RegionIDs []string      `json:"region_ids" yaml:"region_ids" validate:"required,min=1,dive,required"`
	BBox      *BBoxOverride `json:"bbox,omitempty" yaml:"bbox,omitempty"`
}

// BBoxOverride is an explicit lat/lng rectangle in wire form.
type BBoxOverride struct {
	MinLat float64 `json:"min_lat" yaml:"min_lat" validate:"min=-90,max=90"`
	MinLng float64 `json:"min_lng" yaml:"min_lng" validate:"gt=-180,max=180"`
	MaxLat float64 `json:"max_lat" yaml:"max_lat" validate:"min=-90,max=90"`
	MaxLng float64 `json:"max_lng" yaml:"max_lng" validate:"gt=-180,max=180"`
}

// WaveDefinition is the static description of how an event's wavefront
// moves. ApproxDurationSec is authoritative for progression; the band
// geometry stays consistent with it within tolerance.
type WaveDefinition struct {
	Kind              WaveKind      `json:"kind" yaml:"kind" validate:"required,oneof=linear deep linear_split"`
	Speed             float64       `json:"speed" yaml:"speed" validate:"required,gt=0"` // meters per second
	Direction         WaveDirection `json:"direction" yaml:"direction" validate:"required,oneof=east west"`
	ApproxDurationSec int64         `json:"approx_duration_sec" yaml:"approx_duration_sec" validate:"required,gt=0"`
	NbSplits          int32         `json:"nb_splits,omitempty" yaml:"nb_splits,omitempty" validate:"min=0"`
}

// ApproxDuration returns the configured duration as a time.Duration.
func (w WaveDefinition) ApproxDuration() time.Duration {
	return time.Duration(w.ApproxDurationSec) * time.Second
}

// EventDefinition is the static definition of a globally synchronized wave
// event. Unknown fields are ignored on read; required fields are validated
// on read producing a named validation-error list rather than a panic.
type EventDefinition struct {
	ID        string    `json:"id" yaml:"id" validate:"required,max=100"`
	Name      string    `json:"name" yaml:"name" validate:"required,max=200"`
	WaveStart time.Time `json:"wave_start" yaml:"wave_start" validate:"required"`
	// Area and Wave are validated by diving into their fields; a struct-level
	// required tag would short-circuit on the zero value and hide the
	// per-field findings.
	Area EventAreaRef   `json:"area" yaml:"area"`
	Wave WaveDefinition `json:"wave" yaml:"wave"`

	// ValidationErrors carries load-time validation findings so callers can
	// render a best-effort degraded view instead of dropping the event.
	ValidationErrors []string `json:"validation_errors,omitempty" yaml:"-"`
}

// End returns the nominal end of the event's wave.
func (e *EventDefinition) End() time.Time {
	return e.WaveStart.Add(e.Wave.ApproxDuration())
}

// EventState is a point-in-time snapshot of the derived observer-facing
// state. Values are never mutated in place; each recomputation produces a
// new EventState and the caller decides whether to publish it.
type EventState struct {
	EventID string      `json:"event_id"`
	WaveID  string      `json:"wave_id"` // changes when a new wave occurrence starts
	Status  EventStatus `json:"status"`

	Progression        float64 `json:"progression"` // [0,1]
	UserIsInArea       bool    `json:"user_is_in_area"`
	UserIsGoingToBeHit bool    `json:"user_is_going_to_be_hit"`
	UserHasBeenHit     bool    `json:"user_has_been_hit"`

	// TimeBeforeHit is the remaining time until the front reaches the
	// observer's longitude; zero once hit or when no hit is expected.
	TimeBeforeHit time.Duration `json:"time_before_hit_ns"`
	HitTime       *time.Time    `json:"hit_time,omitempty"`

	// UserPositionRatio is how far through the covered area the observer
	// sits along the direction of travel, in [0,1].
	UserPositionRatio float64 `json:"user_position_ratio"`

	Timestamp time.Time `json:"timestamp"`
}

// ProgressionSnapshot is an append-only history entry retained in a bounded
// rolling buffer for diagnostics and tests. It never feeds decision logic.
type ProgressionSnapshot struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Progression  float64   `json:"progression"`
	UserPosition *Position `json:"user_position,omitempty"`
	IsInWaveArea bool      `json:"is_in_wave_area"`
}

// ObservationSchedule tells the location-polling layer how often to
// re-evaluate the observer's position and state.
type ObservationSchedule struct {
	ShouldObserve       bool             `json:"should_observe"`
	Continuous          bool             `json:"continuous"`
	Interval            time.Duration    `json:"interval_ns"`
	Phase               ObservationPhase `json:"phase"`
	NextObservationTime *time.Time       `json:"next_observation_time,omitempty"`
	Reason              string           `json:"reason"`
}

// StateValidationIssue reports a violated state-transition invariant.
type StateValidationIssue struct {
	Field    string        `json:"field"`
	Issue    string        `json:"issue"`
	Severity IssueSeverity `json:"severity"`
}
