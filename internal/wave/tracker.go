// Package wave derives observer-facing event state from an event
// definition, a clock and an observer position: wave progression, hit
// timing, status, transition validation and a bounded progression history.
package wave

import (
	"time"

	"wavefront/internal/front"
	"wavefront/internal/geo"
	"wavefront/internal/poly"
	"wavefront/internal/types"
)

// DefaultSoonWindow is how long before the wave start an event is reported
// as "soon" rather than "next".
const DefaultSoonWindow = time.Hour

// Tracker computes wave progression and hit timing for one event. It owns
// the event's wavefront generator and is safe for concurrent reads; it
// never mutates the definition.
type Tracker struct {
	def        *types.EventDefinition
	gen        *front.EarthAdaptedSpeedLongitude
	soonWindow time.Duration
}

// TrackerConfig tunes a tracker. The zero value selects defaults.
type TrackerConfig struct {
	SoonWindow time.Duration
	Speed      front.SpeedConfig
}

// NewTracker builds a tracker for the event over its covered area.
func NewTracker(def *types.EventDefinition, area geo.BoundingBox, cfg TrackerConfig) *Tracker {
	if cfg.SoonWindow <= 0 {
		cfg.SoonWindow = DefaultSoonWindow
	}
	return &Tracker{
		def:        def,
		gen:        front.NewEarthAdaptedSpeedLongitude(area, def.Wave.Speed, def.Wave.Direction, cfg.Speed),
		soonWindow: cfg.SoonWindow,
	}
}

// Definition returns the tracked event definition.
func (t *Tracker) Definition() *types.EventDefinition { return t.def }

// Area returns the covered bounding area.
func (t *Tracker) Area() geo.BoundingBox { return t.gen.Area() }

// Progression returns how far the wave has advanced through its configured
// duration at the given time, clamped to [0, 1]. 1 means done.
func (t *Tracker) Progression(now time.Time) float64 {
	total := t.def.Wave.ApproxDuration()
	if total <= 0 {
		return 0
	}
	p := float64(now.Sub(t.def.WaveStart)) / float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// FrontAt returns the wavefront's composed longitude at the given time.
// Before the wave start the front sits on the start meridian.
func (t *Tracker) FrontAt(now time.Time) *front.ComposedLongitude {
	elapsed := now.Sub(t.def.WaveStart)
	if elapsed < 0 {
		elapsed = 0
	}
	return t.gen.WithProgression(elapsed)
}

// SplitAt splits the given territory polygons along the wavefront at the
// given time.
func (t *Tracker) SplitAt(now time.Time, territory []*poly.Polygon) front.SplitResult {
	return front.SplitAllByLongitude(territory, t.FrontAt(now))
}

// Traversed returns the territory pieces the front has already swept over
// at the given time.
func (t *Tracker) Traversed(now time.Time, territory []*poly.Polygon) []*poly.Polygon {
	return front.TraversedRegion(t.SplitAt(now, territory), t.def.Wave.Direction)
}

// UserInWaveArea reports whether the observer stands in any of the given
// region pieces. Containment runs on the grid-accelerated path; pieces are
// typically the traversed region, so "in the area" here means swept over,
// not merely inside the event territory.
func (t *Tracker) UserInWaveArea(pos types.Position, region []*poly.Polygon) bool {
	for _, p := range region {
		if poly.ContainsPositionOptimized(p, pos) {
			return true
		}
	}
	return false
}

// HitTime returns when the front reaches the observer's longitude at the
// observer's latitude. ok is false when the observer is outside the
// covered area.
func (t *Tracker) HitTime(pos types.Position) (time.Time, bool) {
	area := t.gen.Area()
	if !area.ContainsLatLng(pos.Lat, pos.Lng) {
		return time.Time{}, false
	}
	dist := t.distanceFromStart(pos)
	if dist < 0 {
		dist = 0
	}
	if t.def.Wave.Speed <= 0 {
		return time.Time{}, false
	}
	seconds := dist / t.def.Wave.Speed
	return t.def.WaveStart.Add(time.Duration(seconds * float64(time.Second))), true
}

// PositionRatio returns how far through the covered area the observer sits
// along the direction of travel, in [0, 1].
func (t *Tracker) PositionRatio(pos types.Position) float64 {
	span := t.spanAtLatitude(pos.Lat)
	if span <= 0 {
		return 0
	}
	r := t.distanceFromStart(pos) / span
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// StatusAt derives the coarse event status at the given time.
func (t *Tracker) StatusAt(now time.Time) types.EventStatus {
	switch {
	case t.def.WaveStart.IsZero():
		return types.StatusUndefined
	case !now.Before(t.def.End()):
		return types.StatusDone
	case !now.Before(t.def.WaveStart):
		return types.StatusRunning
	case t.def.WaveStart.Sub(now) <= t.soonWindow:
		return types.StatusSoon
	default:
		return types.StatusNext
	}
}

// distanceFromStart is the ground distance from the start meridian to the
// observer's longitude at the observer's latitude, signed along the
// direction of travel.
func (t *Tracker) distanceFromStart(pos types.Position) float64 {
	d := geo.LngDelta(t.gen.StartLng(), pos.Lng)
	if t.def.Wave.Direction == types.DirectionWest {
		d = -d
	}
	return geo.LonWidthDistance(d, pos.Lat) * sign(d)
}

// spanAtLatitude is the ground width of the covered area at a latitude.
func (t *Tracker) spanAtLatitude(lat float64) float64 {
	d := geo.LngDelta(t.gen.StartLng(), t.gen.FarLng())
	if t.def.Wave.Direction == types.DirectionWest {
		d = -d
	}
	return geo.LonWidthDistance(d, lat)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
