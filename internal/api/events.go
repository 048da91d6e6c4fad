package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/klauspost/compress/gzhttp"

	"wavefront/internal/areas"
	"wavefront/internal/config"
	"wavefront/internal/front"
	"wavefront/internal/observe"
	"wavefront/internal/types"
	"wavefront/internal/wave"
)

// AreaService defines the provider contract the event handler depends on.
// Matches areas.Provider but is declared locally per the handler injection
// pattern so tests can substitute fakes.
type AreaService interface {
	Events(ctx context.Context) ([]types.EventDefinition, error)
	Event(ctx context.Context, id string) (*types.EventDefinition, error)
	AreaFor(ctx context.Context, def *types.EventDefinition) (*areas.EventArea, error)
}

// EngineSettings carries the tracker tuning shared by all request-scoped
// trackers.
type EngineSettings struct {
	SoonWindow    time.Duration
	BandTolerance float64
	MinBandHeight float64
	MaxBandHeight float64
}

func (e EngineSettings) trackerConfig() wave.TrackerConfig {
	return wave.TrackerConfig{
		SoonWindow: e.SoonWindow,
		Speed: front.SpeedConfig{
			BandTolerance: e.BandTolerance,
			MinBandHeight: e.MinBandHeight,
			MaxBandHeight: e.MaxBandHeight,
		},
	}
}

// EventHandler maps HTTP requests to the event engine. Trackers are cheap
// to build, so each request derives its own from the event definition
// rather than sharing mutable state.
type EventHandler struct {
	service   AreaService
	engine    EngineSettings
	scheduler *observe.Scheduler
	clock     types.Clock
	logger    *slog.Logger
}

// NewEventHandler creates an EventHandler with the provided dependencies.
func NewEventHandler(
	svc AreaService,
	engine EngineSettings,
	obsCfg config.ObserveConfig,
	clock types.Clock,
	logger *slog.Logger,
) *EventHandler {
	if clock == nil {
		clock = types.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EventHandler{
		service: svc,
		engine:  engine,
		scheduler: observe.NewScheduler(observe.SchedulerConfig{
			DistantInterval:     obsCfg.DistantInterval,
			ApproachingInterval: obsCfg.ApproachingInterval,
			NearInterval:        obsCfg.NearInterval,
			ActiveInterval:      obsCfg.ActiveInterval,
			CriticalInterval:    obsCfg.CriticalInterval,
		}),
		clock:  clock,
		logger: logger,
	}
}

// RegisterRoutes mounts the event endpoints onto the mux. The GeoJSON
// endpoints carry the largest payloads and are served gzip-compressed.
func (h *EventHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListEvents)
	r.Route("/{eventID}", func(r chi.Router) {
		r.Get("/", h.HandleGetEvent)
		r.Get("/state", h.HandleGetState)
		r.Get("/schedule", h.HandleGetSchedule)
		r.Method(http.MethodGet, "/area.geojson", gzhttp.GzipHandler(http.HandlerFunc(h.HandleAreaGeoJSON)))
		r.Method(http.MethodGet, "/front.geojson", gzhttp.GzipHandler(http.HandlerFunc(h.HandleFrontGeoJSON)))
		r.Get("/stream", h.HandleStream)
	})
}

// HandleListEvents handles GET /v1/events.
func (h *EventHandler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.Events(r.Context())
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, r, http.StatusOK, APIResponse{Data: events})
}

// HandleGetEvent handles GET /v1/events/{eventID}.
func (h *EventHandler) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	def, err := h.service.Event(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, r, http.StatusOK, APIResponse{Data: def})
}

// HandleGetState handles GET /v1/events/{eventID}/state.
// The observer position arrives as lat/lng query parameters; both are
// optional as a pair, and an absent position yields a state with all
// position-derived fields unknown.
func (h *EventHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	pos, err := parsePosition(r)
	if err != nil {
		Error(w, r, err)
		return
	}

	st, _, err := h.stateFor(r.Context(), chi.URLParam(r, "eventID"), pos)
	if err != nil {
		Error(w, r, err)
		return
	}
	JSON(w, r, http.StatusOK, APIResponse{Data: st})
}

// HandleGetSchedule handles GET /v1/events/{eventID}/schedule. It derives
// the observation cadence the client should adopt for its position.
func (h *EventHandler) HandleGetSchedule(w http.ResponseWriter, r *http.Request) {
	pos, err := parsePosition(r)
	if err != nil {
		Error(w, r, err)
		return
	}

	eventID := chi.URLParam(r, "eventID")
	st, tr, err := h.stateFor(r.Context(), eventID, pos)
	if err != nil {
		Error(w, r, err)
		return
	}

	sched := h.scheduler.Schedule(tr.Definition(), st, h.clock.Now())
	JSON(w, r, http.StatusOK, APIResponse{Data: sched})
}

// HandleAreaGeoJSON handles GET /v1/events/{eventID}/area.geojson and
// returns the event territory as a GeoJSON FeatureCollection.
func (h *EventHandler) HandleAreaGeoJSON(w http.ResponseWriter, r *http.Request) {
	area, _, err := h.areaFor(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		Error(w, r, err)
		return
	}

	body, err := areas.TerritoryGeoJSON(area)
	if err != nil {
		Error(w, r, types.NewAppError(types.ErrCodeInternalUnexpected, "encoding territory", err))
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// HandleFrontGeoJSON handles GET /v1/events/{eventID}/front.geojson and
// returns the front curve at time t (query parameter, RFC3339, defaulting
// to now) as a GeoJSON LineString feature.
func (h *EventHandler) HandleFrontGeoJSON(w http.ResponseWriter, r *http.Request) {
	at := h.clock.Now()
	if tStr := r.URL.Query().Get("t"); tStr != "" {
		parsed, err := time.Parse(time.RFC3339, tStr)
		if err != nil {
			Error(w, r, types.NewAppError(
				types.ErrCodeValidationMissingField,
				"t must be a valid RFC3339 timestamp",
				nil,
			))
			return
		}
		at = parsed.UTC()
	}

	area, def, err := h.areaFor(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		Error(w, r, err)
		return
	}

	tr := wave.NewTracker(def, area.BBox, h.engine.trackerConfig())
	body, err := frontLineGeoJSON(tr, at)
	if err != nil {
		Error(w, r, types.NewAppError(types.ErrCodeInternalUnexpected, "encoding front", err))
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// areaFor resolves the definition and its materialized area.
func (h *EventHandler) areaFor(ctx context.Context, eventID string) (*areas.EventArea, *types.EventDefinition, error) {
	def, err := h.service.Event(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	area, err := h.service.AreaFor(ctx, def)
	if err != nil {
		return nil, nil, err
	}
	return area, def, nil
}

// stateFor builds a request-scoped tracker and derives the observer state.
func (h *EventHandler) stateFor(ctx context.Context, eventID string, pos *types.Position) (types.EventState, *wave.Tracker, error) {
	area, def, err := h.areaFor(ctx, eventID)
	if err != nil {
		return types.EventState{}, nil, err
	}

	tr := wave.NewTracker(def, area.BBox, h.engine.trackerConfig())
	now := h.clock.Now()

	inArea := false
	if pos != nil {
		traversed := tr.Traversed(now, area.Polygons)
		inArea = tr.UserInWaveArea(*pos, traversed)
	}

	st := wave.ComputeEventState(tr, wave.StateInput{
		Now:      now,
		WaveID:   waveID(def),
		Position: pos,
	}, inArea)

	return st, tr, nil
}

// waveID derives a stable identifier for the current wave occurrence. The
// endpoint is stateless, so the id is a function of the event and its
// start time rather than a per-session token.
func waveID(def *types.EventDefinition) string {
	return def.ID + "@" + def.WaveStart.UTC().Format(time.RFC3339)
}

// parsePosition reads the optional lat/lng query parameters. Both must be
// present together; a lone coordinate is rejected.
func parsePosition(r *http.Request) (*types.Position, error) {
	q := r.URL.Query()
	latStr, lngStr := q.Get("lat"), q.Get("lng")

	if latStr == "" && lngStr == "" {
		return nil, nil
	}
	if latStr == "" || lngStr == "" {
		return nil, types.NewAppError(
			types.ErrCodeValidationMissingField,
			"lat and lng query parameters must be provided together",
			nil,
		)
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, types.NewAppError(
			types.ErrCodeValidationInvalidLat,
			"lat must be a number in [-90, 90]",
			nil,
		)
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil || lng < -180 || lng > 180 {
		return nil, types.NewAppError(
			types.ErrCodeValidationInvalidLng,
			"lng must be a number in [-180, 180]",
			nil,
		)
	}

	return &types.Position{Lat: lat, Lng: lng}, nil
}
