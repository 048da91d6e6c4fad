package wave

import (
	"log/slog"
	"sync"

	"github.com/mohae/deepcopy"

	"wavefront/internal/types"
)

// Manager is the per-session event state publisher. It validates each
// candidate state against the last published one, blocks error-severity
// regressions, records the progression history and fans published states
// out to subscribers.
type Manager struct {
	logger  *slog.Logger
	history *SnapshotHistory

	mu      sync.Mutex
	current *types.EventState
	subs    map[int]chan types.EventState
	nextSub int
}

// NewManager builds a manager logging through the given logger.
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		logger:  logger,
		history: NewSnapshotHistory(0),
		subs:    make(map[int]chan types.EventState),
	}
}

// Current returns the last published state, if any.
func (m *Manager) Current() (types.EventState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return types.EventState{}, false
	}
	return *m.current, true
}

// History returns the progression snapshot history.
func (m *Manager) History() *SnapshotHistory { return m.history }

// Publish validates the candidate against the current state and publishes
// it unless an error-severity issue is found, in which case the previous
// state stays published. Warnings are logged and do not block. The
// returned bool reports whether the candidate was published.
func (m *Manager) Publish(next types.EventState, pos *types.Position) ([]types.StateValidationIssue, bool) {
	m.mu.Lock()
	var prev types.EventState
	if m.current != nil {
		prev = *m.current
	}
	issues := ValidateTransition(prev, next)
	if BlocksPublish(issues) {
		m.mu.Unlock()
		for _, is := range issues {
			m.logger.Error("state transition rejected",
				"event_id", next.EventID,
				"field", is.Field,
				"issue", is.Issue,
			)
		}
		return issues, false
	}
	m.current = &next
	subs := make([]chan types.EventState, 0, len(m.subs))
	for _, ch := range m.subs {
		subs = append(subs, ch)
	}
	m.mu.Unlock()

	for _, is := range issues {
		m.logger.Warn("state transition issue",
			"event_id", next.EventID,
			"field", is.Field,
			"issue", is.Issue,
		)
	}
	m.history.Record(next.Timestamp, next.Progression, pos, next.UserIsInArea)

	for _, ch := range subs {
		st := deepcopy.Copy(next).(types.EventState)
		select {
		case ch <- st:
		default:
			// Slow subscriber; drop rather than stall the pipeline.
			m.logger.Debug("dropped state update for slow subscriber", "event_id", next.EventID)
		}
	}
	return issues, true
}

// Subscribe registers a buffered state channel. The returned cancel
// function unregisters it and closes the channel.
func (m *Manager) Subscribe(buffer int) (<-chan types.EventState, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan types.EventState, buffer)

	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	m.mu.Unlock()

	cancel := func() {
		m.mu.Lock()
		if _, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(ch)
		}
		m.mu.Unlock()
	}
	return ch, cancel
}
