package wave

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mohae/deepcopy"

	"wavefront/internal/types"
)

// DefaultHistoryCapacity bounds the progression history kept per session.
const DefaultHistoryCapacity = 256

// SnapshotHistory is a bounded FIFO of progression snapshots. It exists
// for diagnostics and tests; nothing in the decision pipeline reads it.
type SnapshotHistory struct {
	mu      sync.Mutex
	cap     int
	entries []types.ProgressionSnapshot
}

// NewSnapshotHistory builds a history holding at most capacity entries;
// non-positive capacities select the default.
func NewSnapshotHistory(capacity int) *SnapshotHistory {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &SnapshotHistory{cap: capacity}
}

// Record appends a snapshot, evicting the oldest entry once full.
func (h *SnapshotHistory) Record(now time.Time, progression float64, pos *types.Position, inArea bool) types.ProgressionSnapshot {
	snap := types.ProgressionSnapshot{
		ID:           uuid.NewString(),
		Timestamp:    now,
		Progression:  progression,
		IsInWaveArea: inArea,
	}
	if pos != nil {
		p := *pos
		snap.UserPosition = &p
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == h.cap {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:h.cap-1]
	}
	h.entries = append(h.entries, snap)
	return snap
}

// Len returns the number of retained snapshots.
func (h *SnapshotHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Entries returns a deep copy of the retained snapshots, oldest first.
func (h *SnapshotHistory) Entries() []types.ProgressionSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return nil
	}
	return deepcopy.Copy(h.entries).([]types.ProgressionSnapshot)
}
