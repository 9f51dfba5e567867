package follow

import (
	"sync"
	"time"

	"github.com/andalus/go-taraweeh-monitor/internal/presentation/display"
)

// statusTTL is how long a transient status message stays on screen.
const statusTTL = 5 * time.Second

// StateManager manages the view state in a thread-safe manner. Readers get
// copies, so a snapshot is never mutated under a renderer.
type StateManager struct {
	mu sync.RWMutex

	snapshot display.Snapshot

	statusSetAt time.Time

	lastDataUpdate int64
}

// NewStateManager creates a new StateManager instance
func NewStateManager() *StateManager {
	return &StateManager{}
}

// Update applies a mutation to the view state under the write lock.
func (sm *StateManager) Update(fn func(*display.Snapshot)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	fn(&sm.snapshot)
	sm.lastDataUpdate = time.Now().Unix()
}

// SetStatus sets a transient status message.
func (sm *StateManager) SetStatus(message string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.snapshot.StatusMessage = message
	sm.statusSetAt = time.Now()
}

// Snapshot returns a copy of the current view state. Expired status messages
// are dropped on the way out.
func (sm *StateManager) Snapshot() display.Snapshot {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.snapshot.StatusMessage != "" && time.Since(sm.statusSetAt) > statusTTL {
		sm.snapshot.StatusMessage = ""
	}
	return sm.snapshot
}

// LastDataUpdate returns the timestamp of the last state change.
func (sm *StateManager) LastDataUpdate() int64 {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.lastDataUpdate
}
