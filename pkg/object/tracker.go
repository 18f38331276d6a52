package object

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

var (
	tracking atomic.Bool

	liveMu sync.Mutex
	live   = make(map[uuid.UUID]*Object)
)

// EnableTracking turns the live-object tracker on or off.
// Turning it off forgets every tracked object.
func EnableTracking(enabled bool) {
	tracking.Store(enabled)
	if !enabled {
		liveMu.Lock()
		live = make(map[uuid.UUID]*Object)
		liveMu.Unlock()
	}
}

// TrackingEnabled reports whether objects are being tracked
func TrackingEnabled() bool {
	return tracking.Load()
}

// LiveCount returns the number of tracked objects still holding references
func LiveCount() int {
	liveMu.Lock()
	defer liveMu.Unlock()
	return len(live)
}

// LiveObjects returns the IDs of tracked objects still holding references,
// sorted for stable output
func LiveObjects() []uuid.UUID {
	liveMu.Lock()
	ids := make([]uuid.UUID, 0, len(live))
	for id := range live {
		ids = append(ids, id)
	}
	liveMu.Unlock()

	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}

func track(o *Object) {
	if !tracking.Load() {
		return
	}
	liveMu.Lock()
	live[o.id] = o
	liveMu.Unlock()
}

func untrack(o *Object) {
	liveMu.Lock()
	delete(live, o.id)
	liveMu.Unlock()
}
