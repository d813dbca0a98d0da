package plane

import (
	"sync"
	"time"
)

// ageOutTimeout evicts a plane once it has been silent this long.
const ageOutTimeout = 60 * time.Second

// ageCheckInterval is how often the manager loop runs the age-out sweep.
const ageCheckInterval = 10 * time.Second

// DB is the ICAO-keyed plane database. All mutation happens under the
// manager's exclusive lock; any number of viewer goroutines may read
// concurrently under the shared lock, per spec.md §5's monitor policy.
type DB struct {
	mu        sync.RWMutex
	planes    map[uint32]*Plane
	msgs      uint64
	evictions uint64
}

// NewDB creates an empty plane database. prev and prevMsgCount let the
// caller carry state across a transient manager teardown (spec.md §4.7's
// "Startup accepts an optional previously captured database+counter").
func NewDB(prev map[uint32]*Plane, prevMsgCount uint64) *DB {
	planes := prev
	if planes == nil {
		planes = make(map[uint32]*Plane, 64)
	}
	return &DB{planes: planes, msgs: prevMsgCount}
}

// getOrCreate returns the plane for icao, creating it if absent. Must be
// called with the write lock held.
func (db *DB) getOrCreate(icao uint32) *Plane {
	p, ok := db.planes[icao]
	if !ok {
		p = newPlane(icao)
		db.planes[icao] = p
	}
	return p
}

// MsgCount returns the total number of CRC-valid frames processed so far.
func (db *DB) MsgCount() uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.msgs
}

// PlaneCount returns the number of planes currently tracked.
func (db *DB) PlaneCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.planes)
}

// Evictions returns the total number of planes aged out since startup.
func (db *DB) Evictions() uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.evictions
}

// Snapshot returns a point-in-time copy of every tracked plane, safe for
// the caller to read without holding any lock. Copies are taken under a
// single RLock so a viewer never observes a torn record.
func (db *DB) Snapshot() []Plane {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]Plane, 0, len(db.planes))
	for _, p := range db.planes {
		out = append(out, *p)
	}
	return out
}

// Export captures planes+msgs for handing to a replacement manager across a
// transient teardown.
func (db *DB) Export() (map[uint32]*Plane, uint64) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.planes, db.msgs
}

// sweep removes planes silent for longer than ageOutTimeout, collecting
// victims before deleting them (two-phase, per spec.md §4.7 step 3, to
// avoid mutating the map mid-iteration). Must be called with the write
// lock held.
func (db *DB) sweep(now time.Time) {
	var stale []uint32
	for icao, p := range db.planes {
		if now.Sub(p.LastSeenTime) > ageOutTimeout {
			stale = append(stale, icao)
		}
	}
	for _, icao := range stale {
		delete(db.planes, icao)
	}
	db.evictions += uint64(len(stale))
}
