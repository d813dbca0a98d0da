// Package location holds the observer's own position, fed either from a
// fixed flag or from a live NMEA stream, and persisted as a hint file
// across restarts. It never feeds the decode path, per spec.md §4.9; the
// view and scope layers do not read it either, so no distance or bearing
// to tracked planes is computed from it.
package location

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sync"
)

// Source reports the observer's current position. Implementations must be
// safe for concurrent use: any number of viewer goroutines may call
// Position while a feed goroutine (if any) updates it.
type Source interface {
	Position() (lat, lon float64, valid bool)
}

// Static is a Source whose position never changes after construction —
// set from a CLI flag or a loaded persistence hint.
type Static struct {
	lat, lon float64
	valid    bool
}

// NewStatic creates a Static source. valid is false if the position is
// unknown (no flag given, no usable hint file).
func NewStatic(lat, lon float64, valid bool) *Static {
	return &Static{lat: lat, lon: lon, valid: valid}
}

// Position implements Source.
func (s *Static) Position() (lat, lon float64, valid bool) {
	return s.lat, s.lon, s.valid
}

// Holder is a monitor-guarded, mutable position holder: the NMEA feed
// writes into it from its own goroutine, and any number of readers call
// Position concurrently.
type Holder struct {
	mu    sync.RWMutex
	lat   float64
	lon   float64
	valid bool
}

// NewHolder creates a Holder, optionally seeded with an initial position.
func NewHolder(lat, lon float64, valid bool) *Holder {
	return &Holder{lat: lat, lon: lon, valid: valid}
}

// Position implements Source.
func (h *Holder) Position() (lat, lon float64, valid bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lat, h.lon, h.valid
}

// Set updates the held position. Called only by the feed goroutine that
// owns this Holder.
func (h *Holder) Set(lat, lon float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lat, h.lon, h.valid = lat, lon, true
}

// absentSentinel is the Android-SharedPreferences-style "no value" marker
// for the persisted hint file: any axis at or beyond this is absent.
const absentSentinel = 400.0

// hint is the on-disk JSON shape of the persisted observer position,
// stored as float32 to match the original Android preferences format.
type hint struct {
	Lat float32 `json:"lat"`
	Lon float32 `json:"lon"`
}

// SaveHint writes lat/lon to path as a two-field JSON hint file. Call this
// on clean shutdown with the last-known position so the next run can
// start with a usable observer location before any NMEA fix arrives.
func SaveHint(path string, lat, lon float64) error {
	h := hint{Lat: float32(lat), Lon: float32(lon)}
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("marshal location hint: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// LoadHint reads a previously saved hint file. valid is false if the file
// is absent, unreadable, or either axis is at/beyond the absent sentinel.
func LoadHint(path string) (lat, lon float64, valid bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, false
	}
	var h hint
	if err := json.Unmarshal(data, &h); err != nil {
		return 0, 0, false
	}
	if math.Abs(float64(h.Lat)) >= absentSentinel || math.Abs(float64(h.Lon)) >= absentSentinel {
		return 0, 0, false
	}
	return float64(h.Lat), float64(h.Lon), true
}
