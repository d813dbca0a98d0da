// Package plane holds the ICAO-keyed aircraft database, the manager loop
// that decodes FIFO frames into it, and age-out eviction, per spec.md §3
// and §4.7.
package plane

import (
	"time"

	"squitter/internal/adsb"
)

// Plane is one observed aircraft's accumulated state. Every validity flag
// gates its corresponding value fields: a reader must not consult a value
// whose flag is false.
type Plane struct {
	ICAO         uint32
	LastSeenTime time.Time

	PosValid      bool // monotonic: once true, never cleared
	PosLocalValid bool
	PosTime       time.Time
	PosSurface    bool
	Position      adsb.Position

	cpr     [2]adsb.CPRFrame
	cprTime [2]time.Time

	AltValid   bool
	AltitudeFt int

	VRValid     bool
	VRTime      time.Time
	VRUp        bool
	VRMagnitude int

	BearingValid bool
	Bearing      float64

	Ident string
}

func newPlane(icao uint32) *Plane {
	return &Plane{ICAO: icao}
}
