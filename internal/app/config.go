package app

import "time"

// Default configuration constants.
const (
	DefaultBaud         = 38400
	DefaultLogDir       = "./logs"
	DefaultFIFOCapacity = 64
	DefaultLocationHint = "./location.json"

	// DefaultScopeWarmup is how long the `scope` CLI subcommand lets the
	// transport driver and manager ingest live traffic before rendering
	// a snapshot.
	DefaultScopeWarmup = 2 * time.Second
)

// Config holds application configuration.
type Config struct {
	// Serial transport. SerialDevice selects the physical link (e.g.
	// /dev/ttyUSB0); left empty in tests, where the caller wires an
	// in-memory Endpoint directly instead.
	SerialDevice string
	SerialBaud   int

	FIFOCapacity int

	LogDir       string
	LogRotateUTC bool

	// Observer location: either a fixed flag position, an NMEA feed
	// device, or (if both are empty) the persisted hint file. With an NMEA
	// device, the hint file supplies the position until the first fix.
	StaticLat    float64
	StaticLon    float64
	StaticLatSet bool
	NMEADevice   string
	LocationHint string

	MetricsAddr string

	Verbose     bool
	ShowVersion bool
}
