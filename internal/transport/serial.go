package transport

import (
	"github.com/tarm/serial"
)

// SerialConfig names the physical link for OpenSerial.
type SerialConfig struct {
	Device string
	Baud   int
}

// OpenSerial opens a serial-port endpoint suitable for NewDriver. The
// returned Endpoint also implements io.Closer.
func OpenSerial(cfg SerialConfig) (*serial.Port, error) {
	return serial.OpenPort(&serial.Config{
		Name: cfg.Device,
		Baud: cfg.Baud,
	})
}
