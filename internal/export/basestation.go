// Package export writes plane snapshots out in the BaseStation/SBS CSV
// format that tools like VirtualRadar and PlanePlotter consume, working off
// already-decoded plane.Plane records instead of raw frame bytes.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"squitter/internal/logging"
	"squitter/internal/plane"
)

// BaseStation message types.
const (
	MessageTypeSEL = "SEL"
	MessageTypeID  = "ID"
	MessageTypeAIR = "AIR"
	MessageTypeSTA = "STA"
	MessageTypeCLK = "CLK"
	MessageTypeMSG = "MSG"
)

// BaseStation transmission types (MSG sub-kinds).
const (
	TransmissionIDAndCategory = 1
	TransmissionSurface       = 2
	TransmissionAirborne      = 3
	TransmissionVelocity      = 4
	TransmissionSurveillance  = 5
)

// Message is one BaseStation-format record.
type Message struct {
	MessageType      string
	TransmissionType int
	SessionID        int
	AircraftID       int
	HexIdent         string
	FlightID         int
	DateGenerated    time.Time
	TimeGenerated    time.Time
	DateLogged       time.Time
	TimeLogged       time.Time
	Callsign         string
	Altitude         string
	GroundSpeed      string
	Track            string
	Latitude         string
	Longitude        string
	VerticalRate     string
	Squawk           string
	// Alert, Emergency, SPI and IsOnGround round out the 22-field
	// BaseStation layout; this engine never decodes them and always
	// emits them empty.
	Alert      string
	Emergency  string
	SPI        string
	IsOnGround string
}

// Writer appends plane snapshots to a rotated BaseStation CSV log.
type Writer struct {
	rotator    *logging.LogRotator
	log        *logrus.Logger
	sessionID  int
	aircraftID int
}

// NewWriter creates a Writer appending through rotator.
func NewWriter(rotator *logging.LogRotator, log *logrus.Logger) *Writer {
	return &Writer{rotator: rotator, log: log, sessionID: 1, aircraftID: 1}
}

// WriteSnapshot emits one MSG line summarizing the most significant
// decoded field currently known for p: identification takes precedence
// over position, which takes precedence over velocity. A plane with
// nothing decoded yet produces no output.
func (w *Writer) WriteSnapshot(p plane.Plane) error {
	msg := &Message{
		MessageType:   MessageTypeMSG,
		SessionID:     w.sessionID,
		AircraftID:    w.aircraftID,
		FlightID:      w.aircraftID,
		HexIdent:      fmt.Sprintf("%06X", p.ICAO),
		DateGenerated: p.LastSeenTime,
		TimeGenerated: p.LastSeenTime,
		DateLogged:    time.Now(),
		TimeLogged:    time.Now(),
	}

	switch {
	case p.Ident != "":
		msg.TransmissionType = TransmissionIDAndCategory
		msg.Callsign = p.Ident

	case p.PosValid:
		if p.PosSurface {
			msg.TransmissionType = TransmissionSurface
		} else {
			msg.TransmissionType = TransmissionAirborne
		}
		msg.Latitude = fmt.Sprintf("%.6f", p.Position.Lat)
		msg.Longitude = fmt.Sprintf("%.6f", p.Position.Lon)
		if p.AltValid {
			msg.Altitude = strconv.Itoa(p.AltitudeFt)
		}

	case p.VRValid || p.BearingValid:
		msg.TransmissionType = TransmissionVelocity
		if p.BearingValid {
			msg.Track = fmt.Sprintf("%.1f", p.Bearing)
		}
		if p.VRValid {
			vr := p.VRMagnitude
			if !p.VRUp {
				vr = -vr
			}
			msg.VerticalRate = strconv.Itoa(vr)
		}

	default:
		return nil
	}

	writer, err := w.rotator.GetWriter()
	if err != nil {
		return fmt.Errorf("failed to get log writer: %w", err)
	}
	if _, err := writer.Write([]byte(formatCSV(msg) + "\n")); err != nil {
		return fmt.Errorf("failed to write to log: %w", err)
	}
	return nil
}

func formatCSV(msg *Message) string {
	fields := []string{
		msg.MessageType,
		strconv.Itoa(msg.TransmissionType),
		strconv.Itoa(msg.SessionID),
		strconv.Itoa(msg.AircraftID),
		msg.HexIdent,
		strconv.Itoa(msg.FlightID),
		msg.DateGenerated.Format("2006/01/02"),
		msg.TimeGenerated.Format("15:04:05.000"),
		msg.DateLogged.Format("2006/01/02"),
		msg.TimeLogged.Format("15:04:05.000"),
		msg.Callsign,
		msg.Altitude,
		msg.GroundSpeed,
		msg.Track,
		msg.Latitude,
		msg.Longitude,
		msg.VerticalRate,
		msg.Squawk,
		msg.Alert,
		msg.Emergency,
		msg.SPI,
		msg.IsOnGround,
	}
	return strings.Join(fields, ",")
}
