// Package scope renders one view.Snapshot as a styled terminal frame,
// the lightweight cousin of the ecosystem's fuller bubbletea radar
// displays: no interactivity, one frame in, one string out.
package scope

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"squitter/internal/view"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	freshStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	recentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	staleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

// Render formats snap as a single multi-line frame, as of now (used for
// humanized "last seen" timestamps and is independent of the freshness
// classification already baked into snap).
func Render(snap view.Snapshot, now time.Time) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("squitter — %d planes, %d messages decoded", snap.PlaneCount, snap.MsgCount)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("ICAO    IDENT     ALT    POSITION              TRACK  LAST SEEN"))
	b.WriteString("\n")

	for _, p := range snap.Planes {
		b.WriteString(renderRow(p, now))
		b.WriteString("\n")
	}

	return b.String()
}

func renderRow(p view.Entry, now time.Time) string {
	ident := p.Ident
	if ident == "" {
		ident = "--------"
	}

	alt := "-----"
	if p.AltValid {
		alt = fmt.Sprintf("%5d", p.AltitudeFt)
	}

	pos := "   --     --"
	if p.PosValid {
		pos = fmt.Sprintf("%8.4f %9.4f", p.Position.Lat, p.Position.Lon)
	}

	track := "   --"
	if p.BearingValid {
		track = fmt.Sprintf("%5.1f", p.Bearing)
	}

	row := fmt.Sprintf("%06X  %-8s  %5s  %s  %5s  %s",
		p.ICAO, ident, alt, pos, track, humanize.RelTime(p.LastSeenTime, now, "ago", "from now"))

	switch p.Freshness {
	case view.FreshPosition:
		return freshStyle.Render(row)
	case view.RecentlySeen:
		return recentStyle.Render(row)
	default:
		return staleStyle.Render(row)
	}
}
