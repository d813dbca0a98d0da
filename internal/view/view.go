// Package view implements the read-only snapshot interface renderers use
// to display the plane database: message/plane counts plus a
// freshness-classified enumeration of every tracked plane. The plane list
// is one point-in-time copy taken under the database monitor; the message
// and plane counts are each read under the monitor separately, so they may
// reflect a slightly later moment than the list.
package view

import (
	"time"

	"squitter/internal/plane"
)

// Freshness classifies a plane against now, per spec.md §4.8.
type Freshness int

const (
	// FreshPosition: the plane's position was updated within the last 5s.
	FreshPosition Freshness = iota
	// RecentlySeen: no fresh position, but some frame arrived within 15s.
	RecentlySeen
	// Stale: neither of the above, but not yet old enough for age-out.
	Stale
)

const (
	freshPositionWindow = 5 * time.Second
	recentlySeenWindow  = 15 * time.Second
)

// Entry is one plane's snapshot view: its decoded state plus the
// freshness band a renderer should display it under.
type Entry struct {
	plane.Plane
	Freshness Freshness
}

// Snapshot is a point-in-time view of the whole plane database.
type Snapshot struct {
	MsgCount   uint64
	PlaneCount int
	Planes     []Entry
}

// Take captures a Snapshot of db as of now, classifying every plane's
// freshness band. now is a parameter (not time.Now) so callers — and
// tests — control exactly what "now" means relative to each plane's
// timestamps.
func Take(db *plane.DB, now time.Time) Snapshot {
	planes := db.Snapshot()
	entries := make([]Entry, 0, len(planes))
	for _, p := range planes {
		entries = append(entries, Entry{Plane: p, Freshness: classify(p, now)})
	}
	return Snapshot{
		MsgCount:   db.MsgCount(),
		PlaneCount: db.PlaneCount(),
		Planes:     entries,
	}
}

func classify(p plane.Plane, now time.Time) Freshness {
	if p.PosValid && now.Sub(p.PosTime) < freshPositionWindow {
		return FreshPosition
	}
	if now.Sub(p.LastSeenTime) < recentlySeenWindow {
		return RecentlySeen
	}
	return Stale
}
