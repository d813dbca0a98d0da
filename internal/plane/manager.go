package plane

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"squitter/internal/adsb"
	"squitter/internal/fifo"
)

// positionFreshness bounds how old a plane's last fix may be before it can
// still serve as the reference position for a local CPR decode, or as one
// half of an even/odd pair for a global decode.
const positionFreshness = 15 * time.Second

// idleSleep is how long the manager waits before re-checking an empty FIFO.
const idleSleep = 100 * time.Millisecond

// Manager is the sole consumer of the message FIFO and the sole mutator of
// the plane database, per spec.md §4.7 and §5. It decodes each accepted
// frame, folds it into the matching Plane record, and periodically sweeps
// planes that have gone silent.
type Manager struct {
	db  *DB
	f   *fifo.FIFO
	log *logrus.Logger
	now func() time.Time

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewManager creates a Manager draining f into db.
func NewManager(f *fifo.FIFO, db *DB, log *logrus.Logger) *Manager {
	return &Manager{db: db, f: f, log: log, now: time.Now}
}

// DB returns the database this manager mutates, for viewers to read.
func (m *Manager) DB() *DB { return m.db }

// Start launches the manager's decode loop. Call Stop to tear it down.
func (m *Manager) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	m.wg.Add(1)
	go m.run(ctx)
}

// Stop signals the manager to exit and waits for its goroutine to return.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
}

func (m *Manager) run(ctx context.Context) {
	defer m.wg.Done()

	lastSweep := m.now()
	for {
		if ctx.Err() != nil {
			return
		}

		drained := m.drainOne()
		if !drained {
			select {
			case <-ctx.Done():
				return
			case <-time.After(idleSleep):
			}
		}

		if now := m.now(); now.Sub(lastSweep) >= ageCheckInterval {
			m.db.mu.Lock()
			m.db.sweep(now)
			m.db.mu.Unlock()
			lastSweep = now
		}
	}
}

// drainOne pulls and processes a single queued frame, reporting whether one
// was available.
func (m *Manager) drainOne() bool {
	slot, ok := m.f.GetReadSlot()
	if !ok {
		return false
	}
	frame := adsb.Frame(*slot)
	m.f.ReleaseRead()

	m.process(frame)
	return true
}

// process runs the dispatcher gate and, on acceptance, folds the frame into
// its plane's record under the database's exclusive lock.
func (m *Manager) process(frame adsb.Frame) {
	if !adsb.Accept(frame) {
		return
	}

	now := m.now()

	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	m.db.msgs++
	p := m.db.getOrCreate(frame.ICAO())
	p.LastSeenTime = now

	switch frame.Category() {
	case adsb.CategoryIdentification:
		p.Ident = strings.TrimSpace(adsb.DecodeIdentification(frame))

	case adsb.CategoryAirbornePosition:
		m.processPosition(p, frame, now)
		if alt, ok := adsb.DecodeAltitude(frame); ok {
			p.AltValid = true
			p.AltitudeFt = alt
		}

	case adsb.CategoryAirborneVelocity:
		if !frame.VelocitySubtypeAccepted() {
			break
		}
		if vr, ok := adsb.DecodeVerticalRate(frame); ok {
			p.VRValid = true
			p.VRTime = now
			p.VRUp = vr.Up
			p.VRMagnitude = vr.MagnitudeFtMin
		}
		if bearing, ok := adsb.DecodeVelocitySubtype1Bearing(frame); ok {
			p.BearingValid = true
			p.Bearing = bearing
		}
	}
}

// processPosition implements the CPR decode pipeline: store the frame in
// its even/odd slot, then prefer a local fix against the plane's current
// position while that position is fresh, and use a global fix from a fresh
// even/odd pair only when no local reference is available. A local fix
// that fails the sanity gate leaves the position untouched and clears
// PosLocalValid so the next frame is forced through global decode again —
// PosValid itself never clears once set. Only airborne position frames
// reach here; surface-position frames (type codes 5..8) are not dispatched
// to this method at all.
func (m *Manager) processPosition(p *Plane, frame adsb.Frame, now time.Time) {
	parity, cpr := adsb.ExtractCPR(frame)
	p.cpr[parity] = cpr
	p.cprTime[parity] = now

	localOK := p.PosValid && p.PosLocalValid && now.Sub(p.PosTime) <= positionFreshness
	other := 1 - parity
	if !localOK && !p.cprTime[other].IsZero() && now.Sub(p.cprTime[other]) <= positionFreshness {
		even, odd := p.cpr[0], p.cpr[1]
		if pos, ok := adsb.GlobalDecode(even, odd, parity); ok {
			p.Position = pos
			p.PosValid = true
			p.PosLocalValid = true
			p.PosTime = now
			return
		}
	}

	if localOK {
		if pos, ok := adsb.LocalDecode(p.Position, parity, cpr); ok {
			p.Position = pos
			p.PosTime = now
			return
		}
		p.PosLocalValid = false
	}
}
