// Package framing implements the ASCII hex line protocol the receiver
// speaks: frames delimited by '*' and ';' carrying an even number of hex
// nibbles, written directly into FIFO slots as they are parsed.
package framing

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"squitter/internal/fifo"
)

// maxNibbleIndex is the overflow bound: twice the 14-byte slot size, the
// largest index.
// a 28-nibble extended-squitter frame ever reaches before overflow.
const maxNibbleIndex = 2 * fifo.SlotSize

// Parser converts a raw receiver byte stream into FIFO slots. It owns at
// most one write slot at a time while assembling a frame, retaining it
// across discarded (non-ADS-B) frames so that reuse never costs a fresh
// allocation.
type Parser struct {
	f      *fifo.FIFO
	log    *logrus.Logger
	slot   *fifo.Slot
	nibble int // -1 = idle, else 0..maxNibbleIndex
	drops  uint64
}

// NewParser creates a Parser that publishes accepted frames into f.
func NewParser(f *fifo.FIFO, log *logrus.Logger) *Parser {
	return &Parser{f: f, log: log, nibble: -1}
}

// Drops returns the number of frame starts seen while the FIFO was full,
// for the metrics registry to expose as a counter.
func (p *Parser) Drops() uint64 {
	return atomic.LoadUint64(&p.drops)
}

// Feed parses one byte of the incoming stream, per spec.md §4.4's state
// machine. Bytes outside a frame are ignored; the parser tolerates
// arbitrary junk between frames with no resync needed.
func (p *Parser) Feed(b byte) {
	switch {
	case b == '*':
		p.handleStart()
	case b == ';':
		p.handleEnd()
	case p.nibble >= maxNibbleIndex:
		p.log.Warn("framing: message too long")
		p.nibble = -1
	case p.nibble >= 0:
		p.handleNibble(b)
	}
	// else: idle and not a frame delimiter -> ignore
}

func (p *Parser) handleStart() {
	if p.nibble >= 0 {
		p.log.Warn("framing: unexpected message start")
		p.nibble = 0
		return
	}
	if p.slot == nil {
		slot, ok := p.f.GetWriteSlot()
		if !ok {
			atomic.AddUint64(&p.drops, 1)
			p.log.Warn("framing: fifo is full")
			return
		}
		p.slot = slot
	}
	p.nibble = 0
}

func (p *Parser) handleEnd() {
	switch p.nibble {
	case 28: // 112-bit extended squitter: check DF before publishing
		df := (p.slot[0] >> 3) & 0x1F
		if df >= 17 && df <= 19 {
			p.f.CommitWrite()
			p.slot = nil // next frame needs a fresh write slot
		}
		// else: non-ADS-B DF -> silently discard, reuse slot
	case 14: // 56-bit standard squitter -> silently discard, reuse slot
	default:
		p.log.Warnf("framing: unexpected message end at nibble %d", p.nibble)
	}
	p.nibble = -1
}

func (p *Parser) handleNibble(b byte) {
	v, ok := hexNibble(b)
	if !ok {
		p.log.Warnf("framing: bad nibble %q", b)
		p.nibble = -1
		return
	}
	byteIdx := p.nibble >> 1
	if p.nibble&1 == 0 {
		p.slot[byteIdx] = v << 4
	} else {
		p.slot[byteIdx] |= v
	}
	p.nibble++
}

// hexNibble maps an ASCII hex digit to its 4-bit value. Lowercase is
// rejected, matching the wire protocol's upper-case-only convention.
func hexNibble(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}
