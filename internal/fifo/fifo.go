// Package fifo implements the bounded single-producer/single-consumer
// message ring the driver runtime and the manager decode loop communicate
// through: fixed 14-byte slots, whole-slot ownership transfer by index
// advance rather than by copy.
package fifo

import "sync/atomic"

// SlotSize is the fixed size of one FIFO slot: one 112-bit Mode-S frame.
const SlotSize = 14

// Slot is one fixed-size message buffer.
type Slot [SlotSize]byte

// FIFO is a bounded ring of N+1 slots (one spare to distinguish empty from
// full). Exactly one producer goroutine may call the write-side methods and
// exactly one consumer goroutine may call the read-side methods; no lock is
// needed between them given atomic, word-sized index updates.
type FIFO struct {
	slots    []Slot
	capacity int32 // len(slots), i.e. N+1

	// readIdx is only written by the consumer and only read by the
	// producer; writeIdx is the reverse. Both use atomic ops so the
	// producer/consumer see each other's advances without a mutex.
	readIdx  int32
	writeIdx int32
}

// New creates a FIFO holding up to n messages (n+1 slots are allocated
// internally).
func New(n int) *FIFO {
	return &FIFO{
		slots:    make([]Slot, n+1),
		capacity: int32(n + 1),
	}
}

// Clear resets the FIFO to empty. The caller must ensure no producer or
// consumer call is concurrently in flight.
func (f *FIFO) Clear() {
	atomic.StoreInt32(&f.readIdx, 0)
	atomic.StoreInt32(&f.writeIdx, 0)
}

// GetWriteSlot returns the slot the producer should fill in place, or false
// if the FIFO is full (the next write position would collide with the
// consumer's read position). Must only be called by the producer.
func (f *FIFO) GetWriteSlot() (*Slot, bool) {
	w := atomic.LoadInt32(&f.writeIdx)
	r := atomic.LoadInt32(&f.readIdx)
	next := (w + 1) % f.capacity
	if next == r {
		return nil, false
	}
	return &f.slots[w], true
}

// CommitWrite publishes the slot most recently returned by GetWriteSlot,
// advancing writeIdx with release semantics so the consumer can observe the
// fully written slot. Must only be called by the producer.
func (f *FIFO) CommitWrite() {
	w := atomic.LoadInt32(&f.writeIdx)
	atomic.StoreInt32(&f.writeIdx, (w+1)%f.capacity)
}

// GetReadSlot returns the oldest unconsumed slot, or false if the FIFO is
// empty. Must only be called by the consumer.
func (f *FIFO) GetReadSlot() (*Slot, bool) {
	r := atomic.LoadInt32(&f.readIdx)
	w := atomic.LoadInt32(&f.writeIdx)
	if r == w {
		return nil, false
	}
	return &f.slots[r], true
}

// ReleaseRead frees the slot most recently returned by GetReadSlot,
// advancing readIdx so the producer may reuse it. Must only be called by
// the consumer.
func (f *FIFO) ReleaseRead() {
	r := atomic.LoadInt32(&f.readIdx)
	atomic.StoreInt32(&f.readIdx, (r+1)%f.capacity)
}
