// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// DefaultCapacity is the nominal capacity used when a caller has no
// better number. 8 KiB keeps a bulk producer several scheduling quanta
// ahead of its consumer without parking.
const DefaultCapacity = 8192

// Park slot states. The slot holds exactly one of these values at any
// instant. Because each endpoint is owned by a single task, the parked
// task handle collapses to a side tag; the wake channel for that side
// is the handle.
const (
	slotEmpty  uintptr = iota // no task is parked
	slotClosed                // terminal: an endpoint has been closed
	slotReader                // the reader task is parked
	slotWriter                // the writer task is parked
)

// Pipe is a bounded single-producer single-consumer byte stream.
//
// One task writes through the [Writer] endpoint, one task reads through
// the [Reader] endpoint. Data moves through a fixed-capacity ring buffer
// addressed by two monotonic 64-bit cursors; neither direction ever
// holds a lock, and at most one of the two tasks is parked at any time.
//
// Invariants:
//   - writePos and readPos increase monotonically.
//   - 0 <= writePos - readPos <= Cap() at all times.
//   - writePos is modified only by the writer task, readPos only by
//     the reader task.
//   - park transitions only through CAS or swap; slotClosed is terminal.
//
// Memory: O(capacity), allocated once at construction.
type Pipe struct {
	_        pad
	readPos  atomix.Uint64 // R: total bytes consumed (reader-owned)
	_        pad
	writePos atomix.Uint64 // W: total bytes written (writer-owned)
	_        pad
	park     atomix.Uintptr // slotEmpty | slotClosed | slotReader | slotWriter
	_        pad
	buffer   []byte
	mask     uint64

	wakeReader chan struct{}
	wakeWriter chan struct{}

	r Reader
	w Writer
}

// New creates a pipe with the given nominal capacity.
// Capacity rounds up to the next power of 2.
// Panics if capacity < 1.
func New(capacity int) *Pipe {
	p := &Pipe{}
	p.Init(capacity)
	return p
}

// Init initializes a zero Pipe in place, for embedding the pipe in a
// larger single-allocation structure. Capacity rounds up to the next
// power of 2. Panics if capacity < 1.
func (p *Pipe) Init(capacity int) {
	if capacity < 1 {
		panic("bpipe: capacity must be positive")
	}

	n := uint64(roundToPow2(capacity))
	p.buffer = make([]byte, n)
	p.mask = n - 1
	p.wakeReader = make(chan struct{}, 1)
	p.wakeWriter = make(chan struct{}, 1)
	p.r.p = p
	p.w.p = p
}

// Reader returns the read endpoint. The same endpoint is returned on
// every call; it must be used by a single consumer task.
func (p *Pipe) Reader() *Reader {
	return &p.r
}

// Writer returns the write endpoint. The same endpoint is returned on
// every call; it must be used by a single producer task.
func (p *Pipe) Writer() *Writer {
	return &p.w
}

// Cap returns the effective capacity in bytes.
func (p *Pipe) Cap() int {
	return int(p.mask + 1)
}

// closed reports whether either endpoint has closed the pipe.
func (p *Pipe) closed() bool {
	return p.park.Load() == slotClosed
}

// waitOtherOrClose parks the calling task until the opposite endpoint
// makes progress or the pipe is closed. Reports true when the pipe is
// closed. self is the slot tag of the calling side.
//
// The protocol keeps at most one task parked: a side parks only after
// winning the CAS from slotEmpty, and a side that instead observes the
// other side already parked does not park — the other side had been
// waiting, so the state that made this side want to park is stale.
// It wakes the other side and retries its work.
//
// Wakeups are spurious by contract: the caller re-checks its cursors
// and may end up back here.
func (p *Pipe) waitOtherOrClose(self uintptr) bool {
	sw := spin.Wait{}
	for {
		switch cur := p.park.Load(); cur {
		case slotEmpty:
			if !p.park.CompareAndSwap(slotEmpty, self) {
				sw.Once()
				continue
			}
			<-p.wake(self)
			// While a side is parked, the only transition another task
			// can make is the close swap. A failed CAS back to empty
			// therefore means the pipe is closed.
			return !p.park.CompareAndSwap(self, slotEmpty)
		case slotClosed:
			return true
		default:
			p.signal(cur)
			return false
		}
	}
}

// close transitions the park slot to its terminal state and wakes the
// parked task, if any. Idempotent: a second close observes slotClosed
// and does nothing.
func (p *Pipe) close() {
	switch prev := p.park.Swap(slotClosed); prev {
	case slotReader, slotWriter:
		p.signal(prev)
	}
}

// wake returns the wake channel for the given side tag.
func (p *Pipe) wake(side uintptr) chan struct{} {
	if side == slotWriter {
		return p.wakeWriter
	}
	return p.wakeReader
}

// signal delivers a wake token to the given side without blocking.
// A token left unconsumed by a close/park race surfaces as a spurious
// wakeup on the next park, which the retry loop absorbs.
func (p *Pipe) signal(side uintptr) {
	select {
	case p.wake(side) <- struct{}{}:
	default:
	}
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}

// pad is cache line padding to prevent false sharing.
type pad [64]byte
