// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bpipe provides a bounded in-memory byte pipe for exactly one
// producer task and one consumer task.
//
// A [Pipe] connects a [Writer] endpoint to a [Reader] endpoint through a
// fixed-capacity ring buffer, giving the two tasks operating-system pipe
// semantics without kernel involvement and without holding any lock
// while a task is suspended. It is the byte-stream sibling of an SPSC
// element queue: the same monotonic-cursor ring, but with blocking
// endpoints and close/EOF propagation.
//
// # Quick Start
//
//	p := bpipe.New(bpipe.DefaultCapacity)
//	w, r := p.Writer(), p.Reader()
//
//	go func() {
//	    defer w.Close()
//	    w.Write([]byte("payload"))
//	}()
//
//	data, _ := io.ReadAll(r) // "payload", then io.EOF
//
// The endpoints satisfy the standard stream interfaces ([io.Reader],
// [io.Writer], [io.ByteReader], [io.ByteWriter], [io.WriterTo],
// [io.ReaderFrom], [io.Closer]), so a pipe drops into any [io] plumbing
// that [io.Pipe] fits, with a buffer in between.
//
// # Blocking Semantics
//
// [Writer.Write] suspends while the ring is full and returns only when
// every byte has been enqueued or the pipe is closed; there is no short
// write on success. [Reader.Read] suspends while the ring is empty and
// returns as soon as at least one byte is available, without waiting to
// fill the destination. Once the pipe is closed, the reader drains the
// bytes committed before the close and then sees [io.EOF]; the writer
// fails with [ErrClosedPipe] as soon as a request cannot make
// immediate progress — closure is detected through the parking
// protocol, never by an upfront check, so a write that still fits in
// the free space is accepted.
//
// Both endpoints also expose a non-blocking surface, [Writer.TryWrite]
// and [Reader.TryRead], which return [ErrWouldBlock] instead of
// suspending. Callers that already live in a backoff loop can stay on
// it:
//
//	backoff := iox.Backoff{}
//	for {
//	    n, err := w.TryWrite(chunk)
//	    if err == nil {
//	        chunk = chunk[n:]
//	        if len(chunk) == 0 {
//	            break
//	        }
//	        backoff.Reset()
//	        continue
//	    }
//	    if !bpipe.IsWouldBlock(err) {
//	        return err
//	    }
//	    backoff.Wait()
//	}
//
// # Parking Protocol
//
// Suspension runs through a single atomic park slot holding one of
// empty, reader-parked, writer-parked or closed. A task parks only
// after winning the CAS from empty; a task that instead finds the other
// side parked does not park — the other side had been waiting, which
// proves the state that made this side want to wait is stale — so it
// wakes the other side and retries. Close swaps the slot to its
// terminal state and wakes whichever task was parked. At most one task
// is ever parked, no wakeup is lost, and no lock is held across a
// suspension, which keeps the pipe safe on cooperatively scheduled
// tasks multiplexed over a small carrier pool.
//
// Wakeups are spurious by contract: a woken task re-checks its cursors
// and may park again.
//
// # Memory Ordering
//
// The write cursor is published with release ordering after the bytes
// are copied in, and loaded with acquire ordering before the reader
// copies them out; the read cursor is published with release ordering
// after the copy out, and loaded with acquire ordering before the
// writer reuses the slots. Advisory snapshots ([Reader.Buffered],
// [Writer.Available]) and [Reader.Discard], which never touches the
// buffer contents, use relaxed ordering. Park slot transitions are
// sequentially consistent.
//
// # Capacity
//
// Capacity rounds up to the next power of 2, so cursor-to-index mapping
// is a single mask. Minimum capacity is 1. Construction with a
// non-positive capacity panics.
//
//	p := bpipe.New(3)    // actual capacity: 4
//	p := bpipe.New(1000) // actual capacity: 1024
//
// # Thread Safety
//
// Exactly one task may use the [Writer] and exactly one task may use
// the [Reader]. Violating this constraint causes undefined behavior
// including data corruption. Close is idempotent from either side.
//
// # Race Detection
//
// The ring transfer is protected by acquire/release publication of the
// cursors, which Go's race detector cannot observe; concurrent tests
// are skipped under the detector via [RaceEnabled]. The park slot path
// additionally synchronizes through channels, which the detector does
// track.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, and [code.hybscloud.com/spin] for CPU pause
// instructions.
package bpipe
