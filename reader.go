// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

import "io"

// Reader is the read endpoint of a [Pipe] (consumer only).
//
// Reader implements [io.Reader], [io.ByteReader], [io.WriterTo] and
// [io.Closer]. All operations must be issued by the single consumer
// task that owns the endpoint.
type Reader struct {
	p *Pipe
}

var (
	_ io.Reader     = (*Reader)(nil)
	_ io.ByteReader = (*Reader)(nil)
	_ io.WriterTo   = (*Reader)(nil)
	_ io.Closer     = (*Reader)(nil)
)

// Read reads up to len(b) bytes into b. It blocks until at least one
// byte is available, then returns the count without waiting for more.
// When the pipe has been closed and drained, Read returns 0, [io.EOF].
// A zero-length b returns immediately.
func (r *Reader) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}

	p := r.p
	for {
		rp := p.readPos.LoadRelaxed()
		// Writes to the buffer must happen-before loading the limit.
		wp := p.writePos.LoadAcquire()
		if n := min(int(wp-rp), len(b)); n > 0 {
			start := int(rp & p.mask)
			k := copy(b[:n], p.buffer[start:])
			if k < n {
				copy(b[k:n], p.buffer)
			}
			// Reads from the buffer must happen-before the writer may
			// overwrite the consumed slots.
			p.readPos.StoreRelease(rp + uint64(n))
			return n, nil
		}

		if p.waitOtherOrClose(slotReader) {
			if p.writePos.LoadRelaxed()-p.readPos.LoadRelaxed() > 0 {
				// The writer committed more bytes before closing; drain
				// them before signaling EOF.
				continue
			}
			return 0, io.EOF
		}
	}
}

// ReadByte reads and returns a single byte, blocking as [Reader.Read]
// does. Returns [io.EOF] when the pipe is closed and drained.
func (r *Reader) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := r.Read(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// TryRead is the non-blocking variant of Read. It returns
// (0, [ErrWouldBlock]) when no bytes are available, and (0, [io.EOF])
// when the pipe is closed and drained. It never parks; when no bytes
// are available and the writer is parked, it wakes the writer.
func (r *Reader) TryRead(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}

	p := r.p
	for {
		rp := p.readPos.LoadRelaxed()
		wp := p.writePos.LoadAcquire()
		if n := min(int(wp-rp), len(b)); n > 0 {
			start := int(rp & p.mask)
			k := copy(b[:n], p.buffer[start:])
			if k < n {
				copy(b[k:n], p.buffer)
			}
			p.readPos.StoreRelease(rp + uint64(n))
			return n, nil
		}
		if p.closed() {
			if p.writePos.LoadRelaxed() != rp {
				// Tail bytes committed before the close; deliver them
				// before EOF.
				continue
			}
			return 0, io.EOF
		}
		// A writer parked on the ring has not seen the space freed by
		// earlier reads; wake it so it refills.
		if p.park.Load() == slotWriter {
			p.signal(slotWriter)
		}
		return 0, ErrWouldBlock
	}
}

// Discard advances the read cursor by up to n bytes without copying
// them, blocking as [Reader.Read] does when the pipe is empty. It
// returns the number of bytes discarded; (0, [io.EOF]) when the pipe is
// closed and drained. n < 1 returns immediately.
//
// Discard touches both cursors with relaxed ordering only: the buffer
// contents are never read, so no happens-before edge with the data is
// needed. This is sound only while the read cursor has a single owner;
// a second reader would require Discard to publish like Read does.
func (r *Reader) Discard(n int) (int, error) {
	if n < 1 {
		return 0, nil
	}

	p := r.p
	for {
		rp := p.readPos.LoadRelaxed()
		wp := p.writePos.LoadRelaxed()
		if k := min(int(wp-rp), n); k > 0 {
			p.readPos.StoreRelaxed(rp + uint64(k))
			return k, nil
		}

		if p.waitOtherOrClose(slotReader) {
			if p.writePos.LoadRelaxed()-p.readPos.LoadRelaxed() > 0 {
				continue
			}
			return 0, io.EOF
		}
	}
}

// Buffered returns a snapshot of the number of bytes readable without
// blocking. The value is advisory: it is a lower bound while the
// producer is running. Consumer task only.
func (r *Reader) Buffered() int {
	p := r.p
	return int(p.writePos.LoadRelaxed() - p.readPos.LoadRelaxed())
}

// WriteTo drains the pipe into w until EOF, implementing [io.WriterTo].
func (r *Reader) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 32*1024)
	var total int64
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			wn, werr := w.Write(buf[:n])
			total += int64(wn)
			if werr != nil {
				return total, werr
			}
			if wn < n {
				return total, io.ErrShortWrite
			}
		}
		if rerr != nil {
			if rerr == io.EOF {
				return total, nil
			}
			return total, rerr
		}
	}
}

// Close closes the pipe from the reader side and wakes a parked writer.
// A writer operation that can no longer make progress fails with
// [ErrClosedPipe]. Idempotent; always returns nil.
func (r *Reader) Close() error {
	r.p.close()
	return nil
}
