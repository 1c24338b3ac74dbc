// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

import "io"

// Writer is the write endpoint of a [Pipe] (producer only).
//
// Writer implements [io.Writer], [io.ByteWriter], [io.ReaderFrom] and
// [io.Closer]. All operations must be issued by the single producer
// task that owns the endpoint.
type Writer struct {
	p *Pipe
}

var (
	_ io.Writer     = (*Writer)(nil)
	_ io.ByteWriter = (*Writer)(nil)
	_ io.ReaderFrom = (*Writer)(nil)
	_ io.Closer     = (*Writer)(nil)
)

// Write writes all of b into the pipe, blocking while the ring is full.
// There is no short write on success: Write returns len(b), nil once
// every byte is enqueued, or the count written so far together with
// [ErrClosedPipe] if the pipe is closed before the rest fits. Closure
// is observed only when the request cannot make immediate progress; a
// write that fits in the free space is accepted even after close. A
// zero-length b returns immediately.
func (w *Writer) Write(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}

	p := w.p
	written := 0
	for {
		wp := p.writePos.LoadRelaxed()
		// Reads from the buffer must happen-before overwriting the
		// consumed slots.
		rp := p.readPos.LoadAcquire()
		if n := min(int(p.mask+1-(wp-rp)), len(b)-written); n > 0 {
			start := int(wp & p.mask)
			k := copy(p.buffer[start:], b[written:written+n])
			if k < n {
				copy(p.buffer, b[written+k:written+n])
			}
			// Writes to the buffer must happen-before the reader may
			// load the new limit.
			p.writePos.StoreRelease(wp + uint64(n))
			written += n
			if written == len(b) {
				return written, nil
			}
		}

		if p.waitOtherOrClose(slotWriter) {
			return written, ErrClosedPipe
		}
	}
}

// WriteByte writes a single byte, blocking as [Writer.Write] does.
func (w *Writer) WriteByte(c byte) error {
	b := [1]byte{c}
	_, err := w.Write(b[:])
	return err
}

// TryWrite is the non-blocking variant of Write. It writes as many
// bytes of b as currently fit and returns the count, which may be less
// than len(b). When nothing fits it returns (0, [ErrClosedPipe]) if the
// pipe is closed, (0, [ErrWouldBlock]) otherwise. It never parks; when
// nothing fits and the reader is parked, it wakes the reader.
func (w *Writer) TryWrite(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}

	p := w.p
	wp := p.writePos.LoadRelaxed()
	rp := p.readPos.LoadAcquire()
	n := min(int(p.mask+1-(wp-rp)), len(b))
	if n == 0 {
		if p.closed() {
			return 0, ErrClosedPipe
		}
		// A reader parked on the ring has not seen the bytes that fill
		// it; wake it so it drains them.
		if p.park.Load() == slotReader {
			p.signal(slotReader)
		}
		return 0, ErrWouldBlock
	}

	start := int(wp & p.mask)
	k := copy(p.buffer[start:], b[:n])
	if k < n {
		copy(p.buffer, b[k:n])
	}
	p.writePos.StoreRelease(wp + uint64(n))
	return n, nil
}

// Available returns a snapshot of the free space in bytes. The value is
// advisory: it is a lower bound while the consumer is running. Producer
// task only.
func (w *Writer) Available() int {
	p := w.p
	return int(p.mask + 1 - (p.writePos.LoadRelaxed() - p.readPos.LoadRelaxed()))
}

// ReadFrom feeds the pipe from r until EOF, implementing
// [io.ReaderFrom].
func (w *Writer) ReadFrom(r io.Reader) (int64, error) {
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
		}
		if rerr != nil {
			if rerr == io.EOF {
				return total, nil
			}
			return total, rerr
		}
	}
}

// Close closes the pipe from the writer side and wakes a parked reader.
// Bytes already written remain readable; the reader sees [io.EOF] once
// it has drained them. Idempotent; always returns nil.
func (w *Writer) Close() error {
	w.p.close()
	return nil
}
