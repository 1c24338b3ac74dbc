// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bpipe

import (
	"io"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates a non-blocking operation cannot proceed
// immediately.
//
// For [Writer.TryWrite]: the ring is full (backpressure).
// For [Reader.TryRead]: no bytes are available yet.
//
// ErrWouldBlock is a control flow signal, not a failure. The caller
// should retry after the other endpoint makes progress, typically with
// [iox.Backoff], or switch to the blocking surface.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrClosedPipe is returned by writer operations once either endpoint
// has closed the pipe. The reader side never sees it: closure manifests
// there as [io.EOF] after the remaining bytes have been drained.
//
// This is an alias for [io.ErrClosedPipe], keeping the pipe a drop-in
// for [io.Pipe] in stream plumbing.
var ErrClosedPipe = io.ErrClosedPipe

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
