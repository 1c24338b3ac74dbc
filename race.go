// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package bpipe

// RaceEnabled is true when the race detector is active.
// Used by tests to skip concurrent transfers: the buffer is protected
// by acquire/release cursor publication that the detector cannot
// observe, which triggers false positives.
const RaceEnabled = true
