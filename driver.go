// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package matmul

import "time"

// Matrix is a 4x4 operand matrix of 8 bit unsigned elements, row-major.
type Matrix [Size][Size]uint8

// Product is a 4x4 result matrix of 32 bit unsigned elements, row-major.
// Each entry is the dot product of a row of A with a column of B; the
// largest possible value is 4*255*255, well within 32 bits.
type Product [Size][Size]uint32

// Settle and pulse times, in delay quanta.
const (
	resetSettle = 10
	startPulse  = 2
)

// Init resets and configures the accelerator. It must be called once
// after the device is opened and before any other operation.
// The configuration readback doubles as a device presence probe; a
// mismatch reports ErrInvalidParam.
func (a *Accel) Init() Result {
	a.writeControl(ctlReset)
	a.delay(resetSettle)
	a.writeControl(0)
	a.delay(resetSettle)
	cw, ok := configWord(Size, Size, Size)
	if !ok {
		return ErrInvalidParam
	}
	a.writeConfig(cw)
	if a.readConfig() != cw {
		return ErrInvalidParam
	}
	return Success
}

// IsReady returns true if the accelerator can accept a new operation.
// Note that ready and done are not negations of each other; after a
// reset both the busy and done bits are clear.
func (a *Accel) IsReady() bool {
	return a.readStatus()&stsBusy == 0
}

// IsDone returns true if the last computation has completed.
func (a *Accel) IsDone() bool {
	return a.readStatus()&stsDone != 0
}

// LoadMatrixA stages the A operand. The device must be idle; if a
// computation is in flight, ErrBusy is returned and nothing is written.
func (a *Accel) LoadMatrixA(m *Matrix) Result {
	if m == nil {
		return ErrInvalidParam
	}
	if !a.IsReady() {
		return ErrBusy
	}
	index := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			a.writeA(index, m[row][col])
			index++
		}
	}
	return Success
}

// LoadMatrixB stages the B operand.
func (a *Accel) LoadMatrixB(m *Matrix) Result {
	if m == nil {
		return ErrInvalidParam
	}
	if !a.IsReady() {
		return ErrBusy
	}
	index := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			a.writeB(index, m[row][col])
			index++
		}
	}
	return Success
}

// LoadMatrices stages both operands, stopping at the first failure.
func (a *Accel) LoadMatrices(ma, mb *Matrix) Result {
	if r := a.LoadMatrixA(ma); r != Success {
		return r
	}
	return a.LoadMatrixB(mb)
}

// Start triggers the computation on the staged operands. The start bit
// is held for at least two quanta so the device sees the edge, then
// cleared; the device also self-clears it after one cycle. On return
// the device may already be busy, and the caller is expected to poll
// via WaitDone.
func (a *Accel) Start() Result {
	if !a.IsReady() {
		return ErrBusy
	}
	a.writeControl(ctlStart)
	a.delay(startPulse)
	a.writeControl(0)
	return Success
}

// WaitDone polls the status register until the done bit asserts.
// The timeout is counted in delay quanta, not device cycles or wall
// clock time; a timeout of 0 waits forever. A quantum lasts at least
// the configured poll interval, so the timeout is a floor.
func (a *Accel) WaitDone(timeout uint32) Result {
	var waited uint32
	for !a.IsDone() {
		if timeout > 0 && waited >= timeout {
			return ErrTimeout
		}
		a.delay(1)
		waited++
	}
	return Success
}

// ReadResult copies the result matrix into out. The computation must
// have completed; ErrBusy is returned otherwise.
func (a *Accel) ReadResult(out *Product) Result {
	if out == nil {
		return ErrInvalidParam
	}
	if !a.IsDone() {
		return ErrBusy
	}
	index := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			out[row][col] = a.readC(index)
			index++
		}
	}
	return Success
}

// Multiply performs a complete load, start, wait, read sequence,
// storing A x B into out. The first non-Success step ends the sequence
// and its result is returned. This is the primary entry point; the
// granular operations exist for instrumentation.
func (a *Accel) Multiply(ma, mb *Matrix, out *Product, timeout uint32) Result {
	if r := a.LoadMatrices(ma, mb); r != Success {
		return r
	}
	if r := a.Start(); r != Success {
		return r
	}
	if r := a.WaitDone(timeout); r != Success {
		return r
	}
	return a.ReadResult(out)
}

// Reset returns the accelerator to the idle state from any state.
// Staged operands are invalidated and must be loaded again before the
// next start.
func (a *Accel) Reset() Result {
	a.writeControl(ctlReset)
	a.delay(resetSettle)
	a.writeControl(0)
	a.delay(resetSettle)
	return Success
}

// GetStatus stores the busy and done flags derived from a single
// status register read.
func (a *Accel) GetStatus(busy, done *bool) Result {
	if busy == nil || done == nil {
		return ErrInvalidParam
	}
	status := a.readStatus()
	*busy = status&stsBusy != 0
	*done = status&stsDone != 0
	return Success
}

// delay sleeps for the given number of poll quanta.
func (a *Accel) delay(quanta int) {
	time.Sleep(time.Duration(quanta) * a.poll)
}

// Quanta returns the number of poll quanta covering the duration,
// suitable as a WaitDone timeout.
func (a *Accel) Quanta(d time.Duration) uint32 {
	return uint32((d + a.poll - 1) / a.poll)
}

// QuantaDuration converts a quanta count to its wall clock floor.
func (a *Accel) QuantaDuration(quanta uint32) time.Duration {
	return time.Duration(quanta) * a.poll
}
