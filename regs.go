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

// Size is the fixed dimension of the operand and result matrices.
const Size = 4

// DefaultBase is the reference physical base address of the register window.
const DefaultBase = 0x10000000

const (
	// Register offsets within the window.
	rControl = 0x000
	rStatus  = 0x004
	rConfig  = 0x008
	rMatrixA = 0x100
	rMatrixB = 0x200
	rMatrixC = 0x300

	// Control register bits. START is self clearing after one device
	// cycle; RESET is active while asserted.
	ctlStart = 1 << 0
	ctlReset = 1 << 1

	// Status register bits. DONE is latched since the last start;
	// BUSY is high while a computation is in flight.
	stsDone = 1 << 0
	stsBusy = 1 << 1

	// Each matrix element occupies one 32 bit slot, row-major.
	elements   = Size * Size
	elemStride = 4

	// Window size covering the whole register file.
	windowSize = 0x400
)

// configWord packs the matrix dimensions into the CONFIG register layout.
// M and N are 8 bit fields, P is 16 bits; values that do not fit are
// refused rather than silently truncated.
func configWord(m, n, p uint32) (uint32, bool) {
	if m > 0xFF || n > 0xFF || p > 0xFFFF {
		return 0, false
	}
	return (p << 16) | (n << 8) | m, true
}
