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

package matmul_test

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"
)

// Register layout of the simulated device, mirroring the hardware.
const (
	simWindow  = 0x400
	simControl = 0x000
	simStatus  = 0x004
	simConfig  = 0x008
	simMatrixA = 0x100
	simMatrixB = 0x200
	simMatrixC = 0x300

	simCtlStart = 1 << 0
	simCtlReset = 1 << 1
	simStsDone  = 1 << 0
	simStsBusy  = 1 << 1

	simSize = 4
)

// simDevice models the accelerator over a shared register window.
// A goroutine plays the part of the hardware: it watches the control
// register, self-clears the start bit, computes C = A x B from the
// staged operands and raises done after the configured latency.
// Reset clears both status bits and abandons any computation in
// flight. While stuck is set the device never completes, which is
// used to exercise the timeout path.
type simDevice struct {
	words   []uint32
	latency time.Duration
	stuck   atomic.Bool
	starts  atomic.Int32
	stop    chan struct{}
	wg      sync.WaitGroup
}

func newSimDevice(latency time.Duration) *simDevice {
	d := &simDevice{
		// Backed by a uint32 slice so the window is 32 bit aligned.
		words:   make([]uint32, simWindow/4),
		latency: latency,
		stop:    make(chan struct{}),
	}
	d.wg.Add(1)
	go d.run()
	return d
}

// window returns the device register file as a byte slice suitable for
// matmul.OpenMem.
func (d *simDevice) window() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&d.words[0])), simWindow)
}

func (d *simDevice) close() {
	close(d.stop)
	d.wg.Wait()
}

// ld and st access the shared window with the same atomic discipline
// the driver uses, so driver and device never tear each other's words.
func (d *simDevice) ld(offs int) uint32 {
	return atomic.LoadUint32(&d.words[offs/4])
}

func (d *simDevice) st(offs int, v uint32) {
	atomic.StoreUint32(&d.words[offs/4], v)
}

func (d *simDevice) run() {
	defer d.wg.Done()
	var doneAt time.Time
	computing := false
	for {
		select {
		case <-d.stop:
			return
		default:
		}
		ctl := d.ld(simControl)
		switch {
		case ctl&simCtlReset != 0:
			// Reset wins over anything in flight, and clears
			// both the busy and done bits.
			computing = false
			d.st(simStatus, 0)
		case ctl&simCtlStart != 0:
			// The hardware self-clears start after one cycle.
			d.st(simControl, ctl&^simCtlStart)
			d.starts.Add(1)
			if !computing {
				computing = true
				d.st(simStatus, simStsBusy)
				d.compute()
				doneAt = time.Now().Add(d.latency)
			}
		case computing:
			if !d.stuck.Load() && !time.Now().Before(doneAt) {
				computing = false
				d.st(simStatus, simStsDone)
			}
		}
		runtime.Gosched()
	}
}

// compute reads the staged operands and stores their product in the
// result region. Only the low 8 bits of each staged slot are used.
func (d *simDevice) compute() {
	var ma, mb [simSize * simSize]uint32
	for i := 0; i < simSize*simSize; i++ {
		ma[i] = d.ld(simMatrixA+i*4) & 0xFF
		mb[i] = d.ld(simMatrixB+i*4) & 0xFF
	}
	for row := 0; row < simSize; row++ {
		for col := 0; col < simSize; col++ {
			var sum uint32
			for k := 0; k < simSize; k++ {
				sum += ma[row*simSize+k] * mb[k*simSize+col]
			}
			d.st(simMatrixC+(row*simSize+col)*4, sum)
		}
	}
}

// snapshotA copies the staged A region, used to verify that rejected
// loads leave the device untouched.
func (d *simDevice) snapshotA() [simSize * simSize]uint32 {
	var s [simSize * simSize]uint32
	for i := 0; i < simSize*simSize; i++ {
		s[i] = d.ld(simMatrixA + i*4)
	}
	return s
}
