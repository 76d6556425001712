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

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Device paths.
const (
	drvDevMem = "/dev/mem"
)

const defaultPoll = time.Microsecond

// Accel represents the mapped matrix accelerator.
type Accel struct {
	mmapFile *os.File
	mapped   []byte // full page aligned mapping
	mem      []byte // register window within the mapping
	poll     time.Duration
}

// Single instance of the accelerator.
var accel *Accel

// Open maps the accelerator register window using the configuration
// provided. The window is mapped read/write through the configured
// device file (normally /dev/mem).
func Open(ac *Config) (*Accel, error) {
	if accel != nil {
		return nil, fmt.Errorf("Device already open; must close it first")
	}
	f, err := os.OpenFile(ac.devMem, os.O_RDWR|os.O_SYNC, 0660)
	if err != nil {
		return nil, err
	}
	// The mapping must be page aligned; the register window need not be.
	pg := uintptr(unix.Getpagesize())
	page := ac.base &^ (pg - 1)
	offs := int(ac.base - page)
	sz := (offs + windowSize + int(pg) - 1) &^ (int(pg) - 1)
	mem, err := unix.Mmap(int(f.Fd()), int64(page), sz, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %v", ac.devMem, err)
	}
	a := new(Accel)
	a.mmapFile = f
	a.mapped = mem
	a.mem = mem[offs : offs+windowSize]
	a.poll = ac.poll
	accel = a
	return a, nil
}

// OpenMem attaches to a register window that has already been mapped by
// other means, such as a UIO mapping or a simulated device. The slice
// must cover the whole register file and be 32 bit aligned.
func OpenMem(mem []byte) (*Accel, error) {
	if accel != nil {
		return nil, fmt.Errorf("Device already open; must close it first")
	}
	if len(mem) < windowSize {
		return nil, fmt.Errorf("window too small: %d bytes, need %d", len(mem), windowSize)
	}
	if uintptr(unsafe.Pointer(&mem[0]))&3 != 0 {
		return nil, fmt.Errorf("window is not 32 bit aligned")
	}
	a := new(Accel)
	a.mem = mem[:windowSize]
	a.poll = defaultPoll
	accel = a
	return a, nil
}

// Close releases the accelerator, removing any mapping created by Open.
func (a *Accel) Close() {
	if a.mapped != nil {
		unix.Munmap(a.mapped)
		a.mapped = nil
	}
	if a.mmapFile != nil {
		a.mmapFile.Close()
		a.mmapFile = nil
	}
	a.mem = nil
	accel = nil
}

// Description returns a human readable string describing the accelerator.
func (a *Accel) Description() string {
	cfg := a.readConfig()
	return fmt.Sprintf("Matrix accelerator %dx%d (M=%d N=%d P=%d)",
		Size, Size, cfg&0xFF, (cfg>>8)&0xFF, cfg>>16)
}

// rd reads one 32 bit word from the register window.
// Each access is exactly one load that is neither elided nor reordered
// with other accesses to the window.
func (a *Accel) rd(offs uintptr) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(&a.mem[offs])))
}

// wr writes one 32 bit word to the register window.
func (a *Accel) wr(offs uintptr, v uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(&a.mem[offs])), v)
}

func (a *Accel) readControl() uint32 {
	return a.rd(rControl)
}

func (a *Accel) writeControl(v uint32) {
	a.wr(rControl, v)
}

func (a *Accel) readStatus() uint32 {
	return a.rd(rStatus)
}

func (a *Accel) readConfig() uint32 {
	return a.rd(rConfig)
}

func (a *Accel) writeConfig(v uint32) {
	a.wr(rConfig, v)
}

// writeA writes one element to the A staging region. The index is the
// row-major element number and must be in the range 0-15; only the low
// 8 bits of the slot are used by the device.
func (a *Accel) writeA(index int, v uint8) {
	a.wr(rMatrixA+uintptr(index)*elemStride, uint32(v))
}

// writeB writes one element to the B staging region.
func (a *Accel) writeB(index int, v uint8) {
	a.wr(rMatrixB+uintptr(index)*elemStride, uint32(v))
}

// readC reads one 32 bit element from the C result region.
func (a *Accel) readC(index int) uint32 {
	return a.rd(rMatrixC + uintptr(index)*elemStride)
}
