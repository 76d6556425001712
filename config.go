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

// Config contains the parameters used to map and drive the accelerator.
// A configuration is initialised through config methods on this structure e.g:
//   c := matmul.NewConfig()
//   c.BaseAddr(0x20000000).PollInterval(5 * time.Microsecond)
//   a, err := matmul.Open(c)
type Config struct {
	base   uintptr
	devMem string
	poll   time.Duration
}

// The default config.
// The default configuration maps the register window at the reference
// base address through /dev/mem, and polls with a 1 microsecond quantum.
//
// Before the device is opened, this may be modified to overwrite the
// default configuration e.g
// DefaultConfig.BaseAddr(0x20000000)
var DefaultConfig *Config

func init() {
	DefaultConfig = NewConfig()
}

// NewConfig creates a Config holding the default parameters.
func NewConfig() *Config {
	c := new(Config)
	c.Clear()
	return c
}

// Clear resets the configuration to the defaults.
func (c *Config) Clear() *Config {
	c.base = DefaultBase
	c.devMem = drvDevMem
	c.poll = defaultPoll
	return c
}

// BaseAddr sets the physical base address of the register window.
// The address is platform dependent and is fixed when the device is
// instantiated in the design.
func (c *Config) BaseAddr(addr uintptr) *Config {
	c.base = addr
	return c
}

// DevMem sets the device file used to map the register window.
func (c *Config) DevMem(path string) *Config {
	c.devMem = path
	return c
}

// PollInterval sets the delay quantum used when polling for completion
// and when settling reset and start pulses. Timeouts passed to WaitDone
// and Multiply are counted in these quanta.
func (c *Config) PollInterval(d time.Duration) *Config {
	c.poll = d
	return c
}
