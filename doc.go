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

/*

Package matmul manages access and control of a memory mapped 4x4 matrix
multiplication accelerator.

The accelerator computes C = A x B on fixed 4x4 matrices of 8 bit unsigned
elements, producing 32 bit unsigned results. Its register file is exposed
as a small window in the physical address space (control, status and config
registers, plus staging regions for the A and B operands and a result
region for C). The driver provides a synchronous load, start, wait, read
interface over that window:

	a, err := matmul.Open(matmul.DefaultConfig)
	if err != nil {
	    log.Fatal(err)
	}
	defer a.Close()
	if r := a.Init(); r != matmul.Success {
	    log.Fatalf("init failed: %s", r)
	}
	var c matmul.Product
	if r := a.Multiply(&ma, &mb, &c, 10000); r != matmul.Success {
	    log.Fatalf("multiply failed: %s", r)
	}

The device services one operation at a time. The driver keeps no shadow
state; readiness and completion are always derived from the status
register. There is no internal locking, so on a multi-threaded host the
caller must serialise access to a single Accel.

Completion is detected by polling. The timeout passed to WaitDone and
Multiply is counted in delay quanta (see Config.PollInterval), not in
wall clock time or device cycles.

*/
package matmul
