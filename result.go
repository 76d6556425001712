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

// Result is the outcome of a driver operation. The set is closed;
// the driver never retries, and surfaces every outcome to the caller.
type Result int

const (
	// Success indicates the operation met its postcondition.
	Success Result = iota
	// ErrTimeout indicates WaitDone exhausted its quanta budget.
	ErrTimeout
	// ErrBusy indicates the device was running when an operation
	// requiring an idle or completed device was attempted.
	ErrBusy
	// ErrInvalidParam indicates a nil argument, or a configuration
	// readback mismatch during Init.
	ErrInvalidParam
)

// String returns a short human readable label for the result.
func (r Result) String() string {
	switch r {
	case Success:
		return "Success"
	case ErrTimeout:
		return "Operation timeout"
	case ErrBusy:
		return "Accelerator busy"
	case ErrInvalidParam:
		return "Invalid parameter"
	default:
		return "Unknown error"
	}
}
