// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package except implements the nonlocal-transfer exception model of
// spec.md §4.12: Throw finds the nearest enclosing Try, stashes the
// thrown type, value, and a stack trace, and transfers control there;
// with no enclosing Try, Guard prints the exception and aborts the
// process. Go's own panic/recover already walks the goroutine's defer
// chain the way the original runtime walks its per-thread handler
// stack, so this package is a thin, typed wrapper around them rather
// than a reimplementation of setjmp/longjmp.
//
// This layer is reserved for helpers whose failure must interrupt the
// caller's control flow outright (e.g. a reflective parse of a
// memory-order string); the rest of the compiler reports failures by
// appending to a pkg/diag error list instead.
package except

import (
	"fmt"
	"runtime"

	"github.com/avalang/avacore/pkg/value"
)

// Type classifies a thrown exception, mirroring the original runtime's
// fixed set of ava_exception_type values.
type Type int

// The exception types spec.md §4.12 names.
const (
	User Type = iota
	Error
	Format
	Internal
	Interrupt
	UndefinedBehaviour
)

var uncaughtDescriptions = [...]string{
	User:               "user exception",
	Error:              "programming error",
	Format:             "string format error",
	Internal:           "internal error",
	Interrupt:          "interruption",
	UndefinedBehaviour: "undefined behaviour error",
}

// String names the exception type the way an uncaught instance of it
// is reported.
func (t Type) String() string {
	if t < 0 || int(t) >= len(uncaughtDescriptions) {
		return "unknown exception"
	}

	return uncaughtDescriptions[t]
}

// Exception is the value carried by a Throw's panic and handed back by
// Try: the thrown type and payload, plus a stack trace captured at the
// point of the throw.
type Exception struct {
	Type  Type
	Value value.Value
	Stack []byte
}

// Error satisfies the error interface so an *Exception can be used
// anywhere ordinary Go error handling expects one.
func (e *Exception) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, value.Stringify(e.Value).Force())
}

func captureStack() []byte {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)

	return buf[:n]
}
