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
package except

import "github.com/avalang/avacore/pkg/value"

// Throw raises an exception of the given type carrying val, transferring
// control to the nearest enclosing Try. With none, it propagates out of
// the goroutine as an ordinary Go panic.
func Throw(t Type, val value.Value) {
	panic(&Exception{Type: t, Value: val, Stack: captureStack()})
}

// ThrowStr raises an exception whose value is a single string, the
// shape the original runtime's ava_throw_str produces.
func ThrowStr(t Type, s value.String) {
	Throw(t, value.OfString(s))
}

// ThrowUex raises a user-defined exception: a two-element list of the
// user's type name and a one-entry map from "message" to message,
// matching ava_throw_uex's wire shape so existing user-exception
// handlers that pattern-match on that shape keep working.
func ThrowUex(t Type, userType, message value.String) {
	inner := value.OfValues(value.OfString(value.StringOf("message")), value.OfString(message))
	outer := value.OfValues(value.OfString(userType), inner)

	ThrowStr(t, value.Stringify(outer))
}

// Rethrow raises exc again, as-is (same type, value, and original stack
// trace), for a handler that inspects an exception and decides it
// isn't the one it wants to handle.
func Rethrow(exc *Exception) {
	panic(exc)
}

// Try runs body and, if it throws via this package, recovers the
// exception and returns it instead of letting it propagate further; a
// body that returns normally, or panics with something that isn't an
// *Exception, behaves exactly as if Try weren't there (an unrelated
// panic is repanicked, not swallowed).
func Try(body func()) (caught *Exception) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		exc, ok := r.(*Exception)
		if !ok {
			panic(r)
		}

		caught = exc
	}()

	body()

	return nil
}
