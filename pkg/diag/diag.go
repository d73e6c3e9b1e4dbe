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

// Package diag implements the compiler's structured error representation and
// its pretty-printer. Every stage past the lexer (parser, macro substitution,
// X-Code validation, linker) reports failure by appending to an Errors list
// rather than aborting; nothing here ever panics on a malformed input.
package diag

import "fmt"

// Location is the source-position record attached to every parse unit and,
// by extension, every diagnostic: a filename, the full source text it was
// read from, the byte offset at which its line begins, and 1-based
// start/end line and column numbers.
type Location struct {
	Filename   string
	Source     string
	LineOffset int
	StartLine  int
	EndLine    int
	StartCol   int
	EndCol     int
}

// String renders a location as "filename:line:col".
func (l Location) String() string {
	if l.Filename == "" {
		return fmt.Sprintf("%d:%d", l.StartLine, l.StartCol)
	}

	return fmt.Sprintf("%s:%d:%d", l.Filename, l.StartLine, l.StartCol)
}

// Error is a single compile error: a human-readable message plus the
// location it was reported against.
type Error struct {
	Message  string
	Location Location
}

// Error implements the error interface so a single diag.Error can be
// returned from an API boundary that otherwise speaks plain Go errors.
func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

// Errors is an accumulating, ordered list of compile errors. Every stage
// named in spec's error-handling design (lex, parse, macro substitution,
// X-Code validation, linking) takes one of these by reference and appends
// to it rather than returning early; an operation "failed" iff the list is
// non-empty once it returns. Order matches the order errors were produced.
type Errors struct {
	list []Error
}

// Add appends a new error at the given location.
func (e *Errors) Add(loc Location, format string, args ...any) {
	e.list = append(e.list, Error{Message: fmt.Sprintf(format, args...), Location: loc})
}

// AddError appends an already-constructed Error.
func (e *Errors) AddError(err Error) {
	e.list = append(e.list, err)
}

// HasErrors reports whether any error has been recorded.
func (e *Errors) HasErrors() bool {
	return len(e.list) > 0
}

// Len returns the number of recorded errors.
func (e *Errors) Len() int {
	return len(e.list)
}

// List returns the recorded errors in report order. The returned slice must
// not be mutated by the caller.
func (e *Errors) List() []Error {
	return e.list
}
