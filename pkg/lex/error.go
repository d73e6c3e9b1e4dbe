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
package lex

import (
	"errors"
	"fmt"
)

// ErrEndOfInput is returned by Next when the lexer reaches the end of the
// input without encountering a lexical error. Distinct from Error so callers
// can use errors.Is to tell clean termination from a malformed token.
var ErrEndOfInput = errors.New("end of input")

// Error is a structured lexical error: a message plus the span of source it
// was produced over. Lexing may continue safely after one is returned.
type Error struct {
	Message              string
	Line, Column         int
	IndexStart, IndexEnd int
	LineOffset           int
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}
