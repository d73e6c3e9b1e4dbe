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
package macro

import (
	"github.com/avalang/avacore/pkg/macro/ast"
	"github.com/avalang/avacore/pkg/parse"
)

// Status is a substitution function's verdict: Done means the result node
// is final, Again asks the engine to re-run substitution at the same
// site (used for operator-precedence re-scanning once a substitution
// function has rewritten its own provoker away).
type Status uint8

const (
	Done Status = iota
	Again
)

// Result is what a substitution function returns.
type Result struct {
	Status Status
	Node   ast.Node

	// ConsumedStatements lets a control macro (e.g. one introducing a
	// loop body from following `{ ... }`-delimited statements) report
	// how many additional statements past its own it has swallowed; the
	// engine skips that many before continuing the block.
	ConsumedStatements int
}

// ErrorResult is the convenience substitution functions return after
// appending a diagnostic: Done, with no node.
func ErrorResult() Result { return Result{Status: Done} }

// SubstFunc is a macro's substitution function: given the full statement
// it appears in and the index of its own provoking unit within it, it
// returns a Result. It is responsible for parsing and consuming its own
// arguments out of the statement (see pkg/macro/argparse) and reporting
// any argument errors into ctx.Errs itself.
type SubstFunc func(ctx *Context, statement []*parse.Unit, provokerIndex int) Result

// Macro is a bareword's binding to a substitution function, stored as a
// symtab.Symbol's Payload. Precedence determines which of several macros
// present in one statement is substituted first: the engine always
// substitutes the lowest-precedence candidate, since in a well-formed
// precedence grammar that is the operator binding loosest, i.e. the one
// that should wrap everything else once its own arguments are fully
// resolved.
type Macro struct {
	Subst      SubstFunc
	Precedence int
}
