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

// Package macro implements the macro substitution engine: for each
// statement of a block it finds the macro that provokes substitution
// (resolving the provoking bareword through the symbol table and
// respecting macro precedence), invokes that macro's substitution
// function, and folds the result back into the statement until every
// statement has become a single AST node.
package macro

import (
	"github.com/avalang/avacore/pkg/diag"
	"github.com/avalang/avacore/pkg/symtab"
)

// Context is threaded through every substitution call: the symbol table
// macros resolve names against, the error list they report into, the
// enclosing package's name prefix, the current nesting level (incremented
// per block), a separate table tracking local variable registers
// (varscope), and a handle back to the compilation environment macros may
// need for cross-module lookups.
type Context struct {
	Symtab   *symtab.Table
	Errs     *diag.Errors
	Package  string
	Level    int
	Varscope *symtab.Table
	Compenv  any

	// Panic, once set, tells the engine to stop invoking further macros
	// in the current block (each remaining statement is skipped rather
	// than substituted) while still letting already-collected errors
	// propagate normally.
	Panic bool
}

// Nested returns a copy of the context for a nested block: a child symbol
// table scope, the next nesting level, everything else shared.
func (c *Context) Nested() *Context {
	child := *c
	child.Symtab = symtab.New(c.Symtab)
	child.Varscope = symtab.New(c.Varscope)
	child.Level++

	return &child
}
