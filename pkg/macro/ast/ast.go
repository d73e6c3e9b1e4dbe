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

// Package ast defines the node vtable that macro substitution produces and
// the code generator consumes: a fixed set of optional operations (to-string,
// postprocess, cg-evaluate, cg-discard, cg-define, cg-set-up, cg-tear-down,
// get-constexpr, to-lvalue), each its own small interface embedding Node, so
// a concrete node type implements only the operations it actually supports
// and the rest are absent rather than no-ops.
package ast

import (
	"github.com/avalang/avacore/pkg/diag"
	"github.com/avalang/avacore/pkg/pcode"
	"github.com/avalang/avacore/pkg/value"
)

// Node is the minimum every AST node must satisfy: a source location for
// diagnostics.
type Node interface {
	Location() diag.Location
}

// Stringer nodes can render themselves back to source-like text, used for
// diagnostics that quote an expression.
type Stringer interface {
	Node
	ToString() string
}

// Postprocessor nodes run a validation/rewriting pass after every macro in
// their enclosing block has finished substituting, e.g. to resolve forward
// references that only make sense once sibling statements are known.
type Postprocessor interface {
	Node
	Postprocess(errs *diag.Errors)
}

// Builder is the subset of the code generator's surface that node cg-*
// methods call back into: register allocation, instruction emission, and
// jump-protection/label bookkeeping. Defined here rather than imported from
// pkg/codegen so this package never depends on it; pkg/codegen's generator
// implements this interface structurally.
type Builder interface {
	Emit(instr pcode.Instruction)
	NewLabel() int64
	PushRegister(kind pcode.RegisterKind) pcode.Register
	PopRegister(kind pcode.RegisterKind)
	SetLocation(loc diag.Location)
}

// Evaluator nodes produce a value into a caller-chosen register.
type Evaluator interface {
	Node
	CgEvaluate(b Builder, dst pcode.Register)
}

// Discarder nodes evaluate for side effects only, without needing a
// destination register. A node lacking this operation falls back to
// CgEvaluate into a scratch register the caller then drops.
type Discarder interface {
	Node
	CgDiscard(b Builder)
}

// Definer nodes emit a global-level P-Code definition (a function or global
// variable). The code generator calls CgDefine at most once per node.
type Definer interface {
	Node
	CgDefine(b Builder)
}

// SetUpTearDown nodes bracket their own lifetime with generator-visible
// setup/teardown, e.g. a local variable's scope entry/exit.
type SetUpTearDown interface {
	Node
	CgSetUp(b Builder)
	CgTearDown(b Builder)
}

// ConstExpr nodes can report a statically-known value without generating
// any code, letting callers fold constants instead of evaluating them.
type ConstExpr interface {
	Node
	GetConstExpr() (value.Value, bool)
}

// LValueTarget is what ToLValue resolves a node to: a register to receive
// an assigned value, paired with the code needed to commit it back (e.g.
// an L-value backed by an index expression that must write the
// element back once the new register value is known).
type LValueTarget struct {
	Register pcode.Register
	Commit   func(b Builder)
}

// LValue nodes can be assigned to: the left side of `set`-like macros.
type LValue interface {
	Node
	ToLValue() (LValueTarget, bool)
}
