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
package ast

import (
	"github.com/avalang/avacore/pkg/diag"
	"github.com/avalang/avacore/pkg/pcode"
	"github.com/avalang/avacore/pkg/value"
)

// Literal is a node produced for a bareword, string, or semiliteral of
// literals: it carries a compile-time-known value and never needs to emit
// more than a single immediate-load instruction.
type Literal struct {
	Loc diag.Location
	Val value.Value
}

func (l *Literal) Location() diag.Location { return l.Loc }

func (l *Literal) GetConstExpr() (value.Value, bool) { return l.Val, true }

func (l *Literal) CgEvaluate(b Builder, dst pcode.Register) {
	b.SetLocation(l.Loc)
	b.Emit(pcode.Instruction{
		Op:       "ld-imm-vd",
		Operands: []pcode.Operand{pcode.RegOperand(dst), pcode.StringOperand(value.Stringify(l.Val).Force())},
	})
}

func (l *Literal) CgDiscard(b Builder) {
	// A literal has no side effect; discarding it emits nothing.
	_ = b
}

func (l *Literal) ToString() string { return value.Stringify(l.Val).Force() }

// VarRef is a node referencing a previously-bound variable by its resolved
// register.
type VarRef struct {
	Loc diag.Location
	Reg pcode.Register
}

func (v *VarRef) Location() diag.Location { return v.Loc }

func (v *VarRef) CgEvaluate(b Builder, dst pcode.Register) {
	b.SetLocation(v.Loc)

	if dst == v.Reg {
		return
	}

	b.Emit(pcode.Instruction{Op: "set", Operands: []pcode.Operand{pcode.RegOperand(dst), pcode.RegOperand(v.Reg)}})
}

func (v *VarRef) ToLValue() (LValueTarget, bool) {
	return LValueTarget{Register: v.Reg, Commit: func(Builder) {}}, true
}

// Invocation is a node calling a function value with a fixed argument list,
// evaluating every argument into a fresh data register before emitting the
// call.
type Invocation struct {
	Loc  diag.Location
	Fun  Node
	Args []Node
}

func (n *Invocation) Location() diag.Location { return n.Loc }

func (n *Invocation) CgEvaluate(b Builder, dst pcode.Register) {
	b.SetLocation(n.Loc)

	funReg := evaluateInto(b, n.Fun, pcode.Function)

	argRegs := make([]pcode.Register, len(n.Args))
	for i, arg := range n.Args {
		argRegs[i] = evaluateInto(b, arg, pcode.Data)
	}

	operands := []pcode.Operand{pcode.RegOperand(dst), pcode.RegOperand(funReg)}
	for _, r := range argRegs {
		operands = append(operands, pcode.RegOperand(r))
	}

	b.Emit(pcode.Instruction{Op: "invoke-ssn", Operands: operands})

	for _, r := range argRegs {
		b.PopRegister(r.Kind)
	}

	b.PopRegister(funReg.Kind)
}

func (n *Invocation) CgDiscard(b Builder) {
	scratch := b.PushRegister(pcode.Data)
	n.CgEvaluate(b, scratch)
	b.PopRegister(pcode.Data)
}

// Block is a node wrapping a sequence of statement nodes: every statement
// but the last is discarded for its side effects, and the last (if any)
// supplies the block's value.
type Block struct {
	Loc        diag.Location
	Statements []Node
}

func (n *Block) Location() diag.Location { return n.Loc }

func (n *Block) CgEvaluate(b Builder, dst pcode.Register) {
	b.SetLocation(n.Loc)

	if len(n.Statements) == 0 {
		b.Emit(pcode.Instruction{Op: "ld-imm-vd", Operands: []pcode.Operand{pcode.RegOperand(dst), pcode.StringOperand("")}})
		return
	}

	for _, stmt := range n.Statements[:len(n.Statements)-1] {
		discardNode(b, stmt)
	}

	last := n.Statements[len(n.Statements)-1]
	if ev, ok := last.(Evaluator); ok {
		ev.CgEvaluate(b, dst)
	}
}

func (n *Block) CgDiscard(b Builder) {
	for _, stmt := range n.Statements {
		discardNode(b, stmt)
	}
}

func discardNode(b Builder, n Node) {
	if d, ok := n.(Discarder); ok {
		d.CgDiscard(b)
		return
	}

	if ev, ok := n.(Evaluator); ok {
		scratch := b.PushRegister(pcode.Data)
		ev.CgEvaluate(b, scratch)
		b.PopRegister(pcode.Data)
	}
}

func evaluateInto(b Builder, n Node, kind pcode.RegisterKind) pcode.Register {
	reg := b.PushRegister(kind)

	if ev, ok := n.(Evaluator); ok {
		ev.CgEvaluate(b, reg)
	}

	return reg
}
