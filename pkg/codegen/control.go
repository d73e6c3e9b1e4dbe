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
package codegen

import "github.com/avalang/avacore/pkg/pcode"

// PushJprot enters a new jump-protected region: exit is invoked, later,
// for every goto/branch/ret that crosses out of it.
func (g *Generator) PushJprot(exit func(g *Generator)) {
	g.jprot.Push(JprotFrame{Ordinal: int(g.jprot.Len()), Exit: exit})
}

// PopJprot leaves the innermost protected region normally (control
// reached its end without jumping out), discarding the frame without
// invoking its exit callback.
func (g *Generator) PopJprot() {
	g.jprot.Pop()
}

// Goto emits a jump to target, first unwinding (and invoking the exit
// callback of) every jprot frame target's depth lies outside of, per
// spec's goto contract: pop each crossed frame, invoke its exit, recurse,
// then push it back so the stack is exactly as the caller left it.
func (g *Generator) Goto(target int64) {
	if int(g.jprot.Len()) > g.labelDepth[target] {
		frame := g.jprot.Pop()
		frame.Exit(g)
		g.Goto(target)
		g.jprot.Push(frame)

		return
	}

	g.Emit(pcode.Instruction{Op: "goto", Operands: []pcode.Operand{pcode.LabelOperand(target)}})
}

// Ret drains every remaining jprot frame (invoking each exit callback)
// before emitting the function's return instruction.
func (g *Generator) Ret(value pcode.Operand) {
	if g.jprot.Len() > 0 {
		frame := g.jprot.Pop()
		frame.Exit(g)
		g.Ret(value)
		g.jprot.Push(frame)

		return
	}

	g.Emit(pcode.Instruction{Op: "ret", Operands: []pcode.Operand{value}})
}

// Branch emits a conditional jump to target testing key against value
// with instruction op (e.g. an equality or ordering test). If target
// lies outside any jprot frame still on the stack, a direct conditional
// branch would skip the exit callbacks those frames guard, so instead
// the inverse test (invertOp) branches AROUND a synthesized Goto(target)
// — which itself performs the unwind — landing on a label placed right
// after it when the condition is false.
func (g *Generator) Branch(op, invertOp string, key, value pcode.Operand, target int64) {
	if int(g.jprot.Len()) <= g.labelDepth[target] {
		g.Emit(pcode.Instruction{Op: op, Operands: []pcode.Operand{key, value, pcode.LabelOperand(target)}})
		return
	}

	skip := g.NewLabel()

	g.Emit(pcode.Instruction{Op: invertOp, Operands: []pcode.Operand{key, value, pcode.LabelOperand(skip)}})
	g.Goto(target)
	g.EmitLabel(skip)
}

// DeclareLabel binds name (an opaque identity — typically the AST node
// establishing a break/continue target) to label on the symbolic label
// stack, shadowing any outer binding of the same name.
func (g *Generator) DeclareLabel(name any, label int64) {
	g.labels.Push(symbolicLabel{name: name, label: label})
}

// PopLabelBinding removes the most recently declared label binding,
// regardless of name — used when leaving the scope that declared it.
func (g *Generator) PopLabelBinding() {
	g.labels.Pop()
}

// ResolveLabel looks up name on the symbolic label stack, innermost
// binding first.
func (g *Generator) ResolveLabel(name any) (int64, bool) {
	for i := uint(0); i < g.labels.Len(); i++ {
		entry := g.labels.Peek(i)
		if entry.name == name {
			return entry.label, true
		}
	}

	return 0, false
}

// DeclareRegister binds name to reg on the symbolic register stack.
func (g *Generator) DeclareRegister(name any, reg pcode.Register) {
	g.registers.Push(symbolicRegister{name: name, reg: reg})
}

// PopRegisterBinding removes the most recently declared register
// binding, regardless of name.
func (g *Generator) PopRegisterBinding() {
	g.registers.Pop()
}

// ResolveRegister looks up name on the symbolic register stack,
// innermost binding first.
func (g *Generator) ResolveRegister(name any) (pcode.Register, bool) {
	for i := uint(0); i < g.registers.Len(); i++ {
		entry := g.registers.Peek(i)
		if entry.name == name {
			return entry.reg, true
		}
	}

	return pcode.Register{}, false
}
