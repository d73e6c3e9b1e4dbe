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

// Package codegen implements the P-Code builder macro-substituted AST
// nodes emit themselves into: per-register-kind stack depth tracking, the
// jump-protection/label/register symbolic stacks spec.md §4.6 describes,
// and the branch/goto/ret contracts that thread control flow correctly
// through protected regions.
package codegen

import (
	"github.com/avalang/avacore/pkg/diag"
	"github.com/avalang/avacore/pkg/pcode"
	"github.com/avalang/avacore/pkg/util/collection/stack"
)

// JprotFrame is one entry of the jump-protection stack: Ordinal orders
// frames so "crossing" (a goto/ret/branch whose target lies outside this
// frame) can be detected by simple comparison, and Exit is invoked, in
// innermost-first order, for every frame control actually crosses.
type JprotFrame struct {
	Ordinal int
	Exit    func(g *Generator)
}

// symbolicLabel and symbolicRegister back the label/register symbolic
// stacks: opaque name pointers (any Go value usable as a map key — a
// break/continue target's identity, typically the AST node establishing
// it) resolved to a P-Code label number or register.
type symbolicLabel struct {
	name  any
	label int64
}

type symbolicRegister struct {
	name any
	reg  pcode.Register
}

// Generator is the code generator: a P-Code builder for one `fun` record,
// the current source location (deduplicating src-pos instructions), and
// the three control-flow stacks spec.md §4.6 names.
type Generator struct {
	code []pcode.Instruction

	loc     diag.Location
	haveLoc bool
	nextReg [6]uint
	nextLbl int64

	// labelDepth records, for each label allocated by NewLabel, the
	// jprot stack depth in effect at allocation time — the depth a
	// goto/branch/ret targeting it must unwind to.
	labelDepth map[int64]int

	jprot     stack.Stack[JprotFrame]
	labels    stack.Stack[symbolicLabel]
	registers stack.Stack[symbolicRegister]
}

// New creates an empty generator.
func New() *Generator {
	return &Generator{labelDepth: make(map[int64]int)}
}

// Emit appends instr to the function body as-is. AST nodes needing
// finer control (push-reg, branch, goto, ret) use the dedicated methods
// below instead, which themselves call Emit.
func (g *Generator) Emit(instr pcode.Instruction) {
	g.code = append(g.code, instr)
}

// Code returns the instructions emitted so far, in emission order.
func (g *Generator) Code() []pcode.Instruction {
	return g.code
}

// NewLabel allocates a fresh label number and records the current
// jprot depth as the depth any jump to it must unwind to — label
// allocation happens at the control-flow point the label represents
// (e.g. a loop's break target, allocated before the loop body's own
// protected regions are entered), so this is the correct depth to
// capture regardless of where EmitLabel eventually places it in the
// instruction stream.
func (g *Generator) NewLabel() int64 {
	g.nextLbl++
	g.labelDepth[g.nextLbl] = int(g.jprot.Len())

	return g.nextLbl
}

// EmitLabel emits the `label` pseudo-instruction marking id's position
// in the instruction stream. id must have come from NewLabel.
func (g *Generator) EmitLabel(id int64) {
	g.Emit(pcode.Instruction{Op: "label", Operands: []pcode.Operand{pcode.LabelOperand(id)}})
}

// SetLocation emits a src-pos instruction iff loc differs from the last
// location set, so sequential instructions sharing a source position do
// not each carry a redundant marker.
func (g *Generator) SetLocation(loc diag.Location) {
	if g.haveLoc && loc == g.loc {
		return
	}

	g.loc = loc
	g.haveLoc = true

	g.Emit(pcode.Instruction{
		Op: "src-pos",
		Operands: []pcode.Operand{
			pcode.IntOperand(int64(loc.StartLine)),
			pcode.IntOperand(int64(loc.StartCol)),
			pcode.IntOperand(int64(loc.EndLine)),
			pcode.IntOperand(int64(loc.EndCol)),
		},
	})
}

// PushRegister allocates the next register of kind, emits the
// corresponding push instruction, and returns it.
func (g *Generator) PushRegister(kind pcode.RegisterKind) pcode.Register {
	reg := pcode.Register{Kind: kind, Index: g.nextReg[kind]}
	g.nextReg[kind]++

	g.Emit(pcode.Instruction{Op: "push", Operands: []pcode.Operand{pcode.StringOperand(kind.String())}})

	return reg
}

// PushRegisters is PushRegister for n registers of the same kind at once,
// matching the push-reg(kind, n) contract directly.
func (g *Generator) PushRegisters(kind pcode.RegisterKind, n uint) []pcode.Register {
	regs := make([]pcode.Register, n)
	for i := range regs {
		regs[i] = g.PushRegister(kind)
	}

	return regs
}

// PopRegister retires the most recently pushed register of kind and
// emits the corresponding pop instruction. Pops must balance pushes;
// popping a kind with nothing pushed panics, mirroring the teacher's
// stack type's own out-of-bounds panics rather than silently desyncing
// the generator's register counters from the emitted instruction stream.
func (g *Generator) PopRegister(kind pcode.RegisterKind) {
	if g.nextReg[kind] == 0 {
		panic("codegen: pop-reg without matching push-reg")
	}

	g.nextReg[kind]--

	g.Emit(pcode.Instruction{Op: "pop", Operands: []pcode.Operand{pcode.StringOperand(kind.String())}})
}

// PopRegisters pops n registers of kind.
func (g *Generator) PopRegisters(kind pcode.RegisterKind, n uint) {
	for range n {
		g.PopRegister(kind)
	}
}
