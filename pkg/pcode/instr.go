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
package pcode

import "strings"

// OperandKind identifies what an Instruction's operand holds.
type OperandKind uint8

const (
	// OperandRegister is a register token like "d0".
	OperandRegister OperandKind = iota
	// OperandInt is a bare integer literal.
	OperandInt
	// OperandString is a quoted string literal.
	OperandString
	// OperandGlobal is an index into the enclosing object's global list.
	OperandGlobal
	// OperandLabel is a label number, as used by goto/branch/label/try.
	OperandLabel
	// OperandBool is one of the literal tokens "true"/"false".
	OperandBool
	// OperandList is a nested bracketed list (a prototype list, or a
	// struct/record literal embedded as an instruction operand).
	OperandList
)

// Operand is one operand of an Instruction. Exactly one of the fields
// matching its Kind is meaningful.
type Operand struct {
	Kind OperandKind
	Reg  Register
	Int  int64
	Str  string
	Bool bool
	List []Operand
}

func RegOperand(r Register) Operand         { return Operand{Kind: OperandRegister, Reg: r} }
func IntOperand(n int64) Operand            { return Operand{Kind: OperandInt, Int: n} }
func StringOperand(s string) Operand        { return Operand{Kind: OperandString, Str: s} }
func GlobalOperand(index int64) Operand     { return Operand{Kind: OperandGlobal, Int: index} }
func LabelOperand(n int64) Operand          { return Operand{Kind: OperandLabel, Int: n} }
func BoolOperand(b bool) Operand            { return Operand{Kind: OperandBool, Bool: b} }
func ListOperand(items []Operand) Operand   { return Operand{Kind: OperandList, List: items} }

// Instruction is one executable P-Code instruction inside a `fun` record:
// a head keyword (spec.md §3's tagged instruction variant — push/pop,
// ld-*, label/goto/branch/ret, invoke-*, try/yrt/rethrow, the S-* struct
// operations) plus its positional operands. Rather than one Go type per
// opcode, every instruction shares this shape and exposes the reflective
// interface spec.md calls for directly as methods over its operand list:
// callers that need opcode-specific behaviour (the X-Code builder,
// mainly) switch on Op.
type Instruction struct {
	Op       string
	Operands []Operand
}

// Registers returns every register operand referenced by this
// instruction, in operand order.
func (i Instruction) Registers() []Register {
	var regs []Register

	for _, op := range i.Operands {
		if op.Kind == OperandRegister {
			regs = append(regs, op.Reg)
		}
	}

	return regs
}

// Globals returns every global-table index this instruction references.
func (i Instruction) Globals() []int64 {
	var globals []int64

	for _, op := range i.Operands {
		if op.Kind == OperandGlobal {
			globals = append(globals, op.Int)
		}
	}

	return globals
}

// Labels returns every label number this instruction references (as a
// jump target, a try region's handler, or the label pseudo-instruction's
// own number).
func (i Instruction) Labels() []int64 {
	var labels []int64

	for _, op := range i.Operands {
		if op.Kind == OperandLabel {
			labels = append(labels, op.Int)
		}
	}

	return labels
}

// IsTerminator reports whether this instruction ends a basic block per
// spec.md §4.8's block-splitting rule: goto, ret, and (conservatively)
// rethrow all end control flow through the current block.
func (i Instruction) IsTerminator() bool {
	switch i.Op {
	case "goto", "ret", "rethrow":
		return true
	default:
		return false
	}
}

// IsLabel reports whether this is the `label` pseudo-instruction.
func (i Instruction) IsLabel() bool {
	return i.Op == "label"
}

func (i Instruction) String() string {
	var b strings.Builder

	b.WriteString(i.Op)

	for _, op := range i.Operands {
		b.WriteByte(' ')
		b.WriteString(op.String())
	}

	return b.String()
}

func (o Operand) String() string {
	switch o.Kind {
	case OperandRegister:
		return o.Reg.String()
	case OperandInt, OperandGlobal, OperandLabel:
		return formatInt(o.Int)
	case OperandString:
		return quoteString(o.Str)
	case OperandBool:
		if o.Bool {
			return "true"
		}

		return "false"
	case OperandList:
		var b strings.Builder

		b.WriteByte('{')

		for i, item := range o.List {
			if i > 0 {
				b.WriteByte(' ')
			}

			b.WriteString(item.String())
		}

		b.WriteByte('}')

		return b.String()
	default:
		return "?"
	}
}
