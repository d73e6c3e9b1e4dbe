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
package xcode

import (
	"github.com/avalang/avacore/pkg/diag"
	"github.com/avalang/avacore/pkg/pcode"
)

// kindOrder fixes the flat numbering order spec.md §4.8 item 4 describes:
// Var registers occupy the bottom of the space (offset 0), followed by
// the remaining kinds in declaration order.
var kindOrder = []pcode.RegisterKind{pcode.Var, pcode.Data, pcode.Int, pcode.List, pcode.Parm, pcode.Function}

// numVars returns a fun global's declared variable count: the length of
// its vars field. pkg/codegen's only current fun producer (the
// synthesized top-level function) leaves Fields empty, so this only ever
// fires for a fun global a caller populated with an explicit vars list at
// Fields[1] (the convention this package's own tests, and any future
// user-function producer, are expected to follow) — it does not assume
// pkg/pcode's text-reader convention of also duplicating the published
// flag and linkage name into Fields, since the only real producer never
// does that.
func numVars(g *pcode.Global) int {
	if len(g.Fields) < 2 || g.Fields[1].Kind != pcode.OperandList {
		return 0
	}

	return len(g.Fields[1].List)
}

// writesAndReads classifies an instruction's register operands per the
// convention the code generator itself follows (pkg/codegen, pkg/macro/
// ast): the first register operand of a value-producing instruction is
// its destination, the rest are sources. Instructions with no
// destination — control flow, stack bookkeeping, and anything shaped
// like a conditional branch (a trailing label operand) — treat every
// register operand as a read. No gen-pcode.h-level per-opcode schema
// survives in the retrieval pack to ground a more precise split; this
// mirrors the only producer of P-Code this repository has.
func writesAndReads(in pcode.Instruction) (writes []pcode.Register, reads []pcode.Register) {
	switch in.Op {
	case "label", "src-pos", "push", "pop", "goto", "yrt", "rethrow", "ret", "try":
		return nil, in.Registers()
	}

	if isBranch(in) {
		return nil, in.Registers()
	}

	regs := in.Registers()
	if len(regs) == 0 {
		return nil, nil
	}

	return regs[:1], regs[1:]
}

// renameRegisters performs spec.md §4.8 item 4: simulate the register
// stack in program order, assigning every push a fresh, never-reused flat
// index, and rewrite every operand to its uniquified register. Reading or
// writing beyond the currently-live section for a kind is X9002; popping
// past empty is X9001.
//
// Every kind, Var included, is pushed and popped identically by this
// repository's code generator (Generator.PushRegister treats all six
// kinds the same); there is no separate "pre-existing argument" register
// file to special-case. A fun record's declared variable count (when its
// Fields carry one, per numVars) instead seeds the Var section with that
// many already-live flat indices before the body's own pushes begin.
func renameRegisters(g *pcode.Global, blocks []Block, errs *diag.Errors) (*Function, bool) {
	nVars := numVars(g)

	totalPushes := map[pcode.RegisterKind]uint{}

	for _, b := range blocks {
		for _, in := range b.Instructions {
			if in.Op == "push" {
				totalPushes[kindOf(in)]++
			}
		}
	}

	fn := &Function{Blocks: make([]Block, len(blocks)), NumArgs: nVars}

	off := uint(0)
	for _, k := range kindOrder {
		fn.RegTypeOff[k] = off

		if k == pcode.Var {
			off += uint(nVars) + totalPushes[k]
		} else {
			off += totalPushes[k]
		}
	}

	fn.RegTypeOff[len(fn.RegTypeOff)-1] = off

	sections := map[pcode.RegisterKind][]uint{}
	next := map[pcode.RegisterKind]uint{}

	for k, v := range fn.RegTypeOff {
		if k < len(kindOrder) {
			next[kindOrder[k]] = v
		}
	}

	if nVars > 0 {
		base := fn.RegTypeOff[pcode.Var]
		for i := 0; i < nVars; i++ {
			sections[pcode.Var] = append(sections[pcode.Var], base+uint(i))
		}

		next[pcode.Var] = base + uint(nVars)
	}

	ok := true

	resolveReg := func(r pcode.Register) (uint, bool) {
		sec := sections[r.Kind]
		if int(r.Index) >= len(sec) {
			return 0, false
		}

		return sec[r.Index], true
	}

	for bi, b := range blocks {
		out := Block{Next: b.Next, Label: b.Label}

		for _, in := range b.Instructions {
			switch in.Op {
			case "push":
				k := kindOf(in)
				sections[k] = append(sections[k], next[k])
				next[k]++

				out.Instructions = append(out.Instructions, in)

				continue
			case "pop":
				k := kindOf(in)
				if len(sections[k]) == 0 {
					errs.Add(diag.Location{}, "X9001: pop beyond stack for register kind %s", k)
					ok = false

					out.Instructions = append(out.Instructions, in)

					continue
				}

				sections[k] = sections[k][:len(sections[k])-1]
				out.Instructions = append(out.Instructions, in)

				continue
			}

			if in.Op == "ret" {
				for _, k := range kindOrder {
					live := len(sections[k])
					if k == pcode.Var {
						live -= nVars
					}

					if live > 0 {
						errs.Add(diag.Location{}, "X9006: ret with an unclosed push of register kind %s", k)

						break
					}
				}
			}

			renamed := in
			renamed.Operands = append([]pcode.Operand(nil), in.Operands...)

			for oi, op := range renamed.Operands {
				if op.Kind != pcode.OperandRegister {
					continue
				}

				flat, found := resolveReg(op.Reg)
				if !found {
					errs.Add(diag.Location{}, "X9002: register %s out of range", op.Reg)
					ok = false

					continue
				}

				renamed.Operands[oi] = pcode.RegOperand(pcode.Register{Kind: op.Reg.Kind, Index: flat})
			}

			out.Instructions = append(out.Instructions, renamed)
		}

		fn.Blocks[bi] = out
	}

	return fn, ok
}

// kindOf recovers the register kind a push/pop instruction manipulates
// from its sole string operand (the kind letter), matching pkg/codegen's
// emission shape.
func kindOf(in pcode.Instruction) pcode.RegisterKind {
	if len(in.Operands) == 0 || in.Operands[0].Kind != pcode.OperandString {
		return pcode.Data
	}

	switch in.Operands[0].Str {
	case "v":
		return pcode.Var
	case "d":
		return pcode.Data
	case "i":
		return pcode.Int
	case "l":
		return pcode.List
	case "p":
		return pcode.Parm
	case "f":
		return pcode.Function
	default:
		return pcode.Data
	}
}
