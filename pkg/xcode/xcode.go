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

// Package xcode restructures a validated P-Code `fun` record's flat
// instruction stream into X-Code: a control-flow graph of basic blocks
// with renamed, uniquified registers and phi-style initialisation/
// liveness bitsets, per spec.md §4.8. Unlike P-Code, X-Code is not
// serialisable; it exists only to let the validator prove a function's
// instructions reference existent, initialised registers and well-kinded
// globals before the object is trusted by the linker or an interpreter.
package xcode

import (
	"github.com/avalang/avacore/pkg/diag"
	"github.com/avalang/avacore/pkg/pcode"
)

// Block is one basic block: a maximal straight-line run of instructions,
// plus the indices of the blocks control may fall through or jump to.
type Block struct {
	Instructions []pcode.Instruction

	// Next holds up to two successor block indices, -1 for an absent
	// edge, per spec.md §4.8 item 2.
	Next [2]int

	// Label is the label number this block begins at, or -1 if it was
	// entered purely by fall-through.
	Label int64

	PhiIInit, PhiOInit   regSet
	PhiIExist, PhiOExist regSet
	PhiEffect            regSet
}

// Function is the X-Code form of one `fun` global: its basic blocks plus
// the flat register numbering every operand was rewritten into.
type Function struct {
	Blocks []Block

	// RegTypeOff[k] is the first flat index occupied by a register of
	// kind k; RegTypeOff[k+1]-RegTypeOff[k] is the count of registers of
	// kind k, per spec.md §4.8 item 4.
	RegTypeOff [int(pcode.Function) + 2]uint

	NumArgs int
}

// Global pairs a P-Code global with its X-Code function, when it has one.
type Global struct {
	PC  *pcode.Global
	Fun *Function
}

// GlobalList is the X-Code form of a whole P-Code object.
type GlobalList struct {
	Globals []Global
}

// FromPCode restructures and validates obj, appending every violation it
// finds to errs. A non-nil return does not imply success — entries may be
// left with a nil Fun if that function's body was too malformed to
// restructure — callers must still check errs.HasErrors().
func FromPCode(obj *pcode.Object, errs *diag.Errors) *GlobalList {
	out := &GlobalList{Globals: make([]Global, len(obj.Globals))}

	for i := range obj.Globals {
		g := &obj.Globals[i]
		out.Globals[i].PC = g

		if g.Kind != pcode.Fun {
			continue
		}

		out.Globals[i].Fun = buildFunction(g, errs)
	}

	checkGlobalReferences(obj, errs)

	return out
}

func buildFunction(g *pcode.Global, errs *diag.Errors) *Function {
	blocks, ok := splitBlocks(g.Code, errs)
	if !ok {
		return nil
	}

	resolveTerminators(blocks, errs)
	checkExceptionRegions(blocks, errs)

	fn, ok := renameRegisters(g, blocks, errs)
	if !ok {
		return nil
	}

	runPhiAnalysis(fn, errs)

	return fn
}
