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
package linker

import (
	"github.com/avalang/avacore/pkg/diag"
	"github.com/avalang/avacore/pkg/pcode"
)

// concatenator walks load-pkg/load-mod records in the order they're
// encountered, folding each named object's globals in at the current
// output length (its "base offset"), shifting every global reference the
// inserted object carries by that offset. loading tracks names currently
// being inserted so a cycle (a package that (transitively) loads itself)
// is reported rather than looping forever — spec.md §4.9's "packages and
// modules whose insertion is in progress live on a stack."
type concatenator struct {
	linker  *Linker
	errs    *diag.Errors
	loading map[string]bool
}

// concatObject appends src's globals (and anything it transitively loads)
// onto dst, in place. nested is true while folding in a loaded package or
// module (as opposed to one of Link's own root objects): only then does an
// export without its reexport flag set get dropped rather than carried
// through, so a dependency's private re-export of someone else's symbol
// doesn't leak into every consumer's own export set.
func (c *concatenator) concatObject(dst *pcode.Object, src *pcode.Object, nested bool) {
	base := int64(len(dst.Globals))

	for _, g := range src.Globals {
		switch g.Kind {
		case pcode.LoadPkg:
			c.loadNamed(dst, g, c.linker.packages, "package")
			continue
		case pcode.LoadMod:
			c.loadNamed(dst, g, c.linker.modules, "module")
			continue
		}

		if nested && g.Kind == pcode.Export && !reexportFlag(g) {
			continue
		}

		dst.Globals = append(dst.Globals, shiftGlobal(cloneGlobal(g), base))
	}
}

// reexportFlag reads an export record's trailing bool field, matching the
// original runtime's ava_pcode_global_get_reexport; absent, it defaults to
// false (an export is private to its own object unless marked otherwise).
func reexportFlag(g pcode.Global) bool {
	if len(g.Fields) < 2 || g.Fields[1].Kind != pcode.OperandBool {
		return false
	}

	return g.Fields[1].Bool
}

func (c *concatenator) loadNamed(dst *pcode.Object, g pcode.Global, table map[string]*entry, kind string) {
	name := loadName(g)
	if name == "" {
		c.errs.Add(diag.Location{}, "linker: malformed load-%s record", kind)
		return
	}

	ent, ok := table[name]
	if !ok {
		c.errs.Add(diag.Location{}, "linker: no such %s %q", kind, name)
		return
	}

	key := kind + ":" + name
	if c.loading[key] {
		c.errs.Add(diag.Location{}, "linker: cyclic load of %s %q", kind, name)
		return
	}

	if ent.consumed {
		return
	}

	c.loading[key] = true
	ent.consumed = true
	c.concatObject(dst, ent.obj, true)
	delete(c.loading, key)
}

// loadName recovers the name a load-pkg/load-mod record refers to: its
// sole string field, matching pkg/codegen's BuildModule emission shape.
func loadName(g pcode.Global) string {
	if len(g.Fields) == 0 || g.Fields[0].Kind != pcode.OperandString {
		return ""
	}

	return g.Fields[0].Str
}

// cloneGlobal deep-copies a global record so the same source object can be
// concatenated into more than one output without aliasing.
func cloneGlobal(g pcode.Global) pcode.Global {
	out := g

	out.Fields = append([]pcode.Operand(nil), g.Fields...)
	out.Refs = append([]int64(nil), g.Refs...)
	out.Code = make([]pcode.Instruction, len(g.Code))

	for i, in := range g.Code {
		out.Code[i] = pcode.Instruction{Op: in.Op, Operands: append([]pcode.Operand(nil), in.Operands...)}
	}

	return out
}

// shiftGlobal adds base to every global-table reference a cloned record
// carries: its Fields, its Refs, and — for a fun — every instruction's
// global operands.
func shiftGlobal(g pcode.Global, base int64) pcode.Global {
	for i, f := range g.Fields {
		g.Fields[i] = shiftOperand(f, base)
	}

	for i, r := range g.Refs {
		g.Refs[i] = r + base
	}

	for ci, in := range g.Code {
		for oi, op := range in.Operands {
			g.Code[ci].Operands[oi] = shiftOperand(op, base)
		}
	}

	return g
}

func shiftOperand(op pcode.Operand, base int64) pcode.Operand {
	switch op.Kind {
	case pcode.OperandGlobal:
		return pcode.GlobalOperand(op.Int + base)
	case pcode.OperandList:
		items := make([]pcode.Operand, len(op.List))
		for i, it := range op.List {
			items[i] = shiftOperand(it, base)
		}
		return pcode.ListOperand(items)
	default:
		return op
	}
}
