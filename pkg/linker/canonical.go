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
	"github.com/avalang/avacore/pkg/pcode/mangle"
)

// participatesInLinkage reports whether g is an entity other objects may
// address by linkage name rather than only by within-object index: a
// linkage definition (fun/var/decl-sxt), or anything published (an
// exported fun/var, or an ext-fun/ext-var standing in for one), per
// spec.md's glossary entry for "participates in linkage."
func participatesInLinkage(g pcode.Global) bool {
	return g.Kind.IsLinkageDefinition() || g.Published
}

// canonicalKey mangles a linkage name into the comparable form the
// original runtime's name-mangling layer produces, so two objects that
// spell the same name differently (were that possible) still collide.
func canonicalKey(name string) string {
	return mangle.Mangle(mangle.Name{Scheme: mangle.Ava, Name: name})
}

// group tracks every index sharing one mangled linkage name, and which of
// them (if any) is a linkage definition.
type group struct {
	canonical int64
	hasDef    bool
	members   []int64
}

// selectCanonical builds the map every participating global's index
// rewrites to, per spec.md §4.9 item 3: linkage definitions participate,
// the first one seen under a name is canonical, and a second is a
// "symbol redefined" error; a non-definition participant (an export, or
// an ext-* with publish=true) defers to a definition under the same name
// whenever one exists, in either order, and otherwise the first one seen
// is canonical.
func selectCanonical(obj *pcode.Object, errs *diag.Errors) map[int64]int64 {
	groups := map[string]*group{}
	var order []string

	for i, g := range obj.Globals {
		if !participatesInLinkage(g) || g.LinkageName == "" {
			continue
		}

		idx := int64(i)
		key := canonicalKey(g.LinkageName)
		isDef := g.Kind.IsLinkageDefinition()

		grp, ok := groups[key]
		if !ok {
			grp = &group{canonical: idx, hasDef: isDef}
			groups[key] = grp
			order = append(order, key)
		} else if isDef {
			if grp.hasDef {
				errs.Add(diag.Location{}, "linker: symbol %q redefined", g.LinkageName)
			} else {
				grp.canonical = idx
				grp.hasDef = true
			}
		}

		grp.members = append(grp.members, idx)
	}

	remap := map[int64]int64{}
	for _, key := range order {
		grp := groups[key]
		for _, m := range grp.members {
			remap[m] = grp.canonical
		}
	}

	return remap
}

// relink rewrites every global reference in obj — a global's own Fields
// and Refs, and every instruction operand inside every fun body — through
// remap, per spec.md §4.9 item 4. Indices remap does not mention are left
// unchanged.
func relink(obj *pcode.Object, remap map[int64]int64) {
	for i := range obj.Globals {
		g := &obj.Globals[i]

		for j, f := range g.Fields {
			g.Fields[j] = remapOperand(f, remap)
		}

		for j, r := range g.Refs {
			if m, ok := remap[r]; ok {
				g.Refs[j] = m
			}
		}

		for ci, in := range g.Code {
			for oi, op := range in.Operands {
				g.Code[ci].Operands[oi] = remapOperand(op, remap)
			}
		}
	}
}

func remapOperand(op pcode.Operand, remap map[int64]int64) pcode.Operand {
	switch op.Kind {
	case pcode.OperandGlobal:
		if m, ok := remap[op.Int]; ok {
			return pcode.GlobalOperand(m)
		}

		return op
	case pcode.OperandList:
		items := make([]pcode.Operand, len(op.List))
		for i, it := range op.List {
			items[i] = remapOperand(it, remap)
		}

		return pcode.ListOperand(items)
	default:
		return op
	}
}

// deleteNonCanonical clears every record remap identifies as a
// non-canonical duplicate (spec.md §4.9 item 5) and reports, per index,
// whether it was cleared — compact uses this to drop the slot entirely.
func deleteNonCanonical(obj *pcode.Object, remap map[int64]int64) []bool {
	dead := make([]bool, len(obj.Globals))

	for i := range obj.Globals {
		if m, ok := remap[int64(i)]; ok && m != int64(i) {
			dead[i] = true
			obj.Globals[i] = pcode.Global{Kind: obj.Globals[i].Kind}
		}
	}

	return dead
}

// compact drops every dead slot and rewrites all surviving references
// through the resulting index shift, per spec.md §4.9 item 6.
func compact(obj *pcode.Object, dead []bool) *pcode.Object {
	newIndex := make([]int64, len(obj.Globals))

	idx := int64(0)
	for i := range obj.Globals {
		if dead[i] {
			continue
		}

		newIndex[i] = idx
		idx++
	}

	out := &pcode.Object{Globals: make([]pcode.Global, 0, idx)}

	for i := range obj.Globals {
		if dead[i] {
			continue
		}

		out.Globals = append(out.Globals, obj.Globals[i])
	}

	for i := range out.Globals {
		g := &out.Globals[i]

		for j, f := range g.Fields {
			g.Fields[j] = remapThroughIndex(f, newIndex)
		}

		for j, r := range g.Refs {
			if int(r) >= 0 && int(r) < len(newIndex) {
				g.Refs[j] = newIndex[r]
			}
		}

		for ci, in := range g.Code {
			for oi, op := range in.Operands {
				g.Code[ci].Operands[oi] = remapThroughIndex(op, newIndex)
			}
		}
	}

	return out
}

func remapThroughIndex(op pcode.Operand, newIndex []int64) pcode.Operand {
	switch op.Kind {
	case pcode.OperandGlobal:
		if op.Int >= 0 && int(op.Int) < len(newIndex) {
			return pcode.GlobalOperand(newIndex[op.Int])
		}

		return op
	case pcode.OperandList:
		items := make([]pcode.Operand, len(op.List))
		for i, it := range op.List {
			items[i] = remapThroughIndex(it, newIndex)
		}

		return pcode.ListOperand(items)
	default:
		return op
	}
}
