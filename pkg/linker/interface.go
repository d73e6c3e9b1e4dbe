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

import "github.com/avalang/avacore/pkg/pcode"

// ToInterface reduces a linked implementation object to its interface, per
// spec.md §4.9 item 1: fun/var definitions survive only when some export
// names them, and turn into bodiless ext-fun/ext-var declarations; macro
// and export records are kept only when published; decl-sxt survives only
// when exported; load-pkg, load-mod, and init vanish outright (an
// interface never loads anything or runs anything); a src-pos survives
// only if something other than another src-pos immediately follows it in
// the reduced output.
func ToInterface(obj *pcode.Object) *pcode.Object {
	n := len(obj.Globals)

	exported := make([]bool, n)
	for _, g := range obj.Globals {
		if g.Kind != pcode.Export || len(g.Fields) == 0 || g.Fields[0].Kind != pcode.OperandGlobal {
			continue
		}

		if target := g.Fields[0].Int; target >= 0 && int(target) < n {
			exported[target] = true
		}
	}

	keep := make([]bool, n)
	for i := range obj.Globals {
		keep[i] = keepInInterface(obj.Globals, i, exported)
	}

	newIndex := make([]int64, n)
	out := &pcode.Object{}

	for i, g := range obj.Globals {
		if !keep[i] {
			continue
		}

		newIndex[i] = int64(len(out.Globals))
		out.Globals = append(out.Globals, toInterfaceRecord(g))
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
	}

	return out
}

// keepInInterface decides whether the global at index i survives
// reduction, per spec.md §4.9 item 1.
func keepInInterface(globals []pcode.Global, i int, exported []bool) bool {
	g := globals[i]

	switch g.Kind {
	case pcode.SrcPos:
		for j := i + 1; j < len(globals); j++ {
			if globals[j].Kind == pcode.SrcPos {
				return false
			}

			if keepInInterface(globals, j, exported) {
				return true
			}
		}

		return false

	case pcode.ExtVar, pcode.ExtFun, pcode.VarGlobal, pcode.Fun, pcode.DeclSxt:
		return exported[i]

	case pcode.Export, pcode.Macro:
		return g.Published

	case pcode.LoadPkg, pcode.LoadMod, pcode.Init:
		return false

	default:
		return false
	}
}

// toInterfaceRecord produces the interface-form record for a kept global:
// fun becomes ext-fun (name and prototype only, no body, no declared
// vars), var becomes ext-var (name only), everything else is carried
// through unchanged. A fun's prototype, when present, is its Fields[0]
// (pkg/xcode's protoLength reads the same slot); the vars list at
// Fields[1] is dropped along with the body, since an external
// declaration has no local variables of its own.
func toInterfaceRecord(g pcode.Global) pcode.Global {
	switch g.Kind {
	case pcode.Fun:
		var fields []pcode.Operand
		if len(g.Fields) > 0 {
			fields = []pcode.Operand{g.Fields[0]}
		}

		return pcode.Global{Kind: pcode.ExtFun, Published: g.Published, LinkageName: g.LinkageName, Fields: fields}

	case pcode.VarGlobal:
		return pcode.Global{Kind: pcode.ExtVar, Published: g.Published, LinkageName: g.LinkageName}

	default:
		out := g
		out.Fields = append([]pcode.Operand(nil), g.Fields...)
		out.Refs = append([]int64(nil), g.Refs...)
		out.Code = nil

		return out
	}
}
