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
	"strings"

	"github.com/avalang/avacore/pkg/diag"
	"github.com/avalang/avacore/pkg/pcode"
)

// requiredKinds names, for an instruction opcode prefix, the global kinds
// a reference from it must resolve to. Checked in order; the first
// matching prefix wins. Opcodes outside this table are assumed not to
// reference globals at all (the common case — most instructions operate
// purely on registers).
var requiredKinds = []struct {
	prefix string
	kinds  []pcode.GlobalKind
}{
	{"invoke-", []pcode.GlobalKind{pcode.Fun, pcode.ExtFun}},
	{"ld-glob", []pcode.GlobalKind{pcode.VarGlobal, pcode.ExtVar}},
	{"set-glob", []pcode.GlobalKind{pcode.VarGlobal, pcode.ExtVar}},
	{"S-new-s", []pcode.GlobalKind{pcode.DeclSxt}},
	{"S-new", []pcode.GlobalKind{pcode.DeclSxt}},
	{"S-cpy", []pcode.GlobalKind{pcode.DeclSxt}},
	{"S-", []pcode.GlobalKind{pcode.DeclSxt}},
}

func kindsFor(op string) ([]pcode.GlobalKind, bool) {
	for _, e := range requiredKinds {
		if strings.HasPrefix(op, e.prefix) {
			return e.kinds, true
		}
	}

	return nil, false
}

func kindAllowed(kind pcode.GlobalKind, allowed []pcode.GlobalKind) bool {
	for _, k := range allowed {
		if k == kind {
			return true
		}
	}

	return false
}

// checkGlobalReferences performs spec.md §4.8 items 7-8: every global
// index an instruction (or a global's own Fields, e.g. a `var`'s
// initialiser) references must lie within the object and name a global of
// the kind the referencing instruction requires.
func checkGlobalReferences(obj *pcode.Object, errs *diag.Errors) {
	n := int64(len(obj.Globals))

	checkIndex := func(idx int64, allowed []pcode.GlobalKind, ctx string) {
		if idx < 0 || idx >= n {
			errs.Add(diag.Location{}, "X9007: global reference %d out of range in %s", idx, ctx)
			return
		}

		if allowed != nil && !kindAllowed(obj.Globals[idx].Kind, allowed) {
			errs.Add(diag.Location{}, "X9008: global reference %d in %s has the wrong kind (%s)", idx, ctx, obj.Globals[idx].Kind)
		}
	}

	for _, g := range obj.Globals {
		for _, ref := range g.Refs {
			checkIndex(ref, nil, g.Kind.String())
		}

		for _, op := range g.Fields {
			if op.Kind == pcode.OperandGlobal {
				checkIndex(op.Int, nil, g.Kind.String())
			}
		}

		for _, in := range g.Code {
			allowed, hasReq := kindsFor(in.Op)

			for _, ref := range in.Globals() {
				checkIndex(ref, allowed, in.Op)
			}

			if hasReq && strings.HasPrefix(in.Op, "invoke-") {
				checkInvokeArity(obj, in, errs)
			}
		}
	}
}

// checkInvokeArity compares a static invocation's argument registers
// against its callee's declared prototype length, when both are
// statically known. A mismatch is X9009.
func checkInvokeArity(obj *pcode.Object, in pcode.Instruction, errs *diag.Errors) {
	globals := in.Globals()
	if len(globals) == 0 {
		return
	}

	target := globals[0]
	if target < 0 || target >= int64(len(obj.Globals)) {
		return
	}

	callee := obj.Globals[target]
	if callee.Kind != pcode.Fun && callee.Kind != pcode.ExtFun {
		return
	}

	want, ok := protoLength(callee)
	if !ok {
		return
	}

	got := len(in.Registers()) - 1 // the destination register isn't an argument; the callee is a global
	if got < 0 {
		got = 0
	}

	if got != want {
		errs.Add(diag.Location{}, "X9009: invoke argument count %d does not match callee prototype of %d", got, want)
	}
}

func protoLength(g pcode.Global) (int, bool) {
	if len(g.Fields) == 0 {
		return 0, false
	}

	switch g.Fields[0].Kind {
	case pcode.OperandList:
		return len(g.Fields[0].List), true
	case pcode.OperandString:
		return 1, true
	default:
		return 0, false
	}
}
