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
	"strings"
	"testing"

	"github.com/avalang/avacore/pkg/diag"
	"github.com/avalang/avacore/pkg/pcode"
)

// TestToInterfaceExportedVarBecomesExtVar matches spec.md §4.9 item 6's
// worked example: a module with `var true [ava foo]` exported produces an
// interface with `ext-var [ava foo]` exported.
func TestToInterfaceExportedVarBecomesExtVar(t *testing.T) {
	obj := &pcode.Object{Globals: []pcode.Global{
		{Kind: pcode.VarGlobal, Published: true, LinkageName: "ava foo"},
		{Kind: pcode.Export, Published: true, Fields: []pcode.Operand{pcode.GlobalOperand(0)}},
	}}

	out := ToInterface(obj)

	if len(out.Globals) != 2 {
		t.Fatalf("expected 2 globals in interface, got %d: %+v", len(out.Globals), out.Globals)
	}

	if out.Globals[0].Kind != pcode.ExtVar || out.Globals[0].LinkageName != "ava foo" {
		t.Errorf("expected ext-var %q, got %+v", "ava foo", out.Globals[0])
	}

	if out.Globals[1].Kind != pcode.Export || !out.Globals[1].Published {
		t.Errorf("expected a surviving published export, got %+v", out.Globals[1])
	}

	if out.Globals[1].Fields[0].Int != 0 {
		t.Errorf("export's reference was not fixed up to the reduced ext-var's index: %+v", out.Globals[1])
	}
}

// TestToInterfaceDropsFunBodyAndPrivateGlobals checks that a fun becomes a
// bodiless ext-fun only when exported, and that an unexported fun/var and
// every load-pkg/load-mod/init vanish entirely.
func TestToInterfaceDropsFunBodyAndPrivateGlobals(t *testing.T) {
	obj := &pcode.Object{Globals: []pcode.Global{
		{Kind: pcode.LoadPkg, Fields: []pcode.Operand{pcode.StringOperand("ava lang")}},
		{Kind: pcode.Fun, Published: true, LinkageName: "ava bar", Code: []pcode.Instruction{{Op: "ret"}}},
		{Kind: pcode.Export, Published: true, Fields: []pcode.Operand{pcode.GlobalOperand(1)}},
		{Kind: pcode.Fun, Published: false, LinkageName: "ava private-helper", Code: []pcode.Instruction{{Op: "ret"}}},
		{Kind: pcode.Init, Fields: []pcode.Operand{pcode.GlobalOperand(1)}},
	}}

	out := ToInterface(obj)

	for _, g := range out.Globals {
		if g.Kind == pcode.LoadPkg || g.Kind == pcode.Init {
			t.Errorf("load-pkg/init must not survive to-interface reduction, found %+v", g)
		}

		if g.LinkageName == "ava private-helper" {
			t.Errorf("unexported fun must not survive to-interface reduction")
		}

		if g.Kind == pcode.ExtFun && len(g.Code) != 0 {
			t.Errorf("ext-fun must have no body: %+v", g)
		}
	}

	found := false
	for _, g := range out.Globals {
		if g.Kind == pcode.ExtFun && g.LinkageName == "ava bar" {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected exported fun to survive as ext-fun, got %+v", out.Globals)
	}
}

func strGlobal(kind pcode.GlobalKind, published bool, name string, extra ...pcode.Operand) pcode.Global {
	return pcode.Global{Kind: kind, Published: published, LinkageName: name, Fields: extra}
}

// TestLinkDedupesDuplicateExtDeclarations matches spec.md §4.9 item 5: two
// modules each defining the same ext-var/ext-fun link to exactly one copy,
// with every reference redirected to it.
func TestLinkDedupesDuplicateExtDeclarations(t *testing.T) {
	var errs diag.Errors

	a := &pcode.Object{Globals: []pcode.Global{
		strGlobal(pcode.ExtVar, true, "ava some-var"),
		strGlobal(pcode.ExtFun, true, "ava bar"),
	}}

	b := &pcode.Object{Globals: []pcode.Global{
		strGlobal(pcode.ExtVar, true, "ava some-var"),
		strGlobal(pcode.ExtFun, true, "ava bar"),
		{Kind: pcode.VarGlobal, Fields: []pcode.Operand{pcode.GlobalOperand(0)}},
	}}

	out := Link(New(), []*pcode.Object{a, b}, &errs)
	if errs.HasErrors() {
		t.Fatalf("unexpected linker errors: %v", errs.List())
	}

	var extVars, extFuns int
	for _, g := range out.Globals {
		if g.Kind == pcode.ExtVar && g.LinkageName == "ava some-var" {
			extVars++
		}

		if g.Kind == pcode.ExtFun && g.LinkageName == "ava bar" {
			extFuns++
		}
	}

	if extVars != 1 {
		t.Errorf("expected exactly one canonical ext-var, got %d", extVars)
	}

	if extFuns != 1 {
		t.Errorf("expected exactly one canonical ext-fun, got %d", extFuns)
	}

	var varRef pcode.Global
	for _, g := range out.Globals {
		if g.Kind == pcode.VarGlobal {
			varRef = g
		}
	}

	if len(varRef.Fields) != 1 || varRef.Fields[0].Kind != pcode.OperandGlobal {
		t.Fatalf("expected the surviving var's initialiser ref to be fixed up, got %+v", varRef)
	}

	target := out.Globals[varRef.Fields[0].Int]
	if target.Kind != pcode.ExtVar || target.LinkageName != "ava some-var" {
		t.Errorf("var's initialiser ref points at %+v, want the canonical ext-var", target)
	}
}

func TestSelectCanonicalReportsRedefinition(t *testing.T) {
	var errs diag.Errors

	obj := &pcode.Object{Globals: []pcode.Global{
		{Kind: pcode.Fun, LinkageName: "ava dup", Code: []pcode.Instruction{{Op: "ret"}}},
		{Kind: pcode.Fun, LinkageName: "ava dup", Code: []pcode.Instruction{{Op: "ret"}}},
	}}

	selectCanonical(obj, &errs)

	if !errs.HasErrors() {
		t.Fatal("expected a symbol-redefined error")
	}

	found := false
	for _, e := range errs.List() {
		if strings.Contains(e.Message, "redefined") {
			found = true
		}
	}

	if !found {
		t.Errorf("errors = %v, want a redefinition message", errs.List())
	}
}

func TestLoadPkgConsumesMatchingPackage(t *testing.T) {
	var errs diag.Errors

	l := New()
	l.AddPackage("ava pkg", &pcode.Object{Globals: []pcode.Global{
		{Kind: pcode.VarGlobal, Published: true, LinkageName: "ava pkg-var"},
	}}, &errs)

	root := &pcode.Object{Globals: []pcode.Global{
		{Kind: pcode.LoadPkg, Fields: []pcode.Operand{pcode.StringOperand("ava pkg")}},
	}}

	out := Link(l, []*pcode.Object{root}, &errs)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.List())
	}

	for _, g := range out.Globals {
		if g.Kind == pcode.LoadPkg {
			t.Errorf("load-pkg should have been consumed, found %+v", g)
		}
	}

	found := false
	for _, g := range out.Globals {
		if g.LinkageName == "ava pkg-var" {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected the loaded package's global to be present, got %+v", out.Globals)
	}
}

func TestLoadPkgMissingPackageIsAnError(t *testing.T) {
	var errs diag.Errors

	root := &pcode.Object{Globals: []pcode.Global{
		{Kind: pcode.LoadPkg, Fields: []pcode.Operand{pcode.StringOperand("ava missing")}},
	}}

	Link(New(), []*pcode.Object{root}, &errs)

	if !errs.HasErrors() {
		t.Fatal("expected an error for an unresolvable load-pkg")
	}
}

func TestLoadModCyclicLoadIsAnError(t *testing.T) {
	var errs diag.Errors

	l := New()

	modA := &pcode.Object{Globals: []pcode.Global{
		{Kind: pcode.LoadMod, Fields: []pcode.Operand{pcode.StringOperand("ava b")}},
	}}
	modB := &pcode.Object{Globals: []pcode.Global{
		{Kind: pcode.LoadMod, Fields: []pcode.Operand{pcode.StringOperand("ava a")}},
	}}

	l.AddModule("ava a", modA, &errs)
	l.AddModule("ava b", modB, &errs)

	root := &pcode.Object{Globals: []pcode.Global{
		{Kind: pcode.LoadMod, Fields: []pcode.Operand{pcode.StringOperand("ava a")}},
	}}

	Link(l, []*pcode.Object{root}, &errs)

	if !errs.HasErrors() {
		t.Fatal("expected a cyclic-load error")
	}
}

func TestConcatNonReexportedExportIsDroppedFromDependent(t *testing.T) {
	var errs diag.Errors

	l := New()
	l.AddPackage("ava dep", &pcode.Object{Globals: []pcode.Global{
		{Kind: pcode.VarGlobal, Published: true, LinkageName: "ava dep-var"},
		{Kind: pcode.Export, Published: true, Fields: []pcode.Operand{pcode.GlobalOperand(0), pcode.BoolOperand(false)}},
	}}, &errs)

	root := &pcode.Object{Globals: []pcode.Global{
		{Kind: pcode.LoadPkg, Fields: []pcode.Operand{pcode.StringOperand("ava dep")}},
	}}

	out := Link(l, []*pcode.Object{root}, &errs)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.List())
	}

	for _, g := range out.Globals {
		if g.Kind == pcode.Export {
			t.Errorf("non-reexported export should have been dropped when folding in a dependency, found %+v", g)
		}
	}
}
