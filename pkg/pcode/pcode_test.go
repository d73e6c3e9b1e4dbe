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

import "testing"

func TestParseRegister(t *testing.T) {
	cases := map[string]Register{
		"v0": {Kind: Var, Index: 0},
		"d1": {Kind: Data, Index: 1},
		"i2": {Kind: Int, Index: 2},
		"l3": {Kind: List, Index: 3},
		"p4": {Kind: Parm, Index: 4},
		"f5": {Kind: Function, Index: 5},
	}

	for text, want := range cases {
		got, err := ParseRegister(text)
		if err != nil {
			t.Fatalf("ParseRegister(%q): %v", text, err)
		}

		if got != want {
			t.Errorf("ParseRegister(%q) = %+v, want %+v", text, got, want)
		}

		if got.String() != text {
			t.Errorf("Register(%+v).String() = %q, want %q", got, got.String(), text)
		}
	}
}

func TestParseRegisterRejectsUnknownKind(t *testing.T) {
	if _, err := ParseRegister("x0"); err == nil {
		t.Fatalf("expected error for unknown register kind")
	}
}

func TestInstructionReflectiveAccessors(t *testing.T) {
	instr := Instruction{
		Op: "invoke-ssn",
		Operands: []Operand{
			RegOperand(Register{Kind: Data, Index: 0}),
			GlobalOperand(3),
			LabelOperand(7),
			RegOperand(Register{Kind: Int, Index: 1}),
		},
	}

	regs := instr.Registers()
	if len(regs) != 2 || regs[0].Index != 0 || regs[1].Index != 1 {
		t.Fatalf("Registers() = %+v", regs)
	}

	globals := instr.Globals()
	if len(globals) != 1 || globals[0] != 3 {
		t.Fatalf("Globals() = %v", globals)
	}

	labels := instr.Labels()
	if len(labels) != 1 || labels[0] != 7 {
		t.Fatalf("Labels() = %v", labels)
	}
}

func TestInstructionIsTerminator(t *testing.T) {
	if !(Instruction{Op: "goto"}).IsTerminator() {
		t.Errorf("goto should be a terminator")
	}

	if !(Instruction{Op: "ret"}).IsTerminator() {
		t.Errorf("ret should be a terminator")
	}

	if (Instruction{Op: "push"}).IsTerminator() {
		t.Errorf("push should not be a terminator")
	}
}

func TestParseSimpleFunObject(t *testing.T) {
	src := `{{fun false "ava foo" "ava pos" {} {{push d 1} {ld-imm-vd d0 42} {ret}}}}`

	obj, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(obj.Globals) != 1 {
		t.Fatalf("expected 1 global, got %d", len(obj.Globals))
	}

	g := obj.Globals[0]
	if g.Kind != Fun {
		t.Fatalf("Kind = %v, want Fun", g.Kind)
	}

	if g.Published {
		t.Errorf("Published = true, want false")
	}

	if g.LinkageName != "ava foo" {
		t.Errorf("LinkageName = %q, want %q", g.LinkageName, "ava foo")
	}

	if len(g.Code) != 3 {
		t.Fatalf("expected 3 instructions, got %d: %+v", len(g.Code), g.Code)
	}

	if g.Code[0].Op != "push" || g.Code[2].Op != "ret" {
		t.Errorf("unexpected code: %+v", g.Code)
	}
}

func TestParseExternalAndVarGlobals(t *testing.T) {
	src := `{
		{ext-fun true "ava external-fn" 2}
		{var false "ava counter" 0}
	}`

	obj, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(obj.Globals) != 2 {
		t.Fatalf("expected 2 globals, got %d", len(obj.Globals))
	}

	extFun := obj.Globals[0]
	if extFun.Kind != ExtFun || !extFun.Published || extFun.LinkageName != "ava external-fn" {
		t.Errorf("unexpected ext-fun global: %+v", extFun)
	}

	v := obj.Globals[1]
	if v.Kind != VarGlobal || v.Published || v.LinkageName != "ava counter" {
		t.Errorf("unexpected var global: %+v", v)
	}
}

func TestParseRejectsUnknownGlobalKind(t *testing.T) {
	if _, err := Parse(`{{bogus}}`); err == nil {
		t.Fatalf("expected error for unknown global kind")
	}
}

func TestParseRejectsNonListTopLevel(t *testing.T) {
	if _, err := Parse(`fun`); err == nil {
		t.Fatalf("expected error for non-list top level")
	}
}

func TestParseRejectsUnterminatedList(t *testing.T) {
	if _, err := Parse(`{{fun false "x" "y" {} {}`); err == nil {
		t.Fatalf("expected error for unterminated list")
	}
}

func TestRoundTripParseWriteParse(t *testing.T) {
	src := `{{fun true "ava foo" "ava pos" {} {{push d 1} {ld-imm-vd d0 42} {ret}}} {var false "ava counter" 0}}`

	obj, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	out := Write(obj)

	reparsed, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse(Write(obj)): %v\ntext: %s", err, out)
	}

	if len(reparsed.Globals) != len(obj.Globals) {
		t.Fatalf("round trip global count mismatch: %d vs %d", len(reparsed.Globals), len(obj.Globals))
	}

	for i := range obj.Globals {
		a, b := obj.Globals[i], reparsed.Globals[i]

		if a.Kind != b.Kind || a.Published != b.Published || a.LinkageName != b.LinkageName {
			t.Errorf("global %d mismatch: %+v vs %+v", i, a, b)
		}

		if len(a.Code) != len(b.Code) {
			t.Errorf("global %d code length mismatch: %d vs %d", i, len(a.Code), len(b.Code))
		}
	}
}

func TestQuoteStringEscapesQuotesAndBackslashes(t *testing.T) {
	got := quoteString(`say "hi"\now`)
	want := `"say \"hi\"\\now"`

	if got != want {
		t.Errorf("quoteString = %q, want %q", got, want)
	}
}

func TestGlobalKindIsLinkageDefinition(t *testing.T) {
	for _, k := range []GlobalKind{Fun, VarGlobal, DeclSxt} {
		if !k.IsLinkageDefinition() {
			t.Errorf("%v.IsLinkageDefinition() = false, want true", k)
		}
	}

	for _, k := range []GlobalKind{SrcPos, Init, Macro, Export, LoadPkg, LoadMod, ExtFun, ExtVar} {
		if k.IsLinkageDefinition() {
			t.Errorf("%v.IsLinkageDefinition() = true, want false", k)
		}
	}
}

func TestObjectFunctions(t *testing.T) {
	obj := &Object{Globals: []Global{
		{Kind: VarGlobal},
		{Kind: Fun},
		{Kind: ExtFun},
		{Kind: Fun},
	}}

	funs := obj.Functions()
	if len(funs) != 2 {
		t.Fatalf("Functions() returned %d globals, want 2", len(funs))
	}
}
