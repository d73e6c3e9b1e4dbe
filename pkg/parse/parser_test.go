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
package parse

import (
	"testing"

	"github.com/avalang/avacore/pkg/diag"
	"github.com/avalang/avacore/pkg/lex"
)

func parseAll(t *testing.T, src string) (*Unit, *diag.Errors) {
	t.Helper()

	errs := &diag.Errors{}
	block := New("t.ava", src, errs).ParseBlock()

	return block, errs
}

func TestParseSimpleStatement(t *testing.T) {
	block, errs := parseAll(t, "foo bar\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.List())
	}

	if len(block.Statements) != 1 {
		t.Fatalf("statements = %d, want 1", len(block.Statements))
	}

	stmt := block.Statements[0]
	if len(stmt) != 2 || stmt[0].Text != "foo" || stmt[1].Text != "bar" {
		t.Fatalf("statement = %+v", stmt)
	}
}

func TestParseMultipleStatements(t *testing.T) {
	block, errs := parseAll(t, "a\nb\nc\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.List())
	}

	if len(block.Statements) != 3 {
		t.Fatalf("statements = %d, want 3", len(block.Statements))
	}
}

func TestParseBlankLineIsEmptyStatement(t *testing.T) {
	block, errs := parseAll(t, "a\n\nb\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.List())
	}

	if len(block.Statements) != 3 {
		t.Fatalf("statements = %d, want 3", len(block.Statements))
	}

	if len(block.Statements[1]) != 0 {
		t.Fatalf("middle statement not empty: %+v", block.Statements[1])
	}
}

func TestParseSubstitution(t *testing.T) {
	block, errs := parseAll(t, "(foo bar)\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.List())
	}

	stmt := block.Statements[0]
	if len(stmt) != 1 || stmt[0].Type != Substitution {
		t.Fatalf("statement = %+v", stmt)
	}

	if len(stmt[0].Units) != 2 || stmt[0].Units[0].Text != "foo" {
		t.Fatalf("substitution units = %+v", stmt[0].Units)
	}
}

func TestParseBlock(t *testing.T) {
	block, errs := parseAll(t, "{foo\nbar}\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.List())
	}

	stmt := block.Statements[0]
	if len(stmt) != 1 || stmt[0].Type != Block {
		t.Fatalf("statement = %+v", stmt)
	}

	if len(stmt[0].Statements) != 2 {
		t.Fatalf("inner statements = %+v", stmt[0].Statements)
	}
}

func TestCloseDelimiterTagMerging(t *testing.T) {
	block, errs := parseAll(t, "(foo)bar\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.List())
	}

	stmt := block.Statements[0]
	sub := stmt[0]

	if sub.Type != Substitution || len(sub.Units) != 2 {
		t.Fatalf("substitution = %+v", sub)
	}

	if sub.Units[0].Text != "#substitution#bar" {
		t.Fatalf("merged tag header = %q", sub.Units[0].Text)
	}
}

func TestNameSubscriptWrapping(t *testing.T) {
	block, errs := parseAll(t, "foo(bar)\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.List())
	}

	stmt := block.Statements[0]
	if len(stmt) != 1 {
		t.Fatalf("statement = %+v", stmt)
	}

	sub := stmt[0]
	if sub.Type != Substitution || len(sub.Units) != 4 {
		t.Fatalf("subscript wrapper = %+v", sub)
	}

	if sub.Units[0].Text != "#name-subscript#" {
		t.Fatalf("kind header = %q", sub.Units[0].Text)
	}

	if sub.Units[1].Text != "##" {
		t.Fatalf("tag header = %q", sub.Units[1].Text)
	}

	if sub.Units[2].Text != "foo" {
		t.Fatalf("base = %+v", sub.Units[2])
	}

	if sub.Units[3].Type != Substitution || len(sub.Units[3].Units) != 1 {
		t.Fatalf("inner group = %+v", sub.Units[3])
	}
}

func TestSubscriptWithNoPrecedingUnitSuppressesError(t *testing.T) {
	// A subscript opener with nothing preceding it in the statement is, per
	// spec, syntactically impossible without a prior parse error already
	// reported for it — so parseSubscript must not add a new diagnostic.
	errs := &diag.Errors{}
	p := New("t.ava", "(bar)\n", errs)

	var stmt []*Unit

	tok, ok := p.advance()
	if !ok {
		t.Fatal("expected a token")
	}

	result := p.parseSubscript(&stmt, tok, lex.CloseParen, "name-subscript")
	if result != nil {
		t.Fatalf("expected nil result for subscript with no base, got %+v", result)
	}

	if errs.HasErrors() {
		t.Fatalf("expected no errors, got %v", errs.List())
	}
}

func TestBarewordInterpolation(t *testing.T) {
	block, errs := parseAll(t, "foo$name\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.List())
	}

	stmt := block.Statements[0]
	if len(stmt) != 1 || stmt[0].Type != Substitution {
		t.Fatalf("statement = %+v", stmt)
	}

	parts := stmt[0].Units
	if len(parts) != 2 {
		t.Fatalf("parts = %+v", parts)
	}

	if parts[0].Type != LRString || parts[0].Text != "foo" {
		t.Fatalf("literal fragment = %+v", parts[0])
	}

	if parts[1].Type != Substitution || parts[1].Units[0].Text != "#var#" || parts[1].Units[1].Text != "name" {
		t.Fatalf("var substitution = %+v", parts[1])
	}
}

func TestSemiliteralRegroupsAdjacentStrings(t *testing.T) {
	errs := &diag.Errors{}
	p := New("t.ava", "[foo]\n", errs)

	raw := []*Unit{
		NewLeaf(Bareword, "foo", diag.Location{}),
		NewLeaf(LString, "bar", diag.Location{}),
	}

	out := p.regroupSemiliteral(raw, diag.Location{})
	if len(out) != 1 || out[0].Type != Substitution {
		t.Fatalf("regrouped = %+v", out)
	}

	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.List())
	}
}

func TestSemiliteralLStringAtStartErrors(t *testing.T) {
	errs := &diag.Errors{}
	p := New("t.ava", "", errs)

	raw := []*Unit{NewLeaf(LString, "bad", diag.Location{})}
	p.regroupSemiliteral(raw, diag.Location{})

	if !errs.HasErrors() {
		t.Fatal("expected an error for l-string at semiliteral start")
	}
}

func TestSemiliteralRStringAtEndErrors(t *testing.T) {
	errs := &diag.Errors{}
	p := New("t.ava", "", errs)

	raw := []*Unit{NewLeaf(RString, "bad", diag.Location{})}
	p.regroupSemiliteral(raw, diag.Location{})

	if !errs.HasErrors() {
		t.Fatal("expected an error for r-string at semiliteral end")
	}
}
