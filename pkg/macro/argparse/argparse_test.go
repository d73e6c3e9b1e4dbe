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
package argparse

import (
	"testing"

	"github.com/avalang/avacore/pkg/diag"
	"github.com/avalang/avacore/pkg/parse"
)

func bw(text string) *parse.Unit {
	return parse.NewLeaf(parse.Bareword, text, diag.Location{})
}

func TestArgsSplitsAroundProvoker(t *testing.T) {
	statement := []*parse.Unit{bw("foo"), bw("bar"), bw("baz"), bw("qux")}

	args := New(statement, 1) // provoker is "bar"

	if args.Left.Done() {
		t.Fatalf("left should have one unit")
	}

	left, ok := args.Left.Consume()
	if !ok || left.Text != "foo" {
		t.Fatalf("left = %+v, want foo", left)
	}

	if !args.Left.Done() {
		t.Fatalf("left should be exhausted")
	}

	if args.Right.Done() {
		t.Fatalf("right should have two units")
	}

	r1, _ := args.Right.Consume()
	r2, _ := args.Right.Consume()

	if r1.Text != "baz" || r2.Text != "qux" {
		t.Fatalf("right = %q, %q", r1.Text, r2.Text)
	}

	if !args.Done() {
		t.Fatalf("args should be fully consumed")
	}
}

func TestBarewordRejectsNonBareword(t *testing.T) {
	str := parse.NewLeaf(parse.AString, "hi", diag.Location{})
	statement := []*parse.Unit{str}

	args := &Args{Left: &Cursor{}, Right: &Cursor{units: statement}} // whole statement is Right

	var errs diag.Errors

	if _, ok := args.Right.Bareword(&errs, diag.Location{}, "name"); ok {
		t.Fatalf("expected failure for non-bareword")
	}

	if !errs.HasErrors() {
		t.Fatalf("expected an error to be recorded")
	}
}

func TestRequireReportsMissingArgument(t *testing.T) {
	c := &Cursor{}

	var errs diag.Errors

	if c.Require(&errs, diag.Location{}, "thing") {
		t.Fatalf("expected Require to fail on empty cursor")
	}

	if errs.Len() != 1 {
		t.Fatalf("expected one error, got %d", errs.Len())
	}
}

func TestLiteralOfSemiliteralBuildsList(t *testing.T) {
	semi := parse.NewGroup(parse.Semiliteral, []*parse.Unit{bw("a"), bw("b")}, diag.Location{})

	c := &Cursor{units: []*parse.Unit{semi}}

	var errs diag.Errors

	v, ok := c.Literal(&errs, diag.Location{}, "items")
	if !ok {
		t.Fatalf("Literal failed: %v", errs.List())
	}

	list := v.AsList()
	if list.Len() != 2 {
		t.Fatalf("expected 2 elements, got %d", list.Len())
	}

	if list.Index(0).AsString().Force() != "a" || list.Index(1).AsString().Force() != "b" {
		t.Fatalf("unexpected list contents")
	}
}

func TestLiteralRejectsBlock(t *testing.T) {
	block := parse.NewBlock(nil, diag.Location{})
	c := &Cursor{units: []*parse.Unit{block}}

	var errs diag.Errors

	if _, ok := c.Literal(&errs, diag.Location{}, "x"); ok {
		t.Fatalf("expected block to be rejected as a literal")
	}
}

func TestForRestConsumesEverything(t *testing.T) {
	c := &Cursor{units: []*parse.Unit{bw("a"), bw("b"), bw("c")}}

	var seen []string

	err := c.ForRest(func(u *parse.Unit) error {
		seen = append(seen, u.Text)
		return nil
	})
	if err != nil {
		t.Fatalf("ForRest: %v", err)
	}

	if len(seen) != 3 || !c.Done() {
		t.Fatalf("ForRest did not consume everything: %v", seen)
	}
}
