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
package diag

import (
	"strings"
	"testing"
)

func TestErrorsAccumulateInOrder(t *testing.T) {
	var errs Errors

	errs.Add(Location{Filename: "a.ava", StartLine: 1, StartCol: 1}, "first")
	errs.Add(Location{Filename: "a.ava", StartLine: 2, StartCol: 3}, "second: %d", 7)

	if !errs.HasErrors() {
		t.Fatal("expected errors")
	}

	list := errs.List()
	if len(list) != 2 {
		t.Fatalf("len = %d, want 2", len(list))
	}

	if list[0].Message != "first" || list[1].Message != "second: 7" {
		t.Fatalf("unexpected messages: %+v", list)
	}
}

func TestErrorStringIncludesLocation(t *testing.T) {
	e := Error{Message: "bad thing", Location: Location{Filename: "f.ava", StartLine: 3, StartCol: 5}}
	if got := e.Error(); got != "f.ava:3:5: bad thing" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestFormatIncludesCaretLine(t *testing.T) {
	src := "foo bar\nbaz qux\n"
	loc := Location{Filename: "t.ava", Source: src, LineOffset: 8, StartLine: 2, EndLine: 2, StartCol: 5, EndCol: 8}

	out := Format([]Error{{Message: "bad qux", Location: loc}}, PrintOptions{})

	if !strings.Contains(out, "bad qux") {
		t.Fatalf("missing message in %q", out)
	}

	if !strings.Contains(out, "baz qux") {
		t.Fatalf("missing source line in %q", out)
	}

	if !strings.Contains(out, "   ^^^") {
		t.Fatalf("missing caret line in %q", out)
	}
}

func TestFormatRespectsMaxLines(t *testing.T) {
	var errs Errors
	for i := 0; i < 5; i++ {
		errs.Add(Location{StartLine: i + 1, StartCol: 1}, "err %d", i)
	}

	out := Format(errs.List(), PrintOptions{MaxLines: 2})
	if !strings.Contains(out, "3 more error(s)") {
		t.Fatalf("expected truncation notice, got %q", out)
	}
}
