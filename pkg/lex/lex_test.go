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
package lex

import "testing"

func lexAll(t *testing.T, src string) ([]Token, []error) {
	t.Helper()

	l := New(src)

	var toks []Token
	var errs []error

	for {
		tok, err := l.Next()
		if err == ErrEndOfInput {
			break
		}

		if err != nil {
			errs = append(errs, err)
			continue
		}

		toks = append(toks, tok)
	}

	return toks, errs
}

func TestBarewordsSeparatedByWhitespace(t *testing.T) {
	toks, errs := lexAll(t, "foo bar baz")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	want := []string{"foo", "bar", "baz"}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}

	for i, w := range want {
		if toks[i].Type != Bareword || toks[i].Text != w {
			t.Fatalf("token %d = %+v, want bareword %q", i, toks[i], w)
		}
	}
}

func TestParenIndependence(t *testing.T) {
	toks, errs := lexAll(t, "foo(bar) (baz)")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	// foo  BeginNameSubscript  bar  CloseParen  BeginSubstitution  baz  CloseParen
	wantTypes := []Type{Bareword, BeginNameSubscript, Bareword, CloseParen, BeginSubstitution, Bareword, CloseParen}
	if len(toks) != len(wantTypes) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(wantTypes), toks)
	}

	for i, w := range wantTypes {
		if toks[i].Type != w {
			t.Fatalf("token %d = %v, want %v", i, toks[i].Type, w)
		}
	}
}

func TestCloseParenTagMerging(t *testing.T) {
	toks, errs := lexAll(t, "(foo)bar baz")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if len(toks) != 4 {
		t.Fatalf("got %d tokens, want 4: %+v", len(toks), toks)
	}

	if toks[2].Type != CloseParen || toks[2].Text != ")bar" {
		t.Fatalf("close-paren tag merge = %+v, want Text %q", toks[2], ")bar")
	}

	if toks[3].Type != Bareword || toks[3].Text != "baz" {
		t.Fatalf("trailing bareword = %+v", toks[3])
	}
}

func TestBraceIndependenceNeverErrors(t *testing.T) {
	toks, errs := lexAll(t, "foo{bar} {baz}")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	wantTypes := []Type{Bareword, BeginStringSubscript, Bareword, CloseBrace, BeginBlock, Bareword, CloseBrace}
	if len(toks) != len(wantTypes) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(wantTypes), toks)
	}

	for i, w := range wantTypes {
		if toks[i].Type != w {
			t.Fatalf("token %d = %v, want %v", i, toks[i].Type, w)
		}
	}
}

func TestNewlineToken(t *testing.T) {
	toks, errs := lexAll(t, "foo\nbar")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if len(toks) != 3 || toks[1].Type != Newline {
		t.Fatalf("got %+v", toks)
	}
}

func TestSoftNewlineIgnored(t *testing.T) {
	toks, errs := lexAll(t, "foo\\\nbar")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if len(toks) != 2 || toks[0].Text != "foo" || toks[1].Text != "bar" {
		t.Fatalf("got %+v, want foo/bar with no newline token", toks)
	}
}

func TestHardNewlineRequiresIndependence(t *testing.T) {
	// "foo" then "\ " with no following newline before EOF is a hard
	// newline, but it directly follows a non-independent byte ('o') so it
	// is an error.
	_, errs := lexAll(t, "foo\\ ")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
}

func TestLoneBackslashAtEOF(t *testing.T) {
	_, errs := lexAll(t, "foo\\")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
}

func TestInvalidBackslashSequence(t *testing.T) {
	// "foo" lexes clean; "\b" is an invalid backslash sequence; the
	// trailing "ar" then itself errors for following directly on the
	// error span with no separating whitespace.
	toks, errs := lexAll(t, "foo\\bar")
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), errs)
	}

	if len(toks) != 1 || toks[0].Text != "foo" {
		t.Fatalf("got %+v, want just the leading bareword recovered", toks)
	}
}

func TestAStringBasic(t *testing.T) {
	toks, errs := lexAll(t, `"hello world"`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if len(toks) != 1 || toks[0].Type != AString || toks[0].Text != "hello world" {
		t.Fatalf("got %+v", toks)
	}
}

func TestStringQuoteKinds(t *testing.T) {
	cases := []struct {
		src  string
		want Type
	}{
		{`"a"`, AString},
		{"`a\"", LString},
		{"\"a`", RString},
		{"`a`", LRString},
	}

	for _, c := range cases {
		toks, errs := lexAll(t, c.src)
		if len(errs) != 0 {
			t.Fatalf("%q: unexpected errors: %v", c.src, errs)
		}

		if len(toks) != 1 || toks[0].Type != c.want {
			t.Fatalf("%q: got %+v, want type %v", c.src, toks, c.want)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	toks, errs := lexAll(t, `"a\nb\tc\x41d"`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	want := "a\nb\tcAd"
	if len(toks) != 1 || toks[0].Text != want {
		t.Fatalf("got %+v, want text %q", toks, want)
	}
}

func TestStringMayContainLiteralNewline(t *testing.T) {
	toks, errs := lexAll(t, "\"foo\r\nbar\"")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	want := "foo\nbar"
	if len(toks) != 1 || toks[0].Text != want {
		t.Fatalf("got %+v, want text %q", toks, want)
	}
}

func TestUnclosedStringLiteral(t *testing.T) {
	_, errs := lexAll(t, "\"foo\n\nbar")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
}

func TestVerbatimBasic(t *testing.T) {
	toks, errs := lexAll(t, `\{hello\}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if len(toks) != 1 || toks[0].Type != Verbatim || toks[0].Text != "hello" {
		t.Fatalf("got %+v", toks)
	}
}

func TestVerbatimBareBracesAreLiteral(t *testing.T) {
	toks, errs := lexAll(t, `\{a{b}c\}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if len(toks) != 1 || toks[0].Text != "a{b}c" {
		t.Fatalf("got %+v", toks)
	}
}

func TestVerbatimNestedEscapedBraces(t *testing.T) {
	toks, errs := lexAll(t, `\{a\{b\}c\}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if len(toks) != 1 || toks[0].Text != `a\{b\}c` {
		t.Fatalf("got %+v, want %q", toks, `a\{b\}c`)
	}
}

func TestVerbatimEscape(t *testing.T) {
	toks, errs := lexAll(t, `\{a\;nb\}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	if len(toks) != 1 || toks[0].Text != "a\nb" {
		t.Fatalf("got %+v", toks)
	}
}

func TestUnclosedVerbatimLiteral(t *testing.T) {
	_, errs := lexAll(t, `\{abc`)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
}

func TestIllegalCharInGround(t *testing.T) {
	toks, errs := lexAll(t, "foo\x01\x01bar")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}

	if len(toks) != 2 || toks[0].Text != "foo" || toks[1].Text != "bar" {
		t.Fatalf("got %+v", toks)
	}
}

func TestIllegalCharAtEOF(t *testing.T) {
	_, errs := lexAll(t, "\x01")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
}

func TestNulAtEOFIsItsOwnRun(t *testing.T) {
	_, errs := lexAll(t, "\x00")
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
}

func TestCommentIgnored(t *testing.T) {
	toks, errs := lexAll(t, "foo ; a comment\nbar")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	wantTypes := []Type{Bareword, Newline, Bareword}
	if len(toks) != len(wantTypes) {
		t.Fatalf("got %+v", toks)
	}

	if toks[0].Text != "foo" || toks[2].Text != "bar" {
		t.Fatalf("got %+v", toks)
	}
}

func TestTabColumnAdvance(t *testing.T) {
	l := New("\tfoo")

	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tok.Column != 9 {
		t.Fatalf("column after one leading tab = %d, want 9", tok.Column)
	}
}
