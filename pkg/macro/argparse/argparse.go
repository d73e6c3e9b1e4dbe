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

// Package argparse implements the combinator-style helper macro
// substitution functions use to consume their own arguments: the provoking
// unit (the macro's own bareword) splits the enclosing statement into a
// left half and a right half, each of which exposes a cursor that can be
// walked from either end and asked for a unit, bareword, stringoid, block,
// or literal.
package argparse

import (
	"fmt"

	"github.com/avalang/avacore/pkg/diag"
	"github.com/avalang/avacore/pkg/parse"
	"github.com/avalang/avacore/pkg/value"
)

// Args splits a statement around its provoking unit. Left holds every unit
// before the provoker, in order; Right holds every unit after it, in
// order. Macros that only ever look rightward (the common case for a
// leading keyword) only touch Right; control macros like binary operators
// may consume from both sides.
type Args struct {
	Left  *Cursor
	Right *Cursor
}

// New splits statement around the unit at provokerIndex.
func New(statement []*parse.Unit, provokerIndex int) *Args {
	return &Args{
		Left:  &Cursor{units: append([]*parse.Unit(nil), statement[:provokerIndex]...), fromEnd: true},
		Right: &Cursor{units: append([]*parse.Unit(nil), statement[provokerIndex+1:]...)},
	}
}

// Done reports whether both halves have been fully consumed. A macro
// substitution function must check this once it is done parsing its own
// arguments; any remainder is an "extra arguments" error.
func (a *Args) Done() bool {
	return a.Left.Done() && a.Right.Done()
}

// Cursor walks a half of a statement's unit list from one end. Consuming
// an argument always advances away from the provoker; Left is walked back
// to front (right-to-left, starting next to the provoker) and Right is
// walked front to back, matching the C macro library's AVA_MACRO_ARG_FROM_LEFT_BEGIN
// (the default direction macros use) — direction is a property of which
// side a macro pulls from, not something this type exposes separately.
type Cursor struct {
	units   []*parse.Unit
	pos     int
	fromEnd bool
}

// Done reports whether every unit in this cursor's half has been consumed.
func (c *Cursor) Done() bool {
	return c.pos >= len(c.units)
}

// Refill replaces the cursor's remaining units with units, resetting its
// position to the start of that replacement list (forward iteration
// order). Used by named-argument binding, which must splice a matched
// `-name` pair out of the middle of an otherwise positional argument
// stream.
func (c *Cursor) Refill(units []*parse.Unit) {
	c.units = units
	c.pos = 0
	c.fromEnd = false
}

// index returns the slice index the cursor's logical position maps to:
// counting from the end for Left cursors, so "consume" always starts next
// to the provoker and walks away from it.
func (c *Cursor) index() int {
	if c.fromEnd {
		return len(c.units) - 1 - c.pos
	}

	return c.pos
}

// Peek returns the unit at the current position without consuming it.
func (c *Cursor) Peek() (*parse.Unit, bool) {
	if c.Done() {
		return nil, false
	}

	return c.units[c.index()], true
}

// Consume returns the unit at the current position and advances past it.
func (c *Cursor) Consume() (*parse.Unit, bool) {
	u, ok := c.Peek()
	if ok {
		c.pos++
	}

	return u, ok
}

// location is used for error reporting when the cursor has nothing left:
// the location of whichever unit sits just past this half (there is none
// to point to precisely, so a caller-supplied fallback location is used).
func (c *Cursor) location(fallback diag.Location) diag.Location {
	if u, ok := c.Peek(); ok {
		return u.Location
	}

	return fallback
}

// Require reports an error via errs if no unit remains at the cursor.
func (c *Cursor) Require(errs *diag.Errors, fallback diag.Location, name string) bool {
	if c.Done() {
		errs.Add(fallback, "macro argument %q is missing", name)
		return false
	}

	return true
}

// Unit consumes and returns the current unit, reporting a missing-argument
// error if there is none.
func (c *Cursor) Unit(errs *diag.Errors, fallback diag.Location, name string) (*parse.Unit, bool) {
	if !c.Require(errs, fallback, name) {
		return nil, false
	}

	u, _ := c.Consume()

	return u, true
}

// Bareword consumes a bareword argument, reporting an error if the current
// unit is missing or not a bareword.
func (c *Cursor) Bareword(errs *diag.Errors, fallback diag.Location, name string) (string, bool) {
	u, ok := c.Unit(errs, fallback, name)
	if !ok {
		return "", false
	}

	if u.Type != parse.Bareword {
		errs.Add(u.Location, "macro argument %q must be a bareword", name)
		return "", false
	}

	return u.Text, true
}

// Stringoid consumes a bareword, string, or verbatim argument, returning
// its text and surface type.
func (c *Cursor) Stringoid(errs *diag.Errors, fallback diag.Location, name string) (parse.Type, string, bool) {
	u, ok := c.Unit(errs, fallback, name)
	if !ok {
		return 0, "", false
	}

	if u.Type != parse.Bareword && !u.Type.IsStringoid() {
		errs.Add(u.Location, "macro argument %q must be a string-like unit", name)
		return 0, "", false
	}

	return u.Type, u.Text, true
}

// Block consumes a block argument, reporting an error if the current unit
// is missing or not a block.
func (c *Cursor) Block(errs *diag.Errors, fallback diag.Location, name string) (*parse.Unit, bool) {
	u, ok := c.Unit(errs, fallback, name)
	if !ok {
		return nil, false
	}

	if u.Type != parse.Block {
		errs.Add(u.Location, "macro argument %q must be a block", name)
		return nil, false
	}

	return u, true
}

// Literal consumes a statically-evaluable argument: a bareword, a
// stringoid, or a semiliteral containing only literals (recursively),
// and returns its value.
func (c *Cursor) Literal(errs *diag.Errors, fallback diag.Location, name string) (value.Value, bool) {
	u, ok := c.Unit(errs, fallback, name)
	if !ok {
		return value.Value{}, false
	}

	v, errUnit := LiteralOf(u)
	if errUnit != nil {
		errs.Add(errUnit.Location, "macro argument %q must be a literal", name)
		return value.Value{}, false
	}

	return v, true
}

// LiteralOf mirrors ava_macro_arg_literal: a bareword/string/verbatim unit
// is its own string value; a semiliteral is a list of its elements'
// literal values, recursively; anything else fails, reporting the
// offending unit. Exported so other packages (the macro engine's plain
// unit-to-literal fallback) can reuse it without duplicating the rule.
func LiteralOf(u *parse.Unit) (value.Value, *parse.Unit) {
	switch u.Type {
	case parse.Bareword, parse.AString, parse.LString, parse.RString, parse.LRString, parse.Verbatim:
		return value.OfString(value.StringOf(u.Text)), nil

	case parse.Semiliteral:
		elems := make([]value.Value, 0, len(u.Units))

		for _, elt := range u.Units {
			v, errUnit := LiteralOf(elt)
			if errUnit != nil {
				return value.Value{}, errUnit
			}

			elems = append(elems, v)
		}

		return value.OfValues(elems...), nil

	default:
		return value.Value{}, u
	}
}

// ForRest calls fn once per remaining unit in c, consuming as it goes,
// until c is exhausted or fn returns an error.
func (c *Cursor) ForRest(fn func(u *parse.Unit) error) error {
	for !c.Done() {
		u, _ := c.Consume()

		if err := fn(u); err != nil {
			return fmt.Errorf("macro argument: %w", err)
		}
	}

	return nil
}
