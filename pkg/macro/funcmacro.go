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
package macro

import (
	"strings"

	"github.com/avalang/avacore/pkg/diag"
	"github.com/avalang/avacore/pkg/macro/argparse"
	"github.com/avalang/avacore/pkg/macro/ast"
	"github.com/avalang/avacore/pkg/parse"
	"github.com/avalang/avacore/pkg/value"
)

// ParamKind identifies how a function-like macro's declared parameter
// binds to the arguments a call site supplies.
type ParamKind uint8

const (
	// Positional consumes the next unconsumed unit in argument order.
	Positional ParamKind = iota
	// NamedOptional is supplied as `-name value`; absent leaves the slot
	// Omitted.
	NamedOptional
	// BooleanFlag is supplied as the bare `-name`; its presence sets the
	// slot to TrueSentinel, absence leaves it Omitted.
	BooleanFlag
	// NamedDefault is like NamedOptional, but an absent occurrence binds
	// the slot to Default rather than leaving it Omitted.
	NamedDefault
)

// Param is one declared parameter of a function-like macro's prototype.
type Param struct {
	Name    string
	Kind    ParamKind
	Default value.Value
}

// Prototype is a function-like macro's declared parameter list.
type Prototype struct {
	Params []Param
}

// Slot is one bound argument: at most one of Omitted, True, or Node
// applies, matching spec's "NULL = omitted, TRUE-SENTINEL = implicit
// true, or a real AST node".
type Slot struct {
	Omitted bool
	True    bool
	Node    ast.Node
}

// BindPrototype binds proto's parameters against the units remaining in
// args, substituting each bound unit independently via subst, and returns
// one Slot per declared parameter in declaration order. Named parameters
// are recognised as a bareword `-name` appearing anywhere positional
// scanning has not yet passed; once consumed, scanning for the next
// positional parameter resumes from the cursor's new position.
func BindPrototype(ctx *Context, proto Prototype, args *argparse.Cursor, subst func(*Context, *parse.Unit) ast.Node) []Slot {
	slots := make([]Slot, len(proto.Params))

	for i, p := range proto.Params {
		switch p.Kind {
		case Positional:
			u, ok := args.Consume()
			if !ok {
				ctx.Errs.Add(fallbackLocation(args), "missing required argument %q", p.Name)
				slots[i] = Slot{Omitted: true}
				continue
			}

			slots[i] = Slot{Node: subst(ctx, u)}

		case BooleanFlag:
			if consumeNamedFlag(args, p.Name) {
				slots[i] = Slot{True: true}
			} else {
				slots[i] = Slot{Omitted: true}
			}

		case NamedOptional, NamedDefault:
			if u, ok := consumeNamedValue(args, p.Name); ok {
				slots[i] = Slot{Node: subst(ctx, u)}
			} else if p.Kind == NamedDefault {
				slots[i] = Slot{Node: &ast.Literal{Val: p.Default}}
			} else {
				slots[i] = Slot{Omitted: true}
			}
		}
	}

	return slots
}

// consumeNamedFlag looks for a bareword "-name" anywhere still unconsumed
// in args, removing it in place if found.
func consumeNamedFlag(args *argparse.Cursor, name string) bool {
	return consumeNamed(args, name, nil)
}

// consumeNamedValue looks for a bareword "-name" followed immediately by
// a value unit, removing both and returning the value unit.
func consumeNamedValue(args *argparse.Cursor, name string) (*parse.Unit, bool) {
	var found *parse.Unit

	consumeNamed(args, name, func(u *parse.Unit) bool {
		found = u
		return found != nil
	})

	return found, found != nil
}

// consumeNamed is a best-effort linear scan: argparse.Cursor does not
// expose random-access removal, so named arguments are found by draining
// the cursor into a buffer, splicing out the match, and refilling it. A nil
// take marks a flag: only the "-name" unit itself is removed.
func consumeNamed(args *argparse.Cursor, name string, take func(valueUnit *parse.Unit) bool) bool {
	var buf []*parse.Unit

	for {
		u, ok := args.Consume()
		if !ok {
			break
		}

		buf = append(buf, u)
	}

	flag := "-" + name

	for i, u := range buf {
		if u.Type != parse.Bareword || u.Text != flag {
			continue
		}

		rest := append([]*parse.Unit(nil), buf[:i]...)

		if take == nil {
			args.Refill(append(rest, buf[i+1:]...))
			return true
		}

		var valueUnit *parse.Unit

		if i+1 < len(buf) {
			valueUnit = buf[i+1]
			rest = append(rest, buf[i+2:]...)
		}

		args.Refill(rest)

		return take(valueUnit)
	}

	args.Refill(buf)

	return false
}

// HasDash reports whether text looks like a named-argument flag token
// ("-something"), used by callers distinguishing flags from ordinary
// barewords before committing to BindPrototype.
func HasDash(text string) bool {
	return strings.HasPrefix(text, "-") && len(text) > 1
}

func fallbackLocation(args *argparse.Cursor) (loc diag.Location) {
	if u, ok := args.Peek(); ok {
		return u.Location
	}

	return loc
}
