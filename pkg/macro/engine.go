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
	"github.com/avalang/avacore/pkg/macro/argparse"
	"github.com/avalang/avacore/pkg/macro/ast"
	"github.com/avalang/avacore/pkg/parse"
	"github.com/avalang/avacore/pkg/pcode"
	"github.com/avalang/avacore/pkg/symtab"
	"github.com/avalang/avacore/pkg/value"
)

// SubstituteBlock runs substitution over every statement of a block unit,
// returning an ast.Block whose Statements line up one-to-one with the
// non-skipped source statements.
func SubstituteBlock(ctx *Context, block *parse.Unit) *ast.Block {
	result := &ast.Block{Loc: block.Location}

	statements := block.Statements
	for i := 0; i < len(statements); i++ {
		if ctx.Panic {
			break
		}

		node, consumed := SubstituteStatement(ctx, statements[i])
		if node != nil {
			result.Statements = append(result.Statements, node)
		}

		i += consumed
	}

	return result
}

// SubstituteStatement finds the provoking macro in statement (if any),
// invokes it — looping while it reports Again — and returns the resulting
// node along with how many additional following statements it consumed.
// If no unit in the statement resolves to a macro, the statement is
// folded as a plain sequence of units via foldPlainStatement.
func SubstituteStatement(ctx *Context, statement []*parse.Unit) (ast.Node, int) {
	idx, found := findProvoker(ctx, statement)
	if !found {
		return foldPlainStatement(ctx, statement), 0
	}

	sym, _ := ctx.Symtab.Lookup(statement[idx].Text)

	m, _ := sym.Payload.(*Macro)
	if m == nil {
		return foldPlainStatement(ctx, statement), 0
	}

	var result Result

	for {
		result = m.Subst(ctx, statement, idx)
		if result.Status != Again {
			break
		}
	}

	return result.Node, result.ConsumedStatements
}

// findProvoker scans statement left to right for bareword units that
// resolve, via the current symbol table, to exactly one macro symbol.
// Among all such candidates it picks the one with the lowest Precedence,
// breaking ties by leftmost position. A bareword resolving to more than
// one symbol is reported as ambiguous and skipped, per spec's "treat as
// non-macro" rule for ambiguous lookups.
func findProvoker(ctx *Context, statement []*parse.Unit) (int, bool) {
	best := -1
	bestPrec := 0
	havePrec := false

	for i, u := range statement {
		if u.Type != parse.Bareword {
			continue
		}

		matches := ctx.Symtab.Get(u.Text)

		switch len(matches) {
		case 0:
			continue
		case 1:
			// handled below
		default:
			ctx.Errs.Add(u.Location, "ambiguous macro reference %q", u.Text)
			continue
		}

		sym := matches[0]
		if !isMacroKind(sym.Kind) {
			continue
		}

		m, _ := sym.Payload.(*Macro)
		if m == nil {
			continue
		}

		if !havePrec || m.Precedence < bestPrec {
			best = i
			bestPrec = m.Precedence
			havePrec = true
		}
	}

	return best, best >= 0
}

func isMacroKind(k symtab.Kind) bool {
	switch k {
	case symtab.ExpanderMacro, symtab.ControlMacro, symtab.OperatorMacro, symtab.FunctionMacro:
		return true
	default:
		return false
	}
}

// foldPlainStatement is used when a statement contains no macro
// invocation: a single-unit statement becomes that unit's node; a
// multi-unit statement (a bareword value followed by further units with
// no provoking macro among them) is folded into a literal list, mirroring
// how a semiliteral made of literals folds in argparse.LiteralOf.
func foldPlainStatement(ctx *Context, statement []*parse.Unit) ast.Node {
	if len(statement) == 0 {
		return nil
	}

	if len(statement) == 1 {
		return UnitToNode(ctx, statement[0])
	}

	values := make([]value.Value, 0, len(statement))

	for _, u := range statement {
		v, errUnit := argparse.LiteralOf(u)
		if errUnit != nil {
			ctx.Errs.Add(u.Location, "statement has no macro and is not a literal sequence")
			return nil
		}

		values = append(values, v)
	}

	return &ast.Literal{Loc: statement[0].Location, Val: value.OfValues(values...)}
}

// UnitToNode converts a single parse unit that is not itself a macro
// provoker into an AST node: a bareword that resolves to a variable
// symbol becomes a reference to that variable's register; any other
// bareword or stringoid becomes a literal; a block recurses through
// SubstituteBlock; a substitution or semiliteral whose contents are all
// literals folds to a literal list.
func UnitToNode(ctx *Context, u *parse.Unit) ast.Node {
	switch u.Type {
	case parse.Block:
		return SubstituteBlock(ctx.Nested(), u)

	case parse.Bareword:
		if sym, ok := ctx.Varscope.Lookup(u.Text); ok {
			if reg, ok := sym.Payload.(pcode.Register); ok {
				return &ast.VarRef{Loc: u.Location, Reg: reg}
			}
		}

		return &ast.Literal{Loc: u.Location, Val: value.OfString(value.StringOf(u.Text))}

	default:
		v, errUnit := argparse.LiteralOf(u)
		if errUnit != nil {
			ctx.Errs.Add(u.Location, "unit cannot be used as a value here")
			return nil
		}

		return &ast.Literal{Loc: u.Location, Val: v}
	}
}
