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
	"errors"
	"strings"

	"github.com/avalang/avacore/pkg/diag"
	"github.com/avalang/avacore/pkg/lex"
)

// Parser turns a lexer's token stream into a tree of parse units. It never
// stops at the first error: a malformed token or unit is recorded in Errors
// and parsing continues from the next sensible point, so one bad statement
// never hides the errors in the rest of the file.
type Parser struct {
	lx       *lex.Lexer
	filename string
	source   string
	errs     *diag.Errors

	have bool
	tok  lex.Token
	ok   bool
}

// New builds a parser reading source (attributed to filename in diagnostics)
// and recording errors into errs.
func New(filename, source string, errs *diag.Errors) *Parser {
	return &Parser{lx: lex.New(source), filename: filename, source: source, errs: errs}
}

// ParseBlock parses the whole input as a top-level block: a sequence of
// statements with no enclosing close-brace expected.
func (p *Parser) ParseBlock() *Unit {
	start := p.startLocation()
	statements := p.parseStatements(false)

	return NewBlock(statements, start)
}

func (p *Parser) startLocation() diag.Location {
	return diag.Location{Filename: p.filename, Source: p.source, StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 1}
}

// next folds lexical errors into p.errs and returns the next significant
// token, or ok=false at end of input.
func (p *Parser) next() (lex.Token, bool) {
	for {
		tok, err := p.lx.Next()
		if err == nil {
			return tok, true
		}

		if errors.Is(err, lex.ErrEndOfInput) {
			return lex.Token{}, false
		}

		var lerr *lex.Error
		if errors.As(err, &lerr) {
			p.errs.Add(p.tokenLocation(lex.Token{
				Line: lerr.Line, Column: lerr.Column,
				IndexStart: lerr.IndexStart, IndexEnd: lerr.IndexEnd, LineOffset: lerr.LineOffset,
			}), "%s", lerr.Message)

			continue
		}

		p.errs.Add(p.startLocation(), "%s", err.Error())
	}
}

// peek returns, without consuming, the next significant token.
func (p *Parser) peek() (lex.Token, bool) {
	if !p.have {
		p.tok, p.ok = p.next()
		p.have = true
	}

	return p.tok, p.ok
}

// advance consumes and returns the token peek would have returned.
func (p *Parser) advance() (lex.Token, bool) {
	tok, ok := p.peek()
	p.have = false

	return tok, ok
}

func (p *Parser) tokenLocation(tok lex.Token) diag.Location {
	return diag.Location{
		Filename:   p.filename,
		Source:     p.source,
		LineOffset: tok.LineOffset,
		StartLine:  tok.Line,
		EndLine:    tok.Line,
		StartCol:   tok.Column,
		EndCol:     tok.Column + (tok.IndexEnd - tok.IndexStart),
	}
}

// parseStatements parses statements until a close-brace (if expectBrace) or
// end of input, per the grammar's "block = statements separated by newline,
// terminated by close-brace or EOF".
func (p *Parser) parseStatements(expectBrace bool) [][]*Unit {
	var statements [][]*Unit

	for {
		if expectBrace {
			if tok, ok := p.peek(); ok && tok.Type == lex.CloseBrace {
				p.advance()
				break
			}
		}

		tok, ok := p.peek()
		if !ok {
			break
		}

		if tok.Type.IsCloseParen() {
			p.advance()
			p.errs.Add(p.tokenLocation(tok), "unexpected %s", tok.Type)

			continue
		}

		statements = append(statements, p.parseStatement())
	}

	return statements
}

// parseStatement parses one statement: a possibly-empty sequence of parse
// units terminated by a newline (consumed) or a close-brace / end of input
// (left for the caller).
func (p *Parser) parseStatement() []*Unit {
	var units []*Unit

	for {
		tok, ok := p.peek()
		if !ok || tok.Type.IsCloseParen() {
			break
		}

		if tok.Type == lex.Newline {
			p.advance()
			break
		}

		unit := p.parseUnit(&units)
		if unit != nil {
			units = append(units, unit)
		}
	}

	return units
}

// parseUnit consumes and parses the next token as one parse unit. stmt is
// the statement-so-far being built, passed by pointer so subscript handling
// can pop the unit it subscripts.
func (p *Parser) parseUnit(stmt *[]*Unit) *Unit {
	tok, ok := p.advance()
	if !ok {
		return nil
	}

	switch tok.Type {
	case lex.Bareword:
		return p.barewordUnit(tok)

	case lex.AString:
		return NewLeaf(AString, tok.Text, p.tokenLocation(tok))
	case lex.LString:
		return NewLeaf(LString, tok.Text, p.tokenLocation(tok))
	case lex.RString:
		return NewLeaf(RString, tok.Text, p.tokenLocation(tok))
	case lex.LRString:
		return NewLeaf(LRString, tok.Text, p.tokenLocation(tok))
	case lex.Verbatim:
		return NewLeaf(Verbatim, tok.Text, p.tokenLocation(tok))

	case lex.BeginBlock:
		return p.parseBlockUnit(tok)

	case lex.BeginSubstitution:
		return p.parseGroup(Substitution, tok, lex.CloseParen, "substitution")

	case lex.BeginSemiliteral:
		return p.parseSemiliteral(tok)

	case lex.BeginNameSubscript:
		return p.parseSubscript(stmt, tok, lex.CloseParen, "name-subscript")
	case lex.BeginNumericSubscript:
		return p.parseSubscript(stmt, tok, lex.CloseBracket, "numeric-subscript")
	case lex.BeginStringSubscript:
		return p.parseSubscript(stmt, tok, lex.CloseBrace, "string-subscript")

	case lex.CloseParen, lex.CloseBracket, lex.CloseBrace:
		p.errs.Add(p.tokenLocation(tok), "unexpected %s", tok.Type)
		return nil

	case lex.Newline:
		return nil

	default:
		p.errs.Add(p.tokenLocation(tok), "unexpected %s", tok.Type)
		return nil
	}
}

// parseBlockUnit parses a `{ ... }` that opened independently, i.e. a block
// literal rather than a string subscript.
func (p *Parser) parseBlockUnit(open lex.Token) *Unit {
	loc := p.tokenLocation(open)
	statements := p.parseStatements(true)

	return NewBlock(statements, loc)
}

// parseGroup parses a parenthesised/bracketed group of units up to its
// matching close token, applying tag-merging: a close token carrying a
// suffix tag (e.g. ")foo") wraps the group in a substitution whose first
// unit is a bareword "#kind#tag".
func (p *Parser) parseGroup(kind Type, open lex.Token, closeType lex.Type, name string) *Unit {
	loc := p.tokenLocation(open)

	var units []*Unit

	for {
		tok, ok := p.peek()
		if !ok {
			p.errs.Add(loc, "unterminated %s", name)
			break
		}

		if tok.Type == closeType {
			p.advance()
			loc = p.mergeTag(loc, kind, name, tok, &units)
			break
		}

		if unit := p.parseUnit(&units); unit != nil {
			units = append(units, unit)
		}
	}

	return NewGroup(kind, units, loc)
}

// mergeTag implements the ")tag" rule: the tag text directly attached to a
// closing delimiter (Token.Text beyond the single delimiter byte) becomes a
// leading "#name#tag" bareword unit in the group it closes.
func (p *Parser) mergeTag(loc diag.Location, kind Type, name string, close lex.Token, units *[]*Unit) diag.Location {
	tag := ""
	if len(close.Text) > 1 {
		tag = close.Text[1:]
	}

	if tag != "" {
		header := NewLeaf(Bareword, "#"+name+"#"+tag, p.tokenLocation(close))
		*units = append([]*Unit{header}, *units...)
	}

	return loc
}

// parseSubscript implements the subscript rule: the parse unit immediately
// preceding the subscript opener is popped from stmt and wrapped, together
// with the subscript's own bracketed group, into
// "( #kind# #tag# <base> ( ... ) )" — #tag# is "##" when the closing
// delimiter carried no suffix tag. If stmt is empty, the subscript is
// syntactically impossible without a prior parse error already having been
// reported for it, so per spec no new diagnostic is added here.
func (p *Parser) parseSubscript(stmt *[]*Unit, open lex.Token, closeType lex.Type, kind string) *Unit {
	loc := p.tokenLocation(open)

	var base *Unit
	if n := len(*stmt); n > 0 {
		base = (*stmt)[n-1]
		*stmt = (*stmt)[:n-1]
	}

	var inner []*Unit

	tag := ""

	for {
		tok, ok := p.peek()
		if !ok {
			p.errs.Add(loc, "unterminated %s", kind)
			break
		}

		if tok.Type == closeType {
			p.advance()

			if len(tok.Text) > 1 {
				tag = tok.Text[1:]
			}

			break
		}

		if unit := p.parseUnit(&inner); unit != nil {
			inner = append(inner, unit)
		}
	}

	group := NewGroup(Substitution, inner, loc)

	if base == nil {
		return nil
	}

	kindHeader := NewLeaf(Bareword, "#"+kind+"#", loc)

	tagText := "##"
	if tag != "" {
		tagText = "#" + tag + "#"
	}

	tagHeader := NewLeaf(Bareword, tagText, loc)

	return NewGroup(Substitution, []*Unit{kindHeader, tagHeader, base, group}, loc)
}

// parseSemiliteral parses a "[ ... ]" semiliteral, regrouping adjacent
// L-/R-/LR-strings with their neighbour into a substitution: an L- or
// LR-string attaches to the unit before it, an R- or LR-string attaches to
// the unit after it.
func (p *Parser) parseSemiliteral(open lex.Token) *Unit {
	loc := p.tokenLocation(open)

	var raw []*Unit

	for {
		tok, ok := p.peek()
		if !ok {
			p.errs.Add(loc, "unterminated semiliteral")
			break
		}

		if tok.Type == lex.CloseBracket {
			p.advance()
			loc = p.mergeTag(loc, Semiliteral, "semiliteral", tok, &raw)
			break
		}

		if unit := p.parseUnit(&raw); unit != nil {
			raw = append(raw, unit)
		}
	}

	units := p.regroupSemiliteral(raw, loc)

	return NewGroup(Semiliteral, units, loc)
}

func isLLike(t Type) bool { return t == LString || t == LRString }
func isRLike(t Type) bool { return t == RString || t == LRString }

func (p *Parser) regroupSemiliteral(raw []*Unit, loc diag.Location) []*Unit {
	if len(raw) == 0 {
		return raw
	}

	if isLLike(raw[0].Type) {
		p.errs.Add(raw[0].Location, "semiliteral cannot start with an l-string")
	}

	if isRLike(raw[len(raw)-1].Type) {
		p.errs.Add(raw[len(raw)-1].Location, "semiliteral cannot end with an r-string")
	}

	out := make([]*Unit, 0, len(raw))

	for i := 0; i < len(raw); i++ {
		u := raw[i]

		if isLLike(u.Type) && len(out) > 0 {
			prev := out[len(out)-1]
			group := []*Unit{prev, u}

			if isRLike(u.Type) && i+1 < len(raw) {
				group = append(group, raw[i+1])
				i++
			}

			out[len(out)-1] = NewGroup(Substitution, group, prev.Location)

			continue
		}

		if isRLike(u.Type) && i+1 < len(raw) {
			next := raw[i+1]
			out = append(out, NewGroup(Substitution, []*Unit{u, next}, u.Location))
			i++

			continue
		}

		out = append(out, u)
	}

	return out
}

// barewordUnit splits a bareword containing "$" into literal fragments and
// "$name" substitutions: "$name" becomes "( #var# name )" and each literal
// fragment becomes a stringoid of the appropriate edge-tagging (l/r/lr/a
// string) depending on whether it sits at the start, end, both, or neither.
func (p *Parser) barewordUnit(tok lex.Token) *Unit {
	text := tok.Text
	if !strings.Contains(text, "$") {
		return NewLeaf(Bareword, text, p.tokenLocation(tok))
	}

	loc := p.tokenLocation(tok)

	var parts []*Unit

	i := 0
	for i < len(text) {
		dollar := strings.IndexByte(text[i:], '$')
		if dollar < 0 {
			parts = append(parts, p.fragmentUnit(text[i:], i == 0, true, loc))
			break
		}

		dollar += i
		if dollar > i {
			parts = append(parts, p.fragmentUnit(text[i:dollar], i == 0, false, loc))
		}

		j := dollar + 1
		for j < len(text) && isNameByte(text[j]) {
			j++
		}

		name := text[dollar+1 : j]
		varUnit := NewLeaf(Bareword, "#var#", loc)
		nameUnit := NewLeaf(Bareword, name, loc)
		parts = append(parts, NewGroup(Substitution, []*Unit{varUnit, nameUnit}, loc))

		i = j
	}

	if len(parts) == 1 && parts[0].Type != Substitution {
		return parts[0]
	}

	return NewGroup(Substitution, parts, loc)
}

func isNameByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// fragmentUnit tags a literal fragment of an interpolated bareword: l-string
// if it sits at the start only, r-string if at the end only, lr-string if
// both (the whole bareword had no "$"-split neighbour on that side), and
// a-string if neither (an interior fragment between two substitutions).
func (p *Parser) fragmentUnit(text string, atStart, atEnd bool, loc diag.Location) *Unit {
	switch {
	case atStart && atEnd:
		return NewLeaf(LRString, text, loc)
	case atStart:
		return NewLeaf(LString, text, loc)
	case atEnd:
		return NewLeaf(RString, text, loc)
	default:
		return NewLeaf(AString, text, loc)
	}
}
