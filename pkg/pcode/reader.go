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

import (
	"fmt"
	"strconv"
	"strings"
)

// node is the reader's untyped parse tree: either an atom or a bracketed
// list of nodes, matching spec.md §4.7's "every object is a list of
// lists" before any global/instruction-specific structure is imposed on
// it.
type node struct {
	atom string
	list []node
	isList bool
}

// Parse reads a textual P-Code object: a top-level `{ ... }` list whose
// elements are themselves global-record lists.
func Parse(src string) (*Object, error) {
	toks := tokenize(src)

	p := &textParser{toks: toks}

	n, err := p.parseNode()
	if err != nil {
		return nil, err
	}

	if !p.atEnd() {
		return nil, fmt.Errorf("pcode: trailing input after top-level object")
	}

	if !n.isList {
		return nil, fmt.Errorf("pcode: top-level P-Code object must be a list")
	}

	obj := &Object{}

	for _, g := range n.list {
		if !g.isList || len(g.list) == 0 {
			return nil, fmt.Errorf("pcode: each global must be a non-empty list")
		}

		global, err := decodeGlobal(g)
		if err != nil {
			return nil, err
		}

		obj.Globals = append(obj.Globals, global)
	}

	return obj, nil
}

func decodeGlobal(n node) (Global, error) {
	head := n.list[0]
	if head.isList {
		return Global{}, fmt.Errorf("pcode: global record must start with a keyword")
	}

	kind, ok := globalKindOf(head.atom)
	if !ok {
		return Global{}, fmt.Errorf("pcode: unknown global kind %q", head.atom)
	}

	g := Global{Kind: kind}

	rest := n.list[1:]

	// For fun records the trailing element is the code block, which is
	// tracked separately as g.Code rather than duplicated into Fields.
	fieldNodes := rest
	if kind == Fun && len(rest) > 0 {
		fieldNodes = rest[:len(rest)-1]
	}

	fields := make([]Operand, 0, len(fieldNodes))
	for _, r := range fieldNodes {
		fields = append(fields, decodeOperand(r))
	}

	g.Fields = fields

	extractLinkage(&g)

	if kind == Fun {
		code, err := decodeCode(rest)
		if err != nil {
			return Global{}, err
		}

		g.Code = code
	}

	return g, nil
}

// extractLinkage pulls a leading bool (Published) and the first string
// field after it (LinkageName) out of a global's generic Fields, when
// present — the shared shape spec.md describes for "some globals" having
// a linkage name and a published flag, without needing this reader to
// carry every global kind's exact positional schema.
func extractLinkage(g *Global) {
	switch g.Kind {
	case Fun, VarGlobal, ExtFun, ExtVar, DeclSxt, Export:
	default:
		return
	}

	i := 0

	if i < len(g.Fields) && g.Fields[i].Kind == OperandBool {
		g.Published = g.Fields[i].Bool
		i++
	}

	if i < len(g.Fields) && g.Fields[i].Kind == OperandString {
		g.LinkageName = g.Fields[i].Str
	}
}

// decodeCode finds the last list-valued field of a fun record (the code
// block: a list of instruction lists) and decodes it. Earlier fields
// (published, linkage name, prototype, vars) are left in Fields.
func decodeCode(rest []node) ([]Instruction, error) {
	if len(rest) == 0 {
		return nil, nil
	}

	last := rest[len(rest)-1]
	if !last.isList {
		return nil, nil
	}

	var code []Instruction

	for _, in := range last.list {
		if !in.isList || len(in.list) == 0 {
			return nil, fmt.Errorf("pcode: each instruction must be a non-empty list")
		}

		head := in.list[0]
		if head.isList {
			return nil, fmt.Errorf("pcode: instruction must start with an opcode")
		}

		instr := Instruction{Op: head.atom}
		for _, operand := range in.list[1:] {
			instr.Operands = append(instr.Operands, decodeOperand(operand))
		}

		code = append(code, instr)
	}

	return code, nil
}

func decodeOperand(n node) Operand {
	if n.isList {
		items := make([]Operand, 0, len(n.list))
		for _, c := range n.list {
			items = append(items, decodeOperand(c))
		}

		return ListOperand(items)
	}

	return classifyAtom(n.atom)
}

func classifyAtom(atom string) Operand {
	if strings.HasPrefix(atom, "\"") {
		return StringOperand(unquote(atom))
	}

	switch atom {
	case "true":
		return BoolOperand(true)
	case "false":
		return BoolOperand(false)
	}

	if reg, err := ParseRegister(atom); err == nil {
		return RegOperand(reg)
	}

	if n, err := strconv.ParseInt(atom, 10, 64); err == nil {
		return IntOperand(n)
	}

	return StringOperand(atom)
}

func globalKindOf(kw string) (GlobalKind, bool) {
	switch kw {
	case "src-pos":
		return SrcPos, true
	case "init":
		return Init, true
	case "macro":
		return Macro, true
	case "export":
		return Export, true
	case "load-pkg":
		return LoadPkg, true
	case "load-mod":
		return LoadMod, true
	case "fun":
		return Fun, true
	case "var":
		return VarGlobal, true
	case "ext-fun":
		return ExtFun, true
	case "ext-var":
		return ExtVar, true
	case "decl-sxt":
		return DeclSxt, true
	default:
		return 0, false
	}
}

// textParser walks the flat token stream produced by tokenize, building
// node values.
type textParser struct {
	toks []token
	pos  int
}

func (p *textParser) atEnd() bool { return p.pos >= len(p.toks) }

func (p *textParser) parseNode() (node, error) {
	if p.atEnd() {
		return node{}, fmt.Errorf("pcode: unexpected end of input")
	}

	tok := p.toks[p.pos]

	switch tok.kind {
	case tokOpen:
		p.pos++

		var items []node

		for {
			if p.atEnd() {
				return node{}, fmt.Errorf("pcode: unterminated list")
			}

			if p.toks[p.pos].kind == tokClose {
				p.pos++
				break
			}

			child, err := p.parseNode()
			if err != nil {
				return node{}, err
			}

			items = append(items, child)
		}

		return node{isList: true, list: items}, nil

	case tokClose:
		return node{}, fmt.Errorf("pcode: unexpected '}'")

	default:
		p.pos++

		return node{atom: tok.text}, nil
	}
}

type tokenKind uint8

const (
	tokOpen tokenKind = iota
	tokClose
	tokAtom
)

type token struct {
	kind tokenKind
	text string
}

func tokenize(src string) []token {
	var toks []token

	i := 0
	n := len(src)

	for i < n {
		c := src[i]

		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c == '{':
			toks = append(toks, token{kind: tokOpen})
			i++

		case c == '}':
			toks = append(toks, token{kind: tokClose})
			i++

		case c == '"':
			start := i
			i++

			for i < n && src[i] != '"' {
				if src[i] == '\\' && i+1 < n {
					i++
				}

				i++
			}

			if i < n {
				i++ // closing quote
			}

			toks = append(toks, token{kind: tokAtom, text: src[start:i]})

		default:
			start := i
			for i < n && !isDelim(src[i]) {
				i++
			}

			toks = append(toks, token{kind: tokAtom, text: src[start:i]})
		}
	}

	return toks
}

func isDelim(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '{' || c == '}' || c == '"'
}

func unquote(s string) string {
	if len(s) < 2 {
		return s
	}

	body := s[1 : len(s)-1]

	var b strings.Builder

	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
		}

		b.WriteByte(body[i])
	}

	return b.String()
}
