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

// Package parse builds a tree of parse units out of a token stream from
// pkg/lex. It never aborts on a malformed input: errors are appended to a
// diag.Errors list and parsing continues, so that one bad statement does
// not prevent the rest of the file from being parsed and checked.
package parse

import "github.com/avalang/avacore/pkg/diag"

// Type identifies the tagged variant of a parse unit.
type Type uint8

const (
	Bareword Type = iota
	AString
	LString
	RString
	LRString
	Verbatim
	Block
	Substitution
	Semiliteral
)

func (t Type) String() string {
	switch t {
	case Bareword:
		return "bareword"
	case AString:
		return "a-string"
	case LString:
		return "l-string"
	case RString:
		return "r-string"
	case LRString:
		return "lr-string"
	case Verbatim:
		return "verbatim"
	case Block:
		return "block"
	case Substitution:
		return "substitution"
	case Semiliteral:
		return "semiliteral"
	default:
		return "?"
	}
}

// IsStringoid reports whether t's surface form is a quoted string: any of
// the four string kinds, or a verbatim literal.
func (t Type) IsStringoid() bool {
	switch t {
	case AString, LString, RString, LRString, Verbatim:
		return true
	default:
		return false
	}
}

// Unit is one node of the parse tree. A leaf unit (bareword or any
// stringoid) carries Text; Block carries Statements (a list of statements,
// each a list of units); Substitution and Semiliteral carry a flat list of
// child Units.
type Unit struct {
	Type       Type
	Text       string
	Units      []*Unit
	Statements [][]*Unit
	Location   diag.Location
}

// NewLeaf builds a leaf unit (bareword or stringoid) carrying text.
func NewLeaf(t Type, text string, loc diag.Location) *Unit {
	return &Unit{Type: t, Text: text, Location: loc}
}

// NewGroup builds a Substitution or Semiliteral unit from a flat list of
// child units.
func NewGroup(t Type, units []*Unit, loc diag.Location) *Unit {
	return &Unit{Type: t, Units: units, Location: loc}
}

// NewBlock builds a Block unit from its statements.
func NewBlock(statements [][]*Unit, loc diag.Location) *Unit {
	return &Unit{Type: Block, Statements: statements, Location: loc}
}
