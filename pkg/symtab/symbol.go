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

// Package symtab implements the compiler's scoped symbol table: an
// immutable functional tree of symbols keyed by full name, with
// prefix-based strong/weak imports resolved per spec's layered lookup
// rule.
package symtab

// Kind identifies the variant of a Symbol.
type Kind uint8

const (
	GlobalVariable Kind = iota
	GlobalFunction
	LocalVariable
	LocalFunction
	Struct
	ExpanderMacro
	ControlMacro
	OperatorMacro
	FunctionMacro
	Other
)

func (k Kind) String() string {
	switch k {
	case GlobalVariable:
		return "global-variable"
	case GlobalFunction:
		return "global-function"
	case LocalVariable:
		return "local-variable"
	case LocalFunction:
		return "local-function"
	case Struct:
		return "struct"
	case ExpanderMacro:
		return "expander-macro"
	case ControlMacro:
		return "control-macro"
	case OperatorMacro:
		return "operator-macro"
	case FunctionMacro:
		return "function-macro"
	case Other:
		return "other"
	default:
		return "?"
	}
}

// Visibility controls whether a symbol is importable outside its defining
// package (public), only within it (internal), or not at all outside the
// scope it was declared in (private).
type Visibility uint8

const (
	Private Visibility = iota
	Internal
	Public
)

func (v Visibility) String() string {
	switch v {
	case Private:
		return "private"
	case Internal:
		return "internal"
	case Public:
		return "public"
	default:
		return "?"
	}
}

// Symbol is one entry of a symbol table: a macro, global, struct, or local
// binding keyed by its full (possibly package-prefixed) name. OtherTag
// distinguishes variants of Other; Payload carries whatever data is
// specific to Kind (a macro's substitution function, a function's
// prototype, a struct's layout, ...) and is left untyped here since it is
// produced by pkg/macro and pkg/codegen, both built atop this package.
type Symbol struct {
	Kind       Kind
	OtherTag   string
	Level      int
	Visibility Visibility
	FullName   string

	// DefinerNode is the AST node that introduced this symbol, if any.
	DefinerNode any
	// PCodeIndex is this symbol's index into its defining P-Code object's
	// global list, once one has been assigned.
	PCodeIndex int
	// Payload carries kind-specific data (macro substitution functions,
	// function prototypes, struct layouts, register assignments).
	Payload any
}
