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

// Package mangle implements the name-mangling scheme used to expose
// arbitrary-byte-string identifiers to linkage layers that only tolerate a
// restricted alphabet (object file symbol tables, and this module's own
// textual P-Code).
package mangle

import "strings"

// Scheme identifies the manner in which a name has been (or should be)
// mangled.
type Scheme int

const (
	// None indicates an unmangled name: passed through verbatim.
	None Scheme = iota
	// Ava is the scheme described in the package doc: prefix "a$", hyphen/
	// period/colon runs collapsed to underscore runs, everything else not in
	// [a-zA-Z0-9] escaped as "$HH".
	Ava
)

// Name is a name split into the scheme that applies to it and its unmangled
// form.
type Name struct {
	Scheme Scheme
	Name   string
}

const hexits = "0123456789ABCDEF"

func hexval(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10
	default:
		// Lower-case hexits are rejected deliberately: the original
		// implementation normalises on encountering them by refusing to
		// recognise the escape, rather than accepting both cases.
		return -1
	}
}

// Mangle mangles a name under the scheme it carries. Unmangled names pass
// through unchanged.
func Mangle(n Name) string {
	if n.Scheme == None {
		return n.Name
	}

	var out strings.Builder

	out.WriteString("a$")

	last := byte('$')
	src := n.Name

	for i := 0; i < len(src); i++ {
		c := src[i]

		switch {
		case c == '-' && last != '_':
			out.WriteByte('_')
			last = '_'
		case c == '.' && last != '_':
			out.WriteString("__")
			last = '_'
		case c == ':' && last != '_':
			out.WriteString("___")
			last = '_'
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9'):
			out.WriteByte(c)
			last = c
		default:
			out.WriteByte('$')
			out.WriteByte(hexits[(c>>4)&0xF])
			out.WriteByte(hexits[c&0xF])
			last = hexits[c&0xF]
		}
	}

	return out.String()
}

// Demangle identifies the mangling scheme in effect on the given string and
// returns its unmangled form. This always succeeds: if the input cannot be
// interpreted as a mangled name (it lacks the "a$" prefix, or contains
// malformed escapes), it is assumed to carry no mangling at all and is
// returned unchanged under Scheme None.
func Demangle(mangled string) Name {
	if len(mangled) < 2 || mangled[0] != 'a' || mangled[1] != '$' {
		return Name{None, mangled}
	}

	var out strings.Builder

	in := 2
	for in < len(mangled) {
		switch mangled[in] {
		case '_':
			switch {
			case in+1 >= len(mangled) || mangled[in+1] != '_':
				out.WriteByte('-')
				in++
			case in+2 >= len(mangled) || mangled[in+2] != '_':
				out.WriteByte('.')
				in += 2
			default:
				out.WriteByte(':')
				in += 3
			}
		case '$':
			if in+2 >= len(mangled) {
				return Name{None, mangled}
			}

			hi, lo := hexval(mangled[in+1]), hexval(mangled[in+2])
			if hi < 0 || lo < 0 {
				return Name{None, mangled}
			}

			out.WriteByte(byte(hi<<4 | lo))
			in += 3
		default:
			out.WriteByte(mangled[in])
			in++
		}
	}

	return Name{Ava, out.String()}
}
