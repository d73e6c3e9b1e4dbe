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

import "strings"

// Write renders an Object back to the textual P-Code format Parse reads,
// satisfying spec.md §4.7's round-trip requirement (parse → in-memory →
// emit is logically equal, modulo integer normalisation — this writer
// always emits canonical decimal integers and canonical register tokens
// regardless of how the source text spelled them).
func Write(obj *Object) string {
	var b strings.Builder

	b.WriteByte('{')

	for i := range obj.Globals {
		if i > 0 {
			b.WriteByte(' ')
		}

		writeGlobal(&b, &obj.Globals[i])
	}

	b.WriteByte('}')

	return b.String()
}

func writeGlobal(b *strings.Builder, g *Global) {
	b.WriteByte('{')
	b.WriteString(g.Kind.String())

	for _, f := range g.Fields {
		b.WriteByte(' ')
		b.WriteString(f.String())
	}

	if g.Kind == Fun {
		b.WriteByte(' ')
		writeCode(b, g.Code)
	}

	b.WriteByte('}')
}

func writeCode(b *strings.Builder, code []Instruction) {
	b.WriteByte('{')

	for i, instr := range code {
		if i > 0 {
			b.WriteByte(' ')
		}

		b.WriteByte('{')
		b.WriteString(instr.String())
		b.WriteByte('}')
	}

	b.WriteByte('}')
}
