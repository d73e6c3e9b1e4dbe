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
package codegen

import "github.com/avalang/avacore/pkg/pcode"

// initFunctionName is the linkage name the generator gives the
// synthesized top-level function, matching the original runtime's
// reserved "cannot be a valid user identifier" convention for
// compiler-generated symbols.
const initFunctionName = "\\init"

// BuildModule assembles a whole P-Code object out of a module's compiled
// globals plus the generator holding its top-level code: a load-pkg
// record for every implicit package the compilation environment
// declared, the module's own globals, a synthesized `\init` function
// wrapping the top-level generator's code, and an `init` record pointing
// at it — matching spec.md §4.6's description of the generator's output.
func BuildModule(packages []string, globals []pcode.Global, topLevel *Generator) *pcode.Object {
	obj := &pcode.Object{}

	for _, pkg := range packages {
		obj.Globals = append(obj.Globals, pcode.Global{
			Kind:   pcode.LoadPkg,
			Fields: []pcode.Operand{pcode.StringOperand(pkg)},
		})
	}

	obj.Globals = append(obj.Globals, globals...)

	initFunIndex := int64(len(obj.Globals))
	obj.Globals = append(obj.Globals, pcode.Global{
		Kind:        pcode.Fun,
		Published:   false,
		LinkageName: initFunctionName,
		Code:        topLevel.Code(),
	})

	obj.Globals = append(obj.Globals, pcode.Global{
		Kind:   pcode.Init,
		Fields: []pcode.Operand{pcode.GlobalOperand(initFunIndex)},
	})

	return obj
}
