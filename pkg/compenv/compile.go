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
package compenv

import (
	"sort"

	"github.com/avalang/avacore/pkg/codegen"
	"github.com/avalang/avacore/pkg/diag"
	"github.com/avalang/avacore/pkg/macro"
	"github.com/avalang/avacore/pkg/macro/ast"
	"github.com/avalang/avacore/pkg/parse"
	"github.com/avalang/avacore/pkg/pcode"
	"github.com/avalang/avacore/pkg/util"
	"github.com/avalang/avacore/pkg/xcode"
)

// CompileFile performs every step spec.md §4.11/§4.6-§4.8 describe to
// turn a named module into validated P-Code and X-Code: read its
// source, parse and macro-substitute every file it comprises, generate
// P-Code for the combined result, and validate it, matching
// ava_compenv_compile_file's shape (two optional output pointers plus an
// overall success flag) while reporting every failure into errs instead
// of stopping at the first.
func (e *Env) CompileFile(filename string, errs *diag.Errors) (*pcode.Object, *xcode.GlobalList, bool) {
	stats := util.NewPerfStats()
	defer stats.Log("compenv: compile " + filename)

	before := errs.Len()

	pop := e.pushPending(filename, errs)
	defer pop()

	if errs.Len() > before {
		return nil, nil, false
	}

	if e.ReadSource == nil {
		errs.Add(diag.Location{}, "compenv: ReadSource not configured")
		return nil, nil, false
	}

	if e.NewMacsub == nil {
		errs.Add(diag.Location{}, "compenv: NewMacsub not configured")
		return nil, nil, false
	}

	sources, err := e.ReadSource(filename)
	if err != nil {
		errs.Add(diag.Location{}, "compenv: reading %q: %v", filename, err)
		return nil, nil, false
	}

	names := make([]string, 0, len(sources))
	for n := range sources {
		names = append(names, n)
	}

	sort.Strings(names)

	ctx := e.NewMacsub(e, errs)

	var statements []ast.Node

	for _, name := range names {
		p := parse.New(name, sources[name], errs)
		block := macro.SubstituteBlock(ctx, p.ParseBlock())
		statements = append(statements, block.Statements...)
	}

	if errs.Len() > before {
		return nil, nil, false
	}

	top := codegen.New()
	(&ast.Block{Statements: statements}).CgDiscard(top)

	obj := codegen.BuildModule(e.ImplicitPackages, nil, top)

	xc := xcode.FromPCode(obj, errs)
	if errs.Len() > before {
		return obj, xc, false
	}

	return obj, xc, true
}
