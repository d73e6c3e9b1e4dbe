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

// Package compenv provides the compilation environment of spec.md §4.11:
// the record tying together the package-name prefix applied to newly
// compiled symbols, the module and package cache stacks (pkg/modcache),
// a pending-load stack for module-cycle detection, and the two
// configurable collaborators a compilation needs from its host — how to
// read a module's source, and how to build a fresh macro substitution
// context — plus the list of packages implicitly loaded into every
// module. Grounded on
// original_source/src/runtime/avalanche/compenv.h's ava_compenv_s.
package compenv

import (
	"os"
	"path/filepath"

	"github.com/avalang/avacore/pkg/diag"
	"github.com/avalang/avacore/pkg/macro"
	"github.com/avalang/avacore/pkg/modcache"
	"github.com/avalang/avacore/pkg/symtab"
	"github.com/avalang/avacore/pkg/util/collection/stack"
)

// ReadSourceFunc reads a module's source by name, returning every file
// that makes it up keyed by filename (a module may span more than one
// file), matching ava_compenv_read_source_f's "ordered map of filename
// to source content" contract.
type ReadSourceFunc func(name string) (map[string]string, error)

// NewMacsubFunc builds a fresh macro substitution context for one
// compilation, reporting discovered errors into errs, matching
// ava_compenv_new_macsub_f.
type NewMacsubFunc func(env *Env, errs *diag.Errors) *macro.Context

// Env is a compilation environment: it may be reused across any number
// of independent compilations (unlike the macsub/codegen/X-Code contexts
// it creates per file), recursively invoking itself to resolve modules
// the cache stacks don't already hold.
type Env struct {
	// PackagePrefix is prepended to every symbol a module compiled
	// through this environment declares, e.g. "org.ava-lang.avast:".
	PackagePrefix string

	PackageCache *modcache.Stack
	ModuleCache  *modcache.Stack

	// ImplicitPackages are loaded into every module compiled through
	// this environment, via a load-pkg record codegen emits.
	ImplicitPackages []string

	ReadSource ReadSourceFunc
	NewMacsub  NewMacsubFunc

	pending stack.Stack[string]
}

// New allocates an unconfigured environment: empty cache stacks, no
// pending loads, and no collaborators — a caller must set ReadSource and
// NewMacsub (directly, or via UseSimpleSourceReader/UseMinimalMacsub)
// before calling CompileFile.
func New(packagePrefix string) *Env {
	return &Env{
		PackagePrefix: packagePrefix,
		PackageCache:  modcache.NewStack(),
		ModuleCache:   modcache.NewStack(),
	}
}

// UseSimpleSourceReader configures ReadSource to read a single file from
// the local filesystem, resolving name against prefix, matching
// ava_compenv_use_simple_source_reader/ava_compenv_simple_read_source.
func (e *Env) UseSimpleSourceReader(prefix string) {
	e.ReadSource = func(name string) (map[string]string, error) {
		path := filepath.Join(prefix, name)

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		return map[string]string{name: string(data)}, nil
	}
}

// UseMinimalMacsub configures NewMacsub to build a context with an empty
// symbol table — no intrinsic macros bound — matching
// ava_compenv_use_minimal_macsub/ava_compenv_minimal_new_macsub. This is
// the only macsub flavour this package provides: the original runtime's
// "standard" flavour layers the org.ava-lang.avast package on top, and
// its header explicitly notes that variant "is not available in the
// bootstrapping library" — the same applies here, since no avast/
// intrinsics package exists in this tree for a standard flavour to load.
func (e *Env) UseMinimalMacsub() {
	e.NewMacsub = func(env *Env, errs *diag.Errors) *macro.Context {
		return &macro.Context{
			Symtab:   symtab.New(nil),
			Errs:     errs,
			Package:  env.PackagePrefix,
			Varscope: symtab.New(nil),
			Compenv:  env,
		}
	}
}

// pushPending records name as a module currently being loaded, for cycle
// detection; the returned func pops it back off regardless of how
// loading ends. An attempt to push a name already on the stack reports
// a cyclic-load error and returns a no-op pop.
func (e *Env) pushPending(name string, errs *diag.Errors) func() {
	for i := uint(0); i < e.pending.Len(); i++ {
		if e.pending.Peek(i) == name {
			errs.Add(diag.Location{}, "compenv: cyclic load of module %q", name)
			return func() {}
		}
	}

	e.pending.Push(name)

	return func() {
		e.pending.Pop()
	}
}

// Pending reports the module names currently being loaded, innermost
// (most recently pushed) first, for diagnostics.
func (e *Env) Pending() []string {
	names := make([]string, 0, e.pending.Len())
	for i := uint(0); i < e.pending.Len(); i++ {
		names = append(names, e.pending.Peek(i))
	}

	return names
}

