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

// Package linker merges P-Code objects into one: it walks a root object's
// load-pkg/load-mod records to pull in named packages and modules in
// dependency order, deduplicates entities that share a mangled linkage
// name, and rewrites every global reference to point at the surviving
// canonical copy, per spec.md §4.9.
package linker

import (
	"github.com/avalang/avacore/pkg/diag"
	"github.com/avalang/avacore/pkg/pcode"
)

// entry is one named package or module the Linker knows how to load, plus
// whether it has already been folded into the current Link's output.
type entry struct {
	obj      *pcode.Object
	consumed bool
}

// Linker accumulates the named packages and modules a set of root objects
// may load, then assembles a single linked object out of a call to Link.
// It corresponds to the original runtime's ava_pcode_linker: packages and
// modules are kept in separate namespaces (a `load-pkg "foo"` and a
// `load-mod "foo"` never refer to the same entry), and adding the same
// name twice is a caller error rather than a silent overwrite.
type Linker struct {
	packages map[string]*entry
	modules  map[string]*entry
}

// New returns an empty Linker.
func New() *Linker {
	return &Linker{packages: map[string]*entry{}, modules: map[string]*entry{}}
}

// AddPackage registers a named package's implementation object. Adding the
// same name twice reports a "duplicate package" error without modifying
// the existing entry.
func (l *Linker) AddPackage(name string, obj *pcode.Object, errs *diag.Errors) {
	if _, ok := l.packages[name]; ok {
		errs.Add(diag.Location{}, "linker: package %q added more than once", name)
		return
	}

	l.packages[name] = &entry{obj: obj}
}

// AddModule registers a named module's implementation object, analogous to
// AddPackage.
func (l *Linker) AddModule(name string, obj *pcode.Object, errs *diag.Errors) {
	if _, ok := l.modules[name]; ok {
		errs.Add(diag.Location{}, "linker: module %q added more than once", name)
		return
	}

	l.modules[name] = &entry{obj: obj}
}

// Link concatenates every root object, in order, along with every package
// and module they (transitively) load, into one P-Code object; resolves
// duplicate linkage definitions to a single canonical copy; and rewrites
// every reference accordingly. Errors — a duplicate linkage definition, a
// missing package or module, or a load cycle — are appended to errs (global
// indices are not range-checked here, and out-of-range ones are carried
// through unchanged); the
// returned object is always non-nil but may be incomplete when errs ends
// up non-empty.
func Link(l *Linker, roots []*pcode.Object, errs *diag.Errors) *pcode.Object {
	c := &concatenator{linker: l, errs: errs, loading: map[string]bool{}}

	out := &pcode.Object{}
	for _, root := range roots {
		c.concatObject(out, root, false)
	}

	canonical := selectCanonical(out, errs)
	relink(out, canonical)
	dead := deleteNonCanonical(out, canonical)

	return compact(out, dead)
}
