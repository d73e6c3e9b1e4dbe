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
package symtab

import "strings"

// Import is one entry added by Table.Import: new-prefix maps to old-prefix
// when resolving a name during lookup, with strong imports taking
// precedence over weak ones.
type Import struct {
	NewPrefix string
	OldPrefix string
	Strong    bool
}

// Table is an immutable, functional scope: a name map plus a parent
// pointer and this scope's own list of imports (imports never chain to a
// parent's list — each scope's imports are searched independently, once
// per ancestor, during lookup). A fresh Table owns a private name map;
// Import derives a new Table value that shares it, since importing never
// touches direct name bindings.
type Table struct {
	parent  *Table
	names   map[string]*Symbol
	imports []Import
}

// New creates an empty table with the given (possibly nil) parent.
func New(parent *Table) *Table {
	return &Table{parent: parent, names: make(map[string]*Symbol)}
}

// Put binds symbol under its FullName, mutating this table's own name map
// in place (consistent with the table having just been constructed with a
// fresh map of its own). If a different symbol was already bound under
// that name, Put returns it as the conflict and leaves the new binding in
// place anyway, leaving the caller to decide how to report the conflict.
func (t *Table) Put(symbol *Symbol) (conflict *Symbol, hadConflict bool) {
	old, exists := t.names[symbol.FullName]
	t.names[symbol.FullName] = symbol

	if exists && old != symbol {
		return old, true
	}

	return nil, false
}

// Get resolves key against this table's scope chain, per spec's layered
// lookup: for each scope from innermost to outermost, first try a direct
// name match; failing that, try every ancestor's strong imports, then
// every ancestor's weak imports; stop at the first stage (within one scope
// level) that produces any match. May return more than one symbol when
// distinct imports both match the same query.
func (t *Table) Get(key string) []*Symbol {
	var found []*Symbol

	t.search(key, false, func(_ string, sym *Symbol) {
		found = append(found, sym)
	})

	return found
}

// Lookup is the common case of Get: the single symbol bound to key, or
// false if none (or more than one ambiguous candidate) was found.
func (t *Table) Lookup(key string) (*Symbol, bool) {
	found := t.Get(key)
	if len(found) != 1 {
		return nil, false
	}

	return found[0], true
}

// Import records a new import on a derived table: lookups of names
// starting with newPrefix are additionally resolved by substituting
// oldPrefix for it. If absolute is false, oldPrefix is first absolutised
// by a prefix search of the table's current scope chain (the semantics
// the language's `import` statement needs to resolve a relative package
// name); absolutised and ambiguous report that search's outcome so the
// caller can diagnose an ambiguous import. Returns the same table,
// unmodified, if an identical import is already present.
func (t *Table) Import(oldPrefix, newPrefix string, absolute, strong bool) (result *Table, absolutised, ambiguous string) {
	if !absolute {
		t.search(oldPrefix, true, func(effective string, _ *Symbol) {
			switch {
			case absolutised == "":
				absolutised = effective
			case absolutised != effective:
				ambiguous = effective
			}
		})

		if absolutised != "" {
			oldPrefix = absolutised
		}
	}

	for _, imp := range t.imports {
		if imp.Strong == strong && imp.OldPrefix == oldPrefix && imp.NewPrefix == newPrefix {
			return t, absolutised, ambiguous
		}
	}

	clone := &Table{parent: t.parent, names: t.names}
	clone.imports = append(append([]Import{}, t.imports...), Import{NewPrefix: newPrefix, OldPrefix: oldPrefix, Strong: strong})

	return clone, absolutised, ambiguous
}

type acceptor func(effectiveName string, symbol *Symbol)

// search implements ava_symtab_search: walk scopes from t outward; at each
// scope, try a direct (prefix-aware) find, then every ancestor's strong
// imports, then every ancestor's weak imports, stopping at the first
// stage with any match.
func (t *Table) search(target string, prefixOnly bool, accept acceptor) {
	for nameSource := t; nameSource != nil; nameSource = nameSource.parent {
		if nameSource.find(target, prefixOnly, accept) {
			return
		}

		for _, strong := range [2]bool{true, false} {
			anyFound := false

			for importSource := t; importSource != nil; importSource = importSource.parent {
				for _, imp := range importSource.imports {
					if imp.Strong != strong {
						continue
					}

					effective, ok := matchImport(imp, target)
					if !ok {
						continue
					}

					if nameSource.find(effective, prefixOnly, accept) {
						anyFound = true
					}
				}
			}

			if anyFound {
				return
			}
		}
	}
}

// find looks for effectiveName within this single scope's own name map,
// without consulting imports or the parent chain. In prefix mode, matches
// the unique entry whose key has effectiveName as a prefix, if any.
func (t *Table) find(effectiveName string, prefixOnly bool, accept acceptor) bool {
	if !prefixOnly {
		sym, ok := t.names[effectiveName]
		if !ok {
			return false
		}

		accept(effectiveName, sym)

		return true
	}

	// Prefix search normally has at most one reasonable match within a
	// single scope (one package prefix per import chain); picking the
	// lexicographically smallest candidate keeps this deterministic
	// despite Go's randomised map iteration order.
	bestKey := ""

	var best *Symbol

	for key, sym := range t.names {
		if !strings.HasPrefix(key, effectiveName) {
			continue
		}

		if best == nil || key < bestKey {
			bestKey, best = key, sym
		}
	}

	if best == nil {
		return false
	}

	accept(effectiveName, best)

	return true
}

func matchImport(imp Import, name string) (string, bool) {
	if !strings.HasPrefix(name, imp.NewPrefix) {
		return "", false
	}

	return imp.OldPrefix + name[len(imp.NewPrefix):], true
}
