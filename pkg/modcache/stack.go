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
package modcache

import "github.com/avalang/avacore/pkg/pcode"

// Stack is an ordered list of cache levels, hottest first — e.g.
// process-intrinsic at index 0, an in-memory cache next, then read-only
// on-disk caches, with a writable disk cache coldest. A level need not
// implement both Getter and Putter; Stack only invokes whichever
// capability it has.
//
// The original runtime links levels through a doubly-linked list so a
// hit can walk back toward the head; a slice gives the same ordered
// walk without the extra indirection and fits a level count that's
// fixed for the lifetime of a compilation environment.
type Stack struct {
	levels []any
}

// NewStack builds a cache stack from hottest to coldest.
func NewStack(levels ...any) *Stack {
	return &Stack{levels: levels}
}

// Get walks the stack top (hottest) to bottom (coldest). On a hit at
// level k, the found object is stored into every level above k that
// supports Put, so the next lookup of the same name is satisfied
// closer to the top. A level whose Get reports an error aborts the
// search immediately, per spec.md §4.10 — a level that might have the
// answer but failed to produce it is not something a colder level's
// answer can safely override.
func (s *Stack) Get(name string) (*pcode.Object, error) {
	for i, lvl := range s.levels {
		g, ok := lvl.(Getter)
		if !ok {
			continue
		}

		obj, err := g.Get(name)
		if err != nil {
			return nil, err
		}

		if obj == nil {
			continue
		}

		for j := i - 1; j >= 0; j-- {
			if p, ok := s.levels[j].(Putter); ok {
				p.Put(name, obj)
			}
		}

		return obj, nil
	}

	return nil, nil
}

// Put stores obj into every level of the stack that supports Put.
func (s *Stack) Put(name string, obj *pcode.Object) {
	for _, lvl := range s.levels {
		if p, ok := lvl.(Putter); ok {
			p.Put(name, obj)
		}
	}
}
