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

// Package modcache provides a stack of read/write caches for already
// compiled P-Code objects (typically interfaces rather than
// implementations), per spec.md §4.10. A Stack propagates a hit found at
// a cold level up to every hotter level that can accept it, so repeated
// lookups of the same name become cheap after the first.
package modcache

import "github.com/avalang/avacore/pkg/pcode"

// Getter is a cache level able to look an object up by name. A miss is
// reported by returning a nil object and a nil error; an error return
// means the level may have had the object but failed to produce it
// (e.g. a disk cache hitting a read error), which aborts the whole
// stack's lookup rather than falling through to a colder level.
type Getter interface {
	Get(name string) (*pcode.Object, error)
}

// Putter is a cache level able to store an object by name. Put must fail
// atomically if it fails at all — a caller never observes a partially
// written entry — but it has no way to report failure; a cache for which
// storing isn't possible or worthwhile simply doesn't implement Putter.
type Putter interface {
	Put(name string, obj *pcode.Object)
}
