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

import (
	"sync"

	"github.com/avalang/avacore/pkg/pcode"
)

// Memory is a cache level backed by a map keyed by name, guarded by an
// RWMutex in the style of pkg/util/field's pooling types. It never
// fails to Get or Put and never evicts.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]*pcode.Object
}

// NewMemory constructs an empty in-memory cache level.
func NewMemory() *Memory {
	return &Memory{entries: map[string]*pcode.Object{}}
}

// Get implements Getter. A miss returns (nil, nil).
func (m *Memory) Get(name string) (*pcode.Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.entries[name], nil
}

// Put implements Putter, replacing any prior entry under name.
func (m *Memory) Put(name string, obj *pcode.Object) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[name] = obj
}
