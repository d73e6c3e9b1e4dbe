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
package pseq

import "github.com/avalang/avacore/pkg/value"

// Append returns a new sequence with v added at the end. When the receiver's
// reference still owns its node family (no concurrent writer has advanced
// its timestamp since), the rightmost leaf is edited in place; otherwise the
// path from root to the rightmost leaf is copied into a fresh family. Either
// way, every previously-issued Seq reference continues to observe its own
// length and elements exactly as before.
func (s *Seq) Append(v value.Value) *Seq {
	if s.root == nil {
		fam := newFamily()
		ts, _ := fam.tryOwn(0)

		leaf := newLeaf(fam)
		leaf.slots = []slot{newSlot(v, ts)}

		return &Seq{root: leaf, length: 1, readTS: ts, fanout: s.fanoutOrDefault(), threshold: s.thresholdOrDefault()}
	}

	root, extra, ts := appendNode(s.root, s.readTS, v, s.fanoutOrDefault())
	if extra != nil {
		fam := newFamily()
		rts, _ := fam.tryOwn(0)

		newRoot := newBranch(fam, root.height+1)
		newRoot.children = []*node{root, extra}
		newRoot.counts = []int{root.elementCount(), extra.elementCount()}

		return &Seq{root: newRoot, length: s.length + 1, readTS: rts, fanout: s.fanout, threshold: s.threshold}
	}

	return &Seq{root: root, length: s.length + 1, readTS: ts, fanout: s.fanout, threshold: s.threshold}
}

func (s *Seq) fanoutOrDefault() int {
	if s == nil || s.fanout == 0 {
		return DefaultFanout
	}

	return s.fanout
}

func (s *Seq) thresholdOrDefault() float64 {
	if s == nil || s.threshold == 0 {
		return RebuildThreshold
	}

	return s.threshold
}

// appendNode appends v under the rightmost path of n. It returns the
// replacement for n (which may be n itself, mutated in place) and, when n
// had no remaining room, an "extra" sibling node of the same height that
// the caller must graft in as a new child (growing the tree by one slot at
// the parent, or by one level if n was the root).
func appendNode(n *node, seenTS uint64, v value.Value, fanout int) (repl *node, extra *node, newTS uint64) {
	if n.height == 0 {
		return appendLeaf(n, seenTS, v, fanout)
	}

	last := len(n.children) - 1

	childRepl, childExtra, ts := appendNode(n.children[last], seenTS, v, fanout)
	if childExtra == nil {
		return patchChild(n, seenTS, last, childRepl, ts)
	}

	return graftSibling(n, seenTS, last, childRepl, childExtra, fanout)
}

func appendLeaf(n *node, seenTS uint64, v value.Value, fanout int) (*node, *node, uint64) {
	if len(n.slots) < fanout {
		if ts, ok := n.family.tryOwn(seenTS); ok {
			n.slots = append(n.slots, newSlot(v, ts))
			return n, nil, ts
		}

		fam := newFamily()
		ts, _ := fam.tryOwn(0)

		cp := newLeaf(fam)
		cp.slots = append(append([]slot{}, n.slots...), newSlot(v, ts))

		return cp, nil, ts
	}

	fam := newFamily()
	ts, _ := fam.tryOwn(0)

	sib := newLeaf(fam)
	sib.slots = []slot{newSlot(v, ts)}

	return n, sib, ts
}

func patchChild(n *node, seenTS uint64, idx int, childRepl *node, ts uint64) (*node, *node, uint64) {
	if childRepl == n.children[idx] {
		if ts2, ok := n.family.tryOwn(seenTS); ok {
			n.counts[idx] = childRepl.elementCount()
			return n, nil, ts2
		}
	}

	fam := newFamily()
	rts, _ := fam.tryOwn(0)

	cp := newBranch(fam, n.height)
	cp.children = append([]*node{}, n.children...)
	cp.counts = append([]int{}, n.counts...)
	cp.children[idx] = childRepl
	cp.counts[idx] = childRepl.elementCount()

	return cp, nil, rts
}

func graftSibling(n *node, seenTS uint64, idx int, childRepl, childExtra *node, fanout int) (*node, *node, uint64) {
	if len(n.children) < fanout {
		if ts2, ok := n.family.tryOwn(seenTS); ok {
			n.children[idx] = childRepl
			n.counts[idx] = childRepl.elementCount()
			n.children = append(n.children, childExtra)
			n.counts = append(n.counts, childExtra.elementCount())

			return n, nil, ts2
		}

		fam := newFamily()
		rts, _ := fam.tryOwn(0)

		cp := newBranch(fam, n.height)
		cp.children = append(append([]*node{}, n.children[:idx]...), childRepl, childExtra)
		cp.counts = append(append([]int{}, n.counts[:idx]...), childRepl.elementCount(), childExtra.elementCount())

		return cp, nil, rts
	}

	fam := newFamily()
	rts, _ := fam.tryOwn(0)

	cp := newBranch(fam, n.height)
	cp.children = append(append([]*node{}, n.children[:idx]...), childRepl)
	cp.counts = append(append([]int{}, n.counts[:idx]...), childRepl.elementCount())

	sib := newBranch(newFamily(), n.height)
	sib.children = []*node{childExtra}
	sib.counts = []int{childExtra.elementCount()}

	return cp, sib, rts
}
