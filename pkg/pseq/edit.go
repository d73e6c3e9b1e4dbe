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

// Replace returns a new sequence with the element at i bound to v. This is
// the tree's other in-place-edit operation besides Append: when the
// reference still owns its family, the target leaf gains a new version of
// the affected slot in place (and is rebuilt once dead weight crosses the
// configured threshold); otherwise the root-to-leaf path is copied into a
// fresh family.
func (s *Seq) Replace(i int, v value.Value) *Seq {
	if i < 0 || i >= s.length {
		panic("pseq: index out of range")
	}

	root, ts := replaceNode(s.root, i, s.readTS, v, s.thresholdOrDefault())

	return &Seq{root: root, length: s.length, readTS: ts, fanout: s.fanout, threshold: s.threshold}
}

func replaceNode(n *node, i int, seenTS uint64, v value.Value, threshold float64) (*node, uint64) {
	if n.height == 0 {
		if ts, ok := n.family.tryOwn(seenTS); ok {
			n.slots[i] = n.slots[i].prepend(v, ts)
			rebuildIfDue(n, ts, threshold)

			return n, ts
		}

		fam := newFamily()
		ts, _ := fam.tryOwn(0)

		cp := newLeaf(fam)
		cp.slots = append([]slot{}, n.slots...)
		cp.slots[i] = slot{versions: []version{{activation: ts, value: v}}}

		return cp, ts
	}

	for ci, count := range n.counts {
		if i < count {
			childRepl, _ := replaceNode(n.children[ci], i, seenTS, v, threshold)

			if childRepl == n.children[ci] {
				if ts2, ok := n.family.tryOwn(seenTS); ok {
					return n, ts2
				}
			}

			fam := newFamily()
			rts, _ := fam.tryOwn(0)

			cp := newBranch(fam, n.height)
			cp.children = append([]*node{}, n.children...)
			cp.counts = append([]int{}, n.counts...)
			cp.children[ci] = childRepl

			return cp, rts
		}

		i -= count
	}

	panic("pseq: index out of range")
}

// rebuildIfDue compacts n's slot histories to a single live version each
// once the ratio of dead to live versions reaches threshold, per spec's
// "approximate weight ... used to decide when to rebuild".
func rebuildIfDue(n *node, ts uint64, threshold float64) {
	dead := 0

	for _, sl := range n.slots {
		dead += sl.dead(ts)
	}

	live := len(n.slots)
	if live == 0 || float64(dead) < threshold*float64(live) {
		n.weight = dead
		return
	}

	for idx, sl := range n.slots {
		n.slots[idx] = sl.compact(ts)
	}

	n.weight = 0
}

// toSlice flattens the sequence into a plain slice, as observed at its own
// read-timestamp. Used by Insert, Delete, and Concat, which (matching the
// reference atree's own documented scope: efficient append/index/in-place
// update, "other operations require a full copy") are implemented by
// rebuilding a fresh tree rather than splicing the fixed-fanout structure
// in place.
func (s *Seq) toSlice() []value.Value {
	out := make([]value.Value, 0, s.Len())
	if s != nil && s.root != nil {
		flatten(s.root, s.readTS, &out)
	}

	return out
}

func flatten(n *node, ts uint64, out *[]value.Value) {
	if n.height == 0 {
		for _, sl := range n.slots {
			*out = append(*out, sl.at(ts))
		}

		return
	}

	for _, c := range n.children {
		flatten(c, ts, out)
	}
}

// FromValues builds a new sequence containing vs in order, using b's fanout
// and rebuild threshold.
func (b Builder) FromValues(vs []value.Value) *Seq {
	s := b.New()
	for _, v := range vs {
		s = s.Append(v)
	}

	return s
}

// Insert returns a new sequence with v inserted before position i (i may
// equal the sequence's length to insert at the end).
func (s *Seq) Insert(i int, v value.Value) *Seq {
	vs := s.toSlice()
	if i < 0 || i > len(vs) {
		panic("pseq: index out of range")
	}

	out := make([]value.Value, 0, len(vs)+1)
	out = append(out, vs[:i]...)
	out = append(out, v)
	out = append(out, vs[i:]...)

	return Builder{Fanout: s.fanoutOrDefault(), RebuildThreshold: s.thresholdOrDefault()}.FromValues(out)
}

// Delete returns a new sequence with the element at i removed.
func (s *Seq) Delete(i int) *Seq {
	vs := s.toSlice()
	if i < 0 || i >= len(vs) {
		panic("pseq: index out of range")
	}

	out := make([]value.Value, 0, len(vs)-1)
	out = append(out, vs[:i]...)
	out = append(out, vs[i+1:]...)

	return Builder{Fanout: s.fanoutOrDefault(), RebuildThreshold: s.thresholdOrDefault()}.FromValues(out)
}

// Concat returns a new sequence containing a's elements followed by b's.
// Either may be nil, treated as empty.
func Concat(a, b *Seq) *Seq {
	fanout := DefaultFanout
	if a != nil {
		fanout = a.fanoutOrDefault()
	} else if b != nil {
		fanout = b.fanoutOrDefault()
	}

	out := make([]value.Value, 0, a.Len()+b.Len())
	out = append(out, a.toSlice()...)
	out = append(out, b.toSlice()...)

	return Builder{Fanout: fanout}.FromValues(out)
}
