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

// Package pseq implements a persistent, fixed-fanout sequence: the leaf data
// structure backing pkg/value's List and usable directly as an editor-buffer
// style append/index/replace/insert/delete/concat sequence. Readers never
// synchronise: a Seq value captured at some point in time keeps returning the
// same elements forever, even while other code continues appending to or
// editing sequences that share its underlying nodes.
package pseq

import (
	"sync/atomic"

	"github.com/avalang/avacore/pkg/value"
)

// MinFanout and MaxFanout bound the fan-out a Builder may be configured
// with, per the fixed-fanout-tree requirement (fan-out in the range 16-64).
const (
	MinFanout     = 16
	MaxFanout     = 64
	DefaultFanout = 32
)

// RebuildThreshold is the default dead-weight/live-weight ratio at which a
// node is rebuilt (compacted) rather than further edited in place. A value
// of 1.0 means a node is rebuilt once its dead (superseded) versions
// are at least as many as its live slots, bounding memory to roughly twice the optimum.
// This is the single configurable knob the persistent-sequence rebuild
// policy calls for; Builder.RebuildThreshold overrides it per tree.
var RebuildThreshold = 1.0

// family is the set of nodes sharing one ownership timestamp cell. A writer
// owns the family iff it atomically advances this timestamp from the value
// its reference observed; winning the race grants exclusive permission to
// edit the family's nodes in place for that one edit.
type family struct {
	timestamp atomic.Uint64
}

func newFamily() *family {
	return &family{}
}

// tryOwn attempts to claim ownership of f by advancing its timestamp from
// seen to seen+1. Returns the new timestamp and whether the claim succeeded.
func (f *family) tryOwn(seen uint64) (uint64, bool) {
	if f.timestamp.CompareAndSwap(seen, seen+1) {
		return seen + 1, true
	}

	return f.timestamp.Load(), false
}

// version is one historical binding of a slot: present from activation
// timestamp onward, until (if ever) superseded by a later version appended
// to the same slot.
type version struct {
	activation uint64
	value      value.Value
}

// slot holds every version ever written to one leaf position, newest first.
// A reader at timestamp t sees the first version whose activation is <= t.
type slot struct {
	versions []version
}

func newSlot(v value.Value, activation uint64) slot {
	return slot{versions: []version{{activation: activation, value: v}}}
}

// live returns the version visible to a reader at timestamp t: the newest
// version whose activation is <= t, or the oldest version if none yet
// qualifies (a reader that predates the slot's first write).
func (s slot) live(t uint64) version {
	for _, ver := range s.versions {
		if ver.activation <= t {
			return ver
		}
	}

	return s.versions[len(s.versions)-1]
}

func (s slot) at(t uint64) value.Value {
	return s.live(t).value
}

// dead counts versions strictly older than the one a reader at t would see:
// superseded writes that a rebuild could safely discard.
func (s slot) dead(t uint64) int {
	found := false
	n := 0

	for _, ver := range s.versions {
		if found {
			n++
			continue
		}

		if ver.activation <= t {
			found = true
		}
	}

	return n
}

// prepend records a new version of the slot, newest-first.
func (s slot) prepend(v value.Value, activation uint64) slot {
	versions := make([]version, 0, len(s.versions)+1)
	versions = append(versions, version{activation: activation, value: v})
	versions = append(versions, s.versions...)

	return slot{versions: versions}
}

// compact discards every version except the one visible at t, resetting its
// dead-weight to zero. Used when a node's accumulated dead weight crosses
// the rebuild threshold.
func (s slot) compact(t uint64) slot {
	return slot{versions: []version{s.live(t)}}
}

// node is either a leaf (height 0, holding slots) or a branch (height > 0,
// holding child node references). A node belongs to exactly one family at a
// time; editing it in place requires owning that family.
type node struct {
	height   int
	family   *family
	slots    []slot  // leaf only
	children []*node // branch only
	counts   []int   // branch only: number of elements under each child, as of creation
	weight   int      // approximate dead-version count, used for rebuild decisions
}

func newLeaf(fam *family) *node {
	return &node{height: 0, family: fam}
}

func newBranch(fam *family, height int) *node {
	return &node{height: height, family: fam}
}

func (n *node) elementCount() int {
	if n.height == 0 {
		return len(n.slots)
	}

	total := 0
	for _, c := range n.counts {
		total += c
	}

	return total
}

// Builder configures the fan-out and rebuild threshold used when
// constructing a new, empty Seq. The zero Builder uses DefaultFanout and the
// package-level RebuildThreshold.
type Builder struct {
	Fanout           int
	RebuildThreshold float64
}

func (b Builder) fanout() int {
	if b.Fanout == 0 {
		return DefaultFanout
	}

	if b.Fanout < MinFanout {
		return MinFanout
	}

	if b.Fanout > MaxFanout {
		return MaxFanout
	}

	return b.Fanout
}

func (b Builder) threshold() float64 {
	if b.RebuildThreshold == 0 {
		return RebuildThreshold
	}

	return b.RebuildThreshold
}

// New returns a new, empty sequence built with the default fanout and
// rebuild threshold.
func New() *Seq {
	return Builder{}.New()
}

// New returns a new, empty sequence configured by b.
func (b Builder) New() *Seq {
	return &Seq{fanout: b.fanout(), threshold: b.threshold()}
}

// Seq is a persistent sequence reference: a root node plus the
// length-seen/timestamp-seen pair the spec's node-family model carries on
// every reference. Operations on a Seq never mutate it; they return a new
// Seq (which may, as an implementation detail, share structure — and even a
// family ownership claim — with the receiver).
type Seq struct {
	root      *node
	length    int
	readTS    uint64
	fanout    int
	threshold float64
}

// Len returns the number of elements in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}

	return s.length
}

// Index returns the element at position i, as seen at the read-timestamp
// this reference was created with. Panics if i is out of range.
func (s *Seq) Index(i int) value.Value {
	if i < 0 || i >= s.length {
		panic("pseq: index out of range")
	}

	return s.root.index(i, s.readTS)
}

func (n *node) index(i int, ts uint64) value.Value {
	if n.height == 0 {
		return n.slots[i].at(ts)
	}

	for ci, count := range n.counts {
		if i < count {
			return n.children[ci].index(i, ts)
		}

		i -= count
	}

	panic("pseq: index out of range")
}
