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
package xcode

import (
	"github.com/avalang/avacore/pkg/diag"
	"github.com/avalang/avacore/pkg/pcode"
	"github.com/bits-and-blooms/bitset"
)

// regSet is a bitset over a function's whole flat register space, used
// for every phi bitset spec.md §4.8 item 5 names.
type regSet = *bitset.BitSet

// full returns a regSet of n bits, all set.
func full(n uint) regSet {
	return bitset.New(n).Complement()
}

// runPhiAnalysis performs spec.md §4.8 items 5-6: initialise every
// block's phi_iinit/phi_oinit/phi_effect/phi_iexist/phi_oexist bitsets,
// iterate the dataflow equations to a fixed point, then verify every
// register read is both live and initialised at the point of its read.
func runPhiAnalysis(fn *Function, errs *diag.Errors) {
	n := uint(fn.RegTypeOff[len(fn.RegTypeOff)-1])
	if n == 0 {
		return
	}

	for bi := range fn.Blocks {
		b := &fn.Blocks[bi]

		b.PhiEffect = bitset.New(n)
		b.PhiOInit = bitset.New(n)
		b.PhiOExist = bitset.New(n)

		for _, in := range b.Instructions {
			writes, _ := writesAndReads(in)

			for _, r := range writes {
				idx := uint(r.Index)
				b.PhiEffect.Set(idx)
				b.PhiOInit.Set(idx)
				b.PhiOExist.Set(idx)
			}
		}

		if bi == 0 {
			b.PhiIInit = bitset.New(n)
			b.PhiIExist = bitset.New(n)

			for i := 0; i < fn.NumArgs; i++ {
				b.PhiIInit.Set(uint(i))
				b.PhiIExist.Set(uint(i))
			}
		} else {
			b.PhiIInit = full(n)
			b.PhiIExist = bitset.New(n)
		}
	}

	preds := predecessorsOf(fn.Blocks)

	// phi_iinit aggregates predecessors with AND (a register is definitely
	// initialised entering B only if it is on every path in); phi_iexist
	// aggregates with OR (a register may exist entering B if it does on
	// any path in), per spec.md §4.8 item 6.
	for changed := true; changed; {
		changed = false

		for bi := range fn.Blocks {
			b := &fn.Blocks[bi]

			if bi != 0 {
				aggInit := full(n)
				aggExist := bitset.New(n)

				for _, p := range preds[bi] {
					aggInit.InPlaceIntersection(fn.Blocks[p].PhiOInit)
					aggExist.InPlaceUnion(fn.Blocks[p].PhiOExist)
				}

				if !aggInit.Equal(b.PhiIInit) {
					b.PhiIInit = aggInit
					changed = true
				}

				if !aggExist.Equal(b.PhiIExist) {
					b.PhiIExist = aggExist
					changed = true
				}
			}

			derivedInit := b.PhiIInit.Clone()
			derivedInit.InPlaceDifference(b.PhiEffect)

			effectInit := b.PhiOInit.Clone()
			effectInit.InPlaceIntersection(b.PhiEffect)
			derivedInit.InPlaceUnion(effectInit)

			if !derivedInit.Equal(b.PhiOInit) {
				b.PhiOInit = derivedInit
				changed = true
			}

			derivedExist := b.PhiIExist.Clone()
			derivedExist.InPlaceUnion(b.PhiEffect)

			if !derivedExist.Equal(b.PhiOExist) {
				b.PhiOExist = derivedExist
				changed = true
			}
		}
	}

	for bi := range fn.Blocks {
		b := &fn.Blocks[bi]

		live := b.PhiIInit.Clone()

		for _, in := range b.Instructions {
			writes, reads := writesAndReads(in)

			for _, r := range reads {
				if live.Test(uint(r.Index)) {
					continue
				}

				if r.Kind == pcode.Var {
					errs.Add(diag.Location{}, "X9005: variable %s read before it is definitely initialised", r)
				} else {
					errs.Add(diag.Location{}, "X9004: register %s read before it is definitely initialised", r)
				}
			}

			for _, r := range writes {
				live.Set(uint(r.Index))
			}
		}
	}
}

func predecessorsOf(blocks []Block) map[int][]int {
	preds := map[int][]int{}

	for bi, b := range blocks {
		for _, n := range b.Next {
			if n >= 0 {
				preds[n] = append(preds[n], bi)
			}
		}
	}

	return preds
}
