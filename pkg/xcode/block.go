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
)

// isBranch reports whether instr is a conditional jump: it carries a
// single label operand (the target) but, unlike `goto`, is not itself a
// pure jump — it falls through to the next block when its test fails.
// `label` and `try` also carry a label operand without being branches:
// `label` marks a block boundary rather than jumping, and `try`'s label
// names a handler block reachable only via an exception, not by falling
// through or branching directly.
func isBranch(instr pcode.Instruction) bool {
	if instr.Op == "goto" || instr.Op == "label" || instr.Op == "try" {
		return false
	}

	return len(instr.Labels()) == 1
}

// splitBlocks performs spec.md §4.8 item 1: a new block starts at every
// `label` and at every instruction immediately following `goto`, `ret`, a
// branch, or `rethrow`. `label` instructions are consumed as pure block
// boundaries and are not retained in either block's instruction list.
// Two `label`s sharing a number is X9000.
func splitBlocks(code []pcode.Instruction, errs *diag.Errors) ([]Block, bool) {
	seenLabels := map[int64]bool{}

	var blocks []Block

	cur := Block{Label: -1}
	curStarted := false

	startNew := func(label int64) {
		if curStarted {
			blocks = append(blocks, cur)
		}

		cur = Block{Label: label}
		curStarted = label >= 0
	}

	ok := true

	for _, in := range code {
		if in.IsLabel() {
			n := in.Labels()[0]
			if seenLabels[n] {
				errs.Add(diag.Location{}, "X9000: duplicate label %d", n)
				ok = false

				continue
			}

			seenLabels[n] = true
			startNew(n)

			continue
		}

		cur.Instructions = append(cur.Instructions, in)
		curStarted = true

		if in.Op == "goto" || in.Op == "ret" || in.Op == "rethrow" || isBranch(in) {
			startNew(-1)
		}
	}

	if curStarted {
		blocks = append(blocks, cur)
	}

	return blocks, ok
}

// resolveTerminators fills in spec.md §4.8 item 2's Next[0..1] for every
// block from its own final instruction (or fall-through, if it has none
// or ends on a non-terminating instruction). A jump to a label with no
// matching `label` instruction is X9003.
func resolveTerminators(blocks []Block, errs *diag.Errors) {
	labelBlock := labelBlockIndex(blocks)

	resolve := func(target int64) int {
		if b, ok := labelBlock[target]; ok {
			return b
		}

		errs.Add(diag.Location{}, "X9003: jump to nonexistent label %d", target)

		return -1
	}

	for i := range blocks {
		blocks[i].Next = [2]int{-1, -1}

		fallThrough := -1
		if i+1 < len(blocks) {
			fallThrough = i + 1
		}

		if len(blocks[i].Instructions) == 0 {
			blocks[i].Next[0] = fallThrough
			continue
		}

		last := blocks[i].Instructions[len(blocks[i].Instructions)-1]

		switch {
		case last.Op == "goto":
			blocks[i].Next[0] = resolve(last.Labels()[0])
		case last.Op == "ret":
			// Next stays {-1,-1}.
		case isBranch(last):
			blocks[i].Next[0] = fallThrough
			blocks[i].Next[1] = resolve(last.Labels()[0])
		case last.Op == "rethrow":
			// Handled by exception-region analysis, not a normal edge.
		default:
			blocks[i].Next[0] = fallThrough
		}
	}
}

func labelBlockIndex(blocks []Block) map[int64]int {
	labelBlock := map[int64]int{}

	for i, b := range blocks {
		if b.Label >= 0 {
			labelBlock[b.Label] = i
		}
	}

	return labelBlock
}
