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

import "github.com/avalang/avacore/pkg/diag"

// checkExceptionRegions walks every block in program order tracking the
// nesting of `try`/`yrt` regions, per spec.md §4.8 item 3. try/yrt behave
// like a simple stack: `try T N` pushes a region whose landing pad is the
// block labelled N, `yrt` pops one. `rethrow` requires an open region
// (whether it is reachable from a landing pad is not checked). A `try`
// naming a block that is already another `try`'s landing pad is X9013; a
// block reached both normally and as a landing pad is not detected. A
// function may not end (fall off or `ret`) with a region still open.
func checkExceptionRegions(blocks []Block, errs *diag.Errors) {
	labelBlock := labelBlockIndex(blocks)

	type region struct {
		landingPad int
	}

	var stack []region

	landingPads := map[int]bool{}

	for _, b := range blocks {
		for _, in := range b.Instructions {
			switch in.Op {
			case "try":
				labels := in.Labels()
				if len(labels) == 0 {
					continue
				}

				pad, ok := labelBlock[labels[0]]
				if !ok {
					errs.Add(diag.Location{}, "X9003: jump to nonexistent label %d", labels[0])
					continue
				}

				if landingPads[pad] {
					errs.Add(diag.Location{}, "X9013: block %d is the landing pad of more than one try region", pad)
				}

				landingPads[pad] = true
				stack = append(stack, region{landingPad: pad})
			case "yrt":
				if len(stack) == 0 {
					errs.Add(diag.Location{}, "X9014: yrt with no open exception region")
					continue
				}

				stack = stack[:len(stack)-1]
			case "rethrow":
				if len(stack) == 0 {
					errs.Add(diag.Location{}, "X9016: rethrow outside any exception region")
				}
			}
		}

		if (b.Next[0] == -1 && b.Next[1] == -1) && len(stack) > 0 {
			errs.Add(diag.Location{}, "X9015: function may return or fall off the end with an exception region still open")
		}
	}
}
