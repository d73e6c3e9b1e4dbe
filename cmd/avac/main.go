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

// Command avac is the thin command-line driver spec.md §6 describes: it
// reads one or two files, calls one core entry point, and writes the
// resulting object to a file named by appending the conventional
// extension. All compiler logic lives in pkg/compenv, pkg/linker, and
// pkg/pcode; this package only wires cobra flags onto those entry points.
package main

func main() {
	Execute()
}
