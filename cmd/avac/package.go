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
package main

import (
	"github.com/avalang/avacore/pkg/diag"
	"github.com/avalang/avacore/pkg/except"
	"github.com/avalang/avacore/pkg/linker"
	"github.com/avalang/avacore/pkg/pcode"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var makePackageCmd = &cobra.Command{
	Use:   "make-package module.avam [module.avam...]",
	Short: "assemble one or more module implementations into a package implementation.",
	Long: `make-package concatenates every given module implementation into a single
package implementation (.avap), resolving duplicate linkage definitions to
one canonical copy the way the linker does when loading named packages.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		output := GetString(cmd, "output")
		if output == "" {
			output = withExtension(args[0], ".avap")
		}

		except.Guard(func() {
			roots := make([]*pcode.Object, len(args))
			for i, name := range args {
				roots[i] = readObject(name)
			}

			var errs diag.Errors

			obj := linker.Link(linker.New(), roots, &errs)
			reportAndExit(&errs)

			writeObject(obj, output)
		})
	},
}

func init() {
	rootCmd.AddCommand(makePackageCmd)
	makePackageCmd.Flags().StringP("output", "o", "", "output file (default: the first module with .avap appended)")
}
