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
	"path/filepath"

	"github.com/avalang/avacore/pkg/compenv"
	"github.com/avalang/avacore/pkg/diag"
	"github.com/avalang/avacore/pkg/except"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var compileModuleCmd = &cobra.Command{
	Use:   "compile-module source.ava",
	Short: "compile a single module's source into a P-Code module implementation.",
	Long: `compile-module reads a module's source file(s), macro-substitutes and
generates P-Code for the result, validates it as X-Code, and writes the
P-Code module implementation (.avam) to disk.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		source := args[0]
		output := GetString(cmd, "output")
		if output == "" {
			output = withExtension(source, ".avam")
		}

		except.Guard(func() {
			env := compenv.New(GetString(cmd, "prefix"))
			env.UseSimpleSourceReader(filepath.Dir(source))
			env.UseMinimalMacsub()

			var errs diag.Errors

			obj, _, ok := env.CompileFile(filepath.Base(source), &errs)
			reportAndExit(&errs)

			if !ok {
				die(exitDataError, "compile-module: %q failed validation", source)
			}

			writeObject(obj, output)
		})
	},
}

func init() {
	rootCmd.AddCommand(compileModuleCmd)
	compileModuleCmd.Flags().StringP("output", "o", "", "output file (default: source with .avam appended)")
}
