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
	"strings"

	"github.com/avalang/avacore/pkg/diag"
	"github.com/avalang/avacore/pkg/except"
	"github.com/avalang/avacore/pkg/linker"
	"github.com/avalang/avacore/pkg/pcode"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var linkCmd = &cobra.Command{
	Use:   "link root.avam [dependency...]",
	Short: "link a root module against its named package/module dependencies into an application.",
	Long: `link reads a root module implementation plus every named package (.avap/
.avapi) or module (.avam/.avami) it may load-pkg/load-mod, folds each in
under the name its filename gives it, resolves duplicate linkage
definitions, and writes the linked application (.avax).`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		root, deps := args[0], args[1:]

		output := GetString(cmd, "output")
		if output == "" {
			output = withExtension(root, ".avax")
		}

		except.Guard(func() {
			l := linker.New()

			var errs diag.Errors

			for _, dep := range deps {
				name := dependencyName(dep)
				obj := readObject(dep)

				if isPackageFile(dep) {
					l.AddPackage(name, obj, &errs)
				} else {
					l.AddModule(name, obj, &errs)
				}
			}

			reportAndExit(&errs)

			rootObj := readObject(root)
			linked := linker.Link(l, []*pcode.Object{rootObj}, &errs)
			reportAndExit(&errs)

			writeObject(linked, output)
		})
	},
}

// dependencyName derives the load-pkg/load-mod name a dependency file is
// registered under: its base filename with any known extension stripped.
func dependencyName(filename string) string {
	base := filepath.Base(filename)
	for _, ext := range []string{".avam", ".avami", ".avap", ".avapi"} {
		if strings.HasSuffix(base, ext) {
			return strings.TrimSuffix(base, ext)
		}
	}

	return base
}

func isPackageFile(filename string) bool {
	return strings.HasSuffix(filename, ".avap") || strings.HasSuffix(filename, ".avapi")
}

func init() {
	rootCmd.AddCommand(linkCmd)
	linkCmd.Flags().StringP("output", "o", "", "output file (default: root module with .avax appended)")
}
