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
	"strings"

	"github.com/avalang/avacore/pkg/except"
	"github.com/avalang/avacore/pkg/linker"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var makeInterfaceCmd = &cobra.Command{
	Use:   "make-interface object.avam",
	Short: "reduce a module or package implementation to its published interface.",
	Long: `make-interface reads a module (.avam) or package (.avap) implementation
and writes the interface (.avami/.avapi) a consumer links against: bodies,
private definitions, and load/init records are stripped, keeping only what
the object exports.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		input := args[0]

		output := GetString(cmd, "output")
		if output == "" {
			output = interfaceName(input)
		}

		except.Guard(func() {
			obj := readObject(input)
			writeObject(linker.ToInterface(obj), output)
		})
	},
}

// interfaceName derives a .avami/.avapi name from a .avam/.avap input,
// matching §4.9's module/package suffix pairs; any other extension simply
// gets an "i" appended.
func interfaceName(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".avam"):
		return strings.TrimSuffix(filename, ".avam") + ".avami"
	case strings.HasSuffix(filename, ".avap"):
		return strings.TrimSuffix(filename, ".avap") + ".avapi"
	default:
		return filename + "i"
	}
}

func init() {
	rootCmd.AddCommand(makeInterfaceCmd)
	makeInterfaceCmd.Flags().StringP("output", "o", "", "output file (default: derived from the input's extension)")
}
