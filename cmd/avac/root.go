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
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is filled in when building with make, but *not* when installing
// via "go install".
var Version string

// rootCmd is the base command when avac is invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "avac",
	Short: "A bootstrap compiler driver for the Avalanche language.",
	Long:  "Compiles, links, and packages Avalanche modules via avac's compile-module, make-interface, make-package, and link subcommands.",
	Run: func(cmd *cobra.Command, args []string) {
		if !GetFlag(cmd, "version") {
			return
		}

		fmt.Print("avac ")

		if Version != "" {
			fmt.Printf("%s", Version)
		} else if info, ok := debug.ReadBuildInfo(); ok {
			fmt.Printf("%s", info.Main.Version)
		} else {
			fmt.Printf("(unknown version)")
		}

		fmt.Println()
	},
}

// Execute runs rootCmd; each subcommand adds itself to rootCmd in its
// file's init function. Called once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitDataError)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "report the version of this executable")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "increase logging verbosity")
	rootCmd.PersistentFlags().String("prefix", "", "package prefix applied to every symbol a compiled module declares")
}
