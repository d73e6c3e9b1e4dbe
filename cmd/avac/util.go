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

	"github.com/avalang/avacore/pkg/diag"
	"github.com/avalang/avacore/pkg/pcode"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Exit codes, per spec.md §6: 0 success, a data error on parse/validation
// failure, an I/O error on unreadable/unwritable files.
const (
	exitOK        = 0
	exitDataError = 1
	exitIOError   = 2
)

// GetFlag gets an expected bool flag, or dies if it isn't declared.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		die(exitDataError, "%s", err)
	}

	return r
}

// GetString gets an expected string flag, or dies if it isn't declared.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		die(exitDataError, "%s", err)
	}

	return r
}

// die logs a formatted message and exits the process with code.
func die(code int, format string, args ...any) {
	log.Errorf(format, args...)
	os.Exit(code)
}

// withExtension appends ext to filename, keeping any extension filename
// already has (foo.ava -> foo.ava.avam), for §4.9's module/package suffixes
// (.avam/.avami/.avap/.avapi/.avax).
func withExtension(filename, ext string) string {
	return filename + ext
}

// readObject reads and parses a textual P-Code file from disk, dying with
// the appropriate exit code on either an I/O or a parse failure.
func readObject(filename string) *pcode.Object {
	data, err := os.ReadFile(filename)
	if err != nil {
		die(exitIOError, "reading %q: %s", filename, err)
	}

	obj, err := pcode.Parse(string(data))
	if err != nil {
		die(exitDataError, "parsing %q: %s", filename, err)
	}

	return obj
}

// writeObject renders obj as textual P-Code and writes it to filename.
func writeObject(obj *pcode.Object, filename string) {
	if err := os.WriteFile(filename, []byte(pcode.Write(obj)), 0o644); err != nil {
		die(exitIOError, "writing %q: %s", filename, err)
	}
}

// reportAndExit prints every diagnostic in errs to stderr and exits with a
// data-error code when any were recorded; it is a no-op otherwise.
func reportAndExit(errs *diag.Errors) {
	if !errs.HasErrors() {
		return
	}

	opts := diag.DefaultPrintOptions(os.Stderr.Fd())
	fmt.Fprint(os.Stderr, diag.Format(errs.List(), opts))
	os.Exit(exitDataError)
}
