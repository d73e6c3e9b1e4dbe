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
package diag

import (
	"fmt"
	"strings"

	"golang.org/x/term"
)

const (
	ansiRed   = "\x1b[31m"
	ansiBold  = "\x1b[1m"
	ansiReset = "\x1b[0m"
)

// PrintOptions configures Format.
type PrintOptions struct {
	// MaxLines caps the number of errors rendered; 0 means unlimited.
	MaxLines int
	// Color enables ANSI colouring of the message and caret line.
	Color bool
}

// DefaultPrintOptions inspects fd (typically os.Stdout.Fd()) to decide
// whether ANSI colour should default on, mirroring the teacher's terminal
// package: colour defaults on only when the destination is a real TTY.
func DefaultPrintOptions(fd uintptr) PrintOptions {
	return PrintOptions{MaxLines: 0, Color: term.IsTerminal(int(fd))}
}

// Format renders errs as a multi-line diagnostic report: one line of
// "location: message" per error, followed by a source excerpt with a caret
// line under the offending column range whenever the location carries
// enough source text to compute one.
func Format(errs []Error, opts PrintOptions) string {
	var b strings.Builder

	n := len(errs)
	if opts.MaxLines > 0 && n > opts.MaxLines {
		n = opts.MaxLines
	}

	width := 80
	if w, _, err := term.GetSize(1); err == nil && w > 0 {
		width = w
	}

	for i := 0; i < n; i++ {
		e := errs[i]
		writeError(&b, e, opts, width)
	}

	if opts.MaxLines > 0 && len(errs) > n {
		fmt.Fprintf(&b, "... and %d more error(s)\n", len(errs)-n)
	}

	return b.String()
}

func writeError(b *strings.Builder, e Error, opts PrintOptions, width int) {
	if opts.Color {
		fmt.Fprintf(b, "%s%s%s: %s%s%s\n", ansiBold, e.Location, ansiReset, ansiRed, e.Message, ansiReset)
	} else {
		fmt.Fprintf(b, "%s: %s\n", e.Location, e.Message)
	}

	line := sourceLine(e.Location)
	if line == "" {
		return
	}

	if len(line) > width {
		line = line[:width]
	}

	b.WriteString(line)
	b.WriteByte('\n')
	writeCaretLine(b, e.Location, opts.Color)
}

// sourceLine extracts the text of the location's starting line from its
// full source, using LineOffset as the byte index of that line's start.
func sourceLine(loc Location) string {
	if loc.Source == "" || loc.LineOffset < 0 || loc.LineOffset >= len(loc.Source) {
		return ""
	}

	rest := loc.Source[loc.LineOffset:]
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		return rest[:idx]
	}

	return rest
}

func writeCaretLine(b *strings.Builder, loc Location, color bool) {
	start := loc.StartCol - 1
	end := loc.EndCol - 1

	if loc.EndLine != loc.StartLine || end <= start {
		end = start + 1
	}

	if start < 0 {
		start = 0
	}

	if color {
		b.WriteString(ansiRed)
	}

	b.WriteString(strings.Repeat(" ", start))
	b.WriteString(strings.Repeat("^", end-start))

	if color {
		b.WriteString(ansiReset)
	}

	b.WriteByte('\n')
}
