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
package compenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/avalang/avacore/pkg/diag"
	"github.com/avalang/avacore/pkg/pcode"
)

func writeFile(dir, name, content string) error {
	return os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
}

func newTestEnv(source map[string]string) *Env {
	e := New("ava test:")
	e.ReadSource = func(name string) (map[string]string, error) {
		return source, nil
	}
	e.UseMinimalMacsub()

	return e
}

func TestCompileFileProducesAnInitFunction(t *testing.T) {
	var errs diag.Errors

	e := newTestEnv(map[string]string{"main.ava": "hello"})

	obj, xc, ok := e.CompileFile("main.ava", &errs)
	if !ok || errs.HasErrors() {
		t.Fatalf("CompileFile failed: ok=%v errs=%v", ok, errs.List())
	}

	if xc == nil {
		t.Fatal("expected a non-nil X-Code result")
	}

	found := false
	for _, g := range obj.Globals {
		if g.Kind == pcode.Init {
			found = true
		}
	}

	if !found {
		t.Errorf("expected an init record in the compiled object, got %+v", obj.Globals)
	}
}

func TestCompileFileEmitsImplicitPackageLoads(t *testing.T) {
	var errs diag.Errors

	e := newTestEnv(map[string]string{"main.ava": "hello"})
	e.ImplicitPackages = []string{"ava lang"}

	obj, _, ok := e.CompileFile("main.ava", &errs)
	if !ok {
		t.Fatalf("CompileFile failed: %v", errs.List())
	}

	if len(obj.Globals) == 0 || obj.Globals[0].Kind != pcode.LoadPkg {
		t.Fatalf("expected a leading load-pkg record, got %+v", obj.Globals)
	}
}

func TestCompileFileWithoutReadSourceReportsAnError(t *testing.T) {
	var errs diag.Errors

	e := New("ava test:")
	e.UseMinimalMacsub()

	_, _, ok := e.CompileFile("main.ava", &errs)
	if ok || !errs.HasErrors() {
		t.Fatal("expected an error for a missing ReadSource collaborator")
	}
}

func TestCompileFileDetectsSelfReferentialLoad(t *testing.T) {
	var errs diag.Errors

	e := newTestEnv(map[string]string{"main.ava": "hello"})

	pop := e.pushPending("main.ava", &errs)
	defer pop()

	_, _, ok := e.CompileFile("main.ava", &errs)
	if ok {
		t.Fatal("expected a cyclic-load error")
	}

	found := false
	for _, err := range errs.List() {
		if err.Message != "" {
			found = true
		}
	}

	if !found {
		t.Error("expected at least one diagnostic recorded")
	}
}

func TestUseSimpleSourceReaderReadsFromDisk(t *testing.T) {
	dir := t.TempDir()

	if err := writeFile(dir, "main.ava", "hello"); err != nil {
		t.Fatal(err)
	}

	e := New("ava test:")
	e.UseSimpleSourceReader(dir)
	e.UseMinimalMacsub()

	var errs diag.Errors

	_, _, ok := e.CompileFile("main.ava", &errs)
	if !ok {
		t.Fatalf("CompileFile failed: %v", errs.List())
	}
}
