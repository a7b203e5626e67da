// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataflow_test

import (
	"testing"

	"github.com/awslabs/tac-go-tools/analysis/cfg"
	"github.com/awslabs/tac-go-tools/analysis/dataflow"
	"github.com/awslabs/tac-go-tools/analysis/lang"
)

func varByName(ir *lang.IR, name string) *lang.Var {
	for _, v := range ir.Vars() {
		if v.Name() == name {
			return v
		}
	}
	return nil
}

func solveLive(b *lang.ProgramBuilder, class string, sub lang.Subsignature) (*lang.IR, *dataflow.Result[dataflow.SetFact[*lang.Var]]) {
	p := b.Entry(class, sub).Build()
	ir := p.Entry().IR()
	return ir, dataflow.SolveLiveVariables(cfg.New(ir))
}

func TestLivenessAcrossUse(t *testing.T) {
	b := lang.NewProgramBuilder()
	b.Class("Main").
		StaticMethod("main", nil).
		Local("a", lang.IntType).
		Local("b", lang.IntType).
		Local("c", lang.IntType).
		AssignLit("a", 1).                 // 0
		AssignLit("b", 2).                 // 1
		Binary("c", "a", lang.OpAdd, "b"). // 2
		ReturnVar("c").                    // 3
		Done()
	ir, res := solveLive(b, "Main", "main()")

	out0 := res.OutFact(ir.Stmt(0))
	if !out0.Has(varByName(ir, "a")) {
		t.Error("a not live after its definition, but it is read later")
	}
	if out0.Has(varByName(ir, "b")) {
		t.Error("b live before its definition")
	}
	out2 := res.OutFact(ir.Stmt(2))
	if out2.Has(varByName(ir, "a")) || out2.Has(varByName(ir, "b")) {
		t.Error("a or b live after their last use")
	}
	if !out2.Has(varByName(ir, "c")) {
		t.Error("c not live before the return that reads it")
	}
}

func TestRedefinitionKillsLiveness(t *testing.T) {
	b := lang.NewProgramBuilder()
	b.Class("Main").
		StaticMethod("main", nil).
		Local("a", lang.IntType).
		AssignLit("a", 1).  // 0
		AssignLit("a", 2).  // 1
		ReturnVar("a").     // 2
		Done()
	ir, res := solveLive(b, "Main", "main()")

	if res.OutFact(ir.Stmt(0)).Has(varByName(ir, "a")) {
		t.Error("a live after stmt 0, but stmt 1 overwrites it before any read")
	}
	if !res.OutFact(ir.Stmt(1)).Has(varByName(ir, "a")) {
		t.Error("a not live after stmt 1")
	}
}

func TestBranchesUnionLiveness(t *testing.T) {
	b := lang.NewProgramBuilder()
	b.Class("Main").
		StaticMethod("f", nil).
		Param("p", lang.IntType).
		Local("zero", lang.IntType).
		Local("a", lang.IntType).
		Local("bb", lang.IntType).
		Local("r", lang.IntType).
		AssignLit("zero", 0).                // 0
		AssignLit("a", 1).                   // 1
		AssignLit("bb", 2).                  // 2
		If("p", lang.OpEq, "zero", "other"). // 3
		Binary("r", "a", lang.OpAdd, "a").   // 4
		Goto("join").                        // 5
		Label("other").
		Binary("r", "bb", lang.OpAdd, "bb"). // 6
		Label("join").
		ReturnVar("r"). // 7
		Done()
	ir, res := solveLive(b, "Main", "f(int)")

	in3 := res.InFact(ir.Stmt(3))
	for _, name := range []string{"a", "bb", "p", "zero"} {
		if !in3.Has(varByName(ir, name)) {
			t.Errorf("%s not live at the branch, but some path reads it", name)
		}
	}
	if res.OutFact(ir.Stmt(4)).Has(varByName(ir, "bb")) {
		t.Error("bb live on the then path, but only the else path reads it")
	}
}
