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

package deadcode_test

import (
	"testing"

	"github.com/awslabs/tac-go-tools/analysis/deadcode"
	"github.com/awslabs/tac-go-tools/analysis/lang"
)

func deadIndices(p *lang.Program) map[int]bool {
	got := make(map[int]bool)
	for _, s := range deadcode.Analyze(p.Entry().IR()) {
		got[s.Index()] = true
	}
	return got
}

func expectDead(t *testing.T, p *lang.Program, want ...int) {
	t.Helper()
	got := deadIndices(p)
	wantSet := make(map[int]bool)
	for _, i := range want {
		wantSet[i] = true
		if !got[i] {
			t.Errorf("statement %d not reported dead", i)
		}
	}
	for i := range got {
		if !wantSet[i] {
			t.Errorf("statement %d reported dead unexpectedly", i)
		}
	}
}

func TestConstantBranchMakesArmDead(t *testing.T) {
	b := lang.NewProgramBuilder()
	b.Class("Main").
		StaticMethod("main", nil).
		Local("one", lang.IntType).
		Local("r", lang.IntType).
		AssignLit("one", 1).                // 0
		If("one", lang.OpEq, "one", "yes"). // 1
		AssignLit("r", 99).                 // 2
		Label("yes").
		AssignLit("r", 7). // 3
		ReturnVar("r").    // 4
		Done()
	p := b.Entry("Main", "main()").Build()

	expectDead(t, p, 2)
}

func TestConstantSwitchKeepsOnlyMatchingCase(t *testing.T) {
	b := lang.NewProgramBuilder()
	b.Class("Main").
		StaticMethod("main", nil).
		Local("k", lang.IntType).
		Local("r", lang.IntType).
		AssignLit("k", 2). // 0
		Switch("k", "dflt",
			lang.SwitchCase{Value: 1, Label: "one"},
			lang.SwitchCase{Value: 2, Label: "two"}). // 1
		Label("one").
		AssignLit("r", 10). // 2
		Goto("end").        // 3
		Label("two").
		AssignLit("r", 20). // 4
		Goto("end").        // 5
		Label("dflt").
		AssignLit("r", 0). // 6
		Label("end").
		ReturnVar("r"). // 7
		Done()
	p := b.Entry("Main", "main()").Build()

	expectDead(t, p, 2, 3, 6)
}

func TestUselessAssignmentNeedsPureRHS(t *testing.T) {
	b := lang.NewProgramBuilder()
	obj := b.RefType("Obj")
	b.Class("Obj")
	b.Class("Main").
		StaticMethod("f", nil).
		Param("p", lang.IntType).
		Local("u", lang.IntType).
		Local("v", lang.IntType).
		Local("o", obj).
		AssignLit("u", 5).                 // 0: u never read, pure
		Binary("v", "p", lang.OpDiv, "p"). // 1: v never read, but division may trap
		New("o", obj).                     // 2: o never read, but allocation is observable
		Return().                          // 3
		Done()
	p := b.Entry("Main", "f(int)").Build()

	expectDead(t, p, 0)
}
