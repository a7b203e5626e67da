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

package cfg

import (
	"testing"

	"github.com/awslabs/tac-go-tools/analysis/lang"
)

func edgeKinds(edges []Edge) []EdgeKind {
	kinds := make([]EdgeKind, len(edges))
	for i, e := range edges {
		kinds[i] = e.Kind
	}
	return kinds
}

func TestBranchEdges(t *testing.T) {
	b := lang.NewProgramBuilder()
	b.Class("Main").
		StaticMethod("abs", lang.IntType).
		Param("x", lang.IntType).
		Local("zero", lang.IntType).
		Local("r", lang.IntType).
		AssignLit("zero", 0).                       // 0
		If("x", lang.OpGe, "zero", "pos").          // 1
		Binary("r", "zero", lang.OpSub, "x").       // 2
		ReturnVar("r").                             // 3
		Label("pos").
		ReturnVar("x"). // 4
		Done()
	p := b.Entry("Main", "abs(int)").Build()

	g := New(p.Entry().IR())
	ir := p.Entry().IR()

	entryOut := g.OutEdgesOf(g.Entry())
	if len(entryOut) != 1 || entryOut[0].Kind != EdgeEntry || entryOut[0].Target != ir.Stmt(0) {
		t.Errorf("entry edges = %v", entryOut)
	}

	ifOut := g.OutEdgesOf(ir.Stmt(1))
	if len(ifOut) != 2 {
		t.Fatalf("if has %d out edges, want 2", len(ifOut))
	}
	if ifOut[0].Kind != EdgeIfTrue || ifOut[0].Target != ir.Stmt(4) {
		t.Errorf("true edge = %v", ifOut[0])
	}
	if ifOut[1].Kind != EdgeIfFalse || ifOut[1].Target != ir.Stmt(2) {
		t.Errorf("false edge = %v", ifOut[1])
	}

	for _, i := range []int{3, 4} {
		out := g.OutEdgesOf(ir.Stmt(i))
		if len(out) != 1 || out[0].Kind != EdgeReturn || !g.IsExit(out[0].Target) {
			t.Errorf("return %d edges = %v", i, out)
		}
	}

	exitIn := g.InEdgesOf(g.Exit())
	if len(exitIn) != 2 {
		t.Errorf("exit has %d in edges, want 2 (%v)", len(exitIn), edgeKinds(exitIn))
	}
}

func TestSwitchEdges(t *testing.T) {
	b := lang.NewProgramBuilder()
	b.Class("Main").
		StaticMethod("pick", lang.IntType).
		Param("k", lang.IntType).
		Local("r", lang.IntType).
		Switch("k", "dflt",
			lang.SwitchCase{Value: 1, Label: "one"},
			lang.SwitchCase{Value: 2, Label: "two"}). // 0
		Label("one").
		AssignLit("r", 10). // 1
		ReturnVar("r").     // 2
		Label("two").
		AssignLit("r", 20). // 3
		ReturnVar("r").     // 4
		Label("dflt").
		AssignLit("r", 0). // 5
		ReturnVar("r").    // 6
		Done()
	p := b.Entry("Main", "pick(int)").Build()

	ir := p.Entry().IR()
	g := New(ir)

	out := g.OutEdgesOf(ir.Stmt(0))
	if len(out) != 3 {
		t.Fatalf("switch has %d out edges, want 3", len(out))
	}
	if out[0].Kind != EdgeSwitchCase || out[0].CaseValue != 1 || out[0].Target != ir.Stmt(1) {
		t.Errorf("case 1 edge = %v", out[0])
	}
	if out[1].Kind != EdgeSwitchCase || out[1].CaseValue != 2 || out[1].Target != ir.Stmt(3) {
		t.Errorf("case 2 edge = %v", out[1])
	}
	if out[2].Kind != EdgeSwitchDefault || out[2].Target != ir.Stmt(5) {
		t.Errorf("default edge = %v", out[2])
	}
}

func TestLoopEdges(t *testing.T) {
	b := lang.NewProgramBuilder()
	b.Class("Main").
		StaticMethod("sum", lang.IntType).
		Param("n", lang.IntType).
		Local("i", lang.IntType).
		Local("s", lang.IntType).
		Local("one", lang.IntType).
		AssignLit("i", 0).                     // 0
		AssignLit("s", 0).                     // 1
		AssignLit("one", 1).                   // 2
		Label("head").
		If("i", lang.OpGe, "n", "exit").       // 3
		Binary("s", "s", lang.OpAdd, "i").     // 4
		Binary("i", "i", lang.OpAdd, "one").   // 5
		Goto("head").                          // 6
		Label("exit").
		ReturnVar("s"). // 7
		Done()
	p := b.Entry("Main", "sum(int)").Build()

	ir := p.Entry().IR()
	g := New(ir)

	gotoOut := g.OutEdgesOf(ir.Stmt(6))
	if len(gotoOut) != 1 || gotoOut[0].Kind != EdgeGoto || gotoOut[0].Target != ir.Stmt(3) {
		t.Errorf("goto edges = %v", gotoOut)
	}

	headPreds := g.PredsOf(ir.Stmt(3))
	if len(headPreds) != 2 {
		t.Errorf("loop head has %d preds, want 2", len(headPreds))
	}

	if len(g.Nodes()) != len(ir.Stmts())+2 {
		t.Errorf("graph has %d nodes, want %d", len(g.Nodes()), len(ir.Stmts())+2)
	}
}
