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

	"github.com/awslabs/tac-go-tools/analysis/callgraph"
	"github.com/awslabs/tac-go-tools/analysis/config"
	"github.com/awslabs/tac-go-tools/analysis/lang"
)

func buildICFG(t *testing.T) (*lang.Program, *ICFG) {
	t.Helper()
	b := lang.NewProgramBuilder()
	b.Class("Util").
		StaticMethod("inc", lang.IntType).
		Param("p", lang.IntType).
		Local("one", lang.IntType).
		Local("q", lang.IntType).
		AssignLit("one", 1).                 // 0
		Binary("q", "p", lang.OpAdd, "one"). // 1
		ReturnVar("q").                      // 2
		Done()
	b.Class("Main").
		StaticMethod("main", nil).
		Local("x", lang.IntType).
		Local("r", lang.IntType).
		AssignLit("x", 5).                          // 0
		InvokeStatic("r", "Util", "inc(int)", "x"). // 1
		Return().                                   // 2
		Done()
	p := b.Entry("Main", "main()").Build()

	conf := config.NewDefault()
	conf.LogLevel = int(config.ErrLevel)
	cg := callgraph.BuildCHA(p, config.NewLogGroup(conf))
	return p, NewICFG(cg, p.Entry())
}

func icfgEdgeKinds(edges []ICFGEdge) map[ICFGEdgeKind]int {
	kinds := make(map[ICFGEdgeKind]int)
	for _, e := range edges {
		kinds[e.Kind]++
	}
	return kinds
}

func TestCallSiteIsStitched(t *testing.T) {
	p, g := buildICFG(t)
	ir := p.Entry().IR()
	call := ir.Stmt(1)

	if !g.IsCallNode(call) {
		t.Fatal("invoke with a resolved callee is not a call node")
	}
	kinds := icfgEdgeKinds(g.OutEdgesOf(call))
	if kinds[ICFGCall] != 1 || kinds[ICFGCallToReturn] != 1 {
		t.Errorf("call node out edges = %v, want one CALL and one CALL_TO_RETURN", kinds)
	}
	if kinds[ICFGNormal] != 0 {
		t.Error("call node keeps a plain fall-through edge")
	}

	retSite := ir.Stmt(2)
	inKinds := icfgEdgeKinds(g.InEdgesOf(retSite))
	if inKinds[ICFGReturn] != 1 || inKinds[ICFGCallToReturn] != 1 {
		t.Errorf("return site in edges = %v, want one RETURN and one CALL_TO_RETURN", inKinds)
	}
}

func TestCallEdgeTargetsCalleeEntry(t *testing.T) {
	p, g := buildICFG(t)
	ir := p.Entry().IR()

	var callEdge *ICFGEdge
	out := g.OutEdgesOf(ir.Stmt(1))
	for i := range out {
		if out[i].Kind == ICFGCall {
			callEdge = &out[i]
		}
	}
	if callEdge == nil {
		t.Fatal("no call edge")
	}
	if callEdge.Callee.Signature() != "Util.inc(int)" {
		t.Errorf("callee = %s", callEdge.Callee.Signature())
	}
	calleeGraph := g.GraphOf(callEdge.Callee)
	if callEdge.Target != calleeGraph.Entry() {
		t.Error("call edge does not target the callee's entry node")
	}
	foundReturn := false
	for _, e := range g.OutEdgesOf(calleeGraph.Exit()) {
		if e.Kind == ICFGReturn && e.Target == ir.Stmt(2) {
			foundReturn = true
		}
	}
	if !foundReturn {
		t.Error("callee exit has no return edge to the caller's return site")
	}
}

func TestICFGCoversReachableMethodsOnly(t *testing.T) {
	_, g := buildICFG(t)
	if len(g.Methods()) != 2 {
		t.Fatalf("methods = %d, want 2", len(g.Methods()))
	}
	if g.EntryNode() == nil {
		t.Fatal("no entry node")
	}
	for _, m := range g.Methods() {
		if g.GraphOf(m) == nil {
			t.Errorf("no intra-procedural graph for %s", m.Signature())
		}
	}
}
