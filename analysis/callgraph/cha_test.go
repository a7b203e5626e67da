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

package callgraph_test

import (
	"sort"
	"testing"

	"github.com/awslabs/tac-go-tools/analysis/callgraph"
	"github.com/awslabs/tac-go-tools/analysis/config"
	"github.com/awslabs/tac-go-tools/analysis/lang"
)

func quietLogger() *config.LogGroup {
	cfg := config.NewDefault()
	cfg.LogLevel = int(config.ErrLevel)
	return config.NewLogGroup(cfg)
}

func calleeSigs(cg *callgraph.Graph, site *lang.Invoke) []string {
	var sigs []string
	for _, e := range cg.CalleesOf(site) {
		sigs = append(sigs, e.Callee.Signature())
	}
	sort.Strings(sigs)
	return sigs
}

func invokes(ir *lang.IR) []*lang.Invoke {
	var calls []*lang.Invoke
	for _, s := range ir.Stmts() {
		if c, ok := s.(*lang.Invoke); ok {
			calls = append(calls, c)
		}
	}
	return calls
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// The hierarchy is A <- B <- C and A <- D, where D does not override m. A
// virtual call on a receiver declared A must see every override below A,
// with D dispatching back to A.m().
func TestVirtualDispatchCoversSubtree(t *testing.T) {
	b := lang.NewProgramBuilder()
	addImpl := func(cb *lang.ClassBuilder, val int32) {
		cb.Method("m", lang.IntType).
			Local("c", lang.IntType).
			AssignLit("c", val).
			ReturnVar("c").
			Done()
	}
	addImpl(b.Class("A"), 1)
	addImpl(b.Class("B").Extends("A"), 2)
	addImpl(b.Class("C").Extends("B"), 3)
	b.Class("D").Extends("A")

	b.Class("Main").
		StaticMethod("main", nil).
		Local("a", b.RefType("A")).
		Local("r", lang.IntType).
		NewObj("a", "B").
		InvokeVirtual("r", "a", "A", "m()").
		Return().
		Done()
	p := b.Entry("Main", "main()").Build()

	cg := callgraph.BuildCHA(p, quietLogger())
	calls := invokes(p.Entry().IR())
	if len(calls) != 1 {
		t.Fatalf("expected 1 call site, got %d", len(calls))
	}
	want := []string{"A.m()", "B.m()", "C.m()"}
	if got := calleeSigs(cg, calls[0]); !sameStrings(got, want) {
		t.Errorf("virtual callees = %v, want %v", got, want)
	}
}

func TestInterfaceDispatchCoversImplementors(t *testing.T) {
	b := lang.NewProgramBuilder()
	b.Interface("Shape").AbstractMethod("area", lang.IntType)
	for _, c := range []string{"Circle", "Square"} {
		b.Class(c).Implements("Shape").
			Method("area", lang.IntType).
			Local("r", lang.IntType).
			AssignLit("r", 1).
			ReturnVar("r").
			Done()
	}
	b.Class("Main").
		StaticMethod("main", nil).
		Local("s", b.RefType("Shape")).
		Local("r", lang.IntType).
		NewObj("s", "Circle").
		InvokeInterface("r", "s", "Shape", "area()").
		Return().
		Done()
	p := b.Entry("Main", "main()").Build()

	cg := callgraph.BuildCHA(p, quietLogger())
	calls := invokes(p.Entry().IR())
	want := []string{"Circle.area()", "Square.area()"}
	if got := calleeSigs(cg, calls[0]); !sameStrings(got, want) {
		t.Errorf("interface callees = %v, want %v", got, want)
	}
}

func TestStaticCallHasSingleTarget(t *testing.T) {
	b := lang.NewProgramBuilder()
	b.Class("Util").
		StaticMethod("id", lang.IntType).
		Param("x", lang.IntType).
		ReturnVar("x").
		Done()
	b.Class("Main").
		StaticMethod("main", nil).
		Local("x", lang.IntType).
		Local("y", lang.IntType).
		AssignLit("x", 1).
		InvokeStatic("y", "Util", "id(int)", "x").
		Return().
		Done()
	p := b.Entry("Main", "main()").Build()

	cg := callgraph.BuildCHA(p, quietLogger())
	calls := invokes(p.Entry().IR())
	if got := calleeSigs(cg, calls[0]); !sameStrings(got, []string{"Util.id(int)"}) {
		t.Errorf("static callees = %v", got)
	}
	if cg.NumEdges() != 1 {
		t.Errorf("NumEdges = %d, want 1", cg.NumEdges())
	}
}

func TestUncalledMethodsAreUnreachable(t *testing.T) {
	b := lang.NewProgramBuilder()
	b.Class("Main").
		StaticMethod("main", nil).
		InvokeStatic("", "Main", "used()").
		Return().
		Done().
		StaticMethod("used", nil).
		Return().
		Done().
		StaticMethod("unused", nil).
		Return().
		Done()
	p := b.Entry("Main", "main()").Build()

	cg := callgraph.BuildCHA(p, quietLogger())
	if cg.NumMethods() != 2 {
		t.Fatalf("NumMethods = %d, want 2", cg.NumMethods())
	}
	for _, m := range cg.ReachableMethods() {
		if m.Signature() == "Main.unused()" {
			t.Error("unused method reported reachable")
		}
	}
}
