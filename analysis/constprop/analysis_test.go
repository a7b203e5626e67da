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

package constprop

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

func solveEntry(t *testing.T, b *lang.ProgramBuilder, class string, sub lang.Subsignature) (*lang.IR, *dataflow.Result[Fact]) {
	t.Helper()
	p := b.Entry(class, sub).Build()
	ir := p.Entry().IR()
	return ir, SolveMethod(cfg.New(ir))
}

func TestStraightLineConstants(t *testing.T) {
	b := lang.NewProgramBuilder()
	b.Class("Main").
		StaticMethod("main", nil).
		Local("x", lang.IntType).
		Local("y", lang.IntType).
		Local("z", lang.IntType).
		AssignLit("x", 1).                   // 0
		Binary("y", "x", lang.OpAdd, "x").   // 1
		Binary("z", "y", lang.OpMul, "y").   // 2
		Return().                            // 3
		Done()
	ir, res := solveEntry(t, b, "Main", "main()")

	out := res.OutFact(ir.Stmt(2))
	for name, want := range map[string]int32{"x": 1, "y": 2, "z": 4} {
		v := out.Get(varByName(ir, name))
		if !v.IsConstant() || v.Constant() != want {
			t.Errorf("%s = %s, want %d", name, v, want)
		}
	}
}

func TestParamsStartAsNAC(t *testing.T) {
	b := lang.NewProgramBuilder()
	b.Class("Main").
		StaticMethod("f", lang.IntType).
		Param("p", lang.IntType).
		Local("q", lang.IntType).
		Binary("q", "p", lang.OpAdd, "p"). // 0
		ReturnVar("q").                    // 1
		Done()
	ir, res := solveEntry(t, b, "Main", "f(int)")

	if v := res.OutFact(ir.Stmt(0)).Get(varByName(ir, "q")); !v.IsNAC() {
		t.Errorf("q = %s, want NAC", v)
	}
}

func TestBranchMeet(t *testing.T) {
	build := func(thenVal, elseVal int32) (*lang.IR, *dataflow.Result[Fact]) {
		b := lang.NewProgramBuilder()
		b.Class("Main").
			StaticMethod("f", nil).
			Param("p", lang.IntType).
			Local("zero", lang.IntType).
			Local("x", lang.IntType).
			AssignLit("zero", 0).                  // 0
			If("p", lang.OpEq, "zero", "other").   // 1
			AssignLit("x", thenVal).               // 2
			Goto("join").                          // 3
			Label("other").
			AssignLit("x", elseVal). // 4
			Label("join").
			Return(). // 5
			Done()
		p := b.Entry("Main", "f(int)").Build()
		ir := p.Entry().IR()
		return ir, SolveMethod(cfg.New(ir))
	}

	ir, res := build(7, 7)
	if v := res.InFact(ir.Stmt(5)).Get(varByName(ir, "x")); !v.IsConstant() || v.Constant() != 7 {
		t.Errorf("same-value meet: x = %s, want 7", v)
	}

	ir, res = build(1, 2)
	if v := res.InFact(ir.Stmt(5)).Get(varByName(ir, "x")); !v.IsNAC() {
		t.Errorf("conflicting meet: x = %s, want NAC", v)
	}
}

func TestDivisionByConstantZeroIsUndef(t *testing.T) {
	b := lang.NewProgramBuilder()
	b.Class("Main").
		StaticMethod("f", nil).
		Param("p", lang.IntType).
		Local("zero", lang.IntType).
		Local("d", lang.IntType).
		Local("r", lang.IntType).
		AssignLit("zero", 0).                 // 0
		Binary("d", "p", lang.OpDiv, "zero"). // 1
		Binary("r", "p", lang.OpRem, "zero"). // 2
		Return().                             // 3
		Done()
	ir, res := solveEntry(t, b, "Main", "f(int)")

	out := res.OutFact(ir.Stmt(2))
	if v := out.Get(varByName(ir, "d")); !v.IsUndef() {
		t.Errorf("p/0 = %s, want UNDEF", v)
	}
	if v := out.Get(varByName(ir, "r")); !v.IsUndef() {
		t.Errorf("p%%0 = %s, want UNDEF", v)
	}
}

func TestArithmeticWrapsAt32Bits(t *testing.T) {
	b := lang.NewProgramBuilder()
	b.Class("Main").
		StaticMethod("f", nil).
		Local("max", lang.IntType).
		Local("one", lang.IntType).
		Local("s", lang.IntType).
		Local("min", lang.IntType).
		Local("negOne", lang.IntType).
		Local("q", lang.IntType).
		AssignLit("max", 2147483647).              // 0
		AssignLit("one", 1).                       // 1
		Binary("s", "max", lang.OpAdd, "one").     // 2
		AssignLit("min", -2147483648).             // 3
		AssignLit("negOne", -1).                   // 4
		Binary("q", "min", lang.OpDiv, "negOne").  // 5
		Return().                                  // 6
		Done()
	ir, res := solveEntry(t, b, "Main", "f()")

	out := res.OutFact(ir.Stmt(5))
	if v := out.Get(varByName(ir, "s")); !v.IsConstant() || v.Constant() != -2147483648 {
		t.Errorf("MaxInt32+1 = %s, want MinInt32", v)
	}
	if v := out.Get(varByName(ir, "q")); !v.IsConstant() || v.Constant() != -2147483648 {
		t.Errorf("MinInt32/-1 = %s, want MinInt32", v)
	}
}

func TestShiftCountsTakenModulo32(t *testing.T) {
	b := lang.NewProgramBuilder()
	b.Class("Main").
		StaticMethod("f", nil).
		Local("one", lang.IntType).
		Local("c", lang.IntType).
		Local("r", lang.IntType).
		Local("m", lang.IntType).
		Local("u", lang.IntType).
		AssignLit("one", 1).                   // 0
		AssignLit("c", 33).                    // 1
		Binary("r", "one", lang.OpShl, "c").   // 2
		AssignLit("m", -8).                    // 3
		Binary("u", "m", lang.OpUshr, "one").  // 4
		Return().                              // 5
		Done()
	ir, res := solveEntry(t, b, "Main", "f()")

	out := res.OutFact(ir.Stmt(4))
	if v := out.Get(varByName(ir, "r")); !v.IsConstant() || v.Constant() != 2 {
		t.Errorf("1<<33 = %s, want 2", v)
	}
	if v := out.Get(varByName(ir, "u")); !v.IsConstant() || v.Constant() != 2147483644 {
		t.Errorf("-8>>>1 = %s, want 2147483644", v)
	}
}

func TestComparisonsEvaluateToBooleanConstants(t *testing.T) {
	b := lang.NewProgramBuilder()
	b.Class("Main").
		StaticMethod("f", nil).
		Local("a", lang.IntType).
		Local("bb", lang.IntType).
		Local("lt", lang.IntType).
		Local("ge", lang.IntType).
		AssignLit("a", 3).                    // 0
		AssignLit("bb", 4).                   // 1
		Binary("lt", "a", lang.OpLt, "bb").   // 2
		Binary("ge", "a", lang.OpGe, "bb").   // 3
		Return().                             // 4
		Done()
	ir, res := solveEntry(t, b, "Main", "f()")

	out := res.OutFact(ir.Stmt(3))
	if v := out.Get(varByName(ir, "lt")); !v.IsConstant() || v.Constant() != 1 {
		t.Errorf("3<4 = %s, want 1", v)
	}
	if v := out.Get(varByName(ir, "ge")); !v.IsConstant() || v.Constant() != 0 {
		t.Errorf("3>=4 = %s, want 0", v)
	}
}

func TestValueMeet(t *testing.T) {
	cases := []struct {
		x, y, want Value
	}{
		{Undef(), MakeConstant(5), MakeConstant(5)},
		{MakeConstant(5), MakeConstant(5), MakeConstant(5)},
		{MakeConstant(5), MakeConstant(6), NAC()},
		{NAC(), MakeConstant(5), NAC()},
		{Undef(), Undef(), Undef()},
		{NAC(), Undef(), NAC()},
	}
	for _, c := range cases {
		if got := c.x.Meet(c.y); got != c.want {
			t.Errorf("%s meet %s = %s, want %s", c.x, c.y, got, c.want)
		}
		if got := c.y.Meet(c.x); got != c.want {
			t.Errorf("meet not symmetric for %s, %s", c.x, c.y)
		}
	}
}
