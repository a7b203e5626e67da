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
	"github.com/awslabs/tac-go-tools/analysis/cfg"
	"github.com/awslabs/tac-go-tools/analysis/dataflow"
	"github.com/awslabs/tac-go-tools/analysis/lang"
)

// Analysis is the intra-procedural constant-propagation analysis. It is a
// forward analysis over Fact; only definitions of integer-like variables
// change the fact, every other statement is the identity.
type Analysis struct{}

// New returns the constant-propagation analysis.
func New() Analysis { return Analysis{} }

// IsForward reports the direction; constant propagation is forward.
func (Analysis) IsForward() bool { return true }

// NewBoundaryFact binds every integer-like parameter to NAC, since nothing
// is known about the caller.
func (Analysis) NewBoundaryFact(g *cfg.Graph) Fact {
	f := NewFact()
	for _, p := range g.IR().Params() {
		if lang.IsIntLike(p.Type()) {
			f.Update(p, NAC())
		}
	}
	return f
}

// NewInitialFact returns the empty fact, in which every variable is UNDEF.
func (Analysis) NewInitialFact() Fact { return NewFact() }

// MeetInto meets fact into target pointwise.
func (Analysis) MeetInto(fact, target Fact) bool {
	return target.MeetInto(fact)
}

// TransferNode applies the statement's transfer function: a definition of
// an integer-like variable binds it to the evaluation of its right-hand
// side, everything else passes IN through.
func (Analysis) TransferNode(node lang.Stmt, in, out Fact) bool {
	next := in.Copy()
	if def, ok := node.(lang.Definition); ok {
		if x, rhs := def.Definition(); x != nil && lang.IsIntLike(x.Type()) {
			next.Update(x, Evaluate(rhs, in))
		}
	}
	if out.Equals(next) {
		return false
	}
	out.SetTo(next)
	return true
}

// Evaluate computes the lattice value of the expression under the given
// fact. The function is pure and total: expressions the lattice cannot
// model precisely evaluate to NAC.
func Evaluate(e lang.Exp, in Fact) Value {
	switch e := e.(type) {
	case lang.IntLiteral:
		return MakeConstant(int32(e))
	case *lang.Var:
		if lang.IsIntLike(e.Type()) {
			return in.Get(e)
		}
		return NAC()
	case *lang.BinaryExp:
		if !lang.IsIntLike(e.X.Type()) || !lang.IsIntLike(e.Y.Type()) {
			return NAC()
		}
		return evalBinary(e.Op, in.Get(e.X), in.Get(e.Y))
	default:
		return NAC()
	}
}

func evalBinary(op lang.BinaryOp, x, y Value) Value {
	// Dividing or taking the remainder by a constant zero is UNDEF no
	// matter what the dividend is: the statement cannot execute normally.
	if (op == lang.OpDiv || op == lang.OpRem) && y.IsConstant() && y.Constant() == 0 {
		return Undef()
	}
	if x.IsConstant() && y.IsConstant() {
		return applyOp(op, x.Constant(), y.Constant())
	}
	if x.IsNAC() || y.IsNAC() {
		return NAC()
	}
	return Undef()
}

// applyOp evaluates op on two 32-bit signed integers with two's-complement
// wrap-around and Java-style shift semantics (the shift count is taken
// modulo 32; >>> is the logical shift).
func applyOp(op lang.BinaryOp, a, b int32) Value {
	boolVal := func(c bool) Value {
		if c {
			return MakeConstant(1)
		}
		return MakeConstant(0)
	}
	switch op {
	case lang.OpAdd:
		return MakeConstant(a + b)
	case lang.OpSub:
		return MakeConstant(a - b)
	case lang.OpMul:
		return MakeConstant(a * b)
	case lang.OpDiv:
		return MakeConstant(a / b)
	case lang.OpRem:
		return MakeConstant(a % b)
	case lang.OpAnd:
		return MakeConstant(a & b)
	case lang.OpOr:
		return MakeConstant(a | b)
	case lang.OpXor:
		return MakeConstant(a ^ b)
	case lang.OpShl:
		return MakeConstant(a << (uint32(b) & 31))
	case lang.OpShr:
		return MakeConstant(a >> (uint32(b) & 31))
	case lang.OpUshr:
		return MakeConstant(int32(uint32(a) >> (uint32(b) & 31)))
	case lang.OpEq:
		return boolVal(a == b)
	case lang.OpNe:
		return boolVal(a != b)
	case lang.OpLt:
		return boolVal(a < b)
	case lang.OpLe:
		return boolVal(a <= b)
	case lang.OpGt:
		return boolVal(a > b)
	case lang.OpGe:
		return boolVal(a >= b)
	}
	return NAC()
}

// SolveMethod runs constant propagation over one method body.
func SolveMethod(g *cfg.Graph) *dataflow.Result[Fact] {
	return dataflow.Solve[Fact](New(), g)
}
