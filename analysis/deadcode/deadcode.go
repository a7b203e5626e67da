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

// Package deadcode detects statements that can be removed from a method:
// code unreachable from the entry once constant conditions are taken into
// account, and side-effect-free assignments whose target is never read.
package deadcode

import (
	"sort"

	"github.com/awslabs/tac-go-tools/analysis/cfg"
	"github.com/awslabs/tac-go-tools/analysis/constprop"
	"github.com/awslabs/tac-go-tools/analysis/dataflow"
	"github.com/awslabs/tac-go-tools/analysis/lang"
	"github.com/awslabs/tac-go-tools/internal/funcutil"
)

// Analyze builds the method's CFG, runs constant propagation and
// live-variable analysis, and returns the dead statements ordered by their
// position in the IR.
func Analyze(ir *lang.IR) []lang.Stmt {
	g := cfg.New(ir)
	cp := constprop.SolveMethod(g)
	live := dataflow.SolveLiveVariables(g)
	return Detect(g, cp, live)
}

// Detect returns the dead statements of the method underlying g, using the
// given constant-propagation and live-variable results as oracles. The
// result is ordered by statement index.
func Detect(g *cfg.Graph,
	cp *dataflow.Result[constprop.Fact],
	live *dataflow.Result[dataflow.SetFact[*lang.Var]]) []lang.Stmt {

	dead := make(map[lang.Stmt]bool)
	visited := reachable(g, cp)
	for _, s := range g.IR().Stmts() {
		if !visited[s] {
			dead[s] = true
		}
	}
	for s := range visited {
		if isUselessAssignment(s, live.OutFact(s)) {
			dead[s] = true
		}
	}

	result := make([]lang.Stmt, 0, len(dead))
	for s := range dead {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Index() < result[j].Index() })
	return result
}

// reachable walks the CFG breadth-first from entry, not descending edges a
// constant branch condition proves untaken.
func reachable(g *cfg.Graph, cp *dataflow.Result[constprop.Fact]) map[lang.Stmt]bool {
	visited := make(map[lang.Stmt]bool)
	queue := []lang.Stmt{g.Entry()}
	visited[g.Entry()] = true
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, e := range g.OutEdgesOf(n) {
			if !edgeTaken(e, cp.InFact(n)) {
				continue
			}
			if !visited[e.Target] {
				visited[e.Target] = true
				queue = append(queue, e.Target)
			}
		}
	}
	return visited
}

func edgeTaken(e cfg.Edge, in constprop.Fact) bool {
	switch s := e.Source.(type) {
	case *lang.If:
		cond := constprop.Evaluate(s.Cond, in)
		if !cond.IsConstant() {
			return true
		}
		if cond.Constant() == 0 {
			return e.Kind != cfg.EdgeIfTrue
		}
		return e.Kind != cfg.EdgeIfFalse
	case *lang.Switch:
		key := constprop.Evaluate(s.Key, in)
		if !key.IsConstant() {
			return true
		}
		k := key.Constant()
		switch e.Kind {
		case cfg.EdgeSwitchCase:
			return e.CaseValue == k
		case cfg.EdgeSwitchDefault:
			return !funcutil.Contains(s.CaseValues, k)
		}
	}
	return true
}

// isUselessAssignment reports whether s assigns a variable that is not live
// afterwards through a right-hand side with no observable side effect.
func isUselessAssignment(s lang.Stmt, liveOut dataflow.SetFact[*lang.Var]) bool {
	def, ok := s.(lang.Definition)
	if !ok {
		return false
	}
	x, rhs := def.Definition()
	if x == nil || liveOut.Has(x) {
		return false
	}
	return hasNoSideEffect(rhs)
}

// hasNoSideEffect reports whether evaluating rhs is free of observable
// effects: allocation, casts, heap and array accesses, invocations, and
// division or remainder (which may trap) all count as effects.
func hasNoSideEffect(rhs lang.Exp) bool {
	switch e := rhs.(type) {
	case *lang.NewExp, *lang.CastExp, *lang.InstanceFieldAccess,
		*lang.StaticFieldAccess, *lang.ArrayAccess, *lang.InvokeExp:
		return false
	case *lang.BinaryExp:
		return e.Op != lang.OpDiv && e.Op != lang.OpRem
	}
	return true
}
