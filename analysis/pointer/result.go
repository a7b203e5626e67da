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

package pointer

import (
	"github.com/awslabs/tac-go-tools/analysis/callgraph"
	"github.com/awslabs/tac-go-tools/analysis/lang"
)

// Result is the outcome of a solver run. It serves both keyings: the raw
// context-sensitive sets, and collapsed views that merge a variable's sets
// over all contexts it was analyzed in.
type Result struct {
	mgr *Manager
	cg  *CSCallGraph

	collapsed map[*lang.Var]*PointsToSet
	varList   []*lang.Var
	plainCG   *callgraph.Graph
}

func newResult(s *Solver) *Result {
	return &Result{mgr: s.mgr, cg: s.cg}
}

// Manager returns the element manager of the run.
func (r *Result) Manager() *Manager { return r.mgr }

// CSCallGraph returns the context-sensitive call graph.
func (r *Result) CSCallGraph() *CSCallGraph { return r.cg }

// CallGraph returns the call graph with contexts projected away.
func (r *Result) CallGraph() *callgraph.Graph {
	if r.plainCG == nil {
		r.plainCG = r.cg.Collapse()
	}
	return r.plainCG
}

// PointsToCS returns the points-to set of v under ctx. The set is empty when
// the variable was never analyzed under that context.
func (r *Result) PointsToCS(ctx *Context, v *lang.Var) *PointsToSet {
	return r.mgr.CSVarOf(ctx, v).PointsToSet()
}

// PointsTo returns the points-to set of v merged over every context. The
// returned set is shared; callers must not mutate it.
func (r *Result) PointsTo(v *lang.Var) *PointsToSet {
	r.collapse()
	if pts := r.collapsed[v]; pts != nil {
		return pts
	}
	return newPointsToSet(r.mgr)
}

// Vars returns every variable the analysis assigned a points-to set, in
// first-seen order.
func (r *Result) Vars() []*lang.Var {
	r.collapse()
	return r.varList
}

// MayAlias reports whether a and b may refer to the same object in any
// context.
func (r *Result) MayAlias(a, b *lang.Var) bool {
	return r.PointsTo(a).Intersects(r.PointsTo(b))
}

func (r *Result) collapse() {
	if r.collapsed != nil {
		return
	}
	r.collapsed = make(map[*lang.Var]*PointsToSet)
	for _, csv := range r.mgr.CSVars() {
		v := csv.Var()
		pts := r.collapsed[v]
		if pts == nil {
			pts = newPointsToSet(r.mgr)
			r.collapsed[v] = pts
			r.varList = append(r.varList, v)
		}
		pts.UnionWith(csv.PointsToSet())
	}
}
