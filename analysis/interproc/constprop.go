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

package interproc

import (
	"github.com/awslabs/tac-go-tools/analysis/cfg"
	"github.com/awslabs/tac-go-tools/analysis/config"
	"github.com/awslabs/tac-go-tools/analysis/constprop"
	"github.com/awslabs/tac-go-tools/analysis/lang"
	"github.com/awslabs/tac-go-tools/analysis/pointer"
)

// ConstProp is the alias-aware inter-procedural constant propagation. Field
// and array accesses are resolved through a completed pointer analysis: a
// load reads the meet over every store that may write the same location, and
// a store re-enqueues every load that may read it.
type ConstProp struct {
	pta    *pointer.Result
	logger *config.LogGroup
	intra  constprop.Analysis
	solver *Solver[constprop.Fact]

	fieldStores  map[*lang.Field][]*lang.StoreField
	fieldLoads   map[*lang.Field][]*lang.LoadField
	staticStores map[*lang.Field][]*lang.StoreField
	staticLoads  map[*lang.Field][]*lang.LoadField
	arrayStores  []*lang.StoreArray
	arrayLoads   []*lang.LoadArray
}

// SolveConstProp runs the alias-aware constant propagation over the graph,
// using the pointer result as alias oracle.
func SolveConstProp(g *cfg.ICFG, pta *pointer.Result, logger *config.LogGroup) *Result[constprop.Fact] {
	a := newConstProp(g, pta, logger)
	s := NewSolver[constprop.Fact](a, g)
	a.solver = s
	return s.Solve()
}

func newConstProp(g *cfg.ICFG, pta *pointer.Result, logger *config.LogGroup) *ConstProp {
	c := &ConstProp{
		pta:          pta,
		logger:       logger,
		fieldStores:  make(map[*lang.Field][]*lang.StoreField),
		fieldLoads:   make(map[*lang.Field][]*lang.LoadField),
		staticStores: make(map[*lang.Field][]*lang.StoreField),
		staticLoads:  make(map[*lang.Field][]*lang.LoadField),
	}
	for _, m := range g.Methods() {
		for _, s := range m.IR().Stmts() {
			switch st := s.(type) {
			case *lang.StoreField:
				if st.IsStatic() {
					c.staticStores[st.Field] = append(c.staticStores[st.Field], st)
				} else {
					c.fieldStores[st.Field] = append(c.fieldStores[st.Field], st)
				}
			case *lang.LoadField:
				if st.IsStatic() {
					c.staticLoads[st.Field] = append(c.staticLoads[st.Field], st)
				} else {
					c.fieldLoads[st.Field] = append(c.fieldLoads[st.Field], st)
				}
			case *lang.StoreArray:
				c.arrayStores = append(c.arrayStores, st)
			case *lang.LoadArray:
				c.arrayLoads = append(c.arrayLoads, st)
			}
		}
	}
	return c
}

// NewBoundaryFact binds the integer-like parameters of the entry method to
// NAC.
func (c *ConstProp) NewBoundaryFact(g *cfg.ICFG) constprop.Fact {
	f := constprop.NewFact()
	if ir := g.EntryMethod().IR(); ir != nil {
		for _, p := range ir.Params() {
			if lang.IsIntLike(p.Type()) {
				f.Update(p, constprop.NAC())
			}
		}
	}
	return f
}

// NewInitialFact returns the empty fact.
func (c *ConstProp) NewInitialFact() constprop.Fact { return constprop.NewFact() }

// MeetInto meets fact into target pointwise.
func (c *ConstProp) MeetInto(fact, target constprop.Fact) bool {
	return target.MeetInto(fact)
}

// TransferCallNode passes the fact through unchanged; the call-to-return
// edge kills the result and the return edge delivers it.
func (c *ConstProp) TransferCallNode(node lang.Stmt, in, out constprop.Fact) bool {
	if out.Equals(in) {
		return false
	}
	out.SetTo(in)
	return true
}

// TransferNonCallNode handles heap accesses with the alias oracle and defers
// everything else to the intra-procedural transfer.
func (c *ConstProp) TransferNonCallNode(node lang.Stmt, in, out constprop.Fact) bool {
	switch st := node.(type) {
	case *lang.LoadField:
		if lang.IsIntLike(st.Result.Type()) {
			return c.transferLoadField(st, in, out)
		}
	case *lang.StoreField:
		return c.transferStoreField(st, in, out)
	case *lang.LoadArray:
		if lang.IsIntLike(st.Result.Type()) {
			return c.transferLoadArray(st, in, out)
		}
	case *lang.StoreArray:
		return c.transferStoreArray(st, in, out)
	}
	return c.intra.TransferNode(node, in, out)
}

func (c *ConstProp) transferLoadField(st *lang.LoadField, in, out constprop.Fact) bool {
	val := constprop.Undef()
	if st.IsStatic() {
		for _, store := range c.staticStores[st.Field] {
			val = val.Meet(c.solver.InFact(store).Get(store.Value))
		}
	} else {
		for _, store := range c.fieldStores[st.Field] {
			if c.pta.MayAlias(st.Base, store.Base) {
				val = val.Meet(c.solver.InFact(store).Get(store.Value))
			}
		}
	}
	next := in.Copy()
	next.Update(st.Result, val)
	if out.Equals(next) {
		return false
	}
	out.SetTo(next)
	return true
}

func (c *ConstProp) transferStoreField(st *lang.StoreField, in, out constprop.Fact) bool {
	if out.Equals(in) {
		return false
	}
	out.SetTo(in)
	if !lang.IsIntLike(st.Value.Type()) {
		return true
	}
	if st.IsStatic() {
		for _, load := range c.staticLoads[st.Field] {
			c.solver.Enqueue(load)
		}
		return true
	}
	for _, load := range c.fieldLoads[st.Field] {
		if c.pta.MayAlias(st.Base, load.Base) {
			c.solver.Enqueue(load)
		}
	}
	return true
}

func (c *ConstProp) transferLoadArray(st *lang.LoadArray, in, out constprop.Fact) bool {
	val := constprop.Undef()
	idx := in.Get(st.Idx)
	for _, store := range c.arrayStores {
		if !c.pta.MayAlias(st.Base, store.Base) {
			continue
		}
		if indexCompatible(idx, c.solver.InFact(store).Get(store.Idx)) {
			val = val.Meet(c.solver.InFact(store).Get(store.Value))
		}
	}
	next := in.Copy()
	next.Update(st.Result, val)
	if out.Equals(next) {
		return false
	}
	out.SetTo(next)
	return true
}

func (c *ConstProp) transferStoreArray(st *lang.StoreArray, in, out constprop.Fact) bool {
	if out.Equals(in) {
		return false
	}
	out.SetTo(in)
	if !lang.IsIntLike(st.Value.Type()) {
		return true
	}
	idx := in.Get(st.Idx)
	for _, load := range c.arrayLoads {
		if !c.pta.MayAlias(st.Base, load.Base) {
			continue
		}
		if indexCompatible(c.solver.InFact(load).Get(load.Idx), idx) {
			c.solver.Enqueue(load)
		}
	}
	return true
}

// indexCompatible reports whether an array load and store may touch the same
// cell. An UNDEF index means the access is unreachable, so it matches
// nothing; two constants must be equal; NAC matches any reachable index.
func indexCompatible(i, j constprop.Value) bool {
	if i.IsUndef() || j.IsUndef() {
		return false
	}
	if i.IsConstant() && j.IsConstant() {
		return i.Constant() == j.Constant()
	}
	return true
}

// TransferNormalEdge is the identity.
func (c *ConstProp) TransferNormalEdge(e cfg.ICFGEdge, out constprop.Fact) constprop.Fact {
	return out
}

// TransferCallToReturnEdge carries the caller-local state around the call,
// killing the call result; its value arrives through the return edges.
func (c *ConstProp) TransferCallToReturnEdge(e cfg.ICFGEdge, out constprop.Fact) constprop.Fact {
	f := out.Copy()
	if r := e.CallSite.Result; r != nil {
		f.Remove(r)
	}
	return f
}

// TransferCallEdge binds the callee's integer-like parameters to the values
// of the matching actuals.
func (c *ConstProp) TransferCallEdge(e cfg.ICFGEdge, callSiteOut constprop.Fact) constprop.Fact {
	f := constprop.NewFact()
	ir := e.Callee.IR()
	if ir == nil {
		return f
	}
	for i, arg := range e.CallSite.Args {
		p := ir.Param(i)
		if !lang.IsIntLike(p.Type()) {
			continue
		}
		f.Update(p, constprop.Evaluate(arg, callSiteOut))
	}
	return f
}

// TransferReturnEdge binds the call result to the meet of the callee's
// return variables.
func (c *ConstProp) TransferReturnEdge(e cfg.ICFGEdge, calleeExitOut constprop.Fact) constprop.Fact {
	f := constprop.NewFact()
	r := e.CallSite.Result
	if r == nil || !lang.IsIntLike(r.Type()) {
		return f
	}
	val := constprop.Undef()
	for _, ret := range e.Source.Method().IR().ReturnVars() {
		val = val.Meet(calleeExitOut.Get(ret))
	}
	f.Update(r, val)
	return f
}
