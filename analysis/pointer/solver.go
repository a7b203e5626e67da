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
	"github.com/awslabs/tac-go-tools/analysis/config"
	"github.com/awslabs/tac-go-tools/analysis/lang"
)

// Solver runs the worklist pointer analysis. The same algorithm serves every
// context variant; the Selector decides how contexts grow. The solver builds
// the call graph on the fly: a method's statements are processed exactly once
// per context it becomes reachable in, and heap accesses and instance calls
// are wired when the points-to set of their base variable grows.
type Solver struct {
	program  *lang.Program
	selector Selector
	mgr      *Manager
	pfg      *FlowGraph
	cg       *CSCallGraph
	logger   *config.LogGroup
	plugins  []Plugin

	wl []wlEntry
}

type wlEntry struct {
	ptr Pointer
	pts *PointsToSet
}

// NewSolver returns a solver over the program using the given selector.
// Plugins observe the run in registration order.
func NewSolver(p *lang.Program, sel Selector, logger *config.LogGroup, plugins ...Plugin) *Solver {
	return &Solver{
		program:  p,
		selector: sel,
		mgr:      NewManager(),
		pfg:      NewFlowGraph(),
		cg:       NewCSCallGraph(),
		logger:   logger,
		plugins:  plugins,
	}
}

// Program returns the analyzed program.
func (s *Solver) Program() *lang.Program { return s.program }

// Manager returns the element manager of the run.
func (s *Solver) Manager() *Manager { return s.mgr }

// CallGraph returns the context-sensitive call graph built so far.
func (s *Solver) CallGraph() *CSCallGraph { return s.cg }

// EmptyContext returns the selector's empty context.
func (s *Solver) EmptyContext() *Context { return s.selector.EmptyContext() }

// AddVarPointsTo injects objects into the points-to set of v under ctx. This
// is the hook plugins use to introduce facts that have no allocation site.
func (s *Solver) AddVarPointsTo(ctx *Context, v *lang.Var, objs ...*CSObj) {
	pts := newPointsToSet(s.mgr)
	for _, o := range objs {
		pts.Add(o)
	}
	s.enqueue(s.mgr.CSVarOf(ctx, v), pts)
}

// Solve runs the analysis to its fixed point and returns the result.
func (s *Solver) Solve() *Result {
	entry := s.program.Entry()
	if entry == nil {
		s.logger.Warnf("pointer: program has no entry method")
		return newResult(s)
	}
	for _, p := range s.plugins {
		p.OnStart(s)
	}
	s.addReachable(s.mgr.CSMethodOf(s.selector.EmptyContext(), entry))
	for len(s.wl) > 0 {
		e := s.wl[0]
		s.wl = s.wl[1:]
		delta := e.pts.Diff(e.ptr.PointsToSet())
		if delta.IsEmpty() {
			continue
		}
		e.ptr.PointsToSet().UnionWith(delta)
		for _, succ := range s.pfg.SuccsOf(e.ptr) {
			s.enqueue(succ, delta)
		}
		if v, ok := e.ptr.(*CSVar); ok {
			s.onVarGrowth(v, delta)
		}
	}
	for _, p := range s.plugins {
		p.OnFinish()
	}
	s.logger.Infof("pointer: %d reachable methods, %d call edges, %d flow edges",
		len(s.cg.ReachableMethods()), len(s.cg.Edges()), s.pfg.NumEdges())
	return newResult(s)
}

func (s *Solver) enqueue(p Pointer, pts *PointsToSet) {
	s.wl = append(s.wl, wlEntry{ptr: p, pts: pts})
}

// addReachable processes the statements of a newly reachable context-sensitive
// method: allocations, local copies, static field accesses and static calls.
// Everything receiver-based waits for the receiver's points-to set.
func (s *Solver) addReachable(csm *CSMethod) {
	if !s.cg.AddReachable(csm) {
		return
	}
	ir := csm.Method().IR()
	if ir == nil {
		return
	}
	ctx := csm.Context()
	for _, stmt := range ir.Stmts() {
		switch st := stmt.(type) {
		case *lang.New:
			obj := s.mgr.AllocObj(st)
			hctx := s.selector.SelectHeapContext(csm, obj)
			cso := s.mgr.CSObjOf(hctx, obj)
			pts := newPointsToSet(s.mgr)
			pts.Add(cso)
			s.enqueue(s.mgr.CSVarOf(ctx, st.Result), pts)
		case *lang.Copy:
			if isRef(st.Result.Type()) {
				s.addPFGEdge(s.mgr.CSVarOf(ctx, st.Source), s.mgr.CSVarOf(ctx, st.Result))
			}
		case *lang.Cast:
			if isRef(st.Result.Type()) {
				s.addPFGEdge(s.mgr.CSVarOf(ctx, st.V), s.mgr.CSVarOf(ctx, st.Result))
			}
		case *lang.LoadField:
			if st.IsStatic() && isRef(st.Result.Type()) {
				s.addPFGEdge(s.mgr.StaticFieldOf(st.Field), s.mgr.CSVarOf(ctx, st.Result))
			}
		case *lang.StoreField:
			if st.IsStatic() && isRef(st.Value.Type()) {
				s.addPFGEdge(s.mgr.CSVarOf(ctx, st.Value), s.mgr.StaticFieldOf(st.Field))
			}
		case *lang.Invoke:
			if st.IsStatic() {
				s.processStaticCall(csm, st)
			}
		}
	}
}

func (s *Solver) processStaticCall(csm *CSMethod, call *lang.Invoke) {
	callee := s.program.Hierarchy().Dispatch(call.Ref.Class, call.Ref.Subsig)
	if callee == nil || callee.IsAbstract() {
		s.logger.Warnf("pointer: no target for %s call %s", call.Kind, call)
		return
	}
	site := s.mgr.CSCallSiteOf(csm.Context(), call)
	calleeCtx := s.selector.SelectStaticContext(site, callee)
	s.addCallEdge(CSEdge{
		Kind:     call.Kind,
		CallSite: site,
		Callee:   s.mgr.CSMethodOf(calleeCtx, callee),
	})
}

// onVarGrowth reacts to new objects in the points-to set of a variable: it
// wires the heap accesses and instance calls that use the variable as base.
func (s *Solver) onVarGrowth(p *CSVar, delta *PointsToSet) {
	for _, pl := range s.plugins {
		pl.OnNewPointsTo(p, delta)
	}
	v := p.Var()
	ctx := p.Context()
	for _, o := range delta.Objects() {
		for _, st := range v.StoreFields() {
			if isRef(st.Value.Type()) {
				s.addPFGEdge(s.mgr.CSVarOf(ctx, st.Value), s.mgr.InstanceFieldOf(o, st.Field))
			}
		}
		for _, st := range v.LoadFields() {
			if isRef(st.Result.Type()) {
				s.addPFGEdge(s.mgr.InstanceFieldOf(o, st.Field), s.mgr.CSVarOf(ctx, st.Result))
			}
		}
		for _, st := range v.StoreArrays() {
			if isRef(st.Value.Type()) {
				s.addPFGEdge(s.mgr.CSVarOf(ctx, st.Value), s.mgr.ArrayIndexOf(o))
			}
		}
		for _, st := range v.LoadArrays() {
			if isRef(st.Result.Type()) {
				s.addPFGEdge(s.mgr.ArrayIndexOf(o), s.mgr.CSVarOf(ctx, st.Result))
			}
		}
		for _, call := range v.Invokes() {
			s.processInstanceCall(ctx, call, o)
		}
	}
}

func (s *Solver) processInstanceCall(ctx *Context, call *lang.Invoke, recv *CSObj) {
	callee := s.dispatch(call, recv)
	if callee == nil {
		return
	}
	site := s.mgr.CSCallSiteOf(ctx, call)
	calleeCtx := s.selector.SelectContext(site, recv, callee)
	csCallee := s.mgr.CSMethodOf(calleeCtx, callee)
	if ir := callee.IR(); ir != nil && ir.This() != nil {
		pts := newPointsToSet(s.mgr)
		pts.Add(recv)
		s.enqueue(s.mgr.CSVarOf(calleeCtx, ir.This()), pts)
	}
	s.addCallEdge(CSEdge{Kind: call.Kind, CallSite: site, Callee: csCallee})
}

// dispatch resolves the callee of a receiver-based call on the given object.
func (s *Solver) dispatch(call *lang.Invoke, recv *CSObj) *lang.Method {
	h := s.program.Hierarchy()
	var m *lang.Method
	switch call.Kind {
	case lang.CallSpecial:
		m = h.Dispatch(call.Ref.Class, call.Ref.Subsig)
	case lang.CallVirtual, lang.CallInterface:
		ct, ok := recv.Obj().Type().(lang.ClassType)
		if !ok {
			s.logger.Warnf("pointer: %s call %s on non-class object %s", call.Kind, call, recv)
			return nil
		}
		m = h.Dispatch(ct.Class, call.Ref.Subsig)
	default:
		s.logger.Warnf("pointer: unresolvable %s call %s", call.Kind, call)
		return nil
	}
	if m == nil || m.IsAbstract() {
		s.logger.Warnf("pointer: no target for %s call %s on %s", call.Kind, call, recv)
		return nil
	}
	return m
}

// addCallEdge inserts a call edge, marks the callee reachable and links
// arguments to parameters and return variables to the call result.
func (s *Solver) addCallEdge(e CSEdge) {
	if !s.cg.AddEdge(e) {
		return
	}
	for _, p := range s.plugins {
		p.OnNewCallEdge(e)
	}
	s.addReachable(e.Callee)
	ir := e.Callee.Method().IR()
	if ir == nil {
		return
	}
	call := e.CallSite.CallSite()
	callerCtx := e.CallSite.Context()
	calleeCtx := e.Callee.Context()
	for i, arg := range call.Args {
		if isRef(arg.Type()) {
			s.addPFGEdge(s.mgr.CSVarOf(callerCtx, arg), s.mgr.CSVarOf(calleeCtx, ir.Param(i)))
		}
	}
	if call.Result != nil && isRef(call.Result.Type()) {
		for _, ret := range ir.ReturnVars() {
			s.addPFGEdge(s.mgr.CSVarOf(calleeCtx, ret), s.mgr.CSVarOf(callerCtx, call.Result))
		}
	}
}

// addPFGEdge inserts a flow edge and, when the edge is new and the source
// already points somewhere, forwards the source set to the target.
func (s *Solver) addPFGEdge(src, dst Pointer) {
	if s.pfg.AddEdge(src, dst) && !src.PointsToSet().IsEmpty() {
		s.enqueue(dst, src.PointsToSet())
	}
}

func isRef(t lang.Type) bool {
	switch t.(type) {
	case lang.ClassType, lang.ArrayType:
		return true
	}
	return false
}
