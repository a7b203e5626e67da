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

// Package taint implements taint tracking as an overlay on the
// context-sensitive pointer analysis. Sources mint synthetic taint objects
// that flow through the pointer-flow graph like any other object; transfer
// records push taint across methods the analysis does not see the body of;
// sinks are checked once the fixed point is reached.
package taint

import (
	"github.com/awslabs/tac-go-tools/analysis/config"
	"github.com/awslabs/tac-go-tools/analysis/lang"
	"github.com/awslabs/tac-go-tools/analysis/pointer"
	"github.com/awslabs/tac-go-tools/analysis/pointer/cs"
	"golang.org/x/exp/slices"
)

// Analysis is the taint overlay. It implements pointer.Plugin; register it
// with the solver and read Flows after the run.
type Analysis struct {
	records *records
	logger  *config.LogGroup

	solver *pointer.Solver

	// watched maps a variable pointer to the transfers that read it, so new
	// taint in a transfer's from slot is forwarded as soon as it appears.
	watched map[*pointer.CSVar][]watchedTransfer

	flows    []Flow
	flowSeen map[Flow]bool
}

type watchedTransfer struct {
	to  *lang.Var
	ctx *pointer.Context
	typ lang.Type
}

// NewAnalysis resolves the configured taint problems against the program.
func NewAnalysis(p *lang.Program, cfg *config.Config, logger *config.LogGroup) *Analysis {
	return &Analysis{
		records:  resolveRecords(p, cfg.TaintTrackingProblems, logger),
		logger:   logger,
		watched:  make(map[*pointer.CSVar][]watchedTransfer),
		flowSeen: make(map[Flow]bool),
	}
}

// Flows returns the collected taint flows, sorted by source call index, sink
// call index and argument index.
func (a *Analysis) Flows() []Flow { return a.flows }

// OnStart remembers the solver so later hooks can inject facts.
func (a *Analysis) OnStart(s *pointer.Solver) { a.solver = s }

// OnNewCallEdge handles sources and registers transfers of the callee.
func (a *Analysis) OnNewCallEdge(e pointer.CSEdge) {
	callee := e.Callee.Method()
	call := e.CallSite.CallSite()
	ctx := e.CallSite.Context()
	if typ, ok := a.records.sources[callee]; ok && call.Result != nil {
		a.logger.Debugf("taint: source %s minted at %s/%d",
			callee.Signature(), call.Method().Signature(), call.Index())
		a.solver.AddVarPointsTo(ctx, call.Result, a.taintObj(call, typ))
	}
	for _, tf := range a.records.transfers[callee] {
		from := slotVar(call, tf.from)
		to := slotVar(call, tf.to)
		if from == nil || to == nil {
			a.logger.Warnf("taint: transfer slot missing at call %s", call)
			continue
		}
		w := watchedTransfer{to: to, ctx: ctx, typ: tf.typ}
		src := a.solver.Manager().CSVarOf(ctx, from)
		a.watched[src] = append(a.watched[src], w)
		a.applyTransfer(w, src.PointsToSet())
	}
}

// OnNewPointsTo forwards new taint through the transfers watching the
// variable.
func (a *Analysis) OnNewPointsTo(v *pointer.CSVar, delta *pointer.PointsToSet) {
	for _, w := range a.watched[v] {
		a.applyTransfer(w, delta)
	}
}

// applyTransfer re-mints every taint object of pts with the transfer's type
// and injects it into the target slot. The source call of the original taint
// is preserved.
func (a *Analysis) applyTransfer(w watchedTransfer, pts *pointer.PointsToSet) {
	var out []*pointer.CSObj
	for _, o := range pts.Objects() {
		if src, ok := sourceCallOf(o.Obj()); ok {
			out = append(out, a.taintObj(src, w.typ))
		}
	}
	if len(out) > 0 {
		a.solver.AddVarPointsTo(w.ctx, w.to, out...)
	}
}

// OnFinish inspects every call edge into a sink method and records a flow
// for each taint object reaching a sensitive argument.
func (a *Analysis) OnFinish() {
	mgr := a.solver.Manager()
	for _, e := range a.solver.CallGraph().Edges() {
		indices := a.records.sinks[e.Callee.Method()]
		if len(indices) == 0 {
			continue
		}
		call := e.CallSite.CallSite()
		ctx := e.CallSite.Context()
		for _, i := range indices {
			if i >= len(call.Args) {
				a.logger.Warnf("taint: sink index %d out of range at call %s", i, call)
				continue
			}
			pts := mgr.CSVarOf(ctx, call.Args[i]).PointsToSet()
			for _, o := range pts.Objects() {
				if src, ok := sourceCallOf(o.Obj()); ok {
					a.addFlow(Flow{Source: src, Sink: call, Index: i})
				}
			}
		}
	}
	slices.SortFunc(a.flows, flowLess)
	a.logger.Infof("taint: %d flows", len(a.flows))
}

func (a *Analysis) addFlow(f Flow) {
	if a.flowSeen[f] {
		return
	}
	a.flowSeen[f] = true
	a.flows = append(a.flows, f)
}

// taintObj interns the taint object of (source call, type) in the empty heap
// context.
func (a *Analysis) taintObj(src *lang.Invoke, typ lang.Type) *pointer.CSObj {
	mgr := a.solver.Manager()
	return mgr.CSObjOf(a.solver.EmptyContext(), mgr.MockObj(src, typ))
}

// sourceCallOf reports whether the object is a taint object and returns the
// source call that minted it.
func sourceCallOf(o *pointer.Obj) (*lang.Invoke, bool) {
	src, ok := o.Entity().(*lang.Invoke)
	return src, ok
}

func flowLess(x, y Flow) bool {
	if x.Source.Index() != y.Source.Index() {
		return x.Source.Index() < y.Source.Index()
	}
	if x.Sink.Index() != y.Sink.Index() {
		return x.Sink.Index() < y.Sink.Index()
	}
	if x.Index != y.Index {
		return x.Index < y.Index
	}
	if xs, ys := x.Source.Method().Signature(), y.Source.Method().Signature(); xs != ys {
		return xs < ys
	}
	return x.Sink.Method().Signature() < y.Sink.Method().Signature()
}

// Analyze runs the configured context-sensitive pointer analysis with the
// taint overlay attached and returns the flows plus the pointer result.
func Analyze(p *lang.Program, cfg *config.Config, logger *config.LogGroup) ([]Flow, *pointer.Result, error) {
	a := NewAnalysis(p, cfg, logger)
	res, err := cs.Solve(p, cfg, logger, a)
	if err != nil {
		return nil, nil, err
	}
	return a.Flows(), res, nil
}
