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

// Package interproc runs dataflow analyses over the inter-procedural
// control-flow graph. Facts cross method boundaries through four edge
// transfers; the shipped client is the alias-aware constant propagation,
// which consults a completed pointer analysis to resolve heap accesses.
package interproc

import (
	"github.com/awslabs/tac-go-tools/analysis/cfg"
	"github.com/awslabs/tac-go-tools/analysis/lang"
)

// Analysis is an inter-procedural forward dataflow analysis over facts of
// type F. Node transfers update out in place and report change; edge
// transfers produce the fact an edge carries into its target, which the
// solver meets into the target's in fact.
type Analysis[F any] interface {
	// NewBoundaryFact returns the fact at the entry node of the entry
	// method.
	NewBoundaryFact(g *cfg.ICFG) F

	// NewInitialFact returns the initial fact of every other node.
	NewInitialFact() F

	// MeetInto meets fact into target and reports whether target changed.
	MeetInto(fact, target F) bool

	// TransferCallNode applies the transfer of a call node.
	TransferCallNode(node lang.Stmt, in, out F) bool

	// TransferNonCallNode applies the transfer of every other node.
	TransferNonCallNode(node lang.Stmt, in, out F) bool

	// TransferNormalEdge transfers a fact along an intra-procedural edge.
	TransferNormalEdge(e cfg.ICFGEdge, out F) F

	// TransferCallToReturnEdge transfers the caller-local state around a
	// call.
	TransferCallToReturnEdge(e cfg.ICFGEdge, out F) F

	// TransferCallEdge transfers the call-site fact into a callee entry.
	TransferCallEdge(e cfg.ICFGEdge, callSiteOut F) F

	// TransferReturnEdge transfers a callee-exit fact back to a return
	// site.
	TransferReturnEdge(e cfg.ICFGEdge, calleeExitOut F) F
}

// Result holds the in and out facts of every ICFG node after solving.
type Result[F any] struct {
	in  map[lang.Stmt]F
	out map[lang.Stmt]F
}

// InFact returns the fact flowing into node.
func (r *Result[F]) InFact(node lang.Stmt) F { return r.in[node] }

// OutFact returns the fact flowing out of node.
func (r *Result[F]) OutFact(node lang.Stmt) F { return r.out[node] }

// Solver iterates an inter-procedural analysis to its fixed point. Clients
// whose transfers invalidate other nodes (the heap transfers of the
// alias-aware constant propagation) re-enqueue them through Enqueue.
type Solver[F any] struct {
	analysis Analysis[F]
	graph    *cfg.ICFG
	result   *Result[F]

	queue  []lang.Stmt
	queued map[lang.Stmt]bool
}

// NewSolver returns a solver for the analysis over the graph.
func NewSolver[F any](a Analysis[F], g *cfg.ICFG) *Solver[F] {
	return &Solver[F]{
		analysis: a,
		graph:    g,
		result: &Result[F]{
			in:  make(map[lang.Stmt]F),
			out: make(map[lang.Stmt]F),
		},
		queued: make(map[lang.Stmt]bool),
	}
}

// InFact returns the current in fact of node.
func (s *Solver[F]) InFact(node lang.Stmt) F { return s.result.in[node] }

// OutFact returns the current out fact of node.
func (s *Solver[F]) OutFact(node lang.Stmt) F { return s.result.out[node] }

// Enqueue puts node back on the worklist.
func (s *Solver[F]) Enqueue(node lang.Stmt) {
	if s.queued[node] {
		return
	}
	s.queued[node] = true
	s.queue = append(s.queue, node)
}

func (s *Solver[F]) pop() lang.Stmt {
	n := s.queue[0]
	s.queue = s.queue[1:]
	s.queued[n] = false
	return n
}

// Solve runs the analysis to its fixed point and returns the facts.
func (s *Solver[F]) Solve() *Result[F] {
	entry := s.graph.EntryNode()
	for _, n := range s.graph.Nodes() {
		s.result.in[n] = s.analysis.NewInitialFact()
		if n == entry {
			s.result.out[n] = s.analysis.NewBoundaryFact(s.graph)
			continue
		}
		s.result.out[n] = s.analysis.NewInitialFact()
		s.Enqueue(n)
	}
	for len(s.queue) > 0 {
		n := s.pop()
		in := s.analysis.NewInitialFact()
		for _, e := range s.graph.InEdgesOf(n) {
			s.analysis.MeetInto(s.transferEdge(e, s.result.out[e.Source]), in)
		}
		s.result.in[n] = in
		var changed bool
		if s.graph.IsCallNode(n) {
			changed = s.analysis.TransferCallNode(n, in, s.result.out[n])
		} else {
			changed = s.analysis.TransferNonCallNode(n, in, s.result.out[n])
		}
		if changed {
			for _, e := range s.graph.OutEdgesOf(n) {
				s.Enqueue(e.Target)
			}
		}
	}
	return s.result
}

func (s *Solver[F]) transferEdge(e cfg.ICFGEdge, out F) F {
	switch e.Kind {
	case cfg.ICFGCall:
		return s.analysis.TransferCallEdge(e, out)
	case cfg.ICFGCallToReturn:
		return s.analysis.TransferCallToReturnEdge(e, out)
	case cfg.ICFGReturn:
		return s.analysis.TransferReturnEdge(e, out)
	default:
		return s.analysis.TransferNormalEdge(e, out)
	}
}
