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

package dataflow

import (
	"github.com/awslabs/tac-go-tools/analysis/cfg"
	"github.com/awslabs/tac-go-tools/analysis/lang"
)

// worklist is a FIFO queue of statements with membership tracking, so a node
// is never queued twice. Pop order is insertion order of discovery, which
// keeps solver runs deterministic.
type worklist struct {
	queue  []lang.Stmt
	queued map[lang.Stmt]bool
}

func newWorklist() *worklist {
	return &worklist{queued: make(map[lang.Stmt]bool)}
}

func (w *worklist) push(s lang.Stmt) {
	if w.queued[s] {
		return
	}
	w.queued[s] = true
	w.queue = append(w.queue, s)
}

func (w *worklist) pop() lang.Stmt {
	s := w.queue[0]
	w.queue = w.queue[1:]
	delete(w.queued, s)
	return s
}

func (w *worklist) empty() bool { return len(w.queue) == 0 }

// Solve runs the analysis to a fixed point over the control-flow graph and
// returns the per-node facts. Termination follows from the monotonicity of
// the transfer functions over a finite lattice.
func Solve[F any](a Analysis[F], g *cfg.Graph) *Result[F] {
	r := &Result[F]{
		in:  make(map[lang.Stmt]F),
		out: make(map[lang.Stmt]F),
	}
	if a.IsForward() {
		solveForward(a, g, r)
	} else {
		solveBackward(a, g, r)
	}
	return r
}

func solveForward[F any](a Analysis[F], g *cfg.Graph, r *Result[F]) {
	work := newWorklist()
	for _, n := range g.Nodes() {
		r.in[n] = a.NewInitialFact()
		if g.IsEntry(n) {
			r.out[n] = a.NewBoundaryFact(g)
			continue
		}
		r.out[n] = a.NewInitialFact()
		work.push(n)
	}
	for !work.empty() {
		n := work.pop()
		in := a.NewInitialFact()
		for _, p := range g.PredsOf(n) {
			a.MeetInto(r.out[p], in)
		}
		r.in[n] = in
		if a.TransferNode(n, in, r.out[n]) {
			for _, s := range g.SuccsOf(n) {
				work.push(s)
			}
		}
	}
}

func solveBackward[F any](a Analysis[F], g *cfg.Graph, r *Result[F]) {
	work := newWorklist()
	for _, n := range g.Nodes() {
		r.out[n] = a.NewInitialFact()
		if g.IsExit(n) {
			r.in[n] = a.NewBoundaryFact(g)
			continue
		}
		r.in[n] = a.NewInitialFact()
		work.push(n)
	}
	for !work.empty() {
		n := work.pop()
		out := a.NewInitialFact()
		for _, s := range g.SuccsOf(n) {
			a.MeetInto(r.in[s], out)
		}
		r.out[n] = out
		if a.TransferNode(n, r.in[n], out) {
			for _, p := range g.PredsOf(n) {
				work.push(p)
			}
		}
	}
}
