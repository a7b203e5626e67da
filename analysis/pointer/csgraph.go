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

// CSEdge is a call-graph edge between a context-sensitive call site and a
// context-sensitive callee.
type CSEdge struct {
	Kind     lang.CallKind
	CallSite *CSCallSite
	Callee   *CSMethod
}

// CSCallGraph is the call graph built on the fly by the pointer analysis,
// keyed by contexts. It only grows; iteration orders are insertion orders.
type CSCallGraph struct {
	reachable []*CSMethod
	reachSet  map[*CSMethod]bool

	edges    []CSEdge
	edgeSeen map[CSEdge]bool
	callees  map[*CSCallSite][]CSEdge
}

// NewCSCallGraph returns an empty context-sensitive call graph.
func NewCSCallGraph() *CSCallGraph {
	return &CSCallGraph{
		reachSet: make(map[*CSMethod]bool),
		edgeSeen: make(map[CSEdge]bool),
		callees:  make(map[*CSCallSite][]CSEdge),
	}
}

// AddReachable marks the context-sensitive method reachable and reports
// whether it was new.
func (g *CSCallGraph) AddReachable(m *CSMethod) bool {
	if g.reachSet[m] {
		return false
	}
	g.reachSet[m] = true
	g.reachable = append(g.reachable, m)
	return true
}

// AddEdge inserts the edge and reports whether it was new.
func (g *CSCallGraph) AddEdge(e CSEdge) bool {
	if g.edgeSeen[e] {
		return false
	}
	g.edgeSeen[e] = true
	g.edges = append(g.edges, e)
	g.callees[e.CallSite] = append(g.callees[e.CallSite], e)
	return true
}

// ReachableMethods returns the reachable context-sensitive methods in
// discovery order.
func (g *CSCallGraph) ReachableMethods() []*CSMethod { return g.reachable }

// Edges returns all edges in insertion order.
func (g *CSCallGraph) Edges() []CSEdge { return g.edges }

// CalleesOf returns the edges out of the context-sensitive call site.
func (g *CSCallGraph) CalleesOf(site *CSCallSite) []CSEdge { return g.callees[site] }

// Collapse projects the contexts away, producing the plain call graph the
// context-insensitive clients consume.
func (g *CSCallGraph) Collapse() *callgraph.Graph {
	out := callgraph.New()
	for _, m := range g.reachable {
		out.AddReachable(m.Method())
	}
	for _, e := range g.edges {
		out.AddEdge(e.Kind, e.CallSite.CallSite(), e.Callee.Method())
	}
	return out
}
