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

// Package callgraph defines the call graph the analyses build and consume:
// the set of reachable methods and the edges from call sites to their
// resolved callees, tagged with the lexical call kind.
package callgraph

import (
	"github.com/awslabs/tac-go-tools/analysis/lang"
)

// Edge is one resolved call: the call site invokes the callee. Kind is the
// lexical kind of the call site.
type Edge struct {
	Kind     lang.CallKind
	CallSite *lang.Invoke
	Callee   *lang.Method
}

// Graph is a call graph. It only ever grows: methods become reachable and
// edges are added, never removed. All iteration orders are insertion
// orders, so two identical builds yield identical graphs.
type Graph struct {
	reachable []*lang.Method
	reachSet  map[*lang.Method]bool

	callees map[*lang.Invoke][]Edge
	callers map[*lang.Method][]Edge

	edges    []Edge
	edgeSeen map[Edge]bool
}

// New returns an empty call graph.
func New() *Graph {
	return &Graph{
		reachSet: make(map[*lang.Method]bool),
		callees:  make(map[*lang.Invoke][]Edge),
		callers:  make(map[*lang.Method][]Edge),
		edgeSeen: make(map[Edge]bool),
	}
}

// AddReachable marks m reachable and reports whether it was new.
func (g *Graph) AddReachable(m *lang.Method) bool {
	if g.reachSet[m] {
		return false
	}
	g.reachSet[m] = true
	g.reachable = append(g.reachable, m)
	return true
}

// IsReachable reports whether m has been marked reachable.
func (g *Graph) IsReachable(m *lang.Method) bool { return g.reachSet[m] }

// AddEdge inserts the edge and reports whether it was new. Adding an edge
// twice is a no-op.
func (g *Graph) AddEdge(kind lang.CallKind, site *lang.Invoke, callee *lang.Method) bool {
	e := Edge{Kind: kind, CallSite: site, Callee: callee}
	if g.edgeSeen[e] {
		return false
	}
	g.edgeSeen[e] = true
	g.edges = append(g.edges, e)
	g.callees[site] = append(g.callees[site], e)
	g.callers[callee] = append(g.callers[callee], e)
	return true
}

// ReachableMethods returns the reachable methods in discovery order.
func (g *Graph) ReachableMethods() []*lang.Method { return g.reachable }

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge { return g.edges }

// CalleesOf returns the edges out of the call site in insertion order.
func (g *Graph) CalleesOf(site *lang.Invoke) []Edge { return g.callees[site] }

// CallersOf returns the edges into m in insertion order.
func (g *Graph) CallersOf(m *lang.Method) []Edge { return g.callers[m] }

// NumMethods returns the number of reachable methods.
func (g *Graph) NumMethods() int { return len(g.reachable) }

// NumEdges returns the number of distinct edges.
func (g *Graph) NumEdges() int { return len(g.edges) }
