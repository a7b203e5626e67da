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

// FlowGraph is the pointer-flow graph: a directed graph on pointers whose
// edges mean "every object of the source flows into the target". Adding an
// edge twice is a no-op, and successors iterate in insertion order.
type FlowGraph struct {
	succs map[Pointer][]Pointer
	seen  map[flowEdge]bool
}

type flowEdge struct {
	src, dst Pointer
}

// NewFlowGraph returns an empty pointer-flow graph.
func NewFlowGraph() *FlowGraph {
	return &FlowGraph{
		succs: make(map[Pointer][]Pointer),
		seen:  make(map[flowEdge]bool),
	}
}

// AddEdge inserts the edge src -> dst and reports whether it was new.
func (g *FlowGraph) AddEdge(src, dst Pointer) bool {
	e := flowEdge{src: src, dst: dst}
	if g.seen[e] {
		return false
	}
	g.seen[e] = true
	g.succs[src] = append(g.succs[src], dst)
	return true
}

// SuccsOf returns the successors of p in insertion order.
func (g *FlowGraph) SuccsOf(p Pointer) []Pointer { return g.succs[p] }

// NumEdges returns the number of distinct edges.
func (g *FlowGraph) NumEdges() int { return len(g.seen) }
