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

// Package graphutil adapts the call graph to general-purpose graph libraries
// and hosts the graph algorithms the analyses share.
package graphutil

import (
	"sort"

	"github.com/awslabs/tac-go-tools/analysis/callgraph"
	"github.com/awslabs/tac-go-tools/analysis/lang"
	"gonum.org/v1/gonum/graph"
)

// CGraph presents a call graph through the interfaces the graph libraries
// expect: Gonum's graph.Graph and the yourbasic graph.Iterator. Node ids are
// the positions of the methods in the call graph's discovery order, so they
// stay stable across subgraphs.
type CGraph struct {
	// Graph is the call graph the view was built from.
	Graph *callgraph.Graph

	// IDMap resolves a node id to its node.
	IDMap map[int64]CNode

	// Keys lists the node ids of this view in ascending order.
	Keys []int64

	// Edges is the adjacency of this view: Edges[x][y] holds when x calls y.
	Edges map[int64]map[int64]bool

	// order is the node count of the original graph, not of this view.
	order int
}

// NewCallgraphIterator builds the library view of cg covering every
// reachable method.
func NewCallgraphIterator(cg *callgraph.Graph) CGraph {
	methods := cg.ReachableMethods()
	c := CGraph{
		Graph: cg,
		IDMap: make(map[int64]CNode, len(methods)),
		Keys:  make([]int64, len(methods)),
		Edges: make(map[int64]map[int64]bool, len(methods)),
		order: len(methods),
	}
	ids := make(map[*lang.Method]int64, len(methods))
	for i, m := range methods {
		id := int64(i)
		ids[m] = id
		c.Keys[i] = id
		c.IDMap[id] = CNode{id: id, Method: m}
		c.Edges[id] = map[int64]bool{}
	}
	for _, e := range cg.Edges() {
		caller, ok := ids[e.CallSite.Method()]
		if !ok {
			continue
		}
		if callee, ok := ids[e.Callee]; ok {
			c.Edges[caller][callee] = true
		}
	}
	sort.Slice(c.Keys, func(i, j int) bool { return c.Keys[i] < c.Keys[j] })
	return c
}

// Subgraph restricts the view to the nodes in include, keeping only the
// edges whose endpoints both survive. Node ids, Order and the underlying
// Graph carry over unchanged.
func Subgraph(original CGraph, include []int64) CGraph {
	sub := CGraph{
		Graph: original.Graph,
		IDMap: original.IDMap,
		Keys:  append([]int64(nil), include...),
		Edges: make(map[int64]map[int64]bool, len(include)),
		order: original.order,
	}
	kept := make(map[int64]bool, len(include))
	for _, id := range include {
		kept[id] = true
	}
	for _, id := range include {
		sub.Edges[id] = map[int64]bool{}
		for succ := range original.Edges[id] {
			if kept[succ] {
				sub.Edges[id][succ] = true
			}
		}
	}
	return sub
}

// Order reports the node count of the original graph, as the yourbasic
// Iterator interface requires.
func (c CGraph) Order() int {
	return c.order
}

// Visit calls do for every successor of v present in this view, with an edge
// cost of one. It reports whether do aborted the walk.
func (c CGraph) Visit(v int, do func(w int, cost int64) (skip bool)) (aborted bool) {
	for w := range c.Edges[int64(v)] {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// Node returns the node with the id v, or the zero node when the view does
// not contain it.
func (c CGraph) Node(v int) graph.Node {
	return c.IDMap[int64(v)]
}

// Nodes returns an iterator over the nodes of this view.
func (c CGraph) Nodes() graph.Nodes {
	return newNodeSet(c.IDMap, c.Keys)
}

// From returns an iterator over the direct successors of id.
func (c CGraph) From(id int64) graph.Nodes {
	succs := make([]int64, 0, len(c.Edges[id]))
	for s := range c.Edges[id] {
		succs = append(succs, s)
	}
	return newNodeSet(c.IDMap, succs)
}

// HasEdgeBetween reports whether an edge connects x and y in either
// direction.
func (c CGraph) HasEdgeBetween(xid, yid int64) bool {
	return c.Edges[xid][yid] || c.Edges[yid][xid]
}

// Edge returns the directed edge from uid to vid, or nil when none exists.
func (c CGraph) Edge(uid, vid int64) graph.Edge {
	if !c.Edges[uid][vid] {
		return nil
	}
	return CEdge{from: c.IDMap[uid], to: c.IDMap[vid]}
}

// CNode is a method together with its dense node id.
type CNode struct {
	id     int64
	Method *lang.Method
}

// ID implements graph.Node.
func (n CNode) ID() int64 {
	return n.id
}

func (n CNode) String() string {
	if n.Method == nil {
		return ""
	}
	return n.Method.Signature()
}

// NodeSet iterates over a fixed set of nodes. It starts before the first
// node, following the Gonum iterator convention.
type NodeSet struct {
	nodes map[int64]CNode
	ids   []int64
	cur   int
}

func newNodeSet(nodes map[int64]CNode, ids []int64) *NodeSet {
	return &NodeSet{nodes: nodes, ids: ids, cur: -1}
}

// Next advances the iterator and reports whether a node is available.
func (ns *NodeSet) Next() bool {
	if ns.cur+1 >= len(ns.ids) {
		return false
	}
	ns.cur++
	return true
}

// Len returns the number of nodes remaining ahead of the iterator.
func (ns *NodeSet) Len() int {
	return len(ns.ids) - ns.cur - 1
}

// Reset rewinds the iterator to before the first node.
func (ns *NodeSet) Reset() {
	ns.cur = -1
}

// Node returns the node the iterator is on.
func (ns *NodeSet) Node() graph.Node {
	return ns.nodes[ns.ids[ns.cur]]
}

// CEdge is a directed edge between two nodes of a CGraph.
type CEdge struct {
	from CNode
	to   CNode
}

// From implements graph.Edge.
func (e CEdge) From() graph.Node {
	return e.from
}

// To implements graph.Edge.
func (e CEdge) To() graph.Node {
	return e.to
}

// ReversedEdge returns the edge with its endpoints swapped.
func (e CEdge) ReversedEdge() graph.Edge {
	return CEdge{from: e.to, to: e.from}
}
