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

package cfg

import (
	"github.com/awslabs/tac-go-tools/analysis/callgraph"
	"github.com/awslabs/tac-go-tools/analysis/lang"
)

// ICFGEdgeKind classifies an inter-procedural control-flow edge.
type ICFGEdgeKind int

const (
	// ICFGNormal is an intra-procedural edge not touching a call site.
	ICFGNormal ICFGEdgeKind = iota
	// ICFGCall connects a call site to a callee's entry node.
	ICFGCall
	// ICFGCallToReturn connects a call site to its return site within the
	// caller, carrying the local state around the call.
	ICFGCallToReturn
	// ICFGReturn connects a callee's exit node back to a return site.
	ICFGReturn
)

func (k ICFGEdgeKind) String() string {
	switch k {
	case ICFGNormal:
		return "NORMAL"
	case ICFGCall:
		return "CALL"
	case ICFGCallToReturn:
		return "CALL_TO_RETURN"
	case ICFGReturn:
		return "RETURN"
	}
	return "?"
}

// ICFGEdge is a directed edge of the inter-procedural control-flow graph.
// CallSite is set on Call, CallToReturn and Return edges; Callee only on
// Call edges.
type ICFGEdge struct {
	Kind     ICFGEdgeKind
	Source   lang.Stmt
	Target   lang.Stmt
	CallSite *lang.Invoke
	Callee   *lang.Method
}

// ICFG stitches the control-flow graphs of the call graph's reachable
// methods together along its call edges. An invocation with at least one
// resolved callee becomes a call node: its fall-through edges turn into
// call-to-return edges and it gains call and return edges per callee.
type ICFG struct {
	cg     *callgraph.Graph
	entry  *lang.Method
	graphs map[*lang.Method]*Graph

	methods []*lang.Method
	nodes   []lang.Stmt
	out     map[lang.Stmt][]ICFGEdge
	in      map[lang.Stmt][]ICFGEdge
}

// NewICFG builds the inter-procedural graph over the call graph, rooted at
// the entry method. Abstract reachable methods contribute no nodes.
func NewICFG(cg *callgraph.Graph, entry *lang.Method) *ICFG {
	g := &ICFG{
		cg:     cg,
		entry:  entry,
		graphs: make(map[*lang.Method]*Graph),
		out:    make(map[lang.Stmt][]ICFGEdge),
		in:     make(map[lang.Stmt][]ICFGEdge),
	}
	for _, m := range cg.ReachableMethods() {
		if m.IR() == nil {
			continue
		}
		mg := New(m.IR())
		g.graphs[m] = mg
		g.methods = append(g.methods, m)
		g.nodes = append(g.nodes, mg.Nodes()...)
	}
	for _, m := range g.methods {
		g.stitch(g.graphs[m])
	}
	return g
}

func (g *ICFG) addEdge(e ICFGEdge) {
	g.out[e.Source] = append(g.out[e.Source], e)
	g.in[e.Target] = append(g.in[e.Target], e)
}

func (g *ICFG) stitch(mg *Graph) {
	for _, s := range mg.Nodes() {
		call, _ := s.(*lang.Invoke)
		var callees []callgraph.Edge
		if call != nil {
			callees = g.cg.CalleesOf(call)
		}
		if len(callees) == 0 {
			for _, e := range mg.OutEdgesOf(s) {
				g.addEdge(ICFGEdge{Kind: ICFGNormal, Source: e.Source, Target: e.Target})
			}
			continue
		}
		for _, ce := range callees {
			if cg := g.graphs[ce.Callee]; cg != nil {
				g.addEdge(ICFGEdge{
					Kind:     ICFGCall,
					Source:   s,
					Target:   cg.Entry(),
					CallSite: call,
					Callee:   ce.Callee,
				})
			}
		}
		for _, e := range mg.OutEdgesOf(s) {
			g.addEdge(ICFGEdge{
				Kind:     ICFGCallToReturn,
				Source:   s,
				Target:   e.Target,
				CallSite: call,
			})
			for _, ce := range callees {
				if cg := g.graphs[ce.Callee]; cg != nil {
					g.addEdge(ICFGEdge{
						Kind:     ICFGReturn,
						Source:   cg.Exit(),
						Target:   e.Target,
						CallSite: call,
					})
				}
			}
		}
	}
}

// CallGraph returns the call graph the ICFG was built over.
func (g *ICFG) CallGraph() *callgraph.Graph { return g.cg }

// EntryMethod returns the entry method of the graph.
func (g *ICFG) EntryMethod() *lang.Method { return g.entry }

// EntryNode returns the synthetic entry node of the entry method, nil when
// the entry method has no body.
func (g *ICFG) EntryNode() lang.Stmt {
	if mg := g.graphs[g.entry]; mg != nil {
		return mg.Entry()
	}
	return nil
}

// Methods returns the stitched methods in call-graph discovery order.
func (g *ICFG) Methods() []*lang.Method { return g.methods }

// GraphOf returns the intra-procedural graph of m, nil when m was not
// stitched.
func (g *ICFG) GraphOf(m *lang.Method) *Graph { return g.graphs[m] }

// Nodes returns every node, grouped by method in discovery order.
func (g *ICFG) Nodes() []lang.Stmt { return g.nodes }

// OutEdgesOf returns the outgoing edges of s in build order.
func (g *ICFG) OutEdgesOf(s lang.Stmt) []ICFGEdge { return g.out[s] }

// InEdgesOf returns the incoming edges of s in build order.
func (g *ICFG) InEdgesOf(s lang.Stmt) []ICFGEdge { return g.in[s] }

// IsCallNode reports whether s is an invocation with at least one resolved
// callee.
func (g *ICFG) IsCallNode(s lang.Stmt) bool {
	call, ok := s.(*lang.Invoke)
	return ok && len(g.cg.CalleesOf(call)) > 0
}
