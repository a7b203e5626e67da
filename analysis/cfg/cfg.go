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

// Package cfg builds control-flow graphs over the lang IR: intra-procedural
// graphs with one node per statement plus synthetic entry and exit nodes,
// and the inter-procedural graph stitching method CFGs together along call
// edges.
package cfg

import (
	"github.com/awslabs/tac-go-tools/analysis/lang"
)

// EdgeKind classifies an intra-procedural control-flow edge.
type EdgeKind int

const (
	// EdgeEntry connects the synthetic entry node to the first statement.
	EdgeEntry EdgeKind = iota
	// EdgeFallThrough is sequential flow to the next statement.
	EdgeFallThrough
	// EdgeGoto is an unconditional jump.
	EdgeGoto
	// EdgeIfTrue is taken when an If condition holds.
	EdgeIfTrue
	// EdgeIfFalse is taken when an If condition does not hold.
	EdgeIfFalse
	// EdgeSwitchCase is taken when the switch key equals CaseValue.
	EdgeSwitchCase
	// EdgeSwitchDefault is taken when no case matches.
	EdgeSwitchDefault
	// EdgeReturn connects a return statement to the synthetic exit node.
	EdgeReturn
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeEntry:
		return "ENTRY"
	case EdgeFallThrough:
		return "FALL_THROUGH"
	case EdgeGoto:
		return "GOTO"
	case EdgeIfTrue:
		return "IF_TRUE"
	case EdgeIfFalse:
		return "IF_FALSE"
	case EdgeSwitchCase:
		return "SWITCH_CASE"
	case EdgeSwitchDefault:
		return "SWITCH_DEFAULT"
	case EdgeReturn:
		return "RETURN"
	}
	return "?"
}

// Edge is a directed control-flow edge. CaseValue is meaningful only for
// EdgeSwitchCase edges.
type Edge struct {
	Kind      EdgeKind
	Source    lang.Stmt
	Target    lang.Stmt
	CaseValue int32
}

// Graph is the control-flow graph of one method. Nodes are the statements of
// the method's IR plus a synthetic entry and exit Nop with negative indices.
type Graph struct {
	ir    *lang.IR
	entry lang.Stmt
	exit  lang.Stmt
	nodes []lang.Stmt
	out   map[lang.Stmt][]Edge
	in    map[lang.Stmt][]Edge
}

// New builds the control-flow graph of the given method body.
func New(ir *lang.IR) *Graph {
	g := &Graph{
		ir:    ir,
		entry: lang.NewSyntheticNop(ir.Method(), -1),
		exit:  lang.NewSyntheticNop(ir.Method(), -2),
		out:   make(map[lang.Stmt][]Edge),
		in:    make(map[lang.Stmt][]Edge),
	}
	g.nodes = append(g.nodes, g.entry)
	for _, s := range ir.Stmts() {
		g.nodes = append(g.nodes, s)
	}
	g.nodes = append(g.nodes, g.exit)
	g.buildEdges()
	return g
}

func (g *Graph) addEdge(e Edge) {
	g.out[e.Source] = append(g.out[e.Source], e)
	g.in[e.Target] = append(g.in[e.Target], e)
}

func (g *Graph) buildEdges() {
	stmts := g.ir.Stmts()
	if len(stmts) == 0 {
		g.addEdge(Edge{Kind: EdgeEntry, Source: g.entry, Target: g.exit})
		return
	}
	g.addEdge(Edge{Kind: EdgeEntry, Source: g.entry, Target: stmts[0]})
	for i, s := range stmts {
		next := g.exit
		if i+1 < len(stmts) {
			next = stmts[i+1]
		}
		switch s := s.(type) {
		case *lang.If:
			g.addEdge(Edge{Kind: EdgeIfTrue, Source: s, Target: s.Target})
			g.addEdge(Edge{Kind: EdgeIfFalse, Source: s, Target: next})
		case *lang.Goto:
			g.addEdge(Edge{Kind: EdgeGoto, Source: s, Target: s.Target})
		case *lang.Switch:
			for j, t := range s.CaseTargets {
				g.addEdge(Edge{
					Kind:      EdgeSwitchCase,
					Source:    s,
					Target:    t,
					CaseValue: s.CaseValues[j],
				})
			}
			g.addEdge(Edge{Kind: EdgeSwitchDefault, Source: s, Target: s.DefaultTarget})
		case *lang.Return:
			g.addEdge(Edge{Kind: EdgeReturn, Source: s, Target: g.exit})
		default:
			g.addEdge(Edge{Kind: EdgeFallThrough, Source: s, Target: next})
		}
	}
}

// IR returns the method body the graph was built from.
func (g *Graph) IR() *lang.IR { return g.ir }

// Method returns the method the graph belongs to.
func (g *Graph) Method() *lang.Method { return g.ir.Method() }

// Entry returns the synthetic entry node.
func (g *Graph) Entry() lang.Stmt { return g.entry }

// Exit returns the synthetic exit node.
func (g *Graph) Exit() lang.Stmt { return g.exit }

// IsEntry reports whether s is the synthetic entry node.
func (g *Graph) IsEntry(s lang.Stmt) bool { return s == g.entry }

// IsExit reports whether s is the synthetic exit node.
func (g *Graph) IsExit(s lang.Stmt) bool { return s == g.exit }

// Nodes returns entry, the statements in index order, then exit.
func (g *Graph) Nodes() []lang.Stmt { return g.nodes }

// OutEdgesOf returns the outgoing edges of s in build order.
func (g *Graph) OutEdgesOf(s lang.Stmt) []Edge { return g.out[s] }

// InEdgesOf returns the incoming edges of s in build order.
func (g *Graph) InEdgesOf(s lang.Stmt) []Edge { return g.in[s] }

// SuccsOf returns the successor nodes of s.
func (g *Graph) SuccsOf(s lang.Stmt) []lang.Stmt {
	edges := g.out[s]
	succs := make([]lang.Stmt, len(edges))
	for i, e := range edges {
		succs[i] = e.Target
	}
	return succs
}

// PredsOf returns the predecessor nodes of s.
func (g *Graph) PredsOf(s lang.Stmt) []lang.Stmt {
	edges := g.in[s]
	preds := make([]lang.Stmt, len(edges))
	for i, e := range edges {
		preds[i] = e.Source
	}
	return preds
}
