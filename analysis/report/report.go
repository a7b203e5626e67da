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

// Package report renders analysis results for human consumption. All output
// is deterministic: statements are ordered by index, variables by
// declaration order, and everything else by name.
package report

import (
	"fmt"
	"io"

	"github.com/awslabs/tac-go-tools/analysis/callgraph"
	"github.com/awslabs/tac-go-tools/analysis/constprop"
	"github.com/awslabs/tac-go-tools/analysis/dataflow"
	"github.com/awslabs/tac-go-tools/analysis/lang"
	"github.com/awslabs/tac-go-tools/analysis/pointer"
	"github.com/awslabs/tac-go-tools/analysis/taint"
	"github.com/awslabs/tac-go-tools/internal/formatutil"
	"github.com/awslabs/tac-go-tools/internal/funcutil"
	"github.com/awslabs/tac-go-tools/internal/graphutil"
)

// WriteDeadCode writes the dead statements of a method, one per line with
// its statement index.
func WriteDeadCode(w io.Writer, m *lang.Method, dead []lang.Stmt) error {
	if _, err := fmt.Fprintf(w, "%s %s: %d dead statements\n",
		formatutil.Yellow("dead code in"), m.Signature(), len(dead)); err != nil {
		return err
	}
	for _, s := range dead {
		if _, err := fmt.Fprintf(w, "  [%d] %s\n", s.Index(), formatutil.SanitizeRepr(s)); err != nil {
			return err
		}
	}
	return nil
}

// WriteConstants writes the constant-propagation out fact of every statement
// of the method, variables in declaration order. Variables bound to UNDEF
// are omitted.
func WriteConstants(w io.Writer, ir *lang.IR, res *dataflow.Result[constprop.Fact]) error {
	if _, err := fmt.Fprintf(w, "%s %s\n",
		formatutil.Bold("constants in"), ir.Method().Signature()); err != nil {
		return err
	}
	for _, s := range ir.Stmts() {
		out := res.OutFact(s)
		var cells []string
		for _, v := range ir.Vars() {
			val := out.Get(v)
			if val.IsUndef() {
				continue
			}
			cells = append(cells, fmt.Sprintf("%s=%s", v, val))
		}
		if _, err := fmt.Fprintf(w, "  [%d] %s  {%s}\n",
			s.Index(), formatutil.SanitizeRepr(s), join(cells)); err != nil {
			return err
		}
	}
	return nil
}

// WriteCallGraph writes every call edge, one per line, in insertion order.
func WriteCallGraph(w io.Writer, cg *callgraph.Graph) error {
	if _, err := fmt.Fprintf(w, "%s: %d methods, %d edges\n",
		formatutil.Bold("call graph"), cg.NumMethods(), cg.NumEdges()); err != nil {
		return err
	}
	for _, e := range cg.Edges() {
		if _, err := fmt.Fprintf(w, "  %s/%d -[%s]-> %s\n",
			e.CallSite.Method().Signature(), e.CallSite.Index(), e.Kind, e.Callee.Signature()); err != nil {
			return err
		}
	}
	return nil
}

// Stats summarizes the shape of a call graph.
type Stats struct {
	Methods int
	Edges   int
	// SCCs is the number of strongly connected components.
	SCCs int
	// Recursive is the number of methods on some call cycle, sorted by
	// signature.
	Recursive []string
	// Cycles is the number of elementary call cycles.
	Cycles int
}

// ComputeStats derives the call-graph statistics. Recursion is detected
// through the strongly connected components: a method is recursive when its
// component has at least two members or it calls itself directly.
func ComputeStats(cg *callgraph.Graph) Stats {
	succs := make(map[*lang.Method][]*lang.Method)
	self := make(map[*lang.Method]bool)
	for _, e := range cg.Edges() {
		caller := e.CallSite.Method()
		succs[caller] = append(succs[caller], e.Callee)
		if caller == e.Callee {
			self[caller] = true
		}
	}
	sccs := graphutil.StronglyConnectedComponents(cg.ReachableMethods(),
		func(m *lang.Method) []*lang.Method { return succs[m] })

	recursive := make(map[string]bool)
	for _, scc := range sccs {
		for _, m := range scc {
			if len(scc) > 1 || self[m] {
				recursive[m.Signature()] = true
			}
		}
	}

	it := graphutil.NewCallgraphIterator(cg)
	return Stats{
		Methods:   it.Nodes().Len(),
		Edges:     cg.NumEdges(),
		SCCs:      len(sccs),
		Recursive: funcutil.SetToOrderedSlice(recursive),
		Cycles:    len(graphutil.FindAllElementaryCycles(it)),
	}
}

// WriteStats writes the call-graph statistics.
func WriteStats(w io.Writer, cg *callgraph.Graph) error {
	st := ComputeStats(cg)
	_, err := fmt.Fprintf(w, "%s: %d methods, %d edges, %d SCCs, %d cycles, recursive: {%s}\n",
		formatutil.Bold("call graph stats"), st.Methods, st.Edges, st.SCCs, st.Cycles,
		join(st.Recursive))
	return err
}

// WritePointsTo writes the context-collapsed points-to set of every
// reference variable the analysis saw, in first-seen order. Empty sets are
// omitted.
func WritePointsTo(w io.Writer, res *pointer.Result) error {
	if _, err := fmt.Fprintf(w, "%s\n", formatutil.Bold("points-to sets")); err != nil {
		return err
	}
	for _, v := range res.Vars() {
		pts := res.PointsTo(v)
		if pts.IsEmpty() {
			continue
		}
		if _, err := fmt.Fprintf(w, "  %s -> %s\n",
			v, formatutil.SanitizeRepr(pts)); err != nil {
			return err
		}
	}
	return nil
}

// WriteTaintFlows writes the taint flows, already sorted by the analysis.
// Flows are highlighted since they are the findings the user is after.
func WriteTaintFlows(w io.Writer, flows []taint.Flow) error {
	if _, err := fmt.Fprintf(w, "%s: %d\n", formatutil.Bold("taint flows"), len(flows)); err != nil {
		return err
	}
	lines := funcutil.Map(flows, func(f taint.Flow) string { return f.String() })
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "  %s\n", formatutil.Red(formatutil.Sanitize(l))); err != nil {
			return err
		}
	}
	return nil
}

func join(cells []string) string {
	var out string
	for i, c := range cells {
		if i > 0 {
			out += ", "
		}
		out += c
	}
	return out
}
