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

package callgraph

import (
	"github.com/awslabs/tac-go-tools/analysis/config"
	"github.com/awslabs/tac-go-tools/analysis/lang"
)

// BuildCHA builds a call graph by class-hierarchy analysis: every virtual
// or interface call site is connected to the matching method of every
// concrete class below the declared receiver type. The result
// over-approximates any run-time call graph; a dispatch that finds no
// target is logged and skipped.
func BuildCHA(p *lang.Program, logger *config.LogGroup) *Graph {
	b := &chaBuilder{
		hierarchy: p.Hierarchy(),
		graph:     New(),
		logger:    logger,
	}
	entry := p.Entry()
	if entry == nil {
		logger.Warnf("cha: program has no entry method")
		return b.graph
	}
	queue := []*lang.Method{entry}
	b.graph.AddReachable(entry)
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		if m.IR() == nil {
			continue
		}
		for _, s := range m.IR().Stmts() {
			call, ok := s.(*lang.Invoke)
			if !ok {
				continue
			}
			for _, callee := range b.resolve(call) {
				b.graph.AddEdge(call.Kind, call, callee)
				if b.graph.AddReachable(callee) {
					queue = append(queue, callee)
				}
			}
		}
	}
	logger.Infof("cha: %d reachable methods, %d edges",
		b.graph.NumMethods(), b.graph.NumEdges())
	return b.graph
}

type chaBuilder struct {
	hierarchy *lang.Hierarchy
	graph     *Graph
	logger    *config.LogGroup
}

// resolve returns the possible callees of the call site in a deterministic
// order.
func (b *chaBuilder) resolve(call *lang.Invoke) []*lang.Method {
	switch call.Kind {
	case lang.CallStatic, lang.CallSpecial:
		if m := b.hierarchy.Dispatch(call.Ref.Class, call.Ref.Subsig); m != nil && !m.IsAbstract() {
			return []*lang.Method{m}
		}
		b.logger.Warnf("cha: no target for %s call %s", call.Kind, call)
		return nil
	case lang.CallVirtual, lang.CallInterface:
		return b.resolveVirtual(call)
	default:
		b.logger.Warnf("cha: unresolvable %s call %s", call.Kind, call)
		return nil
	}
}

// resolveVirtual walks the hierarchy below the declared class breadth-first
// and dispatches the subsignature on every concrete class found. Interfaces
// descend into both sub-interfaces and direct implementors.
func (b *chaBuilder) resolveVirtual(call *lang.Invoke) []*lang.Method {
	var targets []*lang.Method
	added := make(map[*lang.Method]bool)
	visited := map[*lang.Class]bool{call.Ref.Class: true}
	queue := []*lang.Class{call.Ref.Class}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if !c.IsInterface() {
			if m := b.hierarchy.Dispatch(c, call.Ref.Subsig); m != nil && !m.IsAbstract() && !added[m] {
				added[m] = true
				targets = append(targets, m)
			}
		}
		var next []*lang.Class
		if c.IsInterface() {
			next = append(next, b.hierarchy.DirectSubinterfacesOf(c)...)
			next = append(next, b.hierarchy.DirectImplementorsOf(c)...)
		} else {
			next = b.hierarchy.DirectSubclassesOf(c)
		}
		for _, sub := range next {
			if !visited[sub] {
				visited[sub] = true
				queue = append(queue, sub)
			}
		}
	}
	if len(targets) == 0 {
		b.logger.Warnf("cha: no target for %s call %s", call.Kind, call)
	}
	return targets
}
