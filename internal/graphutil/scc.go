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

package graphutil

// StronglyConnectedComponents partitions the directed graph spanned by
// nodes and successors into strongly connected components using Tarjan's
// algorithm. Components come out in reverse topological order: a component
// always precedes the components that can reach it, which is the order
// bottom-up summary computations consume.
func StronglyConnectedComponents[T comparable](nodes []T, successors func(T) []T) [][]T {
	t := &tarjan[T]{
		succs:   successors,
		index:   make(map[T]int),
		lowlink: make(map[T]int),
		onStack: make(map[T]bool),
	}
	for _, v := range nodes {
		if _, seen := t.index[v]; !seen {
			t.strongConnect(v)
		}
	}
	return t.sccs
}

type tarjan[T comparable] struct {
	succs   func(T) []T
	counter int
	index   map[T]int
	lowlink map[T]int
	onStack map[T]bool
	stack   []T
	sccs    [][]T
}

func (t *tarjan[T]) strongConnect(v T) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.succs(v) {
		if _, seen := t.index[w]; !seen {
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] && t.index[w] < t.lowlink[v] {
			t.lowlink[v] = t.index[w]
		}
	}

	if t.lowlink[v] != t.index[v] {
		return
	}
	var scc []T
	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false
		scc = append(scc, w)
		if w == v {
			break
		}
	}
	t.sccs = append(t.sccs, scc)
}
