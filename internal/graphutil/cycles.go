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

import (
	"sort"

	"github.com/yourbasic/graph"
)

// FindAllElementaryCycles returns every elementary cycle of the graph, each
// as its node-id sequence with the start node repeated at the end. The
// enumeration follows Johnson's algorithm ("Finding All The Elementary
// Circuits of a Directed Graph", 1975): process nodes in id order,
// restrict the search to the strongly connected components of the
// remaining nodes, and walk circuits with a blocked set.
func FindAllElementaryCycles(cg CGraph) [][]int64 {
	j := &johnson{}
	for start := 0; start < len(cg.Keys); {
		sub := Subgraph(cg, cg.Keys[start:])
		least := -1
		for _, comp := range graph.StrongComponents(sub) {
			sort.Ints(comp)
			if v := int64(comp[0]); len(comp) < 2 && !sub.Edges[v][v] {
				continue
			}
			if least < 0 || comp[0] < least {
				least = comp[0]
			}
		}
		if least < 0 {
			break
		}
		root := int64(least)
		j.path = nil
		j.blocked = map[int64]bool{}
		j.unblockOn = map[int64]map[int64]bool{}
		j.circuit(root, root, sub)
		start = least + 1
	}
	return j.cycles
}

type johnson struct {
	blocked   map[int64]bool
	unblockOn map[int64]map[int64]bool
	path      []int64
	cycles    [][]int64
}

// circuit extends the current path with v and reports whether some circuit
// through root was closed below it.
func (j *johnson) circuit(v, root int64, g CGraph) bool {
	j.path = append(j.path, v)
	j.blocked[v] = true
	closed := false
	for w := range g.Edges[v] {
		if w == root {
			cycle := make([]int64, len(j.path), len(j.path)+1)
			copy(cycle, j.path)
			j.cycles = append(j.cycles, append(cycle, root))
			closed = true
		} else if !j.blocked[w] && j.circuit(w, root, g) {
			closed = true
		}
	}
	if closed {
		j.unblock(v)
	} else {
		for w := range g.Edges[v] {
			if j.unblockOn[w] == nil {
				j.unblockOn[w] = map[int64]bool{}
			}
			j.unblockOn[w][v] = true
		}
	}
	j.path = j.path[:len(j.path)-1]
	return closed
}

func (j *johnson) unblock(v int64) {
	j.blocked[v] = false
	for w := range j.unblockOn[v] {
		if j.blocked[w] {
			j.unblock(w)
		}
	}
}
