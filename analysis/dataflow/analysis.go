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

// Package dataflow defines the contract intra-procedural dataflow analyses
// implement and the worklist solver that runs them to a fixed point over a
// method's control-flow graph.
package dataflow

import (
	"github.com/awslabs/tac-go-tools/analysis/cfg"
	"github.com/awslabs/tac-go-tools/analysis/lang"
)

// Analysis is a dataflow analysis over facts of type F. Facts are mutable
// values; MeetInto and TransferNode update their target in place and report
// whether it changed.
//
// For a forward analysis TransferNode computes out from in; for a backward
// analysis it computes in from out. The solver only inspects the returned
// change flag, so each analysis writes the side it owns.
type Analysis[F any] interface {
	// IsForward reports the direction of the analysis.
	IsForward() bool

	// NewBoundaryFact returns the fact at the boundary node (entry for
	// forward analyses, exit for backward ones).
	NewBoundaryFact(g *cfg.Graph) F

	// NewInitialFact returns the initial fact of every non-boundary node.
	NewInitialFact() F

	// MeetInto meets fact into target and reports whether target changed.
	MeetInto(fact, target F) bool

	// TransferNode applies the node's transfer function and reports whether
	// the computed fact changed.
	TransferNode(node lang.Stmt, in, out F) bool
}

// Result holds the in and out facts of every node after solving.
type Result[F any] struct {
	in  map[lang.Stmt]F
	out map[lang.Stmt]F
}

// InFact returns the fact flowing into node.
func (r *Result[F]) InFact(node lang.Stmt) F { return r.in[node] }

// OutFact returns the fact flowing out of node.
func (r *Result[F]) OutFact(node lang.Stmt) F { return r.out[node] }
