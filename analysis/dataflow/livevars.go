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

package dataflow

import (
	"github.com/awslabs/tac-go-tools/analysis/cfg"
	"github.com/awslabs/tac-go-tools/analysis/lang"
)

// LiveVariables is the backward may-analysis computing, for every program
// point, the variables whose current value may still be read later. The
// dead-code detector consults its OUT facts to find useless assignments.
type LiveVariables struct{}

// NewLiveVariables returns the live-variable analysis.
func NewLiveVariables() LiveVariables { return LiveVariables{} }

// IsForward reports the direction; live variables is backward.
func (LiveVariables) IsForward() bool { return false }

// NewBoundaryFact returns the fact at the exit node: no variable is live.
func (LiveVariables) NewBoundaryFact(*cfg.Graph) SetFact[*lang.Var] {
	return NewSetFact[*lang.Var]()
}

// NewInitialFact returns the empty set.
func (LiveVariables) NewInitialFact() SetFact[*lang.Var] {
	return NewSetFact[*lang.Var]()
}

// MeetInto unions fact into target.
func (LiveVariables) MeetInto(fact, target SetFact[*lang.Var]) bool {
	return target.UnionWith(fact)
}

// TransferNode computes IN = use(s) ∪ (OUT \ def(s)) and reports whether IN
// changed.
func (LiveVariables) TransferNode(node lang.Stmt, in, out SetFact[*lang.Var]) bool {
	next := out.Copy()
	if d := node.Def(); d != nil {
		next.Remove(d)
	}
	for _, u := range node.Uses() {
		next.Add(u)
	}
	if in.Equals(next) {
		return false
	}
	in.SetTo(next)
	return true
}

// SolveLiveVariables runs live-variable analysis over the method body.
func SolveLiveVariables(g *cfg.Graph) *Result[SetFact[*lang.Var]] {
	return Solve[SetFact[*lang.Var]](NewLiveVariables(), g)
}
