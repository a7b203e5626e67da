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

// Plugin observes the solver and may inject additional points-to facts
// through Solver.AddVarPointsTo. The taint overlay is the one shipped
// implementation. All hooks run on the solver goroutine; a plugin never
// mutates solver state directly.
type Plugin interface {
	// OnStart runs once before the fixed point, with the solver fully
	// initialized.
	OnStart(s *Solver)

	// OnNewCallEdge runs whenever a call-graph edge is added.
	OnNewCallEdge(e CSEdge)

	// OnNewPointsTo runs whenever the points-to set of a variable grows;
	// delta holds only the new objects.
	OnNewPointsTo(v *CSVar, delta *PointsToSet)

	// OnFinish runs once after the fixed point is reached.
	OnFinish()
}
