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

// Package ci runs the context-insensitive pointer analysis: the same solver
// as the context-sensitive variants, with every context the empty one. Its
// results answer the alias queries of the inter-procedural analyses.
package ci

import (
	"github.com/awslabs/tac-go-tools/analysis/config"
	"github.com/awslabs/tac-go-tools/analysis/lang"
	"github.com/awslabs/tac-go-tools/analysis/pointer"
)

// Solve runs the context-insensitive pointer analysis over the program.
func Solve(p *lang.Program, logger *config.LogGroup) *pointer.Result {
	return pointer.NewSolver(p, pointer.NewInsensitiveSelector(), logger).Solve()
}
