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

// Package cs runs the context-sensitive pointer analysis. The variant and the
// context depth come from the configuration; overlays such as taint tracking
// attach as solver plugins.
package cs

import (
	"fmt"

	"github.com/awslabs/tac-go-tools/analysis/config"
	"github.com/awslabs/tac-go-tools/analysis/lang"
	"github.com/awslabs/tac-go-tools/analysis/pointer"
)

// NewSelector returns the context selector of the configured variant.
func NewSelector(cfg *config.Config) (pointer.Selector, error) {
	k := cfg.ContextDepth
	switch cfg.PointerAnalysis {
	case "", config.PtaInsensitive:
		return pointer.NewInsensitiveSelector(), nil
	case config.PtaCallSite:
		return pointer.NewCallSiteSelector(k), nil
	case config.PtaObject:
		return pointer.NewObjectSelector(k), nil
	case config.PtaType:
		return pointer.NewTypeSelector(k), nil
	}
	return nil, fmt.Errorf("unknown pointer analysis %q", cfg.PointerAnalysis)
}

// Solve runs the configured pointer analysis over the program with the given
// plugins attached.
func Solve(p *lang.Program, cfg *config.Config, logger *config.LogGroup, plugins ...pointer.Plugin) (*pointer.Result, error) {
	sel, err := NewSelector(cfg)
	if err != nil {
		return nil, err
	}
	return pointer.NewSolver(p, sel, logger, plugins...).Solve(), nil
}
