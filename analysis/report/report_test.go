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

package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/awslabs/tac-go-tools/analysis/callgraph"
	"github.com/awslabs/tac-go-tools/analysis/cfg"
	"github.com/awslabs/tac-go-tools/analysis/config"
	"github.com/awslabs/tac-go-tools/analysis/constprop"
	"github.com/awslabs/tac-go-tools/analysis/deadcode"
	"github.com/awslabs/tac-go-tools/analysis/lang"
	"github.com/awslabs/tac-go-tools/analysis/pointer/ci"
	"github.com/awslabs/tac-go-tools/analysis/report"
	"github.com/awslabs/tac-go-tools/analysis/taint"
	"github.com/stretchr/testify/require"
)

func buildProgram(t *testing.T) *lang.Program {
	t.Helper()
	b := lang.NewProgramBuilder()
	b.Class("Main").
		StaticMethod("main", nil).
		Local("x", lang.IntType).
		Local("y", lang.IntType).
		Local("o", b.RefType("Main")).
		AssignLit("x", 1).
		Binary("y", "x", lang.OpAdd, "x").
		NewObj("o", "Main").
		InvokeStatic("", "Main", "helper()").
		Return().
		Done().
		StaticMethod("helper", nil).
		InvokeStatic("", "Main", "helper()").
		Return().
		Done()
	return b.Entry("Main", "main()").Build()
}

func quietLogger() *config.LogGroup {
	cfg := config.NewDefault()
	cfg.LogLevel = int(config.ErrLevel)
	return config.NewLogGroup(cfg)
}

func TestWriteConstantsAndDeadCode(t *testing.T) {
	p := buildProgram(t)
	ir := p.Entry().IR()
	g := cfg.New(ir)
	cp := constprop.SolveMethod(g)

	var buf bytes.Buffer
	require.NoError(t, report.WriteConstants(&buf, ir, cp))
	require.Contains(t, buf.String(), "x=1")
	require.Contains(t, buf.String(), "y=2")

	buf.Reset()
	dead := deadcode.Analyze(ir)
	require.NoError(t, report.WriteDeadCode(&buf, ir.Method(), dead))
	require.Contains(t, buf.String(), "dead code in Main.main()")
}

func TestWriteCallGraphAndStats(t *testing.T) {
	p := buildProgram(t)
	cg := callgraph.BuildCHA(p, quietLogger())

	var buf bytes.Buffer
	require.NoError(t, report.WriteCallGraph(&buf, cg))
	require.Contains(t, buf.String(), "Main.main()/3 -[STATIC]-> Main.helper()")

	st := report.ComputeStats(cg)
	require.Equal(t, 2, st.Methods)
	require.Equal(t, 2, st.Edges)
	require.Equal(t, 1, st.Cycles)
	require.Equal(t, []string{"Main.helper()"}, st.Recursive)

	buf.Reset()
	require.NoError(t, report.WriteStats(&buf, cg))
	require.Contains(t, buf.String(), "2 methods, 2 edges")
}

func TestWritePointsTo(t *testing.T) {
	p := buildProgram(t)
	res := ci.Solve(p, quietLogger())

	var buf bytes.Buffer
	require.NoError(t, report.WritePointsTo(&buf, res))
	out := buf.String()
	require.Contains(t, out, "o ->")
	require.True(t, strings.Contains(out, "new Main"), out)
}

func TestWriteTaintFlows(t *testing.T) {
	p := buildProgram(t)
	var calls []*lang.Invoke
	for _, s := range p.Entry().IR().Stmts() {
		if c, ok := s.(*lang.Invoke); ok {
			calls = append(calls, c)
		}
	}
	require.NotEmpty(t, calls)
	flows := []taint.Flow{{Source: calls[0], Sink: calls[0], Index: 0}}

	var buf bytes.Buffer
	require.NoError(t, report.WriteTaintFlows(&buf, flows))
	require.Contains(t, buf.String(), "taint flows: 1")
	require.Contains(t, buf.String(), "arg 0")
}
