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

package taint_test

import (
	"strings"
	"testing"

	"github.com/awslabs/tac-go-tools/analysis/config"
	"github.com/awslabs/tac-go-tools/analysis/lang"
	"github.com/awslabs/tac-go-tools/analysis/taint"
)

func quietLogger() *config.LogGroup {
	cfg := config.NewDefault()
	cfg.LogLevel = int(config.ErrLevel)
	return config.NewLogGroup(cfg)
}

// leakProgram routes a secret through a concat helper into a logging sink.
// The concat result is a fresh allocation, so the flow is only visible when
// a transfer record moves taint from the argument to the result.
func leakProgram() *lang.Program {
	b := lang.NewProgramBuilder()
	str := b.RefType("String")
	b.Class("String")
	b.Class("SecretStore").
		StaticMethod("getSecret", str).
		Local("s", str).
		New("s", str).
		ReturnVar("s").
		Done()
	b.Class("StringOps").
		StaticMethod("concat", str).
		Param("a", str).
		Param("b", str).
		Local("r", str).
		New("r", str).
		ReturnVar("r").
		Done()
	b.Class("Log").
		StaticMethod("leak", nil).
		Param("x", str).
		Return().
		Done()
	b.Class("Main").
		StaticMethod("main", nil).
		Local("s", str).
		Local("u", str).
		Local("t", str).
		InvokeStatic("s", "SecretStore", "getSecret()").
		New("u", str).
		InvokeStatic("t", "StringOps", "concat(String,String)", "s", "u").
		InvokeStatic("", "Log", "leak(String)", "t").
		Return().
		Done()
	return b.Entry("Main", "main()").Build()
}

func leakConfig(withTransfer bool) *config.Config {
	conf := config.NewDefault()
	conf.LogLevel = int(config.ErrLevel)
	spec := config.TaintSpec{
		Sources: []config.SourceSpec{{Method: "SecretStore.getSecret()", Type: "String"}},
		Sinks:   []config.SinkSpec{{Method: "Log.leak(String)", Index: 0}},
	}
	if withTransfer {
		spec.Transfers = []config.TransferSpec{{
			Method: "StringOps.concat(String,String)",
			From:   "arg0",
			To:     "result",
			Type:   "String",
		}}
	}
	conf.TaintTrackingProblems = []config.TaintSpec{spec}
	return conf
}

func TestTransferCarriesTaintToSink(t *testing.T) {
	p := leakProgram()
	flows, _, err := taint.Analyze(p, leakConfig(true), quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(flows) != 1 {
		t.Fatalf("got %d flows, want 1", len(flows))
	}
	f := flows[0]
	if f.Index != 0 {
		t.Errorf("flow index = %d, want 0", f.Index)
	}
	if s := f.String(); !strings.Contains(s, "getSecret") || !strings.Contains(s, "leak") {
		t.Errorf("flow %q does not name source and sink", s)
	}
}

func TestNoTransferNoFlow(t *testing.T) {
	p := leakProgram()
	flows, _, err := taint.Analyze(p, leakConfig(false), quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(flows) != 0 {
		t.Fatalf("got %d flows, want 0: the concat result is a fresh allocation", len(flows))
	}
}

func TestDirectFlowNeedsNoTransfer(t *testing.T) {
	b := lang.NewProgramBuilder()
	str := b.RefType("String")
	b.Class("String")
	b.Class("SecretStore").
		StaticMethod("getSecret", str).
		Local("s", str).
		New("s", str).
		ReturnVar("s").
		Done()
	b.Class("Log").
		StaticMethod("leak", nil).
		Param("x", str).
		Return().
		Done()
	b.Class("Main").
		StaticMethod("main", nil).
		Local("s", str).
		InvokeStatic("s", "SecretStore", "getSecret()").
		InvokeStatic("", "Log", "leak(String)", "s").
		Return().
		Done()
	p := b.Entry("Main", "main()").Build()

	flows, res, err := taint.Analyze(p, leakConfig(false), quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(flows) != 1 {
		t.Fatalf("got %d flows, want 1", len(flows))
	}
	if res == nil || res.CallGraph().NumEdges() == 0 {
		t.Error("pointer result missing from the taint run")
	}
}

func TestUnknownRecordIsDroppedNotFatal(t *testing.T) {
	p := leakProgram()
	conf := leakConfig(true)
	conf.TaintTrackingProblems[0].Sources = append(conf.TaintTrackingProblems[0].Sources,
		config.SourceSpec{Method: "Nope.missing()", Type: "String"})
	flows, _, err := taint.Analyze(p, conf, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(flows) != 1 {
		t.Fatalf("got %d flows, want 1", len(flows))
	}
}
