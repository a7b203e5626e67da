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

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/awslabs/tac-go-tools/analysis/callgraph"
	"github.com/awslabs/tac-go-tools/analysis/cfg"
	"github.com/awslabs/tac-go-tools/analysis/config"
	"github.com/awslabs/tac-go-tools/analysis/constprop"
	"github.com/awslabs/tac-go-tools/analysis/deadcode"
	"github.com/awslabs/tac-go-tools/analysis/interproc"
	"github.com/awslabs/tac-go-tools/analysis/lang"
	"github.com/awslabs/tac-go-tools/analysis/pointer"
	"github.com/awslabs/tac-go-tools/analysis/pointer/ci"
	"github.com/awslabs/tac-go-tools/analysis/pointer/cs"
	"github.com/awslabs/tac-go-tools/analysis/report"
	"github.com/awslabs/tac-go-tools/analysis/taint"
)

var configPath = flag.String("config", "", "path to a yaml configuration file")

const usage = `Run the analysis pipeline over the built-in demo program.
Usage:
    tacanalyzer [options]
Examples:
% tacanalyzer -config config.yaml
Run without a config to use the default taint problem.
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	conf := defaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not load config %s: %v\n", *configPath, err)
			os.Exit(2)
		}
		conf = loaded
	}
	if err := conf.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(2)
	}
	logger := config.NewLogGroup(conf)

	if err := run(conf, logger); err != nil {
		logger.Errorf("analysis failed: %v", err)
		os.Exit(1)
	}
}

func run(conf *config.Config, logger *config.LogGroup) error {
	p := buildDemoProgram()
	out := os.Stdout

	cg := callgraph.BuildCHA(p, logger)
	if err := report.WriteCallGraph(out, cg); err != nil {
		return err
	}
	if err := report.WriteStats(out, cg); err != nil {
		return err
	}

	for _, m := range cg.ReachableMethods() {
		ir := m.IR()
		if ir == nil {
			continue
		}
		g := cfg.New(ir)
		cp := constprop.SolveMethod(g)
		if err := report.WriteConstants(out, ir, cp); err != nil {
			return err
		}
		if dead := deadcode.Analyze(ir); len(dead) > 0 {
			if err := report.WriteDeadCode(out, m, dead); err != nil {
				return err
			}
		}
	}

	flows, pta, err := solvePointerAndTaint(p, conf, logger)
	if err != nil {
		return err
	}
	if err := report.WritePointsTo(out, pta); err != nil {
		return err
	}
	if err := report.WriteTaintFlows(out, flows); err != nil {
		return err
	}

	icfg := cfg.NewICFG(pta.CallGraph(), p.Entry())
	interproc.SolveConstProp(icfg, pta, logger)
	return nil
}

// solvePointerAndTaint runs the taint overlay when the config declares taint
// problems; the overlay rides the context-sensitive solver, so the pointer
// result comes for free. Otherwise only the configured pointer analysis runs.
func solvePointerAndTaint(p *lang.Program, conf *config.Config, logger *config.LogGroup) ([]taint.Flow, *pointer.Result, error) {
	if len(conf.TaintTrackingProblems) > 0 {
		return taint.Analyze(p, conf, logger)
	}
	if conf.PointerAnalysis == config.PtaInsensitive || conf.PointerAnalysis == "" {
		return nil, ci.Solve(p, logger), nil
	}
	res, err := cs.Solve(p, conf, logger)
	return nil, res, err
}

func defaultConfig() *config.Config {
	conf := config.NewDefault()
	conf.TaintTrackingProblems = []config.TaintSpec{{
		Sources: []config.SourceSpec{{Method: "SecretStore.getSecret()", Type: "String"}},
		Sinks:   []config.SinkSpec{{Method: "Log.leak(String)", Index: 0}},
		Transfers: []config.TransferSpec{{
			Method: "StringOps.concat(String,String)",
			From:   "arg0",
			To:     "result",
			Type:   "String",
		}},
	}}
	return conf
}
