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

package config_test

import (
	"path/filepath"
	"testing"

	"github.com/awslabs/tac-go-tools/analysis/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadYaml(t *testing.T) {
	cfg, err := config.Load(filepath.Join("testdata", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.LogLevel)
	assert.Equal(t, config.PtaCallSite, cfg.PointerAnalysis)
	assert.Equal(t, 2, cfg.ContextDepth)
	require.Len(t, cfg.TaintTrackingProblems, 1)
	p := cfg.TaintTrackingProblems[0]
	require.Len(t, p.Sources, 1)
	assert.Equal(t, "SecretStore.getSecret()", p.Sources[0].Method)
	assert.Equal(t, "String", p.Sources[0].Type)
	require.Len(t, p.Sinks, 1)
	assert.Equal(t, 0, p.Sinks[0].Index)
	require.Len(t, p.Transfers, 1)
	assert.Equal(t, "arg0", p.Transfers[0].From)
	assert.Equal(t, "result", p.Transfers[0].To)
	assert.NotEmpty(t, cfg.SourceFile())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join("testdata", "no-such-config.yaml"))
	assert.Error(t, err)
}

func TestValidateDefaultsContextDepth(t *testing.T) {
	cfg := config.NewDefault()
	cfg.PointerAnalysis = config.PtaObject
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.ContextDepth)
}

func TestValidateRejectsBadOptions(t *testing.T) {
	bad := []func(*config.Config){
		func(c *config.Config) { c.PointerAnalysis = "full-precision" },
		func(c *config.Config) {
			c.TaintTrackingProblems = []config.TaintSpec{{
				Sources: []config.SourceSpec{{Method: "A.f()"}},
			}}
		},
		func(c *config.Config) {
			c.TaintTrackingProblems = []config.TaintSpec{{
				Sinks: []config.SinkSpec{{Method: "A.f(int)", Index: -1}},
			}}
		},
		func(c *config.Config) {
			c.TaintTrackingProblems = []config.TaintSpec{{
				Transfers: []config.TransferSpec{{Method: "A.f()", From: "argX", To: "result", Type: "T"}},
			}}
		},
		func(c *config.Config) {
			c.TaintTrackingProblems = []config.TaintSpec{{
				Transfers: []config.TransferSpec{{Method: "A.f()", From: "base", To: "base", Type: "T"}},
			}}
		},
	}
	for i, mutate := range bad {
		cfg := config.NewDefault()
		mutate(cfg)
		assert.Errorf(t, cfg.Validate(), "case %d", i)
	}
}

func TestParseSlot(t *testing.T) {
	cases := map[string]int{
		"base":   config.SlotBase,
		"result": config.SlotResult,
		"arg0":   0,
		"arg7":   7,
	}
	for in, want := range cases {
		got, err := config.ParseSlot(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	for _, in := range []string{"", "this", "arg", "arg-1", "argx"} {
		_, err := config.ParseSlot(in)
		assert.Errorf(t, err, "slot %q", in)
	}
}
