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

// Package config implements the yaml configuration of the analyses: which
// pointer-analysis variant to run, how deep its contexts are, the logging
// level, and the taint problems (sources, sinks and transfers) the taint
// overlay checks.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pointer-analysis variant identifiers accepted in PointerAnalysis.
const (
	PtaInsensitive = "ci"
	PtaCallSite    = "callsite"
	PtaObject      = "object"
	PtaType        = "type"
)

// Config holds the options of an analysis run. Private fields are not
// populated from the yaml file but computed after loading.
type Config struct {
	// LogLevel controls the verbosity of the LogGroup built from this
	// config. Defaults to InfoLevel when unset.
	LogLevel int `yaml:"log-level"`

	// PointerAnalysis selects the pointer-analysis variant: one of
	// "ci", "callsite", "object" or "type".
	PointerAnalysis string `yaml:"pointer-analysis"`

	// ContextDepth is the k of the k-limited context-sensitive variants.
	// Ignored for "ci"; defaults to 1 otherwise.
	ContextDepth int `yaml:"context-depth"`

	// TaintTrackingProblems lists the taint problems to check during the
	// context-sensitive pointer analysis.
	TaintTrackingProblems []TaintSpec `yaml:"taint-tracking-problems"`

	sourceFile string
}

// TaintSpec is one taint problem: where taint enters, how it moves through
// methods that are not analyzed, and where it must not arrive.
type TaintSpec struct {
	Sources   []SourceSpec   `yaml:"sources"`
	Sinks     []SinkSpec     `yaml:"sinks"`
	Transfers []TransferSpec `yaml:"transfers"`
}

// SourceSpec declares a method whose result is tainted. Method is a full
// signature "Class.name(paramType,...)"; Type is the type of the minted
// taint object.
type SourceSpec struct {
	Method string `yaml:"method"`
	Type   string `yaml:"type"`
}

// SinkSpec declares a sensitive argument position of a method.
type SinkSpec struct {
	Method string `yaml:"method"`
	Index  int    `yaml:"index"`
}

// TransferSpec declares that calling Method moves taint from the From slot
// to the To slot, retyping it to Type. Slots are "base", "result" or "argN".
type TransferSpec struct {
	Method string `yaml:"method"`
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Type   string `yaml:"type"`
}

// Slot positions of taint transfers. Argument slots are non-negative
// indices; the receiver and the result use negative sentinels.
const (
	SlotBase   = -1
	SlotResult = -2
)

// ParseSlot converts the textual slot of a transfer spec into its index
// form: SlotBase, SlotResult, or the argument index.
func ParseSlot(s string) (int, error) {
	switch {
	case s == "base":
		return SlotBase, nil
	case s == "result":
		return SlotResult, nil
	case strings.HasPrefix(s, "arg"):
		i, err := strconv.Atoi(s[len("arg"):])
		if err != nil || i < 0 {
			return 0, fmt.Errorf("invalid argument slot %q", s)
		}
		return i, nil
	}
	return 0, fmt.Errorf("invalid slot %q (want base, result or argN)", s)
}

// NewDefault returns a config with the default options: info logging and
// the context-insensitive pointer analysis.
func NewDefault() *Config {
	return &Config{
		LogLevel:        int(InfoLevel),
		PointerAnalysis: PtaInsensitive,
	}
}

// Load reads a configuration from a yaml file. A file that cannot be read
// or parsed, or that declares malformed taint records, is a configuration
// error and aborts initialization.
func Load(filename string) (*Config, error) {
	cfg := NewDefault()
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file %s: %w", filename, err)
	}
	cfg.sourceFile = filename
	if cfg.LogLevel == 0 {
		cfg.LogLevel = int(InfoLevel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the option values and the taint records.
func (c *Config) Validate() error {
	switch c.PointerAnalysis {
	case "", PtaInsensitive, PtaCallSite, PtaObject, PtaType:
	default:
		return fmt.Errorf("unknown pointer analysis %q", c.PointerAnalysis)
	}
	if c.PointerAnalysis != "" && c.PointerAnalysis != PtaInsensitive && c.ContextDepth <= 0 {
		c.ContextDepth = 1
	}
	for _, p := range c.TaintTrackingProblems {
		for _, s := range p.Sources {
			if s.Method == "" || s.Type == "" {
				return fmt.Errorf("taint source needs method and type, got %+v", s)
			}
		}
		for _, s := range p.Sinks {
			if s.Method == "" || s.Index < 0 {
				return fmt.Errorf("taint sink needs method and a non-negative index, got %+v", s)
			}
		}
		for _, t := range p.Transfers {
			if t.Method == "" || t.Type == "" {
				return fmt.Errorf("taint transfer needs method and type, got %+v", t)
			}
			if _, err := ParseSlot(t.From); err != nil {
				return fmt.Errorf("taint transfer for %s: %w", t.Method, err)
			}
			if _, err := ParseSlot(t.To); err != nil {
				return fmt.Errorf("taint transfer for %s: %w", t.Method, err)
			}
			if t.From == t.To {
				return fmt.Errorf("taint transfer for %s moves %s to itself", t.Method, t.From)
			}
		}
	}
	return nil
}

// SourceFile returns the path the config was loaded from, empty for
// programmatically built configs.
func (c *Config) SourceFile() string { return c.sourceFile }
