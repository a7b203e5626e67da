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

package taint

import (
	"fmt"
	"strings"

	"github.com/awslabs/tac-go-tools/analysis/config"
	"github.com/awslabs/tac-go-tools/analysis/lang"
)

// records are the taint specs of the configuration resolved against the
// program: method signatures become methods, type names become types. A
// record naming a method or type the program does not declare is logged and
// dropped; the remaining records still run.
type records struct {
	sources   map[*lang.Method]lang.Type
	sinks     map[*lang.Method][]int
	transfers map[*lang.Method][]transfer
}

// transfer is one resolved transfer record: taint in the from slot of a call
// moves to the to slot, retyped to typ.
type transfer struct {
	from int
	to   int
	typ  lang.Type
}

func resolveRecords(p *lang.Program, specs []config.TaintSpec, logger *config.LogGroup) *records {
	r := &records{
		sources:   make(map[*lang.Method]lang.Type),
		sinks:     make(map[*lang.Method][]int),
		transfers: make(map[*lang.Method][]transfer),
	}
	h := p.Hierarchy()
	for _, spec := range specs {
		for _, s := range spec.Sources {
			m := resolveMethod(h, s.Method)
			t := resolveType(h, s.Type)
			if m == nil || t == nil {
				logger.Warnf("taint: dropping source %s: unknown method or type", s.Method)
				continue
			}
			r.sources[m] = t
		}
		for _, s := range spec.Sinks {
			m := resolveMethod(h, s.Method)
			if m == nil {
				logger.Warnf("taint: dropping sink %s: unknown method", s.Method)
				continue
			}
			r.sinks[m] = append(r.sinks[m], s.Index)
		}
		for _, s := range spec.Transfers {
			m := resolveMethod(h, s.Method)
			t := resolveType(h, s.Type)
			if m == nil || t == nil {
				logger.Warnf("taint: dropping transfer %s: unknown method or type", s.Method)
				continue
			}
			from, err1 := config.ParseSlot(s.From)
			to, err2 := config.ParseSlot(s.To)
			if err1 != nil || err2 != nil {
				logger.Warnf("taint: dropping transfer %s: bad slot", s.Method)
				continue
			}
			r.transfers[m] = append(r.transfers[m], transfer{from: from, to: to, typ: t})
		}
	}
	return r
}

// resolveMethod resolves a full signature "Class.name(paramType,...)" to a
// method, dispatching through the superclass chain.
func resolveMethod(h *lang.Hierarchy, sig string) *lang.Method {
	i := strings.IndexByte(sig, '(')
	if i < 0 {
		return nil
	}
	j := strings.LastIndexByte(sig[:i], '.')
	if j < 0 {
		return nil
	}
	c := h.ClassByName(sig[:j])
	if c == nil {
		return nil
	}
	return h.Dispatch(c, lang.Subsignature(sig[j+1:]))
}

// resolveType resolves a type name: a primitive, a declared class, or either
// with "[]" suffixes.
func resolveType(h *lang.Hierarchy, name string) lang.Type {
	dims := 0
	for strings.HasSuffix(name, "[]") {
		name = name[:len(name)-2]
		dims++
	}
	var t lang.Type
	switch name {
	case "byte":
		t = lang.ByteType
	case "short":
		t = lang.ShortType
	case "int":
		t = lang.IntType
	case "char":
		t = lang.CharType
	case "boolean":
		t = lang.BooleanType
	case "long":
		t = lang.LongType
	case "float":
		t = lang.FloatType
	case "double":
		t = lang.DoubleType
	default:
		c := h.ClassByName(name)
		if c == nil {
			return nil
		}
		t = c.Type()
	}
	for ; dims > 0; dims-- {
		t = lang.ArrayType{Elem: t}
	}
	return t
}

// slotVar returns the variable in the given slot of a call, or nil when the
// call has no such slot.
func slotVar(call *lang.Invoke, slot int) *lang.Var {
	switch {
	case slot == config.SlotBase:
		return call.Base
	case slot == config.SlotResult:
		return call.Result
	case slot >= 0 && slot < len(call.Args):
		return call.Args[slot]
	}
	return nil
}

// Flow is one reported taint flow: the taint minted at Source reached the
// Index-th argument of Sink.
type Flow struct {
	Source *lang.Invoke
	Sink   *lang.Invoke
	Index  int
}

func (f Flow) String() string {
	return fmt.Sprintf("%s/%d %s -> %s/%d %s arg %d",
		f.Source.Method().Signature(), f.Source.Index(), f.Source.Ref,
		f.Sink.Method().Signature(), f.Sink.Index(), f.Sink.Ref, f.Index)
}
