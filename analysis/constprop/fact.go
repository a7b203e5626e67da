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

package constprop

import (
	"sort"
	"strings"

	"github.com/awslabs/tac-go-tools/analysis/lang"
)

// Fact maps variables to their lattice value at a program point. A variable
// absent from the map is UNDEF, so the zero-size fact is the bottom of the
// pointwise lattice.
type Fact map[*lang.Var]Value

// NewFact returns an empty fact.
func NewFact() Fact { return make(Fact) }

// Get returns the value of v, UNDEF when unbound.
func (f Fact) Get(v *lang.Var) Value {
	if val, ok := f[v]; ok {
		return val
	}
	return Undef()
}

// Update binds v to val and reports whether the fact changed. Binding a
// variable to UNDEF removes it, preserving the absent-means-UNDEF
// convention.
func (f Fact) Update(v *lang.Var, val Value) bool {
	old, bound := f[v]
	if val.IsUndef() {
		if !bound {
			return false
		}
		delete(f, v)
		return true
	}
	if bound && old == val {
		return false
	}
	f[v] = val
	return true
}

// Remove deletes the binding of v.
func (f Fact) Remove(v *lang.Var) { delete(f, v) }

// Copy returns a fresh fact with the same bindings.
func (f Fact) Copy() Fact {
	c := make(Fact, len(f))
	for v, val := range f {
		c[v] = val
	}
	return c
}

// SetTo replaces the contents of f with those of other.
func (f Fact) SetTo(other Fact) {
	for v := range f {
		delete(f, v)
	}
	for v, val := range other {
		f[v] = val
	}
}

// Equals reports whether f and other bind the same variables to the same
// values.
func (f Fact) Equals(other Fact) bool {
	if len(f) != len(other) {
		return false
	}
	for v, val := range f {
		if o, ok := other[v]; !ok || o != val {
			return false
		}
	}
	return true
}

// MeetInto meets every binding of fact into f pointwise and reports whether
// f changed.
func (f Fact) MeetInto(fact Fact) bool {
	changed := false
	for v, val := range fact {
		if f.Update(v, f.Get(v).Meet(val)) {
			changed = true
		}
	}
	return changed
}

func (f Fact) String() string {
	vars := make([]*lang.Var, 0, len(f))
	for v := range f {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Index() < vars[j].Index() })
	var b strings.Builder
	b.WriteByte('{')
	for i, v := range vars {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.Name())
		b.WriteByte('=')
		b.WriteString(f[v].String())
	}
	b.WriteByte('}')
	return b.String()
}
