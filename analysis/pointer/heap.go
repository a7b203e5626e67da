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

import "github.com/awslabs/tac-go-tools/analysis/lang"

// Obj is an abstract heap object. Objects produced by the allocation-site
// heap model are identified by their New statement; synthetic objects
// (taint seeds and similar overlay artifacts) are identified by the entity
// that minted them.
type Obj struct {
	site   *lang.New
	entity any
	typ    lang.Type
}

// Site returns the allocation site, nil for synthetic objects.
func (o *Obj) Site() *lang.New { return o.site }

// Entity returns the identity of a synthetic object, nil for allocation
// sites.
func (o *Obj) Entity() any { return o.entity }

// IsSynthetic reports whether the object was minted by an overlay rather
// than a New statement.
func (o *Obj) IsSynthetic() bool { return o.site == nil }

// Type returns the run-time type of the object.
func (o *Obj) Type() lang.Type { return o.typ }

func (o *Obj) String() string {
	if o.site != nil {
		return "new " + o.typ.String() + "/" + o.site.Method().Signature()
	}
	if s, ok := o.entity.(interface{ String() string }); ok {
		return s.String()
	}
	return "synthetic " + o.typ.String()
}

// heapModel implements allocation-site abstraction: one Obj per New
// statement, plus interned synthetic objects keyed by (entity, type).
type heapModel struct {
	bySite   map[*lang.New]*Obj
	byEntity map[mockKey]*Obj
}

type mockKey struct {
	entity any
	typ    lang.Type
}

func newHeapModel() *heapModel {
	return &heapModel{
		bySite:   make(map[*lang.New]*Obj),
		byEntity: make(map[mockKey]*Obj),
	}
}

func (h *heapModel) objOf(site *lang.New) *Obj {
	if o := h.bySite[site]; o != nil {
		return o
	}
	o := &Obj{site: site, typ: site.T}
	h.bySite[site] = o
	return o
}

func (h *heapModel) mockObj(entity any, typ lang.Type) *Obj {
	k := mockKey{entity: entity, typ: typ}
	if o := h.byEntity[k]; o != nil {
		return o
	}
	o := &Obj{entity: entity, typ: typ}
	h.byEntity[k] = o
	return o
}
