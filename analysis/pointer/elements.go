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

import (
	"fmt"

	"github.com/awslabs/tac-go-tools/analysis/lang"
)

// Pointer is a node of the pointer-flow graph. Every pointer owns a
// points-to set and has a dense id assigned by the Manager at interning
// time; the context-insensitive variants are the same nodes with the empty
// context.
type Pointer interface {
	// ID returns the dense id of the pointer.
	ID() int

	// PointsToSet returns the set of objects the pointer may refer to.
	PointsToSet() *PointsToSet

	String() string
}

// CSVar is a variable under a context.
type CSVar struct {
	id  int
	ctx *Context
	v   *lang.Var
	pts *PointsToSet
}

func (p *CSVar) ID() int                   { return p.id }
func (p *CSVar) PointsToSet() *PointsToSet { return p.pts }

// Context returns the context the variable is analyzed under.
func (p *CSVar) Context() *Context { return p.ctx }

// Var returns the underlying variable.
func (p *CSVar) Var() *lang.Var { return p.v }

func (p *CSVar) String() string {
	return fmt.Sprintf("%s:%s", p.ctx, p.v)
}

// InstanceField is the field f of an abstract object.
type InstanceField struct {
	id    int
	base  *CSObj
	field *lang.Field
	pts   *PointsToSet
}

func (p *InstanceField) ID() int                   { return p.id }
func (p *InstanceField) PointsToSet() *PointsToSet { return p.pts }

// Base returns the object holding the field.
func (p *InstanceField) Base() *CSObj { return p.base }

// Field returns the accessed field.
func (p *InstanceField) Field() *lang.Field { return p.field }

func (p *InstanceField) String() string {
	return fmt.Sprintf("%s.%s", p.base, p.field.Name())
}

// ArrayIndex is the merged cell of all elements of an abstract array
// object.
type ArrayIndex struct {
	id    int
	array *CSObj
	pts   *PointsToSet
}

func (p *ArrayIndex) ID() int                   { return p.id }
func (p *ArrayIndex) PointsToSet() *PointsToSet { return p.pts }

// Array returns the array object.
func (p *ArrayIndex) Array() *CSObj { return p.array }

func (p *ArrayIndex) String() string {
	return fmt.Sprintf("%s[*]", p.array)
}

// StaticField is a static field; it has no context and no base object.
type StaticField struct {
	id    int
	field *lang.Field
	pts   *PointsToSet
}

func (p *StaticField) ID() int                   { return p.id }
func (p *StaticField) PointsToSet() *PointsToSet { return p.pts }

// Field returns the static field.
func (p *StaticField) Field() *lang.Field { return p.field }

func (p *StaticField) String() string { return p.field.String() }

// CSObj is a heap object under a heap context. Ids are dense so points-to
// sets can be sparse bit sets over them.
type CSObj struct {
	id  int
	ctx *Context
	obj *Obj
}

// ID returns the dense id of the object.
func (o *CSObj) ID() int { return o.id }

// Context returns the heap context.
func (o *CSObj) Context() *Context { return o.ctx }

// Obj returns the underlying abstract object.
func (o *CSObj) Obj() *Obj { return o.obj }

func (o *CSObj) String() string {
	return fmt.Sprintf("%s:%s", o.ctx, o.obj)
}

// CSCallSite is an invocation under the calling context of its containing
// method.
type CSCallSite struct {
	ctx  *Context
	call *lang.Invoke
}

// Context returns the caller context.
func (c *CSCallSite) Context() *Context { return c.ctx }

// CallSite returns the invocation statement.
func (c *CSCallSite) CallSite() *lang.Invoke { return c.call }

func (c *CSCallSite) String() string {
	return fmt.Sprintf("%s:%s/%d", c.ctx, c.call.Method().Signature(), c.call.Index())
}

// CSMethod is a method analyzed under a context.
type CSMethod struct {
	ctx *Context
	m   *lang.Method
}

// Context returns the context the method is analyzed under.
func (c *CSMethod) Context() *Context { return c.ctx }

// Method returns the method.
func (c *CSMethod) Method() *lang.Method { return c.m }

func (c *CSMethod) String() string {
	return fmt.Sprintf("%s:%s", c.ctx, c.m.Signature())
}

type csVarKey struct {
	ctx *Context
	v   *lang.Var
}

type csObjKey struct {
	ctx *Context
	obj *Obj
}

type iFieldKey struct {
	base  *CSObj
	field *lang.Field
}

type csCallKey struct {
	ctx  *Context
	call *lang.Invoke
}

type csMethodKey struct {
	ctx *Context
	m   *lang.Method
}

// Manager interns every context-sensitive element into a canonical value
// with a dense id, so the pointer-flow graph and the points-to sets can
// work on integers. Interning order is visit order, which makes ids, and
// with them all bit-set iteration, deterministic.
type Manager struct {
	heap *heapModel

	vars     map[csVarKey]*CSVar
	objs     map[csObjKey]*CSObj
	objList  []*CSObj
	iFields  map[iFieldKey]*InstanceField
	arrays   map[*CSObj]*ArrayIndex
	statics  map[*lang.Field]*StaticField
	calls    map[csCallKey]*CSCallSite
	methods  map[csMethodKey]*CSMethod
	varList  []*CSVar
	pointers []Pointer
}

// NewManager returns an empty element manager.
func NewManager() *Manager {
	return &Manager{
		heap:    newHeapModel(),
		vars:    make(map[csVarKey]*CSVar),
		objs:    make(map[csObjKey]*CSObj),
		iFields: make(map[iFieldKey]*InstanceField),
		arrays:  make(map[*CSObj]*ArrayIndex),
		statics: make(map[*lang.Field]*StaticField),
		calls:   make(map[csCallKey]*CSCallSite),
		methods: make(map[csMethodKey]*CSMethod),
	}
}

func (mg *Manager) register(p Pointer) {
	mg.pointers = append(mg.pointers, p)
}

// CSVarOf interns the variable v under ctx.
func (mg *Manager) CSVarOf(ctx *Context, v *lang.Var) *CSVar {
	k := csVarKey{ctx: ctx, v: v}
	if p := mg.vars[k]; p != nil {
		return p
	}
	p := &CSVar{id: len(mg.pointers), ctx: ctx, v: v}
	p.pts = newPointsToSet(mg)
	mg.vars[k] = p
	mg.varList = append(mg.varList, p)
	mg.register(p)
	return p
}

// CSObjOf interns the object obj under heap context ctx.
func (mg *Manager) CSObjOf(ctx *Context, obj *Obj) *CSObj {
	k := csObjKey{ctx: ctx, obj: obj}
	if o := mg.objs[k]; o != nil {
		return o
	}
	o := &CSObj{id: len(mg.objList), ctx: ctx, obj: obj}
	mg.objs[k] = o
	mg.objList = append(mg.objList, o)
	return o
}

// AllocObj returns the allocation-site object of the New statement.
func (mg *Manager) AllocObj(site *lang.New) *Obj { return mg.heap.objOf(site) }

// MockObj interns a synthetic object keyed by (entity, type). Overlays use
// this to add objects that have no allocation site.
func (mg *Manager) MockObj(entity any, typ lang.Type) *Obj {
	return mg.heap.mockObj(entity, typ)
}

// InstanceFieldOf interns the field pointer (base, field).
func (mg *Manager) InstanceFieldOf(base *CSObj, field *lang.Field) *InstanceField {
	k := iFieldKey{base: base, field: field}
	if p := mg.iFields[k]; p != nil {
		return p
	}
	p := &InstanceField{id: len(mg.pointers), base: base, field: field}
	p.pts = newPointsToSet(mg)
	mg.iFields[k] = p
	mg.register(p)
	return p
}

// ArrayIndexOf interns the array cell pointer of the array object.
func (mg *Manager) ArrayIndexOf(array *CSObj) *ArrayIndex {
	if p := mg.arrays[array]; p != nil {
		return p
	}
	p := &ArrayIndex{id: len(mg.pointers), array: array}
	p.pts = newPointsToSet(mg)
	mg.arrays[array] = p
	mg.register(p)
	return p
}

// StaticFieldOf interns the pointer of a static field.
func (mg *Manager) StaticFieldOf(field *lang.Field) *StaticField {
	if p := mg.statics[field]; p != nil {
		return p
	}
	p := &StaticField{id: len(mg.pointers), field: field}
	p.pts = newPointsToSet(mg)
	mg.statics[field] = p
	mg.register(p)
	return p
}

// CSCallSiteOf interns the call site under ctx.
func (mg *Manager) CSCallSiteOf(ctx *Context, call *lang.Invoke) *CSCallSite {
	k := csCallKey{ctx: ctx, call: call}
	if c := mg.calls[k]; c != nil {
		return c
	}
	c := &CSCallSite{ctx: ctx, call: call}
	mg.calls[k] = c
	return c
}

// CSMethodOf interns the method under ctx.
func (mg *Manager) CSMethodOf(ctx *Context, m *lang.Method) *CSMethod {
	k := csMethodKey{ctx: ctx, m: m}
	if c := mg.methods[k]; c != nil {
		return c
	}
	c := &CSMethod{ctx: ctx, m: m}
	mg.methods[k] = c
	return c
}

// ObjByID returns the context-sensitive object with the given dense id.
func (mg *Manager) ObjByID(id int) *CSObj { return mg.objList[id] }

// CSVars returns every interned variable pointer in interning order.
func (mg *Manager) CSVars() []*CSVar { return mg.varList }
