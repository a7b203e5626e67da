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

package lang

import "fmt"

// ProgramBuilder assembles a Program in memory. Hosts and tests declare
// classes, methods and statements through the fluent Class/Method builders
// and finish with Build, which resolves forward references (labels, classes
// mentioned before their declaration), computes statement indices and
// variable cross-indices, and freezes the hierarchy.
//
// The builder is for trusted in-process construction: misuse such as an
// undeclared variable or an unresolved label panics rather than returning an
// error.
type ProgramBuilder struct {
	hierarchy *Hierarchy
	declared  map[string]bool
	builders  []*MethodBuilder

	entryClass string
	entrySub   Subsignature
}

// NewProgramBuilder returns an empty program builder.
func NewProgramBuilder() *ProgramBuilder {
	return &ProgramBuilder{
		hierarchy: newHierarchy(),
		declared:  make(map[string]bool),
	}
}

// classRef interns the class with the given name, creating an empty
// placeholder if it has not been seen yet. Placeholders must be declared via
// Class or Interface before Build.
func (b *ProgramBuilder) classRef(name string) *Class {
	if c := b.hierarchy.byName[name]; c != nil {
		return c
	}
	c := &Class{
		name:    name,
		methods: make(map[Subsignature]*Method),
		fields:  make(map[string]*Field),
	}
	b.hierarchy.addClass(c)
	return c
}

// RefType returns the reference type of the named class, interning a
// placeholder if needed.
func (b *ProgramBuilder) RefType(name string) ClassType {
	return ClassType{Class: b.classRef(name)}
}

// Class declares a class and returns its builder.
func (b *ProgramBuilder) Class(name string) *ClassBuilder {
	c := b.classRef(name)
	if b.declared[name] {
		panic(fmt.Sprintf("lang: class %s declared twice", name))
	}
	b.declared[name] = true
	return &ClassBuilder{pb: b, c: c}
}

// Interface declares an interface and returns its builder.
func (b *ProgramBuilder) Interface(name string) *ClassBuilder {
	cb := b.Class(name)
	cb.c.isInterface = true
	return cb
}

// Entry designates the entry method of the program by class name and
// subsignature, e.g. ("Main", "main()").
func (b *ProgramBuilder) Entry(class string, sub Subsignature) *ProgramBuilder {
	b.entryClass = class
	b.entrySub = sub
	return b
}

// Build finalizes the program. It panics on dangling references: classes
// mentioned but never declared, unresolved labels, or a missing entry method.
func (b *ProgramBuilder) Build() *Program {
	for _, c := range b.hierarchy.classes {
		if !b.declared[c.name] {
			panic(fmt.Sprintf("lang: class %s referenced but never declared", c.name))
		}
	}
	for _, mb := range b.builders {
		mb.finish()
	}
	b.hierarchy.buildIndices()

	p := &Program{hierarchy: b.hierarchy}
	for _, c := range b.hierarchy.classes {
		for _, m := range c.methodList {
			if !m.isAbstract {
				p.methods = append(p.methods, m)
			}
		}
	}
	if b.entryClass != "" {
		c := b.hierarchy.byName[b.entryClass]
		if c == nil || c.DeclaredMethod(b.entrySub) == nil {
			panic(fmt.Sprintf("lang: entry method %s.%s not found", b.entryClass, b.entrySub))
		}
		p.entry = c.DeclaredMethod(b.entrySub)
	}
	return p
}

// ClassBuilder declares the members of one class.
type ClassBuilder struct {
	pb *ProgramBuilder
	c  *Class
}

// Name returns the name of the class under construction.
func (cb *ClassBuilder) Name() string { return cb.c.name }

// Extends sets the direct superclass.
func (cb *ClassBuilder) Extends(name string) *ClassBuilder {
	cb.c.super = cb.pb.classRef(name)
	return cb
}

// Implements adds directly implemented (or, for interfaces, extended)
// interfaces.
func (cb *ClassBuilder) Implements(names ...string) *ClassBuilder {
	for _, n := range names {
		cb.c.interfaces = append(cb.c.interfaces, cb.pb.classRef(n))
	}
	return cb
}

// Abstract marks the class abstract.
func (cb *ClassBuilder) Abstract() *ClassBuilder {
	cb.c.isAbstract = true
	return cb
}

// Field declares a member field.
func (cb *ClassBuilder) Field(name string, t Type) *ClassBuilder {
	if cb.c.fields[name] != nil {
		panic(fmt.Sprintf("lang: field %s.%s declared twice", cb.c.name, name))
	}
	f := &Field{class: cb.c, name: name, typ: t}
	cb.c.fields[name] = f
	cb.c.fieldList = append(cb.c.fieldList, f)
	return cb
}

// FieldRef returns the declared field with the given name, for use in
// statement constructors.
func (cb *ClassBuilder) FieldRef(name string) *Field {
	f := cb.c.fields[name]
	if f == nil {
		panic(fmt.Sprintf("lang: field %s.%s not declared", cb.c.name, name))
	}
	return f
}

// Method declares an instance method and returns its body builder.
// Parameters are added with MethodBuilder.Param before any statement.
func (cb *ClassBuilder) Method(name string, ret Type) *MethodBuilder {
	return cb.method(name, ret, false, false)
}

// StaticMethod declares a static method and returns its body builder.
func (cb *ClassBuilder) StaticMethod(name string, ret Type) *MethodBuilder {
	return cb.method(name, ret, true, false)
}

// AbstractMethod declares a method without a body. Parameter types are given
// directly since there is no IR to build.
func (cb *ClassBuilder) AbstractMethod(name string, ret Type, params ...Type) *ClassBuilder {
	m := &Method{
		class:      cb.c,
		name:       name,
		isAbstract: true,
		paramTypes: params,
		returnType: ret,
		subsig:     MakeSubsignature(name, params),
	}
	cb.addMethod(m)
	return cb
}

func (cb *ClassBuilder) method(name string, ret Type, static, abstract bool) *MethodBuilder {
	m := &Method{
		class:      cb.c,
		name:       name,
		isStatic:   static,
		isAbstract: abstract,
		returnType: ret,
	}
	mb := &MethodBuilder{
		cb:     cb,
		m:      m,
		vars:   make(map[string]*Var),
		labels: make(map[string]int),
	}
	if !static {
		mb.this = mb.newVar("this", cb.c.Type())
	}
	cb.pb.builders = append(cb.pb.builders, mb)
	return mb
}

func (cb *ClassBuilder) addMethod(m *Method) {
	if cb.c.methods[m.subsig] != nil {
		panic(fmt.Sprintf("lang: method %s.%s declared twice", cb.c.name, m.subsig))
	}
	cb.c.methods[m.subsig] = m
	cb.c.methodList = append(cb.c.methodList, m)
}

// MethodBuilder assembles the IR of one method. Statements refer to
// variables by name; variables are introduced with Param and Local.
// Branch targets are labels placed with Label and referenced by If, Goto
// and Switch; forward references are resolved when the program is built.
type MethodBuilder struct {
	cb   *ClassBuilder
	m    *Method
	this *Var

	params []*Var
	vars   map[string]*Var
	order  []*Var
	stmts  []Stmt

	labels map[string]int
	fixups []fixup
}

type fixup struct {
	label string
	apply func(Stmt)
}

func (mb *MethodBuilder) newVar(name string, t Type) *Var {
	if mb.vars[name] != nil {
		panic(fmt.Sprintf("lang: variable %s declared twice in %s.%s", name, mb.cb.c.name, mb.m.name))
	}
	v := &Var{name: name, typ: t, method: mb.m, index: len(mb.order)}
	mb.vars[name] = v
	mb.order = append(mb.order, v)
	return v
}

func (mb *MethodBuilder) v(name string) *Var {
	v := mb.vars[name]
	if v == nil {
		panic(fmt.Sprintf("lang: variable %s not declared in %s.%s", name, mb.cb.c.name, mb.m.name))
	}
	return v
}

func (mb *MethodBuilder) add(s Stmt) {
	mb.stmts = append(mb.stmts, s)
}

func (mb *MethodBuilder) base(index int) stmtBase {
	return stmtBase{index: index, method: mb.m}
}

// Param adds a parameter variable. All parameters must precede the first
// statement.
func (mb *MethodBuilder) Param(name string, t Type) *MethodBuilder {
	if len(mb.stmts) > 0 {
		panic(fmt.Sprintf("lang: parameter %s added after statements in %s.%s", name, mb.cb.c.name, mb.m.name))
	}
	v := mb.newVar(name, t)
	mb.params = append(mb.params, v)
	mb.m.paramTypes = append(mb.m.paramTypes, t)
	return mb
}

// Local declares a local variable.
func (mb *MethodBuilder) Local(name string, t Type) *MethodBuilder {
	mb.newVar(name, t)
	return mb
}

// Label marks the position of the next statement as a branch target.
func (mb *MethodBuilder) Label(name string) *MethodBuilder {
	if _, ok := mb.labels[name]; ok {
		panic(fmt.Sprintf("lang: label %s placed twice in %s.%s", name, mb.cb.c.name, mb.m.name))
	}
	mb.labels[name] = len(mb.stmts)
	return mb
}

// Nop appends a no-op statement.
func (mb *MethodBuilder) Nop() *MethodBuilder {
	mb.add(&Nop{stmtBase: mb.base(len(mb.stmts))})
	return mb
}

// AssignLit appends "result = value".
func (mb *MethodBuilder) AssignLit(result string, value int32) *MethodBuilder {
	mb.add(&AssignLiteral{stmtBase: mb.base(len(mb.stmts)), Result: mb.v(result), Value: value})
	return mb
}

// Copy appends "result = source".
func (mb *MethodBuilder) Copy(result, source string) *MethodBuilder {
	mb.add(&Copy{stmtBase: mb.base(len(mb.stmts)), Result: mb.v(result), Source: mb.v(source)})
	return mb
}

// Binary appends "result = x op y".
func (mb *MethodBuilder) Binary(result, x string, op BinaryOp, y string) *MethodBuilder {
	mb.add(&Binary{
		stmtBase: mb.base(len(mb.stmts)),
		Result:   mb.v(result),
		Exp:      &BinaryExp{Op: op, X: mb.v(x), Y: mb.v(y)},
	})
	return mb
}

// New appends the allocation "result = new T".
func (mb *MethodBuilder) New(result string, t Type) *MethodBuilder {
	mb.add(&New{stmtBase: mb.base(len(mb.stmts)), Result: mb.v(result), T: t})
	return mb
}

// NewObj appends "result = new C" for the named class.
func (mb *MethodBuilder) NewObj(result, class string) *MethodBuilder {
	return mb.New(result, mb.cb.pb.RefType(class))
}

// Cast appends "result = (T) v".
func (mb *MethodBuilder) Cast(result string, t Type, val string) *MethodBuilder {
	mb.add(&Cast{stmtBase: mb.base(len(mb.stmts)), Result: mb.v(result), T: t, V: mb.v(val)})
	return mb
}

func (mb *MethodBuilder) field(class, name string) *Field {
	c := mb.cb.pb.classRef(class)
	f := c.fields[name]
	if f == nil {
		panic(fmt.Sprintf("lang: field %s.%s not declared", class, name))
	}
	return f
}

// LoadField appends the instance load "result = base.field".
func (mb *MethodBuilder) LoadField(result, base, class, fieldName string) *MethodBuilder {
	mb.add(&LoadField{
		stmtBase: mb.base(len(mb.stmts)),
		Result:   mb.v(result),
		Base:     mb.v(base),
		Field:    mb.field(class, fieldName),
	})
	return mb
}

// LoadStatic appends the static load "result = C.field".
func (mb *MethodBuilder) LoadStatic(result, class, fieldName string) *MethodBuilder {
	mb.add(&LoadField{
		stmtBase: mb.base(len(mb.stmts)),
		Result:   mb.v(result),
		Field:    mb.field(class, fieldName),
	})
	return mb
}

// StoreField appends the instance store "base.field = value".
func (mb *MethodBuilder) StoreField(base, class, fieldName, value string) *MethodBuilder {
	mb.add(&StoreField{
		stmtBase: mb.base(len(mb.stmts)),
		Base:     mb.v(base),
		Field:    mb.field(class, fieldName),
		Value:    mb.v(value),
	})
	return mb
}

// StoreStatic appends the static store "C.field = value".
func (mb *MethodBuilder) StoreStatic(class, fieldName, value string) *MethodBuilder {
	mb.add(&StoreField{
		stmtBase: mb.base(len(mb.stmts)),
		Field:    mb.field(class, fieldName),
		Value:    mb.v(value),
	})
	return mb
}

// LoadArray appends "result = base[index]".
func (mb *MethodBuilder) LoadArray(result, base, index string) *MethodBuilder {
	mb.add(&LoadArray{
		stmtBase: mb.base(len(mb.stmts)),
		Result:   mb.v(result),
		Base:     mb.v(base),
		Idx:      mb.v(index),
	})
	return mb
}

// StoreArray appends "base[index] = value".
func (mb *MethodBuilder) StoreArray(base, index, value string) *MethodBuilder {
	mb.add(&StoreArray{
		stmtBase: mb.base(len(mb.stmts)),
		Base:     mb.v(base),
		Idx:      mb.v(index),
		Value:    mb.v(value),
	})
	return mb
}

func (mb *MethodBuilder) invoke(result string, kind CallKind, class string, sub Subsignature, baseVar string, args []string) *MethodBuilder {
	inv := &Invoke{
		stmtBase: mb.base(len(mb.stmts)),
		Kind:     kind,
		Ref:      MethodRef{Class: mb.cb.pb.classRef(class), Subsig: sub},
	}
	if result != "" {
		inv.Result = mb.v(result)
	}
	if baseVar != "" {
		inv.Base = mb.v(baseVar)
	}
	for _, a := range args {
		inv.Args = append(inv.Args, mb.v(a))
	}
	mb.add(inv)
	return mb
}

// InvokeStatic appends "result = C.m(args)". An empty result discards the
// return value.
func (mb *MethodBuilder) InvokeStatic(result, class string, sub Subsignature, args ...string) *MethodBuilder {
	return mb.invoke(result, CallStatic, class, sub, "", args)
}

// InvokeVirtual appends the virtual call "result = base.m(args)" declared in
// the named class.
func (mb *MethodBuilder) InvokeVirtual(result, base, class string, sub Subsignature, args ...string) *MethodBuilder {
	return mb.invoke(result, CallVirtual, class, sub, base, args)
}

// InvokeInterface appends the interface call "result = base.m(args)".
func (mb *MethodBuilder) InvokeInterface(result, base, class string, sub Subsignature, args ...string) *MethodBuilder {
	return mb.invoke(result, CallInterface, class, sub, base, args)
}

// InvokeSpecial appends the special (constructor, private or super) call
// "result = base.m(args)".
func (mb *MethodBuilder) InvokeSpecial(result, base, class string, sub Subsignature, args ...string) *MethodBuilder {
	return mb.invoke(result, CallSpecial, class, sub, base, args)
}

// If appends "if (x op y) goto label"; the false branch falls through.
func (mb *MethodBuilder) If(x string, op BinaryOp, y string, label string) *MethodBuilder {
	s := &If{
		stmtBase: mb.base(len(mb.stmts)),
		Cond:     &BinaryExp{Op: op, X: mb.v(x), Y: mb.v(y)},
	}
	mb.fixups = append(mb.fixups, fixup{label: label, apply: func(t Stmt) { s.Target = t }})
	mb.add(s)
	return mb
}

// Goto appends an unconditional jump to label.
func (mb *MethodBuilder) Goto(label string) *MethodBuilder {
	s := &Goto{stmtBase: mb.base(len(mb.stmts))}
	mb.fixups = append(mb.fixups, fixup{label: label, apply: func(t Stmt) { s.Target = t }})
	mb.add(s)
	return mb
}

// SwitchCase pairs a case value with its target label.
type SwitchCase struct {
	Value int32
	Label string
}

// Switch appends a switch on key with the given cases and default label.
func (mb *MethodBuilder) Switch(key string, defaultLabel string, cases ...SwitchCase) *MethodBuilder {
	s := &Switch{stmtBase: mb.base(len(mb.stmts)), Key: mb.v(key)}
	for _, c := range cases {
		c := c
		s.CaseValues = append(s.CaseValues, c.Value)
		s.CaseTargets = append(s.CaseTargets, nil)
		slot := len(s.CaseTargets) - 1
		mb.fixups = append(mb.fixups, fixup{label: c.Label, apply: func(t Stmt) { s.CaseTargets[slot] = t }})
	}
	mb.fixups = append(mb.fixups, fixup{label: defaultLabel, apply: func(t Stmt) { s.DefaultTarget = t }})
	mb.add(s)
	return mb
}

// Return appends "return".
func (mb *MethodBuilder) Return() *MethodBuilder {
	mb.add(&Return{stmtBase: mb.base(len(mb.stmts))})
	return mb
}

// ReturnVar appends "return v".
func (mb *MethodBuilder) ReturnVar(name string) *MethodBuilder {
	mb.add(&Return{stmtBase: mb.base(len(mb.stmts)), Value: mb.v(name)})
	return mb
}

// Done registers the method with its class and returns the class builder.
func (mb *MethodBuilder) Done() *ClassBuilder {
	mb.m.subsig = MakeSubsignature(mb.m.name, mb.m.paramTypes)
	mb.cb.addMethod(mb.m)
	return mb.cb
}

// finish resolves branch targets, builds variable cross-indices and attaches
// the IR to the method.
func (mb *MethodBuilder) finish() {
	if mb.m.subsig == "" {
		panic(fmt.Sprintf("lang: method %s.%s built without Done", mb.cb.c.name, mb.m.name))
	}
	for _, f := range mb.fixups {
		idx, ok := mb.labels[f.label]
		if !ok {
			panic(fmt.Sprintf("lang: unresolved label %s in %s", f.label, mb.m.Signature()))
		}
		if idx >= len(mb.stmts) {
			panic(fmt.Sprintf("lang: label %s in %s points past the last statement", f.label, mb.m.Signature()))
		}
		f.apply(mb.stmts[idx])
	}

	ir := &IR{
		method: mb.m,
		this:   mb.this,
		params: mb.params,
		vars:   mb.order,
		stmts:  mb.stmts,
	}
	seen := make(map[*Var]bool)
	for _, s := range mb.stmts {
		switch s := s.(type) {
		case *StoreField:
			if s.Base != nil {
				s.Base.storeFields = append(s.Base.storeFields, s)
			}
		case *LoadField:
			if s.Base != nil {
				s.Base.loadFields = append(s.Base.loadFields, s)
			}
		case *StoreArray:
			s.Base.storeArrays = append(s.Base.storeArrays, s)
		case *LoadArray:
			s.Base.loadArrays = append(s.Base.loadArrays, s)
		case *Invoke:
			if s.Base != nil {
				s.Base.invokes = append(s.Base.invokes, s)
			}
		case *Return:
			if s.Value != nil && !seen[s.Value] {
				seen[s.Value] = true
				ir.returnVars = append(ir.returnVars, s.Value)
			}
		}
	}
	mb.m.ir = ir
}
