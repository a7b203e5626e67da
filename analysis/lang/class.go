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

import (
	"fmt"
	"strings"
)

// Subsignature identifies a method within a class: name plus parameter types,
// e.g. "m(int,int)". Dispatch walks the superclass chain comparing
// subsignatures.
type Subsignature string

// MakeSubsignature builds the subsignature for a method name and its
// parameter types.
func MakeSubsignature(name string, params []Type) Subsignature {
	elems := make([]string, len(params))
	for i, t := range params {
		elems[i] = t.String()
	}
	return Subsignature(fmt.Sprintf("%s(%s)", name, strings.Join(elems, ",")))
}

// Class is a class or interface of the analyzed program.
type Class struct {
	name       string
	super      *Class
	interfaces []*Class

	isInterface bool
	isAbstract  bool

	methods    map[Subsignature]*Method
	methodList []*Method
	fields     map[string]*Field
	fieldList  []*Field
}

// Name returns the fully qualified class name.
func (c *Class) Name() string { return c.name }

// Super returns the direct superclass, or nil for a root class.
func (c *Class) Super() *Class { return c.super }

// Interfaces returns the directly implemented (or extended) interfaces.
func (c *Class) Interfaces() []*Class { return c.interfaces }

// IsInterface reports whether c is an interface.
func (c *Class) IsInterface() bool { return c.isInterface }

// IsAbstract reports whether c is abstract.
func (c *Class) IsAbstract() bool { return c.isAbstract }

// Type returns the reference type of c.
func (c *Class) Type() ClassType { return ClassType{Class: c} }

// DeclaredMethod returns the method declared in c with the given
// subsignature, or nil. Inherited methods are not considered.
func (c *Class) DeclaredMethod(sub Subsignature) *Method {
	return c.methods[sub]
}

// DeclaredMethods returns the methods declared in c, in declaration order.
func (c *Class) DeclaredMethods() []*Method { return c.methodList }

// DeclaredField returns the field declared in c with the given name, or nil.
func (c *Class) DeclaredField(name string) *Field {
	return c.fields[name]
}

func (c *Class) String() string { return c.name }

// Field is a member field of a class. Static and instance fields share the
// representation; statements record whether an access has a base variable.
type Field struct {
	class *Class
	name  string
	typ   Type
}

// Class returns the declaring class.
func (f *Field) Class() *Class { return f.class }

// Name returns the field name.
func (f *Field) Name() string { return f.name }

// Type returns the declared field type.
func (f *Field) Type() Type { return f.typ }

func (f *Field) String() string {
	return f.class.name + "." + f.name
}

// Method is a method of the analyzed program. Abstract methods have no IR.
type Method struct {
	class      *Class
	name       string
	subsig     Subsignature
	isStatic   bool
	isAbstract bool
	paramTypes []Type
	returnType Type

	ir *IR
}

// Class returns the declaring class.
func (m *Method) Class() *Class { return m.class }

// Name returns the simple method name.
func (m *Method) Name() string { return m.name }

// Subsignature returns the dispatch key of the method.
func (m *Method) Subsignature() Subsignature { return m.subsig }

// IsStatic reports whether the method is static.
func (m *Method) IsStatic() bool { return m.isStatic }

// IsAbstract reports whether the method is abstract (has no body).
func (m *Method) IsAbstract() bool { return m.isAbstract }

// ParamTypes returns the declared parameter types.
func (m *Method) ParamTypes() []Type { return m.paramTypes }

// ReturnType returns the declared return type, nil for void methods.
func (m *Method) ReturnType() Type { return m.returnType }

// IR returns the method body, nil for abstract methods.
func (m *Method) IR() *IR { return m.ir }

// Signature returns the globally unique method signature.
func (m *Method) Signature() string {
	return m.class.name + "." + string(m.subsig)
}

func (m *Method) String() string { return m.Signature() }

// MethodRef is the lexical reference a call site carries: the declared class
// and the subsignature to dispatch on.
type MethodRef struct {
	Class  *Class
	Subsig Subsignature
}

func (r MethodRef) String() string {
	return r.Class.name + "." + string(r.Subsig)
}

// Hierarchy holds the class hierarchy of a program and answers the subtype
// queries the analyses need. All slices follow class declaration order so
// iteration is deterministic.
type Hierarchy struct {
	classes []*Class
	byName  map[string]*Class

	directSubclasses    map[*Class][]*Class
	directSubinterfaces map[*Class][]*Class
	directImplementors  map[*Class][]*Class
}

func newHierarchy() *Hierarchy {
	return &Hierarchy{
		byName:              make(map[string]*Class),
		directSubclasses:    make(map[*Class][]*Class),
		directSubinterfaces: make(map[*Class][]*Class),
		directImplementors:  make(map[*Class][]*Class),
	}
}

func (h *Hierarchy) addClass(c *Class) {
	h.classes = append(h.classes, c)
	h.byName[c.name] = c
}

func (h *Hierarchy) buildIndices() {
	for _, c := range h.classes {
		if c.super != nil {
			h.directSubclasses[c.super] = append(h.directSubclasses[c.super], c)
		}
		for _, itf := range c.interfaces {
			if c.isInterface {
				h.directSubinterfaces[itf] = append(h.directSubinterfaces[itf], c)
			} else {
				h.directImplementors[itf] = append(h.directImplementors[itf], c)
			}
		}
	}
}

// Classes returns all classes in declaration order.
func (h *Hierarchy) Classes() []*Class { return h.classes }

// ClassByName returns the class with the given name, or nil.
func (h *Hierarchy) ClassByName(name string) *Class { return h.byName[name] }

// DirectSubclassesOf returns the direct subclasses of c.
func (h *Hierarchy) DirectSubclassesOf(c *Class) []*Class {
	return h.directSubclasses[c]
}

// DirectSubinterfacesOf returns the interfaces directly extending interface c.
func (h *Hierarchy) DirectSubinterfacesOf(c *Class) []*Class {
	return h.directSubinterfaces[c]
}

// DirectImplementorsOf returns the classes directly implementing interface c.
func (h *Hierarchy) DirectImplementorsOf(c *Class) []*Class {
	return h.directImplementors[c]
}

// Dispatch looks up the method with the given subsignature starting at class
// c and walking the superclass chain. Returns nil when no declaration is
// found.
func (h *Hierarchy) Dispatch(c *Class, sub Subsignature) *Method {
	for cur := c; cur != nil; cur = cur.super {
		if m := cur.DeclaredMethod(sub); m != nil {
			return m
		}
	}
	return nil
}

// Program is a whole analyzed program: its hierarchy, its methods with IR,
// and the entry method analyses start from.
type Program struct {
	hierarchy *Hierarchy
	methods   []*Method
	entry     *Method
}

// Hierarchy returns the class hierarchy.
func (p *Program) Hierarchy() *Hierarchy { return p.hierarchy }

// Methods returns all non-abstract methods in declaration order.
func (p *Program) Methods() []*Method { return p.methods }

// Entry returns the entry method.
func (p *Program) Entry() *Method { return p.entry }
