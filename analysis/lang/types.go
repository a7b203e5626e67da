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

// Package lang defines the three-address-code intermediate representation the
// analyses operate on: types, classes, methods, variables and statements.
// Programs are assembled in memory with the ProgramBuilder; the package does
// not parse anything.
package lang

// Type is the type of a variable, field or heap object.
type Type interface {
	String() string
}

// PrimitiveType is one of the primitive value types.
type PrimitiveType int

const (
	ByteType PrimitiveType = iota
	ShortType
	IntType
	CharType
	BooleanType
	LongType
	FloatType
	DoubleType
)

func (t PrimitiveType) String() string {
	switch t {
	case ByteType:
		return "byte"
	case ShortType:
		return "short"
	case IntType:
		return "int"
	case CharType:
		return "char"
	case BooleanType:
		return "boolean"
	case LongType:
		return "long"
	case FloatType:
		return "float"
	case DoubleType:
		return "double"
	}
	return "unknown"
}

// ClassType is the reference type of a class or interface.
type ClassType struct {
	Class *Class
}

func (t ClassType) String() string {
	return t.Class.Name()
}

// ArrayType is the type of arrays with element type Elem.
type ArrayType struct {
	Elem Type
}

func (t ArrayType) String() string {
	return t.Elem.String() + "[]"
}

// IsIntLike reports whether a value of type t is represented as a 32-bit (or
// narrower) integer, i.e. whether the constant-propagation lattice applies to
// variables of that type.
func IsIntLike(t Type) bool {
	p, ok := t.(PrimitiveType)
	if !ok {
		return false
	}
	switch p {
	case ByteType, ShortType, IntType, CharType, BooleanType:
		return true
	}
	return false
}
