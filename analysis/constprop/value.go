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

// Package constprop implements constant propagation for integer-like
// variables over the lattice UNDEF < CONST(n) < NAC.
package constprop

import "fmt"

type valueKind int

const (
	kindUndef valueKind = iota
	kindConstant
	kindNAC
)

// Value is an element of the constant-propagation lattice: undefined, a
// known 32-bit constant, or not-a-constant. Values are immutable.
type Value struct {
	kind valueKind
	n    int32
}

// Undef returns the undefined lattice value.
func Undef() Value { return Value{kind: kindUndef} }

// NAC returns the not-a-constant lattice value.
func NAC() Value { return Value{kind: kindNAC} }

// MakeConstant returns the lattice value for the constant n.
func MakeConstant(n int32) Value { return Value{kind: kindConstant, n: n} }

// IsUndef reports whether v is undefined.
func (v Value) IsUndef() bool { return v.kind == kindUndef }

// IsConstant reports whether v is a known constant.
func (v Value) IsConstant() bool { return v.kind == kindConstant }

// IsNAC reports whether v is not-a-constant.
func (v Value) IsNAC() bool { return v.kind == kindNAC }

// Constant returns the constant held by v. It panics when v is not a
// constant.
func (v Value) Constant() int32 {
	if v.kind != kindConstant {
		panic("constprop: Constant called on " + v.String())
	}
	return v.n
}

// Meet returns the greatest lower bound of v and other: NAC absorbs, UNDEF
// is the identity, and two constants meet to themselves when equal and to
// NAC otherwise.
func (v Value) Meet(other Value) Value {
	switch {
	case v.kind == kindNAC || other.kind == kindNAC:
		return NAC()
	case v.kind == kindUndef:
		return other
	case other.kind == kindUndef:
		return v
	case v.n == other.n:
		return v
	default:
		return NAC()
	}
}

func (v Value) String() string {
	switch v.kind {
	case kindUndef:
		return "UNDEF"
	case kindNAC:
		return "NAC"
	default:
		return fmt.Sprintf("%d", v.n)
	}
}
