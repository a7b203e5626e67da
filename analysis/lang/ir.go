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

// Var is a local variable of a method. Identity is pointer identity; two
// methods never share a Var. Each variable carries cross-indices to the
// statements that read or write the heap through it, which the pointer
// analyses traverse when the variable's points-to set grows.
type Var struct {
	name   string
	typ    Type
	method *Method
	index  int

	storeFields []*StoreField
	loadFields  []*LoadField
	storeArrays []*StoreArray
	loadArrays  []*LoadArray
	invokes     []*Invoke
}

// Name returns the variable name, unique within its method.
func (v *Var) Name() string { return v.name }

// Type returns the declared type of the variable.
func (v *Var) Type() Type { return v.typ }

// Method returns the containing method.
func (v *Var) Method() *Method { return v.method }

// Index returns the position of the variable in its method's variable list.
func (v *Var) Index() int { return v.index }

// StoreFields returns the instance field stores with v as base.
func (v *Var) StoreFields() []*StoreField { return v.storeFields }

// LoadFields returns the instance field loads with v as base.
func (v *Var) LoadFields() []*LoadField { return v.loadFields }

// StoreArrays returns the array stores with v as base.
func (v *Var) StoreArrays() []*StoreArray { return v.storeArrays }

// LoadArrays returns the array loads with v as base.
func (v *Var) LoadArrays() []*LoadArray { return v.loadArrays }

// Invokes returns the invocations with v as receiver.
func (v *Var) Invokes() []*Invoke { return v.invokes }

func (v *Var) String() string {
	return v.method.Signature() + "/" + v.name
}

// IR is the body of a non-abstract method: its variables and its statements
// in index order.
type IR struct {
	method     *Method
	this       *Var
	params     []*Var
	vars       []*Var
	stmts      []Stmt
	returnVars []*Var
}

// Method returns the method this IR belongs to.
func (ir *IR) Method() *Method { return ir.method }

// This returns the receiver variable, nil for static methods.
func (ir *IR) This() *Var { return ir.this }

// Params returns the parameter variables in declaration order.
func (ir *IR) Params() []*Var { return ir.params }

// Param returns the i-th parameter variable.
func (ir *IR) Param(i int) *Var { return ir.params[i] }

// Vars returns all variables of the method, parameters first, in declaration
// order.
func (ir *IR) Vars() []*Var { return ir.vars }

// Stmts returns the statements in index order.
func (ir *IR) Stmts() []Stmt { return ir.stmts }

// Stmt returns the statement at index i.
func (ir *IR) Stmt(i int) Stmt { return ir.stmts[i] }

// ReturnVars returns the variables returned by the method's return
// statements, without duplicates, in statement order.
func (ir *IR) ReturnVars() []*Var { return ir.returnVars }
