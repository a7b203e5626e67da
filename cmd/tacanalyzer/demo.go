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

package main

import (
	"github.com/awslabs/tac-go-tools/analysis/lang"
)

// buildDemoProgram assembles the program the pipeline runs over. It has a
// constant branch with an untaken arm, a virtual call dispatched over a
// two-class hierarchy, a heap round-trip through a field, and a taint flow
// from SecretStore.getSecret through StringOps.concat into Log.leak.
func buildDemoProgram() *lang.Program {
	b := lang.NewProgramBuilder()
	str := b.RefType("String")

	b.Class("String")

	b.Class("SecretStore").
		StaticMethod("getSecret", str).
		Local("s", str).
		New("s", str).
		ReturnVar("s").
		Done()

	b.Class("StringOps").
		StaticMethod("concat", str).
		Param("a", str).
		Param("b", str).
		Local("r", str).
		New("r", str).
		ReturnVar("r").
		Done()

	b.Class("Log").
		StaticMethod("leak", nil).
		Param("x", str).
		Return().
		Done()

	b.Class("A").
		Method("m", lang.IntType).
		Local("c", lang.IntType).
		AssignLit("c", 1).
		ReturnVar("c").
		Done()
	b.Class("B").Extends("A").
		Method("m", lang.IntType).
		Local("c", lang.IntType).
		AssignLit("c", 2).
		ReturnVar("c").
		Done()

	b.Class("Box").
		Field("val", lang.IntType)

	b.Class("Main").
		StaticMethod("main", nil).
		Local("x", lang.IntType).
		Local("y", lang.IntType).
		Local("z", lang.IntType).
		Local("dead", lang.IntType).
		Local("a", b.RefType("A")).
		Local("r", lang.IntType).
		Local("box", b.RefType("Box")).
		Local("w", lang.IntType).
		Local("s", str).
		Local("u", str).
		Local("t", str).
		AssignLit("x", 3).
		AssignLit("y", 4).
		Binary("z", "x", lang.OpMul, "y").
		If("x", lang.OpLt, "y", "then").
		AssignLit("dead", 99).
		Label("then").
		NewObj("a", "B").
		InvokeVirtual("r", "a", "A", "m()").
		NewObj("box", "Box").
		StoreField("box", "Box", "val", "z").
		LoadField("w", "box", "Box", "val").
		InvokeStatic("s", "SecretStore", "getSecret()").
		New("u", str).
		InvokeStatic("t", "StringOps", "concat(String,String)", "s", "u").
		InvokeStatic("", "Log", "leak(String)", "t").
		Return().
		Done()

	return b.Entry("Main", "main()").Build()
}
