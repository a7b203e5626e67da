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

// Selector decides which context a callee is analyzed under and which heap
// context a new object gets. The four implementations give the insensitive,
// k-call-site, k-object and k-type variants of the analysis.
type Selector interface {
	// EmptyContext returns the context entry methods start in.
	EmptyContext() *Context

	// SelectStaticContext picks the callee context of a static call.
	SelectStaticContext(site *CSCallSite, callee *lang.Method) *Context

	// SelectContext picks the callee context of an instance call with the
	// given receiver object.
	SelectContext(site *CSCallSite, recv *CSObj, callee *lang.Method) *Context

	// SelectHeapContext picks the heap context of an object allocated in
	// the given method context.
	SelectHeapContext(m *CSMethod, obj *Obj) *Context
}

// NewInsensitiveSelector returns the selector of the context-insensitive
// analysis: every context is the empty one.
func NewInsensitiveSelector() Selector {
	return insensitiveSelector{cm: NewContextManager()}
}

type insensitiveSelector struct {
	cm *ContextManager
}

func (s insensitiveSelector) EmptyContext() *Context { return s.cm.Empty() }

func (s insensitiveSelector) SelectStaticContext(*CSCallSite, *lang.Method) *Context {
	return s.cm.Empty()
}

func (s insensitiveSelector) SelectContext(*CSCallSite, *CSObj, *lang.Method) *Context {
	return s.cm.Empty()
}

func (s insensitiveSelector) SelectHeapContext(*CSMethod, *Obj) *Context {
	return s.cm.Empty()
}

// NewCallSiteSelector returns the k-limited call-site-sensitive selector.
func NewCallSiteSelector(k int) Selector {
	return &callSiteSelector{cm: NewContextManager(), k: k}
}

type callSiteSelector struct {
	cm *ContextManager
	k  int
}

func (s *callSiteSelector) EmptyContext() *Context { return s.cm.Empty() }

func (s *callSiteSelector) SelectStaticContext(site *CSCallSite, _ *lang.Method) *Context {
	return s.cm.Append(site.Context(), site.CallSite(), s.k)
}

func (s *callSiteSelector) SelectContext(site *CSCallSite, _ *CSObj, _ *lang.Method) *Context {
	return s.cm.Append(site.Context(), site.CallSite(), s.k)
}

func (s *callSiteSelector) SelectHeapContext(m *CSMethod, _ *Obj) *Context {
	return s.cm.Truncate(m.Context(), s.k-1)
}

// NewObjectSelector returns the k-limited object-sensitive selector.
func NewObjectSelector(k int) Selector {
	return &objectSelector{cm: NewContextManager(), k: k}
}

type objectSelector struct {
	cm *ContextManager
	k  int
}

func (s *objectSelector) EmptyContext() *Context { return s.cm.Empty() }

func (s *objectSelector) SelectStaticContext(site *CSCallSite, _ *lang.Method) *Context {
	// Static calls have no receiver to refine the context with.
	return site.Context()
}

func (s *objectSelector) SelectContext(_ *CSCallSite, recv *CSObj, _ *lang.Method) *Context {
	return s.cm.Append(recv.Context(), recv.Obj(), s.k)
}

func (s *objectSelector) SelectHeapContext(m *CSMethod, _ *Obj) *Context {
	return s.cm.Truncate(m.Context(), s.k-1)
}

// NewTypeSelector returns the k-limited type-sensitive selector: like
// object sensitivity but contexts record the receiver object's type instead
// of the object itself.
func NewTypeSelector(k int) Selector {
	return &typeSelector{cm: NewContextManager(), k: k}
}

type typeSelector struct {
	cm *ContextManager
	k  int
}

func (s *typeSelector) EmptyContext() *Context { return s.cm.Empty() }

func (s *typeSelector) SelectStaticContext(site *CSCallSite, _ *lang.Method) *Context {
	return site.Context()
}

func (s *typeSelector) SelectContext(_ *CSCallSite, recv *CSObj, _ *lang.Method) *Context {
	return s.cm.Append(recv.Context(), recv.Obj().Type(), s.k)
}

func (s *typeSelector) SelectHeapContext(m *CSMethod, _ *Obj) *Context {
	return s.cm.Truncate(m.Context(), s.k-1)
}
