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

package dataflow

// SetFact is a set-shaped dataflow fact.
type SetFact[T comparable] map[T]struct{}

// NewSetFact returns an empty set fact.
func NewSetFact[T comparable]() SetFact[T] {
	return make(SetFact[T])
}

// Has reports whether x is in the set.
func (f SetFact[T]) Has(x T) bool {
	_, ok := f[x]
	return ok
}

// Add inserts x and reports whether the set changed.
func (f SetFact[T]) Add(x T) bool {
	if _, ok := f[x]; ok {
		return false
	}
	f[x] = struct{}{}
	return true
}

// Remove deletes x and reports whether the set changed.
func (f SetFact[T]) Remove(x T) bool {
	if _, ok := f[x]; !ok {
		return false
	}
	delete(f, x)
	return true
}

// UnionWith adds all elements of other and reports whether the set changed.
func (f SetFact[T]) UnionWith(other SetFact[T]) bool {
	changed := false
	for x := range other {
		if f.Add(x) {
			changed = true
		}
	}
	return changed
}

// SetTo replaces the contents of f with those of other.
func (f SetFact[T]) SetTo(other SetFact[T]) {
	for x := range f {
		delete(f, x)
	}
	for x := range other {
		f[x] = struct{}{}
	}
}

// Copy returns a fresh set with the same elements.
func (f SetFact[T]) Copy() SetFact[T] {
	c := make(SetFact[T], len(f))
	for x := range f {
		c[x] = struct{}{}
	}
	return c
}

// Equals reports whether f and other contain the same elements.
func (f SetFact[T]) Equals(other SetFact[T]) bool {
	if len(f) != len(other) {
		return false
	}
	for x := range f {
		if _, ok := other[x]; !ok {
			return false
		}
	}
	return true
}
