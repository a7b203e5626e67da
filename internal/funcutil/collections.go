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

// Package funcutil provides generic helpers over slices and sets.
package funcutil

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// Map returns the slice of the f(x) for x in a, in order.
func Map[T any, S any](a []T, f func(T) S) []S {
	b := make([]S, len(a))
	for i, x := range a {
		b[i] = f(x)
	}
	return b
}

// Contains returns true when x is an element of a.
func Contains[T comparable](a []T, x T) bool {
	for _, y := range a {
		if y == x {
			return true
		}
	}
	return false
}

// SetToOrderedSlice returns the members of the set in increasing order.
func SetToOrderedSlice[T constraints.Ordered](set map[T]bool) []T {
	a := make([]T, 0, len(set))
	for x := range set {
		a = append(a, x)
	}
	sort.Slice(a, func(i, j int) bool { return a[i] < a[j] })
	return a
}
