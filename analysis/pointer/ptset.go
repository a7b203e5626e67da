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
	"strings"

	"golang.org/x/tools/container/intsets"
)

// PointsToSet is a set of context-sensitive heap objects, backed by a
// sparse bit set over the objects' dense ids. Sets only ever grow during a
// solver run. Iteration is in id order, which is interning order, so runs
// are reproducible.
type PointsToSet struct {
	bits intsets.Sparse
	mgr  *Manager
}

func newPointsToSet(mgr *Manager) *PointsToSet {
	return &PointsToSet{mgr: mgr}
}

// NewPointsToSet returns an empty set tied to the manager's id space.
func NewPointsToSet(mgr *Manager) *PointsToSet { return newPointsToSet(mgr) }

// Add inserts the object and reports whether the set changed.
func (s *PointsToSet) Add(o *CSObj) bool { return s.bits.Insert(o.id) }

// Contains reports whether the object is in the set.
func (s *PointsToSet) Contains(o *CSObj) bool { return s.bits.Has(o.id) }

// UnionWith adds all objects of other and reports whether the set changed.
func (s *PointsToSet) UnionWith(other *PointsToSet) bool {
	return s.bits.UnionWith(&other.bits)
}

// Diff returns the objects of s that are not in other.
func (s *PointsToSet) Diff(other *PointsToSet) *PointsToSet {
	d := newPointsToSet(s.mgr)
	d.bits.Difference(&s.bits, &other.bits)
	return d
}

// Intersects reports whether s and other share an object.
func (s *PointsToSet) Intersects(other *PointsToSet) bool {
	var tmp intsets.Sparse
	tmp.Intersection(&s.bits, &other.bits)
	return !tmp.IsEmpty()
}

// IsEmpty reports whether the set has no objects.
func (s *PointsToSet) IsEmpty() bool { return s.bits.IsEmpty() }

// Len returns the number of objects in the set.
func (s *PointsToSet) Len() int { return s.bits.Len() }

// Copy returns an independent set with the same objects.
func (s *PointsToSet) Copy() *PointsToSet {
	c := newPointsToSet(s.mgr)
	c.bits.Copy(&s.bits)
	return c
}

// Objects returns the objects of the set in id order.
func (s *PointsToSet) Objects() []*CSObj {
	ids := s.bits.AppendTo(nil)
	objs := make([]*CSObj, len(ids))
	for i, id := range ids {
		objs[i] = s.mgr.ObjByID(id)
	}
	return objs
}

func (s *PointsToSet) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, o := range s.Objects() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(o.String())
	}
	b.WriteByte('}')
	return b.String()
}
