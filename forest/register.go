// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package forest

import (
	"math"
	"slices"
)

// RegisterSet interns the deduplicated contents of |elems| and returns
// its index, minting a new one when the set is cold. The returned bool
// reports a cold (newly interned) set. The input slice is not retained.
func (f *Forest[E]) RegisterSet(elems ...E) (Index, bool) {
	defer f.track(opPropertySets)()
	return f.register(f.sortDedup(elems))
}

// RegisterSingleton interns the one-element set {e}.
func (f *Forest[E]) RegisterSingleton(e E) (Index, bool) {
	defer f.track(opPropertySets)()
	return f.register([]E{e})
}

// register interns a sorted, deduplicated slice. The slice is adopted:
// callers must not retain or mutate it afterwards.
func (f *Forest[E]) register(sorted []E) (Index, bool) {
	h := f.setHash(sorted)

	for _, idx := range f.byContent[h] {
		if f.equalSorted(f.sets[idx].sorted(), sorted) {
			f.perfOp(opPropertySets).Hits++
			return idx, false
		}
	}

	if len(f.sets) > math.MaxUint32-1 {
		panic("forest has no index capacity")
	}

	f.perfOp(opPropertySets).ColdMisses++
	idx := Index(len(f.sets))
	f.sets = append(f.sets, f.newPropSet(sorted))
	f.byContent[h] = append(f.byContent[h], idx)
	return idx, true
}

// sortDedup copies |elems| into canonical form: ascending under the
// forest's order, equal elements collapsed.
func (f *Forest[E]) sortDedup(elems []E) []E {
	if len(elems) == 0 {
		return nil
	}
	sorted := slices.Clone(elems)
	slices.SortFunc(sorted, f.order)
	return slices.CompactFunc(sorted, f.equal)
}

// setHash folds element hashes over a sorted view. The combine step
// keeps the hash sensitive to element order, which is canonical here.
func (f *Forest[E]) setHash(sorted []E) uint64 {
	var h uint64
	for _, e := range sorted {
		h ^= f.hash(e) + 0x9e3779b97f4a7c15 + (h << 6) + (h >> 2)
	}
	return h
}

func (f *Forest[E]) equalSorted(a, b []E) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !f.equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
