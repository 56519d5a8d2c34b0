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

// Union returns the index of value(a) ∪ value(b). The result is
// memoized under the normalized pair (min(a,b), max(a,b)).
func (f *Forest[E]) Union(a, b Index) Index {
	f.checkPair(a, b)
	defer f.track(opUnions)()

	if a == b {
		f.perfOp(opUnions).EqualHits++
		return a
	}

	if a == EmptySet {
		f.perfOp(opUnions).EmptyHits++
		return b
	} else if b == EmptySet {
		f.perfOp(opUnions).EmptyHits++
		return a
	}

	if a > b {
		a, b = b, a
	}

	switch f.subsets[opKey{a, b}] {
	case Subset:
		f.perfOp(opUnions).SubsetHits++
		return b
	case Superset:
		f.perfOp(opUnions).SubsetHits++
		return a
	}

	k := opKey{a, b}
	if r, ok := f.unions[k]; ok {
		f.perfOp(opUnions).Hits++
		return r
	}

	r, cold := f.register(mergeUnion(f.order, f.sets[a].sorted(), f.sets[b].sorted()))
	f.unions[k] = r

	switch r {
	case a:
		f.storeSubset(b, a)
	case b:
		f.storeSubset(a, b)
	default:
		f.storeSubset(a, r)
		f.storeSubset(b, r)
	}

	if cold {
		f.perfOp(opUnions).ColdMisses++
	} else {
		f.perfOp(opUnions).EdgeMisses++
	}
	return r
}

// Intersection returns the index of value(a) ∩ value(b). The result is
// memoized under the normalized pair (min(a,b), max(a,b)).
func (f *Forest[E]) Intersection(a, b Index) Index {
	f.checkPair(a, b)
	defer f.track(opIntersections)()

	if a == b {
		f.perfOp(opIntersections).EqualHits++
		return a
	}

	if a == EmptySet || b == EmptySet {
		f.perfOp(opIntersections).EmptyHits++
		return EmptySet
	}

	if a > b {
		a, b = b, a
	}

	switch f.subsets[opKey{a, b}] {
	case Subset:
		f.perfOp(opIntersections).SubsetHits++
		return a
	case Superset:
		f.perfOp(opIntersections).SubsetHits++
		return b
	}

	k := opKey{a, b}
	if r, ok := f.intersections[k]; ok {
		f.perfOp(opIntersections).Hits++
		return r
	}

	r, cold := f.register(mergeIntersection(f.order, f.sets[a].sorted(), f.sets[b].sorted()))
	f.intersections[k] = r

	switch r {
	case a:
		f.storeSubset(r, b)
	case b:
		f.storeSubset(r, a)
	default:
		f.storeSubset(r, a)
		f.storeSubset(r, b)
	}

	if cold {
		f.perfOp(opIntersections).ColdMisses++
	} else {
		f.perfOp(opIntersections).EdgeMisses++
	}
	return r
}

// Difference returns the index of value(a) \ value(b). Difference is
// not commutative; results are memoized under (a, b) as given.
func (f *Forest[E]) Difference(a, b Index) Index {
	f.checkPair(a, b)
	defer f.track(opDifferences)()

	if a == b {
		f.perfOp(opDifferences).EqualHits++
		return EmptySet
	}

	if a == EmptySet {
		f.perfOp(opDifferences).EmptyHits++
		return EmptySet
	} else if b == EmptySet {
		f.perfOp(opDifferences).EmptyHits++
		return a
	}

	k := opKey{a, b}
	if r, ok := f.differences[k]; ok {
		f.perfOp(opDifferences).Hits++
		return r
	}

	r, cold := f.register(mergeDifference(f.order, f.sets[a].sorted(), f.sets[b].sorted()))
	f.differences[k] = r

	if r == a {
		// a \ b = a implies a ∩ b = ∅; prime the intersection cache
		nk := normKey(a, b)
		if _, ok := f.intersections[nk]; !ok {
			f.intersections[nk] = EmptySet
		}
	} else {
		f.storeSubset(r, a)
	}

	if cold {
		f.perfOp(opDifferences).ColdMisses++
	} else {
		f.perfOp(opDifferences).EdgeMisses++
	}
	return r
}

// InsertSingle returns the index of value(a) ∪ {e}. It is a wrapper
// over Union and inherits its memoization.
func (f *Forest[E]) InsertSingle(a Index, e E) Index {
	s, _ := f.RegisterSingleton(e)
	return f.Union(a, s)
}

// RemoveSingle returns the index of value(a) \ {e}. It is a wrapper
// over Difference and inherits its memoization.
func (f *Forest[E]) RemoveSingle(a Index, e E) Index {
	s, _ := f.RegisterSingleton(e)
	return f.Difference(a, s)
}

// Filter returns the index of the subset of value(i) whose elements
// satisfy |pred|. The memo |cache| is caller-owned; predicates have
// identity the forest cannot see, so each predicate class supplies its
// own index-to-index map. The empty set bypasses the cache.
func (f *Forest[E]) Filter(i Index, pred func(E) bool, cache map[Index]Index) Index {
	f.checkIndex(i)
	defer f.track(opFilter)()

	if i == EmptySet {
		return i
	}

	if r, ok := cache[i]; ok {
		f.perfOp(opFilter).Hits++
		return r
	}

	src := f.sets[i].sorted()
	kept := make([]E, 0, len(src))
	for _, e := range src {
		if pred(e) {
			kept = append(kept, e)
		}
	}

	r, cold := f.register(kept)
	cache[i] = r

	if cold {
		f.perfOp(opFilter).ColdMisses++
	} else {
		f.perfOp(opFilter).EdgeMisses++
	}
	return r
}

// Two-cursor merges over sorted views. Inputs are canonical (sorted,
// deduplicated); outputs are canonical by construction.

func mergeUnion[E any](order Order[E], a, b []E) []E {
	out := make([]E, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		c := order(a[i], b[j])
		switch {
		case c < 0:
			out = append(out, a[i])
			i++
		case c > 0:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

func mergeIntersection[E any](order Order[E], a, b []E) []E {
	var out []E
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		c := order(a[i], b[j])
		switch {
		case c < 0:
			i++
		case c > 0:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

func mergeDifference[E any](order Order[E], a, b []E) []E {
	var out []E
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		c := order(a[i], b[j])
		switch {
		case c < 0:
			out = append(out, a[i])
			i++
		case c > 0:
			j++
		default:
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	return out
}
