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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnion(t *testing.T) {
	forEachRepr(t, func(t *testing.T, cfg Config) {
		f := NewWithConfig[int](cfg)
		a, _ := f.RegisterSet(1, 2)
		b, _ := f.RegisterSet(2, 3)

		u := f.Union(a, b)
		v := f.Union(b, a)
		assert.Equal(t, u, v)
		assert.Equal(t, []int{1, 2, 3}, f.Value(u))

		// idempotence and absorption
		assert.Equal(t, a, f.Union(a, a))
		assert.Equal(t, a, f.Union(a, EmptySet))
		assert.Equal(t, a, f.Union(EmptySet, a))

		// the operands are now known subsets of the result
		assert.Equal(t, Subset, f.IsSubset(a, u))
		assert.Equal(t, Subset, f.IsSubset(b, u))
	})
}

func TestIntersection(t *testing.T) {
	forEachRepr(t, func(t *testing.T, cfg Config) {
		f := NewWithConfig[int](cfg)
		a, _ := f.RegisterSet(1, 2, 3)
		b, _ := f.RegisterSet(2)

		i := f.Intersection(a, b)
		assert.Equal(t, []int{2}, f.Value(i))
		assert.Equal(t, i, f.Intersection(b, a))

		// b turned out to be the intersection, so b ⊆ a is recorded;
		// the relation reported is for the ordered pair (min,max)
		rel := f.IsSubset(b, a)
		if b < a {
			assert.Equal(t, Subset, rel)
		} else {
			assert.Equal(t, Superset, rel)
		}

		// idempotence and absorption
		assert.Equal(t, a, f.Intersection(a, a))
		assert.Equal(t, EmptySet, f.Intersection(a, EmptySet))
		assert.Equal(t, EmptySet, f.Intersection(EmptySet, a))

		// disjoint operands intersect to the empty set
		c, _ := f.RegisterSet(8, 9)
		assert.Equal(t, EmptySet, f.Intersection(a, c))
	})
}

func TestDifference(t *testing.T) {
	forEachRepr(t, func(t *testing.T, cfg Config) {
		f := NewWithConfig[int](cfg)
		a, _ := f.RegisterSet(1, 2, 3)
		b, _ := f.RegisterSet(2)

		d := f.Difference(a, b)
		assert.Equal(t, []int{1, 3}, f.Value(d))

		// not commutative
		assert.Equal(t, EmptySet, f.Difference(b, a))

		// idempotence and absorption
		assert.Equal(t, EmptySet, f.Difference(a, a))
		assert.Equal(t, a, f.Difference(a, EmptySet))
		assert.Equal(t, EmptySet, f.Difference(EmptySet, a))

		// the proper difference is a known subset of the minuend
		rel := f.IsSubset(d, a)
		if d < a {
			assert.Equal(t, Subset, rel)
		} else {
			assert.Equal(t, Superset, rel)
		}
	})
}

func TestDifferencePrimesIntersection(t *testing.T) {
	f := NewWithConfig[int](Config{Metrics: true})
	a, _ := f.RegisterSet(1, 2)
	b, _ := f.RegisterSet(8, 9)

	// a \ b == a, so the intersection cache learns a ∩ b = ∅
	require.Equal(t, a, f.Difference(a, b))

	before := f.PerfSnapshot()[opIntersections].Hits
	assert.Equal(t, EmptySet, f.Intersection(a, b))
	after := f.PerfSnapshot()[opIntersections].Hits
	assert.Equal(t, before+1, after)
}

func TestEqualOperandsShortCircuit(t *testing.T) {
	f := NewWithConfig[int](Config{Metrics: true})
	a, _ := f.RegisterSet(1, 2)

	assert.Equal(t, EmptySet, f.Difference(a, a))
	assert.Equal(t, a, f.Intersection(a, a))
	assert.Equal(t, a, f.Union(a, a))

	// equal operands short-circuit before any cache is consulted or
	// written: no (a,a) entries may exist
	assert.Empty(t, f.unions)
	assert.Empty(t, f.intersections)
	assert.Empty(t, f.differences)

	perf := f.PerfSnapshot()
	assert.Equal(t, uint64(1), perf[opUnions].EqualHits)
	assert.Equal(t, uint64(1), perf[opIntersections].EqualHits)
	assert.Equal(t, uint64(1), perf[opDifferences].EqualHits)
}

func TestSubsetShortCircuit(t *testing.T) {
	f := NewWithConfig[int](Config{Metrics: true})
	a, _ := f.RegisterSet(1, 2)
	b, _ := f.RegisterSet(3, 4)

	u := f.Union(a, b)
	require.NotEqual(t, a, u)
	require.NotEqual(t, b, u)

	// a ⊆ u is now recorded, so union(a, u) resolves without touching
	// the union cache
	assert.Equal(t, u, f.Union(a, u))
	assert.Equal(t, u, f.Union(u, b))

	perf := f.PerfSnapshot()
	assert.Equal(t, uint64(2), perf[opUnions].SubsetHits)

	// intersection resolves through the same recorded relation
	assert.Equal(t, a, f.Intersection(a, u))
	assert.Equal(t, uint64(1), f.PerfSnapshot()[opIntersections].SubsetHits)
}

func TestInsertRemoveSingle(t *testing.T) {
	forEachRepr(t, func(t *testing.T, cfg Config) {
		f := NewWithConfig[int](cfg)
		a, _ := f.RegisterSet(1, 2, 3)

		b := f.InsertSingle(a, 7)
		assert.Equal(t, []int{1, 2, 3, 7}, f.Value(b))
		assert.Equal(t, a, f.RemoveSingle(b, 7))

		// inserting a present element is a no-op
		assert.Equal(t, a, f.InsertSingle(a, 2))
		// removing an absent element is a no-op
		assert.Equal(t, a, f.RemoveSingle(a, 9))

		// round-trip holds whenever the element was absent
		for e := 10; e < 20; e++ {
			assert.Equal(t, a, f.RemoveSingle(f.InsertSingle(a, e), e))
		}
	})
}

func TestFilter(t *testing.T) {
	forEachRepr(t, func(t *testing.T, cfg Config) {
		f := NewWithConfig[int](cfg)
		a, _ := f.RegisterSet(1, 2, 3, 4, 5, 6)

		evens := make(map[Index]Index)
		r := f.Filter(a, func(e int) bool { return e%2 == 0 }, evens)
		assert.Equal(t, []int{2, 4, 6}, f.Value(r))
		assert.Equal(t, map[Index]Index{a: r}, evens)

		// a second call resolves from the caller's cache
		assert.Equal(t, r, f.Filter(a, func(e int) bool { return e%2 == 0 }, evens))

		// the empty set bypasses the cache entirely
		empty := make(map[Index]Index)
		assert.Equal(t, EmptySet, f.Filter(EmptySet, func(int) bool { return true }, empty))
		assert.Empty(t, empty)

		// distinct predicate classes keep distinct caches
		odds := make(map[Index]Index)
		o := f.Filter(a, func(e int) bool { return e%2 == 1 }, odds)
		assert.Equal(t, []int{1, 3, 5}, f.Value(o))
		assert.Equal(t, map[Index]Index{a: r}, evens)

		// a filter keeping nothing lands on the empty set
		none := make(map[Index]Index)
		assert.Equal(t, EmptySet, f.Filter(a, func(int) bool { return false }, none))
	})
}

func TestUnionCounters(t *testing.T) {
	f := NewWithConfig[int](Config{Metrics: true})
	a, _ := f.RegisterSet(1, 2)
	b, _ := f.RegisterSet(2, 3)

	f.Union(a, b)
	f.Union(a, b)

	perf := f.PerfSnapshot()[opUnions]
	assert.Equal(t, uint64(1), perf.ColdMisses+perf.EdgeMisses)
	assert.Equal(t, uint64(1), perf.Hits)
}

func TestEdgeMiss(t *testing.T) {
	f := NewWithConfig[int](Config{Metrics: true})
	a, _ := f.RegisterSet(1)
	b, _ := f.RegisterSet(2)
	ab, _ := f.RegisterSet(1, 2)

	// the union's result set already exists: an edge miss, not a cold
	// miss
	assert.Equal(t, ab, f.Union(a, b))
	perf := f.PerfSnapshot()[opUnions]
	assert.Equal(t, uint64(1), perf.EdgeMisses)
	assert.Equal(t, uint64(0), perf.ColdMisses)
}

// TestRandomizedAgainstModel drives a forest and a map-based model with
// the same operations and requires identical observable values.
func TestRandomizedAgainstModel(t *testing.T) {
	forEachRepr(t, func(t *testing.T, cfg Config) {
		f := NewWithConfig[uint64](cfg)
		src := rand.New(rand.NewSource(7))

		model := map[Index]map[uint64]bool{EmptySet: {}}
		remember := func(i Index) {
			if _, ok := model[i]; ok {
				return
			}
			m := make(map[uint64]bool)
			for _, e := range f.Value(i) {
				m[e] = true
			}
			model[i] = m
		}

		indexes := []Index{EmptySet}
		for n := 0; n < 32; n++ {
			elems := make([]uint64, src.Intn(16))
			for j := range elems {
				elems[j] = src.Uint64() % 48
			}
			i, _ := f.RegisterSet(elems...)
			remember(i)
			indexes = append(indexes, i)
		}

		for n := 0; n < 2000; n++ {
			a := indexes[src.Intn(len(indexes))]
			b := indexes[src.Intn(len(indexes))]

			var r Index
			exp := make(map[uint64]bool)
			switch src.Intn(3) {
			case 0:
				r = f.Union(a, b)
				for e := range model[a] {
					exp[e] = true
				}
				for e := range model[b] {
					exp[e] = true
				}
			case 1:
				r = f.Intersection(a, b)
				for e := range model[a] {
					if model[b][e] {
						exp[e] = true
					}
				}
			default:
				r = f.Difference(a, b)
				for e := range model[a] {
					if !model[b][e] {
						exp[e] = true
					}
				}
			}

			remember(r)
			require.Equal(t, exp, model[r], "operands %d, %d", a, b)
			indexes = append(indexes, r)
		}

		// every value view stays sorted and deduplicated
		for i := range model {
			v := f.Value(i)
			for j := 1; j < len(v); j++ {
				require.Less(t, v[j-1], v[j])
			}
		}
	})
}

// TestSubsetCacheSoundness exhaustively checks every recorded relation
// against the actual set contents after a random workload.
func TestSubsetCacheSoundness(t *testing.T) {
	f := New[uint64]()
	src := rand.New(rand.NewSource(3))

	indexes := []Index{EmptySet}
	for n := 0; n < 24; n++ {
		elems := make([]uint64, src.Intn(10))
		for j := range elems {
			elems[j] = src.Uint64() % 32
		}
		i, _ := f.RegisterSet(elems...)
		indexes = append(indexes, i)
	}
	for n := 0; n < 1000; n++ {
		a := indexes[src.Intn(len(indexes))]
		b := indexes[src.Intn(len(indexes))]
		switch src.Intn(3) {
		case 0:
			indexes = append(indexes, f.Union(a, b))
		case 1:
			indexes = append(indexes, f.Intersection(a, b))
		default:
			indexes = append(indexes, f.Difference(a, b))
		}
	}

	contains := func(outer, inner Index) bool {
		for _, e := range f.Value(inner) {
			if !f.Contains(outer, e) {
				return false
			}
		}
		return true
	}

	for k, rel := range f.subsets {
		require.Less(t, k.left, k.right)
		switch rel {
		case Subset:
			assert.True(t, contains(k.right, k.left), "pair %v", k)
		case Superset:
			assert.True(t, contains(k.left, k.right), "pair %v", k)
		default:
			t.Fatalf("stored unknown relation for %v", k)
		}
	}
}
