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

package skip

import (
	"cmp"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

var src = rand.New(rand.NewSource(0))

func TestSkipList(t *testing.T) {
	t.Run("test skip list of strings", func(t *testing.T) {
		vals := []string{
			"a", "b", "c", "d", "e",
			"f", "g", "h", "i", "j",
			"k", "l", "m", "n", "o",
		}
		testSkipList(t, cmp.Compare[string], vals...)
	})

	t.Run("test skip list of random ints", func(t *testing.T) {
		vals := randomInts((src.Int63() % 10_000) + 100)
		testSkipList(t, cmp.Compare[int64], vals...)
	})

	t.Run("test with custom compare function", func(t *testing.T) {
		reverse := func(l, r int64) int {
			return cmp.Compare(r, l)
		}
		vals := randomInts((src.Int63() % 10_000) + 100)
		testSkipList(t, reverse, vals...)
	})
}

func testSkipList[K any](t *testing.T, compare KeyOrder[K], vals ...K) {
	list := NewSkipList(compare)
	for _, v := range vals {
		list.Put(v)
	}
	vals = dedup(compare, vals)

	t.Run("test puts", func(t *testing.T) {
		testSkipListPuts(t, list, vals...)
	})
	t.Run("test has", func(t *testing.T) {
		testSkipListHas(t, list, vals...)
	})
	t.Run("test iter forward", func(t *testing.T) {
		testSkipListIterForward(t, list, vals...)
	})
	t.Run("test iter backward", func(t *testing.T) {
		testSkipListIterBackward(t, list, vals...)
	})
}

func testSkipListPuts[K any](t *testing.T, list *List[K], vals ...K) {
	assert.Equal(t, len(vals), list.Count())

	// re-inserting must not grow the list
	for _, v := range vals {
		list.Put(v)
	}
	assert.Equal(t, len(vals), list.Count())
}

func testSkipListHas[K any](t *testing.T, list *List[K], vals ...K) {
	// probe in a different order
	src.Shuffle(len(vals), func(i, j int) {
		vals[i], vals[j] = vals[j], vals[i]
	})

	for _, exp := range vals {
		assert.True(t, list.Has(exp))
	}
}

func testSkipListIterForward[K any](t *testing.T, list *List[K], vals ...K) {
	// put |vals| back in order
	slices.SortFunc(vals, list.keyOrder)

	idx := 0
	iterAll(list, func(key K) {
		assert.Equal(t, vals[idx], key)
		idx++
	})
	assert.Equal(t, len(vals), idx)

	// test iter at
	for k := 0; k < 10; k++ {
		idx = src.Int() % len(vals)
		key := vals[idx]
		act := validateIterForwardFrom(t, list, key)
		exp := len(vals) - idx
		assert.Equal(t, exp, act)
	}

	act := validateIterForwardFrom(t, list, vals[0])
	assert.Equal(t, len(vals), act)
	act = validateIterForwardFrom(t, list, vals[len(vals)-1])
	assert.Equal(t, 1, act)
}

func testSkipListIterBackward[K any](t *testing.T, list *List[K], vals ...K) {
	// put |vals| back in order
	slices.SortFunc(vals, list.keyOrder)

	// test iter at
	for k := 0; k < 10; k++ {
		idx := src.Int() % len(vals)
		key := vals[idx]
		act := validateIterBackwardFrom(t, list, key)
		assert.Equal(t, idx+1, act)
	}

	act := validateIterBackwardFrom(t, list, vals[0])
	assert.Equal(t, 1, act)
	act = validateIterBackwardFrom(t, list, vals[len(vals)-1])
	assert.Equal(t, len(vals), act)
}

func validateIterForwardFrom[K any](t *testing.T, l *List[K], key K) (count int) {
	iter := l.GetIterAt(key)
	k, ok := iter.Current()
	for ok {
		count++
		iter.Advance()
		prev := k
		k, ok = iter.Current()
		if ok {
			assert.True(t, l.keyOrder(prev, k) < 0)
		}
	}
	return
}

func validateIterBackwardFrom[K any](t *testing.T, l *List[K], key K) (count int) {
	iter := l.GetIterAt(key)
	k, ok := iter.Current()
	for ok {
		count++
		iter.Retreat()
		prev := k
		k, ok = iter.Current()
		if ok {
			assert.True(t, l.keyOrder(prev, k) > 0)
		}
	}
	return
}

func randomInts(cnt int64) (vals []int64) {
	vals = make([]int64, cnt)
	for i := range vals {
		vals[i] = src.Int63()
	}
	return
}

func dedup[K any](compare KeyOrder[K], vals []K) []K {
	sorted := slices.Clone(vals)
	slices.SortFunc(sorted, compare)
	return slices.CompactFunc(sorted, func(a, b K) bool {
		return compare(a, b) == 0
	})
}

func iterAll[K any](l *List[K], cb func(K)) {
	iter := l.IterAtStart()
	key, ok := iter.Current()
	for ok {
		cb(key)
		iter.Advance()
		key, ok = iter.Current()
	}
}
