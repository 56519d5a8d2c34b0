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
	"slices"

	"github.com/dolthub/lhf/skip"
)

// propSet is an interned canonical set. Sets are immutable once
// interned; sorted views returned from them stay valid for the life of
// the forest. Each representation keeps a sorted view available so the
// two-cursor merges never sort on demand.
type propSet[E any] interface {
	len() int
	sorted() []E
	contains(f *Forest[E], e E) bool
}

func (f *Forest[E]) newPropSet(sorted []E) propSet[E] {
	switch f.cfg.SetRepr {
	case OrderedSet:
		return newSkipSet(f, sorted)
	case HashSet:
		return newBucketSet(f, sorted)
	default:
		return sliceSet[E]{elems: sorted}
	}
}

// sliceSet is the SortedSeq representation: the sorted view is the
// set.
type sliceSet[E any] struct {
	elems []E
}

func (s sliceSet[E]) len() int {
	return len(s.elems)
}

func (s sliceSet[E]) sorted() []E {
	return s.elems
}

func (s sliceSet[E]) contains(f *Forest[E], e E) bool {
	if len(s.elems) <= f.cfg.searchThreshold() {
		for _, v := range s.elems {
			if f.equal(v, e) {
				return true
			}
		}
		return false
	}
	_, ok := slices.BinarySearchFunc(s.elems, e, f.order)
	return ok
}

// skipSet is the OrderedSet representation, backed by a skip list.
type skipSet[E any] struct {
	list *skip.List[E]
	view []E
}

func newSkipSet[E any](f *Forest[E], sorted []E) skipSet[E] {
	list := skip.NewSkipList(skip.KeyOrder[E](f.order))
	for _, e := range sorted {
		list.Put(e)
	}
	return skipSet[E]{list: list, view: sorted}
}

func (s skipSet[E]) len() int {
	return len(s.view)
}

func (s skipSet[E]) sorted() []E {
	return s.view
}

func (s skipSet[E]) contains(f *Forest[E], e E) bool {
	return s.list.Has(e)
}

// bucketSet is the HashSet representation: elements bucketed by hash,
// membership resolved within a bucket by the element order.
type bucketSet[E any] struct {
	buckets map[uint64][]E
	view    []E
}

func newBucketSet[E any](f *Forest[E], sorted []E) bucketSet[E] {
	buckets := make(map[uint64][]E, len(sorted))
	for _, e := range sorted {
		h := f.hash(e)
		buckets[h] = append(buckets[h], e)
	}
	return bucketSet[E]{buckets: buckets, view: sorted}
}

func (s bucketSet[E]) len() int {
	return len(s.view)
}

func (s bucketSet[E]) sorted() []E {
	return s.view
}

func (s bucketSet[E]) contains(f *Forest[E], e E) bool {
	for _, v := range s.buckets[f.hash(e)] {
		if f.equal(v, e) {
			return true
		}
	}
	return false
}
