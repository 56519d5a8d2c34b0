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

// Package forest implements a Lattice Hash Forest: an in-memory,
// hash-consed store for finite sets. Every distinct set is interned
// exactly once and addressed by a stable integer Index, and the results
// of set algebra between indexes (union, intersection, difference) are
// memoized, together with any subset relations those operations
// discover along the way.
//
// A Forest is single-threaded. None of its entry points are safe for
// concurrent use; confine an instance to one goroutine or serialize
// access externally.
package forest

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/dolthub/lhf/d"
)

// Index is the public handle for an interned canonical set. Indexes are
// assigned in registration order and are never reused.
type Index uint32

// EmptySet is the index of the empty set. It is interned at
// construction, before any other set.
const EmptySet Index = 0

// SubsetRelation is a recorded containment fact about an index pair
// (x, y) with x < y. Unknown carries no information; in particular it
// never means "not a subset".
type SubsetRelation uint8

const (
	Unknown SubsetRelation = iota
	Subset
	Superset
)

func (r SubsetRelation) String() string {
	switch r {
	case Subset:
		return "sub"
	case Superset:
		return "sup"
	default:
		return "unknown"
	}
}

// SetRepr selects the in-memory representation of interned sets. The
// choice affects lookup and storage costs only; observable semantics
// are identical across representations.
type SetRepr uint8

const (
	// SortedSeq stores each set as a sorted, deduplicated slice.
	SortedSeq SetRepr = iota
	// OrderedSet stores each set in a skip list keyed by element order.
	OrderedSet
	// HashSet stores each set in buckets keyed by element hash.
	HashSet
)

// MapRepr selects how the content-to-index mapping presents interned
// sets in diagnostic dumps. Hashed (the default) dumps sets in index
// order; Ordered dumps them in element-wise set order.
type MapRepr uint8

const (
	Hashed MapRepr = iota
	Ordered
)

// DefaultSearchThreshold is the set size above which membership tests
// on the SortedSeq representation switch from a linear scan to a
// binary search.
const DefaultSearchThreshold = 16

// Config carries the construction-time switches of a Forest. The zero
// value is the default configuration.
type Config struct {
	// SetRepr picks the interned set representation.
	SetRepr SetRepr

	// MapRepr picks the content map presentation for dumps.
	MapRepr MapRepr

	// DebugChecks validates every index argument, failing fast on
	// out-of-range indexes. With checks off, passing an invalid
	// index is undefined behaviour.
	DebugChecks bool

	// Metrics maintains per-operation hit/miss counters and
	// cumulative operation timers, retrievable through DumpPerf.
	Metrics bool

	// SearchThreshold overrides DefaultSearchThreshold when
	// positive. Negative disables the linear scan entirely.
	SearchThreshold int
}

// Validate reports an invalid combination of configuration switches.
func (c Config) Validate() error {
	if c.SetRepr > HashSet {
		return fmt.Errorf("forest config: unknown set representation (%d)", c.SetRepr)
	}
	if c.MapRepr > Ordered {
		return fmt.Errorf("forest config: unknown content map representation (%d)", c.MapRepr)
	}
	return nil
}

func (c Config) searchThreshold() int {
	if c.SearchThreshold == 0 {
		return DefaultSearchThreshold
	}
	if c.SearchThreshold < 0 {
		return 0
	}
	return c.SearchThreshold
}

// Order is a three-way comparator defining the total order of
// elements.
type Order[E any] func(a, b E) (cmp int)

// HashFn is a stable 64-bit element hash. Elements that compare equal
// under the forest's Order must hash identically.
type HashFn[E any] func(e E) uint64

// opKey is an operand pair. Union and intersection keys are normalized
// so the smaller index comes first; difference keys are as given.
type opKey struct {
	left, right Index
}

func (k opKey) String() string {
	return fmt.Sprintf("(%d,%d)", k.left, k.right)
}

func normKey(a, b Index) opKey {
	if a > b {
		a, b = b, a
	}
	return opKey{a, b}
}

// Forest is the Lattice Hash Forest engine. Create instances with New,
// NewWithConfig or NewForest; the zero value is not usable.
type Forest[E any] struct {
	order Order[E]
	hash  HashFn[E]
	cfg   Config

	// sets owns every canonical set; a set's position is its Index.
	sets []propSet[E]
	// byContent maps structural hash to the indexes bearing it.
	byContent map[uint64][]Index

	unions        map[opKey]Index
	intersections map[opKey]Index
	differences   map[opKey]Index
	subsets       map[opKey]SubsetRelation

	perf *Perf
}

// New returns a Forest over an ordered element type with the default
// configuration.
func New[E cmp.Ordered]() *Forest[E] {
	return NewWithConfig[E](Config{})
}

// NewWithConfig returns a Forest over an ordered element type, deriving
// element order and hash from the type.
func NewWithConfig[E cmp.Ordered](cfg Config) *Forest[E] {
	return NewForest[E](cmp.Compare[E], OrderedHash[E](), cfg)
}

// NewForest returns a Forest with explicit element order and hash.
// Panics on an invalid Config; construction failures are programming
// errors, not runtime conditions.
func NewForest[E any](order Order[E], hash HashFn[E], cfg Config) *Forest[E] {
	err := cfg.Validate()
	d.Chk.NoError(err)

	f := &Forest[E]{
		order:         order,
		hash:          hash,
		cfg:           cfg,
		byContent:     make(map[uint64][]Index),
		unions:        make(map[opKey]Index),
		intersections: make(map[opKey]Index),
		differences:   make(map[opKey]Index),
		subsets:       make(map[opKey]SubsetRelation),
	}
	if cfg.Metrics {
		f.perf = newPerf()
	}

	// intern the empty set at index 0
	f.register(nil)
	return f
}

// OrderedHash derives an xxhash-based element hash for the built-in
// ordered types. Named types must supply their own HashFn through
// NewForest.
func OrderedHash[E cmp.Ordered]() HashFn[E] {
	return func(e E) uint64 {
		switch v := any(e).(type) {
		case string:
			return xxhash.Sum64String(v)
		case int:
			return hashWord(uint64(v))
		case int8:
			return hashWord(uint64(v))
		case int16:
			return hashWord(uint64(v))
		case int32:
			return hashWord(uint64(v))
		case int64:
			return hashWord(uint64(v))
		case uint:
			return hashWord(uint64(v))
		case uint8:
			return hashWord(uint64(v))
		case uint16:
			return hashWord(uint64(v))
		case uint32:
			return hashWord(uint64(v))
		case uint64:
			return hashWord(v)
		case uintptr:
			return hashWord(uint64(v))
		case float32:
			return hashFloat(float64(v))
		case float64:
			return hashFloat(v)
		default:
			panic(fmt.Sprintf("no derived hash for element type %T", e))
		}
	}
}

func hashWord(v uint64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return xxhash.Sum64(b[:])
}

// hashFloat hashes floats that cmp.Compare treats as equal (-0 and +0,
// and every NaN) to the same value.
func hashFloat(v float64) uint64 {
	if v == 0 {
		v = 0
	} else if v != v {
		v = math.NaN()
	}
	return hashWord(math.Float64bits(v))
}

// NumSets returns the number of interned canonical sets, the empty set
// included.
func (f *Forest[E]) NumSets() int {
	return len(f.sets)
}

// IsEmpty reports whether |i| is the empty set.
func (f *Forest[E]) IsEmpty(i Index) bool {
	return i == EmptySet
}

// Value returns the canonical set at |i| as a sorted slice. The slice
// aliases forest-owned storage: callers must not mutate it.
func (f *Forest[E]) Value(i Index) []E {
	f.checkIndex(i)
	return f.sets[i].sorted()
}

// SizeOf returns the cardinality of the set at |i|.
func (f *Forest[E]) SizeOf(i Index) int {
	if i == EmptySet {
		return 0
	}
	f.checkIndex(i)
	return f.sets[i].len()
}

// Contains reports whether |e| is a member of the set at |i|.
func (f *Forest[E]) Contains(i Index, e E) bool {
	if i == EmptySet {
		return false
	}
	f.checkIndex(i)
	return f.sets[i].contains(f, e)
}

func (f *Forest[E]) equal(a, b E) bool {
	return f.order(a, b) == 0
}

func (f *Forest[E]) checkIndex(i Index) {
	if f.cfg.DebugChecks {
		d.Chk.True(int(i) < len(f.sets), "invalid index supplied: %d", i)
	}
}

func (f *Forest[E]) checkPair(a, b Index) {
	f.checkIndex(a)
	f.checkIndex(b)
}
