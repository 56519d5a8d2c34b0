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
	"fmt"
	"sort"
	"strings"
)

// Dump renders every cache and every interned set. Output order is
// deterministic: cache entries sort by operand pair, and interned sets
// list in index order, or in element-wise set order under the Ordered
// content map representation.
func (f *Forest[E]) Dump() string {
	var s strings.Builder
	s.WriteString("LatticeHashForest {\n")

	dumpPairs(&s, "Unions", f.unions)
	dumpPairs(&s, "Differences", f.differences)
	dumpPairs(&s, "Intersections", f.intersections)
	dumpPairs(&s, "Subsets", f.subsets)

	fmt.Fprintf(&s, "    PropertySets: (Count: %d)\n", len(f.sets))
	for _, i := range f.dumpOrder() {
		fmt.Fprintf(&s, "      %d : %s\n", i, containerString(f.sets[i].sorted()))
	}

	s.WriteString("}\n")
	return s.String()
}

func dumpPairs[V any](s *strings.Builder, name string, m map[opKey]V) {
	fmt.Fprintf(s, "    %s: (Count: %d)\n", name, len(m))

	keys := make([]opKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].left != keys[j].left {
			return keys[i].left < keys[j].left
		}
		return keys[i].right < keys[j].right
	})

	for _, k := range keys {
		fmt.Fprintf(s, "      {%s -> %v}\n", k, m[k])
	}
	s.WriteString("\n")
}

func (f *Forest[E]) dumpOrder() []Index {
	order := make([]Index, len(f.sets))
	for i := range order {
		order[i] = Index(i)
	}
	if f.cfg.MapRepr == Ordered {
		sort.Slice(order, func(i, j int) bool {
			return f.setLess(f.sets[order[i]].sorted(), f.sets[order[j]].sorted())
		})
	}
	return order
}

// setLess orders sets element-wise under the forest's element order,
// shorter prefixes first.
func (f *Forest[E]) setLess(a, b []E) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		c := f.order(a[i], b[i])
		if c != 0 {
			return c < 0
		}
	}
	return len(a) < len(b)
}

func containerString[E any](elems []E) string {
	var s strings.Builder
	s.WriteString("{ ")
	for _, e := range elems {
		fmt.Fprintf(&s, "%v ", e)
	}
	s.WriteString("}")
	return s.String()
}
