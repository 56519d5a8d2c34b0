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

import "github.com/dolthub/lhf/d"

// IsSubset returns the recorded containment relation for the ordered
// pair (min(a,b), max(a,b)): Subset means the smaller index's set is
// contained in the larger's, Superset the reverse. Unknown means the
// relation has not been discovered; it never asserts non-containment.
func (f *Forest[E]) IsSubset(a, b Index) SubsetRelation {
	f.checkPair(a, b)
	return f.subsets[normKey(a, b)]
}

// storeSubset records value(a) ⊆ value(b), rewriting the pair so the
// smaller index keys the entry. Once a pair is decided it is never
// overwritten; both directions holding at once would mean two distinct
// indexes denote equal sets, which interning rules out.
func (f *Forest[E]) storeSubset(a, b Index) {
	if f.cfg.DebugChecks {
		f.checkPair(a, b)
		d.Chk.True(a != b, "equal set condition not handled by caller")
	}

	// the operand pair is kept in index order here as well
	k := normKey(a, b)
	if _, ok := f.subsets[k]; ok {
		return
	}
	if a > b {
		f.subsets[k] = Superset
	} else {
		f.subsets[k] = Subset
	}
}
