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
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
	"github.com/dustin/go-humanize"
)

const (
	opUnions        = "unions"
	opIntersections = "intersections"
	opDifferences   = "differences"
	opPropertySets  = "property_sets"
	opFilter        = "filter"
)

// OpPerf is the per-operation accounting kept when metrics are enabled.
type OpPerf struct {
	// Hits counts operand pairs found in the operation cache.
	Hits uint64

	// EqualHits counts calls where both operands are the same set.
	EqualHits uint64

	// SubsetHits counts calls resolved through a recorded subset
	// relation. The subset cache is consulted before the operation
	// cache, so a pair whose result is also cached can count here.
	SubsetHits uint64

	// EmptyHits counts calls short-circuited because an operand is
	// the empty set.
	EmptyHits uint64

	// ColdMisses counts computed results whose set did not yet
	// exist: neither the lattice node nor the edge was present.
	ColdMisses uint64

	// EdgeMisses counts computed results whose set existed but
	// whose operand pair edge was not yet cached.
	EdgeMisses uint64
}

const maxTrackedMicros = int64(time.Minute / time.Microsecond)

// Perf holds a forest's counters and cumulative operation timers.
type Perf struct {
	ops    map[string]*OpPerf
	timers map[string]*hdrhistogram.Histogram
}

func newPerf() *Perf {
	return &Perf{
		ops:    make(map[string]*OpPerf),
		timers: make(map[string]*hdrhistogram.Histogram),
	}
}

func (p *Perf) op(name string) *OpPerf {
	o, ok := p.ops[name]
	if !ok {
		o = &OpPerf{}
		p.ops[name] = o
	}
	return o
}

func (p *Perf) observe(name string, d time.Duration) {
	h, ok := p.timers[name]
	if !ok {
		h = hdrhistogram.New(1, maxTrackedMicros, 3)
		p.timers[name] = h
	}
	us := d.Microseconds()
	if us < 1 {
		us = 1
	} else if us > maxTrackedMicros {
		us = maxTrackedMicros
	}
	_ = h.RecordValue(us)
}

// perfSink absorbs counter increments when metrics are disabled.
var perfSink OpPerf

func (f *Forest[E]) perfOp(name string) *OpPerf {
	if f.perf == nil {
		return &perfSink
	}
	return f.perf.op(name)
}

var noopTrack = func() {}

func (f *Forest[E]) track(name string) func() {
	if f.perf == nil {
		return noopTrack
	}
	start := time.Now()
	return func() {
		f.perf.observe(name, time.Since(start))
	}
}

// PerfSnapshot returns a copy of the per-operation counters, or nil
// when metrics are disabled.
func (f *Forest[E]) PerfSnapshot() map[string]OpPerf {
	if f.perf == nil {
		return nil
	}
	out := make(map[string]OpPerf, len(f.perf.ops))
	for name, o := range f.perf.ops {
		out[name] = *o
	}
	return out
}

// DumpPerf renders the hit/miss counters and operation timers.
func (f *Forest[E]) DumpPerf() string {
	var s strings.Builder
	s.WriteString("LHF Perf:\n")

	if f.perf == nil {
		s.WriteString("    (metrics disabled)\n")
		return s.String()
	}

	names := make([]string, 0, len(f.perf.ops))
	for name := range f.perf.ops {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		o := f.perf.ops[name]
		fmt.Fprintf(&s, "  %s\n", name)
		fmt.Fprintf(&s, "      Hits       : %s\n", humanize.Comma(int64(o.Hits)))
		fmt.Fprintf(&s, "      Equal Hits : %s\n", humanize.Comma(int64(o.EqualHits)))
		fmt.Fprintf(&s, "      Subset Hits: %s\n", humanize.Comma(int64(o.SubsetHits)))
		fmt.Fprintf(&s, "      Empty Hits : %s\n", humanize.Comma(int64(o.EmptyHits)))
		fmt.Fprintf(&s, "      Cold Misses: %s\n", humanize.Comma(int64(o.ColdMisses)))
		fmt.Fprintf(&s, "      Edge Misses: %s\n", humanize.Comma(int64(o.EdgeMisses)))
	}

	names = names[:0]
	for name := range f.perf.timers {
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) > 0 {
		s.WriteString("  timers (us)\n")
		for _, name := range names {
			h := f.perf.timers[name]
			fmt.Fprintf(&s, "      %-14s: count=%s p50=%d p99=%d max=%d\n",
				name,
				humanize.Comma(h.TotalCount()),
				h.ValueAtQuantile(50),
				h.ValueAtQuantile(99),
				h.Max())
		}
	}
	return s.String()
}
