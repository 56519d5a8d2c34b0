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

// Package metrics exposes a forest's perf counters as prometheus
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dolthub/lhf/forest"
)

// Source yields a point-in-time copy of a forest's per-operation
// counters and its interned set count. *forest.Forest[E] implements it
// for any E. The snapshot is nil when the forest was built without
// metrics; such a source produces no event samples.
type Source interface {
	PerfSnapshot() map[string]forest.OpPerf
	NumSets() int
}

// Collector adapts a Source to the prometheus.Collector interface.
// Collect reads the source without locking; collect from the goroutine
// that owns the forest, or stop mutating it first.
type Collector struct {
	src    Source
	events *prometheus.Desc
	sets   *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

func NewCollector(src Source) *Collector {
	return &Collector{
		src: src,
		events: prometheus.NewDesc(
			"lhf_operation_events_total",
			"Cache events recorded by a lattice hash forest, by operation and kind.",
			[]string{"op", "kind"}, nil),
		sets: prometheus.NewDesc(
			"lhf_interned_sets",
			"Number of canonical sets interned by a lattice hash forest.",
			nil, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.events
	ch <- c.sets
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(
		c.sets, prometheus.GaugeValue, float64(c.src.NumSets()))

	for op, p := range c.src.PerfSnapshot() {
		emit := func(kind string, v uint64) {
			ch <- prometheus.MustNewConstMetric(
				c.events, prometheus.CounterValue, float64(v), op, kind)
		}
		emit("hit", p.Hits)
		emit("equal_hit", p.EqualHits)
		emit("subset_hit", p.SubsetHits)
		emit("empty_hit", p.EmptyHits)
		emit("cold_miss", p.ColdMisses)
		emit("edge_miss", p.EdgeMisses)
	}
}
