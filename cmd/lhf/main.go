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

// lhf is a workbench for the lattice hash forest: it runs synthetic
// set-algebra workloads or points-to queries over an edge-list file and
// reports the forest's cache behaviour.
package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strings"

	"github.com/attic-labs/kingpin"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dolthub/lhf/forest"
	"github.com/dolthub/lhf/graph"
	"github.com/dolthub/lhf/metrics"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

func main() {
	app := kingpin.New("lhf", "lattice hash forest workbench")

	bench := app.Command("bench", "run a synthetic set-algebra workload")
	benchSets := bench.Flag("sets", "number of base sets to intern").Default("64").Int()
	benchUniverse := bench.Flag("universe", "size of the element universe").Default("512").Uint64()
	benchOps := bench.Flag("ops", "number of random operations to run").Default("100000").Int()
	benchSeed := bench.Flag("seed", "workload seed").Default("0").Int64()
	benchRepr := bench.Flag("repr", "set representation: sorted, ordered, or hash").
		Default("sorted").Enum("sorted", "ordered", "hash")
	benchAddr := bench.Flag("metrics-addr", "serve prometheus metrics on this address").String()
	benchDump := bench.Flag("dump", "dump all caches and sets afterwards").Bool()

	pt := app.Command("points-to", "run points-to queries over an edge-list file")
	ptFile := pt.Arg("file", "edge list, one 'src dst' pair per line").Required().String()
	ptDepth := pt.Flag("depth", "transitive query depth").Default("3").Uint()
	ptDump := pt.Flag("dump", "dump the node forest afterwards").Bool()

	switch kingpin.MustParse(app.Parse(os.Args[1:])) {
	case bench.FullCommand():
		cfg := forest.Config{Metrics: true, SetRepr: parseRepr(*benchRepr)}
		runBench(cfg, *benchSets, *benchUniverse, *benchOps, *benchSeed, *benchAddr, *benchDump)
	case pt.FullCommand():
		runPointsTo(*ptFile, *ptDepth, *ptDump)
	}
}

func parseRepr(s string) forest.SetRepr {
	switch s {
	case "ordered":
		return forest.OrderedSet
	case "hash":
		return forest.HashSet
	default:
		return forest.SortedSeq
	}
}

func runBench(cfg forest.Config, sets int, universe uint64, ops int, seed int64, addr string, dump bool) {
	f := forest.NewWithConfig[uint64](cfg)

	if addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(metrics.NewCollector(f))
		go func() {
			log.Info().Str("addr", addr).Msg("serving prometheus metrics")
			if err := http.ListenAndServe(addr, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})); err != nil {
				log.Error().Err(err).Msg("metrics listener failed")
			}
		}()
	}

	src := rand.New(rand.NewSource(seed))
	base := make([]forest.Index, sets)
	for i := range base {
		elems := make([]uint64, src.Intn(32)+1)
		for j := range elems {
			elems[j] = src.Uint64() % universe
		}
		base[i], _ = f.RegisterSet(elems...)
	}
	log.Info().Int("sets", sets).Int("interned", f.NumSets()).Msg("base sets registered")

	evens := make(map[forest.Index]forest.Index)
	for i := 0; i < ops; i++ {
		a := base[src.Intn(len(base))]
		b := base[src.Intn(len(base))]
		switch src.Intn(6) {
		case 0:
			f.Union(a, b)
		case 1:
			f.Intersection(a, b)
		case 2:
			f.Difference(a, b)
		case 3:
			f.InsertSingle(a, src.Uint64()%universe)
		case 4:
			f.RemoveSingle(a, src.Uint64()%universe)
		case 5:
			f.Filter(a, func(e uint64) bool { return e%2 == 0 }, evens)
		}
	}

	heading := color.New(color.FgGreen, color.Bold)
	heading.Printf("workload complete: %s ops, %s sets interned\n",
		humanize.Comma(int64(ops)), humanize.Comma(int64(f.NumSets())))
	fmt.Print(f.DumpPerf())
	if dump {
		fmt.Print(f.Dump())
	}
}

func runPointsTo(path string, depth uint, dump bool) {
	g, err := loadGraph(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("cannot load edge list")
	}
	log.Info().Int("nodes", g.NumNodes()).Int("edges", g.NumEdges()).Msg("graph loaded")

	all := g.AllEdges()
	heading := color.New(color.FgCyan, color.Bold)
	heading.Printf("points-to closure (depth %d)\n", depth)

	for id := graph.NodeID(0); int(id) < g.NumNodes(); id++ {
		data, _ := g.NodeData(id)
		pts := g.PointsToDepth(all, id, depth)
		fmt.Printf("  %v: %d nodes\n", data, g.Nodes().SizeOf(pts))
	}
	if dump {
		fmt.Print(g.Nodes().Dump())
	}
}

func loadGraph(path string) (*graph.Graph[string], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	g := graph.New[string](forest.Config{})
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("%s:%d: expected 'src dst', got %q", path, line, scanner.Text())
		}
		g.AddEdge(fields[0], fields[1])
	}
	return g, scanner.Err()
}
