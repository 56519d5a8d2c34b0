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

// Package graph is a thin points-to / call-graph front end over a pair
// of forests: one interning sets of node ids, one interning sets of
// edges packed into 64-bit scalars. The forests make no assumptions
// about this client; everything here goes through their public API.
package graph

import (
	"cmp"
	"fmt"

	"github.com/dolthub/lhf/forest"
)

// NodeID is the dense numeric identity of a graph node.
type NodeID uint32

// Edge is a directed (source, destination) pair of node ids.
type Edge struct {
	Src, Dst NodeID
}

// PackEdge packs an edge into the 64-bit scalar interned by edge
// forests: source in the high half, destination in the low half.
func PackEdge(e Edge) uint64 {
	return uint64(e.Src)<<32 | uint64(e.Dst)
}

func UnpackEdge(p uint64) Edge {
	return Edge{Src: NodeID(p >> 32), Dst: NodeID(p & 0xFFFFFFFF)}
}

// Graph holds a static node-data to id mapping, an edge list, and the
// two forests interning node sets and edge sets over them.
type Graph[N cmp.Ordered] struct {
	ids   map[N]NodeID
	data  []N
	edges []Edge
	known map[uint64]struct{}

	nodes *forest.Forest[uint32]
	packs *forest.Forest[uint64]
}

func New[N cmp.Ordered](cfg forest.Config) *Graph[N] {
	return &Graph[N]{
		ids:   make(map[N]NodeID),
		known: make(map[uint64]struct{}),
		nodes: forest.NewWithConfig[uint32](cfg),
		packs: forest.NewWithConfig[uint64](cfg),
	}
}

// AddNode assigns |data| a dense id, reusing the existing id when the
// node is already present.
func (g *Graph[N]) AddNode(data N) NodeID {
	if id, ok := g.ids[data]; ok {
		return id
	}
	id := NodeID(len(g.data))
	g.ids[data] = id
	g.data = append(g.data, data)
	return id
}

// AddEdge records a directed edge between two nodes, adding either
// endpoint as needed.
func (g *Graph[N]) AddEdge(src, dst N) Edge {
	e := Edge{Src: g.AddNode(src), Dst: g.AddNode(dst)}
	if _, ok := g.known[PackEdge(e)]; !ok {
		g.known[PackEdge(e)] = struct{}{}
		g.edges = append(g.edges, e)
	}
	return e
}

func (g *Graph[N]) NumNodes() int {
	return len(g.data)
}

func (g *Graph[N]) NumEdges() int {
	return len(g.edges)
}

// NodeID returns the id assigned to |data|.
func (g *Graph[N]) NodeID(data N) (NodeID, bool) {
	id, ok := g.ids[data]
	return id, ok
}

// NodeData returns the data registered under |id|.
func (g *Graph[N]) NodeData(id NodeID) (data N, ok bool) {
	if int(id) >= len(g.data) {
		return
	}
	return g.data[id], true
}

// Nodes is the forest interning sets of node ids.
func (g *Graph[N]) Nodes() *forest.Forest[uint32] {
	return g.nodes
}

// Edges is the forest interning sets of packed edges.
func (g *Graph[N]) Edges() *forest.Forest[uint64] {
	return g.packs
}

// EdgeProperty returns the packed scalar for |e|, failing on an edge
// that was never added to the graph.
func (g *Graph[N]) EdgeProperty(e Edge) (uint64, error) {
	p := PackEdge(e)
	if _, ok := g.known[p]; !ok {
		return 0, fmt.Errorf("graph: invalid edge (%d -> %d)", e.Src, e.Dst)
	}
	return p, nil
}

// EdgeIndex interns the singleton edge set {e}.
func (g *Graph[N]) EdgeIndex(e Edge) (forest.Index, error) {
	p, err := g.EdgeProperty(e)
	if err != nil {
		return forest.EmptySet, err
	}
	i, _ := g.packs.RegisterSingleton(p)
	return i, nil
}

// AllEdges interns the graph's full edge set.
func (g *Graph[N]) AllEdges() forest.Index {
	props := make([]uint64, len(g.edges))
	for i, e := range g.edges {
		props[i] = PackEdge(e)
	}
	idx, _ := g.packs.RegisterSet(props...)
	return idx
}

// ContainsEdge reports membership of |e| in the edge set at |i|.
func (g *Graph[N]) ContainsEdge(i forest.Index, e Edge) bool {
	return g.packs.Contains(i, PackEdge(e))
}

// ContainsNode reports membership of |id| in the node set at |i|.
func (g *Graph[N]) ContainsNode(i forest.Index, id NodeID) bool {
	return g.nodes.Contains(i, uint32(id))
}

// PointsTo returns the node set reached from |id| by the edges in the
// edge set at |edges|.
func (g *Graph[N]) PointsTo(edges forest.Index, id NodeID) forest.Index {
	var dsts []uint32
	for _, p := range g.packs.Value(edges) {
		e := UnpackEdge(p)
		if e.Src == id {
			dsts = append(dsts, uint32(e.Dst))
		}
	}
	idx, _ := g.nodes.RegisterSet(dsts...)
	return idx
}

// PointsToAll unions PointsTo over |ids|.
func (g *Graph[N]) PointsToAll(edges forest.Index, ids []NodeID) forest.Index {
	result := forest.EmptySet
	for _, id := range ids {
		result = g.nodes.Union(result, g.PointsTo(edges, id))
	}
	return result
}

// PointsToSet unions PointsTo over the node set at |set|.
func (g *Graph[N]) PointsToSet(edges forest.Index, set forest.Index) forest.Index {
	result := forest.EmptySet
	for _, id := range g.nodes.Value(set) {
		result = g.nodes.Union(result, g.PointsTo(edges, NodeID(id)))
	}
	return result
}

// PointsToDepth iterates PointsTo up to |depth| steps from |id|,
// stopping early once a step reaches nothing.
func (g *Graph[N]) PointsToDepth(edges forest.Index, id NodeID, depth uint) forest.Index {
	if depth == 0 {
		return forest.EmptySet
	}
	result := g.PointsTo(edges, id)
	for i := uint(1); i < depth; i++ {
		if g.nodes.IsEmpty(result) {
			break
		}
		result = g.PointsToSet(edges, result)
	}
	return result
}
