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

// Package skip implements an in-memory sorted set of keys backed by a
// skip list. Ordering is determined by a caller-supplied comparator.
package skip

import (
	"math"
	"math/rand"
)

const (
	maxHeight  = 9
	maxCount   = math.MaxUint32 - 1
	sentinelId = nodeId(0)
)

// KeyOrder determines the total order of keys in a List.
type KeyOrder[K any] func(l, r K) (cmp int)

// List is a sorted set of keys.
type List[K any] struct {
	nodes    []skipNode[K]
	count    uint32
	keyOrder KeyOrder[K]
}

type nodeId uint32

type skipPointer [maxHeight + 1]nodeId

type skipNode[K any] struct {
	key K

	id     nodeId
	next   skipPointer
	prev   nodeId
	height uint8
}

func NewSkipList[K any](order KeyOrder[K]) *List[K] {
	nodes := make([]skipNode[K], 0, 8)

	// initialize sentinel node
	nodes = append(nodes, skipNode[K]{
		id:     sentinelId,
		height: maxHeight,
		next:   skipPointer{},
		prev:   sentinelId,
	})

	return &List[K]{
		nodes:    nodes,
		keyOrder: order,
	}
}

func (l *List[K]) Count() int {
	return int(l.count)
}

func (l *List[K]) Has(key K) (ok bool) {
	path := l.pathToKey(key)
	node := l.getNode(path[0])
	return node.id != sentinelId && l.keyOrder(key, node.key) == 0
}

// Put inserts |key| into |l|. Inserting a key that is already present
// leaves the list unchanged.
func (l *List[K]) Put(key K) {
	if len(l.nodes) >= maxCount {
		panic("list has no capacity")
	}

	// find the path to the greatest
	// existing node key less than |key|
	path := l.pathBeforeKey(key)

	// check if |key| exists in |l|
	node := l.getNode(path[0])
	node = l.getNode(node.next[0])

	if node.id != sentinelId && l.keyOrder(key, node.key) == 0 {
		return
	}

	l.insert(key, path)
	l.count++
}

func (l *List[K]) pathToKey(key K) (path skipPointer) {
	next := l.headPointer()
	prev := sentinelId

	for lvl := int(maxHeight); lvl >= 0; {
		curr := l.getNode(next[lvl])

		// descend if we can't advance at |lvl|
		if l.compare(key, curr) < 0 {
			path[lvl] = prev
			lvl--
			continue
		}

		// advance
		next = curr.next
		prev = curr.id
	}
	return
}

func (l *List[K]) pathBeforeKey(key K) (path skipPointer) {
	next := l.headPointer()
	prev := sentinelId

	for lvl := int(maxHeight); lvl >= 0; {
		curr := l.getNode(next[lvl])

		// descend if we can't advance at |lvl|
		if l.compare(key, curr) <= 0 {
			path[lvl] = prev
			lvl--
			continue
		}

		// advance
		next = curr.next
		prev = curr.id
	}
	return
}

func (l *List[K]) insert(key K, path skipPointer) {
	novel := skipNode[K]{
		key:    key,
		id:     l.nextNodeId(),
		height: rollHeight(),
	}
	l.nodes = append(l.nodes, novel)

	for h := uint8(0); h <= novel.height; h++ {
		// set forward pointers
		n := l.getNode(path[h])
		novel.next[h] = n.next[h]
		n.next[h] = novel.id
		l.updateNode(n)
	}

	// set back pointers
	n := l.getNode(novel.next[0])
	novel.prev = n.prev
	l.updateNode(novel)
	n.prev = novel.id
	l.updateNode(n)
}

type ListIter[K any] struct {
	curr skipNode[K]
	list *List[K]
}

func (it *ListIter[K]) Count() int {
	return it.list.Count()
}

// Current returns the key under the iterator, and false once the
// iterator has moved past either end of the list.
func (it *ListIter[K]) Current() (key K, ok bool) {
	if it.curr.id == sentinelId {
		return
	}
	return it.curr.key, true
}

func (it *ListIter[K]) Advance() {
	it.curr = it.list.getNode(it.curr.next[0])
}

func (it *ListIter[K]) Retreat() {
	it.curr = it.list.getNode(it.curr.prev)
}

func (l *List[K]) GetIterAt(key K) (it *ListIter[K]) {
	it = &ListIter[K]{
		curr: l.seek(key),
		list: l,
	}
	if it.curr.id == sentinelId {
		// try to keep |it| in bounds if |key| is
		// greater than the largest key in |l|
		it.Retreat()
	}
	return
}

func (l *List[K]) IterAtStart() *ListIter[K] {
	return &ListIter[K]{
		curr: l.firstNode(),
		list: l,
	}
}

func (l *List[K]) IterAtEnd() *ListIter[K] {
	return &ListIter[K]{
		curr: l.lastNode(),
		list: l,
	}
}

// seek returns the skipNode with the smallest key >= |key|.
func (l *List[K]) seek(key K) (node skipNode[K]) {
	ptr := l.headPointer()
	for h := int(maxHeight); h >= 0; h-- {
		node = l.getNode(ptr[h])
		for l.compare(key, node) > 0 {
			ptr = node.next
			node = l.getNode(ptr[h])
		}
	}
	return
}

func (l *List[K]) headPointer() skipPointer {
	return l.nodes[0].next
}

func (l *List[K]) firstNode() skipNode[K] {
	return l.getNode(l.nodes[0].next[0])
}

func (l *List[K]) lastNode() skipNode[K] {
	s := l.getNode(sentinelId)
	return l.getNode(s.prev)
}

func (l *List[K]) getNode(id nodeId) skipNode[K] {
	return l.nodes[id]
}

func (l *List[K]) updateNode(node skipNode[K]) {
	l.nodes[node.id] = node
}

func (l *List[K]) nextNodeId() nodeId {
	return nodeId(len(l.nodes))
}

func (l *List[K]) compare(key K, nd skipNode[K]) int {
	if nd.id == sentinelId {
		return -1 // the sentinel sorts after every key
	}
	return l.keyOrder(key, nd.key)
}

var (
	// Precompute the skiplist probabilities so that the optimal
	// p-value can be used (inverse of Euler's number).
	//
	// https://github.com/andy-kimball/arenaskl/blob/master/skl.go
	probabilities = [maxHeight]uint32{}
	randSrc       = rand.New(rand.NewSource(rand.Int63()))
)

func init() {
	p := float64(1.0)
	for i := uint8(0); i < maxHeight; i++ {
		p /= math.E
		probabilities[i] = uint32(float64(math.MaxUint32) * p)
	}
}

func rollHeight() (h uint8) {
	rnd := randSrc.Uint32()
	h = 0
	for h < maxHeight && rnd <= probabilities[h] {
		h++
	}
	return
}
