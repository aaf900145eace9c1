/*
Copyright 2024 The Vitess Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package splitter

import (
	"fmt"

	"github.com/gammazero/deque"

	"vitess.io/autocalc/go/vt/calc/backend"
	"vitess.io/autocalc/go/vt/vterrors"
)

// layout is a forest where every parent/child edge spans at most one layer,
// and every node that produces a stage output knows its column position.
type layout struct {
	*forest

	layer    []int
	position []int
	// carrier maps a column leaf to its copy one layer deeper
	carrier  []nodeID
	slots    [][]nodeID
	kinds    []backend.Kind
	maxLayer int
}

// normalize inserts pass-through nodes on edges that skip layers and copies
// column leaves down to the deepest layer, where the input row lives. It
// works on a copy of f.
func normalize(f *forest, a *assignment) *layout {
	l := &layout{
		forest:   f.clone(),
		layer:    append([]int(nil), a.layer...),
		slots:    make([][]nodeID, a.maxLayer+1),
		kinds:    a.kinds,
		maxLayer: a.maxLayer,
	}
	l.position = make([]int, len(l.nodes))
	l.carrier = make([]nodeID, len(l.nodes))
	for i := range l.nodes {
		l.position[i] = unassigned
		l.carrier[i] = noNode
	}

	var queue deque.Deque[nodeID]
	for _, root := range l.roots {
		queue.PushBack(root)
	}
	for expected := 0; queue.Len() > 0; expected++ {
		if expected > l.maxLayer {
			panic(vterrors.VT13001(fmt.Sprintf("node left over below the deepest layer %d", l.maxLayer)))
		}
		for n := queue.Len(); n > 0; n-- {
			l.visit(queue.PopFront(), expected, &queue)
		}
	}
	return l
}

func (l *layout) visit(id nodeID, expected int, queue *deque.Deque[nodeID]) {
	if l.layer[id] < expected {
		panic(vterrors.VT13001(fmt.Sprintf("node on layer %d reached while normalizing layer %d", l.layer[id], expected)))
	}

	switch _, isOp := l.operator(id); {
	case isOp && l.layer[id] > expected:
		l.slot(l.bridge(id, expected), expected)
		queue.PushBack(id)
	case isOp:
		l.slot(id, expected)
		l.collect(id, expected, queue)
	case l.isColumn(id):
		l.slot(id, expected)
		if expected < l.maxLayer {
			queue.PushBack(l.carry(id, expected))
		}
	default:
		l.slot(id, expected)
	}
}

// collect walks the operands of an operator computed on layer. Operands on
// the same layer are evaluated inline; deeper ones become stage outputs of
// the next layer.
func (l *layout) collect(id nodeID, layer int, queue *deque.Deque[nodeID]) {
	for _, child := range l.nodes[id].children {
		_, isOp := l.operator(child)
		switch {
		case isOp && l.layer[child] == layer:
			l.collect(child, layer, queue)
		case isOp && l.layer[child] > layer:
			queue.PushBack(child)
		case isOp:
			panic(vterrors.VT13001(fmt.Sprintf("operand on layer %d consumed on layer %d", l.layer[child], layer)))
		case l.isColumn(child) && layer < l.maxLayer:
			queue.PushBack(l.carry(child, layer))
		}
	}
}

// bridge inserts a pass-through node on layer between id and its parent.
func (l *layout) bridge(id nodeID, layer int) nodeID {
	pt := l.add(node{
		parent:      l.nodes[id].parent,
		children:    []nodeID{id},
		conditional: l.nodes[id].conditional,
	}, layer)
	l.replaceChild(id, pt)
	l.nodes[id].parent = pt
	return pt
}

// carry copies the column leaf id one layer below layer.
func (l *layout) carry(id nodeID, layer int) nodeID {
	c := l.add(node{
		expr:        l.nodes[id].expr,
		parent:      id,
		conditional: l.nodes[id].conditional,
	}, layer+1)
	l.carrier[id] = c
	return c
}

func (l *layout) add(n node, layer int) nodeID {
	id := l.newNode(n)
	l.layer = append(l.layer, layer)
	l.position = append(l.position, unassigned)
	l.carrier = append(l.carrier, noNode)
	return id
}

// slot makes id the next output column of layer.
func (l *layout) slot(id nodeID, layer int) {
	l.position[id] = len(l.slots[layer])
	l.slots[layer] = append(l.slots[layer], id)
}
