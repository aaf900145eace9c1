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
	"vitess.io/autocalc/go/vt/calc/rex"
	"vitess.io/autocalc/go/vt/vterrors"
)

const unassigned = -1

// capability records which calculators implement a node.
type capability uint8

const (
	capKnown capability = 1 << iota
	capManaged
	capNative
)

func (c capability) supports(k backend.Kind) bool {
	switch k {
	case backend.Managed:
		return c&capManaged != 0
	case backend.Native:
		return c&capNative != 0
	}
	return c&(capManaged|capNative) != 0
}

func (c capability) both() bool {
	return c&capManaged != 0 && c&capNative != 0
}

// assignment is the result of layer assignment: the layer of every node
// and the calculator of every layer. Layer 0 is the outermost stage.
type assignment struct {
	layer    []int
	kinds    []backend.Kind
	maxLayer int
}

type assigner struct {
	f               *forest
	managed, native backend.Oracle
	caps            []capability

	assignment
}

// assignLayers walks the forest one depth at a time and decides the layer
// of every node. Each depth is tentatively assigned to the current layer.
// Nodes the current calculator cannot evaluate move one layer up or down,
// and nodes both calculators implement are pulled towards the outermost
// stage. The current layer only advances past a depth that placed a node
// on it, and consecutive layers alternate calculators.
func assignLayers(f *forest, managed, native backend.Oracle) *assignment {
	a := &assigner{
		f:       f,
		managed: managed,
		native:  native,
		caps:    make([]capability, len(f.nodes)),
		assignment: assignment{
			layer: make([]int, len(f.nodes)),
			kinds: []backend.Kind{backend.Either},
		},
	}
	for i := range a.layer {
		a.layer[i] = unassigned
	}

	var queue deque.Deque[nodeID]
	for _, root := range f.roots {
		queue.PushBack(root)
	}

	level := 0
	for queue.Len() > 0 {
		used := false
		for n := queue.Len(); n > 0; n-- {
			id := queue.PopFront()
			if a.place(id, level) {
				used = true
			}
			for _, child := range f.nodes[id].children {
				queue.PushBack(child)
			}
		}

		if a.kindAt(level) == backend.Either {
			// Nothing forced a calculator on the outermost stage.
			a.kinds[level] = backend.Managed
		}
		if used {
			level++
		}
	}

	a.kinds = a.kindsUpTo(a.maxLayer)
	return &a.assignment
}

// place assigns id to a layer and reports whether it went to the current
// level.
func (a *assigner) place(id nodeID, level int) bool {
	if _, isOp := a.f.operator(id); !isOp {
		if parent := a.f.nodes[id].parent; parent != noNode {
			a.layer[id] = a.layer[parent]
		} else {
			a.layer[id] = 0
		}
		return false
	}

	c := a.capabilities(id)
	current := a.kindAt(level)
	parent := a.f.nodes[id].parent

	if current == backend.Either {
		switch {
		case !c.supports(backend.Managed):
			a.kinds[level] = backend.Native
		case !c.supports(backend.Native):
			a.kinds[level] = backend.Managed
		}
		a.set(id, level)
		return true
	}

	var target int
	usedLevel := false
	switch {
	case !c.supports(current):
		if parent != noNode && a.layer[parent] < level {
			target = level - 1
		} else {
			target = level + 1
		}
	case level > 0 && c.both():
		target = level - 1
	case parent != noNode && a.kindAt(a.layer[parent]) == current:
		target = a.layer[parent]
	default:
		target = level
		usedLevel = true
	}

	// A node must be computed no later than the stage that consumes it.
	if parent != noNode && target < a.layer[parent] {
		target = a.layer[parent]
		if !c.supports(a.kindAt(target)) {
			target++
		}
		usedLevel = false
	}

	a.set(id, target)
	return usedLevel
}

func (a *assigner) set(id nodeID, layer int) {
	a.layer[id] = layer
	a.maxLayer = max(a.maxLayer, layer)
}

// kindAt returns the calculator of layer, extending the alternation when
// layer has not been seen yet.
func (a *assigner) kindAt(layer int) backend.Kind {
	for len(a.kinds) <= layer {
		a.kinds = append(a.kinds, a.kinds[len(a.kinds)-1].Other())
	}
	return a.kinds[layer]
}

func (a *assigner) kindsUpTo(layer int) []backend.Kind {
	a.kindAt(layer)
	return a.kinds[:layer+1]
}

func (a *assigner) capabilities(id nodeID) capability {
	if c := a.caps[id]; c&capKnown != 0 {
		return c
	}
	op, _ := a.f.operator(id)
	c := capKnown
	if a.managed.CanImplement(op) {
		c |= capManaged
	}
	if a.native.CanImplement(op) {
		c |= capNative
	}
	if !c.supports(backend.Either) {
		panic(vterrors.VT13001(fmt.Sprintf("no calculator implements %s", describeOperator(op))))
	}
	a.caps[id] = c
	return c
}

func describeOperator(op rex.Operator) string {
	return fmt.Sprintf("%s in %s", op.OperatorName(), rex.FormatExpr(op))
}
