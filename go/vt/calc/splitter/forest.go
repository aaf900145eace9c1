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
	"vitess.io/autocalc/go/vt/calc/rex"
)

type nodeID int

const noNode nodeID = -1

// node is one expression of the forest. Parent and children are indexes
// into the forest arena.
type node struct {
	// expr is nil for a pass-through node
	expr        rex.Expr
	parent      nodeID
	children    []nodeID
	conditional bool
}

// forest holds one tree per projection and an optional trailing tree for
// the filter condition.
type forest struct {
	nodes []node
	roots []nodeID
}

func buildForest(projections []rex.Expr, filter rex.Expr) *forest {
	f := &forest{}
	for _, e := range projections {
		f.roots = append(f.roots, f.add(e, noNode, false))
	}
	if filter != nil {
		f.roots = append(f.roots, f.add(filter, noNode, true))
	}
	return f
}

func (f *forest) add(e rex.Expr, parent nodeID, conditional bool) nodeID {
	id := f.newNode(node{expr: e, parent: parent, conditional: conditional})
	if op, ok := e.(rex.Operator); ok {
		for _, operand := range op.Operands() {
			child := f.add(operand, id, conditional)
			f.nodes[id].children = append(f.nodes[id].children, child)
		}
	}
	return id
}

func (f *forest) newNode(n node) nodeID {
	f.nodes = append(f.nodes, n)
	return nodeID(len(f.nodes) - 1)
}

// clone returns a copy of the forest that can be rewritten independently.
func (f *forest) clone() *forest {
	out := &forest{
		nodes: make([]node, len(f.nodes)),
		roots: append([]nodeID(nil), f.roots...),
	}
	for i, n := range f.nodes {
		n.children = append([]nodeID(nil), n.children...)
		out.nodes[i] = n
	}
	return out
}

func (f *forest) hasFilter() bool {
	return len(f.roots) > 0 && f.nodes[f.roots[len(f.roots)-1]].conditional
}

func (f *forest) isPassThrough(id nodeID) bool {
	return f.nodes[id].expr == nil
}

func (f *forest) operator(id nodeID) (rex.Operator, bool) {
	op, ok := f.nodes[id].expr.(rex.Operator)
	return op, ok
}

func (f *forest) isColumn(id nodeID) bool {
	_, ok := f.nodes[id].expr.(*rex.Column)
	return ok
}

// replaceChild swaps old for repl in the child list of old's parent, or in
// the root list when old is a root.
func (f *forest) replaceChild(old, repl nodeID) {
	parent := f.nodes[old].parent
	list := f.roots
	if parent != noNode {
		list = f.nodes[parent].children
	}
	for i, id := range list {
		if id == old {
			list[i] = repl
			return
		}
	}
}
