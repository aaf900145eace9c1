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
	"strconv"

	"vitess.io/autocalc/go/vt/calc/engine"
	"vitess.io/autocalc/go/vt/calc/rex"
	"vitess.io/autocalc/go/vt/vterrors"
)

// materialize returns the output expressions of every layer, in slot order.
// Expressions on a layer read the outputs of the layer right below it, and
// the deepest layer reads the original input row.
func (l *layout) materialize() [][]rex.Expr {
	levels := make([][]rex.Expr, l.maxLayer+1)
	for layer := l.maxLayer; layer >= 0; layer-- {
		exprs := make([]rex.Expr, 0, len(l.slots[layer]))
		for _, id := range l.slots[layer] {
			exprs = append(exprs, l.slotExpr(id, layer))
		}
		levels[layer] = exprs
	}
	return levels
}

func (l *layout) slotExpr(id nodeID, layer int) rex.Expr {
	switch {
	case l.isPassThrough(id):
		return l.deeperOutput(l.nodes[id].children[0], layer)
	case l.isColumn(id):
		return l.columnRef(id)
	}
	if _, isOp := l.operator(id); isOp {
		return l.inline(id, layer)
	}
	return l.nodes[id].expr.Clone()
}

// inline rebuilds the operator id with operands of the same layer expanded
// in place and deeper operands read from the layer below.
func (l *layout) inline(id nodeID, layer int) rex.Expr {
	op, _ := l.operator(id)
	children := l.nodes[id].children
	operands := make([]rex.Expr, len(children))
	for i, child := range children {
		operands[i] = l.operand(child, layer)
	}
	return op.WithOperands(operands)
}

func (l *layout) operand(id nodeID, layer int) rex.Expr {
	if l.isPassThrough(id) {
		return l.deeperOutput(id, layer)
	}
	if _, isOp := l.operator(id); isOp {
		if l.layer[id] == layer {
			return l.inline(id, layer)
		}
		return l.deeperOutput(id, layer)
	}
	if l.isColumn(id) {
		return l.columnRef(id)
	}
	return l.nodes[id].expr.Clone()
}

// deeperOutput references the output of id, which must be computed on the
// layer right below layer.
func (l *layout) deeperOutput(id nodeID, layer int) rex.Expr {
	if l.layer[id] != layer+1 || l.position[id] == unassigned {
		panic(vterrors.VT13001(fmt.Sprintf("layer %d reads a value of layer %d", layer, l.layer[id])))
	}
	return rex.NewColumn(l.position[id])
}

// columnRef reads a column leaf through its copy on the layer below, or
// from the input row on the deepest layer.
func (l *layout) columnRef(id nodeID) rex.Expr {
	if c := l.carrier[id]; c != noNode {
		return rex.NewColumn(l.position[c])
	}
	return l.nodes[id].expr.Clone()
}

// buildStages chains one calculator per layer, deepest first, on top of
// the input of orig. The outermost stage keeps the column names of orig and
// turns the trailing filter expression back into its predicate.
func (l *layout) buildStages(orig *engine.Calc, levels [][]rex.Expr) *engine.Calc {
	input := orig.Input
	var stage *engine.Calc
	for layer := l.maxLayer; layer >= 0; layer-- {
		stage = &engine.Calc{
			Backend: l.kinds[layer],
			Exprs:   levels[layer],
			Input:   input,
		}
		if layer == 0 {
			stage.Cols = orig.Cols
			if l.hasFilter() {
				last := len(stage.Exprs) - 1
				stage.Predicate = stage.Exprs[last]
				stage.Exprs = stage.Exprs[:last]
			}
		} else {
			stage.Cols = positionalNames(len(stage.Exprs))
		}
		input = stage
	}
	return stage
}

func positionalNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = "$" + strconv.Itoa(i)
	}
	return names
}
