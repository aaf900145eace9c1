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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitess.io/autocalc/go/vt/calc/rex"
)

func TestBuildForest(t *testing.T) {
	f := buildForest(
		[]rex.Expr{rex.MustParse("U(E($0), 1)"), rex.MustParse("$2")},
		rex.MustParse("GT(:p, ROW($1)->0)"),
	)

	require.Len(t, f.roots, 3)
	assert.True(t, f.hasFilter())

	u := f.roots[0]
	assert.Equal(t, noNode, f.nodes[u].parent)
	assert.False(t, f.nodes[u].conditional)
	require.Len(t, f.nodes[u].children, 2)
	e, lit := f.nodes[u].children[0], f.nodes[u].children[1]
	assert.Equal(t, u, f.nodes[e].parent)
	assert.Equal(t, "E($0)", rex.FormatExpr(f.nodes[e].expr))
	require.Len(t, f.nodes[e].children, 1)
	assert.True(t, f.isColumn(f.nodes[e].children[0]))
	assert.Empty(t, f.nodes[lit].children)

	col := f.roots[1]
	assert.True(t, f.isColumn(col))
	assert.Empty(t, f.nodes[col].children)

	gt := f.roots[2]
	assert.True(t, f.nodes[gt].conditional)
	require.Len(t, f.nodes[gt].children, 2)
	bv, fa := f.nodes[gt].children[0], f.nodes[gt].children[1]
	_, isOp := f.operator(bv)
	assert.True(t, isOp, "bind variables are operators")
	assert.Empty(t, f.nodes[bv].children)
	require.Len(t, f.nodes[fa].children, 1, "field access has a single operand")
	assert.True(t, f.nodes[f.nodes[fa].children[0]].conditional)

	assert.Len(t, f.nodes, 10)
}

func TestBuildForestWithoutFilter(t *testing.T) {
	f := buildForest([]rex.Expr{rex.MustParse("$0")}, nil)
	assert.Len(t, f.roots, 1)
	assert.False(t, f.hasFilter())

	empty := buildForest(nil, nil)
	assert.Empty(t, empty.roots)
	assert.False(t, empty.hasFilter())
}

func TestForestCloneAndReplace(t *testing.T) {
	f := buildForest([]rex.Expr{rex.MustParse("U(E($0))")}, nil)
	c := f.clone()

	u := c.roots[0]
	e := c.nodes[u].children[0]
	pt := c.newNode(node{parent: u, children: []nodeID{e}})
	c.replaceChild(e, pt)
	assert.Equal(t, []nodeID{pt}, c.nodes[u].children)
	assert.True(t, c.isPassThrough(pt))

	rootPT := c.newNode(node{parent: noNode, children: []nodeID{u}})
	c.replaceChild(u, rootPT)
	assert.Equal(t, []nodeID{rootPT}, c.roots)

	// the original is untouched
	assert.Equal(t, []nodeID{e}, f.nodes[f.roots[0]].children)
	assert.Equal(t, []nodeID{u}, f.roots)
}
