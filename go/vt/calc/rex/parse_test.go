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

package rex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitess.io/autocalc/go/vt/vterrors"
)

func TestParseFormat(t *testing.T) {
	tcases := []struct {
		in, out string
	}{
		{in: "$0", out: "$0"},
		{in: "$12", out: "$12"},
		{in: ":v1", out: ":v1"},
		{in: `"it's"`, out: `"it's"`},
		{in: "42", out: "42"},
		{in: "-7", out: "-7"},
		{in: "2.5", out: "2.5"},
		{in: "2.0", out: "2.0"},
		{in: "true", out: "TRUE"},
		{in: "False", out: "FALSE"},
		{in: "null", out: "NULL"},
		{in: "plus($0, 1)", out: "PLUS($0, 1)"},
		{in: "U(E($0))", out: "U(E($0))"},
		{in: "NOW()", out: "NOW()"},
		{in: "ROW($0, $1)->1", out: "ROW($0, $1)->1"},
		{in: "ROW(ROW($0))->0->0", out: "ROW(ROW($0))->0->0"},
		{in: "CONCAT(:p, \"x\", UPPER($2))", out: `CONCAT(:p, "x", UPPER($2))`},
	}
	for _, tc := range tcases {
		t.Run(tc.in, func(t *testing.T) {
			e, err := Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.out, FormatExpr(e))

			again, err := Parse(FormatExpr(e))
			require.NoError(t, err)
			assert.True(t, Equals(e, again))
		})
	}
}

func TestParseTypes(t *testing.T) {
	e := MustParse(`F($3, :k, "s", 1, 1.5, TRUE, NULL, ROW($0)->0)`)
	call, ok := e.(*Call)
	require.True(t, ok)
	require.Len(t, call.Args, 8)
	assert.Equal(t, &Column{Offset: 3}, call.Args[0])
	assert.Equal(t, &BindVariable{Key: "k"}, call.Args[1])
	assert.Equal(t, &Literal{Val: "s"}, call.Args[2])
	assert.Equal(t, &Literal{Val: int64(1)}, call.Args[3])
	assert.Equal(t, &Literal{Val: 1.5}, call.Args[4])
	assert.Equal(t, &Literal{Val: true}, call.Args[5])
	assert.Equal(t, &Literal{Val: nil}, call.Args[6])
	assert.Equal(t, &FieldAccess{Inner: NewCall("ROW", NewColumn(0)), Field: 0}, call.Args[7])
}

func TestParseErrors(t *testing.T) {
	tcases := []struct {
		in, err string
	}{
		{in: "", err: "unexpected end of input"},
		{in: "$", err: "expected column offset, got end of input"},
		{in: "$x", err: `expected column offset, got "x"`},
		{in: ":", err: "expected bind variable name"},
		{in: "FOO", err: "expected '(' after FOO"},
		{in: "F($0", err: "expected ',', got end of input"},
		{in: "F($0 $1)", err: "expected ',', got '$'"},
		{in: "$0 $1", err: "after expression"},
		{in: "$0->", err: "expected field index"},
		{in: "$0-1", err: "expected '>'"},
		{in: "-x", err: "expected number"},
	}
	for _, tc := range tcases {
		t.Run(tc.in, func(t *testing.T) {
			_, err := Parse(tc.in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.err)
			assert.Equal(t, vterrors.SyntaxError, vterrors.ErrState(err))
			assert.Equal(t, vterrors.INVALID_ARGUMENT, vterrors.Code(err))
		})
	}
}

func TestParseExprs(t *testing.T) {
	exprs, err := ParseExprs([]string{"$0", "UPPER($1)"})
	require.NoError(t, err)
	assert.Equal(t, "[$0, UPPER($1)]", FormatExprs(exprs))

	_, err = ParseExprs([]string{"$0", "UPPER("})
	require.ErrorContains(t, err, `parsing "UPPER("`)
}

func TestPrettyPrint(t *testing.T) {
	e := MustParse("U(E($0), 1)")
	assert.Equal(t, "U(\n    E(\n        $0), \n    1)", PrettyPrint(e))
}

func TestClone(t *testing.T) {
	e := MustParse(`U(E($0), ROW(1, "a")->1, :p)`)
	c := e.Clone()
	assert.True(t, Equals(e, c))

	c.(*Call).Args[0] = NewColumn(9)
	assert.Equal(t, `U(E($0), ROW(1, "a")->1, :p)`, FormatExpr(e))

	lit := &Literal{Val: []Value{int64(1), "a"}}
	clone := lit.Clone().(*Literal)
	clone.Val.([]Value)[0] = int64(2)
	assert.Equal(t, int64(1), lit.Val.([]Value)[0])
}

func TestWithOperands(t *testing.T) {
	call := NewCall("plus", NewColumn(0), NewLiteral(int64(1)))
	assert.Equal(t, "PLUS", call.OperatorName())
	replaced := call.WithOperands([]Expr{NewColumn(3), NewColumn(4)})
	assert.Equal(t, "PLUS($3, $4)", FormatExpr(replaced))
	assert.Equal(t, "PLUS($0, 1)", FormatExpr(call))

	fa := &FieldAccess{Inner: NewColumn(0), Field: 2}
	assert.Equal(t, FieldAccessOperator, fa.OperatorName())
	assert.Equal(t, "$5->2", FormatExpr(fa.WithOperands([]Expr{NewColumn(5)})))

	bv := &BindVariable{Key: "k"}
	assert.Equal(t, BindVariableOperator, bv.OperatorName())
	assert.Empty(t, bv.Operands())
	assert.Equal(t, ":k", FormatExpr(bv.WithOperands(nil)))
}

func TestVisitOperators(t *testing.T) {
	var names []string
	VisitOperators(func(op Operator) bool {
		names = append(names, op.OperatorName())
		return true
	}, MustParse("U(E($0), :p)"), MustParse("$1"), MustParse("ROW($0)->0"))
	assert.Equal(t, []string{"U", "E", BindVariableOperator, FieldAccessOperator, "ROW"}, names)

	names = nil
	VisitOperators(func(op Operator) bool {
		names = append(names, op.OperatorName())
		return false
	}, MustParse("U(E($0))"), MustParse("J($1)"))
	assert.Equal(t, []string{"U"}, names)
}
