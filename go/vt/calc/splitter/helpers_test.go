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
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"testing"

	"github.com/spf13/cast"
	"github.com/stretchr/testify/require"

	"vitess.io/autocalc/go/test/utils"
	"vitess.io/autocalc/go/vt/calc/backend"
	"vitess.io/autocalc/go/vt/calc/engine"
	"vitess.io/autocalc/go/vt/calc/rex"
)

func TestMain(m *testing.M) {
	code := m.Run()
	if code == 0 {
		if err := utils.GetLeaks(); err != nil {
			fmt.Fprintf(os.Stderr, "goroutine leak: %v\n", err)
			code = 1
		}
	}
	os.Exit(code)
}

// U, J and ROW only run on the managed calculator, E and C only on the
// native one. B, PLUS, GT and AND run on both.
var (
	testManaged = backend.NewOperatorTable([]string{"U", "J", "ROW", "B", "PLUS", "GT", "AND"}, true, true)
	testNative  = backend.NewOperatorTable([]string{"E", "C", "B", "PLUS", "GT", "AND"}, false, false)

	testFunctions = rex.Builtins().With(
		unaryInt("U", func(x int64) int64 { return x + 1 }),
		unaryInt("E", func(x int64) int64 { return x * 2 }),
		unaryInt("B", func(x int64) int64 { return x - 3 }),
		binaryInt("J", func(x, y int64) int64 { return x + y }),
		binaryInt("C", func(x, y int64) int64 { return x*10 + y }),
	)

	testRows = [][]rex.Value{
		{int64(1), int64(5), int64(-2)},
		{int64(2), int64(0), int64(7)},
		{int64(0), int64(3), int64(4)},
		{int64(6), nil, int64(1)},
	}

	testBindVars = map[string]rex.Value{"p": int64(4)}
)

func unaryInt(name string, fn func(x int64) int64) *rex.Function {
	return &rex.Function{Name: name, MinArgs: 1, MaxArgs: 1, Eval: func(args []rex.Value) (rex.Value, error) {
		if args[0] == nil {
			return nil, nil
		}
		x, err := cast.ToInt64E(args[0])
		if err != nil {
			return nil, err
		}
		return fn(x), nil
	}}
}

func binaryInt(name string, fn func(x, y int64) int64) *rex.Function {
	return &rex.Function{Name: name, MinArgs: 2, MaxArgs: 2, Eval: func(args []rex.Value) (rex.Value, error) {
		if args[0] == nil || args[1] == nil {
			return nil, nil
		}
		x, err := cast.ToInt64E(args[0])
		if err != nil {
			return nil, err
		}
		y, err := cast.ToInt64E(args[1])
		if err != nil {
			return nil, err
		}
		return fn(x, y), nil
	}}
}

func oracleFor(k backend.Kind) backend.Oracle {
	if k == backend.Native {
		return testNative
	}
	return testManaged
}

func newCalc(t testing.TB, projections []string, filter string) *engine.Calc {
	t.Helper()
	exprs, err := rex.ParseExprs(projections)
	require.NoError(t, err)
	calc := &engine.Calc{
		Exprs: exprs,
		Input: &engine.Values{Rows: testRows},
	}
	for i := range exprs {
		calc.Cols = append(calc.Cols, fmt.Sprintf("p%d", i))
	}
	if filter != "" {
		calc.Predicate, err = rex.Parse(filter)
		require.NoError(t, err)
	}
	return calc
}

// layerView is one stage of a split, as compared by tests.
type layerView struct {
	Backend   backend.Kind
	Exprs     string
	Predicate string
}

func describeLayers(c *engine.Calc) []layerView {
	var out []layerView
	for _, stage := range engine.Stages(c) {
		lv := layerView{Backend: stage.Backend, Exprs: rex.FormatExprs(stage.Exprs)}
		if stage.Predicate != nil {
			lv.Predicate = rex.FormatExpr(stage.Predicate)
		}
		out = append(out, lv)
	}
	return out
}

func execute(t testing.TB, p engine.Primitive) [][]rex.Value {
	t.Helper()
	qr, err := p.TryExecute(context.Background(), engine.NewVCursor(testFunctions), testBindVars)
	require.NoError(t, err)
	return qr.Rows
}

// randomExpr builds an expression over the test functions.
func randomExpr(r *rand.Rand, depth int) string {
	if depth == 0 || r.IntN(4) == 0 {
		switch r.IntN(6) {
		case 0:
			return fmt.Sprint(r.IntN(5))
		case 1:
			return ":p"
		default:
			return fmt.Sprintf("$%d", r.IntN(3))
		}
	}
	switch r.IntN(8) {
	case 0:
		return fmt.Sprintf("U(%s)", randomExpr(r, depth-1))
	case 1:
		return fmt.Sprintf("E(%s)", randomExpr(r, depth-1))
	case 2:
		return fmt.Sprintf("B(%s)", randomExpr(r, depth-1))
	case 3:
		return fmt.Sprintf("J(%s, %s)", randomExpr(r, depth-1), randomExpr(r, depth-1))
	case 4:
		return fmt.Sprintf("C(%s, %s)", randomExpr(r, depth-1), randomExpr(r, depth-1))
	case 5:
		return fmt.Sprintf("PLUS(%s, %s)", randomExpr(r, depth-1), randomExpr(r, depth-1))
	case 6:
		return fmt.Sprintf("ROW(%s, %s)->%d", randomExpr(r, depth-1), randomExpr(r, depth-1), r.IntN(2))
	default:
		return fmt.Sprintf("E(U(%s))", randomExpr(r, depth-1))
	}
}

// randomCalc returns projections and an optional filter.
func randomCalc(r *rand.Rand) ([]string, string) {
	projections := make([]string, 1+r.IntN(3))
	for i := range projections {
		projections[i] = randomExpr(r, 1+r.IntN(5))
	}
	filter := ""
	if r.IntN(2) == 0 {
		filter = fmt.Sprintf("GT(%s, %d)", randomExpr(r, 1+r.IntN(4)), r.IntN(6))
	}
	return projections, filter
}
