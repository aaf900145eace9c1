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
	"bytes"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitess.io/autocalc/go/test/utils"
	"vitess.io/autocalc/go/vt/calc/backend"
	"vitess.io/autocalc/go/vt/calc/engine"
	"vitess.io/autocalc/go/vt/log"
	"vitess.io/autocalc/go/vt/vterrors"
)

const (
	managed = backend.Managed
	native  = backend.Native
)

var splitCases = []struct {
	name        string
	projections []string
	filter      string
	// layers, outermost first
	want []layerView
}{{
	name:        "native operand of a managed operator",
	projections: []string{"U(E($0))"},
	want: []layerView{
		{Backend: managed, Exprs: "[U($0)]"},
		{Backend: native, Exprs: "[E($0)]"},
	},
}, {
	name:        "managed operand of a native operator",
	projections: []string{"E(U($0))"},
	want: []layerView{
		{Backend: native, Exprs: "[E($0)]"},
		{Backend: managed, Exprs: "[U($0)]"},
	},
}, {
	name:        "filter on a native operand",
	projections: []string{"$0", "$1"},
	filter:      "GT(E($0), $1)",
	want: []layerView{
		{Backend: managed, Exprs: "[$0, $1]", Predicate: "GT($2, $3)"},
		{Backend: native, Exprs: "[$0, $1, E($0), $1]"},
	},
}, {
	name:        "operator both calculators implement is pulled up",
	projections: []string{"U(PLUS(E($0), 1))"},
	want: []layerView{
		{Backend: managed, Exprs: "[U(PLUS($0, 1))]"},
		{Backend: native, Exprs: "[E($0)]"},
	},
}, {
	name:        "outermost calculator defaults to managed",
	projections: []string{"PLUS(E($0), U($1))"},
	want: []layerView{
		{Backend: managed, Exprs: "[PLUS($0, U($1))]"},
		{Backend: native, Exprs: "[E($0), $1]"},
	},
}, {
	name:        "root pushed below the first forcing root",
	projections: []string{"E($0)", "U($1)"},
	want: []layerView{
		{Backend: native, Exprs: "[E($0), $1]"},
		{Backend: managed, Exprs: "[$0, U($1)]"},
	},
}, {
	name:        "operand never placed above its consumer",
	projections: []string{"U($0)", "E(B($1))"},
	want: []layerView{
		{Backend: managed, Exprs: "[U($0), $1]"},
		{Backend: native, Exprs: "[$0, E(B($1))]"},
	},
}, {
	name:        "column carried down three layers",
	projections: []string{"$0", "U(E(U($1)))"},
	want: []layerView{
		{Backend: managed, Exprs: "[$0, U($1)]"},
		{Backend: native, Exprs: "[$0, E($1)]"},
		{Backend: managed, Exprs: "[$0, U($1)]"},
	},
}, {
	name:        "pass-through chain across three layers",
	projections: []string{"U(E(U(E($0))))", "U(U(U(E($1))))"},
	want: []layerView{
		{Backend: managed, Exprs: "[U($0), U(U(U($1)))]"},
		{Backend: native, Exprs: "[E($0), $1]"},
		{Backend: managed, Exprs: "[U($0), $1]"},
		{Backend: native, Exprs: "[E($0), E($1)]"},
	},
}, {
	name:        "bind variables only evaluate on the managed calculator",
	projections: []string{"C($0, :p)"},
	want: []layerView{
		{Backend: native, Exprs: "[C($0, $1)]"},
		{Backend: managed, Exprs: "[$0, :p]"},
	},
}, {
	name:        "field access only evaluates on the managed calculator",
	projections: []string{"E(ROW($0, $1)->1)"},
	want: []layerView{
		{Backend: native, Exprs: "[E($0)]"},
		{Backend: managed, Exprs: "[ROW($0, $1)->1]"},
	},
}, {
	name:        "filter mixing both calculators",
	projections: []string{"$0"},
	filter:      "GT(U(E($0)), 3)",
	want: []layerView{
		{Backend: managed, Exprs: "[$0]", Predicate: "GT(U($1), 3)"},
		{Backend: native, Exprs: "[$0, E($0)]"},
	},
}}

func TestSplit(t *testing.T) {
	for _, tc := range splitCases {
		t.Run(tc.name, func(t *testing.T) {
			calc := newCalc(t, tc.projections, tc.filter)
			out, err := Split(calc, testManaged, testNative)
			require.NoError(t, err)
			utils.MustMatch(t, tc.want, describeLayers(out))

			stages := engine.Stages(out)
			assert.Equal(t, calc.Cols, stages[0].Cols)
			assert.Same(t, calc.Input, stages[len(stages)-1].Input)
			for _, stage := range stages[1:] {
				assert.Len(t, stage.Cols, len(stage.Exprs))
			}
		})
	}
}

func TestSplitRoundTrip(t *testing.T) {
	for _, tc := range splitCases {
		t.Run(tc.name, func(t *testing.T) {
			calc := newCalc(t, tc.projections, tc.filter)
			out, err := Split(calc, testManaged, testNative)
			require.NoError(t, err)
			utils.MustMatch(t, execute(t, calc), execute(t, out), "split chain changed the result")
		})
	}
}

func TestSplitRoundTripValues(t *testing.T) {
	calc := newCalc(t, []string{"U(E(U(E($0))))", "U(U(U(E($1))))"}, "")
	out, err := Split(calc, testManaged, testNative)
	require.NoError(t, err)
	rows := execute(t, out)
	require.Len(t, rows, len(testRows))
	// $0 = 1: E 2, U 3, E 6, U 7. $1 = 5: E 10, U 11, 12, 13.
	assert.Equal(t, []any{int64(7), int64(13)}, rows[0])
}

func TestSplitSingleBackend(t *testing.T) {
	tcases := []struct {
		projections []string
		want        backend.Kind
	}{
		{projections: []string{"U($0)", "J($0, $1)"}, want: managed},
		{projections: []string{"E($0)", "C($1, PLUS($0, 1))"}, want: native},
		{projections: []string{"PLUS($0, 1)"}, want: managed},
		{projections: []string{"$0", "7"}, want: managed},
	}
	for _, tc := range tcases {
		calc := newCalc(t, tc.projections, "")
		out, err := Split(calc, testManaged, testNative)
		require.NoError(t, err)
		layers := describeLayers(out)
		require.Len(t, layers, 1, "%v", tc.projections)
		assert.Equal(t, tc.want, layers[0].Backend)
		assert.Equal(t, calc.Exprs, out.Exprs)
	}
}

func TestSplitUnsupportedOperator(t *testing.T) {
	calc := newCalc(t, []string{"U(NOPE($0))"}, "")
	_, err := Split(calc, testManaged, testNative)
	require.EqualError(t, err, "VT13001: [BUG] no calculator implements NOPE in NOPE($0)")
	assert.Equal(t, vterrors.INTERNAL, vterrors.Code(err))
}

func TestPanicHandler(t *testing.T) {
	run := func(fn func()) (err error) {
		defer PanicHandler(&err)
		fn()
		return nil
	}

	err := run(func() { panic(vterrors.VT13001("broken layer")) })
	require.EqualError(t, err, "VT13001: [BUG] broken layer")

	err = run(func() {
		var kinds []backend.Kind
		_ = kinds[len(kinds)]
	})
	require.ErrorContains(t, err, "VT13001: [BUG] calculator split failed: runtime error: index out of range")
	assert.Equal(t, vterrors.INTERNAL, vterrors.Code(err))

	assert.PanicsWithValue(t, "not an error", func() {
		_ = run(func() { panic("not an error") })
	})
}

func TestSplitDoesNotModifyInput(t *testing.T) {
	calc := newCalc(t, []string{"U(E(U(E($0))))", "U(U(U(E($1))))"}, "GT(E($2), 1)")
	before := describeLayers(calc)
	_, err := Split(calc, testManaged, testNative)
	require.NoError(t, err)
	utils.MustMatch(t, before, describeLayers(calc))
}

// TestSplitRandomForests checks every split of generated forests yields a
// valid chain computing the same rows.
func TestSplitRandomForests(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		projections, filter := randomCalc(r)
		calc := newCalc(t, projections, filter)
		out, err := Split(calc, testManaged, testNative)
		require.NoError(t, err, "%v where %s", projections, filter)

		stages := engine.Stages(out)
		for j, stage := range stages {
			require.NotEqual(t, backend.Either, stage.Backend)
			require.True(t, backend.CanImplementAll(oracleFor(stage.Backend), stage.AllExprs()...),
				"%v where %s: stage %d on %s: %v", projections, filter, j, stage.Backend, describeLayers(out))
			if j > 0 {
				require.NotEqual(t, stages[j-1].Backend, stage.Backend, "calculators must alternate")
			}
		}
		if backend.CanImplementAll(testManaged, calc.AllExprs()...) {
			require.Len(t, stages, 1, "%v where %s", projections, filter)
		}
		require.Equal(t, execute(t, calc), execute(t, out), "%v where %s: %v", projections, filter, describeLayers(out))
	}
}

func TestTraceLevels(t *testing.T) {
	var buf bytes.Buffer
	restore := log.SetLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer restore()

	_, err := Split(newCalc(t, []string{"U(E($0))"}, ""), testManaged, testNative)
	require.NoError(t, err)

	var records []map[string]any
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var rec map[string]any
		require.NoError(t, dec.Decode(&rec))
		records = append(records, rec)
	}
	require.Len(t, records, 2)
	assert.Equal(t, "calc split layer", records[0]["msg"])
	assert.EqualValues(t, 1, records[0]["layer"])
	assert.Equal(t, "Native", records[0]["backend"])
	assert.Equal(t, "[E($0)]", records[0]["exprs"])
	assert.EqualValues(t, 0, records[1]["layer"])
	assert.Equal(t, "[U($0)]", records[1]["exprs"])
}

func TestTraceLevelsDisabled(t *testing.T) {
	var buf bytes.Buffer
	restore := log.SetLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	defer restore()

	_, err := Split(newCalc(t, []string{"U(E($0))"}, ""), testManaged, testNative)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
