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

// Package splitter breaks a calculator whose expressions need both the
// managed and the native backend into a chain of single-backend
// calculators.
//
// The projections and the filter form a forest of expression trees. Every
// operator is assigned a layer, layer 0 being the outermost stage, and
// consecutive layers alternate backends. Edges skipping layers are bridged
// with pass-through nodes, and each layer then becomes one calculator whose
// input is the layer below it.
package splitter

import (
	"fmt"
	"log/slog"
	"runtime"

	"vitess.io/autocalc/go/vt/calc/backend"
	"vitess.io/autocalc/go/vt/calc/engine"
	"vitess.io/autocalc/go/vt/calc/rex"
	"vitess.io/autocalc/go/vt/log"
	"vitess.io/autocalc/go/vt/vterrors"
)

// Split returns the outermost stage of a chain of calculators equivalent
// to calc. Every operator of calc must be implemented by managed or
// native. The deepest stage reads calc.Input.
func Split(calc *engine.Calc, managed, native backend.Oracle) (result *engine.Calc, err error) {
	defer PanicHandler(&err)

	f := buildForest(calc.Exprs, calc.Predicate)
	a := assignLayers(f, managed, native)
	l := normalize(f, a)
	levels := l.materialize()
	traceLevels(levels, l.kinds)

	return l.buildStages(calc, levels), nil
}

// PanicHandler recovers the internal errors the split phases panic with.
// Runtime errors raised by a phase become VT13001 errors. Any other panic
// value propagates.
func PanicHandler(err *error) {
	if r := recover(); r != nil {
		switch badness := r.(type) {
		case *vterrors.VitessError:
			*err = badness
		case runtime.Error:
			*err = vterrors.VT13001(fmt.Sprintf("calculator split failed: %v", badness))
		default:
			panic(r)
		}
	}
}

func traceLevels(levels [][]rex.Expr, kinds []backend.Kind) {
	if !log.Enabled(slog.LevelDebug) {
		return
	}
	for layer := len(levels) - 1; layer >= 0; layer-- {
		log.DebugS("calc split layer", "layer", layer, "backend", kinds[layer].String(), "exprs", rex.FormatExprs(levels[layer]))
	}
}
