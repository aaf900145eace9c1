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

// Package engine contains the primitives a calculator plan is made of and
// executes them row by row.
package engine

import (
	"context"

	"vitess.io/autocalc/go/vt/calc/rex"
)

type (
	// VCursor defines the interface the engine will use
	// to execute expressions
	VCursor interface {
		// Functions is the registry calls are resolved against.
		Functions() *rex.Registry
	}

	// Primitive is the building block of the calculator plan.
	Primitive interface {
		TryExecute(ctx context.Context, vcursor VCursor, bindVars map[string]rex.Value) (*Result, error)

		// Inputs returns the primitives feeding this one.
		Inputs() []Primitive

		// description is the description, sans the inputs, of this Primitive.
		// to get the plan description with all children, use PrimitiveToPlanDescription()
		description() PrimitiveDescription
	}

	// Result is the output of a primitive.
	Result struct {
		Fields []string
		Rows   [][]rex.Value
	}
)

type vcursor struct {
	functions *rex.Registry
}

// NewVCursor returns a cursor resolving calls against functions. A nil
// registry means the builtins.
func NewVCursor(functions *rex.Registry) VCursor {
	if functions == nil {
		functions = rex.Builtins()
	}
	return &vcursor{functions: functions}
}

func (vc *vcursor) Functions() *rex.Registry {
	return vc.functions
}

// Stages returns the calculators of a chain, outermost first.
func Stages(p Primitive) []*Calc {
	var out []*Calc
	for p != nil {
		calc, ok := p.(*Calc)
		if !ok {
			break
		}
		out = append(out, calc)
		p = calc.Input
	}
	return out
}
