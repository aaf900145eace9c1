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

// Package backend describes the two calculators an expression can run on
// and what each of them is able to evaluate.
package backend

import (
	"slices"
	"strings"

	"vitess.io/autocalc/go/vt/calc/rex"
)

// Kind identifies the calculator a stage runs on.
type Kind int8

const (
	// Either is only used while no operator has fixed the outermost stage.
	Either Kind = iota
	// Managed is the portable, interpreted calculator.
	Managed
	// Native is the compiled calculator.
	Native
)

// Other returns the calculator a stage alternates with.
func (k Kind) Other() Kind {
	switch k {
	case Managed:
		return Native
	case Native:
		return Managed
	}
	return Either
}

func (k Kind) String() string {
	switch k {
	case Managed:
		return "Managed"
	case Native:
		return "Native"
	}
	return "Either"
}

// MarshalText lets kinds appear by name in JSON plans.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Oracle answers whether a calculator can evaluate an operator, assuming its
// operands are already available.
type Oracle interface {
	CanImplement(op rex.Operator) bool
}

// OracleFunc adapts a function to the Oracle interface.
type OracleFunc func(op rex.Operator) bool

func (f OracleFunc) CanImplement(op rex.Operator) bool {
	return f(op)
}

// OperatorTable is an Oracle backed by the list of operators a calculator
// implements.
type OperatorTable struct {
	operators     map[string]struct{}
	bindVariables bool
	fieldAccess   bool
}

var _ Oracle = (*OperatorTable)(nil)

// NewOperatorTable returns a table for the given call names. Bind variables
// and field accesses are enabled separately.
func NewOperatorTable(operators []string, bindVariables, fieldAccess bool) *OperatorTable {
	t := &OperatorTable{
		operators:     make(map[string]struct{}, len(operators)),
		bindVariables: bindVariables,
		fieldAccess:   fieldAccess,
	}
	for _, name := range operators {
		t.operators[strings.ToUpper(strings.TrimSpace(name))] = struct{}{}
	}
	return t
}

func (t *OperatorTable) CanImplement(op rex.Operator) bool {
	switch op := op.(type) {
	case *rex.BindVariable:
		return t.bindVariables
	case *rex.FieldAccess:
		return t.fieldAccess
	default:
		_, ok := t.operators[op.OperatorName()]
		return ok
	}
}

// Operators returns the call names of the table, sorted.
func (t *OperatorTable) Operators() []string {
	out := make([]string, 0, len(t.operators))
	for name := range t.operators {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func (t *OperatorTable) BindVariables() bool {
	return t.bindVariables
}

func (t *OperatorTable) FieldAccess() bool {
	return t.fieldAccess
}

// CanImplementAll reports whether o implements every operator of exprs.
func CanImplementAll(o Oracle, exprs ...rex.Expr) bool {
	all := true
	rex.VisitOperators(func(op rex.Operator) bool {
		all = o.CanImplement(op)
		return all
	}, exprs...)
	return all
}

// FirstUnsupported returns the first operator of exprs that none of the
// oracles implements, or nil.
func FirstUnsupported(oracles []Oracle, exprs ...rex.Expr) rex.Operator {
	var found rex.Operator
	rex.VisitOperators(func(op rex.Operator) bool {
		for _, o := range oracles {
			if o.CanImplement(op) {
				return true
			}
		}
		found = op
		return false
	}, exprs...)
	return found
}
