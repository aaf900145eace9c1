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

// Package autocalc holds the planner rule that splits a calculator mixing
// managed-only and native-only operators into a chain of calculators.
package autocalc

import (
	"vitess.io/autocalc/go/vt/calc/backend"
	"vitess.io/autocalc/go/vt/calc/engine"
	"vitess.io/autocalc/go/vt/calc/rex"
	"vitess.io/autocalc/go/vt/calc/splitter"
	"vitess.io/autocalc/go/vt/log"
	"vitess.io/autocalc/go/vt/vterrors"
)

type (
	// RuleCall is the match the planner hands to a rule.
	RuleCall interface {
		// Calc is the matched calculator.
		Calc() *engine.Calc
		// TransformTo registers an equivalent replacement for Calc.
		TransformTo(p engine.Primitive)
	}

	// Rule splits calculators across the managed and native backends.
	Rule struct {
		managed, native backend.Oracle
	}

	// Call is a RuleCall over a single calculator that remembers the
	// replacement it was given.
	Call struct {
		calc   *engine.Calc
		result engine.Primitive
	}
)

// Rule outcomes, as counted by the autocalc_rule_matches_total metric.
const (
	OutcomeManagedOnly = "managed_only"
	OutcomeNativeOnly  = "native_only"
	OutcomeUnsupported = "unsupported"
	OutcomeError       = "error"
	OutcomeSplit       = "split"
)

func NewRule(managed, native backend.Oracle) *Rule {
	return &Rule{managed: managed, native: native}
}

// OnMatch splits the matched calculator when neither backend can run it on
// its own. Calculators one backend covers are left to the single-backend
// rules.
func (r *Rule) OnMatch(call RuleCall) error {
	calc := call.Calc()
	exprs := calc.AllExprs()

	if kind, ok := r.Covering(calc); ok {
		recordCovered(kind)
		return nil
	}
	if op := backend.FirstUnsupported([]backend.Oracle{r.managed, r.native}, exprs...); op != nil {
		recordOutcome(OutcomeUnsupported)
		return vterrors.VT12001("no calculator implements " + op.OperatorName())
	}

	chain, err := splitter.Split(calc, r.managed, r.native)
	if err != nil {
		recordOutcome(OutcomeError)
		log.ErrorS("could not split calculator", "exprs", rex.FormatExprs(exprs), "error", err)
		return err
	}

	stages := len(engine.Stages(chain))
	recordSplit(stages)
	log.InfoS("split calculator", "stages", stages)
	call.TransformTo(chain)
	return nil
}

// Covering returns the backend implementing every expression of calc,
// preferring the managed one.
func (r *Rule) Covering(calc *engine.Calc) (backend.Kind, bool) {
	exprs := calc.AllExprs()
	switch {
	case backend.CanImplementAll(r.managed, exprs...):
		return backend.Managed, true
	case backend.CanImplementAll(r.native, exprs...):
		return backend.Native, true
	}
	return backend.Either, false
}

// Plan returns the primitive that runs calc: calc itself on the backend
// covering it, or the split chain.
func (r *Rule) Plan(calc *engine.Calc) (*engine.Calc, error) {
	if kind, ok := r.Covering(calc); ok {
		recordCovered(kind)
		single := *calc
		single.Backend = kind
		return &single, nil
	}
	call := NewCall(calc)
	if err := r.OnMatch(call); err != nil {
		return nil, err
	}
	chain, ok := call.Result().(*engine.Calc)
	if !ok {
		return nil, vterrors.VT13001("calculator rule did not produce a calculator")
	}
	return chain, nil
}

func NewCall(calc *engine.Calc) *Call {
	return &Call{calc: calc}
}

func (c *Call) Calc() *engine.Calc {
	return c.calc
}

func (c *Call) TransformTo(p engine.Primitive) {
	c.result = p
}

// Result returns the replacement, or nil when the rule did not fire.
func (c *Call) Result() engine.Primitive {
	return c.result
}
