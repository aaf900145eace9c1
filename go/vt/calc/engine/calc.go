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

package engine

import (
	"context"

	"vitess.io/autocalc/go/vt/calc/backend"
	"vitess.io/autocalc/go/vt/calc/rex"
)

var _ Primitive = (*Calc)(nil)

// Calc filters its input rows with Predicate and projects Exprs over the
// rows that pass. Each Calc runs on a single backend.
type Calc struct {
	Backend   backend.Kind
	Cols      []string
	Exprs     []rex.Expr
	Predicate rex.Expr
	Input     Primitive
}

// TryExecute satisfies the Primitive interface.
func (c *Calc) TryExecute(ctx context.Context, vcursor VCursor, bindVars map[string]rex.Value) (*Result, error) {
	result, err := c.Input.TryExecute(ctx, vcursor, bindVars)
	if err != nil {
		return nil, err
	}
	env := rex.NewExpressionEnv(bindVars, vcursor.Functions())
	out := &Result{Fields: c.Cols}
	for _, row := range result.Rows {
		env.Row = row
		if c.Predicate != nil {
			keep, err := env.Evaluate(c.Predicate)
			if err != nil {
				return nil, err
			}
			if !rex.IsTrue(keep) {
				continue
			}
		}
		projected := make([]rex.Value, len(c.Exprs))
		for i, expr := range c.Exprs {
			projected[i], err = env.Evaluate(expr)
			if err != nil {
				return nil, err
			}
		}
		out.Rows = append(out.Rows, projected)
	}
	return out, nil
}

// Inputs returns the input to the calculator
func (c *Calc) Inputs() []Primitive {
	if c.Input == nil {
		return nil
	}
	return []Primitive{c.Input}
}

// AllExprs returns the projections followed by the predicate, if any.
func (c *Calc) AllExprs() []rex.Expr {
	if c.Predicate == nil {
		return c.Exprs
	}
	return append(append([]rex.Expr(nil), c.Exprs...), c.Predicate)
}

func (c *Calc) description() PrimitiveDescription {
	exprs := make([]string, len(c.Exprs))
	for i, e := range c.Exprs {
		name := ""
		if i < len(c.Cols) {
			name = " as " + c.Cols[i]
		}
		exprs[i] = rex.FormatExpr(e) + name
	}
	other := map[string]any{
		"Expressions": exprs,
	}
	if c.Predicate != nil {
		other["Predicate"] = rex.FormatExpr(c.Predicate)
	}

	return PrimitiveDescription{
		OperatorType: "Calc",
		Variant:      c.Backend.String(),
		Other:        other,
	}
}
