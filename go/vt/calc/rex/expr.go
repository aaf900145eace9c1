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

// Package rex contains the scalar row expressions computed by a calculator
// stage: column references, literals, operator calls, bind variables and
// field accesses.
package rex

import "strings"

type (
	// Value is a scalar value flowing through a calculator. nil is NULL.
	// Builtins produce int64, float64, string, bool and []Value tuples.
	Value = any

	// Expr is the interface that all row expressions must implement
	Expr interface {
		eval(env *ExpressionEnv) (Value, error)
		format(buf *formatter, depth int)

		// Clone returns a deep copy of the expression.
		Clone() Expr
	}

	// Operator is an expression whose evaluation needs a backend that
	// implements it. Column and Literal are not operators.
	Operator interface {
		Expr

		// OperatorName is the name backends use to declare support for it.
		OperatorName() string
		// Operands returns the operator's inputs in evaluation order.
		Operands() []Expr
		// WithOperands returns a copy of the operator over new operands.
		WithOperands(operands []Expr) Operator
	}

	// Column reads the value at Offset of the input row.
	Column struct {
		Offset int
	}

	// Literal is a constant.
	Literal struct {
		Val Value
	}

	// Call applies the function Name to Args.
	Call struct {
		Name string
		Args []Expr
	}

	// BindVariable is a dynamic parameter supplied at execution time.
	BindVariable struct {
		Key string
	}

	// FieldAccess reads field Field of the tuple produced by Inner.
	FieldAccess struct {
		Inner Expr
		Field int
	}
)

const (
	// BindVariableOperator is the OperatorName of every BindVariable.
	BindVariableOperator = "BIND_VARIABLE"
	// FieldAccessOperator is the OperatorName of every FieldAccess.
	FieldAccessOperator = "FIELD_ACCESS"
)

var (
	_ Expr     = (*Column)(nil)
	_ Expr     = (*Literal)(nil)
	_ Operator = (*Call)(nil)
	_ Operator = (*BindVariable)(nil)
	_ Operator = (*FieldAccess)(nil)
)

// NewCall returns a call with the canonical upper case function name.
func NewCall(name string, args ...Expr) *Call {
	return &Call{Name: strings.ToUpper(name), Args: args}
}

// NewColumn returns a reference to column offset.
func NewColumn(offset int) *Column {
	return &Column{Offset: offset}
}

// NewLiteral returns a constant expression.
func NewLiteral(v Value) *Literal {
	return &Literal{Val: v}
}

func (c *Column) Clone() Expr {
	return &Column{Offset: c.Offset}
}

func (l *Literal) Clone() Expr {
	return &Literal{Val: cloneValue(l.Val)}
}

func (c *Call) Clone() Expr {
	return &Call{Name: c.Name, Args: cloneExprs(c.Args)}
}

func (bv *BindVariable) Clone() Expr {
	return &BindVariable{Key: bv.Key}
}

func (fa *FieldAccess) Clone() Expr {
	return &FieldAccess{Inner: fa.Inner.Clone(), Field: fa.Field}
}

func (c *Call) OperatorName() string {
	return strings.ToUpper(c.Name)
}

func (c *Call) Operands() []Expr {
	return c.Args
}

func (c *Call) WithOperands(operands []Expr) Operator {
	return &Call{Name: c.Name, Args: operands}
}

func (bv *BindVariable) OperatorName() string {
	return BindVariableOperator
}

func (bv *BindVariable) Operands() []Expr {
	return nil
}

func (bv *BindVariable) WithOperands([]Expr) Operator {
	return &BindVariable{Key: bv.Key}
}

func (fa *FieldAccess) OperatorName() string {
	return FieldAccessOperator
}

func (fa *FieldAccess) Operands() []Expr {
	return []Expr{fa.Inner}
}

func (fa *FieldAccess) WithOperands(operands []Expr) Operator {
	return &FieldAccess{Inner: operands[0], Field: fa.Field}
}

func cloneExprs(exprs []Expr) []Expr {
	if exprs == nil {
		return nil
	}
	out := make([]Expr, len(exprs))
	for i, e := range exprs {
		out[i] = e.Clone()
	}
	return out
}

func cloneValue(v Value) Value {
	tuple, ok := v.([]Value)
	if !ok {
		return v
	}
	out := make([]Value, len(tuple))
	for i, field := range tuple {
		out[i] = cloneValue(field)
	}
	return out
}

// CloneExprs returns deep copies of all the expressions.
func CloneExprs(exprs []Expr) []Expr {
	return cloneExprs(exprs)
}
