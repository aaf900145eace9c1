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
	"github.com/spf13/cast"

	"vitess.io/autocalc/go/vt/vterrors"
)

type (
	// ExpressionEnv contains the environment that the expression
	// evaluates in, such as the current row and bindvars
	ExpressionEnv struct {
		BindVars  map[string]Value
		Functions *Registry

		Row []Value
	}
)

// NewExpressionEnv returns an environment with no current row. A nil
// registry means the builtin functions.
func NewExpressionEnv(bindVars map[string]Value, functions *Registry) *ExpressionEnv {
	if functions == nil {
		functions = Builtins()
	}
	return &ExpressionEnv{BindVars: bindVars, Functions: functions}
}

func (env *ExpressionEnv) Evaluate(expr Expr) (Value, error) {
	if env == nil {
		panic("ExpressionEnv == nil")
	}
	return expr.eval(env)
}

// IsTrue reports whether a predicate result keeps its row. NULL does not.
func IsTrue(v Value) bool {
	if v == nil {
		return false
	}
	b, err := cast.ToBoolE(v)
	return err == nil && b
}

func (c *Column) eval(env *ExpressionEnv) (Value, error) {
	if c.Offset < 0 || c.Offset >= len(env.Row) {
		return nil, vterrors.VT03005(c.Offset, len(env.Row))
	}
	return env.Row[c.Offset], nil
}

func (l *Literal) eval(*ExpressionEnv) (Value, error) {
	return l.Val, nil
}

func (bv *BindVariable) eval(env *ExpressionEnv) (Value, error) {
	val, ok := env.BindVars[bv.Key]
	if !ok {
		return nil, vterrors.VT03004(bv.Key)
	}
	return val, nil
}

func (fa *FieldAccess) eval(env *ExpressionEnv) (Value, error) {
	inner, err := fa.Inner.eval(env)
	if err != nil {
		return nil, err
	}
	if inner == nil {
		return nil, nil
	}
	tuple, ok := inner.([]Value)
	if !ok {
		return nil, vterrors.VT03006("field access", inner)
	}
	if fa.Field < 0 || fa.Field >= len(tuple) {
		return nil, vterrors.VT03005(fa.Field, len(tuple))
	}
	return tuple[fa.Field], nil
}

func (c *Call) eval(env *ExpressionEnv) (Value, error) {
	fn, ok := env.Functions.Lookup(c.Name)
	if !ok {
		return nil, vterrors.VT03003(c.Name)
	}
	if err := fn.checkArity(len(c.Args)); err != nil {
		return nil, err
	}
	args := make([]Value, len(c.Args))
	for i, arg := range c.Args {
		v, err := arg.eval(env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return fn.Eval(args)
}
