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
	"maps"
	"slices"
	"strconv"
	"strings"

	"vitess.io/autocalc/go/vt/vterrors"
)

// Function is a named scalar function callable from a Call.
type Function struct {
	Name    string
	MinArgs int
	// MaxArgs is -1 for variadic functions.
	MaxArgs int
	Eval    func(args []Value) (Value, error)
}

func (fn *Function) checkArity(n int) error {
	if n >= fn.MinArgs && (fn.MaxArgs < 0 || n <= fn.MaxArgs) {
		return nil
	}
	var want string
	switch {
	case fn.MaxArgs < 0:
		want = "at least " + strconv.Itoa(fn.MinArgs)
	case fn.MinArgs == fn.MaxArgs:
		want = strconv.Itoa(fn.MinArgs)
	default:
		want = strconv.Itoa(fn.MinArgs) + " to " + strconv.Itoa(fn.MaxArgs)
	}
	return vterrors.VT03002(fn.Name, want, n)
}

// Registry maps function names to their implementation.
type Registry struct {
	functions map[string]*Function
}

// NewRegistry returns a registry holding fns.
func NewRegistry(fns ...*Function) *Registry {
	r := &Registry{functions: make(map[string]*Function, len(fns))}
	for _, fn := range fns {
		r.functions[strings.ToUpper(fn.Name)] = fn
	}
	return r
}

// With returns a copy of the registry extended with fns. Functions with
// an existing name replace the old definition.
func (r *Registry) With(fns ...*Function) *Registry {
	out := &Registry{functions: maps.Clone(r.functions)}
	for _, fn := range fns {
		out.functions[strings.ToUpper(fn.Name)] = fn
	}
	return out
}

func (r *Registry) Lookup(name string) (*Function, bool) {
	fn, ok := r.functions[strings.ToUpper(name)]
	return fn, ok
}

// Names returns the registered function names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.functions))
}

var builtins = NewRegistry(
	&Function{Name: "PLUS", MinArgs: 2, MaxArgs: 2, Eval: arithmetic(func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })},
	&Function{Name: "MINUS", MinArgs: 2, MaxArgs: 2, Eval: arithmetic(func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })},
	&Function{Name: "MULT", MinArgs: 2, MaxArgs: 2, Eval: arithmetic(func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })},
	&Function{Name: "DIV", MinArgs: 2, MaxArgs: 2, Eval: divide},
	&Function{Name: "NEG", MinArgs: 1, MaxArgs: 1, Eval: negate},
	&Function{Name: "ABS", MinArgs: 1, MaxArgs: 1, Eval: abs},
	&Function{Name: "EQ", MinArgs: 2, MaxArgs: 2, Eval: comparison(func(c int) bool { return c == 0 })},
	&Function{Name: "NE", MinArgs: 2, MaxArgs: 2, Eval: comparison(func(c int) bool { return c != 0 })},
	&Function{Name: "LT", MinArgs: 2, MaxArgs: 2, Eval: comparison(func(c int) bool { return c < 0 })},
	&Function{Name: "LE", MinArgs: 2, MaxArgs: 2, Eval: comparison(func(c int) bool { return c <= 0 })},
	&Function{Name: "GT", MinArgs: 2, MaxArgs: 2, Eval: comparison(func(c int) bool { return c > 0 })},
	&Function{Name: "GE", MinArgs: 2, MaxArgs: 2, Eval: comparison(func(c int) bool { return c >= 0 })},
	&Function{Name: "AND", MinArgs: 2, MaxArgs: -1, Eval: and},
	&Function{Name: "OR", MinArgs: 2, MaxArgs: -1, Eval: or},
	&Function{Name: "NOT", MinArgs: 1, MaxArgs: 1, Eval: not},
	&Function{Name: "ISNULL", MinArgs: 1, MaxArgs: 1, Eval: isNull},
	&Function{Name: "COALESCE", MinArgs: 1, MaxArgs: -1, Eval: coalesce},
	&Function{Name: "IF", MinArgs: 3, MaxArgs: 3, Eval: ifFn},
	&Function{Name: "CONCAT", MinArgs: 1, MaxArgs: -1, Eval: concat},
	&Function{Name: "UPPER", MinArgs: 1, MaxArgs: 1, Eval: stringFn(strings.ToUpper)},
	&Function{Name: "LOWER", MinArgs: 1, MaxArgs: 1, Eval: stringFn(strings.ToLower)},
	&Function{Name: "TRIM", MinArgs: 1, MaxArgs: 1, Eval: stringFn(strings.TrimSpace)},
	&Function{Name: "LENGTH", MinArgs: 1, MaxArgs: 1, Eval: length},
	&Function{Name: "ROW", MinArgs: 0, MaxArgs: -1, Eval: row},
)

// Builtins returns the registry of builtin functions.
func Builtins() *Registry {
	return builtins
}
