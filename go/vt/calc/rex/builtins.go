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
	"cmp"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"

	"vitess.io/autocalc/go/vt/vterrors"
)

func isIntegral(v Value) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func isNumeric(v Value) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return isIntegral(v)
}

func toInt64(v Value) (int64, error) {
	i, err := cast.ToInt64E(v)
	if err != nil {
		return 0, vterrors.VT03006("integer", v)
	}
	return i, nil
}

func toFloat64(v Value) (float64, error) {
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, vterrors.VT03006("number", v)
	}
	return f, nil
}

func toString(v Value) (string, error) {
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", vterrors.VT03006("string", v)
	}
	return s, nil
}

func toBool(v Value) (bool, error) {
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false, vterrors.VT03006("boolean", v)
	}
	return b, nil
}

func arithmetic(intOp func(a, b int64) int64, floatOp func(a, b float64) float64) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		left, right := args[0], args[1]
		if left == nil || right == nil {
			return nil, nil
		}
		if isIntegral(left) && isIntegral(right) {
			a, err := toInt64(left)
			if err != nil {
				return nil, err
			}
			b, err := toInt64(right)
			if err != nil {
				return nil, err
			}
			return intOp(a, b), nil
		}
		a, err := toFloat64(left)
		if err != nil {
			return nil, err
		}
		b, err := toFloat64(right)
		if err != nil {
			return nil, err
		}
		return floatOp(a, b), nil
	}
}

func divide(args []Value) (Value, error) {
	if args[0] == nil || args[1] == nil {
		return nil, nil
	}
	a, err := toFloat64(args[0])
	if err != nil {
		return nil, err
	}
	b, err := toFloat64(args[1])
	if err != nil {
		return nil, err
	}
	// division by zero is NULL
	if b == 0 {
		return nil, nil
	}
	return a / b, nil
}

func negate(args []Value) (Value, error) {
	v := args[0]
	if v == nil {
		return nil, nil
	}
	if isIntegral(v) {
		i, err := toInt64(v)
		return -i, err
	}
	f, err := toFloat64(v)
	return -f, err
}

func abs(args []Value) (Value, error) {
	v := args[0]
	if v == nil {
		return nil, nil
	}
	if isIntegral(v) {
		i, err := toInt64(v)
		if i < 0 {
			i = -i
		}
		return i, err
	}
	f, err := toFloat64(v)
	if f < 0 {
		f = -f
	}
	return f, err
}

// compare orders two non NULL values. Numbers compare numerically, strings
// lexically; a number and a string compare numerically when the string
// converts.
func compare(a, b Value) (int, error) {
	switch {
	case isIntegral(a) && isIntegral(b):
		x, err := toInt64(a)
		if err != nil {
			return 0, err
		}
		y, err := toInt64(b)
		if err != nil {
			return 0, err
		}
		return cmp.Compare(x, y), nil
	case isNumeric(a) || isNumeric(b):
		x, errX := cast.ToFloat64E(a)
		y, errY := cast.ToFloat64E(b)
		if errX == nil && errY == nil {
			return cmp.Compare(x, y), nil
		}
	}
	if x, ok := a.(bool); ok {
		if y, ok := b.(bool); ok {
			return cmp.Compare(cast.ToInt(x), cast.ToInt(y)), nil
		}
	}
	x, err := toString(a)
	if err != nil {
		return 0, err
	}
	y, err := toString(b)
	if err != nil {
		return 0, err
	}
	return strings.Compare(x, y), nil
}

func comparison(test func(c int) bool) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		if args[0] == nil || args[1] == nil {
			return nil, nil
		}
		c, err := compare(args[0], args[1])
		if err != nil {
			return nil, err
		}
		return test(c), nil
	}
}

func and(args []Value) (Value, error) {
	sawNull := false
	for _, arg := range args {
		if arg == nil {
			sawNull = true
			continue
		}
		b, err := toBool(arg)
		if err != nil {
			return nil, err
		}
		if !b {
			return false, nil
		}
	}
	if sawNull {
		return nil, nil
	}
	return true, nil
}

func or(args []Value) (Value, error) {
	sawNull := false
	for _, arg := range args {
		if arg == nil {
			sawNull = true
			continue
		}
		b, err := toBool(arg)
		if err != nil {
			return nil, err
		}
		if b {
			return true, nil
		}
	}
	if sawNull {
		return nil, nil
	}
	return false, nil
}

func not(args []Value) (Value, error) {
	if args[0] == nil {
		return nil, nil
	}
	b, err := toBool(args[0])
	if err != nil {
		return nil, err
	}
	return !b, nil
}

func isNull(args []Value) (Value, error) {
	return args[0] == nil, nil
}

func coalesce(args []Value) (Value, error) {
	for _, arg := range args {
		if arg != nil {
			return arg, nil
		}
	}
	return nil, nil
}

func ifFn(args []Value) (Value, error) {
	if IsTrue(args[0]) {
		return args[1], nil
	}
	return args[2], nil
}

func concat(args []Value) (Value, error) {
	var sb strings.Builder
	for _, arg := range args {
		if arg == nil {
			return nil, nil
		}
		s, err := toString(arg)
		if err != nil {
			return nil, err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

func stringFn(fn func(string) string) func([]Value) (Value, error) {
	return func(args []Value) (Value, error) {
		if args[0] == nil {
			return nil, nil
		}
		s, err := toString(args[0])
		if err != nil {
			return nil, err
		}
		return fn(s), nil
	}
}

func length(args []Value) (Value, error) {
	if args[0] == nil {
		return nil, nil
	}
	s, err := toString(args[0])
	if err != nil {
		return nil, err
	}
	return int64(utf8.RuneCountInString(s)), nil
}

func row(args []Value) (Value, error) {
	return cloneValue(append([]Value{}, args...)), nil
}
