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
	"fmt"
	"strconv"
	"strings"
)

// FormatExpr renders expr in the syntax accepted by Parse.
func FormatExpr(expr Expr) string {
	var f formatter
	expr.format(&f, 0)
	return f.String()
}

// PrettyPrint renders expr with one operand per line.
func PrettyPrint(expr Expr) string {
	var f formatter
	f.indent = "    "
	expr.format(&f, 0)
	return f.String()
}

// FormatExprs renders a list of expressions as "[e1, e2, ...]".
func FormatExprs(exprs []Expr) string {
	var f formatter
	f.WriteByte('[')
	for i, e := range exprs {
		if i > 0 {
			f.WriteString(", ")
		}
		e.format(&f, 0)
	}
	f.WriteByte(']')
	return f.String()
}

type formatter struct {
	strings.Builder
	indent string
}

func (f *formatter) Indent(depth int) {
	if depth > 0 && f.indent != "" {
		f.WriteByte('\n')
		for i := 0; i < depth; i++ {
			f.WriteString(f.indent)
		}
	}
}

func (c *Column) format(w *formatter, depth int) {
	w.Indent(depth)
	w.WriteByte('$')
	w.WriteString(strconv.Itoa(c.Offset))
}

func (l *Literal) format(w *formatter, depth int) {
	w.Indent(depth)
	formatValue(w, l.Val)
}

func (bv *BindVariable) format(w *formatter, depth int) {
	w.Indent(depth)
	w.WriteByte(':')
	w.WriteString(bv.Key)
}

func (c *Call) format(w *formatter, depth int) {
	w.Indent(depth)
	w.WriteString(c.Name)
	w.WriteByte('(')
	for i, arg := range c.Args {
		if i > 0 {
			w.WriteString(", ")
		}
		arg.format(w, depth+1)
	}
	w.WriteByte(')')
}

func (fa *FieldAccess) format(w *formatter, depth int) {
	fa.Inner.format(w, depth)
	w.WriteString("->")
	w.WriteString(strconv.Itoa(fa.Field))
}

func formatValue(w *formatter, v Value) {
	switch v := v.(type) {
	case nil:
		w.WriteString("NULL")
	case bool:
		if v {
			w.WriteString("TRUE")
		} else {
			w.WriteString("FALSE")
		}
	case string:
		w.WriteString(strconv.Quote(v))
	case float64:
		s := strconv.FormatFloat(v, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eIN") {
			s += ".0"
		}
		w.WriteString(s)
	case []Value:
		w.WriteString("ROW(")
		for i, field := range v {
			if i > 0 {
				w.WriteString(", ")
			}
			formatValue(w, field)
		}
		w.WriteByte(')')
	default:
		fmt.Fprintf(w, "%v", v)
	}
}

// FormatValue renders a value the way a literal of it is formatted.
func FormatValue(v Value) string {
	var f formatter
	formatValue(&f, v)
	return f.String()
}
