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
	"strconv"

	"vitess.io/autocalc/go/vt/calc/rex"
)

var _ Primitive = (*Values)(nil)

// Values is a leaf primitive producing a fixed set of rows.
type Values struct {
	Cols []string
	Rows [][]rex.Value
}

// TryExecute satisfies the Primitive interface.
func (v *Values) TryExecute(context.Context, VCursor, map[string]rex.Value) (*Result, error) {
	rows := make([][]rex.Value, len(v.Rows))
	for i, row := range v.Rows {
		rows[i] = append([]rex.Value(nil), row...)
	}
	return &Result{Fields: v.Cols, Rows: rows}, nil
}

// Inputs implements the Primitive interface
func (v *Values) Inputs() []Primitive {
	return nil
}

func (v *Values) description() PrimitiveDescription {
	other := map[string]any{
		"RowCount": strconv.Itoa(len(v.Rows)),
	}
	if len(v.Cols) > 0 {
		other["Columns"] = v.Cols
	}
	return PrimitiveDescription{
		OperatorType: "Values",
		Other:        other,
	}
}
