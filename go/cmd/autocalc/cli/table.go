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

package cli

import (
	"strconv"

	"github.com/bndr/gotabulate"

	"vitess.io/autocalc/go/vt/calc/engine"
	"vitess.io/autocalc/go/vt/calc/rex"
)

// layerTable lists the calculators of a chain, outermost first.
func layerTable(plan *engine.Calc) string {
	var rows [][]string
	for layer, stage := range engine.Stages(plan) {
		predicate := ""
		if stage.Predicate != nil {
			predicate = rex.FormatExpr(stage.Predicate)
		}
		rows = append(rows, []string{
			strconv.Itoa(layer),
			stage.Backend.String(),
			rex.FormatExprs(stage.Exprs),
			predicate,
		})
	}
	return renderTable([]string{"layer", "backend", "expressions", "predicate"}, rows)
}

func resultTable(result *engine.Result) string {
	rows := make([][]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cellValue(v)
		}
		rows = append(rows, cells)
	}
	return renderTable(result.Fields, rows)
}

func cellValue(v rex.Value) string {
	if s, ok := v.(string); ok {
		return s
	}
	return rex.FormatValue(v)
}

// renderTable draws a grid table. gotabulate cannot render a table without
// rows or columns.
func renderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 || len(headers) == 0 {
		return "(no rows)\n"
	}
	t := gotabulate.Create(rows)
	t.SetHeaders(headers)
	t.SetAlign("left")
	return t.Render("grid")
}
