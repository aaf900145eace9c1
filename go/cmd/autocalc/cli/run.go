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
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"vitess.io/autocalc/go/vt/calc/calcconfig"
	"vitess.io/autocalc/go/vt/calc/engine"
	"vitess.io/autocalc/go/vt/calc/rex"
	"vitess.io/autocalc/go/vt/log"
	"vitess.io/autocalc/go/vt/vterrors"
)

// runCase is a calculator together with the rows it runs on.
type runCase struct {
	Projections   []string             `json:"projections"`
	Filter        string               `json:"filter,omitempty"`
	Columns       []string             `json:"columns,omitempty"`
	BindVariables map[string]rex.Value `json:"bind-variables,omitempty"`
	Rows          [][]rex.Value        `json:"rows"`
}

// Run returns the command executing a case file through the unsplit
// calculator and its split chain.
func Run(loader *calcconfig.Loader) *cobra.Command {
	var caseFile string
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Runs a case file before and after splitting and compares the results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCaseFile(cmd, loader, caseFile)
		},
	}
	runCmd.Flags().StringVar(&caseFile, "case", "", "YAML case file with projections, filter, bind variables and rows")
	_ = runCmd.MarkFlagRequired("case")
	_ = runCmd.MarkFlagFilename("case", "yaml", "yml")
	return runCmd
}

func runCaseFile(cmd *cobra.Command, loader *calcconfig.Loader, caseFile string) error {
	tc, err := readCase(caseFile)
	if err != nil {
		return err
	}
	rule, err := newRule(loader)
	if err != nil {
		return err
	}
	calc, err := buildCalc(tc.Projections, tc.Filter, &engine.Values{Cols: tc.Columns, Rows: tc.Rows})
	if err != nil {
		return err
	}
	plan, err := rule.Plan(calc)
	if err != nil {
		return err
	}

	vcursor := engine.NewVCursor(nil)
	want, err := calc.TryExecute(cmd.Context(), vcursor, tc.BindVariables)
	if err != nil {
		return vterrors.Wrapf(err, "running the unsplit calculator")
	}
	got, err := plan.TryExecute(cmd.Context(), vcursor, tc.BindVariables)
	if err != nil {
		return vterrors.Wrapf(err, "running the split calculators")
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, layerTable(plan))
	fmt.Fprintln(out, "unsplit:")
	fmt.Fprint(out, resultTable(want))
	fmt.Fprintln(out, "split:")
	fmt.Fprint(out, resultTable(got))

	if diff := cmp.Diff(want.Rows, got.Rows); diff != "" {
		return vterrors.Errorf(vterrors.INTERNAL, "split calculators disagree with the unsplit calculator (-unsplit +split):\n%s", diff)
	}
	log.InfoS("split calculators agree", "case", caseFile, "rows", len(got.Rows), "stages", len(engine.Stages(plan)))
	return nil
}

func readCase(name string) (*runCase, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, vterrors.Wrapf(err, "reading case %s", name)
	}
	tc := &runCase{}
	if err := yaml.Unmarshal(data, tc, useNumber); err != nil {
		return nil, vterrors.Wrapf(err, "decoding case %s", name)
	}
	for _, row := range tc.Rows {
		for i, v := range row {
			row[i] = fromJSON(v)
		}
	}
	for k, v := range tc.BindVariables {
		tc.BindVariables[k] = fromJSON(v)
	}
	return tc, nil
}

func useNumber(d *json.Decoder) *json.Decoder {
	d.UseNumber()
	return d
}

// fromJSON turns decoded numbers into int64 when they are integral and
// float64 otherwise.
func fromJSON(v rex.Value) rex.Value {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		f, _ := v.Float64()
		return f
	case []any:
		out := make([]rex.Value, len(v))
		for i, field := range v {
			out[i] = fromJSON(field)
		}
		return out
	}
	return v
}
