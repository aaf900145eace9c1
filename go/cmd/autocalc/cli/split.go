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
	"fmt"

	"github.com/spf13/cobra"

	"vitess.io/autocalc/go/vt/calc/calcconfig"
	"vitess.io/autocalc/go/vt/calc/engine"
	"vitess.io/autocalc/go/vt/calc/rex"
	"vitess.io/autocalc/go/vt/utils"
	"vitess.io/autocalc/go/vt/vterrors"
)

type splitOptions struct {
	projections []string
	filter      string
	format      string
}

// Split returns the command printing the calculator chain of a projection
// list.
func Split(loader *calcconfig.Loader) *cobra.Command {
	opts := &splitOptions{}
	splitCmd := &cobra.Command{
		Use:   "split",
		Short: "Prints the calculators an expression list is split into",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSplit(cmd, loader, opts)
		},
	}

	utils.SetFlagStringArrayVar(splitCmd.Flags(), &opts.projections, "project", nil, "projection expression, repeat for several columns")
	utils.SetFlagStringVar(splitCmd.Flags(), &opts.filter, "filter", "", "filter condition")
	utils.SetFlagStringVar(splitCmd.Flags(), &opts.format, "format", "tree", "output format: tree or json")
	_ = splitCmd.MarkFlagRequired("project")

	return splitCmd
}

func runSplit(cmd *cobra.Command, loader *calcconfig.Loader, opts *splitOptions) error {
	rule, err := newRule(loader)
	if err != nil {
		return err
	}
	calc, err := buildCalc(opts.projections, opts.filter, &engine.Values{})
	if err != nil {
		return err
	}
	plan, err := rule.Plan(calc)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch opts.format {
	case "tree":
		fmt.Fprintln(out, engine.ToTree(plan))
	case "json":
		s, err := engine.ToJSON(plan)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, s)
	default:
		return vterrors.VT03006("--format", opts.format)
	}
	fmt.Fprint(out, layerTable(plan))
	return nil
}

func buildCalc(projections []string, filter string, input engine.Primitive) (*engine.Calc, error) {
	exprs, err := rex.ParseExprs(projections)
	if err != nil {
		return nil, err
	}
	calc := &engine.Calc{
		Cols:  projectionNames(len(exprs)),
		Exprs: exprs,
		Input: input,
	}
	if filter != "" {
		if calc.Predicate, err = rex.Parse(filter); err != nil {
			return nil, vterrors.Wrapf(err, "parsing filter %q", filter)
		}
	}
	return calc, nil
}
