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

// Package cli implements the autocalc command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"vitess.io/autocalc/go/vt/calc/autocalc"
	"vitess.io/autocalc/go/vt/calc/calcconfig"
	"vitess.io/autocalc/go/vt/log"
	"vitess.io/autocalc/go/vt/utils"
)

// Main returns the root command. Every call builds a fresh command tree.
func Main() *cobra.Command {
	loader := calcconfig.NewLoader()
	rootCmd := &cobra.Command{
		Use:   "autocalc",
		Short: "autocalc splits calculators across the managed and native backends.",
		Example: `autocalc split \
	--managed-operators UPPER,CONCAT \
	--native-operators MULT,GT \
	--project 'CONCAT(UPPER($0), MULT($1, 2))' \
	--filter 'GT($1, 2)'`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return log.Init(cmd.Flags())
		},
		Run: func(cmd *cobra.Command, _ []string) { _ = cmd.Help() },
	}
	rootCmd.SetGlobalNormalizationFunc(utils.NormalizeUnderscoresToDashes)

	log.RegisterFlags(rootCmd.PersistentFlags())
	loader.RegisterFlags(rootCmd.PersistentFlags())
	_ = rootCmd.MarkPersistentFlagFilename("config-file", "yaml", "yml")

	rootCmd.AddCommand(Split(loader))
	rootCmd.AddCommand(Run(loader))

	return rootCmd
}

func newRule(loader *calcconfig.Loader) (*autocalc.Rule, error) {
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}
	managed, native := cfg.Oracles()
	log.DebugS("calculator operators", "managed", managed.Operators(), "native", native.Operators())
	return autocalc.NewRule(managed, native), nil
}

func projectionNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("p%d", i)
	}
	return names
}
