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

// Package calcconfig loads the operator tables of the managed and native
// calculators.
package calcconfig

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"vitess.io/autocalc/go/vt/calc/backend"
	"vitess.io/autocalc/go/vt/calc/rex"
	"vitess.io/autocalc/go/vt/log"
	"vitess.io/autocalc/go/vt/utils"
	"vitess.io/autocalc/go/vt/vterrors"
)

// EnvPrefix prefixes the environment variables overriding configuration
// keys, e.g. AUTOCALC_NATIVE_OPERATORS.
const EnvPrefix = "AUTOCALC"

type (
	// BackendConfig describes what one calculator implements.
	BackendConfig struct {
		Operators     []string `mapstructure:"operators" json:"operators"`
		BindVariables bool     `mapstructure:"bind-variables" json:"bind-variables"`
		FieldAccess   bool     `mapstructure:"field-access" json:"field-access"`
	}

	Config struct {
		Managed BackendConfig `mapstructure:"managed" json:"managed"`
		Native  BackendConfig `mapstructure:"native" json:"native"`
	}
)

// nativeOperators are the builtins the native calculator compiles.
var nativeOperators = []string{
	"PLUS", "MINUS", "MULT", "DIV", "NEG", "ABS",
	"EQ", "NE", "LT", "LE", "GT", "GE",
	"AND", "OR", "NOT",
}

// Default returns the configuration used without a config file: the managed
// calculator implements every builtin, bind variables and field access, the
// native one only arithmetic, comparisons and logic.
func Default() Config {
	return Config{
		Managed: BackendConfig{
			Operators:     rex.Builtins().Names(),
			BindVariables: true,
			FieldAccess:   true,
		},
		Native: BackendConfig{
			Operators: append([]string(nil), nativeOperators...),
		},
	}
}

// Oracles returns the operator tables of both calculators.
func (c Config) Oracles() (managed, native *backend.OperatorTable) {
	return c.Managed.table(), c.Native.table()
}

func (bc BackendConfig) table() *backend.OperatorTable {
	return backend.NewOperatorTable(bc.Operators, bc.BindVariables, bc.FieldAccess)
}

// Loader reads a Config from defaults, an optional YAML file, the
// environment and command line flags, in increasing order of precedence.
type Loader struct {
	v *viper.Viper

	configFile       string
	managedOperators []string
	nativeOperators  []string
}

func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	def := Default()
	setDefaults(v, "managed", def.Managed)
	setDefaults(v, "native", def.Native)
	return &Loader{v: v}
}

func setDefaults(v *viper.Viper, prefix string, bc BackendConfig) {
	v.SetDefault(prefix+".operators", bc.Operators)
	v.SetDefault(prefix+".bind-variables", bc.BindVariables)
	v.SetDefault(prefix+".field-access", bc.FieldAccess)
}

// RegisterFlags installs the configuration flags on fs.
func (l *Loader) RegisterFlags(fs *pflag.FlagSet) {
	utils.SetFlagStringVar(fs, &l.configFile, "config-file", "", "YAML file with the operator tables of the managed and native calculators")
	utils.SetFlagStringSliceVar(fs, &l.managedOperators, "managed-operators", nil, "operators the managed calculator implements, replacing the configured list")
	utils.SetFlagStringSliceVar(fs, &l.nativeOperators, "native-operators", nil, "operators the native calculator implements, replacing the configured list")

	_ = l.v.BindPFlag("managed.operators", fs.Lookup("managed-operators"))
	_ = l.v.BindPFlag("native.operators", fs.Lookup("native-operators"))
}

// Load returns the effective configuration.
func (l *Loader) Load() (Config, error) {
	file := l.configFile
	if file == "" {
		file = l.v.GetString("config-file")
	}
	if file != "" {
		l.v.SetConfigFile(file)
		if err := l.v.ReadInConfig(); err != nil {
			return Config{}, vterrors.Wrapf(err, "reading config file %s", file)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg, strictDecoding, viper.DecodeHook(mapstructure.StringToSliceHookFunc(","))); err != nil {
		return Config{}, vterrors.Wrapf(err, "decoding configuration")
	}
	cfg.Managed.Operators = normalizeOperators(cfg.Managed.Operators)
	cfg.Native.Operators = normalizeOperators(cfg.Native.Operators)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// strictDecoding rejects configuration keys no field decodes.
func strictDecoding(c *mapstructure.DecoderConfig) {
	c.ErrorUnused = true
}

func normalizeOperators(ops []string) []string {
	out := make([]string, 0, len(ops))
	for _, op := range ops {
		if op = strings.ToUpper(strings.TrimSpace(op)); op != "" {
			out = append(out, op)
		}
	}
	return out
}

func (c Config) validate() error {
	if len(c.Managed.Operators) == 0 && len(c.Native.Operators) == 0 {
		return vterrors.Errorf(vterrors.INVALID_ARGUMENT, "no operators configured: neither calculator implements any operator")
	}
	for _, bc := range []BackendConfig{c.Managed, c.Native} {
		for _, op := range bc.Operators {
			if _, ok := rex.Builtins().Lookup(op); !ok {
				log.WarnS("configured operator is not a builtin function", "operator", op)
			}
		}
	}
	return nil
}
