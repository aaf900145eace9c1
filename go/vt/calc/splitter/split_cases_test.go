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

package splitter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nsf/jsondiff"
	"github.com/stretchr/testify/require"

	"vitess.io/autocalc/go/test/utils"
	"vitess.io/autocalc/go/vt/calc/engine"
	"vitess.io/autocalc/go/vt/calc/rex"
)

type splitTest struct {
	Comment     string          `json:"comment,omitempty"`
	Projections []string        `json:"projections"`
	Filter      string          `json:"filter,omitempty"`
	Plan        json.RawMessage `json:"plan,omitempty"`
}

func TestSplitCases(t *testing.T) {
	testOutputTempDir := utils.MakeTestOutput(t, "testdata", "split_test")
	testFile(t, "split_cases.json", testOutputTempDir)
}

func testFile(t *testing.T, filename, tempDir string) {
	opts := jsondiff.DefaultConsoleOptions()

	t.Run(filename, func(t *testing.T) {
		var expected []splitTest
		for _, tcase := range readJSONTests(t, filename) {
			testName := tcase.Comment
			if testName == "" {
				testName = strings.Join(tcase.Projections, ", ")
			}
			current := tcase
			out := getSplitOutput(tcase)

			t.Run(testName, func(t *testing.T) {
				compare, s := jsondiff.Compare(tcase.Plan, []byte(out), &opts)
				if compare != jsondiff.FullMatch {
					t.Errorf("%s\nDiff:\n%s\n[%s] \n[%s]", filename, s, tcase.Plan, out)
				}
				current.Plan = []byte(out)
			})
			expected = append(expected, current)
		}
		if tempDir != "" {
			name := filepath.Join(tempDir, filename)
			file, err := os.Create(name)
			require.NoError(t, err)
			defer file.Close()
			enc := json.NewEncoder(file)
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			require.NoError(t, enc.Encode(expected))
		}
	})
}

func readJSONTests(t *testing.T, filename string) []splitTest {
	var output []splitTest
	file, err := os.Open(filepath.Join("testdata", filename))
	require.NoError(t, err)
	defer file.Close()
	dec := json.NewDecoder(file)
	dec.DisallowUnknownFields()
	require.NoError(t, dec.Decode(&output))
	return output
}

func getSplitOutput(tcase splitTest) string {
	calc, err := caseCalc(tcase)
	if err == nil {
		calc, err = Split(calc, testManaged, testNative)
	}
	if err != nil {
		quoted, _ := json.Marshal(err.Error())
		return string(quoted)
	}
	b := new(bytes.Buffer)
	enc := json.NewEncoder(b)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(engine.PrimitiveToPlanDescription(calc)); err != nil {
		panic(err)
	}
	return b.String()
}

func caseCalc(tcase splitTest) (*engine.Calc, error) {
	exprs, err := rex.ParseExprs(tcase.Projections)
	if err != nil {
		return nil, err
	}
	calc := &engine.Calc{Exprs: exprs, Input: &engine.Values{}}
	for i := range exprs {
		calc.Cols = append(calc.Cols, fmt.Sprintf("p%d", i))
	}
	if tcase.Filter != "" {
		if calc.Predicate, err = rex.Parse(tcase.Filter); err != nil {
			return nil, err
		}
	}
	return calc, nil
}
