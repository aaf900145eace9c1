/*
Copyright 2020 The Vitess Authors.

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
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/xlab/treeprint"
)

// PrimitiveDescription is used to create a serializable representation of the Primitive tree
type PrimitiveDescription struct {
	OperatorType string
	Variant      string
	Other        map[string]any
	Inputs       []PrimitiveDescription
}

// MarshalJSON serializes the PlanDescription into a JSON representation.
// We do this rather manual thing here so the fields are in the same order.
func (pd PrimitiveDescription) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteString("{")

	if err := marshalAdd("", buf, "OperatorType", pd.OperatorType); err != nil {
		return nil, err
	}
	if pd.Variant != "" {
		if err := marshalAdd(",", buf, "Variant", pd.Variant); err != nil {
			return nil, err
		}
	}
	for _, k := range slices.Sorted(maps.Keys(pd.Other)) {
		if err := marshalAdd(",", buf, k, pd.Other[k]); err != nil {
			return nil, err
		}
	}
	if len(pd.Inputs) > 0 {
		if err := marshalAdd(",", buf, "Inputs", pd.Inputs); err != nil {
			return nil, err
		}
	}

	buf.WriteString("}")

	return buf.Bytes(), nil
}

func marshalAdd(prepend string, buf *bytes.Buffer, name string, obj any) error {
	buf.WriteString(prepend + `"` + name + `":`)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return enc.Encode(obj)
}

// PrimitiveToPlanDescription transforms a primitive tree into a corresponding PlanDescription tree
func PrimitiveToPlanDescription(in Primitive) PrimitiveDescription {
	this := in.description()

	for _, input := range in.Inputs() {
		this.Inputs = append(this.Inputs, PrimitiveToPlanDescription(input))
	}

	return this
}

// ToJSON returns the indented JSON plan description of a primitive tree.
func ToJSON(in Primitive) (string, error) {
	out, err := json.MarshalIndent(PrimitiveToPlanDescription(in), "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ToTree renders a primitive tree, outermost primitive at the root.
func ToTree(in Primitive) string {
	return asTree(in, nil).String()
}

func primitiveDescr(p Primitive) string {
	descr := p.description()
	txt := descr.OperatorType
	if descr.Variant != "" {
		txt = fmt.Sprintf("%s (%s)", txt, descr.Variant)
	}
	if calc, ok := p.(*Calc); ok {
		txt = fmt.Sprintf("%s %v", txt, descr.Other["Expressions"])
		if calc.Predicate != nil {
			txt = fmt.Sprintf("%s where %v", txt, descr.Other["Predicate"])
		}
	}
	return txt
}

func asTree(p Primitive, root treeprint.Tree) treeprint.Tree {
	txt := primitiveDescr(p)
	var branch treeprint.Tree
	if root == nil {
		branch = treeprint.NewWithRoot(txt)
	} else {
		branch = root.AddBranch(txt)
	}
	for _, child := range p.Inputs() {
		asTree(child, branch)
	}
	return branch
}
