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

// Walk calls visit for every expression in the tree, parents before their
// operands. Returning false from visit skips the operands of that node.
func Walk(expr Expr, visit func(e Expr) bool) {
	if expr == nil || !visit(expr) {
		return
	}
	if op, ok := expr.(Operator); ok {
		for _, operand := range op.Operands() {
			Walk(operand, visit)
		}
	}
}

// VisitOperators calls visit for every operator in the given trees until it
// returns false.
func VisitOperators(visit func(op Operator) bool, exprs ...Expr) {
	keepGoing := true
	for _, expr := range exprs {
		Walk(expr, func(e Expr) bool {
			if !keepGoing {
				return false
			}
			if op, ok := e.(Operator); ok && !visit(op) {
				keepGoing = false
			}
			return keepGoing
		})
		if !keepGoing {
			return
		}
	}
}

// Equals reports whether two expression trees are structurally identical.
func Equals(a, b Expr) bool {
	return FormatExpr(a) == FormatExpr(b)
}
