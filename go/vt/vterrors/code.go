/*
Copyright 2022 The Vitess Authors.

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

package vterrors

import "fmt"

var (
	VT03001 = errorWithState("VT03001", INVALID_ARGUMENT, SyntaxError, "syntax error at position %d: %s", "The expression could not be parsed.")
	VT03002 = errorWithState("VT03002", INVALID_ARGUMENT, WrongArgumentCount, "incorrect argument count for %s: expected %s, got %d", "The function was called with a number of arguments it does not accept.")
	VT03003 = errorWithState("VT03003", INVALID_ARGUMENT, FunctionDoesNotExist, "unknown function '%s'", "The function is not registered with the evaluator.")
	VT03004 = errorWithState("VT03004", INVALID_ARGUMENT, WrongValueForVar, "missing bind variable ':%s'", "The expression references a bind variable that was not supplied at execution.")
	VT03005 = errorWithState("VT03005", INVALID_ARGUMENT, BadFieldError, "column offset %d out of range for a row of %d columns", "The expression references a column the input row does not have.")
	VT03006 = errorWithState("VT03006", INVALID_ARGUMENT, WrongValue, "incorrect value for %s: %v", "A value could not be converted to the type the operation needs.")

	VT12001 = errorWithState("VT12001", UNIMPLEMENTED, NotSupportedYet, "unsupported: %s", "The expression uses an operator that neither calculator implements.")

	VT13001 = errorWithoutState("VT13001", INTERNAL, "[BUG] %s", "This error should not happen and is a bug. Please file an issue on GitHub.")
)

// Errors is the list of every VTxxxxx error, used to generate documentation.
var Errors = []func(args ...any) *VitessError{
	VT03001,
	VT03002,
	VT03003,
	VT03004,
	VT03005,
	VT03006,
	VT12001,
	VT13001,
}

type VitessError struct {
	Err         error
	Description string
	ID          string
	State       State
}

func (o *VitessError) Error() string {
	return o.Err.Error()
}

func (o *VitessError) Cause() error {
	return o.Err
}

func (o *VitessError) Unwrap() error {
	return o.Err
}

func (o *VitessError) ErrorState() State {
	return o.State
}

var _ error = (*VitessError)(nil)

func errorWithoutState(id string, code ErrorCode, short, long string) func(args ...any) *VitessError {
	return func(args ...any) *VitessError {
		s := short
		if len(args) != 0 {
			s = fmt.Sprintf(s, args...)
		}

		return &VitessError{
			Err:         New(code, id+": "+s),
			Description: long,
			ID:          id,
		}
	}
}

func errorWithState(id string, code ErrorCode, state State, short, long string) func(args ...any) *VitessError {
	return func(args ...any) *VitessError {
		return &VitessError{
			Err:         errorWithoutState(id, code, short, long)(args...),
			Description: long,
			ID:          id,
			State:       state,
		}
	}
}
