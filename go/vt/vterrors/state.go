/*
Copyright 2021 The Vitess Authors.

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

import "errors"

// State is error state
type State int

// All the error states
const (
	Undefined State = iota

	// invalid argument
	BadFieldError
	SyntaxError
	WrongValueForVar
	WrongArgumentCount
	WrongValue

	// not found
	FunctionDoesNotExist

	// unimplemented
	NotSupportedYet

	// No state should be added below NumOfStates
	NumOfStates
)

// ErrorWithState is used to return the error State is such can be found
type ErrorWithState interface {
	ErrorState() State
}

// ErrorWithCode returns the error code
type ErrorWithCode interface {
	ErrorCode() ErrorCode
}

// ErrState returns the error state if it's a vterror carrying one.
func ErrState(err error) State {
	var ews ErrorWithState
	if errors.As(err, &ews) {
		return ews.ErrorState()
	}
	return Undefined
}
