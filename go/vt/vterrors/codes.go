/*
Copyright 2019 The Vitess Authors.

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

// ErrorCode is the canonical error code carried by every vterror.
// The values follow the gRPC status codes.
type ErrorCode int32

const (
	// OK is returned on success.
	OK ErrorCode = iota
	// CANCELED indicates the operation was cancelled by the caller.
	CANCELED
	// UNKNOWN is used for errors that carry no code.
	UNKNOWN
	// INVALID_ARGUMENT indicates the caller specified an invalid argument,
	// such as an unparseable expression.
	INVALID_ARGUMENT
	// DEADLINE_EXCEEDED means the operation expired before completion.
	DEADLINE_EXCEEDED
	// NOT_FOUND means a requested entity was not found.
	NOT_FOUND
	// ALREADY_EXISTS means an entity the caller tried to create already exists.
	ALREADY_EXISTS
	// PERMISSION_DENIED indicates the caller is not allowed to do this.
	PERMISSION_DENIED
	// RESOURCE_EXHAUSTED indicates some resource has been exhausted.
	RESOURCE_EXHAUSTED
	// FAILED_PRECONDITION indicates the operation was rejected because the
	// system is not in a state required for its execution.
	FAILED_PRECONDITION
	// ABORTED indicates the operation was aborted.
	ABORTED
	// OUT_OF_RANGE means the operation was attempted past the valid range.
	OUT_OF_RANGE
	// UNIMPLEMENTED indicates the operation is not supported.
	UNIMPLEMENTED
	// INTERNAL errors mean an invariant of the system has been broken.
	INTERNAL
	// UNAVAILABLE indicates the service is currently unavailable.
	UNAVAILABLE
	// DATA_LOSS indicates unrecoverable data loss or corruption.
	DATA_LOSS
	// UNAUTHENTICATED indicates the request lacks valid credentials.
	UNAUTHENTICATED
)

var codeNames = [...]string{
	OK:                  "OK",
	CANCELED:            "CANCELED",
	UNKNOWN:             "UNKNOWN",
	INVALID_ARGUMENT:    "INVALID_ARGUMENT",
	DEADLINE_EXCEEDED:   "DEADLINE_EXCEEDED",
	NOT_FOUND:           "NOT_FOUND",
	ALREADY_EXISTS:      "ALREADY_EXISTS",
	PERMISSION_DENIED:   "PERMISSION_DENIED",
	RESOURCE_EXHAUSTED:  "RESOURCE_EXHAUSTED",
	FAILED_PRECONDITION: "FAILED_PRECONDITION",
	ABORTED:             "ABORTED",
	OUT_OF_RANGE:        "OUT_OF_RANGE",
	UNIMPLEMENTED:       "UNIMPLEMENTED",
	INTERNAL:            "INTERNAL",
	UNAVAILABLE:         "UNAVAILABLE",
	DATA_LOSS:           "DATA_LOSS",
	UNAUTHENTICATED:     "UNAUTHENTICATED",
}

func (c ErrorCode) String() string {
	if c >= 0 && int(c) < len(codeNames) {
		return codeNames[c]
	}
	return "UNKNOWN"
}
