// Copyright 2024 The sqlfront Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"fmt"

	goerrors "gopkg.in/src-d/go-errors.v1"
)

// Error kinds. Each corresponds to one row of the error-kind table: every
// parse failure is one of these seven, never a bare string.
var (
	ErrEmptyInput          = goerrors.NewKind("empty input: no tokens to parse")
	ErrUnexpectedToken     = goerrors.NewKind("unexpected token: %s")
	ErrMissingSelectList   = goerrors.NewKind("missing select list")
	ErrUnterminatedConstruct = goerrors.NewKind("unterminated construct: %s")
	ErrDepthExceeded       = goerrors.NewKind("maximum parse depth exceeded")
	ErrOutOfMemory         = goerrors.NewKind("arena out of memory")
	ErrStrictOperator      = goerrors.NewKind("operator %q not allowed in strict mode")
)

// ParseError is what Parser.Parse returns on failure: the triggering kind,
// a rendered message, and the offending token's source position. No AST is
// ever returned alongside one.
type ParseError struct {
	Kind    *goerrors.Kind
	Message string
	Line    int
	Column  int

	cause error // Kind.New(Message), cached so Unwrap need not reallocate
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Unwrap exposes the underlying *errors.Kind-tagged *errors.Error, so the
// standard library's errors.As can reach it through a ParseError. A
// *errors.Kind is not itself an error; the kind is tested by comparing
// ParseError.Kind.
func (e *ParseError) Unwrap() error {
	if e.cause == nil {
		return e.Kind.New(e.Message)
	}
	return e.cause
}

func newParseError(kind *goerrors.Kind, line, column int, format string, args ...interface{}) *ParseError {
	msg := fmt.Sprintf(format, args...)
	return &ParseError{
		Kind:    kind,
		Message: msg,
		Line:    line,
		Column:  column,
		cause:   kind.New(msg),
	}
}
