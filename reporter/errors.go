// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package reporter contains the types used for reporting errors from the
// lexer, the macro parsers, and the expansion engine.
package reporter

import (
	"errors"
	"fmt"

	"github.com/bufbuild/seqgen/source"
)

// ErrInvalidSource is a sentinel error that is returned by expansion when
// errors were encountered in the input, but the configured ErrorReporter
// always returned nil.
var ErrInvalidSource = errors.New("expansion failed: invalid source")

// ErrorWithPos is an error about a source file that includes information
// about the location in the file that caused the error.
//
// The value of Error() will contain both the position and the underlying
// error. The value of Unwrap() will only be the underlying error.
type ErrorWithPos interface {
	error
	GetPosition() source.Pos
	GetSpan() source.Span
	Unwrap() error
}

// Error creates a new ErrorWithPos from the given error and span.
//
// If err is already an ErrorWithPos, it is returned as is.
func Error(span source.Span, err error) ErrorWithPos {
	var ewp ErrorWithPos
	if errors.As(err, &ewp) {
		return ewp
	}
	return errorWithSpan{span: span, underlying: err}
}

// Errorf creates a new ErrorWithPos whose underlying error is created using
// the given message format and arguments (via fmt.Errorf).
func Errorf(span source.Span, format string, args ...any) ErrorWithPos {
	return errorWithSpan{span: span, underlying: fmt.Errorf(format, args...)}
}

type errorWithSpan struct {
	underlying error
	span       source.Span
}

func (e errorWithSpan) Error() string {
	return fmt.Sprintf("%s: %v", e.GetPosition(), e.underlying)
}

// GetPosition implements the ErrorWithPos interface, supplying a location in
// the source that caused the error.
func (e errorWithSpan) GetPosition() source.Pos {
	return e.span.Pos()
}

// GetSpan implements the ErrorWithPos interface, supplying the full range
// of the source that caused the error.
func (e errorWithSpan) GetSpan() source.Span {
	return e.span
}

// Unwrap implements the ErrorWithPos interface, supplying the underlying
// error. This error will not include location information.
func (e errorWithSpan) Unwrap() error {
	return e.underlying
}

var _ ErrorWithPos = errorWithSpan{}
