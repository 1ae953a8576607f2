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

package seq

import "errors"

var (
	// ErrInvalidRange is reported when an invocation has neither .. nor ..=
	// between its bounds.
	ErrInvalidRange = errors.New("expecting `..` or `..=`")
	// ErrReversedRange is reported when the lower bound of a range is greater
	// than its upper bound.
	ErrReversedRange = errors.New("lower bound is greater than upper bound")
	// ErrBadInteger is reported when a bound is not a non-negative integer
	// that fits in 64 bits.
	ErrBadInteger = errors.New("invalid integer")
	// ErrBoundOutsideRepeat is reported when a body contains a repeat section
	// and also uses the bound identifier outside of it.
	ErrBoundOutsideRepeat = errors.New("bound identifier used outside of a repeat section")
	// ErrNestedRepeat is reported for a repeat section inside another one.
	ErrNestedRepeat = errors.New("repeat sections cannot be nested")
	// ErrTooDeep is reported for bodies whose groups nest deeper than
	// [Parser.MaxDepth].
	ErrTooDeep = errors.New("token trees nested too deeply")
)
