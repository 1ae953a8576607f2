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

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/bufbuild/seqgen/reporter"
	"github.com/bufbuild/seqgen/token"
)

// Integer type suffixes accepted on range bounds, as in 10u8.
var intSuffixes = []string{
	"u8", "u16", "u32", "u64", "u128", "usize",
	"i8", "i16", "i32", "i64", "i128", "isize",
}

// Range is a range of integers, Lo..Hi or Lo..=Hi.
type Range struct {
	Lo, Hi    int64
	Inclusive bool
}

// All returns an iterator over the values of r, in increasing order.
func (r Range) All() iter.Seq[int64] {
	return func(yield func(int64) bool) {
		if r.Lo > r.Hi || (r.Lo == r.Hi && !r.Inclusive) {
			return
		}
		for v := r.Lo; ; v++ {
			if !r.Inclusive && v == r.Hi {
				return
			}
			if !yield(v) || v == r.Hi {
				return
			}
		}
	}
}

// Len returns the number of values in r. It is unsigned because
// 0..=math.MaxInt64 holds 1<<63 values.
func (r Range) Len() uint64 {
	switch {
	case r.Lo > r.Hi:
		return 0
	case r.Inclusive:
		return uint64(r.Hi-r.Lo) + 1
	default:
		return uint64(r.Hi - r.Lo)
	}
}

// String implements [fmt.Stringer].
func (r Range) String() string {
	if r.Inclusive {
		return fmt.Sprintf("%d..=%d", r.Lo, r.Hi)
	}
	return fmt.Sprintf("%d..%d", r.Lo, r.Hi)
}

// parseBound parses an integer literal used as a range bound. Underscores,
// 0x, 0o, and 0b prefixes, and an integer type suffix are accepted.
func parseBound(lit token.Literal) (int64, error) {
	text := lit.Text()
	for _, suffix := range intSuffixes {
		if trimmed, ok := strings.CutSuffix(text, suffix); ok && trimmed != "" {
			text = trimmed
			break
		}
	}
	text = strings.ReplaceAll(text, "_", "")

	base := 10
	if len(text) > 2 && text[0] == '0' {
		switch text[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			text = text[2:]
		}
	}

	v, err := strconv.ParseInt(text, base, 64)
	if err != nil || v < 0 {
		return 0, reporter.Errorf(lit.Span(), "%w `%s`: expected a non-negative integer", ErrBadInteger, lit.Text())
	}
	return v, nil
}
