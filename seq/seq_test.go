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

package seq_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/seqgen/lexer"
	"github.com/bufbuild/seqgen/reporter"
	"github.com/bufbuild/seqgen/seq"
	"github.com/bufbuild/seqgen/source"
	"github.com/bufbuild/seqgen/token"
)

func lex(t *testing.T, text string) (token.Stream, source.Span) {
	t.Helper()
	file := source.NewFile("test.seq", text)
	stream, err := lexer.Lex(file, reporter.NewHandler(nil))
	require.NoError(t, err)
	return stream, file.EOF()
}

func expand(t *testing.T, text string) (token.Stream, error) {
	t.Helper()
	return seq.Expand(lex(t, text))
}

func TestExpand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, input, want string
	}{
		{
			name:  "whole",
			input: "N in 0..3 { f(N); }",
			want:  "f (0) ; f (1) ; f (2) ;",
		},
		{
			name:  "inclusive repeat",
			input: "N in 1..=2 { #( item~N, )* }",
			want:  "item1 , item2 ,",
		},
		{
			name:  "empty",
			input: "N in 0..0 { f(N); }",
			want:  "",
		},
		{
			name:  "single inclusive",
			input: "N in 2..=2 { x~N }",
			want:  "x2",
		},
		{
			name:  "non-matching",
			input: `N in 0..2 { a~b c (N [N]) "N" 'N' M }`,
			want:  `a ~ b c (0 [0]) "N" 'N' M a ~ b c (1 [1]) "N" 'N' M`,
		},
		{
			name:  "repeat isolation",
			input: "N in 0..3 { A #( B~N )* C }",
			want:  "A B0 B1 B2 C",
		},
		{
			name:  "empty repeat",
			input: "N in 3..3 { A #( B~N )* C }",
			want:  "A C",
		},
		{
			name:  "bare inside repeat",
			input: "N in 0..2 { #( N, )* }",
			want:  "0 , 1 ,",
		},
		{
			name:  "repeat in group",
			input: "N in 0..2 { enum E { #( V~N = N, )* } }",
			want:  "enum E {V0 = 0 , V1 = 1 ,}",
		},
		{
			name:  "several repeats",
			input: "N in 0..2 { #(a~N)* x #(b~N)* }",
			want:  "a0 a1 x b0 b1",
		},
		{
			name:  "hash without star",
			input: "N in 0..2 { #[x~N] }",
			want:  "# [x0] # [x1]",
		},
		{
			name:  "radix",
			input: "N in 0x1..0b11 { N }",
			want:  "1 2",
		},
		{
			name:  "suffix",
			input: "N in 1_0u8..=1_1usize { N }",
			want:  "10 11",
		},
		{
			name:  "nested invocation",
			input: "N in 0..2 { seq!(M in 0..N { M }) }",
			want:  "seq ! (M in 0 .. 0 {M}) seq ! (M in 0 .. 1 {M})",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := expand(t, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestExpandFormatting(t *testing.T) {
	t.Parallel()

	squash := func(s string) string { return strings.Join(strings.Fields(s), "") }

	out, err := expand(t, "N in 0..3 { f(N); }")
	require.NoError(t, err)
	assert.Equal(t, "f(0);f(1);f(2);", squash(token.Print(out)))

	out, err = expand(t, "N in 1..=2 { #( item~N, )* }")
	require.NoError(t, err)
	assert.Equal(t, "item1,item2,", squash(token.Print(out)))
}

func TestExpandErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name, input string
		want        error
		msg         string
	}{
		{
			name:  "bare outside repeat",
			input: "N in 0..3 { #( N )* N }",
			want:  seq.ErrBoundOutsideRepeat,
			msg: "test.seq:1:21: bound identifier used outside of a repeat section: " +
				"`N` may only appear inside `#(...)*` in a body that has a repeat section",
		},
		{
			name:  "paste outside repeat",
			input: "N in 0..3 { #( x~N )* y~N }",
			want:  seq.ErrBoundOutsideRepeat,
		},
		{
			name:  "nested repeat",
			input: "N in 0..3 { #( #( N )* )* }",
			want:  seq.ErrNestedRepeat,
			msg:   "test.seq:1:16: repeat sections cannot be nested",
		},
		{
			name:  "reversed",
			input: "N in 3..1 { }",
			want:  seq.ErrReversedRange,
			msg:   "test.seq:1:6: lower bound is greater than upper bound: 3..1",
		},
		{
			name:  "word operator",
			input: "N in 0 to 3 { }",
			want:  seq.ErrInvalidRange,
			msg:   "test.seq:1:8: expecting `..` or `..=`, got identifier `to`",
		},
		{
			name:  "split operator",
			input: "N in 0. .3 { }",
			want:  seq.ErrInvalidRange,
		},
		{
			name:  "missing operator",
			input: "N in 0",
			want:  seq.ErrInvalidRange,
			msg:   "test.seq:1:7: expecting `..` or `..=`, got EOF",
		},
		{
			name:  "missing bound",
			input: "N in 0..=",
			want:  token.ErrUnexpectedEOF,
			msg:   "test.seq:1:10: expecting literal, got EOF",
		},
		{
			name:  "float bound",
			input: "N in 0..1.5 { }",
			want:  seq.ErrBadInteger,
			msg:   "test.seq:1:9: invalid integer `1.5`: expected a non-negative integer",
		},
		{
			name:  "string bound",
			input: `N in "0"..1 { }`,
			want:  seq.ErrBadInteger,
		},
		{
			name:  "overflow",
			input: "N in 0..99999999999999999999 { }",
			want:  seq.ErrBadInteger,
		},
		{
			name:  "negative",
			input: "N in -1..1 { }",
			want:  token.ErrUnexpectedToken,
			msg:   "test.seq:1:6: expecting literal, got `-`",
		},
		{
			name:  "missing in",
			input: "N of 0..3 { }",
			want:  token.ErrUnexpectedToken,
			msg:   "test.seq:1:3: expecting `in`, got identifier `of`",
		},
		{
			name:  "parenthesized body",
			input: "N in 0..3 ( )",
			want:  token.ErrUnexpectedToken,
			msg:   "test.seq:1:11: expecting `{`, got `(...)`",
		},
		{
			name:  "trailing tokens",
			input: "N in 0..3 { } x",
			want:  token.ErrUnexpectedToken,
			msg:   "test.seq:1:15: expecting end of input, got identifier `x`",
		},
		{
			name:  "empty",
			input: "",
			want:  token.ErrUnexpectedEOF,
			msg:   "test.seq:1:1: expecting identifier, got EOF",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := expand(t, tt.input)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, out)

			var ewp reporter.ErrorWithPos
			require.ErrorAs(t, err, &ewp)
			assert.False(t, ewp.GetPosition().IsUnknown())
			if tt.msg != "" {
				assert.EqualError(t, err, tt.msg)
			}
		})
	}
}

// TestExpandMatchesSubstitution checks whole-body expansion against a
// straightforward rendering of the expected output, over many ranges.
func TestExpandMatchesSubstitution(t *testing.T) {
	t.Parallel()

	for lo := range int64(4) {
		for hi := lo; hi < 6; hi++ {
			for _, inclusive := range []bool{false, true} {
				op, last := "..", hi
				if inclusive {
					op = "..="
				} else {
					last--
				}

				var want []string
				for v := lo; v <= last; v++ {
					want = append(want, fmt.Sprintf("x%d [%d] y ~ M", v, v))
				}

				out, err := expand(t, fmt.Sprintf("N in %d%s%d { x~N [N] y~M }", lo, op, hi))
				require.NoError(t, err)
				assert.Equal(t, strings.Join(want, " "), out.String(), "%d%s%d", lo, op, hi)
			}
		}
	}
}
