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

package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/seqgen/lexer"
	"github.com/bufbuild/seqgen/reporter"
	"github.com/bufbuild/seqgen/source"
	"github.com/bufbuild/seqgen/token"
)

func TestLexGroups(t *testing.T) {
	t.Parallel()

	stream, err := lexer.LexString("test.seq", "f(N);\n{ a [b] }")
	require.NoError(t, err)
	require.Len(t, stream, 4)

	assert.Equal(t, "f", stream[0].(token.Ident).Name())

	call, ok := stream[1].(token.Group)
	require.True(t, ok)
	assert.Equal(t, token.Parenthesis, call.Delimiter())
	assert.Equal(t, "N", call.Stream().String())
	assert.Equal(t, "(", call.Open().Text())
	assert.Equal(t, ")", call.Close().Text())
	assert.Equal(t, "(N)", call.Span().Text())

	semi, ok := stream[2].(token.Punct)
	require.True(t, ok)
	assert.Equal(t, ';', semi.Char())
	assert.Equal(t, token.Alone, semi.Spacing())

	block, ok := stream[3].(token.Group)
	require.True(t, ok)
	assert.Equal(t, token.Brace, block.Delimiter())
	assert.Equal(t, "a [b]", block.Stream().String())
	assert.Equal(t, 2, block.Open().StartLoc().Line)
}

func TestLexSpacing(t *testing.T) {
	t.Parallel()

	stream, err := lexer.LexString("test.seq", "0..=3 a. .b")
	require.NoError(t, err)

	var spacing []token.Spacing
	for _, tok := range stream {
		if p, ok := tok.(token.Punct); ok {
			spacing = append(spacing, p.Spacing())
		}
	}
	assert.Equal(t, []token.Spacing{token.Joint, token.Joint, token.Alone, token.Alone, token.Alone}, spacing)
	assert.Equal(t, "0 ..= 3 a . . b", stream.String())
}

func TestLexBOM(t *testing.T) {
	t.Parallel()

	stream, err := lexer.LexString("bom.seq", "\uFEFFf(N);")
	require.NoError(t, err)
	require.Len(t, stream, 3)
	assert.Equal(t, "f", stream[0].(token.Ident).Name())
	assert.Equal(t, 3, stream[0].Span().StartLoc().Offset)
	assert.Equal(t, "f (N) ;", stream.String())
}

func TestLexLiterals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  []string
	}{
		{input: "0..3", want: []string{"0", ".", ".", "3"}},
		{input: "1.5e-3", want: []string{"1.5e-3"}},
		{input: "0x1F_u8", want: []string{"0x1F_u8"}},
		{input: "0xe-1", want: []string{"0xe", "-", "1"}},
		{input: "10usize", want: []string{"10usize"}},
		{input: `"a \"b\" c"`, want: []string{`"a \"b\" c"`}},
		{input: "`raw\n\\`", want: []string{"`raw\n\\`"}},
		{input: `'x' '\n'`, want: []string{`'x'`, `'\n'`}},
		{input: "&'a T", want: []string{"&", "'", "a", "T"}},
		{input: "ünïcode_1", want: []string{"ünïcode_1"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			stream, err := lexer.LexString("test.seq", tt.input)
			require.NoError(t, err)
			got := make([]string, len(stream))
			for i, tok := range stream {
				got[i] = tok.String()
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLexComments(t *testing.T) {
	t.Parallel()

	file := source.NewFile("test.seq", "a // one\nb /* two\n */ c")
	stream, err := lexer.Lex(file, reporter.NewHandler(nil))
	require.NoError(t, err)
	assert.Equal(t, "a b c", stream.String())

	comment, ok := file.Comment(4)
	require.True(t, ok)
	assert.Equal(t, "// one", comment.Text())

	comment, ok = file.Comment(13)
	require.True(t, ok)
	assert.Equal(t, "/* two\n */", comment.Text())

	_, ok = file.Comment(8) // The newline after the line comment.
	assert.False(t, ok)
}

func TestLexErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  error
		pos   string
		msg   string
	}{
		{
			name: "unclosed", input: "a (b",
			want: lexer.ErrUnbalanced, pos: "test.seq:1:3",
			msg: "test.seq:1:3: unbalanced delimiter: `(` is never closed",
		},
		{
			name: "unopened", input: "a )",
			want: lexer.ErrUnbalanced, pos: "test.seq:1:3",
			msg: "test.seq:1:3: unbalanced delimiter: unexpected `)`",
		},
		{
			name: "mismatched", input: "(a]",
			want: lexer.ErrUnbalanced, pos: "test.seq:1:3",
			msg: "test.seq:1:3: unbalanced delimiter: expected `)` to close `(` at test.seq:1:1, got `]`",
		},
		{
			name: "string", input: "x \"abc",
			want: lexer.ErrUnterminated, pos: "test.seq:1:3",
			msg: "test.seq:1:3: unterminated string literal",
		},
		{
			name: "string newline", input: "\"abc\n\"",
			want: lexer.ErrUnterminated, pos: "test.seq:1:1",
		},
		{
			name: "comment", input: "x\n/* abc",
			want: lexer.ErrUnterminated, pos: "test.seq:2:1",
			msg: "test.seq:2:1: unterminated block comment",
		},
		{
			name: "control", input: "a \x01",
			want: lexer.ErrInvalidChar, pos: "test.seq:1:3",
		},
		{
			name: "utf8", input: "a \xff",
			want: lexer.ErrInvalidChar,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			stream, err := lexer.LexString("test.seq", tt.input)
			require.Error(t, err)
			assert.Nil(t, stream)
			assert.ErrorIs(t, err, tt.want)

			var ewp reporter.ErrorWithPos
			require.ErrorAs(t, err, &ewp)
			if tt.pos != "" {
				assert.Equal(t, tt.pos, ewp.GetPosition().String())
			}
			if tt.msg != "" {
				assert.Equal(t, tt.msg, err.Error())
			}
		})
	}
}

func TestLexKeepGoing(t *testing.T) {
	t.Parallel()

	var reported []reporter.ErrorWithPos
	h := reporter.NewHandler(reporter.NewReporter(
		func(err reporter.ErrorWithPos) error {
			reported = append(reported, err)
			return nil
		}, nil,
	))

	_, err := lexer.Lex(source.NewFile("test.seq", "(("), h)
	require.ErrorIs(t, err, reporter.ErrInvalidSource)
	assert.Len(t, reported, 1)
}
