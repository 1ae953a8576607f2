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

package macro_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/seqgen/internal/corpora"
	"github.com/bufbuild/seqgen/lexer"
	"github.com/bufbuild/seqgen/macro"
	"github.com/bufbuild/seqgen/report"
	"github.com/bufbuild/seqgen/reporter"
	"github.com/bufbuild/seqgen/source"
	"github.com/bufbuild/seqgen/token"
)

func TestCorpus(t *testing.T) {
	t.Parallel()

	corpora.Corpus{
		Root:      "testdata",
		Refresh:   "SEQGEN_REFRESH",
		Extension: "seq",
		Outputs: []corpora.Output{
			{Extension: "out"},
			{Extension: "stderr"},
		},
		Test: func(t *testing.T, path, text string) []string {
			collector := new(report.Collector)
			e, err := macro.Default().ExpandFile(source.NewFile(path, text), reporter.NewHandler(collector))

			var output string
			if err == nil {
				output = e.Output
			} else {
				require.ErrorIs(t, err, reporter.ErrInvalidSource)
			}
			r := collector.Report()
			return []string{output, r.Render(report.Simple)}
		},
	}.Run(t)
}

func TestExpandStream(t *testing.T) {
	t.Parallel()

	stream, err := lexer.LexString("test.seq", "a { seq!(N in 0..2 { x~N }) } seq![N in 0..1 { N }] b")
	require.NoError(t, err)

	e, err := macro.Default().ExpandStream(stream, reporter.NewHandler(nil))
	require.NoError(t, err)
	assert.Equal(t, "a {x0 x1} 0 b", e.Tokens.String())
	assert.Len(t, e.Calls, 2)
	assert.Zero(t, e.Failed)
	assert.Equal(t, "seq!(N in 0..2 { x~N })", e.Calls[0].Span().Text())
}

func TestExpandStreamAbort(t *testing.T) {
	t.Parallel()

	stream, err := lexer.LexString("test.seq", "seq!(N in 2..1 {}) seq!(oops)")
	require.NoError(t, err)

	// The default handler aborts on the first error.
	_, err = macro.Default().ExpandStream(stream, reporter.NewHandler(nil))
	assert.EqualError(t, err, "test.seq:1:11: lower bound is greater than upper bound: 2..1")

	collector := new(report.Collector)
	h := reporter.NewHandler(collector)
	e, err := macro.Default().ExpandStream(stream, h)
	require.NoError(t, err)
	assert.Equal(t, 2, e.Failed)
	assert.Len(t, collector.Report(), 2)
	require.ErrorIs(t, h.Error(), reporter.ErrInvalidSource)
	assert.Equal(t,
		`compile_error ! ("test.seq:1:11: lower bound is greater than upper bound: 2..1") `+
			`compile_error ! ("test.seq:1:29: expecting `+"`in`"+`, got EOF")`,
		e.Tokens.String())
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	errShout := errors.New("too loud")
	r := macro.Default()
	r.Register("shout", macro.Func(func(input token.Stream, call macro.Call) (token.Stream, error) {
		if len(input) == 0 {
			return nil, errShout
		}
		return token.Stream{token.StringLiteral(input.String()+"!", call.Name.Span())}, nil
	}))
	assert.Equal(t, []string{"seq", "shout"}, r.Names())
	assert.Panics(t, func() { r.Register("seq", macro.Seq) })

	_, ok := r.Lookup("whisper")
	assert.False(t, ok)

	stream, err := lexer.LexString("test.seq", "shout!(hi) shout!{} whisper!(x)")
	require.NoError(t, err)
	collector := new(report.Collector)
	e, err := r.ExpandStream(stream, reporter.NewHandler(collector))
	require.NoError(t, err)

	// Errors without a position are reported at the invocation.
	assert.Equal(t, `"hi!" compile_error ! ("test.seq:1:12: too loud") whisper ! (x)`, e.Tokens.String())
	got := collector.Report()
	require.Len(t, got, 1)
	assert.ErrorIs(t, got[0].Err, errShout)
}

func TestRegistryZeroValue(t *testing.T) {
	t.Parallel()

	var r macro.Registry
	assert.Empty(t, r.Names())
	_, ok := r.Lookup("seq")
	assert.False(t, ok)

	r.Register("seq", macro.Seq)
	m, ok := r.Lookup("seq")
	require.True(t, ok)
	assert.NotNil(t, m)

	stream, err := lexer.LexString("test.seq", "seq!(N in 0..2 { f(N); })")
	require.NoError(t, err)
	e, err := r.ExpandStream(stream, reporter.NewHandler(nil))
	require.NoError(t, err)
	assert.Equal(t, "f (0) ; f (1) ;", e.Tokens.String())
}
