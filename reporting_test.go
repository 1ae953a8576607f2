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

package seqgen

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/seqgen/lexer"
	"github.com/bufbuild/seqgen/reporter"
	"github.com/bufbuild/seqgen/seq"
)

var reportingFiles = map[string]string{
	"a.seq": "seq!(N in 3..1 {})",
	"b.seq": "x!()\nseq!(N in 0..3 { #( #( N )* )* })",
	"c.seq": "f(",
}

func TestErrorReporting(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var reported []reporter.ErrorWithPos
	x := Expander{
		Resolver: &SourceResolver{Accessor: SourceAccessorFromMap(reportingFiles)},
		Reporter: reporter.NewReporter(func(err reporter.ErrorWithPos) error {
			mu.Lock()
			defer mu.Unlock()
			reported = append(reported, err)
			return nil
		}, nil),
	}
	results, err := x.Expand(context.Background(), "a.seq", "b.seq", "c.seq")

	// returns sentinel, but all actual errors in reported
	require.ErrorIs(t, err, reporter.ErrInvalidSource)
	msgs := make([]string, len(reported))
	for i, err := range reported {
		msgs[i] = err.Error()
	}
	assert.ElementsMatch(t, []string{
		"a.seq:1:11: lower bound is greater than upper bound: 3..1",
		"b.seq:2:21: repeat sections cannot be nested",
		"c.seq:1:2: unbalanced delimiter: `(` is never closed",
	}, msgs)

	require.Len(t, results, 3)
	assert.Equal(t, `compile_error!("a.seq:1:11: lower bound is greater than upper bound: 3..1")`, results[0].Output)
	assert.Equal(t, 1, results[0].Failed)
	assert.Equal(t, "x!()\n"+`compile_error!("b.seq:2:21: repeat sections cannot be nested")`, results[1].Output)
	assert.Equal(t, 1, results[1].Calls)

	assert.Equal(t, "c.seq", results[2].Path)
	assert.Nil(t, results[2].File)
	require.ErrorIs(t, results[2].Err, reporter.ErrInvalidSource)
}

func TestErrorReportingLimit(t *testing.T) {
	t.Parallel()

	tooManyErrors := errors.New("too many errors")
	var mu sync.Mutex
	count := 0
	x := Expander{
		Resolver: &SourceResolver{Accessor: SourceAccessorFromMap(reportingFiles)},
		Reporter: reporter.NewReporter(func(reporter.ErrorWithPos) error {
			mu.Lock()
			defer mu.Unlock()
			count++
			if count > 1 {
				return tooManyErrors
			}
			return nil
		}, nil),
		MaxParallelism: 1,
	}
	results, err := x.Expand(context.Background(), "a.seq", "b.seq", "c.seq")
	require.ErrorIs(t, err, tooManyErrors)
	assert.Nil(t, results)
	assert.Equal(t, 2, count)
}

func TestErrorReportingFailFast(t *testing.T) {
	t.Parallel()

	fail := errors.New("failure!")
	x := Expander{
		Resolver: &SourceResolver{Accessor: SourceAccessorFromMap(reportingFiles)},
		Reporter: reporter.NewReporter(func(reporter.ErrorWithPos) error {
			return fail
		}, nil),
	}
	_, err := x.Expand(context.Background(), "c.seq")
	require.ErrorIs(t, err, fail)

	// The default reporter returns the positioned error itself.
	x.Reporter = nil
	_, err = x.Expand(context.Background(), "c.seq")
	require.ErrorIs(t, err, lexer.ErrUnbalanced)
	_, err = x.Expand(context.Background(), "b.seq")
	require.ErrorIs(t, err, seq.ErrNestedRepeat)
}

func TestWarningReporting(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var warnings []string
	x := Expander{
		Resolver: &SourceResolver{Accessor: SourceAccessorFromMap(map[string]string{
			"plain.seq": "package plain\n",
			"used.seq":  "seq!(N in 0..1 { N })",
		})},
		Reporter: reporter.NewReporter(nil, func(err reporter.ErrorWithPos) {
			mu.Lock()
			defer mu.Unlock()
			warnings = append(warnings, err.Error())
		}),
	}
	results, err := x.Expand(context.Background(), "plain.seq", "used.seq")
	require.NoError(t, err)
	assert.Equal(t, "package plain\n", results[0].Output)
	assert.Equal(t, []string{"plain.seq:1:1: file contains no macro invocations"}, warnings)
}
