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

package reporter_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/seqgen/reporter"
	"github.com/bufbuild/seqgen/source"
)

var errBoom = errors.New("boom")

func TestErrorWithPos(t *testing.T) {
	t.Parallel()

	file := source.NewFile("x.seq", "abc\ndef")
	err := reporter.Error(file.Span(4, 7), errBoom)

	assert.Equal(t, "x.seq:2:1: boom", err.Error())
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 2, err.GetPosition().Line)
	assert.Equal(t, "def", err.GetSpan().Text())

	// Wrapping an error that already has a position keeps the original.
	again := reporter.Error(file.Span(0, 1), err)
	assert.Equal(t, err, again)

	err = reporter.Errorf(source.Span{}, "bad %s", "thing")
	assert.Equal(t, "<input>: bad thing", err.Error())
}

func TestHandlerAbortsByDefault(t *testing.T) {
	t.Parallel()

	file := source.NewFile("x.seq", "abc")
	h := reporter.NewHandler(nil)
	require.NoError(t, h.Error())

	err := h.HandleErrorf(file.Span(0, 1), "first")
	require.Error(t, err)
	assert.Equal(t, "x.seq:1:1: first", err.Error())

	// Later errors are not reported, the first one sticks.
	assert.Equal(t, err, h.HandleErrorf(file.Span(1, 2), "second"))
	assert.Equal(t, err, h.Error())
	assert.Equal(t, err, h.ReporterError())
}

func TestHandlerKeepsGoing(t *testing.T) {
	t.Parallel()

	file := source.NewFile("x.seq", "abc")
	var errs, warnings []string
	h := reporter.NewHandler(reporter.NewReporter(
		func(err reporter.ErrorWithPos) error {
			errs = append(errs, err.Error())
			return nil
		},
		func(err reporter.ErrorWithPos) {
			warnings = append(warnings, err.Error())
		},
	))

	require.NoError(t, h.HandleErrorf(file.Span(0, 1), "first"))
	require.NoError(t, h.HandleErrorf(file.Span(2, 3), "second"))
	h.HandleWarning(file.Span(1, 2), errBoom)

	assert.Equal(t, []string{"x.seq:1:1: first", "x.seq:1:3: second"}, errs)
	assert.Equal(t, []string{"x.seq:1:2: boom"}, warnings)
	require.NoError(t, h.ReporterError())
	assert.ErrorIs(t, h.Error(), reporter.ErrInvalidSource)
}

func TestHandlerNonPositionalError(t *testing.T) {
	t.Parallel()

	h := reporter.NewHandler(reporter.NewReporter(func(reporter.ErrorWithPos) error { return nil }, nil))
	assert.ErrorIs(t, h.HandleError(errBoom), errBoom)
	assert.ErrorIs(t, h.Error(), errBoom)
}
