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

package interval_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/seqgen/internal/interval"
)

func TestInsert(t *testing.T) {
	t.Parallel()

	type r struct {
		start, end int
		value      string
	}

	tests := []struct {
		name   string
		ranges []r    // Ranges to insert.
		want   string // If not "", the value of the overlap for the last range.
	}{
		{
			name:   "empty-map",
			ranges: []r{{0, 9, "foo"}},
		},
		{
			name:   "new-max",
			ranges: []r{{0, 9, "foo"}, {30, 39, "bar"}},
		},
		{
			name:   "new-min",
			ranges: []r{{30, 39, "bar"}, {0, 9, "foo"}},
		},
		{
			name:   "between",
			ranges: []r{{0, 9, "foo"}, {30, 39, "bar"}, {20, 29, "baz"}},
		},
		{
			name:   "subset",
			ranges: []r{{0, 9, "foo"}, {2, 5, "baz"}},
			want:   "foo",
		},
		{
			name:   "same",
			ranges: []r{{0, 9, "foo"}, {0, 9, "baz"}},
			want:   "foo",
		},
		{
			name:   "touch-end",
			ranges: []r{{0, 9, "foo"}, {30, 39, "bar"}, {9, 12, "baz"}},
			want:   "foo",
		},
		{
			name:   "touch-start",
			ranges: []r{{0, 10, "foo"}, {-2, 0, "baz"}},
			want:   "foo",
		},
		{
			name:   "straddle",
			ranges: []r{{0, 9, "foo"}, {30, 39, "bar"}, {10, 32, "baz"}},
			want:   "bar",
		},
		{
			name:   "superset",
			ranges: []r{{0, 9, "foo"}, {30, 39, "bar"}, {-2, 30, "baz"}},
			want:   "foo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			type v struct{ v string } // This aids in pretty-printing for assertions.
			m := new(interval.Map[int, v])
			for i, e := range tt.ranges {
				overlap := m.Insert(e.start, e.end, v{e.value})
				if i < len(tt.ranges)-1 || tt.want == "" {
					require.Nil(t, overlap.Value)
				} else {
					assert.Equal(t, &v{tt.want}, overlap.Value)
				}
			}
		})
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	m := new(interval.Map[int, string])
	m.Insert(3, 7, "a")
	m.Insert(10, 10, "b")
	m.Insert(20, 25, "c")

	assert.Equal(t, 3, m.Len())
	assert.Nil(t, m.Get(0).Value)
	assert.Nil(t, m.Get(8).Value)
	assert.Nil(t, m.Get(26).Value)

	got := m.Get(5)
	require.NotNil(t, got.Value)
	assert.Equal(t, "a", *got.Value)
	assert.Equal(t, 3, got.Start)
	assert.Equal(t, 7, got.End)
	assert.True(t, got.Contains(7))
	assert.False(t, got.Contains(8))

	got = m.Get(10)
	require.NotNil(t, got.Value)
	assert.Equal(t, "b", *got.Value)

	var starts []int
	for i := range m.Intervals() {
		starts = append(starts, i.Start)
	}
	assert.Equal(t, []int{3, 10, 20}, starts)
	assert.Equal(t, `{[3, 7]: "a", 10: "b", [20, 25]: "c"}`, fmt.Sprintf("%q", m))
}
