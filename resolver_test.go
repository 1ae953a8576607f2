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
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, sr SearchResult) string {
	t.Helper()
	require.NotNil(t, sr.Source)
	data, err := io.ReadAll(sr.Source)
	require.NoError(t, err)
	if c, ok := sr.Source.(io.Closer); ok {
		require.NoError(t, c.Close())
	}
	return string(data)
}

func TestSourceResolverImportPaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "x.seq"), []byte("from a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b", "x.seq"), []byte("from b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b", "y.seq"), []byte("only b"), 0o644))

	r := &SourceResolver{ImportPaths: []string{filepath.Join(dir, "a"), filepath.Join(dir, "b")}}

	sr, err := r.FindFileByPath("x.seq")
	require.NoError(t, err)
	assert.Equal(t, "from a", readAll(t, sr))

	sr, err = r.FindFileByPath("y.seq")
	require.NoError(t, err)
	assert.Equal(t, "only b", readAll(t, sr))

	sr, err = r.FindFileByPath(filepath.Join(dir, "b", "x.seq"))
	require.NoError(t, err)
	assert.Equal(t, "from b", readAll(t, sr))

	_, err = r.FindFileByPath("z.seq")
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSourceResolverAccessorError(t *testing.T) {
	t.Parallel()

	denied := errors.New("denied")
	calls := 0
	r := &SourceResolver{
		ImportPaths: []string{"one", "two"},
		Accessor: func(string) (io.ReadCloser, error) {
			calls++
			return nil, denied
		},
	}
	_, err := r.FindFileByPath("x.seq")
	require.ErrorIs(t, err, denied)
	// errors other than "not found" stop the search
	assert.Equal(t, 1, calls)
}

func TestCompositeResolver(t *testing.T) {
	t.Parallel()

	_, err := CompositeResolver(nil).FindFileByPath("x.seq")
	require.ErrorIs(t, err, ErrNotFound)

	first := errors.New("first")
	r := CompositeResolver{
		ResolverFunc(func(string) (SearchResult, error) {
			return SearchResult{}, first
		}),
		&SourceResolver{Accessor: SourceAccessorFromMap(map[string]string{"x.seq": "x"})},
	}
	sr, err := r.FindFileByPath("x.seq")
	require.NoError(t, err)
	assert.Equal(t, "x", readAll(t, sr))

	_, err = r.FindFileByPath("y.seq")
	require.ErrorIs(t, err, first)
}
