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
	"fmt"
	"io"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/bufbuild/seqgen/macro"
	"github.com/bufbuild/seqgen/reporter"
	"github.com/bufbuild/seqgen/source"
	"github.com/bufbuild/seqgen/token"
)

// ErrNoInvocations is reported as a warning for files that contain no macro
// invocations at all.
var ErrNoInvocations = errors.New("file contains no macro invocations")

// Expander expands the macro invocations in a set of source files, several
// files at a time.
type Expander struct {
	// Resolves paths into source code. This is how the expander loads the
	// files to be expanded. This field is the only required field.
	Resolver Resolver
	// The maximum parallelism to use when expanding. If unspecified or set to
	// a non-positive value, then min(runtime.NumCPU(), runtime.GOMAXPROCS(-1))
	// will be used.
	MaxParallelism int
	// A custom error and warning reporter. If unspecified a default reporter
	// is used. A default reporter fails the expansion after encountering any
	// errors and ignores all warnings.
	//
	// A reporter that swallows errors lets expansion continue: failed
	// invocations are replaced with a compile_error! call, and files that
	// cannot be lexed are returned with their Err set.
	Reporter reporter.Reporter
	// The macros to expand. If nil, macro.Default() is used.
	Registry *macro.Registry
}

// Result is the expansion of a single file.
type Result struct {
	Path string
	File *source.File
	// The expanded token stream.
	Tokens token.Stream
	// The printed expansion.
	Output string

	// The number of invocations found, and how many of them failed.
	Calls, Failed int

	// Set if the file could not be expanded at all, because the reporter
	// swallowed an error that makes expansion impossible, such as an
	// unbalanced bracket.
	Err error
}

// Expand expands the given files. Results are returned in the order the paths
// are given, one per path; duplicate paths are expanded once.
//
// If the reporter aborts, Expand returns its error and no results. If it
// swallowed any errors, Expand returns every result along with
// [reporter.ErrInvalidSource].
func (x *Expander) Expand(ctx context.Context, paths ...string) ([]Result, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	par := x.MaxParallelism
	if par <= 0 {
		par = min(runtime.GOMAXPROCS(-1), runtime.NumCPU())
	}

	registry := x.Registry
	if registry == nil {
		registry = macro.Default()
	}

	h := reporter.NewHandler(x.Reporter)

	e := executor{
		x:        x,
		h:        h,
		registry: registry,
		s:        semaphore.NewWeighted(int64(par)),
		results:  map[string]*result{},
	}

	results := make([]*result, len(paths))
	for i, path := range paths {
		results[i] = e.expand(ctx, path)
	}

	out := make([]Result, len(paths))
	for i, r := range results {
		select {
		case <-r.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if r.err != nil {
			if !errors.Is(r.err, reporter.ErrInvalidSource) {
				return nil, r.err
			}
			if err := h.ReporterError(); err != nil {
				// another file made the reporter abort
				return nil, err
			}
			out[i] = Result{Path: paths[i], Err: r.err}
			continue
		}
		out[i] = r.res
	}

	return out, h.Error()
}

type result struct {
	ready chan struct{}
	res   Result
	err   error
}

func (r *result) fail(err error) {
	r.err = err
	close(r.ready)
}

func (r *result) complete(res Result) {
	r.res = res
	close(r.ready)
}

type executor struct {
	x        *Expander
	h        *reporter.Handler
	registry *macro.Registry
	s        *semaphore.Weighted

	mu      sync.Mutex
	results map[string]*result
}

func (e *executor) expand(ctx context.Context, path string) *result {
	e.mu.Lock()
	defer e.mu.Unlock()
	r := e.results[path]
	if r != nil {
		return r
	}

	r = &result{
		ready: make(chan struct{}),
	}
	e.results[path] = r
	go func() {
		e.doExpand(ctx, path, r)
	}()
	return r
}

func (e *executor) doExpand(ctx context.Context, path string, r *result) {
	if err := e.s.Acquire(ctx, 1); err != nil {
		r.fail(err)
		return
	}
	defer e.s.Release(1)

	sr, err := e.x.Resolver.FindFileByPath(path)
	if err != nil {
		r.fail(err)
		return
	}

	defer func() {
		// if results included a reader, don't leave it open if it can be closed
		if sr.Source == nil {
			return
		}
		if c, ok := sr.Source.(io.Closer); ok {
			_ = c.Close()
		}
	}()

	file, err := asFile(path, sr)
	if err != nil {
		r.fail(err)
		return
	}

	exp, err := e.registry.ExpandFile(file, e.h)
	if err != nil {
		r.fail(err)
		return
	}
	if len(exp.Calls) == 0 {
		e.h.HandleWarning(file.Span(0, 0), ErrNoInvocations)
	}

	r.complete(Result{
		Path:   path,
		File:   file,
		Tokens: exp.Tokens,
		Output: exp.Output,
		Calls:  len(exp.Calls),
		Failed: exp.Failed,
	})
}

func asFile(path string, sr SearchResult) (*source.File, error) {
	if sr.File != nil {
		if sr.File.Path() != path {
			return nil, fmt.Errorf("search result for %q returned file %q", path, sr.File.Path())
		}
		return sr.File, nil
	}
	if sr.Source == nil {
		return nil, fmt.Errorf("search result for %q returned no source", path)
	}
	text, err := io.ReadAll(sr.Source)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return source.NewFile(path, string(text)), nil
}
