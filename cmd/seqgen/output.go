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

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"
)

var (
	statusWrote     = color.New(color.FgGreen, color.Bold).SprintFunc()
	statusUnchanged = color.New(color.Faint).SprintFunc()
	statusStale     = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// output is a generated file.
type output struct {
	input string
	// Where the output goes. Empty when printing to stdout.
	path string
	text string
}

// globFiles expands doublestar patterns into a sorted list of files, without
// duplicates. Patterns without glob syntax are kept as-is, even if they do
// not exist, so that a missing file is reported as such.
func globFiles(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var paths []string
	for _, pattern := range patterns {
		var matches []string
		if !hasMeta(pattern) {
			matches = []string{pattern}
		} else {
			var err error
			matches, err = doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
			}
			slices.Sort(matches)
		}
		for _, path := range matches {
			path = filepath.Clean(path)
			if !seen[path] {
				seen[path] = true
				paths = append(paths, path)
			}
		}
	}
	return paths, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// writeOutputs writes every output that differs from what is on disk, then
// prints a status line for each, in order.
func writeOutputs(ctx context.Context, app *App, outputs []output, parallel int) error {
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}
	wrote := make([]bool, len(outputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, out := range outputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			old, err := os.ReadFile(out.path)
			if err == nil && bytes.Equal(old, []byte(out.text)) {
				return nil
			}
			if err := os.MkdirAll(filepath.Dir(out.path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(out.path, []byte(out.text), 0o644); err != nil {
				return err
			}
			wrote[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, out := range outputs {
		if wrote[i] {
			fmt.Fprintf(app.Stdout, "%s %s\n", statusWrote("wrote"), out.path)
		} else {
			fmt.Fprintf(app.Stdout, "%s %s\n", statusUnchanged("unchanged"), out.path)
		}
	}
	return nil
}

// checkOutputs prints a diff for every output that differs from what is on
// disk, and fails if there are any.
func checkOutputs(app *App, outputs []output) error {
	var stale int
	for _, out := range outputs {
		old, err := os.ReadFile(out.path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err == nil && string(old) == out.text {
			continue
		}

		stale++
		fmt.Fprintf(app.Stdout, "%s %s\n", statusStale("stale"), out.path)
		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(old)),
			B:        difflib.SplitLines(out.text),
			FromFile: out.path,
			ToFile:   out.path + " (from " + filepath.Base(out.input) + ")",
			Context:  3,
		})
		if err != nil {
			return err
		}
		fmt.Fprint(app.Stdout, diff)
	}
	if stale > 0 {
		return fmt.Errorf("%d of %d outputs are out of date", stale, len(outputs))
	}
	return nil
}
