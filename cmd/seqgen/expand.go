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
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/bufbuild/seqgen"
	"github.com/bufbuild/seqgen/report"
	"github.com/bufbuild/seqgen/reporter"
)

// ExpandCmd expands seq! invocations.
type ExpandCmd struct {
	Patterns  []string `arg:"" optional:"" help:"Files or doublestar globs to expand (default: **/*.seq)."`
	OutDir    string   `help:"Write outputs under this directory instead of next to their inputs." xor:"mode"`
	Write     bool     `short:"w" help:"Write x.go next to each input x.go.seq." xor:"mode"`
	Check     bool     `help:"Print a diff and fail if any output differs from the file on disk." xor:"mode"`
	Format    string   `help:"Diagnostic style: simple, fancy, or color."`
	Parallel  int      `short:"j" help:"Number of files to expand at once (default: number of CPUs)."`
	KeepGoing bool     `short:"k" help:"Report every error instead of stopping at the first."`
}

// Run implements the expand command.
func (c *ExpandCmd) Run(ctx context.Context, app *App) error {
	config := app.Config.Expand
	patterns := firstList(c.Patterns, config.Patterns, []string{DefaultPattern})
	format := cmp.Or(c.Format, config.Format)
	parallel := cmp.Or(c.Parallel, config.Parallel)
	keepGoing := c.KeepGoing || config.KeepGoing
	outDir := c.OutDir
	if !c.Write && !c.Check && outDir == "" {
		outDir = config.OutDir
	}

	style, err := report.ParseStyle(format)
	if err != nil {
		return err
	}
	paths, err := globFiles(patterns)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no input files match %s", strings.Join(patterns, " "))
	}

	collector := &report.Collector{FailFast: !keepGoing}
	x := seqgen.Expander{
		Resolver:       &seqgen.SourceResolver{},
		MaxParallelism: parallel,
		Reporter:       collector,
	}
	app.Logger.Info("expanding", slog.Int("files", len(paths)), slog.Bool("keep_going", keepGoing))
	results, expandErr := x.Expand(ctx, paths...)

	diagnostics := collector.Report()
	if len(diagnostics) > 0 {
		fmt.Fprint(app.Stderr, diagnostics.Render(style))
	}
	if expandErr != nil && !errors.Is(expandErr, reporter.ErrInvalidSource) {
		if errors.As(expandErr, new(reporter.ErrorWithPos)) && diagnostics.HasErrors() {
			return errReported
		}
		return expandErr
	}

	var outputs []output
	for _, result := range results {
		if result.Err != nil {
			continue
		}
		app.Logger.Debug("expanded", slog.String("path", result.Path),
			slog.Int("calls", result.Calls), slog.Int("failed", result.Failed))

		out := output{input: result.Path, text: result.Output}
		if c.Write || c.Check || outDir != "" {
			if out.path, err = outputPath(result.Path, outDir); err != nil {
				return err
			}
		}
		outputs = append(outputs, out)
	}

	switch {
	case c.Check:
		err = checkOutputs(app, outputs)
	case c.Write || outDir != "":
		err = writeOutputs(ctx, app, outputs, parallel)
	default:
		for _, out := range outputs {
			fmt.Fprint(app.Stdout, out.text)
		}
	}
	if err != nil {
		return err
	}
	if expandErr != nil {
		return errReported
	}
	return nil
}

// outputPath returns where the expansion of input goes: input without its
// .seq extension, under outDir if it is set.
func outputPath(input, outDir string) (string, error) {
	out, ok := strings.CutSuffix(input, ".seq")
	if !ok || filepath.Base(out) == "" || strings.HasSuffix(out, string(filepath.Separator)) {
		return "", fmt.Errorf("%s: cannot name output file: input does not end in .seq", input)
	}
	if outDir == "" {
		return out, nil
	}
	if filepath.IsAbs(out) {
		return filepath.Join(outDir, filepath.Base(out)), nil
	}
	return filepath.Join(outDir, out), nil
}

// firstList returns the first non-empty list.
func firstList(lists ...[]string) []string {
	for _, list := range lists {
		if len(list) > 0 {
			return list
		}
	}
	return nil
}
