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
	"os"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/bufbuild/seqgen/derive"
	"github.com/bufbuild/seqgen/report"
	"github.com/bufbuild/seqgen/reporter"
	"github.com/bufbuild/seqgen/source"
)

// DeriveCmd runs the struct method generators.
type DeriveCmd struct {
	Files     []string `arg:"" optional:"" help:"Go files or doublestar globs to derive for."`
	Check     bool     `help:"Print a diff and fail if any output differs from the file on disk."`
	Format    string   `help:"Diagnostic style: simple, fancy, or color."`
	KeepGoing bool     `short:"k" help:"Report every error instead of stopping at the first."`
}

// Run implements the derive command.
func (c *DeriveCmd) Run(ctx context.Context, app *App) error {
	config := app.Config.Derive
	patterns := firstList(c.Files, config.Patterns)
	if len(patterns) == 0 {
		return errors.New("no input files given")
	}
	style, err := report.ParseStyle(cmp.Or(c.Format, config.Format))
	if err != nil {
		return err
	}
	paths, err := globFiles(patterns)
	if err != nil {
		return err
	}
	paths = slices.DeleteFunc(paths, func(path string) bool {
		return !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_derive.go")
	})

	collector := &report.Collector{FailFast: !c.KeepGoing}
	handler := reporter.NewHandler(collector)
	outputs := make([]*output, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			code, err := derive.Generate(source.NewFile(path, string(text)), handler)
			if errors.Is(err, reporter.ErrInvalidSource) {
				return nil
			}
			if err != nil {
				return err
			}
			if code == nil {
				app.Logger.Debug("nothing to derive", slog.String("path", path))
				return nil
			}
			outputs[i] = &output{
				input: path,
				path:  strings.TrimSuffix(path, ".go") + "_derive.go",
				text:  string(code),
			}
			return nil
		})
	}
	deriveErr := g.Wait()

	diagnostics := collector.Report()
	if len(diagnostics) > 0 {
		fmt.Fprint(app.Stderr, diagnostics.Render(style))
	}
	if deriveErr != nil {
		if errors.As(deriveErr, new(reporter.ErrorWithPos)) && diagnostics.HasErrors() {
			return errReported
		}
		return deriveErr
	}

	var generated []output
	for _, out := range outputs {
		if out != nil {
			generated = append(generated, *out)
		}
	}
	if c.Check {
		err = checkOutputs(app, generated)
	} else {
		err = writeOutputs(ctx, app, generated, 0)
	}
	if err != nil {
		return err
	}
	if handler.Error() != nil {
		return errReported
	}
	return nil
}
