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

// Command seqgen expands seq! macro invocations in source files, and derives
// builder and debug methods for Go structs.
//
// Usage:
//
//	seqgen [expand] [--write | --check | --out-dir=DIR] [PATTERN...]
//	seqgen derive [--check] FILE...
//
// Settings are read from flags, then SEQGEN_* environment variables (which
// may be loaded from an env file), then a YAML config file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
)

var version = "devel"

// Globals are the flags shared by every command.
type Globals struct {
	Config   string           `help:"YAML configuration file." default:".seqgen.yaml"`
	EnvFile  string           `help:"File of SEQGEN_* environment variables to load, if it exists." default:".env"`
	LogLevel string           `help:"Log level: debug, info, warn, or error."`
	LogJSON  string           `name:"log-json" help:"Also write JSON logs to this file."`
	Version  kong.VersionFlag `help:"Print the version and exit."`
}

// CLI is the command line interface.
type CLI struct {
	Globals

	Expand ExpandCmd `cmd:"" default:"withargs" help:"Expand seq! invocations (the default command)."`
	Derive DeriveCmd `cmd:"" help:"Generate methods for structs marked with //seqgen:derive."`
}

// App is what commands run against.
type App struct {
	Config *Config
	Logger *slog.Logger

	Stdout, Stderr io.Writer
}

// errReported is returned by commands that already printed why they failed.
var errReported = errors.New("failed")

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, os.Getenv))
}

// run runs seqgen with the given arguments and returns its exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	var cli CLI
	exit := -1
	parser, err := kong.New(&cli,
		kong.Name("seqgen"),
		kong.Description("Expands seq! macros and derives Go struct methods."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exit = code }),
		kong.Vars{"version": version},
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	kctx, err := parser.Parse(args)
	if exit >= 0 {
		// --help or --version
		return exit
	}
	if err != nil {
		parser.Errorf("%s", err)
		return 2
	}

	getenv, err = loadEnvFile(cli.EnvFile, getenv)
	if err != nil {
		fail(stderr, err)
		return 1
	}
	config, err := LoadConfig(cli.Config)
	if err != nil {
		fail(stderr, err)
		return 1
	}
	config.ApplyEnv(getenv)
	config.Log.apply(cli.LogLevel, cli.LogJSON)

	logger, closeLog, err := newLogger(stderr, config.Log)
	if err != nil {
		fail(stderr, err)
		return 1
	}
	defer closeLog()
	logger.Debug("loaded settings", slog.String("config", cli.Config), slog.Any("settings", config))

	app := &App{Config: config, Logger: logger, Stdout: stdout, Stderr: stderr}
	if err := kctx.Run(app); err != nil {
		if !errors.Is(err, errReported) {
			fail(stderr, err)
		}
		return 1
	}
	return 0
}

func fail(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", color.New(color.FgRed, color.Bold).Sprint("seqgen:"), err)
}
