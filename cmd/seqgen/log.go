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
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// newLogger returns a logger that writes text to stderr and, if configured,
// JSON to a file. The returned function closes the file.
func newLogger(stderr io.Writer, config LogConfig) (*slog.Logger, func(), error) {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	if config.Level != "" {
		if err := level.UnmarshalText([]byte(config.Level)); err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q", config.Level)
		}
	}
	opts := &slog.HandlerOptions{Level: level}

	handlers := []slog.Handler{slog.NewTextHandler(stderr, opts)}
	closer := func() {}
	if config.JSON != "" {
		file, err := os.OpenFile(config.JSON, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(file, opts))
		closer = func() { _ = file.Close() }
	}
	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}
