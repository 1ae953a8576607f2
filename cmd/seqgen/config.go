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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the contents of a .seqgen.yaml file.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Expand ExpandConfig `yaml:"expand"`
	Derive DeriveConfig `yaml:"derive"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
	// A file to write JSON logs to, in addition to the terminal.
	JSON string `yaml:"json"`
}

// ExpandConfig holds defaults for the expand command.
type ExpandConfig struct {
	Patterns  []string `yaml:"patterns"`
	OutDir    string   `yaml:"out_dir"`
	Format    string   `yaml:"format"`
	Parallel  int      `yaml:"parallel"`
	KeepGoing bool     `yaml:"keep_going"`
}

// DeriveConfig holds defaults for the derive command.
type DeriveConfig struct {
	Patterns []string `yaml:"patterns"`
	Format   string   `yaml:"format"`
}

// DefaultPattern is the glob expanded when no inputs are given.
const DefaultPattern = "**/*.seq"

// LoadConfig loads the config file at path. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	config := &Config{}
	if path == "" {
		return config, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return config, nil
}

// ApplyEnv overrides settings with SEQGEN_* variables that are set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	str := func(name string, dst *string) {
		if v := getenv(name); v != "" {
			*dst = v
		}
	}
	list := func(name string, dst *[]string) {
		if v := getenv(name); v != "" {
			*dst = strings.Fields(v)
		}
	}

	str("SEQGEN_LOG_LEVEL", &c.Log.Level)
	str("SEQGEN_LOG_JSON", &c.Log.JSON)
	list("SEQGEN_PATTERNS", &c.Expand.Patterns)
	str("SEQGEN_OUT_DIR", &c.Expand.OutDir)
	str("SEQGEN_FORMAT", &c.Expand.Format)
	str("SEQGEN_FORMAT", &c.Derive.Format)
	if v, err := strconv.Atoi(getenv("SEQGEN_PARALLEL")); err == nil {
		c.Expand.Parallel = v
	}
	if v, err := strconv.ParseBool(getenv("SEQGEN_KEEP_GOING")); err == nil {
		c.Expand.KeepGoing = v
	}
}

// apply overrides logging settings with the flags that were given.
func (c *LogConfig) apply(level, json string) {
	if level != "" {
		c.Level = level
	}
	if json != "" {
		c.JSON = json
	}
}

// loadEnvFile returns a getenv that falls back to the SEQGEN_* variables
// defined in path, if it exists.
func loadEnvFile(path string, getenv func(string) string) (func(string) string, error) {
	if path == "" {
		return getenv, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return getenv, nil
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return func(name string) string {
		if v := getenv(name); v != "" {
			return v
		}
		if strings.HasPrefix(name, "SEQGEN_") {
			return env[name]
		}
		return ""
	}, nil
}
