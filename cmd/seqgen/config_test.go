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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"full.yaml": `
log:
  level: debug
expand:
  patterns: ["src/**/*.seq", "extra.seq"]
  out_dir: gen
  format: fancy
  parallel: 4
  keep_going: true
derive:
  patterns: ["**/*.go"]
`,
		"typo.yaml":  "expand:\n  out-dir: gen\n",
		"empty.yaml": "",
	})

	config, err := LoadConfig(filepath.Join(dir, "full.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &Config{
		Log: LogConfig{Level: "debug"},
		Expand: ExpandConfig{
			Patterns:  []string{"src/**/*.seq", "extra.seq"},
			OutDir:    "gen",
			Format:    "fancy",
			Parallel:  4,
			KeepGoing: true,
		},
		Derive: DeriveConfig{Patterns: []string{"**/*.go"}},
	}, config)

	_, err = LoadConfig(filepath.Join(dir, "typo.yaml"))
	require.ErrorContains(t, err, "field out-dir not found")

	config, err = LoadConfig(filepath.Join(dir, "empty.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, config)

	config, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, config)
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	config := &Config{Expand: ExpandConfig{Format: "fancy", Parallel: 4}}
	env := map[string]string{
		"SEQGEN_FORMAT":     "color",
		"SEQGEN_PATTERNS":   "a.seq  b/*.seq",
		"SEQGEN_PARALLEL":   "not a number",
		"SEQGEN_KEEP_GOING": "true",
		"SEQGEN_LOG_LEVEL":  "info",
	}
	config.ApplyEnv(func(name string) string { return env[name] })

	assert.Equal(t, "color", config.Expand.Format)
	assert.Equal(t, "color", config.Derive.Format)
	assert.Equal(t, []string{"a.seq", "b/*.seq"}, config.Expand.Patterns)
	assert.Equal(t, 4, config.Expand.Parallel)
	assert.True(t, config.Expand.KeepGoing)
	assert.Equal(t, "info", config.Log.Level)
}

func TestLoadEnvFile(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		".env": "SEQGEN_FORMAT=fancy\nSEQGEN_PARALLEL=2\nHOME=/nowhere\n",
	})
	getenv, err := loadEnvFile(filepath.Join(dir, ".env"), func(name string) string {
		if name == "SEQGEN_PARALLEL" {
			return "8"
		}
		return ""
	})
	require.NoError(t, err)
	assert.Equal(t, "fancy", getenv("SEQGEN_FORMAT"))
	assert.Equal(t, "8", getenv("SEQGEN_PARALLEL"))
	assert.Empty(t, getenv("HOME"))

	getenv, err = loadEnvFile(filepath.Join(dir, "missing.env"), os.Getenv)
	require.NoError(t, err)
	assert.NotNil(t, getenv)
}

func TestConfigPrecedence(t *testing.T) {
	t.Parallel()

	dir := writeFiles(t, map[string]string{
		"a.seq": "seq!(N in 0..2 { x~N })",
	})
	config := filepath.Join(dir, ".seqgen.yaml")
	require.NoError(t, os.WriteFile(config, []byte("expand:\n  out_dir: "+filepath.Join(dir, "from-config")+"\n"), 0o644))
	input := filepath.Join(dir, "a.seq")

	r := runCLI(t, nil, "--config", config, "expand", input)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, readFile(t, filepath.Join(dir, "from-config", "a")), "x1")

	env := map[string]string{"SEQGEN_OUT_DIR": filepath.Join(dir, "from-env")}
	r = runCLI(t, env, "--config", config, "expand", input)
	require.Equal(t, 0, r.code, r.stderr)
	assert.FileExists(t, filepath.Join(dir, "from-env", "a"))

	r = runCLI(t, env, "--config", config, "expand", "--out-dir", filepath.Join(dir, "from-flag"), input)
	require.Equal(t, 0, r.code, r.stderr)
	assert.FileExists(t, filepath.Join(dir, "from-flag", "a"))
}
