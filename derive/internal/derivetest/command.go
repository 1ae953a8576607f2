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

// Package derivetest holds types with derived methods, so that tests can
// exercise generated code.
package derivetest

import "time"

//go:generate go run github.com/bufbuild/seqgen/cmd/seqgen derive command.go

// Command is a process to run.
//
//seqgen:derive Builder Debug
type Command struct {
	Executable string   `debug:"%q"`
	Args       []string `builder:"each=Arg"`
	Env        []string `builder:"each=Env"`
	CurrentDir *string
	Timeout    time.Duration `debug:"%v"`
}
