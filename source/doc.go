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

// Package source provides representations of source files, and byte ranges
// within them, for use in diagnostics and in source-faithful printing.
//
// A [File] is immutable once its lexer has finished with it: the lexer records
// the location of every comment it skips so that printers can later tell
// comments apart from tokens that were consumed by a macro expansion.
package source
