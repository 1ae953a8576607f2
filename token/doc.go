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

// Package token provides the token tree representation that macros operate on.
//
// # Token Trees
//
// Tokens are trees: a [Group] "contains" the tokens between its matched
// delimiters, accessible via [Group.Stream]. This simplifies parsing, since it
// moves the tricky work of matching delimiters out of the macro parsers and
// into the lexer.
//
// [Tree] is a closed sum type: its only implementations are [Ident], [Punct],
// [Literal], and [Group]. Consumers are expected to type switch over all four.
//
// # Synthetic Tokens
//
// Tokens created by a macro expansion, rather than by the lexer, either
// borrow the span of the token they were derived from, or have the zero
// [source.Span]. The latter cannot be used in diagnostics.
package token
