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

// Package seqgen expands seq! macro invocations in source files.
//
// A seq! invocation repeats a block of tokens once for each integer in a
// range, substituting the integer for a chosen identifier:
//
//	seq!(N in 0..3 {
//	    fn f~N() -> u64 { N * 2 }
//	});
//
// expands to three functions, f0 through f2. A body may instead mark a
// single section to repeat, with #(...)*, so that the tokens around it are
// produced only once:
//
//	seq!(N in 1..=3 {
//	    enum Interrupt { #( Irq~N, )* }
//	});
//
// The expansion proceeds in a few steps for each file:
//  1. Lex the file into token trees.
//     Also see: lexer.Lex
//  2. Find every macro invocation, NAME!(...), and run its macro.
//     Also see: macro.Registry
//  3. For seq!, parse the invocation header and body, then instantiate the
//     body for each value in the range.
//     Also see: seq.Expand
//  4. Print the resulting token stream, keeping the file's original layout
//     and comments wherever tokens were not rewritten.
//     Also see: token.Printer
//
// This package provides an easy-to-use interface that does all of the steps,
// for many files at a time. Files are independent, so expanding thousands of
// them can take advantage of multiple CPU cores.
//
// # Resolvers
//
// A Resolver is how the expander locates the files it is asked to expand. A
// Resolver can answer a query either with a reader of source code or with an
// already-loaded source.File.
//
// # Expander
//
// An Expander accepts a list of file paths and produces the list of results.
// Only the Resolver field is required. A minimal Expander, that loads files
// from the file system based on the current working directory, can be had
// with the following simple snippet:
//
//	expander := seqgen.Expander{
//	    Resolver: &seqgen.SourceResolver{},
//	}
//
// This minimal Expander will use default parallelism, equal to the number of
// CPU cores detected; it will expand only the seq! macro; and it will fail
// fast at the first sign of any error. All of these aspects can be customized
// by setting other fields.
package seqgen
