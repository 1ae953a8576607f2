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

// Package seq implements the seq! repetition macro, which expands a block of
// tokens once per integer in a range:
//
//	seq!(N in 0..3 {
//	    fn f~N() -> u64 { N * 2 }
//	})
//
// expands to three functions, f0, f1, and f2. The grammar of an invocation is
//
//	invocation := IDENT "in" INT ( ".." | "..=" ) INT "{" body "}"
//
// Within the body:
//
//   - The bound identifier, N above, is replaced by the current integer.
//   - prefix~N is replaced by the identifier prefix followed by the current
//     integer. A paste whose suffix is not the bound identifier is left as is.
//   - #( ... )* marks a repeat section. If the body contains one, the body is
//     expanded once, and only the contents of the repeat section are repeated
//     for each integer:
//
//     seq!(N in 0..3 {
//     enum Interrupt { #( Irq~N, )* }
//     })
//
// Expansion happens in three steps: [Parse] turns the body into a [Stream] of
// [Node]s, [HasRepeatSection] picks the expansion mode, and [Instantiate]
// produces output tokens. [ParseInvocation] and [Invocation.Expand] tie these
// together.
package seq
