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

// Package derive generates boilerplate methods for Go struct types.
//
// A struct opts in with a directive in its doc comment, naming the
// generators to run:
//
//	//seqgen:derive Builder Debug
//	type Command struct {
//		Executable string
//		Args       []string `builder:"each=Arg"`
//		CurrentDir *string
//	}
//
// Builder generates a CommandBuilder, with a setter for each field and a
// Build method that fails if a required field was never set. Pointer fields
// are optional, and their setters take the element type. A slice field tagged
// builder:"each=Name" also gets a setter that appends a single element; such
// fields are optional.
//
// Debug generates a GoString method, which formats each field with %#v, or
// with the verb given in the field's debug tag:
//
//	Secret string `debug:"%q"`
//
// The output of [Generate] is a complete, gofmt'ed Go file in the same
// package as its input.
package derive
