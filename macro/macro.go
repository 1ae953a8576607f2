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

// Package macro finds macro invocations in token trees and expands them.
//
// An invocation is a registered name, a !, and a delimited group, such as
// seq!(N in 0..3 { ... }). [Registry.ExpandStream] replaces each one with the
// registered [Macro]'s output. The output is not searched for further
// invocations.
package macro

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/bufbuild/seqgen/seq"
	"github.com/bufbuild/seqgen/source"
	"github.com/bufbuild/seqgen/token"
)

// Call describes a macro invocation.
type Call struct {
	Name token.Ident
	Bang token.Punct
	// The group containing the macro's input.
	Group token.Group
}

// Span returns the span of the whole invocation.
func (c Call) Span() source.Span {
	return source.Join(c.Name.Span(), c.Group.Span())
}

// Macro is a function from tokens to tokens.
type Macro interface {
	// Expand expands an invocation. input is the contents of call.Group.
	//
	// Errors should carry a position. Those that don't are reported at the
	// invocation.
	Expand(input token.Stream, call Call) (token.Stream, error)
}

// Func adapts a function to a [Macro].
type Func func(input token.Stream, call Call) (token.Stream, error)

// Expand implements [Macro].
func (f Func) Expand(input token.Stream, call Call) (token.Stream, error) {
	return f(input, call)
}

// Seq is the seq! macro. See package [seq].
var Seq Macro = Func(func(input token.Stream, call Call) (token.Stream, error) {
	return seq.Expand(input, call.Group.Close())
})

// Registry is a set of named macros. It is safe for concurrent use. The zero
// value is an empty registry.
type Registry struct {
	mu     sync.RWMutex
	macros map[string]Macro
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{macros: make(map[string]Macro)}
}

// Default returns a new registry containing seq!.
func Default() *Registry {
	r := NewRegistry()
	r.Register("seq", Seq)
	return r
}

// Register adds a macro to this registry.
//
// Panics if name is already registered.
func (r *Registry) Register(name string, m Macro) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.macros[name]; ok {
		panic(fmt.Sprintf("seqgen/macro: macro %q registered twice", name))
	}
	if r.macros == nil {
		r.macros = make(map[string]Macro)
	}
	r.macros[name] = m
}

// Lookup returns the macro registered under name.
func (r *Registry) Lookup(name string) (Macro, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.macros[name]
	return m, ok
}

// Names returns the names of all registered macros, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.macros))
}
