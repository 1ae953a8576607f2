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

package macro

import (
	"github.com/bufbuild/seqgen/lexer"
	"github.com/bufbuild/seqgen/reporter"
	"github.com/bufbuild/seqgen/source"
	"github.com/bufbuild/seqgen/token"
)

// Expansion is the result of [Registry.ExpandStream].
type Expansion struct {
	Tokens token.Stream
	// The invocations found, in order, whether or not they expanded
	// successfully.
	Calls []Call
	// The number of invocations replaced by a compile error.
	Failed int

	// The printed result, set by [Registry.ExpandFile].
	Output string
}

// ExpandFile lexes file, expands the macro invocations in it, and prints the
// result, keeping the file's formatting and comments outside of invocations.
//
// Lexical errors and macro errors are passed to handler, as for
// [Registry.ExpandStream]. Lexical errors always stop expansion.
func (r *Registry) ExpandFile(file *source.File, handler *reporter.Handler) (*Expansion, error) {
	stream, err := lexer.Lex(file, handler)
	if err != nil {
		return nil, err
	}
	e, err := r.ExpandStream(stream, handler)
	if err != nil {
		return nil, err
	}

	p := &token.Printer{File: file}
	p.Print(e.Tokens)
	e.Output = p.String()
	return e, nil
}

// ExpandStream replaces every invocation of a registered macro in stream,
// at any depth, with its expansion.
//
// If a macro fails, the error is passed to handler. If the handler's reporter
// asks to abort, ExpandStream returns that error; otherwise the invocation is
// replaced with [CompileError] and expansion continues.
func (r *Registry) ExpandStream(stream token.Stream, handler *reporter.Handler) (*Expansion, error) {
	e := new(Expansion)
	tokens, err := r.expand(e, stream, handler)
	if err != nil {
		return nil, err
	}
	e.Tokens = tokens
	return e, nil
}

func (r *Registry) expand(e *Expansion, stream token.Stream, handler *reporter.Handler) (token.Stream, error) {
	out := make(token.Stream, 0, len(stream))
	for i := 0; i < len(stream); i++ {
		if m, call, ok := r.callAt(stream, i); ok {
			e.Calls = append(e.Calls, call)
			expanded, err := m.Expand(call.Group.Stream(), call)
			if err != nil {
				if err := handler.HandleError(reporter.Error(call.Span(), err)); err != nil {
					return nil, err
				}
				e.Failed++
				expanded = CompileError(err, call)
			}
			out = append(out, expanded...)
			i += 2
			continue
		}

		if group, ok := stream[i].(token.Group); ok {
			inner, err := r.expand(e, group.Stream(), handler)
			if err != nil {
				return nil, err
			}
			out = append(out, token.NewGroup(group.Delimiter(), inner, group.Open(), group.Close()))
			continue
		}
		out = append(out, stream[i])
	}
	return out, nil
}

// callAt returns the invocation starting at stream[i], if there is one.
func (r *Registry) callAt(stream token.Stream, i int) (Macro, Call, bool) {
	if i+2 >= len(stream) {
		return nil, Call{}, false
	}
	name, ok := stream[i].(token.Ident)
	if !ok {
		return nil, Call{}, false
	}
	bang, ok := stream[i+1].(token.Punct)
	if !ok || bang.Char() != '!' {
		return nil, Call{}, false
	}
	group, ok := stream[i+2].(token.Group)
	if !ok {
		return nil, Call{}, false
	}
	m, ok := r.Lookup(name.Name())
	if !ok {
		return nil, Call{}, false
	}
	return m, Call{Name: name, Bang: bang, Group: group}, true
}

// CompileError returns the tokens of compile_error!("message"), which stands
// in for an invocation that failed to expand. The message includes the
// error's position.
//
// The tokens reuse the spans of call, so that printing the result in place
// of call keeps the surrounding formatting.
func CompileError(err error, call Call) token.Stream {
	message := reporter.Error(call.Span(), err).Error()
	group := call.Group
	return token.Stream{
		token.NewIdent("compile_error", call.Name.Span()),
		token.NewPunct('!', token.Alone, call.Bang.Span()),
		token.NewGroup(
			token.Parenthesis,
			token.Stream{token.StringLiteral(message, source.Span{})},
			group.Open(), group.Close(),
		),
	}
}
