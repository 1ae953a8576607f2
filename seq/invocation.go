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

package seq

import (
	"github.com/bufbuild/seqgen/reporter"
	"github.com/bufbuild/seqgen/source"
	"github.com/bufbuild/seqgen/token"
)

// Invocation is a parsed seq! invocation, N in lo..hi { body }.
type Invocation struct {
	// The bound identifier.
	Name token.Ident
	// The bounds, as written.
	Lo, Hi token.Literal
	Range  Range

	Body Stream
	// The braced group the body was parsed from.
	BodyTree token.Group
}

// ParseInvocation parses the input of a seq! invocation: everything between
// the parentheses of seq!(...). eof is where errors about running out of
// tokens are reported.
func ParseInvocation(input token.Stream, eof source.Span) (*Invocation, error) {
	return Parser{}.ParseInvocation(input, eof)
}

// ParseInvocation is like [ParseInvocation], but uses p to parse the body.
func (p Parser) ParseInvocation(input token.Stream, eof source.Span) (*Invocation, error) {
	c := token.NewCursor(input, eof)
	inv := new(Invocation)

	var err error
	if inv.Name, err = c.ParseIdent(); err != nil {
		return nil, err
	}
	if _, err = c.ParseKeyword("in"); err != nil {
		return nil, err
	}
	if inv.Lo, err = c.ParseLiteral(); err != nil {
		return nil, err
	}
	if inv.Range.Inclusive, err = parseRangeOp(c); err != nil {
		return nil, err
	}
	if inv.Hi, err = c.ParseLiteral(); err != nil {
		return nil, err
	}
	if inv.BodyTree, err = c.ParseGroup(token.Brace); err != nil {
		return nil, err
	}
	if tok, ok := c.Peek(); ok {
		return nil, reporter.Error(tok.Span(), &token.UnexpectedError{Want: "end of input", Got: tok})
	}

	if inv.Range.Lo, err = parseBound(inv.Lo); err != nil {
		return nil, err
	}
	if inv.Range.Hi, err = parseBound(inv.Hi); err != nil {
		return nil, err
	}
	if inv.Range.Lo > inv.Range.Hi {
		return nil, reporter.Errorf(source.Join(inv.Lo.Span(), inv.Hi.Span()), "%w: %v", ErrReversedRange, inv.Range)
	}

	if inv.Body, err = p.Parse(inv.BodyTree.Stream(), inv.BodyTree.Close()); err != nil {
		return nil, err
	}
	return inv, nil
}

// parseRangeOp parses .. or ..=, and returns whether it was the latter.
func parseRangeOp(c *token.Cursor) (bool, error) {
	mark := c.Mark()
	invalid := func() (bool, error) {
		c.Rewind(mark)
		tok, _ := c.Peek()
		span := c.EOF()
		if tok != nil {
			span = tok.Span()
		}
		return false, reporter.Errorf(span, "%w, got %s", ErrInvalidRange, token.Describe(tok))
	}

	first, err := c.ParsePunct('.')
	if err != nil || first.Spacing() != token.Joint {
		return invalid()
	}
	second, err := c.ParsePunct('.')
	if err != nil {
		return invalid()
	}
	if second.Spacing() == token.Joint && c.PeekPunct('=') {
		_, err := c.ParsePunct('=')
		return true, err
	}
	return false, nil
}

// Expand expands the invocation.
//
// If the body has no repeat section, the whole body is instantiated once per
// value in the range, and the results are concatenated. Otherwise, the body is
// instantiated once, and its repeat sections expand over the range.
func (inv *Invocation) Expand() (token.Stream, error) {
	name := inv.Name.Name()
	if HasRepeatSection(inv.Body) {
		return Instantiate(inv.Body, name, Repeat(inv.Range))
	}

	var out token.Stream
	for v := range inv.Range.All() {
		tokens, err := Instantiate(inv.Body, name, Whole(v))
		if err != nil {
			return nil, err
		}
		out = append(out, tokens...)
	}
	return out, nil
}

// Expand parses and expands a seq! invocation's input in one step.
func Expand(input token.Stream, eof source.Span) (token.Stream, error) {
	inv, err := ParseInvocation(input, eof)
	if err != nil {
		return nil, err
	}
	return inv.Expand()
}
