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

package token

import (
	"errors"
	"fmt"
	"iter"

	"github.com/bufbuild/seqgen/reporter"
	"github.com/bufbuild/seqgen/source"
)

var (
	// ErrUnexpectedEOF is returned, wrapped in an [*UnexpectedError], when a
	// cursor runs out of tokens.
	ErrUnexpectedEOF = errors.New("unexpected end of input")
	// ErrUnexpectedToken is returned, wrapped in an [*UnexpectedError], when a
	// cursor finds a token other than the expected one.
	ErrUnexpectedToken = errors.New("unexpected token")
)

// UnexpectedError is the error produced by a failed Parse* method of [Cursor].
type UnexpectedError struct {
	// What the parser was looking for, such as "identifier" or "`in`".
	Want string
	// The token that was found instead, or nil at the end of the stream.
	Got Tree
}

// Error implements [error].
func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("expecting %s, got %s", e.Want, Describe(e.Got))
}

// Is implements the interface used by [errors.Is].
func (e *UnexpectedError) Is(target error) bool {
	if e.Got == nil {
		return target == ErrUnexpectedEOF
	}
	return target == ErrUnexpectedToken
}

// Cursor is an iterator-like construct for looping over a token stream.
// Unlike a plain range func, it supports peeking and backtracking.
//
// Peek* methods never consume tokens and never fail. Parse* methods consume
// exactly one token on success; on failure they return an error positioned at
// the offending token (or at the cursor's EOF span) and leave the cursor
// where it was.
type Cursor struct {
	stream Stream
	idx    int
	// Where to report errors about running out of tokens.
	eof source.Span
}

// CursorMark is the return value of [Cursor.Mark], which marks a position on
// a Cursor for rewinding to.
type CursorMark struct {
	// This contains exactly the values needed to rewind the cursor.
	owner *Cursor
	idx   int
}

// NewCursor returns a new cursor over the given tokens. eof is the span used
// for errors about unexpected end of input; for the contents of a [Group],
// that is usually the span of the closing delimiter.
func NewCursor(stream Stream, eof source.Span) *Cursor {
	return &Cursor{stream: stream, eof: eof}
}

// EOF returns the span that end-of-input errors are reported at.
func (c *Cursor) EOF() source.Span {
	return c.eof
}

// Done returns whether or not there are still tokens left to yield.
func (c *Cursor) Done() bool {
	return c.idx >= len(c.stream)
}

// Mark makes a mark on this cursor to indicate a place that can be rewound
// to.
func (c *Cursor) Mark() CursorMark {
	return CursorMark{
		owner: c,
		idx:   c.idx,
	}
}

// Rewind moves this cursor back to the position described by mark.
//
// Panics if mark was not created using this cursor's Mark method.
func (c *Cursor) Rewind(mark CursorMark) {
	if c != mark.owner {
		panic("seqgen/token: rewound cursor using the wrong cursor's mark")
	}
	c.idx = mark.idx
}

// Peek returns the current token in the sequence, if there is one.
func (c *Cursor) Peek() (Tree, bool) {
	tok := c.at(0)
	return tok, tok != nil
}

// at returns the token n positions ahead, or nil if that is out of bounds.
func (c *Cursor) at(n int) Tree {
	i := c.idx + n
	if i < 0 || i >= len(c.stream) {
		return nil
	}
	return c.stream[i]
}

// Next returns the current token and advances the cursor.
func (c *Cursor) Next() (Tree, bool) {
	tok, ok := c.Peek()
	if ok {
		c.idx++
	}
	return tok, ok
}

// Rest returns an iterator over the remaining tokens in the cursor, which
// advances the cursor as it goes.
func (c *Cursor) Rest() iter.Seq[Tree] {
	return func(yield func(Tree) bool) {
		for {
			tok, ok := c.Next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

// PeekIdent returns whether the current token is an identifier.
func (c *Cursor) PeekIdent() bool {
	return isIdent(c.at(0))
}

// PeekIdentNamed returns whether the current token is the identifier name.
func (c *Cursor) PeekIdentNamed(name string) bool {
	tok, _ := c.Peek()
	id, ok := tok.(Ident)
	return ok && id.name == name
}

// PeekPunct returns whether the current token is the punctuation ch.
func (c *Cursor) PeekPunct(ch rune) bool {
	return isPunct(c.at(0), ch)
}

// PeekAnyPunct returns whether the current token is punctuation.
func (c *Cursor) PeekAnyPunct() bool {
	tok, _ := c.Peek()
	_, ok := tok.(Punct)
	return ok
}

// PeekLiteral returns whether the current token is a literal.
func (c *Cursor) PeekLiteral() bool {
	tok, _ := c.Peek()
	_, ok := tok.(Literal)
	return ok
}

// PeekGroup returns whether the current token is a group of any delimiter.
func (c *Cursor) PeekGroup() bool {
	tok, _ := c.Peek()
	_, ok := tok.(Group)
	return ok
}

// PeekPaste returns whether the next three tokens are an identifier, a ~,
// and another identifier, i.e. a pasted identifier such as f~N.
func (c *Cursor) PeekPaste() bool {
	return isIdent(c.at(0)) &&
		isPunct(c.at(1), '~') &&
		isIdent(c.at(2))
}

// PeekRepeatSection returns whether the next three tokens are a #, a
// parenthesized group, and a *, i.e. a repeat section #( ... )*.
func (c *Cursor) PeekRepeatSection() bool {
	if !isPunct(c.at(0), '#') {
		return false
	}
	g, ok := c.at(1).(Group)
	return ok && g.delim == Parenthesis && isPunct(c.at(2), '*')
}

// ParseIdent consumes an identifier.
func (c *Cursor) ParseIdent() (Ident, error) {
	tok, _ := c.Peek()
	id, ok := tok.(Ident)
	if !ok {
		return Ident{}, c.unexpected("identifier", tok)
	}
	c.idx++
	return id, nil
}

// ParseKeyword consumes the identifier name.
func (c *Cursor) ParseKeyword(name string) (Ident, error) {
	tok, _ := c.Peek()
	id, ok := tok.(Ident)
	if !ok || id.name != name {
		return Ident{}, c.unexpected("`"+name+"`", tok)
	}
	c.idx++
	return id, nil
}

// ParsePunct consumes the punctuation ch.
func (c *Cursor) ParsePunct(ch rune) (Punct, error) {
	tok, _ := c.Peek()
	p, ok := tok.(Punct)
	if !ok || p.char != ch {
		return Punct{}, c.unexpected(fmt.Sprintf("`%c`", ch), tok)
	}
	c.idx++
	return p, nil
}

// ParseAnyPunct consumes any punctuation.
func (c *Cursor) ParseAnyPunct() (Punct, error) {
	tok, _ := c.Peek()
	p, ok := tok.(Punct)
	if !ok {
		return Punct{}, c.unexpected("punctuation", tok)
	}
	c.idx++
	return p, nil
}

// ParseLiteral consumes a literal.
func (c *Cursor) ParseLiteral() (Literal, error) {
	tok, _ := c.Peek()
	lit, ok := tok.(Literal)
	if !ok {
		return Literal{}, c.unexpected("literal", tok)
	}
	c.idx++
	return lit, nil
}

// ParseGroup consumes a group with the given delimiter.
func (c *Cursor) ParseGroup(delim Delimiter) (Group, error) {
	tok, _ := c.Peek()
	g, ok := tok.(Group)
	if !ok || g.delim != delim {
		return Group{}, c.unexpected(fmt.Sprintf("`%s`", delim.Open()), tok)
	}
	c.idx++
	return g, nil
}

// ParseAnyGroup consumes a group with any delimiter.
func (c *Cursor) ParseAnyGroup() (Group, error) {
	tok, _ := c.Peek()
	g, ok := tok.(Group)
	if !ok {
		return Group{}, c.unexpected("group", tok)
	}
	c.idx++
	return g, nil
}

func (c *Cursor) unexpected(want string, got Tree) error {
	span := c.eof
	if got != nil {
		span = got.Span()
	}
	return reporter.Error(span, &UnexpectedError{Want: want, Got: got})
}

func isIdent(tok Tree) bool {
	_, ok := tok.(Ident)
	return ok
}

func isPunct(tok Tree, ch rune) bool {
	p, ok := tok.(Punct)
	return ok && p.char == ch
}
