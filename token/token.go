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
	"fmt"
	"strconv"

	"github.com/bufbuild/seqgen/source"
)

const (
	Parenthesis Delimiter = 1 + iota // ( ... )
	Brace                            // { ... }
	Bracket                          // [ ... ]
)

const (
	Alone Spacing = iota // Followed by whitespace, a non-punctuation token, or EOF.
	Joint                // Immediately followed by another punctuation character.
)

// Delimiter is the kind of bracket that surrounds a [Group].
type Delimiter int8

// Open returns the opening bracket for this delimiter.
func (d Delimiter) Open() string {
	switch d {
	case Parenthesis:
		return "("
	case Brace:
		return "{"
	case Bracket:
		return "["
	default:
		return ""
	}
}

// Close returns the closing bracket for this delimiter.
func (d Delimiter) Close() string {
	switch d {
	case Parenthesis:
		return ")"
	case Brace:
		return "}"
	case Bracket:
		return "]"
	default:
		return ""
	}
}

// String implements [fmt.Stringer].
func (d Delimiter) String() string {
	switch d {
	case Parenthesis:
		return "Parenthesis"
	case Brace:
		return "Brace"
	case Bracket:
		return "Bracket"
	default:
		return fmt.Sprintf("token.Delimiter(%d)", int(d))
	}
}

// Spacing describes whether a [Punct] is immediately followed by another
// punctuation character, which is how multi-character operators such as
// ..= are represented.
type Spacing int8

// String implements [fmt.Stringer].
func (s Spacing) String() string {
	switch s {
	case Alone:
		return "Alone"
	case Joint:
		return "Joint"
	default:
		return fmt.Sprintf("token.Spacing(%d)", int(s))
	}
}

// Tree is a single token tree: an [Ident], [Punct], [Literal], or [Group].
type Tree interface {
	// Span returns the source range of this token. It is zero for
	// synthetic tokens.
	Span() source.Span

	fmt.Stringer

	isTree()
}

// Stream is a sequence of token trees, in program order.
type Stream []Tree

// Ident is an identifier or keyword.
type Ident struct {
	name string
	span source.Span
}

// NewIdent returns a new identifier token.
func NewIdent(name string, span source.Span) Ident {
	return Ident{name: name, span: span}
}

// Name returns the identifier's text.
func (i Ident) Name() string { return i.name }

// Span implements [Tree].
func (i Ident) Span() source.Span { return i.span }

// String implements [fmt.Stringer].
func (i Ident) String() string { return i.name }

// Punct is a single punctuation character.
type Punct struct {
	char    rune
	spacing Spacing
	span    source.Span
}

// NewPunct returns a new punctuation token.
func NewPunct(char rune, spacing Spacing, span source.Span) Punct {
	return Punct{char: char, spacing: spacing, span: span}
}

// Char returns the punctuation character.
func (p Punct) Char() rune { return p.char }

// Spacing returns whether this punctuation is joined to the next one.
func (p Punct) Spacing() Spacing { return p.spacing }

// Span implements [Tree].
func (p Punct) Span() source.Span { return p.span }

// String implements [fmt.Stringer].
func (p Punct) String() string { return string(p.char) }

// Literal is a number, string, or character literal, kept as written.
type Literal struct {
	text string
	span source.Span
}

// NewLiteral returns a new literal token with the given text.
func NewLiteral(text string, span source.Span) Literal {
	return Literal{text: text, span: span}
}

// IntLiteral returns an unsuffixed decimal integer literal.
func IntLiteral(value int64, span source.Span) Literal {
	return Literal{text: strconv.FormatInt(value, 10), span: span}
}

// StringLiteral returns a double-quoted string literal for value.
func StringLiteral(value string, span source.Span) Literal {
	return Literal{text: strconv.Quote(value), span: span}
}

// Text returns the literal as written.
func (l Literal) Text() string { return l.text }

// Span implements [Tree].
func (l Literal) Span() source.Span { return l.span }

// String implements [fmt.Stringer].
func (l Literal) String() string { return l.text }

// Group is a delimited sequence of token trees.
type Group struct {
	delim       Delimiter
	stream      Stream
	open, close source.Span
}

// NewGroup returns a new group token. open and close are the spans of the
// delimiters themselves.
func NewGroup(delim Delimiter, stream Stream, open, close source.Span) Group { //nolint:revive,predeclared
	return Group{delim: delim, stream: stream, open: open, close: close}
}

// Delimiter returns the kind of brackets around this group.
func (g Group) Delimiter() Delimiter { return g.delim }

// Stream returns the tokens inside of this group. The returned slice must not
// be modified.
func (g Group) Stream() Stream { return g.stream }

// Open returns the span of the opening delimiter.
func (g Group) Open() source.Span { return g.open }

// Close returns the span of the closing delimiter.
func (g Group) Close() source.Span { return g.close }

// Span implements [Tree]. It covers both delimiters.
func (g Group) Span() source.Span { return source.Join(g.open, g.close) }

// String implements [fmt.Stringer].
func (g Group) String() string {
	return g.delim.Open() + g.stream.String() + g.delim.Close()
}

func (Ident) isTree()   {}
func (Punct) isTree()   {}
func (Literal) isTree() {}
func (Group) isTree()   {}

// Describe returns a short description of a token, for use in error messages.
func Describe(tok Tree) string {
	switch tok := tok.(type) {
	case Ident:
		return fmt.Sprintf("identifier `%s`", tok.name)
	case Punct:
		return fmt.Sprintf("`%c`", tok.char)
	case Literal:
		return fmt.Sprintf("literal `%s`", tok.text)
	case Group:
		return fmt.Sprintf("`%s...%s`", tok.delim.Open(), tok.delim.Close())
	default:
		return "EOF"
	}
}
