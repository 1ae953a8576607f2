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
	"fmt"

	"github.com/bufbuild/seqgen/source"
	"github.com/bufbuild/seqgen/token"
)

const (
	Parenthesis GroupKind = GroupKind(token.Parenthesis)
	Brace       GroupKind = GroupKind(token.Brace)
	Bracket     GroupKind = GroupKind(token.Bracket)
	// RepeatSection is #( ... )*.
	RepeatSection GroupKind = Bracket + 1
)

// Node is a parsed element of a macro body: an [Ident], [Group], [Punct], or
// [Literal].
type Node interface {
	// Span returns the source range this node was parsed from.
	Span() source.Span

	// appendTokens appends the tokens this node was parsed from.
	appendTokens(token.Stream) token.Stream
}

// Stream is a sequence of parsed nodes, in program order.
type Stream []Node

// Tokens returns the tokens s was parsed from.
func (s Stream) Tokens() token.Stream {
	var out token.Stream
	for _, node := range s {
		out = node.appendTokens(out)
	}
	return out
}

// String implements [fmt.Stringer].
func (s Stream) String() string {
	return s.Tokens().String()
}

// Ident is an identifier, possibly pasted onto a prefix as in prefix~N.
type Ident struct {
	// Non-nil if and only if this is a paste.
	Prefix *token.Ident
	// The ~ between Prefix and Name. Zero if Prefix is nil.
	Tilde token.Punct
	Name  token.Ident
}

// Span implements [Node].
func (i Ident) Span() source.Span {
	if i.Prefix == nil {
		return i.Name.Span()
	}
	return source.Join(i.Prefix.Span(), i.Name.Span())
}

func (i Ident) appendTokens(s token.Stream) token.Stream {
	if i.Prefix != nil {
		s = append(s, *i.Prefix, i.Tilde)
	}
	return append(s, i.Name)
}

// GroupKind is the kind of a [Group]: one of the three token delimiters, or
// [RepeatSection].
type GroupKind int8

// String implements [fmt.Stringer].
func (k GroupKind) String() string {
	if k == RepeatSection {
		return "RepeatSection"
	}
	if k >= Parenthesis && k <= Bracket {
		return token.Delimiter(k).String()
	}
	return fmt.Sprintf("seq.GroupKind(%d)", int(k))
}

// Group is a delimited group whose contents have been parsed.
type Group struct {
	Kind GroupKind
	Body Stream
	// The token the body was parsed from. For a repeat section, this is the
	// parenthesized group between # and *.
	Tree token.Group
	// The # and * around a repeat section. Zero otherwise.
	Hash, Star token.Punct
}

// Span implements [Node].
func (g Group) Span() source.Span {
	return source.Join(g.Hash.Span(), g.Tree.Span(), g.Star.Span())
}

func (g Group) appendTokens(s token.Stream) token.Stream {
	if g.Kind == RepeatSection {
		return append(s, g.Hash, g.Tree, g.Star)
	}
	return append(s, g.Tree)
}

// Punct is punctuation, passed through unchanged.
type Punct struct {
	token.Punct
}

func (p Punct) appendTokens(s token.Stream) token.Stream {
	return append(s, p.Punct)
}

// Literal is a literal, passed through unchanged.
type Literal struct {
	token.Literal
}

func (l Literal) appendTokens(s token.Stream) token.Stream {
	return append(s, l.Literal)
}
