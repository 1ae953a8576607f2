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

// DefaultMaxDepth is the nesting limit used by [Parse].
const DefaultMaxDepth = 128

// Parser parses macro bodies into [Stream]s.
type Parser struct {
	// The maximum nesting depth of groups, repeat sections included, counting
	// the body itself as the first level. Zero means [DefaultMaxDepth].
	MaxDepth int
}

// Parse parses a macro body with the default [Parser]. eof is where errors
// about running out of tokens are reported, usually the closing delimiter of
// the body.
func Parse(stream token.Stream, eof source.Span) (Stream, error) {
	return Parser{}.Parse(stream, eof)
}

// Parse parses a macro body. See [Parse].
func (p Parser) Parse(stream token.Stream, eof source.Span) (Stream, error) {
	maxDepth := p.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return parseStream(token.NewCursor(stream, eof), maxDepth)
}

func parseStream(c *token.Cursor, depth int) (Stream, error) {
	var out Stream
	for !c.Done() {
		node, err := parseNode(c, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, nil
}

func parseNode(c *token.Cursor, depth int) (Node, error) {
	switch {
	case c.PeekPaste():
		return parsePaste(c)

	case c.PeekIdent():
		name, err := c.ParseIdent()
		if err != nil {
			return nil, err
		}
		return Ident{Name: name}, nil

	case c.PeekRepeatSection():
		return parseRepeatSection(c, depth)

	case c.PeekGroup():
		tree, err := c.ParseAnyGroup()
		if err != nil {
			return nil, err
		}
		body, err := parseGroupBody(tree, depth)
		if err != nil {
			return nil, err
		}
		return Group{Kind: GroupKind(tree.Delimiter()), Body: body, Tree: tree}, nil

	case c.PeekAnyPunct():
		p, err := c.ParseAnyPunct()
		if err != nil {
			return nil, err
		}
		return Punct{p}, nil

	default:
		lit, err := c.ParseLiteral()
		if err != nil {
			return nil, err
		}
		return Literal{lit}, nil
	}
}

func parsePaste(c *token.Cursor) (Node, error) {
	prefix, err := c.ParseIdent()
	if err != nil {
		return nil, err
	}
	tilde, err := c.ParsePunct('~')
	if err != nil {
		return nil, err
	}
	name, err := c.ParseIdent()
	if err != nil {
		return nil, err
	}
	return Ident{Prefix: &prefix, Tilde: tilde, Name: name}, nil
}

func parseRepeatSection(c *token.Cursor, depth int) (Node, error) {
	mark := c.Mark()
	hash, err := c.ParsePunct('#')
	if err != nil {
		return nil, err
	}
	tree, err := c.ParseGroup(token.Parenthesis)
	if err != nil {
		c.Rewind(mark)
		return nil, err
	}
	star, err := c.ParsePunct('*')
	if err != nil {
		c.Rewind(mark)
		return nil, err
	}
	body, err := parseGroupBody(tree, depth)
	if err != nil {
		return nil, err
	}
	return Group{Kind: RepeatSection, Body: body, Tree: tree, Hash: hash, Star: star}, nil
}

func parseGroupBody(tree token.Group, depth int) (Stream, error) {
	if depth <= 1 {
		return nil, reporter.Errorf(tree.Open(), "%w", ErrTooDeep)
	}
	return parseStream(token.NewCursor(tree.Stream(), tree.Close()), depth-1)
}
