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
	"strconv"

	"github.com/bufbuild/seqgen/reporter"
	"github.com/bufbuild/seqgen/token"
)

// Mode selects how [Instantiate] treats the bound identifier: either [Whole],
// substituting a single value everywhere, or [Repeat], expanding repeat
// sections over a range.
type Mode interface {
	isMode()
}

// Whole returns the mode in which every use of the bound identifier is
// replaced by v.
func Whole(v int64) Mode {
	return wholeMode(v)
}

// Repeat returns the mode in which the contents of each repeat section are
// instantiated once for each value in r, and everything outside of repeat
// sections is emitted once.
func Repeat(r Range) Mode {
	return repeatMode(r)
}

type wholeMode int64

type repeatMode Range

func (wholeMode) isMode()  {}
func (repeatMode) isMode() {}

// Instantiate produces the tokens for s with the bound identifier name
// substituted according to mode.
//
// In [Whole] mode, name becomes an integer literal, and prefix~name becomes
// the identifier prefix followed by the value. Pastes whose suffix is not name
// are emitted as written, ~ included. A repeat section is an error, since
// Whole mode is used inside of repeat sections.
//
// In [Repeat] mode, repeat sections are replaced by their contents,
// instantiated in Whole mode once per value and concatenated; any use of name
// outside of a repeat section is an error.
//
// The first error aborts instantiation, and no tokens are returned.
func Instantiate(s Stream, name string, mode Mode) (token.Stream, error) {
	return instantiate(nil, s, name, mode)
}

func instantiate(out token.Stream, s Stream, name string, mode Mode) (token.Stream, error) {
	for _, node := range s {
		var err error
		switch node := node.(type) {
		case Ident:
			out, err = instantiateIdent(out, node, name, mode)
		case Group:
			out, err = instantiateGroup(out, node, name, mode)
		case Punct:
			out = append(out, node.Punct)
		case Literal:
			out = append(out, node.Literal)
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func instantiateIdent(out token.Stream, ident Ident, name string, mode Mode) (token.Stream, error) {
	if ident.Name.Name() != name {
		return ident.appendTokens(out), nil
	}

	v, ok := mode.(wholeMode)
	if !ok {
		return nil, reporter.Errorf(ident.Span(), "%w: `%s` may only appear inside `#(...)*` in a body that has a repeat section",
			ErrBoundOutsideRepeat, name)
	}

	if ident.Prefix == nil {
		return append(out, token.IntLiteral(int64(v), ident.Name.Span())), nil
	}
	pasted := ident.Prefix.Name() + strconv.FormatInt(int64(v), 10)
	return append(out, token.NewIdent(pasted, ident.Prefix.Span())), nil
}

func instantiateGroup(out token.Stream, group Group, name string, mode Mode) (token.Stream, error) {
	if group.Kind != RepeatSection {
		body, err := instantiate(nil, group.Body, name, mode)
		if err != nil {
			return nil, err
		}
		tree := group.Tree
		return append(out, token.NewGroup(tree.Delimiter(), body, tree.Open(), tree.Close())), nil
	}

	r, ok := mode.(repeatMode)
	if !ok {
		return nil, reporter.Errorf(group.Hash.Span(), "%w", ErrNestedRepeat)
	}
	var err error
	for v := range Range(r).All() {
		out, err = instantiate(out, group.Body, name, Whole(v))
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
