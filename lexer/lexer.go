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

// Package lexer turns source text into token trees.
//
// The lexer is deliberately language-agnostic: it knows about identifiers,
// numbers, quoted literals, punctuation, comments, and the three kinds of
// bracket. That is enough to carry Go, Rust, or protobuf source through a
// macro expansion without understanding it.
package lexer

import (
	"errors"
	"fmt"
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/bufbuild/seqgen/reporter"
	"github.com/bufbuild/seqgen/source"
	"github.com/bufbuild/seqgen/token"
)

var (
	// ErrUnbalanced is reported for a closing delimiter with no matching
	// opening delimiter, or vice versa.
	ErrUnbalanced = errors.New("unbalanced delimiter")
	// ErrUnterminated is reported for a string literal or block comment that
	// runs into the end of the file.
	ErrUnterminated = errors.New("unterminated")
	// ErrInvalidChar is reported for input that is not valid UTF-8, or for a
	// character that cannot start any token.
	ErrInvalidChar = errors.New("invalid character")
)

const utf8BOM = "\uFEFF"

type runeReader struct {
	data string
	pos  int
	err  error
	mark int
}

func (rr *runeReader) readRune() (r rune, size int, err error) {
	if rr.err != nil {
		return 0, 0, rr.err
	}
	if rr.pos == len(rr.data) {
		rr.err = io.EOF
		return 0, 0, rr.err
	}
	r, sz := utf8.DecodeRuneInString(rr.data[rr.pos:])
	if r == utf8.RuneError && sz <= 1 {
		rr.err = fmt.Errorf("%w: invalid UTF-8 byte %#x", ErrInvalidChar, rr.data[rr.pos])
		return 0, 0, rr.err
	}
	rr.pos += sz
	return r, sz, nil
}

func (rr *runeReader) peekRune() rune {
	if rr.pos == len(rr.data) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(rr.data[rr.pos:])
	return r
}

func (rr *runeReader) unreadRune(sz int) {
	newPos := rr.pos - sz
	if newPos < rr.mark {
		panic("unread past mark")
	}
	rr.pos = newPos
}

func (rr *runeReader) setMark() {
	rr.mark = rr.pos
}

func (rr *runeReader) getMark() string {
	return rr.data[rr.mark:rr.pos]
}

// frame is an open group whose closing delimiter has not been seen yet.
type frame struct {
	delim  token.Delimiter
	open   source.Span
	stream token.Stream
}

type lexer struct {
	input   *runeReader
	file    *source.File
	handler *reporter.Handler

	stack []frame
}

// Lex splits the contents of file into token trees. Comments are skipped, and
// recorded in file so that printers can reproduce them.
//
// Lexical errors are reported to handler. Lexing stops at the first one, and
// the handler's result is returned.
func Lex(file *source.File, handler *reporter.Handler) (token.Stream, error) {
	l := &lexer{
		input:   &runeReader{data: file.Text()},
		file:    file,
		handler: handler,
		stack:   []frame{{}},
	}
	if len(file.Text()) >= len(utf8BOM) && file.Text()[:len(utf8BOM)] == utf8BOM {
		l.input.pos = len(utf8BOM)
	}

	if err := l.lex(); err != nil {
		_ = handler.HandleError(err)
		return nil, handler.Error()
	}
	return l.stack[0].stream, nil
}

// LexString is a convenience for lexing a string that does not come from a
// real file, using a handler that aborts on the first error.
func LexString(path, text string) (token.Stream, error) {
	return Lex(source.NewFile(path, text), reporter.NewHandler(nil))
}

func (l *lexer) lex() error {
	for {
		l.input.setMark()
		c, _, err := l.input.readRune()
		if err == io.EOF {
			break
		} else if err != nil {
			return reporter.Error(l.file.Span(l.input.pos, l.input.pos), err)
		}

		switch {
		case unicode.IsSpace(c):
			continue

		case c == '/' && (l.input.peekRune() == '/' || l.input.peekRune() == '*'):
			if err := l.skipComment(); err != nil {
				return err
			}

		case isIdentStart(c):
			l.readIdentifier()
			l.push(token.NewIdent(l.input.getMark(), l.span()))

		case c >= '0' && c <= '9':
			l.readNumber()
			l.push(token.NewLiteral(l.input.getMark(), l.span()))

		case c == '"' || c == '`':
			if err := l.readString(c); err != nil {
				return err
			}
			l.push(token.NewLiteral(l.input.getMark(), l.span()))

		case c == '\'':
			if l.readChar() {
				l.push(token.NewLiteral(l.input.getMark(), l.span()))
			} else {
				l.push(token.NewPunct(c, l.spacing(), l.span()))
			}

		case c == '(' || c == '[' || c == '{':
			l.stack = append(l.stack, frame{delim: delimiterOf(c), open: l.span()})

		case c == ')' || c == ']' || c == '}':
			if err := l.closeGroup(c); err != nil {
				return err
			}

		case isPunct(c):
			l.push(token.NewPunct(c, l.spacing(), l.span()))

		default:
			return reporter.Errorf(l.span(), "%w %q", ErrInvalidChar, c)
		}
	}

	if len(l.stack) > 1 {
		top := l.stack[len(l.stack)-1]
		return reporter.Errorf(top.open, "%w: `%s` is never closed", ErrUnbalanced, top.delim.Open())
	}
	return nil
}

func (l *lexer) span() source.Span {
	return l.file.Span(l.input.mark, l.input.pos)
}

func (l *lexer) push(tok token.Tree) {
	top := &l.stack[len(l.stack)-1]
	top.stream = append(top.stream, tok)
}

func (l *lexer) closeGroup(c rune) error {
	delim := delimiterOf(c)
	if len(l.stack) == 1 {
		return reporter.Errorf(l.span(), "%w: unexpected `%c`", ErrUnbalanced, c)
	}
	top := l.stack[len(l.stack)-1]
	if top.delim != delim {
		return reporter.Errorf(l.span(), "%w: expected `%s` to close `%s` at %v, got `%c`",
			ErrUnbalanced, top.delim.Close(), top.delim.Open(), top.open.Pos(), c)
	}
	l.stack = l.stack[:len(l.stack)-1]
	l.push(token.NewGroup(delim, top.stream, top.open, l.span()))
	return nil
}

// spacing decides whether the punctuation just read is joined to the next
// character.
func (l *lexer) spacing() token.Spacing {
	rest := l.input.data[l.input.pos:]
	if len(rest) >= 2 && rest[0] == '/' && (rest[1] == '/' || rest[1] == '*') {
		return token.Alone
	}
	if isPunct(l.input.peekRune()) {
		return token.Joint
	}
	return token.Alone
}

func (l *lexer) readIdentifier() {
	for {
		c, sz, err := l.input.readRune()
		if err != nil {
			break
		}
		if !isIdentStart(c) && !unicode.IsDigit(c) {
			l.input.unreadRune(sz)
			break
		}
	}
}

// readNumber reads the rest of a number: digits, letters, and underscores,
// which covers prefixes and suffixes like 0x1f or 10u8. A . is only part of
// the number when a digit follows it, so that 0..3 is three tokens.
func (l *lexer) readNumber() {
	allowExpSign := false
	for {
		c, sz, err := l.input.readRune()
		if err != nil {
			break
		}
		switch {
		case (c == '-' || c == '+') && allowExpSign:
			allowExpSign = false
			continue
		case c == '.':
			if next := l.input.peekRune(); next < '0' || next > '9' {
				l.input.unreadRune(sz)
				return
			}
		case c == '_' || c < utf8.RuneSelf && (unicode.IsLetter(c) || unicode.IsDigit(c)):
		default:
			l.input.unreadRune(sz)
			return
		}
		// Scientific notation can be followed by an exponent sign, but not
		// in a hex literal, where e is a digit.
		mark := l.input.getMark()
		allowExpSign = (c == 'e' || c == 'E') && !(len(mark) > 1 && (mark[1] == 'x' || mark[1] == 'X'))
	}
}

// readString reads the rest of a "..." or `...` string literal, escapes
// included.
func (l *lexer) readString(quote rune) error {
	for {
		c, _, err := l.input.readRune()
		if err == io.EOF {
			return reporter.Errorf(l.file.Span(l.input.mark, l.input.mark+1), "%w string literal", ErrUnterminated)
		} else if err != nil {
			return reporter.Error(l.file.Span(l.input.pos, l.input.pos), err)
		}
		switch {
		case c == quote:
			return nil
		case c == '\\' && quote == '"':
			// Skip the escaped character, whatever it is; escapes are kept
			// as written.
			if _, _, err := l.input.readRune(); err != nil && err != io.EOF {
				return reporter.Error(l.file.Span(l.input.pos, l.input.pos), err)
			}
		case c == '\n' && quote == '"':
			return reporter.Errorf(l.file.Span(l.input.mark, l.input.mark+1), "%w string literal", ErrUnterminated)
		}
	}
}

// readChar tries to read the rest of a character literal such as 'x' or
// '\n'. If the input does not look like one, it leaves the input just after
// the quote and returns false, so the quote becomes punctuation (as in a Rust
// lifetime).
func (l *lexer) readChar() bool {
	start := l.input.pos
	c, _, err := l.input.readRune()
	if err != nil || c == '\n' || c == '\'' {
		l.input.pos = start
		l.input.err = nil
		return false
	}
	if c == '\\' {
		for {
			c, _, err = l.input.readRune()
			if err != nil || c == '\n' {
				break
			}
			if c == '\'' {
				return true
			}
		}
	} else if c, _, err = l.input.readRune(); err == nil && c == '\'' {
		return true
	}
	l.input.pos = start
	l.input.err = nil
	return false
}

func (l *lexer) skipComment() error {
	// Consume the second character of the opener.
	c, _, _ := l.input.readRune()
	if c == '/' {
		for {
			c, sz, err := l.input.readRune()
			if err != nil {
				break
			}
			if c == '\n' {
				// The newline is whitespace, not part of the comment.
				l.input.unreadRune(sz)
				break
			}
		}
		l.file.AddComment(l.input.mark, l.input.pos)
		return nil
	}

	for {
		c, _, err := l.input.readRune()
		if err == io.EOF {
			return reporter.Errorf(l.file.Span(l.input.mark, l.input.mark+2), "%w block comment", ErrUnterminated)
		} else if err != nil {
			return reporter.Error(l.file.Span(l.input.pos, l.input.pos), err)
		}
		if c == '*' && l.input.peekRune() == '/' {
			_, _, _ = l.input.readRune()
			l.file.AddComment(l.input.mark, l.input.pos)
			return nil
		}
	}
}

func delimiterOf(c rune) token.Delimiter {
	switch c {
	case '(', ')':
		return token.Parenthesis
	case '{', '}':
		return token.Brace
	default:
		return token.Bracket
	}
}

func isIdentStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}

// isPunct returns whether c lexes as a single-character punctuation token.
func isPunct(c rune) bool {
	switch c {
	case '(', ')', '[', ']', '{', '}', '"', '`', '_', '\'':
		return false
	}
	return c >= 0 && c < utf8.RuneSelf && (unicode.IsPunct(c) || unicode.IsSymbol(c))
}
