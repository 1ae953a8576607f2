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
	"strings"
	"unicode"

	"github.com/bufbuild/seqgen/source"
)

// String implements [fmt.Stringer].
//
// The result is a compact, deterministic rendering: trees are separated by a
// single space, except after a [Joint] punctuation.
func (s Stream) String() string {
	var out strings.Builder
	for i, tok := range s {
		if i > 0 {
			if p, ok := s[i-1].(Punct); !ok || p.spacing != Joint {
				out.WriteByte(' ')
			}
		}
		out.WriteString(tok.String())
	}
	return out.String()
}

// Printer prints token streams back into source text, reproducing the
// whitespace and comments of the file the tokens came from wherever it can.
//
// Between two tokens that were adjacent in their file, the original text
// between them is copied. If the tokens in between were dropped (for example,
// a macro invocation's header), only the surrounding whitespace is kept. When
// the stream jumps backwards (for example, to the next copy of a repeated
// macro body), the whitespace that preceded the next token in its file is used
// instead. Tokens that would lex as one are separated by a space.
type Printer struct {
	// If set, text before the first token and after the last one is printed
	// too, as long as it is whitespace and comments. Set this when printing a
	// whole file.
	File *source.File

	out  strings.Builder
	prev atom
	// The last non-synthetic span printed.
	last source.Span
	// Whether anything has been printed yet.
	started bool
}

// atom is a single printed unit: a leaf token or one delimiter of a group.
type atom struct {
	text  string
	span  source.Span
	kind  atomKind
	joint bool
}

type atomKind int8

const (
	atomWord atomKind = iota
	atomPunct
	atomOpen
	atomClose
)

// Print prints a stream with source-faithful spacing, without a leading file
// header or trailing text.
func Print(s Stream) string {
	p := new(Printer)
	p.Print(s)
	return p.String()
}

// Print appends s to the printer's output.
func (p *Printer) Print(s Stream) {
	for _, tok := range s {
		p.printTree(tok)
	}
}

// String returns the text printed so far. If [Printer.File] is set, this
// includes the text after the last printed token.
func (p *Printer) String() string {
	if p.File == nil {
		return p.out.String()
	}

	var tail string
	if !p.started {
		// Nothing but trivia in the whole file, or everything expanded away.
		if isTrivia(p.File, 0, len(p.File.Text())) {
			tail = p.File.Text()
		}
	} else if text, ok := source.Between(p.last, p.File.EOF()); ok {
		if isTrivia(p.File, p.last.End, len(p.File.Text())) {
			tail = text
		} else {
			tail = consumedGap(text)
		}
	}
	return p.out.String() + tail
}

func (p *Printer) printTree(tok Tree) {
	switch tok := tok.(type) {
	case Ident:
		p.emit(atom{text: tok.name, span: tok.span, kind: atomWord})
	case Literal:
		p.emit(atom{text: tok.text, span: tok.span, kind: atomWord})
	case Punct:
		p.emit(atom{text: string(tok.char), span: tok.span, kind: atomPunct, joint: tok.spacing == Joint})
	case Group:
		p.emit(atom{text: tok.delim.Open(), span: tok.open, kind: atomOpen})
		p.Print(tok.stream)
		p.emit(atom{text: tok.delim.Close(), span: tok.close, kind: atomClose})
	}
}

func (p *Printer) emit(next atom) {
	p.out.WriteString(p.gap(next))
	p.out.WriteString(next.text)
	p.prev = next
	p.started = true
	if !next.span.IsZero() {
		p.last = next.span
	}
}

// gap computes the text to print between the previous atom and next.
func (p *Printer) gap(next atom) string {
	if !p.started {
		if p.File == nil || next.span.File != p.File {
			return ""
		}
		if isTrivia(p.File, 0, next.span.Start) {
			return p.File.Text()[:next.span.Start]
		}
		return ""
	}

	var gap string
	switch text, adjacent := source.Between(p.prev.span, next.span); {
	case p.prev.joint:
	case p.prev.span.IsZero() || next.span.IsZero():
	case adjacent && isTrivia(next.span.File, p.prev.span.End, next.span.Start):
		gap = text
	case adjacent:
		// Tokens between these two were consumed, such as a macro invocation's
		// header.
		gap = consumedGap(text)
	default:
		gap = next.span.LeadingSpace()
	}

	if gap == "" && fuses(p.prev, next) {
		gap = " "
	}
	return gap
}

// fuses returns whether printing a and b with no space between would cause
// them to be lexed differently.
func fuses(a, b atom) bool {
	switch {
	case a.kind == atomWord && b.kind == atomWord:
		return true
	case a.kind == atomPunct && b.kind == atomPunct:
		return !a.joint
	default:
		return false
	}
}

// isTrivia returns whether text[start:end] of file is whitespace and comments
// only.
func isTrivia(file *source.File, start, end int) bool {
	text := file.Text()
	for i := start; i < end; {
		if text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r' {
			i++
			continue
		}
		comment, ok := file.Comment(i)
		if !ok || comment.End > end {
			return false
		}
		i = comment.End
	}
	return true
}

// consumedGap picks the whitespace to print in place of text, which contains
// tokens that are not being printed.
//
// The result keeps the line breaks on either side of the consumed tokens, and
// the indentation of whatever follows them.
func consumedGap(text string) string {
	lead := text[:len(text)-len(strings.TrimLeftFunc(text, unicode.IsSpace))]
	trail := text[len(strings.TrimRightFunc(text, unicode.IsSpace)):]

	trailLines := strings.Count(trail, "\n")
	if trailLines == 0 {
		if strings.Contains(lead, "\n") {
			return lead
		}
		return trail
	}

	indent := trail[strings.LastIndexByte(trail, '\n')+1:]
	return strings.Repeat("\n", max(trailLines, strings.Count(lead, "\n"))) + indent
}
