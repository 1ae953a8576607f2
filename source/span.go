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

package source

import (
	"fmt"
	"strings"
	"unicode"
)

// Span is a half-open byte range [Start, End) in a [File].
//
// The zero Span belongs to no file; it is what synthetic tokens carry.
type Span struct {
	File       *File
	Start, End int
}

// IsZero returns whether this is the zero span.
func (s Span) IsZero() bool {
	return s.File == nil
}

// Text returns the text this span covers.
func (s Span) Text() string {
	if s.IsZero() {
		return ""
	}
	return s.File.text[s.Start:s.End]
}

// StartLoc returns the location of the start of this span.
func (s Span) StartLoc() Location {
	if s.IsZero() {
		return Location{}
	}
	return s.File.Location(s.Start)
}

// EndLoc returns the location of the end of this span.
func (s Span) EndLoc() Location {
	if s.IsZero() {
		return Location{}
	}
	return s.File.Location(s.End)
}

// Pos returns the position of the start of this span.
func (s Span) Pos() Pos {
	if s.IsZero() {
		return UnknownPos("")
	}
	loc := s.StartLoc()
	return Pos{Filename: s.File.path, Offset: loc.Offset, Line: loc.Line, Col: loc.Column}
}

// LeadingSpace returns the run of whitespace that immediately precedes this
// span in its file.
func (s Span) LeadingSpace() string {
	if s.IsZero() {
		return ""
	}
	prefix := s.File.text[:s.Start]
	return prefix[len(strings.TrimRightFunc(prefix, unicode.IsSpace)):]
}

// String implements [fmt.Stringer].
func (s Span) String() string {
	return s.Pos().String()
}

// Join returns the smallest span containing every non-zero span given.
//
// Panics if the spans are from different files.
func Join(spans ...Span) Span {
	var joined Span
	for _, span := range spans {
		switch {
		case span.IsZero():
			continue
		case joined.IsZero():
			joined = span
		case joined.File != span.File:
			panic(fmt.Sprintf("seqgen/source: passed spans with distinct files to Join(): %q != %q", joined.File.path, span.File.path))
		default:
			joined.Start = min(joined.Start, span.Start)
			joined.End = max(joined.End, span.End)
		}
	}
	return joined
}

// Between returns the text strictly between two spans of the same file, and
// whether a and b are in that order in the same file.
func Between(a, b Span) (string, bool) {
	if a.IsZero() || b.IsZero() || a.File != b.File || a.End > b.Start {
		return "", false
	}
	return a.File.text[a.End:b.Start], true
}

// Pos is a resolved position in a source file.
type Pos struct {
	Filename  string
	Offset    int
	Line, Col int
}

// UnknownPos is a placeholder position when only the source file
// name is known.
func UnknownPos(filename string) Pos {
	return Pos{Filename: filename}
}

// IsUnknown returns whether this position carries no line information.
func (p Pos) IsUnknown() bool {
	return p.Line == 0
}

// String implements [fmt.Stringer].
func (p Pos) String() string {
	filename := p.Filename
	if filename == "" {
		filename = "<input>"
	}
	if p.IsUnknown() {
		return filename
	}
	return fmt.Sprintf("%s:%d:%d", filename, p.Line, p.Col)
}
