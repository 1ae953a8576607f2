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
	"slices"
	"strings"
	"sync"

	"github.com/rivo/uniseg"

	"github.com/bufbuild/seqgen/internal/interval"
)

// TabstopWidth is the width used for tabs when computing columns.
const TabstopWidth int = 4

// File is a source file: a path and its complete contents.
//
// The line index needed to compute [Location]s is built lazily, on first use,
// so a File is cheap to construct.
type File struct {
	path, text string

	once sync.Once
	// The offset of the start of each line. lines[0] is always zero.
	lines []int

	// Comments found by the lexer, as inclusive byte ranges.
	comments interval.Map[int, struct{}]
}

// NewFile constructs a new source file.
func NewFile(path, text string) *File {
	return &File{path: path, text: text}
}

// Path returns this file's filesystem path. It doesn't need to be a real
// path, but it is what diagnostics show.
func (f *File) Path() string {
	if f == nil {
		return ""
	}
	return f.path
}

// Text returns this file's textual contents.
func (f *File) Text() string {
	if f == nil {
		return ""
	}
	return f.text
}

// Span returns a span of this file.
//
// Panics if the offsets are out of bounds.
func (f *File) Span(start, end int) Span {
	if start < 0 || start > end || end > len(f.text) {
		panic(fmt.Sprintf("seqgen/source: span [%d, %d) out of bounds for %q (%d bytes)", start, end, f.path, len(f.text)))
	}
	return Span{File: f, Start: start, End: end}
}

// EOF returns the empty span at the end of this file.
func (f *File) EOF() Span {
	return f.Span(len(f.text), len(f.text))
}

// AddComment records that [start, end) is a comment. The lexer calls this for
// every comment it skips.
//
// Panics if the range overlaps a comment already recorded.
func (f *File) AddComment(start, end int) {
	if end <= start {
		return
	}
	if overlap := f.comments.Insert(start, end-1, struct{}{}); overlap.Value != nil {
		panic(fmt.Sprintf("seqgen/source: comment [%d, %d) overlaps [%d, %d]", start, end, overlap.Start, overlap.End))
	}
}

// Comment returns the span of the comment containing offset, if there is one.
func (f *File) Comment(offset int) (Span, bool) {
	if f == nil {
		return Span{}, false
	}
	found := f.comments.Get(offset)
	if found.Value == nil {
		return Span{}, false
	}
	return f.Span(found.Start, found.End+1), true
}

// Location computes full location information for the given byte offset.
func (f *File) Location(offset int) Location {
	f.once.Do(func() {
		f.lines = append(f.lines, 0)
		for i := range len(f.text) {
			if f.text[i] == '\n' {
				f.lines = append(f.lines, i+1)
			}
		}
	})

	// Find the greatest line start that is <= offset.
	line, exact := slices.BinarySearch(f.lines, offset)
	if !exact {
		line--
	}

	return Location{
		Offset: offset,
		Line:   line + 1,
		Column: Width(f.text[f.lines[line]:offset]) + 1,
	}
}

// Width returns the display width of text when it starts a line, accounting
// for tabstops and wide characters.
func Width(text string) int {
	var column int
	for text != "" {
		next, rest, haveTab := strings.Cut(text, "\t")
		column += uniseg.StringWidth(next)
		if haveTab {
			column += TabstopWidth - column%TabstopWidth
		}
		text = rest
	}
	return column
}

// Location is a user-displayable location within a source file.
type Location struct {
	// The byte offset for this location.
	Offset int

	// The line and column for this location, 1-indexed. Columns count display
	// width: A is one column wide, 貓 is two.
	//
	// Because these are 1-indexed, a zero Line can be used as a sentinel.
	Line, Column int
}
