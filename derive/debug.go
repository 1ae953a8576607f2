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

package derive

import (
	"bytes"
	_ "embed"
	"strconv"
	"strings"
	"text/template"
)

//go:embed debug.go.tmpl
var debugText string

var debugTmpl = template.Must(template.New("debug.go.tmpl").Parse(debugText))

// debug derives a GoString method.
type debug struct{}

func (debug) check(s *Struct, c *checker) error {
	var firstErr error
	for _, f := range s.Fields {
		var err error
		switch {
		case f.Name == "GoString":
			err = c.errorf(f.span, "%w: field `GoString` collides with the generated `%s.GoString` method", ErrConflict, s.Name)
		case !validVerb(f):
			err = c.errorf(f.tagSpan, `%w: expected debug:"%%<verb>"`, ErrAttribute)
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (debug) render(buf *bytes.Buffer, s *Struct, imports map[string]bool) error {
	data := struct {
		Name    string
		Formats []string
		Fields  []string
	}{Name: s.Name}

	for i, f := range s.Fields {
		verb, ok := f.Tag.Lookup("debug")
		if !ok {
			verb = "%#v"
		}
		var sep string
		if i > 0 {
			sep = ", "
		}
		data.Fields = append(data.Fields, f.Name)
		data.Formats = append(data.Formats, strconv.Quote(sep+f.Name+": "+verb))
	}
	if len(s.Fields) > 0 {
		imports["fmt"] = true
		imports["strings"] = true
	}
	return debugTmpl.Execute(buf, data)
}

// validVerb returns whether f's debug tag, if it has one, is a format with a
// single verb, such as %x or %08b.
func validVerb(f Field) bool {
	verb, ok := f.Tag.Lookup("debug")
	if !ok {
		return true
	}
	return len(verb) > 1 && verb[0] == '%' && verb != "%%" &&
		strings.Count(strings.ReplaceAll(verb, "%%", ""), "%") == 1
}
