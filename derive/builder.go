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
	"go/token"
	"strings"
	"text/template"
)

//go:embed builder.go.tmpl
var builderText string

var builderTmpl = template.Must(template.New("builder.go.tmpl").Parse(builderText))

// builder derives a fluent builder type.
type builder struct{}

type builderField struct {
	Name string
	// The type of the builder's slot for this field, and of the parameter of
	// its setter.
	Slot, Param string
	// One of "required", "optional", or "each".
	Kind string
	// The appending setter, and the element type it takes.
	Each, Elem string
	// False if the appending setter replaces the ordinary one.
	Setter bool
}

func (builder) check(s *Struct, c *checker) error {
	var firstErr error
	report := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	methods := map[string]string{"Build": "", "fields": ""}
	claim := func(f Field, method string) {
		if owner, ok := methods[method]; ok {
			if owner == "" {
				report(c.errorf(f.span, "%w: field `%s` collides with the builder's `%s`", ErrConflict, f.Name, method))
			} else {
				report(c.errorf(f.span, "%w: setter `%s` for field `%s` is already generated for field `%s`",
					ErrConflict, method, f.Name, owner))
			}
			return
		}
		methods[method] = f.Name
	}

	for _, f := range s.Fields {
		if f.Name == "Builder" {
			report(c.errorf(f.span, "%w: field `Builder` collides with the generated `%s.Builder` method", ErrConflict, s.Name))
			continue
		}
		each, ok, valid := eachOf(f)
		if !valid {
			tag := f.Tag.Get("builder")
			if name, ok := strings.CutPrefix(tag, "each="); ok && token.IsIdentifier(name) {
				report(c.errorf(f.tagSpan, "%w: `each` requires a slice field, but `%s` has type `%s`",
					ErrAttribute, f.Name, f.Type))
			} else {
				report(c.errorf(f.tagSpan, `%w: expected builder:"each=..."`, ErrAttribute))
			}
			continue
		}
		if !ok || each != f.Name {
			claim(f, f.Name)
		}
		if ok {
			claim(f, each)
		}
	}
	return firstErr
}

func (builder) render(buf *bytes.Buffer, s *Struct, imports map[string]bool) error {
	data := struct {
		Name   string
		Fields []builderField
	}{Name: s.Name}

	for _, f := range s.Fields {
		packagesOf(f.expr, imports)

		bf := builderField{Name: f.Name, Slot: "*" + f.Type, Param: f.Type, Kind: "required", Setter: true}
		if elem, ok := f.Pointer(); ok {
			bf.Slot, bf.Param, bf.Kind = f.Type, elem, "optional"
		}
		if each, ok, _ := eachOf(f); ok {
			bf.Elem, _ = f.Slice()
			bf.Slot, bf.Kind, bf.Each, bf.Setter = f.Type, "each", each, each != f.Name
		}
		if bf.Kind == "required" {
			imports["errors"] = true
		}
		data.Fields = append(data.Fields, bf)
	}
	return builderTmpl.Execute(buf, data)
}

// eachOf returns the name in f's builder tag, which must look like
// builder:"each=name" and only appears on slice fields. The last result is
// false if the tag is present but malformed.
func eachOf(f Field) (name string, ok, valid bool) {
	tag, ok := f.Tag.Lookup("builder")
	if !ok {
		return "", false, true
	}
	name, ok = strings.CutPrefix(tag, "each=")
	if !ok || !token.IsIdentifier(name) || !isSlice(f) {
		return "", false, false
	}
	return name, true, true
}

func isSlice(f Field) bool {
	_, ok := f.Slice()
	return ok
}
