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
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/scanner"
	gotoken "go/token"
	"go/types"
	"path"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/bufbuild/seqgen/reporter"
	"github.com/bufbuild/seqgen/source"
)

// Directive is the comment that marks a struct for derivation.
const Directive = "//seqgen:derive"

var (
	// ErrSyntax is reported for input that is not valid Go.
	ErrSyntax = errors.New("syntax error")
	// ErrAttribute is reported for a struct tag with the wrong shape.
	ErrAttribute = errors.New("invalid attribute")
	// ErrUnknownDerive is reported for a name in a derive directive that does
	// not name a generator.
	ErrUnknownDerive = errors.New("unknown derive")
	// ErrUnsupported is reported for types that cannot be derived for, such as
	// generic or non-struct types.
	ErrUnsupported = errors.New("unsupported type")
	// ErrConflict is reported when a generated name collides with a field.
	ErrConflict = errors.New("name conflict")
)

// Struct is a struct type marked for derivation.
type Struct struct {
	Name    string
	Fields  []Field
	Derives []string
}

// Field is one named field of a [Struct].
type Field struct {
	Name string
	// The field's type, as Go source.
	Type string
	Tag  reflect.StructTag

	expr    ast.Expr
	span    source.Span
	tagSpan source.Span
}

// Pointer returns the element type of this field, and whether it is a
// pointer type.
func (f Field) Pointer() (string, bool) {
	if star, ok := f.expr.(*ast.StarExpr); ok {
		return types.ExprString(star.X), true
	}
	return "", false
}

// Slice returns the element type of this field, and whether it is a slice
// type.
func (f Field) Slice() (string, bool) {
	if array, ok := f.expr.(*ast.ArrayType); ok && array.Len == nil {
		return types.ExprString(array.Elt), true
	}
	return "", false
}

// generator is a derivable method set.
type generator interface {
	// check validates s, reporting every problem to c. It returns an error
	// only if the reporter aborts.
	check(s *Struct, c *checker) error
	// render writes the generated declarations for s, and adds the imports
	// they need to imports.
	render(buf *bytes.Buffer, s *Struct, imports map[string]bool) error
}

var generators = map[string]generator{
	"Builder": builder{},
	"Debug":   debug{},
}

// Names returns the names of the available generators.
func Names() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Input is a parsed Go source file.
type Input struct {
	Package string
	// The structs marked for derivation, in source order.
	Structs []*Struct
	// The file's imports, keyed by the name they are referred to by, with
	// quoted paths.
	Imports map[string]string
}

// Generate returns the code derived for the marked structs of file, which
// must be a Go source file. It returns nil if there are none.
//
// Problems with the input are passed to handler. A struct with problems is
// skipped; if the reporter does not abort, the remaining structs are still
// checked, and Generate returns the handler's error at the end.
func Generate(file *source.File, handler *reporter.Handler) ([]byte, error) {
	c := &checker{h: handler}
	in, err := parseInput(file, c)
	if err != nil || in == nil {
		return nil, c.result(err)
	}

	var body bytes.Buffer
	needed := map[string]bool{}
	for _, s := range in.Structs {
		sc := &checker{h: handler}
		for _, name := range s.Derives {
			if err := generators[name].check(s, sc); err != nil {
				return nil, err
			}
		}
		if sc.failed {
			c.failed = true
			continue
		}
		for _, name := range s.Derives {
			if err := generators[name].render(&body, s, needed); err != nil {
				return nil, err
			}
		}
	}
	if c.failed {
		return nil, handler.Error()
	}
	if body.Len() == 0 {
		return nil, nil
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "// Code generated by seqgen derive from %s. DO NOT EDIT.\n\n", path.Base(file.Path()))
	fmt.Fprintf(&out, "package %s\n\n", in.Package)
	if len(needed) > 0 {
		out.WriteString("import (\n")
		for _, imp := range sortedImports(needed, in.Imports) {
			fmt.Fprintf(&out, "\t%s\n", imp)
		}
		out.WriteString(")\n\n")
	}
	out.Write(body.Bytes())

	formatted, err := format.Source(out.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting code derived from %s: %w", file.Path(), err)
	}
	return formatted, nil
}

// Parse parses file as Go and finds the structs marked for derivation in it.
func Parse(file *source.File, handler *reporter.Handler) (*Input, error) {
	c := &checker{h: handler}
	in, err := parseInput(file, c)
	if err != nil || c.failed {
		return nil, c.result(err)
	}
	return in, nil
}

// parseInput is like [Parse], but only returns an error if the reporter
// aborts. It returns nil if file is not valid Go.
func parseInput(file *source.File, c *checker) (*Input, error) {
	fset := gotoken.NewFileSet()
	syntax, err := parser.ParseFile(fset, file.Path(), file.Text(), parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		var list scanner.ErrorList
		if !errors.As(err, &list) {
			return nil, err
		}
		for _, e := range list {
			span := file.Span(e.Pos.Offset, e.Pos.Offset)
			if err := c.errorf(span, "%w: %s", ErrSyntax, e.Msg); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	p := &parse{checker: c, file: file, fset: fset}

	in := &Input{Package: syntax.Name.Name, Imports: map[string]string{}}
	for _, spec := range syntax.Imports {
		importPath, _ := strconv.Unquote(spec.Path.Value)
		name := path.Base(importPath)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		in.Imports[name] = spec.Path.Value
	}

	for _, decl := range syntax.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != gotoken.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec) //nolint:errcheck // guaranteed by gd.Tok
			doc := ts.Doc
			if doc == nil && len(gd.Specs) == 1 {
				doc = gd.Doc
			}
			s, err := p.typeSpec(ts, doc)
			if err != nil {
				return nil, err
			}
			if s != nil {
				in.Structs = append(in.Structs, s)
			}
		}
	}
	return in, nil
}

// checker reports problems with the input, remembering whether there were
// any.
type checker struct {
	h      *reporter.Handler
	failed bool
}

// errorf reports a problem. It returns an error only if the reporter aborts.
func (c *checker) errorf(span source.Span, format string, args ...any) error {
	c.failed = true
	return c.h.HandleErrorf(span, format, args...)
}

// result returns err if the reporter aborted, and otherwise the handler's
// error if any problems were reported.
func (c *checker) result(err error) error {
	if err != nil {
		return err
	}
	if c.failed {
		return c.h.Error()
	}
	return nil
}

type parse struct {
	*checker
	file *source.File
	fset *gotoken.FileSet
}

func (p *parse) span(node ast.Node) source.Span {
	return p.file.Span(p.fset.Position(node.Pos()).Offset, p.fset.Position(node.End()).Offset)
}

// typeSpec returns the struct described by ts, or nil if ts is not marked or
// has problems.
func (p *parse) typeSpec(ts *ast.TypeSpec, doc *ast.CommentGroup) (*Struct, error) {
	if doc == nil {
		return nil, nil
	}

	var derives []string
	for _, c := range doc.List {
		rest, ok := strings.CutPrefix(c.Text, Directive)
		if !ok || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
			continue
		}
		for _, name := range strings.Fields(rest) {
			if _, ok := generators[name]; !ok {
				return nil, p.errorf(p.span(c), "%w `%s`: expected one of %s",
					ErrUnknownDerive, name, strings.Join(Names(), ", "))
			}
			if !slices.Contains(derives, name) {
				derives = append(derives, name)
			}
		}
	}
	if derives == nil {
		return nil, nil
	}

	st, ok := ts.Type.(*ast.StructType)
	switch {
	case !ok:
		return nil, p.errorf(p.span(ts.Name), "%w: `%s` is not a struct type", ErrUnsupported, ts.Name.Name)
	case ts.TypeParams != nil:
		return nil, p.errorf(p.span(ts.TypeParams), "%w: `%s` is generic", ErrUnsupported, ts.Name.Name)
	}

	s := &Struct{Name: ts.Name.Name, Derives: derives}
	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			return nil, p.errorf(p.span(field), "%w: embedded field `%s` in `%s`",
				ErrUnsupported, types.ExprString(field.Type), s.Name)
		}

		var tag reflect.StructTag
		var tagSpan source.Span
		if field.Tag != nil {
			text, _ := strconv.Unquote(field.Tag.Value)
			tag = reflect.StructTag(text)
			tagSpan = p.span(field.Tag)
		}
		for _, name := range field.Names {
			if name.Name == "_" {
				continue
			}
			s.Fields = append(s.Fields, Field{
				Name:    name.Name,
				Type:    types.ExprString(field.Type),
				Tag:     tag,
				expr:    field.Type,
				span:    p.span(name),
				tagSpan: tagSpan,
			})
		}
	}
	return s, nil
}

// sortedImports returns import lines for the packages named in needed. Names
// not imported by the input file are standard library paths.
func sortedImports(needed map[string]bool, imports map[string]string) []string {
	var lines []string
	for name := range needed {
		quoted, ok := imports[name]
		switch {
		case !ok:
			lines = append(lines, strconv.Quote(name))
		case path.Base(unquote(quoted)) == name:
			lines = append(lines, quoted)
		default:
			lines = append(lines, name+" "+quoted)
		}
	}
	slices.SortFunc(lines, func(a, b string) int {
		return strings.Compare(importPath(a), importPath(b))
	})
	return lines
}

func importPath(line string) string {
	_, quoted, _ := strings.Cut(line, `"`)
	return quoted
}

func unquote(s string) string {
	u, _ := strconv.Unquote(s)
	return u
}

// packagesOf adds the names of the packages referred to by expr to names.
func packagesOf(expr ast.Expr, names map[string]bool) {
	ast.Inspect(expr, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if id, ok := sel.X.(*ast.Ident); ok {
				names[id.Name] = true
			}
			return false
		}
		return true
	})
}
