/*
Copyright 2022 Lee R. Boynton

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package common

import (
	"path"
	"sort"
	"strings"

	"goa.design/goa/v3/codegen"
)

// Decl - one named top level declaration of generated Go source.
type Decl struct {
	Name   string
	Source string
}

// Sink collects the declarations of one generated Go file in the order they are requested,
// along with the imports they need.
type Sink struct {
	Title   string
	Package string
	imports map[string]string
	decls   []*Decl
	names   map[string]bool
}

func NewSink(title, pkg string) *Sink {
	return &Sink{
		Title:   title,
		Package: pkg,
		imports: make(map[string]string, 0),
		names:   make(map[string]bool, 0),
	}
}

// Import requests an import. The alias may be empty when the package name is the last element
// of the path.
func (s *Sink) Import(alias, importPath string) {
	if _, ok := s.imports[importPath]; !ok || alias != "" {
		s.imports[importPath] = alias
	}
}

// Declare appends a declaration. Declaring the same name twice is ignored, and reported as false.
func (s *Sink) Declare(name, source string) bool {
	if s.names[name] {
		return false
	}
	s.names[name] = true
	s.decls = append(s.decls, &Decl{Name: name, Source: source})
	return true
}

func (s *Sink) Has(name string) bool {
	return s.names[name]
}

func (s *Sink) Decls() []*Decl {
	return s.decls
}

func (s *Sink) Imports() []*codegen.ImportSpec {
	var paths []string
	for p := range s.imports {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	specs := make([]*codegen.ImportSpec, 0, len(paths))
	for _, p := range paths {
		specs = append(specs, &codegen.ImportSpec{Name: s.imports[p], Path: p})
	}
	return specs
}

func importLine(spec *codegen.ImportSpec) string {
	if spec.Name != "" && spec.Name != path.Base(spec.Path) {
		return spec.Name + " \"" + spec.Path + "\""
	}
	return "\"" + spec.Path + "\""
}

func (s *Sink) header() string {
	var b strings.Builder
	b.WriteString("// Code generated by protogen. DO NOT EDIT.\n")
	if s.Title != "" {
		b.WriteString("//\n// " + s.Title + "\n")
	}
	b.WriteString("\npackage " + s.Package + "\n")
	if specs := s.Imports(); len(specs) > 0 {
		b.WriteString("\nimport (\n")
		for _, spec := range specs {
			b.WriteString("\t" + importLine(spec) + "\n")
		}
		b.WriteString(")\n")
	}
	return b.String()
}

// Source renders the file as plain text.
func (s *Sink) Source() string {
	var b strings.Builder
	b.WriteString(s.header())
	for _, d := range s.decls {
		b.WriteString("\n")
		b.WriteString(d.Source)
		if !strings.HasSuffix(d.Source, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}

const sectionTemplate = "{{ .Source }}\n"

// File builds the goa codegen file for the sink, one section per declaration.
func (s *Sink) File(filePath string) *codegen.File {
	sections := []*codegen.SectionTemplate{
		{Name: "source-header", Source: sectionTemplate, Data: &Decl{Name: "header", Source: s.header()}},
	}
	for _, d := range s.decls {
		sections = append(sections, &codegen.SectionTemplate{Name: d.Name, Source: sectionTemplate, Data: d})
	}
	return &codegen.File{Path: filePath, SectionTemplates: sections}
}
