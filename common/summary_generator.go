/*
Copyright 2023 Lee R. Boynton

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
	"strings"

	"github.com/boynton/data"

	"github.com/boynton/protogen/model"
)

// SummaryGenerator prints the wire shape of every operation: its method and URI, and where each
// input and output member travels.
type SummaryGenerator struct {
	BaseGenerator
	indent string
	ns     string
	name   string
}

func (gen *SummaryGenerator) Generate(schema *model.Schema, config *data.Object) error {
	err := gen.Configure(schema, config)
	if err != nil {
		return err
	}
	gen.indent = "    "
	gen.ns = string(schema.ServiceNamespace())
	gen.name = string(schema.ServiceName())
	gen.Begin()
	gen.GenerateSummary()
	gen.GenerateOperations()
	s := gen.End()
	fname := gen.FileName(gen.name, ".txt")
	if gen.name == "" {
		fname = "summary.txt"
	}
	return gen.Write(s, fname, "")
}

func (gen *SummaryGenerator) GenerateSummary() {
	if gen.Schema.Comment != "" {
		gen.Emit("//\n")
		gen.Emit(FormatComment("", "// ", gen.Schema.Comment, 80, true))
		gen.Emit("//\n")
	}
	if gen.ns != "" {
		gen.Emitf("namespace %s\n", gen.ns)
	}
	if gen.name != "" {
		title := gen.name
		if gen.Schema.Version != "" {
			title = title + " v" + gen.Schema.Version
		}
		if gen.Schema.Protocol != "" {
			title = title + " (" + model.StripNamespace(model.AbsoluteIdentifier(gen.Schema.Protocol)) + ")"
		}
		gen.Emitf("service %s\n", title)
	}
	gen.Emit("\n")
}

func (gen *SummaryGenerator) GenerateOperations() {
	for _, op := range gen.Operations() {
		gen.Emitf("operation %s", op.Name())
		if op.Http != nil {
			gen.Emitf(" %s %s", op.Http.Method, op.Http.Uri)
		}
		gen.Emit("\n")
		gen.summarizeMembers("input", op.Input)
		gen.summarizeMembers("output", op.Output)
		if len(op.Errors) > 0 {
			var names []string
			for _, e := range op.Errors {
				names = append(names, model.StripNamespace(e))
			}
			gen.Emitf("%serrors %s\n", gen.indent, strings.Join(names, ", "))
		}
		gen.Emit("\n")
	}
}

func (gen *SummaryGenerator) summarizeMembers(label string, id model.AbsoluteIdentifier) {
	if id == "" || id == model.UnitId {
		return
	}
	gen.Emitf("%s%s %s\n", gen.indent, label, model.StripNamespace(id))
	shape := gen.Schema.GetShape(id)
	if shape == nil {
		return
	}
	for _, m := range shape.Members {
		gen.Emitf("%s%s%s: %s\n", gen.indent, gen.indent, m.Name, gen.binding(m))
	}
}

// binding describes where a member travels, i.e. "header X-Token [sensitive]".
func (gen *SummaryGenerator) binding(m *model.Member) string {
	loc, err := m.Location()
	if err != nil {
		return "conflicting bindings"
	}
	s := loc.String()
	switch loc {
	case model.Header, model.Query, model.PrefixHeaders:
		s += " " + m.LocationName()
	}
	if t := gen.Schema.Target(m); t != nil {
		s += " " + t.Kind.String()
		if t.Kind == model.Union && t.IsStreaming() {
			s += " (event stream)"
		}
	}
	if m.IsRequired() {
		s += " [required]"
	}
	if gen.Schema.IsSensitive(m) {
		s += " [sensitive]"
	}
	return s
}
