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
package golang

import (
	"fmt"
	"strings"

	"github.com/boynton/protogen/common"
	"github.com/boynton/protogen/model"
)

const DefaultWirePackage = "github.com/boynton/protogen/wire"

const (
	smithyPackage = "github.com/aws/smithy-go"
	unknownMember = "UnknownUnionMember"
)

// Types maps shapes to Go types. The codec generator uses the same mapping, so the serializers
// always agree with the declarations in types.go.
//
// Every structure field is nillable: simple values are pointers, and everything else (slices,
// maps, structures, unions, big numbers, documents) is nil when absent. Elements of lists and maps
// are held by value.
type Types struct {
	Schema      *model.Schema
	Symbols     common.Symbols
	WirePackage string
}

func NewTypes(schema *model.Schema, symbols common.Symbols, wirePackage string) *Types {
	if symbols == nil {
		symbols = common.GoSymbols{}
	}
	if wirePackage == "" {
		wirePackage = DefaultWirePackage
	}
	return &Types{Schema: schema, Symbols: symbols, WirePackage: wirePackage}
}

// Nillable is true for the kinds whose Go type has a nil value of its own.
func Nillable(k model.Kind) bool {
	switch k {
	case model.Blob, model.BigInteger, model.BigDecimal, model.Document, model.List, model.Set,
		model.Map, model.Structure, model.Union:
		return true
	}
	return false
}

// GoType is the type of a value of the shape, as held in a list, a map or a union variant.
func (t *Types) GoType(id model.AbsoluteIdentifier) string {
	if id == model.UnitId {
		return "struct{}"
	}
	shape := t.Schema.GetShape(id)
	if shape == nil {
		return "any"
	}
	switch shape.Kind {
	case model.Blob:
		return "[]byte"
	case model.Boolean:
		return "bool"
	case model.String:
		return "string"
	case model.Byte:
		return "int8"
	case model.Short:
		return "int16"
	case model.Integer:
		return "int32"
	case model.Long:
		return "int64"
	case model.Float:
		return "float32"
	case model.Double:
		return "float64"
	case model.BigInteger:
		return "*big.Int"
	case model.BigDecimal:
		return "*big.Float"
	case model.Timestamp:
		return "time.Time"
	case model.Document:
		return "any"
	case model.Enum, model.IntEnum, model.Union:
		return t.Symbols.Name(id)
	case model.Structure:
		return "*" + t.Symbols.Name(id)
	case model.List, model.Set:
		return "[]" + t.GoType(shape.Member.Target)
	case model.Map:
		return "map[string]" + t.GoType(shape.Value.Target)
	}
	return "any"
}

// FieldType is the type of a structure field for the member.
func (t *Types) FieldType(m *model.Member) string {
	gt := t.GoType(m.Target)
	if Nillable(t.Schema.TargetKind(m)) {
		return gt
	}
	return "*" + gt
}

// VariantType is the wrapper type of one union variant.
func (t *Types) VariantType(union model.AbsoluteIdentifier, m *model.Member) string {
	return t.Symbols.Name(union) + "Member" + t.Symbols.Member(m)
}

// UnknownMemberType holds a union variant that is not in the model.
func (t *Types) UnknownMemberType() string {
	return unknownMember
}

// RequireImports adds the imports a Go type expression needs.
func RequireImports(sink *common.Sink, goType string) {
	if strings.Contains(goType, "big.") {
		sink.Import("", "math/big")
	}
	if strings.Contains(goType, "time.") {
		sink.Import("", "time")
	}
}

func comment(indent, doc string) string {
	if doc == "" {
		return ""
	}
	return common.FormatComment(indent, "// ", doc, 100, false)
}

// Declare adds the declaration of a shape to the sink. Simple shapes other than enums are inlined
// wherever they are used and declare nothing.
func (t *Types) Declare(sink *common.Sink, shape *model.Shape) error {
	switch shape.Kind {
	case model.Structure:
		if shape.Id == model.UnitId {
			return nil
		}
		t.declareStructure(sink, shape)
	case model.Union:
		t.declareUnion(sink, shape)
	case model.Enum:
		t.declareEnum(sink, shape, "string")
	case model.IntEnum:
		t.declareEnum(sink, shape, "int32")
	case model.List, model.Set:
		if shape.Member == nil {
			return fmt.Errorf("collection has no member: %s", shape.Id)
		}
	case model.Map:
		if shape.Key == nil || shape.Value == nil {
			return fmt.Errorf("map needs both key and value: %s", shape.Id)
		}
	}
	return nil
}

func (t *Types) declareStructure(sink *common.Sink, shape *model.Shape) {
	name := t.Symbols.Name(shape.Id)
	var b strings.Builder
	b.WriteString(comment("", shape.Traits.GetString(model.TraitDocumentation)))
	fmt.Fprintf(&b, "type %s struct {\n", name)
	for _, m := range shape.Members {
		b.WriteString(comment("\t", m.Traits.GetString(model.TraitDocumentation)))
		ft := t.FieldType(m)
		RequireImports(sink, ft)
		fmt.Fprintf(&b, "\t%s %s\n", t.Symbols.Member(m), ft)
	}
	if shape.IsError() {
		sink.Import("wire", t.WirePackage)
		b.WriteString("\n\tMetadata wire.ResponseMetadata\n")
	}
	b.WriteString("}\n")
	if shape.IsError() {
		b.WriteString(t.errorMethods(sink, shape, name))
	}
	sink.Declare(name, b.String())
}

func messageMember(schema *model.Schema, shape *model.Shape) *model.Member {
	for _, m := range shape.Members {
		if strings.EqualFold(string(m.Name), "message") && schema.TargetKind(m) == model.String {
			return m
		}
	}
	return nil
}

func (t *Types) errorMethods(sink *common.Sink, shape *model.Shape, name string) string {
	sink.Import("", "fmt")
	sink.Import("smithy", smithyPackage)
	fault := "smithy.FaultUnknown"
	switch shape.ErrorFault() {
	case "client":
		fault = "smithy.FaultClient"
	case "server":
		fault = "smithy.FaultServer"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\nfunc (e *%s) Error() string {\n", name)
	b.WriteString("\treturn fmt.Sprintf(\"%s: %s\", e.ErrorCode(), e.ErrorMessage())\n}\n")
	fmt.Fprintf(&b, "\nfunc (e *%s) ErrorCode() string { return %q }\n", name, shape.Name())
	fmt.Fprintf(&b, "\nfunc (e *%s) ErrorMessage() string {\n", name)
	if m := messageMember(t.Schema, shape); m != nil {
		field := t.Symbols.Member(m)
		fmt.Fprintf(&b, "\tif e.%s == nil {\n\t\treturn \"\"\n\t}\n\treturn *e.%s\n}\n", field, field)
	} else {
		b.WriteString("\treturn \"\"\n}\n")
	}
	fmt.Fprintf(&b, "\nfunc (e *%s) ErrorFault() smithy.ErrorFault { return %s }\n", name, fault)
	return b.String()
}

func (t *Types) declareUnion(sink *common.Sink, shape *model.Shape) {
	name := t.Symbols.Name(shape.Id)
	marker := "is" + name
	var b strings.Builder
	if doc := shape.Traits.GetString(model.TraitDocumentation); doc != "" {
		b.WriteString(comment("", doc) + "//\n")
	}
	fmt.Fprintf(&b, "// The variants of %s are the %sMember* types, and %s.\n", name, name, unknownMember)
	fmt.Fprintf(&b, "type %s interface {\n\t%s()\n}\n", name, marker)
	for _, m := range shape.Members {
		vt := t.VariantType(shape.Id, m)
		gt := t.GoType(m.Target)
		RequireImports(sink, gt)
		b.WriteString("\n")
		b.WriteString(comment("", m.Traits.GetString(model.TraitDocumentation)))
		fmt.Fprintf(&b, "type %s struct {\n\tValue %s\n}\n\nfunc (*%s) %s() {}\n", vt, gt, vt, marker)
	}
	fmt.Fprintf(&b, "\nfunc (*%s) %s() {}\n", unknownMember, marker)
	sink.Declare(unknownMember, "// "+unknownMember+" is a union variant that is not in the model.\ntype "+
		unknownMember+" struct {\n\tTag   string\n\tValue any\n}\n")
	sink.Declare(name, b.String())
}

func (t *Types) declareEnum(sink *common.Sink, shape *model.Shape, base string) {
	name := t.Symbols.Name(shape.Id)
	var b strings.Builder
	b.WriteString(comment("", shape.Traits.GetString(model.TraitDocumentation)))
	fmt.Fprintf(&b, "type %s %s\n", name, base)
	if len(shape.Members) > 0 {
		b.WriteString("\nconst (\n")
		for _, m := range shape.Members {
			if base == "string" {
				fmt.Fprintf(&b, "\t%s %s = %q\n", t.Symbols.EnumConst(shape.Id, m), name, m.EnumValue())
			} else {
				fmt.Fprintf(&b, "\t%s %s = %d\n", t.Symbols.EnumConst(shape.Id, m), name, m.IntEnumValue())
			}
		}
		b.WriteString(")\n")
	}
	fmt.Fprintf(&b, "\n// Values returns the known values of %s. Other values may still be received.\n", name)
	fmt.Fprintf(&b, "func (%s) Values() []%s {\n\treturn []%s{\n", name, name, name)
	for _, m := range shape.Members {
		fmt.Fprintf(&b, "\t\t%s,\n", t.Symbols.EnumConst(shape.Id, m))
	}
	b.WriteString("\t}\n}\n")
	sink.Declare(name, b.String())
}

// DeclareService adds the interface of the service, one method per operation.
func (t *Types) DeclareService(sink *common.Sink, ops []*model.OperationDef) {
	if t.Schema.Id == "" || len(ops) == 0 {
		return
	}
	name := t.Symbols.Name(t.Schema.Id) + "API"
	sink.Import("", "context")
	var b strings.Builder
	if t.Schema.Comment != "" {
		b.WriteString(comment("", t.Schema.Comment))
	} else {
		fmt.Fprintf(&b, "// %s is implemented by clients and servers of the %s service.\n", name, t.Schema.ServiceName())
	}
	fmt.Fprintf(&b, "type %s interface {\n", name)
	for _, op := range ops {
		in := ""
		if op.Input != "" {
			in = ", input *" + t.Symbols.Name(op.Input)
		}
		out := "error"
		if op.Output != "" {
			out = "(*" + t.Symbols.Name(op.Output) + ", error)"
		}
		fmt.Fprintf(&b, "\t%s(ctx context.Context%s) %s\n", t.Symbols.Operation(op), in, out)
	}
	b.WriteString("}\n")
	sink.Declare(name, b.String())
}
