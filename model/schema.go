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
package model

import (
	"fmt"
	"sort"
	"strings"

	"github.com/boynton/data"
)

const UnitId AbsoluteIdentifier = "smithy.api#Unit"

// Schema - the shape graph for one service. It is built once by an importer and is read-only
// while code is generated from it.
type Schema struct {
	ServiceDef
	Namespace Namespace `json:"-"`
	Shapes    []*Shape  `json:"shapes,omitempty"`
	shapeIndex map[AbsoluteIdentifier]*Shape
	opIndex    map[AbsoluteIdentifier]*OperationDef
}

var prelude = map[AbsoluteIdentifier]Kind{
	"smithy.api#Blob":             Blob,
	"smithy.api#Boolean":          Boolean,
	"smithy.api#PrimitiveBoolean": Boolean,
	"smithy.api#String":           String,
	"smithy.api#Timestamp":        Timestamp,
	"smithy.api#Byte":             Byte,
	"smithy.api#PrimitiveByte":    Byte,
	"smithy.api#Short":            Short,
	"smithy.api#PrimitiveShort":   Short,
	"smithy.api#Integer":          Integer,
	"smithy.api#PrimitiveInteger": Integer,
	"smithy.api#Long":             Long,
	"smithy.api#PrimitiveLong":    Long,
	"smithy.api#Float":            Float,
	"smithy.api#PrimitiveFloat":   Float,
	"smithy.api#Double":           Double,
	"smithy.api#PrimitiveDouble":  Double,
	"smithy.api#BigInteger":       BigInteger,
	"smithy.api#BigDecimal":       BigDecimal,
	"smithy.api#Document":         Document,
	UnitId:                        Structure,
}

var preludeShapes = func() map[AbsoluteIdentifier]*Shape {
	m := make(map[AbsoluteIdentifier]*Shape, len(prelude))
	for id, k := range prelude {
		m[id] = &Shape{Id: id, Kind: k}
	}
	return m
}()

func NewSchema() *Schema {
	return &Schema{
		shapeIndex: make(map[AbsoluteIdentifier]*Shape, 0),
		opIndex:    make(map[AbsoluteIdentifier]*OperationDef, 0),
	}
}

func (schema *Schema) String() string {
	return data.Pretty(schema)
}

func (schema *Schema) ServiceName() Identifier {
	if schema.Id == "" {
		return ""
	}
	return Identifier(StripNamespace(schema.Id))
}

func (schema *Schema) ServiceNamespace() Namespace {
	//use schema.Namespace for generic use (i.e. no service)
	if schema.Id == "" {
		return schema.Namespace
	}
	lst := strings.Split(string(schema.Id), "#")
	return Namespace(lst[0])
}

func (schema *Schema) index() {
	if schema.shapeIndex == nil {
		schema.shapeIndex = make(map[AbsoluteIdentifier]*Shape, len(schema.Shapes))
		for _, s := range schema.Shapes {
			schema.shapeIndex[s.Id] = s
		}
	}
}

// GetShape returns the shape with the given id, falling back to the prelude. Nil if undefined.
func (schema *Schema) GetShape(id AbsoluteIdentifier) *Shape {
	schema.index()
	if s, ok := schema.shapeIndex[id]; ok {
		return s
	}
	return preludeShapes[id]
}

func (schema *Schema) AddShape(shape *Shape) error {
	schema.index()
	if _, ok := schema.shapeIndex[shape.Id]; ok {
		return fmt.Errorf("Duplicate shape definition: %s", shape.Id)
	}
	for _, m := range shape.Members {
		m.Container = shape.Id
	}
	for _, m := range []*Member{shape.Member, shape.Key, shape.Value} {
		if m != nil {
			m.Container = shape.Id
		}
	}
	schema.Shapes = append(schema.Shapes, shape)
	schema.shapeIndex[shape.Id] = shape
	return nil
}

func (schema *Schema) GetOperationDef(id AbsoluteIdentifier) *OperationDef {
	if schema.opIndex == nil {
		schema.opIndex = make(map[AbsoluteIdentifier]*OperationDef, 0)
		for _, op := range schema.Operations {
			schema.opIndex[op.Id] = op
		}
	}
	return schema.opIndex[id]
}

func (schema *Schema) AddOperationDef(op *OperationDef) error {
	if schema.GetOperationDef(op.Id) != nil {
		return fmt.Errorf("Duplicate operation definition: %s", op.Id)
	}
	schema.Operations = append(schema.Operations, op)
	schema.opIndex[op.Id] = op
	return nil
}

// Target resolves the shape a member points at.
func (schema *Schema) Target(m *Member) *Shape {
	if m == nil {
		return nil
	}
	return schema.GetShape(m.Target)
}

// TargetKind is the kind of the member's target, or 0 if it is undefined.
func (schema *Schema) TargetKind(m *Member) Kind {
	if t := schema.Target(m); t != nil {
		return t.Kind
	}
	return 0
}

// MemberTrait looks up a trait on the member, then on its target shape.
func (schema *Schema) MemberTrait(m *Member, id string) (any, bool) {
	if m.Traits.Has(id) {
		return m.Traits.Get(id), true
	}
	if t := schema.Target(m); t != nil && t.Traits.Has(id) {
		return t.Traits.Get(id), true
	}
	return nil, false
}

func (schema *Schema) MemberTraitString(m *Member, id string) string {
	v, _ := schema.MemberTrait(m, id)
	s, _ := v.(string)
	return s
}

func (schema *Schema) IsSensitive(m *Member) bool {
	_, ok := schema.MemberTrait(m, TraitSensitive)
	return ok
}

func (schema *Schema) MediaType(m *Member) string {
	return schema.MemberTraitString(m, TraitMediaType)
}

func (schema *Schema) ShapeNames() []string {
	var names []string
	for _, s := range schema.Shapes {
		names = append(names, string(s.Id))
	}
	sort.Strings(names)
	return names
}

// Merge takes over another schema when this one is empty. Two services cannot be combined.
func (schema *Schema) Merge(another *Schema) error {
	if schema.Id == "" && len(schema.Shapes) == 0 {
		*schema = *another
		return nil
	}
	if another.Id != "" && schema.Id != "" {
		return fmt.Errorf("Cannot merge two services: %s and %s", schema.Id, another.Id)
	}
	if schema.Id == "" {
		schema.ServiceDef = another.ServiceDef
		schema.opIndex = nil
	}
	for _, s := range another.Shapes {
		if err := schema.AddShape(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *Shape) Name() string {
	return StripNamespace(s.Id)
}

func (s *Shape) GetMember(name string) *Member {
	for _, m := range s.Members {
		if string(m.Name) == name {
			return m
		}
	}
	return nil
}

func (s *Shape) IsError() bool {
	return s.Traits.Has(TraitError)
}

// ErrorFault is "client" or "server" for error shapes, "" otherwise.
func (s *Shape) ErrorFault() string {
	return s.Traits.GetString(TraitError)
}

func (s *Shape) IsStreaming() bool {
	return s.Traits.Has(TraitStreaming)
}

// EnumValue is the wire value of an enum member, which defaults to its name.
func (m *Member) EnumValue() string {
	if v := m.Traits.GetString(TraitEnumValue); v != "" {
		return v
	}
	return string(m.Name)
}

// IntEnumValue is the wire value of an intEnum member.
func (m *Member) IntEnumValue() int {
	return m.Traits.GetInt(TraitEnumValue, 0)
}

func (m *Member) IsRequired() bool {
	return m.Traits.Has(TraitRequired)
}

// JsonName is the document key for the member.
func (m *Member) JsonName() string {
	if n := m.Traits.GetString(TraitJsonName); n != "" {
		return n
	}
	return string(m.Name)
}

func (m *Member) IsEventHeader() bool {
	return m.Traits.Has(TraitEventHeader)
}

func (m *Member) IsEventPayload() bool {
	return m.Traits.Has(TraitEventPayload)
}

func (m *Member) IsIdempotencyToken() bool {
	return m.Traits.Has(TraitIdempotencyToken)
}

// Id is the member id, i.e. "ns#Shape$member".
func (m *Member) Id() string {
	return string(m.Container) + "$" + string(m.Name)
}

func (op *OperationDef) String() string {
	return data.Pretty(op)
}

func (op *OperationDef) Name() string {
	return StripNamespace(op.Id)
}

func (s *Shape) String() string {
	return data.Pretty(s)
}

func StripNamespace(target AbsoluteIdentifier) string {
	t := string(target)
	n := strings.Index(t, "#")
	if n < 0 {
		return t
	}
	return t[n+1:]
}
