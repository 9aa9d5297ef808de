/*
Copyright 2021 Lee R. Boynton

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
package smithy

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/boynton/protogen/common"
	"github.com/boynton/protogen/model"
)

var knownProtocols = []string{model.ProtocolRestJson1, model.ProtocolAwsJson1_1, model.ProtocolAwsJson1_0}

func Import(paths []string, tags []string) (*model.Schema, error) {
	ast, err := Assemble(paths)
	if err != nil {
		return nil, err
	}
	return ImportAST(ast, tags)
}

// ImportAST builds the shape graph from an assembled AST. If the AST has a service, only the shapes
// it depends on are kept.
func ImportAST(ast *AST, tags []string) (*model.Schema, error) {
	if err := ast.Validate(); err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		ast.Filter(tags)
	}
	serviceId, err := ast.ServiceDependencies()
	if err != nil {
		return nil, err
	}
	schema := model.NewSchema()
	if nss := ast.Namespaces(); len(nss) > 0 {
		schema.Namespace = model.Namespace(nss[0])
	}
	err = ast.ForAllShapes(func(shapeId string, shape *Shape) error {
		return importShape(schema, shapeId, shape)
	})
	if err != nil {
		return nil, err
	}
	if serviceId != "" {
		if err := addService(schema, ast, serviceId, ast.GetShape(serviceId)); err != nil {
			return nil, err
		}
	}
	return schema, nil
}

func nodeTraits(nv *NodeValue) model.Traits {
	if m, ok := nv.RawValue().(map[string]interface{}); ok {
		return model.Traits(m)
	}
	return nil
}

func toMember(name string, mem *Member) *model.Member {
	if mem == nil {
		return nil
	}
	return &model.Member{
		Name:   model.Identifier(name),
		Target: model.AbsoluteIdentifier(mem.Target),
		Traits: nodeTraits(mem.Traits),
	}
}

func refId(ref *ShapeRef) model.AbsoluteIdentifier {
	if ref == nil || ref.Target == string(model.UnitId) {
		return ""
	}
	return model.AbsoluteIdentifier(ref.Target)
}

func importShape(schema *model.Schema, shapeId string, shape *Shape) error {
	if shape == nil {
		return nil
	}
	kind, ok := model.KindByName(shape.Type)
	if !ok {
		return fmt.Errorf("Unsupported shape type %q: %s", shape.Type, shapeId)
	}
	s := &model.Shape{
		Id:     model.AbsoluteIdentifier(shapeId),
		Kind:   kind,
		Traits: nodeTraits(shape.Traits),
	}
	switch kind {
	case model.Structure, model.Union, model.Enum, model.IntEnum:
		for _, name := range shape.Members.Keys() {
			s.Members = append(s.Members, toMember(name, shape.Members.Get(name)))
		}
	case model.List, model.Set:
		if shape.Member == nil {
			return fmt.Errorf("Collection shape has no member: %s", shapeId)
		}
		s.Member = toMember("member", shape.Member)
	case model.Map:
		if shape.Key == nil || shape.Value == nil {
			return fmt.Errorf("Map shape needs both key and value: %s", shapeId)
		}
		s.Key = toMember("key", shape.Key)
		s.Value = toMember("value", shape.Value)
	case model.Operation:
		s.Input = refId(shape.Input)
		s.Output = refId(shape.Output)
		for _, e := range shape.Errors {
			s.Errors = append(s.Errors, model.AbsoluteIdentifier(e.Target))
		}
	}
	return schema.AddShape(s)
}

func detectProtocol(traits *NodeValue) string {
	for _, p := range knownProtocols {
		if traits.Has(p) {
			return p
		}
	}
	return ""
}

func addService(schema *model.Schema, ast *AST, shapeId string, shape *Shape) error {
	schema.Id = model.AbsoluteIdentifier(shapeId)
	schema.Version = shape.Version
	schema.Comment = shape.GetStringTrait(model.TraitDocumentation)
	schema.Protocol = detectProtocol(shape.Traits)
	schema.Traits = nodeTraits(shape.Traits)
	for _, e := range shape.Errors {
		schema.Errors = append(schema.Errors, model.AbsoluteIdentifier(e.Target))
	}
	for _, ref := range shape.Operations {
		if err := addOperation(schema, ast, ref); err != nil {
			return err
		}
	}
	for _, ref := range shape.Resources {
		if err := addResourceOperations(schema, ast, ref.Target); err != nil {
			return err
		}
	}
	common.Logger().Debug("imported service",
		zap.String("service", shapeId),
		zap.String("protocol", schema.Protocol),
		zap.Int("operations", len(schema.Operations)))
	return nil
}

func addResourceOperations(schema *model.Schema, ast *AST, shapeId string) error {
	shape := ast.GetShape(shapeId)
	if shape == nil {
		return fmt.Errorf("Resource shape not found: %s", shapeId)
	}
	refs := []*ShapeRef{shape.Create, shape.Put, shape.Read, shape.Update, shape.Delete, shape.List}
	refs = append(refs, shape.Operations...)
	refs = append(refs, shape.CollectionOperations...)
	for _, ref := range refs {
		if err := addOperation(schema, ast, ref); err != nil {
			return err
		}
	}
	for _, ref := range shape.Resources {
		if err := addResourceOperations(schema, ast, ref.Target); err != nil {
			return err
		}
	}
	return nil
}

func addOperation(schema *model.Schema, ast *AST, ref *ShapeRef) error {
	if ref == nil {
		return nil
	}
	id := model.AbsoluteIdentifier(ref.Target)
	if schema.GetOperationDef(id) != nil {
		return nil
	}
	shape := schema.GetShape(id)
	if shape == nil || shape.Kind != model.Operation {
		return fmt.Errorf("Operation shape not found: %s", id)
	}
	op := &model.OperationDef{
		Id:     id,
		Input:  shape.Input,
		Output: shape.Output,
		Http:   model.HttpTraitOf(shape.Traits),
		Traits: shape.Traits,
	}
	seen := make(map[model.AbsoluteIdentifier]bool, 0)
	for _, eid := range append(append([]model.AbsoluteIdentifier{}, shape.Errors...), schema.Errors...) {
		if !seen[eid] {
			seen[eid] = true
			op.Errors = append(op.Errors, eid)
		}
	}
	return schema.AddOperationDef(op)
}
