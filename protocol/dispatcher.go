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
package protocol

import (
	"go.uber.org/zap"

	"github.com/boynton/protogen/common"
	"github.com/boynton/protogen/golang"
	"github.com/boynton/protogen/model"
)

func (ctx *Context) declare(name string, src *source) {
	if ctx.Sink.Declare(name, src.String()) {
		common.Logger().Debug("emitted function", zap.String("function", name), zap.Stringer("pass", ctx.Direction))
	}
}

func (ctx *Context) generateSerializer(shape *model.Shape) error {
	name := ctx.FunctionName(shape, Serialize)
	goType := ctx.Types.GoType(shape.Id)
	golang.RequireImports(ctx.Sink, goType)
	src := &source{}
	src.printf(0, "func %s(v %s) any {", name, goType)
	var err error
	switch shape.Kind {
	case model.List, model.Set:
		err = ctx.serializeList(src, shape)
	case model.Map:
		err = ctx.serializeMap(src, shape)
	case model.Structure:
		err = ctx.serializeStructure(src, shape)
	case model.Union:
		err = ctx.serializeUnion(src, shape)
	default:
		return ctx.failShape(IllegalDocumentMember, shape, "a %s has no serializer", shape.Kind)
	}
	if err != nil {
		return err
	}
	src.line(0, "}")
	ctx.declare(name, src)
	return nil
}

func (ctx *Context) generateDeserializer(shape *model.Shape) error {
	name := ctx.FunctionName(shape, Deserialize)
	goType := ctx.Types.GoType(shape.Id)
	golang.RequireImports(ctx.Sink, goType)
	src := &source{}
	src.printf(0, "func %s(v any) (%s, error) {", name, goType)
	var err error
	switch shape.Kind {
	case model.List, model.Set:
		err = ctx.deserializeList(src, shape, goType)
	case model.Map:
		err = ctx.deserializeMap(src, shape, goType)
	case model.Structure:
		err = ctx.deserializeStructure(src, shape)
	case model.Union:
		err = ctx.deserializeUnion(src, shape)
	default:
		return ctx.failShape(IllegalDocumentMember, shape, "a %s has no deserializer", shape.Kind)
	}
	if err != nil {
		return err
	}
	src.line(0, "}")
	ctx.declare(name, src)
	return nil
}

func (ctx *Context) serializeList(src *source, shape *model.Shape) error {
	e, err := ctx.Encode(shape.Member, "e", model.DocumentLocation)
	if err != nil {
		return err
	}
	src.line(1, "if v == nil {")
	src.line(2, "return nil")
	src.line(1, "}")
	src.line(1, "out := make([]any, 0, len(v))")
	src.line(1, "for _, e := range v {")
	src.line(2, "out = append(out, "+e.Code+")")
	src.line(1, "}")
	src.line(1, "return out")
	return nil
}

func (ctx *Context) deserializeList(src *source, shape *model.Shape, goType string) error {
	e, err := ctx.Decode(shape.Member, "e", model.DocumentLocation)
	if err != nil {
		return err
	}
	w := ctx.wire()
	src.line(1, "arr, err := "+w+".AsArray(v)")
	src.line(1, "if err != nil || arr == nil {")
	src.line(2, "return nil, err")
	src.line(1, "}")
	src.printf(1, "out := make(%s, 0, len(arr))", goType)
	src.line(1, "for _, e := range arr {")
	src.line(2, "if e == nil {")
	src.line(3, "continue")
	src.line(2, "}")
	ctx.decodeInto(src, 2, e, shape.Name()+" element", documentFail("nil"), "out = append(out, x)")
	src.line(1, "}")
	src.line(1, "return out, nil")
	return nil
}

func (ctx *Context) serializeMap(src *source, shape *model.Shape) error {
	e, err := ctx.Encode(shape.Value, "v[k]", model.DocumentLocation)
	if err != nil {
		return err
	}
	ctx.use("maps", "slices")
	src.line(1, "if v == nil {")
	src.line(2, "return nil")
	src.line(1, "}")
	src.line(1, "out := make(map[string]any, len(v))")
	src.line(1, "for _, k := range slices.Sorted(maps.Keys(v)) {")
	src.line(2, "out[k] = "+e.Code)
	src.line(1, "}")
	src.line(1, "return out")
	return nil
}

func (ctx *Context) deserializeMap(src *source, shape *model.Shape, goType string) error {
	e, err := ctx.Decode(shape.Value, "e", model.DocumentLocation)
	if err != nil {
		return err
	}
	w := ctx.wire()
	src.line(1, "obj, err := "+w+".AsObject(v)")
	src.line(1, "if err != nil || obj == nil {")
	src.line(2, "return nil, err")
	src.line(1, "}")
	src.printf(1, "out := make(%s, len(obj))", goType)
	src.line(1, "for k, e := range obj {")
	src.line(2, "if e == nil {")
	src.line(3, "continue")
	src.line(2, "}")
	ctx.decodeInto(src, 2, e, shape.Name()+" value", documentFail("nil"), "out[k] = x")
	src.line(1, "}")
	src.line(1, "return out, nil")
	return nil
}

func (ctx *Context) serializeStructure(src *source, shape *model.Shape) error {
	src.line(1, "if v == nil {")
	src.line(2, "return nil")
	src.line(1, "}")
	src.line(1, "obj := map[string]any{}")
	if err := ctx.encodeMembers(src, 1, ctx.documentMembers(shape, nil), "v", "obj"); err != nil {
		return err
	}
	src.line(1, "return obj")
	return nil
}

func (ctx *Context) deserializeStructure(src *source, shape *model.Shape) error {
	w := ctx.wire()
	src.line(1, "obj, err := "+w+".AsObject(v)")
	src.line(1, "if err != nil || obj == nil {")
	src.line(2, "return nil, err")
	src.line(1, "}")
	src.printf(1, "out := &%s{}", ctx.Symbols.Name(shape.Id))
	if err := ctx.decodeMembers(src, 1, shape, ctx.documentMembers(shape, nil), "obj", "out", documentFail("nil")); err != nil {
		return err
	}
	src.line(1, "return out, nil")
	return nil
}

func (ctx *Context) serializeUnion(src *source, shape *model.Shape) error {
	src.line(1, "switch uv := v.(type) {")
	for _, m := range shape.Members {
		src.printf(1, "case *%s:", ctx.Types.VariantType(shape.Id, m))
		key := ctx.documentKey(m)
		if m.Target == model.UnitId {
			src.printf(2, "return map[string]any{%q: map[string]any{}}", key)
			continue
		}
		e, err := ctx.Encode(m, "uv.Value", model.DocumentLocation)
		if err != nil {
			return err
		}
		src.printf(2, "return map[string]any{%q: %s}", key, e.Code)
	}
	src.printf(1, "case *%s:", ctx.Types.UnknownMemberType())
	src.line(2, "return map[string]any{uv.Tag: "+ctx.wire()+".CloneDocument(uv.Value)}")
	src.line(1, "}")
	src.line(1, "return nil")
	return nil
}

func (ctx *Context) deserializeUnion(src *source, shape *model.Shape) error {
	w := ctx.wire()
	src.line(1, "obj, err := "+w+".AsObject(v)")
	src.line(1, "if err != nil || obj == nil {")
	src.line(2, "return nil, err")
	src.line(1, "}")
	src.line(1, "tag, e, err := "+w+".UnionTag(obj)")
	src.line(1, "if err != nil {")
	src.line(2, "return nil, err")
	src.line(1, "}")
	src.line(1, "switch tag {")
	src.line(1, `case "":`)
	src.line(2, "return nil, nil")
	for _, m := range shape.Members {
		vt := ctx.Types.VariantType(shape.Id, m)
		src.printf(1, "case %q:", ctx.documentKey(m))
		if m.Target == model.UnitId {
			src.printf(2, "return &%s{}, nil", vt)
			continue
		}
		e, err := ctx.Decode(m, "e", model.DocumentLocation)
		if err != nil {
			return err
		}
		ctx.decodeInto(src, 2, e, shape.Name()+"."+string(m.Name), documentFail("nil"), "return &"+vt+"{Value: x}, nil")
	}
	src.line(1, "default:")
	src.printf(2, "return &%s{Tag: tag, Value: %s.CloneDocument(e)}, nil", ctx.Types.UnknownMemberType(), w)
	src.line(1, "}")
	return nil
}
