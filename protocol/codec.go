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
	"errors"
	"fmt"
	"strconv"

	"github.com/boynton/protogen/golang"
	"github.com/boynton/protogen/model"
)

func (ctx *Context) target(m *model.Member) (*model.Shape, error) {
	t := ctx.Schema.Target(m)
	if t == nil {
		return nil, fmt.Errorf("%s: target shape not found: %s", m.Id(), m.Target)
	}
	if t.Kind.IsEntity() {
		return nil, ctx.fail(IllegalDocumentMember, m, "a %s cannot be a value", t.Kind)
	}
	return t, nil
}

func (ctx *Context) scalar(m *model.Member, target *model.Shape, loc model.BindingLocation) (*Scalar, error) {
	s := &Scalar{Member: m, Shape: target, Location: loc, MediaType: ctx.Schema.MediaType(m)}
	if target.Kind == model.Timestamp {
		f, err := ctx.Schema.ResolveTimestampFormat(m, loc, ctx.Protocol.DocumentTimestamp)
		if err != nil {
			if errors.Is(err, model.ErrUnknownTimestampFormat) {
				return nil, ctx.fail(UnknownTimestampFormat, m, "%v", err)
			}
			return nil, err
		}
		s.Timestamp = f
	}
	return s, nil
}

// Encode returns the expression for the wire form of src, a Go value of the member's target type.
// Aggregates are encoded by a call to their serializer, which is requested as a side effect.
func (ctx *Context) Encode(m *model.Member, src string, loc model.BindingLocation) (Expr, error) {
	target, err := ctx.target(m)
	if err != nil {
		return Expr{}, err
	}
	if target.Kind.IsAggregate() {
		if loc != model.DocumentLocation && loc != model.Payload {
			return Expr{}, ctx.fail(UnsupportedBinding, m, "a %s cannot be bound to the %s", target.Kind, loc)
		}
		return Expr{Code: ctx.EmitSerializer(target) + "(" + src + ")"}, nil
	}
	s, err := ctx.scalar(m, target, loc)
	if err != nil {
		return Expr{}, err
	}
	return ctx.Scalars.Encode(ctx, s, src)
}

// Decode returns the expression for the Go value of src, the wire form of the member's target.
func (ctx *Context) Decode(m *model.Member, src string, loc model.BindingLocation) (Expr, error) {
	target, err := ctx.target(m)
	if err != nil {
		return Expr{}, err
	}
	if target.Kind.IsAggregate() {
		if loc != model.DocumentLocation && loc != model.Payload {
			return Expr{}, ctx.fail(UnsupportedBinding, m, "a %s cannot be bound to the %s", target.Kind, loc)
		}
		return Expr{Code: ctx.EmitDeserializer(target) + "(" + src + ")", Fallible: true}, nil
	}
	s, err := ctx.scalar(m, target, loc)
	if err != nil {
		return Expr{}, err
	}
	return ctx.Scalars.Decode(ctx, s, src)
}

// fieldValue is the expression of a present structure field's value.
func (ctx *Context) fieldValue(m *model.Member, field string) string {
	if golang.Nillable(ctx.Schema.TargetKind(m)) {
		return field
	}
	return "*" + field
}

// fieldAssign is the statement storing a decoded value x into a structure field.
func (ctx *Context) fieldAssign(m *model.Member, field, x string) string {
	if golang.Nillable(ctx.Schema.TargetKind(m)) {
		return field + " = " + x
	}
	return field + " = &" + x
}

// decodeInto writes the statements that evaluate a decode expression into x, and then the given
// statement using x. fail renders the return statement for an error value.
func (ctx *Context) decodeInto(src *source, depth int, e Expr, path string, fail func(string) string, use string) {
	if e.Fallible {
		ctx.use("fmt")
		src.line(depth, "x, err := "+e.Code)
		src.line(depth, "if err != nil {")
		src.line(depth+1, fail("fmt.Errorf("+strconv.Quote(path+": %w")+", err)"))
		src.line(depth, "}")
	} else {
		src.line(depth, "x := "+e.Code)
	}
	src.line(depth, use)
}

func documentFail(zero string) func(string) string {
	return func(err string) string {
		if zero == "" {
			return "return " + err
		}
		return "return " + zero + ", " + err
	}
}

// documentKey is the key of a member in a document object.
func (ctx *Context) documentKey(m *model.Member) string {
	if ctx.Protocol.UseJsonName {
		return m.JsonName()
	}
	return string(m.Name)
}

// isEventStream is true for members targeting a streaming union. Their values travel as event
// stream messages, never in a document.
func (ctx *Context) isEventStream(m *model.Member) bool {
	t := ctx.Schema.Target(m)
	return t != nil && t.Kind == model.Union && t.IsStreaming()
}

// encodeMembers writes the statements adding the present members of the structure value v to the
// document object obj.
func (ctx *Context) encodeMembers(src *source, depth int, members []*model.Member, v, obj string) error {
	for _, m := range members {
		field := v + "." + ctx.Symbols.Member(m)
		e, err := ctx.Encode(m, ctx.fieldValue(m, field), model.DocumentLocation)
		if err != nil {
			return err
		}
		src.line(depth, "if "+field+" != nil {")
		src.printf(depth+1, "%s[%q] = %s", obj, ctx.documentKey(m), e.Code)
		src.line(depth, "}")
	}
	return nil
}

// decodeMembers writes the statements setting the fields of out from the document object obj.
func (ctx *Context) decodeMembers(src *source, depth int, shape *model.Shape, members []*model.Member, obj, out string, fail func(string) string) error {
	for _, m := range members {
		e, err := ctx.Decode(m, "e", model.DocumentLocation)
		if err != nil {
			return err
		}
		src.printf(depth, "if e := %s[%q]; e != nil {", obj, ctx.documentKey(m))
		ctx.decodeInto(src, depth+1, e, shape.Name()+"."+string(m.Name), fail, ctx.fieldAssign(m, out+"."+ctx.Symbols.Member(m), "x"))
		src.line(depth, "}")
	}
	return nil
}

// documentMembers filters the members that belong in a document.
func (ctx *Context) documentMembers(shape *model.Shape, keep func(*model.Member) bool) []*model.Member {
	var result []*model.Member
	if shape == nil {
		return nil
	}
	for _, m := range shape.Members {
		if ctx.isEventStream(m) {
			continue
		}
		if keep == nil || keep(m) {
			result = append(result, m)
		}
	}
	return result
}
