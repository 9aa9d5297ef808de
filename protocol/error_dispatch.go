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
	"fmt"
	"strconv"
	"strings"

	"github.com/boynton/protogen/model"
)

// errorDispatcher emits deserializeOpError<Op>. The body is read once; the discriminator is looked
// up in the protocol's order and matched against both the short and the fully qualified name of
// every error of the operation. Unmatched discriminators yield a *wire.GenericError.
func (ctx *Context) errorDispatcher(op *operation) error {
	ctx.use("context", "net/http")
	w := ctx.wire()
	src := &source{}
	src.printf(0, "func %s(ctx context.Context, resp *http.Response) error {", op.errorFunc())
	src.printf(1, "metadata := %s.NewResponseMetadata(resp, %q)", w, ctx.Protocol.RequestIDHeader)
	src.line(1, "// an unreadable body leaves the header as the only discriminator")
	src.printf(1, "body, _ := %s.ReadResponseDocument(resp)", w)
	fields := make([]string, len(ctx.Protocol.ErrorFields))
	for i, f := range ctx.Protocol.ErrorFields {
		fields[i] = strconv.Quote(f)
	}
	src.printf(1, "code := %s.ResolveErrorCode(resp.Header, body, %q, %s)", w, ctx.Protocol.ErrorHeader, strings.Join(fields, ", "))
	if len(op.def.Errors) > 0 {
		src.line(1, "switch code {")
		for _, id := range op.def.Errors {
			shape := ctx.Schema.GetShape(id)
			if shape == nil {
				return fmt.Errorf("%s: error shape not found: %s", op.def.Id, id)
			}
			if shape.Kind != model.Structure || !shape.IsError() {
				return ctx.failShape(InvalidTraitValue, shape, "%s is in the errors of %s but is not an error structure", id, op.def.Name())
			}
			fn, err := ctx.errorDeserializer(op, shape)
			if err != nil {
				return err
			}
			src.printf(1, "case %q, %q:", shape.Name(), string(shape.Id))
			src.printf(2, "return %s(resp, body, metadata)", fn)
		}
		src.line(1, "}")
	}
	src.printf(1, "return %s.NewGenericError(code, body, metadata)", w)
	src.line(0, "}")
	ctx.declare(op.errorFunc(), src)
	return nil
}

// errorDeserializer emits deserializeError<Name> once per error shape, and returns its name. It
// decodes the bound headers (REST protocols only) and the document members of the error.
func (ctx *Context) errorDeserializer(op *operation, shape *model.Shape) (string, error) {
	name := "deserializeError" + ctx.Symbols.Name(shape.Id)
	if ctx.emitted[name] {
		return name, nil
	}
	ctx.emitted[name] = true
	w := ctx.wire()
	errType := ctx.Symbols.Name(shape.Id)
	fail := func(err string) string {
		return "return " + w + ".ResponseError(resp, " + err + ")"
	}
	src := &source{}
	src.printf(0, "func %s(resp *http.Response, body any, metadata %s.ResponseMetadata) error {", name, w)
	src.printf(1, "out := &%s{Metadata: metadata}", errType)
	members := ctx.documentMembers(shape, nil)
	if ctx.Protocol.Bindings {
		b, err := ctx.ResolveBindings(op.def, shape, false)
		if err != nil {
			return "", err
		}
		if p := b.Payload(); p != nil {
			switch p.Target.Kind {
			case model.Structure, model.Union, model.Document:
			default:
				return "", ctx.fail(UnsupportedBinding, p.Member, "an error payload must be a document, not a %s", p.Target.Kind)
			}
		}
		if err := ctx.decodeBindings(src, b, "out", fail); err != nil {
			return "", err
		}
		if p := b.Payload(); p != nil {
			e, err := ctx.Decode(p.Member, "body", model.Payload)
			if err != nil {
				return "", err
			}
			src.line(1, "if body != nil {")
			ctx.decodeInto(src, 2, e, ctx.memberPath(p.Member), fail, ctx.fieldAssign(p.Member, "out."+ctx.Symbols.Member(p.Member), "x"))
			src.line(1, "}")
			members = nil
		} else {
			members = b.Documented()
		}
	}
	if len(members) > 0 {
		src.printf(1, "obj, err := %s.AsObject(body)", w)
		src.line(1, "if err != nil {")
		src.line(2, fail("err"))
		src.line(1, "}")
		if err := ctx.decodeMembers(src, 1, shape, members, "obj", "out", fail); err != nil {
			return "", err
		}
	}
	src.line(1, "return out")
	src.line(0, "}")
	ctx.declare(name, src)
	return name, nil
}
