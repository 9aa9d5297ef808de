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
	"strconv"

	"github.com/boynton/protogen/model"
)

const eventstreamPackage = "github.com/aws/aws-sdk-go-v2/aws/protocol/eventstream"

var eventHeaderValues = map[model.Kind]string{
	model.Boolean:   "eventstream.BoolValue",
	model.Byte:      "eventstream.Int8Value",
	model.Short:     "eventstream.Int16Value",
	model.Integer:   "eventstream.Int32Value",
	model.Long:      "eventstream.Int64Value",
	model.Blob:      "eventstream.BytesValue",
	model.String:    "eventstream.StringValue",
	model.Enum:      "eventstream.StringValue",
	model.Timestamp: "eventstream.TimestampValue",
}

// generateEventStream emits the framing of the events of a streaming union: one marshaler per
// variant, the dispatch over variants, and the exported Send<Union>Event.
func (ctx *Context) generateEventStream(union *model.Shape) error {
	ctx.use("context", "fmt", eventstreamPackage)
	ctx.Sink.Import("smithy", smithyPackage)
	w := ctx.wire()
	name := ctx.Symbols.Name(union.Id)
	dispatch := "marshalEventStream" + name
	src := &source{}
	src.printf(0, "func %s(v %s) (eventstream.Message, error) {", dispatch, name)
	binds := false
	for _, m := range union.Members {
		binds = binds || m.Target != model.UnitId
	}
	if binds {
		src.line(1, "switch uv := v.(type) {")
	} else {
		src.line(1, "switch v.(type) {")
	}
	for _, m := range union.Members {
		src.printf(1, "case *%s:", ctx.Types.VariantType(union.Id, m))
		if m.Target == model.UnitId {
			src.printf(2, "return %s.NewEvent(%q, %q), nil", w, string(m.Name), ctx.Protocol.ContentType)
			continue
		}
		fn, err := ctx.eventMarshaler(union, m)
		if err != nil {
			return err
		}
		src.printf(2, "return %s(uv.Value)", fn)
	}
	src.line(1, "}")
	src.printf(1, "return eventstream.Message{}, fmt.Errorf(\"cannot marshal %%T as a %s event\", v)", name)
	src.line(0, "}")
	ctx.declare(dispatch, src)

	send := "Send" + name + "Event"
	src = &source{}
	src.printf(0, "// %s frames one event of a %s stream onto the writer.", send, name)
	src.printf(0, "func %s(ctx context.Context, w *%s.EventStreamWriter, v %s) error {", send, w, name)
	src.printf(1, "msg, err := %s(v)", dispatch)
	src.line(1, "if err != nil {")
	src.line(2, "return &smithy.SerializationError{Err: err}")
	src.line(1, "}")
	src.line(1, "return w.Send(ctx, msg)")
	src.line(0, "}")
	ctx.declare(send, src)
	return nil
}

// eventMarshaler emits marshalEvent<Union><Variant> for a structure variant. Event header members
// become typed headers; the body is the event payload member alone, or else the document of the
// remaining members.
func (ctx *Context) eventMarshaler(union *model.Shape, variant *model.Member) (string, error) {
	fn := "marshalEvent" + ctx.Symbols.Name(union.Id) + ctx.Symbols.Member(variant)
	event := ctx.Schema.Target(variant)
	if event == nil || event.Kind != model.Structure {
		kind := "undefined shape"
		if event != nil {
			kind = event.Kind.String()
		}
		return "", ctx.fail(UnsupportedBinding, variant, "an event must be a structure, not a %s", kind)
	}
	w := ctx.wire()
	var headers, payloads, rest []*model.Member
	for _, m := range event.Members {
		switch {
		case m.IsEventHeader():
			headers = append(headers, m)
		case m.IsEventPayload():
			payloads = append(payloads, m)
		default:
			rest = append(rest, m)
		}
	}
	if len(payloads) > 1 {
		return "", ctx.failShape(UnsupportedBinding, event, "more than one event payload member")
	}
	if len(payloads) == 1 && len(rest) > 0 {
		return "", ctx.fail(UnsupportedBinding, payloads[0], "an event payload cannot be combined with other body members")
	}
	contentType := ctx.Protocol.ContentType
	if len(payloads) == 1 {
		contentType = ctx.payloadContentType(payloads[0], ctx.Schema.TargetKind(payloads[0]))
	}
	src := &source{}
	src.printf(0, "func %s(v %s) (eventstream.Message, error) {", fn, ctx.Types.GoType(event.Id))
	src.printf(1, "msg := %s.NewEvent(%q, %q)", w, string(variant.Name), contentType)
	src.line(1, "if v == nil {")
	src.line(2, "return msg, nil")
	src.line(1, "}")
	for _, m := range headers {
		kind := ctx.Schema.TargetKind(m)
		ctor, ok := eventHeaderValues[kind]
		if !ok {
			return "", ctx.fail(UnsupportedEventHeader, m, "a %s cannot be an event header", kind)
		}
		field := "v." + ctx.Symbols.Member(m)
		value := ctx.fieldValue(m, field)
		if kind == model.Enum {
			value = "string(" + value + ")"
		}
		src.printf(1, "if %s != nil {", field)
		src.printf(2, "msg.Headers.Set(%q, %s(%s))", string(m.Name), ctor, value)
		src.line(1, "}")
	}
	switch {
	case len(payloads) == 1:
		if err := ctx.eventPayload(src, payloads[0]); err != nil {
			return "", err
		}
	case len(rest) > 0:
		src.line(1, "obj := map[string]any{}")
		if err := ctx.encodeMembers(src, 1, rest, "v", "obj"); err != nil {
			return "", err
		}
		src.printf(1, "body, err := %s.MarshalDocument(obj)", w)
		src.line(1, "if err != nil {")
		src.line(2, "return msg, err")
		src.line(1, "}")
		src.line(1, "msg.Payload = body")
	}
	src.line(1, "return msg, nil")
	src.line(0, "}")
	ctx.declare(fn, src)
	return fn, nil
}

func (ctx *Context) eventPayload(src *source, m *model.Member) error {
	field := "v." + ctx.Symbols.Member(m)
	switch ctx.Schema.TargetKind(m) {
	case model.Blob:
		src.printf(1, "msg.Payload = %s", field)
		return nil
	case model.String, model.Enum:
		src.printf(1, "if %s != nil {", field)
		src.printf(2, "msg.Payload = []byte(*%s)", field)
		src.line(1, "}")
		return nil
	}
	e, err := ctx.Encode(m, field, model.Payload)
	if err != nil {
		return err
	}
	src.printf(1, "if %s != nil {", field)
	src.printf(2, "body, err := %s.MarshalDocument(%s)", ctx.wire(), e.Code)
	src.line(2, "if err != nil {")
	src.line(3, "return msg, fmt.Errorf("+strconv.Quote(ctx.memberPath(m)+": %w")+", err)")
	src.line(2, "}")
	src.line(2, "msg.Payload = body")
	src.line(1, "}")
	return nil
}
