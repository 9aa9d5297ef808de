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
	"strings"

	"github.com/boynton/protogen/golang"
	"github.com/boynton/protogen/model"
)

const (
	smithyPackage      = "github.com/aws/smithy-go"
	httpbindingPackage = "github.com/aws/smithy-go/encoding/httpbinding"
	ptrPackage         = "github.com/aws/smithy-go/ptr"

	eventStreamContentType = "application/vnd.amazon.eventstream"
)

// restRequest emits Serialize<Op>Request for an operation with HTTP bindings.
func (ctx *Context) restRequest(op *operation) error {
	b, err := ctx.ResolveBindings(op.def, op.input, true)
	if err != nil {
		return err
	}
	if b.EventStream != nil && len(b.Documented()) > 0 {
		return ctx.fail(UnsupportedBinding, b.EventStream.Member, "an event stream cannot be combined with document members")
	}
	ctx.use("context", "net/http", httpbindingPackage)
	w := ctx.wire()
	fail := ctx.serializeFail()
	src := &source{}
	ctx.requestSignature(src, op)
	if err := ctx.fillIdempotencyTokens(src, op); err != nil {
		return err
	}
	src.printf(1, "opPath, opQuery := httpbinding.SplitURI(%q)", op.def.Http.Uri)
	src.printf(1, "req, err := %s.NewRequest(ctx, %q, endpoint, opPath, opQuery)", w, op.def.Http.Method)
	src.line(1, "if err != nil {")
	src.line(2, fail("err"))
	src.line(1, "}")
	src.line(1, "encoder, err := httpbinding.NewEncoder(req.URL.Path, req.URL.RawQuery, req.Header)")
	src.line(1, "if err != nil {")
	src.line(2, fail("err"))
	src.line(1, "}")
	for _, bind := range b.Get(model.Label) {
		if err := ctx.encodeLabel(src, bind, fail); err != nil {
			return err
		}
	}
	var queryKeys []string
	for _, bind := range b.Get(model.Query) {
		queryKeys = append(queryKeys, bind.Name)
		if err := ctx.encodeQuery(src, bind); err != nil {
			return err
		}
	}
	for _, bind := range b.Get(model.QueryParams) {
		if err := ctx.encodeQueryParams(src, bind, queryKeys); err != nil {
			return err
		}
	}
	for _, bind := range b.Get(model.Header) {
		if err := ctx.encodeHeader(src, bind); err != nil {
			return err
		}
	}
	for _, bind := range b.Get(model.PrefixHeaders) {
		ctx.use("maps", "slices")
		field := "input." + ctx.Symbols.Member(bind.Member)
		src.printf(1, "if len(%s) > 0 {", field)
		src.printf(2, "headers := encoder.Headers(%q)", bind.Name)
		src.printf(2, "for _, k := range slices.Sorted(maps.Keys(%s)) {", field)
		src.printf(3, "headers.SetHeader(k).String(%s[k])", field)
		src.line(2, "}")
		src.line(1, "}")
	}
	body, contentType, err := ctx.encodeBody(src, op, b, fail)
	if err != nil {
		return err
	}
	src.line(1, "if req, err = encoder.Encode(req); err != nil {")
	src.line(2, fail("err"))
	src.line(1, "}")
	src.printf(1, "%s.SetBody(req, %s, %q)", w, body, contentType)
	src.line(1, "return req, nil")
	src.line(0, "}")
	ctx.declare(op.requestFunc(), src)
	return nil
}

func (ctx *Context) serializeFail() func(string) string {
	ctx.Sink.Import("smithy", smithyPackage)
	return func(err string) string {
		return "return nil, &smithy.SerializationError{Err: " + err + "}"
	}
}

func (ctx *Context) requestSignature(src *source, op *operation) {
	src.printf(0, "// %s builds the request of the %s operation.", op.requestFunc(), op.def.Name())
	params := "ctx context.Context, endpoint string"
	if op.input != nil {
		params += ", input *" + ctx.Symbols.Name(op.input.Id)
	}
	src.printf(0, "func %s(%s) (*http.Request, error) {", op.requestFunc(), params)
	if op.input != nil {
		src.line(1, "if input == nil {")
		src.printf(2, "input = &%s{}", ctx.Symbols.Name(op.input.Id))
		src.line(1, "}")
	}
}

// fillIdempotencyTokens gives absent idempotency token members a fresh value, on a copy of the input.
func (ctx *Context) fillIdempotencyTokens(src *source, op *operation) error {
	if op.input == nil {
		return nil
	}
	for _, m := range op.input.Members {
		if !m.IsIdempotencyToken() {
			continue
		}
		if ctx.Schema.TargetKind(m) != model.String {
			return ctx.fail(InvalidTraitValue, m, "an idempotency token must be a string")
		}
		field := ctx.Symbols.Member(m)
		src.printf(1, "if input.%s == nil {", field)
		src.line(2, "token, err := "+ctx.wire()+".NewIdempotencyToken()")
		src.line(2, "if err != nil {")
		src.line(3, ctx.serializeFail()("err"))
		src.line(2, "}")
		src.line(2, "in := *input")
		src.printf(2, "in.%s = &token", field)
		src.line(2, "input = &in")
		src.line(1, "}")
	}
	return nil
}

func (ctx *Context) memberPath(m *model.Member) string {
	return model.StripNamespace(m.Container) + "." + string(m.Name)
}

func (ctx *Context) encodeLabel(src *source, bind *Binding, fail func(string) string) error {
	m := bind.Member
	field := "input." + ctx.Symbols.Member(m)
	e, err := ctx.Encode(m, ctx.fieldValue(m, field), model.Label)
	if err != nil {
		return err
	}
	ctx.use("fmt")
	path := ctx.memberPath(m)
	if bind.Target.Kind == model.String || bind.Target.Kind == model.Enum {
		src.printf(1, "if %s == nil || len(*%s) == 0 {", field, field)
	} else {
		src.printf(1, "if %s == nil {", field)
	}
	src.line(2, fail("fmt.Errorf("+strconv.Quote(path+": label value must not be empty")+")"))
	src.line(1, "}")
	src.printf(1, "if err := encoder.SetURI(%q).String(%s); err != nil {", bind.Name, e.Code)
	src.line(2, fail("fmt.Errorf("+strconv.Quote(path+": %w")+", err)"))
	src.line(1, "}")
	return nil
}

func (ctx *Context) encodeQuery(src *source, bind *Binding) error {
	m := bind.Member
	field := "input." + ctx.Symbols.Member(m)
	if bind.Target.Kind.IsCollection() {
		e, err := ctx.Encode(bind.Target.Member, "e", model.Query)
		if err != nil {
			return err
		}
		src.printf(1, "for _, e := range %s {", field)
		src.printf(2, "encoder.AddQuery(%q).String(%s)", bind.Name, e.Code)
		src.line(1, "}")
		return nil
	}
	e, err := ctx.Encode(m, ctx.fieldValue(m, field), model.Query)
	if err != nil {
		return err
	}
	src.printf(1, "if %s != nil {", field)
	src.printf(2, "encoder.SetQuery(%q).String(%s)", bind.Name, e.Code)
	src.line(1, "}")
	return nil
}

// encodeQueryParams adds the entries of a map of query parameters. Keys owned by query members
// are skipped.
func (ctx *Context) encodeQueryParams(src *source, bind *Binding, owned []string) error {
	ctx.use("maps", "slices")
	field := "input." + ctx.Symbols.Member(bind.Member)
	value := ctx.Schema.Target(bind.Target.Value)
	src.printf(1, "for _, k := range slices.Sorted(maps.Keys(%s)) {", field)
	if len(owned) > 0 {
		var conds []string
		for _, k := range owned {
			conds = append(conds, "k == "+strconv.Quote(k))
		}
		src.printf(2, "if %s {", strings.Join(conds, " || "))
		src.line(3, "continue")
		src.line(2, "}")
	}
	if value.Kind.IsCollection() {
		e, err := ctx.Encode(value.Member, "e", model.QueryParams)
		if err != nil {
			return err
		}
		src.printf(2, "for _, e := range %s[k] {", field)
		src.printf(3, "encoder.AddQuery(k).String(%s)", e.Code)
		src.line(2, "}")
	} else {
		e, err := ctx.Encode(bind.Target.Value, field+"[k]", model.QueryParams)
		if err != nil {
			return err
		}
		src.printf(2, "encoder.SetQuery(k).String(%s)", e.Code)
	}
	src.line(1, "}")
	return nil
}

func (ctx *Context) isHTTPDateList(target *model.Shape) (bool, error) {
	if !target.Kind.IsCollection() || ctx.Schema.TargetKind(target.Member) != model.Timestamp {
		return false, nil
	}
	s, err := ctx.scalar(target.Member, ctx.Schema.Target(target.Member), model.Header)
	if err != nil {
		return false, err
	}
	return s.Timestamp == model.HttpDate, nil
}

func (ctx *Context) encodeHeader(src *source, bind *Binding) error {
	m := bind.Member
	field := "input." + ctx.Symbols.Member(m)
	if bind.Target.Kind.IsCollection() {
		e, err := ctx.Encode(bind.Target.Member, "e", model.Header)
		if err != nil {
			return err
		}
		dates, err := ctx.isHTTPDateList(bind.Target)
		if err != nil {
			return err
		}
		join := ctx.wire() + ".JoinHeaderList(vs)"
		if dates {
			ctx.use("strings")
			join = `strings.Join(vs, ", ")`
		}
		src.printf(1, "if len(%s) > 0 {", field)
		src.printf(2, "vs := make([]string, 0, len(%s))", field)
		src.printf(2, "for _, e := range %s {", field)
		src.printf(3, "vs = append(vs, %s)", e.Code)
		src.line(2, "}")
		src.printf(2, "encoder.SetHeader(%q).String(%s)", bind.Name, join)
		src.line(1, "}")
		return nil
	}
	e, err := ctx.Encode(m, ctx.fieldValue(m, field), model.Header)
	if err != nil {
		return err
	}
	src.printf(1, "if %s != nil {", field)
	src.printf(2, "encoder.SetHeader(%q).String(%s)", bind.Name, e.Code)
	src.line(1, "}")
	return nil
}

// payloadContentType is the content type of a payload member: its media type, or else the default
// for its kind.
func (ctx *Context) payloadContentType(m *model.Member, k model.Kind) string {
	if mt := ctx.Schema.MediaType(m); mt != "" {
		return mt
	}
	switch k {
	case model.Blob:
		return "application/octet-stream"
	case model.String, model.Enum:
		return "text/plain"
	}
	return ctx.Protocol.ContentType
}

// encodeBody writes the statements building the request body, and returns the body expression and
// its content type.
func (ctx *Context) encodeBody(src *source, op *operation, b *Bindings, fail func(string) string) (string, string, error) {
	if b.EventStream != nil {
		src.printf(1, "// The %s events are sent on the request body with Send%sEvent.",
			b.EventStream.Member.Name, ctx.Symbols.Name(b.EventStream.Target.Id))
		ctx.requireEventStream(b.EventStream.Target)
		return "nil", eventStreamContentType, nil
	}
	w := ctx.wire()
	if p := b.Payload(); p != nil {
		m := p.Member
		field := "input." + ctx.Symbols.Member(m)
		contentType := ctx.payloadContentType(m, p.Target.Kind)
		switch p.Target.Kind {
		case model.Blob:
			return field, contentType, nil
		case model.String, model.Enum:
			src.line(1, "var body []byte")
			src.printf(1, "if %s != nil {", field)
			src.printf(2, "body = []byte(*%s)", field)
			src.line(1, "}")
			return "body", contentType, nil
		}
		e, err := ctx.Encode(m, field, model.Payload)
		if err != nil {
			return "", "", err
		}
		ctx.use("fmt")
		src.line(1, "var body []byte")
		src.printf(1, "if %s != nil {", field)
		src.printf(2, "if body, err = %s.MarshalDocument(%s); err != nil {", w, e.Code)
		src.line(3, fail("fmt.Errorf("+strconv.Quote(ctx.memberPath(m)+": %w")+", err)"))
		src.line(2, "}")
		src.line(1, "}")
		return "body", contentType, nil
	}
	members := b.Documented()
	if len(members) == 0 {
		return "nil", ctx.Protocol.ContentType, nil
	}
	src.line(1, "obj := map[string]any{}")
	if err := ctx.encodeMembers(src, 1, members, "input", "obj"); err != nil {
		return "", "", err
	}
	src.printf(1, "body, err := %s.MarshalDocument(obj)", w)
	src.line(1, "if err != nil {")
	src.line(2, fail("err"))
	src.line(1, "}")
	return "body", ctx.Protocol.ContentType, nil
}

func (ctx *Context) responseFail(op *operation) func(string) string {
	w := ctx.wire()
	if op.output == nil {
		return func(err string) string {
			return "return " + w + ".ResponseError(resp, " + err + ")"
		}
	}
	return func(err string) string {
		return "return nil, " + w + ".ResponseError(resp, " + err + ")"
	}
}

// responseSignature opens Deserialize<Op>Response, up to the error status check.
func (ctx *Context) responseSignature(src *source, op *operation) {
	ctx.use("context", "net/http")
	src.printf(0, "// %s decodes the response of the %s operation. An error status is decoded into one",
		op.responseFunc(), op.def.Name())
	src.line(0, "// of the errors of the operation.")
	if op.output == nil {
		src.printf(0, "func %s(ctx context.Context, resp *http.Response) error {", op.responseFunc())
		src.line(1, "if resp.StatusCode >= 400 {")
		src.printf(2, "return %s(ctx, resp)", op.errorFunc())
		src.line(1, "}")
		return
	}
	out := ctx.Symbols.Name(op.output.Id)
	src.printf(0, "func %s(ctx context.Context, resp *http.Response) (*%s, error) {", op.responseFunc(), out)
	src.line(1, "if resp.StatusCode >= 400 {")
	src.printf(2, "return nil, %s(ctx, resp)", op.errorFunc())
	src.line(1, "}")
}

// restResponse emits Deserialize<Op>Response for an operation with HTTP bindings.
func (ctx *Context) restResponse(op *operation) error {
	b, err := ctx.ResolveBindings(op.def, op.output, false)
	if err != nil {
		return err
	}
	src := &source{}
	ctx.responseSignature(src, op)
	if op.output == nil {
		src.line(1, "return nil")
		src.line(0, "}")
		ctx.declare(op.responseFunc(), src)
		return nil
	}
	src.printf(1, "out := &%s{}", ctx.Symbols.Name(op.output.Id))
	if err := ctx.decodeBindings(src, b, "out", ctx.responseFail(op)); err != nil {
		return err
	}
	if err := ctx.decodeBody(src, b, "out", ctx.responseFail(op)); err != nil {
		return err
	}
	src.line(1, "return out, nil")
	src.line(0, "}")
	ctx.declare(op.responseFunc(), src)
	return nil
}

// decodeBindings writes the statements setting the header, prefix header and response code members
// of out from resp.
func (ctx *Context) decodeBindings(src *source, b *Bindings, out string, fail func(string) string) error {
	w := ctx.wire()
	for _, bind := range b.Get(model.Header) {
		m := bind.Member
		field := out + "." + ctx.Symbols.Member(m)
		path := ctx.memberPath(m)
		if bind.Target.Kind.IsCollection() {
			e, err := ctx.Decode(bind.Target.Member, "e", model.Header)
			if err != nil {
				return err
			}
			dates, err := ctx.isHTTPDateList(bind.Target)
			if err != nil {
				return err
			}
			split := "SplitHeaderList"
			if dates {
				split = "SplitHTTPDateList"
			}
			ctx.use("fmt")
			src.printf(1, "if vs, err := %s.%s(resp.Header, %q); err != nil {", w, split, bind.Name)
			src.line(2, fail("fmt.Errorf("+strconv.Quote(path+": %w")+", err)"))
			src.line(1, "} else if vs != nil {")
			listType := ctx.Types.GoType(bind.Target.Id)
			golang.RequireImports(ctx.Sink, listType)
			src.printf(2, "lst := make(%s, 0, len(vs))", listType)
			src.line(2, "for _, e := range vs {")
			ctx.decodeInto(src, 3, e, path, fail, "lst = append(lst, x)")
			src.line(2, "}")
			src.printf(2, "%s = lst", field)
			src.line(1, "}")
			continue
		}
		e, err := ctx.Decode(m, "hv", model.Header)
		if err != nil {
			return err
		}
		src.printf(1, "if hv, ok := %s.HeaderValue(resp.Header, %q); ok {", w, bind.Name)
		ctx.decodeInto(src, 2, e, path, fail, ctx.fieldAssign(m, field, "x"))
		src.line(1, "}")
	}
	for _, bind := range b.Get(model.PrefixHeaders) {
		src.printf(1, "%s.%s = %s.PrefixHeaders(resp.Header, %q)", out, ctx.Symbols.Member(bind.Member), w, bind.Name)
	}
	for _, bind := range b.Get(model.ResponseCode) {
		ctx.use(ptrPackage)
		src.printf(1, "%s.%s = ptr.Int32(int32(resp.StatusCode))", out, ctx.Symbols.Member(bind.Member))
	}
	return nil
}

// decodeBody writes the statements reading the payload member, or else the document members, of out
// from the response body.
func (ctx *Context) decodeBody(src *source, b *Bindings, out string, fail func(string) string) error {
	w := ctx.wire()
	if p := b.Payload(); p != nil {
		m := p.Member
		field := out + "." + ctx.Symbols.Member(m)
		switch p.Target.Kind {
		case model.Blob, model.String, model.Enum:
			src.printf(1, "body, err := %s.ReadBody(resp)", w)
			src.line(1, "if err != nil {")
			src.line(2, fail("err"))
			src.line(1, "}")
			src.line(1, "if len(body) > 0 {")
			switch p.Target.Kind {
			case model.Blob:
				src.printf(2, "%s = body", field)
			case model.String:
				src.line(2, "s := string(body)")
				src.printf(2, "%s = &s", field)
			default:
				src.printf(2, "s := %s(body)", ctx.Symbols.Name(p.Target.Id))
				src.printf(2, "%s = &s", field)
			}
			src.line(1, "}")
			return nil
		}
		e, err := ctx.Decode(m, "doc", model.Payload)
		if err != nil {
			return err
		}
		src.printf(1, "doc, err := %s.ReadResponseDocument(resp)", w)
		src.line(1, "if err != nil {")
		src.line(2, fail("err"))
		src.line(1, "}")
		src.line(1, "if doc != nil {")
		ctx.decodeInto(src, 2, e, ctx.memberPath(m), fail, ctx.fieldAssign(m, field, "x"))
		src.line(1, "}")
		return nil
	}
	members := b.Documented()
	if len(members) == 0 {
		return nil
	}
	src.printf(1, "doc, err := %s.ReadResponseDocument(resp)", w)
	src.line(1, "if err != nil {")
	src.line(2, fail("err"))
	src.line(1, "}")
	src.printf(1, "obj, err := %s.AsObject(doc)", w)
	src.line(1, "if err != nil {")
	src.line(2, fail("err"))
	src.line(1, "}")
	return ctx.decodeMembers(src, 1, b.Shape, members, "obj", out, fail)
}
