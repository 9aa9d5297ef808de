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

// rpcRequest emits Serialize<Op>Request for the awsJson protocols: a POST to the endpoint root,
// naming the operation in the X-Amz-Target header, with the whole input as the document body.
func (ctx *Context) rpcRequest(op *operation) error {
	ctx.use("context", "net/http")
	w := ctx.wire()
	fail := ctx.serializeFail()
	src := &source{}
	ctx.requestSignature(src, op)
	if err := ctx.fillIdempotencyTokens(src, op); err != nil {
		return err
	}
	src.printf(1, `req, err := %s.NewRequest(ctx, http.MethodPost, endpoint, "/", "")`, w)
	src.line(1, "if err != nil {")
	src.line(2, fail("err"))
	src.line(1, "}")
	if op.input != nil {
		src.printf(1, "body, err := %s.MarshalDocument(%s(input))", w, ctx.EmitSerializer(op.input))
		src.line(1, "if err != nil {")
		src.line(2, fail("err"))
		src.line(1, "}")
	} else {
		src.line(1, `body := []byte("{}")`)
	}
	src.printf(1, "req.Header.Set(%s.AmzTargetHeader, %q)", w, ctx.amzTarget(op))
	src.printf(1, "%s.SetBody(req, body, %q)", w, ctx.Protocol.ContentType)
	src.line(1, "return req, nil")
	src.line(0, "}")
	ctx.declare(op.requestFunc(), src)
	return nil
}

// amzTarget is the X-Amz-Target value of an operation: "<Service>.<Operation>".
func (ctx *Context) amzTarget(op *operation) string {
	return string(ctx.Schema.ServiceName()) + "." + op.def.Name()
}

// rpcResponse emits Deserialize<Op>Response for the awsJson protocols.
func (ctx *Context) rpcResponse(op *operation) error {
	src := &source{}
	ctx.responseSignature(src, op)
	if op.output == nil {
		src.line(1, "return nil")
		src.line(0, "}")
		ctx.declare(op.responseFunc(), src)
		return nil
	}
	w := ctx.wire()
	fail := ctx.responseFail(op)
	src.printf(1, "doc, err := %s.ReadResponseDocument(resp)", w)
	src.line(1, "if err != nil {")
	src.line(2, fail("err"))
	src.line(1, "}")
	src.printf(1, "out, err := %s(doc)", ctx.EmitDeserializer(op.output))
	src.line(1, "if err != nil {")
	src.line(2, fail("err"))
	src.line(1, "}")
	src.line(1, "if out == nil {")
	src.printf(2, "out = &%s{}", ctx.Symbols.Name(op.output.Id))
	src.line(1, "}")
	src.line(1, "return out, nil")
	src.line(0, "}")
	ctx.declare(op.responseFunc(), src)
	return nil
}
