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
	"strings"

	"github.com/boynton/data"
	"go.uber.org/zap"

	"github.com/boynton/protogen/common"
	"github.com/boynton/protogen/golang"
	"github.com/boynton/protogen/model"
)

const (
	SerializersFile   = "serializers.go"
	DeserializersFile = "deserializers.go"

	DefaultErrorHeader = "X-Amzn-Errortype"
)

// Protocol - the wire conventions of one Smithy protocol.
type Protocol struct {
	Id   string
	Name string
	// Bindings is true for the REST protocols, which honor the HTTP binding traits.
	Bindings          bool
	ContentType       string
	UseJsonName       bool
	DocumentTimestamp model.TimestampFormat
	ErrorHeader       string
	// ErrorFields are the body fields holding the error discriminator, in lookup order.
	ErrorFields     []string
	RequestIDHeader string
}

var protocols = map[string]Protocol{
	model.ProtocolRestJson1: {
		Name:        "restJson1",
		Bindings:    true,
		ContentType: "application/json",
		UseJsonName: true,
		ErrorFields: []string{"code", "__type"},
	},
	model.ProtocolAwsJson1_0: {
		Name:        "awsJson1_0",
		ContentType: "application/x-amz-json-1.0",
		ErrorFields: []string{"__type", "code"},
	},
	model.ProtocolAwsJson1_1: {
		Name:        "awsJson1_1",
		ContentType: "application/x-amz-json-1.1",
		ErrorFields: []string{"__type", "code"},
	},
}

// ResolveProtocol looks a protocol up by shape id ("aws.protocols#restJson1") or by name
// ("restJson1"), and applies the timestampFormat and requestIdHeader settings to it. An empty name
// is restJson1.
func ResolveProtocol(name string, conf *data.Object) (*Protocol, error) {
	if name == "" {
		name = model.ProtocolRestJson1
	}
	if !strings.Contains(name, "#") {
		name = "aws.protocols#" + name
	}
	p, ok := protocols[name]
	if !ok {
		return nil, fmt.Errorf("unsupported protocol: %s", name)
	}
	p.Id = name
	p.ErrorHeader = DefaultErrorHeader
	p.DocumentTimestamp = model.EpochSeconds
	p.RequestIDHeader = common.ConfigString(conf, "requestIdHeader", "X-Amzn-Requestid")
	if tf := common.ConfigString(conf, "timestampFormat", ""); tf != "" {
		f, err := model.ParseTimestampFormat(tf)
		if err != nil {
			return nil, &GenerationError{Kind: UnknownTimestampFormat, Msg: "timestampFormat setting: " + err.Error()}
		}
		p.DocumentTimestamp = f
	}
	return &p, nil
}

// operation - an operation being generated, with the names of its functions.
type operation struct {
	def    *model.OperationDef
	name   string
	input  *model.Shape
	output *model.Shape
}

func (o *operation) requestFunc() string  { return "Serialize" + o.name + "Request" }
func (o *operation) responseFunc() string { return "Deserialize" + o.name + "Response" }
func (o *operation) errorFunc() string    { return "deserializeOpError" + o.name }

func (ctx *Context) ioShape(id model.AbsoluteIdentifier) (*model.Shape, error) {
	if id == "" {
		return nil, nil
	}
	shape := ctx.Schema.GetShape(id)
	if shape == nil {
		return nil, fmt.Errorf("%s: shape not found: %s", ctx.operation, id)
	}
	if shape.Kind != model.Structure {
		return nil, ctx.failShape(InvalidTraitValue, shape, "operation input and output must be structures, not %s", shape.Kind)
	}
	return shape, nil
}

func (ctx *Context) beginOperation(def *model.OperationDef) (*operation, error) {
	ctx.operation = def.Name()
	op := &operation{def: def, name: ctx.Symbols.Operation(def)}
	var err error
	if op.input, err = ctx.ioShape(def.Input); err != nil {
		return nil, err
	}
	if op.output, err = ctx.ioShape(def.Output); err != nil {
		return nil, err
	}
	if ctx.Protocol.Bindings && def.Http == nil {
		return nil, ctx.failShape(InvalidTraitValue, nil, "%s has no http trait", ctx.Protocol.Name)
	}
	return op, nil
}

// Operation generates the functions of one operation for the direction of the pass.
func (ctx *Context) Operation(def *model.OperationDef) error {
	op, err := ctx.beginOperation(def)
	if err != nil {
		return err
	}
	common.Logger().Debug("generating operation", zap.String("operation", op.name), zap.Stringer("pass", ctx.Direction))
	switch {
	case ctx.Direction == Serialize && ctx.Protocol.Bindings:
		err = ctx.restRequest(op)
	case ctx.Direction == Serialize:
		err = ctx.rpcRequest(op)
	case ctx.Protocol.Bindings:
		err = ctx.restResponse(op)
	default:
		err = ctx.rpcResponse(op)
	}
	if err == nil && ctx.Direction == Deserialize {
		err = ctx.errorDispatcher(op)
	}
	ctx.operation = ""
	return err
}

// ApiKeyAuth emits ApplyAPIKey for a service with the httpApiKeyAuth trait.
func (ctx *Context) ApiKeyAuth() error {
	auth := model.ApiKeyAuthOf(ctx.Schema.Traits)
	if auth == nil {
		return nil
	}
	if auth.In != "header" && auth.In != "query" {
		return &GenerationError{Kind: InvalidTraitValue, Shape: ctx.Schema.Id, Msg: fmt.Sprintf("httpApiKeyAuth: unsupported location %q", auth.In)}
	}
	if auth.Name == "" {
		return &GenerationError{Kind: InvalidTraitValue, Shape: ctx.Schema.Id, Msg: "httpApiKeyAuth: no name"}
	}
	ctx.use("net/http")
	src := &source{}
	src.printf(0, "// ApplyAPIKey authenticates a request of the %s service with an API key.", ctx.Schema.ServiceName())
	src.line(0, "func ApplyAPIKey(req *http.Request, key string) error {")
	src.printf(1, "return %s.ApplyAPIKey(req, %q, %q, %q, key)", ctx.wire(), auth.In, auth.Name, auth.Scheme)
	src.line(0, "}")
	ctx.declare("ApplyAPIKey", src)
	return nil
}

// Generator writes the protocol serializers and deserializers of a service, and the Go types they
// use.
type Generator struct {
	common.BaseGenerator
	Symbols common.Symbols
	Scalars ScalarCodec
}

func (gen *Generator) Generate(schema *model.Schema, config *data.Object) error {
	if err := gen.Configure(schema, config); err != nil {
		return err
	}
	if gen.Symbols == nil {
		gen.Symbols = common.GoSymbols{}
	}
	proto, err := ResolveProtocol(common.ConfigString(gen.Config, "protocol", schema.Protocol), gen.Config)
	if err != nil {
		return err
	}
	types := golang.NewTypes(schema, gen.Symbols, common.ConfigString(gen.Config, "wirePackage", golang.DefaultWirePackage))
	pkg := golang.PackageName(schema, gen.Config)
	log := common.Logger().With(zap.String("service", string(schema.ServiceName())), zap.String("protocol", proto.Name))
	log.Info("generating", zap.Int("operations", len(schema.Operations)))

	serializers := common.NewSink(gen.title("Serializers", proto), pkg)
	if err := gen.pass(NewContext(schema, types, proto, serializers, Serialize)); err != nil {
		log.Error("generation failed", zap.Stringer("pass", Serialize), zap.Error(err))
		return err
	}
	deserializers := common.NewSink(gen.title("Deserializers", proto), pkg)
	if err := gen.pass(NewContext(schema, types, proto, deserializers, Deserialize)); err != nil {
		log.Error("generation failed", zap.Stringer("pass", Deserialize), zap.Error(err))
		return err
	}
	if !gen.Config.GetBool("skipTypes") {
		tg := &golang.Generator{Symbols: gen.Symbols}
		tg.Stdout = gen.Stdout
		if err := tg.Generate(schema, gen.Config); err != nil {
			return err
		}
	}
	if err := gen.WriteGo(serializers, SerializersFile); err != nil {
		return err
	}
	return gen.WriteGo(deserializers, DeserializersFile)
}

func (gen *Generator) title(what string, proto *Protocol) string {
	if gen.Schema.Id == "" {
		return what + " (" + proto.Name + ")."
	}
	return what + " of the " + string(gen.Schema.ServiceName()) + " service (" + proto.Name + ")."
}

// pass runs one direction over every operation, then drains the shapes they reached.
func (gen *Generator) pass(ctx *Context) error {
	if gen.Scalars != nil {
		ctx.Scalars = gen.Scalars
	}
	if ctx.Direction == Serialize {
		if err := ctx.ApiKeyAuth(); err != nil {
			return err
		}
	}
	for _, op := range gen.Operations() {
		if err := ctx.Operation(op); err != nil {
			return err
		}
	}
	return ctx.Drain()
}
