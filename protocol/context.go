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

	"go.uber.org/zap"

	"github.com/boynton/protogen/common"
	"github.com/boynton/protogen/golang"
	"github.com/boynton/protogen/model"
)

// Direction - which way a generation pass converts values.
type Direction int

const (
	Serialize Direction = iota
	Deserialize
)

func (d Direction) String() string {
	if d == Deserialize {
		return "deserialize"
	}
	return "serialize"
}

// Expr - a fragment of generated Go source. A fallible expression yields (value, error).
type Expr struct {
	Code     string
	Fallible bool
}

type queued struct {
	shape     *model.Shape
	dir       Direction
	events    bool
	operation string
}

// Context is the state of one generation pass. It remembers which shape functions have been
// requested, so that every shape gets exactly one function however many times (and however
// recursively) it is referenced. A Context is not shared between passes.
type Context struct {
	Schema    *model.Schema
	Types     *golang.Types
	Symbols   common.Symbols
	Sink      *common.Sink
	Protocol  *Protocol
	Scalars   ScalarCodec
	Direction Direction

	emitted   map[string]bool
	worklist  []queued
	operation string
}

func NewContext(schema *model.Schema, types *golang.Types, proto *Protocol, sink *common.Sink, dir Direction) *Context {
	return &Context{
		Schema:    schema,
		Types:     types,
		Symbols:   types.Symbols,
		Sink:      sink,
		Protocol:  proto,
		Scalars:   JSONScalars{},
		Direction: dir,
		emitted:   make(map[string]bool),
	}
}

// FunctionName is the name of the generated codec function of a shape.
func (ctx *Context) FunctionName(shape *model.Shape, dir Direction) string {
	if dir == Deserialize {
		return "deserializeDocument" + ctx.Symbols.Name(shape.Id)
	}
	return "serializeDocument" + ctx.Symbols.Name(shape.Id)
}

// EmitSerializer requests the serializer of a shape and returns its name. Only the first request
// queues it for generation.
func (ctx *Context) EmitSerializer(shape *model.Shape) string {
	return ctx.require(shape, Serialize)
}

// EmitDeserializer is EmitSerializer for the other direction.
func (ctx *Context) EmitDeserializer(shape *model.Shape) string {
	return ctx.require(shape, Deserialize)
}

func (ctx *Context) require(shape *model.Shape, dir Direction) string {
	name := ctx.FunctionName(shape, dir)
	if !ctx.emitted[name] {
		ctx.emitted[name] = true
		ctx.worklist = append(ctx.worklist, queued{shape: shape, dir: dir, operation: ctx.operation})
		common.Logger().Debug("queued codec", zap.String("function", name), zap.Stringer("kind", shape.Kind))
	}
	return name
}

// Emitted tells whether the function of a shape has been requested in this pass.
func (ctx *Context) Emitted(shape *model.Shape, dir Direction) bool {
	return ctx.emitted[ctx.FunctionName(shape, dir)]
}

// requireEventStream queues the event marshalers of a streaming union.
func (ctx *Context) requireEventStream(shape *model.Shape) string {
	name := "marshalEventStream" + ctx.Symbols.Name(shape.Id)
	if !ctx.emitted[name] {
		ctx.emitted[name] = true
		ctx.worklist = append(ctx.worklist, queued{shape: shape, dir: Serialize, events: true, operation: ctx.operation})
	}
	return name
}

// Drain generates every queued function. Generating one may queue more. Failures are reported
// against the operation that first reached the shape.
func (ctx *Context) Drain() error {
	defer func() { ctx.operation = "" }()
	for len(ctx.worklist) > 0 {
		q := ctx.worklist[0]
		ctx.worklist = ctx.worklist[1:]
		ctx.operation = q.operation
		var err error
		switch {
		case q.events:
			err = ctx.generateEventStream(q.shape)
		case q.dir == Serialize:
			err = ctx.generateSerializer(q.shape)
		default:
			err = ctx.generateDeserializer(q.shape)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (ctx *Context) wire() string {
	ctx.Sink.Import("wire", ctx.Types.WirePackage)
	return "wire"
}

func (ctx *Context) use(pkgs ...string) {
	for _, p := range pkgs {
		ctx.Sink.Import("", p)
	}
}

// source accumulates generated Go source, one line at a time.
type source struct {
	b strings.Builder
}

func (s *source) line(depth int, text string) {
	s.b.WriteString(strings.Repeat("\t", depth))
	s.b.WriteString(text)
	s.b.WriteString("\n")
}

func (s *source) printf(depth int, format string, args ...any) {
	s.line(depth, fmt.Sprintf(format, args...))
}

func (s *source) String() string {
	return s.b.String()
}
