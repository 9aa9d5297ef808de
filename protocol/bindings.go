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
	"regexp"
	"strings"

	"github.com/boynton/protogen/model"
)

// Binding - one member of an operation input or output, and where it goes on the wire.
type Binding struct {
	Member   *model.Member
	Target   *model.Shape
	Location model.BindingLocation
	// Name is the label name, query key, header name, or header prefix.
	Name string
}

// Bindings are the members of an input or output structure grouped by location.
type Bindings struct {
	Shape       *model.Shape
	ByLocation  map[model.BindingLocation][]*Binding
	EventStream *Binding
}

func (b *Bindings) Get(loc model.BindingLocation) []*Binding {
	return b.ByLocation[loc]
}

func (b *Bindings) Payload() *Binding {
	if lst := b.ByLocation[model.Payload]; len(lst) > 0 {
		return lst[0]
	}
	return nil
}

func (b *Bindings) Documented() []*model.Member {
	var ms []*model.Member
	for _, bind := range b.ByLocation[model.DocumentLocation] {
		ms = append(ms, bind.Member)
	}
	return ms
}

var uriLabel = regexp.MustCompile(`\{([^}+]+)\+?\}`)

// UriLabels are the placeholder names of a URI template, greedy ones included.
func UriLabels(uri string) []string {
	path, _, _ := strings.Cut(uri, "?")
	var names []string
	for _, m := range uriLabel.FindAllStringSubmatch(path, -1) {
		names = append(names, m[1])
	}
	return names
}

func textKind(k model.Kind) bool {
	switch k {
	case model.Boolean, model.String, model.Enum, model.Timestamp, model.Byte, model.Short,
		model.Integer, model.IntEnum, model.Long, model.Float, model.Double, model.BigInteger,
		model.BigDecimal:
		return true
	}
	return false
}

// elementKind is the kind of the values of a member: the element kind of a list, otherwise the
// kind of the target itself.
func (ctx *Context) elementKind(target *model.Shape) model.Kind {
	if target.Kind.IsCollection() && target.Member != nil {
		return ctx.Schema.TargetKind(target.Member)
	}
	return target.Kind
}

// ResolveBindings groups the members of the input (or output) structure of an operation by
// location, rejecting the bindings that cannot be expressed. Label and query bindings only apply
// to input and the response code only to output; elsewhere those members are document members.
func (ctx *Context) ResolveBindings(op *model.OperationDef, shape *model.Shape, input bool) (*Bindings, error) {
	b := &Bindings{Shape: shape, ByLocation: make(map[model.BindingLocation][]*Binding)}
	if shape == nil {
		return b, nil
	}
	var placeholders []string
	labels := map[string]bool{}
	if input && op.Http != nil {
		placeholders = UriLabels(op.Http.Uri)
		for _, name := range placeholders {
			labels[name] = false
		}
	}
	for _, m := range shape.Members {
		loc, err := m.Location()
		if err != nil {
			if errors.Is(err, model.ErrConflictingBindings) {
				return nil, ctx.fail(UnsupportedBinding, m, "%v", err)
			}
			return nil, err
		}
		target, err := ctx.target(m)
		if err != nil {
			return nil, err
		}
		switch loc {
		case model.Label, model.Query, model.QueryParams:
			if !input {
				loc = model.DocumentLocation
			}
		case model.ResponseCode:
			if input {
				loc = model.DocumentLocation
			}
		}
		bind := &Binding{Member: m, Target: target, Location: loc, Name: m.LocationName()}
		if target.Kind == model.Union && target.IsStreaming() {
			b.EventStream = bind
			continue
		}
		if err := ctx.checkBinding(bind); err != nil {
			return nil, err
		}
		if loc == model.Label {
			bind.Name = string(m.Name)
			if _, ok := labels[bind.Name]; !ok {
				return nil, ctx.fail(MissingLabel, m, "no {%s} placeholder in %q", bind.Name, op.Http.Uri)
			}
			labels[bind.Name] = true
		}
		b.ByLocation[loc] = append(b.ByLocation[loc], bind)
	}
	for _, name := range placeholders {
		if !labels[name] {
			return nil, ctx.failShape(MissingLabel, shape, "placeholder {%s} of %q has no label member", name, op.Http.Uri)
		}
	}
	if len(b.ByLocation[model.Payload]) > 1 {
		return nil, ctx.failShape(UnsupportedBinding, shape, "more than one payload member")
	}
	if b.Payload() != nil && len(b.ByLocation[model.DocumentLocation]) > 0 {
		return nil, ctx.fail(UnsupportedBinding, b.Payload().Member, "a payload member cannot be combined with document members")
	}
	return b, nil
}

func (ctx *Context) checkBinding(b *Binding) error {
	m, t := b.Member, b.Target
	switch b.Location {
	case model.Label:
		if !textKind(t.Kind) {
			return ctx.fail(UnsupportedBinding, m, "a %s cannot be bound to a label", t.Kind)
		}
	case model.Query, model.Header:
		k := ctx.elementKind(t)
		if k != model.Blob && !textKind(k) {
			return ctx.fail(UnsupportedBinding, m, "a %s cannot be bound to the %s", t.Kind, b.Location)
		}
		if b.Name == "" {
			return ctx.fail(InvalidTraitValue, m, "empty %s name", b.Location)
		}
	case model.QueryParams:
		if t.Kind != model.Map || t.Value == nil {
			return ctx.fail(UnsupportedBinding, m, "query params must be a map, not a %s", t.Kind)
		}
		v := ctx.Schema.Target(t.Value)
		if v == nil {
			return ctx.fail(UnsupportedBinding, m, "query params value not found: %s", t.Value.Target)
		}
		if k := ctx.elementKind(v); k != model.String && k != model.Enum {
			return ctx.fail(UnsupportedBinding, m, "query params must map to strings or lists of strings")
		}
	case model.PrefixHeaders:
		if t.Kind != model.Map || t.Value == nil || ctx.Schema.TargetKind(t.Value) != model.String {
			return ctx.fail(UnsupportedBinding, m, "prefix headers must be a map of strings, not a %s", t.Kind)
		}
	case model.Payload:
		switch t.Kind {
		case model.Blob, model.String, model.Enum, model.Structure, model.Union, model.Document:
		default:
			return ctx.fail(UnsupportedBinding, m, "a %s cannot be the payload", t.Kind)
		}
	case model.ResponseCode:
		if t.Kind != model.Integer {
			return ctx.fail(UnsupportedBinding, m, "the response code must be an integer, not a %s", t.Kind)
		}
	}
	return nil
}
