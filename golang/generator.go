/*
Copyright 2023 Lee R. Boynton

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
package golang

import (
	"strings"
	"unicode"

	"github.com/boynton/data"
	"go.uber.org/zap"

	"github.com/boynton/protogen/common"
	"github.com/boynton/protogen/model"
)

const TypesFile = "types.go"

// Generator writes types.go: the Go declarations of the structures, unions and enums of a model.
type Generator struct {
	common.BaseGenerator
	Symbols common.Symbols
}

func (gen *Generator) Generate(schema *model.Schema, config *data.Object) error {
	if err := gen.Configure(schema, config); err != nil {
		return err
	}
	types := NewTypes(schema, gen.Symbols, common.ConfigString(config, "wirePackage", DefaultWirePackage))
	sink := common.NewSink(sinkTitle(schema), PackageName(schema, config))
	if err := gen.DeclareAll(types, sink); err != nil {
		return err
	}
	return gen.WriteGo(sink, TypesFile)
}

// DeclareAll adds every declared shape of the schema, and the service interface, to the sink.
func (gen *Generator) DeclareAll(types *Types, sink *common.Sink) error {
	for _, shape := range gen.Shapes() {
		if err := types.Declare(sink, shape); err != nil {
			return err
		}
	}
	types.DeclareService(sink, gen.Operations())
	common.Logger().Debug("declared types", zap.String("package", sink.Package), zap.Int("declarations", len(sink.Decls())))
	return nil
}

func sinkTitle(schema *model.Schema) string {
	if schema.Id != "" {
		return "Types of the " + string(schema.ServiceName()) + " service."
	}
	return ""
}

// PackageName is the configured Go package name, or else derived from the last component of the
// model's namespace.
func PackageName(schema *model.Schema, config *data.Object) string {
	if p := common.ConfigString(config, "package", ""); p != "" {
		return p
	}
	ns := string(schema.ServiceNamespace())
	if i := strings.LastIndex(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	ns = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, ns)
	if ns == "" || !unicode.IsLetter(rune(ns[0])) {
		return "api"
	}
	return ns
}
