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
package common

import (
	"goa.design/goa/v3/codegen"

	"github.com/boynton/protogen/model"
)

// Symbols resolves the Go identifiers of the model. Generators never build identifiers for
// model entities themselves, so that the type generator and the codec generator always agree.
type Symbols interface {
	// Name is the exported type name of a shape.
	Name(id model.AbsoluteIdentifier) string
	// Member is the exported field name of a structure member.
	Member(m *model.Member) string
	// Operation is the exported name of an operation.
	Operation(op *model.OperationDef) string
	// EnumConst is the name of the constant for an enum member.
	EnumConst(id model.AbsoluteIdentifier, m *model.Member) string
}

type GoSymbols struct{}

func (GoSymbols) Name(id model.AbsoluteIdentifier) string {
	return codegen.Goify(model.StripNamespace(id), true)
}

func (GoSymbols) Member(m *model.Member) string {
	return codegen.Goify(string(m.Name), true)
}

func (GoSymbols) Operation(op *model.OperationDef) string {
	return codegen.Goify(op.Name(), true)
}

func (s GoSymbols) EnumConst(id model.AbsoluteIdentifier, m *model.Member) string {
	return s.Name(id) + codegen.Goify(string(m.Name), true)
}
