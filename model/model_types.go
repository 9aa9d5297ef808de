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
package model

import (
	"encoding/json"
	"fmt"
)

// Kind - the kind of a shape. Every shape in the graph has exactly one.
type Kind int

const (
	_ Kind = iota
	Blob
	Boolean
	String
	Enum
	Timestamp
	Byte
	Short
	Integer
	IntEnum
	Long
	Float
	Double
	BigInteger
	BigDecimal
	Document
	List
	Set
	Map
	Structure
	Union
	Operation
	Service
	Resource
)

var namesKind = []string{
	Blob:       "blob",
	Boolean:    "boolean",
	String:     "string",
	Enum:       "enum",
	Timestamp:  "timestamp",
	Byte:       "byte",
	Short:      "short",
	Integer:    "integer",
	IntEnum:    "intEnum",
	Long:       "long",
	Float:      "float",
	Double:     "double",
	BigInteger: "bigInteger",
	BigDecimal: "bigDecimal",
	Document:   "document",
	List:       "list",
	Set:        "set",
	Map:        "map",
	Structure:  "structure",
	Union:      "union",
	Operation:  "operation",
	Service:    "service",
	Resource:   "resource",
}

func (e Kind) String() string {
	if int(e) <= 0 || int(e) >= len(namesKind) {
		return fmt.Sprintf("Kind(%d)", int(e))
	}
	return namesKind[e]
}

func (e Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e *Kind) UnmarshalJSON(b []byte) error {
	var s string
	err := json.Unmarshal(b, &s)
	if err == nil {
		if k, ok := KindByName(s); ok {
			*e = k
			return nil
		}
		err = fmt.Errorf("Bad enum symbol for type Kind: %s", s)
	}
	return err
}

// KindByName maps a Smithy shape type name ("structure", "bigDecimal", ...) to its Kind.
func KindByName(name string) (Kind, bool) {
	for i, n := range namesKind {
		if n != "" && n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

func (e Kind) IsNumber() bool {
	switch e {
	case Byte, Short, Integer, IntEnum, Long, Float, Double, BigInteger, BigDecimal:
		return true
	}
	return false
}

func (e Kind) IsCollection() bool {
	return e == List || e == Set
}

// IsAggregate is true for the kinds that get a generated codec function of their own.
func (e Kind) IsAggregate() bool {
	switch e {
	case List, Set, Map, Structure, Union:
		return true
	}
	return false
}

// IsEntity is true for the kinds that may never appear in a document position.
func (e Kind) IsEntity() bool {
	return e == Operation || e == Service || e == Resource
}

// Identifier - a simple symbolic name, i.e. "Blah"
type Identifier string

// Namespace - a sequence of one or more names delimited by a '.', i.e. "foo.bar"
type Namespace string

// AbsoluteIdentifier - an Identifier in a Namespace, i.e. "foo.bar#Blah".
type AbsoluteIdentifier string

type StringList []string

// Shape - a node in the shape graph. Which fields are meaningful depends on the Kind.
type Shape struct {
	Id     AbsoluteIdentifier `json:"id"`
	Kind   Kind               `json:"kind"`
	Traits Traits             `json:"traits,omitempty"`

	//structure, union, enum, intEnum
	Members []*Member `json:"members,omitempty"`

	//list, set
	Member *Member `json:"member,omitempty"`

	//map
	Key   *Member `json:"key,omitempty"`
	Value *Member `json:"value,omitempty"`

	//operation
	Input  AbsoluteIdentifier   `json:"input,omitempty"`
	Output AbsoluteIdentifier   `json:"output,omitempty"`
	Errors []AbsoluteIdentifier `json:"errors,omitempty"`
}

// Member - a named, trait-annotated edge from an aggregate shape to its target.
type Member struct {
	Name      Identifier         `json:"name"`
	Target    AbsoluteIdentifier `json:"target"`
	Traits    Traits             `json:"traits,omitempty"`
	Container AbsoluteIdentifier `json:"-"`
}

type HttpTrait struct {
	Method string `json:"method"`
	Uri    string `json:"uri"`
	Code   int    `json:"code,omitempty"`
}

// OperationDef - an operation with its resolved input, output, errors and HTTP binding.
type OperationDef struct {
	Id     AbsoluteIdentifier   `json:"id"`
	Input  AbsoluteIdentifier   `json:"input,omitempty"`
	Output AbsoluteIdentifier   `json:"output,omitempty"`
	Errors []AbsoluteIdentifier `json:"errors,omitempty"`
	Http   *HttpTrait           `json:"http,omitempty"`
	Traits Traits               `json:"traits,omitempty"`
}

type OperationDefList []*OperationDef

// ServiceDef - the service being generated, its protocol, and all of its operations, including the
// ones reached through resources.
type ServiceDef struct {
	Comment    string               `json:"comment,omitempty"`
	Id         AbsoluteIdentifier   `json:"id"`
	Version    string               `json:"version,omitempty"`
	Protocol   string               `json:"protocol,omitempty"`
	Errors     []AbsoluteIdentifier `json:"errors,omitempty"`
	Traits     Traits               `json:"traits,omitempty"`
	Operations OperationDefList     `json:"operations,omitempty"`
}
