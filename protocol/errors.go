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
	"fmt"
	"strings"

	"github.com/boynton/protogen/model"
)

type ErrorKind int

const (
	UnsupportedBinding ErrorKind = iota + 1
	IllegalDocumentMember
	UnknownTimestampFormat
	InvalidTraitValue
	UnsupportedEventHeader
	MissingLabel
)

var (
	ErrUnsupportedBinding     = errors.New("unsupported binding")
	ErrIllegalDocumentMember  = errors.New("illegal document member")
	ErrUnknownTimestampFormat = errors.New("unknown timestamp format")
	ErrInvalidTraitValue      = errors.New("invalid trait value")
	ErrUnsupportedEventHeader = errors.New("unsupported event header")
	ErrMissingLabel           = errors.New("missing label")
)

var kindErrors = map[ErrorKind]error{
	UnsupportedBinding:     ErrUnsupportedBinding,
	IllegalDocumentMember:  ErrIllegalDocumentMember,
	UnknownTimestampFormat: ErrUnknownTimestampFormat,
	InvalidTraitValue:      ErrInvalidTraitValue,
	UnsupportedEventHeader: ErrUnsupportedEventHeader,
	MissingLabel:           ErrMissingLabel,
}

func (k ErrorKind) String() string {
	if err, ok := kindErrors[k]; ok {
		return err.Error()
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// GenerationError - a model that cannot be compiled. It fails the whole artifact being generated.
type GenerationError struct {
	Kind      ErrorKind
	Shape     model.AbsoluteIdentifier
	Operation string
	Member    string
	Msg       string
}

func (e *GenerationError) Error() string {
	var where []string
	if e.Operation != "" {
		where = append(where, "operation "+e.Operation)
	}
	if e.Member != "" {
		where = append(where, "member "+e.Member)
	} else if e.Shape != "" {
		where = append(where, "shape "+string(e.Shape))
	}
	s := e.Kind.String()
	if len(where) > 0 {
		s += " (" + strings.Join(where, ", ") + ")"
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}

func (e *GenerationError) Unwrap() error {
	return kindErrors[e.Kind]
}

func (ctx *Context) fail(kind ErrorKind, m *model.Member, format string, args ...any) error {
	e := &GenerationError{
		Kind:      kind,
		Operation: ctx.operation,
		Msg:       fmt.Sprintf(format, args...),
	}
	if m != nil {
		e.Shape = m.Container
		e.Member = m.Id()
	}
	return e
}

func (ctx *Context) failShape(kind ErrorKind, shape *model.Shape, format string, args ...any) error {
	e := &GenerationError{
		Kind:      kind,
		Operation: ctx.operation,
		Msg:       fmt.Sprintf(format, args...),
	}
	if shape != nil {
		e.Shape = shape.Id
	}
	return e
}
