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
	"github.com/boynton/protogen/model"
)

// Scalar - one simple value to be encoded or decoded.
type Scalar struct {
	Member    *model.Member
	Shape     *model.Shape
	Location  model.BindingLocation
	Timestamp model.TimestampFormat
	MediaType string
}

// Text is true for the locations where values travel as strings.
func (s *Scalar) Text() bool {
	switch s.Location {
	case model.Label, model.Query, model.QueryParams, model.Header, model.PrefixHeaders:
		return true
	}
	return false
}

// ScalarCodec supplies the encode and decode expressions of simple values. Encoding yields a
// document value for the document location and a string for the text locations; decoding takes
// the same and yields the Go value.
type ScalarCodec interface {
	Encode(ctx *Context, s *Scalar, src string) (Expr, error)
	Decode(ctx *Context, s *Scalar, src string) (Expr, error)
}

// JSONScalars is the scalar codec of the JSON protocols.
type JSONScalars struct{}

func timestampFormatExpr(f model.TimestampFormat) string {
	switch f {
	case model.DateTime:
		return "wire.DateTime"
	case model.HttpDate:
		return "wire.HTTPDate"
	}
	return "wire.EpochSeconds"
}

func call(fn, src string) string {
	return fn + "(" + src + ")"
}

func (JSONScalars) Encode(ctx *Context, s *Scalar, src string) (Expr, error) {
	w := ctx.wire() + "."
	if s.Text() {
		switch s.Shape.Kind {
		case model.Blob:
			return Expr{Code: call(w+"EncodeBlob", src)}, nil
		case model.Boolean:
			return Expr{Code: call(w+"FormatBool", src)}, nil
		case model.Byte, model.Short, model.Integer, model.Long, model.IntEnum:
			return Expr{Code: call(w+"FormatInt", "int64("+src+")")}, nil
		case model.Float:
			return Expr{Code: call(w+"FormatFloat32", src)}, nil
		case model.Double:
			return Expr{Code: call(w+"FormatFloat64", src)}, nil
		case model.BigInteger:
			return Expr{Code: call(w+"FormatBigInteger", src)}, nil
		case model.BigDecimal:
			return Expr{Code: call(w+"FormatBigDecimal", src)}, nil
		case model.String:
			if s.Location == model.Header && s.MediaType != "" {
				return Expr{Code: call(w+"EncodeMediaTypeHeader", src)}, nil
			}
			return Expr{Code: src}, nil
		case model.Enum:
			return Expr{Code: "string(" + src + ")"}, nil
		case model.Timestamp:
			return Expr{Code: w + "FormatTimestamp(" + src + ", " + timestampFormatExpr(s.Timestamp) + ")"}, nil
		}
		return Expr{}, ctx.fail(UnsupportedBinding, s.Member, "a %s cannot be bound to the %s", s.Shape.Kind, s.Location)
	}
	switch s.Shape.Kind {
	case model.Blob:
		return Expr{Code: call(w+"EncodeBlob", src)}, nil
	case model.Boolean, model.Byte, model.Short, model.Integer, model.Long, model.String:
		return Expr{Code: src}, nil
	case model.IntEnum:
		return Expr{Code: "int32(" + src + ")"}, nil
	case model.Enum:
		return Expr{Code: "string(" + src + ")"}, nil
	case model.Float:
		return Expr{Code: call(w+"EncodeFloat32", src)}, nil
	case model.Double:
		return Expr{Code: call(w+"EncodeFloat64", src)}, nil
	case model.BigInteger:
		return Expr{Code: call(w+"EncodeBigInteger", src)}, nil
	case model.BigDecimal:
		return Expr{Code: call(w+"EncodeBigDecimal", src)}, nil
	case model.Timestamp:
		return Expr{Code: w + "EncodeTimestamp(" + src + ", " + timestampFormatExpr(s.Timestamp) + ")"}, nil
	case model.Document:
		return Expr{Code: call(w+"CloneDocument", src)}, nil
	}
	return Expr{}, ctx.fail(UnsupportedBinding, s.Member, "no document encoding for a %s", s.Shape.Kind)
}

func (JSONScalars) Decode(ctx *Context, s *Scalar, src string) (Expr, error) {
	w := ctx.wire() + "."
	fallible := func(fn string) (Expr, error) {
		return Expr{Code: call(w+fn, src), Fallible: true}, nil
	}
	name := ctx.Symbols.Name(s.Shape.Id)
	if s.Text() {
		switch s.Shape.Kind {
		case model.Blob:
			return fallible("DecodeBlob")
		case model.Boolean:
			return fallible("ParseBool")
		case model.Byte:
			return fallible("ParseInt8")
		case model.Short:
			return fallible("ParseInt16")
		case model.Integer:
			return fallible("ParseInt32")
		case model.Long:
			return fallible("ParseInt64")
		case model.IntEnum:
			return fallible("ParseIntEnum[" + name + "]")
		case model.Float:
			return fallible("ParseFloat32")
		case model.Double:
			return fallible("ParseFloat64")
		case model.BigInteger:
			return fallible("ParseBigInteger")
		case model.BigDecimal:
			return fallible("ParseBigDecimal")
		case model.String:
			if s.Location == model.Header && s.MediaType != "" {
				return fallible("DecodeMediaTypeHeader")
			}
			return Expr{Code: src}, nil
		case model.Enum:
			return Expr{Code: name + "(" + src + ")"}, nil
		case model.Timestamp:
			return Expr{Code: w + "ParseTimestamp(" + src + ", " + timestampFormatExpr(s.Timestamp) + ")", Fallible: true}, nil
		}
		return Expr{}, ctx.fail(UnsupportedBinding, s.Member, "a %s cannot be bound to the %s", s.Shape.Kind, s.Location)
	}
	switch s.Shape.Kind {
	case model.Blob:
		return fallible("AsBlob")
	case model.Boolean:
		return fallible("AsBool")
	case model.Byte:
		return fallible("AsInt8")
	case model.Short:
		return fallible("AsInt16")
	case model.Integer:
		return fallible("AsInt32")
	case model.Long:
		return fallible("AsInt64")
	case model.IntEnum:
		return fallible("AsIntEnum[" + name + "]")
	case model.Float:
		return fallible("AsFloat32")
	case model.Double:
		return fallible("AsFloat64")
	case model.BigInteger:
		return fallible("AsBigInteger")
	case model.BigDecimal:
		return fallible("AsBigDecimal")
	case model.String:
		return fallible("AsString")
	case model.Enum:
		return fallible("AsEnum[" + name + "]")
	case model.Timestamp:
		return Expr{Code: w + "AsTimestamp(" + src + ", " + timestampFormatExpr(s.Timestamp) + ")", Fallible: true}, nil
	case model.Document:
		return Expr{Code: call(w+"CloneDocument", src)}, nil
	}
	return Expr{}, ctx.fail(UnsupportedBinding, s.Member, "no document decoding for a %s", s.Shape.Kind)
}
