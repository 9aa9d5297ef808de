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
package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"net/http"
	"strconv"
)

// ReadDocument decodes one JSON value from r, keeping numbers as json.Number so that no precision is
// lost before the target type is known. An empty body is a nil document.
func ReadDocument(r io.Reader) (any, error) {
	if r == nil {
		return nil, nil
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

// ReadResponseDocument reads the document in a response body, and closes the body.
func ReadResponseDocument(resp *http.Response) (any, error) {
	if resp.Body == nil {
		return nil, nil
	}
	defer resp.Body.Close()
	return ReadDocument(resp.Body)
}

// MarshalDocument encodes a document value without HTML escaping.
func MarshalDocument(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func AsObject(v any) (map[string]any, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, invalid("object", v, nil)
	}
	return m, nil
}

func AsArray(v any) ([]any, error) {
	if v == nil {
		return nil, nil
	}
	a, ok := v.([]any)
	if !ok {
		return nil, invalid("array", v, nil)
	}
	return a, nil
}

func AsString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", invalid("string", v, nil)
	}
	return s, nil
}

func AsBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, invalid("boolean", v, nil)
	}
	return b, nil
}

func numberText(v any) (string, bool) {
	switch n := v.(type) {
	case json.Number:
		return n.String(), true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	}
	return "", false
}

func asInt(v any, bits int, kind string) (int64, error) {
	s, ok := numberText(v)
	if !ok {
		return 0, invalid(kind, v, nil)
	}
	return parseInt(s, bits, kind)
}

func AsInt8(v any) (int8, error) {
	n, err := asInt(v, 8, "byte")
	return int8(n), err
}

func AsInt16(v any) (int16, error) {
	n, err := asInt(v, 16, "short")
	return int16(n), err
}

func AsInt32(v any) (int32, error) {
	n, err := asInt(v, 32, "integer")
	return int32(n), err
}

func AsInt64(v any) (int64, error) {
	return asInt(v, 64, "long")
}

func asFloat(v any, bits int, kind string) (float64, error) {
	switch n := v.(type) {
	case string:
		switch n {
		case nanString, posInfString, negInfString:
			return parseFloat(n, bits, kind)
		}
		return 0, invalid(kind, v, nil)
	case json.Number:
		return parseFloat(n.String(), bits, kind)
	case float64:
		return n, nil
	}
	return 0, invalid(kind, v, nil)
}

func AsFloat32(v any) (float32, error) {
	f, err := asFloat(v, 32, "float")
	return float32(f), err
}

func AsFloat64(v any) (float64, error) {
	return asFloat(v, 64, "double")
}

// EncodeFloat64 is the document form of a double: NaN and the infinities are strings.
func EncodeFloat64(f float64) any {
	if s, ok := formatSpecialFloat(f); ok {
		return s
	}
	return json.Number(strconv.FormatFloat(f, 'g', -1, 64))
}

func EncodeFloat32(f float32) any {
	if s, ok := formatSpecialFloat(float64(f)); ok {
		return s
	}
	return json.Number(strconv.FormatFloat(float64(f), 'g', -1, 32))
}

func AsBigInteger(v any) (*big.Int, error) {
	switch n := v.(type) {
	case json.Number:
		return ParseBigInteger(n.String())
	case string:
		return ParseBigInteger(n)
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			i, _ := big.NewFloat(n).Int(nil)
			return i, nil
		}
	}
	return nil, invalid("bigInteger", v, nil)
}

func AsBigDecimal(v any) (*big.Float, error) {
	switch n := v.(type) {
	case json.Number:
		return ParseBigDecimal(n.String())
	case string:
		return ParseBigDecimal(n)
	case float64:
		return big.NewFloat(n).SetPrec(bigDecimalPrecision), nil
	}
	return nil, invalid("bigDecimal", v, nil)
}

// EncodeBigInteger and EncodeBigDecimal produce JSON number literals from the decimal text, so no
// precision is lost to float64.
func EncodeBigInteger(n *big.Int) any {
	if n == nil {
		return nil
	}
	return json.Number(FormatBigInteger(n))
}

func EncodeBigDecimal(f *big.Float) any {
	if f == nil {
		return nil
	}
	return json.Number(FormatBigDecimal(f))
}

// AsEnum decodes a string enum. Values outside the known set are kept.
func AsEnum[T ~string](v any) (T, error) {
	s, ok := v.(string)
	if !ok {
		return "", invalid("enum", v, nil)
	}
	return T(s), nil
}

func AsIntEnum[T ~int32](v any) (T, error) {
	n, err := asInt(v, 32, "intEnum")
	return T(n), err
}

func ParseIntEnum[T ~int32](s string) (T, error) {
	n, err := parseInt(s, 32, "intEnum")
	return T(n), err
}

// UnionTag finds the variant of a union object: the one member that is not null. An object with no
// such member is an empty union, and yields "". The "__type" key some services add is ignored.
func UnionTag(obj map[string]any) (string, any, error) {
	tag := ""
	var value any
	for k, v := range obj {
		if v == nil || k == "__type" {
			continue
		}
		if tag != "" {
			return "", nil, invalid("union", fmt.Sprintf("%s and %s both set", tag, k), nil)
		}
		tag, value = k, v
	}
	return tag, value, nil
}

func AsBlob(v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, invalid("blob", v, nil)
	}
	return DecodeBlob(s)
}

// CloneDocument deep-copies a schema-less document value.
func CloneDocument(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = CloneDocument(e)
		}
		return m
	case []any:
		a := make([]any, len(t))
		for i, e := range t {
			a[i] = CloneDocument(e)
		}
		return a
	default:
		return v
	}
}
