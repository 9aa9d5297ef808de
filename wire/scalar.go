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
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
)

var ErrInvalidValue = errors.New("invalid value")

// ParseError - a wire value that could not be parsed as the expected kind.
type ParseError struct {
	Kind  string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot parse %q as %s: %v", e.Value, e.Kind, e.Err)
	}
	return fmt.Sprintf("cannot parse %q as %s", e.Value, e.Kind)
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidValue, e.Err}
	}
	return []error{ErrInvalidValue}
}

func invalid(kind string, value any, cause error) error {
	s, ok := value.(string)
	if !ok {
		s = fmt.Sprint(value)
	}
	return &ParseError{Kind: kind, Value: s, Err: cause}
}

const (
	nanString    = "NaN"
	posInfString = "Infinity"
	negInfString = "-Infinity"
)

// precision of parsed big decimals, in bits
const bigDecimalPrecision = 256

func ParseBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, invalid("boolean", s, nil)
}

func FormatBool(b bool) string {
	return strconv.FormatBool(b)
}

func parseInt(s string, bits int, kind string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, bits)
	if err != nil {
		return 0, invalid(kind, s, errors.Unwrap(err))
	}
	return n, nil
}

func ParseInt8(s string) (int8, error) {
	n, err := parseInt(s, 8, "byte")
	return int8(n), err
}

func ParseInt16(s string) (int16, error) {
	n, err := parseInt(s, 16, "short")
	return int16(n), err
}

func ParseInt32(s string) (int32, error) {
	n, err := parseInt(s, 32, "integer")
	return int32(n), err
}

func ParseInt64(s string) (int64, error) {
	return parseInt(s, 64, "long")
}

func FormatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}

func parseFloat(s string, bits int, kind string) (float64, error) {
	switch s {
	case nanString:
		return math.NaN(), nil
	case posInfString:
		return math.Inf(1), nil
	case negInfString:
		return math.Inf(-1), nil
	}
	f, err := strconv.ParseFloat(s, bits)
	if err != nil {
		return 0, invalid(kind, s, errors.Unwrap(err))
	}
	return f, nil
}

func ParseFloat32(s string) (float32, error) {
	f, err := parseFloat(s, 32, "float")
	return float32(f), err
}

func ParseFloat64(s string) (float64, error) {
	return parseFloat(s, 64, "double")
}

func formatSpecialFloat(f float64) (string, bool) {
	switch {
	case math.IsNaN(f):
		return nanString, true
	case math.IsInf(f, 1):
		return posInfString, true
	case math.IsInf(f, -1):
		return negInfString, true
	}
	return "", false
}

func FormatFloat32(f float32) string {
	if s, ok := formatSpecialFloat(float64(f)); ok {
		return s
	}
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

func FormatFloat64(f float64) string {
	if s, ok := formatSpecialFloat(f); ok {
		return s
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func ParseBigInteger(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, invalid("bigInteger", s, nil)
	}
	return n, nil
}

func FormatBigInteger(n *big.Int) string {
	return n.String()
}

func ParseBigDecimal(s string) (*big.Float, error) {
	f, _, err := big.ParseFloat(s, 10, bigDecimalPrecision, big.ToNearestEven)
	if err != nil {
		return nil, invalid("bigDecimal", s, err)
	}
	return f, nil
}

// FormatBigDecimal produces the shortest decimal string that parses back to the same value.
func FormatBigDecimal(f *big.Float) string {
	return f.Text('g', -1)
}

func EncodeBlob(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func DecodeBlob(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, invalid("blob", s, err)
	}
	return b, nil
}
