package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarRoundTripProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("byte", prop.ForAll(
		func(n int8) bool {
			v, err := ParseInt8(FormatInt(int64(n)))
			return err == nil && v == n
		},
		gen.Int8(),
	))
	properties.Property("short", prop.ForAll(
		func(n int16) bool {
			v, err := ParseInt16(FormatInt(int64(n)))
			return err == nil && v == n
		},
		gen.Int16(),
	))
	properties.Property("integer", prop.ForAll(
		func(n int32) bool {
			v, err := ParseInt32(FormatInt(int64(n)))
			return err == nil && v == n
		},
		gen.Int32(),
	))
	properties.Property("long", prop.ForAll(
		func(n int64) bool {
			v, err := ParseInt64(FormatInt(n))
			return err == nil && v == n
		},
		gen.Int64(),
	))
	properties.Property("long in a document", prop.ForAll(
		func(n int64) bool {
			doc := roundTripDocument(t, map[string]any{"n": json.Number(FormatInt(n))})
			v, err := AsInt64(doc.(map[string]any)["n"])
			return err == nil && v == n
		},
		gen.Int64(),
	))
	properties.Property("float", prop.ForAll(
		func(f float32) bool {
			v, err := ParseFloat32(FormatFloat32(f))
			return err == nil && v == f
		},
		gen.Float32(),
	))
	properties.Property("double", prop.ForAll(
		func(f float64) bool {
			v, err := ParseFloat64(FormatFloat64(f))
			return err == nil && v == f
		},
		gen.Float64(),
	))
	properties.Property("double in a document", prop.ForAll(
		func(f float64) bool {
			doc := roundTripDocument(t, []any{EncodeFloat64(f)})
			v, err := AsFloat64(doc.([]any)[0])
			return err == nil && v == f
		},
		gen.Float64(),
	))
	properties.Property("boolean", prop.ForAll(
		func(b bool) bool {
			v, err := ParseBool(FormatBool(b))
			return err == nil && v == b
		},
		gen.Bool(),
	))
	properties.Property("string in a document", prop.ForAll(
		func(s string) bool {
			doc := roundTripDocument(t, s)
			v, err := AsString(doc)
			return err == nil && v == s
		},
		gen.AnyString(),
	))
	properties.Property("blob", prop.ForAll(
		func(b []byte) bool {
			v, err := DecodeBlob(EncodeBlob(b))
			return err == nil && bytes.Equal(v, b)
		},
		gen.SliceOf(gen.UInt8()),
	))
	properties.Property("bigInteger", prop.ForAll(
		func(n int64) bool {
			x := new(big.Int).Mul(big.NewInt(n), big.NewInt(n))
			v, err := AsBigInteger(roundTripDocument(t, EncodeBigInteger(x)))
			return err == nil && v.Cmp(x) == 0
		},
		gen.Int64(),
	))
	properties.Property("epoch-seconds timestamp", prop.ForAll(
		func(ms int64) bool {
			ts := time.UnixMilli(ms).UTC()
			v, err := ParseEpochSeconds(FormatEpochSeconds(ts))
			return err == nil && v.Equal(ts)
		},
		gen.Int64Range(0, 4102444800000),
	))
	properties.Property("date-time timestamp", prop.ForAll(
		func(ms int64) bool {
			ts := time.UnixMilli(ms).UTC()
			v, err := ParseTimestamp(FormatTimestamp(ts, DateTime), DateTime)
			return err == nil && v.Equal(ts)
		},
		gen.Int64Range(0, 4102444800000),
	))
	properties.Property("http-date timestamp", prop.ForAll(
		func(sec int64) bool {
			ts := time.Unix(sec, 0).UTC()
			v, err := ParseTimestamp(FormatTimestamp(ts, HTTPDate), HTTPDate)
			return err == nil && v.Equal(ts)
		},
		gen.Int64Range(0, 4102444800),
	))

	properties.TestingRun(t)
}

func roundTripDocument(t *testing.T, v any) any {
	b, err := MarshalDocument(v)
	if err != nil {
		t.Fatalf("cannot marshal %v: %v", v, err)
	}
	doc, err := ReadDocument(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("cannot read %s: %v", b, err)
	}
	return doc
}

func TestIntegerLimits(t *testing.T) {
	v8, err := ParseInt8("-128")
	require.NoError(t, err)
	assert.Equal(t, int8(math.MinInt8), v8)
	_, err = ParseInt8("128")
	assert.ErrorIs(t, err, ErrInvalidValue)

	v64, err := ParseInt64("9223372036854775807")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), v64)
	_, err = ParseInt64("9223372036854775808")
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = AsInt32(json.Number("2147483648"))
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = AsInt32(json.Number("1.5"))
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestStrictParsing(t *testing.T) {
	for _, s := range []string{"True", "1", "yes", ""} {
		_, err := ParseBool(s)
		assert.ErrorIs(t, err, ErrInvalidValue, s)
	}
	_, err := ParseInt32("12abc")
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "integer", pe.Kind)
	assert.Equal(t, "12abc", pe.Value)

	_, err = AsBool("true")
	assert.ErrorIs(t, err, ErrInvalidValue, "a string is not a JSON boolean")
	_, err = AsFloat64("1.5")
	assert.ErrorIs(t, err, ErrInvalidValue, "only the special values may be strings")
	_, err = DecodeBlob("not base64!")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestSpecialFloats(t *testing.T) {
	assert.Equal(t, "NaN", FormatFloat64(math.NaN()))
	assert.Equal(t, "Infinity", FormatFloat32(float32(math.Inf(1))))
	assert.Equal(t, "-Infinity", EncodeFloat64(math.Inf(-1)))

	f, err := ParseFloat64("-Infinity")
	require.NoError(t, err)
	assert.True(t, math.IsInf(f, -1))
	f, err = AsFloat64("NaN")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(f))
	assert.Equal(t, json.Number("1.5"), EncodeFloat64(1.5))
}

func TestBigDecimal(t *testing.T) {
	d, err := ParseBigDecimal("123456789012345678901234567890.125")
	require.NoError(t, err)
	assert.Equal(t, "1.23456789012345678901234567890125e+29", FormatBigDecimal(d))
	d, err = AsBigDecimal(json.Number("0.1"))
	require.NoError(t, err)
	assert.Equal(t, "0.1", FormatBigDecimal(d))
	_, err = ParseBigDecimal("1.2.3")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestEpochSecondsFraction(t *testing.T) {
	ts, err := ParseEpochSeconds("1700000000.500")
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000500), ts.UnixMilli())
	assert.Equal(t, "1700000000.5", FormatEpochSeconds(ts))

	ts, err = ParseEpochSeconds("1700000000.1234")
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000123), ts.UnixMilli(), "rounded to the millisecond")
	assert.Equal(t, "1700000000", FormatEpochSeconds(time.Unix(1700000000, 0)))

	_, err = ParseEpochSeconds("soon")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestDocumentTimestamps(t *testing.T) {
	ts := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
	assert.Equal(t, json.Number("1700000000"), EncodeTimestamp(ts, EpochSeconds))
	assert.Equal(t, "2023-11-14T22:13:20Z", EncodeTimestamp(ts, DateTime))
	assert.Equal(t, "Tue, 14 Nov 2023 22:13:20 GMT", EncodeTimestamp(ts, HTTPDate))

	v, err := AsTimestamp(json.Number("1700000000"), EpochSeconds)
	require.NoError(t, err)
	assert.True(t, v.Equal(ts))
	_, err = AsTimestamp("1700000000", EpochSeconds)
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = AsTimestamp("yesterday", DateTime)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestDocuments(t *testing.T) {
	doc, err := ReadDocument(strings.NewReader(`{"a": [1, "x", {"b": null}], "big": 12345678901234567890}`))
	require.NoError(t, err)
	obj, err := AsObject(doc)
	require.NoError(t, err)
	assert.Equal(t, json.Number("12345678901234567890"), obj["big"])

	clone := CloneDocument(doc).(map[string]any)
	clone["a"].([]any)[0] = "changed"
	assert.Equal(t, json.Number("1"), obj["a"].([]any)[0], "the clone is deep")

	doc, err = ReadDocument(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, doc)

	b, err := MarshalDocument(map[string]any{"html": "<b>"})
	require.NoError(t, err)
	assert.Equal(t, `{"html":"<b>"}`, string(b))

	_, err = AsArray(map[string]any{})
	assert.ErrorIs(t, err, ErrInvalidValue)
}

type color string

type level int32

func TestEnums(t *testing.T) {
	c, err := AsEnum[color]("chartreuse")
	require.NoError(t, err)
	assert.Equal(t, color("chartreuse"), c, "unknown values are kept")
	_, err = AsEnum[color](json.Number("1"))
	assert.ErrorIs(t, err, ErrInvalidValue)

	l, err := AsIntEnum[level](json.Number("3"))
	require.NoError(t, err)
	assert.Equal(t, level(3), l)
	l, err = ParseIntEnum[level]("-7")
	require.NoError(t, err)
	assert.Equal(t, level(-7), l)
	_, err = ParseIntEnum[level]("4294967296")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestUnionTag(t *testing.T) {
	tag, v, err := UnionTag(map[string]any{"card": "4111", "voucher": nil, "__type": "Payment"})
	require.NoError(t, err)
	assert.Equal(t, "card", tag)
	assert.Equal(t, "4111", v)

	tag, v, err = UnionTag(map[string]any{"card": nil})
	require.NoError(t, err)
	assert.Empty(t, tag)
	assert.Nil(t, v)

	_, _, err = UnionTag(map[string]any{"card": "4111", "voucher": map[string]any{}})
	assert.ErrorIs(t, err, ErrInvalidValue)
}
