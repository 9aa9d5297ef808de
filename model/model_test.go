package model

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	schema := NewSchema()
	require.NoError(t, schema.AddShape(&Shape{
		Id:     "example#When",
		Kind:   Timestamp,
		Traits: Traits{TraitTimestampFormat: "epoch-seconds"},
	}))
	require.NoError(t, schema.AddShape(&Shape{
		Id:   "example#Input",
		Kind: Structure,
		Members: []*Member{
			{Name: "id", Target: "smithy.api#String", Traits: Traits{TraitHttpLabel: map[string]any{}, TraitRequired: map[string]any{}}},
			{Name: "since", Target: "smithy.api#Timestamp", Traits: Traits{TraitHttpQuery: "since"}},
			{Name: "at", Target: "smithy.api#Timestamp", Traits: Traits{TraitHttpHeader: "X-At"}},
			{Name: "when", Target: "example#When", Traits: Traits{TraitHttpHeader: "X-When"}},
			{Name: "body", Target: "smithy.api#Timestamp"},
			{Name: "bad", Target: "smithy.api#String", Traits: Traits{TraitHttpHeader: "X-Bad", TraitHttpQuery: "bad"}},
			{Name: "renamed", Target: "smithy.api#String", Traits: Traits{TraitJsonName: "Renamed"}},
		},
	}))
	return schema
}

func TestKindJSON(t *testing.T) {
	b, err := json.Marshal(BigDecimal)
	require.NoError(t, err)
	assert.Equal(t, `"bigDecimal"`, string(b))

	var k Kind
	require.NoError(t, json.Unmarshal([]byte(`"intEnum"`), &k))
	assert.Equal(t, IntEnum, k)
	assert.Error(t, json.Unmarshal([]byte(`"tuple"`), &k))
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, Set.IsCollection())
	assert.True(t, Union.IsAggregate())
	assert.False(t, Document.IsAggregate())
	assert.True(t, Resource.IsEntity())
	assert.True(t, BigInteger.IsNumber())
	assert.False(t, String.IsNumber())
}

func TestMemberLocation(t *testing.T) {
	schema := testSchema(t)
	in := schema.GetShape("example#Input")
	require.NotNil(t, in)

	loc, err := in.GetMember("id").Location()
	require.NoError(t, err)
	assert.Equal(t, Label, loc)

	loc, err = in.GetMember("body").Location()
	require.NoError(t, err)
	assert.Equal(t, DocumentLocation, loc)

	_, err = in.GetMember("bad").Location()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflictingBindings))
	assert.Contains(t, err.Error(), "example#Input$bad")

	assert.Equal(t, "X-At", in.GetMember("at").LocationName())
	assert.Equal(t, "Renamed", in.GetMember("renamed").JsonName())
	assert.Equal(t, "body", in.GetMember("body").JsonName())
}

func TestResolveTimestampFormat(t *testing.T) {
	schema := testSchema(t)
	in := schema.GetShape("example#Input")

	cases := []struct {
		member string
		loc    BindingLocation
		want   TimestampFormat
	}{
		{"since", Query, DateTime},
		{"at", Header, HttpDate},
		{"when", Header, EpochSeconds},
		{"body", DocumentLocation, EpochSeconds},
	}
	for _, c := range cases {
		got, err := schema.ResolveTimestampFormat(in.GetMember(c.member), c.loc, 0)
		require.NoError(t, err, c.member)
		assert.Equal(t, c.want, got, c.member)
	}

	got, err := schema.ResolveTimestampFormat(in.GetMember("body"), DocumentLocation, DateTime)
	require.NoError(t, err)
	assert.Equal(t, DateTime, got)

	m := &Member{Name: "odd", Target: "smithy.api#Timestamp", Traits: Traits{TraitTimestampFormat: "julian"}}
	_, err = schema.ResolveTimestampFormat(m, DocumentLocation, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTimestampFormat))
}

func TestPreludeAndDuplicates(t *testing.T) {
	schema := testSchema(t)
	s := schema.GetShape("smithy.api#Integer")
	require.NotNil(t, s)
	assert.Equal(t, Integer, s.Kind)
	assert.Nil(t, schema.GetShape("example#Missing"))
	assert.Error(t, schema.AddShape(&Shape{Id: "example#When", Kind: Timestamp}))
	assert.Equal(t, AbsoluteIdentifier("example#Input"), schema.GetShape("example#Input").GetMember("id").Container)
}

func TestEnumValues(t *testing.T) {
	m := &Member{Name: "RED", Traits: Traits{TraitEnumValue: "red"}}
	assert.Equal(t, "red", m.EnumValue())
	assert.Equal(t, "BLUE", (&Member{Name: "BLUE"}).EnumValue())
	n := &Member{Name: "ONE", Traits: Traits{TraitEnumValue: float64(1)}}
	assert.Equal(t, 1, n.IntEnumValue())
}

func TestHttpTraitOf(t *testing.T) {
	h := HttpTraitOf(Traits{TraitHttp: map[string]any{"method": "PUT", "uri": "/things/{id}"}})
	require.NotNil(t, h)
	assert.Equal(t, "PUT", h.Method)
	assert.Equal(t, 200, h.Code)
	assert.Nil(t, HttpTraitOf(Traits{}))

	k := ApiKeyAuthOf(Traits{TraitHttpApiKeyAuth: map[string]any{"name": "X-Api-Key", "in": "header"}})
	require.NotNil(t, k)
	assert.Equal(t, "header", k.In)
}
