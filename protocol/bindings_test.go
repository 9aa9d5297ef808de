package protocol

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boynton/protogen/model"
)

func TestUriLabelsProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("placeholders in order", prop.ForAll(
		func(names []string, greedy bool) bool {
			var b strings.Builder
			b.WriteString("/things")
			for i, n := range names {
				b.WriteString("/{" + n)
				if greedy && i == len(names)-1 {
					b.WriteString("+")
				}
				b.WriteString("}")
			}
			b.WriteString("?mode={ignored}")
			got := UriLabels(b.String())
			if len(got) != len(names) {
				return false
			}
			for i := range names {
				if got[i] != names[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
		gen.Bool(),
	))
	properties.TestingRun(t)
}

func TestUriLabels(t *testing.T) {
	assert.Equal(t, []string{"bucket", "key"}, UriLabels("/{bucket}/{key+}?x-id=GetObject"))
	assert.Nil(t, UriLabels("/things"))
}

func TestOutputBindings(t *testing.T) {
	shapes := []*model.Shape{
		structure("GetThingOutput",
			member("id", "smithy.api#String", model.Traits{model.TraitHttpLabel: annotation()}),
			member("limit", "smithy.api#Integer", model.Traits{model.TraitHttpQuery: "limit"}),
			member("etag", "smithy.api#String", model.Traits{model.TraitHttpHeader: "ETag"}),
			member("status", "smithy.api#Integer", model.Traits{model.TraitHttpResponseCode: annotation()}),
		),
	}
	schema := newSchema(t, model.ProtocolRestJson1, shapes, httpOp("GetThing", "GET", "/things/{id}", "", "GetThingOutput"))
	ctx := newContext(t, schema, Deserialize)
	b, err := ctx.ResolveBindings(schema.Operations[0], schema.GetShape(ns+"GetThingOutput"), false)
	require.NoError(t, err)
	var documented []string
	for _, m := range b.Documented() {
		documented = append(documented, string(m.Name))
	}
	assert.Equal(t, []string{"id", "limit"}, documented)
	require.Len(t, b.Get(model.Header), 1)
	assert.Equal(t, "ETag", b.Get(model.Header)[0].Name)
	assert.Len(t, b.Get(model.ResponseCode), 1)
	assert.Nil(t, b.Payload())
}

func TestConflictingBindings(t *testing.T) {
	shapes := []*model.Shape{
		structure("PutThingInput",
			member("name", "smithy.api#String", model.Traits{model.TraitHttpHeader: "X-Name", model.TraitHttpQuery: "name"}),
		),
	}
	schema := newSchema(t, model.ProtocolRestJson1, shapes, httpOp("PutThing", "PUT", "/things", "PutThingInput", ""))
	_, err := generate(t, schema, Serialize)
	requireGenerationError(t, err, ErrUnsupportedBinding)
}

func TestCheckBinding(t *testing.T) {
	shapes := []*model.Shape{
		{Id: ns + "Counts", Kind: model.Map, Key: member("key", "smithy.api#String", nil), Value: member("value", "smithy.api#Integer", nil)},
		structure("Nested", member("a", "smithy.api#String", nil)),
	}
	cases := []struct {
		name   string
		dir    Direction
		member *model.Member
		err    error
	}{
		{"query params of integers", Serialize, member("q", ns+"Counts", model.Traits{model.TraitHttpQueryParams: annotation()}), ErrUnsupportedBinding},
		{"prefix headers of integers", Deserialize, member("h", ns+"Counts", model.Traits{model.TraitHttpPrefixHeaders: "X-"}), ErrUnsupportedBinding},
		{"structure header", Serialize, member("h", ns+"Nested", model.Traits{model.TraitHttpHeader: "X-Nested"}), ErrUnsupportedBinding},
		{"empty header name", Deserialize, member("h", "smithy.api#String", model.Traits{model.TraitHttpHeader: ""}), ErrInvalidTraitValue},
		{"long response code", Deserialize, member("code", "smithy.api#Long", model.Traits{model.TraitHttpResponseCode: annotation()}), ErrUnsupportedBinding},
		{"timestamp payload", Serialize, member("p", "smithy.api#Timestamp", model.Traits{model.TraitHttpPayload: annotation()}), ErrUnsupportedBinding},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			all := append([]*model.Shape{structure("ThingData", c.member)}, shapes...)
			op := httpOp("Thing", "POST", "/thing", "ThingData", "")
			if c.dir == Deserialize {
				op = httpOp("Thing", "POST", "/thing", "", "ThingData")
			}
			schema := newSchema(t, model.ProtocolRestJson1, all, op)
			_, err := generate(t, schema, c.dir)
			requireGenerationError(t, err, c.err)
		})
	}
}
