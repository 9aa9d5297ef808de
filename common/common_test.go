package common

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/boynton/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boynton/protogen/model"
)

func TestSink(t *testing.T) {
	s := NewSink("Serializers.", "shop")
	s.Import("", "net/http")
	s.Import("wire", "github.com/boynton/protogen/wire")
	s.Import("", "github.com/boynton/protogen/wire")
	s.Import("rt", "example.com/runtime")
	s.Import("smithy", "github.com/aws/smithy-go")
	assert.True(t, s.Declare("b", "func b() {}"))
	assert.True(t, s.Declare("a", "func a() {}\n"))
	assert.False(t, s.Declare("b", "func b() { panic(1) }"))
	assert.True(t, s.Has("a"))
	require.Len(t, s.Decls(), 2)
	assert.Equal(t, "b", s.Decls()[0].Name, "declarations keep their order")

	src := s.Source()
	assert.True(t, strings.HasPrefix(src, "// Code generated by protogen. DO NOT EDIT.\n//\n// Serializers.\n\npackage shop\n"))
	assert.Contains(t, src, "import (\n\trt \"example.com/runtime\"\n")
	assert.Contains(t, src, "\tsmithy \"github.com/aws/smithy-go\"\n", "a package name that differs from the path keeps its alias")
	assert.Contains(t, src, "\t\"github.com/boynton/protogen/wire\"\n", "an alias equal to the base name is dropped")
	assert.Contains(t, src, "\nfunc b() {}\n\nfunc a() {}\n")
	assert.NotContains(t, src, "panic")
}

func TestConfig(t *testing.T) {
	conf := data.NewObject()
	err := DecodeConfig([]byte("package: weather\nsort: true\ngolang:\n  wirePackage: example.com/wire\n"), conf)
	require.NoError(t, err)
	assert.Equal(t, "weather", ConfigString(conf, "package", "api"))
	assert.Equal(t, "example.com/wire", ConfigString(conf, "golang.wirePackage", ""))
	assert.True(t, conf.GetBool("sort"))
	assert.Equal(t, "X-Amzn-Requestid", ConfigString(conf, "requestIdHeader", "X-Amzn-Requestid"))
	assert.Equal(t, "dflt", ConfigString(nil, "package", "dflt"))

	assert.Error(t, DecodeConfig([]byte("[unbalanced"), conf))
	assert.Error(t, LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), conf))
}

func TestFormatComment(t *testing.T) {
	text := FormatComment("\t", "// ", "The quick brown fox jumps over the lazy dog.\nSecond paragraph.", 24, false)
	assert.Equal(t, "\t// The quick brown fox\n\t// jumps over the lazy\n\t// dog.\n\t// Second paragraph.\n", text)
	assert.Equal(t, "//\n// hi\n//\n", FormatComment("", "// ", "  hi \n", 80, true))
}

func summarySchema(t *testing.T) *model.Schema {
	schema := model.NewSchema()
	schema.Id = "example.shop#Shop"
	schema.Version = "2024-01-01"
	schema.Protocol = model.ProtocolRestJson1
	in := &model.Shape{Id: "example.shop#GetItemInput", Kind: model.Structure, Members: []*model.Member{
		{Name: "id", Target: "smithy.api#String", Traits: model.Traits{model.TraitHttpLabel: map[string]any{}, model.TraitRequired: map[string]any{}}},
		{Name: "token", Target: "smithy.api#String", Traits: model.Traits{model.TraitHttpHeader: "X-Token", model.TraitSensitive: map[string]any{}}},
		{Name: "both", Target: "smithy.api#String", Traits: model.Traits{model.TraitHttpHeader: "X-Both", model.TraitHttpQuery: "both"}},
	}}
	require.NoError(t, schema.AddShape(in))
	require.NoError(t, schema.AddOperationDef(&model.OperationDef{
		Id:     "example.shop#GetItem",
		Input:  in.Id,
		Errors: []model.AbsoluteIdentifier{"example.shop#NotFound"},
		Http:   &model.HttpTrait{Method: "GET", Uri: "/items/{id}", Code: 200},
	}))
	return schema
}

func TestSummaryGenerator(t *testing.T) {
	var out bytes.Buffer
	gen := &SummaryGenerator{}
	gen.Stdout = &out
	require.NoError(t, gen.Generate(summarySchema(t), nil))
	text := out.String()
	assert.Contains(t, text, "namespace example.shop\nservice Shop v2024-01-01 (restJson1)\n")
	assert.Contains(t, text, "operation GetItem GET /items/{id}\n")
	assert.Contains(t, text, "    input GetItemInput\n")
	assert.Contains(t, text, "        id: label string [required]\n")
	assert.Contains(t, text, "        token: header X-Token string [sensitive]\n")
	assert.Contains(t, text, "        both: conflicting bindings\n")
	assert.Contains(t, text, "    errors NotFound\n")
}

func TestWriteForce(t *testing.T) {
	dir := t.TempDir()
	conf := data.NewObject()
	conf.Put("outdir", dir)
	gen := &BaseGenerator{}
	require.NoError(t, gen.Configure(summarySchema(t), conf))
	require.NoError(t, gen.Write("one", "out.txt", ""))

	gen = &BaseGenerator{}
	require.NoError(t, gen.Configure(summarySchema(t), conf))
	assert.Error(t, gen.Write("two", "out.txt", ""), "existing files are kept without force")
	assert.Error(t, gen.Write("three", "other.txt", ""), "the first failure sticks")

	conf.Put("force", true)
	gen = &BaseGenerator{}
	require.NoError(t, gen.Configure(summarySchema(t), conf))
	require.NoError(t, gen.Write("two", "out.txt", ""))
	b, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(b))
}

func TestGoSymbols(t *testing.T) {
	var sym Symbols = GoSymbols{}
	assert.Equal(t, "GetItemInput", sym.Name("example.shop#GetItemInput"))
	assert.Equal(t, "ItemName", sym.Member(&model.Member{Name: "itemName"}))
	assert.Equal(t, "GetItem", sym.Operation(&model.OperationDef{Id: "example.shop#GetItem"}))
}
