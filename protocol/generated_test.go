package protocol

import (
	"go/ast"
	"go/build"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"testing"

	"github.com/boynton/data"
	"github.com/stretchr/testify/require"

	"github.com/boynton/protogen/model"
)

// shopSchema exercises most bindings in one service: labels, query, headers, prefix headers,
// idempotency tokens, timestamps, unions, errors and an event stream.
func shopSchema(t *testing.T) *model.Schema {
	shapes := []*model.Shape{
		{Id: ns + "Sizes", Kind: model.List, Member: member("member", "smithy.api#Integer", nil)},
		{Id: ns + "Dates", Kind: model.List, Member: member("member", "smithy.api#Timestamp", nil)},
		{Id: ns + "Labels", Kind: model.Map, Key: member("key", "smithy.api#String", nil), Value: member("value", "smithy.api#String", nil)},
		structure("Voucher", member("code", "smithy.api#String", nil)),
		{Id: ns + "Payment", Kind: model.Union, Members: []*model.Member{
			member("card", "smithy.api#String", nil),
			member("voucher", ns+"Voucher", nil),
			member("free", model.UnitId, nil),
		}},
		structure("PutThingInput",
			member("id", "smithy.api#String", model.Traits{model.TraitHttpLabel: annotation(), model.TraitRequired: annotation()}),
			member("tag", "smithy.api#String", model.Traits{model.TraitHttpHeader: "X-Tag"}),
			member("count", "smithy.api#Integer", model.Traits{model.TraitHttpQuery: "count"}),
			member("labels", ns+"Labels", model.Traits{model.TraitHttpPrefixHeaders: "X-Label-"}),
			member("token", "smithy.api#String", model.Traits{model.TraitIdempotencyToken: annotation()}),
			member("name", "smithy.api#String", nil),
			member("when", "smithy.api#Timestamp", nil),
			member("sizes", ns+"Sizes", nil),
			member("payment", ns+"Payment", nil),
		),
		structure("PutThingOutput",
			member("tag", "smithy.api#String", model.Traits{model.TraitHttpHeader: "X-Tag"}),
			member("dates", ns+"Dates", model.Traits{model.TraitHttpHeader: "X-Dates"}),
			member("labels", ns+"Labels", model.Traits{model.TraitHttpPrefixHeaders: "X-Label-"}),
			member("status", "smithy.api#Integer", model.Traits{model.TraitHttpResponseCode: annotation()}),
			member("name", "smithy.api#String", nil),
			member("when", "smithy.api#Timestamp", nil),
			member("sizes", ns+"Sizes", nil),
			member("payment", ns+"Payment", nil),
		),
		structure("GetBlobOutput",
			member("data", "smithy.api#Blob", model.Traits{model.TraitHttpPayload: annotation()}),
		),
		{Id: ns + "ValidationException", Kind: model.Structure, Traits: model.Traits{model.TraitError: "client"}, Members: []*model.Member{
			member("message", "smithy.api#String", nil),
			member("field", "smithy.api#String", model.Traits{model.TraitHttpHeader: "X-Field"}),
		}},
		structure("ChatMessage",
			member("topic", "smithy.api#String", model.Traits{model.TraitEventHeader: annotation()}),
			member("text", "smithy.api#String", nil),
		),
		structure("Picture",
			member("data", "smithy.api#Blob", model.Traits{model.TraitEventPayload: annotation()}),
		),
		{Id: ns + "Events", Kind: model.Union, Traits: model.Traits{model.TraitStreaming: annotation()}, Members: []*model.Member{
			member("message", ns+"ChatMessage", nil),
			member("picture", ns+"Picture", nil),
		}},
		structure("ChatInput",
			member("room", "smithy.api#String", model.Traits{model.TraitHttpHeader: "X-Room"}),
			member("events", ns+"Events", model.Traits{model.TraitHttpPayload: annotation()}),
		),
	}
	return newSchema(t, model.ProtocolRestJson1, shapes,
		httpOp("PutThing", "PUT", "/things/{id}", "PutThingInput", "PutThingOutput", "ValidationException"),
		httpOp("GetBlob", "GET", "/blob", "", "GetBlobOutput"),
		httpOp("Chat", "POST", "/chat", "ChatInput", "", "ValidationException"),
	)
}

// writePackage runs the generator with the files written to dir as the named package.
func writePackage(t *testing.T, schema *model.Schema, dir, pkg string) {
	t.Helper()
	conf := data.NewObject()
	conf.Put("outdir", dir)
	conf.Put("package", pkg)
	require.NoError(t, new(Generator).Generate(schema, conf))
}

func TestGeneratedPackageTypeChecks(t *testing.T) {
	if testing.Short() {
		t.Skip("type checks the runtime and its dependencies from source")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("no go command")
	}
	for _, protocol := range []string{model.ProtocolRestJson1, model.ProtocolAwsJson1_0} {
		t.Run(model.StripNamespace(model.AbsoluteIdentifier(protocol)), func(t *testing.T) {
			schema := shopSchema(t)
			schema.Protocol = protocol
			dir := t.TempDir()
			writePackage(t, schema, dir, "shop")

			names, err := filepath.Glob(filepath.Join(dir, "*.go"))
			require.NoError(t, err)
			sort.Strings(names)
			require.Len(t, names, 3)
			fset := token.NewFileSet()
			var files []*ast.File
			for _, name := range names {
				src, err := os.ReadFile(name)
				require.NoError(t, err)
				// a file name with no directory resolves imports from this module
				f, err := parser.ParseFile(fset, filepath.Base(name), src, parser.AllErrors)
				require.NoError(t, err, string(src))
				files = append(files, f)
			}
			build.Default.CgoEnabled = false
			conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
			_, err = conf.Check("example.com/shop", fset, files, nil)
			require.NoError(t, err)
		})
	}
}

const roundTripTest = `package roundtrip

import (
	"context"
	"net/http"
	"reflect"
	"testing"
	"time"
)

func ptrTo[T any](v T) *T { return &v }

func TestRoundTrip(t *testing.T) {
	when := time.Unix(1700000000, 0).UTC()
	in := &PutThingInput{
		ID:      ptrTo("a-1"),
		Tag:     ptrTo("blue"),
		Count:   ptrTo(int32(3)),
		Labels:  map[string]string{"Color": "red"},
		Name:    ptrTo("widget"),
		When:    &when,
		Sizes:   []int32{1, 2},
		Payment: &PaymentMemberVoucher{Value: &Voucher{Code: ptrTo("SAVE")}},
	}
	req, err := SerializePutThingRequest(context.Background(), "https://shop.example.com/v1", in)
	if err != nil {
		t.Fatal(err)
	}
	if req.Method != "PUT" || req.URL.Path != "/v1/things/a-1" {
		t.Fatalf("request line: %s %s", req.Method, req.URL.Path)
	}
	if got := req.URL.Query().Get("count"); got != "3" {
		t.Fatalf("count query: %q", got)
	}
	if got := req.Header.Get("Content-Type"); got != "application/json" {
		t.Fatalf("content type: %q", got)
	}
	if in.Token != nil {
		t.Fatal("the idempotency token is filled in on a copy of the input")
	}

	resp := &http.Response{StatusCode: 201, Header: req.Header, Body: req.Body}
	out, err := DeserializePutThingResponse(context.Background(), resp)
	if err != nil {
		t.Fatal(err)
	}
	if out.Tag == nil || *out.Tag != "blue" {
		t.Fatalf("tag: %v", out.Tag)
	}
	if out.Status == nil || *out.Status != 201 {
		t.Fatalf("status: %v", out.Status)
	}
	if !reflect.DeepEqual(out.Labels, map[string]string{"Color": "red"}) {
		t.Fatalf("labels: %v", out.Labels)
	}
	if out.Name == nil || *out.Name != "widget" {
		t.Fatalf("name: %v", out.Name)
	}
	if out.When == nil || !out.When.Equal(when) {
		t.Fatalf("when: %v", out.When)
	}
	if !reflect.DeepEqual(out.Sizes, []int32{1, 2}) {
		t.Fatalf("sizes: %v", out.Sizes)
	}
	v, ok := out.Payment.(*PaymentMemberVoucher)
	if !ok || v.Value == nil || v.Value.Code == nil || *v.Value.Code != "SAVE" {
		t.Fatalf("payment: %#v", out.Payment)
	}
}
`

func TestGeneratedRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("builds and runs the generated package")
	}
	goCmd, err := exec.LookPath("go")
	if err != nil {
		t.Skip("no go command")
	}
	// inside the module, so the generated package builds against this module's runtime
	dir, err := os.MkdirTemp(".", "roundtrip")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	writePackage(t, shopSchema(t), dir, "roundtrip")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "roundtrip_test.go"), []byte(roundTripTest), 0644))

	cmd := exec.Command(goCmd, "test", "-count=1", "./"+filepath.Base(dir))
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
}
