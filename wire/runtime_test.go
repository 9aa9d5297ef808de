package wire

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws/protocol/eventstream"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitHTTPDateList(t *testing.T) {
	h := http.Header{}
	h.Set("X-Dates", "Mon, 16 Dec 2019 23:48:18 GMT, Tue, 17 Dec 2019 23:48:18 GMT")
	lst, err := SplitHTTPDateList(h, "x-dates")
	require.NoError(t, err)
	require.Len(t, lst, 2)
	assert.Equal(t, "Mon, 16 Dec 2019 23:48:18 GMT", lst[0])
	assert.Equal(t, "Tue, 17 Dec 2019 23:48:18 GMT", lst[1])

	ts, err := ParseTimestamp(lst[1], HTTPDate)
	require.NoError(t, err)
	assert.Equal(t, 17, ts.Day())
}

func TestSplitHeaderList(t *testing.T) {
	h := http.Header{}
	h.Add("X-Tags", `a, "b,c"`)
	h.Add("X-Tags", "d")
	lst, err := SplitHeaderList(h, "X-Tags")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b,c", "d"}, lst)

	lst, err = SplitHeaderList(h, "X-Missing")
	require.NoError(t, err)
	assert.Nil(t, lst)

	assert.Equal(t, `a,"b,c",d`, JoinHeaderList([]string{"a", "b,c", "d"}))
}

func TestHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("X-Meta-Color", "blue")
	h.Set("X-Meta-Size", "10")
	h.Set("X-Other", "no")
	assert.Equal(t, map[string]string{"Color": "blue", "Size": "10"}, PrefixHeaders(h, "x-meta-"))
	assert.Nil(t, PrefixHeaders(h, "X-None-"))

	v, ok := HeaderValue(h, "x-other")
	assert.True(t, ok)
	assert.Equal(t, "no", v)
	_, ok = HeaderValue(h, "x-nope")
	assert.False(t, ok)

	enc := EncodeMediaTypeHeader(`{"k": "värde"}`)
	dec, err := DecodeMediaTypeHeader(enc)
	require.NoError(t, err)
	assert.Equal(t, `{"k": "värde"}`, dec)
	_, err = DecodeMediaTypeHeader(EncodeBlob([]byte{0xff, 0xfe}))
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func errorResponse(status int, header http.Header) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{StatusCode: status, Header: header}
}

func TestResolveErrorCode(t *testing.T) {
	h := http.Header{}
	h.Set("X-Amzn-Errortype", "ValidationException:http://internal.amazon.com/coral/com.amazon.coral.validate/")
	assert.Equal(t, "ValidationException", ResolveErrorCode(h, nil, "X-Amzn-Errortype", "code", "__type"))

	body := map[string]any{"__type": "com.example#ValidationException", "code": 7}
	assert.Equal(t, "com.example#ValidationException", ResolveErrorCode(http.Header{}, body, "X-Amzn-Errortype", "code", "__type"))
	assert.Equal(t, "ValidationException", ShortErrorCode("com.example#ValidationException"))

	body = map[string]any{"code": "Boom", "__type": "Other"}
	assert.Equal(t, "Boom", ResolveErrorCode(http.Header{}, body, "X-Amzn-Errortype", "code", "__type"))
	assert.Equal(t, "Other", ResolveErrorCode(http.Header{}, body, "X-Amzn-Errortype", "__type", "code"))
	assert.Equal(t, "", ResolveErrorCode(nil, "not an object", "X-Amzn-Errortype", "code"))
}

func TestGenericError(t *testing.T) {
	h := http.Header{}
	h.Set("X-Amzn-Requestid", "req-1")
	md := NewResponseMetadata(errorResponse(418, h), "")
	err := error(NewGenericError("Boom", map[string]any{"Message": "it broke"}, md))

	var ge *GenericError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, "Boom", ge.ErrorCode())
	assert.Equal(t, "it broke", ge.ErrorMessage())
	assert.Equal(t, smithy.FaultClient, ge.ErrorFault())
	assert.Equal(t, 418, ge.Metadata.StatusCode)
	assert.Equal(t, "req-1", ge.Metadata.RequestID)
	assert.Contains(t, err.Error(), "Boom")

	var apiErr smithy.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Boom", apiErr.ErrorCode())

	var generic *smithy.GenericAPIError
	require.True(t, errors.As(err, &generic))
	assert.Equal(t, smithy.FaultClient, generic.Fault)

	md = NewResponseMetadata(errorResponse(500, h), "X-Custom-Id")
	assert.Empty(t, md.RequestID)
}

func TestEventStreamWriter(t *testing.T) {
	msg := NewEvent("Chunk", ContentTypeJSON)
	msg.Headers.Set("seq", eventstream.Int32Value(3))
	msg.Payload = []byte(`{"text":"hi"}`)

	var buf bytes.Buffer
	w := NewEventStreamWriter(&buf)
	require.NoError(t, w.Send(context.Background(), msg))
	require.NoError(t, w.Send(context.Background(), NewEvent("End", ContentTypeJSON)))

	dec := eventstream.NewDecoder()
	got, err := dec.Decode(&buf, nil)
	require.NoError(t, err)
	assert.Equal(t, "Chunk", EventHeaderString(got, EventTypeHeader))
	assert.Equal(t, "event", EventHeaderString(got, MessageTypeHeader))
	assert.Equal(t, ContentTypeJSON, EventHeaderString(got, ContentTypeHeader))
	assert.Equal(t, eventstream.Int32Value(3), got.Headers.Get("seq"))
	assert.Equal(t, `{"text":"hi"}`, string(got.Payload))

	got, err = dec.Decode(&buf, nil)
	require.NoError(t, err)
	assert.Equal(t, "End", EventHeaderString(got, EventTypeHeader))
	assert.Empty(t, got.Payload)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, w.Send(ctx, msg), context.Canceled)
}

func TestNewRequest(t *testing.T) {
	req, err := NewRequest(context.Background(), "PUT", "https://api.example.com/v1/", "/cities/{cityId}", "mode=fast")
	require.NoError(t, err)
	assert.Equal(t, "PUT", req.Method)
	assert.Equal(t, "/v1/cities/{cityId}", req.URL.Path)
	assert.Equal(t, "mode=fast", req.URL.RawQuery)
	assert.Equal(t, "api.example.com", req.URL.Host)

	req, err = NewRequest(context.Background(), "POST", "http://localhost:8080", "", "")
	require.NoError(t, err)
	assert.Equal(t, "/", req.URL.Path)

	_, err = NewRequest(context.Background(), "GET", "not a url", "/", "")
	assert.Error(t, err)

	SetBody(req, []byte(`{}`), ContentTypeAwsJson1_1)
	assert.Equal(t, ContentTypeAwsJson1_1, req.Header.Get("Content-Type"))
	assert.Equal(t, int64(2), req.ContentLength)
	body, err := req.GetBody()
	require.NoError(t, err)
	b, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))
}

func TestApplyAPIKey(t *testing.T) {
	req, err := NewRequest(context.Background(), "GET", "https://api.example.com", "/things", "a=1")
	require.NoError(t, err)
	require.NoError(t, ApplyAPIKey(req, "header", "Authorization", "Bearer", "secret"))
	assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"))
	require.NoError(t, ApplyAPIKey(req, "query", "api_key", "", "secret"))
	assert.Equal(t, "secret", req.URL.Query().Get("api_key"))
	assert.Equal(t, "1", req.URL.Query().Get("a"))
	assert.Error(t, ApplyAPIKey(req, "cookie", "k", "", "secret"))

	tok, err := NewIdempotencyToken()
	require.NoError(t, err)
	assert.Len(t, tok, 36)
}
