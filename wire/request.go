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
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	smithyrand "github.com/aws/smithy-go/rand"
)

const (
	ContentTypeJSON        = "application/json"
	ContentTypeAwsJson1_0  = "application/x-amz-json-1.0"
	ContentTypeAwsJson1_1  = "application/x-amz-json-1.1"
	ContentTypeOctetStream = "application/octet-stream"
	ContentTypeText        = "text/plain"

	AmzTargetHeader = "X-Amz-Target"
)

// NewRequest builds a request for the endpoint. The operation path is appended to the path of the
// endpoint, and the operation query (literal query parameters of the URI template) is kept.
func NewRequest(ctx context.Context, method, endpoint, opPath, opQuery string) (*http.Request, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme and host are required", endpoint)
	}
	u.Path = joinPath(u.Path, opPath)
	u.RawPath = ""
	u.RawQuery = opQuery
	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.URL.Path = u.Path
	return req, nil
}

func joinPath(base, p string) string {
	switch {
	case base == "" || base == "/":
		if p == "" {
			return "/"
		}
		return p
	case p == "" || p == "/":
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/")
}

// SetBody sets the request body and its content type. A nil body only sets the content type.
func SetBody(req *http.Request, body []byte, contentType string) {
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if body == nil {
		return
	}
	req.ContentLength = int64(len(body))
	req.Header.Set("Content-Length", strconv.Itoa(len(body)))
	req.Body = io.NopCloser(bytes.NewReader(body))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}
}

// ReadBody reads and closes a response body.
func ReadBody(resp *http.Response) ([]byte, error) {
	if resp.Body == nil {
		return nil, nil
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// NewIdempotencyToken returns a random version 4 UUID.
func NewIdempotencyToken() (string, error) {
	return smithyrand.NewUUIDIdempotencyToken(rand.Reader).GetIdempotencyToken()
}

// ApplyAPIKey places an API key on a request, in the named header or query parameter. With a
// scheme, a header value is "<scheme> <key>".
func ApplyAPIKey(req *http.Request, in, name, scheme, key string) error {
	switch in {
	case "header":
		if scheme != "" {
			key = scheme + " " + key
		}
		req.Header.Set(name, key)
	case "query":
		q := req.URL.Query()
		q.Set(name, key)
		req.URL.RawQuery = q.Encode()
	default:
		return fmt.Errorf("cannot apply api key: unsupported location %q", in)
	}
	return nil
}
