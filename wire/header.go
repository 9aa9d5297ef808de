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
	"net/http"
	"strings"
	"unicode/utf8"

	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// HeaderValue returns the first value of the header, and whether it was present at all.
func HeaderValue(h http.Header, name string) (string, bool) {
	vs := h.Values(name)
	if len(vs) == 0 {
		return "", false
	}
	return strings.TrimSpace(vs[0]), true
}

// SplitHeaderList splits a list-valued header into its elements. Repeated header lines and comma
// separated values are both accepted, and quoted elements may contain commas.
func SplitHeaderList(h http.Header, name string) ([]string, error) {
	vs := h.Values(name)
	if len(vs) == 0 {
		return nil, nil
	}
	lst, err := smithyhttp.SplitHeaderListValues(vs)
	if err != nil {
		return nil, invalid("header list", strings.Join(vs, ","), err)
	}
	return lst, nil
}

// SplitHTTPDateList splits a list of http-date timestamps. Every http-date contains one comma of its
// own, so the elements are separated by every second comma.
func SplitHTTPDateList(h http.Header, name string) ([]string, error) {
	vs := h.Values(name)
	if len(vs) == 0 {
		return nil, nil
	}
	lst, err := smithyhttp.SplitHTTPDateTimestampHeaderListValues(vs)
	if err != nil {
		return nil, invalid("http-date list", strings.Join(vs, ","), err)
	}
	return lst, nil
}

// JoinHeaderList is the inverse of SplitHeaderList. Elements containing a comma or a double quote
// are quoted.
func JoinHeaderList(vs []string) string {
	quoted := make([]string, len(vs))
	for i, v := range vs {
		if strings.ContainsAny(v, ",\"") {
			v = `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
		}
		quoted[i] = v
	}
	return strings.Join(quoted, ",")
}

// EncodeMediaTypeHeader encodes a string with a media type for use as a header value.
func EncodeMediaTypeHeader(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// DecodeMediaTypeHeader reverses EncodeMediaTypeHeader. The decoded bytes must be valid UTF-8.
func DecodeMediaTypeHeader(s string) (string, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", invalid("media type header", s, err)
	}
	if !utf8.Valid(b) {
		return "", invalid("media type header", s, nil)
	}
	return string(b), nil
}

// PrefixHeaders collects the headers whose names start with prefix, keyed by the rest of the name.
// Matching is case insensitive; the keys are in canonical header form, minus the prefix.
func PrefixHeaders(h http.Header, prefix string) map[string]string {
	var m map[string]string
	lp := strings.ToLower(prefix)
	for k, vs := range h {
		if len(vs) == 0 || !strings.HasPrefix(strings.ToLower(k), lp) {
			continue
		}
		if m == nil {
			m = make(map[string]string)
		}
		m[k[len(prefix):]] = vs[0]
	}
	return m
}
