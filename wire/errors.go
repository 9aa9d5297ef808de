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
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

const DefaultRequestIDHeader = "X-Amzn-Requestid"

// ResponseMetadata - what every error response carries besides its body.
type ResponseMetadata struct {
	StatusCode int
	Header     http.Header
	RequestID  string
}

func NewResponseMetadata(resp *http.Response, requestIDHeader string) ResponseMetadata {
	if requestIDHeader == "" {
		requestIDHeader = DefaultRequestIDHeader
	}
	md := ResponseMetadata{StatusCode: resp.StatusCode, Header: resp.Header}
	if resp.Header != nil {
		md.RequestID = resp.Header.Get(requestIDHeader)
	}
	return md
}

// GenericError - an error response whose discriminator did not match any modeled error of the
// operation.
type GenericError struct {
	Code     string
	Message  string
	Fault    smithy.ErrorFault
	Metadata ResponseMetadata
}

func NewGenericError(code string, body any, md ResponseMetadata) *GenericError {
	return &GenericError{
		Code:     code,
		Message:  ErrorMessage(body),
		Fault:    smithy.FaultClient,
		Metadata: md,
	}
}

func (e *GenericError) ErrorCode() string             { return e.Code }
func (e *GenericError) ErrorMessage() string          { return e.Message }
func (e *GenericError) ErrorFault() smithy.ErrorFault { return e.Fault }

func (e *GenericError) Error() string {
	code := e.Code
	if code == "" {
		code = "UnknownError"
	}
	s := fmt.Sprintf("api error %s (status %d)", code, e.Metadata.StatusCode)
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Metadata.RequestID != "" {
		s += ", request id: " + e.Metadata.RequestID
	}
	return s
}

// Unwrap exposes the error as a smithy.GenericAPIError, so that callers can match on it without
// knowing about this package.
func (e *GenericError) Unwrap() error {
	return &smithy.GenericAPIError{Code: e.Code, Message: e.Message, Fault: e.Fault}
}

// ResolveErrorCode finds the error discriminator of a response: the named header if present,
// otherwise the first of the named body fields holding a string.
func ResolveErrorCode(h http.Header, body any, header string, fields ...string) string {
	if header != "" && h != nil {
		if v := h.Get(header); v != "" {
			return SanitizeErrorCode(v)
		}
	}
	if obj, ok := body.(map[string]any); ok {
		for _, f := range fields {
			if s, ok := obj[f].(string); ok && s != "" {
				return SanitizeErrorCode(s)
			}
		}
	}
	return ""
}

// SanitizeErrorCode drops anything after a colon, which some services append to the error type.
// A namespace prefix ("ns#Name") is kept, so that fully qualified names can be matched.
func SanitizeErrorCode(code string) string {
	if i := strings.Index(code, ":"); i >= 0 {
		code = code[:i]
	}
	return strings.TrimSpace(code)
}

// ShortErrorCode strips the namespace from a fully qualified discriminator.
func ShortErrorCode(code string) string {
	if i := strings.LastIndex(code, "#"); i >= 0 {
		return code[i+1:]
	}
	return code
}

func ErrorMessage(body any) string {
	obj, ok := body.(map[string]any)
	if !ok {
		return ""
	}
	for _, k := range []string{"message", "Message", "errorMessage"} {
		if s, ok := obj[k].(string); ok {
			return s
		}
	}
	return ""
}

// ResponseError wraps a failure to decode a response with the response itself.
func ResponseError(resp *http.Response, err error) error {
	return &smithyhttp.ResponseError{
		Response: &smithyhttp.Response{Response: resp},
		Err:      &smithy.DeserializationError{Err: err},
	}
}
