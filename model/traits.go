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
package model

import (
	"encoding/json"
)

const (
	TraitDocumentation     = "smithy.api#documentation"
	TraitRequired          = "smithy.api#required"
	TraitSensitive         = "smithy.api#sensitive"
	TraitEnumValue         = "smithy.api#enumValue"
	TraitJsonName          = "smithy.api#jsonName"
	TraitIdempotencyToken  = "smithy.api#idempotencyToken"
	TraitTimestampFormat   = "smithy.api#timestampFormat"
	TraitMediaType         = "smithy.api#mediaType"
	TraitHttp              = "smithy.api#http"
	TraitHttpLabel         = "smithy.api#httpLabel"
	TraitHttpQuery         = "smithy.api#httpQuery"
	TraitHttpQueryParams   = "smithy.api#httpQueryParams"
	TraitHttpHeader        = "smithy.api#httpHeader"
	TraitHttpPrefixHeaders = "smithy.api#httpPrefixHeaders"
	TraitHttpPayload       = "smithy.api#httpPayload"
	TraitHttpResponseCode  = "smithy.api#httpResponseCode"
	TraitHttpError         = "smithy.api#httpError"
	TraitHttpApiKeyAuth    = "smithy.api#httpApiKeyAuth"
	TraitError             = "smithy.api#error"
	TraitStreaming         = "smithy.api#streaming"
	TraitEventHeader       = "smithy.api#eventHeader"
	TraitEventPayload      = "smithy.api#eventPayload"
	TraitInput             = "smithy.api#input"
	TraitOutput            = "smithy.api#output"
	TraitTags              = "smithy.api#tags"
)

const (
	ProtocolRestJson1  = "aws.protocols#restJson1"
	ProtocolAwsJson1_0 = "aws.protocols#awsJson1_0"
	ProtocolAwsJson1_1 = "aws.protocols#awsJson1_1"
)

// Traits - the trait bag of a shape or member, keyed by absolute trait id. Values are the decoded
// JSON node values from the Smithy AST.
type Traits map[string]any

func (t Traits) Has(id string) bool {
	if t == nil {
		return false
	}
	_, ok := t[id]
	return ok
}

func (t Traits) Get(id string) any {
	if t == nil {
		return nil
	}
	return t[id]
}

func (t Traits) GetString(id string) string {
	if s, ok := t.Get(id).(string); ok {
		return s
	}
	return ""
}

// GetBool treats an annotation trait (an empty object) as true.
func (t Traits) GetBool(id string) bool {
	switch v := t.Get(id).(type) {
	case bool:
		return v
	case nil:
		return false
	default:
		return true
	}
}

func (t Traits) GetInt(id string, def int) int {
	switch v := t.Get(id).(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return def
}

func (t Traits) GetObject(id string) map[string]any {
	if m, ok := t.Get(id).(map[string]any); ok {
		return m
	}
	return nil
}

func (t Traits) GetStringSlice(id string) []string {
	lst, ok := t.Get(id).([]any)
	if !ok {
		return nil
	}
	var result []string
	for _, v := range lst {
		if s, ok := v.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

func objectString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func objectInt(m map[string]any, key string, def int) int {
	if m == nil {
		return def
	}
	return Traits(m).GetInt(key, def)
}
