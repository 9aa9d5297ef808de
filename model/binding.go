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
	"errors"
	"fmt"
)

// BindingLocation - where on the wire a member's value is placed.
type BindingLocation int

const (
	DocumentLocation BindingLocation = iota
	Label
	Query
	QueryParams
	Header
	PrefixHeaders
	Payload
	ResponseCode
)

var namesBindingLocation = []string{
	DocumentLocation: "document",
	Label:            "label",
	Query:            "query",
	QueryParams:      "queryParams",
	Header:           "header",
	PrefixHeaders:    "prefixHeaders",
	Payload:          "payload",
	ResponseCode:     "responseCode",
}

func (e BindingLocation) String() string {
	return namesBindingLocation[e]
}

func (e BindingLocation) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

var locationTraits = []struct {
	trait string
	loc   BindingLocation
}{
	{TraitHttpLabel, Label},
	{TraitHttpQuery, Query},
	{TraitHttpQueryParams, QueryParams},
	{TraitHttpHeader, Header},
	{TraitHttpPrefixHeaders, PrefixHeaders},
	{TraitHttpPayload, Payload},
	{TraitHttpResponseCode, ResponseCode},
}

var ErrConflictingBindings = errors.New("conflicting http binding traits")

// Location resolves the HTTP binding of a member. Members with no binding trait are in the document.
// More than one binding trait on a member is an error.
func (m *Member) Location() (BindingLocation, error) {
	loc := DocumentLocation
	found := ""
	for _, lt := range locationTraits {
		if m.Traits.Has(lt.trait) {
			if found != "" {
				return DocumentLocation, fmt.Errorf("%s: %w (%s and %s)", m.Id(), ErrConflictingBindings, found, lt.trait)
			}
			found = lt.trait
			loc = lt.loc
		}
	}
	return loc, nil
}

// LocationName is the header name, query key, or header prefix of a bound member, otherwise the
// member name.
func (m *Member) LocationName() string {
	switch {
	case m.Traits.Has(TraitHttpHeader):
		return m.Traits.GetString(TraitHttpHeader)
	case m.Traits.Has(TraitHttpQuery):
		return m.Traits.GetString(TraitHttpQuery)
	case m.Traits.Has(TraitHttpPrefixHeaders):
		return m.Traits.GetString(TraitHttpPrefixHeaders)
	}
	return string(m.Name)
}

// TimestampFormat - the wire format of a timestamp value.
type TimestampFormat int

const (
	_ TimestampFormat = iota
	DateTime
	HttpDate
	EpochSeconds
)

var namesTimestampFormat = []string{
	DateTime:     "date-time",
	HttpDate:     "http-date",
	EpochSeconds: "epoch-seconds",
}

func (e TimestampFormat) String() string {
	if int(e) <= 0 || int(e) >= len(namesTimestampFormat) {
		return fmt.Sprintf("TimestampFormat(%d)", int(e))
	}
	return namesTimestampFormat[e]
}

var ErrUnknownTimestampFormat = errors.New("unknown timestamp format")

func ParseTimestampFormat(s string) (TimestampFormat, error) {
	for i, n := range namesTimestampFormat {
		if n != "" && n == s {
			return TimestampFormat(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTimestampFormat, s)
}

// ResolveTimestampFormat picks the format of a timestamp member: an explicit timestampFormat trait
// on the member or its target wins, then the default of the binding location, then the protocol's
// document default.
func (schema *Schema) ResolveTimestampFormat(m *Member, loc BindingLocation, documentDefault TimestampFormat) (TimestampFormat, error) {
	if v, ok := schema.MemberTrait(m, TraitTimestampFormat); ok {
		s, _ := v.(string)
		return ParseTimestampFormat(s)
	}
	switch loc {
	case Label, Query:
		return DateTime, nil
	case Header, PrefixHeaders:
		return HttpDate, nil
	}
	if documentDefault == 0 {
		return EpochSeconds, nil
	}
	return documentDefault, nil
}

// HttpTraitOf decodes the smithy.api#http trait of an operation shape.
func HttpTraitOf(traits Traits) *HttpTrait {
	obj := traits.GetObject(TraitHttp)
	if obj == nil {
		return nil
	}
	return &HttpTrait{
		Method: objectString(obj, "method"),
		Uri:    objectString(obj, "uri"),
		Code:   objectInt(obj, "code", 200),
	}
}

// ApiKeyAuth is the decoded smithy.api#httpApiKeyAuth trait.
type ApiKeyAuth struct {
	Name   string `json:"name"`
	In     string `json:"in"`
	Scheme string `json:"scheme,omitempty"`
}

func ApiKeyAuthOf(traits Traits) *ApiKeyAuth {
	obj := traits.GetObject(TraitHttpApiKeyAuth)
	if obj == nil {
		return nil
	}
	return &ApiKeyAuth{
		Name:   objectString(obj, "name"),
		In:     objectString(obj, "in"),
		Scheme: objectString(obj, "scheme"),
	}
}
