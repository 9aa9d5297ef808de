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

// Package wire is the runtime support imported by the serializers and deserializers that protogen
// generates: strict scalar parsing, JSON document access, timestamp formats, header list
// splitting, typed error responses, and event stream framing.
//
// Parsing is strict. A value that does not have exactly the expected form is an error wrapping
// ErrInvalidValue; nothing is coerced.
package wire
