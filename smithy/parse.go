/*
Copyright 2021 Lee R. Boynton

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
package smithy

import (
	"encoding/json"
	"fmt"

	idl "github.com/boynton/smithy"
)

// Parse reads a Smithy IDL file.
func Parse(path string) (*AST, error) {
	parsed, err := idl.Parse(path)
	if err != nil {
		return nil, err
	}
	return FromNode(parsed)
}

// FromNode converts any value that marshals to the Smithy JSON AST, such as the AST of another
// Smithy library, into an AST.
func FromNode(v any) (*AST, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("Cannot encode Smithy AST: %w", err)
	}
	return DecodeAST(b)
}
