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
package sadl

import (
	"fmt"

	"github.com/boynton/sadl"
	sadlsmithy "github.com/boynton/sadl/smithy"
	"go.uber.org/zap"

	"github.com/boynton/protogen/common"
	"github.com/boynton/protogen/smithy"
)

// Import reads a SADL file and converts it to a Smithy AST in the given namespace.
func Import(path string, ns string) (*smithy.AST, error) {
	model, err := sadl.ParseSadlFile(path, nil)
	if err != nil {
		return nil, err
	}
	if model.Namespace == "" {
		model.Namespace = ns
	}
	common.Logger().Debug("parsed sadl", zap.String("path", path), zap.String("namespace", model.Namespace))
	converted, err := sadlsmithy.FromSADL(model, model.Namespace)
	if err != nil {
		return nil, fmt.Errorf("Cannot convert %s to smithy: %w", path, err)
	}
	return smithy.FromNode(converted)
}
