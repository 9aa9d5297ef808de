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
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/boynton/protogen/common"
	"github.com/boynton/protogen/model"
	"github.com/boynton/protogen/sadl"
	"github.com/boynton/protogen/smithy"
)

var ImportFileExtensions = map[string]bool{
	".smithy": true,
	".json":   true,
	".sadl":   true,
}

func expandPaths(paths []string) ([]string, error) {
	var result []string
	for _, path := range paths {
		if ImportFileExtensions[filepath.Ext(path)] {
			result = append(result, path)
			continue
		}
		fi, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			return nil, fmt.Errorf("parse for file type %q not implemented", filepath.Ext(path))
		}
		err = filepath.WalkDir(path, func(wpath string, d fs.DirEntry, errIncoming error) error {
			if errIncoming != nil {
				return errIncoming
			}
			if !d.IsDir() && ImportFileExtensions[filepath.Ext(wpath)] {
				result = append(result, wpath)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// AssembleModel loads the model files (and directories of them) into one shape graph. Smithy IDL and
// JSON AST files are assembled together; SADL files are converted in the given namespace and merged.
func AssembleModel(paths []string, tags []string, ns string) (*model.Schema, error) {
	flatPathList, err := expandPaths(paths)
	if err != nil {
		return nil, err
	}
	if len(flatPathList) == 0 {
		return nil, fmt.Errorf("no model files found")
	}
	var smithyPaths, sadlPaths []string
	for _, path := range flatPathList {
		if filepath.Ext(path) == ".sadl" {
			sadlPaths = append(sadlPaths, path)
		} else {
			smithyPaths = append(smithyPaths, path)
		}
	}
	assembly, err := smithy.Assemble(smithyPaths)
	if err != nil {
		return nil, err
	}
	for _, path := range sadlPaths {
		ast, err := sadl.Import(path, ns)
		if err != nil {
			return nil, err
		}
		if err = assembly.Merge(ast); err != nil {
			return nil, err
		}
	}
	common.Logger().Debug("assembled model", zap.Int("files", len(flatPathList)), zap.Strings("tags", tags))
	return smithy.ImportAST(assembly, tags)
}
