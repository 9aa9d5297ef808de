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
package common

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/boynton/data"
	"go.uber.org/zap"

	"github.com/boynton/protogen/model"
)

type Generator interface {
	Generate(schema *model.Schema, config *data.Object) error
}

type BaseGenerator struct {
	Schema         *model.Schema
	Config         *data.Object
	OutDir         string
	ForceOverwrite bool
	Sort           bool
	Stdout         io.Writer
	buf            bytes.Buffer
	writer         *bufio.Writer
	Err            error
}

func (gen *BaseGenerator) Configure(schema *model.Schema, conf *data.Object) error {
	if schema == nil {
		return fmt.Errorf("no schema to generate from")
	}
	if conf == nil {
		conf = data.NewObject()
	}
	gen.Schema = schema
	gen.Config = conf
	gen.OutDir = conf.GetString("outdir")
	gen.Sort = conf.GetBool("sort")
	gen.ForceOverwrite = conf.GetBool("force")
	if gen.Stdout == nil {
		gen.Stdout = os.Stdout
	}
	return nil
}

func (gen *BaseGenerator) Operations() []*model.OperationDef {
	if gen.Sort {
		return gen.SortedOperations()
	}
	return gen.Schema.Operations
}

func (gen *BaseGenerator) SortedOperations() []*model.OperationDef {
	r := append([]*model.OperationDef{}, gen.Schema.Operations...)
	sort.Slice(r, func(i, j int) bool {
		return model.StripNamespace(r[i].Id) < model.StripNamespace(r[j].Id)
	})
	return r
}

// Shapes returns the named shapes of the schema, in declaration order unless sorting was requested.
func (gen *BaseGenerator) Shapes() []*model.Shape {
	r := append([]*model.Shape{}, gen.Schema.Shapes...)
	if gen.Sort {
		sort.Slice(r, func(i, j int) bool {
			return r[i].Name() < r[j].Name()
		})
	}
	return r
}

func (gen *BaseGenerator) Begin() {
	gen.buf.Reset()
	gen.writer = bufio.NewWriter(&gen.buf)
}

func (gen *BaseGenerator) End() string {
	gen.writer.Flush()
	return gen.buf.String()
}

func (gen *BaseGenerator) Emit(s string) {
	gen.writer.WriteString(s)
}

func (gen *BaseGenerator) Emitf(format string, args ...interface{}) {
	gen.writer.WriteString(fmt.Sprintf(format, args...))
}

func (gen *BaseGenerator) FileExists(path string) bool {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false
	}
	return true
}

func (gen *BaseGenerator) FileName(ns string, suffix string) string {
	return strings.ReplaceAll(ns, ".", "-") + suffix
}

func (gen *BaseGenerator) EnsureDir(path string) error {
	if _, err := os.Stat(path); err != nil {
		return os.MkdirAll(path, 0755)
	}
	return nil
}

func (gen *BaseGenerator) checkOverwrite(path string) error {
	if gen.FileExists(path) {
		if !gen.ForceOverwrite {
			return fmt.Errorf("[%s already exists, not overwriting]", path)
		}
		return os.Remove(path)
	}
	return nil
}

func (gen *BaseGenerator) WriteFile(path string, content string) error {
	if gen.Err != nil {
		return gen.Err
	}
	if err := gen.checkOverwrite(path); err != nil {
		gen.Err = err
		return err
	}
	gen.Err = os.WriteFile(path, []byte(content), 0644)
	return gen.Err
}

// Write sends text to stdout when no output directory is configured, otherwise to the named file
// in the output directory.
func (gen *BaseGenerator) Write(text string, filename string, separator string) error {
	if gen.Err != nil {
		return gen.Err
	}
	if gen.OutDir == "" {
		if separator != "" {
			fmt.Fprint(gen.Stdout, separator)
		}
		fmt.Fprint(gen.Stdout, text)
		return nil
	}
	if gen.Err = gen.EnsureDir(gen.OutDir); gen.Err != nil {
		return gen.Err
	}
	return gen.WriteFile(filepath.Join(gen.OutDir, filename), text)
}

// WriteGo renders a Go source sink. On disk it goes through the goa file renderer, which also
// formats the source; on stdout the raw text is printed.
func (gen *BaseGenerator) WriteGo(sink *Sink, filename string) error {
	if gen.Err != nil {
		return gen.Err
	}
	if gen.OutDir == "" {
		return gen.Write(sink.Source(), filename, "\n//------------------ "+filename+"\n")
	}
	if gen.Err = gen.EnsureDir(gen.OutDir); gen.Err != nil {
		return gen.Err
	}
	if gen.Err = gen.checkOverwrite(filepath.Join(gen.OutDir, filename)); gen.Err != nil {
		return gen.Err
	}
	path, err := sink.File(filename).Render(gen.OutDir)
	if err != nil {
		gen.Err = fmt.Errorf("cannot render %s: %w", filename, err)
		return gen.Err
	}
	Logger().Info("wrote file", zap.String("path", path), zap.Int("declarations", len(sink.Decls())))
	return nil
}
