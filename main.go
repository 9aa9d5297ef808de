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
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/boynton/data"
	"go.uber.org/zap"

	"github.com/boynton/protogen/common"
	"github.com/boynton/protogen/golang"
	"github.com/boynton/protogen/protocol"
)

var Version string = "development version"

func main() {
	conf := data.NewObject()
	pVersion := flag.Bool("version", false, "Show protogen version and exit")
	pVerbose := flag.Bool("v", false, "Verbose logging")
	pHelp := flag.Bool("h", false, "Show more help information")
	pList := flag.Bool("l", false, "List the entities in the model")
	pForce := flag.Bool("f", false, "Force overwrite if output file exists")
	pGen := flag.String("g", "protocol", "The generator for output")
	pNs := flag.String("ns", "example", "The namespace to use for SADL files that have none")
	pOutdir := flag.String("o", "", "The directory to generate output into (defaults to stdout)")
	pConfig := flag.String("c", "", "A YAML file of generator settings")
	var params Params
	flag.Var(&params, "a", "Additional named arguments for a generator")
	var tags Tags
	flag.Var(&tags, "t", "Tag of entities to include. Prefix tag with '-' to exclude that tag")
	flag.Parse()
	if *pVersion {
		fmt.Printf("protogen %s [%s]\n", Version, "https://github.com/boynton/protogen")
		os.Exit(0)
	} else if *pHelp {
		help()
		os.Exit(0)
	}
	logger, err := common.NewCommandLogger(*pVerbose)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer logger.Sync()
	common.SetLogger(logger)

	files := flag.Args()
	if len(files) == 0 {
		fmt.Println("usage: protogen [-v] [-l] [-c config] [-o outdir] [-g generator] [-a key=val]* [-t tag]* file ...")
		flag.PrintDefaults()
		os.Exit(1)
	}
	schema, err := AssembleModel(files, tags, *pNs)
	if err != nil {
		logger.Error("cannot assemble model", zap.Error(err))
		fmt.Println(err)
		os.Exit(2)
	}
	if *pList {
		if schema.Id != "" {
			fmt.Println(schema.Id + " (service)")
		}
		for _, o := range schema.Operations {
			fmt.Println(o.Id + " (operation)")
		}
		for _, n := range schema.ShapeNames() {
			fmt.Println(n)
		}
		os.Exit(0)
	}
	if *pGen == "json" {
		fmt.Println(data.Pretty(schema))
		os.Exit(0)
	}
	if *pConfig != "" {
		if err := common.LoadConfig(*pConfig, conf); err != nil {
			fmt.Println(err)
			os.Exit(3)
		}
	}
	if *pOutdir != "" {
		conf.Put("outdir", *pOutdir)
	}
	if *pForce {
		conf.Put("force", true)
	}
	for _, a := range params {
		k, v, ok := strings.Cut(a, "=")
		switch {
		case !ok || v == "true":
			conf.Put(k, true)
		case v == "false":
			conf.Put(k, false)
		default:
			conf.Put(k, v)
		}
	}
	generator, err := Generator(*pGen)
	if err == nil {
		err = generator.Generate(schema, conf)
	}
	if err != nil {
		fmt.Printf("*** %v\n", err)
		os.Exit(4)
	}
}

type Params []string

func (p *Params) String() string {
	return strings.Join([]string(*p), " ")
}
func (p *Params) Set(value string) error {
	*p = append(*p, strings.TrimSpace(value))
	return nil
}

type Tags []string

func (p *Tags) String() string {
	return strings.Join([]string(*p), " ")
}
func (p *Tags) Set(value string) error {
	*p = append(*p, strings.TrimSpace(value))
	return nil
}

func Generator(genName string) (common.Generator, error) {
	switch genName {
	case "protocol":
		return new(protocol.Generator), nil
	case "types", "go", "golang":
		return new(golang.Generator), nil
	case "summary":
		return new(common.SummaryGenerator), nil
	default:
		return nil, fmt.Errorf("Unknown generator: %q", genName)
	}
}

func help() {
	msg := `
Supported model formats for each input file extension:
   .smithy   Smithy IDL
   .json     Smithy JSON AST
   .sadl     SADL, converted to Smithy in the namespace given by -ns

Directories are searched for files with those extensions.

Supported generators:
- protocol: Go types, serializers and deserializers for the service protocol. This is the default.
- types: Only the Go types (types.go).
- summary: Prints the method, URI and member bindings of every operation.
- json: Prints the assembled model in JSON to stdout.

Settings are read from the -c file (YAML), then from -a flags, which win:
- "-a package=name"            the Go package of the generated files
- "-a protocol=awsJson1_1"     override the protocol of the service
- "-a timestampFormat=date-time" the document timestamp format
- "-a requestIdHeader=X-Request-Id" the response header holding the request id
- "-a wirePackage=path"         import path of the wire runtime used by the generated code
- "-a skipTypes"               do not write types.go
- "-a sort"                    sort operations and types alphabetically

`
	fmt.Println(msg)
}
