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
package common

import (
	"fmt"
	"os"
	"sort"

	"github.com/boynton/data"
	"github.com/ghodss/yaml"
)

// LoadConfig reads a YAML (or JSON) settings file into conf. Nested objects are flattened into
// dotted keys, so that
//
//	golang:
//	  package: weather
//
// is the same setting as "-a golang.package=weather".
func LoadConfig(path string, conf *data.Object) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read config: %w", err)
	}
	return DecodeConfig(b, conf)
}

func DecodeConfig(b []byte, conf *data.Object) error {
	var settings map[string]interface{}
	if err := yaml.Unmarshal(b, &settings); err != nil {
		return fmt.Errorf("cannot parse config: %w", err)
	}
	flattenConfig("", settings, conf)
	return nil
}

func flattenConfig(prefix string, settings map[string]interface{}, conf *data.Object) {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := settings[k]
		if nested, ok := v.(map[string]interface{}); ok {
			flattenConfig(prefix+k+".", nested, conf)
			continue
		}
		conf.Put(prefix+k, v)
	}
}

// ConfigString returns the string setting, or def when it is unset.
func ConfigString(conf *data.Object, key, def string) string {
	if conf == nil {
		return def
	}
	if s := conf.GetString(key); s != "" {
		return s
	}
	return def
}
