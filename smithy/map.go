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
	"bytes"
	"encoding/json"
	"fmt"
)

// Map - a string-keyed map that remembers insertion order, and keeps the key order of the JSON
// object it was decoded from. Shape and member order in the generated code follows it.
type Map[V any] struct {
	keys     []string
	bindings map[string]V
}

func NewMap[V any]() *Map[V] {
	return &Map[V]{
		bindings: make(map[string]V, 0),
	}
}

func (s *Map[V]) UnmarshalJSON(data []byte) error {
	keys, err := jsonKeysInOrder(data)
	if err != nil {
		return err
	}
	m := NewMap[V]()
	if err = json.Unmarshal(data, &m.bindings); err != nil {
		return err
	}
	m.keys = keys
	*s = *m
	return nil
}

func (s Map[V]) MarshalJSON() ([]byte, error) {
	buffer := bytes.NewBufferString("{")
	for i, key := range s.keys {
		if i > 0 {
			buffer.WriteString(",")
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s.bindings[key])
		if err != nil {
			return nil, err
		}
		buffer.Write(k)
		buffer.WriteString(":")
		buffer.Write(v)
	}
	buffer.WriteString("}")
	return buffer.Bytes(), nil
}

// jsonKeysInOrder returns the top level keys of a JSON object in document order.
func jsonKeysInOrder(data []byte) ([]string, error) {
	d := json.NewDecoder(bytes.NewReader(data))
	t, err := d.Token()
	if err != nil {
		return nil, err
	}
	if t != json.Delim('{') {
		return nil, fmt.Errorf("expected start of object")
	}
	var keys []string
	for d.More() {
		t, err := d.Token()
		if err != nil {
			return nil, err
		}
		key, ok := t.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, found %v", t)
		}
		keys = append(keys, key)
		var skip json.RawMessage
		if err := d.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func (s *Map[V]) Has(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s.bindings[key]
	return ok
}

func (s *Map[V]) Get(key string) V {
	var zero V
	if s == nil {
		return zero
	}
	return s.bindings[key]
}

func (s *Map[V]) Put(key string, val V) {
	if s.bindings == nil {
		s.bindings = make(map[string]V, 0)
	}
	if _, ok := s.bindings[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.bindings[key] = val
}

func (s *Map[V]) Delete(key string) {
	if !s.Has(key) {
		return
	}
	var tmp []string
	for _, k := range s.keys {
		if k != key {
			tmp = append(tmp, k)
		}
	}
	s.keys = tmp
	delete(s.bindings, key)
}

func (s *Map[V]) Keys() []string {
	if s == nil {
		return nil
	}
	return s.keys
}

func (s *Map[V]) Length() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}
