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
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/boynton/protogen/common"
)

// AST - the Smithy JSON AST. Shapes keep their declaration order.
type AST struct {
	Smithy   string       `json:"smithy"`
	Metadata *NodeValue   `json:"metadata,omitempty"`
	Shapes   *Map[*Shape] `json:"shapes,omitempty"`

	// "apply" shapes merged from other files, applied by Resolve
	applies []*pendingApply
}

type pendingApply struct {
	target string
	traits *NodeValue
}

// NodeValue - an arbitrary Smithy node value (trait values, metadata).
type NodeValue struct {
	value interface{}
}

func NewNodeValue() *NodeValue {
	return &NodeValue{value: make(map[string]interface{}, 0)}
}

func AsNodeValue(v interface{}) *NodeValue {
	if nv, ok := v.(*NodeValue); ok {
		return nv
	}
	return &NodeValue{value: v}
}

func (node NodeValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(node.value)
}

func (node *NodeValue) UnmarshalJSON(b []byte) error {
	var v interface{}
	err := json.Unmarshal(b, &v)
	if err == nil {
		node.value = v
	}
	return err
}

func (node *NodeValue) RawValue() interface{} {
	if node == nil {
		return nil
	}
	return node.value
}

func (node *NodeValue) String() string {
	return fmt.Sprint(node.value)
}

func (node *NodeValue) Keys() []string {
	if node == nil {
		return nil
	}
	var keys []string
	if m, ok := node.value.(map[string]interface{}); ok {
		for k := range m {
			keys = append(keys, k)
		}
	}
	return keys
}

func (node *NodeValue) Has(key string) bool {
	if node == nil {
		return false
	}
	if m, ok := node.value.(map[string]interface{}); ok {
		_, found := m[key]
		return found
	}
	return false
}

func (node *NodeValue) Get(key string) *NodeValue {
	if node == nil {
		return nil
	}
	if m, ok := node.value.(map[string]interface{}); ok {
		if tmp, ok := m[key]; ok {
			return AsNodeValue(tmp)
		}
	}
	return nil
}

func (node *NodeValue) AsString() string {
	if node == nil {
		return ""
	}
	if s, ok := node.value.(string); ok {
		return s
	}
	return ""
}

func (node *NodeValue) GetString(key string) string {
	return node.Get(key).AsString()
}

func (node *NodeValue) GetStringSlice(key string) []string {
	n := node.Get(key)
	if n == nil {
		return nil
	}
	a, _ := n.value.([]interface{})
	var vals []string
	for _, v := range a {
		if s, ok := v.(string); ok {
			vals = append(vals, s)
		}
	}
	return vals
}

func (node *NodeValue) Length() int {
	if node == nil {
		return 0
	}
	switch m := node.value.(type) {
	case map[string]interface{}:
		return len(m)
	case []interface{}:
		return len(m)
	}
	return 0
}

func (node *NodeValue) Delete(key string) {
	if node == nil {
		return
	}
	if m, ok := node.value.(map[string]interface{}); ok {
		delete(m, key)
	}
}

func (node *NodeValue) Put(key string, val interface{}) *NodeValue {
	if nv, ok := val.(*NodeValue); ok {
		val = nv.value
	}
	if m, ok := node.value.(map[string]interface{}); ok {
		m[key] = val
	}
	return node
}

func (ast *AST) PutShape(id string, shape *Shape) {
	if ast.Shapes == nil {
		ast.Shapes = NewMap[*Shape]()
	}
	ast.Shapes.Put(id, shape)
}

func (ast *AST) GetShape(id string) *Shape {
	if ast.Shapes == nil {
		return nil
	}
	return ast.Shapes.Get(id)
}

func (ast *AST) ForAllShapes(visitor func(shapeId string, shape *Shape) error) error {
	for _, shapeId := range ast.Shapes.Keys() {
		if err := visitor(shapeId, ast.GetShape(shapeId)); err != nil {
			return err
		}
	}
	return nil
}

type Shape struct {
	Type string `json:"type"`

	//Service
	Version string `json:"version,omitempty"`

	//List and Set
	Member *Member `json:"member,omitempty"`

	//Map
	Key   *Member `json:"key,omitempty"`
	Value *Member `json:"value,omitempty"`

	//Structure, Union, Enum, IntEnum
	Members *Map[*Member] `json:"members,omitempty"`
	Mixins  []*ShapeRef   `json:"mixins,omitempty"`

	//Resource
	Identifiers          *Map[*ShapeRef] `json:"identifiers,omitempty"`
	Create               *ShapeRef       `json:"create,omitempty"`
	Put                  *ShapeRef       `json:"put,omitempty"`
	Read                 *ShapeRef       `json:"read,omitempty"`
	Update               *ShapeRef       `json:"update,omitempty"`
	Delete               *ShapeRef       `json:"delete,omitempty"`
	List                 *ShapeRef       `json:"list,omitempty"`
	CollectionOperations []*ShapeRef     `json:"collectionOperations,omitempty"`

	//Resource and Service
	Operations []*ShapeRef `json:"operations,omitempty"`
	Resources  []*ShapeRef `json:"resources,omitempty"`

	//Operation, and Service for the service-wide errors
	Input  *ShapeRef   `json:"input,omitempty"`
	Output *ShapeRef   `json:"output,omitempty"`
	Errors []*ShapeRef `json:"errors,omitempty"`

	Traits *NodeValue `json:"traits,omitempty"`
}

func (shape *Shape) GetStringTrait(id string) string {
	return shape.Traits.GetString(id)
}

type ShapeRef struct {
	Target string `json:"target"`
}

type Member struct {
	Target string     `json:"target"`
	Traits *NodeValue `json:"traits,omitempty"`
}

func shapeIdNamespace(id string) string {
	//name.space#entity$member
	lst := strings.Split(id, "#")
	return lst[0]
}

func isSmithyType(name string) bool {
	return strings.HasPrefix(name, "smithy.api#")
}

// Validate checks that every referenced shape is defined in this assembly.
func (ast *AST) Validate() error {
	alreadyChecked := make(map[string]*Shape, 0)
	for _, id := range ast.Shapes.Keys() {
		if err := ast.ValidateDefined(id, alreadyChecked); err != nil {
			return err
		}
	}
	return nil
}

func (ast *AST) ValidateDefined(id string, alreadyChecked map[string]*Shape) error {
	if _, ok := alreadyChecked[id]; ok {
		return nil
	}
	if isSmithyType(id) {
		return nil
	}
	shape := ast.Shapes.Get(id)
	if shape == nil {
		return fmt.Errorf("Shape not defined: %s", id)
	}
	alreadyChecked[id] = shape
	var refs []string
	switch shape.Type {
	case "structure", "union":
		for _, name := range shape.Members.Keys() {
			refs = append(refs, shape.Members.Get(name).Target)
		}
	case "list", "set":
		refs = append(refs, shape.Member.Target)
	case "map":
		refs = append(refs, shape.Key.Target, shape.Value.Target)
	case "operation":
		for _, r := range []*ShapeRef{shape.Input, shape.Output} {
			if r != nil {
				refs = append(refs, r.Target)
			}
		}
		for _, r := range shape.Errors {
			refs = append(refs, r.Target)
		}
	}
	for _, ref := range refs {
		if err := ast.ValidateDefined(ref, alreadyChecked); err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
	}
	return nil
}

func (ast *AST) Namespaces() []string {
	m := make(map[string]bool, 0)
	var nss []string
	for _, id := range ast.Shapes.Keys() {
		ns := shapeIdNamespace(id)
		if !m[ns] {
			m[ns] = true
			nss = append(nss, ns)
		}
	}
	return nss
}

func (ast *AST) noteDependenciesFromRef(included map[string]bool, ref *ShapeRef) {
	if ref != nil {
		ast.noteDependencies(included, ref.Target)
	}
}

func (ast *AST) noteDependencies(included map[string]bool, name string) {
	if name == "" || isSmithyType(name) {
		return
	}
	if _, ok := included[name]; ok {
		return
	}
	included[name] = true
	shape := ast.GetShape(name)
	if shape == nil {
		return
	}
	for _, tk := range shape.Traits.Keys() {
		ast.noteDependencies(included, tk)
	}
	switch shape.Type {
	case "service":
		for _, o := range shape.Operations {
			ast.noteDependenciesFromRef(included, o)
		}
		for _, r := range shape.Resources {
			ast.noteDependenciesFromRef(included, r)
		}
		for _, e := range shape.Errors {
			ast.noteDependenciesFromRef(included, e)
		}
	case "operation":
		ast.noteDependenciesFromRef(included, shape.Input)
		ast.noteDependenciesFromRef(included, shape.Output)
		for _, e := range shape.Errors {
			ast.noteDependenciesFromRef(included, e)
		}
	case "resource":
		for _, k := range shape.Identifiers.Keys() {
			ast.noteDependenciesFromRef(included, shape.Identifiers.Get(k))
		}
		for _, o := range shape.Operations {
			ast.noteDependenciesFromRef(included, o)
		}
		for _, r := range shape.Resources {
			ast.noteDependenciesFromRef(included, r)
		}
		for _, ref := range []*ShapeRef{shape.Create, shape.Put, shape.Read, shape.Update, shape.Delete, shape.List} {
			ast.noteDependenciesFromRef(included, ref)
		}
		for _, o := range shape.CollectionOperations {
			ast.noteDependenciesFromRef(included, o)
		}
	case "structure", "union":
		for _, n := range shape.Members.Keys() {
			ast.noteDependencies(included, shape.Members.Get(n).Target)
		}
	case "list", "set":
		ast.noteDependencies(included, shape.Member.Target)
	case "map":
		ast.noteDependencies(included, shape.Key.Target)
		ast.noteDependencies(included, shape.Value.Target)
	}
}

func LoadAST(path string) (*AST, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot read smithy AST file: %w", err)
	}
	return DecodeAST(b)
}

func DecodeAST(b []byte) (*AST, error) {
	var ast *AST
	if err := json.Unmarshal(b, &ast); err != nil {
		return nil, fmt.Errorf("Cannot parse Smithy AST: %w", err)
	}
	if ast == nil || ast.Smithy == "" {
		return nil, fmt.Errorf("Cannot parse Smithy AST: missing smithy version")
	}
	return ast, nil
}

// Assemble loads and merges the given files, then resolves mixins and apply statements.
func Assemble(paths []string) (*AST, error) {
	assembly := &AST{}
	for _, path := range paths {
		var ast *AST
		var err error
		if strings.HasSuffix(path, ".smithy") {
			ast, err = Parse(path)
		} else {
			ast, err = LoadAST(path)
		}
		if err != nil {
			return nil, err
		}
		if err = assembly.Merge(ast); err != nil {
			return nil, err
		}
	}
	if err := assembly.Resolve(); err != nil {
		return nil, err
	}
	return assembly, nil
}

// Resolve expands mixins, applies "apply" shapes to their targets, and moves prelude traits the
// IDL parser qualified with the model's namespace back into smithy.api.
func (ast *AST) Resolve() error {
	for _, k := range ast.Shapes.Keys() {
		if tmp := ast.GetShape(k); tmp != nil && tmp.Type == "apply" {
			ast.applies = append(ast.applies, &pendingApply{target: k, traits: tmp.Traits})
			ast.Shapes.Delete(k)
		}
	}
	if ast.Shapes == nil && len(ast.applies) == 0 {
		return nil
	}
	ast.qualifyPreludeTraits()
	if err := ast.ExpandMixins(); err != nil {
		return err
	}
	for _, a := range ast.applies {
		if err := ast.Apply(a.target, a.traits); err != nil {
			return err
		}
	}
	ast.applies = nil
	return nil
}

var preludeTraits = map[string]bool{
	"addedDefault": true, "auth": true, "box": true, "clientOptional": true, "cors": true,
	"default": true, "deprecated": true, "documentation": true, "endpoint": true, "enum": true,
	"enumValue": true, "error": true, "eventHeader": true, "eventPayload": true, "examples": true,
	"externalDocumentation": true, "hostLabel": true, "http": true, "httpApiKeyAuth": true,
	"httpBasicAuth": true, "httpBearerAuth": true, "httpChecksumRequired": true, "httpDigestAuth": true,
	"httpError": true, "httpHeader": true, "httpLabel": true, "httpPayload": true,
	"httpPrefixHeaders": true, "httpQuery": true, "httpQueryParams": true, "httpResponseCode": true,
	"idRef": true, "idempotencyToken": true, "idempotent": true, "input": true, "internal": true,
	"jsonName": true, "length": true, "mediaType": true, "mixin": true, "noReplace": true,
	"optionalAuth": true, "output": true, "paginated": true, "pattern": true, "private": true,
	"range": true, "readonly": true, "recommended": true, "references": true, "required": true,
	"requiresLength": true, "retryable": true, "sensitive": true, "since": true, "sparse": true,
	"streaming": true, "suppress": true, "tags": true, "timestampFormat": true, "title": true,
	"trait": true, "uniqueItems": true, "unitType": true, "unstable": true, "xmlAttribute": true,
	"xmlFlattened": true, "xmlName": true, "xmlNamespace": true,
}

// qualifyPreludeTraits renames a trait such as "example.shop#streaming" to "smithy.api#streaming",
// unless the model defines a shape with that id.
func (ast *AST) qualifyPreludeTraits() {
	fixMember := func(m *Member) {
		if m != nil {
			ast.qualifyTraits(m.Traits)
		}
	}
	for _, k := range ast.Shapes.Keys() {
		shape := ast.GetShape(k)
		ast.qualifyTraits(shape.Traits)
		fixMember(shape.Member)
		fixMember(shape.Key)
		fixMember(shape.Value)
		for _, name := range shape.Members.Keys() {
			fixMember(shape.Members.Get(name))
		}
	}
	for _, a := range ast.applies {
		ast.qualifyTraits(a.traits)
	}
}

func (ast *AST) qualifyTraits(traits *NodeValue) {
	for _, k := range traits.Keys() {
		ns, name, ok := strings.Cut(k, "#")
		if !ok || ns == "smithy.api" || !preludeTraits[name] || ast.GetShape(k) != nil {
			continue
		}
		if !traits.Has("smithy.api#" + name) {
			traits.Put("smithy.api#"+name, traits.Get(k))
		}
		traits.Delete(k)
	}
}

func ensureTraits(t **NodeValue) *NodeValue {
	if *t == nil {
		*t = NewNodeValue()
	}
	return *t
}

func (ast *AST) Apply(target string, traits *NodeValue) error {
	lst := strings.Split(target, "$")
	field := ""
	if len(lst) == 2 {
		target = lst[0]
		field = lst[1]
	}
	shape := ast.GetShape(target)
	if shape == nil {
		return fmt.Errorf("Cannot apply traits to %s: target shape not found", target)
	}
	var t *NodeValue
	if field != "" {
		m := shape.Members.Get(field)
		if m == nil {
			return fmt.Errorf("Cannot apply traits to %s$%s: member not found", target, field)
		}
		t = ensureTraits(&m.Traits)
	} else {
		t = ensureTraits(&shape.Traits)
	}
	for _, k := range traits.Keys() {
		t.Put(k, traits.Get(k))
	}
	return nil
}

// Merge adds the shapes of another file. An "apply" shape may target a shape from any file, so it
// is kept aside until Resolve.
func (ast *AST) Merge(src *AST) error {
	if ast.Smithy == "" {
		ast.Smithy = src.Smithy
	} else if ast.Smithy != src.Smithy {
		if strings.HasPrefix(ast.Smithy, "1") && strings.HasPrefix(src.Smithy, "2") {
			ast.Smithy = src.Smithy
		} else {
			common.Logger().Warn("smithy version mismatch", zap.String("have", ast.Smithy), zap.String("merging", src.Smithy))
		}
	}
	if src.Metadata != nil {
		if ast.Metadata == nil {
			ast.Metadata = src.Metadata
		} else {
			for _, k := range src.Metadata.Keys() {
				if ast.Metadata.Has(k) {
					return fmt.Errorf("Conflict when merging metadata in models: %s", k)
				}
				ast.Metadata.Put(k, src.Metadata.Get(k))
			}
		}
	}
	ast.applies = append(ast.applies, src.applies...)
	for _, k := range src.Shapes.Keys() {
		shape := src.GetShape(k)
		if shape.Type == "apply" {
			ast.applies = append(ast.applies, &pendingApply{target: k, traits: shape.Traits})
			continue
		}
		if ast.GetShape(k) != nil {
			return fmt.Errorf("Duplicate shape in assembly: %s", k)
		}
		ast.PutShape(k, shape)
	}
	return nil
}

func (ast *AST) expandMixins(shapeId string, done map[string]bool) error {
	if done[shapeId] {
		return nil
	}
	done[shapeId] = true
	shape := ast.Shapes.Get(shapeId)
	if shape == nil {
		return fmt.Errorf("Mixin shape not available: %s", shapeId)
	}
	if len(shape.Mixins) == 0 {
		return nil
	}
	members := NewMap[*Member]()
	traits := NewNodeValue()
	for _, mixinRef := range shape.Mixins {
		if err := ast.expandMixins(mixinRef.Target, done); err != nil {
			return err
		}
		mixin := ast.Shapes.Get(mixinRef.Target)
		for _, k := range mixin.Members.Keys() {
			members.Put(k, mixin.Members.Get(k))
		}
		for _, k := range mixin.Traits.Keys() {
			if k != "smithy.api#mixin" {
				traits.Put(k, mixin.Traits.Get(k))
			}
		}
	}
	for _, k := range shape.Members.Keys() {
		members.Put(k, shape.Members.Get(k))
	}
	for _, k := range shape.Traits.Keys() {
		traits.Put(k, shape.Traits.Get(k))
	}
	if members.Length() > 0 {
		shape.Members = members
	}
	shape.Traits = traits
	shape.Mixins = nil
	return nil
}

func (ast *AST) ExpandMixins() error {
	done := make(map[string]bool, 0)
	for _, shapeId := range ast.Shapes.Keys() {
		if err := ast.expandMixins(shapeId, done); err != nil {
			return err
		}
	}
	// the mixins themselves are not part of the generated model
	for _, shapeId := range ast.Shapes.Keys() {
		if ast.Shapes.Get(shapeId).Traits.Has("smithy.api#mixin") {
			ast.Shapes.Delete(shapeId)
		}
	}
	return nil
}

func (ast *AST) FilterDependencies(root []string) {
	included := make(map[string]bool, 0)
	for _, k := range root {
		ast.noteDependencies(included, k)
	}
	filtered := NewMap[*Shape]()
	for _, name := range ast.Shapes.Keys() {
		if included[name] {
			filtered.Put(name, ast.GetShape(name))
		}
	}
	ast.Shapes = filtered
}

// ServiceDependencies prunes the assembly to the closure of its single service, if there is one.
// It returns the service id, or "" when the model has no service.
func (ast *AST) ServiceDependencies() (string, error) {
	var root []string
	for _, k := range ast.Shapes.Keys() {
		if ast.Shapes.Get(k).Type == "service" {
			root = append(root, k)
		}
	}
	switch len(root) {
	case 0:
		return "", nil
	case 1:
		ast.FilterDependencies(root)
		return root[0], nil
	default:
		return "", fmt.Errorf("Cannot handle more than one service in model: %s", strings.Join(root, ", "))
	}
}

// Filter keeps the shapes tagged with one of the tags (and their dependencies). A tag prefixed
// with '-' excludes the shapes carrying it.
func (ast *AST) Filter(tags []string) {
	if len(tags) == 0 {
		return
	}
	var include []string
	var exclude []string
	for _, tag := range tags {
		if strings.HasPrefix(tag, "-") {
			exclude = append(exclude, tag[1:])
		} else {
			include = append(include, tag)
		}
	}
	var root []string
	for _, k := range ast.Shapes.Keys() {
		shapeTags := ast.Shapes.Get(k).Traits.GetStringSlice("smithy.api#tags")
		if hasAny(shapeTags, exclude) {
			continue
		}
		if len(include) == 0 || hasAny(shapeTags, include) {
			root = append(root, k)
		}
	}
	ast.FilterDependencies(root)
}

func hasAny(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
