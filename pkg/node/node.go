// Copyright © 2022 Alibaba Group Holding Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package node

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind is the shape of a Node.
type Kind int

const (
	ScalarKind Kind = iota + 1
	SequenceKind
	MappingKind
)

const (
	StrTag  = "!!str"
	NullTag = "!!null"
	SeqTag  = "!!seq"
	MapTag  = "!!map"
)

func (k Kind) String() string {
	switch k {
	case ScalarKind:
		return "scalar"
	case SequenceKind:
		return "sequence"
	case MappingKind:
		return "mapping"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Node is one value of a prototype tree. Exactly one of Value, Items or Fields
// is meaningful, depending on Kind. Tag is always the short form, so an
// unquoted `true` carries `!!bool` while a quoted "true" carries `!!str`.
//
// Nodes built from a document remember their source yaml.Node, which is used
// to re-emit the original scalar style and comments.
type Node struct {
	Kind   Kind
	Tag    string
	Value  string
	Items  []*Node
	Fields []*Field

	src *yaml.Node
}

// Field is a single key/value pair of a mapping Node.
type Field struct {
	Key   string
	Value *Node

	keySrc *yaml.Node
}

func NewScalar(tag, value string) *Node {
	return &Node{Kind: ScalarKind, Tag: tag, Value: value}
}

// NewString returns a plain string scalar.
func NewString(value string) *Node {
	return NewScalar(StrTag, value)
}

func NewSequence(items ...*Node) *Node {
	return &Node{Kind: SequenceKind, Tag: SeqTag, Items: items}
}

func NewMapping(fields ...*Field) *Node {
	return &Node{Kind: MappingKind, Tag: MapTag, Fields: fields}
}

func NewField(key string, value *Node) *Field {
	return &Field{Key: key, Value: value}
}

func (n *Node) IsScalar() bool {
	return n != nil && n.Kind == ScalarKind
}

func (n *Node) IsSequence() bool {
	return n != nil && n.Kind == SequenceKind
}

func (n *Node) IsMapping() bool {
	return n != nil && n.Kind == MappingKind
}

// ScalarValue returns the literal of a scalar node.
func (n *Node) ScalarValue() (string, bool) {
	if !n.IsScalar() {
		return "", false
	}
	return n.Value, true
}

// Field returns the field stored under key, or nil.
func (n *Node) Field(key string) *Field {
	if !n.IsMapping() {
		return nil
	}
	for _, f := range n.Fields {
		if f.Key == key {
			return f
		}
	}
	return nil
}

// Get returns the value stored under key, or nil when n is not a mapping or
// has no such key.
func (n *Node) Get(key string) *Node {
	if f := n.Field(key); f != nil {
		return f.Value
	}
	return nil
}

func (n *Node) Has(key string) bool {
	return n.Field(key) != nil
}

// Keys returns the mapping keys in declaration order.
func (n *Node) Keys() []string {
	if !n.IsMapping() {
		return nil
	}
	keys := make([]string, 0, len(n.Fields))
	for _, f := range n.Fields {
		keys = append(keys, f.Key)
	}
	return keys
}

// WithFields returns a mapping that shares n's tag and source styling but
// holds the given fields. n itself is left untouched.
func (n *Node) WithFields(fields []*Field) *Node {
	return &Node{Kind: MappingKind, Tag: n.Tag, Fields: fields, src: n.src}
}

// WithItems is the sequence counterpart of WithFields.
func (n *Node) WithItems(items []*Node) *Node {
	return &Node{Kind: SequenceKind, Tag: n.Tag, Items: items, src: n.src}
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Kind: n.Kind, Tag: n.Tag, Value: n.Value, src: n.src}
	if n.Items != nil {
		c.Items = make([]*Node, len(n.Items))
		for i, item := range n.Items {
			c.Items[i] = item.Clone()
		}
	}
	if n.Fields != nil {
		c.Fields = make([]*Field, len(n.Fields))
		for i, f := range n.Fields {
			c.Fields[i] = f.Clone()
		}
	}
	return c
}

// WithValue returns a copy of f, keeping its key styling, that holds v.
func (f *Field) WithValue(v *Node) *Field {
	return &Field{Key: f.Key, Value: v, keySrc: f.keySrc}
}

// Clone returns a deep copy of f.
func (f *Field) Clone() *Field {
	return &Field{Key: f.Key, Value: f.Value.Clone(), keySrc: f.keySrc}
}

// Line reports the source line of n, or 0 for nodes that were not parsed.
func (n *Node) Line() int {
	if n == nil || n.src == nil {
		return 0
	}
	return n.src.Line
}
