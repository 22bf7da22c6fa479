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

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// InvalidNodeError reports a node that has no representation in the
// document model.
type InvalidNodeError struct {
	Path   string
	Reason string
}

func (e *InvalidNodeError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Parse decodes a single YAML document. An empty document yields a nil Node.
func Parse(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return nil, nil
	}
	return FromYAML(&doc)
}

// FromYAML converts a yaml.Node into the Node model. Aliases are expanded in
// place; an alias that refers to one of its own ancestors is rejected.
func FromYAML(y *yaml.Node) (*Node, error) {
	c := &converter{expanding: map[*yaml.Node]bool{}}
	return c.convert(y, "")
}

type converter struct {
	expanding map[*yaml.Node]bool
}

func (c *converter) convert(y *yaml.Node, path string) (*Node, error) {
	if y == nil {
		return nil, nil
	}

	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return nil, nil
		}
		return c.convert(y.Content[0], path)
	case yaml.AliasNode:
		if y.Alias == nil {
			return nil, errors.Errorf("%s: alias *%s has no anchor", describe(path), y.Value)
		}
		if c.expanding[y.Alias] {
			return nil, errors.Errorf("%s: alias *%s refers to itself", describe(path), y.Value)
		}
		c.expanding[y.Alias] = true
		defer delete(c.expanding, y.Alias)
		return c.convert(y.Alias, path)
	case yaml.ScalarNode:
		return &Node{Kind: ScalarKind, Tag: y.ShortTag(), Value: y.Value, src: y}, nil
	case yaml.SequenceNode:
		n := &Node{Kind: SequenceKind, Tag: y.ShortTag(), Items: make([]*Node, 0, len(y.Content)), src: y}
		for i, item := range y.Content {
			child, err := c.convert(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			n.Items = append(n.Items, child)
		}
		return n, nil
	case yaml.MappingNode:
		n := &Node{Kind: MappingKind, Tag: y.ShortTag(), Fields: make([]*Field, 0, len(y.Content)/2), src: y}
		seen := make(map[string]bool, len(y.Content)/2)
		for i := 0; i+1 < len(y.Content); i += 2 {
			keyNode := y.Content[i]
			if keyNode.Kind == yaml.AliasNode && keyNode.Alias != nil {
				keyNode = keyNode.Alias
			}
			if keyNode.Kind != yaml.ScalarNode {
				return nil, errors.Errorf("%s: line %d: mapping key must be a scalar", describe(path), keyNode.Line)
			}
			key := keyNode.Value
			if seen[key] {
				return nil, errors.Errorf("%s: line %d: duplicate key %q", describe(path), keyNode.Line, key)
			}
			seen[key] = true

			value, err := c.convert(y.Content[i+1], join(path, key))
			if err != nil {
				return nil, err
			}
			n.Fields = append(n.Fields, &Field{Key: key, Value: value, keySrc: keyNode})
		}
		return n, nil
	default:
		return nil, errors.Errorf("%s: unsupported yaml node kind %d", describe(path), y.Kind)
	}
}

// ToYAML converts n back into a yaml.Node. Scalars parsed from a document keep
// their quoting style, and every node keeps its comments. Anchors are not
// re-emitted since aliases were expanded on the way in.
func (n *Node) ToYAML() (*yaml.Node, error) {
	return toYAML(n, "")
}

func toYAML(n *Node, path string) (*yaml.Node, error) {
	if n == nil {
		return nil, &InvalidNodeError{Path: path, Reason: "nil node"}
	}

	y := &yaml.Node{Tag: n.Tag}
	copyStyle(y, n.src)

	switch n.Kind {
	case ScalarKind:
		y.Kind = yaml.ScalarNode
		y.Value = n.Value
	case SequenceKind:
		y.Kind = yaml.SequenceNode
		y.Content = make([]*yaml.Node, 0, len(n.Items))
		for i, item := range n.Items {
			child, err := toYAML(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			y.Content = append(y.Content, child)
		}
	case MappingKind:
		y.Kind = yaml.MappingNode
		y.Content = make([]*yaml.Node, 0, 2*len(n.Fields))
		for _, f := range n.Fields {
			if f == nil {
				return nil, &InvalidNodeError{Path: path, Reason: "nil mapping field"}
			}
			value, err := toYAML(f.Value, join(path, f.Key))
			if err != nil {
				return nil, err
			}
			y.Content = append(y.Content, keyToYAML(f), value)
		}
	default:
		return nil, &InvalidNodeError{Path: path, Reason: fmt.Sprintf("unknown node %s", n.Kind)}
	}
	return y, nil
}

func keyToYAML(f *Field) *yaml.Node {
	key := &yaml.Node{Kind: yaml.ScalarNode, Tag: StrTag, Value: f.Key}
	if f.keySrc != nil {
		key.Tag = f.keySrc.ShortTag()
		copyStyle(key, f.keySrc)
	}
	return key
}

func copyStyle(dst, src *yaml.Node) {
	if src == nil {
		return
	}
	dst.Style = src.Style
	dst.HeadComment = src.HeadComment
	dst.LineComment = src.LineComment
	dst.FootComment = src.FootComment
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func describe(path string) string {
	if path == "" {
		return "document root"
	}
	return path
}
