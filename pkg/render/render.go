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

package render

import (
	"bytes"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sealerio/protosan/common"
	"github.com/sealerio/protosan/pkg/node"
	"github.com/sealerio/protosan/pkg/prototype"
)

// Render encodes the given prototype trees, keys in canonical order, as one
// YAML document holding a sequence of prototypes.
func Render(trees ...*node.Node) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.SequenceNode, Tag: node.SeqTag}
	for i, tree := range trees {
		if !tree.IsMapping() {
			return nil, errors.Wrapf(prototype.ErrUnrenderableNode, "prototype #%d is not a mapping", i)
		}
		y, err := Canonicalize(tree).ToYAML()
		if err != nil {
			id, _ := tree.Get(common.KeyID).ScalarValue()
			return nil, errors.Wrapf(prototype.ErrUnrenderableNode, "entity %q: %v", id, err)
		}
		doc.Content = append(doc.Content, y)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(common.DefaultIndent)
	if err := enc.Encode(doc); err != nil {
		return nil, errors.Wrap(err, "failed to encode prototypes")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to encode prototypes")
	}
	return buf.Bytes(), nil
}

// Canonicalize returns tree with its top-level keys reordered: the keys of
// common.PrototypeFieldOrder first, then any other key in declaration order,
// and components last. Values are not touched.
func Canonicalize(tree *node.Node) *node.Node {
	fields := make([]*node.Field, 0, len(tree.Fields))
	for _, key := range common.PrototypeFieldOrder {
		if f := tree.Field(key); f != nil {
			fields = append(fields, f)
		}
	}

	ordered := make(map[string]bool, len(common.PrototypeFieldOrder))
	for _, key := range common.PrototypeFieldOrder {
		ordered[key] = true
	}
	for _, f := range tree.Fields {
		if !ordered[f.Key] && f.Key != common.KeyComponents {
			fields = append(fields, f)
		}
	}

	if f := tree.Field(common.KeyComponents); f != nil {
		fields = append(fields, f)
	}
	return tree.WithFields(fields)
}
