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

package inherit

import (
	"github.com/sealerio/protosan/common"
	"github.com/sealerio/protosan/pkg/node"
	"github.com/sealerio/protosan/pkg/prototype"
)

// Overlay applies the top-level keys of over on top of base and returns the
// result; neither input is modified. Metadata keys are replaced wholesale
// while components are merged by discriminator. Either side may be nil.
func Overlay(base, over *node.Node) *node.Node {
	if over == nil {
		return base
	}
	if base == nil {
		base = node.NewMapping()
	}

	fields := make([]*node.Field, len(base.Fields))
	copy(fields, base.Fields)
	for _, f := range over.Fields {
		i := indexOf(fields, f.Key)
		if f.Key == common.KeyComponents {
			// a null components key declares nothing
			if !f.Value.IsSequence() {
				continue
			}
			inherited := node.NewSequence()
			if i >= 0 {
				inherited = fields[i].Value
			}
			f = f.WithValue(MergeComponents(inherited, f.Value))
		}
		if i < 0 {
			fields = append(fields, f)
			continue
		}
		fields[i] = f
	}
	return over.WithFields(fields)
}

// MergeComponents merges two component sequences. Components sharing a
// discriminator are merged field by field with the entries of over winning;
// the rest keep their order, base first. Entries without a discriminator
// cannot be matched and are carried over as they are.
func MergeComponents(base, over *node.Node) *node.Node {
	if !base.IsSequence() || !over.IsSequence() {
		return over
	}

	items := make([]*node.Node, 0, len(base.Items)+len(over.Items))
	position := make(map[string]int, len(base.Items)+len(over.Items))
	add := func(component *node.Node) {
		disc, ok := prototype.Discriminator(component)
		if !ok {
			items = append(items, component)
			return
		}
		if i, ok := position[disc]; ok {
			items[i] = MergeMapping(items[i], component)
			return
		}
		position[disc] = len(items)
		items = append(items, component)
	}

	for _, c := range base.Items {
		add(c)
	}
	for _, c := range over.Items {
		add(c)
	}
	return over.WithItems(items)
}

// MergeMapping merges over into base key by key, recursing into values that
// are mappings on both sides. Anything else, sequences included, is replaced
// by the value from over. Mappings with different tags describe different
// shapes and are never mixed.
func MergeMapping(base, over *node.Node) *node.Node {
	if !base.IsMapping() || !over.IsMapping() || base.Tag != over.Tag {
		return over
	}

	fields := make([]*node.Field, len(base.Fields))
	copy(fields, base.Fields)
	for _, f := range over.Fields {
		if i := indexOf(fields, f.Key); i >= 0 {
			fields[i] = f.WithValue(MergeMapping(fields[i].Value, f.Value))
			continue
		}
		fields = append(fields, f)
	}
	return over.WithFields(fields)
}

// Inheritable returns the part of a declared tree that descendants inherit.
func Inheritable(tree *node.Node) *node.Node {
	return filterFields(tree, func(key string) bool { return !common.NonInheritedKeys[key] })
}

// identity returns the keys that describe the prototype itself.
func identity(tree *node.Node) *node.Node {
	return filterFields(tree, func(key string) bool { return common.NonInheritedKeys[key] })
}

func filterFields(tree *node.Node, keep func(string) bool) *node.Node {
	if !tree.IsMapping() {
		return nil
	}
	fields := make([]*node.Field, 0, len(tree.Fields))
	for _, f := range tree.Fields {
		if keep(f.Key) {
			fields = append(fields, f)
		}
	}
	return tree.WithFields(fields)
}

func indexOf(fields []*node.Field, key string) int {
	for i, f := range fields {
		if f.Key == key {
			return i
		}
	}
	return -1
}
