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

package prototype

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/sealerio/protosan/common"
	"github.com/sealerio/protosan/pkg/node"
)

// Prototype is one entity prototype exactly as declared in its document.
type Prototype struct {
	ID      string
	Parents []string
	// Tree is the declared mapping. It is shared by every consumer and must
	// never be modified.
	Tree *node.Node
	// Path is the file the prototype was read from.
	Path string
}

// Components returns the declared component entries, which may be empty.
func (p *Prototype) Components() []*node.Node {
	if c := p.Tree.Get(common.KeyComponents); c.IsSequence() {
		return c.Items
	}
	return nil
}

// IsRoot reports whether the prototype declares no parent.
func (p *Prototype) IsRoot() bool {
	return len(p.Parents) == 0
}

// NewPrototype validates an entity mapping read from path and extracts its
// identity.
func NewPrototype(tree *node.Node, path string) (*Prototype, error) {
	if !tree.IsMapping() {
		return nil, errors.Wrapf(ErrMalformedDocument, "%s: prototype is a %s, not a mapping", path, kindOf(tree))
	}

	idNode := tree.Get(common.KeyID)
	id, ok := idNode.ScalarValue()
	if !ok || id == "" {
		return nil, errors.Wrapf(ErrMalformedDocument, "%s: entity id must be a non-empty scalar", path)
	}

	parents, err := parseParents(tree.Get(common.KeyParent))
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedDocument, "%s: entity %q: %v", path, id, err)
	}

	if c := tree.Get(common.KeyComponents); c != nil && c.Tag != node.NullTag && !c.IsSequence() {
		return nil, errors.Wrapf(ErrMalformedDocument, "%s: entity %q: components must be a sequence, got %s", path, id, c.Kind)
	}

	return &Prototype{ID: id, Parents: parents, Tree: tree, Path: path}, nil
}

// parseParents accepts a single parent id or a sequence of them.
func parseParents(n *node.Node) ([]string, error) {
	if n == nil {
		return nil, nil
	}
	if v, ok := n.ScalarValue(); ok {
		if v == "" || n.Tag == node.NullTag {
			return nil, nil
		}
		return []string{v}, nil
	}
	if !n.IsSequence() {
		return nil, errors.Errorf("parent must be a scalar or a sequence, got %s", n.Kind)
	}

	parents := make([]string, 0, len(n.Items))
	for i, item := range n.Items {
		v, ok := item.ScalarValue()
		if !ok || v == "" {
			return nil, errors.Errorf("parent[%d] must be a non-empty scalar", i)
		}
		parents = append(parents, v)
	}
	return parents, nil
}

// IsEntity reports whether a top-level document entry is an entity prototype.
func IsEntity(n *node.Node) bool {
	t, ok := n.Get(common.KeyType).ScalarValue()
	return ok && t == common.EntityType && n.Has(common.KeyID)
}

// Discriminator returns the component type of a component entry.
func Discriminator(component *node.Node) (string, bool) {
	v, ok := component.Get(common.DiscriminatorKey).ScalarValue()
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func kindOf(n *node.Node) string {
	if n == nil {
		return "null"
	}
	return n.Kind.String()
}

// Index maps prototype ids to their declared trees.
type Index struct {
	prototypes map[string]*Prototype
}

func NewIndex() *Index {
	return &Index{prototypes: make(map[string]*Prototype)}
}

// Add registers p, refusing a second prototype with the same id.
func (i *Index) Add(p *Prototype) error {
	if existing, ok := i.prototypes[p.ID]; ok {
		return errors.Wrapf(ErrDuplicateIdentifier, "entity %q declared in both %s and %s", p.ID, existing.Path, p.Path)
	}
	i.prototypes[p.ID] = p
	return nil
}

func (i *Index) Get(id string) (*Prototype, bool) {
	p, ok := i.prototypes[id]
	return p, ok
}

// Lookup is Get for callers that need a TargetNotFound error.
func (i *Index) Lookup(id string) (*Prototype, error) {
	p, ok := i.prototypes[id]
	if !ok {
		return nil, errors.Wrapf(ErrTargetNotFound, "entity %q", id)
	}
	return p, nil
}

func (i *Index) Len() int {
	return len(i.prototypes)
}

// IDs returns every indexed id in lexical order.
func (i *Index) IDs() []string {
	ids := make([]string, 0, len(i.prototypes))
	for id := range i.prototypes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
