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
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sealerio/protosan/pkg/node"
	"github.com/sealerio/protosan/pkg/prototype"
)

// Merger computes effective states, the trees prototypes resolve to once
// every ancestor has been applied. States are memoized for the lifetime of
// the Merger; create one Merger per run.
type Merger struct {
	index    *prototype.Index
	resolver *Resolver
	// cache holds one immutable effective state per id. It is sized to the
	// index, so entries are never evicted.
	cache *lru.Cache[string, *node.Node]
}

func NewMerger(index *prototype.Index) (*Merger, error) {
	size := index.Len()
	if size < 1 {
		size = 1
	}
	cache, err := lru.New[string, *node.Node](size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create effective state cache")
	}

	return &Merger{
		index:    index,
		resolver: NewResolver(index),
		cache:    cache,
	}, nil
}

// Lineage validates and returns the ancestry of id.
func (m *Merger) Lineage(id string) (*Lineage, error) {
	return m.resolver.Resolve(id)
}

// Effective returns the fully merged state of id: its parents folded in
// declaration order, then its own declarations on top. The returned tree is
// shared and must not be modified.
func (m *Merger) Effective(id string) (*node.Node, error) {
	if state, ok := m.cache.Get(id); ok {
		return state, nil
	}
	if err := m.prepare(id); err != nil {
		return nil, err
	}
	return m.effective(id), nil
}

// Baseline returns what id would resolve to if it declared nothing itself.
// Keys that are never inherited are absent from the baseline.
func (m *Merger) Baseline(id string) (*node.Node, error) {
	if err := m.prepare(id); err != nil {
		return nil, err
	}
	p, _ := m.index.Get(id)
	return m.fold(p.Parents), nil
}

// prepare validates the lineage of id and resolves its ancestors root-most
// first.
func (m *Merger) prepare(id string) error {
	lineage, err := m.resolver.Resolve(id)
	if err != nil {
		return err
	}
	logrus.Debugf("entity %q inherits from %v", id, lineage.Ancestors)

	for _, ancestor := range lineage.ResolveOrder {
		m.effective(ancestor)
	}
	return nil
}

// effective expects the lineage of id to be validated already.
func (m *Merger) effective(id string) *node.Node {
	if state, ok := m.cache.Get(id); ok {
		return state
	}

	p, _ := m.index.Get(id)
	warnDuplicateComponents(p)

	merged := Overlay(m.fold(p.Parents), Inheritable(p.Tree))
	fields := append(identity(p.Tree).Fields, merged.Fields...)
	state := p.Tree.WithFields(fields)

	m.cache.Add(id, state)
	return state
}

func (m *Merger) fold(parents []string) *node.Node {
	state := node.NewMapping()
	for _, parent := range parents {
		state = Overlay(state, Inheritable(m.effective(parent)))
	}
	return state
}

func warnDuplicateComponents(p *prototype.Prototype) {
	seen := map[string]bool{}
	for i, c := range p.Components() {
		disc, ok := prototype.Discriminator(c)
		if !ok {
			logrus.Debugf("entity %q: components[%d] has no type and is never matched", p.ID, i)
			continue
		}
		if seen[disc] {
			logrus.Warnf("%s:%d: entity %q declares component %s more than once, later fields win", p.Path, c.Line(), p.ID, disc)
		}
		seen[disc] = true
	}
}
