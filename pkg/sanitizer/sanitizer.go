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

package sanitizer

import (
	"github.com/sirupsen/logrus"

	"github.com/sealerio/protosan/common"
	"github.com/sealerio/protosan/pkg/inherit"
	"github.com/sealerio/protosan/pkg/node"
	"github.com/sealerio/protosan/pkg/prototype"
)

type Option func(*Sanitizer)

// WithDeepDiff makes minimisation recurse into nested mappings of component
// fields instead of keeping any differing field whole.
func WithDeepDiff(deep bool) Option {
	return func(s *Sanitizer) {
		s.deep = deep
	}
}

// Sanitizer strips declarations that a prototype would inherit unchanged.
type Sanitizer struct {
	index  *prototype.Index
	merger *inherit.Merger
	deep   bool
}

func New(index *prototype.Index, opts ...Option) (*Sanitizer, error) {
	merger, err := inherit.NewMerger(index)
	if err != nil {
		return nil, err
	}

	s := &Sanitizer{index: index, merger: merger}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Result is the minimal form of one prototype.
type Result struct {
	ID string
	// Tree is a sub-tree of the declared tree: every value it keeps is taken
	// unchanged from the declaration.
	Tree    *node.Node
	Removed []Removal
}

// MinimizeAll checks that every id is indexed before minimising any of them.
func (s *Sanitizer) MinimizeAll(ids []string) ([]*Result, error) {
	for _, id := range ids {
		if _, err := s.index.Lookup(id); err != nil {
			return nil, err
		}
	}

	results := make([]*Result, 0, len(ids))
	for _, id := range ids {
		r, err := s.Minimize(id)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// Minimize removes from the declared tree of id every top-level key,
// component and component field that equals what the parents already
// provide. type, id, parent and abstract are always kept.
func (s *Sanitizer) Minimize(id string) (*Result, error) {
	p, err := s.index.Lookup(id)
	if err != nil {
		return nil, err
	}
	baseline, err := s.merger.Baseline(id)
	if err != nil {
		return nil, err
	}

	result := &Result{ID: id}
	fields := make([]*node.Field, 0, len(p.Tree.Fields))
	for _, f := range p.Tree.Fields {
		switch {
		case common.NonInheritedKeys[f.Key]:
			fields = append(fields, f)
		case f.Key == common.KeyComponents && !f.Value.IsSequence():
			result.Removed = append(result.Removed, Removal{Kind: KeyRemoved, Path: f.Key})
		case f.Key == common.KeyComponents:
			components := s.minimizeComponents(result, f.Value, baseline.Get(common.KeyComponents))
			if len(components.Items) == 0 && len(f.Value.Items) > 0 {
				continue
			}
			fields = append(fields, f.WithValue(components))
		default:
			if inherited := baseline.Get(f.Key); inherited != nil && node.Equal(f.Value, inherited) {
				result.Removed = append(result.Removed, Removal{Kind: KeyRemoved, Path: f.Key})
				continue
			}
			fields = append(fields, f)
		}
	}
	result.Tree = p.Tree.WithFields(fields)

	logrus.Debugf("entity %q: %s", id, result.Summary())
	return result, nil
}

func (s *Sanitizer) minimizeComponents(result *Result, declared, inherited *node.Node) *node.Node {
	byType := map[string]*node.Node{}
	if inherited.IsSequence() {
		for _, c := range inherited.Items {
			if disc, ok := prototype.Discriminator(c); ok {
				byType[disc] = c
			}
		}
	}

	items := make([]*node.Node, 0, len(declared.Items))
	for _, c := range declared.Items {
		disc, ok := prototype.Discriminator(c)
		if !ok {
			items = append(items, c)
			continue
		}
		base, found := byType[disc]
		if !found {
			byType[disc] = c
			items = append(items, c)
			continue
		}
		// a repeated discriminator is compared against what the earlier
		// entries already resolve to
		byType[disc] = inherit.MergeMapping(base, c)

		reduced, removed := s.diff(c, base, "", true)
		if len(reduced.Fields) == 1 && reduced.Has(common.DiscriminatorKey) {
			result.Removed = append(result.Removed, Removal{Kind: ComponentRemoved, Component: disc})
			continue
		}
		for _, path := range removed {
			result.Removed = append(result.Removed, Removal{Kind: FieldRemoved, Component: disc, Path: path})
		}
		items = append(items, reduced)
	}
	return declared.WithItems(items)
}

// diff drops the fields of declared that equal the same field of inherited,
// returning the remaining mapping and the paths it dropped.
func (s *Sanitizer) diff(declared, inherited *node.Node, prefix string, component bool) (*node.Node, []string) {
	var removed []string
	fields := make([]*node.Field, 0, len(declared.Fields))

	for _, f := range declared.Fields {
		if component && f.Key == common.DiscriminatorKey {
			fields = append(fields, f)
			continue
		}

		path := f.Key
		if prefix != "" {
			path = prefix + "." + f.Key
		}

		value := inherited.Get(f.Key)
		switch {
		case value == nil:
			fields = append(fields, f)
		case node.Equal(f.Value, value):
			removed = append(removed, path)
		case s.deep && f.Value.IsMapping() && value.IsMapping() && f.Value.Tag == value.Tag:
			nested, nestedRemoved := s.diff(f.Value, value, path, false)
			if len(nested.Fields) == 0 {
				removed = append(removed, path)
				continue
			}
			removed = append(removed, nestedRemoved...)
			fields = append(fields, f.WithValue(nested))
		default:
			fields = append(fields, f)
		}
	}
	return declared.WithFields(fields), removed
}
