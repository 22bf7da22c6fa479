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
	"strings"

	"github.com/pkg/errors"

	"github.com/sealerio/protosan/pkg/prototype"
)

// Lineage is the validated ancestry of one prototype.
type Lineage struct {
	ID string
	// Ancestors lists every ancestor once, expanded depth-first and left to
	// right in parent declaration order. An ancestor reachable through several
	// parents keeps its first-visited position.
	Ancestors []string
	// ResolveOrder holds the same ids ordered so that every ancestor comes
	// after all of its own parents, root-most first.
	ResolveOrder []string
}

// Resolver expands parent references of indexed prototypes.
type Resolver struct {
	index *prototype.Index
}

func NewResolver(index *prototype.Index) *Resolver {
	return &Resolver{index: index}
}

// Resolve returns the lineage of id. It fails on unknown parents and on
// inheritance cycles, reporting the cycle path.
func (r *Resolver) Resolve(id string) (*Lineage, error) {
	if _, err := r.index.Lookup(id); err != nil {
		return nil, err
	}

	w := &walker{
		index:      r.index,
		inProgress: map[string]bool{},
		visited:    map[string]bool{id: true},
		lineage:    &Lineage{ID: id},
	}
	if err := w.expand(id); err != nil {
		return nil, err
	}
	return w.lineage, nil
}

type walker struct {
	index      *prototype.Index
	inProgress map[string]bool
	visited    map[string]bool
	// path is the chain of ids currently being expanded.
	path    []string
	lineage *Lineage
}

func (w *walker) expand(id string) error {
	p, _ := w.index.Get(id)

	w.inProgress[id] = true
	w.path = append(w.path, id)

	for _, parent := range p.Parents {
		if w.inProgress[parent] {
			return errors.Wrapf(prototype.ErrCyclicInheritance, "%s", w.cycle(parent))
		}
		if w.visited[parent] {
			continue
		}
		if _, ok := w.index.Get(parent); !ok {
			return errors.Wrapf(prototype.ErrUnknownParent, "entity %q declares parent %q", id, parent)
		}

		w.visited[parent] = true
		w.lineage.Ancestors = append(w.lineage.Ancestors, parent)
		if err := w.expand(parent); err != nil {
			return err
		}
	}

	w.path = w.path[:len(w.path)-1]
	delete(w.inProgress, id)
	if id != w.lineage.ID {
		w.lineage.ResolveOrder = append(w.lineage.ResolveOrder, id)
	}
	return nil
}

// cycle renders the expansion path from the first occurrence of id back to id.
func (w *walker) cycle(id string) string {
	start := 0
	for i, visiting := range w.path {
		if visiting == id {
			start = i
			break
		}
	}
	ids := append(append([]string{}, w.path[start:]...), id)
	return strings.Join(ids, " -> ")
}
