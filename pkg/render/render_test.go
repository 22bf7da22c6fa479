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
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealerio/protosan/pkg/node"
	"github.com/sealerio/protosan/pkg/prototype"
)

func mustParse(t *testing.T, doc string) *node.Node {
	t.Helper()
	n, err := node.Parse([]byte(doc))
	require.NoError(t, err)
	return n
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "known keys first and components last",
			doc:  "{components: [], description: d, extra: x, name: n, id: A, suffix: s, parent: B, type: entity, categories: [c]}",
			want: []string{"type", "parent", "id", "categories", "name", "suffix", "description", "extra", "components"},
		},
		{
			name: "abstract after type",
			doc:  "{id: A, abstract: true, type: entity}",
			want: []string{"type", "abstract", "id"},
		},
		{
			name: "unknown keys keep declaration order",
			doc:  "{zeta: 1, id: A, alpha: 2, type: entity, mid: 3}",
			want: []string{"type", "id", "zeta", "alpha", "mid"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustParse(t, tt.doc)
			got := Canonicalize(tree)
			assert.Equal(t, tt.want, got.Keys())
			assert.True(t, node.Equal(tree, got))
		})
	}
}

func TestRender(t *testing.T) {
	tree := mustParse(t, `
components:
- type: Physics
  shape: !type:PhysShapeCircle
    radius: 0.35
- type: Sprite
  state: "true"
name: observer
parent: [Incorporeal, BaseMob]
id: M
type: entity
`)

	out, err := Render(tree)
	require.NoError(t, err)
	assert.Equal(t, `- type: entity
  parent: [Incorporeal, BaseMob]
  id: M
  name: observer
  components:
    - type: Physics
      shape: !type:PhysShapeCircle
        radius: 0.35
    - type: Sprite
      state: "true"
`, string(out))

	back := mustParse(t, string(out))
	require.Len(t, back.Items, 1)
	assert.True(t, node.Equal(tree, back.Items[0]))
}

func TestRender_Batch(t *testing.T) {
	out, err := Render(
		mustParse(t, "id: A\ntype: entity\n"),
		mustParse(t, "name: b\nid: B\ntype: entity\n"),
	)
	require.NoError(t, err)
	assert.Equal(t, "- type: entity\n  id: A\n- type: entity\n  id: B\n  name: b\n", string(out))

	empty, err := Render()
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(empty))
}

func TestRender_Unrenderable(t *testing.T) {
	tests := []struct {
		name string
		tree *node.Node
		want string
	}{
		{
			name: "not a mapping",
			tree: node.NewSequence(),
			want: "prototype #0",
		},
		{
			name: "nil component value",
			tree: node.NewMapping(
				node.NewField("type", node.NewString("entity")),
				node.NewField("id", node.NewString("M")),
				node.NewField("components", node.NewSequence(nil)),
			),
			want: `entity "M": components[0]: nil node`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(tt.tree)
			require.Error(t, err)
			assert.True(t, errors.Is(err, prototype.ErrUnrenderableNode))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
