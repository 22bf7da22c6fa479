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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func mustParse(t *testing.T, doc string) *Node {
	t.Helper()
	n, err := Parse([]byte(doc))
	require.NoError(t, err)
	return n
}

func TestParse(t *testing.T) {
	n := mustParse(t, `
- type: entity
  id: MobHuman
  parent: [BaseMob, MobFlammable]
  components:
  - type: Sprite
    drawdepth: Mobs
    noRot: true
  - type: Physics
    shape: !type:PhysShapeCircle
      radius: 0.35
`)
	require.True(t, n.IsSequence())
	require.Len(t, n.Items, 1)

	proto := n.Items[0]
	assert.Equal(t, []string{"type", "id", "parent", "components"}, proto.Keys())

	id, ok := proto.Get("id").ScalarValue()
	assert.True(t, ok)
	assert.Equal(t, "MobHuman", id)
	assert.Equal(t, 3, proto.Get("id").Line())

	components := proto.Get("components")
	require.True(t, components.IsSequence())
	require.Len(t, components.Items, 2)
	assert.Equal(t, "!!bool", components.Items[0].Get("noRot").Tag)

	shape := components.Items[1].Get("shape")
	assert.True(t, shape.IsMapping())
	assert.Equal(t, "!type:PhysShapeCircle", shape.Tag)
	assert.Equal(t, "!!float", shape.Get("radius").Tag)
}

func TestParse_Empty(t *testing.T) {
	for _, doc := range []string{"", "\n", "# only a comment\n"} {
		n, err := Parse([]byte(doc))
		assert.NoError(t, err)
		assert.Nil(t, n)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "duplicate key",
			doc:     "- id: A\n  name: one\n  name: two\n",
			wantErr: `duplicate key "name"`,
		},
		{
			name:    "non scalar key",
			doc:     "? [a, b]\n: value\n",
			wantErr: "mapping key must be a scalar",
		},
		{
			name:    "broken syntax",
			doc:     "- id: [A\n",
			wantErr: "yaml:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFromYAML_Aliases(t *testing.T) {
	n := mustParse(t, `
base: &base
  color: red
  size: 2
copy: *base
`)
	assert.True(t, Equal(n.Get("base"), n.Get("copy")))

	// a sequence holding an alias to itself
	self := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Anchor: "loop"}
	self.Content = []*yaml.Node{{Kind: yaml.AliasNode, Value: "loop", Alias: self}}
	_, err := FromYAML(self)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refers to itself")
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"same scalar", "5", "5", true},
		{"int and string differ", "5", `"5"`, false},
		{"bool and string differ", "true", `"true"`, false},
		{"quoting style is ignored", `'x'`, `"x"`, true},
		{"mapping key order is ignored", "{a: 1, b: 2}", "{b: 2, a: 1}", true},
		{"mapping with extra key", "{a: 1}", "{a: 1, b: 2}", false},
		{"sequence order matters", "[1, 2]", "[2, 1]", false},
		{"nested equal", "{a: [1, {b: c}]}", "{a: [1, {b: c}]}", true},
		{"custom tags differ", "!type:A {r: 1}", "!type:B {r: 1}", false},
		{"scalar and sequence differ", "a", "[a]", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := mustParse(t, tt.a), mustParse(t, tt.b)
			assert.Equal(t, tt.want, Equal(a, b))
			assert.Equal(t, tt.want, Equal(b, a))
		})
	}

	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, NewString("a")))
}

func TestToYAML_RoundTrip(t *testing.T) {
	doc := `- type: entity
  id: "Quoted"
  name: 'single'
  description: |
    two
    lines
  flag: "true"
  components:
    - type: Physics # inline comment
      shape: !type:PhysShapeCircle
        radius: 0.35
`
	n := mustParse(t, doc)
	y, err := n.ToYAML()
	require.NoError(t, err)

	out, err := yaml.Marshal(y)
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, `id: "Quoted"`)
	assert.Contains(t, text, `name: 'single'`)
	assert.Contains(t, text, "description: |")
	assert.Contains(t, text, `flag: "true"`)
	assert.Contains(t, text, "!type:PhysShapeCircle")
	assert.Contains(t, text, "# inline comment")

	again := mustParse(t, text)
	assert.True(t, Equal(n, again))
}

func TestToYAML_Invalid(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		path string
	}{
		{"nil node", nil, ""},
		{"nil field", NewMapping(NewField("id", NewString("A")), nil), ""},
		{"nil value", NewMapping(NewField("components", NewSequence(NewMapping(NewField("type", nil))))), "components[0].type"},
		{"unknown kind", NewMapping(NewField("id", &Node{Tag: StrTag, Value: "A"})), "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.node.ToYAML()
			require.Error(t, err)
			var invalid *InvalidNodeError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.path, invalid.Path)
		})
	}
}

func TestNode_Builders(t *testing.T) {
	src := mustParse(t, "{type: Sprite, state: idle, layers: [a, b]}")

	trimmed := src.WithFields(src.Fields[:1])
	assert.Equal(t, []string{"type"}, trimmed.Keys())
	assert.Equal(t, []string{"type", "state", "layers"}, src.Keys())

	clone := src.Clone()
	clone.Fields[1].Value.Value = "walking"
	clone.Get("layers").Items[0].Value = "c"
	assert.Equal(t, "idle", src.Get("state").Value)
	assert.Equal(t, "a", src.Get("layers").Items[0].Value)

	f := src.Field("state").WithValue(NewString("running"))
	assert.Equal(t, "state", f.Key)
	assert.Equal(t, "idle", src.Get("state").Value)

	assert.Nil(t, src.Get("missing"))
	assert.False(t, NewString("x").Has("x"))
	assert.Nil(t, NewSequence().Keys())
}
