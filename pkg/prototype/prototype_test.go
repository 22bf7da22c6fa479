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
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	}
	return dir
}

type countingProgress struct {
	mu    sync.Mutex
	total int
	done  int
}

func (c *countingProgress) SetTotal(num int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total = num
}

func (c *countingProgress) Increment() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.done++
}

func TestLoad(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"Entities/Mobs/base.yml": `
- type: entity
  id: BaseMob
  abstract: true
  components:
  - type: Sprite
- type: entity
  id: Incorporeal
  parent: BaseMob
`,
		"Entities/Mobs/human.yaml": "\ufeff" + `- type: entity
  parent: [BaseMob, Incorporeal]
  id: MobHuman
`,
		"Entities/readme.txt":     "- type: entity\n  id: NotYaml\n",
		"Recipes/recipes.yml":     "- type: recipe\n  id: Bread\n- type: entity\n",
		"Maps/settings.yml":       "meta:\n  format: 6\n",
		"Maps/empty.yml":          "",
		"Entities/Mobs/null.yml":  "- type: entity\n  id: Ghost\n  parent: ~\n",
		"Entities/Mobs/plain.yml": "- just a string\n- type: entity\n  id: Plain\n  parent:\n",
	})

	progress := &countingProgress{}
	index, err := Load(dir, WithWorkers(2), WithProgress(progress))
	require.NoError(t, err)

	assert.Equal(t, []string{"BaseMob", "Ghost", "Incorporeal", "MobHuman", "Plain"}, index.IDs())
	assert.Equal(t, 5, index.Len())
	assert.Equal(t, 7, progress.total)
	assert.Equal(t, 7, progress.done)

	human, ok := index.Get("MobHuman")
	require.True(t, ok)
	assert.Equal(t, []string{"BaseMob", "Incorporeal"}, human.Parents)
	assert.Equal(t, filepath.Join(dir, "Entities/Mobs/human.yaml"), human.Path)

	incorporeal, err := index.Lookup("Incorporeal")
	require.NoError(t, err)
	assert.Equal(t, []string{"BaseMob"}, incorporeal.Parents)

	base, _ := index.Get("BaseMob")
	assert.True(t, base.IsRoot())
	assert.Len(t, base.Components(), 1)

	for _, id := range []string{"Ghost", "Plain"} {
		p, _ := index.Get(id)
		assert.True(t, p.IsRoot(), id)
		assert.Empty(t, p.Components(), id)
	}

	_, err = index.Lookup("MobDwarf")
	assert.True(t, errors.Is(err, ErrTargetNotFound))
}

func TestLoad_DuplicateIdentifier(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.yml": "- type: entity\n  id: MobHuman\n",
		"b.yml": "- type: entity\n  id: MobHuman\n",
	})

	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateIdentifier))
	assert.Contains(t, err.Error(), filepath.Join(dir, "a.yml")+" and "+filepath.Join(dir, "b.yml"))
}

func TestLoad_MalformedDocuments(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"broken.yml":     "- type: entity\n  id: [A\n",
		"duplicate.yml":  "- type: entity\n  id: A\n  id: B\n",
		"components.yml": "- type: entity\n  id: C\n  components:\n    type: Sprite\n",
		"parent.yml":     "- type: entity\n  id: D\n  parent: {id: A}\n",
		"fine.yml":       "- type: entity\n  id: E\n",
	})

	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedDocument))
	for _, name := range []string{"broken.yml", "duplicate.yml", "components.yml", "parent.yml"} {
		assert.Contains(t, err.Error(), filepath.Join(dir, name))
	}
	assert.NotContains(t, err.Error(), "fine.yml")
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestNewPrototype(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		wantParents []string
		wantErr     bool
	}{
		{"no parent", "{type: entity, id: A}", nil, false},
		{"single parent", "{type: entity, id: A, parent: B}", []string{"B"}, false},
		{"parent list", "{type: entity, id: A, parent: [B, C]}", []string{"B", "C"}, false},
		{"null parent", "{type: entity, id: A, parent: null}", nil, false},
		{"empty id", `{type: entity, id: ""}`, nil, true},
		{"mapping id", "{type: entity, id: {a: b}}", nil, true},
		{"nested parent list", "{type: entity, id: A, parent: [[B]]}", nil, true},
		{"null components", "{type: entity, id: A, parent: B, components: null}", []string{"B"}, false},
		{"components mapping", "{type: entity, id: A, components: {type: Sprite}}", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPrototype(mustParse(t, tt.doc), "test.yml")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedDocument))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "A", p.ID)
			assert.Equal(t, tt.wantParents, p.Parents)
		})
	}
}

func TestDiscriminator(t *testing.T) {
	disc, ok := Discriminator(mustParse(t, "{type: Sprite, state: idle}"))
	assert.True(t, ok)
	assert.Equal(t, "Sprite", disc)

	_, ok = Discriminator(mustParse(t, "{state: idle}"))
	assert.False(t, ok)
	_, ok = Discriminator(mustParse(t, "[a]"))
	assert.False(t, ok)
}
