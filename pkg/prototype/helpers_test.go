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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sealerio/protosan/pkg/node"
)

func mustParse(t *testing.T, doc string) *node.Node {
	t.Helper()
	n, err := node.Parse([]byte(doc))
	require.NoError(t, err)
	return n
}
