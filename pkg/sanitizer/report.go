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
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

type RemovalKind string

const (
	KeyRemoved       RemovalKind = "key"
	ComponentRemoved RemovalKind = "component"
	FieldRemoved     RemovalKind = "field"
)

// Removal is one redundant declaration dropped by minimisation.
type Removal struct {
	Kind RemovalKind
	// Component is the discriminator of the affected component, empty for
	// top-level keys.
	Component string
	// Path is the dotted key of the removed value, empty when a whole
	// component was removed.
	Path string
}

func (r Removal) String() string {
	switch r.Kind {
	case ComponentRemoved:
		return fmt.Sprintf("component %s", r.Component)
	case FieldRemoved:
		return fmt.Sprintf("field %s.%s", r.Component, r.Path)
	default:
		return fmt.Sprintf("key %s", r.Path)
	}
}

// Summary counts the removals of r by kind.
func (r *Result) Summary() string {
	counts := map[RemovalKind]int{}
	for _, removal := range r.Removed {
		counts[removal.Kind]++
	}
	return fmt.Sprintf("removed %d keys, %d components, %d fields",
		counts[KeyRemoved], counts[ComponentRemoved], counts[FieldRemoved])
}

// PrintReport writes a table of every removal in results to w.
func PrintReport(w io.Writer, results []*Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ENTITY", "KIND", "COMPONENT", "PATH"})
	for _, r := range results {
		if len(r.Removed) == 0 {
			table.Append([]string{r.ID, "-", "-", "nothing redundant"})
			continue
		}
		for _, removal := range r.Removed {
			table.Append([]string{r.ID, string(removal.Kind), orDash(removal.Component), orDash(removal.Path)})
		}
	}
	table.Render()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
