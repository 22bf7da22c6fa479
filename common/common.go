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

package common

import (
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// keys of an entity prototype
const (
	KeyType        = "type"
	KeyAbstract    = "abstract"
	KeyParent      = "parent"
	KeyID          = "id"
	KeyCategories  = "categories"
	KeyName        = "name"
	KeySuffix      = "suffix"
	KeyDescription = "description"
	KeyComponents  = "components"
)

const (
	EntityType = "entity"
	// DiscriminatorKey names the field that identifies a component.
	DiscriminatorKey = "type"
)

// PrototypeFieldOrder is the order of top-level keys in rendered prototypes.
// Keys not listed here follow in declaration order, and components always
// come last.
var PrototypeFieldOrder = []string{
	KeyType,
	KeyAbstract,
	KeyParent,
	KeyID,
	KeyCategories,
	KeyName,
	KeySuffix,
	KeyDescription,
}

// NonInheritedKeys describe a single prototype and are neither inherited nor
// ever stripped.
var NonInheritedKeys = map[string]bool{
	KeyType:     true,
	KeyAbstract: true,
	KeyParent:   true,
	KeyID:       true,
}

const (
	DefaultOutputFile  = "output.yml"
	StdoutOutput       = "-"
	DefaultWorkers     = 8
	DefaultIndent      = 2
	DefaultConfigName  = ".protosan.yaml"
	EnvPrefix          = "PROTOSAN"
	ExecBinaryFileName = "protosan"
)

const (
	FileMode0755 = 0755
	FileMode0644 = 0644
)

// GetHomeDir returns the user's home directory, or the working directory when
// it cannot be determined.
func GetHomeDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return "."
	}
	return home
}

func DefaultConfigFile() string {
	return filepath.Join(GetHomeDir(), DefaultConfigName)
}

func DefaultLogDir() string {
	return filepath.Join(GetHomeDir(), ".protosan", "log")
}
