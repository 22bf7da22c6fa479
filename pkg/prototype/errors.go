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

import "github.com/pkg/errors"

// Failures surfaced by loading, resolving, minimising and rendering
// prototypes. They are always wrapped with the offending id or path, so test
// them with errors.Is.
var (
	ErrMalformedDocument   = errors.New("malformed document")
	ErrDuplicateIdentifier = errors.New("duplicate identifier")
	ErrUnknownParent       = errors.New("unknown parent")
	ErrCyclicInheritance   = errors.New("cyclic inheritance")
	ErrTargetNotFound      = errors.New("target not found")
	ErrUnrenderableNode    = errors.New("unrenderable node")
)
