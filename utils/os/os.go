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

package os

import "io"

type FileWriter interface {
	WriteFile(content []byte) error
}

// streamWriter writes the whole content to an already open stream.
type streamWriter struct {
	w io.Writer
}

func (s streamWriter) WriteFile(content []byte) error {
	_, err := s.w.Write(content)
	return err
}

func NewStreamWriter(w io.Writer) FileWriter {
	return streamWriter{w: w}
}
