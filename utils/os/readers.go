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

import (
	"bytes"
	"os"
	"path/filepath"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type FileReader interface {
	ReadAll() ([]byte, error)
}

type fileReader struct {
	fileName string
}

// ReadAll returns the whole file with a leading UTF-8 byte order mark
// removed, as editors on Windows tend to write one.
func (r fileReader) ReadAll() ([]byte, error) {
	content, err := os.ReadFile(filepath.Clean(r.fileName))
	if err != nil {
		return nil, err
	}
	return bytes.TrimPrefix(content, utf8BOM), nil
}

func NewFileReader(fileName string) FileReader {
	return fileReader{
		fileName: fileName,
	}
}
