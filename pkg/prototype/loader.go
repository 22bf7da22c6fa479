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
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sealerio/protosan/common"
	"github.com/sealerio/protosan/pkg/node"
	osi "github.com/sealerio/protosan/utils/os"
	"github.com/sealerio/protosan/utils/yaml"
)

// ProgressReporter receives loading progress, one increment per file.
type ProgressReporter interface {
	SetTotal(num int)
	Increment()
}

type noopProgress struct{}

func (noopProgress) SetTotal(int) {}
func (noopProgress) Increment()   {}

type loadConfig struct {
	workers  int
	progress ProgressReporter
}

type LoadOption func(*loadConfig)

// WithWorkers bounds the number of files decoded at the same time.
func WithWorkers(n int) LoadOption {
	return func(c *loadConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

func WithProgress(p ProgressReporter) LoadOption {
	return func(c *loadConfig) {
		if p != nil {
			c.progress = p
		}
	}
}

// Load indexes every entity prototype found in the YAML files below root.
// Files are decoded concurrently but indexed in lexical path order. Any
// malformed file aborts the load; all of them are reported together.
func Load(root string, opts ...LoadOption) (*Index, error) {
	cfg := &loadConfig{workers: common.DefaultWorkers, progress: noopProgress{}}
	for _, opt := range opts {
		opt(cfg)
	}

	files, err := findDocuments(root)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("found %d prototype files under %s", len(files), root)
	cfg.progress.SetTotal(len(files))

	loaded := make([][]*Prototype, len(files))
	loadErrs := make([]error, len(files))

	var eg errgroup.Group
	eg.SetLimit(cfg.workers)
	for i, file := range files {
		i, file := i, file
		eg.Go(func() error {
			defer cfg.progress.Increment()
			loaded[i], loadErrs[i] = loadFile(file)
			return nil
		})
	}
	_ = eg.Wait()

	var result *multierror.Error
	for _, err := range loadErrs {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	index := NewIndex()
	for i, protos := range loaded {
		for _, p := range protos {
			if err := index.Add(p); err != nil {
				return nil, err
			}
		}
		if len(protos) > 0 {
			logrus.Debugf("loaded %d prototypes from %s", len(protos), files[i])
		}
	}
	return index, nil
}

func findDocuments(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to stat prototype directory %s", root)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("prototype path %s is not a directory", root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && yaml.Matcher(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", root)
	}
	return files, nil
}

// loadFile returns the entity prototypes declared in one file. Documents
// whose root is not a sequence hold no prototypes and are skipped.
func loadFile(path string) ([]*Prototype, error) {
	data, err := osi.NewFileReader(path).ReadAll()
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedDocument, "%s: %v", path, err)
	}

	root, err := node.Parse(data)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedDocument, "%s: %v", path, err)
	}
	if !root.IsSequence() {
		logrus.Debugf("skipping %s: document root is not a sequence", path)
		return nil, nil
	}

	var protos []*Prototype
	for _, entry := range root.Items {
		if !entry.IsMapping() || !IsEntity(entry) {
			continue
		}
		p, err := NewPrototype(entry, path)
		if err != nil {
			return nil, err
		}
		protos = append(protos, p)
	}
	return protos, nil
}
