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

package cmd

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sealerio/protosan/common"
	"github.com/sealerio/protosan/pkg/config"
	"github.com/sealerio/protosan/pkg/node"
	"github.com/sealerio/protosan/pkg/prototype"
	"github.com/sealerio/protosan/pkg/render"
	"github.com/sealerio/protosan/pkg/sanitizer"
	osi "github.com/sealerio/protosan/utils/os"
	"github.com/sealerio/protosan/utils/progressbar"
)

// runSanitize indexes opts.Dir, minimises every requested entity and writes
// them as a single document to opts.Output.
func runSanitize(opts *config.Options, showProgress bool) error {
	start := time.Now()
	logrus.Infof("indexing entity prototypes under %s", opts.Dir)

	loadOpts := []prototype.LoadOption{prototype.WithWorkers(opts.Workers)}
	var bar *progressbar.EasyProgressUtil
	if showProgress {
		bar = progressbar.NewEasyProgressUtil(0, "loading prototypes")
		loadOpts = append(loadOpts, prototype.WithProgress(bar))
	}
	index, err := prototype.Load(opts.Dir, loadOpts...)
	if bar != nil {
		bar.Done()
	}
	if err != nil {
		return err
	}
	logrus.Infof("indexed %d entity prototypes in %s", index.Len(), time.Since(start).Round(time.Millisecond))

	s, err := sanitizer.New(index, sanitizer.WithDeepDiff(opts.Deep))
	if err != nil {
		return err
	}
	results, err := s.MinimizeAll(opts.IDs)
	if err != nil {
		return err
	}

	trees := make([]*node.Node, 0, len(results))
	for _, r := range results {
		logrus.Infof("sanitized %s: %s", r.ID, r.Summary())
		for _, removal := range r.Removed {
			logrus.Debugf("%s: %s", r.ID, removal)
		}
		trees = append(trees, r.Tree)
	}

	data, err := render.Render(trees...)
	if err != nil {
		return err
	}
	if err = osi.NewOutputWriter(opts.Output).WriteFile(data); err != nil {
		return errors.Wrapf(err, "failed to write %s", opts.Output)
	}
	if opts.Report {
		sanitizer.PrintReport(common.StdErr, results)
	}

	if opts.Output != common.StdoutOutput {
		logrus.Infof("wrote %d sanitized prototypes to %s", len(results), opts.Output)
	}
	return nil
}
