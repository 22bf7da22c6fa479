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

package logger

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sealerio/protosan/common"
)

type LogOptions struct {
	// OutputPath is the directory of the log file, default is `$HOME/.protosan/log`.
	OutputPath string
	// Verbose switches the level from info to debug.
	Verbose bool
	// DisableColor if true will disable outputting colors.
	DisableColor bool
	HideLogTime  bool
	HideLogPath  bool
	// LogToFile also writes every entry to a daily rotated file.
	LogToFile bool
}

// Init configures the global logrus logger. Console logs always go to
// stderr so that a document written to stdout stays clean.
func Init(options LogOptions) error {
	if options.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	logrus.SetOutput(common.StdErr)
	logrus.SetReportCaller(options.Verbose)
	logrus.SetFormatter(&Formatter{
		DisableColor: options.DisableColor,
		HideLogTime:  options.HideLogTime,
		HideLogPath:  options.HideLogPath,
	})

	if options.LogToFile {
		fh, err := NewFileHook(options.OutputPath)
		if err != nil {
			return errors.Errorf("failed to init log file hook: %v", err)
		}
		logrus.AddHook(fh)
	}

	return nil
}
