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
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/pkg/errors"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"

	"github.com/sealerio/protosan/common"
)

const logFileName = "protosan.log"

// NewFileHook writes entries of every level to dir/protosan.log, rotated daily.
func NewFileHook(dir string) (logrus.Hook, error) {
	if dir == "" {
		dir = common.DefaultLogDir()
	}

	path := filepath.Join(dir, logFileName)
	writer, err := rotatelogs.New(
		path+".%Y%m%d",
		rotatelogs.WithLinkName(path),
		rotatelogs.WithRotationTime(24*time.Hour),
		rotatelogs.WithMaxAge(7*24*time.Hour),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open log file %s", path)
	}

	writers := lfshook.WriterMap{}
	for _, level := range logrus.AllLevels {
		writers[level] = writer
	}

	return lfshook.NewHook(writers, &logrus.TextFormatter{
		DisableColors: true,
		CallerPrettyfier: func(frame *runtime.Frame) (function string, file string) {
			return "", fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
		},
	}), nil
}
