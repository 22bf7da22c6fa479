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

package progressbar

import (
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/sealerio/protosan/common"
)

type EasyProgressUtil struct {
	progressbar.ProgressBar
}

var (
	width                  = 50
	optionEnableColorCodes = progressbar.OptionEnableColorCodes(true)
	optionSetWidth         = progressbar.OptionSetWidth(width)
	optionShowCount        = progressbar.OptionShowCount()
	OptionShowIts          = progressbar.OptionShowIts()
	optionSetWriter        = progressbar.OptionSetWriter(common.StdErr)
	optionClearOnFinish    = progressbar.OptionClearOnFinish()
	optionSetTheme         = progressbar.OptionSetTheme(progressbar.Theme{
		Saucer:        "=",
		SaucerHead:    ">",
		SaucerPadding: " ",
		BarStart:      "[",
		BarEnd:        "]",
	})
)

// NewEasyProgressUtil create a new progress bar on stderr like this:
// [loading prototypes]  94% [==============================================>   ] (1801/1913, 640 it/s) [3s:0s]
func NewEasyProgressUtil(total int, describe string) *EasyProgressUtil {
	return &EasyProgressUtil{
		*progressbar.NewOptions(total,
			optionEnableColorCodes,
			optionSetWidth,
			optionSetTheme,
			optionShowCount,
			OptionShowIts,
			optionSetWriter,
			optionClearOnFinish,
			progressbar.OptionSetDescription(describe),
		),
	}
}

// Increment add 1 to progress bar
func (epu *EasyProgressUtil) Increment() {
	if err := epu.Add(1); err != nil {
		logrus.Errorf("failed to increment progress bar, err: %s", err)
	}
}

// SetTotal raises the total of the progress bar to num.
func (epu *EasyProgressUtil) SetTotal(num int) {
	if num > epu.GetMax() {
		epu.ChangeMax(num)
	}
}

// Done completes the bar, clearing it from the terminal.
func (epu *EasyProgressUtil) Done() {
	if err := epu.Finish(); err != nil {
		logrus.Errorf("failed to finish progress bar, err: %s", err)
	}
}
