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
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sealerio/protosan/pkg/version"
)

var (
	shortPrint bool
	output     string
)

func NewVersionCmd() *cobra.Command {
	versionCmd := &cobra.Command{
		Use:     "version",
		Short:   "Print version info",
		Args:    cobra.NoArgs,
		Example: `protosan version`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "yaml" && output != "json" {
				return fmt.Errorf("output format must be yaml or json")
			}
			if shortPrint {
				fmt.Println(version.Get().String())
				return nil
			}
			return PrintToStd(&version.Output{ProtosanVersion: version.Get()})
		},
	}
	versionCmd.Flags().BoolVar(&shortPrint, "short", false, "If true, print just the version number.")
	versionCmd.Flags().StringVarP(&output, "output", "o", "yaml", "choose `yaml` or `json` format to print version info")
	return versionCmd
}

func PrintToStd(outputInfo *version.Output) error {
	var (
		marshalled []byte
		err        error
	)
	switch output {
	case "yaml":
		marshalled, err = yaml.Marshal(outputInfo)
		if err != nil {
			return fmt.Errorf("fail to marshal yaml: %w", err)
		}
	case "json":
		marshalled, err = json.Marshal(outputInfo)
		if err != nil {
			return fmt.Errorf("fail to marshal json: %w", err)
		}
	default:
		return fmt.Errorf("--output=%q should have been rejected", output)
	}
	fmt.Println(string(marshalled))
	return nil
}
