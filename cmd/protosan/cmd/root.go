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
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sealerio/protosan/common"
	"github.com/sealerio/protosan/pkg/config"
	"github.com/sealerio/protosan/pkg/logger"
	"github.com/sealerio/protosan/pkg/version"
)

type rootOpts struct {
	cfgFile      string
	debugModeOn  bool
	hideLogTime  bool
	hideLogPath  bool
	logToFile    bool
	logDir       string
	colorMode    string
	hideProgress bool
}

var rootOpt rootOpts

const (
	colorModeNever  = "never"
	colorModeAlways = "always"
)

var supportedColorModes = []string{
	colorModeNever,
	colorModeAlways,
}

var longRootCmdDescription = `protosan removes redundant configuration from entity prototypes.

Every top-level key, component and component field that an entity would
inherit unchanged from its parents is stripped, leaving only the entity's
genuine overrides. Parents are resolved the way the game resolves them:
multiple parents are applied in declaration order and later parents win.
`

var exampleForRootCmd = `
sanitize one entity into output.yml:
  protosan --dir /srv/ss14/Resources/Prototypes --id MobHuman

sanitize several entities, recursing into nested mappings, and print what was removed:
  protosan --dir /srv/ss14/Resources/Prototypes --id MobHuman,MobDwarf --deep --report --output -
`

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:               "protosan",
	Short:             "Strip inherited boilerplate from entity prototypes",
	Long:              longRootCmdDescription,
	Example:           exampleForRootCmd,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return initConfig() },
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		return runSanitize(opts, !rootOpt.hideProgress)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Errorf("%s-%s: %v", common.ExecBinaryFileName, version.GetSingleVersion(), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(NewCompletionCmd(), NewVersionCmd())

	rootCmd.PersistentFlags().StringVar(&rootOpt.cfgFile, "config", "", fmt.Sprintf("config file of protosan (default is $HOME/%s)", common.DefaultConfigName))
	rootCmd.PersistentFlags().BoolVarP(&rootOpt.debugModeOn, "debug", "d", false, "turn on debug mode")
	rootCmd.PersistentFlags().BoolVar(&rootOpt.hideLogTime, "hide-time", false, "hide the log time")
	rootCmd.PersistentFlags().BoolVar(&rootOpt.hideLogPath, "hide-path", false, "hide the log path")
	rootCmd.PersistentFlags().BoolVar(&rootOpt.logToFile, "log-to-file", false, "write log message to disk")
	rootCmd.PersistentFlags().StringVar(&rootOpt.logDir, "log-dir", "", "directory of the log file (default is $HOME/.protosan/log)")
	rootCmd.PersistentFlags().StringVar(&rootOpt.colorMode, "color", colorModeAlways, fmt.Sprintf("set the log color mode, the possible values can be %v", supportedColorModes))
	rootCmd.PersistentFlags().BoolVar(&rootOpt.hideProgress, "hide-progress", false, "do not draw a progress bar while loading prototypes")

	rootCmd.Flags().String("dir", "", "absolute path of the prototype directory to index (required)")
	rootCmd.Flags().StringSlice("id", nil, "id of the entity prototype to sanitize, repeat or separate by commas for several (required)")
	rootCmd.Flags().StringP("output", "o", common.DefaultOutputFile, "output file path, - writes to stdout")
	rootCmd.Flags().Bool("deep", false, "also strip redundant keys inside nested mappings of component fields")
	rootCmd.Flags().Bool("report", false, "print a table of every removed declaration")
	rootCmd.Flags().Int("workers", common.DefaultWorkers, "number of prototype files decoded in parallel")

	if err := viper.BindPFlags(rootCmd.Flags()); err != nil {
		panic(fmt.Sprintf("failed to bind flags: %v", err))
	}
	rootCmd.DisableAutoGenTag = true
}

// initConfig reads in config file and ENV variables if set, then sets up logging.
func initConfig() error {
	if err := logger.Init(logger.LogOptions{
		OutputPath:   rootOpt.logDir,
		Verbose:      rootOpt.debugModeOn,
		DisableColor: rootOpt.colorMode == colorModeNever,
		HideLogTime:  rootOpt.hideLogTime,
		HideLogPath:  rootOpt.hideLogPath,
		LogToFile:    rootOpt.logToFile,
	}); err != nil {
		return fmt.Errorf("failed to init logger: %v", err)
	}

	explicit := rootOpt.cfgFile != ""
	if !explicit {
		rootOpt.cfgFile = common.DefaultConfigFile()
	}
	if err := config.ReadConfigFile(viper.GetViper(), rootOpt.cfgFile, explicit); err != nil {
		return err
	}
	return config.BindEnv(viper.GetViper())
}
