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

package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/imdario/mergo"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/sealerio/protosan/common"
	osi "github.com/sealerio/protosan/utils/os"
	strutil "github.com/sealerio/protosan/utils/strings"
)

// Options drive one sanitize run. Field names double as flag, config file
// and environment keys (PROTOSAN_DIR, PROTOSAN_ID, ...).
type Options struct {
	// Dir is the root of the prototype tree, an absolute path.
	Dir string `mapstructure:"dir"`
	// IDs are the entities to sanitize, rendered in this order.
	IDs []string `mapstructure:"id"`
	// Output is the destination file, or "-" for stdout.
	Output  string `mapstructure:"output"`
	Deep    bool   `mapstructure:"deep"`
	Report  bool   `mapstructure:"report"`
	Workers int    `mapstructure:"workers"`
}

func Default() Options {
	return Options{
		Output:  common.DefaultOutputFile,
		Workers: common.DefaultWorkers,
	}
}

// Load decodes options from v, fills unset ones from Default and validates
// the result.
func Load(v *viper.Viper) (*Options, error) {
	opts := &Options{}
	if err := v.Unmarshal(opts); err != nil {
		return nil, errors.Wrap(err, "failed to decode options")
	}
	if err := mergo.Merge(opts, Default()); err != nil {
		return nil, errors.Wrap(err, "failed to apply default options")
	}
	opts.IDs = strutil.RemoveDuplicate(strutil.TrimSpace(opts.IDs))

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func (o *Options) Validate() error {
	if o.Dir == "" {
		return fmt.Errorf("prototype directory is required, set it with --dir")
	}
	if !osi.IsAbs(o.Dir) {
		return fmt.Errorf("prototype directory %s must be an absolute path", o.Dir)
	}
	if !osi.IsDir(o.Dir) {
		return fmt.Errorf("prototype directory %s does not exist or is not a directory", o.Dir)
	}
	if len(o.IDs) == 0 {
		return fmt.Errorf("at least one entity id is required, set it with --id")
	}
	if o.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", o.Workers)
	}
	return nil
}

// ReadConfigFile merges the config file at path into v. A missing file is
// only an error when the path was given explicitly.
func ReadConfigFile(v *viper.Viper, path string, explicit bool) error {
	if !explicit && !osi.IsFileExist(path) {
		return nil
	}
	v.SetConfigFile(filepath.Clean(path))
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}
	return nil
}

// Keys lists every option key known to viper.
var Keys = []string{"dir", "id", "output", "deep", "report", "workers"}

// BindEnv lets PROTOSAN_* environment variables override config file values.
func BindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(common.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, key := range Keys {
		if err := v.BindEnv(key); err != nil {
			return errors.Wrapf(err, "failed to bind environment for %s", key)
		}
	}
	return nil
}
