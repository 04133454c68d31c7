// Copyright 2025 walteh LLC
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

package opts

import (
	"github.com/walteh/dab/pkg/config"
	"github.com/walteh/dab/pkg/log"
	"github.com/walteh/dab/pkg/module"
)

// RootOpts contains the resolved options for a single dab run
type RootOpts struct {
	Config     *config.Config
	Reporter   *log.Logger
	ProjectDir string
	Module     module.Options
}

// FlagSet holds the module flags given on the command line. A nil field was
// not given and leaves the config file's value; a set one wins over the file,
// including an explicit `--public=false`.
type FlagSet struct {
	Public      *bool
	SkipHeader  *bool
	NoDirectory *bool
}

// Merge combines the config file with the command line flags.
func Merge(cfg *config.Config, flags FlagSet) module.Options {
	opts := cfg.ModuleOptions()
	override(&opts.Public, flags.Public)
	override(&opts.HeaderInsertion, flags.SkipHeader)
	override(&opts.NoDirectory, flags.NoDirectory)
	return opts
}

func override(dst, flag *bool) {
	if flag != nil {
		*dst = *flag
	}
}
