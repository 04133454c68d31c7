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

package main

import (
	"strconv"

	"github.com/spf13/pflag"
	"gitlab.com/tozd/go/errors"
)

var errDuplicateOption = errors.Base("duplicate options specified")

// onceBool is a boolean flag that may appear at most once on the command line.
type onceBool struct {
	value *bool
	seen  bool
}

var _ pflag.Value = (*onceBool)(nil)

func (b *onceBool) Set(s string) error {
	if b.seen {
		return errDuplicateOption
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	b.seen = true
	*b.value = v
	return nil
}

func (b *onceBool) String() string {
	if b.value == nil {
		return "false"
	}
	return strconv.FormatBool(*b.value)
}

func (b *onceBool) Type() string {
	return "bool"
}

// onceBoolVarP defines a bool flag that rejects a second occurrence.
func onceBoolVarP(fs *pflag.FlagSet, p *bool, name, shorthand, usage string) {
	flag := fs.VarPF(&onceBool{value: p}, name, shorthand, usage)
	flag.NoOptDefVal = "true"
}
