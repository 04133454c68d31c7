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

package naming

import (
	"strings"

	"github.com/samber/lo"
	"github.com/walteh/dab/pkg/errs"
	"gitlab.com/tozd/go/errors"
)

// Separator splits a module path into segments.
const Separator = "::"

// 🧭 ModulePath is a module path split into its segments
type ModulePath []string

// ParseModulePath splits raw on "::". It handles "", "::", "::a" and "a::"
// by rejecting any empty segment.
func ParseModulePath(raw string) (ModulePath, error) {
	segments := strings.Split(raw, Separator)
	if lo.Contains(segments, "") {
		return nil, errors.Errorf("%w: %q", errs.ErrEmptyPath, raw)
	}
	return ModulePath(segments), nil
}

// Validate checks every segment with ValidateModuleName, failing on the first bad one.
func (p ModulePath) Validate() error {
	for _, segment := range p {
		if err := ValidateModuleName(segment); err != nil {
			return err
		}
	}
	return nil
}

func (p ModulePath) String() string {
	return strings.Join(p, Separator)
}

// ValidateModuleName reports whether name is usable as a Rust module name:
// an ASCII letter (or an underscore followed by at least one more byte),
// then only ASCII letters, digits and underscores.
func ValidateModuleName(name string) error {
	if name == "" {
		return errors.Errorf("%w: name is empty", errs.ErrBadModuleName)
	}

	first := name[0]
	valid := isASCIILetter(first) || (first == '_' && len(name) > 1)
	for i := 0; valid && i < len(name); i++ {
		b := name[i]
		valid = isASCIILetter(b) || isASCIIDigit(b) || b == '_'
	}

	if !valid {
		return errors.Errorf("%w: %q", errs.ErrBadModuleName, name)
	}
	return nil
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
