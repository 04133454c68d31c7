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

package rootfile

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/dab/pkg/errs"
	"gitlab.com/tozd/go/errors"
)

// 📁 Project layout constants
const (
	SourceRoot = "src"
	LibRS      = "lib.rs"
	MainRS     = "main.rs"
	ModRS      = "mod.rs"
)

// 📦 Kind is the package type implied by the root file
type Kind int

const (
	Library Kind = iota // lib.rs
	Binary              // main.rs
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case Library:
		return "library"
	case Binary:
		return "binary"
	default:
		return "unknown"
	}
}

// FileName returns the root file's base name.
func (k Kind) FileName() string {
	if k == Binary {
		return MainRS
	}
	return LibRS
}

// Path returns the root file path under sourceRoot, relative to the project
// directory. An empty sourceRoot means SourceRoot.
func (k Kind) Path(sourceRoot string) string {
	if sourceRoot == "" {
		sourceRoot = SourceRoot
	}
	return filepath.Join(sourceRoot, k.FileName())
}

// 🔍 Locate determines which root file projectDir uses. Exactly one of
// lib.rs and main.rs under sourceRoot (default SourceRoot) must be a regular file.
func Locate(ctx context.Context, projectDir, sourceRoot string) (Kind, error) {
	isLib, err := isFile(filepath.Join(projectDir, Library.Path(sourceRoot)))
	if err != nil {
		return 0, err
	}
	isBin, err := isFile(filepath.Join(projectDir, Binary.Path(sourceRoot)))
	if err != nil {
		return 0, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("project_dir", projectDir).
		Str("source_root", sourceRoot).
		Bool("has_lib_rs", isLib).
		Bool("has_main_rs", isBin).
		Msg("locating root file")

	switch {
	case isLib && isBin:
		return 0, errors.Errorf("%w: current package contains both `lib.rs` and `main.rs`", errs.ErrAmbiguousRootFile)
	case isLib:
		return Library, nil
	case isBin:
		return Binary, nil
	default:
		return 0, errors.Errorf("%w: current package contains neither `%s` nor `%s`", errs.ErrAmbiguousRootFile,
			filepath.ToSlash(Library.Path(sourceRoot)), filepath.ToSlash(Binary.Path(sourceRoot)))
	}
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil {
		return info.Mode().IsRegular(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errs.IO("checking root file", path, err)
}
