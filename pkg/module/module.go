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

package module

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/dab/pkg/cowfile"
	"github.com/walteh/dab/pkg/errs"
	"github.com/walteh/dab/pkg/naming"
	"github.com/walteh/dab/pkg/patch"
	"github.com/walteh/dab/pkg/rootfile"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options is the configuration used while creating a module
type Options struct {
	Public           bool   // declare the module with `pub mod`
	HeaderInsertion  bool   // insert the declaration below a leading comment header
	NoDirectory      bool   // create <module>.rs instead of <module>/mod.rs
	CleanupOnFailure bool   // remove the root file's temp file when patching fails
	SourceRoot       string // directory holding module files, relative to the project (default "src")
}

func (o Options) sourceRoot() string {
	if o.SourceRoot == "" {
		return rootfile.SourceRoot
	}
	return o.SourceRoot
}

// 📋 Result describes what Create changed on disk
type Result struct {
	Created     []string // directories and files created, in creation order
	Patched     string   // the root file the declaration went into
	Declaration string   // the inserted declaration line
}

// 🏗️ Create creates the module named by segments under the source root of
// projectDir and declares it in that directory's root file for kind. Every segment is
// validated before anything touches disk. Only single-segment paths are
// supported.
//
// A failure after the module file is created leaves that file in place.
func Create(ctx context.Context, projectDir string, kind rootfile.Kind, segments naming.ModulePath, opts Options) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	if err := segments.Validate(); err != nil {
		return nil, err
	}
	if len(segments) != 1 {
		return nil, errors.Errorf("%w: modules other than the root aren't supported yet. this will be implemented in a future version", errs.ErrUnsupportedPath)
	}
	name := segments[0]

	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("creating module %s: %w", name, err)
	}

	rootFile := kind.Path(opts.sourceRoot())
	result := &Result{
		Patched:     filepath.Join(projectDir, rootFile),
		Declaration: patch.Declaration(name, opts.Public),
	}

	srcDir := filepath.Join(projectDir, opts.sourceRoot())
	if opts.NoDirectory {
		file := filepath.Join(srcDir, name+".rs")
		if err := createFile(file); err != nil {
			return nil, err
		}
		result.Created = append(result.Created, file)
	} else {
		dir := filepath.Join(srcDir, name)
		if err := os.Mkdir(dir, 0755); err != nil {
			return nil, errs.IO("creating module directory", dir, err)
		}
		result.Created = append(result.Created, dir)

		file := filepath.Join(dir, rootfile.ModRS)
		if err := createFile(file); err != nil {
			return result, err
		}
		result.Created = append(result.Created, file)
	}

	logger.Debug().Strs("created", result.Created).Str("module", name).Msg("created module files")

	transform := patch.DeclarationTransform{
		Name:        name,
		Public:      opts.Public,
		HeaderAware: opts.HeaderInsertion,
	}
	patcher := cowfile.New(cowfile.Options{CleanupOnFailure: opts.CleanupOnFailure})
	if err := patcher.Apply(ctx, result.Patched, transform); err != nil {
		return result, errors.Errorf("adding `%s` to %s: %w", result.Declaration, rootFile, err)
	}

	logger.Debug().Str("root_file", result.Patched).Str("declaration", result.Declaration).Msg("declared module")
	return result, nil
}

// createFile creates an empty file, failing if anything already exists at path.
func createFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return errs.IO("creating module file", path, err)
	}
	if err := f.Close(); err != nil {
		return errs.IO("creating module file", path, err)
	}
	return nil
}
