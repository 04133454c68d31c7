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

// Package project routes a module path to the right crate: the package in
// the project directory, or a workspace member named by the first segment.
// All paths are joined explicitly onto the project directory; the process
// working directory is never changed.
package project

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/dab/pkg/errs"
	"github.com/walteh/dab/pkg/manifest"
	"github.com/walteh/dab/pkg/module"
	"github.com/walteh/dab/pkg/naming"
	"github.com/walteh/dab/pkg/rootfile"
	"gitlab.com/tozd/go/errors"
)

// 🧭 Router creates modules in the project rooted at Dir
type Router struct {
	Dir string
}

// 🏭 NewRouter creates a new router for dir
func NewRouter(dir string) *Router {
	return &Router{Dir: filepath.Clean(dir)}
}

// 🏗️ CreateModule creates the module named by rawPath ("widgets", or
// "member::widgets" in a workspace).
func (r *Router) CreateModule(ctx context.Context, rawPath string, opts module.Options) (*module.Result, error) {
	m, err := manifest.Load(ctx, r.Dir)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("project_dir", r.Dir).
		Stringer("kind", m.Kind).
		Str("module_path", rawPath).
		Msg("routing module creation")

	switch m.Kind {
	case manifest.Package:
		return r.createInPackage(ctx, r.Dir, rawPath, opts)
	default:
		return r.createInWorkspace(ctx, m, rawPath, opts)
	}
}

func (r *Router) createInPackage(ctx context.Context, dir, rawPath string, opts module.Options) (*module.Result, error) {
	segments, err := naming.ParseModulePath(rawPath)
	if err != nil {
		return nil, err
	}
	return createIn(ctx, dir, segments, opts)
}

func (r *Router) createInWorkspace(ctx context.Context, m *manifest.Manifest, rawPath string, opts module.Options) (*module.Result, error) {
	segments, err := naming.ParseModulePath(rawPath)
	if err != nil {
		return nil, err
	}
	if len(segments) < 2 {
		return nil, errors.Errorf("%w: bad module path %q, expected `<member>::<module>` in a workspace", errs.ErrUnsupportedPath, rawPath)
	}

	memberDir, err := m.ResolveMember(r.Dir, segments[0])
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().Str("member", segments[0]).Str("member_dir", memberDir).Msg("resolved workspace member")

	return createIn(ctx, memberDir, segments[1:], opts)
}

func createIn(ctx context.Context, dir string, segments naming.ModulePath, opts module.Options) (*module.Result, error) {
	kind, err := rootfile.Locate(ctx, dir, opts.SourceRoot)
	if err != nil {
		return nil, err
	}
	return module.Create(ctx, dir, kind, segments, opts)
}
