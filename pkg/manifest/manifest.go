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

// Package manifest reads the parts of a Cargo.toml that dab cares about:
// whether it declares a package or a workspace, and the workspace members.
package manifest

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"github.com/walteh/dab/pkg/errs"
	"gitlab.com/tozd/go/errors"
)

// FileName is the manifest file read from the project directory.
const FileName = "Cargo.toml"

// 📦 Kind is what the manifest declares
type Kind int

const (
	Package Kind = iota
	Workspace
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case Package:
		return "package"
	case Workspace:
		return "workspace"
	default:
		return "unknown"
	}
}

// 📜 Manifest is the dab view of a Cargo.toml
type Manifest struct {
	Path        string   // where it was read from
	Kind        Kind     // package wins when both tables exist
	PackageName string   // [package].name, if any
	Members     []string // [workspace].members, as written (may be globs)
	Exclude     []string // [workspace].exclude
}

type cargoToml struct {
	Package *struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Workspace *struct {
		Members []string `toml:"members"`
		Exclude []string `toml:"exclude"`
	} `toml:"workspace"`
}

// 🎯 Load reads and parses <dir>/Cargo.toml
func Load(ctx context.Context, dir string) (*Manifest, error) {
	p := filepath.Join(dir, FileName)
	zerolog.Ctx(ctx).Debug().Str("path", p).Msg("loading manifest")

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, errs.Manifest(p, errors.Errorf("couldn't read `%s`: %w", FileName, err))
	}
	return Parse(p, data)
}

// 📝 Parse parses manifest data. A manifest with neither a package nor a
// workspace table is an error.
func Parse(p string, data []byte) (*Manifest, error) {
	var raw cargoToml
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errs.Manifest(p, errors.Errorf("parsing TOML: %w", err))
	}

	m := &Manifest{Path: p}
	switch {
	case raw.Package != nil:
		m.Kind = Package
		m.PackageName = raw.Package.Name
	case raw.Workspace != nil:
		m.Kind = Workspace
		m.Members = raw.Workspace.Members
		m.Exclude = raw.Workspace.Exclude
	default:
		return nil, errs.Manifest(p, errors.New("manifest declares neither a `[package]` nor a `[workspace]`"))
	}
	return m, nil
}

// 🔍 MemberDirs expands the workspace members under dir into slash-separated
// relative directories, sorted. Glob members only match directories that
// hold a Cargo.toml. Excluded paths are dropped.
func (m *Manifest) MemberDirs(dir string) ([]string, error) {
	fsys := os.DirFS(dir)
	exclude := lo.Map(m.Exclude, func(e string, _ int) string { return path.Clean(filepath.ToSlash(e)) })

	var dirs []string
	for _, member := range m.Members {
		pattern := path.Clean(filepath.ToSlash(member))
		if !hasMeta(pattern) {
			dirs = append(dirs, pattern)
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			return nil, errs.Manifest(m.Path, errors.Errorf("invalid workspace member pattern %q", member))
		}
		matches, err := doublestar.Glob(fsys, pattern)
		if err != nil {
			return nil, errs.Manifest(m.Path, errors.Errorf("expanding workspace member %q: %w", member, err))
		}
		for _, match := range matches {
			if isCrateDir(fsys, match) {
				dirs = append(dirs, match)
			}
		}
	}

	dirs = lo.Uniq(lo.Without(dirs, exclude...))
	sort.Strings(dirs)
	return dirs, nil
}

// 🎯 ResolveMember returns the directory (joined onto dir) of the workspace
// member called name. name matches a member entry exactly, or the last
// element of a member directory.
func (m *Manifest) ResolveMember(dir, name string) (string, error) {
	if m.Kind != Workspace {
		return "", errors.Errorf("%w: `%s` is not a workspace", errs.ErrUnsupportedPath, FileName)
	}

	dirs, err := m.MemberDirs(dir)
	if err != nil {
		return "", err
	}

	if lo.Contains(dirs, name) {
		return filepath.Join(dir, filepath.FromSlash(name)), nil
	}

	candidates := lo.Filter(dirs, func(d string, _ int) bool { return path.Base(d) == name })
	switch len(candidates) {
	case 0:
		return "", errors.Errorf("%w: package `%s` not present in workspace `%s`. consider adding it there", errs.ErrUnsupportedPath, name, FileName)
	case 1:
		return filepath.Join(dir, filepath.FromSlash(candidates[0])), nil
	default:
		return "", errors.Errorf("%w: `%s` matches several workspace members: %s", errs.ErrUnsupportedPath, name, strings.Join(candidates, ", "))
	}
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

func isCrateDir(fsys fs.FS, dir string) bool {
	info, err := fs.Stat(fsys, path.Join(dir, FileName))
	return err == nil && info.Mode().IsRegular()
}
