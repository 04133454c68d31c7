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

package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/dab/pkg/errs"
	"github.com/walteh/dab/pkg/module"
	"gitlab.com/tozd/go/errors"
)

const (
	packageManifest   = "[package]\nname = \"demo\"\nversion = \"0.1.0\"\n"
	workspaceManifest = "[workspace]\nmembers = [\"core\", \"crates/*\"]\n"
	libRS             = "pub fn hello() {}\n"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t})
	return logger.WithContext(context.Background())
}

func write(t *testing.T, path, content string) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func read(t *testing.T, path string) string {
	data, err := os.ReadFile(path)
	require.NoError(t, err, "reading %s", path)
	return string(data)
}

func newPackage(t *testing.T) string {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "Cargo.toml"), packageManifest)
	write(t, filepath.Join(dir, "src", "lib.rs"), libRS)
	return dir
}

func newWorkspace(t *testing.T) string {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "Cargo.toml"), workspaceManifest)
	for _, member := range []string{"core", "crates/net"} {
		write(t, filepath.Join(dir, member, "Cargo.toml"), packageManifest)
		write(t, filepath.Join(dir, member, "src", "lib.rs"), libRS)
	}
	return dir
}

func TestCreateModuleInPackage(t *testing.T) {
	t.Run("default_options", func(t *testing.T) {
		dir := newPackage(t)

		result, err := NewRouter(dir).CreateModule(testContext(t), "widgets", module.Options{})
		require.NoError(t, err)

		assert.DirExists(t, filepath.Join(dir, "src", "widgets"))
		assert.FileExists(t, filepath.Join(dir, "src", "widgets", "mod.rs"))
		assert.Equal(t, "mod widgets;\n"+libRS, read(t, filepath.Join(dir, "src", "lib.rs")))
		assert.Equal(t, "mod widgets;", result.Declaration)
	})

	t.Run("public", func(t *testing.T) {
		dir := newPackage(t)

		_, err := NewRouter(dir).CreateModule(testContext(t), "widgets", module.Options{Public: true})
		require.NoError(t, err)

		assert.Equal(t, "pub mod widgets;\n"+libRS, read(t, filepath.Join(dir, "src", "lib.rs")))
	})

	t.Run("nested_path_creates_nothing", func(t *testing.T) {
		dir := newPackage(t)

		_, err := NewRouter(dir).CreateModule(testContext(t), "a::b", module.Options{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrUnsupportedPath), "unexpected error: %v", err)
		assert.Contains(t, err.Error(), "aren't supported yet")

		entries, err := os.ReadDir(filepath.Join(dir, "src"))
		require.NoError(t, err)
		assert.Len(t, entries, 1, "only lib.rs should exist")
		assert.NoDirExists(t, filepath.Join(dir, "src", "a"))
		assert.Equal(t, libRS, read(t, filepath.Join(dir, "src", "lib.rs")))
	})

	t.Run("empty_segment", func(t *testing.T) {
		dir := newPackage(t)

		_, err := NewRouter(dir).CreateModule(testContext(t), "a::", module.Options{})
		assert.True(t, errors.Is(err, errs.ErrEmptyPath), "unexpected error: %v", err)
	})

	t.Run("custom_source_root", func(t *testing.T) {
		dir := t.TempDir()
		write(t, filepath.Join(dir, "Cargo.toml"), packageManifest)
		write(t, filepath.Join(dir, "lib", "lib.rs"), libRS)

		result, err := NewRouter(dir).CreateModule(testContext(t), "widgets", module.Options{SourceRoot: "lib"})
		require.NoError(t, err)

		assert.FileExists(t, filepath.Join(dir, "lib", "widgets", "mod.rs"))
		assert.Equal(t, "mod widgets;\n"+libRS, read(t, filepath.Join(dir, "lib", "lib.rs")))
		assert.Equal(t, filepath.Join(dir, "lib", "lib.rs"), result.Patched)
		assert.NoDirExists(t, filepath.Join(dir, "src"))
	})

	t.Run("custom_source_root_without_root_file", func(t *testing.T) {
		dir := newPackage(t)

		_, err := NewRouter(dir).CreateModule(testContext(t), "widgets", module.Options{SourceRoot: "lib"})
		assert.True(t, errors.Is(err, errs.ErrAmbiguousRootFile), "unexpected error: %v", err)
		assert.Equal(t, libRS, read(t, filepath.Join(dir, "src", "lib.rs")), "src/lib.rs should not be patched")
		assert.NoDirExists(t, filepath.Join(dir, "lib"))
	})

	t.Run("ambiguous_root_file", func(t *testing.T) {
		dir := newPackage(t)
		write(t, filepath.Join(dir, "src", "main.rs"), "fn main() {}\n")

		_, err := NewRouter(dir).CreateModule(testContext(t), "widgets", module.Options{})
		assert.True(t, errors.Is(err, errs.ErrAmbiguousRootFile), "unexpected error: %v", err)
		assert.NoDirExists(t, filepath.Join(dir, "src", "widgets"))
	})

	t.Run("missing_manifest", func(t *testing.T) {
		_, err := NewRouter(t.TempDir()).CreateModule(testContext(t), "widgets", module.Options{})
		assert.True(t, errors.Is(err, errs.ErrManifest), "unexpected error: %v", err)
	})
}

func TestCreateModuleInWorkspace(t *testing.T) {
	t.Run("explicit_member", func(t *testing.T) {
		dir := newWorkspace(t)

		_, err := NewRouter(dir).CreateModule(testContext(t), "core::widgets", module.Options{NoDirectory: true})
		require.NoError(t, err)

		assert.FileExists(t, filepath.Join(dir, "core", "src", "widgets.rs"))
		assert.Equal(t, "mod widgets;\n"+libRS, read(t, filepath.Join(dir, "core", "src", "lib.rs")))
		assert.Equal(t, libRS, read(t, filepath.Join(dir, "crates", "net", "src", "lib.rs")), "other members untouched")
	})

	t.Run("glob_member", func(t *testing.T) {
		dir := newWorkspace(t)

		_, err := NewRouter(dir).CreateModule(testContext(t), "net::codec", module.Options{Public: true})
		require.NoError(t, err)

		assert.FileExists(t, filepath.Join(dir, "crates", "net", "src", "codec", "mod.rs"))
		assert.Equal(t, "pub mod codec;\n"+libRS, read(t, filepath.Join(dir, "crates", "net", "src", "lib.rs")))
	})

	t.Run("working_directory_unchanged", func(t *testing.T) {
		dir := newWorkspace(t)
		before, err := os.Getwd()
		require.NoError(t, err)

		_, err = NewRouter(dir).CreateModule(testContext(t), "core::widgets", module.Options{})
		require.NoError(t, err)

		after, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("single_segment", func(t *testing.T) {
		dir := newWorkspace(t)

		_, err := NewRouter(dir).CreateModule(testContext(t), "widgets", module.Options{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrUnsupportedPath), "unexpected error: %v", err)
		assert.Contains(t, err.Error(), "bad module path")
	})

	t.Run("unknown_member", func(t *testing.T) {
		dir := newWorkspace(t)

		_, err := NewRouter(dir).CreateModule(testContext(t), "ghost::widgets", module.Options{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrUnsupportedPath), "unexpected error: %v", err)
		assert.Contains(t, err.Error(), "not present in workspace")
	})

	t.Run("nested_inside_member", func(t *testing.T) {
		dir := newWorkspace(t)

		_, err := NewRouter(dir).CreateModule(testContext(t), "core::a::b", module.Options{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrUnsupportedPath), "unexpected error: %v", err)
		assert.NoDirExists(t, filepath.Join(dir, "core", "src", "a"))
	})

	t.Run("bad_module_name", func(t *testing.T) {
		dir := newWorkspace(t)

		_, err := NewRouter(dir).CreateModule(testContext(t), "core::Bad-Name", module.Options{})
		assert.True(t, errors.Is(err, errs.ErrBadModuleName), "unexpected error: %v", err)
	})
}
