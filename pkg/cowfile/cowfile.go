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

// Package cowfile rewrites a single file copy-on-write: the new content goes
// to a sibling temp file which is synced and then renamed over the original.
// Readers of the original path see either the old or the new content.
//
// The temp file is opened with O_EXCL, so a second concurrent run (or a stale
// temp file from a crashed one) makes Apply fail instead of clobbering it.
// When the transform fails the temp file stays on disk for inspection unless
// Options.CleanupOnFailure is set.
package cowfile

import (
	"context"
	"io"
	"os"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/dab/pkg/errs"
	"gitlab.com/tozd/go/errors"
)

// TempSuffix is appended to the original path to name the temp file.
const TempSuffix = "_"

// 🔄 Transform produces the new file content from the original
type Transform interface {
	// Produce writes the complete new content to w.
	Produce(w io.Writer, original string) error
}

// TransformFunc adapts a function to Transform.
type TransformFunc func(w io.Writer, original string) error

func (f TransformFunc) Produce(w io.Writer, original string) error {
	return f(w, original)
}

// 🔧 Options configures a Patcher
type Options struct {
	// CleanupOnFailure removes the temp file when the transform or commit fails.
	CleanupOnFailure bool
}

// 🐄 Patcher applies transforms copy-on-write
type Patcher struct {
	opts Options
}

// 🏭 New creates a new patcher
func New(opts Options) *Patcher {
	return &Patcher{opts: opts}
}

// TempPath returns the temp file path used while patching path.
func TempPath(path string) string {
	return path + TempSuffix
}

// 📝 Apply rewrites path with the output of transform.
func (p *Patcher) Apply(ctx context.Context, path string, transform Transform) error {
	logger := zerolog.Ctx(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return errs.IO("reading file", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errs.IO("reading file", path, err)
	}
	if !utf8.Valid(data) {
		return errs.IO("reading file", path, errors.New("stream did not contain valid UTF-8"))
	}

	if err := ctx.Err(); err != nil {
		return errors.Errorf("patching %s: %w", path, err)
	}

	tmp := TempPath(path)
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return errs.IO("creating temp file", tmp, err)
	}

	logger.Debug().Str("path", path).Str("temp", tmp).Int("size", len(data)).Msg("patching file")

	if err := commit(f, transform, string(data)); err != nil {
		p.abandon(ctx, tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		p.abandon(ctx, tmp)
		return errs.IO("renaming temp file", tmp, err)
	}

	logger.Debug().Str("path", path).Msg("patched file")
	return nil
}

// commit runs the transform into f and makes the result durable. f is always closed.
func commit(f *os.File, transform Transform, original string) error {
	if err := transform.Produce(f, original); err != nil {
		f.Close()
		if errors.Is(err, errs.ErrIO) {
			return err
		}
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return errs.IO("writing temp file", f.Name(), err)
		}
		return errors.Errorf("transforming %s: %w", f.Name(), err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return errs.IO("syncing temp file", f.Name(), err)
	}

	if err := f.Close(); err != nil {
		return errs.IO("closing temp file", f.Name(), err)
	}

	return nil
}

func (p *Patcher) abandon(ctx context.Context, tmp string) {
	logger := zerolog.Ctx(ctx)
	if !p.opts.CleanupOnFailure {
		logger.Info().Str("temp", tmp).Msg("leaving temp file behind after failed patch")
		return
	}
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Str("temp", tmp).Msg("removing temp file")
	}
}
