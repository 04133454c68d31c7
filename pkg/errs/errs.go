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

// Package errs holds the error kinds dab reports. Every error returned by the
// other packages matches exactly one of the sentinels below via errors.Is,
// except free-form option errors which are plain messages.
package errs

import (
	"gitlab.com/tozd/go/errors"
)

// 🚫 Error kinds
var (
	// ErrEmptyPath means a module path had an empty segment ("", "::", "a::").
	ErrEmptyPath = errors.Base("one or more modules have empty names")
	// ErrBadModuleName means a segment is not an ASCII identifier.
	ErrBadModuleName = errors.Base("bad module name")
	// ErrAmbiguousRootFile means both or neither of src/lib.rs and src/main.rs exist.
	ErrAmbiguousRootFile = errors.Base("unable to determine package type")
	// ErrMalformedHeader means the root file opens a block comment that never closes.
	ErrMalformedHeader = errors.Base("your source file possibly has a syntax error")
	// ErrUnsupportedPath covers nested modules and unknown workspace members.
	ErrUnsupportedPath = errors.Base("unsupported module path")
	// ErrIO is matched by every *IOError.
	ErrIO = errors.Base("I/O error")
	// ErrManifest is matched by every *ManifestError.
	ErrManifest = errors.Base("failed to read `Cargo.toml`")
)

// 💾 IOError wraps a filesystem failure with the operation that caused it
type IOError struct {
	Op   string // what dab was doing ("creating directory", "renaming temp file")
	Path string // the path involved
	Err  error  // the underlying os error
}

func (e *IOError) Error() string {
	return "I/O error: " + e.Op + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Is reports ErrIO so callers can test the kind without a type assertion.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// IO wraps err as an *IOError with a stack trace. A nil err stays nil.
func IO(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(&IOError{Op: op, Path: path, Err: err})
}

// 📜 ManifestError wraps a Cargo.toml read or parse failure
type ManifestError struct {
	Path string
	Err  error
}

func (e *ManifestError) Error() string {
	return "failed to read `Cargo.toml`: " + e.Err.Error()
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

func (e *ManifestError) Is(target error) bool {
	return target == ErrManifest
}

// Manifest wraps err as a *ManifestError with a stack trace. A nil err stays nil.
func Manifest(path string, err error) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(&ManifestError{Path: path, Err: err})
}
