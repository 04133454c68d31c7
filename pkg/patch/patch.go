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

package patch

import (
	"io"
	"strings"

	"github.com/walteh/dab/pkg/errs"
	"gitlab.com/tozd/go/errors"
)

const (
	commentOpen  = "/*"
	commentClose = "*/"
)

// Declaration returns the module declaration line for name, without a line terminator.
func Declaration(name string, public bool) string {
	if public {
		return "pub mod " + name + ";"
	}
	return "mod " + name + ";"
}

// Insert returns original with decl inserted. With headerAware set and a
// leading block comment, decl goes on its own line directly below the first
// `*/`. A blank line between the header and the code stays between the header
// and decl. Otherwise decl is prepended. Duplicates are not detected.
func Insert(original, decl string, headerAware bool) ([]byte, error) {
	if !headerAware || !strings.HasPrefix(original, commentOpen) {
		out := make([]byte, 0, len(decl)+1+len(original))
		out = append(out, decl...)
		out = append(out, '\n')
		return append(out, original...), nil
	}

	end := strings.Index(original, commentClose)
	if end < 0 {
		return nil, errors.Errorf("%w: unterminated block comment at start of file", errs.ErrMalformedHeader)
	}
	point := end + len(commentClose)
	if strings.HasPrefix(original[point:], "\n\n") {
		point++
	}
	rest := strings.TrimPrefix(original[point:], "\n")

	out := make([]byte, 0, len(original)+len(decl)+2)
	out = append(out, original[:point]...)
	out = append(out, '\n')
	out = append(out, decl...)
	out = append(out, '\n')
	return append(out, rest...), nil
}

// 📝 DeclarationTransform inserts a module declaration into a root file
type DeclarationTransform struct {
	Name        string // validated module name
	Public      bool   // emit `pub mod`
	HeaderAware bool   // insert below a leading block comment
}

// Produce implements cowfile.Transform. Nothing is written when the header is malformed.
func (d DeclarationTransform) Produce(w io.Writer, original string) error {
	out, err := Insert(original, Declaration(d.Name, d.Public), d.HeaderAware)
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return errors.Errorf("writing patched content: %w", err)
	}
	return nil
}
