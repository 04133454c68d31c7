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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/dab/pkg/cowfile"
	"github.com/walteh/dab/pkg/errs"
	"gitlab.com/tozd/go/errors"
)

const fileWithoutComment = `mod x;
mod y;

fn main() {
    println!("Hello, World");
}

`

const licenseHeader = `/*
 * Copyright (c) 2025 walteh LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 */
`

const fileWithComment = licenseHeader + `
mod x;
mod y;

fn main() {
    println!("Hello, World");
}
`

const rustLicenseFile = `/*
* Copyright (c) 2022, Sayan Nandan <nandansayan@outlook.com>
*
* Licensed under the Apache License, Version 2.0 (the "License");
* you may not use this file except in compliance with the License.
* You may obtain a copy of the License at
*
*     http://www.apache.org/licenses/LICENSE-2.0
*
* Unless required by applicable law or agreed to in writing, software
* distributed under the License is distributed on an "AS IS" BASIS,
* WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
* See the License for the specific language governing permissions and
* limitations under the License.
*/

mod x;
mod y;

fn main() {
    println!("Hello, World");
}
`

const rustLicenseFilePatched = `/*
* Copyright (c) 2022, Sayan Nandan <nandansayan@outlook.com>
*
* Licensed under the Apache License, Version 2.0 (the "License");
* you may not use this file except in compliance with the License.
* You may obtain a copy of the License at
*
*     http://www.apache.org/licenses/LICENSE-2.0
*
* Unless required by applicable law or agreed to in writing, software
* distributed under the License is distributed on an "AS IS" BASIS,
* WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
* See the License for the specific language governing permissions and
* limitations under the License.
*/

mod z;
mod x;
mod y;

fn main() {
    println!("Hello, World");
}
`

func TestDeclaration(t *testing.T) {
	assert.Equal(t, "mod widgets;", Declaration("widgets", false))
	assert.Equal(t, "pub mod widgets;", Declaration("widgets", true))
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name        string
		original    string
		decl        string
		headerAware bool
		want        string
		wantErr     error
	}{
		{
			name:     "prepend_without_comment",
			original: fileWithoutComment,
			decl:     "mod z;",
			want:     "mod z;\n" + fileWithoutComment,
		},
		{
			name:        "header_aware_without_comment_prepends",
			original:    fileWithoutComment,
			decl:        "mod z;",
			headerAware: true,
			want:        "mod z;\n" + fileWithoutComment,
		},
		{
			name:     "comment_ignored_when_not_header_aware",
			original: fileWithComment,
			decl:     "pub mod z;",
			want:     "pub mod z;\n" + fileWithComment,
		},
		{
			name:        "short_header",
			original:    "/* c */\nmod x;\n",
			decl:        "mod z;",
			headerAware: true,
			want:        "/* c */\nmod z;\nmod x;\n",
		},
		{
			name:        "license_header",
			original:    fileWithComment,
			decl:        "mod z;",
			headerAware: true,
			want:        licenseHeader + "\nmod z;\n" + strings.TrimPrefix(fileWithComment, licenseHeader+"\n"),
		},
		{
			name:        "header_then_blank_line",
			original:    "/* c */\n\nmod x;\n",
			decl:        "mod z;",
			headerAware: true,
			want:        "/* c */\n\nmod z;\nmod x;\n",
		},
		{
			name:        "header_then_two_blank_lines",
			original:    "/* c */\n\n\nmod x;\n",
			decl:        "mod z;",
			headerAware: true,
			want:        "/* c */\n\nmod z;\n\nmod x;\n",
		},
		{
			name:        "rust_style_license_header",
			original:    rustLicenseFile,
			decl:        "mod z;",
			headerAware: true,
			want:        rustLicenseFilePatched,
		},
		{
			name:        "header_without_trailing_newline",
			original:    "/* c */",
			decl:        "mod z;",
			headerAware: true,
			want:        "/* c */\nmod z;\n",
		},
		{
			name:        "header_followed_by_code_on_same_line",
			original:    "/* c */ mod x;\n",
			decl:        "mod z;",
			headerAware: true,
			want:        "/* c */\nmod z;\n mod x;\n",
		},
		{
			name:        "only_first_closer_counts",
			original:    "/* a */\n/* b */\nmod x;\n",
			decl:        "mod z;",
			headerAware: true,
			want:        "/* a */\nmod z;\n/* b */\nmod x;\n",
		},
		{
			name:     "empty_file",
			original: "",
			decl:     "mod z;",
			want:     "mod z;\n",
		},
		{
			name:        "unterminated_header",
			original:    "/* never closed\nmod x;\n",
			decl:        "mod z;",
			headerAware: true,
			wantErr:     errs.ErrMalformedHeader,
		},
		{
			name:     "unterminated_header_ignored_when_not_header_aware",
			original: "/* never closed\n",
			decl:     "mod z;",
			want:     "mod z;\n/* never closed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Insert(tt.original, tt.decl, tt.headerAware)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "unexpected error: %v", err)
				assert.Nil(t, got, "no output on error")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestDeclarationTransformProduce(t *testing.T) {
	var buf bytes.Buffer
	err := DeclarationTransform{Name: "z", Public: true, HeaderAware: true}.Produce(&buf, "/* c */\nfn main() {}\n")
	require.NoError(t, err)
	assert.Equal(t, "/* c */\npub mod z;\nfn main() {}\n", buf.String())

	buf.Reset()
	err = DeclarationTransform{Name: "z", HeaderAware: true}.Produce(&buf, "/* open")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrMalformedHeader))
	assert.Zero(t, buf.Len(), "nothing should be written for a malformed header")
}

func TestDeclarationTransformWithPatcher(t *testing.T) {
	logger := zerolog.New(zerolog.TestWriter{T: t})
	ctx := logger.WithContext(context.Background())

	path := filepath.Join(t.TempDir(), "lib.rs")
	require.NoError(t, os.WriteFile(path, []byte("/* unterminated\n"), 0644))

	err := cowfile.New(cowfile.Options{CleanupOnFailure: true}).
		Apply(ctx, path, DeclarationTransform{Name: "z", HeaderAware: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrMalformedHeader))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/* unterminated\n", string(data), "original should be untouched")
}
