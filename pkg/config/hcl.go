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

package config

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, ".dab.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"default_source_root": cty.StringVal("src"),
		},
	}

	// Define HCL schema
	type hclConfig struct {
		Public           *bool   `hcl:"public,optional"`
		HeaderInsertion  *bool   `hcl:"header_insertion,optional"`
		NoDirectory      *bool   `hcl:"no_directory,optional"`
		CleanupOnFailure *bool   `hcl:"cleanup_on_failure,optional"`
		SourceRoot       *string `hcl:"source_root,optional"`
		LogLevel         *string `hcl:"log_level,optional"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Public:           deref(hclCfg.Public),
		HeaderInsertion:  deref(hclCfg.HeaderInsertion),
		NoDirectory:      deref(hclCfg.NoDirectory),
		CleanupOnFailure: deref(hclCfg.CleanupOnFailure),
		SourceRoot:       deref(hclCfg.SourceRoot),
		LogLevel:         deref(hclCfg.LogLevel),
	}

	return cfg, nil
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
