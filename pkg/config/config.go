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
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/dab/pkg/module"
	"github.com/walteh/dab/pkg/rootfile"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// DefaultFileNames are tried in order by Discover.
var DefaultFileNames = []string{".dab.hcl", ".dab.yaml", ".dab.yml", ".dab.json"}

// DefaultLogLevel is used when the config does not set log_level.
const DefaultLogLevel = "warn"

// 📚 Config holds project defaults. Command line flags can only turn the
// boolean options on, never off.
type Config struct {
	Public           bool   `json:"public" yaml:"public"`
	HeaderInsertion  bool   `json:"header_insertion" yaml:"header_insertion"`
	NoDirectory      bool   `json:"no_directory" yaml:"no_directory"`
	CleanupOnFailure bool   `json:"cleanup_on_failure" yaml:"cleanup_on_failure"`
	SourceRoot       string `json:"source_root,omitempty" yaml:"source_root,omitempty"`
	LogLevel         string `json:"log_level,omitempty" yaml:"log_level,omitempty"`

	location string
}

// Default returns the config used when no file is present.
func Default() *Config {
	return &Config{
		SourceRoot: rootfile.SourceRoot,
		LogLevel:   DefaultLogLevel,
	}
}

// Location returns the file the config was loaded from, or "" for Default().
func (cfg *Config) Location() string {
	return cfg.location
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	cfg.location = path
	return cfg, nil
}

// 🔍 Discover loads the first of DefaultFileNames found in dir, or Default().
func Discover(ctx context.Context, dir string) (*Config, error) {
	for _, name := range DefaultFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, errors.Errorf("checking config file: %w", err)
		}
		return Load(ctx, path)
	}

	zerolog.Ctx(ctx).Debug().Str("dir", dir).Msg("no config file found, using defaults")
	return Default(), nil
}

// 🔍 Validate fills defaults and checks the configuration is valid
func (cfg *Config) Validate() error {
	if cfg.SourceRoot == "" {
		cfg.SourceRoot = rootfile.SourceRoot
	}
	if !filepath.IsLocal(cfg.SourceRoot) {
		return errors.Errorf("source_root must be a relative path inside the project: %q", cfg.SourceRoot)
	}
	cfg.SourceRoot = filepath.Clean(cfg.SourceRoot)

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return errors.Errorf("log_level: %w", err)
	}

	return nil
}

// Level returns the parsed log level, falling back to DefaultLogLevel.
func (cfg *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		return zerolog.WarnLevel
	}
	return level
}

// ModuleOptions converts the config into module options.
func (cfg *Config) ModuleOptions() module.Options {
	return module.Options{
		Public:           cfg.Public,
		HeaderInsertion:  cfg.HeaderInsertion,
		NoDirectory:      cfg.NoDirectory,
		CleanupOnFailure: cfg.CleanupOnFailure,
		SourceRoot:       cfg.SourceRoot,
	}
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("public=%t header_insertion=%t no_directory=%t cleanup_on_failure=%t source_root=%s log_level=%s",
		cfg.Public, cfg.HeaderInsertion, cfg.NoDirectory, cfg.CleanupOnFailure, cfg.SourceRoot, cfg.LogLevel)
}
