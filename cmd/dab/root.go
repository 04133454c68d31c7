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

package main

import (
	"context"
	"io"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/walteh/dab/cmd/dab/opts"
	"github.com/walteh/dab/pkg/config"
	"github.com/walteh/dab/pkg/log"
	"github.com/walteh/dab/pkg/module"
	"github.com/walteh/dab/pkg/project"
	"gitlab.com/tozd/go/errors"
)

const longHelp = `dab is a command-line tool for Rust developers that creates modules by path.

Example usage:
- ` + "`dab errors`" + `: creates src/errors/mod.rs (along with the directory) and adds
  ` + "`mod errors;`" + ` to the root file (lib.rs or main.rs depending on the package type)
- ` + "`dab -P -D errors`" + `: creates src/errors.rs and adds ` + "`pub mod errors;`" + `
- ` + "`dab core::errors`" + `: in a workspace, creates the module in the ` + "`core`" + ` member

Defaults for every flag can be set in .dab.hcl, .dab.yaml or .dab.json in the
project directory. Flags given on the command line always win.`

// rootFlags are the values bound to the root command's flags
type rootFlags struct {
	public      bool
	skipHeader  bool
	noDirectory bool
	configFile  string
	projectDir  string
	debug       bool
	verbose     bool

	reporter *log.Logger // set once options are resolved
}

// moduleFlags returns the module flags that were given on the command line.
func (f *rootFlags) moduleFlags(fs *pflag.FlagSet) opts.FlagSet {
	given := func(name string, v *bool) *bool {
		if fs.Changed(name) {
			return v
		}
		return nil
	}
	return opts.FlagSet{
		Public:      given("public", &f.public),
		SkipHeader:  given("cskip", &f.skipHeader),
		NoDirectory: given("dskip", &f.noDirectory),
	}
}

// errorReporter returns the reporter for the final error line.
func (f *rootFlags) errorReporter(ctx context.Context, stdout, stderr io.Writer) *log.Logger {
	if f.reporter != nil {
		return f.reporter
	}
	return reporterFor(stdout, stderr, false, *zerolog.Ctx(ctx))
}

func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, *rootFlags) {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "dab [flags] <module-path>",
		Short:         "Create Rust modules by path",
		Long:          longHelp,
		Version:       FormatVersion(),
		Args:          validateArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if flags.debug {
				ctx = zerolog.Ctx(ctx).Level(zerolog.DebugLevel).WithContext(ctx)
			}

			cfg, projectDir, err := loadConfig(ctx, flags)
			if err != nil {
				return err
			}
			if !flags.debug {
				ctx = zerolog.Ctx(ctx).Level(cfg.Level()).WithContext(ctx)
			}

			root := newRootOpts(ctx, cfg, projectDir, flags.moduleFlags(cmd.Flags()), stdout, stderr, flags.verbose)
			flags.reporter = root.Reporter
			ctx = log.NewContext(ctx, root.Reporter)

			return createModule(ctx, root, args[0])
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("{{.Version}}")
	addRootFlags(cmd, flags)

	return cmd, flags
}

// addRootFlags adds the module and ambient flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	fs := cmd.Flags()
	onceBoolVarP(fs, &flags.public, "public", "P", "make the new module public")
	onceBoolVarP(fs, &flags.skipHeader, "cskip", "C", "insert the declaration after the leading comment header")
	onceBoolVarP(fs, &flags.noDirectory, "dskip", "D", "create <module>.rs instead of <module>/mod.rs")

	fs.StringVarP(&flags.configFile, "config", "c", "", "config file path (default: .dab.{hcl,yaml,yml,json} in the project directory)")
	fs.StringVar(&flags.projectDir, "project-dir", ".", "directory containing Cargo.toml")
	fs.BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "report created and patched files")
}

func validateArgs(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 0:
		return errors.New("expected module name. Run `--help` for usage")
	case len(args) > 1:
		return errors.New("expected one module name")
	}
	return nil
}

// setupLogging attaches a zerolog console logger writing to stderr to ctx.
// The level starts at warn; the root command raises it from --debug or the config.
func setupLogging(ctx context.Context, stderr io.Writer) context.Context {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()
	return logger.WithContext(ctx)
}

// loadConfig resolves the project directory and loads its config
func loadConfig(ctx context.Context, flags *rootFlags) (*config.Config, string, error) {
	projectDir, err := filepath.Abs(flags.projectDir)
	if err != nil {
		return nil, "", errors.Errorf("resolving project directory: %w", err)
	}

	var cfg *config.Config
	if flags.configFile != "" {
		cfg, err = config.Load(ctx, flags.configFile)
	} else {
		cfg, err = config.Discover(ctx, projectDir)
	}
	if err != nil {
		return nil, "", errors.Errorf("loading config: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("config", cfg.Location()).
		Stringer("settings", cfg).
		Msg("resolved configuration")

	return cfg, projectDir, nil
}

// newRootOpts resolves the options for this run
func newRootOpts(ctx context.Context, cfg *config.Config, projectDir string, flags opts.FlagSet, stdout, stderr io.Writer, verbose bool) *opts.RootOpts {
	return &opts.RootOpts{
		Config:     cfg,
		Reporter:   reporterFor(stdout, stderr, verbose, *zerolog.Ctx(ctx)),
		ProjectDir: projectDir,
		Module:     opts.Merge(cfg, flags),
	}
}

// reporterFor returns the console reporter; per-file lines are only printed when verbose
func reporterFor(stdout, stderr io.Writer, verbose bool, zlog zerolog.Logger) *log.Logger {
	console := io.Discard
	if verbose {
		console = stdout
	}
	return log.New(console, stderr, zlog)
}

func createModule(ctx context.Context, root *opts.RootOpts, modulePath string) error {
	reporter := log.FromContext(ctx)

	result, err := project.NewRouter(root.ProjectDir).CreateModule(ctx, modulePath, root.Module)
	if result != nil {
		reporter.StartModuleOperation(ctx, log.ModuleOperation{
			Name:        modulePath,
			Declaration: result.Declaration,
			Project:     root.ProjectDir,
		})
		report(ctx, root.ProjectDir, result, err)
		reporter.EndModuleOperation(ctx)
	}
	if err != nil {
		return err
	}

	reporter.Successf("created module %s", modulePath)
	return nil
}

// report prints one line per entry the run touched
func report(ctx context.Context, projectDir string, result *module.Result, err error) {
	reporter := log.FromContext(ctx)
	rel := func(p string) string {
		if r, relErr := filepath.Rel(projectDir, p); relErr == nil {
			return r
		}
		return p
	}

	for _, created := range result.Created {
		kind := "file"
		if filepath.Ext(created) != ".rs" {
			kind = "dir"
		}
		reporter.LogFileOperation(ctx, log.FileOperation{
			Path:   rel(created),
			Type:   kind,
			Status: "created",
			IsNew:  true,
		})
	}

	if result.Patched == "" {
		return
	}
	op := log.FileOperation{Path: rel(result.Patched), Type: "root", Status: "patched", IsPatched: true}
	if err != nil {
		op.Status = "failed"
		op.IsFailed = true
	}
	reporter.LogFileOperation(ctx, op)
}
