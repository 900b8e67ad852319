// Copyright 2025 Tom Barlow
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
// Package cli implements the hero command line.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tombee/hero/internal/manifest"
	"github.com/tombee/hero/pkg/hero"
)

// DefaultManifest is the manifest read when neither --file nor HERO_FILE is set.
const DefaultManifest = "hero.yaml"

// Build-time version information
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	version, commit, buildDate = v, c, b
}

// GetVersion returns version information
func GetVersion() (string, string, string) {
	return version, commit, buildDate
}

// globalFlags holds the persistent flags shared by every subcommand.
type globalFlags struct {
	file    string
	verbose bool
	json    bool
}

// NewRootCommand creates the root Cobra command for hero
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "hero",
		Short: "hero - run named formulas of ordered steps",
		Long: `hero loads formulas from a YAML manifest and runs their steps in order
against a JSON target. Steps transform the target with jq, compute options
with expressions, or assert conditions; the first failing step stops the run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultFile := os.Getenv("HERO_FILE")
	if defaultFile == "" {
		defaultFile = DefaultManifest
	}

	cmd.PersistentFlags().StringVarP(&g.file, "file", "f", defaultFile, "Path to the formula manifest (env: HERO_FILE)")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&g.json, "json", false, "Output in JSON format")

	cmd.AddCommand(
		newRunCommand(g),
		newListCommand(g),
		newReportCommand(g),
		newValidateCommand(g),
		newVersionCommand(),
	)

	return cmd
}

// loadRegistry reads the manifest and registers its formulas on a fresh
// registry that applies mw to every step.
func loadRegistry(path string, mw ...hero.Middleware) (*hero.Registry, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return nil, NewInvalidInputError("failed to load manifest", err)
	}

	reg := hero.NewRegistry(hero.WithMiddleware(mw...))
	if err := manifest.Apply(reg, m); err != nil {
		return nil, NewInvalidInputError("failed to apply manifest", err)
	}
	return reg, nil
}
