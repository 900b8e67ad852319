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
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tombee/hero/pkg/hero"
)

type formulaSummary struct {
	Name     string   `json:"name"`
	TypeName string   `json:"type_name"`
	Steps    []string `json:"steps"`
}

func newListCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List formulas and their step counts",
		Example: `  hero list -f hero.yaml
  hero list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry(g.file)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if g.json {
				summaries := make([]formulaSummary, 0, reg.Count())
				for name, f := range reg.All() {
					summaries = append(summaries, formulaSummary{
						Name:     name,
						TypeName: f.TypeName(),
						Steps:    f.StepList().Names(),
					})
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}

			tw := table.NewWriter()
			tw.SetStyle(table.StyleRounded)
			tw.AppendHeader(table.Row{"NAME", "STEPS", "TYPE"})
			reg.Each(func(name string, f *hero.Formula) {
				tw.AppendRow(table.Row{name, strconv.Itoa(f.StepList().Len()), f.TypeName()})
			})
			tw.SetColumnConfigs([]table.ColumnConfig{
				{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
			})
			_, err = fmt.Fprintln(out, tw.Render())
			return err
		},
	}
}

// shouldStyle reports whether w is a terminal.
func shouldStyle(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newReportCommand(g *globalFlags) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print every formula with its numbered steps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry(g.file)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if plain || !shouldStyle(out) {
				if reg.Count() > 0 {
					fmt.Fprintln(out, reg.Report())
				}
				return nil
			}

			first := true
			for name, f := range reg.All() {
				if !first {
					fmt.Fprintln(out)
				}
				first = false
				fmt.Fprintln(out, Header.Render(name))
				for i, entry := range f.Steps() {
					fmt.Fprintf(out, "%s %s\n", Muted.Render(fmt.Sprintf("%3d.", i+1)), entry.Name)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print the unstyled report even on a terminal")
	return cmd
}

func newValidateCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the manifest parses and every expression compiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry(g.file)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), RenderOK(fmt.Sprintf("%s: %d formulas", g.file, reg.Count())))
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hero %s (commit %s, built %s)\n", version, commit, buildDate)
		},
	}
}
