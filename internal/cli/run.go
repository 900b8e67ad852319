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
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/tombee/hero/internal/log"
	"github.com/tombee/hero/internal/metrics"
	"github.com/tombee/hero/internal/tracing"
	"github.com/tombee/hero/pkg/errors"
	"github.com/tombee/hero/pkg/hero"
)

type runFlags struct {
	target  string
	sets    []string
	trace   bool
	metrics bool
}

// runResult is printed to stdout after a successful run.
type runResult struct {
	RunID   string         `json:"run_id"`
	Formula string         `json:"formula"`
	Target  map[string]any `json:"target"`
	Options hero.Options   `json:"options"`
}

func newRunCommand(g *globalFlags) *cobra.Command {
	rf := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run <formula>",
		Short: "Run a formula against a JSON target",
		Long: `Run executes the steps of one formula in order. Each step is logged
before and after it runs; the first failing step stops the run and its
error is reported with exit code 1.

The final target and options are printed as JSON.`,
		Example: `  # Run with an inline target
  hero run checkout --target '{"items":[{"price":60},{"price":70}]}'

  # Pass options; values are parsed as JSON when possible
  hero run checkout --target @order.json --set dry_run=true --set region=eu

  # Write spans and metrics to stderr
  hero run checkout --target '{}' --trace --metrics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormula(cmd, g, rf, args[0])
		},
	}

	cmd.Flags().StringVarP(&rf.target, "target", "t", "{}", "Target as a JSON object, or @file")
	cmd.Flags().StringArrayVar(&rf.sets, "set", nil, "Set an option as key=value (repeatable)")
	cmd.Flags().BoolVar(&rf.trace, "trace", false, "Write OpenTelemetry spans to stderr")
	cmd.Flags().BoolVar(&rf.metrics, "metrics", false, "Write Prometheus metrics to stderr after the run")

	return cmd
}

func runFormula(cmd *cobra.Command, g *globalFlags, rf *runFlags, name string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stderr := cmd.ErrOrStderr()

	target, err := parseTarget(rf.target)
	if err != nil {
		return NewInvalidInputError("invalid --target", err)
	}
	opts, err := parseOptions(rf.sets)
	if err != nil {
		return NewInvalidInputError("invalid --set", err)
	}

	var tp trace.TracerProvider = noop.NewTracerProvider()
	if rf.trace {
		provider, err := tracing.NewProvider("hero", version, stderr)
		if err != nil {
			return errors.Wrap(err, "failed to start tracing")
		}
		defer func() { _ = provider.Shutdown(context.Background()) }()
		tp = provider.TracerProvider()
	}

	collector, err := metrics.NewPrometheus()
	if err != nil {
		return errors.Wrap(err, "failed to start metrics")
	}

	reg, err := loadRegistry(g.file, collector.Middleware(), tracing.Middleware(tp))
	if err != nil {
		return err
	}
	f, ok := reg.Lookup(name)
	if !ok {
		return NewUnknownFormulaError(name)
	}

	runID := uuid.NewString()
	cfg := log.FromEnv()
	cfg.Output = stderr
	if g.verbose {
		cfg.Level = "debug"
	}
	logger := log.WithRunContext(log.New(cfg), runID, name)
	restore := log.Install(logger)
	defer restore()

	logger.Debug("starting run", "steps", f.StepList().Len())
	start := time.Now()
	runErr := tracing.Run(ctx, tp, f, runID, target, opts)
	collector.RecordRun(ctx, name, time.Since(start), runErr)

	if rf.metrics {
		if err := collector.WriteText(stderr); err != nil {
			logger.Warn("failed to write metrics", "error", err)
		}
	}
	if runErr != nil {
		return NewRunError(fmt.Sprintf("formula %s failed", name), runErr)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(runResult{RunID: runID, Formula: name, Target: target, Options: opts})
}

// parseTarget decodes a JSON object, or reads it from a file when raw is
// @path.
func parseTarget(raw string) (map[string]any, error) {
	target := map[string]any{}
	if path, ok := strings.CutPrefix(raw, "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		raw = string(data)
	}
	if strings.TrimSpace(raw) == "" {
		return target, nil
	}
	if err := json.Unmarshal([]byte(raw), &target); err != nil {
		return nil, fmt.Errorf("target must be a JSON object: %w", err)
	}
	if target == nil {
		target = map[string]any{}
	}
	return target, nil
}

// parseOptions turns key=value pairs into options. Values that parse as
// JSON keep their JSON type; anything else is a string.
func parseOptions(pairs []string) (hero.Options, error) {
	opts := hero.Options{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}
		var v any
		if err := json.Unmarshal([]byte(value), &v); err != nil {
			v = value
		}
		opts[key] = v
	}
	return opts, nil
}
