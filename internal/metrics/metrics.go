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
// Package metrics counts and times formula steps.
//
// Instruments are created on an OpenTelemetry meter. NewPrometheus wires that
// meter to a private Prometheus registry served by Collector.Handler.
package metrics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/tombee/hero/pkg/errors"
	"github.com/tombee/hero/pkg/hero"
)

// Status values recorded on the status attribute.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Collector holds the step and run instruments.
type Collector struct {
	registry *promclient.Registry

	stepsTotal   metric.Int64Counter
	stepDuration metric.Float64Histogram
	runsTotal    metric.Int64Counter
	runDuration  metric.Float64Histogram
}

// NewCollector creates the instruments on the given meter provider.
func NewCollector(mp metric.MeterProvider) (*Collector, error) {
	meter := mp.Meter("hero")
	c := &Collector{}

	var err error
	c.stepsTotal, err = meter.Int64Counter(
		"hero_steps",
		metric.WithDescription("Total number of formula steps executed"),
		metric.WithUnit("{step}"),
	)
	if err != nil {
		return nil, err
	}

	c.stepDuration, err = meter.Float64Histogram(
		"hero_step_duration",
		metric.WithDescription("Step execution duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	c.runsTotal, err = meter.Int64Counter(
		"hero_runs",
		metric.WithDescription("Total number of formula runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	c.runDuration, err = meter.Float64Histogram(
		"hero_run_duration",
		metric.WithDescription("Formula run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// NewPrometheus creates a collector whose instruments are exported to a
// fresh Prometheus registry.
func NewPrometheus() (*Collector, error) {
	registry := promclient.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	c, err := NewCollector(mp)
	if err != nil {
		return nil, err
	}
	c.registry = registry
	return c, nil
}

// Handler serves the Prometheus registry. Collectors not created by
// NewPrometheus answer 404.
func (c *Collector) Handler() http.Handler {
	if c.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// WriteText writes the current metrics in the Prometheus text format.
func (c *Collector) WriteText(w io.Writer) error {
	if c.registry == nil {
		return errors.New("collector has no prometheus registry")
	}
	families, err := c.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}

// RecordStep records one step call.
func (c *Collector) RecordStep(ctx context.Context, formula, step string, d time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("formula", formula),
		attribute.String("step", step),
	)
	c.stepsTotal.Add(ctx, 1, attrs, metric.WithAttributes(attribute.String("status", status(err))))
	c.stepDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordRun records one formula run.
func (c *Collector) RecordRun(ctx context.Context, formula string, d time.Duration, err error) {
	attrs := attribute.String("formula", formula)
	c.runsTotal.Add(ctx, 1, metric.WithAttributes(attrs, attribute.String("status", status(err))))
	c.runDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attrs))
}

// Middleware returns a hero.Middleware that records every step call.
func (c *Collector) Middleware() hero.Middleware {
	return func(formula, step string, next hero.Step) hero.Step {
		return hero.StepFunc(func(ctx context.Context, target any, opts hero.Options) error {
			start := time.Now()
			err := next.Call(ctx, target, opts)
			c.RecordStep(ctx, formula, step, time.Since(start), err)
			return err
		})
	}
}
