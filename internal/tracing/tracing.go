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
// Package tracing records OpenTelemetry spans for formula runs and steps.
package tracing

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/hero/pkg/hero"
)

// InstrumentationName identifies spans created by this package.
const InstrumentationName = "github.com/tombee/hero"

// Span attribute keys.
const (
	FormulaKey = attribute.Key("hero.formula")
	StepKey    = attribute.Key("hero.step")
	RunIDKey   = attribute.Key("hero.run_id")
)

// Middleware returns a hero.Middleware that wraps each step call in a span
// named "hero.step". A failing step marks its span as an error. A nil tp
// uses the global tracer provider.
func Middleware(tp trace.TracerProvider) hero.Middleware {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(InstrumentationName)

	return func(formula, step string, next hero.Step) hero.Step {
		return hero.StepFunc(func(ctx context.Context, target any, opts hero.Options) error {
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, span := tracer.Start(ctx, "hero.step",
				trace.WithAttributes(FormulaKey.String(formula), StepKey.String(step)),
			)
			defer span.End()

			err := next.Call(ctx, target, opts)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			return err
		})
	}
}

// Run executes f inside a "hero.run" span so step spans share one parent.
func Run(ctx context.Context, tp trace.TracerProvider, f *hero.Formula, runID string, target any, opts hero.Options) error {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	ctx, span := tp.Tracer(InstrumentationName).Start(ctx, "hero.run",
		trace.WithAttributes(FormulaKey.String(f.Name()), RunIDKey.String(runID)),
	)
	defer span.End()

	err := f.Run(ctx, target, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// Provider owns an SDK tracer provider that writes spans as JSON.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// NewProvider creates a provider exporting to w through the stdout exporter.
func NewProvider(serviceName, version string, w io.Writer) (*Provider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("failed to create span exporter: %w", err)
	}

	// Empty schema URL avoids conflicts when merging with the default resource.
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			"",
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSyncer(exporter),
	)
	return &Provider{tp: tp}, nil
}

// TracerProvider returns the underlying provider.
func (p *Provider) TracerProvider() trace.TracerProvider {
	return p.tp
}

// Shutdown flushes and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.tp.Shutdown(ctx)
}
