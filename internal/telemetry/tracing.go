// Package telemetry sets up OpenTelemetry tracing for the append/indexer/
// query request path. Only the otlp and console (stdout) exporters are
// wired; no Jaeger exporter ships in this tree since nothing in the pack
// carries a maintained Jaeger client beyond what otlp already covers.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Config configures the tracer provider.
type Config struct {
	Enabled        bool    `yaml:"enabled"`
	ServiceName    string  `yaml:"service_name"`
	ServiceVersion string  `yaml:"service_version"`
	Exporter       string  `yaml:"exporter"` // "otlp" or "console"
	Endpoint       string  `yaml:"endpoint"`
	SampleRate     float64 `yaml:"sample_rate"`
}

func (c *Config) applyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "frankenterm-core"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "v0.0.0"
	}
	if c.Exporter == "" {
		c.Exporter = "console"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
}

// Manager owns the tracer provider and exposes the package tracer.
type Manager struct {
	cfg      Config
	log      *logrus.Entry
	provider *trace.TracerProvider
	tracer   oteltrace.Tracer
}

// New builds a Manager. When cfg.Enabled is false the returned Manager's
// Tracer is a no-op tracer from the global otel provider.
func New(cfg Config, log *logrus.Entry) (*Manager, error) {
	cfg.applyDefaults()
	if !cfg.Enabled {
		return &Manager{cfg: cfg, log: log, tracer: otel.Tracer("noop")}, nil
	}

	exporter, err := newExporter(cfg)
	if err != nil {
		return nil, fmt.Errorf("telemetry: create exporter: %w", err)
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: build resource: %w", err)
	}

	provider := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.TraceIDRatioBased(cfg.SampleRate)),
	)
	otel.SetTracerProvider(provider)

	m := &Manager{cfg: cfg, log: log, provider: provider, tracer: provider.Tracer(cfg.ServiceName)}
	if log != nil {
		log.WithFields(logrus.Fields{"exporter": cfg.Exporter, "service": cfg.ServiceName}).Info("tracing initialized")
	}
	return m, nil
}

func newExporter(cfg Config) (trace.SpanExporter, error) {
	switch cfg.Exporter {
	case "console":
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "otlp":
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		return otlptrace.New(context.Background(), otlptracehttp.NewClient(opts...))
	default:
		return nil, fmt.Errorf("unknown exporter %q", cfg.Exporter)
	}
}

// Tracer returns the package tracer, valid whether or not tracing is
// enabled.
func (m *Manager) Tracer() oteltrace.Tracer {
	return m.tracer
}

// StartSpan is a small convenience wrapper around Tracer().Start.
func (m *Manager) StartSpan(ctx context.Context, name string) (context.Context, oteltrace.Span) {
	return m.tracer.Start(ctx, name)
}

// Shutdown flushes and stops the tracer provider, if one was created.
func (m *Manager) Shutdown(ctx context.Context) error {
	if m.provider == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return m.provider.Shutdown(shutdownCtx)
}
