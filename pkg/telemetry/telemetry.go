// pkg/telemetry/telemetry.go
package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	cerr "github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

var tracer trace.Tracer

// Init configures OpenTelemetry; call this early in main(). Telemetry is
// opt-in: without the marker file every span goes to a noop provider.
func Init(service string) error {
	if !IsEnabled() {
		tp := noop.NewTracerProvider()
		otel.SetTracerProvider(tp)
		tracer = tp.Tracer(service)
		return nil
	}

	telemetryDir := filepath.Join(os.Getenv("HOME"), ".mkpass", "telemetry")
	if err := os.MkdirAll(telemetryDir, 0700); err != nil {
		return cerr.Wrap(err, "create telemetry directory")
	}

	// JSONL spans appended to a local file; nothing leaves the machine.
	telemetryFile := filepath.Join(telemetryDir, "telemetry.jsonl")
	file, err := os.OpenFile(telemetryFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return cerr.Wrap(err, "open telemetry file")
	}

	exp, err := stdouttrace.New(
		stdouttrace.WithWriter(file),
		stdouttrace.WithoutTimestamps(),
	)
	if err != nil {
		file.Close()
		return cerr.Wrap(err, "create file exporter")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(
			sdkresource.NewWithAttributes(
				semconv.SchemaURL,
				attribute.String("service.name", service),
				attribute.String("host.name", hostname()),
			),
		),
	)

	otel.SetTracerProvider(tp)
	tracer = tp.Tracer(service)
	return nil
}

// Start a telemetry span with optional attributes.
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("mkpass")
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// IsEnabled reports whether the user opted into local telemetry.
func IsEnabled() bool {
	path := filepath.Join(os.Getenv("HOME"), ".mkpass", "telemetry_on")
	_, err := os.Stat(path)
	return err == nil
}

func hostname() string {
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return "unknown"
}

// TruncateArgs bounds the argument string recorded on spans so oversized
// character-class specs do not bloat the telemetry file.
func TruncateArgs(args []string) string {
	full := strings.Join(args, " ")
	if len(full) > 256 {
		return full[:256] + "..."
	}
	return full
}

// AnonTelemetryID returns a stable anonymous identifier for this machine,
// creating one on first use.
func AnonTelemetryID() string {
	path := filepath.Join(os.Getenv("HOME"), ".mkpass", "telemetry_id")

	if data, err := os.ReadFile(path); err == nil {
		return strings.TrimSpace(string(data))
	}

	id := "anon-" + uuid.New().String()
	_ = os.MkdirAll(filepath.Dir(path), 0700)
	_ = os.WriteFile(path, []byte(id), 0600)

	return id
}
