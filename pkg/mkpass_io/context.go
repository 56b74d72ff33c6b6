// pkg/mkpass_io/context.go

package mkpass_io

import (
	"context"
	"os"
	"runtime"
	"strings"
	"time"

	cerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/mkpass_err"
	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/shared"
	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/telemetry"
)

// RuntimeContext carries the per-command context, scoped logger, and span.
type RuntimeContext struct {
	Ctx        context.Context
	Log        *zap.Logger
	Timestamp  time.Time
	Span       trace.Span
	Command    string
	Component  string
	Attributes map[string]string
}

// NewContext sets up tracing and a component-scoped logger for one command
// invocation.
func NewContext(ctx context.Context, cmdName string) *RuntimeContext {
	if ctx == nil {
		ctx = context.Background()
	}
	spanCtx, span := telemetry.Start(ctx, cmdName)
	traceID := span.SpanContext().TraceID().String()
	if telemetry.IsEnabled() {
		span.SetAttributes(
			attribute.String("args", telemetry.TruncateArgs(os.Args[1:])),
			attribute.String("user_id", telemetry.AnonTelemetryID()),
		)
	}

	comp, action := resolveCallContext(3)
	logger := zap.L().With(
		zap.String("component", comp),
		zap.String("action", action),
		zap.String("trace_id", traceID),
	).Named(comp)

	return &RuntimeContext{
		Ctx:        spanCtx,
		Span:       span,
		Log:        logger,
		Timestamp:  time.Now(),
		Component:  comp,
		Command:    action,
		Attributes: make(map[string]string),
	}
}

// HandlePanic recovers panics, logs them, and converts to an error.
func (rc *RuntimeContext) HandlePanic(errPtr *error) {
	if r := recover(); r != nil {
		*errPtr = cerr.AssertionFailedf("panic: %v", r)
		rc.Log.Error("panic recovered", zap.Any("panic", r))
	}
}

// End logs the outcome, records the final telemetry span, and flushes.
func (rc *RuntimeContext) End(errPtr *error) {
	defer rc.Span.End()

	duration := time.Since(rc.Timestamp)
	success := (*errPtr == nil)

	if success {
		rc.Log.Info("Command completed", zap.Duration("duration", duration))
	} else if mkpass_err.IsExpectedUserError(*errPtr) {
		rc.Log.Warn("Command failed", zap.Duration("duration", duration), zap.Error(*errPtr))
	} else {
		rc.Log.Error("Command failed", zap.Duration("duration", duration), zap.Error(*errPtr))
	}

	rc.Span.SetAttributes(
		attribute.Bool("success", success),
		attribute.Int64("duration_ms", duration.Milliseconds()),
		attribute.String("os", runtime.GOOS),
		attribute.String("version", shared.Version),
		attribute.String("error_type", classifyError(*errPtr)),
	)

	shared.SafeSync()
}

func classifyError(err error) string {
	if err == nil {
		return ""
	}
	if mkpass_err.IsExpectedUserError(err) {
		return "user"
	}
	return "system"
}

func resolveCallContext(skip int) (component, action string) {
	pc, file, _, ok := runtime.Caller(skip)
	if !ok {
		return "unknown", "unknown"
	}
	parts := strings.Split(file, "/")
	component = parts[len(parts)-2]
	if fn := runtime.FuncForPC(pc); fn != nil {
		name := fn.Name()
		fields := strings.Split(name, ".")
		action = fields[len(fields)-1]
	} else {
		action = "unknown"
	}
	return
}
