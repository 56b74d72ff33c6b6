// pkg/shared/runtime.go

package shared

import "go.uber.org/zap"

// Version is stamped at build time via -ldflags.
var Version = "0.1.0-dev"

// SafeSync flushes the global logger, swallowing the sync errors that
// stdout/stderr sinks return on some platforms.
func SafeSync() {
	if l := zap.L(); l != nil {
		_ = l.Sync()
	}
}
