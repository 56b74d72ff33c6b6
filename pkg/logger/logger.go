package logger

import (
	"go.uber.org/zap"
)

var log *zap.Logger

// SetLogger stores the package-level logger.
func SetLogger(l *zap.Logger) { log = l }

// L returns the package-level logger, which may be nil before initialization.
func L() *zap.Logger { return log }

// GetLogger returns the package-level logger, initializing the console
// fallback if nothing was set up yet.
func GetLogger() *zap.Logger {
	if l := L(); l != nil {
		return l
	}
	InitFallback()
	return log
}

// InitFallback installs the console-only logger globally.
func InitFallback() {
	fallback := NewFallbackLogger()
	zap.ReplaceGlobals(fallback)
	SetLogger(fallback)
}
