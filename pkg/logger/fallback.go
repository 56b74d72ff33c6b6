/* pkg/logger/fallback.go */

package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewFallbackLogger builds a console-only logger honoring LOG_LEVEL. Used
// whenever no writable log file is available, and always safe to construct.
func NewFallbackLogger() *zap.Logger {
	cfg := DefaultConsoleEncoderConfig()

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.AddSync(os.Stderr),
		ParseLogLevel(os.Getenv("LOG_LEVEL")),
	)

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// InitializeWithFallback tees console output with a JSON log file when one of
// the default paths is writable, otherwise falls back to console only.
func InitializeWithFallback() {
	path, err := FindWritableLogPath()
	if err != nil {
		log = NewFallbackLogger()
		zap.ReplaceGlobals(log)
		return
	}

	cfg := DefaultConsoleEncoderConfig()
	jsonCfg := zap.NewProductionEncoderConfig()
	jsonCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	jsonCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	writer, err := GetLogFileWriter(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "⚠️  Could not write to log file, falling back to console:", err)
		writer = zapcore.AddSync(os.Stderr)
	}

	level := ParseLogLevel(os.Getenv("LOG_LEVEL"))
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(os.Stderr), level),
		zapcore.NewCore(zapcore.NewJSONEncoder(jsonCfg), writer, level),
	)

	log = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	zap.ReplaceGlobals(log)
}

// DefaultConsoleEncoderConfig returns the compact console encoding shared by
// the fallback and file loggers.
func DefaultConsoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "T"
	cfg.LevelKey = "L"
	cfg.NameKey = "N"
	cfg.CallerKey = "C"
	cfg.MessageKey = "M"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg
}

// ParseLogLevel maps a LOG_LEVEL value to a zap level, defaulting to warn so
// generated secrets on stdout are not drowned out by log chatter.
func ParseLogLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// DefaultLogPaths are tried in order when picking a log file location.
var DefaultLogPaths = []string{
	filepath.Join(os.Getenv("XDG_STATE_HOME"), "mkpass", "mkpass.log"),
	filepath.Join(os.Getenv("HOME"), ".local", "state", "mkpass", "mkpass.log"),
	"/tmp/mkpass.log",
}

// FindWritableLogPath returns the first usable log path.
func FindWritableLogPath() (string, error) {
	for _, path := range DefaultLogPaths {
		if !filepath.IsAbs(path) {
			continue // XDG_STATE_HOME or HOME was empty
		}
		if _, err := GetLogFileWriter(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no writable log path found")
}

// GetLogFileWriter opens (creating if needed) the log file with restrictive
// permissions.
func GetLogFileWriter(path string) (zapcore.WriteSyncer, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return zapcore.AddSync(os.Stderr), fmt.Errorf("log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return zapcore.AddSync(os.Stderr), fmt.Errorf("open log file: %w", err)
	}
	return zapcore.AddSync(file), nil
}
