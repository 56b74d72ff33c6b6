// pkg/diagnostics/diagnostics.go
//
// Leveled diagnostic tracking for secret-generation sessions. Every component
// reports through one Tracker; the highest severity seen decides whether the
// finished secret may be handed back to the caller.

package diagnostics

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Severity classifies how serious a diagnostic is. Ordering matters: a
// session is considered failed once the running maximum reaches the
// configured fail threshold.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Critical
	Fatal
)

// DefaultFailThreshold withholds the secret at Critical and above.
const DefaultFailThreshold = Critical

func (s Severity) String() string {
	switch s {
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	case Critical:
		return "CRITICAL"
	case Fatal:
		return "FATAL"
	default:
		return fmt.Sprintf("SEVERITY(%d)", int(s))
	}
}

// Record is one logged diagnostic.
type Record struct {
	Severity Severity
	Message  string
}

// Tracker accumulates diagnostics for a single generation session and keeps
// the running maximum severity. Not safe for concurrent use; each session
// owns exactly one Tracker.
type Tracker struct {
	log     *zap.Logger
	runID   string
	records []Record
	highest Severity
	seen    bool
}

// NewTracker returns an empty tracker. Records are mirrored to the supplied
// zap logger with the session run ID attached.
func NewTracker(log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	runID := uuid.New().String()
	return &Tracker{
		log:   log.With(zap.String("run_id", runID)),
		runID: runID,
	}
}

// RunID identifies this session in logs and telemetry.
func (t *Tracker) RunID() string { return t.runID }

// Log appends a diagnostic and updates the running maximum severity.
func (t *Tracker) Log(sev Severity, msg string) {
	t.records = append(t.records, Record{Severity: sev, Message: msg})
	if !t.seen || sev > t.highest {
		t.highest = sev
		t.seen = true
	}

	fields := []zap.Field{zap.String("severity", sev.String())}
	switch {
	case sev >= Error:
		t.log.Error(msg, fields...)
	case sev == Warning:
		t.log.Warn(msg, fields...)
	default:
		t.log.Info(msg, fields...)
	}
}

// Highest returns the maximum severity logged so far, or Info when nothing
// has been logged.
func (t *Tracker) Highest() Severity {
	if !t.seen {
		return Info
	}
	return t.highest
}

// IsFatal reports whether the session has reached the given fail threshold.
func (t *Tracker) IsFatal(threshold Severity) bool {
	return t.seen && t.highest >= threshold
}

// Records returns the ordered diagnostics logged so far.
func (t *Tracker) Records() []Record {
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Report renders the diagnostics as a human-readable block, one line per
// record, suitable for writing to stderr.
func (t *Tracker) Report() string {
	return FormatRecords(t.records)
}

// FormatRecords renders diagnostic records the same way Report does, for
// callers that only hold the records.
func FormatRecords(records []Record) string {
	if len(records) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, r := range records {
		fmt.Fprintf(&sb, "%s (%d): %s\n", r.Severity, int(r.Severity), r.Message)
	}
	return sb.String()
}
