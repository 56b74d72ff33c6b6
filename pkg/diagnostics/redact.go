// pkg/diagnostics/redact.go

package diagnostics

import "strings"

// Redact masks a secret for logging. Generated secrets must never reach the
// log stream in the clear.
func Redact(s string) string {
	if s == "" {
		return "(empty)"
	}
	return strings.Repeat("*", 8)
}
