// Package secrets assembles randomized secrets from parsed character classes
// using bytes drawn from an external entropy stream. One Session covers one
// generated secret: it owns the entropy handle, the sampler on top of it,
// and the diagnostic tracker that decides whether the result may be handed
// back to the caller.
package secrets

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/charclass"
	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/diagnostics"
	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/entropy"
	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/mkpass_io"
	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/sampler"
)

// Options is the caller-facing input for one generation request.
type Options struct {
	// Length is the requested secret length in characters.
	Length int
	// Specs are the character-class specification strings, in order.
	Specs []string
	// SuppressDefault drops the built-in alphanumeric optional class.
	SuppressDefault bool
	// EntropySource is a path, device node, or entropy.Stdin.
	EntropySource string
	// FailThreshold is the severity at or above which the secret is
	// withheld from the result.
	FailThreshold diagnostics.Severity
}

// Result is the caller-facing output of one generation request.
//
// Secret is populated whenever assembly completed, even for failed runs, so
// error paths remain observable; Withheld tells the caller the run crossed
// the fail threshold and the secret must not be treated as delivered.
type Result struct {
	Secret      string
	Withheld    bool
	Diagnostics []diagnostics.Record
}

// Session carries the per-request state: tracker, entropy handle, sampler.
// Sessions are single-use and not safe for concurrent access.
type Session struct {
	log       *zap.Logger
	tracker   *diagnostics.Tracker
	src       entropy.Source
	smp       *sampler.Sampler
	threshold diagnostics.Severity
}

// NewSession wires a session around an entropy source. The source is owned
// by the session from here on and released when Generate returns.
func NewSession(log *zap.Logger, src entropy.Source, threshold diagnostics.Severity) *Session {
	tracker := diagnostics.NewTracker(log)
	return &Session{
		log:       log,
		tracker:   tracker,
		src:       src,
		smp:       sampler.New(src, tracker, threshold),
		threshold: threshold,
	}
}

// Tracker exposes the session's diagnostic tracker.
func (s *Session) Tracker() *diagnostics.Tracker { return s.tracker }

// Generate runs the full pipeline for one secret: capacity validation,
// required draws per class, optional fill, and the final shuffle. The
// entropy handle is released on every exit path.
func (s *Session) Generate(length int, classes []charclass.Class) Result {
	defer func() {
		if err := s.src.Close(); err != nil {
			s.log.Warn("entropy source release failed", zap.Error(err))
		}
	}()

	if !s.validate(length, classes) {
		return s.result("")
	}

	buf, err := s.assemble(length, classes)
	if err != nil {
		// Diagnostics already carry the failure; nothing assembled
		// survives a broken draw.
		return s.result("")
	}

	if err := s.shuffle(buf); err != nil {
		return s.result("")
	}

	s.log.Debug("secret assembled",
		zap.Int("length", len(buf)),
		zap.String("secret", diagnostics.Redact(string(buf))))
	return s.result(string(buf))
}

// validate runs the pre-assembly checks. A non-positive length is CRITICAL
// and consumes nothing. A required total above the
// requested length is an ERROR but assembly proceeds (the result simply runs
// long); a shortfall with no optional pool is CRITICAL and must not consume
// a single entropy byte.
func (s *Session) validate(length int, classes []charclass.Class) bool {
	if length < 1 {
		s.tracker.Log(diagnostics.Critical, fmt.Sprintf(
			"requested length %d is not positive", length))
		return false
	}

	requiredSum := 0
	hasOptional := false
	for _, c := range classes {
		requiredSum += c.Required
		if c.Optional() {
			hasOptional = true
		}
	}

	if requiredSum > length {
		s.tracker.Log(diagnostics.Error, fmt.Sprintf(
			"required character counts (%d) exceed requested length (%d)",
			requiredSum, length))
	}
	if requiredSum < length && !hasOptional {
		s.tracker.Log(diagnostics.Critical, fmt.Sprintf(
			"cannot reach requested length %d from %d required characters without optional characters",
			length, requiredSum))
		return false
	}
	return true
}

func (s *Session) result(secret string) Result {
	return Result{
		Secret:      secret,
		Withheld:    s.tracker.IsFatal(s.threshold) || secret == "",
		Diagnostics: s.tracker.Records(),
	}
}

// Generate is the standalone entry point used by the CLI: it parses the
// specification strings, opens the named entropy stream lazily, runs one
// session, and returns the result together with every diagnostic raised
// along the way.
func Generate(rc *mkpass_io.RuntimeContext, opts Options) Result {
	logger := otelzap.Ctx(rc.Ctx)
	logger.Info("Generating secret",
		zap.Int("length", opts.Length),
		zap.Strings("specs", opts.Specs),
		zap.Bool("suppress_default", opts.SuppressDefault),
		zap.String("entropy_source", opts.EntropySource),
		zap.String("fail_threshold", opts.FailThreshold.String()))

	if opts.EntropySource == "" {
		opts.EntropySource = entropy.DefaultSource
	}

	src := entropy.NewFileSource(opts.EntropySource)
	session := NewSession(rc.Log, src, opts.FailThreshold)
	classes := charclass.ParseAll(session.Tracker(), opts.Specs, opts.SuppressDefault)
	return session.Generate(opts.Length, classes)
}
