// pkg/entropy/scripted.go

package entropy

import (
	cerr "github.com/cockroachdb/errors"
)

// Scripted replays a fixed byte sequence. It exists so the sampler, shuffle,
// and end-to-end generation paths can be exercised bit-for-bit
// deterministically in tests.
type Scripted struct {
	bytes  []byte
	pos    int
	closed bool
}

// NewScripted returns a source that yields exactly the given bytes in order
// and then fails.
func NewScripted(b ...byte) *Scripted {
	return &Scripted{bytes: b}
}

// Consumed reports how many bytes have been drawn so far.
func (s *Scripted) Consumed() int { return s.pos }

// Closed reports whether the source was released.
func (s *Scripted) Closed() bool { return s.closed }

// NextByte implements Source. Running past the script is an error, mirroring
// a real stream that dried up.
func (s *Scripted) NextByte() (byte, error) {
	if s.closed {
		return 0, cerr.New("scripted entropy source already released")
	}
	if s.pos >= len(s.bytes) {
		return 0, cerr.Newf("scripted entropy exhausted after %d bytes", s.pos)
	}
	b := s.bytes[s.pos]
	s.pos++
	return b, nil
}

// Close implements Source.
func (s *Scripted) Close() error {
	s.closed = true
	return nil
}
