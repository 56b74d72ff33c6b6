// pkg/secrets/assemble.go

package secrets

import (
	cerr "github.com/cockroachdb/errors"

	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/charclass"
)

// ErrNoSecret marks assembly that could not produce a usable secret.
var ErrNoSecret = cerr.New("no secret produced")

// assemble draws every required character class-by-class, then fills the
// remainder from the merged optional pool. The returned buffer is unshuffled
// and may exceed length when required counts over-supply it.
func (s *Session) assemble(length int, classes []charclass.Class) ([]byte, error) {
	buf := make([]byte, 0, length)

	for _, c := range classes {
		for k := 0; k < c.Required; k++ {
			ch, err := s.drawFrom(c.Chars)
			if err != nil {
				return nil, err
			}
			buf = append(buf, ch)
		}
	}

	if len(buf) < length {
		pool := mergeOptional(classes)
		for len(buf) < length {
			ch, err := s.drawFrom(pool)
			if err != nil {
				return nil, err
			}
			buf = append(buf, ch)
		}
	}
	return buf, nil
}

// drawFrom picks one character uniformly from the set by sampling an index
// over the character positions.
func (s *Session) drawFrom(chars []byte) (byte, error) {
	idx, err := s.smp.UniformInt(0, len(chars)-1)
	if err != nil {
		return 0, cerr.Wrap(err, "draw character")
	}
	return chars[idx], nil
}

// mergeOptional unions the optional classes' character sets into one fill
// pool, first occurrence wins.
func mergeOptional(classes []charclass.Class) []byte {
	var pool []byte
	seen := [256]bool{}
	for _, c := range classes {
		if !c.Optional() {
			continue
		}
		for _, ch := range c.Chars {
			if !seen[ch] {
				seen[ch] = true
				pool = append(pool, ch)
			}
		}
	}
	return pool
}

// shuffle permutes the assembled buffer in place with a Fisher-Yates pass:
// position i swaps with an index drawn uniformly from [0, i]. Drawing over
// [0, i] rather than the whole buffer is what makes every permutation
// equally likely.
func (s *Session) shuffle(buf []byte) error {
	for i := 0; i < len(buf); i++ {
		j, err := s.smp.UniformInt(0, i)
		if err != nil {
			return cerr.Wrap(err, "shuffle")
		}
		buf[i], buf[j] = buf[j], buf[i]
	}
	return nil
}
