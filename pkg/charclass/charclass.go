// pkg/charclass/charclass.go
//
// Character-class specification parsing. A spec string names a set of
// characters, optionally prefixed with "N:" to require exactly N characters
// from that class in the generated secret. Ranges may be written "a-z" or
// "a..z"; a backslash escapes the next character; a bare hyphen at either
// end of the list is literal.

package charclass

import (
	"fmt"
	"strconv"
	"strings"

	cerr "github.com/cockroachdb/errors"

	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/diagnostics"
)

// ErrEmptyClass marks a spec that expanded to no characters at all. Such a
// class contributes nothing to assembly.
var ErrEmptyClass = cerr.New("character class is empty")

const defaultChars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Class is one parsed character class: an ordered, deduplicated character
// set plus how many characters the secret must draw from it. Required == 0
// means the class is optional and only feeds the fill pool. Immutable after
// parsing.
type Class struct {
	Chars    []byte
	Required int
}

// Optional reports whether this class carries no required count.
func (c Class) Optional() bool { return c.Required == 0 }

// Default returns the built-in optional class: digits plus lowercase and
// uppercase letters.
func Default() Class {
	return Class{Chars: []byte(defaultChars)}
}

// Parse expands one specification string into a Class. Reversed ranges are
// normalized with a WARNING diagnostic; an empty result logs an ERROR and
// returns ErrEmptyClass.
func Parse(tr *diagnostics.Tracker, spec string) (Class, error) {
	required, body := splitCount(tr, spec)

	var chars []byte
	seen := [256]bool{}
	add := func(b byte) {
		if !seen[b] {
			seen[b] = true
			chars = append(chars, b)
		}
	}
	addRange := func(lo, hi byte) {
		if lo > hi {
			tr.Log(diagnostics.Warning,
				fmt.Sprintf("character range %c-%c used in reverse", lo, hi))
			lo, hi = hi, lo
		}
		for b := int(lo); b <= int(hi); b++ {
			add(byte(b))
		}
	}

	for i := 0; i < len(body); {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body):
			add(body[i+1])
			i += 2
		case i+2 < len(body) && body[i+1] == '-':
			addRange(c, body[i+2])
			i += 3
		case i+3 < len(body) && body[i+1] == '.' && body[i+2] == '.':
			addRange(c, body[i+3])
			i += 4
		default:
			add(c)
			i++
		}
	}

	if len(chars) == 0 {
		tr.Log(diagnostics.Error, fmt.Sprintf("character class %q is empty", spec))
		return Class{}, cerr.Wrapf(ErrEmptyClass, "spec %q", spec)
	}
	return Class{Chars: chars, Required: required}, nil
}

// splitCount strips an "N:" required-count prefix. A prefix of zero behaves
// like no prefix, with a warning so the caller knows the count was ignored.
func splitCount(tr *diagnostics.Tracker, spec string) (int, string) {
	idx := strings.IndexByte(spec, ':')
	if idx <= 0 {
		return 0, spec
	}
	n, err := strconv.Atoi(spec[:idx])
	if err != nil || n < 0 {
		return 0, spec
	}
	if n == 0 {
		tr.Log(diagnostics.Warning,
			fmt.Sprintf("required count of zero in %q treated as optional", spec))
	}
	return n, spec[idx+1:]
}

// ParseAll parses every spec string, drops empty classes, and appends the
// default alphanumeric class unless suppressed. The returned order follows
// the input order, which keeps required-count totals deterministic.
func ParseAll(tr *diagnostics.Tracker, specs []string, suppressDefault bool) []Class {
	classes := make([]Class, 0, len(specs)+1)
	for _, s := range specs {
		c, err := Parse(tr, s)
		if err != nil {
			continue
		}
		classes = append(classes, c)
	}
	if !suppressDefault {
		classes = append(classes, Default())
	}
	return classes
}
