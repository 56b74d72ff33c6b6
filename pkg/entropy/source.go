// pkg/entropy/source.go
//
// External entropy streams. A Source hands out one byte at a time; the
// sampler layer turns those bytes into unbiased integers. The stream is
// opened lazily on the first draw and must be released exactly once when the
// generation session ends.

package entropy

import (
	"io"
	"os"

	cerr "github.com/cockroachdb/errors"
)

// ErrOpen marks failures to acquire the underlying entropy handle, as
// opposed to read failures on an already-open stream.
var ErrOpen = cerr.New("entropy source unavailable")

// Stdin is the descriptor value meaning "read entropy from standard input"
// instead of opening a file or device node.
const Stdin = "-"

// DefaultSource is used when the caller does not name an entropy stream.
const DefaultSource = "/dev/urandom"

// Source yields single bytes from an external entropy stream.
type Source interface {
	// NextByte returns the next byte from the stream. The underlying
	// handle is opened on the first call; an open failure is permanent
	// for the life of the Source and every later call fails immediately
	// without retrying I/O.
	NextByte() (byte, error)

	// Close releases the underlying handle. Safe to call when the stream
	// was never opened, and safe to call more than once.
	Close() error
}

// FileSource reads entropy from a named file, device node, or named pipe,
// or from standard input when the path is Stdin. Exclusively owned by one
// generation session.
type FileSource struct {
	path    string
	r       io.Reader
	f       *os.File
	openErr error
	closed  bool
	buf     [1]byte
}

// NewFileSource wraps a path without touching the filesystem. The handle is
// acquired on the first NextByte call.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the descriptor this source was built from.
func (s *FileSource) Path() string { return s.path }

func (s *FileSource) open() error {
	if s.closed {
		return cerr.Newf("entropy source %q already released", s.path)
	}
	if s.r != nil || s.openErr != nil {
		return s.openErr
	}
	if s.path == Stdin {
		s.r = os.Stdin
		return nil
	}
	f, err := os.Open(s.path)
	if err != nil {
		// Remember the failure so the session never re-attempts I/O.
		s.openErr = cerr.Mark(cerr.Wrapf(err, "open entropy source %q", s.path), ErrOpen)
		return s.openErr
	}
	s.f = f
	s.r = f
	return nil
}

// NextByte implements Source.
func (s *FileSource) NextByte() (byte, error) {
	if err := s.open(); err != nil {
		return 0, err
	}
	if _, err := io.ReadFull(s.r, s.buf[:]); err != nil {
		return 0, cerr.Wrapf(err, "read entropy source %q", s.path)
	}
	return s.buf[0], nil
}

// Close implements Source. Standard input is left open; it belongs to the
// process, not to this session.
func (s *FileSource) Close() error {
	s.closed = true
	if s.f == nil {
		return nil
	}
	f := s.f
	s.f = nil
	s.r = nil
	if err := f.Close(); err != nil {
		return cerr.Wrapf(err, "close entropy source %q", s.path)
	}
	return nil
}
