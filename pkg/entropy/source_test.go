// pkg/entropy/source_test.go

package entropy

import (
	"os"
	"path/filepath"
	"testing"

	cerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSourceReadsBytesInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entropy")
	require.NoError(t, os.WriteFile(path, []byte{0x01, 0xFF, 0x00}, 0600))

	src := NewFileSource(path)
	defer src.Close()

	for _, want := range []byte{0x01, 0xFF, 0x00} {
		b, err := src.NextByte()
		require.NoError(t, err)
		assert.Equal(t, want, b)
	}

	// Stream exhausted.
	_, err := src.NextByte()
	assert.Error(t, err)
}

func TestFileSourceLazyOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")

	// Construction never touches the filesystem; the failure surfaces on
	// the first draw and is permanent from then on.
	src := NewFileSource(path)
	_, err := src.NextByte()
	require.Error(t, err)
	assert.True(t, cerr.Is(err, ErrOpen), "open failures carry the ErrOpen mark")

	_, err2 := src.NextByte()
	require.Error(t, err2)
	assert.Equal(t, err.Error(), err2.Error(), "open failure is cached, not retried")

	assert.NoError(t, src.Close(), "closing a never-opened source is fine")
}

func TestFileSourceClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entropy")
	require.NoError(t, os.WriteFile(path, []byte{0x42}, 0600))

	src := NewFileSource(path)
	b, err := src.NextByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x42), b)

	require.NoError(t, src.Close())
	require.NoError(t, src.Close(), "double close is safe")

	// Released sources never reopen.
	_, err = src.NextByte()
	assert.Error(t, err)
}

func TestFileSourceStdinMarker(t *testing.T) {
	src := NewFileSource(Stdin)
	assert.Equal(t, Stdin, src.Path())

	// Close must not close the process's stdin, opened or not.
	assert.NoError(t, src.Close())
	assert.NotNil(t, os.Stdin)
}

func TestScripted(t *testing.T) {
	src := NewScripted(0x0A, 0x0B)

	b, err := src.NextByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x0A), b)
	assert.Equal(t, 1, src.Consumed())

	b, err = src.NextByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0x0B), b)

	_, err = src.NextByte()
	assert.Error(t, err, "running past the script fails")

	require.NoError(t, src.Close())
	_, err = src.NextByte()
	assert.Error(t, err, "draws after release fail")
}
