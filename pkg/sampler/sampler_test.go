// pkg/sampler/sampler_test.go

package sampler

import (
	mrand "math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/diagnostics"
	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/entropy"
)

// prngSource feeds the sampler a deterministic pseudo-random byte stream for
// statistical tests. Never used outside tests; real runs draw from a file or
// device.
type prngSource struct {
	r *mrand.Rand
}

func newPRNG(seed int64) *prngSource {
	return &prngSource{r: mrand.New(mrand.NewSource(seed))}
}

func (p *prngSource) NextByte() (byte, error) { return byte(p.r.Intn(256)), nil }
func (p *prngSource) Close() error            { return nil }

func newSampler(t *testing.T, src entropy.Source) (*Sampler, *diagnostics.Tracker) {
	t.Helper()
	tr := diagnostics.NewTracker(zaptest.NewLogger(t))
	return New(src, tr, diagnostics.DefaultFailThreshold), tr
}

func TestUniformByteRejectsOutOfRange(t *testing.T) {
	// 200 and 101 are above the bound and must be discarded; 7 is the
	// first acceptable byte.
	src := entropy.NewScripted(200, 101, 7)
	s, _ := newSampler(t, src)

	v, err := s.UniformByte(0, 100)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 3, src.Consumed())
}

func TestUniformByteBounds(t *testing.T) {
	t.Run("no lower bound sentinel means zero", func(t *testing.T) {
		src := entropy.NewScripted(0)
		s, _ := newSampler(t, src)

		v, err := s.UniformByte(NoBound, 10)
		require.NoError(t, err)
		assert.Equal(t, 0, v)
	})

	t.Run("inverted bounds are a caller bug", func(t *testing.T) {
		s, _ := newSampler(t, entropy.NewScripted())
		_, err := s.UniformByte(10, 5)
		assert.Error(t, err)
	})

	t.Run("end beyond a byte is a caller bug", func(t *testing.T) {
		s, _ := newSampler(t, entropy.NewScripted())
		_, err := s.UniformByte(0, 256)
		assert.Error(t, err)
	})

	t.Run("degenerate range waits for the exact byte", func(t *testing.T) {
		src := entropy.NewScripted(9, 9, 9)
		s, _ := newSampler(t, src)

		v, err := s.UniformByte(9, 9)
		require.NoError(t, err)
		assert.Equal(t, 9, v)
		assert.Equal(t, 1, src.Consumed())
	})
}

func TestUniformIntSingleByteSpan(t *testing.T) {
	// Span of 7 delegates to a single rejection-sampled byte draw and
	// shifts by the start.
	src := entropy.NewScripted(200, 5)
	s, _ := newSampler(t, src)

	v, err := s.UniformInt(3, 10)
	require.NoError(t, err)
	assert.Equal(t, 8, v)
	assert.Equal(t, 2, src.Consumed())
}

func TestUniformIntWideSpanDecomposition(t *testing.T) {
	// Span 1000: highPart 3, lowRemainder 232. Draw order is fixed:
	// scale byte (block count is always 0 for single-byte scales), coin
	// byte, then the gated partial-block draw.
	t.Run("coin low skips the tail draw", func(t *testing.T) {
		src := entropy.NewScripted(17, 42)
		s, _ := newSampler(t, src)

		v, err := s.UniformInt(0, 1000)
		require.NoError(t, err)
		assert.Equal(t, 0, v)
		assert.Equal(t, 2, src.Consumed())
	})

	t.Run("coin high adds one draw bounded by the remainder", func(t *testing.T) {
		src := entropy.NewScripted(17, 200, 100)
		s, _ := newSampler(t, src)

		v, err := s.UniformInt(0, 1000)
		require.NoError(t, err)
		assert.Equal(t, 100, v)
		assert.Equal(t, 3, src.Consumed())
	})

	t.Run("start offsets the decomposed span", func(t *testing.T) {
		src := entropy.NewScripted(0, 255, 232)
		s, _ := newSampler(t, src)

		v, err := s.UniformInt(500, 1500)
		require.NoError(t, err)
		assert.Equal(t, 500+232, v)
	})
}

func TestFatalShortCircuit(t *testing.T) {
	src := entropy.NewScripted(1, 2, 3)
	s, tr := newSampler(t, src)

	tr.Log(diagnostics.Critical, "cannot reach requested length")

	_, err := s.UniformByte(0, 255)
	assert.ErrorIs(t, err, ErrFatalState)

	_, err = s.UniformInt(0, 1000)
	assert.ErrorIs(t, err, ErrFatalState)

	assert.Zero(t, src.Consumed(), "no I/O after fatal severity")
}

func TestReadFailureLogsFatal(t *testing.T) {
	src := entropy.NewScripted() // dries up immediately
	s, tr := newSampler(t, src)

	_, err := s.UniformByte(0, 100)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrFatalState)
	assert.Equal(t, diagnostics.Fatal, tr.Highest())

	// The fatal diagnostic now blocks every further draw before I/O.
	_, err = s.UniformByte(0, 100)
	assert.ErrorIs(t, err, ErrFatalState)
}

func TestUniformByteFrequencies(t *testing.T) {
	const (
		trials = 60000
		lo     = 10
		hi     = 15
	)
	s, _ := newSampler(t, newPRNG(1))

	counts := make(map[int]int)
	for i := 0; i < trials; i++ {
		v, err := s.UniformByte(lo, hi)
		require.NoError(t, err)
		require.GreaterOrEqual(t, v, lo)
		require.LessOrEqual(t, v, hi)
		counts[v]++
	}

	// Chi-square style check: expected 10000 per value, allow a wide
	// tolerance so the test stays deterministic across seeds.
	expected := trials / (hi - lo + 1)
	for v := lo; v <= hi; v++ {
		assert.InDelta(t, expected, counts[v], float64(expected)*0.05,
			"value %d drawn out of tolerance", v)
	}
}

func TestUniformIntSmallSpanFrequencies(t *testing.T) {
	const trials = 30000
	s, _ := newSampler(t, newPRNG(7))

	counts := make(map[int]int)
	for i := 0; i < trials; i++ {
		v, err := s.UniformInt(0, 2)
		require.NoError(t, err)
		counts[v]++
	}

	expected := trials / 3
	for v := 0; v <= 2; v++ {
		assert.InDelta(t, expected, counts[v], float64(expected)*0.05)
	}
}
