// pkg/charclass/charclass_test.go

package charclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/CodeMonkeyCybersecurity/mkpass/pkg/diagnostics"
)

func newTracker(t *testing.T) *diagnostics.Tracker {
	t.Helper()
	return diagnostics.NewTracker(zaptest.NewLogger(t))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		spec         string
		wantChars    string
		wantRequired int
		wantHighest  diagnostics.Severity
	}{
		{
			name:      "lowercase range",
			spec:      "a-z",
			wantChars: "abcdefghijklmnopqrstuvwxyz",
		},
		{
			name:      "dotdot range",
			spec:      "a..z",
			wantChars: "abcdefghijklmnopqrstuvwxyz",
		},
		{
			name:         "required count prefix",
			spec:         "3:#$%",
			wantChars:    "#$%",
			wantRequired: 3,
		},
		{
			name:      "escaped hyphen between ranges",
			spec:      `a-z\-0-9`,
			wantChars: "abcdefghijklmnopqrstuvwxyz-0123456789",
		},
		{
			name:        "reversed range normalized with warning",
			spec:        "z-a",
			wantChars:   "abcdefghijklmnopqrstuvwxyz",
			wantHighest: diagnostics.Warning,
		},
		{
			name:      "leading hyphen is literal",
			spec:      "-abc",
			wantChars: "-abc",
		},
		{
			name:      "trailing hyphen is literal",
			spec:      "abc-",
			wantChars: "abc-",
		},
		{
			name:      "duplicates collapse",
			spec:      "aabba",
			wantChars: "ab",
		},
		{
			name:      "overlapping ranges collapse",
			spec:      "a-fc-j",
			wantChars: "abcdefghij",
		},
		{
			name:      "escaped backslash",
			spec:      `\\x`,
			wantChars: `\x`,
		},
		{
			name:         "count prefix with range body",
			spec:         "2:0-9",
			wantChars:    "0123456789",
			wantRequired: 2,
		},
		{
			name:      "non-numeric prefix stays literal",
			spec:      "a:b",
			wantChars: "a:b",
		},
		{
			name:        "zero count treated as optional",
			spec:        "0:xyz",
			wantChars:   "xyz",
			wantHighest: diagnostics.Warning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTracker(t)
			c, err := Parse(tr, tt.spec)
			require.NoError(t, err)

			assert.Equal(t, tt.wantChars, string(c.Chars))
			assert.Equal(t, tt.wantRequired, c.Required)
			assert.Equal(t, tt.wantRequired == 0, c.Optional())
			assert.Equal(t, tt.wantHighest, tr.Highest())
		})
	}
}

func TestParseEmptyClass(t *testing.T) {
	tr := newTracker(t)

	_, err := Parse(tr, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyClass)
	assert.Equal(t, diagnostics.Error, tr.Highest())
}

func TestParseReversedRangeMatchesForward(t *testing.T) {
	forward, err := Parse(newTracker(t), "a-z")
	require.NoError(t, err)
	reversed, err := Parse(newTracker(t), "z-a")
	require.NoError(t, err)

	// Same set; the class is a set, so member order is irrelevant.
	assert.ElementsMatch(t, forward.Chars, reversed.Chars)
}

func TestDefault(t *testing.T) {
	c := Default()

	assert.Len(t, c.Chars, 62)
	assert.True(t, c.Optional())
	assert.Contains(t, string(c.Chars), "0")
	assert.Contains(t, string(c.Chars), "a")
	assert.Contains(t, string(c.Chars), "Z")
}

func TestParseAll(t *testing.T) {
	t.Run("appends default class", func(t *testing.T) {
		tr := newTracker(t)
		classes := ParseAll(tr, []string{"2:abc"}, false)

		require.Len(t, classes, 2)
		assert.Equal(t, 2, classes[0].Required)
		assert.Len(t, classes[1].Chars, 62)
		assert.True(t, classes[1].Optional())
	})

	t.Run("suppressed default", func(t *testing.T) {
		tr := newTracker(t)
		classes := ParseAll(tr, []string{"2:abc"}, true)

		require.Len(t, classes, 1)
	})

	t.Run("empty class dropped with diagnostic", func(t *testing.T) {
		tr := newTracker(t)
		classes := ParseAll(tr, []string{"", "xyz"}, true)

		require.Len(t, classes, 1)
		assert.Equal(t, "xyz", string(classes[0].Chars))
		assert.Equal(t, diagnostics.Error, tr.Highest())
	})

	t.Run("no specs no default yields nothing", func(t *testing.T) {
		tr := newTracker(t)
		classes := ParseAll(tr, nil, true)

		assert.Empty(t, classes)
	})
}
