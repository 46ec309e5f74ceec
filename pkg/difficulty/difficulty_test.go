package difficulty

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solgrind/solgrind/pkg/pattern"
)

func compile(t *testing.T, text string, mode pattern.Mode, ignoreCase bool) *pattern.Pattern {
	t.Helper()
	p, err := pattern.Compile(text, mode, ignoreCase)
	require.NoError(t, err)
	return p
}

func TestExpectedAttempts(t *testing.T) {
	// The canonical benchmark pattern: 34^4 case-insensitive.
	e := ForPattern(compile(t, "ZZZZ", pattern.Prefix, true))
	assert.Equal(t, AlphabetFolded, e.AlphabetSize)
	assert.Equal(t, 4, e.EffectiveLen)
	assert.InDelta(t, 1336336, e.Expected, 1)
	assert.InDelta(t, 1336336*math.Ln2, e.P50, 1)

	// Case-sensitive uses the full alphabet.
	e = ForPattern(compile(t, "ab", pattern.Suffix, false))
	assert.Equal(t, AlphabetExact, e.AlphabetSize)
	assert.InDelta(t, 58*58, e.Expected, 1)
}

func TestWildcardsAreFree(t *testing.T) {
	with := ForPattern(compile(t, "a?c", pattern.Prefix, true))
	without := ForPattern(compile(t, "ac", pattern.Prefix, true))
	assert.Equal(t, without.Expected, with.Expected)
	assert.Equal(t, 2, with.EffectiveLen)

	all := ForPattern(compile(t, "????", pattern.Prefix, true))
	assert.Equal(t, 1.0, all.Expected)
}

func TestAnywhereDivisor(t *testing.T) {
	anchored := ForPattern(compile(t, "abcd", pattern.Prefix, true))
	anywhere := ForPattern(compile(t, "abcd", pattern.Anywhere, true))

	// 44 - 4 + 1 anchor positions.
	assert.InDelta(t, anchored.Expected/41, anywhere.Expected, 1e-9)
}

func TestETA(t *testing.T) {
	e := ForPattern(compile(t, "ZZZZ", pattern.Prefix, true))

	assert.Zero(t, e.ETA(0, 0))
	assert.Zero(t, e.ETA(1000, uint64(e.P50)+1))

	eta := e.ETA(1000, 0)
	assert.InDelta(t, e.P50/1000, eta.Seconds(), 1)
}
