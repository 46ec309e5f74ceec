// Package difficulty implements the closed-form search difficulty model
// used for progress display.
package difficulty

import (
	"math"
	"time"

	"github.com/solgrind/solgrind/pkg/pattern"
)

// addressLen is the effective address length used by the anywhere-mode
// divisor. Compressed Ed25519 keys encode to 43 or 44 characters; fixing 44
// over-counts anchors for 43-character addresses by a negligible amount.
const addressLen = 44

// Alphabet sizes. Case-insensitive matching folds the 58 Base58 characters
// into 34 equivalence classes: nine digits plus twenty-five letter classes
// (I, O and l are absent from the alphabet, so their counterparts fold to
// singleton classes).
const (
	AlphabetExact  = 58
	AlphabetFolded = 34
)

// Estimate describes the expected cost of a pattern search.
type Estimate struct {
	// Expected is the expected number of attempts per match, A^L* adjusted
	// for the number of anywhere-mode anchors.
	Expected float64

	// P50 is the median attempts per match of the geometric distribution,
	// Expected * ln 2.
	P50 float64

	// AlphabetSize is 58 for case-sensitive searches and 34 otherwise.
	AlphabetSize int

	// EffectiveLen counts the non-wildcard pattern characters.
	EffectiveLen int
}

// ForPattern computes the difficulty estimate for p.
func ForPattern(p *pattern.Pattern) Estimate {
	a := AlphabetExact
	if p.IgnoreCase() {
		a = AlphabetFolded
	}
	lstar := p.EffectiveLen()

	e := math.Pow(float64(a), float64(lstar))
	if p.Mode() == pattern.Anywhere && p.Len() < addressLen {
		e /= float64(addressLen - p.Len() + 1)
	}

	return Estimate{
		Expected:     e,
		P50:          e * math.Ln2,
		AlphabetSize: a,
		EffectiveLen: lstar,
	}
}

// ETA returns the estimated time to reach the P50 attempt count at the
// measured rate, or zero when the rate is unknown or the median has
// already been passed.
func (e Estimate) ETA(rate float64, attempts uint64) time.Duration {
	if rate <= 0 {
		return 0
	}
	remaining := e.P50 - float64(attempts)
	if remaining <= 0 {
		return 0
	}
	secs := remaining / rate
	// Clamp to something formattable; beyond a year the number is noise.
	if secs > 365*24*3600 || math.IsInf(secs, 0) || math.IsNaN(secs) {
		secs = 365 * 24 * 3600
	}
	return time.Duration(secs * float64(time.Second))
}
