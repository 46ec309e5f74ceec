// Package ui renders search progress and results on the terminal.
// Progress goes to stderr so stdout carries only the per-match report.
package ui

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/solgrind/solgrind/pkg/difficulty"
	"github.com/solgrind/solgrind/pkg/generator"
	"github.com/solgrind/solgrind/pkg/pattern"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorRed    = "\033[31m"
	ColorBold   = "\033[1m"
	ColorDim    = "\033[2m"
)

// PrintSearchInfo displays the search configuration as the search starts.
func PrintSearchInfo(pat *pattern.Pattern, est difficulty.Estimate, backend string, count int) {
	mode := pat.Mode().String()
	caseness := "case-insensitive"
	if !pat.IgnoreCase() {
		caseness = "case-sensitive"
	}
	fmt.Fprintf(os.Stderr, "%sSearching%s %s%s%s (%s, %s) on %s, target %d\n",
		ColorGreen+ColorBold, ColorReset,
		ColorCyan+ColorBold, pat.String(), ColorReset,
		mode, caseness, backend, count)
	fmt.Fprintf(os.Stderr, "%sExpected 1 in %s attempts, P50 %s%s\n",
		ColorDim, FormatNumber(uint64(est.Expected)), FormatNumber(uint64(est.P50)), ColorReset)
}

// PrintProgress shows the animated progress line: spinner, probability
// bar, rate, attempts, found count and ETA to the P50 attempt count.
func PrintProgress(stats generator.Stats, est difficulty.Estimate, found, target, frame int) {
	spinners := []string{"◐", "◓", "◑", "◒"}
	spinner := spinners[frame%len(spinners)]

	// Probability-shaped bar: 1 - 0.5^(2*attempts/E) reaches 50% at half
	// the expected attempts and approaches 1 asymptotically.
	diff := est.Expected
	if diff <= 0 {
		diff = 1
	}
	progress := 1.0 - math.Pow(0.5, 2.0*float64(stats.Attempts)/diff)

	barWidth := 30
	filled := int(progress * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("▓", filled) + strings.Repeat("░", barWidth-filled)

	eta := est.ETA(stats.HashRate, stats.Attempts)
	etaStr := "—"
	if eta > 0 {
		etaStr = FormatDuration(eta)
	}

	fmt.Fprintf(os.Stderr, "\r    %s%s%s %s%s%s %s%s%s │ %s%s%s │ %d/%d │ ETA %s ",
		ColorCyan, spinner, ColorReset,
		ColorDim, bar, ColorReset,
		ColorGreen+ColorBold, FormatHashRate(stats.HashRate), ColorReset,
		ColorYellow, FormatNumber(stats.Attempts), ColorReset,
		found, target,
		etaStr)
}

// PrintMatch writes the per-match report to stdout.
func PrintMatch(k, n int, res generator.Result, savedPath string) {
	fmt.Printf("*** FOUND MATCH %d/%d! ***\n", k, n)
	fmt.Printf("Address: %s\n", res.Address)
	fmt.Printf("Public Key (Base58): %s\n", res.Address)
	fmt.Println("VERIFIED: Address matches Base58(PublicKey)")
	if savedPath != "" {
		fmt.Printf("Saved: %s\n", savedPath)
	}
}

// PrintSummary writes the cancellation/completion summary line.
func PrintSummary(stats generator.Stats, elapsed time.Duration) {
	fmt.Fprintf(os.Stderr, "\n%s attempts │ %s │ %s\n",
		FormatNumber(stats.Attempts),
		FormatHashRate(stats.HashRate),
		FormatDuration(elapsed))
}

// ClearLine clears the current progress line.
func ClearLine() {
	fmt.Fprint(os.Stderr, "\r\033[K")
}

// FormatHashRate formats a rate nicely.
func FormatHashRate(rate float64) string {
	if rate >= 1000000 {
		return fmt.Sprintf("%.1fM/s", rate/1000000)
	}
	if rate >= 1000 {
		return fmt.Sprintf("%.1fK/s", rate/1000)
	}
	return fmt.Sprintf("%.0f/s", rate)
}

// FormatNumber adds commas to large numbers.
func FormatNumber(n uint64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	s := fmt.Sprintf("%d", n)
	result := make([]byte, 0, len(s)+(len(s)-1)/3)
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}

// FormatDuration formats a duration in a human-readable way.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	if d < 24*time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%.1fd", d.Hours()/24)
}
