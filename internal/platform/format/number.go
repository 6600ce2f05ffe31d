// Package format holds the pure display helpers shared by the CLI and the
// gateway views: number formatting, text shaping and countdowns.
package format

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Number renders n with thousands separators, e.g. 1234567 -> "1,234,567".
func Number(n int64) string {
	return printer.Sprintf("%d", n)
}

// CompactNumber abbreviates large counts: 999 -> "999", 1000 -> "1.0K",
// 1500000 -> "1.5M", 2000000000 -> "2.0B".
func CompactNumber(n int64) string {
	switch v := float64(n); {
	case n < 1_000:
		return strconv.FormatInt(n, 10)
	case n < 1_000_000:
		return oneDecimal(v/1_000) + "K"
	case n < 1_000_000_000:
		return oneDecimal(v/1_000_000) + "M"
	default:
		return oneDecimal(v/1_000_000_000) + "B"
	}
}

// oneDecimal rounds halves up (1.25 -> "1.3"); %.1f alone rounds them to even.
func oneDecimal(v float64) string {
	return strconv.FormatFloat(math.Floor(v*10+0.5)/10, 'f', 1, 64)
}

// Percentage renders value with the given number of decimals and a % sign.
func Percentage(value float64, decimals int) string {
	return fmt.Sprintf("%.*f%%", max(decimals, 0), value)
}

// Glory renders a glory balance.
func Glory(amount int64) string {
	return Number(amount)
}

// XP renders an experience total.
func XP(amount int64) string {
	return Number(amount)
}

// ParseFormattedNumber reverses Number. Commas are dropped and the leading
// integer is parsed; anything unparsable yields 0.
func ParseFormattedNumber(s string) int64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))

	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}

	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	if end == digits {
		return 0
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}

	return n
}

// Clamp bounds v to [lo, hi].
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	return min(max(v, lo), hi)
}

// CalculatePercentage returns value as a percentage of total, or 0 when
// total is 0.
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}

	return value / total * 100
}
