// Package format holds the display helpers shared by the TUI and the one-shot
// CLI output: money and relative-time formatting, rune-safe truncation, and
// sanitizing of backend-supplied text before it reaches the terminal.
package format

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Money formats a ruble amount for stat tiles and price badges.
// Thousands collapse to a rounded "K" figure, millions to one decimal.
func Money(amount float64) string {
	if amount == 0 {
		return "0 ₽"
	}
	if amount >= 1000000 {
		return fmt.Sprintf("%.1fM ₽", amount/1000000)
	}
	if amount >= 1000 {
		return fmt.Sprintf("%.0fK ₽", math.Round(amount/1000))
	}
	return strconv.FormatFloat(amount, 'f', -1, 64) + " ₽"
}

// Budget returns the budget string or the negotiable placeholder when the
// posting carries none.
func Budget(budget string) string {
	if budget == "" {
		return "Договорная"
	}
	return budget
}

// timeLayouts covers the timestamp shapes the backend emits: full RFC3339 and
// a bare isoformat without zone.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// RelativeTime renders a timestamp as a coarse "N ago" bucket relative to now.
// Empty or unparseable input renders as an empty string.
func RelativeTime(timestamp string, now time.Time) string {
	if timestamp == "" {
		return ""
	}

	var parsed time.Time
	var err error
	for _, layout := range timeLayouts {
		parsed, err = time.Parse(layout, timestamp)
		if err == nil {
			break
		}
	}
	if err != nil {
		return ""
	}

	diff := now.Sub(parsed)
	switch {
	case diff < time.Minute:
		return "только что"
	case diff < time.Hour:
		return fmt.Sprintf("%dм назад", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dч назад", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dд назад", int(diff.Hours()/24))
	}
}

// Truncate caps s at max runes. No ellipsis is added; CRM note previews cut
// hard at the cap.
func Truncate(s string, max int) string {
	if max < 0 {
		max = 0
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// TruncateEllipsis caps s at max runes, replacing the tail with "..." when cut.
func TruncateEllipsis(s string, max int) string {
	if max < 0 {
		max = 0
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// ansiPattern matches CSI sequences and lone escapes.
var ansiPattern = regexp.MustCompile(`\x1b(\[[0-9;?]*[a-zA-Z]|\][^\x07]*\x07|.)`)

// Sanitize strips ANSI escape sequences and control characters from
// backend-supplied text. Newlines and tabs survive; everything else below
// 0x20 is dropped. Every string that came over the wire passes through here
// before rendering.
func Sanitize(s string) string {
	s = ansiPattern.ReplaceAllString(s, "")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// SanitizeLine is Sanitize with newlines collapsed to spaces, for one-line
// card fields.
func SanitizeLine(s string) string {
	s = Sanitize(s)
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\t", " ")
}
