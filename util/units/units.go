package units

import (
	"math"
	"strings"
)

// Unit coercion for human-authored magnitudes. Filter values like "1.5GiB"
// or "02:30" are converted to canonical scalars (bytes, seconds) so the
// evaluator compares numbers regardless of how the user spelled them.

// sizeMultipliers maps a lowercased unit token to its byte multiplier.
// The "i" infix selects the binary (power-of-2) column; bare prefixes are
// decimal (power-of-10).
var sizeMultipliers = map[string]float64{
	"b":     1,
	"bytes": 1,
	"kb":    1e3,
	"kib":   1 << 10,
	"mb":    1e6,
	"mib":   1 << 20,
	"gb":    1e9,
	"gib":   1 << 30,
	"tb":    1e12,
	"tib":   1 << 40,
	"pb":    1e15,
	"pib":   1 << 50,
}

// ParseFileSize converts a size string like "1GiB", "500 kb" or "1,5MB"
// into bytes, rounded to the nearest integer. The number may use a comma
// or a dot as the fractional separator and must be immediately followed
// (modulo whitespace) by a unit token, matched case-insensitively.
// Anything after the unit token is ignored. Returns false for empty or
// unparseable input.
func ParseFileSize(s string) (int64, bool) {
	num, rest, ok := scanNumber(strings.TrimSpace(s))
	if !ok {
		return 0, false
	}

	rest = strings.TrimLeft(rest, " \t")
	unit := leadingLetters(rest)
	mult, ok := sizeMultipliers[strings.ToLower(unit)]
	if !ok {
		return 0, false
	}

	return int64(math.Round(num * mult)), true
}

// ParseDuration converts a duration string into seconds. Two forms are
// accepted: a short suffix form "<number>[smhd]" (e.g. "90s", "2h") and a
// colon-separated "[[days:]hours:]minutes:seconds[.fraction]" optionally
// ending in "Z". Returns false for blank input or anything else.
func ParseDuration(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if secs, ok := parseSuffixDuration(s); ok {
		return secs, true
	}
	return parseClockDuration(s)
}

// parseSuffixDuration handles the short form: a number followed by a
// single unit letter.
func parseSuffixDuration(s string) (float64, bool) {
	num, rest, ok := scanNumber(s)
	if !ok || len(rest) != 1 {
		return 0, false
	}

	switch rest[0] {
	case 's':
		return num, true
	case 'm':
		return num * 60, true
	case 'h':
		return num * 3600, true
	case 'd':
		return num * 86400, true
	}
	return 0, false
}

// parseClockDuration handles "[[days:]hours:]minutes:seconds[.fraction]"
// with an optional trailing "Z".
func parseClockDuration(s string) (float64, bool) {
	s = strings.TrimSuffix(strings.TrimSuffix(s, "z"), "Z")

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 4 {
		return 0, false
	}

	// Only the seconds part may carry a fraction.
	multipliers := [4]float64{1, 60, 3600, 86400}
	total := 0.0
	for i := range parts {
		part := parts[len(parts)-1-i]
		num, rest, ok := scanNumber(part)
		if !ok || rest != "" {
			return 0, false
		}
		if i > 0 && num != math.Trunc(num) {
			return 0, false
		}
		total += num * multipliers[i]
	}
	return total, true
}

// scanNumber reads a decimal number (comma or dot fraction) anchored at
// the start of s, returning the value and the unconsumed remainder.
func scanNumber(s string) (float64, string, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, "", false
	}

	whole := float64(0)
	for _, c := range s[:i] {
		whole = whole*10 + float64(c-'0')
	}

	rest := s[i:]
	if len(rest) > 0 && (rest[0] == '.' || rest[0] == ',') {
		j := 1
		frac, scale := 0.0, 1.0
		for j < len(rest) && rest[j] >= '0' && rest[j] <= '9' {
			frac = frac*10 + float64(rest[j]-'0')
			scale *= 10
			j++
		}
		if j > 1 {
			whole += frac / scale
			rest = rest[j:]
		}
	}
	return whole, rest, true
}

// leadingLetters returns the maximal run of ASCII letters at the start of s.
func leadingLetters(s string) string {
	i := 0
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	return s[:i]
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
