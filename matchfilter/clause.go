package matchfilter

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vidsift/vidsift/util/units"
)

// Single-clause truth. A clause is either a binary comparison
//
//	key [!] op [?] value
//
// with the value quoted (single or double, backslash escapes) or bare,
// or a unary presence test "key" / "!key". The '?' marker makes a
// missing field satisfy this clause only.

// comparisonOps is matched longest-first so "<=" wins over "<".
var comparisonOps = []string{"*=", "^=", "$=", "~=", "<=", ">=", "<", ">", "="}

type parsedClause struct {
	field   string
	negated bool
	op      string // empty for a presence clause
	noneOK  bool
	value   string
	quoted  bool
}

func matchClause(text string, rec Record, opts Options) (bool, error) {
	c, err := parseClause(strings.TrimSpace(text))
	if err != nil {
		return false, err
	}
	if c.op == "" {
		return evalPresence(c, rec), nil
	}
	return evalComparison(c, text, rec, opts)
}

func parseClause(text string) (*parsedClause, error) {
	if c, ok := parseComparison(text); ok {
		return c, nil
	}
	if c, ok := parsePresence(text); ok {
		return c, nil
	}
	return nil, &ClauseFormatError{Clause: text}
}

func parseComparison(text string) (*parsedClause, bool) {
	key := scanKey(text)
	if key == "" {
		return nil, false
	}
	i := skipSpace(text, len(key))

	negated := false
	if i < len(text) && text[i] == '!' {
		negated = true
		i = skipSpace(text, i+1)
	}

	op := matchOperator(text[i:])
	if op == "" {
		return nil, false
	}
	i = skipSpace(text, i+len(op))

	noneOK := false
	if i < len(text) && text[i] == '?' {
		noneOK = true
		i = skipSpace(text, i+1)
	}

	if i >= len(text) {
		return nil, false
	}

	c := &parsedClause{field: key, negated: negated, op: op, noneOK: noneOK}
	if text[i] == '\'' || text[i] == '"' {
		value, end, ok := unquote(text, i)
		if !ok || end != len(text) {
			return nil, false
		}
		c.value = value
		c.quoted = true
	} else {
		c.value = text[i:]
	}
	return c, true
}

func parsePresence(text string) (*parsedClause, bool) {
	negated := false
	if strings.HasPrefix(text, "!") {
		negated = true
		text = strings.TrimSpace(text[1:])
	}
	if text == "" || scanKey(text) != text {
		return nil, false
	}
	return &parsedClause{field: text, negated: negated}, true
}

// evalPresence: a bare name is true iff the field holds true (booleans)
// or any non-nil value; '!' inverts.
func evalPresence(c *parsedClause, rec Record) bool {
	val, ok := rec[c.field]
	present := ok && val != nil
	if b, isBool := val.(bool); present && isBool {
		present = b
	}
	return present != c.negated
}

func evalComparison(c *parsedClause, clauseText string, rec Record, opts Options) (bool, error) {
	val, ok := rec[c.field]
	if !ok || val == nil {
		return c.noneOK || opts.MatchIncomplete, nil
	}

	target, numeric := coerceTarget(c)

	if isStringOp(c.op) {
		// String operators reject implicitly-numeric comparisons:
		// quote the value to force a string match.
		if numeric {
			return false, &OperatorTypeError{Clause: clauseText, Op: c.op}
		}
		s, isStr := val.(string)
		if !isStr {
			return false, &OperatorTypeError{Clause: clauseText, Op: c.op}
		}
		result, err := evalStringOp(c.op, s, c.value, clauseText)
		if err != nil {
			return false, err
		}
		return result != c.negated, nil
	}

	var result bool
	if numeric {
		actual, ok := numericValue(val)
		result = ok && compareNumbers(actual, c.op, target)
	} else {
		result = compareLoose(val, c.op, c.value)
	}
	return result != c.negated, nil
}

// coerceTarget derives a numeric comparison target from an unquoted
// value: plain number, then file size ("1.5GiB"), then file size with an
// implied byte unit, then duration ("1:30:00"). Quoted values always
// compare as strings.
func coerceTarget(c *parsedClause) (float64, bool) {
	if c.quoted {
		return 0, false
	}
	if f, err := strconv.ParseFloat(c.value, 64); err == nil {
		return f, true
	}
	if n, ok := units.ParseFileSize(c.value); ok {
		return float64(n), true
	}
	if n, ok := units.ParseFileSize(c.value + "B"); ok {
		return float64(n), true
	}
	if n, ok := units.ParseDuration(c.value); ok {
		return n, true
	}
	return 0, false
}

// numericValue converts a record value to float64 for an ordered
// comparison. String values run through the same coercion pipeline as
// filter targets, so a "2h" field compares correctly against 7200.
func numericValue(val any) (float64, bool) {
	switch v := val.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		return coerceTarget(&parsedClause{value: v})
	}
	return 0, false
}

func evalStringOp(op, actual, target, clauseText string) (bool, error) {
	switch op {
	case "*=":
		return strings.Contains(actual, target), nil
	case "^=":
		return strings.HasPrefix(actual, target), nil
	case "$=":
		return strings.HasSuffix(actual, target), nil
	case "~=":
		re, err := regexp.Compile(target)
		if err != nil {
			return false, &ClauseFormatError{Clause: clauseText}
		}
		return re.MatchString(actual), nil
	}
	return false, &ClauseFormatError{Clause: clauseText}
}

func compareNumbers(actual float64, op string, target float64) bool {
	switch op {
	case "=":
		return actual == target
	case "<":
		return actual < target
	case "<=":
		return actual <= target
	case ">":
		return actual > target
	case ">=":
		return actual >= target
	}
	return false
}

// compareLoose handles ordered operators with a non-numeric target.
// String fields compare lexicographically; any other type pairing is
// simply false (a data mismatch, not a filter error).
func compareLoose(val any, op string, target string) bool {
	s, ok := val.(string)
	if !ok {
		return false
	}
	switch op {
	case "=":
		return s == target
	case "<":
		return s < target
	case "<=":
		return s <= target
	case ">":
		return s > target
	case ">=":
		return s >= target
	}
	return false
}

func isStringOp(op string) bool {
	switch op {
	case "*=", "^=", "$=", "~=":
		return true
	}
	return false
}

func matchOperator(s string) string {
	for _, op := range comparisonOps {
		if strings.HasPrefix(s, op) {
			return op
		}
	}
	return ""
}

// scanKey returns the leading [a-z_]+ run.
func scanKey(s string) string {
	i := 0
	for i < len(s) && (s[i] == '_' || (s[i] >= 'a' && s[i] <= 'z')) {
		i++
	}
	return s[:i]
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

// unquote returns the unescaped quoted value starting at i and the index
// one past the closing quote.
func unquote(s string, i int) (string, int, bool) {
	quote := s[i]
	var b strings.Builder
	i++
	for i < len(s) {
		switch s[i] {
		case '\\':
			if i+1 >= len(s) {
				return "", 0, false
			}
			b.WriteByte(s[i+1])
			i += 2
		case quote:
			return b.String(), i + 1, true
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return "", 0, false
}
