package matchfilter

import "strings"

// Hand-rolled scanner for filter expressions. Tokens are '(' ')' '&' '||'
// and ATOM, where an atom is one comparison or presence clause. Scanning
// by hand (instead of building regexes out of operator lists) keeps error
// positions exact and quoted values robust.

type tokenType int

const (
	tokenAtom tokenType = iota
	tokenAnd
	tokenOr
	tokenLParen
	tokenRParen
	tokenEOF
)

type token struct {
	typ  tokenType
	text string
	pos  int
}

// tokenize splits a filter expression into tokens. A single '|' is a
// syntax error; OR is spelled '||'.
func tokenize(expr string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case isSpace(c):
			i++
		case c == '(':
			tokens = append(tokens, token{tokenLParen, "(", i})
			i++
		case c == ')':
			tokens = append(tokens, token{tokenRParen, ")", i})
			i++
		case c == '&':
			tokens = append(tokens, token{tokenAnd, "&", i})
			i++
		case c == '|':
			if i+1 >= len(expr) || expr[i+1] != '|' {
				return nil, &SyntaxError{Pos: i, Msg: "single '|' (OR is spelled '||')"}
			}
			tokens = append(tokens, token{tokenOr, "||", i})
			i += 2
		default:
			text, next, err := scanAtom(expr, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{tokenAtom, text, i})
			i = next
		}
	}
	tokens = append(tokens, token{tokenEOF, "", len(expr)})
	return tokens, nil
}

// scanAtom reads one clause starting at position start. Quoted regions
// are consumed whole, so values may contain spaces, '&', '|' and
// parentheses. Whitespace around a comparison operator is dropped, so
// "key  op  value" lexes as the single atom "keyopvalue" instead of
// being split into three.
func scanAtom(expr string, start int) (string, int, error) {
	var b strings.Builder
	hasCmp := false // atom already contains <, > or = outside quotes
	i := start
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == '\'' || c == '"':
			end, err := scanQuoted(expr, i)
			if err != nil {
				return "", 0, err
			}
			b.WriteString(expr[i:end])
			i = end
		case c == '&' || c == '|' || c == '(' || c == ')':
			return b.String(), i, nil
		case isSpace(c):
			j := i
			for j < len(expr) && isSpace(expr[j]) {
				j++
			}
			if j >= len(expr) {
				return b.String(), j, nil
			}
			next := expr[j]
			if next == '&' || next == '|' || next == '(' || next == ')' {
				return b.String(), j, nil
			}
			// Bridge the gap only when the whitespace sits around a
			// comparison operator; anything else ends the atom.
			if endsWithOperatorChar(b.String()) || (!hasCmp && isOperatorStart(next)) {
				i = j
				continue
			}
			return b.String(), i, nil
		default:
			if c == '<' || c == '>' || c == '=' {
				hasCmp = true
			}
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), i, nil
}

// scanQuoted returns the index one past the closing quote. Backslash
// escapes the next character.
func scanQuoted(expr string, start int) (int, error) {
	quote := expr[start]
	i := start + 1
	for i < len(expr) {
		switch expr[i] {
		case '\\':
			i += 2
		case quote:
			return i + 1, nil
		default:
			i++
		}
	}
	return 0, &SyntaxError{Pos: start, Msg: "unterminated quoted value"}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func endsWithOperatorChar(s string) bool {
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case '=', '<', '>', '!':
		return true
	}
	return false
}

func isOperatorStart(c byte) bool {
	switch c {
	case '<', '>', '=', '!', '*', '^', '$', '~':
		return true
	}
	return false
}
