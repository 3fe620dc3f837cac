package matchfilter

import "fmt"

// Recursive-descent parser over the token stream:
//
//	Or   := And ('||' And)*
//	And  := Atom ('&' Atom)*
//	Atom := '(' Or ')' | CLAUSE
//
// Both connectives are left-associative; AND binds tighter than OR.

// New tokenizes and parses expression eagerly. A structurally invalid
// expression fails here with a *SyntaxError, not at first evaluation.
// Clause contents are validated lazily by Evaluate.
func New(expression string) (*Filter, error) {
	tokens, err := tokenize(expression)
	if err != nil {
		return nil, err
	}

	p := &filterParser{tokens: tokens}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.typ != tokenEOF {
		return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %q", tok.text)}
	}

	return &Filter{source: expression, root: root}, nil
}

type filterParser struct {
	tokens []token
	pos    int
}

func (p *filterParser) peek() token {
	return p.tokens[p.pos]
}

func (p *filterParser) next() token {
	tok := p.tokens[p.pos]
	if tok.typ != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *filterParser) parseOr() (expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == tokenOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &orExpr{left: left, right: right}
	}
	return left, nil
}

func (p *filterParser) parseAnd() (expr, error) {
	left, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == tokenAnd {
		p.next()
		right, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		left = &andExpr{left: left, right: right}
	}
	return left, nil
}

func (p *filterParser) parseAtom() (expr, error) {
	tok := p.next()
	switch tok.typ {
	case tokenLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.typ != tokenRParen {
			return nil, &SyntaxError{Pos: closing.pos, Msg: "missing closing parenthesis"}
		}
		return inner, nil
	case tokenAtom:
		return &atomExpr{text: tok.text}, nil
	case tokenEOF:
		return nil, &SyntaxError{Pos: tok.pos, Msg: "expected clause, found end of expression"}
	default:
		return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("expected clause, found %q", tok.text)}
	}
}
