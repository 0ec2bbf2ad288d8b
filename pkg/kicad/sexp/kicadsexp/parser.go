package kicadsexp

import (
	"io"
)

// maxDepth bounds list nesting; KiCad files stay far below it
const maxDepth = 512

// Parser builds S-expressions from the tokens of a Lexer
type Parser struct {
	lexer *Lexer
}

// NewParser creates a new parser from an io.Reader
func NewParser(r io.Reader) *Parser {
	return &Parser{
		lexer: NewLexer(r),
	}
}

// ParseAll parses every top-level S-expression in the input
func (p *Parser) ParseAll() ([]Sexp, error) {
	var result []Sexp
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenEOF {
			return result, nil
		}

		expr, err := p.parseExpr(tok, 0)
		if err != nil {
			return nil, err
		}
		result = append(result, expr)
	}
}

func (p *Parser) parseExpr(tok Token, depth int) (Sexp, error) {
	switch tok.Type {
	case TokenLeftParen:
		if depth >= maxDepth {
			return nil, p.lexer.errorf(tok.Pos, "lists nested deeper than %d", maxDepth)
		}
		return p.parseList(tok, depth+1)
	case TokenSymbol, TokenString:
		return Symbol(tok.Value), nil
	}
	return nil, p.lexer.errorf(tok.Pos, "unexpected %s", tok.Type)
}

// parseList reads elements after an opening paren up to its match
func (p *Parser) parseList(open Token, depth int) (Sexp, error) {
	var elements []Sexp
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			return nil, err
		}

		switch tok.Type {
		case TokenRightParen:
			return &List{elements: elements}, nil
		case TokenEOF:
			return nil, p.lexer.errorf(open.Pos, "unclosed '('")
		}

		elem, err := p.parseExpr(tok, depth)
		if err != nil {
			return nil, err
		}
		elements = append(elements, elem)
	}
}
