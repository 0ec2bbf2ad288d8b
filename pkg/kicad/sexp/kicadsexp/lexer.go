package kicadsexp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenLeftParen
	TokenRightParen
	TokenSymbol
	TokenString
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenLeftParen:
		return "'('"
	case TokenRightParen:
		return "')'"
	case TokenSymbol:
		return "symbol"
	case TokenString:
		return "string"
	}
	return "unknown"
}

// Pos is a 1-based line and column in the input
type Pos struct {
	Line int
	Col  int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
	Pos   Pos
}

// SyntaxError is a lexing or parsing failure at a position
type SyntaxError struct {
	Pos Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Lexer tokenizes S-expressions from an io.Reader
type Lexer struct {
	reader  *bufio.Reader
	pos     Pos // position of the next rune
	lastCol int // column before the last newline, for unread
}

// NewLexer creates a new lexer
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(r),
		pos:    Pos{Line: 1, Col: 1},
	}
}

func (l *Lexer) read() (rune, error) {
	ch, _, err := l.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	if ch == '\n' {
		l.lastCol = l.pos.Col
		l.pos.Line++
		l.pos.Col = 1
	} else {
		l.pos.Col++
	}
	return ch, nil
}

func (l *Lexer) unread(ch rune) {
	if err := l.reader.UnreadRune(); err != nil {
		return
	}
	if ch == '\n' {
		l.pos.Line--
		l.pos.Col = l.lastCol
	} else {
		l.pos.Col--
	}
}

func (l *Lexer) errorf(pos Pos, format string, args ...any) error {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// NextToken reads the next token. Whitespace is skipped, as are comments
// running from '#' to the end of the line outside quoted strings.
func (l *Lexer) NextToken() (Token, error) {
	for {
		start := l.pos
		ch, err := l.read()
		if errors.Is(err, io.EOF) {
			return Token{Type: TokenEOF, Pos: start}, nil
		}
		if err != nil {
			return Token{}, err
		}

		switch {
		case unicode.IsSpace(ch):
			continue
		case ch == '#':
			if err := l.skipLine(); err != nil {
				return Token{}, err
			}
			continue
		case ch == '(':
			return Token{Type: TokenLeftParen, Value: "(", Pos: start}, nil
		case ch == ')':
			return Token{Type: TokenRightParen, Value: ")", Pos: start}, nil
		case ch == '"':
			return l.readString(start)
		default:
			l.unread(ch)
			return l.readSymbol(start)
		}
	}
}

func (l *Lexer) skipLine() error {
	for {
		ch, err := l.read()
		if errors.Is(err, io.EOF) || ch == '\n' {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// readString reads the rest of a quoted string; backslash escapes \n \t
// \r \\ and \" are decoded, any other escaped rune is kept as is
func (l *Lexer) readString(start Pos) (Token, error) {
	var b strings.Builder
	for {
		ch, err := l.read()
		if errors.Is(err, io.EOF) {
			return Token{}, l.errorf(start, "unterminated string")
		}
		if err != nil {
			return Token{}, err
		}

		switch ch {
		case '"':
			return Token{Type: TokenString, Value: b.String(), Pos: start}, nil
		case '\\':
			next, err := l.read()
			if err != nil {
				return Token{}, l.errorf(start, "unterminated string")
			}
			switch next {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case 'r':
				b.WriteRune('\r')
			default:
				b.WriteRune(next)
			}
		default:
			b.WriteRune(ch)
		}
	}
}

// readSymbol reads an unquoted atom up to whitespace, a paren or a quote
func (l *Lexer) readSymbol(start Pos) (Token, error) {
	var b strings.Builder
	for {
		ch, err := l.read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Token{}, err
		}
		if unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' {
			l.unread(ch)
			break
		}
		b.WriteRune(ch)
	}

	return Token{Type: TokenSymbol, Value: b.String(), Pos: start}, nil
}
