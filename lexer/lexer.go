// Package lexer converts a character stream into a token stream for the
// double-compiler front-end.
package lexer

import (
	"fmt"
	"strings"

	"github.com/skx/double-compiler/token"
)

// Lexer holds our object-state.
type Lexer struct {
	position     int    // current character position
	readPosition int    // next character position
	ch           rune   // current character
	characters   []rune // rune slice of input string

	// err holds the first lexical failure encountered, if any. Once set
	// the lexer has already appended a matching Error token and will not
	// produce anything further of interest.
	err error
}

// New creates a Lexer instance from string input.
func New(input string) *Lexer {
	l := &Lexer{characters: []rune(input)}
	l.readChar()
	return l
}

// Err returns the first lexical failure encountered, or nil.
func (l *Lexer) Err() error {
	return l.err
}

// read one character forward.
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.characters) {
		l.ch = rune(0)
	} else {
		l.ch = l.characters[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

// peekChar returns the next character without consuming it.
func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.characters) {
		return rune(0)
	}
	return l.characters[l.readPosition]
}

// NextToken returns the next token, skipping whitespace. Once an Error or
// End token has been returned every subsequent call returns the same
// token again.
func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	if l.err != nil {
		return token.Token{Type: token.Error, Literal: l.err.Error()}
	}

	l.skipWhitespace()

	switch l.ch {
	case rune(0):
		tok = token.Token{Type: token.End}
	case rune('('):
		tok = newToken(token.LParen)
	case rune(')'):
		tok = newToken(token.RParen)
	case rune('{'):
		tok = newToken(token.LBrace)
	case rune('}'):
		tok = newToken(token.RBrace)
	case rune(','):
		tok = newToken(token.Comma)
	case rune(';'):
		tok = newToken(token.Semicolon)
	case rune('='):
		tok = newToken(token.Assign)
	case rune('+'):
		tok = newToken(token.Plus)
	case rune('-'):
		tok = newToken(token.Minus)
	case rune('*'):
		tok = newToken(token.Star)
	case rune('/'):
		tok = newToken(token.Slash)
	case rune('%'):
		tok = newToken(token.Percent)
	default:
		if isAlpha(l.ch) {
			lit := l.readIdentifier()
			typ := token.LookupIdentifier(lit)
			if typ == token.Return {
				return token.Token{Type: token.Return}
			}
			return token.Token{Type: token.Identifier, Literal: lit}
		}
		if isDigit(l.ch) {
			return l.readDecimal()
		}

		tok = l.fail(fmt.Sprintf("unexpected character %q", l.ch))
		return tok
	}

	l.readChar()
	return tok
}

// fail records a lexical failure and returns the Error token that the
// lexer appends to the token sink so downstream tooling observing only
// the token stream also sees the failure.
func (l *Lexer) fail(msg string) token.Token {
	if l.err == nil {
		l.err = fmt.Errorf("%s", msg)
	}
	return token.Token{Type: token.Error, Literal: msg}
}

// newToken builds a fixed-tag token carrying no payload.
func newToken(tokenType token.Type) token.Token {
	return token.Token{Type: tokenType}
}

// skipWhitespace consumes a maximal run of whitespace.
func (l *Lexer) skipWhitespace() {
	for isWhitespace(l.ch) {
		l.readChar()
	}
}

// readDigits consumes a maximal run of digits 0-9.
func (l *Lexer) readDigits() string {
	var b strings.Builder
	for isDigit(l.ch) {
		b.WriteRune(l.ch)
		l.readChar()
	}
	return b.String()
}

// readDecimal reads a double literal of the form digits '.' digits. Both
// sides of the '.' must be non-empty digit runs: "123", "1.", and ".5"
// are all lexical failures.
func (l *Lexer) readDecimal() token.Token {
	integer := l.readDigits()

	if l.ch != '.' {
		return l.fail(fmt.Sprintf("malformed number %q: expected '.'", integer))
	}
	l.readChar()

	fraction := l.readDigits()
	if fraction == "" {
		return l.fail(fmt.Sprintf("malformed number %q.: expected digits after '.'", integer))
	}

	return token.Token{Type: token.DoubleLiteral, Literal: integer + "." + fraction}
}

// readIdentifier reads a maximal run of [alphanumeric|underscore]; the
// lexeme must start with a letter (enforced by the caller).
func (l *Lexer) readIdentifier() string {
	var b strings.Builder
	for isAlphaNumeric(l.ch) {
		b.WriteRune(l.ch)
		l.readChar()
	}
	return b.String()
}

func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isAlpha(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isAlphaNumeric(ch rune) bool {
	return isAlpha(ch) || isDigit(ch) || ch == '_'
}
