// Package token contains the tokens that the lexer produces when scanning
// a double-compiler source program.
package token

import "fmt"

// Type identifies the kind of a token.
type Type int

// The closed set of token types the lexer can produce.
const (
	// Identifier is a name: a function, a parameter, a variable.
	Identifier Type = iota

	// LParen is '('.
	LParen
	// RParen is ')'.
	RParen
	// LBrace is '{'.
	LBrace
	// RBrace is '}'.
	RBrace
	// Comma is ','.
	Comma
	// Semicolon is ';'.
	Semicolon
	// Assign is '='.
	Assign
	// Return is the 'return' keyword.
	Return

	// DoubleLiteral is a floating-point literal such as "3.14".
	DoubleLiteral

	// Plus is '+'.
	Plus
	// Minus is '-'.
	Minus
	// Star is '*'.
	Star
	// Slash is '/'.
	Slash
	// Percent is '%'.
	Percent

	// Error marks a lexical failure; Literal carries the diagnostic.
	Error
	// End marks the end of input. Exactly one is ever appended.
	End
)

// names gives the uppercase textual rendering for each token type, per the
// token stream contract: the tag's uppercase name, e.g. "LPAR", "RETURN".
var names = map[Type]string{
	Identifier:    "IDENTIFIER",
	LParen:        "LPAR",
	RParen:        "RPAR",
	LBrace:        "LBRACE",
	RBrace:        "RBRACE",
	Comma:         "COMMA",
	Semicolon:     "SEMICOLON",
	Assign:        "ASSIGN",
	Return:        "RETURN",
	DoubleLiteral: "DOUBLE_LITERAL",
	Plus:          "PLUS",
	Minus:         "MINUS",
	Star:          "STAR",
	Slash:         "SLASH",
	Percent:       "PERCENT",
	Error:         "ERROR",
	End:           "END",
}

// String renders the tag's uppercase name only; Token.String adds the
// "{content}" payload suffix.
func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(t))
}

// Token is a single lexical atom: a tag plus an optional text payload. The
// payload is only ever non-empty for Identifier, DoubleLiteral, and Error.
type Token struct {
	Type    Type
	Literal string
}

// String renders the token using the token stream contract of §6: the
// tag's uppercase name, optionally followed by "{content}" when the
// payload is non-empty.
func (t Token) String() string {
	if t.Literal == "" {
		return t.Type.String()
	}
	return fmt.Sprintf("%s{%s}", t.Type, t.Literal)
}

// keywords holds the reserved words of the language: just "return".
var keywords = map[string]Type{
	"return": Return,
}

// LookupIdentifier classifies an identifier-shaped lexeme: it returns the
// keyword token type if the lexeme is reserved, and Identifier otherwise.
func LookupIdentifier(lexeme string) Type {
	if tok, ok := keywords[lexeme]; ok {
		return tok
	}
	return Identifier
}
