// Package parser implements the recursive-descent, precedence-climbing
// parser that turns a double-compiler token stream into an AST.
package parser

import (
	"fmt"
	"math"
	"strconv"

	"github.com/skx/double-compiler/ast"
	"github.com/skx/double-compiler/lexer"
	"github.com/skx/double-compiler/token"
)

// Parser consumes tokens from a scanner and produces a Program.
type Parser struct {
	s *scanner
}

// New creates a Parser reading from the given token source.
func New(source tokenSource) *Parser {
	return &Parser{s: newScanner(source)}
}

// Parse lexes and parses a complete source string into a Program.
func Parse(input string) (ast.Program, error) {
	l := lexer.New(input)
	p := New(l)
	return p.ParseProgram()
}

// ParseProgram parses `program := definition+`. A program with no
// definitions before End is a parse failure (§4.2).
func (p *Parser) ParseProgram() (ast.Program, error) {
	var prog ast.Program

	for p.s.peek(0).Type != token.End {
		def, err := p.parseDefinition()
		if err != nil {
			return ast.Program{}, err
		}
		prog.Definitions = append(prog.Definitions, def)
	}

	if len(prog.Definitions) == 0 {
		return ast.Program{}, fmt.Errorf("parse error: empty program")
	}
	return prog, nil
}

// parseDefinition parses one `definition`, disambiguated by peek(1) after
// the leading identifier: '(' means a function, '=' means a variable.
func (p *Parser) parseDefinition() (ast.Definition, error) {
	nameTok := p.s.peek(0)
	if nameTok.Type == token.Error {
		return nil, lexErr(nameTok)
	}
	if nameTok.Type != token.Identifier {
		return nil, unexpected("identifier", nameTok)
	}

	switch p.s.peek(1).Type {
	case token.LParen:
		return p.parseFunction()
	case token.Assign:
		assign, err := p.parseAssignRHS()
		if err != nil {
			return nil, err
		}
		return &ast.Variable{Assign: *assign}, nil
	default:
		return nil, unexpected("'(' or '='", p.s.peek(1))
	}
}

// parseFunction parses `identifier '(' params? ')' '{' statement* '}'`.
func (p *Parser) parseFunction() (*ast.Function, error) {
	name := p.s.get().Literal

	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}

	var params []string
	if p.s.peek(0).Type != token.RParen {
		for {
			ident, err := p.expect(token.Identifier)
			if err != nil {
				return nil, err
			}
			params = append(params, ident.Literal)

			if p.s.peek(0).Type != token.Comma {
				break
			}
			p.s.get()
		}
	}

	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}

	var body []ast.Statement
	for p.s.peek(0).Type != token.RBrace {
		if p.s.peek(0).Type == token.End {
			return nil, fmt.Errorf("parse error: unterminated function body for %q", name)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	p.s.get() // consume '}'

	return &ast.Function{Name: name, Params: params, Body: body}, nil
}

// parseAssignRHS parses the common tail of both a top-level variable
// definition and a local assignment statement: `identifier '=' expression ';'`.
func (p *Parser) parseAssignRHS() (*ast.Assign, error) {
	name := p.s.get().Literal // identifier
	p.s.get()                 // '='

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.Assign{Name: name, Value: value}, nil
}

// parseStatement parses one `statement`, disambiguated by peek(0): 'return'
// means Return, an identifier followed by '=' means Assign, else Discard.
func (p *Parser) parseStatement() (ast.Statement, error) {
	tok := p.s.peek(0)

	switch {
	case tok.Type == token.Error:
		return nil, lexErr(tok)

	case tok.Type == token.Return:
		p.s.get()
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		return &ast.Return{Value: value}, nil

	case tok.Type == token.Identifier && p.s.peek(1).Type == token.Assign:
		assign, err := p.parseAssignRHS()
		if err != nil {
			return nil, err
		}
		return assign, nil

	default:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Semicolon); err != nil {
			return nil, err
		}
		return &ast.Discard{Expr: expr}, nil
	}
}

// parseExpression parses `expression := expression1 ('%' expression)?`,
// the lowest-precedence, right-associative modulo class.
func (p *Parser) parseExpression() (ast.Expression, error) {
	lhs, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if p.s.peek(0).Type == token.Percent {
		p.s.get()
		rhs, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Op: ast.Mod, LHS: lhs, RHS: rhs}, nil
	}
	return lhs, nil
}

// parseAdditive parses `expression1 := expression2 (('+'|'-') expression1)?`.
func (p *Parser) parseAdditive() (ast.Expression, error) {
	lhs, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	switch p.s.peek(0).Type {
	case token.Plus:
		p.s.get()
		rhs, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Op: ast.Add, LHS: lhs, RHS: rhs}, nil
	case token.Minus:
		p.s.get()
		rhs, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Op: ast.Sub, LHS: lhs, RHS: rhs}, nil
	default:
		return lhs, nil
	}
}

// parseMultiplicative parses `expression2 := expression3 (('*'|'/') expression2)?`.
func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	switch p.s.peek(0).Type {
	case token.Star:
		p.s.get()
		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Op: ast.Mul, LHS: lhs, RHS: rhs}, nil
	case token.Slash:
		p.s.get()
		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		return &ast.Binary{Op: ast.Div, LHS: lhs, RHS: rhs}, nil
	default:
		return lhs, nil
	}
}

// parseUnary parses `expression3 := '-' expression3 | expression4`.
func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.s.peek(0).Type == token.Minus {
		p.s.get()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Neg{Inner: inner}, nil
	}
	return p.parsePrimary()
}

// parsePrimary parses `expression4`: a literal, an identifier, a call,
// or a parenthesised expression.
func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.s.peek(0)

	switch tok.Type {
	case token.Error:
		return nil, lexErr(tok)

	case token.DoubleLiteral:
		p.s.get()
		val, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("parse error: invalid double literal %q", tok.Literal)
		}
		return &ast.LiteralDouble{Value: val}, nil

	case token.LParen:
		p.s.get()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return &ast.Parenthesised{Inner: inner}, nil

	case token.Identifier:
		name := p.s.get().Literal
		if p.s.peek(0).Type != token.LParen {
			return &ast.Ident{Name: name}, nil
		}
		p.s.get() // '('

		var args []ast.Expression
		if p.s.peek(0).Type != token.RParen {
			for {
				arg, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)

				if p.s.peek(0).Type != token.Comma {
					break
				}
				p.s.get()
			}
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		return &ast.Call{Name: name, Args: args}, nil

	default:
		return nil, unexpected("an expression", tok)
	}
}

// expect consumes and returns the next token, failing if it is not of
// the required type.
func (p *Parser) expect(want token.Type) (token.Token, error) {
	tok := p.s.peek(0)
	if tok.Type == token.Error {
		return token.Token{}, lexErr(tok)
	}
	if tok.Type != want {
		return token.Token{}, unexpected(want.String(), tok)
	}
	return p.s.get(), nil
}

// unexpected builds the single parser-error category's message,
// containing the offending token, per §4.2.
func unexpected(want string, got token.Token) error {
	return fmt.Errorf("parse error: expected %s, got %s", want, got)
}

// lexErr surfaces a lexer failure flowing through as its own token,
// attributing the lexer's message (§7).
func lexErr(tok token.Token) error {
	return fmt.Errorf("parse error: lexer failure: %s", tok.Literal)
}
