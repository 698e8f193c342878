package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Render produces a tree dump of p: one line per node, children indented
// two spaces below their parent. It is used for debugging and for the
// parser's round-trip tests (§6, §8).
func Render(p Program) string {
	var b strings.Builder
	for _, def := range p.Definitions {
		renderDefinition(&b, def, 0)
	}
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func renderDefinition(b *strings.Builder, def Definition, depth int) {
	switch d := def.(type) {
	case *Function:
		indent(b, depth)
		fmt.Fprintf(b, "Function %s(%s)\n", d.Name, strings.Join(d.Params, ", "))
		for _, stmt := range d.Body {
			renderStatement(b, stmt, depth+1)
		}
	case *Variable:
		indent(b, depth)
		b.WriteString("Variable\n")
		renderStatement(b, &d.Assign, depth+1)
	default:
		indent(b, depth)
		fmt.Fprintf(b, "<unknown definition %T>\n", def)
	}
}

func renderStatement(b *strings.Builder, stmt Statement, depth int) {
	switch s := stmt.(type) {
	case *Return:
		indent(b, depth)
		b.WriteString("Return\n")
		renderExpression(b, s.Value, depth+1)
	case *Discard:
		indent(b, depth)
		b.WriteString("Discard\n")
		renderExpression(b, s.Expr, depth+1)
	case *Assign:
		indent(b, depth)
		fmt.Fprintf(b, "Assign %s\n", s.Name)
		renderExpression(b, s.Value, depth+1)
	default:
		indent(b, depth)
		fmt.Fprintf(b, "<unknown statement %T>\n", stmt)
	}
}

func renderExpression(b *strings.Builder, expr Expression, depth int) {
	switch e := expr.(type) {
	case *LiteralDouble:
		indent(b, depth)
		fmt.Fprintf(b, "LiteralDouble %s\n", strconv.FormatFloat(e.Value, 'g', -1, 64))
	case *Ident:
		indent(b, depth)
		fmt.Fprintf(b, "Ident %s\n", e.Name)
	case *Parenthesised:
		indent(b, depth)
		b.WriteString("Parenthesised\n")
		renderExpression(b, e.Inner, depth+1)
	case *Call:
		indent(b, depth)
		fmt.Fprintf(b, "Call %s\n", e.Name)
		for _, a := range e.Args {
			renderExpression(b, a, depth+1)
		}
	case *Neg:
		indent(b, depth)
		b.WriteString("Neg\n")
		renderExpression(b, e.Inner, depth+1)
	case *Binary:
		indent(b, depth)
		fmt.Fprintf(b, "Binary %s\n", e.Op)
		renderExpression(b, e.LHS, depth+1)
		renderExpression(b, e.RHS, depth+1)
	default:
		indent(b, depth)
		fmt.Fprintf(b, "<unknown expression %T>\n", expr)
	}
}

// Source renders p back into the concrete syntax it was parsed from, up
// to whitespace, so that parse(Source(p)) can be compared against p for
// the round-trip property of §8.
func Source(p Program) string {
	var b strings.Builder
	for _, def := range p.Definitions {
		sourceDefinition(&b, def)
	}
	return b.String()
}

func sourceDefinition(b *strings.Builder, def Definition) {
	switch d := def.(type) {
	case *Function:
		fmt.Fprintf(b, "%s(%s){", d.Name, strings.Join(d.Params, ","))
		for _, stmt := range d.Body {
			sourceStatement(b, stmt)
		}
		b.WriteString("}")
	case *Variable:
		sourceStatement(b, &d.Assign)
	}
}

func sourceStatement(b *strings.Builder, stmt Statement) {
	switch s := stmt.(type) {
	case *Return:
		b.WriteString("return ")
		sourceExpression(b, s.Value)
		b.WriteString(";")
	case *Discard:
		sourceExpression(b, s.Expr)
		b.WriteString(";")
	case *Assign:
		fmt.Fprintf(b, "%s=", s.Name)
		sourceExpression(b, s.Value)
		b.WriteString(";")
	}
}

func sourceExpression(b *strings.Builder, expr Expression) {
	switch e := expr.(type) {
	case *LiteralDouble:
		b.WriteString(formatDoubleLiteral(e.Value))
	case *Ident:
		b.WriteString(e.Name)
	case *Parenthesised:
		b.WriteString("(")
		sourceExpression(b, e.Inner)
		b.WriteString(")")
	case *Call:
		fmt.Fprintf(b, "%s(", e.Name)
		for i, a := range e.Args {
			if i > 0 {
				b.WriteString(",")
			}
			sourceExpression(b, a)
		}
		b.WriteString(")")
	case *Neg:
		b.WriteString("-")
		sourceExpression(b, e.Inner)
	case *Binary:
		sourceExpression(b, e.LHS)
		b.WriteString(e.Op.String())
		sourceExpression(b, e.RHS)
	}
}

// formatDoubleLiteral renders a double so that it re-lexes as a
// DoubleLiteral: both sides of the '.' must be non-empty digit runs
// (§4.1), so a value that happens to be a whole number still needs an
// explicit ".0".
func formatDoubleLiteral(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
