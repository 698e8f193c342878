package ast

import (
	"strings"
	"testing"
)

func TestRenderFunction(t *testing.T) {
	prog := Program{Definitions: []Definition{
		&Function{
			Name:   "add",
			Params: []string{"a", "b"},
			Body: []Statement{
				&Return{Value: &Binary{Op: Add, LHS: &Ident{Name: "a"}, RHS: &Ident{Name: "b"}}},
			},
		},
	}}

	out := Render(prog)
	if !strings.Contains(out, "Function add(a, b)") {
		t.Errorf("expected function header in render, got:\n%s", out)
	}
	if !strings.Contains(out, "Binary +") {
		t.Errorf("expected binary operator in render, got:\n%s", out)
	}
}

func TestEqualPositional(t *testing.T) {
	a := Program{Definitions: []Definition{
		&Variable{Assign: Assign{Name: "x", Value: &LiteralDouble{Value: 1}}},
		&Variable{Assign: Assign{Name: "y", Value: &LiteralDouble{Value: 2}}},
	}}
	b := Program{Definitions: []Definition{
		&Variable{Assign: Assign{Name: "y", Value: &LiteralDouble{Value: 2}}},
		&Variable{Assign: Assign{Name: "x", Value: &LiteralDouble{Value: 1}}},
	}}

	if Equal(a, a) == false {
		t.Errorf("expected a program to equal itself")
	}
	if Equal(a, b) {
		t.Errorf("expected definition order to matter")
	}
}

func TestSourceRoundTripShape(t *testing.T) {
	prog := Program{Definitions: []Definition{
		&Function{
			Name:   "f",
			Params: []string{"x"},
			Body: []Statement{
				&Return{Value: &Binary{
					Op:  Add,
					LHS: &LiteralDouble{Value: 1},
					RHS: &Binary{Op: Mul, LHS: &LiteralDouble{Value: 3}, RHS: &LiteralDouble{Value: 4}},
				}},
			},
		},
	}}

	src := Source(prog)
	if !strings.Contains(src, "f(x){return 1.0+3.0*4.0;}") {
		t.Errorf("unexpected rendered source: %q", src)
	}
}
